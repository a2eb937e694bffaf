package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/wordweave/backend/internal/domain"
)

// errorResponse is the JSON error envelope for every non-2xx response.
type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`

	// Quota errors carry the exact shortfall so clients can render
	// "need N more credits" without a second request.
	Required  *int `json:"required,omitempty"`
	Available *int `json:"available,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

// writeDomainError maps a service error onto its HTTP status and envelope.
// Unknown errors are logged and collapsed into an opaque 500.
func writeDomainError(log *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	var quotaErr *domain.QuotaError
	if errors.As(err, &quotaErr) {
		writeJSON(w, http.StatusPaymentRequired, errorResponse{Error: errorBody{
			Code:      "QUOTA_EXCEEDED",
			Message:   quotaErr.Error(),
			Required:  &quotaErr.Required,
			Available: &quotaErr.Available,
		}})
		return
	}

	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: errorBody{
			Code:    "VALIDATION",
			Message: validationErr.Error(),
		}})
		return
	}

	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "FORBIDDEN", "access denied")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "resource not found")
	case errors.Is(err, domain.ErrQuotaExceeded):
		writeError(w, http.StatusPaymentRequired, "QUOTA_EXCEEDED", "not enough credits")
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrAlreadyExists):
		writeError(w, http.StatusConflict, "CONFLICT", "resource conflict")
	case errors.Is(err, domain.ErrGenerationFailed):
		writeError(w, http.StatusBadGateway, "GENERATION_FAILED", "generation backend unavailable")
	default:
		log.ErrorContext(r.Context(), "unhandled error", slog.String("error", err.Error()),
			slog.String("path", r.URL.Path))
		writeError(w, http.StatusInternalServerError, "INTERNAL", "internal server error")
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: errorBody{Code: code, Message: message}})
}

// decodeJSON reads a request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return domain.NewValidationError("body", "malformed JSON")
	}
	return nil
}
