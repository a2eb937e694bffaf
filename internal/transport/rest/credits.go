package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/wordweave/backend/internal/domain"
	"github.com/wordweave/backend/pkg/ctxutil"
)

type creditService interface {
	Account(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

// CreditsHandler serves credit balance endpoints.
type CreditsHandler struct {
	svc creditService
	log *slog.Logger
}

// NewCreditsHandler creates a CreditsHandler.
func NewCreditsHandler(svc creditService, logger *slog.Logger) *CreditsHandler {
	return &CreditsHandler{svc: svc, log: logger.With("handler", "credits")}
}

type creditsResponse struct {
	Credits   int                       `json:"credits"`
	Plan      domain.SubscriptionPlan   `json:"plan"`
	Status    domain.SubscriptionStatus `json:"status"`
	Unlimited bool                      `json:"unlimited"`
}

// Get returns the caller's balance and plan.
// GET /api/credits
func (h *CreditsHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := ctxutil.UserIDFromCtx(r.Context())
	if !ok {
		writeDomainError(h.log, w, r, domain.ErrUnauthorized)
		return
	}

	user, err := h.svc.Account(r.Context(), userID)
	if err != nil {
		writeDomainError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, creditsResponse{
		Credits:   user.Credits,
		Plan:      user.SubscriptionPlan,
		Status:    user.SubscriptionStatus,
		Unlimited: user.IsUnlimited(),
	})
}
