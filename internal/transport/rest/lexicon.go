package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/wordweave/backend/internal/domain"
	"github.com/wordweave/backend/internal/service/lexicon"
)

type lexiconService interface {
	GenerateEntries(ctx context.Context, rawText string) (*lexicon.GenerateResult, error)
}

// LexiconHandler serves word list generation endpoints.
type LexiconHandler struct {
	svc lexiconService
	log *slog.Logger
}

// NewLexiconHandler creates a LexiconHandler.
func NewLexiconHandler(svc lexiconService, logger *slog.Logger) *LexiconHandler {
	return &LexiconHandler{svc: svc, log: logger.With("handler", "lexicon")}
}

type generateRequest struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Entries          []domain.DictionaryEntry `json:"entries"`
	UnitCount        int                      `json:"unitCount"`
	RemainingCredits int                      `json:"remainingCredits"`
}

// Generate resolves a raw word list into dictionary entries.
// POST /api/words/generate
func (h *LexiconHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(h.log, w, r, err)
		return
	}

	result, err := h.svc.GenerateEntries(r.Context(), req.Text)
	if err != nil {
		writeDomainError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, generateResponse{
		Entries:          result.Entries,
		UnitCount:        result.UnitCount,
		RemainingCredits: result.RemainingCredits,
	})
}
