package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/wordweave/backend/internal/domain"
	"github.com/wordweave/backend/internal/service/card"
)

type cardService interface {
	Create(ctx context.Context, in card.CreateInput) (*domain.Card, error)
	Get(ctx context.Context, cardID uuid.UUID) (*domain.Card, error)
	List(ctx context.Context, filter domain.CardFilter) ([]domain.Card, error)
	Update(ctx context.Context, cardID uuid.UUID, in card.UpdateInput) (*domain.Card, error)
	Delete(ctx context.Context, cardID uuid.UUID) error
	Unlock(ctx context.Context, cardID uuid.UUID) (*card.UnlockResult, error)
	GenerateExtras(ctx context.Context, cardID uuid.UUID, mode domain.ExtrasMode, force bool) (*card.ExtrasResult, error)
}

// CardHandler serves card REST endpoints.
type CardHandler struct {
	svc cardService
	log *slog.Logger
}

// NewCardHandler creates a CardHandler.
func NewCardHandler(svc cardService, logger *slog.Logger) *CardHandler {
	return &CardHandler{svc: svc, log: logger.With("handler", "card")}
}

type cardResponse struct {
	ID           uuid.UUID            `json:"id"`
	DeckID       uuid.UUID            `json:"deckId"`
	Word         string               `json:"word"`
	PartOfSpeech domain.PartOfSpeech  `json:"partOfSpeech"`
	Meaning      string               `json:"meaning"`
	Examples     []domain.ExampleItem `json:"examples,omitempty"`
	Unlocked     bool                 `json:"unlocked"`
	IsMastered   bool                 `json:"isMastered"`
	CreatedAt    time.Time            `json:"createdAt"`
	UpdatedAt    time.Time            `json:"updatedAt"`
}

func toCardResponse(c *domain.Card) cardResponse {
	return cardResponse{
		ID:           c.ID,
		DeckID:       c.DeckID,
		Word:         c.Word,
		PartOfSpeech: c.PartOfSpeech,
		Meaning:      c.Meaning,
		Examples:     c.Examples,
		Unlocked:     c.Unlocked,
		IsMastered:   c.IsMastered,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

type createCardRequest struct {
	DeckID       uuid.UUID            `json:"deckId"`
	Word         string               `json:"word"`
	PartOfSpeech domain.PartOfSpeech  `json:"partOfSpeech"`
	Meaning      string               `json:"meaning"`
	Examples     []domain.ExampleItem `json:"examples"`
}

// Create adds a card.
// POST /api/cards
func (h *CardHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCardRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(h.log, w, r, err)
		return
	}

	c, err := h.svc.Create(r.Context(), card.CreateInput{
		DeckID:       req.DeckID,
		Word:         req.Word,
		PartOfSpeech: req.PartOfSpeech,
		Meaning:      req.Meaning,
		Examples:     req.Examples,
	})
	if err != nil {
		writeDomainError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toCardResponse(c))
}

// Get returns one card.
// GET /api/cards/{id}
func (h *CardHandler) Get(w http.ResponseWriter, r *http.Request) {
	cardID, err := pathID(r)
	if err != nil {
		writeDomainError(h.log, w, r, err)
		return
	}

	c, err := h.svc.Get(r.Context(), cardID)
	if err != nil {
		writeDomainError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toCardResponse(c))
}

// List returns the caller's cards.
// GET /api/cards?deckId=&mastered=&search=&limit=&offset=
func (h *CardHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseCardFilter(r)
	if err != nil {
		writeDomainError(h.log, w, r, err)
		return
	}

	cards, err := h.svc.List(r.Context(), filter)
	if err != nil {
		writeDomainError(h.log, w, r, err)
		return
	}

	out := make([]cardResponse, 0, len(cards))
	for i := range cards {
		out = append(out, toCardResponse(&cards[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{"cards": out})
}

type updateCardRequest struct {
	Word         *string              `json:"word"`
	PartOfSpeech *domain.PartOfSpeech `json:"partOfSpeech"`
	Meaning      *string              `json:"meaning"`
	IsMastered   *bool                `json:"isMastered"`
}

// Update applies a partial edit to a card.
// PATCH /api/cards/{id}
func (h *CardHandler) Update(w http.ResponseWriter, r *http.Request) {
	cardID, err := pathID(r)
	if err != nil {
		writeDomainError(h.log, w, r, err)
		return
	}

	var req updateCardRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(h.log, w, r, err)
		return
	}

	c, err := h.svc.Update(r.Context(), cardID, card.UpdateInput{
		Word:         req.Word,
		PartOfSpeech: req.PartOfSpeech,
		Meaning:      req.Meaning,
		IsMastered:   req.IsMastered,
	})
	if err != nil {
		writeDomainError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toCardResponse(c))
}

// Delete removes a card.
// DELETE /api/cards/{id}
func (h *CardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	cardID, err := pathID(r)
	if err != nil {
		writeDomainError(h.log, w, r, err)
		return
	}

	if err := h.svc.Delete(r.Context(), cardID); err != nil {
		writeDomainError(h.log, w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type unlockResponse struct {
	RemainingCredits int `json:"remainingCredits"`
}

// Unlock reveals a card's supplementary content.
// POST /api/cards/{id}/unlock
func (h *CardHandler) Unlock(w http.ResponseWriter, r *http.Request) {
	cardID, err := pathID(r)
	if err != nil {
		writeDomainError(h.log, w, r, err)
		return
	}

	result, err := h.svc.Unlock(r.Context(), cardID)
	if err != nil {
		writeDomainError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, unlockResponse{RemainingCredits: result.RemainingCredits})
}

type extrasRequest struct {
	Mode  domain.ExtrasMode `json:"mode"`
	Force bool              `json:"force"`
}

type extrasResponse struct {
	Entry            *domain.DictionaryEntry `json:"entry"`
	Cached           bool                    `json:"cached"`
	RemainingCredits int                     `json:"remainingCredits"`
}

// Extras generates supplementary content for a card.
// POST /api/cards/{id}/extras
func (h *CardHandler) Extras(w http.ResponseWriter, r *http.Request) {
	cardID, err := pathID(r)
	if err != nil {
		writeDomainError(h.log, w, r, err)
		return
	}

	req := extrasRequest{Mode: domain.ExtrasModeExamples}
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeDomainError(h.log, w, r, err)
			return
		}
	}

	result, err := h.svc.GenerateExtras(r.Context(), cardID, req.Mode, req.Force)
	if err != nil {
		writeDomainError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, extrasResponse{
		Entry:            result.Entry,
		Cached:           result.Cached,
		RemainingCredits: result.RemainingCredits,
	})
}

func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, domain.NewValidationError("id", "must be a UUID")
	}
	return id, nil
}

func parseCardFilter(r *http.Request) (domain.CardFilter, error) {
	var filter domain.CardFilter
	q := r.URL.Query()

	if v := q.Get("deckId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return filter, domain.NewValidationError("deckId", "must be a UUID")
		}
		filter.DeckID = &id
	}
	if v := q.Get("mastered"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return filter, domain.NewValidationError("mastered", "must be a boolean")
		}
		filter.IsMastered = &b
	}
	filter.Search = q.Get("search")
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return filter, domain.NewValidationError("limit", "must be a non-negative integer")
		}
		filter.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return filter, domain.NewValidationError("offset", "must be a non-negative integer")
		}
		filter.Offset = n
	}
	return filter, nil
}
