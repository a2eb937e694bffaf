package card

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/wordweave/backend/internal/domain"
	"github.com/wordweave/backend/pkg/ctxutil"
)

const maxListLimit = 200

// CreateInput carries the fields a user supplies for a new card.
type CreateInput struct {
	DeckID       uuid.UUID
	Word         string
	PartOfSpeech domain.PartOfSpeech
	Meaning      string
	Examples     []domain.ExampleItem
}

// Create adds a card for the authenticated user.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Card, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	in.Word = strings.TrimSpace(in.Word)
	if in.Word == "" {
		return nil, domain.NewValidationError("word", "must not be empty")
	}
	if in.DeckID == uuid.Nil {
		return nil, domain.NewValidationError("deckId", "required")
	}
	if in.PartOfSpeech == "" {
		in.PartOfSpeech = domain.PartOfSpeechOther
	}
	if !in.PartOfSpeech.IsValid() {
		return nil, domain.NewValidationError("partOfSpeech", "unknown value")
	}

	c := &domain.Card{
		ID:           uuid.New(),
		UserID:       userID,
		DeckID:       in.DeckID,
		Word:         in.Word,
		PartOfSpeech: in.PartOfSpeech,
		Meaning:      strings.TrimSpace(in.Meaning),
		Examples:     in.Examples,
	}
	return s.cards.Create(ctx, c)
}

// Get returns a single card owned by the caller.
func (s *Service) Get(ctx context.Context, cardID uuid.UUID) (*domain.Card, error) {
	c, _, err := s.ownedCard(ctx, cardID)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// List returns the caller's cards matching the filter.
func (s *Service) List(ctx context.Context, filter domain.CardFilter) ([]domain.Card, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if filter.Limit <= 0 || filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.cards.List(ctx, userID, filter)
}

// UpdateInput carries the user-editable card fields. Nil pointers leave the
// corresponding field untouched.
type UpdateInput struct {
	Word         *string
	PartOfSpeech *domain.PartOfSpeech
	Meaning      *string
	IsMastered   *bool
}

// Update applies a partial edit to a card owned by the caller.
func (s *Service) Update(ctx context.Context, cardID uuid.UUID, in UpdateInput) (*domain.Card, error) {
	c, _, err := s.ownedCard(ctx, cardID)
	if err != nil {
		return nil, err
	}

	if in.Word != nil {
		word := strings.TrimSpace(*in.Word)
		if word == "" {
			return nil, domain.NewValidationError("word", "must not be empty")
		}
		c.Word = word
	}
	if in.PartOfSpeech != nil {
		if !in.PartOfSpeech.IsValid() {
			return nil, domain.NewValidationError("partOfSpeech", "unknown value")
		}
		c.PartOfSpeech = *in.PartOfSpeech
	}
	if in.Meaning != nil {
		c.Meaning = strings.TrimSpace(*in.Meaning)
	}
	if in.IsMastered != nil {
		c.IsMastered = *in.IsMastered
	}

	return s.cards.Update(ctx, c)
}

// Delete removes a card owned by the caller.
func (s *Service) Delete(ctx context.Context, cardID uuid.UUID) error {
	if _, _, err := s.ownedCard(ctx, cardID); err != nil {
		return err
	}
	return s.cards.Delete(ctx, cardID)
}
