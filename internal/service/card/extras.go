package card

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/wordweave/backend/internal/domain"
)

// ExtrasResult is the outcome of an extras-generation request.
type ExtrasResult struct {
	Entry            *domain.DictionaryEntry
	Cached           bool
	RemainingCredits int
}

// GenerateExtras resolves the card's word against the dictionary cache
// (generating on miss, or unconditionally when force is set) and persists
// the supplementary examples onto the card. One unit is billed whether the
// entry came from the cache or fresh generation. The quota is validated
// before the billable backend call; the debit itself is bundled with the
// card mutation into a single transaction.
func (s *Service) GenerateExtras(ctx context.Context, cardID uuid.UUID, mode domain.ExtrasMode, force bool) (*ExtrasResult, error) {
	if !mode.IsValid() {
		return nil, domain.NewValidationError("mode", "unknown mode")
	}

	c, userID, err := s.ownedCard(ctx, cardID)
	if err != nil {
		return nil, err
	}

	if err := s.ledger.CheckAffordable(ctx, userID, s.cfg.ExtrasCost); err != nil {
		return nil, err
	}

	entry, cached, err := s.resolver.ResolveTerm(ctx, c.Word, force)
	if err != nil {
		return nil, err
	}

	var remaining int
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		remaining, err = s.ledger.DebitWithin(txCtx, userID, s.cfg.ExtrasCost)
		if err != nil {
			return err
		}

		c.Examples = entry.Examples
		if mode == domain.ExtrasModeDetail {
			c.PartOfSpeech = entry.PartOfSpeech
			c.Meaning = entry.Meaning
		}
		if _, err := s.cards.Update(txCtx, c); err != nil {
			return fmt.Errorf("update card: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "card extras generated",
		slog.String("card_id", cardID.String()),
		slog.Bool("cached", cached),
		slog.String("mode", string(mode)))

	return &ExtrasResult{
		Entry:            entry,
		Cached:           cached,
		RemainingCredits: remaining,
	}, nil
}
