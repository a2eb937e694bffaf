package card

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// UnlockResult reports the balance after an unlock.
type UnlockResult struct {
	RemainingCredits int
}

// Unlock reveals a card's supplementary content for a flat credit cost.
// The fetch-check-decrement-mutate sequence runs as one transaction so a
// concurrent request cannot observe a stale balance and double-spend.
// Unlocking an already-unlocked card is idempotent: success, no debit.
func (s *Service) Unlock(ctx context.Context, cardID uuid.UUID) (*UnlockResult, error) {
	var remaining int

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		c, userID, err := s.ownedCard(txCtx, cardID)
		if err != nil {
			return err
		}

		if c.Unlocked {
			account, err := s.ledger.Account(txCtx, userID)
			if err != nil {
				return fmt.Errorf("load account: %w", err)
			}
			remaining = account.Credits
			return nil
		}

		remaining, err = s.ledger.DebitWithin(txCtx, userID, s.cfg.UnlockCost)
		if err != nil {
			return err
		}

		c.Unlocked = true
		if _, err := s.cards.Update(txCtx, c); err != nil {
			return fmt.Errorf("update card: %w", err)
		}

		s.log.InfoContext(txCtx, "card unlocked",
			slog.String("card_id", cardID.String()),
			slog.Int("remaining", remaining))
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &UnlockResult{RemainingCredits: remaining}, nil
}
