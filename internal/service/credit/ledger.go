// Package credit implements the consumable-credit ledger. It is the only
// component allowed to mutate a user's credit balance.
package credit

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/wordweave/backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type userRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	Debit(ctx context.Context, id uuid.UUID, amount int) (int, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Ledger
// ---------------------------------------------------------------------------

// Ledger checks and debits credit balances. Debits are atomic: the
// fetch-check-decrement sequence runs as one all-or-nothing unit, so a
// concurrent request can never observe a stale balance and double-spend.
type Ledger struct {
	log   *slog.Logger
	users userRepo
	tx    txManager
}

// NewLedger creates a credit ledger.
func NewLedger(logger *slog.Logger, users userRepo, tx txManager) *Ledger {
	return &Ledger{
		log:   logger.With("service", "credit"),
		users: users,
		tx:    tx,
	}
}

// Account returns the user's current credit account.
func (l *Ledger) Account(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return l.users.GetByID(ctx, userID)
}

// CheckAffordable is the non-binding fast-path check: it rejects early when
// the balance cannot possibly cover units. Passing it guarantees nothing;
// the binding check happens inside Debit.
func (l *Ledger) CheckAffordable(ctx context.Context, userID uuid.UUID, units int) error {
	account, err := l.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("load account: %w", err)
	}
	if account.IsUnlimited() {
		return nil
	}
	if account.Credits < units {
		return domain.NewQuotaError(units, account.Credits)
	}
	return nil
}

// Debit atomically decrements the user's balance by units and returns the
// new balance. An unlimited active subscription bypasses the debit entirely
// and returns the untouched balance. An insufficient balance surfaces as a
// QuotaError and nothing is decremented.
func (l *Ledger) Debit(ctx context.Context, userID uuid.UUID, units int) (int, error) {
	var remaining int
	err := l.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var txErr error
		remaining, txErr = l.DebitWithin(txCtx, userID, units)
		return txErr
	})
	if err != nil {
		return 0, err
	}
	return remaining, nil
}

// DebitWithin performs the debit on the caller's transaction context. Use it
// from flows that must bundle the debit with other mutations (unlock, card
// extras) into one transaction; everyone else calls Debit.
func (l *Ledger) DebitWithin(ctx context.Context, userID uuid.UUID, units int) (int, error) {
	account, err := l.users.GetByID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("load account: %w", err)
	}

	if account.IsUnlimited() {
		l.log.DebugContext(ctx, "debit bypassed for unlimited plan",
			slog.String("user_id", userID.String()),
			slog.Int("units", units))
		return account.Credits, nil
	}

	if units == 0 {
		return account.Credits, nil
	}

	remaining, err := l.users.Debit(ctx, userID, units)
	if err != nil {
		return 0, err
	}

	l.log.InfoContext(ctx, "credits debited",
		slog.String("user_id", userID.String()),
		slog.Int("units", units),
		slog.Int("remaining", remaining))
	return remaining, nil
}
