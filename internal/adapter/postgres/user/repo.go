// Package user implements the user repository using PostgreSQL.
package user

import (
	"context"

	"github.com/google/uuid"

	postgres "github.com/wordweave/backend/internal/adapter/postgres"
	"github.com/wordweave/backend/internal/domain"
)

// Repo provides user and credit-account persistence backed by PostgreSQL.
type Repo struct {
	db postgres.DB
}

// New creates a new user repository.
func New(db postgres.DB) *Repo {
	return &Repo{db: db}
}

const getByIDSQL = `
SELECT id, email, username, credits, subscription_plan, subscription_status, created_at, updated_at
FROM users
WHERE id = $1`

// GetByID returns a user by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	querier := postgres.QuerierFromCtx(ctx, r.db)

	var (
		u      domain.User
		plan   string
		status string
	)
	err := querier.QueryRow(ctx, getByIDSQL, id).Scan(
		&u.ID, &u.Email, &u.Username, &u.Credits, &plan, &status, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "user", id)
	}

	u.SubscriptionPlan = domain.SubscriptionPlan(plan)
	u.SubscriptionStatus = domain.SubscriptionStatus(status)
	return &u, nil
}

const debitSQL = `
UPDATE users
SET credits = credits - $2, updated_at = now()
WHERE id = $1 AND credits >= $2
RETURNING credits`

const getCreditsSQL = `SELECT credits FROM users WHERE id = $1`

// Debit decrements the user's credit balance by amount in a single
// conditional statement. The WHERE clause carries the invariant: the balance
// never goes negative, even when two debits for the same user race: the
// loser re-evaluates the condition after the row lock and gets zero rows.
// Zero rows against an existing user surfaces as a QuotaError with the
// exact shortfall.
func (r *Repo) Debit(ctx context.Context, id uuid.UUID, amount int) (int, error) {
	if amount < 0 {
		return 0, domain.NewValidationError("amount", "must be non-negative")
	}

	querier := postgres.QuerierFromCtx(ctx, r.db)

	var balance int
	err := querier.QueryRow(ctx, debitSQL, id, amount).Scan(&balance)
	if err == nil {
		return balance, nil
	}

	// Condition failed or user missing: read the balance to tell them apart.
	var available int
	if lookupErr := querier.QueryRow(ctx, getCreditsSQL, id).Scan(&available); lookupErr != nil {
		return 0, postgres.MapError(lookupErr, "user", id)
	}
	return 0, domain.NewQuotaError(amount, available)
}
