package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is an account holder. Credit and subscription fields form the
// consumable-credit account debited by the credit ledger; no other
// component mutates them.
type User struct {
	ID                 uuid.UUID
	Email              string
	Username           string
	Credits            int
	SubscriptionPlan   SubscriptionPlan
	SubscriptionStatus SubscriptionStatus
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// IsUnlimited reports whether the account bypasses credit debits:
// the unlimited tier with an active subscription.
func (u User) IsUnlimited() bool {
	return u.SubscriptionPlan == PlanUnlimited && u.SubscriptionStatus == SubscriptionActive
}
