// Package card implements word card business logic: ownership-checked CRUD
// plus the credit-consuming unlock and extras-generation flows.
package card

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/wordweave/backend/internal/config"
	"github.com/wordweave/backend/internal/domain"
	"github.com/wordweave/backend/pkg/ctxutil"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type cardRepo interface {
	GetByID(ctx context.Context, cardID uuid.UUID) (*domain.Card, error)
	Create(ctx context.Context, c *domain.Card) (*domain.Card, error)
	Update(ctx context.Context, c *domain.Card) (*domain.Card, error)
	Delete(ctx context.Context, cardID uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, filter domain.CardFilter) ([]domain.Card, error)
}

type termResolver interface {
	ResolveTerm(ctx context.Context, term string, force bool) (*domain.DictionaryEntry, bool, error)
}

type creditLedger interface {
	Account(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	CheckAffordable(ctx context.Context, userID uuid.UUID, units int) error
	DebitWithin(ctx context.Context, userID uuid.UUID, units int) (int, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements card business logic.
type Service struct {
	log      *slog.Logger
	cards    cardRepo
	resolver termResolver
	ledger   creditLedger
	tx       txManager
	cfg      config.CreditsConfig
}

// NewService creates a card service.
func NewService(
	logger *slog.Logger,
	cards cardRepo,
	resolver termResolver,
	ledger creditLedger,
	tx txManager,
	cfg config.CreditsConfig,
) *Service {
	return &Service{
		log:      logger.With("service", "card"),
		cards:    cards,
		resolver: resolver,
		ledger:   ledger,
		tx:       tx,
		cfg:      cfg,
	}
}

// ownedCard loads a card and verifies the caller owns it. A card that exists
// but belongs to someone else is an explicit Forbidden, never a silent no-op.
func (s *Service) ownedCard(ctx context.Context, cardID uuid.UUID) (*domain.Card, uuid.UUID, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, uuid.Nil, domain.ErrUnauthorized
	}

	c, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		return nil, uuid.Nil, err
	}
	if c.UserID != userID {
		return nil, uuid.Nil, domain.ErrForbidden
	}
	return c, userID, nil
}
