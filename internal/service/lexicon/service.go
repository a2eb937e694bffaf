// Package lexicon implements the lexical generation pipeline: raw free-text
// word lists in, structured dictionary entries out, with a persistent
// term-keyed cache in front of the paid generation backend and a credit
// debit at the end.
package lexicon

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/wordweave/backend/internal/config"
	"github.com/wordweave/backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type generationClient interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

type cacheRepo interface {
	Lookup(ctx context.Context, terms []string) (map[string]domain.DictionaryEntry, error)
	Upsert(ctx context.Context, entry domain.DictionaryEntry) error
}

type creditLedger interface {
	CheckAffordable(ctx context.Context, userID uuid.UUID, units int) error
	Debit(ctx context.Context, userID uuid.UUID, units int) (int, error)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the generation pipeline business logic.
type Service struct {
	log        *slog.Logger
	normalizer *Normalizer
	generator  *Generator
	cache      cacheRepo
	ledger     creditLedger
	cfg        config.CreditsConfig
}

// NewService creates a lexicon service.
func NewService(
	logger *slog.Logger,
	client generationClient,
	cache cacheRepo,
	ledger creditLedger,
	lexCfg config.LexGenConfig,
	creditsCfg config.CreditsConfig,
) *Service {
	log := logger.With("service", "lexicon")
	return &Service{
		log:        log,
		normalizer: NewNormalizer(log, client, lexCfg),
		generator:  NewGenerator(log, client, cache, lexCfg),
		cache:      cache,
		ledger:     ledger,
		cfg:        creditsCfg,
	}
}
