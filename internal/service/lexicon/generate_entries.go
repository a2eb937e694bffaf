package lexicon

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wordweave/backend/internal/domain"
	"github.com/wordweave/backend/pkg/ctxutil"
)

// GenerateResult is the outcome of one pipeline run.
type GenerateResult struct {
	Entries          []domain.DictionaryEntry
	UnitCount        int
	RemainingCredits int
}

// GenerateEntries resolves a raw free-text word list into structured
// dictionary entries: normalize, look up the cache, generate the misses,
// merge, debit. Quota is validated before any billable backend call and the
// debit is the last step, so a failed debit never follows a returned payload.
func (s *Service) GenerateEntries(ctx context.Context, rawText string) (*GenerateResult, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	lines := SplitLines(rawText)
	if len(lines) == 0 {
		// Nothing to resolve; short-circuit at zero cost.
		return &GenerateResult{Entries: []domain.DictionaryEntry{}}, nil
	}
	if len(lines) > s.cfg.MaxLines {
		return nil, domain.NewValidationError("text", fmt.Sprintf("at most %d lines per request", s.cfg.MaxLines))
	}

	// Rough fast-path rejection against the worst case (every line distinct
	// and billable) before spending anything on normalization.
	if err := s.ledger.CheckAffordable(ctx, userID, len(lines)); err != nil {
		return nil, err
	}

	terms := s.normalizer.Normalize(ctx, lines)
	if len(terms) == 0 {
		return &GenerateResult{Entries: []domain.DictionaryEntry{}}, nil
	}

	hitMap, err := s.cache.Lookup(ctx, terms)
	if err != nil {
		// The cache is best-effort: treat an unavailable cache as all
		// misses and regenerate.
		s.log.WarnContext(ctx, "cache lookup failed, treating all terms as misses",
			slog.Int("terms", len(terms)),
			slog.String("error", err.Error()))
		hitMap = map[string]domain.DictionaryEntry{}
	}

	var (
		hits   []domain.DictionaryEntry
		misses []string
	)
	for _, term := range terms {
		if entry, ok := hitMap[term]; ok {
			hits = append(hits, entry)
		} else {
			misses = append(misses, term)
		}
	}

	// Second, miss-scoped check: the rough pre-check can pass while the
	// true generation need still exceeds the balance.
	if len(misses) > 0 {
		if err := s.ledger.CheckAffordable(ctx, userID, len(misses)); err != nil {
			return nil, err
		}
	}

	generated, err := s.generator.Generate(ctx, misses)
	if err != nil {
		return nil, err
	}

	entries, unitCount := merge(hits, generated)

	remaining, err := s.ledger.Debit(ctx, userID, unitCount)
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "entries generated",
		slog.String("user_id", userID.String()),
		slog.Int("hits", len(hits)),
		slog.Int("generated", len(generated)),
		slog.Int("units", unitCount))

	return &GenerateResult{
		Entries:          entries,
		UnitCount:        unitCount,
		RemainingCredits: remaining,
	}, nil
}
