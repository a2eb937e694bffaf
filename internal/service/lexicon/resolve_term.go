package lexicon

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wordweave/backend/internal/domain"
)

// ResolveTerm returns the dictionary entry for a single term: from the
// cache when present, freshly generated (and cached) otherwise. force skips
// the cache read and regenerates, replacing the stored payload
// (last-write-wins). The returned bool reports whether the cache served the
// entry. Billing is the caller's responsibility.
func (s *Service) ResolveTerm(ctx context.Context, rawTerm string, force bool) (*domain.DictionaryEntry, bool, error) {
	term := domain.NormalizeTerm(rawTerm)
	if term == "" {
		return nil, false, domain.NewValidationError("term", "required")
	}

	if !force {
		hitMap, err := s.cache.Lookup(ctx, []string{term})
		if err != nil {
			s.log.WarnContext(ctx, "cache lookup failed, regenerating",
				slog.String("term", term),
				slog.String("error", err.Error()))
		} else if entry, ok := hitMap[term]; ok {
			return &entry, true, nil
		}
	}

	generated, err := s.generator.Generate(ctx, []string{term})
	if err != nil {
		return nil, false, err
	}
	if len(generated) == 0 {
		return nil, false, fmt.Errorf("%w: no entry produced for %q", domain.ErrGenerationFailed, term)
	}

	return &generated[0], false, nil
}
