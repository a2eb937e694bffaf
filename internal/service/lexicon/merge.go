package lexicon

import "github.com/wordweave/backend/internal/domain"

// merge combines cache hits with freshly generated entries and computes the
// billable unit count. Billing is per distinct canonical term resolved:
// cache hits cost one unit each, same as generated entries (the product's
// "dictionary lookup" model).
//
// Order is hits followed by newly generated entries, NOT the original input
// order; callers that need input order must re-project themselves.
func merge(hits, generated []domain.DictionaryEntry) ([]domain.DictionaryEntry, int) {
	entries := make([]domain.DictionaryEntry, 0, len(hits)+len(generated))
	entries = append(entries, hits...)
	entries = append(entries, generated...)
	return entries, len(hits) + len(generated)
}
