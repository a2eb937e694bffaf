// Package dictcache implements the dictionary cache repository: a persistent
// key/value store of generated dictionary entries keyed by canonical term.
package dictcache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	postgres "github.com/wordweave/backend/internal/adapter/postgres"
	"github.com/wordweave/backend/internal/domain"
)

// Repo provides dictionary entry persistence backed by PostgreSQL.
type Repo struct {
	db postgres.DB
	sb sq.StatementBuilderType
}

// New creates a new dictionary cache repository.
func New(db postgres.DB) *Repo {
	return &Repo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Lookup returns the cached entries for the given terms, keyed by term.
// Terms with no cached entry are simply absent from the result; matching
// zero terms is not an error.
func (r *Repo) Lookup(ctx context.Context, terms []string) (map[string]domain.DictionaryEntry, error) {
	result := make(map[string]domain.DictionaryEntry, len(terms))
	if len(terms) == 0 {
		return result, nil
	}

	query, args, err := r.sb.
		Select("term", "payload", "created_at", "updated_at").
		From("dictionary_entries").
		Where(sq.Eq{"term": terms}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build lookup query: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.db)
	rows, err := querier.Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, "dictionary entries", len(terms))
	}
	defer rows.Close()

	for rows.Next() {
		var (
			term      string
			payload   []byte
			createdAt time.Time
			updatedAt time.Time
		)
		if err := rows.Scan(&term, &payload, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan dictionary entry: %w", err)
		}

		var entry domain.DictionaryEntry
		if err := json.Unmarshal(payload, &entry); err != nil {
			return nil, fmt.Errorf("decode payload for %q: %w", term, err)
		}
		entry.Term = term
		entry.CreatedAt = createdAt
		entry.UpdatedAt = updatedAt
		result[term] = entry
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate dictionary entries: %w", err)
	}

	return result, nil
}

const upsertSQL = `
INSERT INTO dictionary_entries (term, payload, created_at, updated_at)
VALUES ($1, $2, now(), now())
ON CONFLICT (term) DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()`

// Upsert creates the entry if absent or replaces its payload if present.
// Last write wins; callers merging partial updates must read-modify-write.
func (r *Repo) Upsert(ctx context.Context, entry domain.DictionaryEntry) error {
	term := domain.NormalizeTerm(entry.Term)
	if term == "" {
		return domain.NewValidationError("term", "required")
	}
	entry.Term = term

	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode payload for %q: %w", term, err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.db)
	if _, err := querier.Exec(ctx, upsertSQL, term, payload); err != nil {
		return postgres.MapError(err, "dictionary entry", term)
	}
	return nil
}
