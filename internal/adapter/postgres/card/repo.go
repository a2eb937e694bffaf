// Package card implements the word card repository using PostgreSQL.
// The legacy meaning column is packed/unpacked with the extension codec;
// callers only ever see the structured domain.Card fields.
package card

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	postgres "github.com/wordweave/backend/internal/adapter/postgres"
	"github.com/wordweave/backend/internal/domain"
)

// Repo provides card persistence backed by PostgreSQL.
type Repo struct {
	db postgres.DB
	sb sq.StatementBuilderType
}

// New creates a new card repository.
func New(db postgres.DB) *Repo {
	return &Repo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

const cardColumns = `id, user_id, deck_id, word, part_of_speech, meaning, is_mastered, created_at, updated_at`

const getByIDSQL = `
SELECT ` + cardColumns + `
FROM cards
WHERE id = $1`

// GetByID returns a card by primary key regardless of owner. Ownership is
// the service layer's concern: it distinguishes not-found from forbidden.
func (r *Repo) GetByID(ctx context.Context, cardID uuid.UUID) (*domain.Card, error) {
	querier := postgres.QuerierFromCtx(ctx, r.db)

	row := querier.QueryRow(ctx, getByIDSQL, cardID)
	c, err := scanCard(row)
	if err != nil {
		return nil, postgres.MapError(err, "card", cardID)
	}
	return c, nil
}

const insertSQL = `
INSERT INTO cards (id, user_id, deck_id, word, part_of_speech, meaning, is_mastered, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
RETURNING ` + cardColumns

// Create inserts a new card and returns the persisted record.
func (r *Repo) Create(ctx context.Context, c *domain.Card) (*domain.Card, error) {
	querier := postgres.QuerierFromCtx(ctx, r.db)

	meaning := encodeExtension(c.Meaning, c.Examples, c.Unlocked)
	row := querier.QueryRow(ctx, insertSQL,
		c.ID, c.UserID, c.DeckID, c.Word, c.PartOfSpeech.String(), meaning, c.IsMastered)

	created, err := scanCard(row)
	if err != nil {
		return nil, postgres.MapError(err, "card", c.ID)
	}
	return created, nil
}

const updateSQL = `
UPDATE cards
SET deck_id = $2, word = $3, part_of_speech = $4, meaning = $5, is_mastered = $6, updated_at = now()
WHERE id = $1
RETURNING ` + cardColumns

// Update rewrites all mutable fields of the card. Examples and the unlock
// flag are re-encoded into the meaning column.
func (r *Repo) Update(ctx context.Context, c *domain.Card) (*domain.Card, error) {
	querier := postgres.QuerierFromCtx(ctx, r.db)

	meaning := encodeExtension(c.Meaning, c.Examples, c.Unlocked)
	row := querier.QueryRow(ctx, updateSQL,
		c.ID, c.DeckID, c.Word, c.PartOfSpeech.String(), meaning, c.IsMastered)

	updated, err := scanCard(row)
	if err != nil {
		return nil, postgres.MapError(err, "card", c.ID)
	}
	return updated, nil
}

const deleteSQL = `DELETE FROM cards WHERE id = $1`

// Delete removes a card. Deleting a card never touches the dictionary
// cache: cache entries are term-scoped and outlive any individual card.
func (r *Repo) Delete(ctx context.Context, cardID uuid.UUID) error {
	querier := postgres.QuerierFromCtx(ctx, r.db)

	tag, err := querier.Exec(ctx, deleteSQL, cardID)
	if err != nil {
		return postgres.MapError(err, "card", cardID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("card %s: %w", cardID, domain.ErrNotFound)
	}
	return nil
}

// List returns the user's cards matching the filter, newest first.
func (r *Repo) List(ctx context.Context, userID uuid.UUID, filter domain.CardFilter) ([]domain.Card, error) {
	builder := r.sb.
		Select("id", "user_id", "deck_id", "word", "part_of_speech", "meaning", "is_mastered", "created_at", "updated_at").
		From("cards").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC")

	if filter.DeckID != nil {
		builder = builder.Where(sq.Eq{"deck_id": *filter.DeckID})
	}
	if filter.IsMastered != nil {
		builder = builder.Where(sq.Eq{"is_mastered": *filter.IsMastered})
	}
	if filter.Search != "" {
		builder = builder.Where(sq.ILike{"word": "%" + filter.Search + "%"})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.db)
	rows, err := querier.Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, "cards", userID)
	}
	defer rows.Close()

	var cards []domain.Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		cards = append(cards, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cards: %w", err)
	}

	return cards, nil
}

// scanCard reads one card row and decodes the legacy meaning column.
func scanCard(row pgx.Row) (*domain.Card, error) {
	var (
		c   domain.Card
		pos string
		raw string
	)
	err := row.Scan(&c.ID, &c.UserID, &c.DeckID, &c.Word, &pos, &raw, &c.IsMastered, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}

	c.PartOfSpeech = domain.PartOfSpeech(pos)
	c.Meaning, c.Examples, c.Unlocked = decodeExtension(raw)
	return &c, nil
}
