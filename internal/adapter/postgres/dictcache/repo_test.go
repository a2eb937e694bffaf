package dictcache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wordweave/backend/internal/domain"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestRepo_Lookup(t *testing.T) {
	mock := newMock(t)
	repo := New(mock)

	now := time.Now()
	payload, err := json.Marshal(domain.DictionaryEntry{
		Term:         "apple",
		Word:         "apple",
		PartOfSpeech: domain.PartOfSpeechNoun,
		Meaning:      "[fruit] a round fruit",
	})
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT term, payload, created_at, updated_at FROM dictionary_entries`).
		WithArgs("apple", "banana").
		WillReturnRows(pgxmock.NewRows([]string{"term", "payload", "created_at", "updated_at"}).
			AddRow("apple", payload, now, now))

	got, err := repo.Lookup(context.Background(), []string{"apple", "banana"})
	require.NoError(t, err)

	require.Len(t, got, 1)
	entry, ok := got["apple"]
	require.True(t, ok)
	assert.Equal(t, "apple", entry.Term)
	assert.Equal(t, domain.PartOfSpeechNoun, entry.PartOfSpeech)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_Lookup_EmptyTerms(t *testing.T) {
	mock := newMock(t)
	repo := New(mock)

	got, err := repo.Lookup(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_Upsert(t *testing.T) {
	mock := newMock(t)
	repo := New(mock)

	entry := domain.DictionaryEntry{
		Term:         "Give Up",
		Word:         "give up",
		PartOfSpeech: domain.PartOfSpeechPhrase,
		Meaning:      "[stop trying] to stop doing something",
	}

	mock.ExpectExec(`INSERT INTO dictionary_entries`).
		WithArgs("give up", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Upsert(context.Background(), entry))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_Upsert_EmptyTerm(t *testing.T) {
	mock := newMock(t)
	repo := New(mock)

	err := repo.Upsert(context.Background(), domain.DictionaryEntry{Term: "   "})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
