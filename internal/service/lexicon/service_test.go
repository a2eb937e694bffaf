package lexicon

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wordweave/backend/internal/config"
	"github.com/wordweave/backend/internal/domain"
	"github.com/wordweave/backend/pkg/ctxutil"
)

// mockLedger is a moq-style credit ledger.
type mockLedger struct {
	AccountFunc         func(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	CheckAffordableFunc func(ctx context.Context, userID uuid.UUID, units int) error
	DebitFunc           func(ctx context.Context, userID uuid.UUID, units int) (int, error)

	debits []int
}

func (m *mockLedger) Account(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	if m.AccountFunc != nil {
		return m.AccountFunc(ctx, userID)
	}
	return nil, domain.ErrNotFound
}

func (m *mockLedger) CheckAffordable(ctx context.Context, userID uuid.UUID, units int) error {
	if m.CheckAffordableFunc != nil {
		return m.CheckAffordableFunc(ctx, userID, units)
	}
	return nil
}

func (m *mockLedger) Debit(ctx context.Context, userID uuid.UUID, units int) (int, error) {
	m.debits = append(m.debits, units)
	if m.DebitFunc != nil {
		return m.DebitFunc(ctx, userID, units)
	}
	return 0, nil
}

func newService(client generationClient, cache cacheRepo, ledger creditLedger) *Service {
	return NewService(testLogger(), client, cache, ledger, testLexCfg(),
		config.CreditsConfig{UnlockCost: 1, ExtrasCost: 1, MaxLines: 100})
}

func userCtx() (context.Context, uuid.UUID) {
	id := uuid.New()
	return ctxutil.WithUserID(context.Background(), id), id
}

func TestService_GenerateEntries_DuplicatesBillOnce(t *testing.T) {
	ctx, _ := userCtx()

	client := &mockClient{}
	client.CompleteFunc = func(ctx context.Context, system, user string) (string, error) {
		switch client.calls {
		case 1: // normalization
			return `{"items":["apple","apple","banana"]}`, nil
		case 2: // metadata
			return `{"words":[
				{"word":"apple","partOfSpeech":"NOUN","meaning":"[果物] りんご"},
				{"word":"banana","partOfSpeech":"NOUN","meaning":"[果物] バナナ"}
			]}`, nil
		default: // examples
			return `{"details":[]}`, nil
		}
	}
	cache := &mockCache{}
	ledger := &mockLedger{
		DebitFunc: func(ctx context.Context, userID uuid.UUID, units int) (int, error) {
			return 10 - units, nil
		},
	}
	svc := newService(client, cache, ledger)

	result, err := svc.GenerateEntries(ctx, "apple\nApple\nbanana")
	require.NoError(t, err)

	// Three raw lines, two distinct canonical terms: two units, not three.
	assert.Equal(t, 2, result.UnitCount)
	assert.Equal(t, 8, result.RemainingCredits)
	assert.Len(t, result.Entries, 2)
	assert.Equal(t, []int{2}, ledger.debits)
}

func TestService_GenerateEntries_WarmCacheSkipsBackend(t *testing.T) {
	ctx, _ := userCtx()

	warm := map[string]domain.DictionaryEntry{
		"apple":  {Term: "apple", Word: "apple"},
		"banana": {Term: "banana", Word: "banana"},
	}
	client := &mockClient{
		CompleteFunc: func(ctx context.Context, system, user string) (string, error) {
			// Only the normalization call may happen; generation must not.
			return `{"items":["apple","banana"]}`, nil
		},
	}
	cache := &mockCache{
		LookupFunc: func(ctx context.Context, terms []string) (map[string]domain.DictionaryEntry, error) {
			return warm, nil
		},
	}
	ledger := &mockLedger{
		DebitFunc: func(ctx context.Context, userID uuid.UUID, units int) (int, error) {
			return 3, nil
		},
	}
	svc := newService(client, cache, ledger)

	result, err := svc.GenerateEntries(ctx, "apple\nbanana")
	require.NoError(t, err)

	assert.Equal(t, 2, result.UnitCount)
	assert.Equal(t, 1, client.calls, "only the normalization call is allowed on a warm cache")
	assert.Empty(t, cache.upserts, "a warm cache run must not write to the cache")
}

func TestService_GenerateEntries_QuotaRejectedBeforeGeneration(t *testing.T) {
	ctx, _ := userCtx()

	client := &mockClient{
		CompleteFunc: func(ctx context.Context, system, user string) (string, error) {
			return `{"items":["apple","banana"]}`, nil
		},
	}
	cache := &mockCache{}
	ledger := &mockLedger{
		CheckAffordableFunc: func(ctx context.Context, userID uuid.UUID, units int) error {
			return domain.NewQuotaError(units, 1)
		},
	}
	svc := newService(client, cache, ledger)

	// 1 credit, 2 missing terms: rejected up front, nothing generated or cached.
	_, err := svc.GenerateEntries(ctx, "apple\nbanana")
	require.ErrorIs(t, err, domain.ErrQuotaExceeded)
	assert.Empty(t, cache.upserts)
	assert.Empty(t, ledger.debits)
	assert.Zero(t, client.calls, "pre-check fires before any backend call")
}

func TestService_GenerateEntries_MissCheckAfterLookup(t *testing.T) {
	ctx, _ := userCtx()

	var checks []int
	client := &mockClient{
		CompleteFunc: func(ctx context.Context, system, user string) (string, error) {
			return `{"items":["apple","banana","cherry"]}`, nil
		},
	}
	cache := &mockCache{
		LookupFunc: func(ctx context.Context, terms []string) (map[string]domain.DictionaryEntry, error) {
			return map[string]domain.DictionaryEntry{"apple": {Term: "apple"}}, nil
		},
	}
	ledger := &mockLedger{
		CheckAffordableFunc: func(ctx context.Context, userID uuid.UUID, units int) error {
			checks = append(checks, units)
			if len(checks) == 2 {
				return domain.NewQuotaError(units, 1)
			}
			return nil
		},
	}
	svc := newService(client, cache, ledger)

	_, err := svc.GenerateEntries(ctx, "apple\nbanana\ncherry")
	require.ErrorIs(t, err, domain.ErrQuotaExceeded)

	// First check: worst case (3 lines). Second check: the 2 misses only.
	assert.Equal(t, []int{3, 2}, checks)
	assert.Empty(t, cache.upserts)
}

func TestService_GenerateEntries_MetadataFailureNotBilled(t *testing.T) {
	ctx, _ := userCtx()

	client := &mockClient{}
	client.CompleteFunc = func(ctx context.Context, system, user string) (string, error) {
		if client.calls == 1 {
			return `{"items":["apple"]}`, nil
		}
		return "", errors.New("response error 500")
	}
	cache := &mockCache{}
	ledger := &mockLedger{}
	svc := newService(client, cache, ledger)

	_, err := svc.GenerateEntries(ctx, "apple")
	require.ErrorIs(t, err, domain.ErrGenerationFailed)
	assert.Empty(t, ledger.debits)
	assert.Empty(t, cache.upserts)
}

func TestService_GenerateEntries_ExamplesFailureStillBilled(t *testing.T) {
	ctx, _ := userCtx()

	client := &mockClient{}
	client.CompleteFunc = func(ctx context.Context, system, user string) (string, error) {
		switch client.calls {
		case 1:
			return `{"items":["apple"]}`, nil
		case 2:
			return `{"words":[{"word":"apple","partOfSpeech":"NOUN","meaning":"[果物] りんご"}]}`, nil
		default:
			return "", errors.New("response error 503")
		}
	}
	cache := &mockCache{}
	ledger := &mockLedger{
		DebitFunc: func(ctx context.Context, userID uuid.UUID, units int) (int, error) {
			return 9, nil
		},
	}
	svc := newService(client, cache, ledger)

	result, err := svc.GenerateEntries(ctx, "apple")
	require.NoError(t, err)

	require.Len(t, result.Entries, 1)
	assert.Empty(t, result.Entries[0].Examples)
	assert.Equal(t, 1, result.UnitCount)
	assert.Equal(t, []int{1}, ledger.debits, "metadata units are billed even when examples degrade")
}

func TestService_GenerateEntries_EmptyInputShortCircuits(t *testing.T) {
	ctx, _ := userCtx()

	client := &mockClient{}
	ledger := &mockLedger{}
	svc := newService(client, &mockCache{}, ledger)

	result, err := svc.GenerateEntries(ctx, "  \n\n ...\n")
	require.NoError(t, err)

	assert.Empty(t, result.Entries)
	assert.Zero(t, result.UnitCount)
	assert.Zero(t, client.calls)
	assert.Empty(t, ledger.debits)
}

func TestService_GenerateEntries_Unauthenticated(t *testing.T) {
	svc := newService(&mockClient{}, &mockCache{}, &mockLedger{})

	_, err := svc.GenerateEntries(context.Background(), "apple")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestService_GenerateEntries_TooManyLines(t *testing.T) {
	ctx, _ := userCtx()

	svc := NewService(testLogger(), &mockClient{}, &mockCache{}, &mockLedger{}, testLexCfg(),
		config.CreditsConfig{UnlockCost: 1, ExtrasCost: 1, MaxLines: 2})

	_, err := svc.GenerateEntries(ctx, "a\nb\nc")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestService_GenerateEntries_UpsertFailureSwallowed(t *testing.T) {
	ctx, _ := userCtx()

	client := &mockClient{}
	client.CompleteFunc = func(ctx context.Context, system, user string) (string, error) {
		switch client.calls {
		case 1:
			return `{"items":["apple"]}`, nil
		case 2:
			return `{"words":[{"word":"apple","partOfSpeech":"NOUN","meaning":"[果物] りんご"}]}`, nil
		default:
			return `{"details":[]}`, nil
		}
	}
	cache := &mockCache{
		UpsertFunc: func(ctx context.Context, entry domain.DictionaryEntry) error {
			return errors.New("storage unavailable")
		},
	}
	ledger := &mockLedger{
		DebitFunc: func(ctx context.Context, userID uuid.UUID, units int) (int, error) {
			return 4, nil
		},
	}
	svc := newService(client, cache, ledger)

	// Cache durability is best-effort: a failed upsert must not fail the request.
	result, err := svc.GenerateEntries(ctx, "apple")
	require.NoError(t, err)
	assert.Equal(t, 1, result.UnitCount)
}

func TestService_ResolveTerm(t *testing.T) {
	t.Run("cache hit", func(t *testing.T) {
		cache := &mockCache{
			LookupFunc: func(ctx context.Context, terms []string) (map[string]domain.DictionaryEntry, error) {
				return map[string]domain.DictionaryEntry{"apple": {Term: "apple", Word: "apple"}}, nil
			},
		}
		client := &mockClient{}
		svc := newService(client, cache, &mockLedger{})

		entry, cached, err := svc.ResolveTerm(context.Background(), "Apple", false)
		require.NoError(t, err)
		assert.True(t, cached)
		assert.Equal(t, "apple", entry.Term)
		assert.Zero(t, client.calls)
	})

	t.Run("force regenerates", func(t *testing.T) {
		client := &mockClient{}
		client.CompleteFunc = func(ctx context.Context, system, user string) (string, error) {
			if client.calls == 1 {
				return `{"words":[{"word":"apple","partOfSpeech":"NOUN","meaning":"[果物] りんご"}]}`, nil
			}
			return `{"details":[]}`, nil
		}
		cache := &mockCache{
			LookupFunc: func(ctx context.Context, terms []string) (map[string]domain.DictionaryEntry, error) {
				t.Fatal("force must skip the cache read")
				return nil, nil
			},
		}
		svc := newService(client, cache, &mockLedger{})

		entry, cached, err := svc.ResolveTerm(context.Background(), "apple", true)
		require.NoError(t, err)
		assert.False(t, cached)
		assert.Equal(t, "apple", entry.Term)
		assert.Len(t, cache.upserts, 1)
	})

	t.Run("empty term", func(t *testing.T) {
		svc := newService(&mockClient{}, &mockCache{}, &mockLedger{})
		_, _, err := svc.ResolveTerm(context.Background(), "  ", false)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}
