package lexicon

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wordweave/backend/internal/domain"
)

// mockCache is a moq-style cache repository.
type mockCache struct {
	LookupFunc func(ctx context.Context, terms []string) (map[string]domain.DictionaryEntry, error)
	UpsertFunc func(ctx context.Context, entry domain.DictionaryEntry) error

	upserts []domain.DictionaryEntry
}

func (m *mockCache) Lookup(ctx context.Context, terms []string) (map[string]domain.DictionaryEntry, error) {
	if m.LookupFunc != nil {
		return m.LookupFunc(ctx, terms)
	}
	return map[string]domain.DictionaryEntry{}, nil
}

func (m *mockCache) Upsert(ctx context.Context, entry domain.DictionaryEntry) error {
	m.upserts = append(m.upserts, entry)
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, entry)
	}
	return nil
}

const metadataContent = `{"words":[
	{"word":"apple","partOfSpeech":"noun","meaning":"[果物] りんご"},
	{"word":"give up","partOfSpeech":"PHRASE","meaning":"[諦める] やめる"}
]}`

const examplesContent = `{"details":[
	{"word":"apple","otherExamples":[{"role":"NOUN(果物)","text":"She ate an apple.","translation":"彼女はりんごを食べた。"}]},
	{"word":"give up","otherExamples":[{"role":"PHRASE(諦める)","text":"Never give up.","translation":"決して諦めるな。"}]}
]}`

func TestGenerator_Generate_TwoStages(t *testing.T) {
	client := &mockClient{}
	client.CompleteFunc = func(ctx context.Context, system, user string) (string, error) {
		if client.calls == 1 {
			return metadataContent, nil
		}
		return examplesContent, nil
	}
	cache := &mockCache{}
	g := NewGenerator(testLogger(), client, cache, testLexCfg())

	entries, err := g.Generate(context.Background(), []string{"apple", "give up"})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "apple", entries[0].Term)
	assert.Equal(t, domain.PartOfSpeechNoun, entries[0].PartOfSpeech)
	require.Len(t, entries[0].Examples, 1)
	assert.Equal(t, "NOUN(果物)", entries[0].Examples[0].Role)

	assert.Equal(t, "give up", entries[1].Term)
	assert.Equal(t, domain.PartOfSpeechPhrase, entries[1].PartOfSpeech)

	// Both entries were written through the cache.
	assert.Len(t, cache.upserts, 2)
	assert.Equal(t, 2, client.calls)
}

func TestGenerator_Generate_MetadataFailureAbortsBatch(t *testing.T) {
	tests := []struct {
		name    string
		content string
		err     error
	}{
		{name: "transport error", err: errors.New("response error 500")},
		{name: "malformed json", content: "no json here"},
		{name: "empty words", content: `{"words":[]}`},
		{name: "only unrequested words", content: `{"words":[{"word":"zebra","partOfSpeech":"NOUN","meaning":"x"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &mockClient{
				CompleteFunc: func(ctx context.Context, system, user string) (string, error) {
					return tt.content, tt.err
				},
			}
			cache := &mockCache{}
			g := NewGenerator(testLogger(), client, cache, testLexCfg())

			_, err := g.Generate(context.Background(), []string{"apple"})
			require.ErrorIs(t, err, domain.ErrGenerationFailed)

			// Nothing may reach the cache when the metadata stage fails.
			assert.Empty(t, cache.upserts)
		})
	}
}

func TestGenerator_Generate_ExamplesFailureDegrades(t *testing.T) {
	client := &mockClient{}
	client.CompleteFunc = func(ctx context.Context, system, user string) (string, error) {
		if client.calls == 1 {
			return metadataContent, nil
		}
		return "", errors.New("response error 503")
	}
	cache := &mockCache{}
	g := NewGenerator(testLogger(), client, cache, testLexCfg())

	entries, err := g.Generate(context.Background(), []string{"apple", "give up"})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	for _, e := range entries {
		assert.Empty(t, e.Examples)
	}
	// Entries are still cached without examples.
	assert.Len(t, cache.upserts, 2)
}

func TestGenerator_Generate_EmptyTerms(t *testing.T) {
	client := &mockClient{}
	g := NewGenerator(testLogger(), client, &mockCache{}, testLexCfg())

	entries, err := g.Generate(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, entries)
	assert.Zero(t, client.calls)
}

func TestParsePartOfSpeech(t *testing.T) {
	assert.Equal(t, domain.PartOfSpeechNoun, parsePartOfSpeech("noun"))
	assert.Equal(t, domain.PartOfSpeechIdiom, parsePartOfSpeech(" IDIOM "))
	assert.Equal(t, domain.PartOfSpeechOther, parsePartOfSpeech("gerund"))
}
