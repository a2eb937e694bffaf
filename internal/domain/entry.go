package domain

import "time"

// ExampleItem is one example sentence with its translation.
// Role encodes the sense it illustrates, in the form "pos(gloss)".
type ExampleItem struct {
	Role        string `json:"role"`
	Text        string `json:"text"`
	Translation string `json:"translation"`
}

// DictionaryEntry is a cached, generated dictionary record for one
// canonical term. The term is the cache key: lowercased, normalized,
// unique. Entries are created on first generation and enriched in place
// afterwards; they are never deleted by normal operation.
type DictionaryEntry struct {
	Term         string        `json:"term"`
	Word         string        `json:"word"`
	PartOfSpeech PartOfSpeech  `json:"partOfSpeech"`
	Meaning      string        `json:"meaning"`
	Examples     []ExampleItem `json:"examples,omitempty"`
	Synonyms     []string      `json:"synonyms,omitempty"`
	Derivatives  []string      `json:"derivatives,omitempty"`
	CreatedAt    time.Time     `json:"-"`
	UpdatedAt    time.Time     `json:"-"`
}

// HasExamples reports whether the entry carries at least one example.
func (e DictionaryEntry) HasExamples() bool {
	return len(e.Examples) > 0
}
