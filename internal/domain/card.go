package domain

import (
	"time"

	"github.com/google/uuid"
)

// Card is a user-owned word card inside a deck.
//
// Meaning holds the human-readable primary translation text. Examples and
// Unlocked are structured fields in memory; the card repository packs them
// into the legacy single text column via the extension codec at the storage
// boundary.
type Card struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	DeckID       uuid.UUID
	Word         string
	PartOfSpeech PartOfSpeech
	Meaning      string
	Examples     []ExampleItem
	Unlocked     bool
	IsMastered   bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Deck groups a user's cards.
type Deck struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CardFilter narrows card listing queries.
type CardFilter struct {
	DeckID     *uuid.UUID
	IsMastered *bool
	Search     string
	Limit      int
	Offset     int
}
