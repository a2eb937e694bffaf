package card

import (
	"encoding/json"
	"strings"

	"github.com/wordweave/backend/internal/domain"
)

// The legacy cards.meaning column multiplexes three things: the primary
// translation text, an optional JSON extension payload with supplementary
// examples, and an optional unlock marker. The codec below is the only
// place that knows this wire format; everything above the repository works
// with the structured fields on domain.Card.
//
// Wire grammar:
//
//	<base-text>["|||EXT|||" <payload JSON>] ["|||UNLOCKED|||"]
//
// Both markers are optional and order-independent on decode.
const (
	extMarker      = "|||EXT|||"
	unlockedMarker = "|||UNLOCKED|||"
)

type extensionPayload struct {
	Examples []domain.ExampleItem `json:"examples"`
}

// encodeExtension packs base text, examples and the unlock flag into one
// column value. Pre-existing markers are stripped from the base text first
// so repeated edits never accumulate markers.
func encodeExtension(base string, examples []domain.ExampleItem, unlocked bool) string {
	base = stripMarkers(base)

	var b strings.Builder
	b.WriteString(base)

	if len(examples) > 0 {
		// Marshaling a struct of strings cannot fail.
		payload, err := json.Marshal(extensionPayload{Examples: examples})
		if err == nil {
			b.WriteString(extMarker)
			b.Write(payload)
		}
	}

	if unlocked {
		b.WriteString(unlockedMarker)
	}

	return b.String()
}

// decodeExtension unpacks a column value into base text, examples and the
// unlock flag. Absent markers mean base-only, empty payload, not unlocked.
// Malformed payload JSON degrades to an empty payload; it never errors.
func decodeExtension(field string) (base string, examples []domain.ExampleItem, unlocked bool) {
	if strings.Contains(field, unlockedMarker) {
		unlocked = true
		field = strings.ReplaceAll(field, unlockedMarker, "")
	}

	base, ext, found := strings.Cut(field, extMarker)
	if !found || ext == "" {
		return base, nil, unlocked
	}

	var payload extensionPayload
	if err := json.Unmarshal([]byte(ext), &payload); err != nil {
		return base, nil, unlocked
	}
	return base, payload.Examples, unlocked
}

// stripMarkers removes any extension payload and unlock markers from text,
// keeping only the human-readable base.
func stripMarkers(text string) string {
	text = strings.ReplaceAll(text, unlockedMarker, "")
	if i := strings.Index(text, extMarker); i >= 0 {
		text = text[:i]
	}
	return text
}
