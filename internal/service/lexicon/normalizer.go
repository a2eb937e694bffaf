package lexicon

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/wordweave/backend/internal/adapter/provider/lexgen"
	"github.com/wordweave/backend/internal/config"
	"github.com/wordweave/backend/internal/domain"
)

// enumMarkerRe strips leading list decoration: "1.", "2)", "-", "*", "•".
var enumMarkerRe = regexp.MustCompile(`^\s*(?:\d+\s*[.)]?|[-*•.]+)\s*`)

// hasLetterRe keeps only lines with at least one letter; punctuation-only
// and digit-only lines carry nothing to normalize.
var hasLetterRe = regexp.MustCompile(`\p{L}`)

// Normalizer turns raw freeform lines into canonical lemmas. The primary
// path asks the generation backend to reduce each line to its dictionary
// base form; any failure falls back to a deterministic local rule.
type Normalizer struct {
	log    *slog.Logger
	client generationClient
	cfg    config.LexGenConfig
}

// NewNormalizer creates a term normalizer.
func NewNormalizer(logger *slog.Logger, client generationClient, cfg config.LexGenConfig) *Normalizer {
	return &Normalizer{log: logger, client: client, cfg: cfg}
}

// SplitLines splits raw input into trimmed, non-empty candidate lines.
// Newlines and commas both separate items; enumeration markers are removed.
func SplitLines(raw string) []string {
	var lines []string
	for _, chunk := range strings.FieldsFunc(raw, func(r rune) bool {
		return r == '\n' || r == ','
	}) {
		line := enumMarkerRe.ReplaceAllString(chunk, "")
		line = strings.TrimSpace(line)
		if line == "" || !hasLetterRe.MatchString(line) {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

type normalizeResponse struct {
	Items []string `json:"items"`
}

// Normalize maps each input line to its canonical lemma and returns the
// deduplicated list in first-seen order. It never fails: when the backend
// call goes wrong in any way the local fallback takes over.
//
// Two raw inputs that normalize to the same term always resolve to one
// cache/generation round; dedup here is what guarantees that.
func (n *Normalizer) Normalize(ctx context.Context, lines []string) []string {
	if len(lines) == 0 {
		return nil
	}

	normalized, err := n.normalizeRemote(ctx, lines)
	if err != nil {
		n.log.WarnContext(ctx, "normalization fell back to local rule",
			slog.Int("lines", len(lines)),
			slog.String("error", err.Error()))
		normalized = lines
	}

	return dedupeTerms(normalized)
}

func (n *Normalizer) normalizeRemote(ctx context.Context, lines []string) ([]string, error) {
	input, err := json.Marshal(map[string][]string{"items": lines})
	if err != nil {
		return nil, fmt.Errorf("marshal lines: %w", err)
	}

	system := fmt.Sprintf(`You normalize %s vocabulary lists. For every input item, return its dictionary (base) form: singular nouns, infinitive verbs. Keep multi-word phrases intact; never split a phrase into its constituent words. Return exactly one output item per input item, in the same order. Output ONLY a JSON object of the form {"items": ["...", ...]}.`, n.cfg.SourceLanguage)

	content, err := n.client.Complete(ctx, system, string(input))
	if err != nil {
		return nil, err
	}

	jsonStr, err := lexgen.ExtractJSON(content)
	if err != nil {
		return nil, err
	}

	var resp normalizeResponse
	if err := json.Unmarshal([]byte(jsonStr), &resp); err != nil {
		return nil, fmt.Errorf("unmarshal items: %w", err)
	}
	if resp.Items == nil {
		return nil, fmt.Errorf("response has no items array")
	}
	if len(resp.Items) != len(lines) {
		return nil, fmt.Errorf("expected %d items, got %d", len(lines), len(resp.Items))
	}

	return resp.Items, nil
}

// dedupeTerms lowercases each term and removes duplicates, preserving
// first-seen order. Empty results of normalization are dropped.
func dedupeTerms(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	var terms []string
	for _, item := range raw {
		term := domain.NormalizeTerm(item)
		if term == "" {
			continue
		}
		if _, ok := seen[term]; ok {
			continue
		}
		seen[term] = struct{}{}
		terms = append(terms, term)
	}
	return terms
}
