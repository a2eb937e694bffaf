package lexicon

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/wordweave/backend/internal/adapter/provider/lexgen"
	"github.com/wordweave/backend/internal/config"
	"github.com/wordweave/backend/internal/domain"
)

// Generator produces dictionary entries for cache misses in two staged
// backend calls: word metadata for the whole batch first, then example
// sentences per sense. The examples stage is best-effort; the metadata
// stage is all-or-nothing for the batch.
type Generator struct {
	log    *slog.Logger
	client generationClient
	cache  cacheRepo
	cfg    config.LexGenConfig
}

// NewGenerator creates an entry generator.
func NewGenerator(logger *slog.Logger, client generationClient, cache cacheRepo, cfg config.LexGenConfig) *Generator {
	return &Generator{log: logger, client: client, cache: cache, cfg: cfg}
}

type metadataResponse struct {
	Words []metadataWord `json:"words"`
}

type metadataWord struct {
	Word         string `json:"word"`
	PartOfSpeech string `json:"partOfSpeech"`
	Meaning      string `json:"meaning"`
}

type examplesResponse struct {
	Details []exampleDetail `json:"details"`
}

type exampleDetail struct {
	Word          string               `json:"word"`
	OtherExamples []domain.ExampleItem `json:"otherExamples"`
}

// Generate produces one entry per missing term and writes each through the
// cache. A metadata-stage failure aborts the whole batch with
// ErrGenerationFailed before anything is cached; an examples-stage failure
// degrades to entries without examples.
func (g *Generator) Generate(ctx context.Context, terms []string) ([]domain.DictionaryEntry, error) {
	if len(terms) == 0 {
		return nil, nil
	}

	entries, err := g.generateMetadata(ctx, terms)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrGenerationFailed, err)
	}

	if err := g.attachExamples(ctx, entries); err != nil {
		// Best-effort stage: the metadata cost is already committed and the
		// entries are usable without examples.
		g.log.WarnContext(ctx, "examples generation failed, returning entries without examples",
			slog.Int("terms", len(entries)),
			slog.String("error", err.Error()))
	}

	for i := range entries {
		if err := g.cache.Upsert(ctx, entries[i]); err != nil {
			g.log.WarnContext(ctx, "cache upsert failed",
				slog.String("term", entries[i].Term),
				slog.String("error", err.Error()))
		}
	}

	return entries, nil
}

func (g *Generator) generateMetadata(ctx context.Context, terms []string) ([]domain.DictionaryEntry, error) {
	input, err := json.Marshal(map[string][]string{"terms": terms})
	if err != nil {
		return nil, fmt.Errorf("marshal terms: %w", err)
	}

	system := fmt.Sprintf(`You are a professional %[1]s-%[2]s dictionary editor. For every term in the input, produce its dictionary metadata.

Output ONLY a valid JSON object matching this exact schema:
{
  "words": [
    {"word": "<term>", "partOfSpeech": "<NOUN|VERB|ADJECTIVE|ADVERB|PRONOUN|PREPOSITION|CONJUNCTION|INTERJECTION|PHRASE|IDIOM|OTHER>", "meaning": "<%[2]s meaning>"}
  ]
}

Rules:
- Process ALL input terms, one output word per term, same order
- The meaning groups every distinct sense into a bracketed-label segment, one segment per sense, e.g. "[label1] gloss1 [label2] gloss2"
- The meaning must be written purely in %[2]s and must not contain %[1]s words
- partOfSpeech reflects the term's most common use`, g.cfg.SourceLanguage, g.cfg.TargetLanguage)

	content, err := g.client.Complete(ctx, system, string(input))
	if err != nil {
		return nil, err
	}

	jsonStr, err := lexgen.ExtractJSON(content)
	if err != nil {
		return nil, err
	}

	var resp metadataResponse
	if err := json.Unmarshal([]byte(jsonStr), &resp); err != nil {
		return nil, fmt.Errorf("unmarshal words: %w", err)
	}
	if len(resp.Words) == 0 {
		return nil, fmt.Errorf("response has no words")
	}

	wanted := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		wanted[t] = struct{}{}
	}

	var entries []domain.DictionaryEntry
	for _, w := range resp.Words {
		term := domain.NormalizeTerm(w.Word)
		if term == "" {
			continue
		}
		if _, ok := wanted[term]; !ok {
			g.log.WarnContext(ctx, "metadata stage returned unrequested word",
				slog.String("word", w.Word))
			continue
		}
		delete(wanted, term)

		entries = append(entries, domain.DictionaryEntry{
			Term:         term,
			Word:         w.Word,
			PartOfSpeech: parsePartOfSpeech(w.PartOfSpeech),
			Meaning:      w.Meaning,
		})
	}

	for term := range wanted {
		g.log.WarnContext(ctx, "metadata stage omitted term", slog.String("term", term))
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("no requested terms in response")
	}
	return entries, nil
}

// attachExamples runs the examples stage against the metadata-stage output
// and attaches results in place.
func (g *Generator) attachExamples(ctx context.Context, entries []domain.DictionaryEntry) error {
	words := make([]metadataWord, 0, len(entries))
	for _, e := range entries {
		words = append(words, metadataWord{
			Word:         e.Word,
			PartOfSpeech: e.PartOfSpeech.String(),
			Meaning:      e.Meaning,
		})
	}

	input, err := json.Marshal(map[string][]metadataWord{"words": words})
	if err != nil {
		return fmt.Errorf("marshal words: %w", err)
	}

	system := fmt.Sprintf(`You write example sentences for an %[1]s-%[2]s dictionary. The input lists words with their part of speech and a meaning string whose bracketed segments each describe one distinct sense.

For EVERY bracketed sense of EVERY word, produce exactly one natural %[1]s example sentence and its %[2]s translation.

Output ONLY a valid JSON object matching this exact schema:
{
  "details": [
    {"word": "<word>", "otherExamples": [
      {"role": "<partOfSpeech>(<single-sense %[2]s gloss>)", "text": "<%[1]s example sentence>", "translation": "<%[2]s translation>"}
    ]}
  ]
}`, g.cfg.SourceLanguage, g.cfg.TargetLanguage)

	content, err := g.client.Complete(ctx, system, string(input))
	if err != nil {
		return err
	}

	jsonStr, err := lexgen.ExtractJSON(content)
	if err != nil {
		return err
	}

	var resp examplesResponse
	if err := json.Unmarshal([]byte(jsonStr), &resp); err != nil {
		return fmt.Errorf("unmarshal details: %w", err)
	}

	byTerm := make(map[string][]domain.ExampleItem, len(resp.Details))
	for _, d := range resp.Details {
		byTerm[domain.NormalizeTerm(d.Word)] = d.OtherExamples
	}

	for i := range entries {
		if examples, ok := byTerm[entries[i].Term]; ok {
			entries[i].Examples = examples
		}
	}
	return nil
}

// parsePartOfSpeech maps a backend label to the fixed set, defaulting to OTHER.
func parsePartOfSpeech(s string) domain.PartOfSpeech {
	pos := domain.PartOfSpeech(strings.ToUpper(strings.TrimSpace(s)))
	if pos.IsValid() {
		return pos
	}
	return domain.PartOfSpeechOther
}
