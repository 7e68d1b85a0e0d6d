package score

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"arxivdigest/internal/domain"
	"arxivdigest/internal/ports"
)

// ErrMalformedResponse marks model output that is not the requested
// JSON object or lacks required fields. Callers decide skip-vs-abort.
var ErrMalformedResponse = errors.New("malformed model response")

const modelInstructions = `You summarize arXiv papers from title+abstract only.
Be precise, avoid hype, and do not invent details.
Return ONLY valid JSON with these keys:
tldr: string (1-2 sentences),
why: string (1-2 sentences, why it matters),
relevance: number 0-10 (to a general technical reader),
novelty: number 0-10 (how new/interesting),
keywords: array of 3-7 short strings`

// Completer performs one structured-output completion call.
type Completer interface {
	Complete(ctx context.Context, instructions, input string) (string, error)
}

// Model scores papers through an external summarization model, with a
// write-once cache per identifier so reruns are free of external calls.
type Model struct {
	completer Completer
	cache     ports.SummaryCache
	model     string
	now       func() time.Time
}

// NewModel builds the cache-first model scorer.
func NewModel(completer Completer, cache ports.SummaryCache, model string) *Model {
	return &Model{
		completer: completer,
		cache:     cache,
		model:     model,
		now:       time.Now,
	}
}

// Score returns the cached result when present; otherwise it invokes
// the completer, parses the JSON payload, and persists it before
// returning. The cache is authoritative: a hit is returned unchanged
// even if scoring logic changed since it was written.
func (m *Model) Score(ctx context.Context, paper domain.Paper) (domain.Score, error) {
	cached, ok, err := m.cache.Get(ctx, paper.ID)
	if err != nil {
		return domain.Score{}, fmt.Errorf("cache lookup %s: %w", paper.ID, err)
	}
	if ok {
		// Keywords are not part of the cache schema; hits come back
		// without them.
		return domain.Score{
			Model:     cached.Model,
			Relevance: cached.Relevance,
			Novelty:   cached.Novelty,
			TLDR:      cached.TLDR,
			Why:       cached.Why,
		}, nil
	}

	input := fmt.Sprintf("TITLE: %s\n\nABSTRACT: %s", paper.Title, paper.Abstract)
	raw, err := m.completer.Complete(ctx, modelInstructions, input)
	if err != nil {
		return domain.Score{}, fmt.Errorf("summarize %s: %w", paper.ID, err)
	}

	var parsed struct {
		TLDR      *string  `json:"tldr"`
		Why       *string  `json:"why"`
		Relevance *float64 `json:"relevance"`
		Novelty   *float64 `json:"novelty"`
		Keywords  []string `json:"keywords"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &parsed); err != nil {
		return domain.Score{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if parsed.TLDR == nil || parsed.Why == nil || parsed.Relevance == nil || parsed.Novelty == nil {
		return domain.Score{}, fmt.Errorf("%w: missing required field", ErrMalformedResponse)
	}

	result := domain.Score{
		Model:     m.model,
		Relevance: clamp(*parsed.Relevance),
		Novelty:   clamp(*parsed.Novelty),
		TLDR:      strings.TrimSpace(*parsed.TLDR),
		Why:       strings.TrimSpace(*parsed.Why),
		Keywords:  parsed.Keywords,
	}

	entry := domain.CachedSummary{
		PaperID:   paper.ID,
		Model:     result.Model,
		Relevance: result.Relevance,
		Novelty:   result.Novelty,
		TLDR:      result.TLDR,
		Why:       result.Why,
		CreatedAt: m.now().UTC().Format(time.RFC3339),
	}
	if err := m.cache.Put(ctx, entry); err != nil {
		return domain.Score{}, fmt.Errorf("cache store %s: %w", paper.ID, err)
	}

	return result, nil
}
