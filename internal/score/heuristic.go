package score

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"arxivdigest/internal/domain"
)

const (
	heuristicModel        = "free-heuristic"
	neutralNovelty        = 5.0
	maxTLDRLen            = 600
	maxKeywords           = 6
	keywordBoost          = 2.0
	categoryFallbackBoost = 0.3
)

// categoryBoost holds priors per known archive prefix. Categories are
// looked up by the part before the first dot; anything unrecognized
// falls back to categoryFallbackBoost.
var categoryBoost = map[string]float64{
	"quant-ph": 1.0,
	"gr-qc":    1.0,
	"astro-ph": 0.8,
	"math-ph":  0.8,
	"hep-ex":   0.6,
	"cond-mat": 0.6,
	"nucl-th":  0.6,
	"nucl-ex":  0.5,
	"physics":  0.5,
	"math":     0.5,
	"stat":     0.4,
	"q-bio":    0.4,
	"econ":     0.3,
	"cs":       0.7,
}

var stopWords = map[string]bool{
	"this": true, "that": true, "with": true, "from": true, "have": true,
	"were": true, "their": true, "there": true, "which": true, "using": true,
	"results": true, "paper": true, "study": true, "show": true, "shows": true,
	"shown": true, "based": true, "approach": true, "method": true,
	"methods": true, "model": true, "models": true, "data": true,
	"analysis": true, "system": true, "systems": true, "we": true, "our": true,
	"than": true, "also": true, "into": true, "between": true, "over": true,
	"under": true, "both": true, "such": true,
}

var nonToken = regexp.MustCompile(`[^a-z0-9\s\-]`)

// Heuristic scores papers without any external call: keyword substring
// boosts plus category priors, a two-sentence extract as TL;DR, and
// frequency-ranked keywords.
type Heuristic struct {
	includeKeywords []string
}

// NewHeuristic builds a scorer boosted by the configured keyword list.
func NewHeuristic(includeKeywords []string) *Heuristic {
	return &Heuristic{includeKeywords: includeKeywords}
}

// Score is deterministic and performs no I/O.
func (h *Heuristic) Score(_ context.Context, paper domain.Paper) (domain.Score, error) {
	sentences := splitSentences(paper.Abstract)
	tldr := strings.TrimSpace(paper.Abstract)
	if len(sentences) > 0 {
		take := sentences
		if len(take) > 2 {
			take = take[:2]
		}
		tldr = strings.Join(take, " ")
	}

	return domain.Score{
		Model:     heuristicModel,
		Relevance: h.relevance(paper.Title, paper.Abstract, paper.Categories),
		Novelty:   neutralNovelty,
		TLDR:      truncate(tldr, maxTLDRLen),
		Why:       "Likely relevant to your tracked topics/categories based on keywords and abstract content.",
		Keywords:  extractKeywords(paper.Title + " " + paper.Abstract),
	}, nil
}

func (h *Heuristic) relevance(title, abstract string, categories []string) float64 {
	hay := strings.ToLower(title + " " + abstract)
	score := 0.0

	for _, kw := range h.includeKeywords {
		if kw != "" && strings.Contains(hay, strings.ToLower(kw)) {
			score += keywordBoost
		}
	}

	for _, cat := range categories {
		prefix, _, _ := strings.Cut(cat, ".")
		if boost, ok := categoryBoost[prefix]; ok {
			score += boost
		} else {
			score += categoryFallbackBoost
		}
	}

	return clamp(score)
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}

// splitSentences breaks collapsed text on ., ! or ? followed by
// whitespace. Good enough for abstracts; no abbreviation handling.
func splitSentences(text string) []string {
	text = strings.Join(strings.Fields(text), " ")

	var parts []string
	start := 0
	for i := 0; i < len(text)-1; i++ {
		switch text[i] {
		case '.', '!', '?':
			if text[i+1] == ' ' {
				if part := strings.TrimSpace(text[start : i+1]); part != "" {
					parts = append(parts, part)
				}
				start = i + 1
			}
		}
	}
	if tail := strings.TrimSpace(text[start:]); tail != "" {
		parts = append(parts, tail)
	}
	return parts
}

// extractKeywords returns up to maxKeywords informative tokens ranked
// by frequency. Ties keep first-appearance order in the token stream,
// a documented stable ordering rather than a semantic guarantee.
func extractKeywords(text string) []string {
	text = nonToken.ReplaceAllString(strings.ToLower(text), " ")

	freq := map[string]int{}
	firstSeen := map[string]int{}
	for _, token := range strings.Fields(text) {
		if len(token) < 4 || len(token) > 20 || stopWords[token] {
			continue
		}
		if _, ok := freq[token]; !ok {
			firstSeen[token] = len(firstSeen)
		}
		freq[token]++
	}

	tokens := make([]string, 0, len(freq))
	for token := range freq {
		tokens = append(tokens, token)
	}
	sort.Slice(tokens, func(i, j int) bool {
		if freq[tokens[i]] != freq[tokens[j]] {
			return freq[tokens[i]] > freq[tokens[j]]
		}
		return firstSeen[tokens[i]] < firstSeen[tokens[j]]
	})

	if len(tokens) > maxKeywords {
		tokens = tokens[:maxKeywords]
	}
	return tokens
}

func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
