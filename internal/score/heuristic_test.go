package score

import (
	"context"
	"math"
	"reflect"
	"strings"
	"testing"

	"arxivdigest/internal/domain"
)

func TestHeuristicTLDRTakesFirstTwoSentences(t *testing.T) {
	t.Parallel()

	h := NewHeuristic(nil)
	result, err := h.Score(context.Background(), domain.Paper{
		Abstract: "Short sentence one. Short sentence two. Third.",
	})
	if err != nil {
		t.Fatalf("Score error: %v", err)
	}

	if result.TLDR != "Short sentence one. Short sentence two." {
		t.Fatalf("unexpected tldr: %q", result.TLDR)
	}
}

func TestHeuristicTLDRFallsBackToRawAbstract(t *testing.T) {
	t.Parallel()

	h := NewHeuristic(nil)
	result, err := h.Score(context.Background(), domain.Paper{
		Abstract: "  no sentence boundary here  ",
	})
	if err != nil {
		t.Fatalf("Score error: %v", err)
	}

	if result.TLDR != "no sentence boundary here" {
		t.Fatalf("unexpected tldr: %q", result.TLDR)
	}
}

func TestHeuristicTLDRTruncation(t *testing.T) {
	t.Parallel()

	h := NewHeuristic(nil)
	result, err := h.Score(context.Background(), domain.Paper{
		Abstract: strings.Repeat("a", 700),
	})
	if err != nil {
		t.Fatalf("Score error: %v", err)
	}

	if got := len([]rune(result.TLDR)); got != maxTLDRLen {
		t.Fatalf("expected tldr capped at %d, got %d", maxTLDRLen, got)
	}
}

func TestHeuristicRelevance(t *testing.T) {
	t.Parallel()

	h := NewHeuristic([]string{"quantum", "absent-term"})
	result, err := h.Score(context.Background(), domain.Paper{
		Title:      "Quantum error correction",
		Abstract:   "We study stabilizer codes.",
		Categories: []string{"cs.AI", "unknown-archive"},
	})
	if err != nil {
		t.Fatalf("Score error: %v", err)
	}

	// 2.0 keyword hit + 0.7 cs prior + 0.3 fallback prior.
	if math.Abs(result.Relevance-3.0) > 1e-9 {
		t.Fatalf("unexpected relevance: %v", result.Relevance)
	}
	if result.Novelty != neutralNovelty {
		t.Fatalf("unexpected novelty: %v", result.Novelty)
	}
	if result.Model != heuristicModel {
		t.Fatalf("unexpected model: %s", result.Model)
	}
}

func TestHeuristicRelevanceClamp(t *testing.T) {
	t.Parallel()

	keywords := make([]string, 0, 10)
	for i := 0; i < 10; i++ {
		keywords = append(keywords, "neural")
	}

	h := NewHeuristic(keywords)
	result, err := h.Score(context.Background(), domain.Paper{
		Title:      "Neural networks",
		Categories: []string{"cs.LG", "cs.AI", "stat.ML"},
	})
	if err != nil {
		t.Fatalf("Score error: %v", err)
	}

	if result.Relevance != 10 {
		t.Fatalf("expected relevance clamped to 10, got %v", result.Relevance)
	}
}

func TestHeuristicDeterminism(t *testing.T) {
	t.Parallel()

	h := NewHeuristic([]string{"transformer"})
	paper := domain.Paper{
		Title:      "Transformer inference at scale",
		Abstract:   "Transformer inference dominates serving cost. We reduce latency. Benchmarks included.",
		Categories: []string{"cs.LG"},
	}

	first, err := h.Score(context.Background(), paper)
	if err != nil {
		t.Fatalf("Score error: %v", err)
	}
	second, err := h.Score(context.Background(), paper)
	if err != nil {
		t.Fatalf("Score error: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("scorer is not deterministic: %+v vs %+v", first, second)
	}
}

func TestExtractKeywords(t *testing.T) {
	t.Parallel()

	text := "Entanglement entanglement entanglement qubits qubits decoherence " +
		"with this from paper model xyz ab"
	keywords := extractKeywords(text)

	if len(keywords) == 0 || keywords[0] != "entanglement" {
		t.Fatalf("expected entanglement first, got %v", keywords)
	}
	if keywords[1] != "qubits" {
		t.Fatalf("expected qubits second, got %v", keywords)
	}
	for _, kw := range keywords {
		if stopWords[kw] {
			t.Fatalf("stop word %q leaked into keywords", kw)
		}
		if len(kw) < 4 || len(kw) > 20 {
			t.Fatalf("keyword %q violates length bounds", kw)
		}
	}
}

func TestExtractKeywordsCap(t *testing.T) {
	t.Parallel()

	text := "alpha beta2 gamma delta epsilon zeta12 theta iota kappa"
	if got := len(extractKeywords(text)); got > maxKeywords {
		t.Fatalf("expected at most %d keywords, got %d", maxKeywords, got)
	}
}

func TestSplitSentences(t *testing.T) {
	t.Parallel()

	parts := splitSentences("One!  Two? Three. trailing")
	want := []string{"One!", "Two?", "Three.", "trailing"}
	if !reflect.DeepEqual(parts, want) {
		t.Fatalf("unexpected split: %v", parts)
	}
}
