package domain

// Paper is a core entity describing one normalized arXiv submission.
// ID is the canonical abstract-page URL and acts as the primary key
// across categories and runs.
type Paper struct {
	ID         string
	Title      string
	Abstract   string
	Authors    []string
	Published  string // sortable timestamp string, RFC3339 when the feed value parses
	Categories []string
	AbsURL     string
	PDFURL     string
}

// Score captures relevance ranking and summary output for one paper.
type Score struct {
	Model     string
	Relevance float64 // clamped to [0, 10]
	Novelty   float64 // clamped to [0, 10]
	TLDR      string
	Why       string
	Keywords  []string
}

// RankedPaper pairs a deduplicated paper with its computed score.
type RankedPaper struct {
	Paper Paper
	Score Score
}

// CachedSummary is the persisted scoring result for one paper,
// keyed by the paper identifier.
type CachedSummary struct {
	PaperID   string
	Model     string
	Relevance float64
	Novelty   float64
	TLDR      string
	Why       string
	CreatedAt string
}
