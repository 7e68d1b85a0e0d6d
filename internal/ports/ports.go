package ports

import (
	"context"

	"arxivdigest/internal/domain"
)

// FeedSource pulls announcement entries for a single topic tag.
type FeedSource interface {
	FetchTopic(ctx context.Context, topic string) ([]domain.Paper, error)
}

// SeenStore persists identifiers already delivered in prior runs.
// Load returns the full set at run start; Save writes the updated set
// back at successful completion.
type SeenStore interface {
	Load() (map[string]bool, error)
	Save(seen map[string]bool) error
}

// SummaryCache persists computed summaries keyed by paper identifier.
type SummaryCache interface {
	Get(ctx context.Context, paperID string) (domain.CachedSummary, bool, error)
	Put(ctx context.Context, summary domain.CachedSummary) error
}

// Scorer computes a relevance score and summary for one paper.
type Scorer interface {
	Score(ctx context.Context, paper domain.Paper) (domain.Score, error)
}

// Mailer delivers the rendered HTML digest to the configured recipient.
type Mailer interface {
	Send(ctx context.Context, subject, htmlBody string) error
}
