package feed

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"arxivdigest/internal/domain"
	"arxivdigest/internal/ports"
)

// Source fetches arXiv announcement feeds per topic tag and normalizes
// entries into domain papers.
type Source struct {
	parser   *gofeed.Parser
	baseURL  string
	maxItems int
	logger   *slog.Logger
}

var _ ports.FeedSource = (*Source)(nil)

// NewSource wires an HTTP client; a nil client gets a 20s timeout.
func NewSource(client *http.Client, baseURL string, maxItems int, logger *slog.Logger) *Source {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	parser := gofeed.NewParser()
	parser.Client = client
	parser.UserAgent = "arxivdigest/1.0"

	return &Source{
		parser:   parser,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		maxItems: maxItems,
		logger:   logger,
	}
}

// FetchTopic downloads the topic feed and returns up to maxItems
// normalized papers, each tagged with the topic as its category.
// Entries without a usable identifier are skipped silently.
func (s *Source) FetchTopic(ctx context.Context, topic string) ([]domain.Paper, error) {
	feedURL := s.baseURL + "/" + topic

	parsed, err := s.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w", topic, err)
	}

	items := parsed.Items
	if s.maxItems > 0 && len(items) > s.maxItems {
		items = items[:s.maxItems]
	}

	papers := make([]domain.Paper, 0, len(items))
	for _, item := range items {
		paper, ok := normalizeItem(item, topic)
		if !ok {
			continue
		}
		papers = append(papers, paper)
	}

	if s.logger != nil {
		s.logger.Debug("topic fetched", "topic", topic, "entries", len(parsed.Items), "papers", len(papers))
	}
	return papers, nil
}

// normalizeItem maps one feed entry to a paper. The second return is
// false when the entry has no identifier after trimming.
func normalizeItem(item *gofeed.Item, topic string) (domain.Paper, bool) {
	absURL := strings.TrimSpace(item.Link)
	if absURL == "" {
		return domain.Paper{}, false
	}

	published := item.Published
	if published == "" {
		published = item.Updated
	}
	// Re-render parseable timestamps as RFC3339 so lexicographic
	// descending order matches chronological order.
	if t := firstTime(item.PublishedParsed, item.UpdatedParsed); t != nil {
		published = t.UTC().Format(time.RFC3339)
	}

	return domain.Paper{
		ID:         absURL,
		Title:      collapseWhitespace(item.Title),
		Abstract:   collapseWhitespace(stripMarkup(item.Description)),
		Authors:    extractAuthors(item),
		Published:  published,
		Categories: []string{topic},
		AbsURL:     absURL,
		PDFURL:     DerivePDFURL(absURL),
	}, true
}

// DerivePDFURL converts an abstract-page URL to its PDF counterpart by
// pure string substitution; the result is never validated.
func DerivePDFURL(absURL string) string {
	pdfURL := strings.ReplaceAll(absURL, "/abs/", "/pdf/")
	if !strings.HasSuffix(pdfURL, ".pdf") {
		pdfURL += ".pdf"
	}
	return pdfURL
}

// extractAuthors flattens feed author structures into trimmed display
// names. arXiv RSS packs several names into one comma-separated
// creator element, so each entry is split again on commas. Missing
// names are omitted, never replaced with placeholders.
func extractAuthors(item *gofeed.Item) []string {
	persons := item.Authors
	if len(persons) == 0 && item.Author != nil {
		persons = []*gofeed.Person{item.Author}
	}

	var authors []string
	for _, person := range persons {
		if person == nil {
			continue
		}
		for _, name := range strings.Split(person.Name, ",") {
			if name = strings.TrimSpace(name); name != "" {
				authors = append(authors, name)
			}
		}
	}
	return authors
}

// stripMarkup extracts the text content of HTML-bearing descriptions.
func stripMarkup(s string) string {
	if !strings.Contains(s, "<") {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return doc.Text()
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func firstTime(candidates ...*time.Time) *time.Time {
	for _, t := range candidates {
		if t != nil {
			return t
		}
	}
	return nil
}
