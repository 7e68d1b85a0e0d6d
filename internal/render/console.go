package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"arxivdigest/internal/domain"
)

const consoleAuthorCap = 6

// Console writes the plain-text digest listing, capped at max papers.
func Console(w io.Writer, papers []domain.RankedPaper, generatedAt time.Time, max int) {
	fmt.Fprintf(w, "\n=== arXiv Digest (new since last run) — %s ===\n", generatedAt.Format("2006-01-02 15:04 UTC"))
	fmt.Fprintf(w, "New unique papers: %d\n\n", len(papers))

	if max > 0 && len(papers) > max {
		papers = papers[:max]
	}

	for _, ranked := range papers {
		paper := ranked.Paper
		authors := formatAuthors(paper.Authors, consoleAuthorCap)
		if authors == "" {
			authors = "N/A"
		}

		fmt.Fprintf(w, "- %s\n", paper.Title)
		fmt.Fprintf(w, "  Score:    %.1f\n", ranked.Score.Relevance)
		fmt.Fprintf(w, "  Authors: %s\n", authors)
		fmt.Fprintf(w, "  Categories: %s\n", strings.Join(paper.Categories, ", "))
		if ranked.Score.TLDR != "" {
			fmt.Fprintf(w, "  TL;DR: %s\n", ranked.Score.TLDR)
		}
		fmt.Fprintf(w, "  Abstract: %s\n", paper.AbsURL)
		fmt.Fprintf(w, "  PDF:      %s\n\n", paper.PDFURL)
	}
}

// formatAuthors joins up to limit names, marking overflow with et al.
func formatAuthors(authors []string, limit int) string {
	if len(authors) == 0 {
		return ""
	}
	suffix := ""
	if len(authors) > limit {
		authors = authors[:limit]
		suffix = " et al."
	}
	return strings.Join(authors, ", ") + suffix
}
