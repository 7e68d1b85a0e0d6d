package render

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"arxivdigest/internal/domain"
)

const htmlAuthorCap = 8

var digestTemplate = template.Must(template.New("digest").Parse(`<!doctype html>
<html>
<head>
  <meta charset="utf-8" />
</head>
<body style="font-family:Segoe UI, Arial, sans-serif; max-width: 900px; margin: 0 auto; padding: 20px; color:#111827;">
  <div style="margin-bottom:16px;">
    <h2 style="margin:0 0 6px 0;">Daily arXiv Digest</h2>
    <div style="color:#6b7280;font-size:13px;">Generated: {{.GeneratedAt}} UTC</div>
  </div>
{{- if .Papers}}
{{- range .Papers}}
  <div style="padding:14px 0;border-bottom:1px solid #e5e7eb;">
    <div style="font-size:16px;font-weight:700;line-height:1.25;margin:0 0 6px 0;">
      <a href="{{.AbsURL}}" style="color:#111827;text-decoration:none;">{{.Title}}</a>
    </div>
    <div style="font-size:13px;color:#374151;margin:0 0 8px 0;">
      <b>Score:</b> {{printf "%.1f" .Relevance}} &nbsp;|&nbsp;
      <b>Categories:</b> {{.Categories}} &nbsp;|&nbsp;
      <b>Authors:</b> {{.Authors}}
    </div>
    <div style="font-size:14px;color:#111827;margin:0 0 6px 0;"><b>TL;DR:</b> {{.TLDR}}</div>
    <div style="font-size:14px;color:#111827;margin:0 0 10px 0;"><b>Why:</b> {{.Why}}</div>
    <div style="font-size:13px;">
      <a href="{{.AbsURL}}">Abstract</a> &nbsp;|&nbsp; <a href="{{.PDFURL}}">PDF</a>
    </div>
  </div>
{{- end}}
{{- else}}
  <p>No new interesting papers today.</p>
{{- end}}
</body>
</html>`))

type htmlDigest struct {
	GeneratedAt string
	Papers      []htmlPaper
}

type htmlPaper struct {
	Title      string
	AbsURL     string
	PDFURL     string
	Categories string
	Authors    string
	TLDR       string
	Why        string
	Relevance  float64
}

// HTML renders the email body, capped at max papers. All interpolated
// values are escaped by the template engine.
func HTML(papers []domain.RankedPaper, generatedAt time.Time, max int) (string, error) {
	if max > 0 && len(papers) > max {
		papers = papers[:max]
	}

	data := htmlDigest{
		GeneratedAt: generatedAt.Format("2006-01-02 15:04"),
		Papers:      make([]htmlPaper, 0, len(papers)),
	}
	for _, ranked := range papers {
		paper := ranked.Paper
		data.Papers = append(data.Papers, htmlPaper{
			Title:      paper.Title,
			AbsURL:     paper.AbsURL,
			PDFURL:     paper.PDFURL,
			Categories: strings.Join(paper.Categories, ", "),
			Authors:    formatAuthors(paper.Authors, htmlAuthorCap),
			TLDR:       ranked.Score.TLDR,
			Why:        ranked.Score.Why,
			Relevance:  ranked.Score.Relevance,
		})
	}

	var sb strings.Builder
	if err := digestTemplate.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render digest html: %w", err)
	}
	return sb.String(), nil
}

// Subject builds the digest email subject line.
func Subject(count int, generatedAt time.Time) string {
	return fmt.Sprintf("arXiv Digest — %d new papers (%s)", count, generatedAt.Format("2006-01-02"))
}
