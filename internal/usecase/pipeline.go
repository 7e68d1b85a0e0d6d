package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"time"

	"arxivdigest/internal/domain"
	"arxivdigest/internal/ports"
	"arxivdigest/internal/render"
)

// PipelineDeps wires all driven adapters into the digest pipeline.
type PipelineDeps struct {
	Source ports.FeedSource
	Seen   ports.SeenStore
	Scorer ports.Scorer
	Mailer ports.Mailer
	Logger *slog.Logger
	Out    io.Writer
	Now    func() time.Time
}

// RunOptions selects per-run behavior on top of the wired deps.
type RunOptions struct {
	Topics             []string
	SendEmail          bool
	IgnoreSeen         bool
	FilterByRelevance  bool
	RelevanceThreshold float64
	ConsoleMaxItems    int
	EmailMaxItems      int
}

// Pipeline implements the linear digest workflow: fetch, normalize,
// dedupe, score, filter, cap, render, notify, persist.
type Pipeline struct {
	source ports.FeedSource
	seen   ports.SeenStore
	scorer ports.Scorer
	mailer ports.Mailer
	logger *slog.Logger
	out    io.Writer
	now    func() time.Time
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	p := &Pipeline{
		source: deps.Source,
		seen:   deps.Seen,
		scorer: deps.Scorer,
		mailer: deps.Mailer,
		logger: deps.Logger,
		out:    deps.Out,
		now:    deps.Now,
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	if p.out == nil {
		p.out = os.Stdout
	}
	if p.now == nil {
		p.now = time.Now
	}
	return p
}

// Run executes one batch. A topic fetch failure yields zero entries
// for that topic; a paper scoring failure skips that paper. Both are
// logged, and neither aborts the run.
func (p *Pipeline) Run(ctx context.Context, opts RunOptions) error {
	seen := map[string]bool{}
	if p.seen != nil {
		var err error
		if seen, err = p.seen.Load(); err != nil {
			return fmt.Errorf("load seen set: %w", err)
		}
	}

	// The skip test uses the set as loaded at run start, so a paper
	// cross-listed under two topics in the same run reaches the merge
	// step from both and keeps the full category union.
	newlySeen := map[string]bool{}
	var fetched []domain.Paper
	for _, topic := range opts.Topics {
		papers, err := p.source.FetchTopic(ctx, topic)
		if err != nil {
			p.logger.Warn("topic fetch failed", "topic", topic, "error", err)
			continue
		}
		for _, paper := range papers {
			if !opts.IgnoreSeen && seen[paper.ID] {
				continue
			}
			newlySeen[paper.ID] = true
			fetched = append(fetched, paper)
		}
	}

	merged := mergeCrossLists(fetched)
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Published > merged[j].Published
	})

	ranked := make([]domain.RankedPaper, 0, len(merged))
	for _, paper := range merged {
		score, err := p.scorer.Score(ctx, paper)
		if err != nil {
			p.logger.Warn("scoring failed", "paper", paper.ID, "error", err)
			continue
		}
		if opts.FilterByRelevance && score.Relevance < opts.RelevanceThreshold {
			continue
		}
		ranked = append(ranked, domain.RankedPaper{Paper: paper, Score: score})
	}

	generatedAt := p.now().UTC()
	render.Console(p.out, ranked, generatedAt, opts.ConsoleMaxItems)

	if opts.SendEmail && p.mailer != nil {
		if err := p.sendDigest(ctx, ranked, generatedAt, opts.EmailMaxItems); err != nil {
			p.logger.Error("email delivery failed", "error", err)
		}
	}

	if p.seen != nil && !opts.IgnoreSeen {
		for id := range newlySeen {
			seen[id] = true
		}
		if err := p.seen.Save(seen); err != nil {
			return fmt.Errorf("save seen set: %w", err)
		}
	}

	return nil
}

func (p *Pipeline) sendDigest(ctx context.Context, ranked []domain.RankedPaper, generatedAt time.Time, maxItems int) error {
	body, err := render.HTML(ranked, generatedAt, maxItems)
	if err != nil {
		return err
	}
	return p.mailer.Send(ctx, render.Subject(len(ranked), generatedAt), body)
}

// mergeCrossLists collapses repeated identifiers into one paper per
// identifier. The first occurrence keeps title, abstract and authors;
// later occurrences contribute only their category tags. Categories
// end up as a sorted union.
func mergeCrossLists(papers []domain.Paper) []domain.Paper {
	index := map[string]int{}
	merged := make([]domain.Paper, 0, len(papers))

	for _, paper := range papers {
		at, ok := index[paper.ID]
		if !ok {
			index[paper.ID] = len(merged)
			paper.Categories = append([]string(nil), paper.Categories...)
			merged = append(merged, paper)
			continue
		}
		merged[at].Categories = unionCategories(merged[at].Categories, paper.Categories)
	}

	for i := range merged {
		sort.Strings(merged[i].Categories)
	}
	return merged
}

func unionCategories(existing, extra []string) []string {
	have := make(map[string]bool, len(existing))
	for _, cat := range existing {
		have[cat] = true
	}
	for _, cat := range extra {
		if cat != "" && !have[cat] {
			have[cat] = true
			existing = append(existing, cat)
		}
	}
	return existing
}
