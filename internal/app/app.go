package app

import (
	"context"
	"fmt"
	"log/slog"

	"arxivdigest/internal/config"
	"arxivdigest/internal/infrastructure/feed"
	"arxivdigest/internal/infrastructure/mailer"
	"arxivdigest/internal/infrastructure/storage"
	"arxivdigest/internal/ports"
	"arxivdigest/internal/score"
	"arxivdigest/internal/usecase"
)

// Options carries the command-line run mode selectors.
type Options struct {
	SendEmail  bool
	IgnoreSeen bool
}

// Run wires adapters from config and executes one digest batch.
func Run(ctx context.Context, cfg config.Config, opts Options, logger *slog.Logger) error {
	scorer, cleanup, err := buildScorer(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	var digestMailer ports.Mailer
	if opts.SendEmail {
		if err := cfg.ValidateMail(); err != nil {
			return err
		}
		digestMailer = mailer.New(mailer.Config{
			Host: cfg.SMTP.Host,
			Port: cfg.SMTP.Port,
			User: cfg.SMTP.User,
			Pass: cfg.SMTP.Pass,
			To:   cfg.SMTP.To,
			From: cfg.SMTP.From,
		})
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source: feed.NewSource(nil, cfg.FeedBaseURL, cfg.MaxItemsPerFeed, logger.With("component", "feed")),
		Seen:   storage.NewSeenFile(cfg.SeenFile),
		Scorer: scorer,
		Mailer: digestMailer,
		Logger: logger.With("component", "pipeline"),
	})

	return pipeline.Run(ctx, usecase.RunOptions{
		Topics:             cfg.Feeds,
		SendEmail:          opts.SendEmail,
		IgnoreSeen:         opts.IgnoreSeen,
		FilterByRelevance:  cfg.FilterByRelevance,
		RelevanceThreshold: cfg.RelevanceThreshold,
		ConsoleMaxItems:    cfg.ConsoleMaxItems,
		EmailMaxItems:      cfg.EmailMaxItems,
	})
}

func buildScorer(cfg config.Config) (ports.Scorer, func(), error) {
	switch cfg.Scorer {
	case config.ScorerOpenAI:
		cache, err := storage.OpenSummaryDB(cfg.CacheFile)
		if err != nil {
			return nil, nil, fmt.Errorf("open summary cache: %w", err)
		}
		completer := score.NewOpenAICompleter(cfg.OpenAIAPIKey, cfg.OpenAIModel)
		return score.NewModel(completer, cache, cfg.OpenAIModel), func() { _ = cache.Close() }, nil
	default:
		return score.NewHeuristic(cfg.IncludeKeywords), func() {}, nil
	}
}
