package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "feeds: [cs.AI]\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.MaxItemsPerFeed != 50 {
		t.Fatalf("unexpected per-feed cap: %d", cfg.MaxItemsPerFeed)
	}
	if cfg.RelevanceThreshold != 3.5 {
		t.Fatalf("unexpected threshold: %v", cfg.RelevanceThreshold)
	}
	if cfg.EmailMaxItems != 150 || cfg.ConsoleMaxItems != 50 {
		t.Fatalf("unexpected caps: %d/%d", cfg.EmailMaxItems, cfg.ConsoleMaxItems)
	}
	if cfg.Scorer != ScorerHeuristic {
		t.Fatalf("unexpected scorer: %s", cfg.Scorer)
	}
	if cfg.SMTP.Port != 587 {
		t.Fatalf("unexpected smtp port: %d", cfg.SMTP.Port)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
feeds: [cs.AI, cs.LG]
max_items_per_feed: 10
filter_by_relevance: true
include_keywords: [quantum, entanglement]
console_max_items: 5
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if len(cfg.Feeds) != 2 || cfg.MaxItemsPerFeed != 10 || cfg.ConsoleMaxItems != 5 {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if !cfg.FilterByRelevance || len(cfg.IncludeKeywords) != 2 {
		t.Fatalf("file values not applied: %+v", cfg)
	}
}

func TestLoadRejectsEmptyFeeds(t *testing.T) {
	path := writeConfig(t, "max_items_per_feed: 10\n")

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for missing feeds")
	}
}

func TestLoadRejectsUnknownScorer(t *testing.T) {
	path := writeConfig(t, "feeds: [cs.AI]\nscorer: psychic\n")

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown scorer")
	}
}

func TestLoadOpenAIScorerRequiresKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	path := writeConfig(t, "feeds: [cs.AI]\nscorer: openai\n")

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for missing api key")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SMTP_HOST", "smtp.example.org")
	t.Setenv("SMTP_PORT", "465")
	t.Setenv("TO_EMAIL", "digest@example.org")

	path := writeConfig(t, "feeds: [cs.AI]\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.SMTP.Host != "smtp.example.org" || cfg.SMTP.Port != 465 {
		t.Fatalf("env overrides not applied: %+v", cfg.SMTP)
	}
	if cfg.SMTP.To != "digest@example.org" {
		t.Fatalf("env overrides not applied: %+v", cfg.SMTP)
	}
}

func TestValidateMail(t *testing.T) {
	cfg := Config{SMTP: SMTPConfig{Host: "h", User: "u", Pass: "p", To: "t"}}
	if err := cfg.ValidateMail(); err != nil {
		t.Fatalf("ValidateMail error: %v", err)
	}

	cfg.SMTP.Pass = ""
	if err := cfg.ValidateMail(); err == nil {
		t.Fatal("expected error for missing credentials")
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for unreadable config path")
	}
}
