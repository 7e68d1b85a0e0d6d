package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv   = "ARXIV_DIGEST_CONFIG"
	openAIAPIKeyEnv = "OPENAI_API_KEY"
	smtpHostEnv     = "SMTP_HOST"
	smtpPortEnv     = "SMTP_PORT"
	smtpUserEnv     = "SMTP_USER"
	smtpPassEnv     = "SMTP_PASS"
	toEmailEnv      = "TO_EMAIL"
	fromEmailEnv    = "FROM_EMAIL"
)

// Scorer mode selectors.
const (
	ScorerHeuristic = "heuristic"
	ScorerOpenAI    = "openai"
)

// Config holds all settings required across the application.
type Config struct {
	Feeds              []string   `yaml:"feeds"`
	MaxItemsPerFeed    int        `yaml:"max_items_per_feed"`
	RelevanceThreshold float64    `yaml:"relevance_threshold"`
	FilterByRelevance  bool       `yaml:"filter_by_relevance"`
	IncludeKeywords    []string   `yaml:"include_keywords"`
	EmailMaxItems      int        `yaml:"email_max_items"`
	ConsoleMaxItems    int        `yaml:"console_max_items"`
	Scorer             string     `yaml:"scorer"`
	OpenAIModel        string     `yaml:"openai_model"`
	OpenAIAPIKey       string     `yaml:"-"`
	SeenFile           string     `yaml:"seen_file"`
	CacheFile          string     `yaml:"cache_file"`
	FeedBaseURL        string     `yaml:"feed_base_url"`
	LogLevel           string     `yaml:"log_level"`
	SMTP               SMTPConfig `yaml:"smtp"`
}

// SMTPConfig wires everything required for outbound digest mail.
// Credentials are expected from the environment in deployments.
type SMTPConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	User string `yaml:"user"`
	Pass string `yaml:"-"`
	To   string `yaml:"to"`
	From string `yaml:"from"`
}

// Load reads YAML configuration from path (or the ARXIV_DIGEST_CONFIG
// env var when path is empty), applies environment overrides, and
// validates the result. Any problem here is fatal to the run.
func Load(path string) (Config, error) {
	cfg := defaultConfig()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(openAIAPIKeyEnv); v != "" {
		c.OpenAIAPIKey = v
	}
	if v := os.Getenv(smtpHostEnv); v != "" {
		c.SMTP.Host = v
	}
	if v := os.Getenv(smtpPortEnv); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.SMTP.Port = port
		}
	}
	if v := os.Getenv(smtpUserEnv); v != "" {
		c.SMTP.User = v
	}
	if v := os.Getenv(smtpPassEnv); v != "" {
		c.SMTP.Pass = v
	}
	if v := os.Getenv(toEmailEnv); v != "" {
		c.SMTP.To = v
	}
	if v := os.Getenv(fromEmailEnv); v != "" {
		c.SMTP.From = v
	}
}

func (c *Config) validate() error {
	if len(c.Feeds) == 0 {
		return fmt.Errorf("config: feeds list is empty")
	}
	switch c.Scorer {
	case ScorerHeuristic:
	case ScorerOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("config: scorer %q requires %s", c.Scorer, openAIAPIKeyEnv)
		}
	default:
		return fmt.Errorf("config: unknown scorer %q", c.Scorer)
	}
	if c.MaxItemsPerFeed <= 0 {
		return fmt.Errorf("config: max_items_per_feed must be positive")
	}
	return nil
}

// ValidateMail checks the settings required only when the digest is
// delivered by email.
func (c *Config) ValidateMail() error {
	if c.SMTP.Host == "" || c.SMTP.User == "" || c.SMTP.Pass == "" || c.SMTP.To == "" {
		return fmt.Errorf("config: email delivery requires %s, %s, %s and %s",
			smtpHostEnv, smtpUserEnv, smtpPassEnv, toEmailEnv)
	}
	return nil
}

func defaultConfig() Config {
	return Config{
		Feeds:              nil,
		MaxItemsPerFeed:    50,
		RelevanceThreshold: 3.5,
		FilterByRelevance:  false,
		EmailMaxItems:      150,
		ConsoleMaxItems:    50,
		Scorer:             ScorerHeuristic,
		OpenAIModel:        "gpt-5-mini",
		SeenFile:           "seen.json",
		CacheFile:          "arxiv_digest.db",
		FeedBaseURL:        "https://rss.arxiv.org/rss",
		LogLevel:           "info",
		SMTP:               SMTPConfig{Port: 587},
	}
}
