package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the application configuration
type Config struct {
	Server struct {
		Listen  string        `yaml:"listen" json:"listen" jsonschema:"default=:8080,description=HTTP server listen address"`
		Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP server timeout"`
	} `yaml:"server" json:"server" jsonschema:"description=Server configuration"`

	Slack struct {
		BotToken      string `yaml:"bot_token" json:"bot_token" jsonschema:"description=Slack bot token (xoxb-...)"`
		SigningSecret string `yaml:"signing_secret" json:"signing_secret" jsonschema:"description=Slack signing secret for request verification"`
		Channel       string `yaml:"channel" json:"channel" jsonschema:"description=Channel for background refresh completion notices"`
	} `yaml:"slack" json:"slack" jsonschema:"description=Slack transport configuration"`

	Source SourceConfig `yaml:"source" json:"source" jsonschema:"description=Release notes source configuration"`

	LLM LLMConfig `yaml:"llm" json:"llm" jsonschema:"description=LLM configuration for summaries and answers"`

	Cache struct {
		AnswerCapacity  int           `yaml:"answer_capacity" json:"answer_capacity" jsonschema:"default=100,description=Maximum number of cached answers"`
		FreshnessWindow time.Duration `yaml:"freshness_window" json:"freshness_window" jsonschema:"default=24h,description=Age beyond which a cached answer gets a staleness note"`
	} `yaml:"cache" json:"cache" jsonschema:"description=Answer cache configuration"`

	Refresh struct {
		Auto     bool          `yaml:"auto" json:"auto" jsonschema:"default=false,description=Enable periodic background refresh"`
		Interval time.Duration `yaml:"interval" json:"interval" jsonschema:"default=6h,description=Periodic refresh interval"`
	} `yaml:"refresh" json:"refresh" jsonschema:"description=Background refresh configuration"`

	Database struct {
		DSN             string `yaml:"dsn" json:"dsn" jsonschema:"description=SQLite DSN for refresh history (empty disables persistence)"`
		MaxOpenConns    int    `yaml:"max_open_conns" json:"max_open_conns" jsonschema:"default=10,description=Maximum number of open connections"`
		MaxIdleConns    int    `yaml:"max_idle_conns" json:"max_idle_conns" jsonschema:"default=5,description=Maximum number of idle connections"`
		ConnMaxLifetime int    `yaml:"conn_max_lifetime" json:"conn_max_lifetime" jsonschema:"default=3600,description=Connection maximum lifetime in seconds"`
	} `yaml:"database" json:"database" jsonschema:"description=Refresh history database configuration"`
}

// SourceConfig holds release notes source settings
type SourceConfig struct {
	URL           string        `yaml:"url" json:"url" jsonschema:"required,description=Release notes root URL (GitBook site or RSS/Atom feed)"`
	Mode          string        `yaml:"mode" json:"mode" jsonschema:"default=html,enum=html,enum=feed,description=Source mode: html crawl or feed"`
	Timeout       time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=15s,description=Timeout per HTTP request"`
	MaxConcurrent int           `yaml:"max_concurrent" json:"max_concurrent" jsonschema:"default=4,description=Maximum concurrent detail page fetches"`
	RateLimit     time.Duration `yaml:"rate_limit" json:"rate_limit" jsonschema:"default=500ms,description=Delay between detail page fetches"`
	UserAgent     string        `yaml:"user_agent" json:"user_agent" jsonschema:"default=Relbot/1.0,description=User agent for HTTP requests"`
	MaxPages      int           `yaml:"max_pages" json:"max_pages" jsonschema:"default=200,description=Maximum number of detail pages to fetch per refresh"`
}

// LLMConfig holds LLM configuration for summaries and Q&A
type LLMConfig struct {
	Endpoint            string        `yaml:"endpoint" json:"endpoint" jsonschema:"required,description=OpenAI-compatible API endpoint"`
	APIKey              string        `yaml:"api_key" json:"api_key" jsonschema:"description=API key (can use environment variable)"`
	Model               string        `yaml:"model" json:"model" jsonschema:"required,description=Model name (e.g. gpt-4o-mini or deepseek-r1)"`
	Temperature         float64       `yaml:"temperature" json:"temperature" jsonschema:"default=0.3,description=Temperature for response generation"`
	MaxTokens           int           `yaml:"max_tokens" json:"max_tokens" jsonschema:"default=1000,description=Maximum tokens in response"`
	Timeout             time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=60s,description=Request timeout"`
	SummaryPrompt       string        `yaml:"summary_prompt" json:"summary_prompt" jsonschema:"description=Override for the summary prompt (optional)"`
	SummarizeMaxEntries int           `yaml:"summarize_max_entries" json:"summarize_max_entries" jsonschema:"default=20,description=Number of entries included in a summary prompt"`
	AnswerMaxEntries    int           `yaml:"answer_max_entries" json:"answer_max_entries" jsonschema:"default=25,description=Number of entries included in an answer prompt"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// set defaults for server
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = ":8080"
	}
	if cfg.Server.Timeout == 0 {
		cfg.Server.Timeout = 30 * time.Second
	}

	// set defaults for source
	if cfg.Source.Mode == "" {
		cfg.Source.Mode = "html"
	}
	if cfg.Source.Timeout == 0 {
		cfg.Source.Timeout = 15 * time.Second
	}
	if cfg.Source.MaxConcurrent == 0 {
		cfg.Source.MaxConcurrent = 4
	}
	if cfg.Source.RateLimit == 0 {
		cfg.Source.RateLimit = 500 * time.Millisecond
	}
	if cfg.Source.UserAgent == "" {
		cfg.Source.UserAgent = "Relbot/1.0"
	}
	if cfg.Source.MaxPages == 0 {
		cfg.Source.MaxPages = 200
	}

	// set defaults for LLM
	if cfg.LLM.Temperature == 0 {
		cfg.LLM.Temperature = 0.3
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = 1000
	}
	if cfg.LLM.Timeout == 0 {
		cfg.LLM.Timeout = 60 * time.Second
	}
	if cfg.LLM.SummarizeMaxEntries == 0 {
		cfg.LLM.SummarizeMaxEntries = 20
	}
	if cfg.LLM.AnswerMaxEntries == 0 {
		cfg.LLM.AnswerMaxEntries = 25
	}

	// set defaults for cache
	if cfg.Cache.AnswerCapacity == 0 {
		cfg.Cache.AnswerCapacity = 100
	}
	if cfg.Cache.FreshnessWindow == 0 {
		cfg.Cache.FreshnessWindow = 24 * time.Hour
	}

	// set defaults for refresh
	if cfg.Refresh.Interval == 0 {
		cfg.Refresh.Interval = 6 * time.Hour
	}

	// set defaults for database
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 3600
	}

	// validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// verify against embedded schema
	if err := VerifyAgainstEmbeddedSchema(&cfg); err != nil {
		// log warning but don't fail - schema validation is supplementary
		fmt.Printf("warning: schema validation failed: %v\n", err)
	}

	return &cfg, nil
}

// validate checks configuration for correctness
func validate(cfg *Config) error {

	// validate source config
	if cfg.Source.URL == "" {
		return fmt.Errorf("source.url is required")
	}
	if cfg.Source.Mode != "html" && cfg.Source.Mode != "feed" {
		return fmt.Errorf("source.mode must be html or feed")
	}
	if cfg.Source.Timeout < time.Second {
		return fmt.Errorf("source timeout must be at least 1 second")
	}
	if cfg.Source.MaxPages < 1 {
		return fmt.Errorf("source.max_pages must be at least 1")
	}

	// validate LLM config
	if cfg.LLM.Endpoint == "" {
		return fmt.Errorf("llm.endpoint is required")
	}
	if cfg.LLM.Model == "" {
		return fmt.Errorf("llm.model is required")
	}
	if cfg.LLM.Temperature < 0 || cfg.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be between 0 and 2")
	}
	if cfg.LLM.SummarizeMaxEntries < 1 {
		return fmt.Errorf("llm.summarize_max_entries must be at least 1")
	}
	if cfg.LLM.AnswerMaxEntries < 1 {
		return fmt.Errorf("llm.answer_max_entries must be at least 1")
	}

	// validate cache config
	if cfg.Cache.AnswerCapacity < 1 {
		return fmt.Errorf("cache.answer_capacity must be at least 1")
	}
	if cfg.Cache.FreshnessWindow < time.Minute {
		return fmt.Errorf("cache.freshness_window must be at least 1 minute")
	}

	// validate refresh config
	if cfg.Refresh.Auto && cfg.Refresh.Interval < time.Minute {
		return fmt.Errorf("refresh.interval must be at least 1 minute")
	}

	// validate server config
	if cfg.Server.Timeout < time.Second {
		return fmt.Errorf("server timeout must be at least 1 second")
	}

	return nil
}

// GetServerConfig returns server configuration
func (c *Config) GetServerConfig() (listen string, timeout time.Duration) {
	return c.Server.Listen, c.Server.Timeout
}

// GetSlackConfig returns slack signing secret and notification channel
func (c *Config) GetSlackConfig() (signingSecret, channel string) {
	return c.Slack.SigningSecret, c.Slack.Channel
}

// GetSourceConfig returns release notes source configuration
func (c *Config) GetSourceConfig() SourceConfig {
	return c.Source
}

// GetLLMConfig returns LLM configuration
func (c *Config) GetLLMConfig() LLMConfig {
	return c.LLM
}
