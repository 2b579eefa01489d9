package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
source:
  url: https://releases.example.com/
llm:
  endpoint: https://api.example.com/v1
  model: gpt-4o-mini
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Listen)
	assert.Equal(t, 30*time.Second, cfg.Server.Timeout)

	assert.Equal(t, "html", cfg.Source.Mode)
	assert.Equal(t, 15*time.Second, cfg.Source.Timeout)
	assert.Equal(t, 4, cfg.Source.MaxConcurrent)
	assert.Equal(t, 500*time.Millisecond, cfg.Source.RateLimit)
	assert.Equal(t, "Relbot/1.0", cfg.Source.UserAgent)
	assert.Equal(t, 200, cfg.Source.MaxPages)

	assert.InEpsilon(t, 0.3, cfg.LLM.Temperature, 0.001)
	assert.Equal(t, 1000, cfg.LLM.MaxTokens)
	assert.Equal(t, 60*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 20, cfg.LLM.SummarizeMaxEntries)
	assert.Equal(t, 25, cfg.LLM.AnswerMaxEntries)

	assert.Equal(t, 100, cfg.Cache.AnswerCapacity)
	assert.Equal(t, 24*time.Hour, cfg.Cache.FreshnessWindow)

	assert.False(t, cfg.Refresh.Auto)
	assert.Equal(t, 6*time.Hour, cfg.Refresh.Interval)
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeConfig(t, `
server:
  listen: ":9090"
  timeout: 45s
slack:
  bot_token: xoxb-test
  signing_secret: secret123
  channel: "#releases"
source:
  url: https://releases.example.com/feed.xml
  mode: feed
  timeout: 20s
llm:
  endpoint: https://api.example.com/v1
  api_key: test-key
  model: deepseek-r1
  temperature: 0.7
  max_tokens: 2000
cache:
  answer_capacity: 50
  freshness_window: 12h
refresh:
  auto: true
  interval: 2h
database:
  dsn: "file:relbot.db?cache=shared&mode=rwc"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Listen)
	assert.Equal(t, "xoxb-test", cfg.Slack.BotToken)
	assert.Equal(t, "feed", cfg.Source.Mode)
	assert.Equal(t, 20*time.Second, cfg.Source.Timeout)
	assert.Equal(t, "deepseek-r1", cfg.LLM.Model)
	assert.InEpsilon(t, 0.7, cfg.LLM.Temperature, 0.001)
	assert.Equal(t, 50, cfg.Cache.AnswerCapacity)
	assert.Equal(t, 12*time.Hour, cfg.Cache.FreshnessWindow)
	assert.True(t, cfg.Refresh.Auto)
	assert.Equal(t, 2*time.Hour, cfg.Refresh.Interval)
	assert.Equal(t, "file:relbot.db?cache=shared&mode=rwc", cfg.Database.DSN)
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_LLM_KEY", "secret-from-env")
	t.Setenv("TEST_SLACK_TOKEN", "xoxb-from-env")

	path := writeConfig(t, `
slack:
  bot_token: ${TEST_SLACK_TOKEN}
source:
  url: https://releases.example.com/
llm:
  endpoint: https://api.example.com/v1
  api_key: ${TEST_LLM_KEY}
  model: gpt-4o-mini
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "secret-from-env", cfg.LLM.APIKey)
	assert.Equal(t, "xoxb-from-env", cfg.Slack.BotToken)
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{
			name: "missing source url",
			content: `
llm:
  endpoint: https://api.example.com/v1
  model: gpt-4o-mini
`,
			errMsg: "source.url is required",
		},
		{
			name: "missing llm endpoint",
			content: `
source:
  url: https://releases.example.com/
llm:
  model: gpt-4o-mini
`,
			errMsg: "llm.endpoint is required",
		},
		{
			name: "missing llm model",
			content: `
source:
  url: https://releases.example.com/
llm:
  endpoint: https://api.example.com/v1
`,
			errMsg: "llm.model is required",
		},
		{
			name: "bad source mode",
			content: `
source:
  url: https://releases.example.com/
  mode: scrape
llm:
  endpoint: https://api.example.com/v1
  model: gpt-4o-mini
`,
			errMsg: "source.mode must be html or feed",
		},
		{
			name: "temperature out of range",
			content: `
source:
  url: https://releases.example.com/
llm:
  endpoint: https://api.example.com/v1
  model: gpt-4o-mini
  temperature: 3.5
`,
			errMsg: "llm.temperature must be between 0 and 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/config.yml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "source: [not: valid")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}
