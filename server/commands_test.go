package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/umputun/relbot/pkg/domain"
	"github.com/umputun/relbot/pkg/service"
	"github.com/umputun/relbot/server/mocks"
)

func TestParseIntent(t *testing.T) {
	tests := []struct {
		text string
		in   intent
		arg  string
	}{
		{"", intentSummary, ""},
		{"summary", intentSummary, ""},
		{"  status  ", intentStatus, ""},
		{"refresh", intentRefresh, ""},
		{"help", intentHelp, ""},
		{"ask what's new?", intentAsk, "what's new?"},
		{"ask", intentAsk, ""},
		{"what changed in march?", intentAsk, "what changed in march?"},
		{"Summary", intentSummary, ""},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			in, arg := parseIntent(tt.text)
			assert.Equal(t, tt.in, in)
			assert.Equal(t, tt.arg, arg)
		})
	}
}

func TestClassifyMessage(t *testing.T) {
	tests := []struct {
		text string
		in   intent
	}{
		{"give me the summary", intentSummary},
		{"tolong ringkasan rilis", intentSummary},
		{"is there a new export feature?", intentAsk},
		{"apakah ada fitur baru", intentAsk},
		{"bagaimana cara pakai laporan baru", intentAsk},
		{"status", intentStatus},
		{"hello there", intentHelp},
		{"", intentHelp},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			in, _ := classifyMessage(tt.text)
			assert.Equal(t, tt.in, in)
		})
	}
}

func TestStripMentions(t *testing.T) {
	assert.Equal(t, "summary please", stripMentions("<@U0BOT123> summary please"))
	assert.Equal(t, "what's new?", stripMentions("what's new? <@U0BOT123>"))
	assert.Equal(t, "no mention here", stripMentions("no mention here"))
}

func TestServer_SummaryReplyNotReady(t *testing.T) {
	query := &mocks.QueryServiceMock{
		GetSummaryFunc: func(ctx context.Context) (service.SummaryView, error) {
			return service.SummaryView{}, service.ErrNotReady
		},
	}
	s := New(testConfig(), query, nil, nil, "1.0", false)

	reply := s.summaryReply(context.Background())
	assert.Contains(t, reply, "preparing")
}

func TestServer_SummaryReplyStale(t *testing.T) {
	query := &mocks.QueryServiceMock{
		GetSummaryFunc: func(ctx context.Context) (service.SummaryView, error) {
			return service.SummaryView{Text: "- old bullet", Age: 72 * time.Hour, Stale: true}, nil
		},
	}
	s := New(testConfig(), query, nil, nil, "1.0", false)

	reply := s.summaryReply(context.Background())
	assert.Contains(t, reply, "- old bullet")
	assert.Contains(t, reply, "out of date")
	assert.Contains(t, reply, "3d")
}

func TestServer_AskReplyErrors(t *testing.T) {
	t.Run("empty question", func(t *testing.T) {
		query := &mocks.QueryServiceMock{
			AskFunc: func(ctx context.Context, question string) (service.AnswerView, error) {
				return service.AnswerView{}, service.ErrEmptyQuestion
			},
		}
		s := New(testConfig(), query, nil, nil, "1.0", false)
		assert.Contains(t, s.askReply(context.Background(), ""), "Ask me something")
	})

	t.Run("quota exhausted", func(t *testing.T) {
		query := &mocks.QueryServiceMock{
			AskFunc: func(ctx context.Context, question string) (service.AnswerView, error) {
				return service.AnswerView{}, &domain.AIError{Reason: domain.AIQuota, Err: errors.New("429")}
			},
		}
		s := New(testConfig(), query, nil, nil, "1.0", false)
		assert.Contains(t, s.askReply(context.Background(), "q"), "over its limit")
	})

	t.Run("generic failure", func(t *testing.T) {
		query := &mocks.QueryServiceMock{
			AskFunc: func(ctx context.Context, question string) (service.AnswerView, error) {
				return service.AnswerView{}, &domain.AIError{Reason: domain.AINetwork, Err: errors.New("timeout")}
			},
		}
		s := New(testConfig(), query, nil, nil, "1.0", false)
		assert.Contains(t, s.askReply(context.Background(), "q"), "try again")
	})
}

func TestServer_StatusReplyVariants(t *testing.T) {
	t.Run("running", func(t *testing.T) {
		query := &mocks.QueryServiceMock{
			StatusFunc: func() service.StatusView {
				return service.StatusView{Status: domain.RefreshRunning, StartedAt: time.Now().Add(-2 * time.Minute)}
			},
		}
		s := New(testConfig(), query, nil, nil, "1.0", false)
		reply := s.statusReply()
		assert.Contains(t, reply, "running")
		assert.Contains(t, reply, "not generated yet")
	})

	t.Run("failed", func(t *testing.T) {
		query := &mocks.QueryServiceMock{
			StatusFunc: func() service.StatusView {
				return service.StatusView{Status: domain.RefreshFailed, LastError: "scrape failed (network): timeout"}
			},
		}
		s := New(testConfig(), query, nil, nil, "1.0", false)
		assert.Contains(t, s.statusReply(), "failed")
	})
}

func TestServer_RefreshReply(t *testing.T) {
	started := true
	query := &mocks.QueryServiceMock{
		RefreshFunc: func(ctx context.Context, reason string) service.RefreshAck {
			return service.RefreshAck{Started: started}
		},
	}
	s := New(testConfig(), query, nil, nil, "1.0", false)

	assert.Contains(t, s.refreshReply(context.Background()), "started")
	started = false
	assert.Contains(t, s.refreshReply(context.Background()), "already in progress")
	assert.Equal(t, "manual", query.RefreshCalls()[0].Reason)
}

func TestHumanizeDuration(t *testing.T) {
	assert.Equal(t, "less than a minute", humanizeDuration(30*time.Second))
	assert.Equal(t, "5m", humanizeDuration(5*time.Minute))
	assert.Equal(t, "3h", humanizeDuration(3*time.Hour+12*time.Minute))
	assert.Equal(t, "5d", humanizeDuration(121*time.Hour))
}
