// Package server exposes the bot over HTTP: Slack slash commands and Events
// API callbacks plus a small JSON API for operational checks. Slash commands
// are answered within Slack's deadline; anything slower is acknowledged
// immediately and the real reply is posted to the channel when ready.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"
	"github.com/slack-go/slack"

	"github.com/umputun/relbot/pkg/domain"
	"github.com/umputun/relbot/pkg/service"
)

//go:generate moq -out mocks/config.go -pkg mocks -skip-ensure -fmt goimports . ConfigProvider
//go:generate moq -out mocks/query.go -pkg mocks -skip-ensure -fmt goimports . QueryService
//go:generate moq -out mocks/history.go -pkg mocks -skip-ensure -fmt goimports . HistoryStore
//go:generate moq -out mocks/slack_client.go -pkg mocks -skip-ensure -fmt goimports . SlackClient

// Server represents HTTP server instance
type Server struct {
	config  ConfigProvider
	query   QueryService
	history HistoryStore
	slack   SlackClient
	version string
	debug   bool

	signingSecret string

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
}

// QueryService serves user-facing requests
type QueryService interface {
	GetSummary(ctx context.Context) (service.SummaryView, error)
	Ask(ctx context.Context, question string) (service.AnswerView, error)
	Status() service.StatusView
	Refresh(ctx context.Context, reason string) service.RefreshAck
}

// HistoryStore reads the refresh audit trail, nil disables the history endpoint
type HistoryStore interface {
	Recent(ctx context.Context, limit int) ([]domain.RefreshRecord, error)
}

// SlackClient posts messages back to Slack
type SlackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

// ConfigProvider provides server configuration
type ConfigProvider interface {
	GetServerConfig() (listen string, timeout time.Duration)
	GetSlackConfig() (signingSecret, channel string)
}

// New initializes a new server instance
func New(cfg ConfigProvider, query QueryService, history HistoryStore, slackClient SlackClient, version string, debug bool) *Server {
	signingSecret, _ := cfg.GetSlackConfig()
	s := &Server{
		config:        cfg,
		query:         query,
		history:       history,
		slack:         slackClient,
		version:       version,
		debug:         debug,
		signingSecret: signingSecret,
		router:        routegroup.New(http.NewServeMux()),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Run starts the HTTP server and handles graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	listen, timeout := s.config.GetServerConfig()
	log.Printf("[INFO] starting server on %s", listen)

	s.lock.Lock()
	s.httpServer = &http.Server{
		Addr:         listen,
		Handler:      s.router,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	}
	s.lock.Unlock()

	go func() {
		<-ctx.Done()
		log.Printf("[INFO] shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] server shutdown error: %v", err)
		}
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// setupMiddleware configures standard middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("relbot", "umputun", s.version))
	s.router.Use(rest.Ping)

	if s.debug {
		s.router.Use(logger.New(logger.Log(lgr.Default()), logger.Prefix("[DEBUG]")).Handler)
	}

	s.router.Use(rest.Recoverer(lgr.Default()))
	s.router.Use(rest.Throttle(100))
	s.router.Use(rest.SizeLimit(1024 * 1024)) // 1MB
}

// setupRoutes configures application routes
func (s *Server) setupRoutes() {
	s.router.Mount("/slack").Route(func(r *routegroup.Bundle) {
		r.HandleFunc("POST /command", s.slashCommandHandler)
		r.HandleFunc("POST /events", s.eventsHandler)
	})

	s.router.Mount("/api/v1").Route(func(r *routegroup.Bundle) {
		r.HandleFunc("GET /status", s.statusHandler)
		r.HandleFunc("GET /history", s.historyHandler)
	})
}

// statusHandler returns the refresh state and data counts
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	view := s.query.Status()
	status := map[string]interface{}{
		"status":          "ok",
		"version":         s.version,
		"time":            time.Now().UTC(),
		"refresh_status":  view.Status,
		"last_outcome":    view.LastOutcome,
		"last_success":    view.LastSuccess,
		"last_error":      view.LastError,
		"entries":         view.Entries,
		"cached_answers":  view.CachedAnswers,
		"summary_version": view.SummaryVersion,
		"has_summary":     view.HasSummary,
	}
	RenderJSON(w, r, http.StatusOK, status)
}

// historyHandler returns recent refresh attempts
func (s *Server) historyHandler(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		RenderError(w, r, fmt.Errorf("history not configured"), http.StatusNotFound)
		return
	}

	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			RenderError(w, r, fmt.Errorf("invalid limit"), http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	records, err := s.history.Recent(r.Context(), limit)
	if err != nil {
		log.Printf("[ERROR] failed to get refresh history: %v", err)
		RenderError(w, r, err, http.StatusInternalServerError)
		return
	}
	RenderJSON(w, r, http.StatusOK, map[string]interface{}{"records": records})
}

// RenderJSON sends JSON response
func RenderJSON(w http.ResponseWriter, _ *http.Request, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("[ERROR] can't encode response to JSON: %v", err)
		}
	}
}

// RenderError sends error response as JSON
func RenderError(w http.ResponseWriter, r *http.Request, err error, code int) {
	errMsg := "unknown error"
	if err != nil {
		errMsg = err.Error()
	}
	RenderJSON(w, r, code, map[string]string{"error": errMsg})
}
