package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"
	"github.com/slack-go/slack"

	"github.com/umputun/relbot/pkg/config"
	"github.com/umputun/relbot/pkg/llm"
	"github.com/umputun/relbot/pkg/refresh"
	"github.com/umputun/relbot/pkg/repository"
	"github.com/umputun/relbot/pkg/scraper"
	"github.com/umputun/relbot/pkg/service"
	"github.com/umputun/relbot/pkg/store"
	"github.com/umputun/relbot/server"
)

// Opts with all CLI options
type Opts struct {
	Config string `short:"c" long:"config" env:"CONFIG" default:"config.yml" description:"config file path"`
	Listen string `short:"l" long:"listen" env:"LISTEN" description:"listen address, overrides config"`

	// Common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	cfg, err := config.Load(opts.Config)
	if err != nil {
		log.Printf("[ERROR] failed to load config: %v", err)
		os.Exit(1)
	}
	if opts.Listen != "" {
		cfg.Server.Listen = opts.Listen
	}

	setupLog(opts.Debug, opts.NoColor, cfg.Slack.BotToken, cfg.Slack.SigningSecret, cfg.LLM.APIKey)
	log.Printf("[INFO] starting relbot version %s", revision)

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	if err := run(ctx, cfg, opts.Debug); err != nil {
		log.Printf("[ERROR] %v", err)
		cancel()
		os.Exit(1)
	}
	cancel()

	log.Print("[INFO] shutdown complete")
}

// run wires all components and blocks until the server stops
func run(ctx context.Context, cfg *config.Config, debug bool) error {
	var src refresh.Scraper
	switch cfg.Source.Mode {
	case "feed":
		src = scraper.NewFeedScraper(cfg.Source)
	default:
		src = scraper.NewGitBookScraper(cfg.Source)
	}
	log.Printf("[INFO] release notes source: %s (%s mode)", cfg.Source.URL, cfg.Source.Mode)

	analyzer := llm.NewAnalyzer(cfg.LLM)
	dataStore := store.NewStore(cfg.Cache.AnswerCapacity)

	var history *repository.History
	if cfg.Database.DSN != "" {
		var err error
		history, err = repository.NewHistory(ctx, repository.Config{
			DSN:             cfg.Database.DSN,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
		})
		if err != nil {
			return fmt.Errorf("init refresh history: %w", err)
		}
		defer func() {
			if err := history.Close(); err != nil {
				log.Printf("[WARN] failed to close history database: %v", err)
			}
		}()
		log.Printf("[INFO] refresh history persisted to %s", cfg.Database.DSN)
	}

	slackClient := slack.New(cfg.Slack.BotToken)
	notifier := server.NewNotifier(slackClient, cfg.Slack.Channel)

	coordParams := refresh.Params{
		Scraper:    src,
		Summarizer: analyzer,
		Store:      dataStore,
		Notifier:   notifier,
		Interval:   cfg.Refresh.Interval,
	}
	if history != nil {
		coordParams.History = history
	}
	coordinator := refresh.NewCoordinator(coordParams)

	query := service.NewQuery(service.Params{
		Store:           dataStore,
		Answerer:        analyzer,
		Refresher:       coordinator,
		AnswerTimeout:   cfg.LLM.Timeout,
		FreshnessWindow: cfg.Cache.FreshnessWindow,
	})

	if cfg.Refresh.Auto {
		coordinator.StartAuto(ctx)
		defer coordinator.Stop()
	} else {
		defer coordinator.Wait()
	}

	var historyStore server.HistoryStore
	if history != nil {
		historyStore = history
	}
	srv := server.New(cfg, query, historyStore, slackClient, revision, debug)

	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

func setupLog(dbg, noColor bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	if dbg {
		logOpts = append(logOpts, lgr.Debug, lgr.CallerFile, lgr.CallerFunc)
	}

	if !noColor {
		colorizer := lgr.Mapper{
			ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
			WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
			InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
			DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
			CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
			TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
		}
		logOpts = append(logOpts, lgr.Map(colorizer))
	}

	var secrets []string
	for _, s := range secs {
		if s != "" {
			secrets = append(secrets, s)
		}
	}
	if len(secrets) > 0 {
		logOpts = append(logOpts, lgr.Secret(secrets...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
