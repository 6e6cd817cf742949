package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/hydrokr/stationd/internal/catalog"
	"github.com/hydrokr/stationd/internal/config"
	"github.com/hydrokr/stationd/internal/hrfco"
	"github.com/hydrokr/stationd/internal/httpserver"
	"github.com/hydrokr/stationd/internal/httpserver/deps"
	"github.com/hydrokr/stationd/internal/logger"
	"github.com/hydrokr/stationd/internal/pipeline"
	"github.com/hydrokr/stationd/internal/readings"
	"github.com/hydrokr/stationd/internal/search"
	"github.com/hydrokr/stationd/internal/version"
)

type App struct {
	cfg    *config.Config
	logger logger.Logger
	server *httpserver.Server
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Load the station catalog early - fail fast if unusable
	loggerClient.Infof("Loading station catalog from %s", cfg.CatalogFile)
	cat, err := catalog.NewLoader(cfg.CatalogFile, loggerClient).Load()
	if err != nil {
		loggerClient.Errorf("Failed to load catalog: %v", err)
		os.Exit(1)
	}
	loggerClient.Info("catalog loaded",
		logger.Int("stations", cat.Len()))

	matcher := search.NewMatcher(cat, cfg.ResolverCacheSize, loggerClient)

	if cfg.HRFCOAPIKey == "" {
		loggerClient.Warn("no HRFCO API key configured, serving demo data only")
	}
	client := hrfco.NewClient(hrfco.Config{
		BaseURL:    cfg.HRFCOBaseURL,
		APIKey:     cfg.HRFCOAPIKey,
		Timeout:    cfg.HRFCOTimeout,
		MaxRetries: uint64(cfg.HRFCOMaxRetries),
	}, loggerClient)

	readingCache := readings.NewCache(client, hrfco.Fallback, cfg.ReadingTTL, clockwork.NewRealClock(), loggerClient)

	pipe := pipeline.New(matcher, readingCache, cfg.MaxCandidates, loggerClient)

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:           loggerClient,
		StartTime:        time.Now(),
		Version:          version.Version,
		Commit:           version.Commit,
		BuildDate:        version.BuildDate,
		GoVersion:        version.GoVersion,
		TimeNow:          time.Now,
		AllowedHosts:     cfg.AllowedHosts,
		AllowedCIDRS:     cfg.AllowedCIDRS,
		TrustProxy:       cfg.TrustProxy,
		Matcher:          matcher,
		Pipeline:         pipe,
		Readings:         readingCache,
		CatalogFile:      cfg.CatalogFile,
		APIKeyConfigured: cfg.HRFCOAPIKey != "",
		MaxCandidates:    cfg.MaxCandidates,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:    cfg,
		logger: loggerClient,
		server: server,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting stationd v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("stationd %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	a.logger.Info("✅ stationd stopped cleanly")
	return nil
}
