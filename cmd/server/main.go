package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/seokit/internal/auth"
	"github.com/JonMunkholm/seokit/internal/config"
	"github.com/JonMunkholm/seokit/internal/core"
	"github.com/JonMunkholm/seokit/internal/history"
	"github.com/JonMunkholm/seokit/internal/logging"
	"github.com/JonMunkholm/seokit/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"history_driver", cfg.Database.Driver,
		"jobs_max_concurrent", cfg.Jobs.MaxConcurrent,
		"google_login", cfg.Google.Enabled(),
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	ctx := context.Background()
	store, err := history.Open(ctx, history.Config{
		Driver:          cfg.Database.Driver,
		URL:             cfg.Database.URL,
		SQLitePath:      cfg.Database.SQLitePath,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
	})
	if err != nil {
		slog.Error("failed to open history store", "driver", cfg.Database.Driver, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	service, err := core.NewService(cfg, store)
	if err != nil {
		slog.Error("failed to create service", "error", err)
		os.Exit(1)
	}
	slog.Info("tools registered", "count", core.ToolCount())

	sessions, err := newSessionManager(cfg.Session)
	if err != nil {
		slog.Error("failed to set up sessions", "error", err)
		os.Exit(1)
	}
	opts := []web.Option{web.WithSessions(sessions)}
	if cfg.Google.Enabled() {
		opts = append(opts, web.WithGoogleLogin(
			auth.NewProvider(cfg.Google.ClientID, cfg.Google.ClientSecret, cfg.RedirectURL()),
		))
	} else {
		slog.Warn("google sign-in disabled, only service-account jobs are available")
	}

	server := web.NewServer(service, cfg, opts...)

	bgCtx, cancelBackground := context.WithCancel(context.Background())
	go service.StartHistoryPurge(bgCtx, core.PurgeConfig{
		RetentionDays: cfg.History.RetentionDays,
		Interval:      cfg.History.PurgeInterval,
	})

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")
		cancelBackground()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if status := service.LimiterStatus(); status.Active > 0 {
			slog.Info("waiting for jobs to complete", "active", status.Active)
			if err := service.WaitForJobs(shutdownCtx); err != nil {
				slog.Warn("jobs did not complete in time", "error", err)
			} else {
				slog.Info("all jobs completed")
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// newSessionManager builds the cookie session manager. Without a
// configured key a random one is generated, which signs everyone out on
// restart.
func newSessionManager(cfg config.SessionConfig) (*auth.Manager, error) {
	var (
		key []byte
		err error
	)
	if cfg.Key != "" {
		key, err = auth.ParseKey(cfg.Key)
	} else {
		slog.Warn("SESSION_KEY not set, generating an ephemeral session key")
		key, err = auth.GenerateKey()
	}
	if err != nil {
		return nil, err
	}

	sealer, err := auth.NewSealer(key)
	if err != nil {
		return nil, err
	}
	return auth.NewManager(sealer, cfg.CookieName, cfg.MaxAge, cfg.Secure), nil
}
