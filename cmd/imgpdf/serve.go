package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"imgpdf/internal/config"
	"imgpdf/internal/convert"
	"imgpdf/internal/http/server"
	"imgpdf/internal/infra/cache"
	log "imgpdf/internal/infra/logging"
	"imgpdf/internal/infra/postgres"
	"imgpdf/internal/infra/ratelimit"
	"imgpdf/internal/janitor"
	"imgpdf/internal/tokens"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the upload page and JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		initLogger(cfg)
		return serve(cfg)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func initLogger(cfg config.Config) {
	log.InitLogger(
		cfg.Logger.File,
		cfg.Logger.MaxSizeMB,
		cfg.Logger.MaxBackups,
		cfg.Logger.MaxAgeDays,
		cfg.Logger.Compress,
		cfg.Logger.Level,
	)
	log.SetLogLevel(cfg.Logger.Level)
}

func serve(cfg config.Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var resultCache *cache.ResultCache
	if cfg.Cache.Enabled && cfg.Cache.RedisHost != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr: cfg.Cache.RedisHost,
			DB:   cfg.Cache.ResultDB,
		})
		defer rdb.Close()
		resultCache = cache.New(rdb, cfg.Cache.TTL)
	}

	db := postgres.NewDB()
	defer db.Close()
	tc := loadTokens(ctx, cfg, db)

	jan, err := janitor.New(cfg.Workspace.BaseDir, cfg.Workspace.MaxAge, cfg.Workspace.SweepSchedule)
	if err != nil {
		return err
	}
	if _, err := jan.Sweep(); err != nil {
		log.Warn("Initial workspace sweep failed", "error", err)
	}
	jan.Start()

	app := server.New(server.Deps{
		Config:    cfg,
		Converter: convert.New(cfg.Convert.ImageDPI, cfg.Convert.RenderDPI, cfg.Workspace.BaseDir),
		Cache:     resultCache,
		Tokens:    tc,
		LimiterStore: ratelimit.NewStore(ratelimit.RedisConfig{
			Addr: cfg.Cache.RedisHost,
			DB:   cfg.Cache.RateLimitDB,
		}),
	})

	idleConnsClosed := make(chan struct{})
	startServer(app, cfg, idleConnsClosed)
	<-idleConnsClosed

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer stopCancel()
	jan.Stop(stopCtx)
	return nil
}

// loadTokens returns the API token cache. Without a DSN it stays empty but
// ready, so any key is rejected as unknown; otherwise it is loaded from
// Postgres and refreshed until ctx is done.
func loadTokens(ctx context.Context, cfg config.Config, db *postgres.DB) *tokens.Cache {
	tc := tokens.NewCache()
	if cfg.Auth.PostgresDSN == "" {
		tc.Replace(nil)
		return tc
	}

	reloader := tokens.NewReloader(postgres.NewTokenRepository(db, cfg.Auth.PostgresDSN), tc, cfg.Auth.TokenReloadInterval)
	if err := reloader.LoadOnce(ctx); err != nil {
		log.Error("Failed to load API tokens", "error", err)
	}
	reloader.Start(ctx)
	return tc
}

// startServer starts the Fiber app and blocks until a shutdown signal has
// been handled.
func startServer(app *fiber.App, cfg config.Config, idleConnsClosed chan struct{}) {
	go func() {
		log.Info("Listening", "addr", cfg.Server.Host+cfg.Server.Port)
		if err := app.Listen(cfg.Server.Host + cfg.Server.Port); err != nil {
			log.Error("Server error", "error", err)
		}
	}()

	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, syscall.SIGINT, syscall.SIGTERM)
	<-sigint

	log.Warn("Shutdown signal received, closing server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	close(idleConnsClosed)
	log.Info("Server stopped cleanly")
}
