package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/OER-Club/CS39AE-Fall25/internal/api"
	"github.com/OER-Club/CS39AE-Fall25/internal/config"
	"github.com/OER-Club/CS39AE-Fall25/internal/dashboard"
	"github.com/OER-Club/CS39AE-Fall25/internal/db"
	"github.com/OER-Club/CS39AE-Fall25/internal/edges"
	"github.com/OER-Club/CS39AE-Fall25/internal/market"
	"github.com/OER-Club/CS39AE-Fall25/internal/repository"
	"github.com/OER-Club/CS39AE-Fall25/internal/session"
)

const banner = `
╔══════════════════════════════════════╗
║   CS39AE Dashboard Backend v0.1      ║
║                                      ║
╚══════════════════════════════════════╝
`

func main() {
	fmt.Print(banner)

	log := newLogger()
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config load error", zap.Error(err))
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid config", zap.Error(err))
	}

	log.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.Strings("instruments", cfg.Instruments),
		zap.String("vsCurrency", cfg.VsCurrency),
		zap.Duration("window", cfg.HistoryWindow()),
		zap.Duration("pollInterval", cfg.PollInterval()),
		zap.Bool("dbConfigured", cfg.DBConfigured()),
		zap.Bool("authEnabled", cfg.APIKey != ""))

	// Optional Postgres poll-history persistence.
	var pool *pgxpool.Pool
	var recorder dashboard.Recorder
	if cfg.DBConfigured() {
		pool, err = db.Connect(cfg.DSN())
		if err != nil {
			log.Fatal("database connection failed", zap.Error(err))
		}
		defer pool.Close()

		initCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := db.EnsureSchema(initCtx, pool); err != nil {
			cancel()
			log.Fatal("schema init failed", zap.Error(err))
		}
		cancel()
		recorder = repository.NewPriceRepo(pool)
		log.Info("poll history persistence enabled",
			zap.String("host", cfg.DBHost), zap.String("db", cfg.DBName))
	} else {
		log.Info("running in-memory, no poll history persistence")
	}

	// Bundled edge table for the network page, when present.
	var bundled []edges.Record
	edgeSource := "none"
	if records, err := edges.LoadFile(cfg.EdgeFile); err == nil {
		bundled = records
		edgeSource = "bundled:" + cfg.EdgeFile
		log.Info("bundled edge table loaded",
			zap.String("file", cfg.EdgeFile), zap.Int("rows", len(records)))
	} else {
		log.Warn("no bundled edge table, network page starts empty",
			zap.String("file", cfg.EdgeFile), zap.Error(err))
	}

	// Each session carries its own TTL cache so memoization stays
	// session-scoped, like the reactive framework's per-session state.
	factory := func(id string) *session.Session {
		client := market.NewClient(cfg.PriceAPIBaseURL, log.Named("market"))
		memo := market.NewMemoizer(client, cfg.CacheTTL())
		return &session.Session{
			Crypto: dashboard.NewCryptoState(dashboard.CryptoSettings{
				Instruments:  cfg.Instruments,
				VsCurrency:   cfg.VsCurrency,
				Window:       cfg.HistoryWindow(),
				PollInterval: cfg.PollInterval(),
			}),
			Page:       dashboard.NewCryptoPage(memo, recorder, log.Named("crypto")),
			Edges:      bundled,
			EdgeSource: edgeSource,
		}
	}

	sessions := session.NewManager(factory, cfg.SessionIdleTTL(), log.Named("session"))
	sessions.Start(time.Minute)

	srv := api.NewServer(cfg, sessions, pool, log.Named("api"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", zap.Error(err))
			stop()
		}
	}()

	log.Info("all services started")

	<-ctx.Done()
	log.Info("shutting down")

	sessions.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown error", zap.Error(err))
	}
	log.Info("shutdown complete")
}

func newLogger() *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.TimeKey = "time"

	log, err := cfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	return log
}
