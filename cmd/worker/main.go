package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/travelquery/config"
	"github.com/Domenick1991/travelquery/internal/domain"
	"github.com/Domenick1991/travelquery/internal/kafka"
	"github.com/Domenick1991/travelquery/internal/logger"
	"github.com/Domenick1991/travelquery/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zl, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zl.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		zl.Fatal("connect postgres", zap.Error(err))
	}
	defer pool.Close()

	resolutions := repository.NewResolutionRepository(pool)
	if err := resolutions.EnsureSchema(ctx); err != nil {
		zl.Fatal("ensure resolution_log schema", zap.Error(err))
	}

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.ResolutionsTopic, zl)
	defer consumer.Close()

	go func() {
		if err := consumer.ConsumeResolutions(ctx, func(ctx context.Context, event domain.ResolutionEvent) error {
			return resolutions.Insert(ctx, event)
		}); err != nil && ctx.Err() == nil {
			zl.Error("consumer stopped", zap.Error(err))
			cancel()
		}
	}()

	sweepInterval := time.Duration(cfg.Worker.SweepMinutes) * time.Minute
	retention := time.Duration(cfg.Worker.RetentionDays) * 24 * time.Hour
	sweepTicker := time.NewTicker(sweepInterval)
	defer sweepTicker.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-sweepTicker.C:
			sweep(ctx, zl, resolutions, sweepInterval, retention)
		case <-ctx.Done():
			return
		case s := <-sig:
			zl.Info("shutting down", zap.String("signal", s.String()))
			return
		}
	}
}

// sweep logs per-source counts for the last interval and drops rows past retention.
func sweep(ctx context.Context, zl *zap.Logger, repo repository.ResolutionRepository, interval, retention time.Duration) {
	now := time.Now()

	summary, err := repo.SummarySince(ctx, now.Add(-interval))
	if err != nil {
		zl.Warn("summarize resolutions", zap.Error(err))
	}
	for _, s := range summary {
		zl.Info("resolutions",
			zap.String("query", string(s.Query)),
			zap.String("source", string(s.Source)),
			zap.Int64("total", s.Total),
			zap.Int64("failures", s.Failures),
		)
	}

	deleted, err := repo.DeleteOlderThan(ctx, now.Add(-retention))
	if err != nil {
		zl.Warn("expire resolution log", zap.Error(err))
		return
	}
	if deleted > 0 {
		zl.Info("expired resolution log rows", zap.Int64("rows", deleted))
	}
}
