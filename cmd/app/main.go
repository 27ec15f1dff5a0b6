package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/travelquery/api"
	"github.com/Domenick1991/travelquery/config"
	"github.com/Domenick1991/travelquery/internal/bootstrap"
	"github.com/Domenick1991/travelquery/internal/cache"
	"github.com/Domenick1991/travelquery/internal/generative"
	"github.com/Domenick1991/travelquery/internal/generative/copilot"
	"github.com/Domenick1991/travelquery/internal/generative/gemini"
	"github.com/Domenick1991/travelquery/internal/kafka"
	"github.com/Domenick1991/travelquery/internal/logger"
	"github.com/Domenick1991/travelquery/internal/provider/amadeus"
	"github.com/Domenick1991/travelquery/internal/service/travel"
	"github.com/gin-gonic/gin"
	sdk "github.com/github/copilot-sdk/go"
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	providerOpts := []amadeus.Option{amadeus.WithLogger(zl)}
	if cfg.Redis.Addr != "" {
		tokenCache := cache.NewRedisTokenCache(cfg.Redis)
		defer tokenCache.Close()
		providerOpts = append(providerOpts, amadeus.WithTokenCache(tokenCache))
	}
	// nil when credentials are missing; every query then goes to the generator
	client := amadeus.New(cfg.Provider, providerOpts...)
	if !cfg.Provider.Configured() {
		zl.Info("provider credentials missing, serving generated data only")
	}

	backend, closeBackend, err := newBackend(ctx, cfg.Generative)
	if err != nil {
		zl.Fatal("init generative backend", zap.Error(err))
	}
	defer closeBackend()
	engine := generative.NewEngine(backend, zl)

	serviceOpts := []travel.TravelServiceOption{travel.WithLogger(zl)}
	if len(cfg.Kafka.Brokers) > 0 {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, zl)
		defer producer.Close()
		checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := producer.CheckConnection(checkCtx); err != nil {
			zl.Warn("kafka unavailable, resolution events may be lost", zap.Error(err))
		}
		cancel()
		serviceOpts = append(serviceOpts, travel.WithProducer(producer, cfg.Kafka.ResolutionsTopic))
	}
	travelService := travel.NewTravelService(client, engine, serviceOpts...)

	if cfg.Log.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(cfg.HTTP, travelService, cfg.Provider.Configured(), zl)

	if err := bootstrap.Run(ctx, cfg, router, cfg.Provider.Configured(), zl); err != nil {
		zl.Fatal("server error", zap.Error(err))
	}
}

func newBackend(ctx context.Context, cfg config.GenerativeConfig) (generative.Backend, func(), error) {
	switch cfg.Backend {
	case "gemini":
		b, err := gemini.NewBackend(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, nil, err
		}
		return b, func() { _ = b.Close() }, nil
	case "copilot":
		client := sdk.NewClient(&sdk.ClientOptions{LogLevel: "error"})
		if err := client.Start(); err != nil {
			return nil, nil, fmt.Errorf("failed to start Copilot client: %w", err)
		}
		return copilot.NewBackend(client, cfg.Model), func() { client.Stop() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown generative backend %q", cfg.Backend)
	}
}
