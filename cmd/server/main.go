package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/summsync/stats-api/internal/catalog"
	"github.com/summsync/stats-api/internal/config"
	"github.com/summsync/stats-api/internal/handlers"
	"github.com/summsync/stats-api/internal/insight"
	"github.com/summsync/stats-api/internal/logic"
	riotapi "github.com/summsync/stats-api/internal/riot"
	"github.com/summsync/stats-api/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	var logger *zap.Logger
	if cfg.Env == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	// Redis session cache
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		sugar.Fatalw("Invalid REDIS_URL", "error", err)
	}
	rdb := redis.NewClient(redisOpts)

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		sugar.Fatalw("Failed to connect to redis", "error", err)
	}
	cancel()

	// Champion catalog, built once and handed to the bundle service.
	champions, err := loadCatalog(cfg)
	if err != nil {
		sugar.Fatalw("Failed to load champion catalog", "error", err)
	}
	sugar.Infow("Champion catalog loaded", "champions", champions.Size())

	riotClient := riotapi.NewClient(riotapi.Config{
		APIKey:       cfg.RiotAPIKey,
		AccountBase:  cfg.RiotAccountBase,
		PlatformBase: cfg.RiotPlatformBase,
		Logger:       logger,
	})

	bundleService := logic.NewBundleService(logic.Config{
		Riot:             riotClient,
		Catalog:          champions,
		Logger:           logger,
		HistoryDepth:     cfg.MatchHistoryDepth,
		MatchConcurrency: cfg.MatchConcurrency,
	})

	sessionStore := store.NewSessionStore(rdb, cfg.SessionTTL, logger)

	insightClient := insight.NewClient(insight.Config{
		ModelID: cfg.ModelID,
		BaseURL: cfg.ModelBaseURL,
		APIKey:  cfg.ModelAPIKey,
		Logger:  logger,
	})
	if !insightClient.Configured() {
		sugar.Warn("MODEL_ID / MODEL_BASE_URL not set, ai-insight endpoint disabled")
	}

	h := handlers.New(handlers.Config{
		Bundle:            bundleService,
		Store:             sessionStore,
		Insight:           insightClient,
		Redis:             rdb,
		Logger:            logger,
		AllowedOrigins:    cfg.AllowedOrigins,
		CatalogSize:       champions.Size(),
		MasteryCount:      cfg.MasteryCount,
		PlayerConcurrency: cfg.PlayerConcurrency,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      h.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  90 * time.Second,
	}

	go func() {
		sugar.Infow("Server listening", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalw("Server failed", "error", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	sugar.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		sugar.Errorw("Graceful shutdown failed", "error", err)
	}
	if err := rdb.Close(); err != nil {
		sugar.Errorw("Failed to close redis client", "error", err)
	}
	sugar.Info("Server stopped")
}

func loadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	if cfg.ChampionDataPath != "" {
		return catalog.LoadFile(cfg.ChampionDataPath)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return catalog.Fetch(ctx, &http.Client{Timeout: 15 * time.Second})
}
