package handlers

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/summsync/stats-api/internal/logic"
	"github.com/summsync/stats-api/internal/models"
	"github.com/summsync/stats-api/internal/store"
)

// MaxBodySize limits the size of request bodies to 1MB
const MaxBodySize = 1048576

// Pinger is the readiness probe surface of the redis client.
type Pinger interface {
	Ping(ctx context.Context) *redis.StatusCmd
}

// InsightService is the language-model boundary used by the AI endpoint.
type InsightService interface {
	Generate(ctx context.Context, prompt string, players []*models.SessionRecord) (string, error)
	ModelID() string
	Configured() bool
}

type Config struct {
	Bundle  logic.BundleService
	Store   store.Store
	Insight InsightService
	Redis   Pinger
	Logger  *zap.Logger

	AllowedOrigins []string
	CatalogSize    int

	// Defaults for optional request fields / batch processing.
	MasteryCount      int
	PlayerConcurrency int
}

type Handler struct {
	bundle    logic.BundleService
	store     store.Store
	insight   InsightService
	redis     Pinger
	logger    *zap.SugaredLogger
	validator *validator.Validate

	allowedOrigins []string
	catalogSize    int

	masteryCount      int
	playerConcurrency int
}

func New(cfg Config) *Handler {
	if cfg.MasteryCount <= 0 {
		cfg.MasteryCount = 3
	}
	if cfg.PlayerConcurrency <= 0 {
		cfg.PlayerConcurrency = 4
	}

	return &Handler{
		bundle:            cfg.Bundle,
		store:             cfg.Store,
		insight:           cfg.Insight,
		redis:             cfg.Redis,
		logger:            cfg.Logger.Sugar(),
		validator:         validator.New(),
		allowedOrigins:    cfg.AllowedOrigins,
		catalogSize:       cfg.CatalogSize,
		masteryCount:      cfg.MasteryCount,
		playerConcurrency: cfg.PlayerConcurrency,
	}
}

// Routes builds the HTTP router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   h.allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/summsync", func(r chi.Router) {
		r.Post("/player/create", h.CreatePlayers)
		r.Post("/player/stats", h.GetSessionStats)
		r.Post("/player/mastery", h.GetSessionMastery)
		r.Post("/ai-insight", h.AIInsight)
	})

	return r
}
