package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/errgroup"

	"github.com/summsync/stats-api/internal/logic"
	"github.com/summsync/stats-api/internal/models"
	"github.com/summsync/stats-api/internal/store"
)

// Prometheus metrics
var (
	bundlesComputed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "summsync_bundles_computed_total",
		Help: "Total number of player bundles computed",
	})

	bundleFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "summsync_bundle_failures_total",
		Help: "Total number of failed player bundles by error code",
	}, []string{"code"})

	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "summsync_session_cache_hits_total",
		Help: "Total number of session cache hits on bundle creation",
	})

	bundleDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "summsync_bundle_compute_duration_seconds",
		Help:    "Duration of per-player bundle computation",
		Buckets: prometheus.DefBuckets,
	})
)

// CreatePlayers computes and stores bundles for a batch of players
// @Summary Create Player Bundles
// @Description Resolve, aggregate and cache stats + mastery for each requested player
// @Tags Player
// @Accept json
// @Produce json
// @Success 200 {object} models.CreatePlayersResponse "Batch results"
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /summsync/player/create [post]
func (h *Handler) CreatePlayers(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePlayersRequest
	if err := h.decodeBody(w, r, &req); err != nil {
		h.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	masteryCount := req.MasteryCount
	if masteryCount == 0 {
		masteryCount = h.masteryCount
	}

	ctx := r.Context()
	results := make([]models.PlayerResult, len(req.Players))

	// Players are independent; one failure never aborts its siblings.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(h.playerConcurrency)
	for i, ref := range req.Players {
		i, ref := i, ref
		g.Go(func() error {
			results[i] = h.processPlayer(gctx, sessionID, i, ref, masteryCount, req.ForceRefresh)
			return nil
		})
	}
	g.Wait()

	h.jsonResponse(w, http.StatusOK, models.CreatePlayersResponse{
		SessionID: sessionID,
		Results:   results,
	})
}

func (h *Handler) processPlayer(ctx context.Context, sessionID string, idx int, ref models.PlayerRef, masteryCount int, forceRefresh bool) models.PlayerResult {
	res := models.PlayerResult{
		Index:      idx,
		PlayerName: ref.PlayerName,
		GameTag:    ref.GameTag,
		Mastery:    []models.MasteryEntry{},
	}

	if !forceRefresh {
		existing, err := h.store.GetPlayerByName(ctx, sessionID, ref.PlayerName, ref.GameTag)
		if err == nil {
			cacheHits.Inc()
			res.PlayerName = existing.PlayerName
			res.GameTag = existing.GameTag
			res.PUUID = existing.PUUID
			res.Stats = existing.Stats
			res.Mastery = existing.Mastery
			res.Stored = true
			res.FromCache = true
			return res
		}
		if !errors.Is(err, store.ErrNotFound) {
			h.logger.Warnw("Session cache probe failed",
				"sessionId", sessionID, "player", ref.PlayerName, "error", err)
		}
	}

	start := time.Now()
	bundle, err := h.bundle.ComputeBundle(ctx, ref.PlayerName, ref.GameTag, masteryCount)
	bundleDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		res.Error = h.playerError(err)
		if bundle != nil {
			res.PUUID = bundle.Identity.PUUID
		}
		bundleFailures.WithLabelValues(res.Error.Code).Inc()
		if res.Error.Code == models.ErrCodeProcessing {
			h.logger.Errorw("Bundle computation failed",
				"player", ref.PlayerName, "tag", ref.GameTag, "error", err)
		}
		return res
	}
	bundlesComputed.Inc()

	res.PUUID = bundle.Identity.PUUID
	res.Stats = bundle.Stats
	res.Mastery = bundle.Mastery

	rec := &models.SessionRecord{
		SessionID:  sessionID,
		PUUID:      bundle.Identity.PUUID,
		PlayerName: ref.PlayerName,
		GameTag:    ref.GameTag,
		Stats:      bundle.Stats,
		Mastery:    bundle.Mastery,
	}
	if err := h.store.PutPlayer(ctx, rec); err != nil {
		h.logger.Errorw("Failed to store session record",
			"sessionId", sessionID, "puuid", rec.PUUID, "error", err)
		return res
	}
	res.Stored = true
	return res
}

func (h *Handler) playerError(err error) *models.PlayerError {
	switch {
	case errors.Is(err, logic.ErrNoIdentifier):
		return &models.PlayerError{Code: models.ErrCodeNoPUUID, Message: "Could not resolve PUUID"}
	case errors.Is(err, logic.ErrNoRecentMatches):
		return &models.PlayerError{Code: models.ErrCodeNoRecentMatches, Message: "No recent matches returned"}
	default:
		return &models.PlayerError{Code: models.ErrCodeProcessing, Message: err.Error()}
	}
}
