package handlers

import (
	"errors"
	"net/http"

	"github.com/summsync/stats-api/internal/models"
	"github.com/summsync/stats-api/internal/store"
)

// GetSessionStats returns a stored player's normalized stats
// @Summary Get Session Player Stats
// @Tags Session
// @Accept json
// @Produce json
// @Success 200 {object} models.SessionStatsResponse "Stored stats"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /summsync/player/stats [post]
func (h *Handler) GetSessionStats(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.lookupSessionPlayer(w, r)
	if !ok {
		return
	}
	h.jsonResponse(w, http.StatusOK, models.SessionStatsResponse{
		PlayerName: rec.PlayerName,
		GameTag:    rec.GameTag,
		Stats:      rec.Stats,
		UpdatedAt:  rec.UpdatedAt,
	})
}

// GetSessionMastery returns a stored player's mastery list
// @Summary Get Session Player Mastery
// @Tags Session
// @Accept json
// @Produce json
// @Success 200 {object} models.SessionMasteryResponse "Stored mastery"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /summsync/player/mastery [post]
func (h *Handler) GetSessionMastery(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.lookupSessionPlayer(w, r)
	if !ok {
		return
	}
	h.jsonResponse(w, http.StatusOK, models.SessionMasteryResponse{
		PlayerName: rec.PlayerName,
		GameTag:    rec.GameTag,
		Mastery:    rec.Mastery,
		UpdatedAt:  rec.UpdatedAt,
	})
}

func (h *Handler) lookupSessionPlayer(w http.ResponseWriter, r *http.Request) (*models.SessionRecord, bool) {
	var req models.SessionLookupRequest
	if err := h.decodeBody(w, r, &req); err != nil {
		h.errorResponse(w, http.StatusBadRequest, err.Error())
		return nil, false
	}

	rec, err := h.store.GetPlayerByName(r.Context(), req.SessionID, req.PlayerName, req.GameTag)
	if errors.Is(err, store.ErrNotFound) {
		h.jsonResponse(w, http.StatusNotFound, map[string]string{
			"error":   "NOT_FOUND",
			"message": "Player not found in this session",
		})
		return nil, false
	}
	if err != nil {
		h.logger.Errorw("Session lookup failed",
			"sessionId", req.SessionID, "player", req.PlayerName, "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "session lookup failed")
		return nil, false
	}
	return rec, true
}
