package handlers

import (
	"net/http"

	"github.com/summsync/stats-api/internal/models"
)

// AIInsight forwards a prompt plus cached session context to the model
// @Summary AI Insight
// @Description Ask the coaching model a question, grounded on the session's cached player bundles
// @Tags Insight
// @Accept json
// @Produce json
// @Success 200 {object} models.InsightResponse "Model answer"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 502 {object} map[string]string "Model Error"
// @Router /summsync/ai-insight [post]
func (h *Handler) AIInsight(w http.ResponseWriter, r *http.Request) {
	var req models.InsightRequest
	if err := h.decodeBody(w, r, &req); err != nil {
		h.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	if h.insight == nil || !h.insight.Configured() {
		h.errorResponse(w, http.StatusInternalServerError, "model is not configured")
		return
	}

	ctx := r.Context()

	var players []*models.SessionRecord
	if req.SessionID != "" {
		recs, err := h.store.QuerySession(ctx, req.SessionID)
		if err != nil {
			h.logger.Warnw("Failed to load session context for insight",
				"sessionId", req.SessionID, "error", err)
		} else {
			players = recs
		}
	}

	answer, err := h.insight.Generate(ctx, req.Prompt, players)
	if err != nil {
		h.logger.Errorw("Model call failed", "error", err)
		h.errorResponse(w, http.StatusBadGateway, "model error")
		return
	}

	h.jsonResponse(w, http.StatusOK, models.InsightResponse{
		Answer:      answer,
		ModelID:     h.insight.ModelID(),
		PlayersUsed: len(players),
	})
}
