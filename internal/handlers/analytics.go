package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"coinchat-backend/internal/models"
	"coinchat-backend/internal/services"
)

type analyticsSource interface {
	Analytics(ctx context.Context, url string) (*models.AnalyticsResponse, error)
}

type AnalyticsHandler struct {
	youtube analyticsSource
	logger  *zap.Logger
}

func NewAnalyticsHandler(youtube analyticsSource, logger *zap.Logger) *AnalyticsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsHandler{youtube: youtube, logger: logger}
}

func (h *AnalyticsHandler) YouTube(w http.ResponseWriter, r *http.Request) {
	var req models.AnalyticsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("Internal server error"))
		return
	}

	url := strings.TrimSpace(req.URL)
	if url == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("URL is required"))
		return
	}

	resp, err := h.youtube.Analytics(r.Context(), url)
	switch {
	case errors.Is(err, services.ErrInvalidYouTubeURL):
		writeJSON(w, http.StatusBadRequest, errorResp("Invalid YouTube URL"))
	case errors.Is(err, services.ErrVideoNotFound):
		writeJSON(w, http.StatusNotFound, errorResp("Video not found"))
	case err != nil:
		h.logger.Error("YouTube analytics failed", zap.String("url", url), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResp("Internal server error"))
	default:
		writeJSON(w, http.StatusOK, resp)
	}
}
