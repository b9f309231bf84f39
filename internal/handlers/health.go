package handlers

import (
	"net/http"

	"coinchat-backend/internal/models"
)

const (
	ServiceName = "coinchat-backend"
	Version     = "1.0.0"
)

type providerStatus interface {
	Name() string
	Configured() bool
}

type HealthHandler struct {
	provider providerStatus
}

func NewHealthHandler(provider providerStatus) *HealthHandler {
	return &HealthHandler{provider: provider}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.HealthResponse{
		Status:             "ok",
		Service:            ServiceName,
		Provider:           h.provider.Name(),
		ProviderConfigured: h.provider.Configured(),
	})
}

func (h *HealthHandler) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.InfoResponse{
		Service: ServiceName,
		Version: Version,
		Endpoints: map[string]models.EndpointInfo{
			"chat": {
				Method:      http.MethodPost,
				URL:         "/api/chat",
				Description: "Answer a chat message with a structured action envelope",
				Body:        map[string]string{"message": "string"},
			},
			"moodbot": {
				Method:      http.MethodPost,
				URL:         "/api/moodbot",
				Description: "Chat with the mood-aware assistant persona",
				Body:        map[string]string{"message": "string"},
			},
			"youtube_analytics": {
				Method:      http.MethodPost,
				URL:         "/api/youtube/analytics",
				Description: "Fetch engagement analytics for a YouTube video",
				Body:        map[string]string{"url": "string"},
			},
			"health": {
				Method:      http.MethodGet,
				URL:         "/api/health",
				Description: "Service health and provider configuration",
			},
		},
	})
}
