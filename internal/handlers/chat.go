package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"coinchat-backend/internal/middleware"
	"coinchat-backend/internal/models"
	"coinchat-backend/internal/normalizer"
	"coinchat-backend/internal/services"
)

// completer is the provider side of a chat turn.
type completer interface {
	Configured() bool
	Generate(ctx context.Context, prompt string) (string, error)
}

type ChatHandler struct {
	provider   completer
	prompts    *services.PromptAssembler
	normalizer *normalizer.Normalizer
	logger     *zap.Logger
}

func NewChatHandler(provider completer, prompts *services.PromptAssembler, n *normalizer.Normalizer, logger *zap.Logger) *ChatHandler {
	if n == nil {
		n = normalizer.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatHandler{
		provider:   provider,
		prompts:    prompts,
		normalizer: n,
		logger:     logger,
	}
}

// Chat runs one turn: validate, prompt the provider once, normalize the reply.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Info("Undecodable chat body", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResp("Internal server error"))
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("Message is required"))
		return
	}

	if !h.provider.Configured() {
		writeJSON(w, http.StatusInternalServerError, errorResp("API key not configured"))
		return
	}

	turnID := uuid.New()
	log := h.logger.With(
		zap.String("turn_id", turnID.String()),
		zap.String("persona", string(h.prompts.Persona())),
		zap.String("request_id", middleware.GetRequestID(r.Context())),
	)

	reply, err := h.provider.Generate(r.Context(), h.prompts.Build(req.Message))
	if err != nil {
		h.writeProviderError(w, log, err)
		return
	}

	res := h.normalizer.Normalize(reply)
	if res.Fallback() {
		log.Info("Reply had no structured payload", zap.Int("rejected_candidates", len(res.Rejected)))
	} else {
		fields := []zap.Field{
			zap.String("strategy", res.Strategy),
			zap.String("response_type", res.Envelope.ResponseType()),
		}
		if tr, err := res.Envelope.TokenResearch(); err == nil {
			fields = append(fields, zap.String("navigate_to", tr.NavigationPath()))
		}
		log.Info("Chat turn completed", fields...)
	}

	writeJSON(w, http.StatusOK, res.Envelope)
}

func (h *ChatHandler) writeProviderError(w http.ResponseWriter, log *zap.Logger, err error) {
	if errors.Is(err, services.ErrAPIKeyMissing) {
		writeJSON(w, http.StatusInternalServerError, errorResp("API key not configured"))
		return
	}

	if errors.Is(err, context.Canceled) {
		log.Info("Client cancelled chat turn")
		writeJSON(w, http.StatusInternalServerError, errorResp("Internal server error"))
		return
	}

	var perr *services.ProviderError
	if errors.As(err, &perr) && perr.StatusCode >= 400 {
		log.Warn("Gemini request failed", zap.Int("status", perr.StatusCode), zap.Error(err))
		writeJSON(w, perr.StatusCode, errorResp("Gemini API error"))
		return
	}

	log.Error("Chat turn failed", zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, errorResp("Internal server error"))
}
