package handlers

import (
	"errors"
	"net/http"

	"isa/internal/ai"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ChatRequest is the inbound chat payload
type ChatRequest struct {
	Messages           []ai.ChatMessage `json:"messages" validate:"required,min=1,dive"`
	CPF                string           `json:"cpf,omitempty"`
	Matricula          string           `json:"matricula,omitempty"`
	UserID             string           `json:"userId,omitempty"`
	IsFirstInteraction bool             `json:"isFirstInteraction"`
}

// ChatHandler exposes the chat pipeline over HTTP
type ChatHandler struct {
	chat       *ai.Service
	configured bool
}

// NewChatHandler creates a new chat handler. configured reports whether the
// LLM provider credential is present; without it every request fails fast.
func NewChatHandler(chat *ai.Service, configured bool) *ChatHandler {
	return &ChatHandler{chat: chat, configured: configured}
}

// Chat runs one conversation turn through the pipeline
// @Summary Generate an assistant reply
// @Description Resolves the tenant, assembles the system prompt and calls the model fallback chain
// @Tags chat
// @Accept json
// @Produce json
// @Param request body ChatRequest true "Conversation and tenant identifiers"
// @Success 200 {object} ai.ChatResponse
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /chat [post]
func (h *ChatHandler) Chat(c echo.Context) error {
	if !h.configured {
		log.Error().Msg("OPENROUTER_API_KEY not configured")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "AI service not configured"})
	}

	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	resp, err := h.chat.Chat(c.Request().Context(), &ai.ChatRequest{
		Messages:           req.Messages,
		CPF:                req.CPF,
		Matricula:          req.Matricula,
		UserID:             req.UserID,
		IsFirstInteraction: req.IsFirstInteraction,
	})
	if err != nil {
		if errors.Is(err, ai.ErrAllModelsFailed) {
			log.Error().Err(err).Msg("all models in the fallback chain failed")
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "all models failed"})
		}
		log.Error().Err(err).Msg("chat pipeline failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to generate response"})
	}

	return c.JSON(http.StatusOK, resp)
}
