package webhook

import (
	"errors"
	"net/http"
	"strings"

	"isa/internal/ai"
	"isa/internal/whatsapp"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// historyCap limits how many prior turns the webhook forwards to the model
const historyCap = 10

// InboundMessage is the normalized payload the WhatsApp automation service
// posts for each incoming user message.
type InboundMessage struct {
	Phone              string           `json:"phone" validate:"required"`
	Message            string           `json:"message"`
	CPF                string           `json:"cpf,omitempty"`
	Matricula          string           `json:"matricula,omitempty"`
	IsFirstInteraction bool             `json:"isFirstInteraction"`
	History            []ai.ChatMessage `json:"history,omitempty"`
}

// WhatsAppHandler drives the chat pipeline from inbound WhatsApp messages
// and sends replies back through the gateway client.
type WhatsAppHandler struct {
	chat    *ai.Service
	gateway *whatsapp.Client
}

// NewWhatsAppHandler creates a new WhatsApp webhook handler
func NewWhatsAppHandler(chat *ai.Service, gateway *whatsapp.Client) *WhatsAppHandler {
	return &WhatsAppHandler{
		chat:    chat,
		gateway: gateway,
	}
}

// Handle processes one inbound WhatsApp message
// @Summary Process inbound WhatsApp message
// @Tags webhook
// @Accept json
// @Produce json
// @Param request body InboundMessage true "Inbound message"
// @Success 200 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /webhook/whatsapp [post]
func (h *WhatsAppHandler) Handle(c echo.Context) error {
	var inbound InboundMessage
	if err := c.Bind(&inbound); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&inbound); err != nil {
		return err
	}

	// Anything without user text is an event we don't act on
	if strings.TrimSpace(inbound.Message) == "" {
		return c.JSON(http.StatusOK, map[string]string{"status": "ignored"})
	}

	history := inbound.History
	if len(history) > historyCap {
		history = history[len(history)-historyCap:]
	}

	messages := make([]ai.ChatMessage, 0, len(history)+1)
	messages = append(messages, history...)
	messages = append(messages, ai.ChatMessage{Role: "user", Content: inbound.Message})

	resp, err := h.chat.Chat(c.Request().Context(), &ai.ChatRequest{
		Messages:           messages,
		CPF:                inbound.CPF,
		Matricula:          inbound.Matricula,
		IsFirstInteraction: inbound.IsFirstInteraction,
	})
	if err != nil {
		if errors.Is(err, ai.ErrAllModelsFailed) {
			log.Error().Err(err).Str("phone", inbound.Phone).Msg("no model available for webhook reply")
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to generate response"})
	}

	if !h.gateway.Enabled() {
		// No gateway configured, return the reply to the caller instead
		return c.JSON(http.StatusOK, resp)
	}

	ctx := c.Request().Context()
	if resp.WelcomeMedia != nil && inbound.IsFirstInteraction {
		if err := h.gateway.SendMedia(ctx, inbound.Phone, resp.WelcomeMedia.URL, resp.WelcomeMedia.Type); err != nil {
			log.Warn().Err(err).Str("phone", inbound.Phone).Msg("failed to send welcome media")
		}
	}
	if err := h.gateway.SendText(ctx, inbound.Phone, resp.Message); err != nil {
		log.Error().Err(err).Str("phone", inbound.Phone).Msg("failed to send reply")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to send reply"})
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "sent"})
}
