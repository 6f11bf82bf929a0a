package handlers

import (
	"isa/internal/app"
	"isa/internal/http/middleware"
	"isa/internal/webhook"

	"github.com/labstack/echo/v4"
)

// SetupRoutes sets up all API routes
func SetupRoutes(api *echo.Group, services *app.Services) {
	chatHandler := NewChatHandler(services.ChatService, services.Config.OpenRouterAPIKey != "")
	api.POST("/chat", chatHandler.Chat)

	webhookHandler := webhook.NewWhatsAppHandler(services.ChatService, services.WhatsAppClient)
	webhooks := api.Group("/webhook")
	webhooks.Use(middleware.ServiceAuth(services.Config.WebhookSecret))
	webhooks.POST("/whatsapp", webhookHandler.Handle)
}
