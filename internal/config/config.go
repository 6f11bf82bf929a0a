package config

import (
	"os"
)

// ModelCandidate is one entry of the ordered fallback chain
type ModelCandidate struct {
	ID   string
	Name string
}

// DefaultModels is the ordered fallback chain: fast general-purpose first,
// escalating to larger models. Injected into the gateway, never read as a
// global from there.
func DefaultModels() []ModelCandidate {
	return []ModelCandidate{
		{ID: "openai/gpt-4o-mini", Name: "GPT-4o Mini"},
		{ID: "anthropic/claude-3-haiku", Name: "Claude 3 Haiku"},
		{ID: "openai/gpt-4o", Name: "GPT-4o"},
		{ID: "anthropic/claude-3.5-sonnet", Name: "Claude 3.5 Sonnet"},
		{ID: "meta-llama/llama-3.1-8b-instruct", Name: "Llama 3.1 8B"},
	}
}

// Config holds the environment-backed service configuration.
// Database settings stay in internal/db, which reads its own DB_* variables.
type Config struct {
	Port string

	// LLM provider (OpenRouter, OpenAI-compatible API)
	OpenRouterAPIKey  string
	OpenRouterBaseURL string
	Models            []ModelCandidate

	// WhatsApp automation gateway
	WhatsAppBaseURL string
	WhatsAppSession string

	// Service token shared with the WhatsApp gateway for webhook calls
	WebhookSecret string

	// S3 bucket holding private welcome media
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
}

// Load reads the configuration from the environment
func Load() *Config {
	cfg := &Config{
		Port:              os.Getenv("PORT"),
		OpenRouterAPIKey:  os.Getenv("OPENROUTER_API_KEY"),
		OpenRouterBaseURL: os.Getenv("OPENROUTER_BASE_URL"),
		Models:            DefaultModels(),
		WhatsAppBaseURL:   os.Getenv("WHATSAPP_BASE_URL"),
		WhatsAppSession:   os.Getenv("WHATSAPP_SESSION"),
		WebhookSecret:     os.Getenv("WEBHOOK_SECRET"),
		S3Endpoint:        os.Getenv("S3_ENDPOINT"),
		S3AccessKey:       os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:       os.Getenv("S3_SECRET_KEY"),
		S3Bucket:          os.Getenv("S3_BUCKET"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.OpenRouterBaseURL == "" {
		cfg.OpenRouterBaseURL = "https://openrouter.ai/api/v1"
	}
	if cfg.WhatsAppSession == "" {
		cfg.WhatsAppSession = "default"
	}

	return cfg
}
