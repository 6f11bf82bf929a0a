package ai

import (
	"context"
	"errors"

	"isa/internal/repo"
	"isa/pkg/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// IdentitySource abstracts tenant identity resolution
type IdentitySource interface {
	Resolve(identifier string) (*repo.IdentityMatch, error)
}

// MediaResolver turns stored media references into URLs a client can fetch.
// Bucket-relative keys are presigned; absolute URLs pass through unchanged.
type MediaResolver interface {
	ResolveURL(raw string) (string, error)
}

// ChatRequest is the domain-level chat request after transport decoding
type ChatRequest struct {
	Messages           []ChatMessage
	CPF                string
	Matricula          string
	UserID             string
	IsFirstInteraction bool
}

// ChatResponse is the pipeline's reply
type ChatResponse struct {
	Message             string        `json:"message"`
	IsFixedFirstMessage bool          `json:"isFixedFirstMessage,omitempty"`
	WelcomeMedia        *WelcomeMedia `json:"welcomeMedia,omitempty"`
}

// Service runs the chat pipeline: identity resolution, config aggregation,
// prompt assembly, context enrichment and the model call. Every stage before
// the model call degrades on failure; only total model unavailability is
// surfaced to the caller.
type Service struct {
	identity   IdentitySource
	catalog    ProductCatalog
	aggregator *ConfigAggregator
	builder    *PromptBuilder
	enricher   *ContextEnricher
	gateway    *Gateway
	media      MediaResolver
}

// NewService creates the chat pipeline service. media may be nil when no
// object storage is configured; welcome media URLs then pass through as is.
func NewService(identity IdentitySource, catalog ProductCatalog, aggregator *ConfigAggregator, gateway *Gateway, media MediaResolver) *Service {
	return &Service{
		identity:   identity,
		catalog:    catalog,
		aggregator: aggregator,
		builder:    NewPromptBuilder(),
		enricher:   NewContextEnricher(catalog),
		gateway:    gateway,
		media:      media,
	}
}

// Chat processes one conversation turn end to end
func (s *Service) Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	tenantID, matricula := s.resolveTenant(req)

	cfg := s.loadConfig(ctx, tenantID)
	catalog := s.loadCatalog(matricula, tenantID)

	built := s.builder.Build(cfg, catalog, req.IsFirstInteraction)
	welcomeMedia := s.resolveWelcomeMedia(built.WelcomeMedia)

	if built.FixedFirstMessage != "" {
		return &ChatResponse{
			Message:             built.FixedFirstMessage,
			IsFixedFirstMessage: true,
			WelcomeMedia:        welcomeMedia,
		}, nil
	}

	prompt := built.Prompt
	if last := lastUserMessage(req.Messages); last != "" {
		prompt = s.enricher.Enrich(prompt, last, matricula, tenantID)
	}

	messages := make([]ChatMessage, 0, len(req.Messages)+1)
	messages = append(messages, ChatMessage{Role: "system", Content: prompt})
	messages = append(messages, req.Messages...)

	reply, err := s.gateway.Complete(ctx, messages)
	if err != nil {
		return nil, err
	}

	return &ChatResponse{
		Message:      reply,
		WelcomeMedia: welcomeMedia,
	}, nil
}

// resolveTenant maps the request's identifiers to a tenant. An unresolvable
// identity is not an error; the pipeline proceeds with a generic persona.
func (s *Service) resolveTenant(req *ChatRequest) (uuid.UUID, string) {
	identifier := req.CPF
	if identifier == "" {
		identifier = req.Matricula
	}

	if identifier != "" {
		match, err := s.identity.Resolve(identifier)
		if err == nil {
			log.Debug().Str("table", match.Table).Str("matricula", match.Matricula).Msg("tenant resolved")
			return match.TenantID, match.Matricula
		}
		if !errors.Is(err, repo.ErrIdentityNotFound) {
			log.Warn().Err(err).Msg("identity resolution failed, proceeding with generic persona")
		}
	}

	if req.UserID != "" {
		if id, err := uuid.Parse(req.UserID); err == nil {
			return id, req.Matricula
		}
	}
	return uuid.Nil, ""
}

func (s *Service) loadConfig(ctx context.Context, tenantID uuid.UUID) *AssistantConfig {
	generic := &AssistantConfig{
		Name:     DefaultAssistantName,
		Function: DefaultAssistantFunction,
		Tone:     DefaultToneDescription,
	}
	if tenantID == uuid.Nil {
		return generic
	}

	cfg, err := s.aggregator.Aggregate(ctx, tenantID)
	if err != nil {
		log.Warn().Err(err).Msg("config aggregation failed, using generic persona")
		return generic
	}
	return cfg
}

func (s *Service) loadCatalog(matricula string, tenantID uuid.UUID) []models.Product {
	if matricula == "" && tenantID == uuid.Nil {
		return nil
	}
	catalog, err := s.catalog.ListActiveCatalog(matricula, tenantID)
	if err != nil {
		log.Warn().Err(err).Msg("catalog fetch failed, proceeding without catalog")
		return nil
	}
	return catalog
}

func (s *Service) resolveWelcomeMedia(media *WelcomeMedia) *WelcomeMedia {
	if media == nil {
		return nil
	}
	if s.media == nil {
		return media
	}
	url, err := s.media.ResolveURL(media.URL)
	if err != nil {
		log.Warn().Err(err).Msg("welcome media resolution failed, using stored URL")
		return media
	}
	return &WelcomeMedia{URL: url, Type: media.Type}
}

func lastUserMessage(messages []ChatMessage) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "user" {
			return messages[i].Content
		}
	}
	return ""
}
