package ai

import (
	"context"

	"isa/pkg/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Default persona used when the tenant configured nothing
const (
	DefaultAssistantName     = "ISA"
	DefaultAssistantFunction = "assistente virtual de atendimento"
	DefaultToneDescription   = "amigável e profissional"
)

// toneDescriptions maps the stored tone keys to the prose injected into
// the prompt. Unknown keys fall back to DefaultToneDescription.
var toneDescriptions = map[string]string{
	"formal":   "formal e profissional",
	"vendedor": "persuasivo e focado em vendas",
	"amigavel": "amigável e acolhedor",
	"premium":  "sofisticado e premium",
	"tecnico":  "técnico e especializado",
	"jovem":    "jovem e descontraído",
}

// ToneDescription resolves a stored tone key to its prompt prose
func ToneDescription(tone string) string {
	if desc, ok := toneDescriptions[tone]; ok {
		return desc
	}
	return DefaultToneDescription
}

// ConfigSource abstracts the per-tenant AI configuration rows
type ConfigSource interface {
	GetBehaviorRules(userID uuid.UUID) (*models.AIBehaviorRule, error)
	GetCompanyKnowledge(userID uuid.UUID) (*models.CompanyKnowledge, error)
	GetAIMemory(userID uuid.UUID) (*models.ClientAIMemory, error)
}

// AssistantConfig is the aggregated per-tenant assistant configuration
// with defaults already applied. Nil sections mean the tenant never
// configured them.
type AssistantConfig struct {
	Name     string
	Function string
	Tone     string
	Rules    string

	Company          *models.CompanyProfile
	Policies         *models.AIPolicies
	Payments         *models.AIPayments
	FirstInteraction *models.AIFirstInteraction
}

// ConfigAggregator assembles the AssistantConfig from its three sources
type ConfigAggregator struct {
	source ConfigSource
}

// NewConfigAggregator creates a new config aggregator
func NewConfigAggregator(source ConfigSource) *ConfigAggregator {
	return &ConfigAggregator{source: source}
}

// Aggregate fetches behavior rules, company knowledge and the AI memory
// document concurrently and merges them. Each fetch degrades independently:
// a failure is logged and treated as an absent source, never aborting the
// other fetches or the aggregation.
func (a *ConfigAggregator) Aggregate(ctx context.Context, userID uuid.UUID) (*AssistantConfig, error) {
	var (
		rules     *models.AIBehaviorRule
		knowledge *models.CompanyKnowledge
		memory    *models.ClientAIMemory
	)

	var g errgroup.Group
	g.Go(func() error {
		var err error
		if rules, err = a.source.GetBehaviorRules(userID); err != nil {
			log.Warn().Err(err).Msg("behavior rules fetch failed, continuing without them")
			rules = nil
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if knowledge, err = a.source.GetCompanyKnowledge(userID); err != nil {
			log.Warn().Err(err).Msg("company knowledge fetch failed, continuing without it")
			knowledge = nil
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if memory, err = a.source.GetAIMemory(userID); err != nil {
			log.Warn().Err(err).Msg("AI memory fetch failed, continuing without it")
			memory = nil
		}
		return nil
	})
	g.Wait()

	var memCfg models.AIMemoryConfig
	if memory != nil {
		memCfg = memory.Config
	}

	cfg := &AssistantConfig{
		Name:     DefaultAssistantName,
		Function: DefaultAssistantFunction,
		Tone:     DefaultToneDescription,
	}

	if memCfg.Identity != nil {
		if memCfg.Identity.Name != "" {
			cfg.Name = memCfg.Identity.Name
		}
		if memCfg.Identity.Function != "" {
			cfg.Function = memCfg.Identity.Function
		}
	}

	if memCfg.Behavior != nil && memCfg.Behavior.Tone != "" {
		cfg.Tone = ToneDescription(memCfg.Behavior.Tone)
	}

	// The dedicated behavior-rules record wins; the rules embedded in the
	// memory document are the fallback
	if rules != nil {
		cfg.Rules = rules.Rules
	}
	if cfg.Rules == "" && memCfg.Behavior != nil {
		cfg.Rules = memCfg.Behavior.EffectiveRules()
	}

	cfg.Company = mergeCompanyProfile(knowledge, memCfg.Company)
	cfg.Policies = memCfg.Policies
	cfg.Payments = memCfg.Payments
	cfg.FirstInteraction = memCfg.FirstInteraction

	return cfg, nil
}

// mergeCompanyProfile overlays the memory document's company section on the
// legacy company_knowledge row. For each field the memory value wins when
// present. Returns nil when neither source has data.
func mergeCompanyProfile(knowledge *models.CompanyKnowledge, mem *models.CompanyProfile) *models.CompanyProfile {
	if knowledge == nil && mem == nil {
		return nil
	}

	merged := &models.CompanyProfile{}
	if knowledge != nil {
		merged.Name = knowledge.Name
		merged.Industry = knowledge.Industry
		merged.Segment = knowledge.Segment
		merged.TargetAudience = knowledge.TargetAudience
		merged.Differentials = knowledge.Differentials
		merged.Mission = knowledge.Mission
		merged.BusinessHours = knowledge.BusinessHours
		merged.Location = knowledge.Location
		merged.Promotions = knowledge.Promotions
		merged.VitrineLink = knowledge.VitrineLink
		merged.OfficialLinks = knowledge.OfficialLinks
		merged.AdditionalInfo = knowledge.AdditionalInfo
	}
	if mem != nil {
		if mem.Name != "" {
			merged.Name = mem.Name
		}
		if mem.Industry != "" {
			merged.Industry = mem.Industry
		}
		if mem.Segment != "" {
			merged.Segment = mem.Segment
		}
		if mem.TargetAudience != "" {
			merged.TargetAudience = mem.TargetAudience
		}
		if mem.Differentials != "" {
			merged.Differentials = mem.Differentials
		}
		if mem.Mission != "" {
			merged.Mission = mem.Mission
		}
		if hours := mem.EffectiveHours(); hours != "" {
			merged.BusinessHours = hours
		}
		if location := mem.EffectiveLocation(); location != "" {
			merged.Location = location
		}
		if mem.Promotions != "" {
			merged.Promotions = mem.Promotions
		}
		if mem.VitrineLink != "" {
			merged.VitrineLink = mem.VitrineLink
		}
		if mem.OfficialLinks != "" {
			merged.OfficialLinks = mem.OfficialLinks
		}
		if mem.AdditionalInfo != "" {
			merged.AdditionalInfo = mem.AdditionalInfo
		}
	}
	return merged
}
