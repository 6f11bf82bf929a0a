package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// AIMemoryConfig is the per-tenant AI memory document stored as jsonb.
// Every section and every field is optional; absent sections simply don't
// contribute to the assembled prompt.
type AIMemoryConfig struct {
	Identity         *AIIdentity         `json:"identity,omitempty"`
	Behavior         *AIBehavior         `json:"behavior,omitempty"`
	Company          *CompanyProfile     `json:"company,omitempty"`
	Policies         *AIPolicies         `json:"policies,omitempty"`
	Payments         *AIPayments         `json:"payments,omitempty"`
	FirstInteraction *AIFirstInteraction `json:"first_interaction,omitempty"`
}

// AIIdentity names the assistant and its role
type AIIdentity struct {
	Name     string `json:"name,omitempty"`
	Function string `json:"function,omitempty"`
}

// AIBehavior holds the tone and tenant-written conduct rules.
// CustomRules and Rules are the same concept under two historical keys.
type AIBehavior struct {
	Tone        string `json:"tone,omitempty"`
	CustomRules string `json:"custom_rules,omitempty"`
	Rules       string `json:"rules,omitempty"`
}

// CompanyProfile mirrors the company_knowledge columns inside the memory
// document. Hours/BusinessHours and Location/Address are historical aliases.
type CompanyProfile struct {
	Name           string `json:"name,omitempty"`
	Industry       string `json:"industry,omitempty"`
	Segment        string `json:"segment,omitempty"`
	TargetAudience string `json:"target_audience,omitempty"`
	Differentials  string `json:"differentials,omitempty"`
	Mission        string `json:"mission,omitempty"`
	BusinessHours  string `json:"business_hours,omitempty"`
	Hours          string `json:"hours,omitempty"`
	Location       string `json:"location,omitempty"`
	Address        string `json:"address,omitempty"`
	Promotions     string `json:"promotions,omitempty"`
	VitrineLink    string `json:"vitrine_link,omitempty"`
	OfficialLinks  string `json:"official_links,omitempty"`
	AdditionalInfo string `json:"additional_info,omitempty"`
}

// AIPolicies holds delivery/warranty/exchange policy text
type AIPolicies struct {
	Delivery string `json:"delivery,omitempty"`
	Warranty string `json:"warranty,omitempty"`
	Exchange string `json:"exchange,omitempty"`
}

// AIPayments holds accepted methods and fee/term text
type AIPayments struct {
	Methods string `json:"methods,omitempty"`
	Fees    string `json:"fees,omitempty"`
}

// AIFirstInteraction configures the fixed welcome flow: an optional literal
// first message that bypasses the model, and optional welcome media.
type AIFirstInteraction struct {
	MessagePrompt string `json:"message_prompt,omitempty"`
	MediaURL      string `json:"media_url,omitempty"`
	MediaType     string `json:"media_type,omitempty"` // image or video
}

// Value implements driver.Valuer so GORM persists the document as jsonb
func (c AIMemoryConfig) Value() (driver.Value, error) {
	return json.Marshal(c)
}

// Scan implements sql.Scanner for reading the jsonb column
func (c *AIMemoryConfig) Scan(value interface{}) error {
	if value == nil {
		*c = AIMemoryConfig{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for AIMemoryConfig: %T", value)
	}
	return json.Unmarshal(data, c)
}

// EffectiveHours resolves the business_hours/hours alias pair
func (p *CompanyProfile) EffectiveHours() string {
	if p.BusinessHours != "" {
		return p.BusinessHours
	}
	return p.Hours
}

// EffectiveLocation resolves the location/address alias pair
func (p *CompanyProfile) EffectiveLocation() string {
	if p.Location != "" {
		return p.Location
	}
	return p.Address
}

// EffectiveRules resolves the custom_rules/rules alias pair
func (b *AIBehavior) EffectiveRules() string {
	if b.CustomRules != "" {
		return b.CustomRules
	}
	return b.Rules
}
