package ai

import (
	"fmt"
	"strings"

	"isa/pkg/models"
)

// WelcomeMedia describes an image or video sent alongside the first reply
type WelcomeMedia struct {
	URL  string `json:"url"`
	Type string `json:"type"`
}

// PromptResult is the assembled system prompt plus first-interaction extras.
// When FixedFirstMessage is non-empty the caller must reply with that literal
// text and skip the model entirely.
type PromptResult struct {
	Prompt            string
	WelcomeMedia      *WelcomeMedia
	FixedFirstMessage string
}

// PromptBuilder renders an AssistantConfig and a catalog into the system
// prompt. Each section is assembled independently and joined at the end.
type PromptBuilder struct{}

// NewPromptBuilder creates a new prompt builder
func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// Build assembles the system prompt for one request
func (b *PromptBuilder) Build(cfg *AssistantConfig, catalog []models.Product, isFirstInteraction bool) *PromptResult {
	result := &PromptResult{}

	if fi := cfg.FirstInteraction; fi != nil {
		if fi.MediaURL != "" && fi.MediaType != "" {
			result.WelcomeMedia = &WelcomeMedia{URL: fi.MediaURL, Type: fi.MediaType}
		}
		if isFirstInteraction && strings.TrimSpace(fi.MessagePrompt) != "" {
			result.FixedFirstMessage = fi.MessagePrompt
		}
	}

	sections := []string{
		b.identitySection(cfg),
	}
	if s := b.companySection(cfg.Company); s != "" {
		sections = append(sections, s)
	}
	if s := b.policiesSection(cfg.Policies); s != "" {
		sections = append(sections, s)
	}
	if s := b.paymentsSection(cfg.Payments); s != "" {
		sections = append(sections, s)
	}
	if s := b.rulesSection(cfg.Rules); s != "" {
		sections = append(sections, s)
	}
	sections = append(sections, b.catalogSection(catalog))
	sections = append(sections, b.guardrailsSection())

	result.Prompt = strings.Join(sections, "\n\n")
	return result
}

func (b *PromptBuilder) identitySection(cfg *AssistantConfig) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Você é %s, %s.\n", cfg.Name, cfg.Function)
	fmt.Fprintf(&sb, "Seu tom de comunicação é %s.\n", cfg.Tone)
	sb.WriteString("Responda sempre em português brasileiro, de forma natural para uma conversa de WhatsApp.\n")
	sb.WriteString("Use emojis com moderação.\n")
	sb.WriteString("Baseie suas respostas apenas nas informações fornecidas abaixo.")
	return sb.String()
}

func (b *PromptBuilder) companySection(company *models.CompanyProfile) string {
	if company == nil {
		return ""
	}

	var lines []string
	add := func(label, value string) {
		if value != "" {
			lines = append(lines, fmt.Sprintf("%s: %s", label, value))
		}
	}
	add("Nome da empresa", company.Name)
	add("Ramo de atuação", company.Industry)
	add("Segmento", company.Segment)
	add("Público-alvo", company.TargetAudience)
	add("Diferenciais", company.Differentials)
	add("Missão", company.Mission)
	add("Horário de funcionamento", company.EffectiveHours())
	add("Endereço", company.EffectiveLocation())
	add("Promoções atuais", company.Promotions)
	add("Link da vitrine", company.VitrineLink)
	add("Links oficiais", company.OfficialLinks)
	add("Informações adicionais", company.AdditionalInfo)

	if len(lines) == 0 {
		return ""
	}
	return "SOBRE A EMPRESA:\n" + strings.Join(lines, "\n")
}

func (b *PromptBuilder) policiesSection(policies *models.AIPolicies) string {
	if policies == nil {
		return ""
	}

	var lines []string
	if policies.Delivery != "" {
		lines = append(lines, "Entrega: "+policies.Delivery)
	}
	if policies.Warranty != "" {
		lines = append(lines, "Garantia: "+policies.Warranty)
	}
	if policies.Exchange != "" {
		lines = append(lines, "Trocas e devoluções: "+policies.Exchange)
	}
	if len(lines) == 0 {
		return ""
	}
	return "POLÍTICAS:\n" + strings.Join(lines, "\n")
}

func (b *PromptBuilder) paymentsSection(payments *models.AIPayments) string {
	if payments == nil {
		return ""
	}

	var lines []string
	if payments.Methods != "" {
		lines = append(lines, "Formas de pagamento: "+payments.Methods)
	}
	if payments.Fees != "" {
		lines = append(lines, "Taxas e condições: "+payments.Fees)
	}
	if len(lines) == 0 {
		return ""
	}
	return "PAGAMENTO:\n" + strings.Join(lines, "\n")
}

func (b *PromptBuilder) rulesSection(rules string) string {
	rules = strings.TrimSpace(rules)
	if rules == "" {
		return ""
	}
	return "REGRAS DE COMPORTAMENTO DEFINIDAS PELA EMPRESA:\n" + rules
}

// catalogSection lists the catalog grouped by category, in catalog order,
// followed by the chat formatting contract. WhatsApp does not render
// markdown, so the contract is a hard requirement.
func (b *PromptBuilder) catalogSection(catalog []models.Product) string {
	if len(catalog) == 0 {
		return "CATÁLOGO: Nenhum produto cadastrado no momento. Informe isso ao cliente com gentileza quando perguntarem sobre produtos."
	}

	var sb strings.Builder
	sb.WriteString("CATÁLOGO DE PRODUTOS:\n")

	for _, group := range groupByCategory(catalog) {
		fmt.Fprintf(&sb, "\n== %s ==\n", group.Category)
		for _, p := range group.Products {
			fmt.Fprintf(&sb, "- %s | Código: %s | %s\n", p.Name, strings.ToUpper(p.Code), FormatPrice(p.Price))
			if p.Description != "" {
				fmt.Fprintf(&sb, "  %s\n", p.Description)
			}
		}
	}

	sb.WriteString("\nREGRAS DE FORMATAÇÃO (obrigatórias, o cliente usa WhatsApp e não vê markdown):\n")
	sb.WriteString("- Nunca use asteriscos, sublinhados ou qualquer sintaxe de negrito.\n")
	sb.WriteString("- Nunca use sintaxe de link em markdown; envie o link puro.\n")
	sb.WriteString("- Nunca escreva o código entre parênteses junto ao nome do produto.\n")
	sb.WriteString("- Deixe uma linha em branco entre um produto e outro.\n")
	sb.WriteString("- Ao apresentar uma categoria inteira, mostre apenas nome e uma descrição curta, sem código e sem preço.\n")
	sb.WriteString("- Ao responder sobre um produto específico, mostre o código e o preço, cada um em sua própria linha.")

	return sb.String()
}

func (b *PromptBuilder) guardrailsSection() string {
	var sb strings.Builder
	sb.WriteString("REGRAS FINAIS:\n")
	sb.WriteString("- Nunca invente produtos, preços ou informações que não estejam acima.\n")
	sb.WriteString("- Se o cliente informar um código que não existe, diga com gentileza que não encontrou.\n")
	sb.WriteString("- Se não souber responder algo, ofereça verificar e retornar em seguida, em vez de adivinhar.")
	return sb.String()
}

// categoryGroup is one category bucket in catalog order
type categoryGroup struct {
	Category string
	Products []models.Product
}

// groupByCategory buckets products by category preserving the order in which
// each category first appears. Products without category land in
// "Sem categoria".
func groupByCategory(catalog []models.Product) []categoryGroup {
	index := make(map[string]int)
	var groups []categoryGroup
	for _, p := range catalog {
		category := p.Category
		if category == "" {
			category = "Sem categoria"
		}
		i, ok := index[category]
		if !ok {
			i = len(groups)
			index[category] = i
			groups = append(groups, categoryGroup{Category: category})
		}
		groups[i].Products = append(groups[i].Products, p)
	}
	return groups
}

// FormatPrice renders a BRL price with two decimals and comma separator
func FormatPrice(price float64) string {
	return "R$ " + strings.Replace(fmt.Sprintf("%.2f", price), ".", ",", 1)
}
