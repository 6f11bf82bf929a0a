package ai

import (
	"fmt"
	"regexp"
	"strings"

	"isa/pkg/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ProductCatalog abstracts the catalog lookups the enricher needs
type ProductCatalog interface {
	ListActiveCatalog(matricula string, tenantID uuid.UUID) ([]models.Product, error)
	FindByCodes(matricula string, tenantID uuid.UUID, codes []string) ([]models.Product, error)
	SearchByKeyword(matricula string, tenantID uuid.UUID, term string) ([]models.Product, error)
}

// codePattern matches exactly 6 alphanumeric characters as a standalone word
var codePattern = regexp.MustCompile(`(?i)\b[A-Z0-9]{6}\b`)

// purchaseKeywords trigger the keyword search fallback when no code is found
var purchaseKeywords = []string{"preço", "quanto custa", "tem", "quero", "cardápio", "produtos", "menu"}

// ContextEnricher inspects the latest user message for product codes or
// purchase intent and appends matched-product blocks to the prompt.
// Lookup failures are logged and treated as empty results so a database
// hiccup degrades to an unenriched prompt instead of failing the request.
type ContextEnricher struct {
	catalog ProductCatalog
}

// NewContextEnricher creates a new context enricher
func NewContextEnricher(catalog ProductCatalog) *ContextEnricher {
	return &ContextEnricher{catalog: catalog}
}

// Enrich returns the prompt with any product context appended. When neither
// the code path nor the keyword path yields anything the prompt is returned
// unchanged.
func (e *ContextEnricher) Enrich(prompt, lastUserMessage, matricula string, tenantID uuid.UUID) string {
	codes := ExtractCodes(lastUserMessage)
	if len(codes) > 0 {
		if block := e.codeBlock(codes, matricula, tenantID); block != "" {
			return prompt + "\n\n" + block
		}
		return prompt
	}

	if block := e.keywordBlock(lastUserMessage, matricula, tenantID); block != "" {
		return prompt + "\n\n" + block
	}
	return prompt
}

// ExtractCodes pulls candidate product codes from a message, uppercased and
// deduplicated in order of first appearance.
func ExtractCodes(message string) []string {
	seen := make(map[string]bool)
	var codes []string
	for _, match := range codePattern.FindAllString(message, -1) {
		code := strings.ToUpper(match)
		if !seen[code] {
			seen[code] = true
			codes = append(codes, code)
		}
	}
	return codes
}

func (e *ContextEnricher) codeBlock(codes []string, matricula string, tenantID uuid.UUID) string {
	products, err := e.catalog.FindByCodes(matricula, tenantID, codes)
	if err != nil {
		log.Warn().Err(err).Strs("codes", codes).Msg("product code lookup failed, skipping enrichment")
		return ""
	}

	found := make(map[string]bool)
	var sb strings.Builder
	if len(products) > 0 {
		sb.WriteString("PRODUTOS ENCONTRADOS PELOS CÓDIGOS INFORMADOS (apresente de forma clara e convidativa):\n")
		for _, p := range products {
			code := strings.ToUpper(p.Code)
			found[code] = true
			fmt.Fprintf(&sb, "- %s | Código: %s | %s\n", p.Name, code, FormatPrice(p.Price))
			if p.Description != "" {
				fmt.Fprintf(&sb, "  %s\n", p.Description)
			}
		}
	}

	var missing []string
	for _, code := range codes {
		if !found[code] {
			missing = append(missing, code)
		}
	}
	if len(missing) > 0 {
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "CÓDIGOS NÃO ENCONTRADOS: %s. Informe com gentileza que não encontrou produtos com esses códigos.", strings.Join(missing, ", "))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (e *ContextEnricher) keywordBlock(message, matricula string, tenantID uuid.UUID) string {
	lower := strings.ToLower(message)

	triggered := false
	for _, keyword := range purchaseKeywords {
		if strings.Contains(lower, keyword) {
			triggered = true
			break
		}
	}
	if !triggered {
		return ""
	}

	for _, word := range searchTerms(lower) {
		products, err := e.catalog.SearchByKeyword(matricula, tenantID, word)
		if err != nil {
			log.Warn().Err(err).Str("term", word).Msg("keyword search failed, skipping enrichment")
			return ""
		}
		if len(products) == 0 {
			continue
		}

		var sb strings.Builder
		sb.WriteString("PRODUTOS RELACIONADOS À PERGUNTA DO CLIENTE:\n")
		for _, p := range products {
			fmt.Fprintf(&sb, "- %s | Código: %s | %s\n", p.Name, strings.ToUpper(p.Code), FormatPrice(p.Price))
		}
		return strings.TrimRight(sb.String(), "\n")
	}
	return ""
}

// searchTerms tokenizes the message into candidate search words longer than
// 3 characters, excluding the trigger keywords themselves.
func searchTerms(lower string) []string {
	skip := make(map[string]bool)
	for _, keyword := range purchaseKeywords {
		for _, part := range strings.Fields(keyword) {
			skip[part] = true
		}
	}

	var terms []string
	for _, word := range strings.Fields(lower) {
		word = strings.Trim(word, ".,!?;:()\"'")
		if len([]rune(word)) > 3 && !skip[word] {
			terms = append(terms, word)
		}
	}
	return terms
}
