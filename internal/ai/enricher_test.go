package ai

import (
	"strings"
	"testing"

	"isa/pkg/models"

	"github.com/google/uuid"
)

type fakeCatalog struct {
	products []models.Product
	byCode   map[string]models.Product
	searched []string
}

func (f *fakeCatalog) ListActiveCatalog(matricula string, tenantID uuid.UUID) ([]models.Product, error) {
	return f.products, nil
}

func (f *fakeCatalog) FindByCodes(matricula string, tenantID uuid.UUID, codes []string) ([]models.Product, error) {
	var found []models.Product
	for _, code := range codes {
		if p, ok := f.byCode[strings.ToUpper(code)]; ok {
			found = append(found, p)
		}
	}
	return found, nil
}

func (f *fakeCatalog) SearchByKeyword(matricula string, tenantID uuid.UUID, term string) ([]models.Product, error) {
	f.searched = append(f.searched, term)
	var found []models.Product
	for _, p := range f.products {
		if strings.Contains(strings.ToLower(p.Name), strings.ToLower(term)) {
			found = append(found, p)
		}
	}
	return found, nil
}

func TestExtractCodes(t *testing.T) {
	tests := []struct {
		message  string
		expected []string
	}{
		{"quero o ABC123", []string{"ABC123"}},
		{"abc123 e ABC123 de novo", []string{"ABC123"}},
		{"tem o abc123 e o xyz999?", []string{"ABC123", "XYZ999"}},
		{"oi", nil},
		{"código ABCD1234 não vale", nil},
		{"AB12 também não", nil},
		{"", nil},
	}

	for _, test := range tests {
		result := ExtractCodes(test.message)
		if len(result) != len(test.expected) {
			t.Errorf("ExtractCodes(%q) = %v, expected %v", test.message, result, test.expected)
			continue
		}
		for i, code := range result {
			if code != test.expected[i] {
				t.Errorf("ExtractCodes(%q)[%d] = %q, expected %q", test.message, i, code, test.expected[i])
			}
		}
	}
}

func TestEnrichCodeFound(t *testing.T) {
	catalog := &fakeCatalog{
		byCode: map[string]models.Product{
			"ABC123": {Name: "X-Burger", Code: "ABC123", Price: 16},
		},
	}
	enricher := NewContextEnricher(catalog)

	result := enricher.Enrich("PROMPT", "quero o abc123", "1234", uuid.Nil)
	if !strings.Contains(result, "PRODUTOS ENCONTRADOS") {
		t.Error("expected found-products block")
	}
	if !strings.Contains(result, "X-Burger | Código: ABC123 | R$ 16,00") {
		t.Error("expected product line in found-products block")
	}
}

func TestEnrichCodeNotFound(t *testing.T) {
	catalog := &fakeCatalog{byCode: map[string]models.Product{}}
	enricher := NewContextEnricher(catalog)

	result := enricher.Enrich("PROMPT", "tem o ZZZ999?", "1234", uuid.Nil)
	if !strings.Contains(result, "CÓDIGOS NÃO ENCONTRADOS: ZZZ999") {
		t.Error("expected not-found block for missing code")
	}
	if strings.Contains(result, "PRODUTOS ENCONTRADOS") {
		t.Error("no found-products block expected")
	}
}

func TestEnrichKeywordSearch(t *testing.T) {
	catalog := &fakeCatalog{
		products: []models.Product{
			{Name: "Pizza Mussarela", Code: "PZA001", Price: 35},
		},
	}
	enricher := NewContextEnricher(catalog)

	result := enricher.Enrich("PROMPT", "qual o preço da pizza mussarela?", "1234", uuid.Nil)
	if !strings.Contains(result, "PRODUTOS RELACIONADOS") {
		t.Errorf("expected related-products block, got %q", result)
	}
	if !strings.Contains(result, "Pizza Mussarela | Código: PZA001 | R$ 35,00") {
		t.Error("expected product line in related-products block")
	}
}

func TestEnrichNoOp(t *testing.T) {
	catalog := &fakeCatalog{
		products: []models.Product{
			{Name: "Pizza Mussarela", Code: "PZA001", Price: 35},
		},
	}
	enricher := NewContextEnricher(catalog)

	result := enricher.Enrich("PROMPT", "oi", "1234", uuid.Nil)
	if result != "PROMPT" {
		t.Errorf("greeting should not be enriched, got %q", result)
	}
	if len(catalog.searched) != 0 {
		t.Errorf("no search expected for greeting, searched %v", catalog.searched)
	}
}

func TestSearchTermsExcludeTriggers(t *testing.T) {
	terms := searchTerms("quanto custa o combo especial?")
	for _, term := range terms {
		if term == "quanto" || term == "custa" {
			t.Errorf("trigger word %q should be excluded from search terms", term)
		}
	}
	found := false
	for _, term := range terms {
		if term == "combo" || term == "especial" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected candidate words in %v", terms)
	}
}
