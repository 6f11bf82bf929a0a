package webhook

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"isa/internal/ai"
	"isa/internal/config"
	"isa/internal/repo"
	"isa/internal/whatsapp"
	"isa/pkg/models"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type testValidator struct {
	validator *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	if err := v.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

type stubIdentity struct{}

func (stubIdentity) Resolve(identifier string) (*repo.IdentityMatch, error) {
	return nil, repo.ErrIdentityNotFound
}

type stubCatalog struct{}

func (stubCatalog) ListActiveCatalog(matricula string, tenantID uuid.UUID) ([]models.Product, error) {
	return nil, nil
}

func (stubCatalog) FindByCodes(matricula string, tenantID uuid.UUID, codes []string) ([]models.Product, error) {
	return nil, nil
}

func (stubCatalog) SearchByKeyword(matricula string, tenantID uuid.UUID, term string) ([]models.Product, error) {
	return nil, nil
}

type stubConfigSource struct{}

func (stubConfigSource) GetBehaviorRules(userID uuid.UUID) (*models.AIBehaviorRule, error) {
	return nil, nil
}

func (stubConfigSource) GetCompanyKnowledge(userID uuid.UUID) (*models.CompanyKnowledge, error) {
	return nil, nil
}

func (stubConfigSource) GetAIMemory(userID uuid.UUID) (*models.ClientAIMemory, error) {
	return nil, nil
}

func newTestHandler(gatewayURL string) *WhatsAppHandler {
	gateway := ai.NewGateway("test-key", gatewayURL+"/v1", []config.ModelCandidate{{ID: "model-a", Name: "Model A"}})
	chat := ai.NewService(stubIdentity{}, stubCatalog{}, ai.NewConfigAggregator(stubConfigSource{}), gateway, nil)
	// No WhatsApp gateway configured: replies come back in the HTTP response
	return NewWhatsAppHandler(chat, whatsapp.NewClient(&config.Config{}))
}

func performWebhook(t *testing.T, handler *WhatsAppHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhook/whatsapp", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Handle(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestWebhookIgnoresNonTextEvents(t *testing.T) {
	handler := newTestHandler("http://unused.invalid")

	rec := performWebhook(t, handler, `{"phone":"5527999990000@c.us","message":"  "}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, expected 200", rec.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["status"] != "ignored" {
		t.Errorf("status = %q, expected ignored", resp["status"])
	}
}

func TestWebhookRepliesWithoutGateway(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "olá!"}},
			},
		})
	}))
	defer upstream.Close()

	handler := newTestHandler(upstream.URL)

	rec := performWebhook(t, handler, `{"phone":"5527999990000@c.us","message":"oi"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, expected 200: %s", rec.Code, rec.Body.String())
	}

	var resp ai.ChatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Message != "olá!" {
		t.Errorf("message = %q, expected the model reply", resp.Message)
	}
}

func TestWebhookPipelineFailureReturns500(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer upstream.Close()

	handler := newTestHandler(upstream.URL)

	rec := performWebhook(t, handler, `{"phone":"5527999990000@c.us","message":"oi"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, expected 500", rec.Code)
	}
}

func TestWebhookHistoryCap(t *testing.T) {
	history := make([]ai.ChatMessage, 0, 25)
	for i := 0; i < 25; i++ {
		history = append(history, ai.ChatMessage{Role: "user", Content: "mensagem antiga"})
	}

	var received struct {
		Messages []struct {
			Role string `json:"role"`
		} `json:"messages"`
	}
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("failed to decode upstream request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "ok"}},
			},
		})
	}))
	defer upstream.Close()

	handler := newTestHandler(upstream.URL)

	body, _ := json.Marshal(InboundMessage{Phone: "5527999990000@c.us", Message: "oi", History: history})
	rec := performWebhook(t, handler, string(body))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, expected 200: %s", rec.Code, rec.Body.String())
	}

	// system prompt + capped history + current message
	expected := 1 + historyCap + 1
	if len(received.Messages) != expected {
		t.Errorf("forwarded %d messages, expected %d", len(received.Messages), expected)
	}
}
