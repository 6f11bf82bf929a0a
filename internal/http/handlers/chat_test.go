package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"isa/internal/ai"
	"isa/internal/config"
	"isa/internal/repo"
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

type stubIdentity struct {
	match *repo.IdentityMatch
}

func (s *stubIdentity) Resolve(identifier string) (*repo.IdentityMatch, error) {
	if s.match == nil {
		return nil, repo.ErrIdentityNotFound
	}
	return s.match, nil
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

type stubConfigSource struct {
	memory *models.ClientAIMemory
}

func (s *stubConfigSource) GetBehaviorRules(userID uuid.UUID) (*models.AIBehaviorRule, error) {
	return nil, nil
}

func (s *stubConfigSource) GetCompanyKnowledge(userID uuid.UUID) (*models.CompanyKnowledge, error) {
	return nil, nil
}

func (s *stubConfigSource) GetAIMemory(userID uuid.UUID) (*models.ClientAIMemory, error) {
	return s.memory, nil
}

func newChatService(identity *stubIdentity, source *stubConfigSource, gatewayURL string) *ai.Service {
	gateway := ai.NewGateway("test-key", gatewayURL+"/v1", []config.ModelCandidate{
		{ID: "model-a", Name: "Model A"},
		{ID: "model-b", Name: "Model B"},
	})
	return ai.NewService(identity, stubCatalog{}, ai.NewConfigAggregator(source), gateway, nil)
}

func performChat(t *testing.T, handler *ChatHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Chat(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestChatFixedFirstMessageResponse(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("model must not be called on fixed-message bypass")
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer upstream.Close()

	identity := &stubIdentity{match: &repo.IdentityMatch{Table: "clients", TenantID: uuid.New(), Matricula: "1234"}}
	source := &stubConfigSource{
		memory: &models.ClientAIMemory{
			Config: models.AIMemoryConfig{
				FirstInteraction: &models.AIFirstInteraction{MessagePrompt: "Olá, seja bem-vindo!"},
			},
		},
	}
	handler := NewChatHandler(newChatService(identity, source, upstream.URL), true)

	rec := performChat(t, handler, `{"messages":[{"role":"user","content":"oi"}],"matricula":"1234","isFirstInteraction":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, expected 200: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Message             string `json:"message"`
		IsFixedFirstMessage bool   `json:"isFixedFirstMessage"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.IsFixedFirstMessage {
		t.Error("isFixedFirstMessage should be true")
	}
	if resp.Message != "Olá, seja bem-vindo!" {
		t.Errorf("message = %q, expected the configured fixed text", resp.Message)
	}
}

func TestChatAllModelsFailedReturns500(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer upstream.Close()

	handler := NewChatHandler(newChatService(&stubIdentity{}, &stubConfigSource{}, upstream.URL), true)

	rec := performChat(t, handler, `{"messages":[{"role":"user","content":"oi"}]}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, expected 500", rec.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["error"] == "" {
		t.Error("expected an error field in the response body")
	}
}

func TestChatMissingCredentialReturns500(t *testing.T) {
	handler := NewChatHandler(nil, false)

	rec := performChat(t, handler, `{"messages":[{"role":"user","content":"oi"}]}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, expected 500", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "error") {
		t.Error("expected an error field in the response body")
	}
}

func TestChatRejectsEmptyMessages(t *testing.T) {
	handler := NewChatHandler(nil, true)

	rec := performChat(t, handler, `{"messages":[]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, expected 400", rec.Code)
	}
}
