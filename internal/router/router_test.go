package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sgc-backend/internal/assistant"
	"sgc-backend/internal/handlers"
	"sgc-backend/internal/middleware"
	"sgc-backend/internal/models"
	"sgc-backend/internal/services"
	"sgc-backend/internal/websocket"
)

type echoGenerator struct{}

func (echoGenerator) Generate(_ context.Context, _, prompt string) (string, error) {
	return "ok", nil
}

type nopContacts struct{}

func (nopContacts) Submit(_ context.Context, req models.ContactRequest, lang models.Language) (*models.ContactResponse, error) {
	if fields := services.ValidateContact(req, lang); len(fields) > 0 {
		return nil, &services.ValidationError{Fields: fields}
	}
	return &models.ContactResponse{}, nil
}

func newTestRouter() http.Handler {
	logger := zap.NewNop()
	tokens := middleware.NewSessionTokens("secret", time.Hour)
	sessions := assistant.NewSessions(nil)
	a := assistant.New(echoGenerator{}, assistant.StaticCredential("key"), logger)

	return New(
		tokens,
		handlers.NewAssistantHandler(sessions, a, tokens, logger),
		handlers.NewContactHandler(nopContacts{}),
		handlers.NewMediaHandler(services.NewYouTubeService(logger)),
		handlers.NewContentHandler(),
		websocket.NewHub(nil, tokens, logger),
		"https://sgc.vn",
		logger,
	)
}

func TestRouter_Health(t *testing.T) {
	r := newTestRouter()
	for _, path := range []string{"/health", "/api/v1/health"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"), path)
	}
}

func TestRouter_AssistantFlow(t *testing.T) {
	r := newTestRouter()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/assistant/sessions", bytes.NewBufferString(`{"language":"en"}`)))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/assistant/sessions/"+created.SessionID.String()+"/messages",
		bytes.NewBufferString(`{"text":"hello"}`))
	req.Header.Set("Authorization", "Bearer "+created.Token)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var sent models.SendMessageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sent))
	assert.Equal(t, "succeeded", sent.Outcome)
	assert.Len(t, sent.Messages, 3)
}

func TestRouter_ContactValidation(t *testing.T) {
	r := newTestRouter()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/contact", bytes.NewBufferString(`{"language":"en"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_Content(t *testing.T) {
	r := newTestRouter()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/content/vi", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
