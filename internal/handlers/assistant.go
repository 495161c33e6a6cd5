package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"sgc-backend/internal/assistant"
	"sgc-backend/internal/models"
)

type messenger interface {
	Send(ctx context.Context, conv *assistant.Conversation, rawText string, lang models.Language) (assistant.Outcome, bool)
}

type sessionTokenIssuer interface {
	Issue(sessionID uuid.UUID) (string, error)
}

type AssistantHandler struct {
	sessions  *assistant.Sessions
	assistant messenger
	tokens    sessionTokenIssuer
	logger    *zap.Logger
}

func NewAssistantHandler(sessions *assistant.Sessions, a messenger, tokens sessionTokenIssuer, logger *zap.Logger) *AssistantHandler {
	return &AssistantHandler{
		sessions:  sessions,
		assistant: a,
		tokens:    tokens,
		logger:    logger,
	}
}

func sessionResponse(session *assistant.Session) models.SessionResponse {
	state := session.Conversation.Snapshot()
	return models.SessionResponse{
		SessionID:            session.ID,
		Language:             session.Language(),
		Messages:             state.Messages,
		AwaitingResponse:     state.AwaitingResponse,
		CredentialsAvailable: state.CredentialsAvailable,
	}
}

// CreateSession opens the widget for a new visitor and greets them.
func (h *AssistantHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSessionRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	lang := models.ResolveLanguage(req.Language, r.Header.Get("Accept-Language"))
	session := h.sessions.Create(lang)
	session.Conversation.Open(lang)

	token, err := h.tokens.Issue(session.ID)
	if err != nil {
		h.logger.Error("failed to issue session token", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create session", r))
		return
	}

	h.logger.Info("assistant session created",
		zap.String("session_id", session.ID.String()),
		zap.String("language", string(lang)),
	)

	resp := sessionResponse(session)
	resp.Token = token
	writeJSON(w, http.StatusCreated, resp)
}

// OpenSession re-opens the widget. The greeting is only added to an empty conversation.
func (h *AssistantHandler) OpenSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req models.OpenSessionRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	lang := models.ResolveLanguage(req.Language, string(session.Language()))
	session.SetLanguage(lang)
	session.Conversation.Open(lang)

	writeJSON(w, http.StatusOK, sessionResponse(session))
}

func (h *AssistantHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse(session))
}

// SendMessage forwards the visitor's question and responds once the reply is in
// the conversation. Blank text and sends made while a reply is pending are
// not errors: they are reported with accepted=false.
func (h *AssistantHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	session, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req models.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	lang := models.ResolveLanguage(req.Language, string(session.Language()))

	// A visitor closing the tab must not abort a request already on the wire.
	ctx := context.WithoutCancel(r.Context())
	outcome, accepted := h.assistant.Send(ctx, session.Conversation, req.Text, lang)

	resp := models.SendMessageResponse{
		Accepted:        accepted,
		SessionResponse: sessionResponse(session),
	}
	if !accepted {
		writeJSON(w, http.StatusAccepted, resp)
		return
	}

	resp.Outcome = outcome.Kind.String()
	writeJSON(w, http.StatusOK, resp)
}

func (h *AssistantHandler) lookup(w http.ResponseWriter, r *http.Request) (*assistant.Session, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid session ID", r))
		return nil, false
	}
	session, ok := h.sessions.Get(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Session not found or expired", r))
		return nil, false
	}
	return session, true
}
