package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"sgc-backend/internal/models"
)

type contactSubmitter interface {
	Submit(ctx context.Context, req models.ContactRequest, lang models.Language) (*models.ContactResponse, error)
}

type ContactHandler struct {
	contacts contactSubmitter
}

func NewContactHandler(contacts contactSubmitter) *ContactHandler {
	return &ContactHandler{contacts: contacts}
}

func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req models.ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	lang := models.ResolveLanguage(req.Language, r.Header.Get("Accept-Language"))
	resp, err := h.contacts.Submit(r.Context(), req, lang)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}
