package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"sgc-backend/internal/content"
	"sgc-backend/internal/models"
)

type ContentHandler struct{}

func NewContentHandler() *ContentHandler {
	return &ContentHandler{}
}

func (h *ContentHandler) Get(w http.ResponseWriter, r *http.Request) {
	lang := models.Language(chi.URLParam(r, "lang"))
	if !lang.IsSupported() {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Unsupported language", r))
		return
	}
	writeJSON(w, http.StatusOK, content.For(lang))
}
