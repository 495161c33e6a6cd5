package handlers

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"sgc-backend/internal/models"
	"sgc-backend/internal/services"
)

type videoLookup interface {
	GetVideoMetadata(ctx context.Context, videoID string, autoplay, loop bool) (*models.YouTubeMetadata, error)
	GetCaptions(videoID string, lang models.Language) (*models.YouTubeCaptions, error)
}

type MediaHandler struct {
	youtube videoLookup
}

func NewMediaHandler(youtube videoLookup) *MediaHandler {
	return &MediaHandler{youtube: youtube}
}

func queryFlag(r *http.Request, name string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(name))
	return err == nil && v
}

// videoIDParam decodes the {id} segment, which may be a percent-encoded
// YouTube URL since chi matches on the raw path.
func videoIDParam(r *http.Request) (string, error) {
	raw, err := url.PathUnescape(chi.URLParam(r, "id"))
	if err != nil {
		return "", &services.ValidationError{Fields: map[string]string{"video_id": "Invalid YouTube video ID"}}
	}
	return services.NormalizeVideoID(raw)
}

func (h *MediaHandler) GetYouTube(w http.ResponseWriter, r *http.Request) {
	videoID, err := videoIDParam(r)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	meta, err := h.youtube.GetVideoMetadata(r.Context(), videoID, queryFlag(r, "autoplay"), queryFlag(r, "loop"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, meta)
}

func (h *MediaHandler) GetYouTubeCaptions(w http.ResponseWriter, r *http.Request) {
	videoID, err := videoIDParam(r)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	lang := models.ResolveLanguage(r.URL.Query().Get("lang"), r.Header.Get("Accept-Language"))
	captions, err := h.youtube.GetCaptions(videoID, lang)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, captions)
}
