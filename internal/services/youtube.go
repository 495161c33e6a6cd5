package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	ytapi "github.com/hightemp/youtube-transcript-api-go/api"
	yt "github.com/kkdai/youtube/v2"
	"go.uber.org/zap"

	"sgc-backend/internal/models"
)

const embedBaseURL = "https://www.youtube.com/embed/"

type YouTubeService struct {
	transcriptAPI *ytapi.YouTubeTranscriptApi
	ytClient      *yt.Client
	logger        *zap.Logger
}

func NewYouTubeService(logger *zap.Logger) *YouTubeService {
	return &YouTubeService{
		transcriptAPI: ytapi.NewYouTubeTranscriptApi(),
		ytClient:      &yt.Client{},
		logger:        logger,
	}
}

// NormalizeVideoID accepts a bare video id or any YouTube watch/share URL.
func NormalizeVideoID(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", &ValidationError{Fields: map[string]string{"video_id": "Video ID is required"}}
	}
	id, err := yt.ExtractVideoID(raw)
	if err != nil {
		return "", &ValidationError{Fields: map[string]string{"video_id": "Invalid YouTube video ID"}}
	}
	return id, nil
}

// EmbedURL builds the iframe source for a video. Autoplay implies mute, and
// loop needs the video repeated as its own playlist. rel=0 is always set.
func EmbedURL(videoID string, autoplay, loop bool) string {
	escaped := url.QueryEscape(videoID)

	var params []string
	if autoplay {
		params = append(params, "autoplay=1", "mute=1")
	}
	if loop {
		params = append(params, "loop=1", "playlist="+escaped)
	}
	params = append(params, "rel=0")

	return embedBaseURL + url.PathEscape(videoID) + "?" + strings.Join(params, "&")
}

// GetVideoMetadata looks up title, channel and duration for the embed card.
func (s *YouTubeService) GetVideoMetadata(ctx context.Context, videoID string, autoplay, loop bool) (*models.YouTubeMetadata, error) {
	video, err := s.ytClient.GetVideoContext(ctx, videoID)
	if err != nil {
		return nil, &UpstreamError{Message: "failed to fetch YouTube video metadata", Err: err}
	}

	meta := &models.YouTubeMetadata{
		VideoID:      videoID,
		Title:        video.Title,
		ChannelName:  video.Author,
		ThumbnailURL: fmt.Sprintf("https://img.youtube.com/vi/%s/maxresdefault.jpg", videoID),
		Duration:     int(video.Duration.Seconds()),
		EmbedURL:     EmbedURL(videoID, autoplay, loop),
	}

	var bestWidth uint
	for _, thumb := range video.Thumbnails {
		if thumb.Width > bestWidth && thumb.URL != "" {
			bestWidth = thumb.Width
			meta.ThumbnailURL = thumb.URL
		}
	}

	return meta, nil
}

// captionLanguages lists the track codes tried for a page language, most specific first.
func captionLanguages(lang models.Language) []string {
	switch lang {
	case models.LanguageEnglish:
		return []string{"en", "en-US", "en-GB"}
	case models.LanguageVietnamese:
		return []string{"vi", "vi-VN"}
	default:
		return []string{string(lang)}
	}
}

// GetCaptions returns the caption text of a video, preferring the page
// language and falling back to any available track.
func (s *YouTubeService) GetCaptions(videoID string, lang models.Language) (*models.YouTubeCaptions, error) {
	trackLang := string(lang)
	transcript, err := s.transcriptAPI.GetTranscript(videoID, captionLanguages(lang))
	if err != nil {
		s.logger.Debug("no caption track in page language, trying any",
			zap.String("video_id", videoID),
			zap.String("language", string(lang)),
			zap.Error(err),
		)
		transcript, err = s.transcriptAPI.GetTranscript(videoID, nil)
		if err != nil {
			return nil, &NotFoundError{Message: "No captions available for this video"}
		}
		trackLang = ""
	}

	var text strings.Builder
	for _, entry := range transcript.Entries {
		line := strings.TrimSpace(entry.Text)
		if line == "" {
			continue
		}
		if text.Len() > 0 {
			text.WriteString(" ")
		}
		text.WriteString(line)
	}

	if text.Len() == 0 {
		return nil, &NotFoundError{Message: "Caption track is empty"}
	}

	return &models.YouTubeCaptions{
		VideoID:  videoID,
		Language: trackLang,
		Text:     text.String(),
	}, nil
}
