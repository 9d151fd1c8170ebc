package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iconidentify/grabba/internal/classify"
	"github.com/iconidentify/grabba/internal/domain"
	"github.com/iconidentify/grabba/internal/service"
)

// MediaResolver is the slice of the service layer the media handlers need.
type MediaResolver interface {
	Info(ctx context.Context, url string) (*domain.MediaDescriptor, error)
	Fetch(ctx context.Context, req service.FetchRequest) (*domain.MediaPayload, error)
}

// MediaHandler handles the info and fetch endpoints.
type MediaHandler struct {
	svc    MediaResolver
	logger *slog.Logger
}

// NewMediaHandler creates a new media handler.
func NewMediaHandler(svc MediaResolver, logger *slog.Logger) *MediaHandler {
	return &MediaHandler{
		svc:    svc,
		logger: logger,
	}
}

// InfoRequest is the JSON request body for media info.
type InfoRequest struct {
	URL string `json:"url"`
}

// FetchRequest is the JSON request body for media fetch.
type FetchRequest struct {
	URL       string `json:"url"`
	MediaKind string `json:"media_kind"`
	Selector  string `json:"selector,omitempty"`
	Title     string `json:"title,omitempty"`
}

// Info handles POST /api/v1/info and POST /api/v1/{platform}/info.
func (h *MediaHandler) Info(w http.ResponseWriter, r *http.Request) {
	var req InfoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.URL == "" {
		h.writeError(w, http.StatusBadRequest, "URL is required")
		return
	}
	if !h.platformMatches(w, r, req.URL) {
		return
	}

	desc, err := h.svc.Info(r.Context(), req.URL)
	if err != nil {
		h.handleError(w, "info", err)
		return
	}

	h.writeJSON(w, http.StatusOK, desc)
}

// Fetch handles POST /api/v1/fetch and POST /api/v1/{platform}/fetch. On
// success the media bytes are streamed as an attachment.
func (h *MediaHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	var req FetchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.URL == "" {
		h.writeError(w, http.StatusBadRequest, "URL is required")
		return
	}
	if !h.platformMatches(w, r, req.URL) {
		return
	}

	payload, err := h.svc.Fetch(r.Context(), service.FetchRequest{
		URL:       req.URL,
		MediaKind: domain.MediaKind(req.MediaKind),
		Selector:  req.Selector,
		Title:     req.Title,
	})
	if err != nil {
		h.handleError(w, "fetch", err)
		return
	}

	w.Header().Set("Content-Type", payload.MimeType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", payload.SuggestedFilename))
	w.WriteHeader(http.StatusOK)
	w.Write(payload.Bytes)
}

// platformMatches enforces the per-platform route aliases: a URL posted to
// /api/v1/twitter/info must actually be a twitter URL. Returns false after
// writing the error response.
func (h *MediaHandler) platformMatches(w http.ResponseWriter, r *http.Request, url string) bool {
	platform := chi.URLParam(r, "platform")
	if platform == "" {
		return true
	}

	if !domain.Platform(platform).Valid() {
		h.writeError(w, http.StatusNotFound, "unknown platform")
		return false
	}

	ref, err := classify.Classify(url)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "unsupported or malformed URL")
		return false
	}
	if ref.Platform != domain.Platform(platform) {
		h.writeError(w, http.StatusBadRequest,
			fmt.Sprintf("URL is not a %s URL", platform))
		return false
	}

	return true
}

// handleError maps service errors onto HTTP responses. Validation failures
// get specific 400 messages; everything else is a generic 500 so tool
// internals never leak to callers.
func (h *MediaHandler) handleError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrUnsupportedURL):
		h.writeError(w, http.StatusBadRequest, "unsupported or malformed URL")
	case errors.Is(err, domain.ErrInvalidMediaKind):
		h.writeError(w, http.StatusBadRequest, "media_kind must be video, audio or image")
	default:
		h.logger.Error(op+" failed", "error", err)
		h.writeError(w, http.StatusInternalServerError,
			"Failed to process the media. Please make sure the URL is correct and the content is public.")
	}
}

func (h *MediaHandler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *MediaHandler) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
