package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/iconidentify/grabba/internal/domain"
)

// HistoryLister is the slice of the service layer the history handler needs.
type HistoryLister interface {
	History(ctx context.Context, limit int) ([]domain.HistoryRecord, error)
}

// HistoryHandler serves the request history endpoint.
type HistoryHandler struct {
	svc    HistoryLister
	logger *slog.Logger
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(svc HistoryLister, logger *slog.Logger) *HistoryHandler {
	return &HistoryHandler{
		svc:    svc,
		logger: logger,
	}
}

// HistoryEntry is one request record in the list response.
type HistoryEntry struct {
	ID         string    `json:"id"`
	Platform   string    `json:"platform"`
	ContentID  string    `json:"content_id"`
	Flow       string    `json:"flow"`
	MediaKind  string    `json:"media_kind,omitempty"`
	Outcome    string    `json:"outcome"`
	ErrorKind  string    `json:"error_kind,omitempty"`
	DurationMS int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

// HistoryResponse contains the request history list.
type HistoryResponse struct {
	Requests []HistoryEntry `json:"requests"`
	Count    int            `json:"count"`
}

// List handles GET /api/v1/history.
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	records, err := h.svc.History(r.Context(), limit)
	if err != nil {
		h.logger.Error("history list failed", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "failed to list history"})
		return
	}

	resp := HistoryResponse{
		Requests: make([]HistoryEntry, 0, len(records)),
	}
	for _, rec := range records {
		resp.Requests = append(resp.Requests, HistoryEntry{
			ID:         rec.ID,
			Platform:   string(rec.Platform),
			ContentID:  rec.ContentID,
			Flow:       rec.Flow,
			MediaKind:  string(rec.MediaKind),
			Outcome:    rec.Outcome,
			ErrorKind:  rec.ErrorKind,
			DurationMS: rec.DurationMS,
			CreatedAt:  rec.CreatedAt,
		})
	}
	resp.Count = len(resp.Requests)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}
