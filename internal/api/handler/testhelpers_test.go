package handler

import (
	"context"
	"io"
	"log/slog"

	"github.com/iconidentify/grabba/internal/domain"
	"github.com/iconidentify/grabba/internal/service"
)

// testLogger returns a silent logger for tests.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockResolver is a test implementation of MediaResolver and HistoryLister.
type mockResolver struct {
	desc    *domain.MediaDescriptor
	infoErr error

	payload  *domain.MediaPayload
	fetchErr error
	lastReq  service.FetchRequest

	records    []domain.HistoryRecord
	historyErr error
}

func (m *mockResolver) Info(ctx context.Context, url string) (*domain.MediaDescriptor, error) {
	if m.infoErr != nil {
		return nil, m.infoErr
	}
	return m.desc, nil
}

func (m *mockResolver) Fetch(ctx context.Context, req service.FetchRequest) (*domain.MediaPayload, error) {
	m.lastReq = req
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return m.payload, nil
}

func (m *mockResolver) History(ctx context.Context, limit int) ([]domain.HistoryRecord, error) {
	if m.historyErr != nil {
		return nil, m.historyErr
	}
	if limit < len(m.records) {
		return m.records[:limit], nil
	}
	return m.records, nil
}
