// Package service composes the pipeline: classify the URL, drive the
// extraction tool inside a transient workspace, normalize what comes back,
// and hand the result to the HTTP layer.
package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/iconidentify/grabba/internal/classify"
	"github.com/iconidentify/grabba/internal/domain"
	"github.com/iconidentify/grabba/internal/extractor"
	"github.com/iconidentify/grabba/internal/fetch"
	"github.com/iconidentify/grabba/internal/format"
	"github.com/iconidentify/grabba/internal/history"
	"github.com/iconidentify/grabba/internal/workspace"
)

// MediaService orchestrates the info and fetch flows. All collaborators are
// injected so tests can substitute doubles for the tool and remote fetches.
type MediaService struct {
	extractor  extractor.Extractor
	fetcher    fetch.Client
	workspaces *workspace.Manager
	history    history.Store
	logger     *slog.Logger
}

// NewMediaService creates a new media service.
func NewMediaService(
	ext extractor.Extractor,
	fetcher fetch.Client,
	workspaces *workspace.Manager,
	hist history.Store,
	logger *slog.Logger,
) *MediaService {
	return &MediaService{
		extractor:  ext,
		fetcher:    fetcher,
		workspaces: workspaces,
		history:    hist,
		logger:     logger,
	}
}

// FetchRequest describes one fetch-flow invocation.
type FetchRequest struct {
	URL       string
	MediaKind domain.MediaKind
	Selector  string
	Title     string
}

// Info resolves a URL into a MediaDescriptor: title, author, thumbnail
// data-URI and the quality ladder.
func (s *MediaService) Info(ctx context.Context, rawURL string) (*domain.MediaDescriptor, error) {
	start := time.Now()

	ref, err := classify.Classify(rawURL)
	if err != nil {
		s.record(ctx, domain.PlatformRef{}, "info", "", domain.OutcomeRejected, err, start)
		return nil, err
	}

	ws, err := s.workspaces.Acquire()
	if err != nil {
		s.record(ctx, ref, "info", "", domain.OutcomeFailed, err, start)
		return nil, err
	}
	defer ws.Release()

	desc, err := s.info(ctx, ref, rawURL, ws)
	if err != nil {
		s.record(ctx, ref, "info", "", domain.OutcomeFailed, err, start)
		return nil, domain.NewMediaError(ref, "info", err)
	}

	s.record(ctx, ref, "info", "", domain.OutcomeOK, nil, start)
	return desc, nil
}

func (s *MediaService) info(ctx context.Context, ref domain.PlatformRef, rawURL string, ws *workspace.Workspace) (*domain.MediaDescriptor, error) {
	// Instagram photo posts have no structured metadata command; the tool
	// only understands reels. Go straight for the predictable media URL.
	if ref.Platform == domain.PlatformInstagram && ref.Kind == domain.KindPost {
		return s.instagramPhoto(ctx, ref), nil
	}

	info, err := s.extractor.Metadata(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	isVideo := len(info.Formats) > 0
	isGIF := strings.Contains(info.WebpageURL, "/video/1")

	desc := &domain.MediaDescriptor{
		Title:  info.Title,
		Author: info.Uploader,
	}

	switch {
	case isVideo && !isGIF:
		desc.MediaType = domain.MediaTypeVideo
		desc.DurationSeconds = int(info.Duration)
		desc.Renditions = format.Normalize(info.Formats, ref.Platform)
	case isGIF:
		desc.MediaType = domain.MediaTypeGIF
		desc.Renditions = format.Original("mp4", false)
	default:
		desc.MediaType = domain.MediaTypeImage
		desc.Renditions = format.Original("jpg", false)
	}

	if desc.Title == "" {
		desc.Title = fallbackTitle(ref.Platform, desc.MediaType)
	}
	if desc.Author == "" {
		desc.Author = platformName(ref.Platform) + " User"
	}

	desc.ThumbnailDataURI = s.thumbnail(ctx, info, rawURL, ws)
	return desc, nil
}

// instagramPhoto is the direct-fetch path for photo posts. When the fetch
// fails the descriptor degrades to pointing at the remote URL instead of
// failing the request outright.
func (s *MediaService) instagramPhoto(ctx context.Context, ref domain.PlatformRef) *domain.MediaDescriptor {
	desc := &domain.MediaDescriptor{
		Title:      "Instagram Post",
		Author:     "Instagram User",
		MediaType:  domain.MediaTypeImage,
		Renditions: format.Original("jpg", false),
	}

	mediaURL := instagramMediaURL(ref.ContentID)
	body, contentType, err := s.fetcher.Get(ctx, mediaURL)
	if err != nil {
		s.logger.Warn("instagram direct fetch failed, degrading to remote URL",
			"content_id", ref.ContentID,
			"error", err,
		)
		desc.ThumbnailDataURI = mediaURL
		return desc
	}

	if !strings.HasPrefix(contentType, "image/") {
		contentType = "image/jpeg"
	}
	desc.ThumbnailDataURI = dataURI(contentType, body)
	return desc
}

// thumbnail prefers the thumbnail URL already present in the metadata and
// falls back to the tool's thumbnail-only command. Best-effort: a descriptor
// without a thumbnail is still useful.
func (s *MediaService) thumbnail(ctx context.Context, info *extractor.RawInfo, rawURL string, ws *workspace.Workspace) string {
	if info.Thumbnail != "" {
		body, contentType, err := s.fetcher.Get(ctx, info.Thumbnail)
		if err == nil {
			if !strings.HasPrefix(contentType, "image/") {
				contentType = "image/jpeg"
			}
			return dataURI(contentType, body)
		}
		s.logger.Warn("thumbnail fetch failed, trying extractor", "error", err)
	}

	path, err := s.extractor.Thumbnail(ctx, rawURL, ws.Root())
	if err != nil {
		s.logger.Warn("extractor thumbnail failed", "error", err)
		return info.Thumbnail
	}

	body, err := os.ReadFile(path)
	if err != nil {
		s.logger.Warn("read thumbnail failed", "path", path, "error", err)
		return info.Thumbnail
	}

	return dataURI("image/jpeg", body)
}

// Fetch retrieves the selected rendition and returns its bytes with the
// mime type and a download filename. The workspace is released before
// returning on every path.
func (s *MediaService) Fetch(ctx context.Context, req FetchRequest) (*domain.MediaPayload, error) {
	start := time.Now()

	ref, err := classify.Classify(req.URL)
	if err != nil {
		s.record(ctx, domain.PlatformRef{}, "fetch", req.MediaKind, domain.OutcomeRejected, err, start)
		return nil, err
	}
	if !req.MediaKind.Valid() {
		s.record(ctx, ref, "fetch", req.MediaKind, domain.OutcomeRejected, domain.ErrInvalidMediaKind, start)
		return nil, domain.ErrInvalidMediaKind
	}

	ws, err := s.workspaces.Acquire()
	if err != nil {
		s.record(ctx, ref, "fetch", req.MediaKind, domain.OutcomeFailed, err, start)
		return nil, err
	}
	defer ws.Release()

	payload, err := s.fetch(ctx, ref, req, ws)
	if err != nil {
		s.record(ctx, ref, "fetch", req.MediaKind, domain.OutcomeFailed, err, start)
		return nil, domain.NewMediaError(ref, "fetch", err)
	}

	s.record(ctx, ref, "fetch", req.MediaKind, domain.OutcomeOK, nil, start)
	return payload, nil
}

func (s *MediaService) fetch(ctx context.Context, ref domain.PlatformRef, req FetchRequest, ws *workspace.Workspace) (*domain.MediaPayload, error) {
	var (
		path string
		err  error
	)

	switch req.MediaKind {
	case domain.MediaKindAudio:
		path, err = s.extractor.DownloadAudio(ctx, req.URL, ws.Root())
	case domain.MediaKindImage:
		path, err = s.extractor.Thumbnail(ctx, req.URL, ws.Root())
	default:
		path, err = s.extractor.Download(ctx, req.URL, req.Selector, ws.Root())
	}
	if err != nil {
		return nil, err
	}

	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read output file: %w", err)
	}

	mimeType, ext := kindContent(req.MediaKind)
	title := req.Title
	if title == "" {
		title = strings.ToLower(platformName(ref.Platform)) + "_content"
	}

	return &domain.MediaPayload{
		Bytes:             body,
		MimeType:          mimeType,
		SuggestedFilename: fmt.Sprintf("%s_%s.%s", SanitizeFilename(title), ref.ContentID, ext),
	}, nil
}

// History returns the most recent request records.
func (s *MediaService) History(ctx context.Context, limit int) ([]domain.HistoryRecord, error) {
	return s.history.Recent(ctx, limit)
}

// record writes the request outcome to the history store. Best-effort: a
// failed insert is logged, never escalated.
func (s *MediaService) record(ctx context.Context, ref domain.PlatformRef, flow string, kind domain.MediaKind, outcome string, cause error, start time.Time) {
	rec := domain.HistoryRecord{
		Platform:   ref.Platform,
		ContentID:  ref.ContentID,
		Flow:       flow,
		MediaKind:  kind,
		Outcome:    outcome,
		ErrorKind:  errorKind(cause),
		DurationMS: time.Since(start).Milliseconds(),
	}

	if err := s.history.Record(ctx, rec); err != nil {
		s.logger.Warn("history insert failed", "error", err)
	}
}

// errorKind buckets an error for the history store.
func errorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrUnsupportedURL):
		return "unsupported_url"
	case errors.Is(err, domain.ErrInvalidMediaKind):
		return "invalid_media_kind"
	case errors.Is(err, domain.ErrToolNotFound):
		return "tool_not_found"
	case errors.Is(err, domain.ErrExtractionTimeout):
		return "timeout"
	case errors.Is(err, domain.ErrOutputMissing):
		return "output_missing"
	case errors.Is(err, domain.ErrInvalidMetadata):
		return "metadata"
	case errors.Is(err, domain.ErrExtractionFailed):
		return "extraction"
	case errors.Is(err, domain.ErrWorkspace):
		return "workspace"
	default:
		return "internal"
	}
}

// kindContent maps a media kind to its response mime type and file extension.
func kindContent(kind domain.MediaKind) (mimeType, ext string) {
	switch kind {
	case domain.MediaKindAudio:
		return "audio/mp4", "m4a"
	case domain.MediaKindImage:
		return "image/jpeg", "jpg"
	default:
		return "video/mp4", "mp4"
	}
}

// SanitizeFilename reduces arbitrary title text to a filesystem-safe token:
// every non-alphanumeric rune becomes an underscore, the rest is lowercased.
func SanitizeFilename(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '_'
		}
	}, name)
}

// instagramMediaURL is the predictable direct-media URL for a photo post.
// Not an officially documented endpoint; revisit if instagram changes it.
func instagramMediaURL(contentID string) string {
	return fmt.Sprintf("https://www.instagram.com/p/%s/media/?size=l", contentID)
}

func platformName(p domain.Platform) string {
	switch p {
	case domain.PlatformInstagram:
		return "Instagram"
	case domain.PlatformYouTube:
		return "YouTube"
	case domain.PlatformTwitter:
		return "Twitter"
	case domain.PlatformTikTok:
		return "TikTok"
	case domain.PlatformTwitch:
		return "Twitch"
	default:
		return "Media"
	}
}

func fallbackTitle(p domain.Platform, t domain.MediaType) string {
	if t == domain.MediaTypeVideo {
		return platformName(p) + " Video"
	}
	return platformName(p) + " Post"
}

func dataURI(contentType string, body []byte) string {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(body)
}
