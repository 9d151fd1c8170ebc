package domain

import "time"

// MediaType categorizes the primary media of a post.
type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
	MediaTypeGIF   MediaType = "gif"
)

// MediaKind is the caller-requested download kind on the fetch flow.
type MediaKind string

const (
	MediaKindVideo MediaKind = "video"
	MediaKindAudio MediaKind = "audio"
	MediaKindImage MediaKind = "image"
)

// Valid reports whether k is a recognized media kind.
func (k MediaKind) Valid() bool {
	switch k {
	case MediaKindVideo, MediaKindAudio, MediaKindImage:
		return true
	}
	return false
}

// RenditionDescriptor is one entry in the quality ladder offered to the
// caller. Selector is the opaque token handed back to the extraction tool to
// pick this rendition.
type RenditionDescriptor struct {
	QualityLabel string `json:"quality"`
	Selector     string `json:"format"`
	Container    string `json:"container"`
	HasAudio     bool   `json:"has_audio"`
	SizeBytes    *int64 `json:"filesize,omitempty"`
	SizeLabel    string `json:"size"`
	Height       int    `json:"height,omitempty"`
	FPS          int    `json:"fps,omitempty"`
}

// MediaDescriptor is the response payload of the info flow. It is never
// persisted.
type MediaDescriptor struct {
	Title            string                `json:"title"`
	ThumbnailDataURI string                `json:"thumbnail"`
	MediaType        MediaType             `json:"type"`
	Author           string                `json:"author"`
	DurationSeconds  int                   `json:"duration,omitempty"`
	Renditions       []RenditionDescriptor `json:"formats"`
}

// MediaPayload is the output of the fetch flow. Ownership transfers to the
// HTTP response writer, which streams and discards it.
type MediaPayload struct {
	Bytes             []byte
	MimeType          string
	SuggestedFilename string
}

// HistoryRecord is the per-request metadata row kept in the history store.
// It never contains media bytes.
type HistoryRecord struct {
	ID         string
	Platform   Platform
	ContentID  string
	Flow       string
	MediaKind  MediaKind
	Outcome    string
	ErrorKind  string
	DurationMS int64
	CreatedAt  time.Time
}

// History outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)
