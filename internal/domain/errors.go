package domain

import "errors"

// Domain errors.
var (
	// ErrUnsupportedURL is returned when an input URL is malformed or does
	// not match any supported platform pattern.
	ErrUnsupportedURL = errors.New("unsupported or malformed URL")

	// ErrToolNotFound is returned when the extraction tool is not installed.
	ErrToolNotFound = errors.New("extraction tool not found")

	// ErrExtractionFailed is returned when the extraction tool exits nonzero
	// or produces unparseable output.
	ErrExtractionFailed = errors.New("extraction failed")

	// ErrExtractionTimeout is returned when the extraction tool exceeds its
	// deadline and is killed.
	ErrExtractionTimeout = errors.New("extraction timed out")

	// ErrOutputMissing is returned when the extraction tool exits cleanly
	// but the expected output file is absent.
	ErrOutputMissing = errors.New("extractor output file missing")

	// ErrInvalidMetadata is returned when extractor metadata is missing
	// required fields, indicating a tool version mismatch.
	ErrInvalidMetadata = errors.New("invalid extractor metadata")

	// ErrWorkspace is returned when scratch space cannot be created.
	ErrWorkspace = errors.New("workspace unavailable")

	// ErrInvalidMediaKind is returned when a fetch request names an unknown
	// media kind.
	ErrInvalidMediaKind = errors.New("invalid media kind")
)

// MediaError wraps an error with request context.
type MediaError struct {
	Platform  Platform
	ContentID string
	Op        string
	Err       error
}

func (e *MediaError) Error() string {
	if e.ContentID != "" {
		return e.Op + " [" + string(e.Platform) + "/" + e.ContentID + "]: " + e.Err.Error()
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *MediaError) Unwrap() error {
	return e.Err
}

// NewMediaError creates a new MediaError.
func NewMediaError(ref PlatformRef, op string, err error) *MediaError {
	return &MediaError{
		Platform:  ref.Platform,
		ContentID: ref.ContentID,
		Op:        op,
		Err:       err,
	}
}
