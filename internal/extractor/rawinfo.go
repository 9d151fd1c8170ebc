package extractor

import "github.com/iconidentify/grabba/internal/domain"

// RawInfo is the metadata document the extraction tool prints for -J.
// Field presence varies between tool versions; optional fields are tolerated.
type RawInfo struct {
	Title      string      `json:"title"`
	Uploader   string      `json:"uploader"`
	Duration   float64     `json:"duration"`
	Thumbnail  string      `json:"thumbnail"`
	WebpageURL string      `json:"webpage_url"`
	Formats    []RawFormat `json:"formats"`
}

// RawFormat is one entry of the tool's formats list.
type RawFormat struct {
	FormatID       string  `json:"format_id"`
	Ext            string  `json:"ext"`
	Height         int     `json:"height"`
	Width          int     `json:"width"`
	FPS            float64 `json:"fps"`
	VCodec         string  `json:"vcodec"`
	ACodec         string  `json:"acodec"`
	Filesize       int64   `json:"filesize"`
	FilesizeApprox int64   `json:"filesize_approx"`
	URL            string  `json:"url"`
}

// HasAudio reports whether the format carries an audio stream.
func (f RawFormat) HasAudio() bool {
	return f.ACodec != "" && f.ACodec != "none"
}

// Size returns the best known size of the format in bytes, 0 when unknown.
func (f RawFormat) Size() int64 {
	if f.Filesize > 0 {
		return f.Filesize
	}
	return f.FilesizeApprox
}

// Validate checks the document for the fields every supported tool version
// emits. A document with neither a title nor any selectable format points at
// a tool/version mismatch rather than a missing post.
func (i *RawInfo) Validate() error {
	if i.Title == "" && len(i.Formats) == 0 {
		return domain.ErrInvalidMetadata
	}
	for _, f := range i.Formats {
		if f.Height > 0 && f.FormatID == "" {
			return domain.ErrInvalidMetadata
		}
	}
	return nil
}
