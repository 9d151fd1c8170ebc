package extractor

import "context"

// Extractor invokes the external extraction tool. dir arguments are
// request-scoped scratch directories the tool writes its output files into.
type Extractor interface {
	// Metadata enumerates available renditions for url.
	Metadata(ctx context.Context, url string) (*RawInfo, error)

	// Download fetches the rendition picked by selector into dir and returns
	// the path of the written file.
	Download(ctx context.Context, url, selector, dir string) (string, error)

	// DownloadAudio fetches a best-audio-only rendition into dir.
	DownloadAudio(ctx context.Context, url, dir string) (string, error)

	// Thumbnail fetches the post thumbnail as a JPEG into dir.
	Thumbnail(ctx context.Context, url, dir string) (string, error)
}
