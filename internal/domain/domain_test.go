package domain

import (
	"errors"
	"testing"
)

func TestMediaError(t *testing.T) {
	ref := PlatformRef{Platform: PlatformTwitter, ContentID: "42"}
	err := NewMediaError(ref, "metadata", ErrExtractionFailed)

	if !errors.Is(err, ErrExtractionFailed) {
		t.Error("MediaError should unwrap to its cause")
	}
	if got := err.Error(); got != "metadata [twitter/42]: extraction failed" {
		t.Errorf("Error() = %q", got)
	}

	bare := NewMediaError(PlatformRef{Platform: PlatformYouTube}, "download", ErrOutputMissing)
	if got := bare.Error(); got != "download: extractor output file missing" {
		t.Errorf("Error() = %q", got)
	}
}

func TestPlatformValid(t *testing.T) {
	for _, p := range []Platform{PlatformInstagram, PlatformYouTube, PlatformTwitter, PlatformTikTok, PlatformTwitch} {
		if !p.Valid() {
			t.Errorf("%q should be valid", p)
		}
	}
	if Platform("vimeo").Valid() {
		t.Error("unknown platform should be invalid")
	}
	if Platform("").Valid() {
		t.Error("empty platform should be invalid")
	}
}

func TestMediaKindValid(t *testing.T) {
	for _, k := range []MediaKind{MediaKindVideo, MediaKindAudio, MediaKindImage} {
		if !k.Valid() {
			t.Errorf("%q should be valid", k)
		}
	}
	if MediaKind("hologram").Valid() {
		t.Error("unknown kind should be invalid")
	}
}
