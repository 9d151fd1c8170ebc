package format

import (
	"testing"

	"github.com/iconidentify/grabba/internal/domain"
	"github.com/iconidentify/grabba/internal/extractor"
)

func raw(id string, height int, size int64, acodec string) extractor.RawFormat {
	return extractor.RawFormat{
		FormatID: id,
		Ext:      "mp4",
		Height:   height,
		Filesize: size,
		ACodec:   acodec,
		VCodec:   "avc1",
	}
}

func TestNormalize_DedupeAndSort(t *testing.T) {
	formats := []extractor.RawFormat{
		raw("f1", 720, 100, "none"),
		raw("f2", 720, 200, "none"),
		raw("f3", 1080, 300, "none"),
	}

	ladder := Normalize(formats, domain.PlatformTwitter)

	if len(ladder) != 3 {
		t.Fatalf("ladder length = %d, want 3 (1080p, 720p, Audio Only)", len(ladder))
	}

	if ladder[0].QualityLabel != "1080p" || *ladder[0].SizeBytes != 300 {
		t.Errorf("ladder[0] = %s (%v bytes), want 1080p (300)", ladder[0].QualityLabel, ladder[0].SizeBytes)
	}
	if ladder[0].Selector != "f3" {
		t.Errorf("ladder[0].Selector = %q, want f3", ladder[0].Selector)
	}
	if ladder[1].QualityLabel != "720p" || *ladder[1].SizeBytes != 200 {
		t.Errorf("ladder[1] = %s (%v bytes), want 720p (200)", ladder[1].QualityLabel, ladder[1].SizeBytes)
	}
	if ladder[2].QualityLabel != "Audio Only" {
		t.Errorf("ladder[2] = %s, want Audio Only", ladder[2].QualityLabel)
	}
}

func TestNormalize_UniqueHeightsSortedDescending(t *testing.T) {
	formats := []extractor.RawFormat{
		raw("a", 360, 10, "none"),
		raw("b", 1080, 40, "none"),
		raw("c", 720, 30, "none"),
		raw("d", 360, 5, "none"),
		raw("e", 480, 20, "none"),
		raw("f", 1080, 50, "none"),
	}

	ladder := Normalize(formats, domain.PlatformYouTube)

	seen := make(map[int]bool)
	prev := 1 << 30
	for _, r := range ladder[:len(ladder)-1] {
		if seen[r.Height] {
			t.Errorf("duplicate height %d in ladder", r.Height)
		}
		seen[r.Height] = true
		if r.Height >= prev {
			t.Errorf("ladder not strictly descending at height %d", r.Height)
		}
		prev = r.Height
	}

	last := ladder[len(ladder)-1]
	if last.QualityLabel != "Audio Only" {
		t.Errorf("last entry = %s, want Audio Only", last.QualityLabel)
	}
}

func TestNormalize_TieKeepsFirstSeen(t *testing.T) {
	formats := []extractor.RawFormat{
		raw("first", 720, 100, "none"),
		raw("second", 720, 100, "none"),
	}

	ladder := Normalize(formats, domain.PlatformTwitter)

	if ladder[0].Selector != "first" {
		t.Errorf("tie survivor = %q, want first-seen", ladder[0].Selector)
	}
}

func TestNormalize_DropsNonMP4AndHeightless(t *testing.T) {
	formats := []extractor.RawFormat{
		{FormatID: "hls", Ext: "m3u8", Height: 720},
		{FormatID: "noheight", Ext: "mp4"},
		raw("ok", 480, 10, "none"),
	}

	ladder := Normalize(formats, domain.PlatformTwitter)

	if len(ladder) != 2 {
		t.Fatalf("ladder length = %d, want 2 (480p, Audio Only)", len(ladder))
	}
	if ladder[0].Selector != "ok" {
		t.Errorf("survivor = %q, want ok", ladder[0].Selector)
	}
}

func TestNormalize_FPSLabel(t *testing.T) {
	formats := []extractor.RawFormat{
		{FormatID: "hi", Ext: "mp4", Height: 1080, FPS: 60},
		{FormatID: "lo", Ext: "mp4", Height: 720, FPS: 30},
	}

	ladder := Normalize(formats, domain.PlatformYouTube)

	if ladder[0].QualityLabel != "1080p 60fps" {
		t.Errorf("60fps label = %q, want \"1080p 60fps\"", ladder[0].QualityLabel)
	}
	if ladder[1].QualityLabel != "720p" {
		t.Errorf("30fps label = %q, want \"720p\" (no fps suffix)", ladder[1].QualityLabel)
	}
}

func TestNormalize_AudioEntryPerPlatform(t *testing.T) {
	formats := []extractor.RawFormat{raw("v", 720, 100, "none")}

	yt := Normalize(formats, domain.PlatformYouTube)
	audio := yt[len(yt)-1]
	if audio.Selector != "bestaudio[ext=m4a]" || audio.Container != "m4a" {
		t.Errorf("youtube audio entry = %s/%s, want bestaudio[ext=m4a]/m4a", audio.Selector, audio.Container)
	}

	tw := Normalize(formats, domain.PlatformTwitter)
	audio = tw[len(tw)-1]
	if audio.Selector != "bestaudio" || audio.Container != "mp3" {
		t.Errorf("twitter audio entry = %s/%s, want bestaudio/mp3", audio.Selector, audio.Container)
	}
}

func TestNormalize_AudioEntrySize(t *testing.T) {
	withAudio := []extractor.RawFormat{
		raw("v", 720, 100, "none"),
		raw("a", 480, 2048, "mp4a.40.2"),
	}

	ladder := Normalize(withAudio, domain.PlatformTwitter)
	audio := ladder[len(ladder)-1]
	if audio.SizeBytes == nil || *audio.SizeBytes != 2048 {
		t.Errorf("audio size = %v, want 2048", audio.SizeBytes)
	}
	if audio.SizeLabel != "2 KB" {
		t.Errorf("audio size label = %q, want \"2 KB\"", audio.SizeLabel)
	}

	noAudio := []extractor.RawFormat{raw("v", 720, 100, "none")}
	ladder = Normalize(noAudio, domain.PlatformTwitter)
	audio = ladder[len(ladder)-1]
	if audio.SizeLabel != SizeLabelVariable {
		t.Errorf("audio size label = %q, want %q", audio.SizeLabel, SizeLabelVariable)
	}
}

func TestNormalize_EmptyInput(t *testing.T) {
	ladder := Normalize(nil, domain.PlatformTwitter)

	if len(ladder) != 1 {
		t.Fatalf("ladder length = %d, want just the Audio Only entry", len(ladder))
	}
	if ladder[0].QualityLabel != "Audio Only" {
		t.Errorf("entry = %s, want Audio Only", ladder[0].QualityLabel)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	formats := []extractor.RawFormat{
		raw("f1", 720, 100, "none"),
		raw("f2", 720, 200, "none"),
		raw("f3", 1080, 300, "none"),
	}

	first := Normalize(formats, domain.PlatformTwitter)

	// Feed the ladder's own video entries back through.
	reraw := make([]extractor.RawFormat, 0, len(first))
	for _, r := range first {
		if r.Height == 0 {
			continue
		}
		reraw = append(reraw, extractor.RawFormat{
			FormatID: r.Selector,
			Ext:      r.Container,
			Height:   r.Height,
			FPS:      float64(r.FPS),
			Filesize: *r.SizeBytes,
			ACodec:   "none",
		})
	}

	second := Normalize(reraw, domain.PlatformTwitter)

	if len(second) != len(first) {
		t.Fatalf("re-normalized length = %d, want %d", len(second), len(first))
	}
	for i := range first {
		if first[i].QualityLabel != second[i].QualityLabel ||
			first[i].Selector != second[i].Selector ||
			first[i].Height != second[i].Height {
			t.Errorf("entry %d changed on re-normalize: %+v != %+v", i, first[i], second[i])
		}
	}
}

func TestOriginal(t *testing.T) {
	ladder := Original("jpg", false)

	if len(ladder) != 1 {
		t.Fatalf("ladder length = %d, want 1", len(ladder))
	}
	r := ladder[0]
	if r.QualityLabel != "Original" || r.Selector != "best" || r.Container != "jpg" || r.HasAudio {
		t.Errorf("Original entry = %+v", r)
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "0 Bytes"},
		{-5, "0 Bytes"},
		{1, "1 Bytes"},
		{500, "500 Bytes"},
		{1023, "1023 Bytes"},
		{1024, "1 KB"},
		{1536, "1.5 KB"},
		{1048576, "1 MB"},
		{5242880, "5 MB"},
		{1073741824, "1 GB"},
		{3221225472, "3 GB"},
	}

	for _, tt := range tests {
		if got := FormatSize(tt.bytes); got != tt.want {
			t.Errorf("FormatSize(%d) = %q, want %q", tt.bytes, got, tt.want)
		}
	}
}
