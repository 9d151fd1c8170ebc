// Package format turns the extraction tool's raw format list into the
// canonical quality ladder offered to callers. Pure data transformation,
// no I/O.
package format

import (
	"fmt"
	"sort"

	"github.com/iconidentify/grabba/internal/domain"
	"github.com/iconidentify/grabba/internal/extractor"
)

// Normalize builds the quality ladder: filter to mp4 formats with a known
// height, keep one survivor per height (largest known size, first-seen on
// ties), sort descending by height, and append the synthetic audio-only
// entry. Deterministic for a given input.
func Normalize(formats []extractor.RawFormat, platform domain.Platform) []domain.RenditionDescriptor {
	byHeight := make(map[int]extractor.RawFormat)
	order := make([]int, 0, len(formats))

	for _, f := range formats {
		if f.Ext != "mp4" || f.Height <= 0 {
			continue
		}
		current, seen := byHeight[f.Height]
		if !seen {
			byHeight[f.Height] = f
			order = append(order, f.Height)
			continue
		}
		if f.Size() > current.Size() {
			byHeight[f.Height] = f
		}
	}

	sort.Sort(sort.Reverse(sort.IntSlice(order)))

	ladder := make([]domain.RenditionDescriptor, 0, len(order)+1)
	for _, height := range order {
		ladder = append(ladder, describe(byHeight[height]))
	}

	return append(ladder, audioEntry(formats, platform))
}

func describe(f extractor.RawFormat) domain.RenditionDescriptor {
	label := fmt.Sprintf("%dp", f.Height)
	if f.FPS > 30 {
		label = fmt.Sprintf("%s %dfps", label, int(f.FPS))
	}

	d := domain.RenditionDescriptor{
		QualityLabel: label,
		Selector:     f.FormatID,
		Container:    "mp4",
		HasAudio:     f.HasAudio(),
		SizeLabel:    SizeLabelUnknown,
		Height:       f.Height,
		FPS:          int(f.FPS),
	}
	if size := f.Size(); size > 0 {
		d.SizeBytes = &size
		d.SizeLabel = FormatSize(size)
	}
	return d
}

// audioEntry builds the trailing "Audio Only" rendition. The selector and
// container are fixed per platform; the size is taken from the first format
// with an audio stream and a known size, "Variable" otherwise.
func audioEntry(formats []extractor.RawFormat, platform domain.Platform) domain.RenditionDescriptor {
	entry := domain.RenditionDescriptor{
		QualityLabel: "Audio Only",
		Selector:     "bestaudio",
		Container:    "mp3",
		HasAudio:     true,
		SizeLabel:    SizeLabelVariable,
	}
	if platform == domain.PlatformYouTube {
		entry.Selector = "bestaudio[ext=m4a]"
		entry.Container = "m4a"
	}

	for _, f := range formats {
		if f.HasAudio() && f.Filesize > 0 {
			size := f.Filesize
			entry.SizeBytes = &size
			entry.SizeLabel = FormatSize(size)
			break
		}
	}

	return entry
}

// Original is the single-rendition ladder used for images and GIFs, where
// the only choice is the file as posted.
func Original(container string, hasAudio bool) []domain.RenditionDescriptor {
	return []domain.RenditionDescriptor{{
		QualityLabel: "Original",
		Selector:     "best",
		Container:    container,
		HasAudio:     hasAudio,
		SizeLabel:    SizeLabelUnknown,
	}}
}
