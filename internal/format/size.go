package format

import "fmt"

var sizeUnits = []string{"Bytes", "KB", "MB", "GB"}

// SizeLabelVariable is used when a format's size cannot be determined up
// front (e.g. the synthetic audio-only entry).
const SizeLabelVariable = "Variable"

// SizeLabelUnknown is used when the tool reported no size at all.
const SizeLabelUnknown = "Unknown size"

// FormatSize renders a byte count with binary (1024-based) prefixes,
// rounded to two decimals. Zero renders as "0 Bytes".
func FormatSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}

	value := float64(bytes)
	unit := 0
	for value >= 1024 && unit < len(sizeUnits)-1 {
		value /= 1024
		unit++
	}

	if unit == 0 {
		return fmt.Sprintf("%d %s", bytes, sizeUnits[0])
	}
	return fmt.Sprintf("%s %s", trimZeros(fmt.Sprintf("%.2f", value)), sizeUnits[unit])
}

// trimZeros drops a trailing ".00" / "0" so 1.00 renders as 1 and 1.50 as 1.5.
func trimZeros(s string) string {
	for len(s) > 0 && s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}
	if len(s) > 0 && s[len(s)-1] == '.' {
		s = s[:len(s)-1]
	}
	return s
}
