package style

import (
	"strconv"
	"unicode/utf8"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

const ellipsis = "..."

// TruncateToWidth shortens s with a trailing ellipsis until it fits in
// maxWidth pixels when drawn with face.
func TruncateToWidth(s string, face text.Face, maxWidth float64) (string, bool) {
	if s == "" {
		return s, false
	}
	if w, _ := text.Measure(s, face, 0); w <= maxWidth {
		return s, false
	}
	if w, _ := text.Measure(ellipsis, face, 0); w > maxWidth {
		return ellipsis, true
	}

	// Binary search on rune count for the longest prefix that fits.
	lo, hi, best := 0, utf8.RuneCountInString(s), 0
	for lo <= hi {
		mid := (lo + hi) / 2
		if w, _ := text.Measure(runePrefix(s, mid)+ellipsis, face, 0); w <= maxWidth {
			best = mid
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	return runePrefix(s, best) + ellipsis, true
}

func runePrefix(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// FormatFPS renders the frame rate line of the overlay.
func FormatFPS(fps int) string {
	return "FPS: " + strconv.Itoa(fps)
}
