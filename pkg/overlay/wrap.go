package overlay

import (
	"strings"
	"unicode/utf8"
)

// Wrap breaks text into lines of at most width characters, splitting on
// whitespace. Runs of whitespace collapse to a single space. A word longer
// than width is kept whole on its own line. A non-positive width returns
// the normalized text as one line.
func Wrap(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if width <= 0 {
		return []string{strings.Join(words, " ")}
	}

	var (
		lines []string
		line  strings.Builder
		n     int
	)
	for _, w := range words {
		wl := utf8.RuneCountInString(w)
		if n > 0 && n+1+wl > width {
			lines = append(lines, line.String())
			line.Reset()
			n = 0
		}
		if n > 0 {
			line.WriteByte(' ')
			n++
		}
		line.WriteString(w)
		n += wl
	}
	return append(lines, line.String())
}
