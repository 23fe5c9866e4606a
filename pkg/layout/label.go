package layout

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const ellipsis = "…"

// wrapLabel word-wraps text to at most maxChars runes per line and maxLines
// lines. Words longer than a line are split. Overflowing text is cut and the
// last line ends with an ellipsis.
func wrapLabel(text string, maxChars, maxLines int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	var cur []rune
	flush := func() {
		lines = append(lines, string(cur))
		cur = cur[:0]
	}
	for _, w := range words {
		r := []rune(w)
		for len(r) > 0 {
			room := maxChars - len(cur)
			if len(cur) > 0 {
				room-- // separating space
			}
			switch {
			case len(r) <= room:
				if len(cur) > 0 {
					cur = append(cur, ' ')
				}
				cur = append(cur, r...)
				r = nil
			case len(cur) > 0:
				flush()
			default:
				cur = append(cur, r[:maxChars]...)
				r = r[maxChars:]
				flush()
			}
		}
	}
	if len(cur) > 0 {
		flush()
	}

	if len(lines) > maxLines {
		lines = lines[:maxLines]
		last := []rune(lines[maxLines-1])
		if len(last) >= maxChars {
			last = last[:maxChars-1]
		}
		lines[maxLines-1] = strings.TrimRight(string(last), " ") + ellipsis
	}
	return lines
}

// boxSize returns width and height for wrapped label lines. Width counts
// display columns, so East Asian wide glyphs take two character cells.
func boxSize(lines []string, o Options) (float64, float64) {
	longest := 0
	for _, l := range lines {
		longest = max(longest, runewidth.StringWidth(l))
	}
	w := max(o.MinWidth, float64(longest)*o.CharWidth+2*o.PaddingX)
	h := max(o.MinHeight, float64(len(lines))*o.LineHeight+2*o.PaddingY)
	return w, h
}
