// Package overlay draws one rendered block on top of another.
package overlay

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Place draws fg over bg, positioned the way lipgloss.Place positions content.
// bg keeps its size and the styling of whatever is left visible around fg.
func Place(hPos, vPos lipgloss.Position, bg, fg string) string {
	bgLines := strings.Split(bg, "\n")
	fgLines := strings.Split(fg, "\n")
	bgW, fgW := maxWidth(bgLines), maxWidth(fgLines)

	x := offset(hPos, bgW-fgW)
	y := offset(vPos, len(bgLines)-len(fgLines))

	for i, fl := range fgLines {
		row := y + i
		if row >= len(bgLines) {
			break
		}
		line := bgLines[row]
		if w := ansi.StringWidth(line); w < bgW {
			line += strings.Repeat(" ", bgW-w)
		}
		left := ansi.Truncate(line, x, "")
		right := ansi.TruncateLeft(line, x+ansi.StringWidth(fl), "")
		bgLines[row] = left + fl + right
	}
	return strings.Join(bgLines, "\n")
}

func offset(pos lipgloss.Position, gap int) int {
	if gap <= 0 {
		return 0
	}
	return int(math.Round(float64(gap) * float64(pos)))
}

func maxWidth(lines []string) int {
	w := 0
	for _, l := range lines {
		w = max(w, ansi.StringWidth(l))
	}
	return w
}
