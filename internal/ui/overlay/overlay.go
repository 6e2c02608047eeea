// Package overlay draws one rendered block on top of another without
// clearing the screen. The help sheet and toasts use it.
package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Position specifies where to place the overlay content.
type Position int

const (
	// Center places the overlay in the center of the viewport.
	Center Position = iota
	// Top places the overlay at the top center of the viewport.
	Top
	// Bottom places the overlay at the bottom center of the viewport.
	Bottom
	// BottomRight places the overlay in the bottom right corner.
	BottomRight
)

// Config controls overlay rendering behavior.
type Config struct {
	Width    int // viewport width
	Height   int // viewport height
	Position Position
	PadX     int // distance from the right edge (BottomRight only)
	PadY     int // distance from the top or bottom edge
}

// Place renders fg on top of bg. Both may carry ANSI styling; cells of bg
// that fg does not cover keep their styles.
func Place(cfg Config, fg, bg string) string {
	fgLines := strings.Split(fg, "\n")
	bgLines := strings.Split(bg, "\n")

	for len(bgLines) < cfg.Height {
		bgLines = append(bgLines, strings.Repeat(" ", cfg.Width))
	}

	x, y := origin(cfg, lipgloss.Width(fg), len(fgLines))

	for i, fgLine := range fgLines {
		row := y + i
		if row >= len(bgLines) {
			break
		}
		bgLines[row] = splice(bgLines[row], fgLine, x)
	}
	return strings.Join(bgLines, "\n")
}

// splice replaces the cells of line starting at column x with fg.
func splice(line, fg string, x int) string {
	left := ansi.Truncate(line, x, "")
	if w := ansi.StringWidth(left); w < x {
		left += strings.Repeat(" ", x-w)
	}

	end := x + ansi.StringWidth(fg)
	var right string
	if end < ansi.StringWidth(line) {
		right = ansi.TruncateLeft(line, end, "")
	}
	return left + fg + right
}

func origin(cfg Config, fgWidth, fgHeight int) (x, y int) {
	switch cfg.Position {
	case Top:
		x, y = (cfg.Width-fgWidth)/2, cfg.PadY
	case Bottom:
		x, y = (cfg.Width-fgWidth)/2, cfg.Height-fgHeight-cfg.PadY
	case BottomRight:
		x, y = cfg.Width-fgWidth-cfg.PadX, cfg.Height-fgHeight-cfg.PadY
	default:
		x, y = (cfg.Width-fgWidth)/2, (cfg.Height-fgHeight)/2
	}
	return max(x, 0), max(y, 0)
}
