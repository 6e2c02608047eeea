package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var namedColors = map[string]string{
	"black":        "0",
	"red":          "1",
	"green":        "2",
	"yellow":       "3",
	"blue":         "4",
	"magenta":      "5",
	"cyan":         "6",
	"lightgray":    "7",
	"darkgray":     "8",
	"lightred":     "9",
	"lightgreen":   "10",
	"lightyellow":  "11",
	"lightblue":    "12",
	"lightmagenta": "13",
	"lightcyan":    "14",
	"white":        "15",
}

// ParseColor converts a config colour into a lipgloss colour. The empty
// string is the terminal default.
func ParseColor(s string) (lipgloss.TerminalColor, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return lipgloss.NoColor{}, nil
	}
	if idx, ok := namedColors[s]; ok {
		return lipgloss.Color(idx), nil
	}
	if hex, ok := strings.CutPrefix(s, "#"); ok {
		switch len(hex) {
		case 3:
			hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		case 6:
		default:
			return nil, fmt.Errorf("unsupported colour %q", s)
		}
		if _, err := strconv.ParseUint(hex, 16, 32); err != nil {
			return nil, fmt.Errorf("unsupported colour %q", s)
		}
		return lipgloss.Color("#" + strings.ToUpper(hex)), nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > 255 {
		return nil, fmt.Errorf("unsupported colour %q", s)
	}
	return lipgloss.Color(strconv.Itoa(n)), nil
}
