package styles

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/strata/internal/config"
)

// Theme holds the board styles resolved from configuration.
type Theme struct {
	Header       lipgloss.Style
	ActiveHeader lipgloss.Style
	Item         lipgloss.Style
	Tag          lipgloss.Style
	TagHashsign  lipgloss.Style
	FringeOn     lipgloss.Style
	FringeOff    lipgloss.Style
	Selected     lipgloss.Style

	// Done items are struck through and muted on top of Item.
	Done lipgloss.Style
	// Trailing is applied to items after the first when dimming is on.
	Trailing lipgloss.Style
	// Breadcrumb renders the path header.
	Breadcrumb lipgloss.Style
}

// DefaultTheme resolves the default configuration. It cannot fail.
func DefaultTheme() Theme {
	t, _ := NewTheme(config.Defaults().Theme)
	return t
}

// NewTheme converts configured colours into lipgloss styles.
func NewTheme(cfg config.ThemeConfig) (Theme, error) {
	build := func(name string, s config.Style) (lipgloss.Style, error) {
		fg, err := config.ParseColor(s.Fg)
		if err != nil {
			return lipgloss.Style{}, fmt.Errorf("theme.%s.fg: %w", name, err)
		}
		bg, err := config.ParseColor(s.Bg)
		if err != nil {
			return lipgloss.Style{}, fmt.Errorf("theme.%s.bg: %w", name, err)
		}
		// Empty colours stay unset so Inherit can fill them from another style.
		st := lipgloss.NewStyle()
		if s.Fg != "" {
			st = st.Foreground(fg)
		}
		if s.Bg != "" {
			st = st.Background(bg)
		}
		return st, nil
	}

	var (
		t   Theme
		err error
	)
	targets := []struct {
		name  string
		style config.Style
		dst   *lipgloss.Style
	}{
		{"header", cfg.Header, &t.Header},
		{"active_header", cfg.ActiveHeader, &t.ActiveHeader},
		{"item", cfg.Item, &t.Item},
		{"tag", cfg.Tag, &t.Tag},
		{"tag_hashsign", cfg.TagHashsign, &t.TagHashsign},
		{"fringe_on", cfg.FringeOn, &t.FringeOn},
		{"fringe_off", cfg.FringeOff, &t.FringeOff},
		{"selected", cfg.Selected, &t.Selected},
	}
	for _, target := range targets {
		if *target.dst, err = build(target.name, target.style); err != nil {
			return Theme{}, err
		}
	}

	t.Header = t.Header.Bold(true)
	t.ActiveHeader = t.ActiveHeader.Bold(true).Underline(true)
	t.Done = lipgloss.NewStyle().Foreground(TextMutedColor).Strikethrough(true)
	t.Trailing = lipgloss.NewStyle().Foreground(TextMutedColor)
	t.Breadcrumb = lipgloss.NewStyle().Foreground(TextMutedColor)
	return t, nil
}
