package render

import "datanotes/internal/config"

// Theme is the explicit styling configuration carried by every figure.
// It is plain data passed by value; there is no ambient, process-wide
// theme to mutate.
type Theme struct {
	Palette    []string `json:"palette"`
	FontFamily string   `json:"font_family"`
	GridLines  bool     `json:"grid_lines"`
}

// DefaultTheme returns the styling used when a post does not override it.
func DefaultTheme() Theme {
	return Theme{
		Palette:    []string{"#4c78a8", "#f58518", "#54a24b", "#e45756"},
		FontFamily: "Georgia, serif",
		GridLines:  true,
	}
}

// ThemeFromConfig builds a Theme from site configuration, falling back to
// the defaults for unset fields.
func ThemeFromConfig(cfg config.ThemeConfig) Theme {
	theme := DefaultTheme()
	if len(cfg.Palette) > 0 {
		theme.Palette = cfg.Palette
	}
	if cfg.FontFamily != "" {
		theme.FontFamily = cfg.FontFamily
	}
	theme.GridLines = cfg.GridLines
	return theme
}
