package render

import "github.com/charmbracelet/glamour/styles"

// Markdown style names shipped with glamour
const (
	StyleDark       = styles.DarkStyle
	StyleLight      = styles.LightStyle
	StyleDracula    = styles.DraculaStyle
	StyleTokyoNight = styles.TokyoNightStyle
	StylePink       = styles.PinkStyle
	StyleNoTTY      = styles.NoTTYStyle
	StyleASCII      = styles.AsciiStyle
)

// StyleInfo describes a markdown style for pickers
type StyleInfo struct {
	Name        string
	Description string
}

// AvailableStyles lists the markdown styles offered in the config editor
func AvailableStyles() []StyleInfo {
	return []StyleInfo{
		{Name: StyleDark, Description: "Dark theme (default)"},
		{Name: StyleTokyoNight, Description: "Tokyo Night color scheme"},
		{Name: StyleDracula, Description: "Dracula color scheme"},
		{Name: StylePink, Description: "Pink accents"},
		{Name: StyleLight, Description: "Light theme for bright terminals"},
		{Name: StyleNoTTY, Description: "Plain text (no styling)"},
		{Name: StyleASCII, Description: "ASCII-only output"},
	}
}

// StyleNames returns the names from AvailableStyles
func StyleNames() []string {
	list := AvailableStyles()
	names := make([]string, len(list))
	for i, s := range list {
		names[i] = s.Name
	}
	return names
}

// IsBuiltinStyle reports whether name is a style glamour ships, as opposed
// to a path to a style file
func IsBuiltinStyle(name string) bool {
	_, ok := styles.DefaultStyles[name]
	return ok
}
