package tui

import (
	"github.com/charmbracelet/huh"
)

// themeBuilders maps each --theme value to its huh theme constructor.
var themeBuilders = map[string]func() *huh.Theme{
	"reqscan":    reqscanTheme,
	"base":       huh.ThemeBase,
	"base16":     huh.ThemeBase16,
	"catppuccin": huh.ThemeCatppuccin,
	"charm":      huh.ThemeCharm,
	"dracula":    huh.ThemeDracula,
}

// ValidThemes lists the accepted --theme values, the default first.
var ValidThemes = []string{"reqscan", "base", "base16", "catppuccin", "charm", "dracula"}

// IsValidTheme reports whether name can be passed to --theme or set in config.
func IsValidTheme(name string) bool {
	_, ok := themeBuilders[name]
	return ok
}

// GetTheme builds the overwrite-prompt theme called name. It returns nil for
// names that are not in ValidThemes; matching is case-sensitive.
func GetTheme(name string) *huh.Theme {
	build, ok := themeBuilders[name]
	if !ok {
		return nil
	}
	return build()
}
