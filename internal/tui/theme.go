package tui

import (
	"github.com/charmbracelet/huh"
)

// currentTheme holds the theme used by prompts. Nil means reqscanTheme.
var currentTheme *huh.Theme

// SetTheme selects the prompt theme by name. Empty or unknown names select
// the reqscan theme.
func SetTheme(name string) {
	currentTheme = GetTheme(name)
}

func currentThemeOrDefault() *huh.Theme {
	if currentTheme == nil {
		return reqscanTheme()
	}
	return currentTheme
}

func resetTheme() {
	currentTheme = nil
}
