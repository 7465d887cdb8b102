package tui

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Snake-green palette, adaptive to light and dark terminals.
var (
	greenPrimary = lipgloss.AdaptiveColor{Light: "#15803d", Dark: "#4ade80"}
	greenBright  = lipgloss.AdaptiveColor{Light: "#16a34a", Dark: "#86efac"}
	yellowAccent = lipgloss.AdaptiveColor{Light: "#ca8a04", Dark: "#facc15"}

	textStrong = lipgloss.AdaptiveColor{Light: "#111827", Dark: "#f9fafb"}
	textNormal = lipgloss.AdaptiveColor{Light: "#374151", Dark: "#d1d5db"}
	textMuted  = lipgloss.AdaptiveColor{Light: "#6b7280", Dark: "#9ca3af"}

	borderFocused = lipgloss.AdaptiveColor{Light: "#15803d", Dark: "#4ade80"}
	borderNormal  = lipgloss.AdaptiveColor{Light: "#d1d5db", Dark: "#374151"}

	buttonBg          = lipgloss.AdaptiveColor{Light: "#15803d", Dark: "#22c55e"}
	buttonBgBlurred   = lipgloss.AdaptiveColor{Light: "#e5e7eb", Dark: "#374151"}
	buttonText        = lipgloss.AdaptiveColor{Light: "#ffffff", Dark: "#052e16"}
	buttonTextBlurred = lipgloss.AdaptiveColor{Light: "#374151", Dark: "#d1d5db"}
)

// reqscanTheme is the default prompt theme.
func reqscanTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Base = t.Focused.Base.
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(borderFocused)
	t.Focused.Title = t.Focused.Title.Foreground(greenPrimary).Bold(true)
	t.Focused.Description = t.Focused.Description.Foreground(textMuted)
	t.Focused.ErrorIndicator = t.Focused.ErrorIndicator.Foreground(yellowAccent)
	t.Focused.ErrorMessage = t.Focused.ErrorMessage.Foreground(yellowAccent)
	t.Focused.FocusedButton = t.Focused.FocusedButton.
		Foreground(buttonText).
		Background(buttonBg).
		Bold(true).
		Padding(0, 1)
	t.Focused.BlurredButton = t.Focused.BlurredButton.
		Foreground(buttonTextBlurred).
		Background(buttonBgBlurred).
		Padding(0, 1)

	t.Blurred = t.Focused
	t.Blurred.Base = t.Blurred.Base.BorderForeground(borderNormal)
	t.Blurred.Title = t.Blurred.Title.Foreground(textNormal).Bold(false)

	t.Help.ShortKey = t.Help.ShortKey.Foreground(greenBright)
	t.Help.ShortDesc = t.Help.ShortDesc.Foreground(textMuted)
	t.Help.ShortSeparator = t.Help.ShortSeparator.Foreground(borderNormal)
	t.Help.FullKey = t.Help.FullKey.Foreground(greenBright)
	t.Help.FullDesc = t.Help.FullDesc.Foreground(textStrong)
	t.Help.FullSeparator = t.Help.FullSeparator.Foreground(borderNormal)

	return t
}
