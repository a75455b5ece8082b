// Package ui renders tracker listings for the terminal.
package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/mschirtzinger/jira-lite/internal/models"
)

// Semantic colors
var (
	ColorAccent  = lipgloss.Color("#2196F3")
	ColorPass    = lipgloss.Color("#8BC34A")
	ColorWarn    = lipgloss.Color("#FFC107")
	ColorFail    = lipgloss.Color("#e53935")
	ColorMuted   = lipgloss.Color("#8a8f98")
	ColorHeading = lipgloss.Color("#f2f2f2")
)

var (
	accentStyle  = lipgloss.NewStyle().Foreground(ColorAccent).Bold(true)
	passStyle    = lipgloss.NewStyle().Foreground(ColorPass)
	warnStyle    = lipgloss.NewStyle().Foreground(ColorWarn)
	failStyle    = lipgloss.NewStyle().Foreground(ColorFail).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(ColorMuted)
	headingStyle = lipgloss.NewStyle().Foreground(ColorHeading).Bold(true)
)

// SetColor enables or disables ANSI colors for all renderers.
func SetColor(enabled bool) {
	if enabled {
		lipgloss.SetColorProfile(termenv.EnvColorProfile())
		return
	}
	lipgloss.SetColorProfile(termenv.Ascii)
}

func RenderAccent(s string) string { return accentStyle.Render(s) }
func RenderPass(s string) string   { return passStyle.Render(s) }
func RenderWarn(s string) string   { return warnStyle.Render(s) }
func RenderFail(s string) string   { return failStyle.Render(s) }
func RenderMuted(s string) string  { return mutedStyle.Render(s) }

// RenderStatus colors a status label by lifecycle stage.
func RenderStatus(s models.Status) string {
	label := s.Label()
	switch s {
	case models.StatusOpen:
		return accentStyle.UnsetBold().Render(label)
	case models.StatusInProgress:
		return warnStyle.Render(label)
	case models.StatusResolved:
		return passStyle.Render(label)
	case models.StatusClosed:
		return mutedStyle.Render(label)
	default:
		return failStyle.Render(label)
	}
}
