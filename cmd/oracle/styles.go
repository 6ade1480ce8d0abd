package main

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/PabloGalante/pill-oracle/internal/domain"
)

var (
	redPill  = lipgloss.Color("#D7263D")
	bluePill = lipgloss.Color("#2364AA")
	muted    = lipgloss.Color("#8A8A8A")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			MarginBottom(1)

	mutedStyle = lipgloss.NewStyle().
			Foreground(muted).
			Italic(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(muted)
)

func pillColor(theme domain.Theme) lipgloss.Color {
	if theme == domain.ThemeTruth {
		return redPill
	}
	return bluePill
}

func pillStyle(theme domain.Theme) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(pillColor(theme)).
		Bold(true)
}

// renderFortune frames the revealed fortune in its pill's colour.
func renderFortune(s domain.SessionState) string {
	heading := pillStyle(s.SelectedTheme).Render("The " + s.SelectedTheme.Pill() + " pill speaks")

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(pillColor(s.SelectedTheme)).
		Padding(1, 2)

	return card.Render(heading + "\n\n" + s.FortuneText)
}
