package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			MarginTop(1).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("7"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	goodScore = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	fairScore = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	poorScore = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// renderScore prints a 0..1 score as a percentage coloured by strength
func renderScore(score float64) string {
	text := fmt.Sprintf("%.1f%%", score*100)
	switch {
	case score >= 0.8:
		return goodScore.Render(text)
	case score >= 0.6:
		return fairScore.Render(text)
	default:
		return poorScore.Render(text)
	}
}
