package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizpath/internal/ui/theme"
)

// Tabs renders a row of labels with the active one highlighted.
func Tabs(labels []string, active int) string {
	on := lipgloss.NewStyle().
		Foreground(theme.BgDark).
		Background(theme.Secondary).
		Bold(true).
		Padding(0, 2)
	off := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Padding(0, 2)

	parts := make([]string, len(labels))
	for i, l := range labels {
		if i == active {
			parts[i] = on.Render(l)
		} else {
			parts[i] = off.Render(l)
		}
	}
	return strings.Join(parts, " ")
}
