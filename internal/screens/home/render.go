package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizpath/internal/gateway"
	"github.com/abhisek/quizpath/internal/ui/theme"
)

const titleCompact = "Q · U · I · Z · P · A · T · H"

// contentWidth returns the uniform inner width used for all sections.
func contentWidth(frameWidth int) int {
	// Leave room for the frame border (2) and inner padding (4).
	return min(60, max(20, frameWidth-6))
}

func renderTitle(cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(lipgloss.NewStyle().Foreground(theme.Warning).Bold(true).Render(titleCompact))
}

// renderStatsBar shows the last quiz and the number of quizzes recorded
// on this machine.
func renderStatsBar(last *gateway.LastQuiz, localQuizzes int, cw int) string {
	lastStyle := lipgloss.NewStyle().Foreground(theme.Warning).Bold(true)
	countStyle := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)

	lastText := dim.Render("★ NO QUIZZES YET")
	if last != nil && last.HasData {
		lastText = lastStyle.Render(fmt.Sprintf("★ LAST: %s %d/%d",
			strings.ToUpper(last.Subject), last.CorrectAnswers, last.TotalQuestions))
	}
	stats := lastText + "  " + countStyle.Render(fmt.Sprintf("◆ %d PLAYED", localQuizzes))

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Width(cw-2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}

// renderFrame wraps content in a double-border frame centered in the
// given dimensions.
func renderFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width-2).
		Height(height-2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}
