package session

import (
	"errors"
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizpath/internal/feedback"
	"github.com/abhisek/quizpath/internal/gateway"
	sess "github.com/abhisek/quizpath/internal/session"
	"github.com/abhisek/quizpath/internal/ui/components"
	"github.com/abhisek/quizpath/internal/ui/layout"
	"github.com/abhisek/quizpath/internal/ui/theme"
)

func (s *SessionScreen) View(width, height int) string {
	st := s.state
	switch {
	case s.confirmQuit:
		return renderQuitConfirm(width, len(st.Attempts))
	case st.Status == sess.StatusFailed:
		return s.renderFailure(width)
	case st.Question == nil:
		label := "Starting quiz..."
		if st.SessionID != "" {
			label = "Loading question..."
		}
		return layout.Message(s.spin.View()+" "+label, theme.TextDim, width)
	case st.Status == sess.StatusShowingFeedback:
		return s.renderQuestion(width) + s.renderFeedback(width)
	default:
		return s.renderQuestion(width)
	}
}

// renderQuestion renders the info line, the question and its options.
func (s *SessionScreen) renderQuestion(width int) string {
	st := s.state
	q := st.Question

	var b strings.Builder

	infoLeft := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render("  Topic: " + q.Topic)
	if q.Difficulty != "" {
		infoLeft += "  " + lipgloss.NewStyle().
			Foreground(theme.DifficultyColor(q.Difficulty)).
			Render("["+q.Difficulty+"]")
	}
	infoRight := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("Q %d/%d  %s %d",
			st.QuestionNumber(), st.Target,
			lipgloss.NewStyle().Foreground(theme.Success).Render("✓"),
			st.CorrectCount(),
		))

	infoLine := infoLeft
	if pad := width - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight) - 4; pad > 0 {
		infoLine += strings.Repeat(" ", pad) + infoRight
	}
	b.WriteString(infoLine)
	b.WriteString("\n")

	bar := components.ProgressBar{
		Percent: sess.AccuracyPercent(len(st.Attempts), st.Target),
		Width:   max(10, width-4),
	}
	b.WriteString("  " + bar.View())
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(min(width-4, 76)).
		Foreground(theme.Text).
		Bold(true).
		Render(q.Text))
	b.WriteString("\n\n")
	b.WriteString(s.choice.View())

	if s.waiting && st.Status == sess.StatusAwaitingAnswer {
		b.WriteString("\n" + theme.Muted.Render(s.spin.View()+" Checking answer..."))
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, b.String())
}

// renderFeedback renders the verdict, the explanation and the mastery
// change below the graded options.
func (s *SessionScreen) renderFeedback(width int) string {
	a, ok := s.state.LastAttempt()
	if !ok {
		return ""
	}
	v := feedback.Present(a.Question, a)

	var b strings.Builder
	b.WriteString("\n")

	verdict := theme.Incorrect
	if v.IsCorrect {
		verdict = theme.Correct
	}
	b.WriteString(layout.Centered(verdict.Render(v.Headline()), width))
	b.WriteString("\n\n")

	if v.Explanation != "" {
		exp := lipgloss.NewStyle().
			Width(min(width-8, 70)).
			Foreground(theme.Text).
			Render(v.Explanation)
		b.WriteString(layout.Centered(exp, width))
		b.WriteString("\n\n")
	}

	tier := lipgloss.NewStyle().Foreground(theme.TierColor(v.MasteryTier)).Bold(true)
	line := fmt.Sprintf("Mastery: %d%% %s", v.MasteryPercent, tier.Render(string(v.MasteryTier)))
	if v.HasDelta {
		delta := lipgloss.NewStyle().Foreground(theme.TextDim)
		switch {
		case v.MasteryDelta > 0:
			delta = delta.Foreground(theme.Success)
		case v.MasteryDelta < 0:
			delta = delta.Foreground(theme.Error)
		}
		line += "  " + delta.Render(fmt.Sprintf("(%+d)", v.MasteryDelta))
	}
	b.WriteString(layout.Centered(line, width))
	b.WriteString("\n")

	if s.waiting {
		b.WriteString("\n" + layout.Centered(theme.Muted.Render(s.spin.View()+" Loading..."), width))
	}
	return b.String()
}

// renderFailure explains which request failed and offers a retry.
func (s *SessionScreen) renderFailure(width int) string {
	st := s.state
	var b strings.Builder
	b.WriteString("\n\n")
	b.WriteString(layout.Centered(theme.Incorrect.Render("Could not reach the quiz server"), width))
	b.WriteString("\n\n")

	detail := "Request failed"
	var te *gateway.TransportError
	if errors.As(st.Err, &te) {
		detail = te.Error()
	} else if st.Err != nil {
		detail = st.Err.Error()
	}
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("%s (%s)", detail, st.FailedOp)))
	b.WriteString("\n\n")

	if s.waiting {
		b.WriteString(layout.Centered(s.spin.View()+" Retrying...", width))
	} else {
		b.WriteString(layout.Centered(theme.Hint.Render("Press R to retry. Your answers so far are kept."), width))
	}
	return b.String()
}

func renderQuitConfirm(width, answered int) string {
	var b strings.Builder
	b.WriteString("\n\n")
	b.WriteString(layout.Centered(theme.Title.Render("Finish this quiz now?"), width))
	b.WriteString("\n\n")
	b.WriteString(layout.Centered(theme.Muted.Render(
		fmt.Sprintf("You have answered %d question(s). They will be scored.", answered)), width))
	b.WriteString("\n\n")
	b.WriteString(layout.Centered(theme.Body.Render("Y  finish and see results     N  keep going"), width))
	return b.String()
}
