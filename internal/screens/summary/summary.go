// Package summary shows the results of a finished quiz.
package summary

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizpath/internal/mastery"
	"github.com/abhisek/quizpath/internal/router"
	"github.com/abhisek/quizpath/internal/screen"
	"github.com/abhisek/quizpath/internal/screens/path"
	"github.com/abhisek/quizpath/internal/session"
	"github.com/abhisek/quizpath/internal/ui/components"
	"github.com/abhisek/quizpath/internal/ui/layout"
	"github.com/abhisek/quizpath/internal/ui/theme"
)

type summaryLoadedMsg struct {
	Summary *session.Summary
	Err     error
}

// SummaryScreen displays the results of a completed session.
type SummaryScreen struct {
	deps    screen.Deps
	state   session.State
	summary *session.Summary
	loaded  bool
	pathErr error
	buttons components.ButtonRow
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a results screen for a completed session. retake builds the
// screen for a fresh quiz on the same subject.
func New(deps screen.Deps, st session.State, retake func() screen.Screen) *SummaryScreen {
	s := &SummaryScreen{
		deps:    deps,
		state:   st,
		summary: session.Summarize(st, nil),
	}
	s.buttons = components.NewButtonRow(
		components.Button{Label: "Retake quiz", OnPress: func() tea.Cmd {
			return router.Replace(retake())
		}},
		components.Button{Label: "Learning path", OnPress: func() tea.Cmd {
			return router.Push(path.New(deps, st.Subject))
		}},
		components.Button{Label: "Home", OnPress: func() tea.Cmd {
			return func() tea.Msg { return router.PopToRootMsg{} }
		}},
	)
	return s
}

// Init fetches the learning path and records the quiz locally.
func (s *SummaryScreen) Init() tea.Cmd {
	deps, st := s.deps, s.state
	return func() tea.Msg {
		ctx := context.Background()
		z := session.NewSummarizer(deps.Gateway, deps.Repo, deps.Log())
		sum, err := z.Load(ctx, st)
		_ = z.Record(ctx, sum)
		return summaryLoadedMsg{Summary: sum, Err: err}
	}
}

func (s *SummaryScreen) Title() string {
	return "Results"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "←→", Description: "Choose"},
		{Key: "Enter", Description: "Select"},
		{Key: "Esc", Description: "Back"},
	}
}

// Summary returns the summary currently displayed.
func (s *SummaryScreen) Summary() *session.Summary {
	return s.summary
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case summaryLoadedMsg:
		s.loaded = true
		s.pathErr = msg.Err
		if msg.Summary != nil {
			s.summary = msg.Summary
		}
		return s, nil

	case tea.KeyMsg:
		var cmd tea.Cmd
		s.buttons, cmd = s.buttons.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Bold(true).
		Render(sum.Subject + " quiz complete!"))
	b.WriteString("\n\n")

	if sum.TotalAnswered == 0 {
		b.WriteString(layout.Centered(theme.Muted.Render("No questions were answered, so there is nothing to score."), width))
		b.WriteString("\n\n")
		b.WriteString(layout.Centered(s.buttons.View(), width))
		return b.String()
	}

	statsLine := fmt.Sprintf("Questions: %d        Correct: %d        Accuracy: %d%%        Time: %s",
		sum.TotalAnswered, sum.CorrectCount, sum.AccuracyPercent, formatDuration(sum.TotalTime))
	b.WriteString(layout.Centered(theme.Body.Render(statsLine), width))
	b.WriteString("\n")
	if sum.Message != "" {
		b.WriteString(layout.Centered(theme.Muted.Render(sum.Message), width))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
		strings.Repeat("─", max(0, min(width-8, 70))))

	b.WriteString(section("Questions", divider, width))
	for _, q := range sum.Questions {
		mark := theme.Correct.Render("✓")
		answer := fmt.Sprintf("you: %s", q.Selected)
		if !q.IsCorrect {
			mark = theme.Incorrect.Render("✗")
			if q.CorrectAnswer != "" {
				answer += fmt.Sprintf("  correct: %s", q.CorrectAnswer)
			}
		}
		line := fmt.Sprintf("%s %2d. %-38s %-14s %s", mark, q.Number, truncate(q.Text, 38), truncate(q.Topic, 14), answer)
		b.WriteString(layout.Centered(theme.Body.Render(line), width))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(section("Recommended topics", divider, width))
	switch {
	case !s.loaded:
		b.WriteString(layout.Centered(theme.Muted.Render("Loading learning path..."), width))
		b.WriteString("\n")
	case s.pathErr != nil:
		b.WriteString(layout.Centered(theme.Muted.Render("Learning path unavailable right now."), width))
		b.WriteString("\n")
	case len(sum.RecommendedTopics) == 0:
		b.WriteString(layout.Centered(theme.Muted.Render("Nothing to review. Nice work!"), width))
		b.WriteString("\n")
	default:
		for _, t := range sum.RecommendedTopics {
			bar := components.ProgressBar{
				Label:       fmt.Sprintf("%-16s %-6s", truncate(t.Topic, 16), t.Priority),
				Percent:     mastery.Percent(t.CurrentMastery),
				ShowPercent: true,
				Width:       min(width-8, 60),
				Color:       theme.TierColor(mastery.Classify(t.CurrentMastery)),
			}
			b.WriteString(layout.Centered(bar.View(), width))
			b.WriteString("\n")
			if t.Recommendation != "" {
				b.WriteString(layout.Centered(theme.Hint.Render(t.Recommendation), width))
				b.WriteString("\n")
			}
		}
	}

	b.WriteString("\n")
	b.WriteString(layout.Centered(s.buttons.View(), width))
	return b.String()
}

func section(title, divider string, width int) string {
	return layout.Centered(theme.Muted.Render(title), width) + "\n" +
		layout.Centered(divider, width) + "\n\n"
}

func formatDuration(d time.Duration) string {
	secs := int(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
