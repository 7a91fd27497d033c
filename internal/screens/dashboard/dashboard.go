// Package dashboard is the per-subject analytics screen.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizpath/internal/analytics"
	"github.com/abhisek/quizpath/internal/gateway"
	"github.com/abhisek/quizpath/internal/router"
	"github.com/abhisek/quizpath/internal/screen"
	quizscreen "github.com/abhisek/quizpath/internal/screens/session"
	"github.com/abhisek/quizpath/internal/ui/components"
	"github.com/abhisek/quizpath/internal/ui/layout"
	"github.com/abhisek/quizpath/internal/ui/theme"
)

type panelLoadedMsg struct {
	Subject string
	Panel   analytics.Panel
	Err     error
}

// DashboardScreen shows one analytics panel per subject tab.
type DashboardScreen struct {
	deps     screen.Deps
	vm       *analytics.ViewModel
	subjects []string
	active   int
	errs     map[string]error
}

var _ screen.Screen = (*DashboardScreen)(nil)
var _ screen.KeyHintProvider = (*DashboardScreen)(nil)

// New creates the dashboard with subject preselected.
func New(deps screen.Deps, subject string) *DashboardScreen {
	vm := deps.Analytics
	if vm == nil {
		vm = analytics.NewViewModel(deps.Gateway, deps.Log())
	}
	s := &DashboardScreen{
		deps:     deps,
		vm:       vm,
		subjects: gateway.DefaultSubjects(),
		errs:     make(map[string]error),
	}
	for i, sub := range s.subjects {
		if sub == gateway.CanonicalSubject(subject) {
			s.active = i
		}
	}
	return s
}

func (s *DashboardScreen) Init() tea.Cmd {
	return s.selectTab(s.active)
}

func (s *DashboardScreen) Title() string {
	return "Analytics"
}

func (s *DashboardScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "←→", Description: "Subject"}}
	if p, ok := s.vm.Cached(s.current()); ok && p.Empty {
		hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Take a quiz"})
	}
	if _, failed := s.errs[s.current()]; failed {
		hints = append(hints, layout.KeyHint{Key: "R", Description: "Retry"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}

func (s *DashboardScreen) current() string {
	return s.subjects[s.active]
}

// selectTab switches tabs. Panels already loaded are shown without a new
// request.
func (s *DashboardScreen) selectTab(i int) tea.Cmd {
	n := len(s.subjects)
	s.active = (i + n) % n
	sub := s.current()
	if _, ok := s.vm.Cached(sub); ok {
		return nil
	}
	delete(s.errs, sub)
	vm := s.vm
	return func() tea.Msg {
		p, err := vm.Select(context.Background(), sub)
		if errors.Is(err, analytics.ErrNoData) {
			err = nil
		}
		return panelLoadedMsg{Subject: sub, Panel: p, Err: err}
	}
}

func (s *DashboardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case panelLoadedMsg:
		if msg.Err != nil {
			s.errs[msg.Subject] = msg.Err
		}
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "left", "h":
			return s, s.selectTab(s.active - 1)
		case "right", "l", "tab":
			return s, s.selectTab(s.active + 1)
		case "r":
			if _, failed := s.errs[s.current()]; failed {
				return s, s.selectTab(s.active)
			}
		case "enter":
			if p, ok := s.vm.Cached(s.current()); ok && p.Empty {
				return s, router.Push(quizscreen.New(s.deps, s.current()))
			}
		}
	}
	return s, nil
}

func (s *DashboardScreen) View(width, height int) string {
	sub := s.current()

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(layout.Centered(components.Tabs(s.subjects, s.active), width))
	b.WriteString("\n\n")

	if err, ok := s.errs[sub]; ok {
		b.WriteString(layout.Message("Could not load analytics: "+err.Error()+"\nPress R to retry.", theme.Error, width))
		return b.String()
	}
	p, ok := s.vm.Cached(sub)
	if !ok {
		b.WriteString(layout.Message("Loading "+sub+" analytics...", theme.TextDim, width))
		return b.String()
	}
	if p.Empty {
		b.WriteString(layout.Centered(theme.Body.Render(
			fmt.Sprintf("No %s quizzes yet.", sub)), width))
		b.WriteString("\n\n")
		b.WriteString(layout.Centered(theme.Selected.Render("Press Enter to take your first quiz"), width))
		return b.String()
	}
	b.WriteString(renderPanel(p, width, layout.IsCompactHeight(height)))
	return b.String()
}

// renderPanel draws one subject. Compact terminals get a shorter history.
func renderPanel(p analytics.Panel, width int, compact bool) string {
	var b strings.Builder
	barWidth := min(width-8, 60)

	stats := fmt.Sprintf("Questions: %d      Correct: %d      Accuracy: %d%%",
		p.TotalQuestions, p.CorrectAnswers, p.AccuracyPercent)
	b.WriteString(layout.Centered(theme.Body.Render(stats), width))
	b.WriteString("\n\n")

	tier := lipgloss.NewStyle().Foreground(theme.TierColor(p.Tier)).Bold(true).Render(string(p.Tier))
	bar := components.ProgressBar{
		Label:       "Mastery",
		Percent:     p.MasteryPercent,
		ShowPercent: true,
		Width:       barWidth - lipgloss.Width(tier) - 2,
		Color:       theme.TierColor(p.Tier),
	}
	b.WriteString(layout.Centered(bar.View()+"  "+tier, width))
	b.WriteString("\n\n")

	if len(p.Growth) > 0 {
		b.WriteString(layout.Centered(theme.Subtitle.Render("Accuracy over time"), width))
		b.WriteString("\n")
		b.WriteString(layout.Centered(lipgloss.NewStyle().Foreground(theme.Secondary).Render(Sparkline(p.Growth, barWidth)), width))
		b.WriteString("\n\n")
	}

	if len(p.Topics) > 0 {
		b.WriteString(layout.Centered(theme.Subtitle.Render("Topics"), width))
		b.WriteString("\n")
		for _, t := range p.Topics {
			tb := components.ProgressBar{
				Label:       fmt.Sprintf("%-16s %2d/%-2d", truncate(t.Topic, 16), t.Correct, t.Answered),
				Percent:     t.AccuracyPercent,
				ShowPercent: true,
				Width:       barWidth,
				Color:       accuracyColor(t.AccuracyPercent),
			}
			b.WriteString(layout.Centered(tb.View(), width))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if n := len(p.History); n > 0 {
		b.WriteString(layout.Centered(theme.Subtitle.Render("Recent questions"), width))
		b.WriteString("\n")
		recent := 5
		if compact {
			recent = 2
		}
		for _, h := range p.History[max(0, n-recent):] {
			mark := theme.Correct.Render("✓")
			if !h.IsCorrect {
				mark = theme.Incorrect.Render("✗")
			}
			diff := lipgloss.NewStyle().Foreground(theme.DifficultyColor(h.Difficulty)).Render(fmt.Sprintf("%-6s", h.Difficulty))
			line := fmt.Sprintf("%s %s %-14s %s", mark, diff, truncate(h.Topic, 14), truncate(h.Question, 40))
			if layout.IsCompactWidth(width) {
				line = fmt.Sprintf("%s %s %s", mark, diff, truncate(h.Question, max(10, width-14)))
			}
			b.WriteString(layout.Centered(line, width))
			b.WriteString("\n")
		}
	}
	return b.String()
}

var sparkLevels = []rune("▁▂▃▄▅▆▇█")

// Sparkline renders running accuracy as block characters, keeping the
// most recent points when there are more than width.
func Sparkline(points []gateway.GrowthPoint, width int) string {
	if width <= 0 {
		return ""
	}
	if len(points) > width {
		points = points[len(points)-width:]
	}
	var b strings.Builder
	for _, p := range points {
		acc := min(100, max(0, p.Accuracy))
		i := int(acc / 100 * float64(len(sparkLevels)-1))
		b.WriteRune(sparkLevels[i])
	}
	return b.String()
}

func accuracyColor(pct int) color.Color {
	switch {
	case pct >= 70:
		return theme.Success
	case pct >= 40:
		return theme.Warning
	default:
		return theme.Error
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
