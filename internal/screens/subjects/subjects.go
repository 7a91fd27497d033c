// Package subjects lets the learner pick the subject for a new quiz.
package subjects

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/quizpath/internal/gateway"
	"github.com/abhisek/quizpath/internal/router"
	"github.com/abhisek/quizpath/internal/screen"
	quizscreen "github.com/abhisek/quizpath/internal/screens/session"
	"github.com/abhisek/quizpath/internal/ui/components"
	"github.com/abhisek/quizpath/internal/ui/layout"
	"github.com/abhisek/quizpath/internal/ui/theme"
)

type subjectsLoadedMsg struct {
	Subjects []gateway.SubjectSummary
	Err      error
}

// SubjectsScreen lists the backend's subjects with a filter box.
type SubjectsScreen struct {
	deps     screen.Deps
	filter   components.FilterInput
	all      []gateway.SubjectSummary
	selected int
	loaded   bool
	offline  bool
}

var _ screen.Screen = (*SubjectsScreen)(nil)
var _ screen.KeyHintProvider = (*SubjectsScreen)(nil)

// New creates the subject picker.
func New(deps screen.Deps) *SubjectsScreen {
	return &SubjectsScreen{
		deps:   deps,
		filter: components.NewFilterInput("filter subjects", 32),
	}
}

func (s *SubjectsScreen) Init() tea.Cmd {
	gw, logger := s.deps.Gateway, s.deps.Log()
	return tea.Batch(s.filter.Init(), func() tea.Msg {
		subjects, err := gw.ListSubjects(context.Background())
		if err != nil {
			logger.Warn("subject list unavailable, using defaults", zap.Error(err))
		}
		return subjectsLoadedMsg{Subjects: subjects, Err: err}
	})
}

func (s *SubjectsScreen) Title() string {
	return "Choose a Subject"
}

func (s *SubjectsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Type", Description: "Filter"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Start quiz"},
		{Key: "Esc", Description: "Back"},
	}
}

// Visible returns the subjects matching the filter.
func (s *SubjectsScreen) Visible() []gateway.SubjectSummary {
	var out []gateway.SubjectSummary
	for _, sub := range s.all {
		if s.filter.Matches(sub.Subject) || s.matchesTopic(sub) {
			out = append(out, sub)
		}
	}
	return out
}

func (s *SubjectsScreen) matchesTopic(sub gateway.SubjectSummary) bool {
	if s.filter.Query() == "" {
		return false
	}
	for _, t := range sub.Topics {
		if s.filter.Matches(t) {
			return true
		}
	}
	return false
}

func (s *SubjectsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case subjectsLoadedMsg:
		s.loaded = true
		s.all = msg.Subjects
		if msg.Err != nil || len(s.all) == 0 {
			s.offline = msg.Err != nil
			s.all = nil
			for _, name := range gateway.DefaultSubjects() {
				s.all = append(s.all, gateway.SubjectSummary{Subject: name})
			}
		}
		return s, nil

	case tea.KeyMsg:
		visible := s.Visible()
		switch msg.String() {
		case "up":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down":
			if s.selected < len(visible)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			if s.selected < len(visible) {
				return s, router.Push(quizscreen.New(s.deps, visible[s.selected].Subject))
			}
			return s, nil
		}
	}

	var cmd tea.Cmd
	s.filter, cmd = s.filter.Update(msg)
	if n := len(s.Visible()); s.selected >= n {
		s.selected = max(0, n-1)
	}
	return s, cmd
}

func (s *SubjectsScreen) View(width, height int) string {
	if !s.loaded {
		return layout.Message("Loading subjects...", theme.TextDim, width)
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(layout.Centered(s.filter.View(), width))
	b.WriteString("\n\n")

	visible := s.Visible()
	if len(visible) == 0 {
		b.WriteString(layout.Centered(theme.Hint.Render("No subject matches."), width))
		return b.String()
	}

	var list strings.Builder
	for i, sub := range visible {
		prefix := "    "
		style := theme.Unselected
		if i == s.selected {
			prefix = "  ▸ "
			style = theme.Selected
		}
		line := prefix + sub.Subject
		if sub.QuestionCount > 0 {
			line += fmt.Sprintf("  (%d questions)", sub.QuestionCount)
		}
		list.WriteString(style.Render(line))
		list.WriteString("\n")
		if i == s.selected && len(sub.Topics) > 0 {
			list.WriteString(theme.Muted.Render("      " + strings.Join(sub.Topics, " · ")))
			list.WriteString("\n")
		}
	}
	b.WriteString(layout.Centered(list.String(), width))

	if s.offline {
		b.WriteString("\n")
		b.WriteString(layout.Centered(theme.Hint.Render("Quiz server unreachable; showing the standard subjects."), width))
	}
	return b.String()
}
