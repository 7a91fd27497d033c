// Package path is the learning path screen: cross-quiz study advice for
// one subject and the most recent quiz result.
package path

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizpath/internal/analytics"
	"github.com/abhisek/quizpath/internal/gateway"
	"github.com/abhisek/quizpath/internal/mastery"
	"github.com/abhisek/quizpath/internal/screen"
	"github.com/abhisek/quizpath/internal/ui/components"
	"github.com/abhisek/quizpath/internal/ui/layout"
	"github.com/abhisek/quizpath/internal/ui/theme"
)

type pathLoadedMsg struct {
	Subject         string
	Recommendations *gateway.Recommendations
	LastQuiz        *gateway.LastQuiz
	Err             error
}

// PathScreen shows recommendations per subject tab.
type PathScreen struct {
	deps     screen.Deps
	vm       *analytics.ViewModel
	subjects []string
	active   int

	recs     map[string]*gateway.Recommendations
	errs     map[string]error
	lastQuiz *gateway.LastQuiz
}

var _ screen.Screen = (*PathScreen)(nil)
var _ screen.KeyHintProvider = (*PathScreen)(nil)

// New creates the screen with subject preselected. An empty subject
// selects the first tab.
func New(deps screen.Deps, subject string) *PathScreen {
	vm := deps.Analytics
	if vm == nil {
		vm = analytics.NewViewModel(deps.Gateway, deps.Log())
	}
	s := &PathScreen{
		deps:     deps,
		vm:       vm,
		subjects: gateway.DefaultSubjects(),
		recs:     make(map[string]*gateway.Recommendations),
		errs:     make(map[string]error),
	}
	if subject != "" {
		c := gateway.CanonicalSubject(subject)
		s.active = -1
		for i, sub := range s.subjects {
			if sub == c {
				s.active = i
			}
		}
		if s.active < 0 {
			s.subjects = append(s.subjects, c)
			s.active = len(s.subjects) - 1
		}
	}
	return s
}

func (s *PathScreen) Init() tea.Cmd {
	return tea.Batch(s.load(s.subjects[s.active]), s.loadLastQuiz())
}

func (s *PathScreen) load(subject string) tea.Cmd {
	vm := s.vm
	return func() tea.Msg {
		r, err := vm.Recommendations(context.Background(), subject)
		return pathLoadedMsg{Subject: subject, Recommendations: r, Err: err}
	}
}

func (s *PathScreen) loadLastQuiz() tea.Cmd {
	gw := s.deps.Gateway
	return func() tea.Msg {
		lq, err := gw.LastQuiz(context.Background())
		if err != nil {
			// The last-quiz card is optional; leave it out.
			return nil
		}
		return pathLoadedMsg{LastQuiz: lq}
	}
}

func (s *PathScreen) Title() string {
	return "Learning Path"
}

func (s *PathScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "←→", Description: "Subject"},
		{Key: "R", Description: "Reload"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *PathScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case pathLoadedMsg:
		if msg.LastQuiz != nil {
			s.lastQuiz = msg.LastQuiz
		}
		if msg.Subject != "" {
			if msg.Err != nil {
				s.errs[msg.Subject] = msg.Err
			} else {
				delete(s.errs, msg.Subject)
				s.recs[msg.Subject] = msg.Recommendations
			}
		}
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "left", "h":
			return s, s.selectTab(s.active - 1)
		case "right", "l", "tab":
			return s, s.selectTab(s.active + 1)
		case "r":
			sub := s.subjects[s.active]
			if _, failed := s.errs[sub]; failed {
				delete(s.errs, sub)
				return s, s.load(sub)
			}
		}
	}
	return s, nil
}

func (s *PathScreen) selectTab(i int) tea.Cmd {
	n := len(s.subjects)
	s.active = (i + n) % n
	sub := s.subjects[s.active]
	if _, ok := s.recs[sub]; ok {
		return nil
	}
	return s.load(sub)
}

func (s *PathScreen) View(width, height int) string {
	sub := s.subjects[s.active]

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(layout.Centered(components.Tabs(s.subjects, s.active), width))
	b.WriteString("\n\n")

	if lq := s.lastQuiz; lq != nil && lq.HasData {
		line := fmt.Sprintf("Last quiz: %s  %d/%d correct  %.0f%%",
			lq.Subject, lq.CorrectAnswers, lq.TotalQuestions, lq.Accuracy)
		b.WriteString(layout.Centered(theme.Muted.Render(line), width))
		b.WriteString("\n\n")
	}

	if err, ok := s.errs[sub]; ok {
		b.WriteString(layout.Message("Could not load recommendations: "+err.Error()+"\nPress R to retry.", theme.Error, width))
		return b.String()
	}
	r, ok := s.recs[sub]
	if !ok {
		b.WriteString(layout.Message("Loading recommendations...", theme.TextDim, width))
		return b.String()
	}
	if !r.HasData {
		b.WriteString(layout.Centered(theme.Hint.Render(
			fmt.Sprintf("Take a %s quiz to get a personal learning path.", sub)), width))
		b.WriteString("\n\n")
		b.WriteString(renderResources(r.LearningResources, width))
		return b.String()
	}

	b.WriteString(layout.Centered(theme.Muted.Render(
		fmt.Sprintf("%d quizzes  %d questions", r.TotalQuizzes, r.TotalQuestions)), width))
	b.WriteString("\n\n")

	if len(r.WeakAreas) > 0 {
		b.WriteString(layout.Centered(theme.Subtitle.Render("Focus areas"), width))
		b.WriteString("\n")
		for _, w := range r.WeakAreas {
			bar := components.ProgressBar{
				Label:       fmt.Sprintf("%-16s", w.Topic),
				Percent:     mastery.Percent(w.Mastery),
				ShowPercent: true,
				Width:       min(width-8, 60),
				Color:       theme.TierColor(mastery.Classify(w.Mastery)),
			}
			b.WriteString(layout.Centered(bar.View(), width))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if r.AIRecommendations != "" {
		advice := lipgloss.NewStyle().
			Width(min(width-8, 70)).
			Foreground(theme.Text).
			Render(r.AIRecommendations)
		b.WriteString(layout.Centered(theme.Card.Render(advice), width))
		b.WriteString("\n\n")
	}

	b.WriteString(renderResources(r.LearningResources, width))
	return b.String()
}

func renderResources(resources []gateway.Resource, width int) string {
	if len(resources) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(layout.Centered(theme.Subtitle.Render("Resources"), width))
	b.WriteString("\n")
	for _, res := range resources {
		line := theme.Body.Render(res.Title) + "  " + theme.Muted.Render(res.URL)
		b.WriteString(layout.Centered(line, width))
		b.WriteString("\n")
	}
	return b.String()
}
