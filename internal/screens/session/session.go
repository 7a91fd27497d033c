// Package session is the quiz screen. It drives a session.Controller and
// renders its state: the current question, post-answer feedback and the
// failure view with a retry action.
package session

import (
	"context"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/quizpath/internal/feedback"
	"github.com/abhisek/quizpath/internal/router"
	"github.com/abhisek/quizpath/internal/screen"
	"github.com/abhisek/quizpath/internal/screens/summary"
	sess "github.com/abhisek/quizpath/internal/session"
	"github.com/abhisek/quizpath/internal/ui/components"
	"github.com/abhisek/quizpath/internal/ui/layout"
	"github.com/abhisek/quizpath/internal/ui/theme"
)

// SessionScreen implements screen.Screen for one quiz.
type SessionScreen struct {
	deps    screen.Deps
	subject string
	ctrl    *sess.Controller
	logger  *zap.Logger

	state       sess.State
	questionID  string
	choice      components.MultiChoice
	spin        spinner.Model
	waiting     bool
	confirmQuit bool
}

var (
	_ screen.Screen          = (*SessionScreen)(nil)
	_ screen.KeyHintProvider = (*SessionScreen)(nil)
	_ screen.Disposer        = (*SessionScreen)(nil)
	_ screen.BackInterceptor = (*SessionScreen)(nil)
)

// New creates a quiz screen for subject.
func New(deps screen.Deps, subject string) *SessionScreen {
	ctrl := sess.NewController(deps.Gateway, subject, sess.Config{
		TotalQuestions: deps.TotalQuestions,
		Logger:         deps.Log(),
	})
	return &SessionScreen{
		deps:    deps,
		subject: subject,
		ctrl:    ctrl,
		logger:  deps.Log().Named("quiz-screen"),
		state:   ctrl.State(),
		spin: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Secondary)),
		),
	}
}

func (s *SessionScreen) Init() tea.Cmd {
	return s.run(func(ctx context.Context) (sess.State, error) {
		return s.ctrl.Start(ctx, s.subject)
	})
}

func (s *SessionScreen) Title() string {
	if s.state.Subject == "" {
		return "Quiz"
	}
	return s.state.Subject + " Quiz"
}

func (s *SessionScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.confirmQuit:
		return []layout.KeyHint{
			{Key: "Y", Description: "Finish now"},
			{Key: "N", Description: "Keep going"},
		}
	case s.waiting:
		return []layout.KeyHint{{Key: "Esc", Description: "Leave"}}
	}
	switch s.state.Status {
	case sess.StatusAwaitingAnswer:
		return []layout.KeyHint{
			{Key: "A-D", Description: "Pick"},
			{Key: "↑↓", Description: "Move"},
			{Key: "Enter", Description: "Submit"},
			{Key: "Esc", Description: "Quit"},
		}
	case sess.StatusShowingFeedback:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Next"},
			{Key: "Esc", Description: "Quit"},
		}
	case sess.StatusFailed:
		return []layout.KeyHint{
			{Key: "R", Description: "Retry"},
			{Key: "Esc", Description: "Leave"},
		}
	}
	return nil
}

// Dispose detaches the controller so late responses are dropped.
func (s *SessionScreen) Dispose() {
	s.ctrl.Close()
}

// InterceptBack asks for confirmation before leaving a quiz that has
// answers on record. A second Esc dismisses the prompt.
func (s *SessionScreen) InterceptBack() bool {
	if s.confirmQuit {
		s.confirmQuit = false
		return true
	}
	if len(s.state.Attempts) == 0 || s.state.Status == sess.StatusCompleted {
		return false
	}
	s.confirmQuit = true
	return true
}

// State returns the last snapshot received from the controller.
func (s *SessionScreen) State() sess.State {
	return s.state
}

// run issues a controller call off the UI goroutine. Only one call is
// issued at a time.
func (s *SessionScreen) run(op func(ctx context.Context) (sess.State, error)) tea.Cmd {
	if s.waiting {
		return nil
	}
	s.waiting = true
	return tea.Batch(s.spin.Tick, func() tea.Msg {
		st, err := op(context.Background())
		return stateMsg{State: st, Err: err}
	})
}

func (s *SessionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case stateMsg:
		return s.handleState(msg)

	case spinner.TickMsg:
		if !s.waiting {
			return s, nil
		}
		var cmd tea.Cmd
		s.spin, cmd = s.spin.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *SessionScreen) handleState(msg stateMsg) (screen.Screen, tea.Cmd) {
	s.waiting = false
	s.state = msg.State
	if msg.Err != nil {
		s.logger.Debug("controller call failed", zap.Error(msg.Err))
	}

	switch st := s.state; st.Status {
	case sess.StatusCompleted:
		s.confirmQuit = false
		deps, subject := s.deps, s.subject
		return s, router.Replace(summary.New(deps, st, func() screen.Screen {
			return New(deps, subject)
		}))

	case sess.StatusAwaitingAnswer:
		if st.Question != nil && st.Question.ID != s.questionID {
			s.questionID = st.Question.ID
			s.choice = components.NewMultiChoice(st.Question)
		}

	case sess.StatusShowingFeedback:
		if a, ok := st.LastAttempt(); ok {
			s.choice.Graded = feedback.Present(a.Question, a).Options
		}
	}
	return s, nil
}

func (s *SessionScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.confirmQuit {
		switch key {
		case "y", "Y":
			s.confirmQuit = false
			return s, s.run(s.ctrl.Complete)
		case "n", "N":
			s.confirmQuit = false
		}
		return s, nil
	}
	if s.waiting {
		return s, nil
	}

	switch s.state.Status {
	case sess.StatusAwaitingAnswer:
		if key == "enter" {
			label := s.choice.PickedLabel()
			if label == "" {
				return s, nil
			}
			s.state = s.ctrl.SelectOption(label)
			return s, s.run(s.ctrl.Submit)
		}
		before := s.choice.Picked
		s.choice, _ = s.choice.Update(msg)
		if s.choice.Picked != before {
			s.state = s.ctrl.SelectOption(s.choice.Picked)
		}

	case sess.StatusShowingFeedback:
		switch key {
		case "enter", "space", "n":
			return s, s.run(s.ctrl.Advance)
		}

	case sess.StatusFailed:
		if key == "r" || key == "R" {
			return s, s.run(s.ctrl.Retry)
		}
	}
	return s, nil
}
