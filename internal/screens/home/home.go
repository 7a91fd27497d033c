// Package home is the main menu.
package home

import (
	"context"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizpath/internal/gateway"
	"github.com/abhisek/quizpath/internal/router"
	"github.com/abhisek/quizpath/internal/screen"
	"github.com/abhisek/quizpath/internal/screens/dashboard"
	"github.com/abhisek/quizpath/internal/screens/history"
	"github.com/abhisek/quizpath/internal/screens/path"
	"github.com/abhisek/quizpath/internal/screens/subjects"
	"github.com/abhisek/quizpath/internal/ui/components"
)

type statsMsg struct {
	LastQuiz     *gateway.LastQuiz
	LocalQuizzes int
}

// HomeScreen is the main home screen of the application.
type HomeScreen struct {
	deps         screen.Deps
	menu         components.Menu
	lastQuiz     *gateway.LastQuiz
	localQuizzes int
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(deps screen.Deps) *HomeScreen {
	items := []components.MenuItem{
		{Label: "Start a quiz", Hint: "pick a subject", Action: func() tea.Cmd {
			return router.Push(subjects.New(deps))
		}},
		{Label: "Analytics", Hint: "progress per subject", Action: func() tea.Cmd {
			return router.Push(dashboard.New(deps, ""))
		}},
		{Label: "Learning path", Hint: "what to study next", Action: func() tea.Cmd {
			return router.Push(path.New(deps, ""))
		}},
		{Label: "History", Hint: "quizzes on this machine", Disabled: deps.Repo == nil, Action: func() tea.Cmd {
			return router.Push(history.New(deps.Repo))
		}},
		{Label: "Quit", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}
	return &HomeScreen{deps: deps, menu: components.NewMenu(items)}
}

// Init loads the stats bar. Failures leave it at its defaults.
func (h *HomeScreen) Init() tea.Cmd {
	deps := h.deps
	return func() tea.Msg {
		ctx := context.Background()
		var msg statsMsg
		if lq, err := deps.Gateway.LastQuiz(ctx); err == nil {
			msg.LastQuiz = lq
		}
		if deps.Repo != nil {
			if results, err := deps.Repo.RecentQuizResults(ctx, "", 0); err == nil {
				msg.LocalQuizzes = len(results)
			}
		}
		return msg
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if m, ok := msg.(statsMsg); ok {
		h.lastQuiz = m.LastQuiz
		h.localQuizzes = m.LocalQuizzes
		return h, nil
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	cw := contentWidth(width)
	menu := lipgloss.NewStyle().Width(cw).Render(h.menu.View())

	content := lipgloss.JoinVertical(lipgloss.Center,
		renderTitle(cw),
		"",
		renderStatsBar(h.lastQuiz, h.localQuizzes, cw),
		"",
		menu,
	)
	return renderFrame(content, width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
