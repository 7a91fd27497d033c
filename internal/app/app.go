// Package app wires the router and screens into the Bubble Tea program.
package app

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/quizpath/internal/router"
	"github.com/abhisek/quizpath/internal/screen"
	"github.com/abhisek/quizpath/internal/screens/home"
	"github.com/abhisek/quizpath/internal/screens/welcome"
	"github.com/abhisek/quizpath/internal/ui/layout"
)

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router  *router.Router
	init    tea.Cmd
	backend string
	width   int
	height  int
}

// Options selects the first screen.
type Options struct {
	// Initial replaces the welcome screen when set, e.g. to open a quiz
	// directly from the command line.
	Initial func(deps screen.Deps) screen.Screen
	// SkipWelcome opens the home screen without the splash.
	SkipWelcome bool
}

// NewAppModel creates the root model.
func NewAppModel(deps screen.Deps, opts Options) AppModel {
	homeFactory := func() screen.Screen { return home.New(deps) }

	var root screen.Screen
	switch {
	case opts.SkipWelcome || opts.Initial != nil:
		root = homeFactory()
	default:
		root = welcome.New(homeFactory, deps.Gateway, deps.Backend)
	}

	r := router.New(root)
	init := root.Init()
	if opts.Initial != nil {
		init = tea.Batch(init, r.Push(opts.Initial(deps)))
	}
	return AppModel{router: r, init: init, backend: deps.Backend}
}

func (m AppModel) Init() tea.Cmd {
	return m.init
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if bi, ok := m.router.Active().(screen.BackInterceptor); ok && bi.InterceptBack() {
				return m, nil
			}
			if m.router.Depth() > 1 {
				return m, router.Pop()
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

// render draws the header, the active screen and the footer.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	header := layout.RenderHeader(active.Title(), m.backend, m.width)

	var footerHints []layout.KeyHint
	if kp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = kp.KeyHints()
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	} else {
		footerHints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
		}
	}
	footerHints = append(footerHints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
	footer := layout.RenderFooter(footerHints, m.width)

	contentHeight := max(0, m.height-lipgloss.Height(header)-lipgloss.Height(footer))
	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program.
func Run(deps screen.Deps, opts Options) error {
	logger := deps.Log()
	p := tea.NewProgram(NewAppModel(deps, opts))
	if _, err := p.Run(); err != nil {
		logger.Error("program exited with error", zap.Error(err))
		return err
	}
	return nil
}
