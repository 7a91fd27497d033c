// Package welcome is the splash screen. While the banner animates it
// checks that the quiz backend answers.
package welcome

import (
	"context"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizpath/internal/gateway"
	"github.com/abhisek/quizpath/internal/router"
	"github.com/abhisek/quizpath/internal/screen"
	"github.com/abhisek/quizpath/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	phase1End    = 500 * time.Millisecond
	totalDur     = 1500 * time.Millisecond
	probeTimeout = 3 * time.Second
)

var sparkleFrames = []string{"★", "✦"}

type tickMsg time.Time

type probeMsg struct {
	Subjects int
	Err      error
}

// WelcomeScreen shows the banner and the backend status before handing
// over to the home screen.
type WelcomeScreen struct {
	homeFactory  func() screen.Screen
	gw           gateway.Gateway
	backend      string
	elapsed      time.Duration
	tickCount    int
	probed       bool
	probe        probeMsg
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that will transition to the screen
// produced by homeFactory. gw may be nil, which skips the backend check.
func New(homeFactory func() screen.Screen, gw gateway.Gateway, backend string) *WelcomeScreen {
	return &WelcomeScreen{
		homeFactory: homeFactory,
		gw:          gw,
		backend:     backend,
	}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tea.Batch(tick(), w.checkBackend())
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) checkBackend() tea.Cmd {
	if w.gw == nil {
		return nil
	}
	gw := w.gw
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
		defer cancel()
		subjects, err := gw.ListSubjects(ctx)
		return probeMsg{Subjects: len(subjects), Err: err}
	}
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if w.elapsed < totalDur {
			w.elapsed += tickInterval
		}
		w.tickCount++
		return w, tick()

	case probeMsg:
		w.probed = true
		w.probe = msg
		return w, nil

	case tea.KeyPressMsg:
		// Any key skips the animation.
		return w, w.transition()
	}

	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	return router.Replace(w.homeFactory())
}

func (w *WelcomeScreen) View(width, height int) string {
	var sections []string

	banner := RenderBanner(width)
	if w.elapsed >= phase1End {
		sparkle := sparkleFrames[w.tickCount%len(sparkleFrames)]
		s1 := lipgloss.NewStyle().Foreground(theme.Accent).Render(sparkle)
		s2 := lipgloss.NewStyle().Foreground(theme.Secondary).Render(sparkle)
		lines := strings.Split(banner, "\n")
		last := len(lines) - 1
		lines[last] = lines[last] + "  " + s1 + " " + s2
		banner = strings.Join(lines, "\n")
	}
	sections = append(sections, banner, "")

	tagline := lipgloss.NewStyle().
		Foreground(theme.Text).
		Bold(true).
		Render("Adaptive quizzes that meet you where you are")
	sections = append(sections, tagline, "", w.statusLine())

	if w.elapsed >= totalDur {
		hint := lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Italic(true).
			Render("press any key to continue")
		sections = append(sections, "", hint)
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, sections...))
}

func (w *WelcomeScreen) statusLine() string {
	switch {
	case w.gw == nil:
		return ""
	case !w.probed:
		return theme.Muted.Render("Connecting to " + w.backend + "...")
	case w.probe.Err != nil:
		return lipgloss.NewStyle().Foreground(theme.Warning).
			Render("Quiz server at " + w.backend + " is not answering. Try quizpath serve-mock.")
	default:
		return lipgloss.NewStyle().Foreground(theme.Success).
			Render("Connected to " + w.backend)
	}
}
