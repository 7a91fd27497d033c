package app

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizpath/internal/gateway/gatewaytest"
	"github.com/abhisek/quizpath/internal/router"
	"github.com/abhisek/quizpath/internal/screen"
)

type backScreen struct {
	intercept bool
	asked     int
	disposed  bool
}

func (s *backScreen) Init() tea.Cmd                           { return nil }
func (s *backScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *backScreen) View(int, int) string                    { return "back screen" }
func (s *backScreen) Title() string                           { return "Back" }
func (s *backScreen) Dispose()                                { s.disposed = true }
func (s *backScreen) InterceptBack() bool {
	s.asked++
	return s.intercept
}

func newTestModel(initial *backScreen) AppModel {
	deps := screen.Deps{Gateway: &gatewaytest.Fake{}, Backend: "127.0.0.1:8000"}
	return NewAppModel(deps, Options{Initial: func(screen.Deps) screen.Screen { return initial }})
}

func TestEscRespectsInterceptor(t *testing.T) {
	s := &backScreen{intercept: true}
	m := newTestModel(s)
	require.Equal(t, 2, m.router.Depth())

	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	assert.Nil(t, cmd)
	assert.Equal(t, 1, s.asked)

	s.intercept = false
	_, cmd = m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	require.NotNil(t, cmd)
	msg := cmd()
	_, ok := msg.(router.PopScreenMsg)
	require.True(t, ok)

	m.Update(msg)
	assert.Equal(t, 1, m.router.Depth())
	assert.True(t, s.disposed)
}

func TestViewShowsBackendInHeader(t *testing.T) {
	m := newTestModel(&backScreen{})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	view := updated.(AppModel).render()
	assert.Contains(t, view, "127.0.0.1:8000")
	assert.Contains(t, view, "back screen")
}

func TestWelcomeIsRootByDefault(t *testing.T) {
	m := NewAppModel(screen.Deps{Gateway: &gatewaytest.Fake{}}, Options{})
	assert.Equal(t, 1, m.router.Depth())
	assert.Equal(t, "", m.router.Active().Title())

	m = NewAppModel(screen.Deps{Gateway: &gatewaytest.Fake{}}, Options{SkipWelcome: true})
	assert.Equal(t, "Home", m.router.Active().Title())
}
