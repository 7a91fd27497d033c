package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizpath/internal/ui/theme"
)

// Button is one action of a ButtonRow.
type Button struct {
	Label   string
	OnPress func() tea.Cmd
}

// ButtonRow is a horizontal row of buttons navigated with left/right.
type ButtonRow struct {
	Buttons  []Button
	Selected int
}

func NewButtonRow(buttons ...Button) ButtonRow {
	return ButtonRow{Buttons: buttons}
}

func (r ButtonRow) Update(msg tea.Msg) (ButtonRow, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || len(r.Buttons) == 0 {
		return r, nil
	}
	switch kmsg.String() {
	case "left", "h", "shift+tab":
		r.Selected = (r.Selected + len(r.Buttons) - 1) % len(r.Buttons)
	case "right", "l", "tab":
		r.Selected = (r.Selected + 1) % len(r.Buttons)
	case "enter":
		if b := r.Buttons[r.Selected]; b.OnPress != nil {
			return r, b.OnPress()
		}
	}
	return r, nil
}

var (
	buttonActive = lipgloss.NewStyle().
			Background(theme.Primary).
			Foreground(theme.Text).
			Bold(true).
			Padding(0, 2)

	buttonInactive = lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Background(theme.BgCard).
			Padding(0, 2)
)

func (r ButtonRow) View() string {
	parts := make([]string, len(r.Buttons))
	for i, b := range r.Buttons {
		if i == r.Selected {
			parts[i] = buttonActive.Render("▸ " + b.Label)
		} else {
			parts[i] = buttonInactive.Render(b.Label)
		}
	}
	return strings.Join(parts, "  ")
}
