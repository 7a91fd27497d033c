package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizpath/internal/feedback"
	"github.com/abhisek/quizpath/internal/gateway"
	"github.com/abhisek/quizpath/internal/ui/theme"
)

// MultiChoice renders the options of a question. Before grading the
// cursor and the current pick are shown; once Graded is set the options
// are colored by their feedback state.
type MultiChoice struct {
	Options []gateway.Option
	Cursor  int
	// Picked is the label chosen by the learner, empty when none.
	Picked string
	Graded []feedback.OptionView
}

// NewMultiChoice creates a selector for q.
func NewMultiChoice(q *gateway.Question) MultiChoice {
	m := MultiChoice{}
	if q != nil {
		m.Options = q.Options
	}
	return m
}

// Update moves the cursor and picks options. Letters A-D and digits 1-4
// pick the matching option directly; space picks the option under the
// cursor. Enter is left to the caller.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.Graded != nil {
		return m, nil
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Options)-1 {
			m.Cursor++
		}
	case "space", " ":
		if m.Cursor < len(m.Options) {
			m.Picked = m.Options[m.Cursor].Label
		}
	default:
		if i, ok := optionIndex(key); ok && i < len(m.Options) {
			m.Cursor = i
			m.Picked = m.Options[i].Label
		}
	}
	return m, nil
}

// optionIndex maps a/A/1 to 0, b/B/2 to 1 and so on.
func optionIndex(key string) (int, bool) {
	if len(key) != 1 {
		return 0, false
	}
	c := key[0]
	switch {
	case c >= 'a' && c <= 'd':
		return int(c - 'a'), true
	case c >= 'A' && c <= 'D':
		return int(c - 'A'), true
	case c >= '1' && c <= '4':
		return int(c - '1'), true
	}
	return 0, false
}

// PickedLabel returns the label that a submit should send: the explicit
// pick, or the option under the cursor.
func (m MultiChoice) PickedLabel() string {
	if m.Picked != "" {
		return m.Picked
	}
	if m.Cursor < len(m.Options) {
		return m.Options[m.Cursor].Label
	}
	return ""
}

func (m MultiChoice) View() string {
	var b strings.Builder
	if m.Graded != nil {
		for _, o := range m.Graded {
			line := fmt.Sprintf("  %s)  %s", o.Label, o.Text)
			switch o.State {
			case feedback.OptionCorrect:
				b.WriteString(theme.Correct.Render(line + "  ✓"))
			case feedback.OptionWrongPick:
				b.WriteString(theme.Incorrect.Render(line + "  ✗"))
			default:
				b.WriteString(theme.Muted.Render(line))
			}
			b.WriteString("\n")
		}
		return b.String()
	}

	picked := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	for i, o := range m.Options {
		prefix := "  "
		if i == m.Cursor {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s)  %s", prefix, o.Label, o.Text)
		switch {
		case o.Label == m.Picked:
			b.WriteString(picked.Render(line + "  ●"))
		case i == m.Cursor:
			b.WriteString(theme.Selected.Render(line))
		default:
			b.WriteString(theme.Unselected.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}
