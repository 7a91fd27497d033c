package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
)

// FilterInput is a one-line text box used to narrow a list.
type FilterInput struct {
	Model textinput.Model
}

// NewFilterInput creates a focused filter input.
func NewFilterInput(placeholder string, limit int) FilterInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "/ "
	if limit > 0 {
		ti.CharLimit = limit
	}
	ti.Focus()
	return FilterInput{Model: ti}
}

// Init starts the cursor blink.
func (f FilterInput) Init() tea.Cmd {
	return textinput.Blink
}

func (f FilterInput) Update(msg tea.Msg) (FilterInput, tea.Cmd) {
	var cmd tea.Cmd
	f.Model, cmd = f.Model.Update(msg)
	return f, cmd
}

func (f FilterInput) View() string {
	return f.Model.View()
}

// Query is the trimmed, lower-cased input.
func (f FilterInput) Query() string {
	return strings.ToLower(strings.TrimSpace(f.Model.Value()))
}

// Matches reports whether s contains the query. An empty query matches
// everything.
func (f FilterInput) Matches(s string) bool {
	q := f.Query()
	return q == "" || strings.Contains(strings.ToLower(s), q)
}
