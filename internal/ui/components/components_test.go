package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizpath/internal/feedback"
	"github.com/abhisek/quizpath/internal/gateway"
)

func testQuestion() *gateway.Question {
	return &gateway.Question{
		ID:   "q1",
		Text: "2+2?",
		Options: []gateway.Option{
			{Label: "A", Text: "3"},
			{Label: "B", Text: "4"},
			{Label: "C", Text: "5"},
		},
	}
}

func TestMultiChoicePicking(t *testing.T) {
	m := NewMultiChoice(testQuestion())
	if got := m.PickedLabel(); got != "A" {
		t.Errorf("PickedLabel = %q, want cursor option A", got)
	}

	m, _ = m.Update(tea.KeyPressMsg{Code: 'b', Text: "b"})
	if m.Picked != "B" || m.Cursor != 1 {
		t.Errorf("after b: picked %q cursor %d", m.Picked, m.Cursor)
	}

	m, _ = m.Update(tea.KeyPressMsg{Code: '3', Text: "3"})
	if m.Picked != "C" {
		t.Errorf("after 3: picked %q, want C", m.Picked)
	}

	// D does not exist on a three-option question.
	m, _ = m.Update(tea.KeyPressMsg{Code: 'd', Text: "d"})
	if m.Picked != "C" {
		t.Errorf("after d: picked %q, want C", m.Picked)
	}

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	m, _ = m.Update(tea.KeyPressMsg{Code: ' '})
	if m.Picked != "B" {
		t.Errorf("after up+space: picked %q, want B", m.Picked)
	}
}

func TestMultiChoiceGradedIgnoresKeys(t *testing.T) {
	m := NewMultiChoice(testQuestion())
	m.Graded = []feedback.OptionView{
		{Label: "A", Text: "3", State: feedback.OptionWrongPick},
		{Label: "B", Text: "4", State: feedback.OptionCorrect},
	}
	m, _ = m.Update(tea.KeyPressMsg{Code: 'c', Text: "c"})
	if m.Picked != "" {
		t.Errorf("graded selector should ignore picks, got %q", m.Picked)
	}
	view := m.View()
	if !strings.Contains(view, "✓") || !strings.Contains(view, "✗") {
		t.Errorf("graded view should mark options: %q", view)
	}
}

func TestMenuSkipsDisabled(t *testing.T) {
	var fired string
	item := func(label string, disabled bool) MenuItem {
		return MenuItem{Label: label, Disabled: disabled, Action: func() tea.Cmd {
			fired = label
			return nil
		}}
	}
	m := NewMenu([]MenuItem{item("one", true), item("two", false), item("three", true), item("four", false)})
	if m.Selected != 1 {
		t.Fatalf("Selected = %d, want first enabled item", m.Selected)
	}

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if m.Selected != 3 {
		t.Errorf("down should skip disabled item, got %d", m.Selected)
	}
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if fired != "four" {
		t.Errorf("enter fired %q, want four", fired)
	}
	m, _ = m.Update(tea.KeyPressMsg{Code: '3', Text: "3"})
	if fired != "four" {
		t.Errorf("number key on disabled item fired %q", fired)
	}
}

func TestProgressBarClamps(t *testing.T) {
	for _, pct := range []int{-10, 0, 50, 100, 150} {
		bar := ProgressBar{Percent: pct, Width: 20}
		if bar.View() == "" {
			t.Errorf("empty bar for %d%%", pct)
		}
	}
}

func TestButtonRowWraps(t *testing.T) {
	pressed := -1
	row := NewButtonRow(
		Button{Label: "one", OnPress: func() tea.Cmd { pressed = 0; return nil }},
		Button{Label: "two", OnPress: func() tea.Cmd { pressed = 1; return nil }},
	)
	row, _ = row.Update(tea.KeyPressMsg{Code: tea.KeyLeft})
	if row.Selected != 1 {
		t.Errorf("left from first should wrap, got %d", row.Selected)
	}
	row.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if pressed != 1 {
		t.Errorf("pressed %d, want 1", pressed)
	}
}

func TestFilterInput(t *testing.T) {
	f := NewFilterInput("filter", 10)
	if !f.Matches("Anything") {
		t.Error("empty filter should match")
	}
	for _, r := range "SCI" {
		f, _ = f.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	if !f.Matches("Science") || f.Matches("Maths") {
		t.Errorf("filter %q matched wrongly", f.Query())
	}
}
