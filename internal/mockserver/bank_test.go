package mockserver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultBank(t *testing.T) {
	bank, err := DefaultBank()
	require.NoError(t, err)

	subjects := bank.Subjects()
	require.Len(t, subjects, 3)
	assert.Equal(t, "Maths", subjects[0].Subject)
	assert.Equal(t, "Python", subjects[1].Subject)
	assert.Equal(t, "Science", subjects[2].Subject)
	assert.Equal(t, []string{"Algebra", "Arithmetic", "Geometry", "Statistics"}, subjects[0].Topics)

	for _, s := range subjects {
		levels := map[string]int{}
		for _, q := range bank.ForSubject(s.Subject) {
			levels[q.Difficulty]++
		}
		assert.Len(t, levels, 3, "%s should cover every difficulty", s.Subject)
	}

	assert.Len(t, bank.ForSubject("  MATHS "), 12)
	q, ok := bank.Get("m-alg-1")
	require.True(t, ok)
	assert.Equal(t, "5", q.Option("A"))
	assert.Empty(t, q.Option("E"))
	assert.Empty(t, q.Option(""))
}

func TestParseBank_Rejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"not yaml", "questions: [\n"},
		{"three options", `questions: [{id: a, subject: S, difficulty: easy, question: q, options: [x, y, z], answer: A}]`},
		{"bad answer", `questions: [{id: a, subject: S, difficulty: easy, question: q, options: [w, x, y, z], answer: E}]`},
		{"bad difficulty", `questions: [{id: a, subject: S, difficulty: extreme, question: q, options: [w, x, y, z], answer: A}]`},
		{"duplicate", `questions: [{id: a, subject: S, difficulty: easy, question: q, options: [w, x, y, z], answer: A}, {id: a, subject: S, difficulty: easy, question: q, options: [w, x, y, z], answer: b}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBank([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestParseBank_Normalises(t *testing.T) {
	bank, err := ParseBank([]byte(`questions: [{id: a, subject: Art, difficulty: hard, question: q, options: [w, x, y, z], answer: " c "}]`))
	require.NoError(t, err)
	q, _ := bank.Get("a")
	assert.Equal(t, "C", q.Answer)
	assert.Equal(t, "General", q.Topic)
}

func TestBKT(t *testing.T) {
	bkt := DefaultBKT()

	up := bkt.Update(0.5, true)
	down := bkt.Update(0.5, false)
	assert.Greater(t, up, 0.5)
	assert.Less(t, down, up)

	m := bkt.PInit
	for range 20 {
		m = bkt.Update(m, true)
	}
	assert.LessOrEqual(t, m, 1.0)
	assert.Greater(t, m, 0.9)

	assert.Equal(t, Easy, bkt.Difficulty(0.29))
	assert.Equal(t, Medium, bkt.Difficulty(0.3))
	assert.Equal(t, Medium, bkt.Difficulty(0.59))
	assert.Equal(t, Hard, bkt.Difficulty(0.6))
}
