package mockserver

// BKT holds Bayesian Knowledge Tracing parameters. The offline backend
// uses it to produce plausible mastery numbers; it is not tuned.
type BKT struct {
	PInit  float64
	PLearn float64
	PSlip  float64
	PGuess float64
}

func DefaultBKT() BKT {
	return BKT{PInit: 0.1, PLearn: 0.3, PSlip: 0.1, PGuess: 0.25}
}

// Update returns the posterior mastery after one graded answer.
func (b BKT) Update(m float64, correct bool) float64 {
	learned := m*(1-b.PLearn) + (1-m)*b.PLearn

	pKnown, pUnknown := 1-b.PSlip, b.PGuess
	if !correct {
		pKnown, pUnknown = b.PSlip, 1-b.PGuess
	}
	evidence := learned*pKnown + (1-learned)*pUnknown
	if evidence == 0 {
		return learned
	}
	return min(1, max(0, learned*pKnown/evidence))
}

// Difficulty picks the next difficulty for a mastery level.
func (b BKT) Difficulty(m float64) string {
	switch {
	case m < 0.3:
		return Easy
	case m < 0.6:
		return Medium
	default:
		return Hard
	}
}
