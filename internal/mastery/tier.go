// Package mastery classifies backend mastery estimates for display.
package mastery

import "math"

// Tier is the display label for a mastery estimate.
type Tier string

const (
	TierBeginner   Tier = "Beginner"
	TierDeveloping Tier = "Developing"
	TierProficient Tier = "Proficient"
)

// Lower bounds of each tier. Both are inclusive.
const (
	ProficientThreshold = 0.7
	DevelopingThreshold = 0.4
)

// Clamp forces an estimate into [0,1]. NaN maps to 0.
func Clamp(m float64) float64 {
	switch {
	case math.IsNaN(m), m < 0:
		return 0
	case m > 1:
		return 1
	default:
		return m
	}
}

// Classify maps a mastery estimate to its tier.
func Classify(m float64) Tier {
	m = Clamp(m)
	switch {
	case m >= ProficientThreshold:
		return TierProficient
	case m >= DevelopingThreshold:
		return TierDeveloping
	default:
		return TierBeginner
	}
}

// Percent returns the estimate as a whole percentage in [0,100].
func Percent(m float64) int {
	return int(math.Round(Clamp(m) * 100))
}

// Delta returns the change between two estimates in whole percentage points.
func Delta(before, after float64) int {
	return Percent(after) - Percent(before)
}
