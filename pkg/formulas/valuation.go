// Package formulas provides the shared math used by the valuation and
// negotiation engines. Everything here is pure and total: bad input maps to
// a neutral value, never a panic.
package formulas

import (
	"math"
)

// NeutralScore is the midpoint returned whenever there is no data to judge by.
const NeutralScore = 0.5

// DecayedContributionAverage computes an exponentially decayed weighted
// average over ratios ordered most-recent-first.
// Formula: sum(ratio[i] * decay^i) / sum(decay^i), i < limit
// An empty series returns NeutralScore.
func DecayedContributionAverage(ratios []float64, decay float64, limit int) float64 {
	if len(ratios) == 0 {
		return NeutralScore
	}
	if limit > 0 && len(ratios) > limit {
		ratios = ratios[:limit]
	}

	weight := 1.0
	sum := 0.0
	totalWeight := 0.0
	for _, r := range ratios {
		sum += r * weight
		totalWeight += weight
		weight *= decay
	}
	if totalWeight == 0 {
		return NeutralScore
	}
	return sum / totalWeight
}

// PercentileRank returns the fractional rank of v within values, in [0, 1].
// Ties get the midrank so a fully tied population sits at 0.5 rather than
// collapsing to an extreme. A population of one returns NeutralScore.
func PercentileRank(values []float64, v float64) float64 {
	n := len(values)
	if n <= 1 {
		return NeutralScore
	}

	less := 0
	equal := 0
	for _, x := range values {
		switch {
		case x < v:
			less++
		case x == v:
			equal++
		}
	}
	// The value itself may or may not be a member of values; count only the
	// other equal entries toward the midrank.
	equalOthers := equal
	if equalOthers > 0 {
		equalOthers--
	}
	rank := float64(less) + float64(equalOthers)/2
	return Clamp01(rank / float64(n-1))
}

// Lerp linearly interpolates between lo and hi by t in [0, 1].
func Lerp(lo, hi, t float64) float64 {
	return lo + Clamp01(t)*(hi-lo)
}

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Clamp01 restricts v to [0, 1].
func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}
