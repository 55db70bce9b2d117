// Package valuation derives market worth and organisational quality from
// league results. Every function is pure: snapshots in, scores out, no
// side effects. Missing data maps to the 0.5 midpoint, never an error.
package valuation

import (
	"sort"

	"github.com/apexsim/paddock/internal/domain"
	"github.com/apexsim/paddock/pkg/formulas"
)

const (
	// ContributionDecay is the weight multiplier applied per season step
	// going backwards through a career.
	ContributionDecay = 0.8

	// ContributionWindow caps how many seasons of history still influence
	// perceived value.
	ContributionWindow = 5

	// SalaryFloor and SalaryCeiling bound the annual salary a percentile
	// rank interpolates between.
	SalaryFloor   = 250_000.0
	SalaryCeiling = 12_000_000.0
)

// PerceivedValue scores a driver's sporting worth in [0, 1] from career
// history: the decay-weighted average of per-season contribution ratios
// (own points / team points), most recent season first.
//
// A season where the whole team scored nothing carries no signal and
// counts as the 0.5 midpoint. No history at all scores exactly 0.5.
func PerceivedValue(history []domain.SeasonRecord) float64 {
	ratios := contributionRatios(history)
	return formulas.Clamp01(formulas.DecayedContributionAverage(ratios, ContributionDecay, ContributionWindow))
}

// contributionRatios extracts per-season contribution ratios ordered most
// recent season first.
func contributionRatios(history []domain.SeasonRecord) []float64 {
	if len(history) == 0 {
		return nil
	}

	ordered := make([]domain.SeasonRecord, len(history))
	copy(ordered, history)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Season > ordered[j].Season
	})

	ratios := make([]float64, 0, len(ordered))
	for _, rec := range ordered {
		if rec.TeamPoints <= 0 {
			ratios = append(ratios, formulas.NeutralScore)
			continue
		}
		ratios = append(ratios, formulas.Clamp01(rec.Points/rec.TeamPoints))
	}
	return ratios
}

// MarketValue converts perceived value into an annual salary figure by
// ranking the driver against the whole population.
//
// When the driver is part of the population the ascending percentile rank
// of their perceived value interpolates between SalaryFloor and
// SalaryCeiling. A driver absent from the population (retired, newly
// generated) falls back to interpolating the perceived value directly.
func MarketValue(driverID string, history []domain.SeasonRecord, population []domain.Driver) float64 {
	pv := PerceivedValue(history)

	inPopulation := false
	values := make([]float64, 0, len(population))
	for i := range population {
		if population[i].ID == driverID {
			inPopulation = true
			values = append(values, pv)
			continue
		}
		values = append(values, PerceivedValue(population[i].History))
	}

	if !inPopulation || len(values) == 0 {
		return formulas.Lerp(SalaryFloor, SalaryCeiling, pv)
	}
	return formulas.Lerp(SalaryFloor, SalaryCeiling, formulas.PercentileRank(values, pv))
}

// TeamQuality maps a constructors' standing position onto [0, 1]:
// the leader scores 1.0, the last team 0.0, linear in between.
// A league of one team has no ordering and scores 0.5.
func TeamQuality(position, totalTeams int) float64 {
	if totalTeams <= 1 {
		return formulas.NeutralScore
	}
	if position < 1 {
		position = 1
	}
	if position > totalTeams {
		position = totalTeams
	}
	return 1 - float64(position-1)/float64(totalTeams-1)
}

// TeamPrestige scores a team's financial standing in [0, 1] by min-max
// normalising its budget across all team budgets. Equal budgets give
// everyone the 0.5 midpoint.
func TeamPrestige(budget float64, budgets []float64) float64 {
	if len(budgets) == 0 {
		return formulas.NeutralScore
	}

	min, max := budgets[0], budgets[0]
	for _, b := range budgets[1:] {
		if b < min {
			min = b
		}
		if b > max {
			max = b
		}
	}
	if max == min {
		return formulas.NeutralScore
	}
	return formulas.Clamp01((budget - min) / (max - min))
}
