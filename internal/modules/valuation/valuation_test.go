package valuation

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/apexsim/paddock/internal/domain"
)

func seasons(ratios ...float64) []domain.SeasonRecord {
	// Builds a most-recent-first history where each season's contribution
	// ratio equals the given value against a 100 point team total.
	history := make([]domain.SeasonRecord, 0, len(ratios))
	season := 2030
	for _, r := range ratios {
		history = append(history, domain.SeasonRecord{
			Season:     season,
			TeamID:     "team-a",
			Races:      20,
			Points:     r * 100,
			TeamPoints: 100,
		})
		season--
	}
	return history
}

func TestPerceivedValue_NoHistoryIsNeutral(t *testing.T) {
	assert.Equal(t, 0.5, PerceivedValue(nil), "A driver with no career history must score exactly 0.5")
}

func TestPerceivedValue_ZeroTeamPointsSeasonIsNeutral(t *testing.T) {
	history := []domain.SeasonRecord{
		{Season: 2030, TeamID: "team-a", Races: 20, Points: 0, TeamPoints: 0},
	}

	assert.Equal(t, 0.5, PerceivedValue(history), "A pointless team season carries no signal")
}

func TestPerceivedValue_WithinBounds(t *testing.T) {
	for i := 0; i < 20; i++ {
		pv := PerceivedValue(seasons(float64(i)/20, float64(i)/40, float64(i)/60))
		assert.GreaterOrEqual(t, pv, 0.0, "Perceived value must never go below 0")
		assert.LessOrEqual(t, pv, 1.0, "Perceived value must never exceed 1")
	}
}

func TestPerceivedValue_RecentFormDominates(t *testing.T) {
	// Same three season results, once with the strong year current and
	// once with it two seasons back.
	rising := PerceivedValue(seasons(0.8, 0.3, 0.3))
	fading := PerceivedValue(seasons(0.3, 0.3, 0.8))

	assert.Greater(t, rising, fading, "The same results must be worth more when the strong season is the current one")
}

func TestPerceivedValue_IgnoresSeasonsBeyondWindow(t *testing.T) {
	steady := PerceivedValue(seasons(0.5, 0.5, 0.5, 0.5, 0.5))
	withAncientGlory := PerceivedValue(seasons(0.5, 0.5, 0.5, 0.5, 0.5, 1.0))

	assert.Equal(t, steady, withAncientGlory, "Seasons beyond the window must not move the score")
}

func TestPerceivedValue_UnsortedHistory(t *testing.T) {
	sorted := []domain.SeasonRecord{
		{Season: 2030, Points: 80, TeamPoints: 100},
		{Season: 2029, Points: 30, TeamPoints: 100},
	}
	shuffled := []domain.SeasonRecord{
		{Season: 2029, Points: 30, TeamPoints: 100},
		{Season: 2030, Points: 80, TeamPoints: 100},
	}

	assert.Equal(t, PerceivedValue(sorted), PerceivedValue(shuffled), "Ordering on disk must not change the result")
}

func testPopulation(n int) []domain.Driver {
	// Population with strictly increasing perceived values.
	population := make([]domain.Driver, 0, n)
	for i := 0; i < n; i++ {
		population = append(population, domain.Driver{
			ID:      fmt.Sprintf("driver-%d", i),
			History: seasons(float64(i+1) / float64(n+1)),
		})
	}
	return population
}

func TestMarketValue_StaysWithinBounds(t *testing.T) {
	population := testPopulation(10)
	for _, d := range population {
		mv := MarketValue(d.ID, d.History, population)
		assert.GreaterOrEqual(t, mv, SalaryFloor, "Market value must respect the salary floor")
		assert.LessOrEqual(t, mv, SalaryCeiling, "Market value must respect the salary ceiling")
	}
}

func TestMarketValue_MonotonicInRank(t *testing.T) {
	population := testPopulation(8)

	prev := -1.0
	for _, d := range population {
		mv := MarketValue(d.ID, d.History, population)
		assert.Greater(t, mv, prev, "A better ranked driver can never be worth less")
		prev = mv
	}
}

func TestMarketValue_ExtremesHitFloorAndCeiling(t *testing.T) {
	population := testPopulation(5)

	worst := MarketValue("driver-0", population[0].History, population)
	best := MarketValue("driver-4", population[4].History, population)

	assert.Equal(t, SalaryFloor, worst, "The weakest of the population earns the floor")
	assert.Equal(t, SalaryCeiling, best, "The strongest of the population earns the ceiling")
}

func TestMarketValue_AbsentDriverInterpolatesDirectly(t *testing.T) {
	population := testPopulation(5)
	outsider := MarketValue("driver-unknown", seasons(0.5), population)

	assert.InDelta(t, SalaryFloor+0.5*(SalaryCeiling-SalaryFloor), outsider, 1e-6,
		"A driver outside the population interpolates their own perceived value")
}

func TestMarketValue_PopulationOfOne(t *testing.T) {
	solo := []domain.Driver{{ID: "driver-solo", History: seasons(0.9)}}
	mv := MarketValue("driver-solo", solo[0].History, solo)

	assert.InDelta(t, SalaryFloor+0.5*(SalaryCeiling-SalaryFloor), mv, 1e-6,
		"A population of one has no ordering and lands mid range")
}

func TestTeamQuality_LeaderAndBackmarker(t *testing.T) {
	assert.Equal(t, 1.0, TeamQuality(1, 10), "The championship leader scores 1.0")
	assert.Equal(t, 0.0, TeamQuality(10, 10), "The last placed team scores 0.0")
	assert.InDelta(t, 0.5, TeamQuality(5, 9), 1e-12, "Mid table lands mid scale")
}

func TestTeamQuality_SingleTeamLeague(t *testing.T) {
	assert.Equal(t, 0.5, TeamQuality(1, 1), "A league of one team has no ordering")
}

func TestTeamQuality_OutOfRangePositionsClamp(t *testing.T) {
	assert.Equal(t, 1.0, TeamQuality(0, 10), "Positions below 1 clamp to the leader")
	assert.Equal(t, 0.0, TeamQuality(99, 10), "Positions beyond the grid clamp to last")
}

func TestTeamPrestige_MinMaxNormalisation(t *testing.T) {
	budgets := []float64{100, 200, 300}

	assert.Equal(t, 0.0, TeamPrestige(100, budgets), "Smallest budget maps to 0")
	assert.Equal(t, 1.0, TeamPrestige(300, budgets), "Biggest budget maps to 1")
	assert.InDelta(t, 0.5, TeamPrestige(200, budgets), 1e-12, "Middle budget maps to the middle")
}

func TestTeamPrestige_EqualBudgetsAreNeutral(t *testing.T) {
	budgets := []float64{150, 150, 150}

	assert.Equal(t, 0.5, TeamPrestige(150, budgets), "Equal budgets leave everyone at the midpoint")
}
