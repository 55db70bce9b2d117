package drivers

import (
	"math"
	"sort"

	"github.com/apexsim/paddock/internal/domain"
	"github.com/apexsim/paddock/internal/modules/market"
	"github.com/apexsim/paddock/internal/modules/valuation"
	"github.com/apexsim/paddock/pkg/formulas"
	"github.com/apexsim/paddock/pkg/seeded"
)

// Margins for judging an approaching driver against the current line-up.
const (
	UpgradeMargin = 0.05 // clearly better than the weakest seat
	SimilarMargin = 0.02 // close enough to be worth a conversation
)

// ageDurationMultipliers scales attractiveness by how sensible the
// contract length is at the driver's age: signing prospects long is good
// business, locking veterans in long is not. Rows are age brackets
// (under 23, 23-27, 28-31, 32 and over), columns are contract length
// buckets (1 year, 2-3 years, 4 years and more).
var ageDurationMultipliers = [4][3]float64{
	{0.80, 1.00, 1.10},
	{0.90, 1.05, 1.10},
	{1.00, 1.00, 0.90},
	{1.00, 0.80, 0.60},
}

func ageBracket(age int) int {
	switch {
	case age < 23:
		return 0
	case age < 28:
		return 1
	case age < 32:
		return 2
	default:
		return 3
	}
}

func durationBucket(years int) int {
	switch {
	case years <= 1:
		return 0
	case years <= 3:
		return 1
	default:
		return 2
	}
}

// AgeDurationMultiplier returns the attractiveness scale for offering a
// driver of this age a contract of this length.
func AgeDurationMultiplier(age, years int) float64 {
	return ageDurationMultipliers[ageBracket(age)][durationBucket(years)]
}

// EligiblePool returns the drivers a team can realistically sign: drivers
// from the team exactly one position above it, from every team below it,
// and free agents. A team's own drivers are never in its pool.
func EligiblePool(teamID string, m market.Context) []domain.Driver {
	pos, havePos := m.Position(teamID)

	var pool []domain.Driver
	for i := range m.Drivers {
		d := m.Drivers[i]
		if d.TeamID == teamID {
			continue
		}
		if d.FreeAgent() {
			pool = append(pool, d)
			continue
		}
		if !havePos {
			continue
		}
		employerPos, ok := m.Position(d.TeamID)
		if !ok {
			continue
		}
		if employerPos == pos-1 || employerPos > pos {
			pool = append(pool, d)
		}
	}
	return pool
}

// Attractiveness scores how appealing a driver is to a team for a contract
// of the given length. Drivers with real results are judged on perceived
// value; rookies are judged on raw ability distorted by the team's own
// scouting error, so two teams can disagree about the same prospect.
func Attractiveness(d domain.Driver, teamID string, years int, m market.Context) float64 {
	var base float64
	if d.Rookie() {
		base = AbilityScore(d) * (1 + seeded.Jitter(RookieScoutSpread, teamID, d.ID, "scout"))
	} else {
		base = valuation.PerceivedValue(d.History)
	}
	return formulas.Clamp01(base) * AgeDurationMultiplier(d.Age, years)
}

// Target is one ranked shortlist entry.
type Target struct {
	Driver domain.Driver `json:"driver"`
	Score  float64       `json:"score"`
}

// RankTargets orders a team's eligible pool by attractiveness, most
// appealing first. Ties break on driver id so the ranking is stable.
func RankTargets(teamID string, years int, m market.Context) []Target {
	pool := EligiblePool(teamID, m)

	targets := make([]Target, 0, len(pool))
	for i := range pool {
		targets = append(targets, Target{
			Driver: pool[i],
			Score:  Attractiveness(pool[i], teamID, years, m),
		})
	}

	sort.Slice(targets, func(i, j int) bool {
		if targets[i].Score != targets[j].Score {
			return targets[i].Score > targets[j].Score
		}
		return targets[i].Driver.ID < targets[j].Driver.ID
	})
	return targets
}

// ApproachInterest decides whether a team wants to talk when a driver
// comes knocking. The driver must be on the team's shortlist; then either
// an open seat, a clear upgrade, or near-parity with the weakest incumbent
// makes the team listen.
func ApproachInterest(d domain.Driver, teamID string, shortlist []string, years int, m market.Context) (bool, string) {
	listed := false
	for _, id := range shortlist {
		if id == d.ID {
			listed = true
			break
		}
	}
	if !listed {
		return false, "not on the shortlist"
	}

	seats := 2
	if team, ok := m.TeamByID(teamID); ok && team.Seats > 0 {
		seats = team.Seats
	}
	incumbents := m.TeamDrivers(teamID)
	if len(incumbents) < seats {
		return true, "open seat available"
	}

	candidate := Attractiveness(d, teamID, years, m)
	weakest := math.Inf(1)
	for i := range incumbents {
		if a := Attractiveness(incumbents[i], teamID, years, m); a < weakest {
			weakest = a
		}
	}

	switch {
	case candidate >= weakest+UpgradeMargin:
		return true, "clear upgrade on the weakest seat"
	case candidate >= weakest-SimilarMargin:
		return true, "comparable to the current line-up"
	default:
		return false, "would be a downgrade"
	}
}
