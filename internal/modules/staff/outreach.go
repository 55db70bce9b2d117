package staff

import (
	"sort"

	"github.com/apexsim/paddock/internal/domain"
	"github.com/apexsim/paddock/internal/modules/market"
	"github.com/apexsim/paddock/internal/modules/valuation"
)

// Outreach motivation and targeting.
const (
	// UnderpaidRatio marks a chief as unhappy when their salary sits
	// below this share of their own market expectation.
	UnderpaidRatio = 0.80

	// OutreachAbilityMargin is how much stronger a chief must be before
	// they bother knocking on a door that is already staffed.
	OutreachAbilityMargin = 10
)

// Approach is one unsolicited application from a chief to a team.
type Approach struct {
	ChiefID string `json:"chief_id"`
	TeamID  string `json:"team_id"`
	Reason  string `json:"reason"`
}

// Outreach lists the teams a chief proactively approaches. Only
// unattached or underpaid chiefs bother; employed ones only look up the
// prestige ladder, and any target needs either a vacant department or an
// incumbent the chief clearly outclasses.
func Outreach(c domain.Chief, m market.Context) []Approach {
	motivated := c.Unattached() || c.Salary < UnderpaidRatio*MarketSalary(c)
	if !motivated {
		return nil
	}

	budgets := m.Budgets()
	currentPrestige := 0.0
	if !c.Unattached() {
		if team, ok := m.TeamByID(c.TeamID); ok {
			currentPrestige = valuation.TeamPrestige(team.Budget, budgets)
		}
	}

	type scored struct {
		approach Approach
		prestige float64
	}
	var hits []scored

	for i := range m.Teams {
		team := m.Teams[i]
		if team.ID == c.TeamID {
			continue
		}
		prestige := valuation.TeamPrestige(team.Budget, budgets)
		if !c.Unattached() && prestige <= currentPrestige {
			continue
		}

		incumbent, staffed := m.TeamChief(team.ID, c.Department)
		switch {
		case !staffed:
			hits = append(hits, scored{Approach{ChiefID: c.ID, TeamID: team.ID, Reason: "vacant department"}, prestige})
		case c.Ability >= incumbent.Ability+OutreachAbilityMargin:
			hits = append(hits, scored{Approach{ChiefID: c.ID, TeamID: team.ID, Reason: "clearly stronger than the incumbent"}, prestige})
		}
	}

	// Biggest doors first; team id keeps equal-prestige ordering stable.
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].prestige != hits[j].prestige {
			return hits[i].prestige > hits[j].prestige
		}
		return hits[i].approach.TeamID < hits[j].approach.TeamID
	})

	out := make([]Approach, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.approach)
	}
	return out
}
