// Package market assembles read-only league snapshots for evaluator input.
// A Context is built fresh for each decision and never mutated: evaluators
// reason over it, they do not write to it.
package market

import (
	"github.com/apexsim/paddock/internal/domain"
)

// Context is one consistent view of the league at decision time.
type Context struct {
	Season int `json:"season"`

	Drivers []domain.Driver `json:"drivers"`
	Chiefs  []domain.Chief  `json:"chiefs"`
	Teams   []domain.Team   `json:"teams"`

	// Standings maps team id to 1-indexed constructors' position.
	Standings  map[string]int `json:"standings"`
	TotalTeams int            `json:"total_teams"`

	// OpenSeats counts unfilled race seats across the whole grid. Scarcity
	// drives desperation and ultimatums.
	OpenSeats int `json:"open_seats"`

	// SponsorGroups lists the rival groups of each team's active sponsors.
	SponsorGroups map[string][]string `json:"sponsor_groups,omitempty"`
}

// Position returns a team's 1-indexed standing, if known.
func (c Context) Position(teamID string) (int, bool) {
	pos, ok := c.Standings[teamID]
	return pos, ok
}

// TeamByID looks up a team snapshot.
func (c Context) TeamByID(id string) (domain.Team, bool) {
	for i := range c.Teams {
		if c.Teams[i].ID == id {
			return c.Teams[i], true
		}
	}
	return domain.Team{}, false
}

// DriverByID looks up a driver snapshot.
func (c Context) DriverByID(id string) (domain.Driver, bool) {
	for i := range c.Drivers {
		if c.Drivers[i].ID == id {
			return c.Drivers[i], true
		}
	}
	return domain.Driver{}, false
}

// ChiefByID looks up a chief snapshot.
func (c Context) ChiefByID(id string) (domain.Chief, bool) {
	for i := range c.Chiefs {
		if c.Chiefs[i].ID == id {
			return c.Chiefs[i], true
		}
	}
	return domain.Chief{}, false
}

// TeamDrivers returns the drivers currently employed by a team.
func (c Context) TeamDrivers(teamID string) []domain.Driver {
	var out []domain.Driver
	for i := range c.Drivers {
		if c.Drivers[i].TeamID == teamID {
			out = append(out, c.Drivers[i])
		}
	}
	return out
}

// TeamChief returns the chief running the given department at a team.
func (c Context) TeamChief(teamID string, dept domain.Department) (domain.Chief, bool) {
	for i := range c.Chiefs {
		if c.Chiefs[i].TeamID == teamID && c.Chiefs[i].Department == dept {
			return c.Chiefs[i], true
		}
	}
	return domain.Chief{}, false
}

// Budgets collects every team budget, for prestige normalisation.
func (c Context) Budgets() []float64 {
	out := make([]float64, 0, len(c.Teams))
	for i := range c.Teams {
		out = append(out, c.Teams[i].Budget)
	}
	return out
}

// HasSponsorGroup reports whether the team already carries a sponsor from
// the given rival group.
func (c Context) HasSponsorGroup(teamID, group string) bool {
	if group == "" {
		return false
	}
	for _, g := range c.SponsorGroups[teamID] {
		if g == group {
			return true
		}
	}
	return false
}
