package market

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/apexsim/paddock/internal/domain"
	"github.com/apexsim/paddock/internal/utils"
)

// Narrow read interfaces so the snapshot builder does not depend on the
// storage layer. The roster repositories satisfy these as-is.
type (
	// TeamSource lists every team.
	TeamSource interface {
		List() ([]domain.Team, error)
	}

	// DriverSource lists every driver with history attached.
	DriverSource interface {
		List() ([]domain.Driver, error)
	}

	// ChiefSource lists every chief.
	ChiefSource interface {
		List() ([]domain.Chief, error)
	}

	// StandingsSource maps team id to constructors' position for a season.
	StandingsSource interface {
		Positions(season int) (map[string]int, error)
	}

	// SponsorGroupSource maps team id to the rival groups of its sponsors.
	SponsorGroupSource interface {
		RivalGroupsByTeam() (map[string][]string, error)
	}
)

// Builder assembles market snapshots from live league state.
type Builder struct {
	teams     TeamSource
	drivers   DriverSource
	chiefs    ChiefSource
	standings StandingsSource
	sponsors  SponsorGroupSource
	log       zerolog.Logger
}

// NewBuilder creates a market snapshot builder
func NewBuilder(
	teams TeamSource,
	drivers DriverSource,
	chiefs ChiefSource,
	standings StandingsSource,
	sponsors SponsorGroupSource,
	log zerolog.Logger,
) *Builder {
	return &Builder{
		teams:     teams,
		drivers:   drivers,
		chiefs:    chiefs,
		standings: standings,
		sponsors:  sponsors,
		log:       log.With().Str("component", "market_builder").Logger(),
	}
}

// Build assembles one consistent snapshot of the league. Standings are
// read for the season before the one being negotiated, because talks
// happen against last finished results.
func (b *Builder) Build(season int) (Context, error) {
	timer := utils.NewTimer("market_snapshot_build", b.log)

	teams, err := b.teams.List()
	if err != nil {
		return Context{}, fmt.Errorf("failed to load teams: %w", err)
	}

	drivers, err := b.drivers.List()
	if err != nil {
		return Context{}, fmt.Errorf("failed to load drivers: %w", err)
	}

	chiefs, err := b.chiefs.List()
	if err != nil {
		return Context{}, fmt.Errorf("failed to load chiefs: %w", err)
	}

	positions, err := b.standings.Positions(season - 1)
	if err != nil {
		return Context{}, fmt.Errorf("failed to load standings: %w", err)
	}

	groups, err := b.sponsors.RivalGroupsByTeam()
	if err != nil {
		return Context{}, fmt.Errorf("failed to load sponsor groups: %w", err)
	}

	ctx := Context{
		Season:        season,
		Drivers:       drivers,
		Chiefs:        chiefs,
		Teams:         teams,
		Standings:     positions,
		TotalTeams:    len(teams),
		OpenSeats:     countOpenSeats(teams, drivers),
		SponsorGroups: groups,
	}

	timer.StopWithContext(map[string]interface{}{
		"season":     season,
		"teams":      len(teams),
		"drivers":    len(drivers),
		"open_seats": ctx.OpenSeats,
	})

	return ctx, nil
}

// countOpenSeats sums unfilled race seats across the grid.
func countOpenSeats(teams []domain.Team, drivers []domain.Driver) int {
	filled := make(map[string]int)
	for i := range drivers {
		if drivers[i].TeamID != "" {
			filled[drivers[i].TeamID]++
		}
	}

	open := 0
	for _, team := range teams {
		seats := team.Seats
		if seats <= 0 {
			seats = 2
		}
		if vacant := seats - filled[team.ID]; vacant > 0 {
			open += vacant
		}
	}
	return open
}
