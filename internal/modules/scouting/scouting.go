// Package scouting produces the read-only reports the front office sees:
// driver value reports, viewer-distorted chief grades and ranked transfer
// targets. Everything here is derived from a league snapshot; nothing is
// persisted.
package scouting

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/apexsim/paddock/internal/domain"
	"github.com/apexsim/paddock/internal/modules/drivers"
	"github.com/apexsim/paddock/internal/modules/market"
	"github.com/apexsim/paddock/internal/modules/staff"
	"github.com/apexsim/paddock/internal/modules/valuation"
	"github.com/apexsim/paddock/pkg/formulas"
)

// ErrNotFound means the requested subject is not in the league snapshot.
var ErrNotFound = errors.New("scouting: subject not found")

// ContextBuilder assembles a league snapshot for one season.
type ContextBuilder interface {
	Build(season int) (market.Context, error)
}

// ChiefReader loads chiefs for grading.
type ChiefReader interface {
	GetByID(id string) (*domain.Chief, error)
}

// Service builds scouting reports from league snapshots.
type Service struct {
	snapshots ContextBuilder
	chiefs    ChiefReader
	log       zerolog.Logger
}

// NewService creates a new scouting service
func NewService(snapshots ContextBuilder, chiefs ChiefReader, log zerolog.Logger) *Service {
	return &Service{
		snapshots: snapshots,
		chiefs:    chiefs,
		log:       log.With().Str("service", "scouting").Logger(),
	}
}

// DriverReport is the scouting view of one driver.
type DriverReport struct {
	DriverID string `json:"driver_id"`
	Name     string `json:"name"`
	Age      int    `json:"age"`
	TeamID   string `json:"team_id,omitempty"`
	Seasons  int    `json:"seasons"`

	AbilityScore   float64 `json:"ability_score"`
	PerceivedValue float64 `json:"perceived_value"`
	MarketValue    float64 `json:"market_value"`

	// LeagueZScore places the driver's market value inside the league
	// distribution: zero is mid-field, positive is above it.
	LeagueZScore float64 `json:"league_z_score"`

	Form     Form    `json:"form"`
	Momentum float64 `json:"momentum"`
}

// DriverReport builds the report for one driver against the given season.
func (s *Service) DriverReport(driverID string, season int) (DriverReport, error) {
	snapshot, err := s.snapshots.Build(season)
	if err != nil {
		return DriverReport{}, fmt.Errorf("building snapshot: %w", err)
	}

	driver, ok := snapshot.DriverByID(driverID)
	if !ok {
		return DriverReport{}, fmt.Errorf("%w: %s", ErrNotFound, driverID)
	}

	value := valuation.MarketValue(driver.ID, driver.History, snapshot.Drivers)

	return DriverReport{
		DriverID:       driver.ID,
		Name:           driver.Name,
		Age:            driver.Age,
		TeamID:         driver.TeamID,
		Seasons:        len(driver.History),
		AbilityScore:   drivers.AbilityScore(driver),
		PerceivedValue: valuation.PerceivedValue(driver.History),
		MarketValue:    value,
		LeagueZScore:   leagueZScore(value, snapshot.Drivers),
		Form:           FormTrend(driver.History),
		Momentum:       SeasonMomentum(driver.History),
	}, nil
}

// ChiefReport is what one viewer's scouts report about a chief. The grade
// is stable per viewer/chief pair but differs between viewers.
type ChiefReport struct {
	ChiefID    string            `json:"chief_id"`
	Name       string            `json:"name"`
	Age        int               `json:"age"`
	Department domain.Department `json:"department"`
	TeamID     string            `json:"team_id,omitempty"`

	ViewerID         string      `json:"viewer_id"`
	Grade            staff.Grade `json:"grade"`
	PerceivedAbility float64     `json:"perceived_ability"`
	ExpectedSalary   float64     `json:"expected_salary"`
}

// ChiefGrade builds the viewer-specific report for one chief.
func (s *Service) ChiefGrade(chiefID, viewerID string) (ChiefReport, error) {
	chief, err := s.chiefs.GetByID(chiefID)
	if err != nil {
		return ChiefReport{}, fmt.Errorf("loading chief: %w", err)
	}
	if chief == nil {
		return ChiefReport{}, fmt.Errorf("%w: %s", ErrNotFound, chiefID)
	}

	return ChiefReport{
		ChiefID:          chief.ID,
		Name:             chief.Name,
		Age:              chief.Age,
		Department:       chief.Department,
		TeamID:           chief.TeamID,
		ViewerID:         viewerID,
		Grade:            staff.GradeFor(*chief, viewerID),
		PerceivedAbility: staff.PerceivedAbility(*chief, viewerID),
		ExpectedSalary:   staff.MarketSalary(*chief),
	}, nil
}

// Targets ranks the drivers a team could realistically sign this season.
func (s *Service) Targets(teamID string, years, season int) ([]drivers.Target, error) {
	snapshot, err := s.snapshots.Build(season)
	if err != nil {
		return nil, fmt.Errorf("building snapshot: %w", err)
	}

	if _, ok := snapshot.TeamByID(teamID); !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, teamID)
	}

	return drivers.RankTargets(teamID, years, snapshot), nil
}

// leagueZScore standardises a market value against the whole grid.
func leagueZScore(value float64, population []domain.Driver) float64 {
	if len(population) < 2 {
		return 0
	}

	values := make([]float64, 0, len(population))
	for _, d := range population {
		values = append(values, valuation.MarketValue(d.ID, d.History, population))
	}

	spread := formulas.StdDev(values)
	if spread == 0 {
		return 0
	}
	return (value - formulas.Mean(values)) / spread
}
