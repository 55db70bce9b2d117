package roster

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/apexsim/paddock/internal/domain"
)

// Deal is a signed sponsorship agreement between a team and a sponsor.
type Deal struct {
	TeamID        string  `json:"team_id"`
	SponsorID     string  `json:"sponsor_id"`
	AnnualPayment float64 `json:"annual_payment"`
	Years         int     `json:"years"`
	WinBonus      float64 `json:"win_bonus"`
	PodiumBonus   float64 `json:"podium_bonus"`
	PointsBonus   float64 `json:"points_bonus"`
	ExitPosition  int     `json:"exit_position"`
	SignedSeason  int     `json:"signed_season"`
}

// SponsorRepository provides access to the sponsors and team_sponsors tables.
type SponsorRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewSponsorRepository creates a new sponsor repository
func NewSponsorRepository(db *sql.DB, log zerolog.Logger) *SponsorRepository {
	return &SponsorRepository{
		db:  db,
		log: log.With().Str("repository", "sponsors").Logger(),
	}
}

// Upsert inserts or updates a sponsor.
func (r *SponsorRepository) Upsert(s domain.Sponsor) error {
	_, err := r.db.Exec(`
		INSERT INTO sponsors (id, name, tier, base_payment, min_reputation, rival_group)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			tier = excluded.tier,
			base_payment = excluded.base_payment,
			min_reputation = excluded.min_reputation,
			rival_group = excluded.rival_group
	`, s.ID, s.Name, int(s.Tier), s.BasePayment, s.MinReputation, s.RivalGroup)
	if err != nil {
		return fmt.Errorf("failed to upsert sponsor %s: %w", s.ID, err)
	}
	return nil
}

// GetByID returns a sponsor, or nil if it does not exist.
func (r *SponsorRepository) GetByID(id string) (*domain.Sponsor, error) {
	var s domain.Sponsor
	var tier int
	err := r.db.QueryRow(`
		SELECT id, name, tier, base_payment, min_reputation, rival_group
		FROM sponsors WHERE id = ?
	`, id).Scan(&s.ID, &s.Name, &tier, &s.BasePayment, &s.MinReputation, &s.RivalGroup)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sponsor %s: %w", id, err)
	}
	s.Tier = domain.SponsorTier(tier)
	return &s, nil
}

// List returns every sponsor, ordered by tier then id.
func (r *SponsorRepository) List() ([]domain.Sponsor, error) {
	rows, err := r.db.Query(`
		SELECT id, name, tier, base_payment, min_reputation, rival_group
		FROM sponsors ORDER BY tier, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sponsors: %w", err)
	}
	defer rows.Close()

	var sponsors []domain.Sponsor
	for rows.Next() {
		var s domain.Sponsor
		var tier int
		if err := rows.Scan(&s.ID, &s.Name, &tier, &s.BasePayment, &s.MinReputation, &s.RivalGroup); err != nil {
			return nil, fmt.Errorf("failed to scan sponsor: %w", err)
		}
		s.Tier = domain.SponsorTier(tier)
		sponsors = append(sponsors, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sponsors: %w", err)
	}

	return sponsors, nil
}

// SignDeal records a sponsorship agreement. Re-signing the same pair
// replaces the old deal.
func (r *SponsorRepository) SignDeal(d Deal) error {
	_, err := r.db.Exec(`
		INSERT INTO team_sponsors (
			team_id, sponsor_id, annual_payment, years,
			win_bonus, podium_bonus, points_bonus, exit_position, signed_season
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(team_id, sponsor_id) DO UPDATE SET
			annual_payment = excluded.annual_payment,
			years = excluded.years,
			win_bonus = excluded.win_bonus,
			podium_bonus = excluded.podium_bonus,
			points_bonus = excluded.points_bonus,
			exit_position = excluded.exit_position,
			signed_season = excluded.signed_season
	`, d.TeamID, d.SponsorID, d.AnnualPayment, d.Years,
		d.WinBonus, d.PodiumBonus, d.PointsBonus, d.ExitPosition, d.SignedSeason)
	if err != nil {
		return fmt.Errorf("failed to sign deal %s/%s: %w", d.TeamID, d.SponsorID, err)
	}

	r.log.Info().
		Str("team_id", d.TeamID).
		Str("sponsor_id", d.SponsorID).
		Float64("annual_payment", d.AnnualPayment).
		Int("years", d.Years).
		Msg("Sponsorship deal signed")

	return nil
}

// EndDeal removes a sponsorship agreement.
func (r *SponsorRepository) EndDeal(teamID, sponsorID string) error {
	_, err := r.db.Exec(`
		DELETE FROM team_sponsors WHERE team_id = ? AND sponsor_id = ?
	`, teamID, sponsorID)
	if err != nil {
		return fmt.Errorf("failed to end deal %s/%s: %w", teamID, sponsorID, err)
	}
	return nil
}

// ActiveDeals returns the deals currently held by a team.
func (r *SponsorRepository) ActiveDeals(teamID string) ([]Deal, error) {
	rows, err := r.db.Query(`
		SELECT team_id, sponsor_id, annual_payment, years,
			win_bonus, podium_bonus, points_bonus, exit_position, signed_season
		FROM team_sponsors WHERE team_id = ? ORDER BY sponsor_id
	`, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to query deals for team %s: %w", teamID, err)
	}
	defer rows.Close()

	return scanDeals(rows)
}

// RivalGroupsByTeam maps each team to the rival groups of its active
// sponsors, excluding empty groups. One pass over the whole league; this
// feeds the conflict check in sponsorship talks.
func (r *SponsorRepository) RivalGroupsByTeam() (map[string][]string, error) {
	rows, err := r.db.Query(`
		SELECT ts.team_id, s.rival_group
		FROM team_sponsors ts
		JOIN sponsors s ON s.id = ts.sponsor_id
		WHERE s.rival_group != ''
		ORDER BY ts.team_id, s.rival_group
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sponsor rival groups: %w", err)
	}
	defer rows.Close()

	groups := make(map[string][]string)
	for rows.Next() {
		var teamID, group string
		if err := rows.Scan(&teamID, &group); err != nil {
			return nil, fmt.Errorf("failed to scan rival group: %w", err)
		}
		groups[teamID] = append(groups[teamID], group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rival groups: %w", err)
	}

	return groups, nil
}

// TeamGroups returns the rival groups held by one team's active
// sponsors, leaving out the named sponsor. A renewal must not collide
// with the sponsor's own existing deal.
func (r *SponsorRepository) TeamGroups(teamID, excludeSponsorID string) ([]string, error) {
	rows, err := r.db.Query(`
		SELECT DISTINCT s.rival_group
		FROM team_sponsors ts
		JOIN sponsors s ON s.id = ts.sponsor_id
		WHERE ts.team_id = ? AND ts.sponsor_id != ? AND s.rival_group != ''
		ORDER BY s.rival_group
	`, teamID, excludeSponsorID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rival groups for team %s: %w", teamID, err)
	}
	defer rows.Close()

	var groups []string
	for rows.Next() {
		var group string
		if err := rows.Scan(&group); err != nil {
			return nil, fmt.Errorf("failed to scan rival group: %w", err)
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rival groups: %w", err)
	}

	return groups, nil
}

func scanDeals(rows *sql.Rows) ([]Deal, error) {
	var deals []Deal
	for rows.Next() {
		var d Deal
		if err := rows.Scan(
			&d.TeamID, &d.SponsorID, &d.AnnualPayment, &d.Years,
			&d.WinBonus, &d.PodiumBonus, &d.PointsBonus, &d.ExitPosition, &d.SignedSeason,
		); err != nil {
			return nil, fmt.Errorf("failed to scan deal: %w", err)
		}
		deals = append(deals, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating deals: %w", err)
	}
	return deals, nil
}
