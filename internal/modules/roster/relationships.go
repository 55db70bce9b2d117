package roster

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"
)

// NeutralRelationship is the score every pair starts from.
const NeutralRelationship = 50.0

// RelationshipRepository tracks 0-100 standing between a team and any
// counterparty (driver, chief or sponsor). Pairs with no history read as
// neutral; rows only exist once a negotiation has moved the needle.
type RelationshipRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRelationshipRepository creates a new relationship repository
func NewRelationshipRepository(db *sql.DB, log zerolog.Logger) *RelationshipRepository {
	return &RelationshipRepository{
		db:  db,
		log: log.With().Str("repository", "relationships").Logger(),
	}
}

// Score returns the current standing between a team and a counterparty.
func (r *RelationshipRepository) Score(teamID, partyID string) (float64, error) {
	var score float64
	err := r.db.QueryRow(`
		SELECT score FROM relationships WHERE team_id = ? AND party_id = ?
	`, teamID, partyID).Scan(&score)
	if err == sql.ErrNoRows {
		return NeutralRelationship, nil
	}
	if err != nil {
		return NeutralRelationship, fmt.Errorf("failed to get relationship %s/%s: %w", teamID, partyID, err)
	}
	return score, nil
}

// Adjust moves a relationship by delta, clamped to 0-100. A zero delta
// is a no-op and writes nothing.
func (r *RelationshipRepository) Adjust(teamID, partyID string, delta int) error {
	if delta == 0 {
		return nil
	}

	_, err := r.db.Exec(`
		INSERT INTO relationships (team_id, party_id, score, updated_at)
		VALUES (?, ?, MIN(100, MAX(0, ? + ?)), datetime('now'))
		ON CONFLICT(team_id, party_id) DO UPDATE SET
			score = MIN(100, MAX(0, score + ?)),
			updated_at = excluded.updated_at
	`, teamID, partyID, NeutralRelationship, delta, delta)
	if err != nil {
		return fmt.Errorf("failed to adjust relationship %s/%s: %w", teamID, partyID, err)
	}

	r.log.Debug().
		Str("team_id", teamID).
		Str("party_id", partyID).
		Int("delta", delta).
		Msg("Relationship adjusted")

	return nil
}
