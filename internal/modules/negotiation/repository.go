package negotiation

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/apexsim/paddock/internal/database"
)

// Discriminator values stored alongside the MessagePack terms blob so
// loading can pick the right concrete type.
const (
	termsTypeCompensation = "compensation"
	termsTypeSponsorship  = "sponsorship"
)

// EncodeTerms serializes terms into a type discriminator and a
// MessagePack blob.
func EncodeTerms(t Terms) (string, []byte, error) {
	switch v := t.(type) {
	case CompensationTerms:
		blob, err := msgpack.Marshal(v)
		if err != nil {
			return "", nil, fmt.Errorf("failed to encode compensation terms: %w", err)
		}
		return termsTypeCompensation, blob, nil
	case SponsorshipTerms:
		blob, err := msgpack.Marshal(v)
		if err != nil {
			return "", nil, fmt.Errorf("failed to encode sponsorship terms: %w", err)
		}
		return termsTypeSponsorship, blob, nil
	default:
		return "", nil, fmt.Errorf("%w: cannot encode %T", ErrTermsKind, t)
	}
}

// DecodeTerms reverses EncodeTerms.
func DecodeTerms(termsType string, blob []byte) (Terms, error) {
	switch termsType {
	case termsTypeCompensation:
		var v CompensationTerms
		if err := msgpack.Unmarshal(blob, &v); err != nil {
			return nil, fmt.Errorf("failed to decode compensation terms: %w", err)
		}
		return v, nil
	case termsTypeSponsorship:
		var v SponsorshipTerms
		if err := msgpack.Unmarshal(blob, &v); err != nil {
			return nil, fmt.Errorf("failed to decode sponsorship terms: %w", err)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("%w: unknown terms type %q", ErrTermsKind, termsType)
	}
}

// Repository persists sessions and their rounds. Rounds are append-only
// on disk just as they are in memory.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new negotiation repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "negotiations").Logger(),
	}
}

// Save writes a session and any rounds not yet on disk in one
// transaction.
func (r *Repository) Save(s *Session) error {
	return database.WithTransaction(r.db, func(tx *sql.Tx) error {
		var deadline interface{}
		if !s.Deadline.IsZero() {
			deadline = s.Deadline.UTC().Format(time.RFC3339Nano)
		}

		_, err := tx.Exec(`
			INSERT INTO negotiations (
				id, kind, team_id, counterparty_id, season,
				phase, max_rounds, deadline, created_at, updated_at
			)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				phase = excluded.phase,
				deadline = excluded.deadline,
				updated_at = excluded.updated_at
		`,
			s.ID, string(s.Kind), s.TeamID, s.CounterpartyID, s.Season,
			string(s.Phase), s.MaxRounds, deadline,
			s.CreatedAt.UTC().Format(time.RFC3339Nano),
			s.UpdatedAt.UTC().Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("failed to upsert session %s: %w", s.ID, err)
		}

		for _, round := range s.Rounds {
			termsType, blob, err := EncodeTerms(round.Terms)
			if err != nil {
				return fmt.Errorf("round %d of session %s: %w", round.Number, s.ID, err)
			}

			_, err = tx.Exec(`
				INSERT INTO negotiation_rounds (
					negotiation_id, number, offered_by, terms_type, terms, ultimatum, proposed_at
				)
				VALUES (?, ?, ?, ?, ?, ?, ?)
				ON CONFLICT(negotiation_id, number) DO NOTHING
			`,
				s.ID, round.Number, string(round.OfferedBy), termsType, blob,
				boolToInt(round.Ultimatum),
				round.ProposedAt.UTC().Format(time.RFC3339Nano),
			)
			if err != nil {
				return fmt.Errorf("failed to insert round %d of session %s: %w", round.Number, s.ID, err)
			}
		}

		return nil
	})
}

// GetByID loads a session with rounds, or nil if it does not exist.
func (r *Repository) GetByID(id string) (*Session, error) {
	row := r.db.QueryRow(`
		SELECT id, kind, team_id, counterparty_id, season,
			phase, max_rounds, deadline, created_at, updated_at
		FROM negotiations WHERE id = ?
	`, id)

	s, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session %s: %w", id, err)
	}

	rounds, err := r.loadRounds(`
		SELECT negotiation_id, number, offered_by, terms_type, terms, ultimatum, proposed_at
		FROM negotiation_rounds WHERE negotiation_id = ? ORDER BY number
	`, id)
	if err != nil {
		return nil, err
	}
	s.Rounds = rounds[s.ID]

	return s, nil
}

// ListActive returns every session still in play, rounds attached.
func (r *Repository) ListActive() ([]*Session, error) {
	sessions, err := r.querySessions(`
		SELECT id, kind, team_id, counterparty_id, season,
			phase, max_rounds, deadline, created_at, updated_at
		FROM negotiations
		WHERE phase IN (?, ?)
		ORDER BY updated_at DESC
	`, string(PhaseAwaitingResponse), string(PhaseResponseReceived))
	if err != nil {
		return nil, err
	}

	rounds, err := r.loadRounds(`
		SELECT nr.negotiation_id, nr.number, nr.offered_by, nr.terms_type, nr.terms, nr.ultimatum, nr.proposed_at
		FROM negotiation_rounds nr
		JOIN negotiations n ON n.id = nr.negotiation_id
		WHERE n.phase IN (?, ?)
		ORDER BY nr.negotiation_id, nr.number
	`, string(PhaseAwaitingResponse), string(PhaseResponseReceived))
	if err != nil {
		return nil, err
	}

	for _, s := range sessions {
		s.Rounds = rounds[s.ID]
	}
	return sessions, nil
}

// ListByTeam returns a team's sessions newest first, rounds attached.
func (r *Repository) ListByTeam(teamID string) ([]*Session, error) {
	sessions, err := r.querySessions(`
		SELECT id, kind, team_id, counterparty_id, season,
			phase, max_rounds, deadline, created_at, updated_at
		FROM negotiations
		WHERE team_id = ?
		ORDER BY updated_at DESC
	`, teamID)
	if err != nil {
		return nil, err
	}

	rounds, err := r.loadRounds(`
		SELECT nr.negotiation_id, nr.number, nr.offered_by, nr.terms_type, nr.terms, nr.ultimatum, nr.proposed_at
		FROM negotiation_rounds nr
		JOIN negotiations n ON n.id = nr.negotiation_id
		WHERE n.team_id = ?
		ORDER BY nr.negotiation_id, nr.number
	`, teamID)
	if err != nil {
		return nil, err
	}

	for _, s := range sessions {
		s.Rounds = rounds[s.ID]
	}
	return sessions, nil
}

func (r *Repository) querySessions(query string, args ...interface{}) ([]*Session, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sessions: %w", err)
	}

	return sessions, nil
}

// loadRounds runs a round query and groups results by session id.
func (r *Repository) loadRounds(query string, args ...interface{}) (map[string][]Round, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query rounds: %w", err)
	}
	defer rows.Close()

	grouped := make(map[string][]Round)
	for rows.Next() {
		var sessionID, offeredBy, termsType, proposedAt string
		var round Round
		var blob []byte
		var ultimatum int

		if err := rows.Scan(&sessionID, &round.Number, &offeredBy, &termsType, &blob, &ultimatum, &proposedAt); err != nil {
			return nil, fmt.Errorf("failed to scan round: %w", err)
		}

		terms, err := DecodeTerms(termsType, blob)
		if err != nil {
			return nil, fmt.Errorf("session %s round %d: %w", sessionID, round.Number, err)
		}

		round.OfferedBy = Side(offeredBy)
		round.Terms = terms
		round.Ultimatum = ultimatum != 0
		round.ProposedAt = parseTime(proposedAt)

		grouped[sessionID] = append(grouped[sessionID], round)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rounds: %w", err)
	}

	return grouped, nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSession(row rowScanner) (*Session, error) {
	var s Session
	var kind, phase, createdAt, updatedAt string
	var deadline sql.NullString

	err := row.Scan(
		&s.ID, &kind, &s.TeamID, &s.CounterpartyID, &s.Season,
		&phase, &s.MaxRounds, &deadline, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.Kind = Kind(kind)
	s.Phase = Phase(phase)
	if deadline.Valid {
		s.Deadline = parseTime(deadline.String)
	}
	s.CreatedAt = parseTime(createdAt)
	s.UpdatedAt = parseTime(updatedAt)

	return &s, nil
}

// parseTime reads the RFC3339 timestamps this repository writes. A
// malformed value reads as the zero time rather than failing a load.
func parseTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
