// Package negotiation implements the multi-round negotiation protocol:
// sessions, rounds, tagged terms payloads and the phase state machine.
// The package owns the rules of the conversation; what each party decides
// lives in the evaluator packages.
package negotiation

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultMaxRounds bounds how long a negotiation can drag on when the
// caller does not say otherwise.
const DefaultMaxRounds = 5

// Side identifies which party authored a round.
type Side string

const (
	SideTeam         Side = "TEAM"
	SideCounterparty Side = "COUNTERPARTY"
)

// Opposite returns the other side of the table.
func (s Side) Opposite() Side {
	if s == SideTeam {
		return SideCounterparty
	}
	return SideTeam
}

// Phase is the lifecycle state of a session.
type Phase string

const (
	PhaseAwaitingResponse Phase = "AWAITING_RESPONSE"
	PhaseResponseReceived Phase = "RESPONSE_RECEIVED"
	PhaseCompleted        Phase = "COMPLETED"
	PhaseFailed           Phase = "FAILED"
)

// phaseTransitions is the explicit legal-move table. Anything not listed
// is rejected.
var phaseTransitions = map[Phase]map[Phase]bool{
	PhaseAwaitingResponse: {PhaseResponseReceived: true, PhaseFailed: true},
	PhaseResponseReceived: {PhaseAwaitingResponse: true, PhaseCompleted: true, PhaseFailed: true},
	PhaseCompleted:        {},
	PhaseFailed:           {},
}

// CanTransition reports whether moving from p to next is legal.
func (p Phase) CanTransition(next Phase) bool {
	return phaseTransitions[p][next]
}

// Terminal reports whether the session can never change again.
func (p Phase) Terminal() bool {
	return p == PhaseCompleted || p == PhaseFailed
}

// Round is one proposal in a session. Rounds are immutable once appended;
// a changed offer is a new round.
type Round struct {
	Number     int       `json:"number"`
	OfferedBy  Side      `json:"offered_by"`
	Terms      Terms     `json:"terms"`
	Ultimatum  bool      `json:"ultimatum"`
	ProposedAt time.Time `json:"proposed_at"`
}

// Session is one negotiation between a team and a counterparty (driver,
// chief or sponsor). Rounds append in order; the newest round is always
// the live proposal.
type Session struct {
	ID             string    `json:"id"`
	Kind           Kind      `json:"kind"`
	TeamID         string    `json:"team_id"`
	CounterpartyID string    `json:"counterparty_id"`
	Season         int       `json:"season"`
	Phase          Phase     `json:"phase"`
	MaxRounds      int       `json:"max_rounds"`
	Deadline       time.Time `json:"deadline,omitempty"`
	Rounds         []Round   `json:"rounds"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewSession opens a fresh session in PhaseAwaitingResponse. The first
// proposal must be appended before any evaluator sees the session.
func NewSession(kind Kind, teamID, counterpartyID string, season, maxRounds int) (*Session, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if teamID == "" || counterpartyID == "" {
		return nil, ErrMissingParty
	}
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}

	now := time.Now().UTC()
	return &Session{
		ID:             uuid.NewString(),
		Kind:           kind,
		TeamID:         teamID,
		CounterpartyID: counterpartyID,
		Season:         season,
		Phase:          PhaseAwaitingResponse,
		MaxRounds:      maxRounds,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// CurrentRound returns the live proposal. An empty round sequence is a
// protocol defect, not a game state.
func (s *Session) CurrentRound() (Round, error) {
	if len(s.Rounds) == 0 {
		return Round{}, ErrNoRounds
	}
	return s.Rounds[len(s.Rounds)-1], nil
}

// WhoseTurn returns the side expected to respond to the live proposal.
func (s *Session) WhoseTurn() (Side, error) {
	current, err := s.CurrentRound()
	if err != nil {
		return "", err
	}
	return current.OfferedBy.Opposite(), nil
}

// Propose appends a new round from the given side. It enforces the
// protocol: terms must match the kind, sides must alternate, ultimatums
// cannot be countered and closed sessions stay closed.
func (s *Session) Propose(side Side, terms Terms, ultimatum bool) error {
	if s.Phase.Terminal() {
		return ErrSessionClosed
	}
	if terms == nil || !terms.AppliesTo(s.Kind) {
		return fmt.Errorf("%w: kind %s", ErrTermsKind, s.Kind)
	}
	if len(s.Rounds) >= s.MaxRounds {
		return ErrRoundLimit
	}

	if len(s.Rounds) == 0 {
		if s.Phase != PhaseAwaitingResponse {
			return fmt.Errorf("%w: first proposal in phase %s", ErrPhaseTransition, s.Phase)
		}
	} else {
		last := s.Rounds[len(s.Rounds)-1]
		if last.OfferedBy == side {
			return ErrNotYourTurn
		}
		if last.Ultimatum {
			return ErrUltimatumStands
		}
		// A counter is only legal once the previous response was recorded.
		if err := s.Transition(PhaseAwaitingResponse); err != nil {
			return err
		}
	}

	s.Rounds = append(s.Rounds, Round{
		Number:     len(s.Rounds) + 1,
		OfferedBy:  side,
		Terms:      terms,
		Ultimatum:  ultimatum,
		ProposedAt: time.Now().UTC(),
	})
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// Transition moves the session to the given phase, rejecting any move the
// transition table does not allow.
func (s *Session) Transition(next Phase) error {
	if !s.Phase.CanTransition(next) {
		return fmt.Errorf("%w: %s -> %s", ErrPhaseTransition, s.Phase, next)
	}
	s.Phase = next
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// MarkResponded records that the awaited party has answered the live
// proposal.
func (s *Session) MarkResponded() error {
	return s.Transition(PhaseResponseReceived)
}

// Complete closes the session as an agreement.
func (s *Session) Complete() error {
	return s.Transition(PhaseCompleted)
}

// Fail closes the session without an agreement. Legal from any live
// phase: rejections, expiries and withdrawals all land here.
func (s *Session) Fail() error {
	return s.Transition(PhaseFailed)
}

// Expired reports whether the session blew past its response deadline
// without closing.
func (s *Session) Expired(now time.Time) bool {
	if s.Phase.Terminal() || s.Deadline.IsZero() {
		return false
	}
	return now.After(s.Deadline)
}

// AtFinalRound reports whether the next counter would be the last allowed
// round, which is when counters escalate to ultimatums.
func (s *Session) AtFinalRound() bool {
	return len(s.Rounds) >= s.MaxRounds-1
}
