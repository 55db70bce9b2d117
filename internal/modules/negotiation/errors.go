package negotiation

import "errors"

// The conditions below are protocol defects, not game states. Evaluators
// and the session reject them loudly instead of guessing.
var (
	// ErrNoRounds means an evaluator expecting at least one proposal was
	// handed a session with an empty round sequence.
	ErrNoRounds = errors.New("negotiation: session has no rounds")

	// ErrTermsKind means a terms payload does not match the negotiation
	// kind, or is missing entirely.
	ErrTermsKind = errors.New("negotiation: terms do not match negotiation kind")

	// ErrNotYourTurn means a side tried to propose twice in a row.
	ErrNotYourTurn = errors.New("negotiation: side already holds the open proposal")

	// ErrUltimatumStands means a counter was attempted against an
	// ultimatum round. Ultimatums resolve to accept or reject only.
	ErrUltimatumStands = errors.New("negotiation: cannot counter an ultimatum")

	// ErrPhaseTransition means an illegal phase move was attempted.
	ErrPhaseTransition = errors.New("negotiation: illegal phase transition")

	// ErrSessionClosed means the session already completed or failed.
	ErrSessionClosed = errors.New("negotiation: session is closed")

	// ErrRoundLimit means the session already holds its maximum number
	// of rounds.
	ErrRoundLimit = errors.New("negotiation: round limit reached")

	// ErrUnknownKind means the session was created with an unrecognised
	// negotiation kind.
	ErrUnknownKind = errors.New("negotiation: unknown negotiation kind")

	// ErrMissingParty means a session was created without both parties.
	ErrMissingParty = errors.New("negotiation: both parties are required")
)
