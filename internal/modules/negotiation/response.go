package negotiation

// Action classifies a party's answer to the live proposal.
type Action string

const (
	ActionAccept  Action = "ACCEPT"
	ActionCounter Action = "COUNTER"
	ActionReject  Action = "REJECT"
)

// Tone colours how the answer is delivered. The UI renders it; the
// engine derives it from how far apart the parties are.
type Tone string

const (
	ToneEnthusiastic Tone = "ENTHUSIASTIC"
	ToneProfessional Tone = "PROFESSIONAL"
	ToneDisappointed Tone = "DISAPPOINTED"
)

// Response is the single record every evaluator returns. The session
// service applies it: appends counter rounds, closes the session, applies
// the relationship delta and schedules the reply.
type Response struct {
	Action       Action `json:"action"`
	CounterTerms Terms  `json:"counter_terms,omitempty"` // nil unless Action is ActionCounter

	Tone              Tone   `json:"tone"`
	ResponseDelayDays int    `json:"response_delay_days"`
	Newsworthy        bool   `json:"newsworthy"`
	RelationshipDelta int    `json:"relationship_delta"`
	Ultimatum         bool   `json:"ultimatum"`
	Reason            string `json:"reason,omitempty"`
}

// Accepted is a convenience predicate for callers that only care whether
// a deal closed.
func (r Response) Accepted() bool {
	return r.Action == ActionAccept
}
