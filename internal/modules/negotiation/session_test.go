package negotiation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDriverSession(t *testing.T) *Session {
	t.Helper()
	s, err := NewSession(KindDriver, "team-red", "driver-7", 2031, 5)
	require.NoError(t, err)
	return s
}

func TestNewSession_Defaults(t *testing.T) {
	s, err := NewSession(KindSponsor, "team-red", "sponsor-oil", 2031, 0)

	require.NoError(t, err)
	assert.NotEmpty(t, s.ID, "Sessions must get an identifier")
	assert.Equal(t, PhaseAwaitingResponse, s.Phase, "Fresh sessions await the first response")
	assert.Equal(t, DefaultMaxRounds, s.MaxRounds, "Zero max rounds falls back to the default")
}

func TestNewSession_Validation(t *testing.T) {
	_, err := NewSession(Kind("BALLET"), "team-red", "driver-7", 2031, 5)
	assert.ErrorIs(t, err, ErrUnknownKind, "Unknown kinds must be refused")

	_, err = NewSession(KindDriver, "", "driver-7", 2031, 5)
	assert.ErrorIs(t, err, ErrMissingParty, "A session needs both parties")
}

func TestCurrentRound_EmptySessionIsADefect(t *testing.T) {
	s := newDriverSession(t)

	_, err := s.CurrentRound()
	assert.ErrorIs(t, err, ErrNoRounds, "Reading a proposal that was never made is a protocol defect")
}

func TestPropose_AppendsAndExposesLatest(t *testing.T) {
	s := newDriverSession(t)

	require.NoError(t, s.Propose(SideTeam, CompensationTerms{AnnualSalary: 2_000_000, Years: 2}, false))
	require.NoError(t, s.MarkResponded())
	require.NoError(t, s.Propose(SideCounterparty, CompensationTerms{AnnualSalary: 3_500_000, Years: 2}, false))

	current, err := s.CurrentRound()
	require.NoError(t, err)
	assert.Equal(t, 2, current.Number, "Round numbers grow with each proposal")
	assert.Equal(t, SideCounterparty, current.OfferedBy, "The newest round is the live proposal")

	terms, ok := current.Terms.(CompensationTerms)
	require.True(t, ok, "Driver sessions carry compensation terms")
	assert.Equal(t, 3_500_000.0, terms.AnnualSalary, "The counter terms must be readable from the opposite perspective")

	turn, err := s.WhoseTurn()
	require.NoError(t, err)
	assert.Equal(t, SideTeam, turn, "After a counter the team is on the clock")
}

func TestPropose_RejectsWrongTermsKind(t *testing.T) {
	s := newDriverSession(t)

	err := s.Propose(SideTeam, SponsorshipTerms{AnnualPayment: 5_000_000, Years: 2}, false)
	assert.ErrorIs(t, err, ErrTermsKind, "Sponsorship terms can never enter a driver negotiation")

	err = s.Propose(SideTeam, nil, false)
	assert.ErrorIs(t, err, ErrTermsKind, "Missing terms are a defect, not an empty offer")
}

func TestPropose_EnforcesTurnAlternation(t *testing.T) {
	s := newDriverSession(t)

	require.NoError(t, s.Propose(SideTeam, CompensationTerms{AnnualSalary: 1_000_000, Years: 1}, false))
	require.NoError(t, s.MarkResponded())

	err := s.Propose(SideTeam, CompensationTerms{AnnualSalary: 1_200_000, Years: 1}, false)
	assert.ErrorIs(t, err, ErrNotYourTurn, "A side cannot hold two open proposals")
}

func TestPropose_UltimatumCannotBeCountered(t *testing.T) {
	s := newDriverSession(t)

	require.NoError(t, s.Propose(SideTeam, CompensationTerms{AnnualSalary: 1_000_000, Years: 1}, true))
	require.NoError(t, s.MarkResponded())

	err := s.Propose(SideCounterparty, CompensationTerms{AnnualSalary: 2_000_000, Years: 1}, false)
	assert.ErrorIs(t, err, ErrUltimatumStands, "Ultimatums resolve to accept or reject only")
}

func TestPropose_CounterRequiresRecordedResponse(t *testing.T) {
	s := newDriverSession(t)

	require.NoError(t, s.Propose(SideTeam, CompensationTerms{AnnualSalary: 1_000_000, Years: 1}, false))

	err := s.Propose(SideCounterparty, CompensationTerms{AnnualSalary: 2_000_000, Years: 1}, false)
	assert.ErrorIs(t, err, ErrPhaseTransition, "Counters only follow a recorded response")
}

func TestPropose_RoundLimit(t *testing.T) {
	s, err := NewSession(KindDriver, "team-red", "driver-7", 2031, 2)
	require.NoError(t, err)

	require.NoError(t, s.Propose(SideTeam, CompensationTerms{AnnualSalary: 1_000_000, Years: 1}, false))
	require.NoError(t, s.MarkResponded())
	require.NoError(t, s.Propose(SideCounterparty, CompensationTerms{AnnualSalary: 2_000_000, Years: 1}, false))
	require.NoError(t, s.MarkResponded())

	err = s.Propose(SideTeam, CompensationTerms{AnnualSalary: 1_500_000, Years: 1}, false)
	assert.ErrorIs(t, err, ErrRoundLimit, "Sessions cannot exceed their round budget")
}

func TestPhaseMachine_LegalMoves(t *testing.T) {
	assert.True(t, PhaseAwaitingResponse.CanTransition(PhaseResponseReceived))
	assert.True(t, PhaseAwaitingResponse.CanTransition(PhaseFailed), "Expiry can fail a waiting session")
	assert.True(t, PhaseResponseReceived.CanTransition(PhaseAwaitingResponse), "A counter reopens the wait")
	assert.True(t, PhaseResponseReceived.CanTransition(PhaseCompleted))
	assert.True(t, PhaseResponseReceived.CanTransition(PhaseFailed))
}

func TestPhaseMachine_IllegalMoves(t *testing.T) {
	assert.False(t, PhaseAwaitingResponse.CanTransition(PhaseCompleted), "A deal cannot close without a response")
	assert.False(t, PhaseCompleted.CanTransition(PhaseFailed), "Closed sessions stay closed")
	assert.False(t, PhaseFailed.CanTransition(PhaseAwaitingResponse), "Failed sessions stay failed")
}

func TestTransition_RejectsIllegalMove(t *testing.T) {
	s := newDriverSession(t)

	err := s.Transition(PhaseCompleted)
	assert.ErrorIs(t, err, ErrPhaseTransition)
	assert.Equal(t, PhaseAwaitingResponse, s.Phase, "A rejected transition must not move the phase")
}

func TestSessionLifecycle_AcceptPath(t *testing.T) {
	s := newDriverSession(t)

	require.NoError(t, s.Propose(SideTeam, CompensationTerms{AnnualSalary: 4_000_000, Years: 3}, false))
	require.NoError(t, s.MarkResponded())
	require.NoError(t, s.Complete())

	assert.True(t, s.Phase.Terminal())
	assert.ErrorIs(t, s.Propose(SideCounterparty, CompensationTerms{AnnualSalary: 1, Years: 1}, false), ErrSessionClosed)
}

func TestExpired(t *testing.T) {
	s := newDriverSession(t)
	now := time.Now().UTC()

	assert.False(t, s.Expired(now), "No deadline means no expiry")

	s.Deadline = now.Add(-time.Hour)
	assert.True(t, s.Expired(now), "Past deadline on a live session expires it")

	require.NoError(t, s.Fail())
	assert.False(t, s.Expired(now), "Closed sessions cannot expire")
}

func TestAtFinalRound(t *testing.T) {
	s, err := NewSession(KindSponsor, "team-red", "sponsor-oil", 2031, 3)
	require.NoError(t, err)

	require.NoError(t, s.Propose(SideTeam, SponsorshipTerms{AnnualPayment: 1_000_000, Years: 2}, false))
	assert.False(t, s.AtFinalRound())

	require.NoError(t, s.MarkResponded())
	require.NoError(t, s.Propose(SideCounterparty, SponsorshipTerms{AnnualPayment: 800_000, Years: 2}, false))
	assert.True(t, s.AtFinalRound(), "One coming round left means the next counter is final")
}

func TestSideOpposite(t *testing.T) {
	assert.Equal(t, SideCounterparty, SideTeam.Opposite())
	assert.Equal(t, SideTeam, SideCounterparty.Opposite())
}
