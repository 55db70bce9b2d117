package negotiation

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	paddocktesting "github.com/apexsim/paddock/internal/testing"
)

func setupRepository(t *testing.T) (*Repository, func()) {
	t.Helper()
	db, cleanup := paddocktesting.NewTestDB(t)
	return NewRepository(db.Conn(), zerolog.Nop()), cleanup
}

func TestRepository_SaveAndGetRoundTripsCompensationTerms(t *testing.T) {
	repo, cleanup := setupRepository(t)
	defer cleanup()

	s, err := NewSession(KindDriver, "team-red", "drv-1", 2031, 5)
	require.NoError(t, err)
	s.Deadline = time.Now().UTC().Add(48 * time.Hour)

	offer := CompensationTerms{AnnualSalary: 3_500_000, SigningBonus: 250_000, Years: 3}
	counter := CompensationTerms{AnnualSalary: 4_200_000, Years: 2}
	require.NoError(t, s.Propose(SideTeam, offer, false))
	require.NoError(t, s.MarkResponded())
	require.NoError(t, s.Propose(SideCounterparty, counter, true))

	require.NoError(t, repo.Save(s))

	got, err := repo.GetByID(s.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, KindDriver, got.Kind)
	assert.Equal(t, "team-red", got.TeamID)
	assert.Equal(t, "drv-1", got.CounterpartyID)
	assert.Equal(t, 2031, got.Season)
	assert.Equal(t, PhaseAwaitingResponse, got.Phase)
	assert.Equal(t, 5, got.MaxRounds)
	assert.True(t, got.Deadline.Equal(s.Deadline), "Deadline must survive the round trip")
	assert.True(t, got.CreatedAt.Equal(s.CreatedAt))

	require.Len(t, got.Rounds, 2)

	first := got.Rounds[0]
	assert.Equal(t, 1, first.Number)
	assert.Equal(t, SideTeam, first.OfferedBy)
	assert.False(t, first.Ultimatum)
	assert.Equal(t, offer, first.Terms, "Terms must decode to the exact concrete value")
	assert.True(t, first.ProposedAt.Equal(s.Rounds[0].ProposedAt))

	second := got.Rounds[1]
	assert.Equal(t, SideCounterparty, second.OfferedBy)
	assert.True(t, second.Ultimatum)
	assert.Equal(t, counter, second.Terms)
}

func TestRepository_SaveAndGetRoundTripsSponsorshipTerms(t *testing.T) {
	repo, cleanup := setupRepository(t)
	defer cleanup()

	s, err := NewSession(KindSponsor, "team-red", "spn-1", 2031, 5)
	require.NoError(t, err)

	terms := SponsorshipTerms{
		AnnualPayment: 1_461_111,
		Years:         1,
		WinBonus:      209_722,
		PodiumBonus:   83_889,
		PointsBonus:   8_389,
		ExitPosition:  6,
	}
	require.NoError(t, s.Propose(SideTeam, terms, false))
	require.NoError(t, repo.Save(s))

	got, err := repo.GetByID(s.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Rounds, 1)

	decoded, ok := got.Rounds[0].Terms.(SponsorshipTerms)
	require.True(t, ok, "Sponsor rounds must decode as sponsorship terms")
	assert.Equal(t, terms, decoded)
}

func TestRepository_GetByIDUnknownReturnsNil(t *testing.T) {
	repo, cleanup := setupRepository(t)
	defer cleanup()

	got, err := repo.GetByID("ses-ghost")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRepository_RoundsAreAppendOnlyOnDisk(t *testing.T) {
	repo, cleanup := setupRepository(t)
	defer cleanup()

	s, err := NewSession(KindStaff, "team-red", "chf-1", 2031, 5)
	require.NoError(t, err)
	original := CompensationTerms{AnnualSalary: 900_000, Years: 2}
	require.NoError(t, s.Propose(SideTeam, original, false))
	require.NoError(t, repo.Save(s))

	// A rewritten in-memory round must not overwrite what is already on
	// disk; only genuinely new rounds land.
	s.Rounds[0].Terms = CompensationTerms{AnnualSalary: 1, Years: 1}
	require.NoError(t, s.MarkResponded())
	counter := CompensationTerms{AnnualSalary: 1_100_000, SigningBonus: 50_000, Years: 2}
	require.NoError(t, s.Propose(SideCounterparty, counter, false))
	require.NoError(t, repo.Save(s))

	got, err := repo.GetByID(s.ID)
	require.NoError(t, err)
	require.Len(t, got.Rounds, 2)
	assert.Equal(t, original, got.Rounds[0].Terms, "Round one keeps its original terms")
	assert.Equal(t, counter, got.Rounds[1].Terms)
}

func TestRepository_SaveUpdatesPhaseAndDeadline(t *testing.T) {
	repo, cleanup := setupRepository(t)
	defer cleanup()

	s, err := NewSession(KindDriver, "team-red", "drv-1", 2031, 5)
	require.NoError(t, err)
	require.NoError(t, s.Propose(SideTeam, CompensationTerms{AnnualSalary: 2_000_000, Years: 2}, false))
	require.NoError(t, repo.Save(s))

	got, err := repo.GetByID(s.ID)
	require.NoError(t, err)
	assert.True(t, got.Deadline.IsZero(), "An unset deadline stores as NULL and reads back zero")

	s.Deadline = time.Now().UTC().Add(24 * time.Hour)
	require.NoError(t, s.MarkResponded())
	require.NoError(t, repo.Save(s))

	got, err = repo.GetByID(s.ID)
	require.NoError(t, err)
	assert.Equal(t, PhaseResponseReceived, got.Phase)
	assert.True(t, got.Deadline.Equal(s.Deadline))
}

func TestRepository_ListActiveSkipsClosedSessions(t *testing.T) {
	repo, cleanup := setupRepository(t)
	defer cleanup()

	open, err := NewSession(KindDriver, "team-red", "drv-1", 2031, 5)
	require.NoError(t, err)
	require.NoError(t, open.Propose(SideTeam, CompensationTerms{AnnualSalary: 1_000_000, Years: 1}, false))
	require.NoError(t, repo.Save(open))

	answered, err := NewSession(KindDriver, "team-red", "drv-2", 2031, 5)
	require.NoError(t, err)
	require.NoError(t, answered.Propose(SideTeam, CompensationTerms{AnnualSalary: 1_000_000, Years: 1}, false))
	require.NoError(t, answered.MarkResponded())
	require.NoError(t, repo.Save(answered))

	closed, err := NewSession(KindDriver, "team-red", "drv-3", 2031, 5)
	require.NoError(t, err)
	require.NoError(t, closed.Propose(SideTeam, CompensationTerms{AnnualSalary: 1_000_000, Years: 1}, false))
	require.NoError(t, closed.MarkResponded())
	require.NoError(t, closed.Complete())
	require.NoError(t, repo.Save(closed))

	active, err := repo.ListActive()
	require.NoError(t, err)
	require.Len(t, active, 2)

	ids := map[string]bool{}
	for _, s := range active {
		ids[s.ID] = true
		assert.NotEmpty(t, s.Rounds, "Active sessions come back with rounds attached")
	}
	assert.True(t, ids[open.ID])
	assert.True(t, ids[answered.ID])
	assert.False(t, ids[closed.ID])
}

func TestRepository_ListByTeam(t *testing.T) {
	repo, cleanup := setupRepository(t)
	defer cleanup()

	for _, party := range []struct{ team, counterparty string }{
		{"team-red", "drv-1"},
		{"team-red", "drv-2"},
		{"team-blue", "drv-3"},
	} {
		s, err := NewSession(KindDriver, party.team, party.counterparty, 2031, 5)
		require.NoError(t, err)
		require.NoError(t, s.Propose(SideTeam, CompensationTerms{AnnualSalary: 1_000_000, Years: 1}, false))
		require.NoError(t, repo.Save(s))
	}

	red, err := repo.ListByTeam("team-red")
	require.NoError(t, err)
	require.Len(t, red, 2)
	for _, s := range red {
		assert.Equal(t, "team-red", s.TeamID)
		assert.Len(t, s.Rounds, 1)
	}

	none, err := repo.ListByTeam("team-ghost")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestEncodeTerms_UnknownTypeIsADefect(t *testing.T) {
	_, _, err := EncodeTerms(nil)
	assert.ErrorIs(t, err, ErrTermsKind)
}

func TestDecodeTerms_UnknownDiscriminatorIsADefect(t *testing.T) {
	_, err := DecodeTerms("barter", []byte{0x80})
	assert.ErrorIs(t, err, ErrTermsKind)
}
