package staff

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apexsim/paddock/internal/domain"
	"github.com/apexsim/paddock/internal/modules/market"
	"github.com/apexsim/paddock/internal/modules/negotiation"
)

func chief(ability int) domain.Chief {
	return domain.Chief{
		ID:         "chief-tw",
		Name:       "T. Wright",
		Age:        45,
		Department: domain.DepartmentEngineering,
		Ability:    ability,
	}
}

// twoTierMarket has one wealthy and one poor team, so prestige is 1.0
// and 0.0 respectively.
func twoTierMarket() market.Context {
	return market.Context{
		Season: 2031,
		Teams: []domain.Team{
			{ID: "team-rich", Budget: 400_000_000, Seats: 2},
			{ID: "team-poor", Budget: 80_000_000, Seats: 2},
		},
		Standings:  map[string]int{"team-rich": 1, "team-poor": 2},
		TotalTeams: 2,
	}
}

func staffOffer(c domain.Chief, teamID string, salary, bonus float64, years int) OfferInput {
	m := twoTierMarket()
	team, _ := m.TeamByID(teamID)
	return OfferInput{
		Chief:        c,
		Team:         team,
		Salary:       salary,
		SigningBonus: bonus,
		Years:        years,
		Round:        1,
		MaxRounds:    5,
		Market:       m,
	}
}

func TestMarketSalary_BoundsAndGreed(t *testing.T) {
	weak := MarketSalary(chief(0))
	elite := MarketSalary(chief(100))

	assert.InDelta(t, SalaryFloor, weak, SalaryFloor*GreedSpread, "Zero ability sits at the floor give or take greed")
	assert.InDelta(t, SalaryCeiling, elite, SalaryCeiling*GreedSpread, "Full ability sits at the ceiling give or take greed")
}

func TestMarketSalary_ConvexInAbility(t *testing.T) {
	// Same chief id keeps the greed factor constant, isolating the curve.
	low := MarketSalary(chief(20))
	mid := MarketSalary(chief(40))
	high := MarketSalary(chief(60))
	top := MarketSalary(chief(80))

	assert.Greater(t, top-high, mid-low, "Each ability step costs more than the last")
}

func TestMarketSalary_GreedIsIndividual(t *testing.T) {
	a := domain.Chief{ID: "chief-a", Ability: 70}
	b := domain.Chief{ID: "chief-b", Ability: 70}

	assert.NotEqual(t, MarketSalary(a), MarketSalary(b), "Two equal chiefs still want different money")
	assert.Equal(t, MarketSalary(a), MarketSalary(a), "A chief's expectation is stable")
}

func TestCareerDiscount_OnlyMidBandAtPrestigiousTeams(t *testing.T) {
	m := twoTierMarket()
	rich, _ := m.TeamByID("team-rich")
	poor, _ := m.TeamByID("team-poor")

	assert.Equal(t, DiscountMax, CareerDiscount(chief(50), rich, m), "The bottom of the band discounts the most")
	assert.Equal(t, 0.0, CareerDiscount(chief(85), rich, m), "The top of the band discounts nothing")
	assert.InDelta(t, DiscountMax/2, CareerDiscount(chief(67), rich, m), 0.01, "Mid band scales linearly")

	assert.Equal(t, 0.0, CareerDiscount(chief(49), rich, m), "Below the band there is no career move")
	assert.Equal(t, 0.0, CareerDiscount(chief(90), rich, m), "Elite chiefs have nothing to prove")
	assert.Equal(t, 0.0, CareerDiscount(chief(60), poor, m), "No discount without prestige")
}

func TestOfferValue_BonusAmortisedAtHalfWeight(t *testing.T) {
	assert.Equal(t, 1_100_000.0, OfferValue(1_000_000, 400_000, 2), "Half the bonus spread over two years adds 100k/yr")
}

func TestOfferValue_DurationPenalty(t *testing.T) {
	within := OfferValue(100_000, 0, 3)
	beyond := OfferValue(100_000, 0, 6)

	assert.Equal(t, 100_000.0, within, "Preferred-length contracts carry no penalty")
	assert.Equal(t, 85_000.0, beyond, "Each year past the cap shaves five percent")
}

func TestEvaluateOffer_AcceptAtExpectation(t *testing.T) {
	c := chief(70)
	resp := EvaluateOffer(staffOffer(c, "team-poor", MarketSalary(c), 0, 2))

	assert.Equal(t, negotiation.ActionAccept, resp.Action, "Meeting the expectation closes the deal")
	assert.Equal(t, 5, resp.RelationshipDelta)
}

func TestEvaluateOffer_InstantAcceptAtDouble(t *testing.T) {
	c := chief(70)
	resp := EvaluateOffer(staffOffer(c, "team-poor", MarketSalary(c)*2, 0, 2))

	assert.Equal(t, negotiation.ActionAccept, resp.Action)
	assert.True(t, resp.Newsworthy, "Blockbuster staff signings make the news")
	assert.Equal(t, negotiation.ToneEnthusiastic, resp.Tone)
	assert.Equal(t, 1, resp.ResponseDelayDays)
}

func TestEvaluateOffer_RejectFarBelowExpectation(t *testing.T) {
	c := chief(70)
	resp := EvaluateOffer(staffOffer(c, "team-poor", MarketSalary(c)*0.3, 0, 2))

	assert.Equal(t, negotiation.ActionReject, resp.Action)
	assert.Equal(t, -3, resp.RelationshipDelta)
	assert.Equal(t, negotiation.ToneDisappointed, resp.Tone)
}

func TestEvaluateOffer_CounterRestatesExpectedSalary(t *testing.T) {
	c := chief(70)
	expected := MarketSalary(c)
	resp := EvaluateOffer(staffOffer(c, "team-poor", expected*0.6, 0, 2))

	require.Equal(t, negotiation.ActionCounter, resp.Action)
	terms, ok := resp.CounterTerms.(negotiation.CompensationTerms)
	require.True(t, ok)
	assert.Equal(t, math.Round(expected), terms.AnnualSalary, "A low salary counter asks for the full expectation")
	assert.Equal(t, 0, resp.RelationshipDelta)
}

func TestEvaluateOffer_NearMissCountersOnSigningBonus(t *testing.T) {
	c := chief(70)
	expected := MarketSalary(c)
	resp := EvaluateOffer(staffOffer(c, "team-poor", expected*0.95, 0, 2))

	require.Equal(t, negotiation.ActionCounter, resp.Action)
	terms := resp.CounterTerms.(negotiation.CompensationTerms)
	assert.Equal(t, math.Round(expected*0.95), terms.AnnualSalary, "The salary stands when it is already close")
	assert.Greater(t, terms.SigningBonus, 0.0, "The gap moves into the signing bonus instead")

	bridged := OfferValue(terms.AnnualSalary, terms.SigningBonus, terms.Years)
	assert.InDelta(t, expected, bridged, 2.0, "The asked bonus bridges the gap exactly")
}

func TestEvaluateOffer_CounterCapsContractLength(t *testing.T) {
	c := chief(70)
	resp := EvaluateOffer(staffOffer(c, "team-poor", MarketSalary(c)*0.6, 0, 6))

	require.Equal(t, negotiation.ActionCounter, resp.Action)
	terms := resp.CounterTerms.(negotiation.CompensationTerms)
	assert.Equal(t, PreferredMaxYears, terms.Years, "Chiefs never counter with an over-long contract")
}

func TestEvaluateOffer_LateRoundUltimatum(t *testing.T) {
	c := chief(70)
	in := staffOffer(c, "team-poor", MarketSalary(c)*0.6, 0, 2)
	in.Round = 4

	resp := EvaluateOffer(in)

	require.Equal(t, negotiation.ActionCounter, resp.Action)
	assert.True(t, resp.Ultimatum, "The penultimate round turns staff counters into ultimatums")
}

func TestEvaluateOffer_PrestigeDiscountTipsTheDecision(t *testing.T) {
	c := chief(60)
	salary := MarketSalary(c) * 0.9

	atPoor := EvaluateOffer(staffOffer(c, "team-poor", salary, 0, 2))
	atRich := EvaluateOffer(staffOffer(c, "team-rich", salary, 0, 2))

	assert.Equal(t, negotiation.ActionCounter, atPoor.Action, "Without prestige 90% of the expectation gets countered")
	assert.Equal(t, negotiation.ActionAccept, atRich.Action, "The career move discount turns the same offer into a yes")
}

func TestEvaluateOffer_Deterministic(t *testing.T) {
	c := chief(70)
	in := staffOffer(c, "team-rich", MarketSalary(c)*0.8, 100_000, 4)

	assert.Equal(t, EvaluateOffer(in), EvaluateOffer(in), "Same snapshot, same answer")
}
