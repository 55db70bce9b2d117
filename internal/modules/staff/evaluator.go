// Package staff implements the department chief's side of contract
// negotiations: scouting grades, salary expectations and offer responses.
// Like the driver package, everything is pure and snapshot-driven.
package staff

import (
	"fmt"
	"math"

	"github.com/apexsim/paddock/internal/domain"
	"github.com/apexsim/paddock/internal/modules/market"
	"github.com/apexsim/paddock/internal/modules/negotiation"
	"github.com/apexsim/paddock/internal/modules/valuation"
	"github.com/apexsim/paddock/pkg/formulas"
	"github.com/apexsim/paddock/pkg/seeded"
)

// Salary curve: expectations grow convexly with ability, so the elite few
// cost disproportionately more than solid mid-tier chiefs.
const (
	SalaryFloor         = 150_000.0
	SalaryCeiling       = 3_000_000.0
	SalaryCurveExponent = 2.5

	// GreedSpread individualises the expectation per chief.
	GreedSpread = 0.15
)

// Career progression: mid-band chiefs discount their expectation to join
// a genuinely prestigious team, the way real careers trade money for a
// bigger stage. Elite chiefs have nothing left to prove and discount
// nothing.
const (
	DiscountMax        = 0.20
	DiscountAbilityMin = 50
	DiscountAbilityMax = 85
	PrestigeThreshold  = 0.7
)

// Offer shape: signing bonuses count at half weight spread over the
// contract, and contracts beyond the preferred length lose value.
const (
	SigningBonusWeight  = 0.5
	PreferredMaxYears   = 3
	DurationPenaltyStep = 0.05
)

// Offer ratio ladder (offer value / discounted expectation).
const (
	InstantAcceptRatio = 2.0
	AcceptRatio        = 1.0
	CounterRatio       = 0.5
)

// SalaryCloseRatio marks when the salary alone is near enough that a
// counter haggles over the signing bonus instead.
const SalaryCloseRatio = 0.90

const (
	enthusiasticRatio = 1.2
	professionalRatio = 0.6
)

const (
	relationshipAccept = 5
	relationshipReject = -3
)

const (
	delayInstant = 1
	delayAccept  = 2
	delayCounter = 4
	delayReject  = 3
)

// OfferInput carries everything a chief reads before answering an offer.
type OfferInput struct {
	Chief domain.Chief
	Team  domain.Team

	Salary       float64
	SigningBonus float64
	Years        int

	Round     int
	MaxRounds int

	Market market.Context
}

// MarketSalary is what a chief believes they are worth per year: the
// convex ability curve adjusted by their individual greed.
func MarketSalary(c domain.Chief) float64 {
	ability := formulas.Clamp(float64(c.Ability), 0, 100)
	base := SalaryFloor + math.Pow(ability/100, SalaryCurveExponent)*(SalaryCeiling-SalaryFloor)
	return base * (1 + seeded.Jitter(GreedSpread, c.ID, "greed"))
}

// CareerDiscount is how much of the expectation a chief waives to join
// this particular team. Zero unless the chief sits in the mid ability
// band and the team is genuinely prestigious; within the band, weaker
// chiefs discount more because the move means more to them.
func CareerDiscount(c domain.Chief, team domain.Team, m market.Context) float64 {
	if c.Ability < DiscountAbilityMin || c.Ability > DiscountAbilityMax {
		return 0
	}
	prestige := valuation.TeamPrestige(team.Budget, m.Budgets())
	if prestige < PrestigeThreshold {
		return 0
	}
	span := float64(DiscountAbilityMax - DiscountAbilityMin)
	return DiscountMax * float64(DiscountAbilityMax-c.Ability) / span
}

// OfferValue flattens an offer into one annual figure: salary plus the
// half-weighted signing bonus amortised over the contract, penalised when
// the contract runs past the preferred length.
func OfferValue(salary, signingBonus float64, years int) float64 {
	if years < 1 {
		years = 1
	}
	value := salary + SigningBonusWeight*signingBonus/float64(years)
	if years > PreferredMaxYears {
		penalty := DurationPenaltyStep * float64(years-PreferredMaxYears)
		value *= math.Max(0, 1-penalty)
	}
	return value
}

// EvaluateOffer decides how a chief answers a contract offer.
func EvaluateOffer(in OfferInput) negotiation.Response {
	years := in.Years
	if years < 1 {
		years = 1
	}
	maxRounds := in.MaxRounds
	if maxRounds <= 0 {
		maxRounds = negotiation.DefaultMaxRounds
	}

	expected := MarketSalary(in.Chief) * (1 - CareerDiscount(in.Chief, in.Team, in.Market))
	value := OfferValue(in.Salary, in.SigningBonus, years)
	ratio := 0.0
	if expected > 0 {
		ratio = value / expected
	}

	switch {
	case ratio >= InstantAcceptRatio:
		return accept(ratio, delayInstant, true,
			fmt.Sprintf("package worth %.1fx the expectation", ratio))

	case ratio >= AcceptRatio:
		return accept(ratio, delayAccept, false, "package meets the expectation")

	case ratio >= CounterRatio:
		return counterOffer(in, expected, years, maxRounds, ratio)

	default:
		return reject(ratio, "package too far below the expectation")
	}
}

// counterOffer builds the chief's counter. When the salary alone is
// already close, the haggling moves to the signing bonus; otherwise the
// counter restates the expected salary. Either way the countered contract
// never runs past the preferred length.
func counterOffer(in OfferInput, expected float64, years, maxRounds int, ratio float64) negotiation.Response {
	counterYears := years
	if counterYears > PreferredMaxYears {
		counterYears = PreferredMaxYears
	}

	var terms negotiation.CompensationTerms
	var reason string
	if in.Salary >= SalaryCloseRatio*expected {
		bonus := in.SigningBonus
		if gap := expected - in.Salary; gap > 0 {
			bonus = in.SigningBonus + gap*float64(counterYears)/SigningBonusWeight
		}
		terms = negotiation.CompensationTerms{
			AnnualSalary: math.Round(in.Salary),
			SigningBonus: math.Round(bonus),
			Years:        counterYears,
		}
		reason = "salary is close, asking for a signing bonus to bridge the rest"
	} else {
		terms = negotiation.CompensationTerms{
			AnnualSalary: math.Round(expected),
			SigningBonus: math.Round(in.SigningBonus),
			Years:        counterYears,
		}
		reason = fmt.Sprintf("package sits at %.0f%% of the expectation", ratio*100)
	}

	ultimatum := in.Round >= maxRounds-1

	tone := toneFor(ratio)
	if tone == negotiation.ToneEnthusiastic {
		tone = negotiation.ToneProfessional
	}

	return negotiation.Response{
		Action:            negotiation.ActionCounter,
		CounterTerms:      terms,
		Tone:              tone,
		ResponseDelayDays: delayCounter,
		Newsworthy:        ultimatum,
		RelationshipDelta: 0,
		Ultimatum:         ultimatum,
		Reason:            reason,
	}
}

func accept(ratio float64, delay int, newsworthy bool, reason string) negotiation.Response {
	return negotiation.Response{
		Action:            negotiation.ActionAccept,
		Tone:              toneFor(ratio),
		ResponseDelayDays: delay,
		Newsworthy:        newsworthy,
		RelationshipDelta: relationshipAccept,
		Reason:            reason,
	}
}

func reject(ratio float64, reason string) negotiation.Response {
	return negotiation.Response{
		Action:            negotiation.ActionReject,
		Tone:              toneFor(ratio),
		ResponseDelayDays: delayReject,
		RelationshipDelta: relationshipReject,
		Reason:            reason,
	}
}

func toneFor(ratio float64) negotiation.Tone {
	switch {
	case ratio >= enthusiasticRatio:
		return negotiation.ToneEnthusiastic
	case ratio >= professionalRatio:
		return negotiation.ToneProfessional
	default:
		return negotiation.ToneDisappointed
	}
}
