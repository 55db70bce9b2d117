// Package drivers implements the driver's side of contract negotiations
// and the transfer-market reasoning teams use to shortlist drivers.
//
// Everything here is pure: an evaluation reads a driver snapshot, a team
// snapshot and a market context, and returns a response record. Applying
// that response to a session is the negotiation service's job.
package drivers

import (
	"fmt"
	"math"

	"github.com/apexsim/paddock/internal/domain"
	"github.com/apexsim/paddock/internal/modules/market"
	"github.com/apexsim/paddock/internal/modules/negotiation"
	"github.com/apexsim/paddock/internal/modules/valuation"
	"github.com/apexsim/paddock/pkg/formulas"
)

// Offer ratio ladder: offered salary divided by the driver's asking price.
const (
	InstantAcceptRatio = 2.0
	AcceptRatio        = 1.0
	CounterRatio       = 0.5
	DesperateRatio     = 0.2
)

// Seat pressure. Scarcity makes drivers settle, abundance makes them push.
const (
	DesperateSeatLimit = 2 // at most this many open seats left: take what is on the table
	ScarceSeatLimit    = 2 // counters under scarcity escalate to ultimatums
	CrowdedSeatLimit   = 6 // more open seats than this: leverage, counter even fair offers
)

// CounterPremium is what a driver with leverage asks on top of the
// asking price.
const CounterPremium = 1.10

// Career stage: young drivers chase seats, veterans chase paydays.
const (
	YoungAge            = 21
	VeteranAge          = 33
	YoungCareerWeight   = 0.3
	VeteranCareerWeight = 0.7
)

// GapSalaryScale bounds how far the ability vs team-quality gap moves the
// asking price: up to 5x for a star in a backmarker car, down to 1/5 for
// a journeyman in a title car.
const GapSalaryScale = 5.0

// RookieScoutSpread is the size of the team-specific perception error when
// judging drivers with no meaningful results.
const RookieScoutSpread = 0.10

// Tone thresholds: a coarser re-bucketing of the same offer ratio.
const (
	enthusiasticRatio = 1.2
	professionalRatio = 0.6
)

const (
	relationshipAccept = 5
	relationshipReject = -3
)

// Reply delays in days.
const (
	delayInstant = 1
	delayAccept  = 2
	delayCounter = 3
	delayReject  = 2
)

// OfferInput carries everything the evaluation reads. Salary and Years
// come from the live round's compensation terms.
type OfferInput struct {
	Driver domain.Driver
	Team   domain.Team

	Salary float64
	Years  int

	Round     int
	MaxRounds int

	Market market.Context
}

// EvaluateOffer decides how a driver answers a contract offer.
// The decision is a pure function of the input: same snapshot, same answer.
func EvaluateOffer(in OfferInput) negotiation.Response {
	years := in.Years
	if years < 1 {
		years = 1
	}
	maxRounds := in.MaxRounds
	if maxRounds <= 0 {
		maxRounds = negotiation.DefaultMaxRounds
	}

	asking := RequiredSalary(in.Driver, in.Team, in.Market)
	ratio := 0.0
	if asking > 0 {
		ratio = in.Salary / asking
	}
	seats := in.Market.OpenSeats

	switch {
	case ratio >= InstantAcceptRatio:
		return accept(ratio, delayInstant, true,
			fmt.Sprintf("offer is %.1fx the asking price", ratio))

	case ratio >= AcceptRatio:
		if seats > CrowdedSeatLimit {
			// Plenty of teams still hiring: push for more even though
			// the offer already clears the asking price.
			return counter(ratio, asking*CounterPremium, years, in.Round, maxRounds, seats,
				fmt.Sprintf("%d open seats on the grid give room to push", seats))
		}
		return accept(ratio, delayAccept, false, "offer meets the asking price")

	case ratio >= CounterRatio:
		return counter(ratio, asking, years, in.Round, maxRounds, seats,
			fmt.Sprintf("offer sits at %.0f%% of the asking price", ratio*100))

	case ratio >= DesperateRatio:
		if seats <= DesperateSeatLimit {
			return accept(ratio, delayAccept, false,
				fmt.Sprintf("only %d seats left on the grid", seats))
		}
		return reject(ratio, fmt.Sprintf("offer sits at %.0f%% of the asking price with seats still open", ratio*100))

	default:
		return reject(ratio, "offer is nowhere near the asking price")
	}
}

// RequiredSalary is what the driver considers a fair annual salary from
// this particular team: market value scaled by the gap between their own
// ability and the team's standing.
func RequiredSalary(d domain.Driver, team domain.Team, m market.Context) float64 {
	value := valuation.MarketValue(d.ID, d.History, m.Drivers)

	quality := formulas.NeutralScore
	if pos, ok := m.Position(team.ID); ok {
		quality = valuation.TeamQuality(pos, m.TotalTeams)
	}

	gap := AbilityScore(d) - quality
	return value * gapMultiplier(gap, careerWeight(d.Age))
}

// AbilityScore flattens the seven attributes into [0, 1].
func AbilityScore(d domain.Driver) float64 {
	total := float64(domain.DriverAttributeCount * domain.AttributeScale)
	return formulas.Clamp01(float64(d.Attributes.Total()) / total)
}

// careerWeight grows linearly from YoungCareerWeight at YoungAge to
// VeteranCareerWeight at VeteranAge. Veterans press their demands harder;
// young drivers care more about getting a seat at all.
func careerWeight(age int) float64 {
	switch {
	case age <= YoungAge:
		return YoungCareerWeight
	case age >= VeteranAge:
		return VeteranCareerWeight
	}
	t := float64(age-YoungAge) / float64(VeteranAge-YoungAge)
	return YoungCareerWeight + t*(VeteranCareerWeight-YoungCareerWeight)
}

// gapMultiplier maps the weighted ability/team-quality gap onto a salary
// scale in [1/GapSalaryScale, GapSalaryScale]. Zero gap means market rate.
func gapMultiplier(gap, weight float64) float64 {
	exponent := formulas.Clamp(gap*weight/VeteranCareerWeight, -1, 1)
	return math.Pow(GapSalaryScale, exponent)
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

func counter(ratio, askingSalary float64, years, round, maxRounds, seats int, reason string) negotiation.Response {
	ultimatum := round >= maxRounds-1 || seats <= ScarceSeatLimit

	tone := toneFor(ratio)
	if tone == negotiation.ToneEnthusiastic {
		tone = negotiation.ToneProfessional
	}

	return negotiation.Response{
		Action: negotiation.ActionCounter,
		CounterTerms: negotiation.CompensationTerms{
			AnnualSalary: math.Round(askingSalary),
			Years:        years,
		},
		Tone:              tone,
		ResponseDelayDays: delayCounter,
		Newsworthy:        ultimatum,
		RelationshipDelta: 0,
		Ultimatum:         ultimatum,
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
