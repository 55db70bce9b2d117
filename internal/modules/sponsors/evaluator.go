// Package sponsors implements the sponsor's side of sponsorship
// negotiations. Unlike drivers and staff, the sponsor evaluator is
// session-driven: it reads the live round straight off the session and
// answers it, because sponsorship counters restructure the whole package
// rather than haggling over one number.
package sponsors

import (
	"fmt"
	"math"

	"github.com/apexsim/paddock/internal/domain"
	"github.com/apexsim/paddock/internal/modules/market"
	"github.com/apexsim/paddock/internal/modules/negotiation"
	"github.com/apexsim/paddock/internal/modules/valuation"
	"github.com/apexsim/paddock/pkg/formulas"
)

// Reputation gates. A team far below the sponsor's bar gets no deal at
// all; a team somewhat below it gets a deal wrapped in protections.
const (
	HardGateFactor = 0.70
	SoftGateFactor = 0.90
)

// Payment ratio ladder: what the sponsor is willing to pay divided by
// what the team asked for.
const (
	InstantAcceptRatio = 0.95
	RejectRatio        = 0.60
)

// Willingness shaping around the sponsor's base payment.
const (
	PremiumRepRatio = 1.20 // reputation ratio at which the premium maxes out
	PremiumMax      = 0.25 // up to 25% above base for teams it covets
	DiscountFloor   = 0.70 // never below 70% of base for teams it merely tolerates
)

// Counter structure: shave the fixed payment, shift money into
// performance bonuses, shorten the horizon when the team looks shaky.
const (
	CounterPaymentCut  = 0.15
	CounterBonusScale  = 0.50
	HighRiskProtection = 0.5
	HighRiskYears      = 1
	ModerateRiskYears  = 2

	DefaultLeagueMaxYears = 3

	ExitPositionBest  = 5
	ExitPositionWorst = 10
)

// Reply latency in days; a warm relationship answers faster.
const (
	DelayMaxDays = 7
	DelayMinDays = 2
)

const (
	relationshipAccept = 5
	relationshipReject = -3
)

// SessionInput carries everything the sponsor reads before answering.
// Relationship is the sponsor's 0-100 standing with the team.
type SessionInput struct {
	Sponsor domain.Sponsor
	Team    domain.Team
	Session *negotiation.Session

	Market       market.Context
	Relationship float64

	LeagueMaxYears int
}

// EvaluateSessionOffer answers the live proposal of a sponsorship session.
//
// The only error paths are protocol defects: a missing or empty session,
// or terms that are not sponsorship terms. Every game situation, however
// hopeless, maps to a response.
func EvaluateSessionOffer(in SessionInput) (negotiation.Response, error) {
	if in.Session == nil {
		return negotiation.Response{}, fmt.Errorf("sponsors: no session: %w", negotiation.ErrNoRounds)
	}
	round, err := in.Session.CurrentRound()
	if err != nil {
		return negotiation.Response{}, fmt.Errorf("sponsors: %w", err)
	}
	terms, ok := round.Terms.(negotiation.SponsorshipTerms)
	if !ok {
		return negotiation.Response{}, fmt.Errorf("sponsors: %w", negotiation.ErrTermsKind)
	}

	delay := replyDelay(in.Relationship)

	// A rival brand already on the car ends the conversation before any
	// money talk, and burns no bridges: business, not bad blood.
	if in.Market.HasSponsorGroup(in.Team.ID, in.Sponsor.RivalGroup) {
		return negotiation.Response{
			Action:            negotiation.ActionReject,
			Tone:              negotiation.ToneProfessional,
			ResponseDelayDays: delay,
			Newsworthy:        true,
			RelationshipDelta: 0,
			Reason:            "a rival brand already sponsors this team",
		}, nil
	}

	effRep := effectiveReputation(in.Team.ID, in.Market)
	minRep := in.Sponsor.MinReputation

	if minRep > 0 && effRep < HardGateFactor*minRep {
		return negotiation.Response{
			Action:            negotiation.ActionReject,
			Tone:              negotiation.ToneDisappointed,
			ResponseDelayDays: delay,
			RelationshipDelta: relationshipReject,
			Reason:            "team reputation is far below the sponsor's bar",
		}, nil
	}

	protection := protectionLevel(effRep, minRep)
	willing := in.Sponsor.BasePayment * willingFactor(effRep, minRep)

	payRatio := 2.0
	if terms.AnnualPayment > 0 {
		payRatio = willing / terms.AnnualPayment
	}

	// An ultimatum leaves two doors: sign it or walk away.
	if round.Ultimatum {
		if payRatio >= RejectRatio {
			return negotiation.Response{
				Action:            negotiation.ActionAccept,
				Tone:              negotiation.ToneProfessional,
				ResponseDelayDays: delay,
				RelationshipDelta: relationshipAccept,
				Reason:            "final terms are workable",
			}, nil
		}
		return negotiation.Response{
			Action:            negotiation.ActionReject,
			Tone:              negotiation.ToneDisappointed,
			ResponseDelayDays: delay,
			RelationshipDelta: relationshipReject,
			Reason:            "final terms are not workable",
		}, nil
	}

	switch {
	case payRatio >= InstantAcceptRatio && protection == 0:
		return negotiation.Response{
			Action:            negotiation.ActionAccept,
			Tone:              negotiation.ToneEnthusiastic,
			ResponseDelayDays: delay,
			Newsworthy:        terms.AnnualPayment >= in.Sponsor.BasePayment,
			RelationshipDelta: relationshipAccept,
			Reason:            "asking price is within budget",
		}, nil

	case payRatio < RejectRatio:
		return negotiation.Response{
			Action:            negotiation.ActionReject,
			Tone:              negotiation.ToneDisappointed,
			ResponseDelayDays: delay,
			RelationshipDelta: relationshipReject,
			Reason:            "asking price is far beyond budget",
		}, nil

	default:
		return buildCounter(in, terms, protection, delay), nil
	}
}

// buildCounter restructures the deal: less fixed money, more
// performance-contingent money, and the shakier the team looks, the
// shorter the horizon and the earlier the exit clause bites.
func buildCounter(in SessionInput, current negotiation.SponsorshipTerms, protection float64, delay int) negotiation.Response {
	payment := current.AnnualPayment * (1 - CounterPaymentCut*(1+protection))

	win, podium, points := tierBonuses(in.Sponsor.Tier)
	scale := 1 + CounterBonusScale*protection

	years := in.LeagueMaxYears
	if years <= 0 {
		years = DefaultLeagueMaxYears
	}
	switch {
	case protection > HighRiskProtection:
		years = HighRiskYears
	case protection > 0:
		years = ModerateRiskYears
	}

	exit := 0
	if protection > 0 {
		exit = ExitPositionWorst - int(math.Round(protection*float64(ExitPositionWorst-ExitPositionBest)))
	}

	ultimatum := in.Session.AtFinalRound()

	return negotiation.Response{
		Action: negotiation.ActionCounter,
		CounterTerms: negotiation.SponsorshipTerms{
			AnnualPayment: math.Round(payment),
			Years:         years,
			WinBonus:      math.Round(win * scale),
			PodiumBonus:   math.Round(podium * scale),
			PointsBonus:   math.Round(points * scale),
			ExitPosition:  exit,
		},
		Tone:              negotiation.ToneProfessional,
		ResponseDelayDays: delay,
		Newsworthy:        ultimatum,
		RelationshipDelta: 0,
		Ultimatum:         ultimatum,
		Reason:            "shifting money from the fixed fee into results",
	}
}

// effectiveReputation is the sponsor-facing read of a team: its
// constructors' standing mapped onto the 0-100 reputation scale.
// Teams without a standing read as a neutral 50.
func effectiveReputation(teamID string, m market.Context) float64 {
	if pos, ok := m.Position(teamID); ok {
		return valuation.TeamQuality(pos, m.TotalTeams) * 100
	}
	return 50
}

// protectionLevel maps the soft gate zone onto [0, 1]: zero at the soft
// gate, one at the hard gate.
func protectionLevel(effRep, minRep float64) float64 {
	if minRep <= 0 {
		return 0
	}
	soft := SoftGateFactor * minRep
	hard := HardGateFactor * minRep
	if effRep >= soft {
		return 0
	}
	return formulas.Clamp01((soft - effRep) / (soft - hard))
}

// willingFactor shapes the sponsor's budget around its base payment:
// a premium for teams it covets, a floored discount for teams it merely
// tolerates.
func willingFactor(effRep, minRep float64) float64 {
	if minRep <= 0 {
		return 1 + PremiumMax
	}
	ratio := effRep / minRep
	switch {
	case ratio >= PremiumRepRatio:
		return 1 + PremiumMax
	case ratio >= 1:
		return 1 + (ratio-1)*(PremiumMax/(PremiumRepRatio-1))
	default:
		return math.Max(DiscountFloor, ratio)
	}
}

// tierBonuses returns the per-result bonus units a sponsor of this tier
// puts on the table when countering.
func tierBonuses(tier domain.SponsorTier) (win, podium, points float64) {
	switch tier {
	case domain.TierTitle:
		return 250_000, 100_000, 10_000
	case domain.TierPrincipal:
		return 150_000, 60_000, 6_000
	case domain.TierOfficial:
		return 80_000, 30_000, 3_000
	default:
		return 40_000, 15_000, 1_500
	}
}

// replyDelay shortens with a warmer relationship: cold contacts take a
// week, close partners answer within two days.
func replyDelay(relationship float64) int {
	rel := formulas.Clamp(relationship, 0, 100)
	return DelayMaxDays - int(math.Round(rel/100*float64(DelayMaxDays-DelayMinDays)))
}
