// Package services provides cross-module orchestration.
//
// The negotiation service is the only writer of negotiation sessions: it
// opens them, appends rounds, asks the evaluators for answers and applies
// the verdicts. The evaluators themselves stay pure; everything with a
// side effect lives here.
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/apexsim/paddock/internal/evaluation/workers"
	"github.com/apexsim/paddock/internal/events"
	"github.com/apexsim/paddock/internal/modules/drivers"
	"github.com/apexsim/paddock/internal/modules/market"
	"github.com/apexsim/paddock/internal/modules/negotiation"
	"github.com/apexsim/paddock/internal/modules/roster"
	"github.com/apexsim/paddock/internal/modules/sponsors"
	"github.com/apexsim/paddock/internal/modules/staff"
)

// ErrSessionNotFound means the session id does not exist in storage.
var ErrSessionNotFound = errors.New("negotiation session not found")

// ResponseWindowDays is how long a live proposal stays on the table when
// the responder gives no delay of their own: opening offers and team
// counters expire after this many days without an answer.
const ResponseWindowDays = 7

// ContextBuilder assembles market snapshots from live league state
type ContextBuilder interface {
	Build(season int) (market.Context, error)
}

// NegotiationService drives sessions through their lifecycle: open with a
// first proposal, alternate rounds, close on accept/reject/expiry, and
// turn accepted terms into signed contracts and deals.
type NegotiationService struct {
	sessions      *negotiation.Repository
	drivers       *roster.DriverRepository
	chiefs        *roster.ChiefRepository
	sponsors      *roster.SponsorRepository
	relationships *roster.RelationshipRepository
	snapshots     ContextBuilder
	eventManager  *events.Manager
	pool          *workers.WorkerPool

	leagueMaxYears int

	log zerolog.Logger
}

// NewNegotiationService creates a new negotiation service
func NewNegotiationService(
	sessions *negotiation.Repository,
	driverRepo *roster.DriverRepository,
	chiefRepo *roster.ChiefRepository,
	sponsorRepo *roster.SponsorRepository,
	relationshipRepo *roster.RelationshipRepository,
	snapshots ContextBuilder,
	eventManager *events.Manager,
	pool *workers.WorkerPool,
	leagueMaxYears int,
	log zerolog.Logger,
) *NegotiationService {
	return &NegotiationService{
		sessions:       sessions,
		drivers:        driverRepo,
		chiefs:         chiefRepo,
		sponsors:       sponsorRepo,
		relationships:  relationshipRepo,
		snapshots:      snapshots,
		eventManager:   eventManager,
		pool:           pool,
		leagueMaxYears: leagueMaxYears,
		log:            log.With().Str("service", "negotiation").Logger(),
	}
}

// OpenParams describes a new negotiation: the parties, the season it is
// for, and the team's opening terms.
type OpenParams struct {
	Kind           negotiation.Kind
	TeamID         string
	CounterpartyID string
	Season         int
	MaxRounds      int // 0 means negotiation.DefaultMaxRounds
	Terms          negotiation.Terms
	Ultimatum      bool
}

// Open creates a session and appends the team's opening proposal in one
// step, so no evaluator ever sees an empty round sequence.
func (s *NegotiationService) Open(p OpenParams) (*negotiation.Session, error) {
	session, err := negotiation.NewSession(p.Kind, p.TeamID, p.CounterpartyID, p.Season, p.MaxRounds)
	if err != nil {
		return nil, err
	}
	if err := session.Propose(negotiation.SideTeam, p.Terms, p.Ultimatum); err != nil {
		return nil, err
	}
	session.Deadline = time.Now().UTC().AddDate(0, 0, ResponseWindowDays)

	if err := s.sessions.Save(session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	s.log.Info().
		Str("session_id", session.ID).
		Str("kind", string(session.Kind)).
		Str("team_id", session.TeamID).
		Str("counterparty_id", session.CounterpartyID).
		Int("season", session.Season).
		Msg("Negotiation opened")

	s.eventManager.Emit(events.NegotiationOpened, "negotiation", &events.NegotiationOpenedData{
		SessionID:      session.ID,
		Kind:           string(session.Kind),
		TeamID:         session.TeamID,
		CounterpartyID: session.CounterpartyID,
		Season:         session.Season,
	})
	s.emitOffer(session, negotiation.SideTeam, p.Ultimatum)

	return session, nil
}

// SubmitOffer appends a team-side round answering the counterparty's live
// counter. New terms from the team are always a fresh round.
func (s *NegotiationService) SubmitOffer(sessionID string, terms negotiation.Terms, ultimatum bool) (*negotiation.Session, error) {
	session, err := s.load(sessionID)
	if err != nil {
		return nil, err
	}
	if session.Phase.Terminal() {
		return nil, negotiation.ErrSessionClosed
	}
	if err := s.requireTurn(session, negotiation.SideTeam); err != nil {
		return nil, err
	}

	if err := session.MarkResponded(); err != nil {
		return nil, err
	}
	if err := session.Propose(negotiation.SideTeam, terms, ultimatum); err != nil {
		return nil, err
	}
	session.Deadline = time.Now().UTC().AddDate(0, 0, ResponseWindowDays)

	if err := s.sessions.Save(session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	s.log.Info().
		Str("session_id", session.ID).
		Int("round", len(session.Rounds)).
		Bool("ultimatum", ultimatum).
		Msg("Team offer submitted")

	s.emitOffer(session, negotiation.SideTeam, ultimatum)

	return session, nil
}

// AcceptCounter closes the session on the counterparty's live terms and
// signs the resulting contract or deal.
func (s *NegotiationService) AcceptCounter(sessionID string) (*negotiation.Session, error) {
	session, err := s.load(sessionID)
	if err != nil {
		return nil, err
	}
	if session.Phase.Terminal() {
		return nil, negotiation.ErrSessionClosed
	}
	if err := s.requireTurn(session, negotiation.SideTeam); err != nil {
		return nil, err
	}

	current, err := session.CurrentRound()
	if err != nil {
		return nil, err
	}
	if err := session.MarkResponded(); err != nil {
		return nil, err
	}
	if err := session.Complete(); err != nil {
		return nil, err
	}

	if err := s.sessions.Save(session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	if err := s.applyAgreement(session, current.Terms); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("session_id", session.ID).
		Msg("Counter accepted by team")

	s.eventManager.Emit(events.OfferAccepted, "negotiation", &events.ResponseData{
		SessionID: session.ID,
		Action:    string(negotiation.ActionAccept),
		Accepted:  true,
		Reason:    "team accepted the counter",
	})
	s.emitSigned(session, current.Terms)

	return session, nil
}

// Withdraw ends the session without an agreement: the team walks away
// from the table, whatever the live proposal is.
func (s *NegotiationService) Withdraw(sessionID string) (*negotiation.Session, error) {
	session, err := s.load(sessionID)
	if err != nil {
		return nil, err
	}
	if session.Phase.Terminal() {
		return nil, negotiation.ErrSessionClosed
	}

	if err := session.Fail(); err != nil {
		return nil, err
	}
	if err := s.sessions.Save(session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	s.log.Info().
		Str("session_id", session.ID).
		Msg("Negotiation withdrawn by team")

	s.eventManager.Emit(events.OfferRejected, "negotiation", &events.ResponseData{
		SessionID: session.ID,
		Action:    string(negotiation.ActionReject),
		Reason:    "withdrawn by team",
	})

	return session, nil
}

// Respond asks the counterparty's evaluator to answer the live proposal
// and applies the verdict: the session closes, or a counter round lands
// with a fresh deadline; either way the relationship moves.
func (s *NegotiationService) Respond(sessionID string) (*negotiation.Session, negotiation.Response, error) {
	session, err := s.load(sessionID)
	if err != nil {
		return nil, negotiation.Response{}, err
	}
	if session.Phase.Terminal() {
		return nil, negotiation.Response{}, negotiation.ErrSessionClosed
	}

	resp, err := s.evaluate(session)
	if err != nil {
		return nil, negotiation.Response{}, err
	}
	if err := s.apply(session, resp); err != nil {
		return nil, negotiation.Response{}, err
	}

	return session, resp, nil
}

// Evaluate computes the counterparty's answer without touching the
// session. Respond is Evaluate plus the bookkeeping; batch evaluation
// runs this concurrently across independent sessions.
func (s *NegotiationService) Evaluate(sessionID string) (negotiation.Response, error) {
	session, err := s.load(sessionID)
	if err != nil {
		return negotiation.Response{}, err
	}
	if session.Phase.Terminal() {
		return negotiation.Response{}, negotiation.ErrSessionClosed
	}
	return s.evaluate(session)
}

// RespondDue answers every live proposal currently waiting on a
// counterparty. The pure evaluations fan out across the worker pool;
// the verdicts are applied one at a time, each against the snapshot its
// evaluation read. Returns the number of sessions answered.
func (s *NegotiationService) RespondDue() (int, error) {
	active, err := s.sessions.ListActive()
	if err != nil {
		return 0, fmt.Errorf("failed to list active sessions: %w", err)
	}

	var waiting []string
	for _, session := range active {
		turn, err := session.WhoseTurn()
		if err != nil {
			s.log.Error().Err(err).Str("session_id", session.ID).Msg("Session has no rounds")
			continue
		}
		if turn == negotiation.SideCounterparty {
			waiting = append(waiting, session.ID)
		}
	}
	if len(waiting) == 0 {
		return 0, nil
	}

	answered := 0
	for _, result := range s.pool.EvaluateBatch(waiting, s.Evaluate, nil) {
		if result.Err != nil {
			s.log.Error().Err(result.Err).Str("session_id", result.SessionID).Msg("Failed to evaluate session")
			continue
		}
		session, err := s.load(result.SessionID)
		if err != nil {
			s.log.Error().Err(err).Str("session_id", result.SessionID).Msg("Failed to reload session")
			continue
		}
		if err := s.apply(session, result.Response); err != nil {
			s.log.Error().Err(err).Str("session_id", result.SessionID).Msg("Failed to apply response")
			continue
		}
		answered++
	}

	s.log.Info().
		Int("waiting", len(waiting)).
		Int("answered", answered).
		Msg("Answered pending negotiations")
	return answered, nil
}

// ExpireDue fails every active session whose deadline has passed.
// Returns the number of sessions closed.
func (s *NegotiationService) ExpireDue(now time.Time) (int, error) {
	active, err := s.sessions.ListActive()
	if err != nil {
		return 0, fmt.Errorf("failed to list active sessions: %w", err)
	}

	expired := 0
	for _, session := range active {
		if !session.Expired(now) {
			continue
		}
		if err := session.Fail(); err != nil {
			s.log.Error().Err(err).Str("session_id", session.ID).Msg("Failed to close expired session")
			continue
		}
		if err := s.sessions.Save(session); err != nil {
			s.log.Error().Err(err).Str("session_id", session.ID).Msg("Failed to save expired session")
			continue
		}

		s.eventManager.Emit(events.NegotiationExpired, "negotiation", &events.NegotiationExpiredData{
			SessionID: session.ID,
			Deadline:  session.Deadline,
		})
		expired++
	}

	if expired > 0 {
		s.log.Info().Int("expired", expired).Msg("Expired stale negotiations")
	}
	return expired, nil
}

// evaluate routes the live proposal to the evaluator for its kind. The
// market snapshot is rebuilt per call so every answer reads the current
// league state.
func (s *NegotiationService) evaluate(session *negotiation.Session) (negotiation.Response, error) {
	if err := s.requireTurn(session, negotiation.SideCounterparty); err != nil {
		return negotiation.Response{}, err
	}
	current, err := session.CurrentRound()
	if err != nil {
		return negotiation.Response{}, err
	}

	snapshot, err := s.snapshots.Build(session.Season)
	if err != nil {
		return negotiation.Response{}, fmt.Errorf("failed to build market snapshot: %w", err)
	}
	team, ok := snapshot.TeamByID(session.TeamID)
	if !ok {
		return negotiation.Response{}, fmt.Errorf("unknown team %s", session.TeamID)
	}

	switch session.Kind {
	case negotiation.KindDriver:
		terms, ok := current.Terms.(negotiation.CompensationTerms)
		if !ok {
			return negotiation.Response{}, fmt.Errorf("driver session: %w", negotiation.ErrTermsKind)
		}
		driver, ok := snapshot.DriverByID(session.CounterpartyID)
		if !ok {
			return negotiation.Response{}, fmt.Errorf("unknown driver %s", session.CounterpartyID)
		}
		return drivers.EvaluateOffer(drivers.OfferInput{
			Driver:    driver,
			Team:      team,
			Salary:    terms.AnnualSalary,
			Years:     terms.Years,
			Round:     current.Number,
			MaxRounds: session.MaxRounds,
			Market:    snapshot,
		}), nil

	case negotiation.KindStaff:
		terms, ok := current.Terms.(negotiation.CompensationTerms)
		if !ok {
			return negotiation.Response{}, fmt.Errorf("staff session: %w", negotiation.ErrTermsKind)
		}
		chief, ok := snapshot.ChiefByID(session.CounterpartyID)
		if !ok {
			return negotiation.Response{}, fmt.Errorf("unknown chief %s", session.CounterpartyID)
		}
		return staff.EvaluateOffer(staff.OfferInput{
			Chief:        chief,
			Team:         team,
			Salary:       terms.AnnualSalary,
			SigningBonus: terms.SigningBonus,
			Years:        terms.Years,
			Round:        current.Number,
			MaxRounds:    session.MaxRounds,
			Market:       snapshot,
		}), nil

	case negotiation.KindSponsor:
		sponsor, err := s.sponsors.GetByID(session.CounterpartyID)
		if err != nil {
			return negotiation.Response{}, fmt.Errorf("failed to load sponsor: %w", err)
		}
		if sponsor == nil {
			return negotiation.Response{}, fmt.Errorf("unknown sponsor %s", session.CounterpartyID)
		}
		relationship, err := s.relationships.Score(session.TeamID, session.CounterpartyID)
		if err != nil {
			return negotiation.Response{}, fmt.Errorf("failed to load relationship: %w", err)
		}
		// The conflict check must not see the sponsor's own current deal,
		// or every renewal would collide with itself.
		groups, err := s.sponsors.TeamGroups(session.TeamID, sponsor.ID)
		if err != nil {
			return negotiation.Response{}, fmt.Errorf("failed to load rival groups: %w", err)
		}
		return sponsors.EvaluateSessionOffer(sponsors.SessionInput{
			Sponsor:        *sponsor,
			Team:           team,
			Session:        session,
			Market:         snapshotWithGroups(snapshot, session.TeamID, groups),
			Relationship:   relationship,
			LeagueMaxYears: s.leagueMaxYears,
		})

	default:
		return negotiation.Response{}, fmt.Errorf("%w: %q", negotiation.ErrUnknownKind, session.Kind)
	}
}

// apply records the counterparty's verdict on the session: phase moves,
// counter rounds, persistence, relationship delta and events.
func (s *NegotiationService) apply(session *negotiation.Session, resp negotiation.Response) error {
	current, err := session.CurrentRound()
	if err != nil {
		return err
	}
	if err := session.MarkResponded(); err != nil {
		return err
	}

	switch resp.Action {
	case negotiation.ActionAccept:
		if err := session.Complete(); err != nil {
			return err
		}
	case negotiation.ActionReject:
		if err := session.Fail(); err != nil {
			return err
		}
	case negotiation.ActionCounter:
		if resp.CounterTerms == nil {
			return fmt.Errorf("counter without terms: %w", negotiation.ErrTermsKind)
		}
		if err := session.Propose(negotiation.SideCounterparty, resp.CounterTerms, resp.Ultimatum); err != nil {
			return err
		}
		session.Deadline = time.Now().UTC().AddDate(0, 0, responseWindow(resp.ResponseDelayDays))
	default:
		return fmt.Errorf("unknown response action %q", resp.Action)
	}

	if err := s.sessions.Save(session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	if resp.Accepted() {
		if err := s.applyAgreement(session, current.Terms); err != nil {
			return err
		}
	}

	// The deal is already persisted at this point; a missed relationship
	// nudge is logged, not fatal.
	if resp.RelationshipDelta != 0 {
		if err := s.relationships.Adjust(session.TeamID, session.CounterpartyID, resp.RelationshipDelta); err != nil {
			s.log.Warn().Err(err).
				Str("session_id", session.ID).
				Int("delta", resp.RelationshipDelta).
				Msg("Failed to adjust relationship")
		}
	}

	s.log.Info().
		Str("session_id", session.ID).
		Str("action", string(resp.Action)).
		Str("tone", string(resp.Tone)).
		Int("round", len(session.Rounds)).
		Str("phase", string(session.Phase)).
		Msg("Counterparty responded")

	switch resp.Action {
	case negotiation.ActionCounter:
		s.emitOffer(session, negotiation.SideCounterparty, resp.Ultimatum)
	default:
		data := &events.ResponseData{
			SessionID:  session.ID,
			Action:     string(resp.Action),
			Tone:       string(resp.Tone),
			Newsworthy: resp.Newsworthy,
			Reason:     resp.Reason,
			Accepted:   resp.Accepted(),
		}
		s.eventManager.Emit(data.EventType(), "negotiation", data)
		if resp.Accepted() {
			s.emitSigned(session, current.Terms)
		}
	}

	return nil
}

// applyAgreement turns accepted terms into a signed contract or deal.
func (s *NegotiationService) applyAgreement(session *negotiation.Session, terms negotiation.Terms) error {
	switch t := terms.(type) {
	case negotiation.CompensationTerms:
		switch session.Kind {
		case negotiation.KindDriver:
			return s.drivers.SignContract(session.CounterpartyID, session.TeamID, t.AnnualSalary, t.Years)
		case negotiation.KindStaff:
			return s.chiefs.SignContract(session.CounterpartyID, session.TeamID, t.AnnualSalary, t.Years)
		}
	case negotiation.SponsorshipTerms:
		return s.sponsors.SignDeal(roster.Deal{
			TeamID:        session.TeamID,
			SponsorID:     session.CounterpartyID,
			AnnualPayment: t.AnnualPayment,
			Years:         t.Years,
			WinBonus:      t.WinBonus,
			PodiumBonus:   t.PodiumBonus,
			PointsBonus:   t.PointsBonus,
			ExitPosition:  t.ExitPosition,
			SignedSeason:  session.Season,
		})
	}
	return fmt.Errorf("%w: cannot apply %T for kind %s", negotiation.ErrTermsKind, terms, session.Kind)
}

func (s *NegotiationService) emitOffer(session *negotiation.Session, side negotiation.Side, ultimatum bool) {
	offer := &events.OfferData{
		SessionID: session.ID,
		Round:     len(session.Rounds),
		OfferedBy: string(side),
		Ultimatum: ultimatum,
	}
	s.eventManager.Emit(offer.EventType(), "negotiation", offer)
}

func (s *NegotiationService) emitSigned(session *negotiation.Session, terms negotiation.Terms) {
	signed := &events.ContractSignedData{
		SessionID:      session.ID,
		Kind:           string(session.Kind),
		TeamID:         session.TeamID,
		CounterpartyID: session.CounterpartyID,
	}
	switch t := terms.(type) {
	case negotiation.CompensationTerms:
		signed.AnnualAmount = t.AnnualSalary
		signed.Years = t.Years
	case negotiation.SponsorshipTerms:
		signed.AnnualAmount = t.AnnualPayment
		signed.Years = t.Years
	}
	s.eventManager.Emit(signed.EventType(), "negotiation", signed)
}

func (s *NegotiationService) load(sessionID string) (*negotiation.Session, error) {
	session, err := s.sessions.GetByID(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	if session == nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return session, nil
}

// requireTurn rejects the call when the live proposal does not await the
// given side.
func (s *NegotiationService) requireTurn(session *negotiation.Session, side negotiation.Side) error {
	turn, err := session.WhoseTurn()
	if err != nil {
		return err
	}
	if turn != side {
		return fmt.Errorf("%w: the live proposal awaits the %s side", negotiation.ErrNotYourTurn, turn)
	}
	return nil
}

// responseWindow defaults a non-positive evaluator delay to the standard
// window.
func responseWindow(days int) int {
	if days <= 0 {
		return ResponseWindowDays
	}
	return days
}

// snapshotWithGroups returns a copy of the snapshot with one team's
// sponsor conflict groups replaced. The original map is shared; only the
// copy is changed.
func snapshotWithGroups(m market.Context, teamID string, groups []string) market.Context {
	override := make(map[string][]string, len(m.SponsorGroups))
	for k, v := range m.SponsorGroups {
		override[k] = v
	}
	if len(groups) == 0 {
		delete(override, teamID)
	} else {
		override[teamID] = groups
	}
	m.SponsorGroups = override
	return m
}
