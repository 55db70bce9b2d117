/**
 * Team, standings and sponsor records.
 */
package domain

/**
 * Team is a constructor snapshot. Budget feeds prestige; seats bound how
 * many race drivers it can employ.
 */
type Team struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Budget float64 `json:"budget"`
	Seats  int     `json:"seats"` // Race seats, normally 2
}

/**
 * Standing is one row of the constructors' table for a season.
 * Position is 1-indexed: 1 is the leader.
 */
type Standing struct {
	Season   int     `json:"season"`
	TeamID   string  `json:"team_id"`
	Position int     `json:"position"`
	Points   float64 `json:"points"`
}

/**
 * SponsorTier ranks sponsorship packages from title partner down to
 * supplier. Lower is bigger.
 */
type SponsorTier int

const (
	TierTitle SponsorTier = iota + 1
	TierPrincipal
	TierOfficial
	TierSupplier
)

// Label returns the display name of a tier for UI surfaces.
func (t SponsorTier) Label() string {
	switch t {
	case TierTitle:
		return "Title Partner"
	case TierPrincipal:
		return "Principal Partner"
	case TierOfficial:
		return "Official Partner"
	case TierSupplier:
		return "Technical Supplier"
	default:
		return "Partner"
	}
}

/**
 * Sponsor is a sponsor snapshot.
 *
 * MinReputation is on the same 0-100 scale as effective team reputation.
 * RivalGroup marks industry exclusivity: a team cannot carry two sponsors
 * from the same group. Empty means unaffiliated.
 */
type Sponsor struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Tier          SponsorTier `json:"tier"`
	BasePayment   float64     `json:"base_payment"`   // Annual payment it considers fair
	MinReputation float64     `json:"min_reputation"` // 0-100 gate for partnering at all
	RivalGroup    string      `json:"rival_group,omitempty"`
}
