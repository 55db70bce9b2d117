package negotiation

// Kind discriminates what is being negotiated.
type Kind string

const (
	KindDriver  Kind = "DRIVER"
	KindStaff   Kind = "STAFF"
	KindSponsor Kind = "SPONSOR"
)

// Valid reports whether k is a known negotiation kind.
func (k Kind) Valid() bool {
	switch k {
	case KindDriver, KindStaff, KindSponsor:
		return true
	}
	return false
}

// Terms is the sealed set of payload shapes a round can carry. Driver and
// staff negotiations carry CompensationTerms, sponsorships carry
// SponsorshipTerms; the session refuses any other pairing, so a sponsor
// round can never smuggle a salary package.
type Terms interface {
	// AppliesTo reports whether this payload shape is legal for the
	// given negotiation kind.
	AppliesTo(kind Kind) bool

	isTerms()
}

// CompensationTerms is the payload of driver and staff negotiations.
type CompensationTerms struct {
	AnnualSalary float64 `json:"annual_salary" msgpack:"annual_salary"`
	SigningBonus float64 `json:"signing_bonus,omitempty" msgpack:"signing_bonus"`
	Years        int     `json:"years" msgpack:"years"`
}

func (CompensationTerms) AppliesTo(kind Kind) bool {
	return kind == KindDriver || kind == KindStaff
}

func (CompensationTerms) isTerms() {}

// SponsorshipTerms is the payload of sponsorship negotiations. Bonuses are
// paid per win, per podium and per championship point on top of the fixed
// annual payment. ExitPosition, when non-zero, lets the sponsor walk away
// if the team's standing slips below that position.
type SponsorshipTerms struct {
	AnnualPayment float64 `json:"annual_payment" msgpack:"annual_payment"`
	Years         int     `json:"years" msgpack:"years"`
	WinBonus      float64 `json:"win_bonus,omitempty" msgpack:"win_bonus"`
	PodiumBonus   float64 `json:"podium_bonus,omitempty" msgpack:"podium_bonus"`
	PointsBonus   float64 `json:"points_bonus,omitempty" msgpack:"points_bonus"`
	ExitPosition  int     `json:"exit_position,omitempty" msgpack:"exit_position"`
}

func (SponsorshipTerms) AppliesTo(kind Kind) bool {
	return kind == KindSponsor
}

func (SponsorshipTerms) isTerms() {}
