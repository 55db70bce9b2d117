/**
 * Driver and department chief records.
 *
 * These are plain snapshot structs: the engine never mutates them. Loaders
 * populate them from the league database, evaluators read them, and any
 * change (salary, employment) flows back through the roster repositories.
 */
package domain

// AttributeScale is the upper bound of every individual ability attribute.
const AttributeScale = 100

// DriverAttributeCount is the number of rated driver attributes.
const DriverAttributeCount = 7

/**
 * DriverAttributes holds the seven rated abilities, each 0-100.
 */
type DriverAttributes struct {
	Pace        int `json:"pace"`
	Consistency int `json:"consistency"`
	Racecraft   int `json:"racecraft"`
	Overtaking  int `json:"overtaking"`
	Defending   int `json:"defending"`
	WetWeather  int `json:"wet_weather"`
	Fitness     int `json:"fitness"`
}

// Total sums all seven attributes (0-700).
func (a DriverAttributes) Total() int {
	return a.Pace + a.Consistency + a.Racecraft + a.Overtaking + a.Defending + a.WetWeather + a.Fitness
}

/**
 * SeasonRecord is one season of a driver's career history. Append-only:
 * past seasons are never rewritten.
 */
type SeasonRecord struct {
	Season     int     `json:"season"`
	TeamID     string  `json:"team_id"`
	Races      int     `json:"races"`
	Points     float64 `json:"points"`
	TeamPoints float64 `json:"team_points"` // Whole-team total for the same season
}

/**
 * Driver is a complete driver snapshot including career history,
 * ordered most-recent-first.
 */
type Driver struct {
	// ===== IDENTITY =====
	ID   string `json:"id"`
	Name string `json:"name"`
	Age  int    `json:"age"`

	// ===== EMPLOYMENT =====
	TeamID        string  `json:"team_id,omitempty"` // Empty = free agent
	Salary        float64 `json:"salary"`
	ContractYears int     `json:"contract_years"` // Seasons remaining, 0 = expiring

	// ===== ABILITY =====
	Attributes DriverAttributes `json:"attributes"`

	// ===== CAREER =====
	History []SeasonRecord `json:"history,omitempty"` // Most recent season first
}

// FreeAgent returns true when the driver has no current employer.
func (d *Driver) FreeAgent() bool {
	return d.TeamID == ""
}

// Rookie returns true when the driver has fewer than two completed seasons,
// which is the threshold below which results carry no signal.
func (d *Driver) Rookie() bool {
	return len(d.History) < 2
}

/**
 * Department identifies which part of the organisation a chief runs.
 */
type Department string

const (
	DepartmentEngineering  Department = "ENGINEERING"
	DepartmentAerodynamics Department = "AERODYNAMICS"
	DepartmentStrategy     Department = "STRATEGY"
	DepartmentMechanics    Department = "MECHANICS"
)

/**
 * Chief is a department chief snapshot. Ability is a single 0-100 figure;
 * outsiders never see it directly, only a letter grade distorted by their
 * own scouting error.
 */
type Chief struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Age        int        `json:"age"`
	Department Department `json:"department"`

	TeamID        string  `json:"team_id,omitempty"` // Empty = unattached
	Salary        float64 `json:"salary"`
	ContractYears int     `json:"contract_years"`

	Ability int `json:"ability"` // True ability 0-100, internal only
}

// Unattached returns true when the chief has no current employer.
func (c *Chief) Unattached() bool {
	return c.TeamID == ""
}
