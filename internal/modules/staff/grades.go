package staff

import (
	"github.com/apexsim/paddock/internal/domain"
	"github.com/apexsim/paddock/pkg/formulas"
	"github.com/apexsim/paddock/pkg/seeded"
)

// ScoutSpread is the size of the viewer-specific perception error. Nobody
// outside a chief's own team ever sees true ability, only a distorted
// reading that is stable per viewer/chief pair.
const ScoutSpread = 0.15

// Grade is a display letter grade on the A+ to F- scale.
type Grade string

// grades runs best to worst: fifteen bands over the 0-100 scale.
var grades = [...]Grade{
	"A+", "A", "A-",
	"B+", "B", "B-",
	"C+", "C", "C-",
	"D+", "D", "D-",
	"F+", "F", "F-",
}

// PerceivedAbility is the ability figure a given viewer reads for a chief:
// true ability distorted by the pair's scouting error, clamped to the
// 0-100 scale.
func PerceivedAbility(c domain.Chief, viewerID string) float64 {
	distorted := float64(c.Ability) * (1 + seeded.Jitter(ScoutSpread, viewerID, c.ID, "scouting"))
	return formulas.Clamp(distorted, 0, 100)
}

// LetterGrade maps a 0-100 perceived ability onto the fifteen band scale.
func LetterGrade(perceived float64) Grade {
	band := int(perceived / (100.0 / float64(len(grades))))
	if band >= len(grades) {
		band = len(grades) - 1
	}
	if band < 0 {
		band = 0
	}
	return grades[len(grades)-1-band]
}

// GradeFor is the grade a viewer sees for a chief. This is what scouting
// screens render.
func GradeFor(c domain.Chief, viewerID string) Grade {
	return LetterGrade(PerceivedAbility(c, viewerID))
}
