package staff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apexsim/paddock/internal/domain"
)

func TestOutreach_UnattachedChiefKnocksOnVacantDoors(t *testing.T) {
	m := twoTierMarket() // no chiefs employed anywhere
	c := domain.Chief{ID: "chief-free", Department: domain.DepartmentEngineering, Ability: 70}

	approaches := Outreach(c, m)

	require.Len(t, approaches, 2, "Both vacant departments get an application")
	assert.Equal(t, "team-rich", approaches[0].TeamID, "The biggest door gets knocked on first")
	assert.Equal(t, "vacant department", approaches[0].Reason)
}

func TestOutreach_ContentChiefStaysPut(t *testing.T) {
	c := domain.Chief{
		ID: "chief-settled", Department: domain.DepartmentEngineering,
		Ability: 70, TeamID: "team-poor", Salary: SalaryCeiling * 2,
	}

	assert.Empty(t, Outreach(c, twoTierMarket()), "A well paid chief sends no applications")
}

func TestOutreach_UnderpaidChiefOnlyLooksUpTheLadder(t *testing.T) {
	m := twoTierMarket()
	c := domain.Chief{
		ID: "chief-stuck", Department: domain.DepartmentEngineering,
		Ability: 70, TeamID: "team-poor", Salary: 1,
	}

	approaches := Outreach(c, m)

	require.Len(t, approaches, 1, "Only strictly more prestigious teams are targets")
	assert.Equal(t, "team-rich", approaches[0].TeamID)
}

func TestOutreach_StaffedDepartmentNeedsAClearGap(t *testing.T) {
	m := twoTierMarket()
	m.Chiefs = []domain.Chief{
		{ID: "chief-inc", Department: domain.DepartmentEngineering, TeamID: "team-rich", Ability: 65},
	}
	near := domain.Chief{ID: "chief-near", Department: domain.DepartmentEngineering, Ability: 70}
	clear := domain.Chief{ID: "chief-clear", Department: domain.DepartmentEngineering, Ability: 75}

	nearHits := Outreach(near, m)
	clearHits := Outreach(clear, m)

	richOnly := func(hits []Approach) bool {
		for _, h := range hits {
			if h.TeamID == "team-rich" {
				return true
			}
		}
		return false
	}

	assert.False(t, richOnly(nearHits), "Five points of ability is not worth an unsolicited application")
	assert.True(t, richOnly(clearHits), "Ten points over the incumbent justifies the knock")
	if assert.NotEmpty(t, clearHits) {
		assert.Equal(t, "clearly stronger than the incumbent", clearHits[0].Reason)
	}
}

func TestOutreach_DifferentDepartmentDoesNotBlock(t *testing.T) {
	m := twoTierMarket()
	m.Chiefs = []domain.Chief{
		{ID: "chief-aero", Department: domain.DepartmentAerodynamics, TeamID: "team-rich", Ability: 99},
	}
	c := domain.Chief{ID: "chief-eng", Department: domain.DepartmentEngineering, Ability: 60}

	approaches := Outreach(c, m)

	found := false
	for _, a := range approaches {
		if a.TeamID == "team-rich" && a.Reason == "vacant department" {
			found = true
		}
	}
	assert.True(t, found, "A staffed aero department leaves the engineering seat vacant")
}
