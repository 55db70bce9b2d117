package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSponsorTier_Label(t *testing.T) {
	assert.Equal(t, "Title Partner", TierTitle.Label())
	assert.Equal(t, "Principal Partner", TierPrincipal.Label())
	assert.Equal(t, "Official Partner", TierOfficial.Label())
	assert.Equal(t, "Technical Supplier", TierSupplier.Label())
	assert.Equal(t, "Partner", SponsorTier(99).Label(), "Unknown tiers fall back to the generic label")
}

func TestDriverAttributes_Total(t *testing.T) {
	flat := DriverAttributes{Pace: 50, Consistency: 50, Racecraft: 50, Overtaking: 50, Defending: 50, WetWeather: 50, Fitness: 50}

	assert.Equal(t, 350, flat.Total())
	assert.Zero(t, DriverAttributes{}.Total())
	assert.Equal(t, DriverAttributeCount*AttributeScale, DriverAttributes{
		Pace: 100, Consistency: 100, Racecraft: 100, Overtaking: 100,
		Defending: 100, WetWeather: 100, Fitness: 100,
	}.Total())
}

func TestDriver_FreeAgentAndRookie(t *testing.T) {
	d := Driver{ID: "drv-1"}
	assert.True(t, d.FreeAgent())
	assert.True(t, d.Rookie(), "No completed seasons reads as a rookie")

	d.TeamID = "team-red"
	d.History = []SeasonRecord{{Season: 2030}, {Season: 2029}}
	assert.False(t, d.FreeAgent())
	assert.False(t, d.Rookie(), "Two seasons is enough signal")

	d.History = d.History[:1]
	assert.True(t, d.Rookie(), "A single season still reads as a rookie")
}

func TestChief_Unattached(t *testing.T) {
	c := Chief{ID: "chf-1"}
	assert.True(t, c.Unattached())

	c.TeamID = "team-red"
	assert.False(t, c.Unattached())
}
