package scouting

import (
	"sort"

	"github.com/markcheno/go-talib"

	"github.com/apexsim/paddock/internal/domain"
	"github.com/apexsim/paddock/pkg/formulas"
)

const (
	// FormWindow is the EMA period over season-by-season points shares.
	FormWindow = 3

	// FormBand is the fractional distance from the EMA that counts as
	// real movement rather than noise.
	FormBand = 0.10
)

// Form classifies a driver's trajectory over recent seasons.
type Form string

const (
	FormRising  Form = "RISING"
	FormSteady  Form = "STEADY"
	FormFading  Form = "FADING"
	FormUnknown Form = "UNKNOWN"
)

// FormTrend reads a driver's trajectory from their share of team points
// season over season. Shares rather than raw points, so a car change does
// not read as a form swing.
func FormTrend(history []domain.SeasonRecord) Form {
	shares := seasonShares(history)
	if len(shares) < 2 {
		return FormUnknown
	}

	var ema float64
	if len(shares) < FormWindow {
		ema = formulas.Mean(shares)
	} else {
		series := talib.Ema(shares, FormWindow)
		ema = series[len(series)-1]
	}
	if ema == 0 {
		// A scoreless run is flat, not fading.
		return FormSteady
	}

	last := shares[len(shares)-1]
	distance := (last - ema) / ema
	switch {
	case distance > FormBand:
		return FormRising
	case distance < -FormBand:
		return FormFading
	}
	return FormSteady
}

// SeasonMomentum is the change in points share against the season before,
// in [-1, 1]. Zero for careers shorter than two seasons.
func SeasonMomentum(history []domain.SeasonRecord) float64 {
	shares := seasonShares(history)
	if len(shares) < 2 {
		return 0
	}

	mom := talib.Mom(shares, 1)
	return mom[len(mom)-1]
}

// seasonShares returns each season's points share in season order,
// oldest first. Repositories hand history out newest first.
func seasonShares(history []domain.SeasonRecord) []float64 {
	if len(history) == 0 {
		return nil
	}

	ordered := make([]domain.SeasonRecord, len(history))
	copy(ordered, history)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Season < ordered[j].Season })

	shares := make([]float64, 0, len(ordered))
	for _, rec := range ordered {
		if rec.TeamPoints <= 0 {
			shares = append(shares, 0)
			continue
		}
		shares = append(shares, formulas.Clamp01(rec.Points/rec.TeamPoints))
	}
	return shares
}
