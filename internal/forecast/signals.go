// Package forecast turns tide predictions, astronomy, and the seasonal
// almanac into hourly fishing scores, bite windows, and day ratings. The
// package is pure computation: callers fetch the inputs and hand them in.
package forecast

import (
	"database/sql"
	"math"
	"time"

	"github.com/monomoy/fishcast/internal/models"
)

// slackTideScore peaks at 1.0 when the hour lands on a tide turn and falls
// linearly to 0 at three hours away. Pelagics feed hardest when the current
// goes slack over structure.
func slackTideScore(hour time.Time, tides []models.TidePrediction) float64 {
	if len(tides) == 0 {
		return 0
	}
	minDist := math.Inf(1)
	for _, tide := range tides {
		d := math.Abs(hour.Sub(tide.Time).Hours())
		if d < minDist {
			minDist = d
		}
	}
	return math.Max(0, 1-minDist/3)
}

// currentFlowScore is the complement of slack: the rips fish best when
// water is moving over the shoals.
func currentFlowScore(hour time.Time, tides []models.TidePrediction) float64 {
	return 1 - slackTideScore(hour, tides)
}

// tideRangeScore maps the day's tidal range onto [0,1]. Chatham averages
// about 4ft; spring tides run ~6ft and neaps ~2.5ft.
func tideRangeScore(rangeFt float64) float64 {
	return math.Min(1, math.Max(0, (rangeFt-2)/4))
}

// waterTempScore peaks across the ideal band and falls off linearly over
// 10°F on either side. A missing reading scores neutral.
func waterTempScore(temp sql.NullFloat64, idealMin, idealMax float64) float64 {
	if !temp.Valid {
		return 0.5
	}
	t := temp.Float64
	switch {
	case t >= idealMin && t <= idealMax:
		return 1.0
	case t < idealMin:
		return math.Max(0, 1-(idealMin-t)/10)
	default:
		return math.Max(0, 1-(t-idealMax)/10)
	}
}

// MoonPhaseScore scores the phase fraction: 1.0 at new and full moon,
// 0.5 at the quarters. Spring tides follow the syzygies.
func MoonPhaseScore(phase float64) float64 {
	distFromNew := math.Min(phase, 1-phase)
	distFromFull := math.Abs(phase - 0.5)
	return 1 - math.Min(distFromNew, distFromFull)*2
}

// TimeOfDayScore peaks through the dawn bite (30 minutes before civil dawn
// to two hours after sunrise), holds a secondary peak in the last two hours
// of light, and floors at 0.1 overnight.
func TimeOfDayScore(hour time.Time, sun models.SunTimes) float64 {
	peakStart := sun.Dawn.Add(-30 * time.Minute)
	peakEnd := sun.Sunrise.Add(2 * time.Hour)

	if !hour.Before(peakStart) && !hour.After(peakEnd) {
		if !hour.After(sun.Sunrise) {
			return 0.8 + 0.2*ratio(hour.Sub(peakStart), sun.Sunrise.Sub(peakStart))
		}
		return 1.0 - 0.3*ratio(hour.Sub(sun.Sunrise), peakEnd.Sub(sun.Sunrise))
	}

	duskStart := sun.Sunset.Add(-2 * time.Hour)
	if !hour.Before(duskStart) && !hour.After(sun.Sunset) {
		return 0.5 + 0.3*ratio(hour.Sub(duskStart), sun.Sunset.Sub(duskStart))
	}

	if hour.After(peakEnd) && hour.Before(duskStart) {
		return 0.2
	}

	// Night bites happen, so not zero.
	return 0.1
}

func ratio(num, den time.Duration) float64 {
	if den <= 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// TidalRange returns the day's range in feet: highest high minus lowest
// low. Days missing either kind of extremum report zero.
func TidalRange(tides []models.TidePrediction) float64 {
	maxHigh := math.Inf(-1)
	minLow := math.Inf(1)
	for _, t := range tides {
		switch t.Type {
		case models.TideHigh:
			if t.Height > maxHigh {
				maxHigh = t.Height
			}
		case models.TideLow:
			if t.Height < minLow {
				minLow = t.Height
			}
		}
	}
	if math.IsInf(maxHigh, -1) || math.IsInf(minLow, 1) {
		return 0
	}
	return maxHigh - minLow
}
