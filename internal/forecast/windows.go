package forecast

import (
	"sort"

	"github.com/monomoy/fishcast/internal/models"
)

// maxWindows caps how many bite windows a day reports.
const maxWindows = 3

// HighlightThreshold marks individual hours worth calling out in a
// rendered timeline, a stricter cut than the assembly threshold.
const HighlightThreshold = 0.6

// BestWindows collects contiguous runs of hours scoring at or above
// threshold and returns up to three, best first. Each window carries its
// peak score and the two factors that contributed most at that peak.
func BestWindows(scores []models.HourlyScore, threshold float64) []models.FishingWindow {
	var windows []models.FishingWindow
	var open bool
	var current models.FishingWindow

	for _, s := range scores {
		if s.Score >= threshold {
			if !open {
				open = true
				current = models.FishingWindow{
					Start:  s.Hour,
					Score:  s.Score,
					Reason: topFactors(s),
				}
			} else if s.Score > current.Score {
				current.Score = s.Score
				current.Reason = topFactors(s)
			}
			current.End = s.Hour
		} else if open {
			windows = append(windows, current)
			open = false
		}
	}
	if open {
		windows = append(windows, current)
	}

	sort.SliceStable(windows, func(i, j int) bool {
		return windows[i].Score > windows[j].Score
	})
	if len(windows) > maxWindows {
		windows = windows[:maxWindows]
	}
	return windows
}

// topFactors names the two largest factor contributions for an hour,
// joined as "slack tide + time of day". Ties keep declaration order.
func topFactors(s models.HourlyScore) string {
	factors := []struct {
		name  string
		value float64
	}{
		{"slack tide", s.SlackTide},
		{"time of day", s.TimeOfDay},
		{"season", s.Seasonal},
		{"moon phase", s.MoonPhase},
		{"water temp", s.WaterTemp},
		{"current flow", s.CurrentFlow},
		{"tidal range", s.TideRange},
	}
	sort.SliceStable(factors, func(i, j int) bool {
		return factors[i].value > factors[j].value
	})
	return factors[0].name + " + " + factors[1].name
}
