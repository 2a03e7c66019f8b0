package forecast

import (
	"database/sql"
	"time"

	"github.com/monomoy/fishcast/internal/almanac"
	"github.com/monomoy/fishcast/internal/astro"
	"github.com/monomoy/fishcast/internal/models"
)

// windowThreshold is the hourly score a bite window must sustain.
const windowThreshold = 0.5

// DefaultOutlookDays is the length of the multi-day outlook when the
// caller does not ask for a specific span.
const DefaultOutlookDays = 7

// Mode weights. Offshore leans on slack tide and first light; inshore
// wants moving water over the shoals.
const (
	offshoreSlackWeight  = 0.3
	offshoreTimeWeight   = 0.3
	offshoreSeasonWeight = 0.2
	offshoreMoonWeight   = 0.1
	offshoreTempWeight   = 0.1

	inshoreFlowWeight   = 0.35
	inshoreRangeWeight  = 0.2
	inshoreTimeWeight   = 0.25
	inshoreMoonWeight   = 0.1
	inshoreSeasonWeight = 0.1
)

// Rating blends the day's peak hour with seasonal context.
const (
	ratingPeakWeight   = 0.7
	ratingSeasonWeight = 0.3
)

// dockArrivalLead is how far ahead of sunrise the boat should be on the spot.
const dockArrivalLead = 15 * time.Minute

// Generator produces day forecasts for one fixed location.
type Generator struct {
	Almanac        *almanac.Almanac
	Lat            float64
	Lon            float64
	CruiseSpeedKts float64
	IdealTempMinF  float64
	IdealTempMaxF  float64
}

// Day builds the forecast for the calendar day containing date. tides must
// hold that day's extrema only; waterTemp is the latest buoy reading, or
// invalid when the buoy is silent.
func (g *Generator) Day(date time.Time, mode models.Mode, tides []models.TidePrediction, waterTemp sql.NullFloat64) models.DayForecast {
	month := date.Month()
	sun := astro.SunTimes(date, g.Lat, g.Lon)
	moon := astro.Moon(date, g.Lat, g.Lon)
	season := g.Almanac.Season(month)

	moonScore := MoonPhaseScore(moon.Phase)
	seasonScore := season.OffshoreScore
	status := season.OffshoreStatus
	if mode == models.ModeInshore {
		seasonScore = season.InshoreScore
		status = season.InshoreStatus
	}
	tidalRange := TidalRange(tides)

	hours := g.hourlyScores(date, mode, tides, sun, moonScore, seasonScore, waterTemp, tidalRange)

	peak := 0.0
	for _, h := range hours {
		if h.Score > peak {
			peak = h.Score
		}
	}

	spots := g.Almanac.SpotsFor(mode, month)

	fc := models.DayForecast{
		Date:          date,
		Mode:          mode,
		OverallRating: Rating(peak, seasonScore),
		BestWindows:   BestWindows(hours, windowThreshold),
		HourlyScores:  hours,
		Tides:         tides,
		Sun:           sun,
		Moon:          moon,
		WaterTemp:     waterTemp,
		SeasonStatus:  status,
		Spots:         spots,
	}

	if mode == models.ModeInshore {
		fc.Species = season.InshoreSpecies
	}
	if mode == models.ModeOffshore {
		fc.DepartureTime = g.departureTime(spots, sun.Sunrise)
	}
	return fc
}

// Outlook builds forecasts for days consecutive days starting at start,
// falling back to DefaultOutlookDays when days is not positive. allTides
// may span the whole period; each day scores against its own calendar
// day's extrema.
func (g *Generator) Outlook(start time.Time, mode models.Mode, allTides []models.TidePrediction, waterTemp sql.NullFloat64, days int) []models.DayForecast {
	if days <= 0 {
		days = DefaultOutlookDays
	}
	forecasts := make([]models.DayForecast, 0, days)
	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i)
		y, m, d := day.Date()

		var dayTides []models.TidePrediction
		for _, t := range allTides {
			ty, tm, td := t.Time.Date()
			if ty == y && tm == m && td == d {
				dayTides = append(dayTides, t)
			}
		}
		forecasts = append(forecasts, g.Day(day, mode, dayTides, waterTemp))
	}
	return forecasts
}

func (g *Generator) hourlyScores(
	date time.Time,
	mode models.Mode,
	tides []models.TidePrediction,
	sun models.SunTimes,
	moonScore, seasonScore float64,
	waterTemp sql.NullFloat64,
	tidalRange float64,
) []models.HourlyScore {
	y, m, d := date.Date()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, date.Location())

	scores := make([]models.HourlyScore, 0, 24)
	for i := 0; i < 24; i++ {
		hour := dayStart.Add(time.Duration(i) * time.Hour)
		tod := TimeOfDayScore(hour, sun)

		var s models.HourlyScore
		if mode == models.ModeOffshore {
			slack := slackTideScore(hour, tides)
			temp := waterTempScore(waterTemp, g.IdealTempMinF, g.IdealTempMaxF)
			s = models.HourlyScore{
				Hour:      hour,
				SlackTide: slack,
				TimeOfDay: tod,
				Seasonal:  seasonScore,
				MoonPhase: moonScore,
				WaterTemp: temp,
				Score: slack*offshoreSlackWeight +
					tod*offshoreTimeWeight +
					seasonScore*offshoreSeasonWeight +
					moonScore*offshoreMoonWeight +
					temp*offshoreTempWeight,
			}
		} else {
			flow := currentFlowScore(hour, tides)
			rng := tideRangeScore(tidalRange)
			s = models.HourlyScore{
				Hour:        hour,
				TimeOfDay:   tod,
				Seasonal:    seasonScore,
				MoonPhase:   moonScore,
				CurrentFlow: flow,
				TideRange:   rng,
				Score: flow*inshoreFlowWeight +
					rng*inshoreRangeWeight +
					tod*inshoreTimeWeight +
					moonScore*inshoreMoonWeight +
					seasonScore*inshoreSeasonWeight,
			}
		}
		scores = append(scores, s)
	}
	return scores
}

// Rating collapses the day's peak hourly score and the seasonal score to a
// 1-5 star rating. Season keeps a midwinter day with a perfect tide from
// rating five stars.
func Rating(peakScore, seasonScore float64) int {
	combined := peakScore*ratingPeakWeight + seasonScore*ratingSeasonWeight
	switch {
	case combined >= 0.8:
		return 5
	case combined >= 0.65:
		return 4
	case combined >= 0.5:
		return 3
	case combined >= 0.3:
		return 2
	default:
		return 1
	}
}

// departureTime works back from first light at the closest recommended
// spot: arrive dockArrivalLead before sunrise, minus the run out at cruise
// speed. Nil when no spot is in season or the spot is at the dock.
func (g *Generator) departureTime(spots []models.FishingSpot, sunrise time.Time) *time.Time {
	if len(spots) == 0 {
		return nil
	}
	closest := spots[0]
	for _, s := range spots[1:] {
		if s.DistanceNm < closest.DistanceNm {
			closest = s
		}
	}
	if closest.DistanceNm == 0 || g.CruiseSpeedKts <= 0 {
		return nil
	}
	runTime := time.Duration(closest.DistanceNm / g.CruiseSpeedKts * float64(time.Hour))
	dep := sunrise.Add(-dockArrivalLead).Add(-runTime)
	return &dep
}
