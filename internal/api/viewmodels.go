package api

import (
	"time"

	"github.com/monomoy/fishcast/internal/forecast"
	"github.com/monomoy/fishcast/internal/models"
)

// DayForecastView is the JSON shape for a single day's fishing forecast.
type DayForecastView struct {
	Date          string       `json:"date"`
	Mode          models.Mode  `json:"mode"`
	Rating        int          `json:"rating"`
	BestWindows   []WindowView `json:"best_windows"`
	HourlyScores  []HourlyView `json:"hourly_scores"`
	Tides         []TideView   `json:"tides"`
	Sun           SunView      `json:"sun"`
	Moon          MoonView     `json:"moon"`
	WaterTempF    *float64     `json:"water_temp_f"`
	SeasonStatus  string       `json:"season_status"`
	Species       []string     `json:"species,omitempty"`
	Spots         []SpotView   `json:"spots"`
	DepartureTime *string      `json:"departure_time,omitempty"`
}

type WindowView struct {
	Start  string  `json:"start"`
	End    string  `json:"end"`
	Score  float64 `json:"score"`
	Reason string  `json:"reason"`
}

type HourlyView struct {
	Hour        string  `json:"hour"`
	Score       float64 `json:"score"`
	Highlight   bool    `json:"highlight"`
	SlackTide   float64 `json:"slack_tide"`
	TimeOfDay   float64 `json:"time_of_day"`
	Seasonal    float64 `json:"seasonal"`
	MoonPhase   float64 `json:"moon_phase"`
	WaterTemp   float64 `json:"water_temp"`
	CurrentFlow float64 `json:"current_flow"`
	TideRange   float64 `json:"tide_range"`
}

type TideView struct {
	Time     string  `json:"time"`
	HeightFt float64 `json:"height_ft"`
	Type     string  `json:"type"`
}

type SunView struct {
	Sunrise      string `json:"sunrise"`
	Sunset       string `json:"sunset"`
	Dawn         string `json:"dawn"`
	Dusk         string `json:"dusk"`
	NauticalDawn string `json:"nautical_dawn"`
	NauticalDusk string `json:"nautical_dusk"`
}

type MoonView struct {
	Phase        float64 `json:"phase"`
	PhaseName    string  `json:"phase_name"`
	Illumination int     `json:"illumination"`
	Moonrise     *string `json:"moonrise,omitempty"`
	Moonset      *string `json:"moonset,omitempty"`
}

type SpotView struct {
	Name       string  `json:"name"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	DistanceNm float64 `json:"distance_nm"`
	Type       string  `json:"type"`
	Notes      string  `json:"notes,omitempty"`
}

// OutlookView is the JSON shape for the multi-day outlook: one summary
// row per day rather than the full hourly breakdown.
type OutlookView struct {
	Mode models.Mode      `json:"mode"`
	Days []OutlookDayView `json:"days"`
}

type OutlookDayView struct {
	Date         string       `json:"date"`
	DayName      string       `json:"day_name"`
	Rating       int          `json:"rating"`
	BestWindows  []WindowView `json:"best_windows"`
	SeasonStatus string       `json:"season_status"`
}

func dayForecastView(fc models.DayForecast, loc *time.Location) DayForecastView {
	view := DayForecastView{
		Date:         fc.Date.In(loc).Format("2006-01-02"),
		Mode:         fc.Mode,
		Rating:       fc.OverallRating,
		BestWindows:  windowViews(fc.BestWindows, loc),
		HourlyScores: make([]HourlyView, 0, len(fc.HourlyScores)),
		Tides:        tideViews(fc.Tides, loc),
		Sun: SunView{
			Sunrise:      fc.Sun.Sunrise.In(loc).Format(time.RFC3339),
			Sunset:       fc.Sun.Sunset.In(loc).Format(time.RFC3339),
			Dawn:         fc.Sun.Dawn.In(loc).Format(time.RFC3339),
			Dusk:         fc.Sun.Dusk.In(loc).Format(time.RFC3339),
			NauticalDawn: fc.Sun.NauticalDawn.In(loc).Format(time.RFC3339),
			NauticalDusk: fc.Sun.NauticalDusk.In(loc).Format(time.RFC3339),
		},
		Moon:         moonView(fc.Moon, loc),
		SeasonStatus: fc.SeasonStatus,
		Species:      fc.Species,
		Spots:        spotViews(fc.Spots),
	}

	for _, hs := range fc.HourlyScores {
		view.HourlyScores = append(view.HourlyScores, HourlyView{
			Hour:        hs.Hour.In(loc).Format(time.RFC3339),
			Score:       hs.Score,
			Highlight:   hs.Score >= forecast.HighlightThreshold,
			SlackTide:   hs.SlackTide,
			TimeOfDay:   hs.TimeOfDay,
			Seasonal:    hs.Seasonal,
			MoonPhase:   hs.MoonPhase,
			WaterTemp:   hs.WaterTemp,
			CurrentFlow: hs.CurrentFlow,
			TideRange:   hs.TideRange,
		})
	}

	if fc.WaterTemp.Valid {
		temp := fc.WaterTemp.Float64
		view.WaterTempF = &temp
	}
	if fc.DepartureTime != nil {
		departure := fc.DepartureTime.In(loc).Format(time.RFC3339)
		view.DepartureTime = &departure
	}

	return view
}

func outlookView(mode models.Mode, days []models.DayForecast, loc *time.Location) OutlookView {
	view := OutlookView{Mode: mode, Days: make([]OutlookDayView, 0, len(days))}
	for _, day := range days {
		local := day.Date.In(loc)
		view.Days = append(view.Days, OutlookDayView{
			Date:         local.Format("2006-01-02"),
			DayName:      local.Weekday().String()[:3],
			Rating:       day.OverallRating,
			BestWindows:  windowViews(day.BestWindows, loc),
			SeasonStatus: day.SeasonStatus,
		})
	}
	return view
}

func windowViews(windows []models.FishingWindow, loc *time.Location) []WindowView {
	views := make([]WindowView, 0, len(windows))
	for _, w := range windows {
		views = append(views, WindowView{
			Start:  w.Start.In(loc).Format(time.RFC3339),
			End:    w.End.In(loc).Format(time.RFC3339),
			Score:  w.Score,
			Reason: w.Reason,
		})
	}
	return views
}

func tideViews(tides []models.TidePrediction, loc *time.Location) []TideView {
	views := make([]TideView, 0, len(tides))
	for _, t := range tides {
		views = append(views, TideView{
			Time:     t.Time.In(loc).Format(time.RFC3339),
			HeightFt: t.Height,
			Type:     string(t.Type),
		})
	}
	return views
}

func moonView(moon models.MoonData, loc *time.Location) MoonView {
	view := MoonView{
		Phase:        moon.Phase,
		PhaseName:    moon.PhaseName,
		Illumination: int(moon.Illumination*100 + 0.5),
	}
	if moon.Moonrise != nil {
		rise := moon.Moonrise.In(loc).Format(time.RFC3339)
		view.Moonrise = &rise
	}
	if moon.Moonset != nil {
		set := moon.Moonset.In(loc).Format(time.RFC3339)
		view.Moonset = &set
	}
	return view
}

func spotViews(spots []models.FishingSpot) []SpotView {
	views := make([]SpotView, 0, len(spots))
	for _, sp := range spots {
		views = append(views, SpotView{
			Name:       sp.Name,
			Lat:        sp.Lat,
			Lon:        sp.Lon,
			DistanceNm: sp.DistanceNm,
			Type:       string(sp.Type),
			Notes:      sp.Notes,
		})
	}
	return views
}
