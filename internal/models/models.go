package models

import (
	"database/sql"
	"time"
)

// Mode selects which set of factor weights the scorer uses.
type Mode string

const (
	ModeOffshore Mode = "offshore" // pelagic (tuna) fishing
	ModeInshore  Mode = "inshore"  // rips and structure fishing
)

// TideType marks a tide extremum as high or low.
type TideType string

const (
	TideHigh TideType = "H"
	TideLow  TideType = "L"
)

// TidePrediction is a single predicted tide extremum.
type TidePrediction struct {
	Time   time.Time
	Height float64 // feet relative to MLLW
	Type   TideType
}

// HourlyHeight is one point on the predicted tide curve. Display data only;
// scoring uses the extrema.
type HourlyHeight struct {
	Time   time.Time
	Height float64
}

// WaterTemp is a single buoy water-temperature reading.
type WaterTemp struct {
	ObservedAt time.Time
	TempF      float64
}

// SunTimes holds the solar events for one calendar day at the reference location.
type SunTimes struct {
	Sunrise      time.Time
	Sunset       time.Time
	Dawn         time.Time // civil twilight start
	Dusk         time.Time // civil twilight end
	NauticalDawn time.Time
	NauticalDusk time.Time
}

// MoonData holds the lunar state for one calendar day.
type MoonData struct {
	Phase        float64 // [0,1): 0=new, 0.5=full
	PhaseName    string
	Illumination float64 // [0,1]
	Moonrise     *time.Time
	Moonset      *time.Time
}

type SpotType string

const (
	SpotOffshore SpotType = "offshore"
	SpotInshore  SpotType = "inshore"
)

// FishingSpot is a named location in the static catalog.
type FishingSpot struct {
	Name       string
	Lat        float64
	Lon        float64
	DistanceNm float64 // one-way run from the harbor
	Type       SpotType
	Notes      string
	BestMonths []time.Month // empty means year-round
}

// HourlyScore is one hour's composite score with the full factor breakdown.
// Factors a mode does not weight are zero, never absent, so consumers stay total.
type HourlyScore struct {
	Hour        time.Time
	Score       float64
	SlackTide   float64
	TimeOfDay   float64
	Seasonal    float64
	MoonPhase   float64
	WaterTemp   float64
	CurrentFlow float64
	TideRange   float64
}

// FishingWindow is a contiguous run of above-threshold hours.
type FishingWindow struct {
	Start  time.Time
	End    time.Time
	Score  float64 // maximum hourly score inside the window
	Reason string  // top two factors at the maximum, e.g. "slack tide + time of day"
}

// DayForecast is the full forecast for one calendar day and one mode.
type DayForecast struct {
	Date          time.Time
	Mode          Mode
	OverallRating int // 1-5
	BestWindows   []FishingWindow
	HourlyScores  []HourlyScore
	Tides         []TidePrediction
	Sun           SunTimes
	Moon          MoonData
	WaterTemp     sql.NullFloat64 // °F, invalid when the buoy has no reading
	SeasonStatus  string
	Species       []string // inshore species running this month (inshore mode only)
	Spots         []FishingSpot
	DepartureTime *time.Time // offshore only: when to leave the dock
}
