// Package almanac carries the static seasonal calendar and spot catalog for
// the Chatham fishery. The data is reference material compiled from local
// knowledge; it is loaded once and never mutated at runtime.
package almanac

import (
	"time"

	"github.com/monomoy/fishcast/internal/models"
)

// MonthInfo is one row of the seasonal table.
type MonthInfo struct {
	Month          time.Month
	OffshoreScore  float64 // [0,1] seasonal suitability for pelagics
	OffshoreStatus string
	OffshoreSpots  []string // spot names holding fish this month
	InshoreScore   float64
	InshoreStatus  string
	InshoreSpecies []string
}

// Almanac bundles the seasonal table with the spot catalog so the forecast
// generator takes it as a single injected dependency.
type Almanac struct {
	Seasons  []MonthInfo
	Offshore []models.FishingSpot
	Inshore  []models.FishingSpot
}

// Default returns the built-in Chatham almanac.
func Default() *Almanac {
	return &Almanac{
		Seasons:  seasons,
		Offshore: offshoreSpots,
		Inshore:  inshoreSpots,
	}
}

// Season returns the row for the given month. Out-of-range months fall back
// to January, matching the off-season rows.
func (a *Almanac) Season(month time.Month) MonthInfo {
	for _, s := range a.Seasons {
		if s.Month == month {
			return s
		}
	}
	return a.Seasons[0]
}

// SpotsFor resolves the recommended spots for a month and mode. Offshore
// recommendations come from the seasonal spot list; inshore spots are
// filtered by their BestMonths when present (spots without BestMonths are
// fishable year-round).
func (a *Almanac) SpotsFor(mode models.Mode, month time.Month) []models.FishingSpot {
	if mode == models.ModeOffshore {
		names := a.Season(month).OffshoreSpots
		var spots []models.FishingSpot
		for _, s := range a.Offshore {
			for _, n := range names {
				if s.Name == n {
					spots = append(spots, s)
					break
				}
			}
		}
		return spots
	}

	var spots []models.FishingSpot
	for _, s := range a.Inshore {
		if len(s.BestMonths) == 0 || containsMonth(s.BestMonths, month) {
			spots = append(spots, s)
		}
	}
	return spots
}

func containsMonth(months []time.Month, m time.Month) bool {
	for _, v := range months {
		if v == m {
			return true
		}
	}
	return false
}

var offshoreSpots = []models.FishingSpot{
	{
		Name: "Crab Ledge", Lat: 41.72, Lon: -69.6, DistanceNm: 15, Type: models.SpotOffshore,
		Notes:      "Closest tuna spot. Expansive area off Orleans/Chatham. Holds tons of bait. Great early season.",
		BestMonths: []time.Month{time.May, time.June, time.July, time.August, time.September},
	},
	{
		Name: "BC Buoy", Lat: 41.58, Lon: -69.35, DistanceNm: 25, Type: models.SpotOffshore,
		Notes:      "Shipping lanes area. Big area to cover.",
		BestMonths: []time.Month{time.June, time.July, time.August, time.September, time.October},
	},
	{
		Name: "Regal Sword", Lat: 41.47, Lon: -69.34, DistanceNm: 35, Type: models.SpotOffshore,
		Notes:      "Multiple wrecks, varied depths (210-230ft). Holds bait all season. Strong currents. Also great for cod.",
		BestMonths: []time.Month{time.July, time.August, time.September, time.October, time.November},
	},
	{
		Name: "BB Buoy", Lat: 41.26, Lon: -69.29, DistanceNm: 40, Type: models.SpotOffshore,
		Notes:      "Furthest south. Under-fished. Deep water (~200ft). Often where fish show after leaving south of MV.",
		BestMonths: []time.Month{time.June, time.July, time.August, time.September},
	},
	{
		Name: "Nauset / Outer Beach", Lat: 41.78, Lon: -69.9, DistanceNm: 8, Type: models.SpotOffshore,
		Notes:      "Run north up the beach from Chatham. Good for smaller boats.",
		BestMonths: []time.Month{time.June, time.July, time.August, time.September},
	},
	{
		Name: "Shipping Lanes", Lat: 41.55, Lon: -69.45, DistanceNm: 25, Type: models.SpotOffshore,
		Notes:      "Broad area between spots. Tuna transit through here.",
		BestMonths: []time.Month{time.July, time.August, time.September, time.October},
	},
}

var inshoreSpots = []models.FishingSpot{
	{
		Name: "Bearse Shoals", Lat: 41.605, Lon: -69.96, DistanceNm: 2, Type: models.SpotInshore,
		Notes: "First rips south of Chatham. Good on incoming tide.",
	},
	{
		Name: "Stonehorse Shoals", Lat: 41.58, Lon: -69.95, DistanceNm: 4, Type: models.SpotInshore,
		Notes: "Middle shoals. Miles of rips.",
	},
	{
		Name: "Handkerchief Shoal", Lat: 41.55, Lon: -70.0, DistanceNm: 6, Type: models.SpotInshore,
		Notes: "Southern shoals. Steep drop-offs. Dangerous in rough weather.",
	},
	{
		Name: "Monomoy Point", Lat: 41.56, Lon: -69.93, DistanceNm: 5, Type: models.SpotInshore,
		Notes: "Tip of the island. Extremely strong currents. Expert area.",
	},
	{
		Name: "Chatham Harbor Mouth", Lat: 41.67, Lon: -69.95, DistanceNm: 1, Type: models.SpotInshore,
		Notes: "Good on outgoing tide. Strong currents.",
	},
	{
		Name: "South Beach (inside)", Lat: 41.65, Lon: -69.95, DistanceNm: 1.5, Type: models.SpotInshore,
		Notes: "Flats fishing. Fly fishing for stripers on incoming tide.",
	},
	{
		Name: "Stage Harbor", Lat: 41.66, Lon: -69.97, DistanceNm: 0.5, Type: models.SpotInshore,
		Notes: "Protected. Good for smaller boats.",
	},
}

var seasons = []MonthInfo{
	{
		Month:          time.January,
		OffshoreStatus: "Off season. No tuna until late May.",
		InshoreStatus:  "Off season.",
	},
	{
		Month:          time.February,
		OffshoreStatus: "Off season. No tuna until late May.",
		InshoreStatus:  "Off season.",
	},
	{
		Month:          time.March,
		OffshoreStatus: "Off season. No tuna until late May.",
		InshoreStatus:  "Off season.",
	},
	{
		Month:          time.April,
		OffshoreStatus: "Off season. First tuna may show in 4-6 weeks.",
		InshoreScore:   0.1,
		InshoreStatus:  "Pre-season. A few early schoolies possible.",
	},
	{
		Month:          time.May,
		OffshoreScore:  0.3,
		OffshoreStatus: "Early season. First bluefin arriving. Fish are thin, feeding aggressively on herring/mackerel/sand eels.",
		OffshoreSpots:  []string{"Crab Ledge", "BC Buoy"},
		InshoreScore:   0.5,
		InshoreStatus:  "Stripers arriving. Schoolies first, then keepers. Sand eels and herring as bait.",
		InshoreSpecies: []string{"Striped bass"},
	},
	{
		Month:          time.June,
		OffshoreScore:  0.7,
		OffshoreStatus: "Strong early season. Schools of bluefin east of Chatham. Great jigging/popping bite.",
		OffshoreSpots:  []string{"Crab Ledge", "BC Buoy", "Nauset / Outer Beach"},
		InshoreScore:   0.8,
		InshoreStatus:  "Peak rip fishing. Squid run. Blues arriving. Massive bait concentrations on the shoals.",
		InshoreSpecies: []string{"Striped bass", "Bluefish", "Sea bass"},
	},
	{
		Month:          time.July,
		OffshoreScore:  0.8,
		OffshoreStatus: "Peak early season. Fish also showing south of Martha's Vineyard.",
		OffshoreSpots:  []string{"Crab Ledge", "BC Buoy", "Regal Sword", "BB Buoy"},
		InshoreScore:   0.9,
		InshoreStatus:  "Bonito and false albacore arriving. Fluke on the shoals. Best variety.",
		InshoreSpecies: []string{"Striped bass", "Bluefish", "Bonito", "False albacore", "Fluke", "Scup", "Sea bass"},
	},
	{
		Month:          time.August,
		OffshoreScore:  0.85,
		OffshoreStatus: "Good consistent fishing. Variety of sizes. Trolling, jigging, live bait all working.",
		OffshoreSpots:  []string{"Crab Ledge", "BC Buoy", "Regal Sword", "BB Buoy", "Shipping Lanes"},
		InshoreScore:   0.85,
		InshoreStatus:  "Great variety continues. Peak bonito and albie season.",
		InshoreSpecies: []string{"Striped bass", "Bluefish", "Bonito", "False albacore", "Fluke", "Scup", "Sea bass"},
	},
	{
		Month:          time.September,
		OffshoreScore:  1.0,
		OffshoreStatus: "BEST MONTH. Fall run begins. Multiple size classes feeding aggressively. Giants come through. Can be incredible.",
		OffshoreSpots:  []string{"Regal Sword", "Crab Ledge", "Shipping Lanes", "BC Buoy", "BB Buoy"},
		InshoreScore:   0.9,
		InshoreStatus:  "Fall run. Big stripers moving south. Blues aggressive.",
		InshoreSpecies: []string{"Striped bass (large)", "Bluefish"},
	},
	{
		Month:          time.October,
		OffshoreScore:  0.8,
		OffshoreStatus: "Late season. Largest fish migrating through. Weather windows critical - big fish but rough seas.",
		OffshoreSpots:  []string{"Regal Sword", "Shipping Lanes"},
		InshoreScore:   0.7,
		InshoreStatus:  "Fall run continues. Big stripers still moving.",
		InshoreSpecies: []string{"Striped bass (large)", "Bluefish"},
	},
	{
		Month:          time.November,
		OffshoreScore:  0.4,
		OffshoreStatus: "Very late season. Biggest fish but tough weather. Trolling natural baits, chunking.",
		OffshoreSpots:  []string{"Regal Sword", "Shipping Lanes"},
		InshoreScore:   0.3,
		InshoreStatus:  "Late season. Fish moving out.",
		InshoreSpecies: []string{"Striped bass (dwindling)"},
	},
	{
		Month:          time.December,
		OffshoreScore:  0.1,
		OffshoreStatus: "Rare but possible. Season effectively over.",
		InshoreStatus:  "Off season.",
	},
}
