package astro

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"

	"github.com/monomoy/fishcast/internal/models"
)

// Moonrise/moonset altitude in degrees: mean refraction minus the moon's
// mean parallax and semidiameter.
const altMoonEvent = 0.125

// Moon returns the lunar phase and rise/set events for the calendar day
// containing date, in date's location. Moonrise or Moonset is nil on days
// when the event does not occur.
func Moon(date time.Time, lat, lon float64) models.MoonData {
	jd := julian.TimeToJD(date.UTC())
	T := (jd - 2451545.0) / 36525.0

	lambdaSun := sunApparentLongitude(T)
	lambdaMoon := moonEclipticLongitude(T)

	elongation := normalizeAngle(lambdaMoon - lambdaSun)
	phase := elongation / 360.0
	illumination := (1 - math.Cos(degToRad(elongation))) / 2

	rise, set := moonRiseSet(date, lat, lon)

	return models.MoonData{
		Phase:        phase,
		PhaseName:    PhaseName(phase),
		Illumination: illumination,
		Moonrise:     rise,
		Moonset:      set,
	}
}

// PhaseName maps the phase fraction (0 = new, 0.5 = full) onto the eight
// traditional names, with each major phase owning a 1/8 band centered on it.
func PhaseName(phase float64) string {
	switch {
	case phase < 0.0625:
		return "New Moon"
	case phase < 0.1875:
		return "Waxing Crescent"
	case phase < 0.3125:
		return "First Quarter"
	case phase < 0.4375:
		return "Waxing Gibbous"
	case phase < 0.5625:
		return "Full Moon"
	case phase < 0.6875:
		return "Waning Gibbous"
	case phase < 0.8125:
		return "Last Quarter"
	case phase < 0.9375:
		return "Waning Crescent"
	default:
		return "New Moon"
	}
}

// moonRiseSet scans the day for horizon crossings of the moon's altitude.
// Hourly samples bracket each crossing, which is then refined by linear
// interpolation. Good to a few minutes, matching the accuracy of the
// underlying longitude series.
func moonRiseSet(date time.Time, lat, lon float64) (rise, set *time.Time) {
	loc := date.Location()
	y, m, d := date.Date()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, loc)

	prevAlt := moonAltitude(dayStart, lat, lon)
	for i := 1; i <= 24; i++ {
		t := dayStart.Add(time.Duration(i) * time.Hour)
		alt := moonAltitude(t, lat, lon)
		if prevAlt < altMoonEvent && alt >= altMoonEvent && rise == nil {
			ev := crossing(t.Add(-time.Hour), prevAlt, alt)
			rise = &ev
		}
		if prevAlt >= altMoonEvent && alt < altMoonEvent && set == nil {
			ev := crossing(t.Add(-time.Hour), prevAlt, alt)
			set = &ev
		}
		prevAlt = alt
	}
	return rise, set
}

func crossing(before time.Time, altBefore, altAfter float64) time.Time {
	frac := (altMoonEvent - altBefore) / (altAfter - altBefore)
	return before.Add(time.Duration(frac * float64(time.Hour)))
}

// moonAltitude returns the moon's altitude above the horizon in degrees
// for an observer at lat/lon.
func moonAltitude(t time.Time, lat, lon float64) float64 {
	jd := julian.TimeToJD(t.UTC())
	T := (jd - 2451545.0) / 36525.0

	lambda := moonEclipticLongitude(T)
	beta := moonEclipticLatitude(T)
	eps := obliquity(T)
	ra, dec := eclipticToEquatorial(lambda, beta, eps)

	lst := localSiderealTime(jd, lon)
	H := lst - ra

	phi := degToRad(lat)
	sinAlt := math.Sin(phi)*math.Sin(dec) + math.Cos(phi)*math.Cos(dec)*math.Cos(H)
	return radToDeg(math.Asin(sinAlt))
}

// moonEclipticLongitude computes the moon's ecliptic longitude in degrees
// using the dominant terms from Meeus Ch. 47.
func moonEclipticLongitude(T float64) float64 {
	L := 218.3164477 +
		481267.88123421*T -
		0.0015786*T*T +
		T*T*T/538841 -
		T*T*T*T/65194000

	D := moonMeanElongation(T)
	Mp := moonMeanAnomaly(T)

	Drad := degToRad(normalizeAngle(D))
	Mprad := degToRad(normalizeAngle(Mp))

	lambda := L +
		6.289*math.Sin(Mprad) +
		1.274*math.Sin(2*Drad-Mprad) +
		0.658*math.Sin(2*Drad) +
		0.214*math.Sin(2*Mprad) +
		0.110*math.Sin(Drad)

	return normalizeAngle(lambda)
}

// moonEclipticLatitude computes the moon's ecliptic latitude in degrees
// (dominant terms from Meeus Table 47.B).
func moonEclipticLatitude(T float64) float64 {
	F := 93.2720950 +
		483202.0175233*T -
		0.0036539*T*T -
		T*T*T/3526000 +
		T*T*T*T/863310000

	D := moonMeanElongation(T)
	Mp := moonMeanAnomaly(T)

	Frad := degToRad(normalizeAngle(F))
	Drad := degToRad(normalizeAngle(D))
	Mprad := degToRad(normalizeAngle(Mp))

	return 5.128*math.Sin(Frad) +
		0.2806*math.Sin(Mprad+Frad) +
		0.2777*math.Sin(Mprad-Frad) +
		0.1732*math.Sin(2*Drad-Frad)
}

func moonMeanElongation(T float64) float64 {
	return 297.8501921 +
		445267.1114034*T -
		0.0018819*T*T +
		T*T*T/545868 -
		T*T*T*T/113065000
}

func moonMeanAnomaly(T float64) float64 {
	return 134.9633964 +
		477198.8675055*T +
		0.0087414*T*T +
		T*T*T/69699 -
		T*T*T*T/14712000
}

// obliquity computes the mean obliquity of the ecliptic in degrees.
func obliquity(T float64) float64 {
	return 23.439291111 - 0.013004167*T - 0.00000164*T*T + 0.000000504*T*T*T
}

// eclipticToEquatorial converts ecliptic coordinates in degrees to
// equatorial right ascension and declination in radians.
func eclipticToEquatorial(lambdaDeg, betaDeg, epsilonDeg float64) (ra, dec float64) {
	lam := degToRad(lambdaDeg)
	bet := degToRad(betaDeg)
	eps := degToRad(epsilonDeg)

	dec = math.Asin(math.Sin(bet)*math.Cos(eps) + math.Cos(bet)*math.Sin(eps)*math.Sin(lam))

	ra = math.Atan2(math.Sin(lam)*math.Cos(eps)-math.Tan(bet)*math.Sin(eps), math.Cos(lam))
	if ra < 0 {
		ra += 2 * math.Pi
	}
	return ra, dec
}

// localSiderealTime computes the observer's sidereal time in radians
// (IAU 1982 model, Meeus eq. 12.4).
func localSiderealTime(jd, lonDeg float64) float64 {
	jd0 := math.Floor(jd-0.5) + 0.5
	T := (jd0 - 2451545.0) / 36525.0

	gmst := 6.697374558 + 2400.0513369*T + 0.0000258622*T*T - 1.7222e-9*T*T*T
	gmst += 1.00273790935 * (jd - jd0) * 24.0

	gmst = math.Mod(gmst, 24)
	if gmst < 0 {
		gmst += 24
	}
	return degToRad(normalizeAngle(gmst*15.0 + lonDeg))
}
