// Package astro computes the sun and moon events that feed the forecast
// scoring. Solar positions use the Meeus low-precision series; results are
// within a minute or two of published almanac times, which is plenty for
// deciding when the bite turns on.
package astro

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"

	"github.com/monomoy/fishcast/internal/models"
)

// Event altitudes in degrees. Sunrise/sunset accounts for refraction and
// the solar disk radius; the twilight altitudes are the standard civil and
// nautical definitions.
const (
	altSunrise  = -0.833
	altCivil    = -6.0
	altNautical = -12.0
)

func degToRad(deg float64) float64 { return deg * math.Pi / 180.0 }
func radToDeg(rad float64) float64 { return rad * 180.0 / math.Pi }

func normalizeAngle(angle float64) float64 {
	angle = math.Mod(angle, 360)
	if angle < 0 {
		angle += 360
	}
	return angle
}

// SunTimes returns the solar events for the calendar day containing date,
// expressed in date's location.
func SunTimes(date time.Time, lat, lon float64) models.SunTimes {
	loc := date.Location()
	y, m, d := date.Date()
	noonUTC := time.Date(y, m, d, 12, 0, 0, 0, time.UTC)

	jd := julian.TimeToJD(noonUTC)
	T := (jd - 2451545.0) / 36525.0

	dec := solarDeclination(T)
	eot := equationOfTimeMinutes(T)

	// Solar noon in UTC minutes from midnight. Each degree of longitude
	// shifts local solar time by four minutes.
	solarNoon := 720.0 - 4.0*lon - eot

	dayUTC := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	event := func(alt float64, rising bool) time.Time {
		ha := hourAngleMinutes(lat, dec, alt)
		minutes := solarNoon + ha
		if rising {
			minutes = solarNoon - ha
		}
		return dayUTC.Add(time.Duration(minutes * float64(time.Minute))).In(loc)
	}

	return models.SunTimes{
		Sunrise:      event(altSunrise, true),
		Sunset:       event(altSunrise, false),
		Dawn:         event(altCivil, true),
		Dusk:         event(altCivil, false),
		NauticalDawn: event(altNautical, true),
		NauticalDusk: event(altNautical, false),
	}
}

// hourAngleMinutes returns half the time the sun spends above the given
// altitude, in minutes. The clamp covers polar conditions, which cannot
// occur at mid-latitudes for these altitudes.
func hourAngleMinutes(lat, decDeg, altDeg float64) float64 {
	latRad := degToRad(lat)
	decRad := degToRad(decDeg)
	cosH := (math.Sin(degToRad(altDeg)) - math.Sin(latRad)*math.Sin(decRad)) /
		(math.Cos(latRad) * math.Cos(decRad))
	if cosH < -1 {
		cosH = -1
	} else if cosH > 1 {
		cosH = 1
	}
	return radToDeg(math.Acos(cosH)) * 4.0
}

// solarDeclination returns the sun's declination in degrees at Julian
// centuries T since J2000.0 (Meeus Ch. 25, apparent position).
func solarDeclination(T float64) float64 {
	lambda := sunApparentLongitude(T)
	eps0 := 23 + (26+(21.448-T*(46.815+T*(0.00059-T*0.001813)))/60)/60
	eps := eps0 + 0.00256*math.Cos(degToRad(125.04-1934.136*T))
	return radToDeg(math.Asin(math.Sin(degToRad(eps)) * math.Sin(degToRad(lambda))))
}

func sunMeanLongitude(T float64) float64 {
	return normalizeAngle(280.46646 + T*(36000.76983+T*0.0003032))
}

func sunMeanAnomaly(T float64) float64 {
	return normalizeAngle(357.52911 + T*(35999.05029-T*0.0001537))
}

func sunApparentLongitude(T float64) float64 {
	L0 := sunMeanLongitude(T)
	M := sunMeanAnomaly(T)
	C := math.Sin(degToRad(M))*(1.914602-T*(0.004817+T*0.000014)) +
		math.Sin(degToRad(2*M))*(0.019993-T*0.000101) +
		math.Sin(degToRad(3*M))*0.000289
	omega := 125.04 - 1934.136*T
	return normalizeAngle(L0 + C - 0.00569 - 0.00478*math.Sin(degToRad(omega)))
}

// equationOfTimeMinutes returns apparent minus mean solar time in minutes
// (Meeus eq. 28.3).
func equationOfTimeMinutes(T float64) float64 {
	L0 := sunMeanLongitude(T)
	M := sunMeanAnomaly(T)
	e := 0.016708634 - T*(0.000042037+T*0.0000001267)
	eps0 := 23 + (26+(21.448-T*(46.815+T*(0.00059-T*0.001813)))/60)/60
	y := math.Tan(degToRad(eps0) / 2)
	y *= y
	return radToDeg(y*math.Sin(degToRad(2*L0))-
		2*e*math.Sin(degToRad(M))+
		4*e*y*math.Sin(degToRad(M))*math.Cos(degToRad(2*L0))-
		0.5*y*y*math.Sin(degToRad(4*L0))-
		1.25*e*e*math.Sin(degToRad(2*M))) * 4
}
