package lunar

import "math"

// Astronomical constants used by the low-precision solar and lunar models.
const (
	// SynodicMonth is the mean length of a lunation in days.
	SynodicMonth = 29.530588853

	// lunationEpoch is the JDN used to count lunations (new moon of 1900-01-01).
	lunationEpoch = 2415021.076998695

	// j2000 is the Julian date of 2000-01-01 12:00 TT.
	j2000 = 2451545.0

	// daysPerCentury is the length of a Julian century.
	daysPerCentury = 36525.0

	// lunationsPerCentury converts a lunation count to Julian centuries since 1900.
	lunationsPerCentury = 1236.85

	degree = math.Pi / 180
)

// sunLongitude returns the sun's apparent ecliptic longitude in radians,
// normalized to [0, 2π), at Julian date jd. Accuracy is about 0.01°.
func sunLongitude(jd float64) float64 {
	t := (jd - j2000) / daysPerCentury
	t2 := t * t

	m := 357.52910 + 35999.05030*t - 0.0001559*t2 - 0.00000048*t*t2 // mean anomaly
	l0 := 280.46645 + 36000.76983*t + 0.0003032*t2                   // mean longitude

	dl := (1.914600 - 0.004817*t - 0.000014*t2) * math.Sin(degree*m)
	dl += (0.019993-0.000101*t)*math.Sin(degree*2*m) + 0.000290*math.Sin(degree*3*m)

	l := (l0 + dl) * degree
	return l - 2*math.Pi*math.Floor(l/(2*math.Pi))
}

// sunLongitudeSextant returns which of the twelve 30° sectors the sun
// occupies at local midnight starting the given day.
func sunLongitudeSextant(dayNumber int, timeZone float64) int {
	l := sunLongitude(float64(dayNumber) - 0.5 - timeZone/24)
	return int(math.Floor(l / math.Pi * 6))
}

// newMoon returns the Julian date of the k-th new moon after the 1900-01-01
// reference lunation.
func newMoon(k int) float64 {
	kf := float64(k)
	t := kf / lunationsPerCentury
	t2 := t * t
	t3 := t2 * t

	jd1 := 2415020.75933 + 29.53058868*kf + 0.0001178*t2 - 0.000000155*t3
	jd1 += 0.00033 * math.Sin((166.56+132.87*t-0.009173*t2)*degree)

	m := 359.2242 + 29.10535608*kf - 0.0000333*t2 - 0.00000347*t3    // sun's mean anomaly
	mpr := 306.0253 + 385.81691806*kf + 0.0107306*t2 + 0.00001236*t3 // moon's mean anomaly
	f := 21.2964 + 390.67050646*kf - 0.0016528*t2 - 0.00000239*t3    // moon's argument of latitude

	c1 := (0.1734-0.000393*t)*math.Sin(m*degree) + 0.0021*math.Sin(2*degree*m)
	c1 = c1 - 0.4068*math.Sin(mpr*degree) + 0.0161*math.Sin(degree*2*mpr)
	c1 = c1 - 0.0004*math.Sin(degree*3*mpr)
	c1 = c1 + 0.0104*math.Sin(degree*2*f) - 0.0051*math.Sin(degree*(m+mpr))
	c1 = c1 - 0.0074*math.Sin(degree*(m-mpr)) + 0.0004*math.Sin(degree*(2*f+m))
	c1 = c1 - 0.0004*math.Sin(degree*(2*f-m)) - 0.0006*math.Sin(degree*(2*f+mpr))
	c1 = c1 + 0.0010*math.Sin(degree*(2*f-mpr)) + 0.0005*math.Sin(degree*(2*mpr+m))

	var deltaT float64
	if t < -11 {
		deltaT = 0.001 + 0.000839*t + 0.0002261*t2 - 0.00000845*t3 - 0.000000081*t*t3
	} else {
		deltaT = -0.000278 + 0.000265*t + 0.000262*t2
	}

	return jd1 + c1 - deltaT
}

// newMoonDay returns the JDN of the local calendar day on which the k-th new
// moon falls.
func newMoonDay(k int, timeZone float64) int {
	return int(math.Floor(newMoon(k) + 0.5 + timeZone/24))
}

// lunationIndex estimates the lunation count of a day that is known to start
// a lunar month.
func lunationIndex(monthStart int) int {
	return int(math.Floor((float64(monthStart)-lunationEpoch)/SynodicMonth + 0.5))
}
