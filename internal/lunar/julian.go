package lunar

// gregorianStartJDN is the Julian Day Number of October 15, 1582, the first
// day of the Gregorian calendar. Earlier dates use the Julian calendar.
const gregorianStartJDN = 2299161

// SolarDate is a proleptic Gregorian (or, before 1582-10-15, Julian) calendar date.
// Fields are not validated.
type SolarDate struct {
	Day   int `json:"day"`
	Month int `json:"month"`
	Year  int `json:"year"`
}

// JulianDayNumber returns the Julian Day Number of the given calendar date.
//
// Dates whose Gregorian JDN falls before 2299161 are recomputed with the
// Julian calendar formula, so historical dates match the calendar that was
// in use at the time. No validation is done: day 31 of April is simply
// May 1.
func JulianDayNumber(day, month, year int) int {
	a := floorDiv(14-month, 12)
	y := year + 4800 - a
	m := month + 12*a - 3

	jd := day + floorDiv(153*m+2, 5) + 365*y + floorDiv(y, 4) - floorDiv(y, 100) + floorDiv(y, 400) - 32045
	if jd < gregorianStartJDN {
		jd = day + floorDiv(153*m+2, 5) + 365*y + floorDiv(y, 4) - 32083
	}
	return jd
}

// JulianDayToDate is the inverse of JulianDayNumber.
func JulianDayToDate(jd int) SolarDate {
	var b, c int
	if jd >= gregorianStartJDN {
		a := jd + 32044
		b = floorDiv(4*a+3, 146097)
		c = a - floorDiv(b*146097, 4)
	} else {
		c = jd + 32082
	}

	d := floorDiv(4*c+3, 1461)
	e := c - floorDiv(1461*d, 4)
	m := floorDiv(5*e+2, 153)

	return SolarDate{
		Day:   e - floorDiv(153*m+2, 5) + 1,
		Month: m + 3 - 12*floorDiv(m, 10),
		Year:  b*100 + d - 4800 + floorDiv(m, 10),
	}
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// mod returns a non-negative remainder.
func mod(a, n int) int {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}
