// Package lunar converts between the Gregorian calendar and the Vietnamese
// lunar calendar (âm lịch).
//
// The conversion follows the traditional rules: a lunar month starts on the
// local day of a new moon, month 11 is the month containing the winter
// solstice, and a year with thirteen months gets a leap month at the first
// month that contains no major solar term. New moons and solar longitudes
// are approximated with low-precision astronomical series.
//
// All functions are pure and safe for concurrent use.
package lunar

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// DefaultTimeZone is the UTC offset, in hours, of Vietnam.
const DefaultTimeZone = 7.0

// maxLeapSearch bounds the leap month search in leapMonthOffset.
const maxLeapSearch = 14

// maxMonthBacktrack bounds how many lunations SolarToLunar steps back when
// the estimated month start lies after the date.
const maxMonthBacktrack = 3

// ErrInvalidLeapMonth is returned when a leap month is requested for a month
// that is not the leap month of its lunar year.
var ErrInvalidLeapMonth = errors.New("lunar: month is not a leap month in this year")

// LunarDate is a date in the lunar calendar.
type LunarDate struct {
	Day   int  `json:"day"`
	Month int  `json:"month"`
	Year  int  `json:"year"`
	Leap  bool `json:"leap"`
}

// String formats the date as "D/M/Y", marking leap months.
func (d LunarDate) String() string {
	s := fmt.Sprintf("%d/%d/%d", d.Day, d.Month, d.Year)
	if d.Leap {
		s += " (leap)"
	}
	return s
}

// Short formats the date as "D/M", marking leap months.
func (d LunarDate) Short() string {
	s := fmt.Sprintf("%d/%d", d.Day, d.Month)
	if d.Leap {
		s += " (leap)"
	}
	return s
}

// SolarToLunar converts a solar date to the lunar calendar of the given time
// zone (hours east of UTC).
//
// Inputs are not validated. Out-of-range days or months produce a result
// for whatever JDN JulianDayNumber yields, never a panic.
func SolarToLunar(day, month, year int, timeZone float64) LunarDate {
	dayNumber := JulianDayNumber(day, month, year)

	k := int(math.Floor((float64(dayNumber) - lunationEpoch) / SynodicMonth))
	monthStart := newMoonDay(k+1, timeZone)
	if monthStart > dayNumber {
		monthStart = newMoonDay(k, timeZone)
	}
	// The mean lunation estimate can run one lunation ahead of the true new
	// moon (2054-05-07, 2062-04-09).
	for i := 0; monthStart > dayNumber && i < maxMonthBacktrack; i++ {
		k--
		monthStart = newMoonDay(k, timeZone)
	}

	a11 := lunarMonth11Start(year, timeZone)
	b11 := a11

	var lunarYear int
	if a11 >= monthStart {
		lunarYear = year
		a11 = lunarMonth11Start(year-1, timeZone)
	} else {
		lunarYear = year + 1
		b11 = lunarMonth11Start(year+1, timeZone)
	}

	lunarDay := dayNumber - monthStart + 1
	diff := floorDiv(monthStart-a11, 29)

	leap := false
	lunarMonth := diff + 11
	if b11-a11 > 365 {
		leapOffset := leapMonthOffset(a11, timeZone)
		if diff >= leapOffset {
			lunarMonth = diff + 10
			if diff == leapOffset {
				leap = true
			}
		}
	}
	if lunarMonth > 12 {
		lunarMonth -= 12
	}

	// Months 11 and 12 near the anchor still belong to the previous lunar year.
	if lunarMonth >= 11 && diff < 4 {
		lunarYear--
	}

	return LunarDate{
		Day:   lunarDay,
		Month: lunarMonth,
		Year:  lunarYear,
		Leap:  leap,
	}
}

// ConvertTime converts the calendar date of t, in t's own location, using
// that location's UTC offset.
func ConvertTime(t time.Time) LunarDate {
	_, offset := t.Zone()
	year, month, day := t.Date()
	return SolarToLunar(day, int(month), year, float64(offset)/3600)
}

// LunarToSolar converts a lunar date back to the solar calendar.
//
// A day past the end of the month spills into the following month, the same
// way JulianDayNumber treats overflowing solar days.
func LunarToSolar(day, month, year int, leap bool, timeZone float64) (SolarDate, error) {
	start, _, err := monthStartDay(month, year, leap, timeZone)
	if err != nil {
		return SolarDate{}, err
	}
	return JulianDayToDate(start + day - 1), nil
}

// LeapMonth returns the leap month of a lunar year, or 0 if the year has
// twelve months.
func LeapMonth(year int, timeZone float64) int {
	a11 := lunarMonth11Start(year-1, timeZone)
	b11 := lunarMonth11Start(year, timeZone)
	if m := leapMonthBetween(a11, b11, timeZone); m >= 1 && m <= 10 {
		return m
	}

	c11 := lunarMonth11Start(year+1, timeZone)
	if m := leapMonthBetween(b11, c11, timeZone); m >= 11 {
		return m
	}
	return 0
}

// MonthLength returns the number of days (29 or 30) in a lunar month.
func MonthLength(month, year int, leap bool, timeZone float64) (int, error) {
	start, k, err := monthStartDay(month, year, leap, timeZone)
	if err != nil {
		return 0, err
	}
	return newMoonDay(k+1, timeZone) - start, nil
}

// DisplayString returns the short lunar date shown next to the clock, such as
// "1/1" or "15/2 (leap)".
func DisplayString(day, month, year int) string {
	return SolarToLunar(day, month, year, DefaultTimeZone).Short()
}

// lunarMonth11Start returns the JDN of the first day of the lunar month
// containing the winter solstice of the given solar year.
func lunarMonth11Start(year int, timeZone float64) int {
	off := JulianDayNumber(31, 12, year) - 2415021
	k := int(math.Floor(float64(off) / SynodicMonth))

	nm := newMoonDay(k, timeZone)
	if sunLongitudeSextant(nm, timeZone) >= 9 {
		nm = newMoonDay(k-1, timeZone)
	}
	return nm
}

// leapMonthOffset returns, for a thirteen-month year anchored at a11, the
// number of months after month 11 at which the leap month occurs. The leap
// month is the first one during which the sun does not change sector.
func leapMonthOffset(a11 int, timeZone float64) int {
	k := lunationIndex(a11)

	i := 1
	arc := sunLongitudeSextant(newMoonDay(k+i, timeZone), timeZone)
	for {
		last := arc
		i++
		arc = sunLongitudeSextant(newMoonDay(k+i, timeZone), timeZone)
		if arc == last || i >= maxLeapSearch {
			break
		}
	}
	return i - 1
}

// leapMonthBetween returns the leap month number (1..12) of the lunar year
// running from a11 to b11, or 0 when the span holds twelve months.
func leapMonthBetween(a11, b11 int, timeZone float64) int {
	if b11-a11 <= 365 {
		return 0
	}
	m := leapMonthOffset(a11, timeZone) - 2
	if m <= 0 {
		m += 12
	}
	return m
}

// monthStartDay returns the JDN and lunation index of the first day of a
// lunar month.
func monthStartDay(month, year int, leap bool, timeZone float64) (int, int, error) {
	var a11, b11 int
	if month < 11 {
		a11 = lunarMonth11Start(year-1, timeZone)
		b11 = lunarMonth11Start(year, timeZone)
	} else {
		a11 = lunarMonth11Start(year, timeZone)
		b11 = lunarMonth11Start(year+1, timeZone)
	}

	k := lunationIndex(a11)
	off := mod(month-11, 12)

	if b11-a11 > 365 {
		leapOffset := leapMonthOffset(a11, timeZone)
		leapMonth := leapOffset - 2
		if leapMonth <= 0 {
			leapMonth += 12
		}
		if leap && month != leapMonth {
			return 0, 0, ErrInvalidLeapMonth
		}
		if leap || off >= leapOffset {
			off++
		}
	} else if leap {
		return 0, 0, ErrInvalidLeapMonth
	}

	return newMoonDay(k+off, timeZone), k + off, nil
}
