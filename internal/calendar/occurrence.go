package calendar

import (
	"errors"
	"time"

	"github.com/zapponejosh/amlich-api/internal/database"
	"github.com/zapponejosh/amlich-api/internal/lunar"
)

// occurrenceHorizon bounds the search in NextOccurrence, in years. Leap-month
// observances can go decades without a matching year.
const occurrenceHorizon = 100

// ErrNoOccurrence is returned when an observance does not fall within the
// search horizon.
var ErrNoOccurrence = errors.New("no occurrence within search horizon")

// NextOccurrence returns the first solar date on or after from on which the
// observance falls. Days missing from a short month fall back to the month's
// last day.
func (dr *DateResolver) NextOccurrence(obs database.Observance, from time.Time) (time.Time, error) {
	from = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)

	switch obs.Calendar {
	case database.CalendarSolar:
		return nextSolar(obs, from)
	case database.CalendarLunar:
		return dr.nextLunar(obs, from)
	default:
		return time.Time{}, database.ErrInvalid
	}
}

func nextSolar(obs database.Observance, from time.Time) (time.Time, error) {
	for year := from.Year(); year < from.Year()+occurrenceHorizon; year++ {
		day := obs.Day
		if obs.Month == 2 && day == 29 && !IsLeapYear(year) {
			day = 28
		}
		t := time.Date(year, time.Month(obs.Month), day, 0, 0, 0, 0, time.UTC)
		if !t.Before(from) {
			return t, nil
		}
	}
	return time.Time{}, ErrNoOccurrence
}

func (dr *DateResolver) nextLunar(obs database.Observance, from time.Time) (time.Time, error) {
	start := lunar.SolarToLunar(from.Day(), int(from.Month()), from.Year(), dr.timeZone).Year

	for year := start; year < start+occurrenceHorizon; year++ {
		if obs.Leap && lunar.LeapMonth(year, dr.timeZone) != obs.Month {
			continue
		}

		length, err := lunar.MonthLength(obs.Month, year, obs.Leap, dr.timeZone)
		if err != nil {
			continue
		}
		day := min(obs.Day, length)

		sd, err := lunar.LunarToSolar(day, obs.Month, year, obs.Leap, dr.timeZone)
		if err != nil {
			continue
		}

		t := time.Date(sd.Year, time.Month(sd.Month), sd.Day, 0, 0, 0, 0, time.UTC)
		if !t.Before(from) {
			return t, nil
		}
	}
	return time.Time{}, ErrNoOccurrence
}
