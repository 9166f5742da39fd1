// Package calendar resolves solar dates to lunar calendar day records for the
// dashboard: lunar date, sexagenary names, holidays and user observances.
package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zapponejosh/amlich-api/internal/database"
	"github.com/zapponejosh/amlich-api/internal/lunar"
)

// MaxRangeDays is the longest span ResolveRange accepts.
const MaxRangeDays = 92

var (
	// ErrInvalidRange is returned when a range ends before it starts.
	ErrInvalidRange = errors.New("start date must be before or equal to end date")

	// ErrRangeTooLarge is returned when a range exceeds MaxRangeDays.
	ErrRangeTooLarge = fmt.Errorf("date range cannot exceed %d days", MaxRangeDays)
)

// DayInfo describes one solar day and its place in the lunar calendar.
type DayInfo struct {
	Date        string                `json:"date"` // YYYY-MM-DD
	Weekday     string                `json:"weekday"`
	Solar       lunar.SolarDate       `json:"solar"`
	Lunar       lunar.LunarDate       `json:"lunar"`
	Display     string                `json:"display"`    // e.g. "15/8" or "1/2 (leap)"
	YearName    string                `json:"year_name"`  // e.g. "Giáp Thìn"
	MonthName   string                `json:"month_name"` // e.g. "Bính Dần"
	DayName     string                `json:"day_name"`
	Zodiac      string                `json:"zodiac"`
	Holiday     *string               `json:"holiday"`
	Observances []database.Observance `json:"observances"`
	TimeZone    float64               `json:"timezone"`
}

// DateResolver resolves calendar dates to lunar day records.
type DateResolver struct {
	db       Queryable
	timeZone float64
}

// Queryable is an interface for observance lookups.
// A nil Queryable resolves dates without observances.
type Queryable interface {
	GetObservancesForDate(ctx context.Context, q database.DateQuery) ([]database.Observance, error)
}

// NewDateResolver creates a resolver converting in the given time zone
// (hours east of UTC).
func NewDateResolver(db Queryable, timeZone float64) *DateResolver {
	return &DateResolver{db: db, timeZone: timeZone}
}

// TimeZone returns the offset the resolver converts in.
func (dr *DateResolver) TimeZone() float64 {
	return dr.timeZone
}

// WithTimeZone returns a copy of the resolver converting in another zone.
func (dr *DateResolver) WithTimeZone(timeZone float64) *DateResolver {
	return &DateResolver{db: dr.db, timeZone: timeZone}
}

// ResolveDate converts the calendar date of date (its clock is ignored) to a
// day record.
func (dr *DateResolver) ResolveDate(ctx context.Context, date time.Time) (*DayInfo, error) {
	year, month, day := date.Date()
	ld := lunar.SolarToLunar(day, int(month), year, dr.timeZone)
	jdn := lunar.JulianDayNumber(day, int(month), year)

	info := &DayInfo{
		Date:        FormatDate(date),
		Weekday:     WeekdayName(date),
		Solar:       lunar.SolarDate{Day: day, Month: int(month), Year: year},
		Lunar:       ld,
		Display:     ld.Short(),
		YearName:    lunar.YearName(ld.Year),
		MonthName:   lunar.MonthName(ld.Month, ld.Year),
		DayName:     lunar.DayName(jdn),
		Zodiac:      lunar.ZodiacAnimal(ld.Year),
		Observances: []database.Observance{},
		TimeZone:    dr.timeZone,
	}

	if name, ok := lunar.VietnameseHoliday(day, int(month), year); ok {
		info.Holiday = &name
	}

	if dr.db == nil {
		return info, nil
	}

	q, err := dr.dateQuery(year, int(month), day, ld)
	if err != nil {
		return nil, err
	}

	observances, err := dr.db.GetObservancesForDate(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("get observances: %w", err)
	}
	info.Observances = observances

	return info, nil
}

// ResolveRange resolves every day from start to end inclusive.
func (dr *DateResolver) ResolveRange(ctx context.Context, start, end time.Time) ([]DayInfo, error) {
	start = startOfDay(start)
	end = startOfDay(end)

	if start.After(end) {
		return nil, ErrInvalidRange
	}

	// Limit range to prevent abuse
	if DaysBetween(start, end) >= MaxRangeDays {
		return nil, ErrRangeTooLarge
	}

	var days []DayInfo
	for current := start; !current.After(end); current = current.AddDate(0, 0, 1) {
		info, err := dr.ResolveDate(ctx, current)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", FormatDate(current), err)
		}
		days = append(days, *info)
	}

	return days, nil
}

// dateQuery builds the observance lookup for one day. On the last day of a
// short month it also matches observances pinned to the missing days.
func (dr *DateResolver) dateQuery(year, month, day int, ld lunar.LunarDate) (database.DateQuery, error) {
	q := database.DateQuery{
		SolarMonth:   month,
		SolarDayFrom: day,
		SolarDayTo:   day,
		LunarMonth:   ld.Month,
		LunarDayFrom: ld.Day,
		LunarDayTo:   ld.Day,
		LunarLeap:    ld.Leap,
	}

	if month == 2 && day == 28 && !IsLeapYear(year) {
		q.SolarDayTo = 29
	}

	if ld.Day == 29 {
		length, err := lunar.MonthLength(ld.Month, ld.Year, ld.Leap, dr.timeZone)
		if err != nil {
			return q, fmt.Errorf("lunar month length: %w", err)
		}
		if length == 29 {
			q.LunarDayTo = 30
		}
	}

	return q, nil
}
