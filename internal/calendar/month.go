package calendar

import (
	"context"
	"errors"
	"time"
)

// ErrInvalidMonth is returned for a month outside 1..12.
var ErrInvalidMonth = errors.New("month must be between 1 and 12")

// MonthView is a Gregorian month laid out for the mini-calendar widget.
type MonthView struct {
	Year         int       `json:"year"`
	Month        int       `json:"month"`
	FirstWeekday int       `json:"first_weekday"` // 0 = Sunday
	LunarYear    string    `json:"lunar_year"`    // year name at the first of the month
	Days         []DayInfo `json:"days"`
}

// ResolveMonth resolves every day of a Gregorian month.
func (dr *DateResolver) ResolveMonth(ctx context.Context, year, month int) (*MonthView, error) {
	if month < 1 || month > 12 {
		return nil, ErrInvalidMonth
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	days, err := dr.ResolveRange(ctx, first, last)
	if err != nil {
		return nil, err
	}

	return &MonthView{
		Year:         year,
		Month:        month,
		FirstWeekday: int(first.Weekday()),
		LunarYear:    days[0].YearName,
		Days:         days,
	}, nil
}
