package calendar

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/zapponejosh/amlich-api/internal/database"
	"github.com/zapponejosh/amlich-api/internal/lunar"
)

// recordingDB records observance queries without touching a database.
type recordingDB struct {
	queries []database.DateQuery
	result  []database.Observance
	err     error
}

func (r *recordingDB) GetObservancesForDate(ctx context.Context, q database.DateQuery) ([]database.Observance, error) {
	r.queries = append(r.queries, q)
	if r.err != nil {
		return nil, r.err
	}
	return r.result, nil
}

func testDB(t *testing.T) *database.DB {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))

	cfg := database.DefaultConfig(database.MemoryPath)
	db, err := database.Open(cfg, logger)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if _, err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDateString(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return d
}

func TestResolveDate_Tet(t *testing.T) {
	dr := NewDateResolver(nil, lunar.DefaultTimeZone)

	info, err := dr.ResolveDate(context.Background(), mustDate(t, "2024-02-10"))
	if err != nil {
		t.Fatalf("ResolveDate failed: %v", err)
	}

	want := lunar.LunarDate{Day: 1, Month: 1, Year: 2024}
	if info.Lunar != want {
		t.Errorf("Lunar = %+v, want %+v", info.Lunar, want)
	}
	if info.Date != "2024-02-10" {
		t.Errorf("Date = %q", info.Date)
	}
	if info.Weekday != "Thứ bảy" {
		t.Errorf("Weekday = %q, want Thứ bảy", info.Weekday)
	}
	if info.Display != "1/1" {
		t.Errorf("Display = %q, want 1/1", info.Display)
	}
	if info.YearName != "Giáp Thìn" {
		t.Errorf("YearName = %q, want Giáp Thìn", info.YearName)
	}
	if info.MonthName != "Bính Dần" {
		t.Errorf("MonthName = %q, want Bính Dần", info.MonthName)
	}
	if info.DayName != "Giáp Thìn" {
		t.Errorf("DayName = %q, want Giáp Thìn", info.DayName)
	}
	if info.Zodiac != "Thìn" {
		t.Errorf("Zodiac = %q, want Thìn", info.Zodiac)
	}
	if info.Holiday == nil || *info.Holiday != "Tết Nguyên Đán" {
		t.Errorf("Holiday = %v, want Tết Nguyên Đán", info.Holiday)
	}
	if info.Observances == nil {
		t.Error("Observances should be an empty slice, not nil")
	}
	if info.TimeZone != 7 {
		t.Errorf("TimeZone = %v, want 7", info.TimeZone)
	}
}

func TestResolveDate_NoHoliday(t *testing.T) {
	dr := NewDateResolver(nil, lunar.DefaultTimeZone)

	info, err := dr.ResolveDate(context.Background(), mustDate(t, "2024-02-08"))
	if err != nil {
		t.Fatalf("ResolveDate failed: %v", err)
	}
	if info.Holiday != nil {
		t.Errorf("Holiday = %q, want nil", *info.Holiday)
	}
	if info.Lunar.Day != 29 || info.Lunar.Month != 12 || info.Lunar.Year != 2023 {
		t.Errorf("Lunar = %+v, want 29/12/2023", info.Lunar)
	}
}

func TestResolveDate_TimeZone(t *testing.T) {
	dr := NewDateResolver(nil, lunar.DefaultTimeZone)
	date := mustDate(t, "2023-03-21")

	vn, err := dr.ResolveDate(context.Background(), date)
	if err != nil {
		t.Fatalf("ResolveDate failed: %v", err)
	}
	if vn.Lunar.Day != 30 || vn.Lunar.Leap {
		t.Errorf("UTC+7: Lunar = %+v, want day 30 of regular month", vn.Lunar)
	}

	utc, err := dr.WithTimeZone(0).ResolveDate(context.Background(), date)
	if err != nil {
		t.Fatalf("ResolveDate failed: %v", err)
	}
	if utc.Lunar.Day != 1 || !utc.Lunar.Leap {
		t.Errorf("UTC: Lunar = %+v, want day 1 of leap month", utc.Lunar)
	}
	if utc.Display != "1/2 (leap)" {
		t.Errorf("UTC: Display = %q, want 1/2 (leap)", utc.Display)
	}

	if dr.TimeZone() != 7 {
		t.Error("WithTimeZone should not modify the original resolver")
	}
}

func TestResolveDate_Queries(t *testing.T) {
	tests := []struct {
		name string
		date string
		want database.DateQuery
	}{
		{
			name: "ordinary day",
			date: "2024-04-18",
			want: database.DateQuery{
				SolarMonth: 4, SolarDayFrom: 18, SolarDayTo: 18,
				LunarMonth: 3, LunarDayFrom: 10, LunarDayTo: 10,
			},
		},
		{
			name: "end of february in common year",
			date: "2023-02-28",
			want: database.DateQuery{
				SolarMonth: 2, SolarDayFrom: 28, SolarDayTo: 29,
				LunarMonth: 2, LunarDayFrom: 9, LunarDayTo: 9,
			},
		},
		{
			name: "end of short lunar month",
			date: "2023-02-19",
			want: database.DateQuery{
				SolarMonth: 2, SolarDayFrom: 19, SolarDayTo: 19,
				LunarMonth: 1, LunarDayFrom: 29, LunarDayTo: 30,
			},
		},
		{
			name: "leap month",
			date: "2023-03-22",
			want: database.DateQuery{
				SolarMonth: 3, SolarDayFrom: 22, SolarDayTo: 22,
				LunarMonth: 2, LunarDayFrom: 1, LunarDayTo: 1, LunarLeap: true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recordingDB{}
			dr := NewDateResolver(rec, lunar.DefaultTimeZone)

			if _, err := dr.ResolveDate(context.Background(), mustDate(t, tt.date)); err != nil {
				t.Fatalf("ResolveDate failed: %v", err)
			}
			if len(rec.queries) != 1 {
				t.Fatalf("expected 1 query, got %d", len(rec.queries))
			}
			if rec.queries[0] != tt.want {
				t.Errorf("query = %+v, want %+v", rec.queries[0], tt.want)
			}
		})
	}
}

func TestResolveDate_QueryError(t *testing.T) {
	boom := errors.New("boom")
	dr := NewDateResolver(&recordingDB{err: boom}, lunar.DefaultTimeZone)

	_, err := dr.ResolveDate(context.Background(), mustDate(t, "2024-02-10"))
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped boom, got %v", err)
	}
}

func TestResolveDate_WithObservances(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	obs := []database.Observance{
		{Name: "Giỗ ông nội", Calendar: database.CalendarLunar, Month: 3, Day: 10},
		{Name: "Sinh nhật bố", Calendar: database.CalendarSolar, Month: 4, Day: 18},
		{Name: "Giỗ bà", Calendar: database.CalendarLunar, Month: 3, Day: 11},
	}
	for i := range obs {
		if err := db.CreateObservance(ctx, &obs[i]); err != nil {
			t.Fatalf("create observance: %v", err)
		}
	}

	dr := NewDateResolver(db, lunar.DefaultTimeZone)
	info, err := dr.ResolveDate(ctx, mustDate(t, "2024-04-18"))
	if err != nil {
		t.Fatalf("ResolveDate failed: %v", err)
	}

	if info.Holiday == nil || *info.Holiday != "Giỗ Tổ Hùng Vương" {
		t.Errorf("Holiday = %v, want Giỗ Tổ Hùng Vương", info.Holiday)
	}
	if len(info.Observances) != 2 {
		t.Fatalf("expected 2 observances, got %d", len(info.Observances))
	}
	// Ordered by calendar, lunar first.
	if info.Observances[0].Name != "Giỗ ông nội" {
		t.Errorf("first observance = %q, want Giỗ ông nội", info.Observances[0].Name)
	}
	if info.Observances[1].Name != "Sinh nhật bố" {
		t.Errorf("second observance = %q, want Sinh nhật bố", info.Observances[1].Name)
	}
}

func TestResolveRange(t *testing.T) {
	dr := NewDateResolver(nil, lunar.DefaultTimeZone)

	days, err := dr.ResolveRange(context.Background(), mustDate(t, "2024-02-08"), mustDate(t, "2024-02-10"))
	if err != nil {
		t.Fatalf("ResolveRange failed: %v", err)
	}
	if len(days) != 3 {
		t.Fatalf("expected 3 days, got %d", len(days))
	}

	want := []string{"29/12", "30/12", "1/1"}
	for i, d := range days {
		if d.Display != want[i] {
			t.Errorf("day %d: Display = %q, want %q", i, d.Display, want[i])
		}
	}
}

func TestResolveRange_Errors(t *testing.T) {
	dr := NewDateResolver(nil, lunar.DefaultTimeZone)
	ctx := context.Background()

	tests := []struct {
		name    string
		start   string
		end     string
		wantErr error
	}{
		{"reversed", "2024-02-10", "2024-02-09", ErrInvalidRange},
		{"too large", "2024-01-01", "2024-04-02", ErrRangeTooLarge},
		{"max size", "2024-01-01", "2024-04-01", nil},
		{"single day", "2024-01-01", "2024-01-01", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days, err := dr.ResolveRange(ctx, mustDate(t, tt.start), mustDate(t, tt.end))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && len(days) != DaysBetween(mustDate(t, tt.start), mustDate(t, tt.end))+1 {
				t.Errorf("got %d days", len(days))
			}
		})
	}
}

func TestResolveMonth(t *testing.T) {
	dr := NewDateResolver(nil, lunar.DefaultTimeZone)

	view, err := dr.ResolveMonth(context.Background(), 2024, 2)
	if err != nil {
		t.Fatalf("ResolveMonth failed: %v", err)
	}

	if len(view.Days) != 29 {
		t.Errorf("expected 29 days in Feb 2024, got %d", len(view.Days))
	}
	if view.FirstWeekday != int(time.Thursday) {
		t.Errorf("FirstWeekday = %d, want %d", view.FirstWeekday, time.Thursday)
	}
	if view.LunarYear != "Quý Mão" || view.LunarYear != view.Days[0].YearName {
		t.Errorf("LunarYear = %q, want Quý Mão from the first day", view.LunarYear)
	}
	if view.Days[9].Display != "1/1" {
		t.Errorf("Feb 10 Display = %q, want 1/1", view.Days[9].Display)
	}
}

func TestResolveMonth_Invalid(t *testing.T) {
	dr := NewDateResolver(nil, lunar.DefaultTimeZone)

	for _, m := range []int{0, 13, -1} {
		if _, err := dr.ResolveMonth(context.Background(), 2024, m); !errors.Is(err, ErrInvalidMonth) {
			t.Errorf("month %d: err = %v, want ErrInvalidMonth", m, err)
		}
	}
}
