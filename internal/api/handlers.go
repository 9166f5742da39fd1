package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zapponejosh/amlich-api/internal/calendar"
	"github.com/zapponejosh/amlich-api/internal/config"
	"github.com/zapponejosh/amlich-api/internal/database"
	"github.com/zapponejosh/amlich-api/internal/lunar"
)

// Handlers contains all HTTP handlers and their dependencies.
type Handlers struct {
	db       *database.DB
	resolver *calendar.DateResolver
	cfg      *config.Config
	logger   *slog.Logger
	metrics  *Metrics
	now      func() time.Time
}

// NewHandlers creates a new Handlers instance. metrics may be nil.
func NewHandlers(db *database.DB, cfg *config.Config, logger *slog.Logger, metrics *Metrics) *Handlers {
	return &Handlers{
		db:       db,
		resolver: calendar.NewDateResolver(db, cfg.TimeZoneOffset),
		cfg:      cfg,
		logger:   logger,
		metrics:  metrics,
		now:      time.Now,
	}
}

// ZodiacInfo is the response for GET /api/v1/zodiac/{year}.
type ZodiacInfo struct {
	Year     int    `json:"year"`
	Animal   string `json:"animal"`
	YearName string `json:"year_name"`
	Leap     int    `json:"leap_month"` // 0 when the year has no leap month
}

// HolidayInfo is the response for GET /api/v1/holidays/{date}.
type HolidayInfo struct {
	Date    string          `json:"date"`
	Holiday *string         `json:"holiday"`
	Lunar   lunar.LunarDate `json:"lunar"`
}

// ConversionResult is the response for GET /api/v1/lunar/convert.
type ConversionResult struct {
	Lunar       lunar.LunarDate `json:"lunar"`
	Solar       lunar.SolarDate `json:"solar"`
	Date        string          `json:"date"`
	Weekday     string          `json:"weekday"`
	MonthLength int             `json:"month_length"`
	TimeZone    float64         `json:"timezone"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Check database health
	if err := h.db.Health(ctx); err != nil {
		h.logger.Warn("health check failed", slog.Any("error", err))
		WriteError(w, http.StatusServiceUnavailable, "Database unhealthy", "HEALTH_CHECK_FAILED")
		return
	}

	WriteSuccess(w, map[string]string{
		"status": "healthy",
	})
}

// GetToday handles GET /api/v1/lunar/today
func (h *Handlers) GetToday(w http.ResponseWriter, r *http.Request) {
	resolver, ok := h.resolverFor(w, r)
	if !ok {
		return
	}

	info, err := resolver.ResolveDate(r.Context(), today(h.now(), resolver.TimeZone()))
	if err != nil {
		h.logger.Error("failed to resolve today", slog.Any("error", err))
		WriteInternalError(w, "Failed to resolve date")
		return
	}

	h.metrics.countConversions("solar_to_lunar", 1)
	WriteSuccess(w, info)
}

// GetDate handles GET /api/v1/lunar/date/{YYYY-MM-DD}
func (h *Handlers) GetDate(w http.ResponseWriter, r *http.Request) {
	date, ok := dateParam(w, r)
	if !ok {
		return
	}

	resolver, ok := h.resolverFor(w, r)
	if !ok {
		return
	}

	info, err := resolver.ResolveDate(r.Context(), date)
	if err != nil {
		h.logger.Error("failed to resolve date",
			slog.String("date", calendar.FormatDate(date)),
			slog.Any("error", err))
		WriteInternalError(w, "Failed to resolve date")
		return
	}

	h.metrics.countConversions("solar_to_lunar", 1)
	WriteSuccess(w, info)
}

// GetRange handles GET /api/v1/lunar/range?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *Handlers) GetRange(w http.ResponseWriter, r *http.Request) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")

	if startStr == "" || endStr == "" {
		WriteBadRequest(w, "Both start and end date parameters are required")
		return
	}

	startDate, err := calendar.ParseDateString(startStr)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid start date: %s. Use YYYY-MM-DD", startStr))
		return
	}

	endDate, err := calendar.ParseDateString(endStr)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid end date: %s. Use YYYY-MM-DD", endStr))
		return
	}

	resolver, ok := h.resolverFor(w, r)
	if !ok {
		return
	}

	days, err := resolver.ResolveRange(r.Context(), startDate, endDate)
	if err != nil {
		if errors.Is(err, calendar.ErrInvalidRange) || errors.Is(err, calendar.ErrRangeTooLarge) {
			WriteBadRequest(w, err.Error())
			return
		}
		h.logger.Error("failed to resolve range",
			slog.String("start", startStr),
			slog.String("end", endStr),
			slog.Any("error", err))
		WriteInternalError(w, "Failed to resolve dates")
		return
	}

	h.metrics.countConversions("solar_to_lunar", len(days))
	WriteSuccess(w, map[string]interface{}{
		"start": startStr,
		"end":   endStr,
		"days":  days,
	})
}

// ConvertLunar handles GET /api/v1/lunar/convert?day=D&month=M&year=Y&leap=false
func (h *Handlers) ConvertLunar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	day, err := strconv.Atoi(q.Get("day"))
	if err != nil || day < 1 || day > 30 {
		WriteBadRequest(w, "day must be an integer between 1 and 30")
		return
	}
	month, err := strconv.Atoi(q.Get("month"))
	if err != nil || month < 1 || month > 12 {
		WriteBadRequest(w, "month must be an integer between 1 and 12")
		return
	}
	year, err := strconv.Atoi(q.Get("year"))
	if err != nil || year < 1 || year > 9999 {
		WriteBadRequest(w, "year must be an integer between 1 and 9999")
		return
	}

	leap := false
	if s := q.Get("leap"); s != "" {
		leap, err = strconv.ParseBool(s)
		if err != nil {
			WriteBadRequest(w, "leap must be true or false")
			return
		}
	}

	tz, ok := h.timeZone(w, r)
	if !ok {
		return
	}

	length, err := lunar.MonthLength(month, year, leap, tz)
	if err != nil {
		if errors.Is(err, lunar.ErrInvalidLeapMonth) {
			WriteBadRequest(w, fmt.Sprintf("Month %d is not a leap month in lunar year %d", month, year))
			return
		}
		h.logger.Error("failed to get lunar month length", slog.Any("error", err))
		WriteInternalError(w, "Failed to convert date")
		return
	}
	if day > length {
		WriteBadRequest(w, fmt.Sprintf("Lunar month %d of %d has only %d days", month, year, length))
		return
	}

	solar, err := lunar.LunarToSolar(day, month, year, leap, tz)
	if err != nil {
		h.logger.Error("failed to convert lunar date", slog.Any("error", err))
		WriteInternalError(w, "Failed to convert date")
		return
	}

	date := time.Date(solar.Year, time.Month(solar.Month), solar.Day, 0, 0, 0, 0, time.UTC)

	h.metrics.countConversions("lunar_to_solar", 1)
	WriteSuccess(w, ConversionResult{
		Lunar:       lunar.LunarDate{Day: day, Month: month, Year: year, Leap: leap},
		Solar:       solar,
		Date:        calendar.FormatDate(date),
		Weekday:     calendar.WeekdayName(date),
		MonthLength: length,
		TimeZone:    tz,
	})
}

// GetMonth handles GET /api/v1/calendar/{year}/{month}
func (h *Handlers) GetMonth(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year < 1 || year > 9999 {
		WriteBadRequest(w, "year must be an integer between 1 and 9999")
		return
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil || month < 1 || month > 12 {
		WriteBadRequest(w, "month must be an integer between 1 and 12")
		return
	}

	resolver, ok := h.resolverFor(w, r)
	if !ok {
		return
	}

	view, err := resolver.ResolveMonth(r.Context(), year, month)
	if err != nil {
		h.logger.Error("failed to resolve month",
			slog.Int("year", year),
			slog.Int("month", month),
			slog.Any("error", err))
		WriteInternalError(w, "Failed to resolve month")
		return
	}

	h.metrics.countConversions("solar_to_lunar", len(view.Days))
	WriteSuccess(w, view)
}

// GetZodiac handles GET /api/v1/zodiac/{year}
func (h *Handlers) GetZodiac(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		WriteBadRequest(w, "year must be an integer")
		return
	}

	tz, ok := h.timeZone(w, r)
	if !ok {
		return
	}

	WriteSuccess(w, ZodiacInfo{
		Year:     year,
		Animal:   lunar.ZodiacAnimal(year),
		YearName: lunar.YearName(year),
		Leap:     lunar.LeapMonth(year, tz),
	})
}

// GetHoliday handles GET /api/v1/holidays/{YYYY-MM-DD}
//
// Holidays are always looked up in Vietnam's time zone.
func (h *Handlers) GetHoliday(w http.ResponseWriter, r *http.Request) {
	date, ok := dateParam(w, r)
	if !ok {
		return
	}

	year, month, day := date.Date()
	info := HolidayInfo{
		Date:  calendar.FormatDate(date),
		Lunar: lunar.SolarToLunar(day, int(month), year, lunar.DefaultTimeZone),
	}
	if name, found := lunar.VietnameseHoliday(day, int(month), year); found {
		info.Holiday = &name
	}

	WriteSuccess(w, info)
}

// resolverFor returns the resolver for the request's tz parameter, writing a
// 400 and returning false when it is invalid.
func (h *Handlers) resolverFor(w http.ResponseWriter, r *http.Request) (*calendar.DateResolver, bool) {
	tz, ok := h.timeZone(w, r)
	if !ok {
		return nil, false
	}
	if tz == h.resolver.TimeZone() {
		return h.resolver, true
	}
	return h.resolver.WithTimeZone(tz), true
}

// timeZone reads the optional tz query parameter, falling back to the
// configured offset.
func (h *Handlers) timeZone(w http.ResponseWriter, r *http.Request) (float64, bool) {
	s := r.URL.Query().Get("tz")
	if s == "" {
		return h.cfg.TimeZoneOffset, true
	}

	tz, err := strconv.ParseFloat(s, 64)
	if err != nil || !config.ValidTimeZoneOffset(tz) {
		WriteBadRequest(w, fmt.Sprintf("Invalid tz: %s. Use hours east of UTC between -12 and 14", s))
		return 0, false
	}
	return tz, true
}

// dateParam parses the {date} path parameter.
func dateParam(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	dateStr := chi.URLParam(r, "date")
	if dateStr == "" {
		WriteBadRequest(w, "Date parameter is required")
		return time.Time{}, false
	}

	date, err := calendar.ParseDateString(dateStr)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid date: %s. Use YYYY-MM-DD", dateStr))
		return time.Time{}, false
	}
	return date, true
}

// today returns the current calendar date at the given UTC offset.
func today(now time.Time, tz float64) time.Time {
	local := now.In(time.FixedZone("", int(tz*3600)))
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}
