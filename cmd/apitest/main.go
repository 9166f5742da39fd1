package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// =============================================================================
// Response Types - Match the actual API response structure
// =============================================================================

type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

type ErrorInfo struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// LunarDate mirrors lunar.LunarDate
type LunarDate struct {
	Day   int  `json:"day"`
	Month int  `json:"month"`
	Year  int  `json:"year"`
	Leap  bool `json:"leap"`
}

// DayInfo is the response for /lunar/date/{date} and /lunar/today
type DayInfo struct {
	Date      string    `json:"date"`
	Weekday   string    `json:"weekday"`
	Lunar     LunarDate `json:"lunar"`
	Display   string    `json:"display"`
	YearName  string    `json:"year_name"`
	MonthName string    `json:"month_name"`
	DayName   string    `json:"day_name"`
	Zodiac    string    `json:"zodiac"`
	Holiday   *string   `json:"holiday"`
}

// RangeResponse is the response for /lunar/range
type RangeResponse struct {
	Start string    `json:"start"`
	End   string    `json:"end"`
	Days  []DayInfo `json:"days"`
}

// ConversionResponse is the response for /lunar/convert
type ConversionResponse struct {
	Date        string `json:"date"`
	Weekday     string `json:"weekday"`
	MonthLength int    `json:"month_length"`
}

// MonthResponse is the response for /calendar/{year}/{month}
type MonthResponse struct {
	Year      int       `json:"year"`
	Month     int       `json:"month"`
	LunarYear string    `json:"lunar_year"`
	Days      []DayInfo `json:"days"`
}

// ZodiacResponse is the response for /zodiac/{year}
type ZodiacResponse struct {
	Year      int    `json:"year"`
	Animal    string `json:"animal"`
	YearName  string `json:"year_name"`
	LeapMonth int    `json:"leap_month"`
}

// HealthResponse is the response for /health
type HealthResponse struct {
	Status string `json:"status"`
}

// =============================================================================
// Test Runner
// =============================================================================

type TestRunner struct {
	baseURL      string
	client       *http.Client
	verbose      bool
	successCount int
	errorCount   int
	errors       []string
}

func NewTestRunner(baseURL string, verbose bool) *TestRunner {
	return &TestRunner{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		verbose: verbose,
	}
}

func (tr *TestRunner) Run() {
	fmt.Println("==============================================")
	fmt.Println("Âm Lịch API Test Suite")
	fmt.Println("==============================================")
	fmt.Printf("Base URL: %s\n", tr.baseURL)
	fmt.Println()

	// Run test groups
	tr.testHealth()
	tr.testToday()
	tr.testSpecificDates()
	tr.testDateRange()
	tr.testConversion()
	tr.testZodiac()
	tr.testEdgeCases()
	tr.testTetMonth()

	// Print summary
	tr.printSummary()
}

// =============================================================================
// Test Groups
// =============================================================================

func (tr *TestRunner) testHealth() {
	tr.printSection("Health Check")

	resp, err := tr.get("/health")
	if err != nil {
		tr.recordError("Health", err.Error())
		return
	}

	var health HealthResponse
	if err := tr.parseDataAs(resp, &health); err != nil {
		tr.recordError("Health", err.Error())
		return
	}

	if health.Status == "healthy" {
		tr.recordSuccess("Health check passed")
	} else {
		tr.recordError("Health", fmt.Sprintf("Unexpected status: %s", health.Status))
	}
}

func (tr *TestRunner) testToday() {
	tr.printSection("Today")

	resp, err := tr.get("/api/v1/lunar/today")
	if err != nil {
		tr.recordError("Today", err.Error())
		return
	}

	var day DayInfo
	if err := tr.parseDataAs(resp, &day); err != nil {
		tr.recordError("Today", err.Error())
		return
	}

	tr.recordSuccess(fmt.Sprintf("Today (%s): %s, year %s", day.Date, day.Display, day.YearName))
	tr.printDayDetail(&day)

	// Same date seen from UTC
	if _, err := tr.get("/api/v1/lunar/today?tz=0"); err != nil {
		tr.recordError("Today (UTC)", err.Error())
		return
	}
	tr.recordSuccess("Today with tz=0 works")
}

func (tr *TestRunner) testSpecificDates() {
	tr.printSection("Specific Date Tests")

	testCases := []struct {
		date        string
		display     string
		description string
	}{
		{"2024-02-10", "1/1", "Tết Giáp Thìn"},
		{"2023-01-22", "1/1", "Tết Quý Mão"},
		{"2025-01-29", "1/1", "Tết Ất Tỵ"},
		{"2024-02-09", "30/12", "New Year's Eve 2024"},
		{"2024-09-17", "15/8", "Mid-Autumn 2024"},
		{"2024-04-18", "10/3", "Hùng Kings' Day 2024"},
		{"2023-03-22", "1/2 (leap)", "First day of leap month 2023"},
		{"2023-04-20", "1/3", "Month after the leap month"},
	}

	for _, tc := range testCases {
		resp, err := tr.get("/api/v1/lunar/date/" + tc.date)
		if err != nil {
			tr.recordError(tc.description, err.Error())
			continue
		}

		var day DayInfo
		if err := tr.parseDataAs(resp, &day); err != nil {
			tr.recordError(tc.description, err.Error())
			continue
		}

		if day.Display != tc.display {
			tr.recordError(tc.description, fmt.Sprintf("%s: got %s, want %s", tc.date, day.Display, tc.display))
			continue
		}

		tr.recordSuccess(fmt.Sprintf("%s: %s (%s)", tc.date, day.Display, tc.description))
		if tr.verbose {
			tr.printDayDetail(&day)
		}
	}
}

func (tr *TestRunner) testDateRange() {
	tr.printSection("Date Range")

	resp, err := tr.get("/api/v1/lunar/range?start=2024-02-01&end=2024-02-29")
	if err != nil {
		tr.recordError("Range", err.Error())
		return
	}

	var data RangeResponse
	if err := tr.parseDataAs(resp, &data); err != nil {
		tr.recordError("Range", err.Error())
		return
	}

	if len(data.Days) != 29 {
		tr.recordError("Range", fmt.Sprintf("expected 29 days, got %d", len(data.Days)))
		return
	}
	tr.recordSuccess(fmt.Sprintf("February 2024: %d days", len(data.Days)))

	raw, _ := tr.getRaw("/api/v1/lunar/range?start=2024-01-01&end=2024-12-31")
	if raw != nil && raw.StatusCode == 400 {
		tr.recordSuccess("Oversized range rejected")
	} else {
		tr.recordError("Range limit", "Should reject a one-year range")
	}
	if raw != nil {
		raw.Body.Close()
	}
}

func (tr *TestRunner) testConversion() {
	tr.printSection("Lunar to Solar")

	testCases := []struct {
		query string
		want  string
	}{
		{"day=1&month=1&year=2024", "2024-02-10"},
		{"day=15&month=8&year=2024", "2024-09-17"},
		{"day=1&month=2&year=2023&leap=true", "2023-03-22"},
	}

	for _, tc := range testCases {
		resp, err := tr.get("/api/v1/lunar/convert?" + tc.query)
		if err != nil {
			tr.recordError(tc.query, err.Error())
			continue
		}

		var data ConversionResponse
		if err := tr.parseDataAs(resp, &data); err != nil {
			tr.recordError(tc.query, err.Error())
			continue
		}

		if data.Date != tc.want {
			tr.recordError(tc.query, fmt.Sprintf("got %s, want %s", data.Date, tc.want))
			continue
		}
		tr.recordSuccess(fmt.Sprintf("%s -> %s (%s)", tc.query, data.Date, data.Weekday))
	}
}

func (tr *TestRunner) testZodiac() {
	tr.printSection("Zodiac")

	for _, year := range []int{2020, 2023, 2024, 2025} {
		resp, err := tr.get(fmt.Sprintf("/api/v1/zodiac/%d", year))
		if err != nil {
			tr.recordError(fmt.Sprintf("Zodiac %d", year), err.Error())
			continue
		}

		var z ZodiacResponse
		if err := tr.parseDataAs(resp, &z); err != nil {
			tr.recordError(fmt.Sprintf("Zodiac %d", year), err.Error())
			continue
		}

		leap := "no leap month"
		if z.LeapMonth > 0 {
			leap = fmt.Sprintf("leap month %d", z.LeapMonth)
		}
		tr.recordSuccess(fmt.Sprintf("%d: %s (%s)", year, z.YearName, leap))
	}
}

func (tr *TestRunner) testEdgeCases() {
	tr.printSection("Edge Cases")

	rejects := []struct {
		path string
		name string
	}{
		{"/api/v1/lunar/date/2023-04-31", "Impossible date 2023-04-31"},
		{"/api/v1/lunar/date/2025/12/25", "Wrong format 2025/12/25"},
		{"/api/v1/lunar/range?start=2025-01-01", "Missing end parameter"},
		{"/api/v1/lunar/date/2024-02-10?tz=20", "Out of range tz"},
		{"/api/v1/lunar/convert?day=1&month=3&year=2024&leap=true", "Non-existent leap month"},
	}

	for _, rc := range rejects {
		resp, _ := tr.getRaw(rc.path)
		if resp != nil && resp.StatusCode >= 400 && resp.StatusCode < 500 {
			tr.recordSuccess(rc.name + " rejected")
		} else {
			tr.recordError(rc.name, "Should be rejected")
		}
		if resp != nil {
			resp.Body.Close()
		}
	}

	// Leap year date
	if _, err := tr.get("/api/v1/lunar/date/2024-02-29"); err != nil {
		tr.recordError("Leap year", err.Error())
	} else {
		tr.recordSuccess("Leap year date (2024-02-29) handled")
	}

	// Far dates
	for _, date := range []string{"1900-01-31", "2100-12-31"} {
		if _, err := tr.get("/api/v1/lunar/date/" + date); err != nil {
			tr.recordError(date, err.Error())
		} else {
			tr.recordSuccess(fmt.Sprintf("Far date (%s) handled", date))
		}
	}
}

func (tr *TestRunner) testTetMonth() {
	tr.printSection("Calendar: February 2024")

	resp, err := tr.get("/api/v1/calendar/2024/2")
	if err != nil {
		tr.recordError("Month", err.Error())
		return
	}

	var month MonthResponse
	if err := tr.parseDataAs(resp, &month); err != nil {
		tr.recordError("Month", err.Error())
		return
	}

	for _, day := range month.Days {
		holiday := ""
		if day.Holiday != nil {
			holiday = " - " + *day.Holiday
		}
		tr.recordSuccess(fmt.Sprintf("%s %s: %s%s", day.Date, day.Weekday, day.Display, holiday))
	}
}

// =============================================================================
// Helper Methods
// =============================================================================

func (tr *TestRunner) get(path string) (*APIResponse, error) {
	resp, err := tr.getRaw(path)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read error: %w", err)
	}

	var apiResp APIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	if !apiResp.Success {
		errMsg := "unknown error"
		if apiResp.Error != nil {
			errMsg = apiResp.Error.Message
		}
		return nil, fmt.Errorf("API error: %s", errMsg)
	}

	return &apiResp, nil
}

func (tr *TestRunner) getRaw(path string) (*http.Response, error) {
	url := tr.baseURL + path
	return tr.client.Get(url)
}

func (tr *TestRunner) parseDataAs(resp *APIResponse, target interface{}) error {
	// Re-marshal and unmarshal to convert map to struct
	dataBytes, err := json.Marshal(resp.Data)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}
	return json.Unmarshal(dataBytes, target)
}

func (tr *TestRunner) printSection(name string) {
	fmt.Println()
	fmt.Printf("--- %s ---\n", name)
	fmt.Println()
}

func (tr *TestRunner) printDayDetail(d *DayInfo) {
	if d == nil {
		return
	}
	fmt.Printf("    Weekday: %s\n", d.Weekday)
	fmt.Printf("    Lunar:   %d/%d/%d\n", d.Lunar.Day, d.Lunar.Month, d.Lunar.Year)
	fmt.Printf("    Names:   day %s, month %s, year %s\n", d.DayName, d.MonthName, d.YearName)
	if d.Holiday != nil {
		fmt.Printf("    Holiday: %s\n", *d.Holiday)
	}
	fmt.Println()
}

func (tr *TestRunner) recordSuccess(msg string) {
	tr.successCount++
	fmt.Printf("  ✓ %s\n", msg)
}

func (tr *TestRunner) recordError(context, msg string) {
	tr.errorCount++
	errStr := fmt.Sprintf("%s: %s", context, msg)
	tr.errors = append(tr.errors, errStr)
	fmt.Printf("  ✗ %s\n", errStr)
}

func (tr *TestRunner) printSummary() {
	fmt.Println()
	fmt.Println("==============================================")
	fmt.Println("Summary")
	fmt.Println("==============================================")
	fmt.Printf("  Passed: %d\n", tr.successCount)
	fmt.Printf("  Failed: %d\n", tr.errorCount)
	fmt.Println()

	if tr.errorCount > 0 {
		fmt.Println("Failures:")
		for _, err := range tr.errors {
			fmt.Printf("  • %s\n", err)
		}
		fmt.Println()
	}

	if tr.errorCount == 0 {
		fmt.Println("All tests passed! ✓")
	} else {
		fmt.Printf("Tests completed with %d failure(s)\n", tr.errorCount)
	}
}

// =============================================================================
// Main
// =============================================================================

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the API")
	verbose := flag.Bool("v", false, "Verbose output (show day details)")
	flag.Parse()

	// Check if server is reachable
	client := &http.Client{Timeout: 2 * time.Second}
	_, err := client.Get(*baseURL + "/health")
	if err != nil {
		fmt.Printf("Error: Cannot connect to %s\n", *baseURL)
		fmt.Println("Make sure the API server is running.")
		os.Exit(1)
	}

	runner := NewTestRunner(*baseURL, *verbose)
	runner.Run()

	// Exit with error code if tests failed
	if runner.errorCount > 0 {
		os.Exit(1)
	}
}
