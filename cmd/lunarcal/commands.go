package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/amlich-api/internal/calendar"
	"github.com/zapponejosh/amlich-api/internal/lunar"
)

// newConvertCmd creates the solar to lunar command.
func newConvertCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "convert [YYYY-MM-DD]",
		Short: "Convert a solar date (default today) to the lunar calendar",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var date time.Time
			if len(args) == 1 {
				d, err := calendar.ParseDateString(args[0])
				if err != nil {
					return fmt.Errorf("invalid date %q, use YYYY-MM-DD", args[0])
				}
				date = d
			} else {
				local := opts.now().In(time.FixedZone("", int(opts.timeZone*3600)))
				date = time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
			}

			resolver := calendar.NewDateResolver(nil, opts.timeZone)
			info, err := resolver.ResolveDate(cmd.Context(), date)
			if err != nil {
				return err
			}

			opts.log.Debug("converted",
				slog.String("date", info.Date),
				slog.String("lunar", info.Lunar.String()))

			if opts.json {
				return writeJSON(cmd.OutOrStdout(), info)
			}
			printDay(cmd.OutOrStdout(), info)
			return nil
		},
	}
}

// solarResult is the JSON output of the solar command.
type solarResult struct {
	Lunar       lunar.LunarDate `json:"lunar"`
	Solar       lunar.SolarDate `json:"solar"`
	Date        string          `json:"date"`
	Weekday     string          `json:"weekday"`
	MonthLength int             `json:"month_length"`
}

// newSolarCmd creates the lunar to solar command.
func newSolarCmd(opts *options) *cobra.Command {
	var leap bool

	cmd := &cobra.Command{
		Use:   "solar DAY MONTH YEAR",
		Short: "Convert a lunar date to the solar calendar",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			nums, err := parseInts(args, "day", "month", "year")
			if err != nil {
				return err
			}
			day, month, year := nums[0], nums[1], nums[2]

			if month < 1 || month > 12 {
				return fmt.Errorf("month must be between 1 and 12, got %d", month)
			}

			length, err := lunar.MonthLength(month, year, leap, opts.timeZone)
			if err != nil {
				if errors.Is(err, lunar.ErrInvalidLeapMonth) {
					return fmt.Errorf("month %d is not a leap month in lunar year %d", month, year)
				}
				return err
			}
			if day < 1 || day > length {
				return fmt.Errorf("lunar month %d of %d has %d days, got day %d", month, year, length, day)
			}

			sd, err := lunar.LunarToSolar(day, month, year, leap, opts.timeZone)
			if err != nil {
				return err
			}
			date := time.Date(sd.Year, time.Month(sd.Month), sd.Day, 0, 0, 0, 0, time.UTC)

			res := solarResult{
				Lunar:       lunar.LunarDate{Day: day, Month: month, Year: year, Leap: leap},
				Solar:       sd,
				Date:        calendar.FormatDate(date),
				Weekday:     calendar.WeekdayName(date),
				MonthLength: length,
			}

			if opts.json {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (âm lịch) = %s, %s\n", res.Lunar, res.Date, res.Weekday)
			return nil
		},
	}

	cmd.Flags().BoolVar(&leap, "leap", false, "the month is a leap month (tháng nhuận)")
	return cmd
}

// newMonthCmd creates the month grid command.
func newMonthCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "month YYYY-MM",
		Short: "Print a Gregorian month with lunar days",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := time.Parse("2006-01", args[0])
			if err != nil {
				return fmt.Errorf("invalid month %q, use YYYY-MM", args[0])
			}

			resolver := calendar.NewDateResolver(nil, opts.timeZone)
			view, err := resolver.ResolveMonth(cmd.Context(), t.Year(), int(t.Month()))
			if err != nil {
				return err
			}

			if opts.json {
				return writeJSON(cmd.OutOrStdout(), view)
			}
			printMonth(cmd.OutOrStdout(), view)
			return nil
		},
	}
}

// zodiacResult is the JSON output of the zodiac command.
type zodiacResult struct {
	Year      int    `json:"year"`
	Animal    string `json:"animal"`
	YearName  string `json:"year_name"`
	LeapMonth int    `json:"leap_month"`
}

// newZodiacCmd creates the zodiac command.
func newZodiacCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "zodiac YEAR",
		Short: "Show the zodiac animal and sexagenary name of a lunar year",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nums, err := parseInts(args, "year")
			if err != nil {
				return err
			}
			year := nums[0]

			res := zodiacResult{
				Year:      year,
				Animal:    lunar.ZodiacAnimal(year),
				YearName:  lunar.YearName(year),
				LeapMonth: lunar.LeapMonth(year, opts.timeZone),
			}

			if opts.json {
				return writeJSON(cmd.OutOrStdout(), res)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d: năm %s (con %s)\n", res.Year, res.YearName, res.Animal)
			if res.LeapMonth > 0 {
				fmt.Fprintf(out, "Tháng nhuận: %d\n", res.LeapMonth)
			}
			return nil
		},
	}
}

// parseInts parses positional arguments, naming them in errors.
func parseInts(args []string, names ...string) ([]int, error) {
	nums := make([]int, len(args))
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("%s must be an integer, got %q", names[i], a)
		}
		nums[i] = n
	}
	return nums, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printDay writes a human-readable day record.
func printDay(w io.Writer, d *calendar.DayInfo) {
	fmt.Fprintf(w, "Dương lịch: %s, %s\n", d.Weekday, d.Date)
	fmt.Fprintf(w, "Âm lịch:    %s\n", d.Lunar)
	fmt.Fprintf(w, "Ngày %s, tháng %s, năm %s\n", d.DayName, d.MonthName, d.YearName)
	if d.Holiday != nil {
		fmt.Fprintf(w, "Ngày lễ:    %s\n", *d.Holiday)
	}
}

// printMonth writes a month grid. Each cell holds the solar day and the
// lunar day, with the lunar month added on the first of a lunar month.
func printMonth(w io.Writer, m *calendar.MonthView) {
	const cellWidth = 10

	fmt.Fprintf(w, "Tháng %d/%d (năm %s)\n", m.Month, m.Year, m.LunarYear)

	for _, h := range []string{"CN", "T2", "T3", "T4", "T5", "T6", "T7"} {
		fmt.Fprintf(w, "%-*s", cellWidth, h)
	}
	fmt.Fprintln(w)

	col := m.FirstWeekday
	fmt.Fprint(w, strings.Repeat(" ", col*cellWidth))

	for _, d := range m.Days {
		lunarDay := strconv.Itoa(d.Lunar.Day)
		if d.Lunar.Day == 1 {
			lunarDay = d.Display
			if d.Lunar.Leap {
				lunarDay = fmt.Sprintf("%d/%d*", d.Lunar.Day, d.Lunar.Month)
			}
		}

		fmt.Fprintf(w, "%-*s", cellWidth, fmt.Sprintf("%2d %s", d.Solar.Day, lunarDay))

		col++
		if col == 7 {
			fmt.Fprintln(w)
			col = 0
		}
	}
	if col != 0 {
		fmt.Fprintln(w)
	}
}
