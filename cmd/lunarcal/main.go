// Command lunarcal converts dates between the Gregorian and Vietnamese lunar
// calendars from the terminal.
//
// Usage:
//
//	lunarcal convert 2024-02-10
//	lunarcal solar 15 8 2024
//	lunarcal month 2024-02
//	lunarcal zodiac 2024 --json
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/zapponejosh/amlich-api/internal/config"
	"github.com/zapponejosh/amlich-api/internal/logger"
)

var exampleUsage = strings.TrimSpace(`
  lunarcal convert                 # today in Vietnam
  lunarcal convert 2024-02-10 --tz 0
  lunarcal solar 1 2 2023 --leap
  lunarcal month 2024-02
  lunarcal zodiac 2024 --json
`)

// options holds the global flags shared by every subcommand.
type options struct {
	timeZone float64
	json     bool
	verbose  bool

	now func() time.Time
	log *slog.Logger
}

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	if err := newRootCmd(time.Now, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Logs go to logOut, never to the
// command's output.
func newRootCmd(now func() time.Time, logOut io.Writer) *cobra.Command {
	opts := &options{now: now}

	root := &cobra.Command{
		Use:          "lunarcal",
		Short:        "Vietnamese lunar calendar (âm lịch) converter",
		Example:      exampleUsage,
		Version:      getVersion(),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := "warn"
			if opts.verbose {
				level = "debug"
			}
			opts.log = logger.New(logOut, level, "text")

			// Build set of changed flags
			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			return opts.resolveTimeZone(changed)
		},
	}

	flags := root.PersistentFlags()
	flags.Float64Var(&opts.timeZone, "tz", config.DefaultTimeZoneOffset, "time zone in hours east of UTC (default from TIMEZONE_OFFSET, else 7)")
	flags.BoolVar(&opts.json, "json", false, "print JSON instead of text")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(
		newConvertCmd(opts),
		newSolarCmd(opts),
		newMonthCmd(opts),
		newZodiacCmd(opts),
	)

	return root
}

// resolveTimeZone applies TIMEZONE_OFFSET, from the environment or a .env
// file, unless --tz was given, then checks the range.
func (o *options) resolveTimeZone(changed map[string]bool) error {
	source := "flag"
	if !changed["tz"] {
		config.LoadEnvFile()
		source = "default"
		if v := os.Getenv("TIMEZONE_OFFSET"); v != "" {
			tz, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("invalid TIMEZONE_OFFSET %q: %w", v, err)
			}
			o.timeZone = tz
			source = "env"
		}
	}

	if !config.ValidTimeZoneOffset(o.timeZone) {
		return fmt.Errorf("time zone must be between %g and %g hours, got %g",
			config.MinTimeZoneOffset, config.MaxTimeZoneOffset, o.timeZone)
	}

	o.log.Debug("time zone resolved",
		slog.Float64("tz", o.timeZone),
		slog.String("source", source))
	return nil
}
