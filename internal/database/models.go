package database

import (
	"fmt"
	"strings"
	"time"
)

// CalendarType selects which calendar an observance's month and day refer to.
type CalendarType string

const (
	CalendarLunar CalendarType = "lunar"
	CalendarSolar CalendarType = "solar"
)

// IsValid checks if a calendar type is valid.
func (c CalendarType) IsValid() bool {
	return c == CalendarLunar || c == CalendarSolar
}

// maxNameLength bounds observance names.
const maxNameLength = 200

// solarMonthDays is the longest length of each Gregorian month.
var solarMonthDays = [12]int{31, 29, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// Observance is a recurring personal date such as a memorial day or birthday.
type Observance struct {
	ID        int64        `json:"id"`
	Name      string       `json:"name"`
	Calendar  CalendarType `json:"calendar"`
	Month     int          `json:"month"`
	Day       int          `json:"day"`
	Leap      bool         `json:"leap"`
	Note      *string      `json:"note,omitempty"` // nullable
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// Validate checks the observance fields. Errors wrap ErrInvalid.
func (o *Observance) Validate() error {
	name := strings.TrimSpace(o.Name)
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("%w: name must be at most %d bytes", ErrInvalid, maxNameLength)
	}

	if !o.Calendar.IsValid() {
		return fmt.Errorf("%w: calendar must be lunar or solar, got %q", ErrInvalid, o.Calendar)
	}

	if o.Month < 1 || o.Month > 12 {
		return fmt.Errorf("%w: month must be between 1 and 12, got %d", ErrInvalid, o.Month)
	}

	switch o.Calendar {
	case CalendarLunar:
		if o.Day < 1 || o.Day > 30 {
			return fmt.Errorf("%w: lunar day must be between 1 and 30, got %d", ErrInvalid, o.Day)
		}
	case CalendarSolar:
		if o.Day < 1 || o.Day > solarMonthDays[o.Month-1] {
			return fmt.Errorf("%w: day %d does not exist in month %d", ErrInvalid, o.Day, o.Month)
		}
		if o.Leap {
			return fmt.Errorf("%w: only lunar observances can be in a leap month", ErrInvalid)
		}
	}

	return nil
}

// DateQuery selects observances falling on one day. Day ranges let a short
// month pick up observances pinned to days it does not have.
type DateQuery struct {
	SolarMonth   int
	SolarDayFrom int
	SolarDayTo   int

	LunarMonth   int
	LunarDayFrom int
	LunarDayTo   int
	LunarLeap    bool
}

// -----------------------------------------------------------------
// Import types
// -----------------------------------------------------------------

// ImportData is the JSON document read by the import command.
type ImportData struct {
	Metadata    ImportMetadata `json:"metadata"`
	Observances []Observance   `json:"observances"`
}

// ImportMetadata describes where an import file came from.
type ImportMetadata struct {
	Source      string `json:"source"`
	GeneratedAt string `json:"generated_at"`
}
