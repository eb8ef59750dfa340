package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Gender is the optional gender field of a BirthRecord.
type Gender string

// Supported genders. An empty Gender means "not given".
const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// ParseGender normalizes a gender string. The empty string is accepted and
// yields the zero Gender.
func ParseGender(raw string) (Gender, error) {
	switch g := Gender(strings.ToLower(strings.TrimSpace(raw))); g {
	case "", GenderMale, GenderFemale, GenderOther:
		return g, nil
	default:
		return "", NewValidationError("gender", "must be one of male, female, other", ErrInvalidFormat)
	}
}

// Date is a calendar date without time zone. Calculators work on civil
// dates, so a birth date never shifts because of the server's location.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// dateLayouts are tried in order by ParseDate.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseDate parses a birth date. ISO dates are expected; full timestamps
// are accepted and truncated to their date part.
func ParseDate(raw string) (Date, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Date{}, NewValidationError("birthdate", "is required", ErrValidation)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return DateOf(t), nil
		}
	}
	return Date{}, NewValidationError("birthdate", "has invalid format", ErrInvalidFormat)
}

// MustParseDate is ParseDate for constants in tests and tables.
func MustParseDate(raw string) Date {
	d, err := ParseDate(raw)
	if err != nil {
		// ALLOW-PANIC: only used with literal dates
		panic(err)
	}
	return d
}

// DateOf returns the civil date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Time returns midnight UTC of the date.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// DaysSince returns the number of whole days from other to d. The result is
// negative when d is before other. Unix seconds are used because a
// time.Duration saturates at roughly 292 years.
func (d Date) DaysSince(other Date) int {
	return int((d.Time().Unix() - other.Time().Unix()) / secondsPerDay)
}

const secondsPerDay = 24 * 60 * 60

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool {
	return d == Date{}
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// MarshalJSON encodes the date as a YYYY-MM-DD string.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes a date string.
func (d *Date) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// TimeOfDay is an hour and minute of birth.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses "HH:MM". A missing minute part is read as zero.
func ParseTimeOfDay(raw string) (TimeOfDay, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return TimeOfDay{}, NewValidationError("birthtime", "is required", ErrValidation)
	}

	hourPart, minutePart, _ := strings.Cut(raw, ":")
	hour, err := strconv.Atoi(hourPart)
	if err != nil || hour < 0 || hour > 23 {
		return TimeOfDay{}, NewValidationError("birthtime", "has invalid hour", ErrInvalidFormat)
	}

	minute := 0
	if minutePart != "" {
		// tolerate HH:MM:SS
		minutePart, _, _ = strings.Cut(minutePart, ":")
		minute, err = strconv.Atoi(minutePart)
		if err != nil || minute < 0 || minute > 59 {
			return TimeOfDay{}, NewValidationError("birthtime", "has invalid minute", ErrInvalidFormat)
		}
	}

	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// String formats the time as HH:MM.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// BirthRecord is the immutable biographical input to the calendar-based
// calculators. BirthTime is nil when the time of birth is unknown.
type BirthRecord struct {
	Name      string
	BirthDate Date
	BirthTime *TimeOfDay
	Gender    Gender
}

// HasTime reports whether a time of birth was supplied.
func (b BirthRecord) HasTime() bool {
	return b.BirthTime != nil
}

// Validate checks the fields every calculator relies on.
func (b BirthRecord) Validate() error {
	if b.BirthDate.IsZero() {
		return NewValidationError("birthdate", "is required", ErrValidation)
	}
	if b.BirthDate.Month < time.January || b.BirthDate.Month > time.December {
		return NewValidationError("birthdate", "has invalid month", ErrInvalidFormat)
	}
	return nil
}
