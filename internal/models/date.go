package models

import (
	"database/sql/driver"
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar date with no time component, marshalled as YYYY-MM-DD.
// Values are normalized to midnight UTC so Date is safe to use as a map key.
type Date struct {
	time.Time
}

// NewDate constructs a Date for the given year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date in UTC.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return Date{}, fmt.Errorf("parsing date %q: %w", s, err)
	}

	return DateOf(t), nil
}

// String returns the date in YYYY-MM-DD form.
func (d Date) String() string {
	return d.Format(dateLayout)
}

// MarshalJSON renders the date as a quoted YYYY-MM-DD string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

// UnmarshalJSON parses a quoted YYYY-MM-DD string.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("date must be a quoted %s string, got %s", dateLayout, s)
	}

	t, err := time.ParseInLocation(dateLayout, s[1:len(s)-1], time.UTC)
	if err != nil {
		return fmt.Errorf("parsing date: %w", err)
	}

	*d = DateOf(t)

	return nil
}

// MarshalCSV renders the date for csvutil-encoded responses.
func (d Date) MarshalCSV() ([]byte, error) {
	return []byte(d.Format(dateLayout)), nil
}

// Value implements driver.Valuer so Date binds as a SQL date.
func (d Date) Value() (driver.Value, error) {
	return d.Time, nil
}

// Scan implements sql.Scanner for reading SQL dates.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*d = DateOf(v)
	case string:
		t, err := time.ParseInLocation(dateLayout, v, time.UTC)
		if err != nil {
			return fmt.Errorf("scanning date: %w", err)
		}

		*d = DateOf(t)
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}

	return nil
}
