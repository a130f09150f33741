package rules

import (
	"fmt"
	"time"
)

// =============================================================================
// DATE - Day-granularity calendar date (statutory deadlines are whole days)
// =============================================================================

// Date is a UTC calendar date. Deadline rules operate on calendar days, so
// there is deliberately no time-of-day component.
type Date struct {
	t time.Time
}

const dateLayout = "2006-01-02"

func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string. Malformed input fails loudly with
// ErrInvalidDate rather than producing a zero date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, &InvalidDateError{Input: s, Cause: err}
	}
	return Date{t: t.UTC()}, nil
}

func FromTime(t time.Time) Date {
	u := t.UTC()
	return NewDate(u.Year(), u.Month(), u.Day())
}

func Today() Date { return FromTime(time.Now()) }

// Comparison
func (d Date) Before(other Date) bool { return d.t.Before(other.t) }
func (d Date) After(other Date) bool  { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool  { return d.t.Equal(other.t) }
func (d Date) IsZero() bool           { return d.t.IsZero() }

// Arithmetic
func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }

// Properties
func (d Date) Year() int                { return d.t.Year() }
func (d Date) Month() time.Month        { return d.t.Month() }
func (d Date) Day() int                 { return d.t.Day() }
func (d Date) Weekday() time.Weekday    { return d.t.Weekday() }
func (d Date) Time() time.Time          { return d.t }
func (d Date) String() string           { return d.t.Format(dateLayout) }

func DaysBetween(from, to Date) int { return int(to.t.Sub(from.t).Hours() / 24) }

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// InvalidDateError reports an unparseable date input.
type InvalidDateError struct {
	Input string
	Cause error
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date %q (use YYYY-MM-DD)", e.Input)
}

func (e *InvalidDateError) Unwrap() error { return ErrInvalidDate }
