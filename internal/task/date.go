package task

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format for due dates.
const DateLayout = "2006-01-02"

// DefaultDisplayLayout is the user-facing date layout (dd/MM/yyyy).
const DefaultDisplayLayout = "02/01/2006"

// Date is a calendar date without time of day or zone.
// It marshals as text in DateLayout, so JSON and YAML share one format.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate returns the date for the given year, month and day,
// normalizing out-of-range values the way time.Date does.
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses s using layout. Surrounding whitespace is ignored.
func ParseDate(layout, s string) (Date, error) {
	t, err := time.Parse(layout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, &ValidationError{
			Field: "due_date",
			Err:   fmt.Errorf("%w %q, expected %s", ErrInvalidDate, strings.TrimSpace(s), layout),
		}
	}
	return DateOf(t), nil
}

// ParseOptionalDate parses s with layout, returning nil for blank input.
func ParseOptionalDate(layout, s string) (*Date, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	d, err := ParseDate(layout, s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Time returns midnight UTC of the date.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// Format formats the date using layout.
func (d Date) Format(layout string) string {
	return d.Time().Format(layout)
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*d = Date{}
		return nil
	}
	t, err := time.Parse(DateLayout, string(data))
	if err != nil {
		return fmt.Errorf("%w %q: %v", ErrInvalidDate, string(data), err)
	}
	*d = DateOf(t)
	return nil
}

// FormatDue formats an optional due date, using "N/A" when it is absent.
func FormatDue(d *Date, layout string) string {
	if d == nil || d.IsZero() {
		return "N/A"
	}
	if layout == "" {
		layout = DefaultDisplayLayout
	}
	return d.Format(layout)
}
