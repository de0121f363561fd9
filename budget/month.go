package budget

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Month identifies a calendar month of a given year. It is the index
// type for the monthly totals chain: months are totally ordered and
// support integer arithmetic (Month + n months, Month - Month = n).
type Month struct {
	Month int
	Year  int
}

// NewMonth creates a Month, rejecting month values outside [1, 12].
func NewMonth(month, year int) (Month, error) {
	if month < 1 || month > 12 {
		return Month{}, fmt.Errorf("month must be between 1 and 12, got %d", month)
	}
	return Month{Month: month, Year: year}, nil
}

// MonthOf returns the month containing the given date.
func MonthOf(t time.Time) Month {
	return Month{Month: int(t.Month()), Year: t.Year()}
}

// CurrentMonth returns the month containing the current wall-clock date.
func CurrentMonth() Month {
	return MonthOf(time.Now())
}

// ParseMonth parses the ISO form "YYYY-MM".
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q, expected YYYY-MM", s)
	}
	return MonthOf(t), nil
}

// index maps the month onto a single integer axis so arithmetic and
// ordering cannot drift at year boundaries.
func (m Month) index() int {
	return m.Year*12 + m.Month - 1
}

func monthFromIndex(i int) Month {
	year, month := i/12, i%12
	if month < 0 {
		month += 12
		year--
	}
	return Month{Month: month + 1, Year: year}
}

// AddMonths returns the month n months after m (n may be negative).
func (m Month) AddMonths(n int) Month {
	return monthFromIndex(m.index() + n)
}

// Next returns the immediately following month.
func (m Month) Next() Month {
	return m.AddMonths(1)
}

// Sub returns the number of months from other to m.
func (m Month) Sub(other Month) int {
	return m.index() - other.index()
}

// Before reports whether m is strictly earlier than other.
func (m Month) Before(other Month) bool {
	return m.index() < other.index()
}

// After reports whether m is strictly later than other.
func (m Month) After(other Month) bool {
	return m.index() > other.index()
}

// Start returns the first instant of the month.
func (m Month) Start() time.Time {
	return time.Date(m.Year, time.Month(m.Month), 1, 0, 0, 0, 0, time.UTC)
}

// Contains reports whether the given date falls within the month.
func (m Month) Contains(t time.Time) bool {
	return MonthOf(t) == m
}

// String returns the ISO form "YYYY-MM". ParseMonth(m.String()) == m.
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, m.Month)
}

// Display returns the human form used in terminal output, e.g. "January 2025".
func (m Month) Display() string {
	return m.Start().Format("January 2006")
}

// MarshalYAML implements yaml.Marshaler.
func (m Month) MarshalYAML() (interface{}, error) {
	return m.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler, accepting "YYYY-MM".
func (m *Month) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseMonth(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
