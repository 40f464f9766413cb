// Package core holds the fund's domain model and the pure ledger
// computations: month bucketing, aggregation, and report assembly.
package core

import (
	"errors"
	"fmt"
	"time"
)

// Month is a structured calendar month. Expenses and subscriptions are
// bucketed by parsing dates into a Month rather than comparing string
// prefixes, so formatting drift cannot break month matching.
type Month struct {
	Year int
	Mon  time.Month
}

// DefaultStartMonth is the month the fund started collecting.
var DefaultStartMonth = Month{Year: 2025, Mon: time.December}

var ErrInvalidMonth = errors.New("invalid month")

// ParseMonth parses a "YYYY-MM" string.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	return Month{Year: t.Year(), Mon: t.Month()}, nil
}

// MonthOf buckets a point in time into its calendar month.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Mon: t.Month()}
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Mon))
}

func (m Month) Validate() error {
	if m.Year < 1 || m.Mon < time.January || m.Mon > time.December {
		return ErrInvalidMonth
	}
	return nil
}

func (m Month) IsZero() bool {
	return m.Year == 0 && m.Mon == 0
}

func (m Month) Before(o Month) bool {
	if m.Year != o.Year {
		return m.Year < o.Year
	}
	return m.Mon < o.Mon
}

func (m Month) After(o Month) bool {
	return o.Before(m)
}

func (m Month) Next() Month {
	if m.Mon == time.December {
		return Month{Year: m.Year + 1, Mon: time.January}
	}
	return Month{Year: m.Year, Mon: m.Mon + 1}
}

func (m Month) Prev() Month {
	if m.Mon == time.January {
		return Month{Year: m.Year - 1, Mon: time.December}
	}
	return Month{Year: m.Year, Mon: m.Mon - 1}
}

// MonthsSince returns every month from start to now's month inclusive,
// newest first. When now precedes start the list is clamped to just the
// start month. now is a parameter so callers can inject a fixed clock.
func MonthsSince(start Month, now time.Time) []Month {
	end := MonthOf(now)
	if end.Before(start) {
		return []Month{start}
	}
	var months []Month
	for m := end; !m.Before(start); m = m.Prev() {
		months = append(months, m)
	}
	return months
}

// ClampMonth returns now's month, clamped to start when now precedes it.
// Used to pick the default report month.
func ClampMonth(start Month, now time.Time) Month {
	m := MonthOf(now)
	if m.Before(start) {
		return start
	}
	return m
}
