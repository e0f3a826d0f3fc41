package timeutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"
)

const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
)

// Business dates are calendar days in the ledger's home timezone.
var location atomic.Pointer[time.Location]

func init() {
	loc, err := time.LoadLocation("Asia/Shanghai")
	if err != nil {
		// Fallback: fixed zone if tzdata is not available
		loc = time.FixedZone("CST", 8*60*60)
	}
	location.Store(loc)
}

// SetLocation switches the ledger timezone, e.g. "UTC" or "Asia/Shanghai".
func SetLocation(name string) error {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return err
	}
	location.Store(loc)
	return nil
}

func Location() *time.Location {
	return location.Load()
}

// Now returns the current time in the ledger timezone
func Now() time.Time {
	return time.Now().In(Location())
}

// ParseDate parses a YYYY-MM-DD business date as midnight in the ledger timezone.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}
	t, err := time.ParseInLocation(DateLayout, value, Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q must be YYYY-MM-DD", value)
	}
	return t, nil
}

// DateOf keeps the calendar day written in t's own zone and returns its
// midnight in the ledger timezone. Drivers hand DATE columns back as UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, Location())
}

// FormatDate renders a business date as YYYY-MM-DD without shifting zones.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Today returns midnight of the current day in the ledger timezone
func Today() time.Time {
	now := Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, Location())
}
