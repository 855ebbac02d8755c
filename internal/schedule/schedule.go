// Package schedule centralizes how stored appointment timestamps are parsed
// and rendered. All display paths go through one Formatter so the same
// timezone conversion backs every surface.
package schedule

import (
	"fmt"
	"time"
)

// Formatter converts stored RFC3339 timestamps into the clinic's display
// timezone.
type Formatter struct {
	loc *time.Location
}

// NewFormatter loads the display timezone, e.g. "Asia/Kolkata".
func NewFormatter(timezone string) (*Formatter, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("schedule: load timezone %q: %w", timezone, err)
	}
	return &Formatter{loc: loc}, nil
}

// MustFormatter is a convenience for tests and defaults.
func MustFormatter(timezone string) *Formatter {
	f, err := NewFormatter(timezone)
	if err != nil {
		panic(err)
	}
	return f
}

// Parse decodes a stored RFC3339 timestamp.
func Parse(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("schedule: parse timestamp %q: %w", value, err)
	}
	return t, nil
}

// Store encodes a timestamp for persistence. RFC3339 in UTC sorts
// lexicographically, which the store's ordering relies on.
func Store(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// Timestamp renders the compact display form used on detail views.
func (f *Formatter) Timestamp(t time.Time) string {
	return t.In(f.loc).Format("2006-01-02 15:04:05")
}

// Human renders the long form used in patient-facing lists and SMS copy.
func (f *Formatter) Human(t time.Time) string {
	return t.In(f.loc).Format("2 January 2006 at 3:04 PM")
}

// StartOfDay returns midnight of t's calendar date in the display timezone.
func (f *Formatter) StartOfDay(t time.Time) time.Time {
	y, m, d := t.In(f.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, f.loc)
}

// Hour returns t's hour of day in the display timezone.
func (f *Formatter) Hour(t time.Time) int {
	return t.In(f.loc).Hour()
}

// SameDayOrEarlier reports whether t falls on or before now's calendar date
// in the display timezone.
func (f *Formatter) SameDayOrEarlier(t, now time.Time) bool {
	ty, tm, td := t.In(f.loc).Date()
	ny, nm, nd := now.In(f.loc).Date()
	if ty != ny {
		return ty < ny
	}
	if tm != nm {
		return tm < nm
	}
	return td <= nd
}
