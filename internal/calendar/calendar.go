// Package calendar provides day-granularity date helpers for dashboard windows.
//
// A Time is either a valid instant or the Invalid marker. Every comparison
// that involves Invalid evaluates to false, so records with unparsable dates
// drop out of windowed views instead of failing the caller.
package calendar

import (
	"strings"
	"time"
)

// Time is a parsed record timestamp. The zero value is Invalid.
type Time struct {
	t     time.Time
	valid bool
	clock bool
}

// Invalid is the marker for dates that could not be parsed.
var Invalid = Time{}

var dateLayouts = []struct {
	layout string
	clock  bool
	zoned  bool
}{
	{"2006-01-02", false, false},
	{"2006-01-02T15:04", true, false},
	{"2006-01-02T15:04:05", true, false},
	{"2006-01-02 15:04", true, false},
	{"2006-01-02 15:04:05", true, false},
	{time.RFC3339Nano, true, true},
}

// Parse reads a record date. Date-only values are midnight in loc, zoned
// values are converted into loc. Anything else yields Invalid.
func Parse(s string, loc *time.Location) Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return Invalid
	}
	if loc == nil {
		loc = time.Local
	}
	for _, l := range dateLayouts {
		if l.zoned {
			t, err := time.Parse(l.layout, s)
			if err != nil {
				continue
			}
			return Time{t: t.In(loc), valid: true, clock: l.clock}
		}
		t, err := time.ParseInLocation(l.layout, s, loc)
		if err != nil {
			continue
		}
		return Time{t: t, valid: true, clock: l.clock}
	}
	return Invalid
}

// Of wraps an instant.
func Of(t time.Time) Time {
	return Time{t: t, valid: true, clock: true}
}

// Date returns midnight of the given calendar day in loc.
func Date(year int, month time.Month, day int, loc *time.Location) Time {
	if loc == nil {
		loc = time.Local
	}
	return Time{t: time.Date(year, month, day, 0, 0, 0, 0, loc), valid: true}
}

// Valid reports whether t holds a parsed instant.
func (t Time) Valid() bool { return t.valid }

// HasClock reports whether the source carried a time of day.
func (t Time) HasClock() bool { return t.valid && t.clock }

// Std returns the underlying instant; the zero time.Time for Invalid.
func (t Time) Std() time.Time {
	if !t.valid {
		return time.Time{}
	}
	return t.t
}

// Day truncates t to midnight of its calendar day.
func (t Time) Day() Time {
	if !t.valid {
		return Invalid
	}
	y, m, d := t.t.Date()
	return Time{t: time.Date(y, m, d, 0, 0, 0, 0, t.t.Location()), valid: true}
}

// AddDays moves t by n calendar days, keeping the wall clock.
func (t Time) AddDays(n int) Time {
	if !t.valid {
		return Invalid
	}
	return Time{t: t.t.AddDate(0, 0, n), valid: true, clock: t.clock}
}

// Before reports whether t is strictly before u.
func (t Time) Before(u Time) bool {
	return t.valid && u.valid && t.t.Before(u.t)
}

// After reports whether t is strictly after u.
func (t Time) After(u Time) bool {
	return t.valid && u.valid && t.t.After(u.t)
}

// Equal reports whether t and u are the same valid instant.
func (t Time) Equal(u Time) bool {
	return t.valid && u.valid && t.t.Equal(u.t)
}

// Compare orders instants for sorting. Invalid sorts after every valid
// value and compares equal to itself.
func (t Time) Compare(u Time) int {
	switch {
	case !t.valid && !u.valid:
		return 0
	case !t.valid:
		return 1
	case !u.valid:
		return -1
	}
	return t.t.Compare(u.t)
}

// CompareDay is Compare at day granularity.
func (t Time) CompareDay(u Time) int {
	return t.Day().Compare(u.Day())
}

// Key returns the ISO calendar day ("2006-01-02"), or "" for Invalid.
func (t Time) Key() string {
	return t.Format("2006-01-02")
}

// Format formats t with layout, or returns "" for Invalid.
func (t Time) Format(layout string) string {
	if !t.valid {
		return ""
	}
	return t.t.Format(layout)
}

// Weekday returns the day of the week, Sunday being 0. Invalid reports -1.
func (t Time) Weekday() int {
	if !t.valid {
		return -1
	}
	return int(t.t.Weekday())
}

// MarshalText encodes t as RFC3339, or as an empty string for Invalid.
func (t Time) MarshalText() ([]byte, error) {
	if !t.valid {
		return []byte{}, nil
	}
	if !t.clock {
		return []byte(t.t.Format("2006-01-02")), nil
	}
	return []byte(t.t.Format(time.RFC3339)), nil
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b Time) bool {
	if !a.valid || !b.valid {
		return false
	}
	ay, am, ad := a.t.Date()
	by, bm, bd := b.t.Date()
	return ay == by && am == bm && ad == bd
}

// StartOfWeek returns midnight of the Sunday that starts t's week.
func StartOfWeek(t Time) Time {
	if !t.valid {
		return Invalid
	}
	return t.Day().AddDays(-int(t.t.Weekday()))
}

// StartOfMonth returns midnight of the first day of t's month.
func StartOfMonth(t Time) Time {
	if !t.valid {
		return Invalid
	}
	y, m, _ := t.t.Date()
	return Time{t: time.Date(y, m, 1, 0, 0, 0, 0, t.t.Location()), valid: true}
}

// DaysFromNow returns today and the day n days after it.
func DaysFromNow(now Time, n int) (Time, Time) {
	today := now.Day()
	return today, today.AddDays(n)
}
