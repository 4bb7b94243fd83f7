// Package timeutil computes day and week boundaries in one fixed reference
// time zone, regardless of where the request comes from.
package timeutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"
)

const (
	DefaultZoneName = "America/New_York"

	DateKeyLayout    = "2006-01-02"
	LocalInputLayout = "2006-01-02T15:04"
	DisplayLayout    = "Jan 2, 2006, 3:04 PM"
)

var ErrInvalidTime = errors.New("invalid time")

// Weeks start on Sunday.
const WeekStart = time.Sunday

type Zone struct {
	loc *time.Location
}

func NewZone(name string) (*Zone, error) {
	if name == "" {
		name = DefaultZoneName
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load location %s: %w", name, err)
	}
	return &Zone{loc: loc}, nil
}

// MustZone panics on unknown zone names. For tests and package level defaults.
func MustZone(name string) *Zone {
	z, err := NewZone(name)
	if err != nil {
		panic(err)
	}
	return z
}

func (z *Zone) Location() *time.Location {
	return z.loc
}

func (z *Zone) In(t time.Time) time.Time {
	return t.In(z.loc)
}

func (z *Zone) StartOfDay(t time.Time) time.Time {
	t = t.In(z.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, z.loc)
}

// EndOfDay is the next midnight, exclusive.
func (z *Zone) EndOfDay(t time.Time) time.Time {
	start := z.StartOfDay(t)
	// AddDate keeps wall clock, so DST days still end at midnight
	return start.AddDate(0, 0, 1)
}

func (z *Zone) StartOfWeek(t time.Time) time.Time {
	start := z.StartOfDay(t)
	offset := (int(start.Weekday()) - int(WeekStart) + 7) % 7
	return start.AddDate(0, 0, -offset)
}

// EndOfWeek is the start of the next week, exclusive.
func (z *Zone) EndOfWeek(t time.Time) time.Time {
	return z.StartOfWeek(t).AddDate(0, 0, 7)
}

// DateKey is the calendar date of t in the zone, used to tell days apart.
func (z *Zone) DateKey(t time.Time) string {
	return t.In(z.loc).Format(DateKeyLayout)
}

func (z *Zone) FormatDateTime(t time.Time) string {
	return t.In(z.loc).Format(DisplayLayout)
}

// CurrentLocalInput is now as a datetime-local input value.
func (z *Zone) CurrentLocalInput(now time.Time) string {
	return now.In(z.loc).Format(LocalInputLayout)
}

// ParseInstant accepts an absolute RFC 3339 timestamp or a wall clock
// value ("2006-01-02T15:04" with optional seconds) that is read in the zone.
// Empty input yields now.
func (z *Zone) ParseInstant(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return now, nil
	}

	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}

	for _, layout := range []string{LocalInputLayout, "2006-01-02T15:04:05", "2006-01-02 15:04", DateKeyLayout} {
		if t, err := time.ParseInLocation(layout, s, z.loc); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTime, s)
}
