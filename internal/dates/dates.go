// Package dates provides the date arithmetic the schedule parser relies on:
// weekday anchoring and timezone-aware combination of a calendar date with a
// wall-clock time.
package dates

import (
	"fmt"
	"time"
)

// NextWeekday returns the first date on or after d that falls on the given
// weekday. The lookup is inclusive: if d is already on that weekday, d is
// returned unchanged. Only the date components of d are considered.
func NextWeekday(d time.Time, weekday time.Weekday) time.Time {
	ahead := (int(weekday) - int(d.Weekday()) + 7) % 7
	return d.AddDate(0, 0, ahead)
}

// AmbiguousTimeError reports a wall-clock time that cannot be localized
// unambiguously because it falls inside a DST transition.
type AmbiguousTimeError struct {
	Year   int
	Month  time.Month
	Day    int
	Hour   int
	Minute int
	Zone   string
	// Gap is true when the wall time does not exist (spring-forward),
	// false when it occurs twice (fall-back).
	Gap bool
}

func (e *AmbiguousTimeError) Error() string {
	kind := "ambiguous"
	if e.Gap {
		kind = "nonexistent"
	}
	return fmt.Sprintf("%s wall time %04d-%02d-%02d %02d:%02d in %s",
		kind, e.Year, e.Month, e.Day, e.Hour, e.Minute, e.Zone)
}

// Combine joins the date components of day with an hour and minute into a
// single timestamp in loc. Unlike time.Date, it refuses to guess across DST
// transitions: wall times that do not exist or that occur twice return an
// AmbiguousTimeError instead of silently picking an offset.
func Combine(day time.Time, hour, minute int, loc *time.Location) (time.Time, error) {
	year, month, d := day.Date()
	t := time.Date(year, month, d, hour, minute, 0, 0, loc)

	mismatch := func() *AmbiguousTimeError {
		return &AmbiguousTimeError{
			Year: year, Month: month, Day: d,
			Hour: hour, Minute: minute,
			Zone: loc.String(),
		}
	}

	// time.Date normalizes nonexistent wall times into the surrounding
	// offset, so a changed component means we hit a gap.
	ty, tm, td := t.Date()
	if ty != year || tm != month || td != d || t.Hour() != hour || t.Minute() != minute {
		e := mismatch()
		e.Gap = true
		return time.Time{}, e
	}

	// The wall time is ambiguous if the same clock reading also exists at
	// a neighboring UTC offset. Probe the offsets in effect an hour to
	// either side and re-interpret the wall time at each.
	_, chosen := t.Zone()
	for _, probe := range []time.Time{t.Add(-time.Hour), t.Add(time.Hour)} {
		_, offset := probe.Zone()
		if offset == chosen {
			continue
		}
		alt := time.Date(year, month, d, hour, minute, 0, 0, time.FixedZone("", offset))
		local := alt.In(loc)
		ly, lm, ld := local.Date()
		if ly == year && lm == month && ld == d &&
			local.Hour() == hour && local.Minute() == minute && !local.Equal(t) {
			return time.Time{}, mismatch()
		}
	}

	return t, nil
}
