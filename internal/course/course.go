// Package course defines the domain records produced by the schedule
// pipeline: Course (one weekly meeting slot), Formatter (template pair) and
// Event (a calendar-ready projection of a Course).
package course

import "time"

// Course represents a single weekly recurring meeting of one course section,
// anchored to exactly one weekday. A section that meets Monday and Wednesday
// is represented by two Courses.
//
// Start and End carry both the date of the first occurrence and the meeting
// times; Until is the last occurrence's date combined with the end time. All
// timestamps are timezone-aware. Courses are plain values and are never
// mutated after construction.
type Course struct {
	Code       string    `json:"code"`
	Section    string    `json:"section"`
	Title      string    `json:"title"`
	Instructor string    `json:"instructor"`
	Type       string    `json:"type"`
	Location   string    `json:"location"`
	Group      int       `json:"group"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Until      time.Time `json:"until"`
}

// Equal reports field-wise equality. Time fields are compared as instants so
// that a Course deserialized from JSON (whose times carry a fixed numeric
// offset) compares equal to the Course it was serialized from.
func (c Course) Equal(other Course) bool {
	return c.Code == other.Code &&
		c.Section == other.Section &&
		c.Title == other.Title &&
		c.Instructor == other.Instructor &&
		c.Type == other.Type &&
		c.Location == other.Location &&
		c.Group == other.Group &&
		c.Start.Equal(other.Start) &&
		c.End.Equal(other.End) &&
		c.Until.Equal(other.Until)
}

// Formatter holds the template pair used to resolve an Event's display text
// from a Course. Templates use {field} placeholders, optionally with a rune
// index like {type[0]}; see Project for the accepted field names.
type Formatter struct {
	Summary     string `json:"summary"`
	Description string `json:"description"`
}

// DefaultFormatter renders "FACC 300 - L" style summaries.
var DefaultFormatter = Formatter{
	Summary:     "{code} - {type[0]}",
	Description: "{title} - {section}\n{instructor}",
}

// Event is the projection of one Course through one Formatter. Summary and
// Description are fully resolved; the remaining fields are copied verbatim
// from the source Course. Events carry no reference back to that Course.
type Event struct {
	Summary     string    `json:"summary"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Group       int       `json:"group"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Until       time.Time `json:"until"`
}

// Equal reports field-wise equality, comparing time fields as instants.
func (e Event) Equal(other Event) bool {
	return e.Summary == other.Summary &&
		e.Description == other.Description &&
		e.Location == other.Location &&
		e.Group == other.Group &&
		e.Start.Equal(other.Start) &&
		e.End.Equal(other.End) &&
		e.Until.Equal(other.Until)
}

// LatestStart returns the latest Start among the given courses, or the zero
// time if the slice is empty. Useful for picking a default date to show a
// freshly scraped schedule at.
func LatestStart(courses []Course) time.Time {
	var latest time.Time
	for _, c := range courses {
		if c.Start.After(latest) {
			latest = c.Start
		}
	}
	return latest
}
