// Package export converts projected Events into their two delivery formats:
// an RFC-5545 iCalendar document and calendar-API event resources.
package export

import (
	"crypto/sha1"
	"fmt"
	"io"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	"github.com/Kreger51/mcgill-schedule/internal/course"
)

// ProdID identifies this exporter in generated calendars.
const ProdID = "-//Minerva Schedule Exporter//EN"

// weeklyUntil builds the weekly recurrence rule string shared by both
// exporters, with UNTIL rendered in RFC-5545 basic UTC form.
func weeklyUntil(until time.Time) (string, error) {
	r, err := rrule.NewRRule(rrule.ROption{Freq: rrule.WEEKLY, Until: until.UTC()})
	if err != nil {
		return "", fmt.Errorf("building recurrence rule: %w", err)
	}
	return r.String(), nil
}

// eventUID derives a deterministic UID from the fields that identify a
// meeting slot.
func eventUID(evt course.Event) string {
	h := sha1.New()
	io.WriteString(h, evt.Summary+"|"+evt.Start.UTC().Format(time.RFC3339)+"|"+evt.Location)
	return fmt.Sprintf("%x@mcgill-schedule", h.Sum(nil))
}

// ToICS renders the events as a single iCalendar document, one weekly
// recurring VEVENT per input event, in input order. Timestamps are converted
// to UTC; DTSTAMP is computed once per call and shared by every VEVENT. The
// serializer handles RFC-5545 CRLF line endings and 75-octet folding.
func ToICS(events []course.Event) ([]byte, error) {
	cal := ics.NewCalendar()
	cal.SetProductId(ProdID)
	cal.SetVersion("2.0")

	stamp := time.Now().UTC()

	for _, evt := range events {
		rule, err := weeklyUntil(evt.Until)
		if err != nil {
			return nil, err
		}

		ve := cal.AddEvent(eventUID(evt))
		ve.SetDtStampTime(stamp)
		ve.SetStartAt(evt.Start.UTC())
		ve.SetEndAt(evt.End.UTC())
		ve.SetSummary(evt.Summary)
		ve.SetDescription(evt.Description)
		ve.SetLocation(evt.Location)
		ve.AddRrule(rule)
	}

	return []byte(cal.Serialize()), nil
}
