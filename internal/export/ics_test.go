package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/Kreger51/mcgill-schedule/internal/course"
)

func testEvents(t *testing.T) []course.Event {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("loading timezone: %v", err)
	}
	return []course.Event{
		{
			Summary:     "FACC 300 - L",
			Description: "Engineering Economy - 001\nRaad Jassim",
			Location:    "Macdonald Harrington Building G-10",
			Group:       1,
			Start:       time.Date(2014, 1, 8, 16, 5, 0, 0, loc),
			End:         time.Date(2014, 1, 8, 17, 25, 0, 0, loc),
			Until:       time.Date(2014, 4, 11, 17, 25, 0, 0, loc),
		},
		{
			Summary:     "MECH 530 - L",
			Description: "Mechanics of Composite Materials - 002\nMahdi Arian Nik",
			Location:    "Macdonald Engineering Building 267",
			Group:       2,
			Start:       time.Date(2014, 9, 2, 18, 5, 0, 0, loc),
			End:         time.Date(2014, 9, 2, 20, 55, 0, 0, loc),
			Until:       time.Date(2014, 12, 3, 20, 55, 0, 0, loc),
		},
	}
}

func TestToICS(t *testing.T) {
	out, err := ToICS(testEvents(t))
	if err != nil {
		t.Fatalf("ToICS failed: %v", err)
	}
	doc := string(out)

	requiredLines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Minerva Schedule Exporter//EN",
		"BEGIN:VEVENT",
		"SUMMARY:FACC 300 - L",
		// 16:05 EST is 21:05 UTC
		"DTSTART:20140108T210500Z",
		"DTEND:20140108T212500Z",
		// 17:25 EDT is 21:25 UTC
		"RRULE:FREQ=WEEKLY;UNTIL=20140411T212500Z",
		"SUMMARY:MECH 530 - L",
		"DTSTART:20140902T220500Z",
		"RRULE:FREQ=WEEKLY;UNTIL=20141204T015500Z",
		"END:VEVENT",
		"END:VCALENDAR",
	}
	for _, line := range requiredLines {
		if !strings.Contains(doc, line) {
			t.Errorf("ICS missing %q", line)
		}
	}

	if !strings.Contains(doc, "\r\n") {
		t.Error("ICS should use CRLF line endings")
	}

	if strings.Index(doc, "SUMMARY:FACC 300 - L") > strings.Index(doc, "SUMMARY:MECH 530 - L") {
		t.Error("events should appear in input order")
	}
}

func TestToICSSingleDtstamp(t *testing.T) {
	out, err := ToICS(testEvents(t))
	if err != nil {
		t.Fatalf("ToICS failed: %v", err)
	}

	stamps := make(map[string]bool)
	count := 0
	for _, line := range strings.Split(string(out), "\r\n") {
		if strings.HasPrefix(line, "DTSTAMP:") {
			stamps[line] = true
			count++
		}
	}
	if count != 2 {
		t.Fatalf("expected 2 DTSTAMP lines, got %d", count)
	}
	if len(stamps) != 1 {
		t.Errorf("all events in one export should share a DTSTAMP, got %d distinct values", len(stamps))
	}
}

func TestToICSRoundTripsThroughReader(t *testing.T) {
	events := testEvents(t)
	out, err := ToICS(events)
	if err != nil {
		t.Fatalf("ToICS failed: %v", err)
	}

	cal, err := ics.ParseCalendar(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("generated ICS failed to parse: %v", err)
	}
	parsed := cal.Events()
	if len(parsed) != len(events) {
		t.Fatalf("expected %d VEVENTs, got %d", len(events), len(parsed))
	}

	for i, ve := range parsed {
		if got := ve.GetProperty(ics.ComponentPropertySummary).Value; got != events[i].Summary {
			t.Errorf("event %d summary = %q, expected %q", i, got, events[i].Summary)
		}
		if got := ve.GetProperty(ics.ComponentPropertyLocation).Value; got != events[i].Location {
			t.Errorf("event %d location = %q, expected %q", i, got, events[i].Location)
		}
		start, err := ve.GetStartAt()
		if err != nil {
			t.Fatalf("event %d start: %v", i, err)
		}
		if !start.Equal(events[i].Start) {
			t.Errorf("event %d start = %v, expected instant %v", i, start, events[i].Start)
		}
		end, err := ve.GetEndAt()
		if err != nil {
			t.Fatalf("event %d end: %v", i, err)
		}
		if !end.Equal(events[i].End) {
			t.Errorf("event %d end = %v, expected instant %v", i, end, events[i].End)
		}
	}
}

func TestToICSEmpty(t *testing.T) {
	out, err := ToICS(nil)
	if err != nil {
		t.Fatalf("ToICS failed: %v", err)
	}
	doc := string(out)
	if !strings.Contains(doc, "BEGIN:VCALENDAR") || strings.Contains(doc, "BEGIN:VEVENT") {
		t.Errorf("empty export should be a calendar with no events:\n%s", doc)
	}
}

func TestEventUIDDeterministic(t *testing.T) {
	events := testEvents(t)
	if eventUID(events[0]) != eventUID(events[0]) {
		t.Error("UID should be deterministic")
	}
	if eventUID(events[0]) == eventUID(events[1]) {
		t.Error("distinct events should get distinct UIDs")
	}
}
