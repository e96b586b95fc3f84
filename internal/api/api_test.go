package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Kreger51/mcgill-schedule/internal/course"
	"github.com/Kreger51/mcgill-schedule/internal/export"
	"github.com/Kreger51/mcgill-schedule/internal/serial"
)

func dummyCourse(t *testing.T) course.Course {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("loading timezone: %v", err)
	}
	return course.Course{
		Code:       "FACC 300",
		Section:    "001",
		Title:      "Engineering Economy",
		Instructor: "Raad Jassim",
		Type:       "Lecture",
		Location:   "Macdonald Harrington Building G-10",
		Group:      1,
		Start:      time.Date(2014, 1, 8, 16, 5, 0, 0, loc),
		End:        time.Date(2014, 1, 8, 17, 25, 0, 0, loc),
		Until:      time.Date(2014, 4, 11, 17, 25, 0, 0, loc),
	}
}

func postJSON(t *testing.T, srv *Server, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func coursesJSON(t *testing.T) string {
	t.Helper()
	out, err := serial.Dump([]course.Course{dummyCourse(t)})
	if err != nil {
		t.Fatalf("Dump failed: %v", err)
	}
	return out
}

func TestEventsEndpoint(t *testing.T) {
	srv := New(course.DefaultFormatter)
	rec := postJSON(t, srv, "/events", `{"courses":`+coursesJSON(t)+`}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Events []course.Event `json:"events"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(resp.Events))
	}
	if resp.Events[0].Summary != "FACC 300 - L" {
		t.Errorf("summary = %q", resp.Events[0].Summary)
	}
}

func TestEventsEndpointCustomFormatter(t *testing.T) {
	srv := New(course.DefaultFormatter)
	body := `{"courses":` + coursesJSON(t) + `,"formatter":{"summary":"{title}","description":"{location}"}}`
	rec := postJSON(t, srv, "/events", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Events []course.Event `json:"events"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Events[0].Summary != "Engineering Economy" {
		t.Errorf("summary = %q", resp.Events[0].Summary)
	}
}

func TestEventsEndpointMissingCourses(t *testing.T) {
	srv := New(course.DefaultFormatter)
	rec := postJSON(t, srv, "/events", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, expected 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Missing courses") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestEventsEndpointBadTemplate(t *testing.T) {
	srv := New(course.DefaultFormatter)
	body := `{"courses":` + coursesJSON(t) + `,"formatter":{"summary":"{nope}","description":"x"}}`
	rec := postJSON(t, srv, "/events", body)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, expected 400; body = %s", rec.Code, rec.Body.String())
	}
}

func TestEventsEndpointRequiresJSON(t *testing.T) {
	srv := New(course.DefaultFormatter)
	req := httptest.NewRequest(http.MethodPost, "/events", strings.NewReader("courses=1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, expected 400", rec.Code)
	}
}

func TestEventsEndpointRejectsGet(t *testing.T) {
	srv := New(course.DefaultFormatter)
	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, expected 405", rec.Code)
	}
}

func eventsJSON(t *testing.T) string {
	t.Helper()
	events, err := course.ProjectAll([]course.Course{dummyCourse(t)}, course.DefaultFormatter)
	if err != nil {
		t.Fatalf("ProjectAll failed: %v", err)
	}
	out, err := serial.Dump(events)
	if err != nil {
		t.Fatalf("Dump failed: %v", err)
	}
	return out
}

func TestCalendarEndpointICS(t *testing.T) {
	srv := New(course.DefaultFormatter)
	rec := postJSON(t, srv, "/calendar", `{"events":`+eventsJSON(t)+`,"format":"ics"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Calendar string `json:"calendar"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !strings.Contains(resp.Calendar, "BEGIN:VCALENDAR") {
		t.Error("calendar payload should be an iCalendar document")
	}
	if !strings.Contains(resp.Calendar, "SUMMARY:FACC 300 - L") {
		t.Error("calendar should contain the event summary")
	}
}

func TestCalendarEndpointGcal(t *testing.T) {
	srv := New(course.DefaultFormatter)
	rec := postJSON(t, srv, "/calendar", `{"events":`+eventsJSON(t)+`,"format":"gcal"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Events []export.APIEvent `json:"events"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Events) != 1 {
		t.Fatalf("expected 1 resource, got %d", len(resp.Events))
	}
	if resp.Events[0].Start.TimeZone != "UTC" {
		t.Errorf("timeZone = %q", resp.Events[0].Start.TimeZone)
	}
}

func TestCalendarEndpointBadFormat(t *testing.T) {
	srv := New(course.DefaultFormatter)
	rec := postJSON(t, srv, "/calendar", `{"events":`+eventsJSON(t)+`,"format":"outlook"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, expected 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Invalid/Missing format") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestCalendarEndpointMissingEvents(t *testing.T) {
	srv := New(course.DefaultFormatter)
	rec := postJSON(t, srv, "/calendar", `{"format":"ics"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, expected 400", rec.Code)
	}
}

func TestCalendarEndpointMalformedEvent(t *testing.T) {
	srv := New(course.DefaultFormatter)
	rec := postJSON(t, srv, "/calendar", `{"events":[{"summary":"x"}],"format":"ics"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, expected 400; body = %s", rec.Code, rec.Body.String())
	}
}
