// Package api exposes the schedule pipeline over HTTP as JSON: course lists
// in, projected events or calendar payloads out. It performs no fetching and
// stores nothing.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Kreger51/mcgill-schedule/internal/course"
	"github.com/Kreger51/mcgill-schedule/internal/export"
	"github.com/Kreger51/mcgill-schedule/internal/logger"
	"github.com/Kreger51/mcgill-schedule/internal/serial"
)

// Server handles the JSON endpoints. The zero value is not usable; create
// one with New.
type Server struct {
	formatter course.Formatter
	mux       *http.ServeMux
}

// New creates a Server. The formatter is used when an /events request does
// not carry its own.
func New(defaultFormatter course.Formatter) *Server {
	s := &Server{formatter: defaultFormatter}
	mux := http.NewServeMux()
	mux.HandleFunc("/events", s.handleEvents)
	mux.HandleFunc("/calendar", s.handleCalendar)
	s.mux = mux
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

type errorResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", nil, err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Message: message})
}

// requireJSONPost rejects anything but a POST with a JSON body.
func requireJSONPost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return false
	}
	if !strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		writeError(w, http.StatusBadRequest, "Request not JSON")
		return false
	}
	return true
}

type eventsRequest struct {
	Courses   json.RawMessage `json:"courses"`
	Formatter json.RawMessage `json:"formatter"`
}

type eventsResponse struct {
	Events []course.Event `json:"events"`
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if !requireJSONPost(w, r) {
		return
	}

	var req eventsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("decoding request: %v", err))
		return
	}
	if len(req.Courses) == 0 {
		writeError(w, http.StatusBadRequest, "Missing courses")
		return
	}

	courses, err := serial.LoadCourses(req.Courses)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	formatter := s.formatter
	if len(req.Formatter) > 0 {
		formatter, err = serial.LoadFormatter(req.Formatter)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	events, err := course.ProjectAll(courses, formatter)
	if err != nil {
		var fieldErr *course.TemplateFieldError
		if errors.As(err, &fieldErr) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("Projected events", logger.Fields{"courses": len(courses)})
	writeJSON(w, http.StatusOK, eventsResponse{Events: events})
}

type calendarRequest struct {
	Events json.RawMessage `json:"events"`
	Format string          `json:"format"`
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	if !requireJSONPost(w, r) {
		return
	}

	var req calendarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("decoding request: %v", err))
		return
	}
	if len(req.Events) == 0 {
		writeError(w, http.StatusBadRequest, "Missing events")
		return
	}

	events, err := serial.LoadEvents(req.Events)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	switch req.Format {
	case "ics":
		cal, err := export.ToICS(events)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"calendar": string(cal)})
	case "gcal":
		resources, err := export.ToAPIEvents(events)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string][]export.APIEvent{"events": resources})
	default:
		writeError(w, http.StatusBadRequest, "Invalid/Missing format")
	}
}
