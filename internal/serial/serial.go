// Package serial round-trips the domain records to and from JSON. Timestamps
// travel as RFC-3339 strings with their UTC offset; loading validates the
// exact field set of each record rather than accepting arbitrary shapes.
package serial

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Kreger51/mcgill-schedule/internal/course"
)

// FieldMismatchError reports a JSON object whose key set does not match the
// record type it is being loaded into.
type FieldMismatchError struct {
	Model      string
	Missing    []string
	Unexpected []string
}

func (e *FieldMismatchError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("missing fields: %s", strings.Join(e.Missing, ", ")))
	}
	if len(e.Unexpected) > 0 {
		parts = append(parts, fmt.Sprintf("unexpected fields: %s", strings.Join(e.Unexpected, ", ")))
	}
	return fmt.Sprintf("%s: %s", e.Model, strings.Join(parts, "; "))
}

var (
	courseFields = []string{"code", "section", "title", "instructor", "type",
		"location", "group", "start", "end", "until"}
	eventFields     = []string{"summary", "description", "location", "group", "start", "end", "until"}
	formatterFields = []string{"summary", "description"}
)

// Dump serializes a Course, Event, Formatter or slice thereof to JSON.
func Dump(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encoding JSON: %w", err)
	}
	return string(data), nil
}

// PrettyDump is Dump with indentation, for human-facing output.
func PrettyDump(v interface{}) (string, error) {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return "", fmt.Errorf("encoding JSON: %w", err)
	}
	return string(data), nil
}

// elements splits the input into record objects: a top-level array yields
// its elements, a single object yields itself.
func elements(data []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New("empty JSON input")
	}
	if trimmed[0] != '[' {
		return []json.RawMessage{trimmed}, nil
	}
	var list []json.RawMessage
	if err := json.Unmarshal(trimmed, &list); err != nil {
		return nil, fmt.Errorf("decoding JSON list: %w", err)
	}
	return list, nil
}

// checkFields verifies that raw is an object with exactly the given keys.
func checkFields(model string, raw json.RawMessage, required []string) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return fmt.Errorf("decoding %s: %w", model, err)
	}

	mismatch := &FieldMismatchError{Model: model}
	known := make(map[string]bool, len(required))
	for _, f := range required {
		known[f] = true
		if _, ok := m[f]; !ok {
			mismatch.Missing = append(mismatch.Missing, f)
		}
	}
	for k := range m {
		if !known[k] {
			mismatch.Unexpected = append(mismatch.Unexpected, k)
		}
	}
	sort.Strings(mismatch.Unexpected)

	if len(mismatch.Missing) > 0 || len(mismatch.Unexpected) > 0 {
		return mismatch
	}
	return nil
}

// LoadCourses loads either a single course object or a list of them.
func LoadCourses(data []byte) ([]course.Course, error) {
	elems, err := elements(data)
	if err != nil {
		return nil, err
	}
	courses := make([]course.Course, 0, len(elems))
	for i, raw := range elems {
		if err := checkFields("course", raw, courseFields); err != nil {
			return nil, err
		}
		var c course.Course
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("decoding course %d: %w", i, err)
		}
		courses = append(courses, c)
	}
	return courses, nil
}

// LoadEvents loads either a single event object or a list of them.
func LoadEvents(data []byte) ([]course.Event, error) {
	elems, err := elements(data)
	if err != nil {
		return nil, err
	}
	events := make([]course.Event, 0, len(elems))
	for i, raw := range elems {
		if err := checkFields("event", raw, eventFields); err != nil {
			return nil, err
		}
		var e course.Event
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, fmt.Errorf("decoding event %d: %w", i, err)
		}
		events = append(events, e)
	}
	return events, nil
}

// LoadFormatter loads a single formatter object.
func LoadFormatter(data []byte) (course.Formatter, error) {
	if err := checkFields("formatter", bytes.TrimSpace(data), formatterFields); err != nil {
		return course.Formatter{}, err
	}
	var f course.Formatter
	if err := json.Unmarshal(data, &f); err != nil {
		return course.Formatter{}, fmt.Errorf("decoding formatter: %w", err)
	}
	return f, nil
}
