package course

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TemplateFieldError reports a template placeholder that cannot be resolved
// against a Course: an unknown field name, or an index the field's value
// does not support.
type TemplateFieldError struct {
	Field  string
	Index  int
	Reason string
}

func (e *TemplateFieldError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("template field %q[%d]: %s", e.Field, e.Index, e.Reason)
	}
	return fmt.Sprintf("template field %q: %s", e.Field, e.Reason)
}

// templateFields returns the substitution values for every Course field.
// Field names mirror the JSON keys; only these names may appear in
// templates, so caller-supplied templates cannot reach anything else.
func templateFields(c Course) map[string]string {
	return map[string]string{
		"code":       c.Code,
		"section":    c.Section,
		"title":      c.Title,
		"instructor": c.Instructor,
		"type":       c.Type,
		"location":   c.Location,
		"group":      strconv.Itoa(c.Group),
		"start":      c.Start.Format(time.RFC3339),
		"end":        c.End.Format(time.RFC3339),
		"until":      c.Until.Format(time.RFC3339),
	}
}

// resolve expands a single template against the given field values.
// Doubled braces escape literal braces, as in "{{" -> "{".
func resolve(template string, fields map[string]string) (string, error) {
	var out strings.Builder
	s := template
	for len(s) > 0 {
		i := strings.IndexAny(s, "{}")
		if i < 0 {
			out.WriteString(s)
			break
		}
		out.WriteString(s[:i])
		s = s[i:]

		if strings.HasPrefix(s, "{{") || strings.HasPrefix(s, "}}") {
			out.WriteByte(s[0])
			s = s[2:]
			continue
		}
		if s[0] == '}' {
			return "", fmt.Errorf("unmatched %q in template", '}')
		}

		end := strings.IndexByte(s, '}')
		if end < 0 {
			return "", fmt.Errorf("unclosed placeholder in template")
		}
		placeholder := s[1:end]
		s = s[end+1:]

		value, err := lookup(placeholder, fields)
		if err != nil {
			return "", err
		}
		out.WriteString(value)
	}
	return out.String(), nil
}

// lookup resolves one placeholder body, either "name" or "name[index]".
func lookup(placeholder string, fields map[string]string) (string, error) {
	name := placeholder
	index := -1
	if open := strings.IndexByte(placeholder, '['); open >= 0 {
		if !strings.HasSuffix(placeholder, "]") {
			return "", fmt.Errorf("malformed placeholder %q", placeholder)
		}
		name = placeholder[:open]
		n, err := strconv.Atoi(placeholder[open+1 : len(placeholder)-1])
		if err != nil || n < 0 {
			return "", fmt.Errorf("malformed placeholder %q", placeholder)
		}
		index = n
	}

	value, ok := fields[name]
	if !ok {
		return "", &TemplateFieldError{Field: name, Index: index, Reason: "no such field"}
	}
	if index < 0 {
		return value, nil
	}

	runes := []rune(value)
	if index >= len(runes) {
		return "", &TemplateFieldError{Field: name, Index: index, Reason: "index out of range"}
	}
	return string(runes[index]), nil
}

// Project resolves the formatter's templates against a Course and returns
// the resulting Event. It is pure: no Event is produced on failure.
func Project(c Course, f Formatter) (Event, error) {
	fields := templateFields(c)

	summary, err := resolve(f.Summary, fields)
	if err != nil {
		return Event{}, fmt.Errorf("resolving summary: %w", err)
	}
	description, err := resolve(f.Description, fields)
	if err != nil {
		return Event{}, fmt.Errorf("resolving description: %w", err)
	}

	return Event{
		Summary:     summary,
		Description: description,
		Location:    c.Location,
		Group:       c.Group,
		Start:       c.Start,
		End:         c.End,
		Until:       c.Until,
	}, nil
}

// ProjectAll projects every Course through the formatter, preserving input
// order. The first failing Course aborts the projection.
func ProjectAll(courses []Course, f Formatter) ([]Event, error) {
	events := make([]Event, 0, len(courses))
	for i, c := range courses {
		evt, err := Project(c, f)
		if err != nil {
			return nil, fmt.Errorf("projecting course %d (%s %s): %w", i, c.Code, c.Section, err)
		}
		events = append(events, evt)
	}
	return events, nil
}
