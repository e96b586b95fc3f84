// Package scraper turns Minerva's "Student Schedule by Course Section" HTML
// into Course records, and knows how to log in and fetch that HTML.
package scraper

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"

	"github.com/PuerkitoBio/goquery"

	"github.com/Kreger51/mcgill-schedule/internal/course"
	"github.com/Kreger51/mcgill-schedule/internal/dates"
)

const (
	dateLayout = "Jan 02, 2006"
	timeLayout = "3:04 PM"
)

// weekdayLetters maps Minerva's single-letter day codes to weekdays.
var weekdayLetters = map[rune]time.Weekday{
	'M': time.Monday,
	'T': time.Tuesday,
	'W': time.Wednesday,
	'R': time.Thursday,
	'F': time.Friday,
}

// Parser converts schedule HTML into Course records. All timestamps are
// localized in Location; Minerva itself renders times in the campus
// timezone.
type Parser struct {
	Location *time.Location
}

// NewParser creates a Parser that localizes course times in loc.
func NewParser(loc *time.Location) *Parser {
	return &Parser{Location: loc}
}

// meetingRow holds the raw cell text of one meeting-time table row.
type meetingRow struct {
	timeRange  string
	days       string
	location   string
	dateRange  string
	courseType string
	instructor string
}

// useless reports whether the row carries no usable schedule information:
// a date range that starts and ends on the same day, or a TBA time. Such
// rows are skipped, not failed.
func (r meetingRow) useless() bool {
	ends := strings.Split(r.dateRange, " - ")
	return (len(ends) == 2 && ends[0] == ends[1]) || r.timeRange == "TBA"
}

// Parse reads a schedule document and returns one Course per weekday letter
// of every usable meeting row, in document order. The group counter is local
// to this call: captions sharing a title key share a group id, and ids are
// handed out starting at 1.
func (p *Parser) Parse(r io.Reader) ([]course.Course, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	// The schedule alternates course-detail and meeting-time tables; a
	// trailing unpaired table is ignored.
	tables := doc.Find(".datadisplaytable")

	courses := make([]course.Course, 0)
	groups := make(map[string]int)
	groupCounter := 1

	for i := 0; i+1 < tables.Length(); i += 2 {
		detail := tables.Eq(i)
		meeting := tables.Eq(i + 1)

		caption := detail.Find("caption").First().Text()
		if caption == "" {
			return nil, fmt.Errorf("course table %d: missing caption", i/2)
		}
		title, code, section, err := splitCaption(caption)
		if err != nil {
			return nil, err
		}

		// The title key claims a group id as soon as the pair is seen,
		// even if every row below ends up skipped.
		titleKey, _, _ := strings.Cut(caption, " - ")
		group, ok := groups[titleKey]
		if !ok {
			group = groupCounter
			groups[titleKey] = group
			groupCounter++
		}

		rows := meeting.Find("tr")
		for j := 1; j < rows.Length(); j++ { // first row is headers
			raw, err := extractRow(rows.Eq(j))
			if err != nil {
				return nil, fmt.Errorf("course %s section %s row %d: %w", code, section, j, err)
			}

			rowCourses, err := p.makeCourses(raw, title, code, section, group)
			if err != nil {
				return nil, fmt.Errorf("course %s section %s row %d: %w", code, section, j, err)
			}
			courses = append(courses, rowCourses...)
		}
	}

	return courses, nil
}

// splitCaption breaks a "<title>. - <code> - <section>" caption into its
// three components, stripping the title's trailing periods.
func splitCaption(caption string) (title, code, section string, err error) {
	parts := strings.Split(caption, " - ")
	if len(parts) != 3 {
		return "", "", "", fmt.Errorf("caption %q: expected \"<title> - <code> - <section>\"", caption)
	}
	return strings.TrimRight(parts[0], "."), parts[1], parts[2], nil
}

// extractRow pulls the six meeting-time columns out of a table row.
func extractRow(row *goquery.Selection) (meetingRow, error) {
	cells := row.Find("td")
	if cells.Length() < 6 {
		return meetingRow{}, fmt.Errorf("expected 6 meeting columns, found %d", cells.Length())
	}
	text := func(i int) string { return strings.TrimSpace(cells.Eq(i).Text()) }
	return meetingRow{
		timeRange:  text(0),
		days:       text(1),
		location:   text(2),
		dateRange:  text(3),
		courseType: text(4),
		// Minerva pads instructor names with trailing whitespace; only
		// the right side is trimmed to mirror the rendered cell.
		instructor: strings.TrimRightFunc(cells.Eq(5).Text(), unicode.IsSpace),
	}, nil
}

// makeCourses builds one Course per weekday letter of the row. A useless row
// yields no courses and no error; anything else that fails to parse is a
// hard error.
func (p *Parser) makeCourses(raw meetingRow, title, code, section string, group int) ([]course.Course, error) {
	if raw.useless() {
		return nil, nil
	}

	ends := strings.Split(raw.dateRange, " - ")
	if len(ends) != 2 {
		return nil, fmt.Errorf("date range %q: expected two dates", raw.dateRange)
	}
	firstDate, err := time.Parse(dateLayout, ends[0])
	if err != nil {
		return nil, fmt.Errorf("date range %q: %w", raw.dateRange, err)
	}
	untilDate, err := time.Parse(dateLayout, ends[1])
	if err != nil {
		return nil, fmt.Errorf("date range %q: %w", raw.dateRange, err)
	}

	times := strings.Split(raw.timeRange, " - ")
	if len(times) != 2 {
		return nil, fmt.Errorf("time range %q: expected two times", raw.timeRange)
	}
	// Minerva renders lowercase meridiems ("4:05 pm")
	startTime, err := time.Parse(timeLayout, strings.ToUpper(times[0]))
	if err != nil {
		return nil, fmt.Errorf("time range %q: %w", raw.timeRange, err)
	}
	endTime, err := time.Parse(timeLayout, strings.ToUpper(times[1]))
	if err != nil {
		return nil, fmt.Errorf("time range %q: %w", raw.timeRange, err)
	}

	courses := make([]course.Course, 0, len(raw.days))
	for _, letter := range raw.days {
		weekday, ok := weekdayLetters[letter]
		if !ok {
			return nil, fmt.Errorf("unknown weekday letter %q in %q", letter, raw.days)
		}
		startDate := dates.NextWeekday(firstDate, weekday)

		start, err := dates.Combine(startDate, startTime.Hour(), startTime.Minute(), p.Location)
		if err != nil {
			return nil, err
		}
		end, err := dates.Combine(startDate, endTime.Hour(), endTime.Minute(), p.Location)
		if err != nil {
			return nil, err
		}
		until, err := dates.Combine(untilDate, endTime.Hour(), endTime.Minute(), p.Location)
		if err != nil {
			return nil, err
		}

		courses = append(courses, course.Course{
			Code:       code,
			Section:    section,
			Title:      title,
			Instructor: raw.instructor,
			Type:       raw.courseType,
			Location:   raw.location,
			Group:      group,
			Start:      start,
			End:        end,
			Until:      until,
		})
	}
	return courses, nil
}
