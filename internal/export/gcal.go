package export

import (
	"time"

	"github.com/Kreger51/mcgill-schedule/internal/course"
)

// APIDateTime is the start/end shape a calendar API expects.
type APIDateTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

// APIEvent is one insertable calendar-API event resource. Delivering these
// (including any OAuth dance) is entirely the caller's responsibility.
type APIEvent struct {
	Summary     string      `json:"summary"`
	Description string      `json:"description"`
	Location    string      `json:"location"`
	Start       APIDateTime `json:"start"`
	End         APIDateTime `json:"end"`
	Recurrence  []string    `json:"recurrence"`
}

func apiDateTime(t time.Time) APIDateTime {
	return APIDateTime{
		DateTime: t.UTC().Format(time.RFC3339),
		TimeZone: "UTC",
	}
}

// ToAPIEvents converts events into calendar-API resources, one per input
// event in input order. No network calls are made.
func ToAPIEvents(events []course.Event) ([]APIEvent, error) {
	out := make([]APIEvent, 0, len(events))
	for _, evt := range events {
		rule, err := weeklyUntil(evt.Until)
		if err != nil {
			return nil, err
		}
		out = append(out, APIEvent{
			Summary:     evt.Summary,
			Description: evt.Description,
			Location:    evt.Location,
			Start:       apiDateTime(evt.Start),
			End:         apiDateTime(evt.End),
			Recurrence:  []string{"RRULE:" + rule},
		})
	}
	return out, nil
}
