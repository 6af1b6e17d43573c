package googletasks

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"taskdeck/task"
)

// The Google Tasks API stores due dates with the time portion zeroed and has
// no priority field. Both round-trip through a marker on the first notes
// line: "[p1]", "[p2 @14:30]", "[@09:00]".
var markerRe = regexp.MustCompile(`^\[(?:p([1-3]))?(?: ?@(\d{1,2}):(\d{2}))?\]$`)

func priorityMarker(p task.Priority) string {
	switch p {
	case task.PriorityHigh:
		return "p1"
	case task.PriorityMedium:
		return "p2"
	case task.PriorityLow:
		return "p3"
	default:
		return ""
	}
}

func markerPriority(code string) task.Priority {
	switch code {
	case "1":
		return task.PriorityHigh
	case "2":
		return task.PriorityMedium
	case "3":
		return task.PriorityLow
	default:
		return task.PriorityNone
	}
}

// encodeNotes prepends the marker line to the user's notes when the task
// carries a priority or a time of day.
func encodeNotes(t task.Task) string {
	var parts []string
	if m := priorityMarker(t.Priority); m != "" {
		parts = append(parts, m)
	}
	if t.Due != nil && !t.AllDay {
		parts = append(parts, t.Due.Local().Format("@15:04"))
	}
	if len(parts) == 0 {
		return t.Notes
	}

	marker := fmt.Sprintf("[%s]", strings.Join(parts, " "))
	if t.Notes == "" {
		return marker
	}
	return marker + "\n" + t.Notes
}

// decodeNotes strips the marker line, returning the user-visible notes, the
// priority, and the time of day when present.
func decodeNotes(raw string) (notes string, priority task.Priority, hour, min int, hasTime bool) {
	first, rest, _ := strings.Cut(raw, "\n")
	m := markerRe.FindStringSubmatch(strings.TrimSpace(first))
	if m == nil || (m[1] == "" && m[2] == "") {
		return raw, task.PriorityNone, 0, 0, false
	}

	priority = markerPriority(m[1])
	if m[2] != "" {
		fmt.Sscanf(m[2], "%d", &hour)
		fmt.Sscanf(m[3], "%d", &min)
		if hour > 23 || min > 59 {
			hour, min = 0, 0
		} else {
			hasTime = true
		}
	}
	return rest, priority, hour, min, hasTime
}

// encodeDue formats a due date for the API, which keeps only the date part.
func encodeDue(due time.Time) string {
	y, m, d := due.Local().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Format(time.RFC3339)
}

// decodeDue combines the API's date-only due value with a marker time of day
// into a local timestamp.
func decodeDue(raw string, hour, min int, hasTime bool) (*time.Time, bool) {
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, false
	}
	y, m, d := parsed.Date()
	if hasTime {
		due := time.Date(y, m, d, hour, min, 0, 0, time.Local)
		return &due, false
	}
	due := time.Date(y, m, d, 0, 0, 0, 0, time.Local)
	return &due, true
}
