package normalize

import (
	"strings"
	"time"
)

type Status string

const (
	StatusConcluded  Status = "concluded"
	StatusInProgress Status = "in_progress"
)

// Label is the display text for the status.
func (s Status) Label() string {
	if s == StatusConcluded {
		return "Concluída"
	}
	return "Em andamento"
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate accepts the timestamp layouts the API has been seen to emit.
// Layouts without a zone are read as UTC.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DeriveStatus is concluded when endDate parses and lies strictly before now.
// Missing or invalid end dates count as in progress.
func DeriveStatus(endDate string, now time.Time) Status {
	end, ok := ParseDate(endDate)
	if ok && end.Before(now) {
		return StatusConcluded
	}
	return StatusInProgress
}
