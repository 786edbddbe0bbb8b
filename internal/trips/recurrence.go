package trips

import (
	"fmt"
	"strings"
	"time"
)

// Recurrence is a parsed trip schedule rule: either daily, or a set of
// weekdays on which the trip departs.
type Recurrence struct {
	daily bool
	days  map[time.Weekday]bool
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday,
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
}

// ParseRecurrence parses a stored recurrence rule. An empty string (or the
// literal "daily") means the trip runs every day; otherwise the rule is a
// comma separated list of three-letter weekday names.
func ParseRecurrence(rule string) (*Recurrence, error) {
	rule = strings.TrimSpace(strings.ToLower(rule))
	if rule == "" || rule == "daily" {
		return &Recurrence{daily: true}, nil
	}

	days := make(map[time.Weekday]bool)
	for _, part := range strings.Split(rule, ",") {
		name := strings.TrimSpace(part)
		if len(name) > 3 {
			name = name[:3]
		}
		day, ok := weekdayNames[name]
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q in recurrence rule", part)
		}
		days[day] = true
	}

	if len(days) == 0 {
		return nil, fmt.Errorf("recurrence rule %q contains no weekdays", rule)
	}

	return &Recurrence{days: days}, nil
}

// RunsOn reports whether the rule includes the weekday of the given date
func (r *Recurrence) RunsOn(date time.Time) bool {
	if r.daily {
		return true
	}
	return r.days[date.Weekday()]
}

// IsDaily reports whether the rule covers every weekday
func (r *Recurrence) IsDaily() bool {
	if r.daily {
		return true
	}
	return len(r.days) == 7
}
