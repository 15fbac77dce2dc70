// Package schedule generates the bookable start times of a doctor's day.
package schedule

import (
	"fmt"
	"time"

	"github.com/jwalitptl/dental-api/internal/model"
)

// Schedule yields the ordered slot grid for a doctor on a date. Implementations must be
// deterministic: the same inputs always produce the same list.
type Schedule interface {
	Slots(date model.Date, doctorID int64) []string
	Contains(date model.Date, doctorID int64, hhmm string) bool
}

// Session is a contiguous block of working time. End is exclusive.
type Session struct {
	Start string `mapstructure:"start" yaml:"start"`
	End   string `mapstructure:"end" yaml:"end"`
}

// DefaultSessions is the clinic's standard day: a morning and an afternoon session
// separated by a lunch break.
var DefaultSessions = []Session{
	{Start: "09:00", End: "12:00"},
	{Start: "13:00", End: "17:30"},
}

const DefaultInterval = 30 * time.Minute

// ClinicHours applies one fixed grid to every date and doctor.
type ClinicHours struct {
	slots []string
	index map[string]struct{}
}

// NewClinicHours expands sessions into slots of interval length. Sessions must be well
// formed, ordered and non-overlapping.
func NewClinicHours(sessions []Session, interval time.Duration) (*ClinicHours, error) {
	if len(sessions) == 0 {
		sessions = DefaultSessions
	}
	if interval == 0 {
		interval = DefaultInterval
	}
	if interval < time.Minute || interval%time.Minute != 0 {
		return nil, fmt.Errorf("schedule interval must be a positive whole number of minutes, got %s", interval)
	}

	h := &ClinicHours{index: make(map[string]struct{})}
	var prevEnd time.Time
	for i, s := range sessions {
		start, err := time.Parse(model.SlotTimeLayout, s.Start)
		if err != nil {
			return nil, fmt.Errorf("session %d: invalid start %q", i, s.Start)
		}
		end, err := time.Parse(model.SlotTimeLayout, s.End)
		if err != nil {
			return nil, fmt.Errorf("session %d: invalid end %q", i, s.End)
		}
		if !end.After(start) {
			return nil, fmt.Errorf("session %d: end %s must be after start %s", i, s.End, s.Start)
		}
		if i > 0 && start.Before(prevEnd) {
			return nil, fmt.Errorf("session %d: starts at %s before previous session ends", i, s.Start)
		}
		prevEnd = end

		for t := start; t.Before(end); t = t.Add(interval) {
			slot := t.Format(model.SlotTimeLayout)
			h.slots = append(h.slots, slot)
			h.index[slot] = struct{}{}
		}
	}
	return h, nil
}

// Slots returns a copy of the grid; the date and doctor do not affect it.
func (h *ClinicHours) Slots(_ model.Date, _ int64) []string {
	out := make([]string, len(h.slots))
	copy(out, h.slots)
	return out
}

func (h *ClinicHours) Contains(_ model.Date, _ int64, hhmm string) bool {
	_, ok := h.index[hhmm]
	return ok
}
