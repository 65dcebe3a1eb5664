package shift

import "time"

// Window is the absolute start/end pair of a shift on a concrete date.
type Window struct {
	Start time.Time
	End   time.Time
}

func minutesOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// ResolveWindow converts a shift's time-of-day pair plus a calendar date into
// absolute instants. When the shift is flagged as a night shift, or its end
// time-of-day is not after its start, the end instant rolls over to the next
// calendar day. Equal start and end times without the night flag are ambiguous
// and rejected.
func ResolveWindow(def ShiftDefinition, date time.Time) (Window, error) {
	startMin := minutesOfDay(def.StartTime)
	endMin := minutesOfDay(def.EndTime)

	if !def.IsNightShift && endMin == startMin {
		return Window{}, ErrInvalidShiftDefinition
	}

	start := time.Date(date.Year(), date.Month(), date.Day(),
		def.StartTime.Hour(), def.StartTime.Minute(), 0, 0, date.Location())
	end := time.Date(date.Year(), date.Month(), date.Day(),
		def.EndTime.Hour(), def.EndTime.Minute(), 0, 0, date.Location())

	if def.IsNightShift || !end.After(start) {
		end = end.AddDate(0, 0, 1)
	}

	if !start.Before(end) {
		return Window{}, ErrInvalidShiftDefinition
	}

	return Window{Start: start, End: end}, nil
}

// isoWeekday returns 1 (Monday) through 7 (Sunday).
func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// IsActiveOn reports whether the shift applies on the given calendar date:
// the shift is active, the date lies inside its validity window (inclusive)
// and the date's weekday is one of its work days.
func IsActiveOn(def ShiftDefinition, date time.Time) bool {
	if !def.IsActive {
		return false
	}

	day := dateOnly(date)
	if day.Before(dateOnly(def.DateStart)) || day.After(dateOnly(def.DateEnd)) {
		return false
	}

	wd := isoWeekday(date)
	for _, d := range def.WorkDays {
		if d == wd {
			return true
		}
	}
	return false
}

// dateOnly strips the time-of-day component, normalized to UTC so that day
// arithmetic is immune to DST transitions.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
