package shift

import "time"

// PeriodLength returns the rotation's day count. Custom periods carry their
// own day count and must be at least one day long.
func PeriodLength(period RotationPeriod, customPeriodDays *int) (int, error) {
	switch period {
	case PeriodWeekly:
		return 7, nil
	case PeriodBiWeekly:
		return 14, nil
	case PeriodMonthly:
		return 30, nil
	case PeriodCustom:
		if customPeriodDays == nil || *customPeriodDays < 1 {
			return 0, ErrInvalidPeriodConfiguration
		}
		return *customPeriodDays, nil
	default:
		return 0, ErrInvalidPeriodConfiguration
	}
}

// RegeneratePatterns resizes a pattern array to newLength slots ordered 1..N.
// A slot that already had a shift chosen keeps it; new slots start unassigned.
// Calling it twice with the same length is a no-op on content.
func RegeneratePatterns(existing []PatternEntry, newLength int) []PatternEntry {
	byOrder := make(map[int]PatternEntry, len(existing))
	for _, e := range existing {
		byOrder[e.Order] = e
	}

	patterns := make([]PatternEntry, 0, newLength)
	for order := 1; order <= newLength; order++ {
		if e, ok := byOrder[order]; ok {
			e.Order = order
			patterns = append(patterns, e)
			continue
		}
		patterns = append(patterns, PatternEntry{
			Order:     order,
			ShiftID:   nil,
			ShiftName: UnassignedLabel,
		})
	}
	return patterns
}

// DayOffset returns the zero-based position of date within the rule's
// repeating pattern. Dates before the rule's start are out of horizon.
func (r RollingShiftRule) DayOffset(date time.Time) (int, error) {
	if len(r.Patterns) == 0 {
		return 0, ErrInvalidPeriodConfiguration
	}

	start := dateOnly(r.StartDate)
	day := dateOnly(date)
	if day.Before(start) {
		return 0, ErrOutOfHorizon
	}

	days := int(day.Sub(start) / (24 * time.Hour))
	return days % len(r.Patterns), nil
}

// PatternFor resolves the pattern slot the rule schedules on the given date.
func (r RollingShiftRule) PatternFor(date time.Time) (PatternEntry, error) {
	offset, err := r.DayOffset(date)
	if err != nil {
		return PatternEntry{}, err
	}
	return r.Patterns[offset], nil
}

// CoversDepartment reports whether a department is in the rule's scope.
func (r RollingShiftRule) CoversDepartment(departmentID string) bool {
	for _, id := range r.DepartmentIDs {
		if id == departmentID {
			return true
		}
	}
	return false
}
