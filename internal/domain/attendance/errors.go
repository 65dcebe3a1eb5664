package attendance

import "errors"

// Attendance domain errors
var (
	// Check-in / check-out errors
	ErrAlreadyCheckedIn    = errors.New("you have already checked in today")
	ErrAlreadyCheckedOut   = errors.New("you have already checked out today")
	ErrNotCheckedIn        = errors.New("you have not checked in yet")
	ErrNoShiftForToday     = errors.New("no shift scheduled for today")
	ErrLocationUnavailable = errors.New("device location is unavailable")

	// Evaluation errors
	ErrInvalidDuration = errors.New("computed work duration is negative")

	// General errors
	ErrAttendanceNotFound     = errors.New("attendance record not found")
	ErrAttendanceRuleNotFound = errors.New("attendance rule is not configured")
)
