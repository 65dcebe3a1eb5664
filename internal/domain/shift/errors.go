package shift

import "errors"

var (
	// Shift definition errors
	ErrShiftNotFound          = errors.New("shift not found")
	ErrShiftNameExists        = errors.New("shift with this name already exists")
	ErrInvalidShiftDefinition = errors.New("shift end time must come after start time, or the night shift flag must be set")

	// Rolling rule errors
	ErrRollingRuleNotFound        = errors.New("rolling shift rule not found")
	ErrInvalidPeriodConfiguration = errors.New("custom rotation period requires a day count of at least 1")
	ErrOutOfHorizon               = errors.New("date is before the rolling rule start date")
	ErrEmployeeNotInScope         = errors.New("employee's department is not covered by this rolling rule")
	ErrPatternOrderOutOfRange     = errors.New("pattern order is outside the rotation period")

	// Assignment errors
	ErrAssignmentNotFound = errors.New("shift assignment not found")
	ErrNoEmployeesGiven   = errors.New("at least one employee is required")

	// Validation errors
	ErrInvalidDateFormat = errors.New("invalid date format, use YYYY-MM-DD")
)
