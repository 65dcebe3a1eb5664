package response

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Shift domain errors
	case errors.Is(err, shift.ErrShiftNotFound):
		NotFound(w, "Shift not found")
	case errors.Is(err, shift.ErrShiftNameExists):
		Conflict(w, "Shift with this name already exists")
	case errors.Is(err, shift.ErrInvalidShiftDefinition):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, shift.ErrRollingRuleNotFound):
		NotFound(w, "Rolling shift rule not found")
	case errors.Is(err, shift.ErrInvalidPeriodConfiguration):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, shift.ErrOutOfHorizon):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, shift.ErrEmployeeNotInScope):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, shift.ErrPatternOrderOutOfRange):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, shift.ErrAssignmentNotFound):
		NotFound(w, "Shift assignment not found")
	case errors.Is(err, shift.ErrInvalidDateFormat):
		BadRequest(w, err.Error(), nil)

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		Conflict(w, "Already checked in")
	case errors.Is(err, attendance.ErrAlreadyCheckedOut):
		Conflict(w, "Already checked out")
	case errors.Is(err, attendance.ErrNotCheckedIn):
		Conflict(w, "No open attendance session to check out from")
	case errors.Is(err, attendance.ErrNoShiftForToday):
		BadRequest(w, "No shift scheduled for this day", nil)
	case errors.Is(err, attendance.ErrLocationUnavailable):
		BadRequest(w, "Location coordinates are required", nil)
	case errors.Is(err, attendance.ErrInvalidDuration):
		BadRequest(w, "Check-out must not precede check-in", nil)
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrAttendanceRuleNotFound):
		NotFound(w, "Attendance rule has not been configured")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeInactive):
		BadRequest(w, "Employee is inactive", nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
