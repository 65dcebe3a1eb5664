package attendance

import (
	"context"
	"time"
)

type AttendanceRepository interface {
	Create(ctx context.Context, att Attendance) (Attendance, error)
	Update(ctx context.Context, att Attendance) error
	GetByID(ctx context.Context, id string) (Attendance, error)
	// GetByEmployeeAndDate returns the record for the employee's shift day, or
	// nil when the day has no record yet.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error)
	// GetOpenSession returns the employee's checked-in-but-not-out record
	// regardless of date, so night shifts can be closed on the next day.
	GetOpenSession(ctx context.Context, employeeID string) (Attendance, error)
	List(ctx context.Context, filter AttendanceFilter) ([]Attendance, int64, error)
	// ListOpenSessionsBefore returns open sessions whose clock-in is older than
	// the cutoff; used by the auto-close job.
	ListOpenSessionsBefore(ctx context.Context, cutoff time.Time) ([]Attendance, error)
}

type AttendanceRuleRepository interface {
	// Get returns the current rule, or nil when none has been configured.
	Get(ctx context.Context) (*AttendanceRule, error)
	Upsert(ctx context.Context, rule AttendanceRule) (AttendanceRule, error)
}
