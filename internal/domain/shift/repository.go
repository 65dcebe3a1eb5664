package shift

import (
	"context"
	"time"
)

type ShiftRepository interface {
	Create(ctx context.Context, def ShiftDefinition) (ShiftDefinition, error)
	GetByID(ctx context.Context, id string) (ShiftDefinition, error)
	List(ctx context.Context, filter ShiftFilter) ([]ShiftDefinition, int64, error)
	Update(ctx context.Context, req UpdateShiftRequest) (ShiftDefinition, error)
	SoftDelete(ctx context.Context, id string) error
}

type RollingShiftRuleRepository interface {
	Create(ctx context.Context, rule RollingShiftRule) (RollingShiftRule, error)
	GetByID(ctx context.Context, id string) (RollingShiftRule, error)
	// GetByDepartmentID returns the rule whose scope covers the department and
	// whose start date is not after the given date, or nil when none applies.
	GetByDepartmentID(ctx context.Context, departmentID string, date time.Time) (*RollingShiftRule, error)
	List(ctx context.Context, page, limit int) ([]RollingShiftRule, int64, error)
	Update(ctx context.Context, rule RollingShiftRule) (RollingShiftRule, error)
	Delete(ctx context.Context, id string) error
}

type ShiftAssignmentRepository interface {
	GetActiveByEmployeeID(ctx context.Context, employeeID string) (*ShiftAssignment, error)
	ListActive(ctx context.Context, shiftID *string) ([]ShiftAssignment, error)
	DeactivateByEmployeeIDs(ctx context.Context, employeeIDs []string) error
	CreateBatch(ctx context.Context, assignments []ShiftAssignment) ([]ShiftAssignment, error)
}
