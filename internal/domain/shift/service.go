package shift

import (
	"context"
	"time"
)

// Resolver answers "which shift does this employee work on this date". The
// attendance evaluator consumes it without depending on the full service.
type Resolver interface {
	ResolveShiftForDate(ctx context.Context, employeeID string, date time.Time) (*ShiftDefinition, error)
}

type ShiftService interface {
	Resolver

	// Shift definitions
	CreateShift(ctx context.Context, req CreateShiftRequest) (ShiftResponse, error)
	GetShift(ctx context.Context, id string) (ShiftResponse, error)
	ListShifts(ctx context.Context, filter ShiftFilter) (ListShiftsResponse, error)
	UpdateShift(ctx context.Context, req UpdateShiftRequest) (ShiftResponse, error)
	DeleteShift(ctx context.Context, id string) error

	// Rolling rotation rules
	CreateRollingRule(ctx context.Context, req CreateRollingRuleRequest) (RollingRuleResponse, error)
	GetRollingRule(ctx context.Context, id string) (RollingRuleResponse, error)
	ListRollingRules(ctx context.Context, page, limit int) (ListRollingRulesResponse, error)
	UpdateRollingRule(ctx context.Context, req UpdateRollingRuleRequest) (RollingRuleResponse, error)
	DeleteRollingRule(ctx context.Context, id string) error
	SetPatternSlot(ctx context.Context, req SetPatternSlotRequest) (RollingRuleResponse, error)

	// Derived plans
	GetRotationPlan(ctx context.Context, filter RotationPlanFilter) (RotationPlanResponse, error)
	ResolveShift(ctx context.Context, employeeID, dateStr string) (ResolvedShiftResponse, error)

	// Materialized assignments
	SwitchAssignments(ctx context.Context, req SwitchAssignmentsRequest) ([]AssignmentResponse, error)
	RemoveAssignments(ctx context.Context, req RemoveAssignmentsRequest) error
	ListAssignments(ctx context.Context, shiftID *string) ([]AssignmentResponse, error)
}
