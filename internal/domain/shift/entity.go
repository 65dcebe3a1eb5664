package shift

import "time"

type ShiftDefinition struct {
	ID           string
	Name         string
	WorkDays     []int // 1=Monday, ..., 7=Sunday
	StartTime    time.Time
	EndTime      time.Time
	IsNightShift bool // end of shift falls on the next calendar day
	IsActive     bool
	DateStart    time.Time
	DateEnd      time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

type RotationPeriod string

const (
	PeriodWeekly   RotationPeriod = "weekly"
	PeriodBiWeekly RotationPeriod = "bi_weekly"
	PeriodMonthly  RotationPeriod = "monthly"
	PeriodCustom   RotationPeriod = "custom"
)

var RotationPeriodValues = []string{
	string(PeriodWeekly),
	string(PeriodBiWeekly),
	string(PeriodMonthly),
	string(PeriodCustom),
}

// UnassignedLabel marks a rotation slot that has no shift chosen yet.
const UnassignedLabel = "unassigned"

// PatternEntry is one day slot in a rolling rotation. Order runs 1..N and
// matches the slot's position in the pattern array.
type PatternEntry struct {
	Order     int     `json:"order"`
	ShiftID   *string `json:"shift_id"`
	ShiftName string  `json:"shift_name"`
}

type RollingShiftRule struct {
	ID               string
	Name             string
	Period           RotationPeriod
	CustomPeriodDays *int
	StartDate        time.Time
	Patterns         []PatternEntry
	DepartmentIDs    []string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ShiftAssignment is the materialized employee-to-shift link the CRUD shell
// reads. An employee has at most one active assignment at a time.
type ShiftAssignment struct {
	ID         string
	EmployeeID string
	ShiftID    string
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// RollingAssignment is the derived per-day result of applying a rolling rule
// to an employee. It is computed, never persisted.
type RollingAssignment struct {
	EmployeeID string
	Date       time.Time
	Order      int
	ShiftID    *string
	ShiftName  string
}
