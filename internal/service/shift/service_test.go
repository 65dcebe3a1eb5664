package shift

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/shift"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeShiftRepo struct {
	shifts map[string]shift.ShiftDefinition
}

func newFakeShiftRepo() *fakeShiftRepo {
	return &fakeShiftRepo{shifts: make(map[string]shift.ShiftDefinition)}
}

func (f *fakeShiftRepo) Create(ctx context.Context, def shift.ShiftDefinition) (shift.ShiftDefinition, error) {
	if def.ID == "" {
		def.ID = "shift-" + def.Name
	}
	f.shifts[def.ID] = def
	return def, nil
}

func (f *fakeShiftRepo) GetByID(ctx context.Context, id string) (shift.ShiftDefinition, error) {
	def, ok := f.shifts[id]
	if !ok {
		return shift.ShiftDefinition{}, pgx.ErrNoRows
	}
	return def, nil
}

func (f *fakeShiftRepo) List(ctx context.Context, filter shift.ShiftFilter) ([]shift.ShiftDefinition, int64, error) {
	var out []shift.ShiftDefinition
	for _, def := range f.shifts {
		out = append(out, def)
	}
	return out, int64(len(out)), nil
}

func (f *fakeShiftRepo) Update(ctx context.Context, req shift.UpdateShiftRequest) (shift.ShiftDefinition, error) {
	def, ok := f.shifts[req.ID]
	if !ok {
		return shift.ShiftDefinition{}, pgx.ErrNoRows
	}
	if req.Name != nil {
		def.Name = *req.Name
	}
	if req.StartTime != nil {
		def.StartTime, _ = time.Parse("15:04", *req.StartTime)
	}
	if req.EndTime != nil {
		def.EndTime, _ = time.Parse("15:04", *req.EndTime)
	}
	if req.IsNightShift != nil {
		def.IsNightShift = *req.IsNightShift
	}
	if req.IsActive != nil {
		def.IsActive = *req.IsActive
	}
	f.shifts[req.ID] = def
	return def, nil
}

func (f *fakeShiftRepo) SoftDelete(ctx context.Context, id string) error {
	if _, ok := f.shifts[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.shifts, id)
	return nil
}

type fakeRuleRepo struct {
	rules map[string]shift.RollingShiftRule
}

func newFakeRuleRepo() *fakeRuleRepo {
	return &fakeRuleRepo{rules: make(map[string]shift.RollingShiftRule)}
}

func (f *fakeRuleRepo) Create(ctx context.Context, rule shift.RollingShiftRule) (shift.RollingShiftRule, error) {
	if rule.ID == "" {
		rule.ID = "rule-" + rule.Name
	}
	f.rules[rule.ID] = rule
	return rule, nil
}

func (f *fakeRuleRepo) GetByID(ctx context.Context, id string) (shift.RollingShiftRule, error) {
	rule, ok := f.rules[id]
	if !ok {
		return shift.RollingShiftRule{}, pgx.ErrNoRows
	}
	return rule, nil
}

func (f *fakeRuleRepo) GetByDepartmentID(ctx context.Context, departmentID string, date time.Time) (*shift.RollingShiftRule, error) {
	for _, rule := range f.rules {
		if rule.CoversDepartment(departmentID) && !rule.StartDate.After(date) {
			found := rule
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeRuleRepo) List(ctx context.Context, page, limit int) ([]shift.RollingShiftRule, int64, error) {
	var out []shift.RollingShiftRule
	for _, rule := range f.rules {
		out = append(out, rule)
	}
	return out, int64(len(out)), nil
}

func (f *fakeRuleRepo) Update(ctx context.Context, rule shift.RollingShiftRule) (shift.RollingShiftRule, error) {
	if _, ok := f.rules[rule.ID]; !ok {
		return shift.RollingShiftRule{}, pgx.ErrNoRows
	}
	f.rules[rule.ID] = rule
	return rule, nil
}

func (f *fakeRuleRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.rules[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.rules, id)
	return nil
}

type fakeAssignmentRepo struct {
	assignments map[string]shift.ShiftAssignment // keyed by employee ID
}

func newFakeAssignmentRepo() *fakeAssignmentRepo {
	return &fakeAssignmentRepo{assignments: make(map[string]shift.ShiftAssignment)}
}

func (f *fakeAssignmentRepo) GetActiveByEmployeeID(ctx context.Context, employeeID string) (*shift.ShiftAssignment, error) {
	a, ok := f.assignments[employeeID]
	if !ok || !a.IsActive {
		return nil, nil
	}
	found := a
	return &found, nil
}

func (f *fakeAssignmentRepo) ListActive(ctx context.Context, shiftID *string) ([]shift.ShiftAssignment, error) {
	var out []shift.ShiftAssignment
	for _, a := range f.assignments {
		if !a.IsActive {
			continue
		}
		if shiftID != nil && a.ShiftID != *shiftID {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeAssignmentRepo) DeactivateByEmployeeIDs(ctx context.Context, employeeIDs []string) error {
	for _, id := range employeeIDs {
		if a, ok := f.assignments[id]; ok {
			a.IsActive = false
			f.assignments[id] = a
		}
	}
	return nil
}

func (f *fakeAssignmentRepo) CreateBatch(ctx context.Context, assignments []shift.ShiftAssignment) ([]shift.ShiftAssignment, error) {
	for _, a := range assignments {
		f.assignments[a.EmployeeID] = a
	}
	return assignments, nil
}

type fakeEmployeeRepo struct {
	employees map[string]employee.Employee
}

func newFakeEmployeeRepo() *fakeEmployeeRepo {
	return &fakeEmployeeRepo{employees: make(map[string]employee.Employee)}
}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	emp, ok := f.employees[id]
	if !ok {
		return employee.Employee{}, pgx.ErrNoRows
	}
	return emp, nil
}

func (f *fakeEmployeeRepo) ListActiveByDepartmentIDs(ctx context.Context, departmentIDs []string) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, emp := range f.employees {
		for _, dept := range departmentIDs {
			if emp.DepartmentID == dept && emp.IsActive {
				out = append(out, emp)
			}
		}
	}
	return out, nil
}

type fixture struct {
	shiftRepo      *fakeShiftRepo
	ruleRepo       *fakeRuleRepo
	assignmentRepo *fakeAssignmentRepo
	employeeRepo   *fakeEmployeeRepo
	svc            shift.ShiftService
}

func newFixture() *fixture {
	f := &fixture{
		shiftRepo:      newFakeShiftRepo(),
		ruleRepo:       newFakeRuleRepo(),
		assignmentRepo: newFakeAssignmentRepo(),
		employeeRepo:   newFakeEmployeeRepo(),
	}
	f.svc = NewShiftService(nil, f.shiftRepo, f.ruleRepo, f.assignmentRepo, f.employeeRepo)
	return f
}

func (f *fixture) addShift(id, name string) {
	f.shiftRepo.shifts[id] = shift.ShiftDefinition{
		ID:        id,
		Name:      name,
		WorkDays:  []int{1, 2, 3, 4, 5, 6, 7},
		StartTime: time.Date(0, 1, 1, 8, 0, 0, 0, time.UTC),
		EndTime:   time.Date(0, 1, 1, 17, 0, 0, 0, time.UTC),
		IsActive:  true,
		DateStart: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		DateEnd:   time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
	}
}

func (f *fixture) addEmployee(id, departmentID string) {
	f.employeeRepo.employees[id] = employee.Employee{
		ID:           id,
		Name:         "Employee " + id,
		DepartmentID: departmentID,
		IsActive:     true,
	}
}

func boolPtr(v bool) *bool {
	return &v
}

func TestCreateShift_EqualTimesWithoutNightFlagRejected(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreateShift(context.Background(), shift.CreateShiftRequest{
		Name:         "Broken",
		WorkDays:     []int{1, 2, 3},
		StartTime:    "09:00",
		EndTime:      "09:00",
		IsNightShift: boolPtr(false),
		DateStart:    "2025-01-01",
		DateEnd:      "2025-12-31",
	})
	assert.Error(t, err)
}

func TestCreateShift_NightShiftAccepted(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.CreateShift(context.Background(), shift.CreateShiftRequest{
		Name:         "Night Watch",
		WorkDays:     []int{1, 2, 3, 4, 5},
		StartTime:    "22:00",
		EndTime:      "06:00",
		IsNightShift: boolPtr(true),
		DateStart:    "2025-01-01",
		DateEnd:      "2025-12-31",
	})
	require.NoError(t, err)

	assert.Equal(t, "Night Watch", resp.Name)
	assert.True(t, resp.IsNightShift)
	assert.True(t, resp.IsActive)
}

func TestUpdateShift_AmbiguousWindowNotPersisted(t *testing.T) {
	f := newFixture()
	f.addShift("s1", "Morning")

	// Collapsing the window onto the start time without the night flag must
	// be rejected before the row is touched.
	endTime := "08:00"
	_, err := f.svc.UpdateShift(context.Background(), shift.UpdateShiftRequest{
		ID:      "s1",
		EndTime: &endTime,
	})
	assert.ErrorIs(t, err, shift.ErrInvalidShiftDefinition)

	stored := f.shiftRepo.shifts["s1"]
	assert.Equal(t, 17, stored.EndTime.Hour())
}

func TestCreateRollingRule_WeeklyStartsUnassigned(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.CreateRollingRule(context.Background(), shift.CreateRollingRuleRequest{
		Name:          "Ops Rotation",
		Period:        "weekly",
		StartDate:     "2025-01-06",
		DepartmentIDs: []string{"dept-ops"},
	})
	require.NoError(t, err)

	require.Len(t, resp.Patterns, 7)
	for i, p := range resp.Patterns {
		assert.Equal(t, i+1, p.Order)
		assert.Nil(t, p.ShiftID)
		assert.Equal(t, shift.UnassignedLabel, p.ShiftName)
	}
}

func TestUpdateRollingRule_ResizePreservesSlots(t *testing.T) {
	f := newFixture()
	f.addShift("s1", "Morning")

	created, err := f.svc.CreateRollingRule(context.Background(), shift.CreateRollingRuleRequest{
		Name:          "Ops Rotation",
		Period:        "weekly",
		StartDate:     "2025-01-06",
		DepartmentIDs: []string{"dept-ops"},
	})
	require.NoError(t, err)

	shiftID := "s1"
	_, err = f.svc.SetPatternSlot(context.Background(), shift.SetPatternSlotRequest{
		RuleID: created.ID, Order: 1, ShiftID: &shiftID,
	})
	require.NoError(t, err)

	period := "bi_weekly"
	resized, err := f.svc.UpdateRollingRule(context.Background(), shift.UpdateRollingRuleRequest{
		ID:     created.ID,
		Period: &period,
	})
	require.NoError(t, err)

	require.Len(t, resized.Patterns, 14)
	assert.Equal(t, "Morning", resized.Patterns[0].ShiftName)
	for _, p := range resized.Patterns[1:] {
		assert.Equal(t, shift.UnassignedLabel, p.ShiftName)
	}
}

func TestSetPatternSlot_OutOfRange(t *testing.T) {
	f := newFixture()

	created, err := f.svc.CreateRollingRule(context.Background(), shift.CreateRollingRuleRequest{
		Name:          "Ops Rotation",
		Period:        "weekly",
		StartDate:     "2025-01-06",
		DepartmentIDs: []string{"dept-ops"},
	})
	require.NoError(t, err)

	shiftID := "s1"
	_, err = f.svc.SetPatternSlot(context.Background(), shift.SetPatternSlotRequest{
		RuleID: created.ID, Order: 8, ShiftID: &shiftID,
	})
	assert.ErrorIs(t, err, shift.ErrPatternOrderOutOfRange)
}

func TestSetPatternSlot_NullClearsSlot(t *testing.T) {
	f := newFixture()
	f.addShift("s1", "Morning")

	created, err := f.svc.CreateRollingRule(context.Background(), shift.CreateRollingRuleRequest{
		Name:          "Ops Rotation",
		Period:        "weekly",
		StartDate:     "2025-01-06",
		DepartmentIDs: []string{"dept-ops"},
	})
	require.NoError(t, err)

	shiftID := "s1"
	_, err = f.svc.SetPatternSlot(context.Background(), shift.SetPatternSlotRequest{
		RuleID: created.ID, Order: 3, ShiftID: &shiftID,
	})
	require.NoError(t, err)

	cleared, err := f.svc.SetPatternSlot(context.Background(), shift.SetPatternSlotRequest{
		RuleID: created.ID, Order: 3, ShiftID: nil,
	})
	require.NoError(t, err)

	assert.Nil(t, cleared.Patterns[2].ShiftID)
	assert.Equal(t, shift.UnassignedLabel, cleared.Patterns[2].ShiftName)
}

func setupRotation(t *testing.T, f *fixture) shift.RollingRuleResponse {
	t.Helper()

	f.addShift("s1", "S1")
	f.addShift("s2", "S2")
	f.addEmployee("emp-1", "dept-ops")

	created, err := f.svc.CreateRollingRule(context.Background(), shift.CreateRollingRuleRequest{
		Name:          "Ops Rotation",
		Period:        "weekly",
		StartDate:     "2025-01-06",
		DepartmentIDs: []string{"dept-ops"},
	})
	require.NoError(t, err)

	// S1,S2 alternating Monday-Friday, weekend unassigned.
	for order, id := range map[int]string{1: "s1", 2: "s2", 3: "s1", 4: "s2", 5: "s1"} {
		shiftID := id
		_, err = f.svc.SetPatternSlot(context.Background(), shift.SetPatternSlotRequest{
			RuleID: created.ID, Order: order, ShiftID: &shiftID,
		})
		require.NoError(t, err)
	}

	rule, err := f.svc.GetRollingRule(context.Background(), created.ID)
	require.NoError(t, err)
	return rule
}

func TestGetRotationPlan_TwoWeeksLaterSameSlot(t *testing.T) {
	f := newFixture()
	rule := setupRotation(t, f)

	plan, err := f.svc.GetRotationPlan(context.Background(), shift.RotationPlanFilter{
		RuleID:     rule.ID,
		EmployeeID: "emp-1",
		From:       "2025-01-20",
		To:         "2025-01-20",
	})
	require.NoError(t, err)

	require.Len(t, plan.Days, 1)
	assert.Equal(t, 1, plan.Days[0].Order)
	require.NotNil(t, plan.Days[0].ShiftID)
	assert.Equal(t, "s1", *plan.Days[0].ShiftID)
}

func TestGetRotationPlan_EmployeeOutsideScope(t *testing.T) {
	f := newFixture()
	rule := setupRotation(t, f)
	f.addEmployee("emp-2", "dept-finance")

	_, err := f.svc.GetRotationPlan(context.Background(), shift.RotationPlanFilter{
		RuleID:     rule.ID,
		EmployeeID: "emp-2",
		From:       "2025-01-20",
		To:         "2025-01-20",
	})
	assert.ErrorIs(t, err, shift.ErrEmployeeNotInScope)
}

func TestResolveShiftForDate_RollingRule(t *testing.T) {
	f := newFixture()
	setupRotation(t, f)

	// Tuesday 2025-01-07 is slot 2.
	def, err := f.svc.ResolveShiftForDate(context.Background(), "emp-1", time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	require.NotNil(t, def)
	assert.Equal(t, "s2", def.ID)
}

func TestResolveShiftForDate_UnassignedSlotIsNoShift(t *testing.T) {
	f := newFixture()
	setupRotation(t, f)

	// Saturday 2025-01-11 was left unassigned.
	def, err := f.svc.ResolveShiftForDate(context.Background(), "emp-1", time.Date(2025, 1, 11, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Nil(t, def)
}

func TestResolveShiftForDate_AssignmentOverridesRule(t *testing.T) {
	f := newFixture()
	setupRotation(t, f)
	f.addShift("s9", "Special")
	f.assignmentRepo.assignments["emp-1"] = shift.ShiftAssignment{
		ID: "a1", EmployeeID: "emp-1", ShiftID: "s9", IsActive: true,
	}

	def, err := f.svc.ResolveShiftForDate(context.Background(), "emp-1", time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	require.NotNil(t, def)
	assert.Equal(t, "s9", def.ID)
}

func TestResolveShiftForDate_InactiveEmployee(t *testing.T) {
	f := newFixture()
	setupRotation(t, f)
	emp := f.employeeRepo.employees["emp-1"]
	emp.IsActive = false
	f.employeeRepo.employees["emp-1"] = emp

	_, err := f.svc.ResolveShiftForDate(context.Background(), "emp-1", time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, employee.ErrEmployeeInactive)
}

func TestResolveShift_InvalidDate(t *testing.T) {
	f := newFixture()

	_, err := f.svc.ResolveShift(context.Background(), "emp-1", "07-01-2025")
	assert.ErrorIs(t, err, shift.ErrInvalidDateFormat)
}

func TestRemoveAssignments_RequiresEmployees(t *testing.T) {
	f := newFixture()

	err := f.svc.RemoveAssignments(context.Background(), shift.RemoveAssignmentsRequest{})
	assert.Error(t, err)
}
