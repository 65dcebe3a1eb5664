package shift

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/workforce-backend-go/internal/repository/postgresql"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ShiftServiceImpl struct {
	db             *database.DB
	shiftRepo      shift.ShiftRepository
	ruleRepo       shift.RollingShiftRuleRepository
	assignmentRepo shift.ShiftAssignmentRepository
	employeeRepo   employee.EmployeeRepository
}

func NewShiftService(
	db *database.DB,
	shiftRepo shift.ShiftRepository,
	ruleRepo shift.RollingShiftRuleRepository,
	assignmentRepo shift.ShiftAssignmentRepository,
	employeeRepo employee.EmployeeRepository,
) shift.ShiftService {
	return &ShiftServiceImpl{
		db:             db,
		shiftRepo:      shiftRepo,
		ruleRepo:       ruleRepo,
		assignmentRepo: assignmentRepo,
		employeeRepo:   employeeRepo,
	}
}

func mapShiftToResponse(def shift.ShiftDefinition) shift.ShiftResponse {
	return shift.ShiftResponse{
		ID:           def.ID,
		Name:         def.Name,
		WorkDays:     def.WorkDays,
		StartTime:    def.StartTime.Format("15:04"),
		EndTime:      def.EndTime.Format("15:04"),
		IsNightShift: def.IsNightShift,
		IsActive:     def.IsActive,
		DateStart:    def.DateStart.Format("2006-01-02"),
		DateEnd:      def.DateEnd.Format("2006-01-02"),
		CreatedAt:    def.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:    def.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

func mapRuleToResponse(rule shift.RollingShiftRule) shift.RollingRuleResponse {
	return shift.RollingRuleResponse{
		ID:               rule.ID,
		Name:             rule.Name,
		Period:           string(rule.Period),
		CustomPeriodDays: rule.CustomPeriodDays,
		StartDate:        rule.StartDate.Format("2006-01-02"),
		Patterns:         rule.Patterns,
		DepartmentIDs:    rule.DepartmentIDs,
		CreatedAt:        rule.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:        rule.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

func mapAssignmentToResponse(a shift.ShiftAssignment) shift.AssignmentResponse {
	return shift.AssignmentResponse{
		ID:         a.ID,
		EmployeeID: a.EmployeeID,
		ShiftID:    a.ShiftID,
		IsActive:   a.IsActive,
		CreatedAt:  a.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:  a.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

// CreateShift implements shift.ShiftService.
func (s *ShiftServiceImpl) CreateShift(ctx context.Context, req shift.CreateShiftRequest) (shift.ShiftResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.ShiftResponse{}, err
	}

	startTime, _ := time.Parse("15:04", req.StartTime)
	endTime, _ := time.Parse("15:04", req.EndTime)
	dateStart, _ := time.Parse("2006-01-02", req.DateStart)
	dateEnd, _ := time.Parse("2006-01-02", req.DateEnd)

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	def := shift.ShiftDefinition{
		Name:         req.Name,
		WorkDays:     req.WorkDays,
		StartTime:    startTime,
		EndTime:      endTime,
		IsNightShift: *req.IsNightShift,
		IsActive:     isActive,
		DateStart:    dateStart,
		DateEnd:      dateEnd,
	}

	// The window must be resolvable before the definition is accepted.
	if _, err := shift.ResolveWindow(def, dateStart); err != nil {
		return shift.ShiftResponse{}, err
	}

	created, err := s.shiftRepo.Create(ctx, def)
	if err != nil {
		return shift.ShiftResponse{}, fmt.Errorf("failed to create shift: %w", err)
	}

	return mapShiftToResponse(created), nil
}

// GetShift implements shift.ShiftService.
func (s *ShiftServiceImpl) GetShift(ctx context.Context, id string) (shift.ShiftResponse, error) {
	def, err := s.shiftRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.ShiftResponse{}, shift.ErrShiftNotFound
		}
		return shift.ShiftResponse{}, fmt.Errorf("failed to get shift: %w", err)
	}
	return mapShiftToResponse(def), nil
}

// ListShifts implements shift.ShiftService.
func (s *ShiftServiceImpl) ListShifts(ctx context.Context, filter shift.ShiftFilter) (shift.ListShiftsResponse, error) {
	if err := filter.Validate(); err != nil {
		return shift.ListShiftsResponse{}, err
	}

	defs, total, err := s.shiftRepo.List(ctx, filter)
	if err != nil {
		return shift.ListShiftsResponse{}, fmt.Errorf("failed to list shifts: %w", err)
	}

	responses := make([]shift.ShiftResponse, 0, len(defs))
	for _, def := range defs {
		responses = append(responses, mapShiftToResponse(def))
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))
	showing := fmt.Sprintf("%d-%d of %d", (filter.Page-1)*filter.Limit+1, min(filter.Page*filter.Limit, int(total)), total)
	if total == 0 {
		showing = "0 of 0"
	}

	return shift.ListShiftsResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Showing:    showing,
		Shifts:     responses,
	}, nil
}

// UpdateShift implements shift.ShiftService.
func (s *ShiftServiceImpl) UpdateShift(ctx context.Context, req shift.UpdateShiftRequest) (shift.ShiftResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.ShiftResponse{}, err
	}

	current, err := s.shiftRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.ShiftResponse{}, shift.ErrShiftNotFound
		}
		return shift.ShiftResponse{}, fmt.Errorf("failed to get shift: %w", err)
	}

	// Apply the patch in memory first: an update that leaves the definition
	// unresolvable must be rejected before anything is written.
	merged := current
	if req.Name != nil {
		merged.Name = *req.Name
	}
	if req.WorkDays != nil {
		merged.WorkDays = *req.WorkDays
	}
	if req.StartTime != nil {
		merged.StartTime, _ = time.Parse("15:04", *req.StartTime)
	}
	if req.EndTime != nil {
		merged.EndTime, _ = time.Parse("15:04", *req.EndTime)
	}
	if req.IsNightShift != nil {
		merged.IsNightShift = *req.IsNightShift
	}
	if req.IsActive != nil {
		merged.IsActive = *req.IsActive
	}
	if req.DateStart != nil {
		merged.DateStart, _ = time.Parse("2006-01-02", *req.DateStart)
	}
	if req.DateEnd != nil {
		merged.DateEnd, _ = time.Parse("2006-01-02", *req.DateEnd)
	}
	if _, err := shift.ResolveWindow(merged, merged.DateStart); err != nil {
		return shift.ShiftResponse{}, err
	}

	updated, err := s.shiftRepo.Update(ctx, req)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.ShiftResponse{}, shift.ErrShiftNotFound
		}
		return shift.ShiftResponse{}, fmt.Errorf("failed to update shift: %w", err)
	}

	return mapShiftToResponse(updated), nil
}

// DeleteShift implements shift.ShiftService.
func (s *ShiftServiceImpl) DeleteShift(ctx context.Context, id string) error {
	if err := s.shiftRepo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.ErrShiftNotFound
		}
		return fmt.Errorf("failed to delete shift: %w", err)
	}
	return nil
}

// CreateRollingRule implements shift.ShiftService.
func (s *ShiftServiceImpl) CreateRollingRule(ctx context.Context, req shift.CreateRollingRuleRequest) (shift.RollingRuleResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.RollingRuleResponse{}, err
	}

	period := shift.RotationPeriod(req.Period)
	length, err := shift.PeriodLength(period, req.CustomPeriodDays)
	if err != nil {
		return shift.RollingRuleResponse{}, err
	}

	startDate, _ := time.Parse("2006-01-02", req.StartDate)

	rule := shift.RollingShiftRule{
		Name:             req.Name,
		Period:           period,
		CustomPeriodDays: req.CustomPeriodDays,
		StartDate:        startDate,
		Patterns:         shift.RegeneratePatterns(nil, length),
		DepartmentIDs:    req.DepartmentIDs,
	}

	created, err := s.ruleRepo.Create(ctx, rule)
	if err != nil {
		return shift.RollingRuleResponse{}, fmt.Errorf("failed to create rolling rule: %w", err)
	}

	return mapRuleToResponse(created), nil
}

// GetRollingRule implements shift.ShiftService.
func (s *ShiftServiceImpl) GetRollingRule(ctx context.Context, id string) (shift.RollingRuleResponse, error) {
	rule, err := s.ruleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.RollingRuleResponse{}, shift.ErrRollingRuleNotFound
		}
		return shift.RollingRuleResponse{}, fmt.Errorf("failed to get rolling rule: %w", err)
	}
	return mapRuleToResponse(rule), nil
}

// ListRollingRules implements shift.ShiftService.
func (s *ShiftServiceImpl) ListRollingRules(ctx context.Context, page, limit int) (shift.ListRollingRulesResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	rules, total, err := s.ruleRepo.List(ctx, page, limit)
	if err != nil {
		return shift.ListRollingRulesResponse{}, fmt.Errorf("failed to list rolling rules: %w", err)
	}

	responses := make([]shift.RollingRuleResponse, 0, len(rules))
	for _, rule := range rules {
		responses = append(responses, mapRuleToResponse(rule))
	}

	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	showing := fmt.Sprintf("%d-%d of %d", (page-1)*limit+1, min(page*limit, int(total)), total)
	if total == 0 {
		showing = "0 of 0"
	}

	return shift.ListRollingRulesResponse{
		TotalCount: total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
		Showing:    showing,
		Rules:      responses,
	}, nil
}

// UpdateRollingRule implements shift.ShiftService. Changing the period (or the
// custom day count) resizes the pattern array while keeping any shift already
// chosen per position.
func (s *ShiftServiceImpl) UpdateRollingRule(ctx context.Context, req shift.UpdateRollingRuleRequest) (shift.RollingRuleResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.RollingRuleResponse{}, err
	}

	rule, err := s.ruleRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.RollingRuleResponse{}, shift.ErrRollingRuleNotFound
		}
		return shift.RollingRuleResponse{}, fmt.Errorf("failed to get rolling rule: %w", err)
	}

	if req.Name != nil {
		rule.Name = *req.Name
	}
	if req.Period != nil {
		rule.Period = shift.RotationPeriod(*req.Period)
	}
	if req.CustomPeriodDays != nil {
		rule.CustomPeriodDays = req.CustomPeriodDays
	}
	if rule.Period != shift.PeriodCustom {
		rule.CustomPeriodDays = nil
	}
	if req.StartDate != nil {
		startDate, _ := time.Parse("2006-01-02", *req.StartDate)
		rule.StartDate = startDate
	}
	if req.DepartmentIDs != nil {
		rule.DepartmentIDs = *req.DepartmentIDs
	}

	length, err := shift.PeriodLength(rule.Period, rule.CustomPeriodDays)
	if err != nil {
		return shift.RollingRuleResponse{}, err
	}
	rule.Patterns = shift.RegeneratePatterns(rule.Patterns, length)

	updated, err := s.ruleRepo.Update(ctx, rule)
	if err != nil {
		return shift.RollingRuleResponse{}, fmt.Errorf("failed to update rolling rule: %w", err)
	}

	return mapRuleToResponse(updated), nil
}

// DeleteRollingRule implements shift.ShiftService.
func (s *ShiftServiceImpl) DeleteRollingRule(ctx context.Context, id string) error {
	if err := s.ruleRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.ErrRollingRuleNotFound
		}
		return fmt.Errorf("failed to delete rolling rule: %w", err)
	}
	return nil
}

// SetPatternSlot implements shift.ShiftService. Each slot is mutated
// independently; a null shift_id clears the slot back to unassigned.
func (s *ShiftServiceImpl) SetPatternSlot(ctx context.Context, req shift.SetPatternSlotRequest) (shift.RollingRuleResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.RollingRuleResponse{}, err
	}

	rule, err := s.ruleRepo.GetByID(ctx, req.RuleID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.RollingRuleResponse{}, shift.ErrRollingRuleNotFound
		}
		return shift.RollingRuleResponse{}, fmt.Errorf("failed to get rolling rule: %w", err)
	}

	if req.Order > len(rule.Patterns) {
		return shift.RollingRuleResponse{}, shift.ErrPatternOrderOutOfRange
	}

	entry := shift.PatternEntry{Order: req.Order, ShiftID: nil, ShiftName: shift.UnassignedLabel}
	if req.ShiftID != nil {
		def, err := s.shiftRepo.GetByID(ctx, *req.ShiftID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return shift.RollingRuleResponse{}, shift.ErrShiftNotFound
			}
			return shift.RollingRuleResponse{}, fmt.Errorf("failed to get shift: %w", err)
		}
		entry.ShiftID = &def.ID
		entry.ShiftName = def.Name
	}
	rule.Patterns[req.Order-1] = entry

	updated, err := s.ruleRepo.Update(ctx, rule)
	if err != nil {
		return shift.RollingRuleResponse{}, fmt.Errorf("failed to update rolling rule: %w", err)
	}

	return mapRuleToResponse(updated), nil
}

// GetRotationPlan implements shift.ShiftService.
func (s *ShiftServiceImpl) GetRotationPlan(ctx context.Context, filter shift.RotationPlanFilter) (shift.RotationPlanResponse, error) {
	if err := filter.Validate(); err != nil {
		return shift.RotationPlanResponse{}, err
	}

	rule, err := s.ruleRepo.GetByID(ctx, filter.RuleID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.RotationPlanResponse{}, shift.ErrRollingRuleNotFound
		}
		return shift.RotationPlanResponse{}, fmt.Errorf("failed to get rolling rule: %w", err)
	}

	emp, err := s.employeeRepo.GetByID(ctx, filter.EmployeeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.RotationPlanResponse{}, employee.ErrEmployeeNotFound
		}
		return shift.RotationPlanResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}
	if !rule.CoversDepartment(emp.DepartmentID) {
		return shift.RotationPlanResponse{}, shift.ErrEmployeeNotInScope
	}

	from, _ := time.Parse("2006-01-02", filter.From)
	to, _ := time.Parse("2006-01-02", filter.To)

	var days []shift.RollingAssignmentResponse
	for date := from; !date.After(to); date = date.AddDate(0, 0, 1) {
		entry, err := rule.PatternFor(date)
		if err != nil {
			return shift.RotationPlanResponse{}, err
		}
		days = append(days, shift.RollingAssignmentResponse{
			Date:      date.Format("2006-01-02"),
			Order:     entry.Order,
			ShiftID:   entry.ShiftID,
			ShiftName: entry.ShiftName,
		})
	}

	return shift.RotationPlanResponse{
		RuleID:     rule.ID,
		EmployeeID: emp.ID,
		Days:       days,
	}, nil
}

// ResolveShiftForDate implements shift.Resolver. A materialized assignment
// overrides the department's rolling rule; when neither applies the employee
// simply has no shift that day.
func (s *ShiftServiceImpl) ResolveShiftForDate(ctx context.Context, employeeID string, date time.Time) (*shift.ShiftDefinition, error) {
	assignment, err := s.assignmentRepo.GetActiveByEmployeeID(ctx, employeeID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to get active assignment: %w", err)
	}
	if assignment != nil {
		def, err := s.shiftRepo.GetByID(ctx, assignment.ShiftID)
		if err != nil {
			if !errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("failed to get assigned shift: %w", err)
			}
		} else if shift.IsActiveOn(def, date) {
			return &def, nil
		}
	}

	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, employee.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	if !emp.IsActive {
		return nil, employee.ErrEmployeeInactive
	}

	rule, err := s.ruleRepo.GetByDepartmentID(ctx, emp.DepartmentID, date)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get rolling rule: %w", err)
	}
	if rule == nil {
		return nil, nil
	}

	entry, err := rule.PatternFor(date)
	if err != nil {
		return nil, err
	}
	if entry.ShiftID == nil {
		return nil, nil
	}

	def, err := s.shiftRepo.GetByID(ctx, *entry.ShiftID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shift.ErrShiftNotFound
		}
		return nil, fmt.Errorf("failed to get shift: %w", err)
	}
	if !shift.IsActiveOn(def, date) {
		return nil, nil
	}

	return &def, nil
}

// ResolveShift implements shift.ShiftService.
func (s *ShiftServiceImpl) ResolveShift(ctx context.Context, employeeID, dateStr string) (shift.ResolvedShiftResponse, error) {
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return shift.ResolvedShiftResponse{}, shift.ErrInvalidDateFormat
	}

	def, err := s.ResolveShiftForDate(ctx, employeeID, date)
	if err != nil {
		return shift.ResolvedShiftResponse{}, err
	}

	resp := shift.ResolvedShiftResponse{
		EmployeeID: employeeID,
		Date:       dateStr,
	}
	if def != nil {
		mapped := mapShiftToResponse(*def)
		resp.Shift = &mapped
	}
	return resp, nil
}

// SwitchAssignments implements shift.ShiftService. Moving employees to a new
// shift deactivates whatever assignment they had, so at most one assignment
// stays active per employee.
func (s *ShiftServiceImpl) SwitchAssignments(ctx context.Context, req shift.SwitchAssignmentsRequest) ([]shift.AssignmentResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.shiftRepo.GetByID(ctx, req.ToShiftID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shift.ErrShiftNotFound
		}
		return nil, fmt.Errorf("failed to get target shift: %w", err)
	}

	// When from_shift_id is set only employees currently on that shift move.
	moving := make([]string, 0, len(req.EmployeeIDs))
	for _, employeeID := range req.EmployeeIDs {
		if req.FromShiftID != nil {
			current, err := s.assignmentRepo.GetActiveByEmployeeID(ctx, employeeID)
			if err != nil && !errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("failed to get active assignment: %w", err)
			}
			if current == nil || current.ShiftID != *req.FromShiftID {
				continue
			}
		}
		moving = append(moving, employeeID)
	}
	if len(moving) == 0 {
		return []shift.AssignmentResponse{}, nil
	}

	assignments := make([]shift.ShiftAssignment, 0, len(moving))
	for _, employeeID := range moving {
		assignments = append(assignments, shift.ShiftAssignment{
			ID:         uuid.NewString(),
			EmployeeID: employeeID,
			ShiftID:    req.ToShiftID,
			IsActive:   true,
		})
	}

	var created []shift.ShiftAssignment
	err := postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		if err := s.assignmentRepo.DeactivateByEmployeeIDs(txCtx, moving); err != nil {
			return fmt.Errorf("failed to deactivate previous assignments: %w", err)
		}

		var err error
		created, err = s.assignmentRepo.CreateBatch(txCtx, assignments)
		if err != nil {
			return fmt.Errorf("failed to create assignments: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	responses := make([]shift.AssignmentResponse, 0, len(created))
	for _, a := range created {
		responses = append(responses, mapAssignmentToResponse(a))
	}
	return responses, nil
}

// RemoveAssignments implements shift.ShiftService.
func (s *ShiftServiceImpl) RemoveAssignments(ctx context.Context, req shift.RemoveAssignmentsRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if err := s.assignmentRepo.DeactivateByEmployeeIDs(ctx, req.EmployeeIDs); err != nil {
		return fmt.Errorf("failed to deactivate assignments: %w", err)
	}
	return nil
}

// ListAssignments implements shift.ShiftService.
func (s *ShiftServiceImpl) ListAssignments(ctx context.Context, shiftID *string) ([]shift.AssignmentResponse, error) {
	assignments, err := s.assignmentRepo.ListActive(ctx, shiftID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}

	responses := make([]shift.AssignmentResponse, 0, len(assignments))
	for _, a := range assignments {
		responses = append(responses, mapAssignmentToResponse(a))
	}
	return responses, nil
}
