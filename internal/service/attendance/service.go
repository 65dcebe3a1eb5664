package attendance

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/clock"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type AttendanceServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	ruleRepo       attendance.AttendanceRuleRepository
	resolver       shift.Resolver
	clock          clock.Clock
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	ruleRepo attendance.AttendanceRuleRepository,
	resolver shift.Resolver,
	clk clock.Clock,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		attendanceRepo: attendanceRepo,
		ruleRepo:       ruleRepo,
		resolver:       resolver,
		clock:          clk,
	}
}

func employeeIDFromContext(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	employeeID, ok := claims["employee_id"].(string)
	if !ok || employeeID == "" {
		return "", fmt.Errorf("employee_id claim is missing or invalid")
	}
	return employeeID, nil
}

func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format("2006-01-02 15:04:05")
	return &formatted
}

func mapAttendanceToResponse(att attendance.Attendance) attendance.AttendanceResponse {
	return attendance.AttendanceResponse{
		ID:                att.ID,
		EmployeeID:        att.EmployeeID,
		EmployeeName:      att.EmployeeName,
		Date:              att.Date.Format("2006-01-02"),
		ShiftID:           att.ShiftID,
		ClockInTime:       timePtrToString(att.ClockIn),
		ClockOutTime:      timePtrToString(att.ClockOut),
		ClockInLatitude:   att.ClockInLatitude,
		ClockInLongitude:  att.ClockInLongitude,
		ClockOutLatitude:  att.ClockOutLatitude,
		ClockOutLongitude: att.ClockOutLongitude,
		Status:            att.Status,
		WithinGeofence:    att.WithinGeofence,
		DistanceMeters:    att.DistanceMeters,
		LateMinutes:       att.LateMinutes,
		EarlyLeaveMinutes: att.EarlyLeaveMinutes,
		OvertimeMinutes:   att.OvertimeMinutes,
		WorkDuration:      att.WorkDuration,
		CreatedAt:         att.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:         att.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

func mapRuleToResponse(rule attendance.AttendanceRule) attendance.AttendanceRuleResponse {
	return attendance.AttendanceRuleResponse{
		ID:              rule.ID,
		OfficeLatitude:  rule.OfficeLatitude,
		OfficeLongitude: rule.OfficeLongitude,
		RadiusMeters:    rule.RadiusMeters,
		MaxLateMinutes:  rule.MaxLateMinutes,
		MaxLateCheckIn:  rule.MaxLateCheckIn,
		MaxLateCheckOut: rule.MaxLateCheckOut,
		CreatedAt:       rule.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:       rule.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

// eventTimestamp resolves the effective instant of a check event. Devices may
// submit a captured timestamp; otherwise server time is used.
func (a *AttendanceServiceImpl) eventTimestamp(raw *string) time.Time {
	if raw != nil {
		if ts, err := time.Parse(time.RFC3339, *raw); err == nil {
			return ts.UTC()
		}
	}
	return a.clock.Now().UTC()
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// CheckIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	employeeID, err := employeeIDFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	ts := a.eventTimestamp(req.Timestamp)
	date := dateOnly(ts)

	// An open session from a previous day must be closed before starting a
	// new one; a closed record for today means the day is already done.
	if _, err := a.attendanceRepo.GetOpenSession(ctx, employeeID); err == nil {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get open session: %w", err)
	}

	existing, err := a.attendanceRepo.GetByEmployeeAndDate(ctx, employeeID, date)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	if existing != nil {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
	}

	rule, err := a.ruleRepo.Get(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get attendance rule: %w", err)
	}
	if rule == nil {
		return attendance.AttendanceResponse{}, attendance.ErrAttendanceRuleNotFound
	}

	def, err := a.resolver.ResolveShiftForDate(ctx, employeeID, date)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if def == nil {
		return attendance.AttendanceResponse{}, attendance.ErrNoShiftForToday
	}

	event := attendance.CheckEvent{
		EmployeeID: employeeID,
		ShiftID:    &def.ID,
		Timestamp:  ts,
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
	}

	verdict, err := attendance.EvaluateCheckIn(*rule, *def, event)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	att := attendance.Attendance{
		ID:               uuid.NewString(),
		EmployeeID:       employeeID,
		Date:             date,
		ShiftID:          &def.ID,
		ClockIn:          &ts,
		ClockInLatitude:  req.Latitude,
		ClockInLongitude: req.Longitude,
		Status:           string(verdict.TimingStatus),
		WithinGeofence:   &verdict.WithinGeofence,
		DistanceMeters:   &verdict.DistanceMeters,
	}
	if verdict.TimingStatus == attendance.TimingLate {
		minutes := verdict.Minutes
		att.LateMinutes = &minutes
	}

	created, err := a.attendanceRepo.Create(ctx, att)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return mapAttendanceToResponse(created), nil
}

// CheckOut implements attendance.AttendanceService. The open session is looked
// up without a date so a night shift started yesterday can still be closed.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	employeeID, err := employeeIDFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	ts := a.eventTimestamp(req.Timestamp)

	att, err := a.attendanceRepo.GetOpenSession(ctx, employeeID)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return attendance.AttendanceResponse{}, fmt.Errorf("failed to get open session: %w", err)
		}
		closed, lookupErr := a.attendanceRepo.GetByEmployeeAndDate(ctx, employeeID, dateOnly(ts))
		if lookupErr != nil {
			return attendance.AttendanceResponse{}, fmt.Errorf("failed to get attendance: %w", lookupErr)
		}
		if closed != nil && closed.ClockOut != nil {
			return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedOut
		}
		return attendance.AttendanceResponse{}, attendance.ErrNotCheckedIn
	}
	if att.ClockIn == nil {
		return attendance.AttendanceResponse{}, attendance.ErrNotCheckedIn
	}

	rule, err := a.ruleRepo.Get(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get attendance rule: %w", err)
	}
	if rule == nil {
		return attendance.AttendanceResponse{}, attendance.ErrAttendanceRuleNotFound
	}

	// The window comes from the session's own date, not today's.
	def, err := a.resolver.ResolveShiftForDate(ctx, employeeID, att.Date)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if def == nil {
		return attendance.AttendanceResponse{}, attendance.ErrNoShiftForToday
	}

	checkIn := attendance.CheckEvent{
		EmployeeID: employeeID,
		ShiftID:    att.ShiftID,
		Timestamp:  *att.ClockIn,
		Latitude:   att.ClockInLatitude,
		Longitude:  att.ClockInLongitude,
	}
	checkOut := attendance.CheckEvent{
		EmployeeID: employeeID,
		ShiftID:    att.ShiftID,
		Timestamp:  ts,
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
	}

	verdict, err := attendance.EvaluateCheckOut(*rule, *def, checkIn, checkOut)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	att.ClockOut = &ts
	att.ClockOutLatitude = req.Latitude
	att.ClockOutLongitude = req.Longitude
	att.WorkDuration = &verdict.WorkDuration
	switch verdict.TimingStatus {
	case attendance.TimingEarly:
		minutes := verdict.Minutes
		att.EarlyLeaveMinutes = &minutes
		// A late arrival stays flagged even when the departure is early.
		if att.Status == string(attendance.TimingOnTime) {
			att.Status = string(attendance.TimingEarly)
		}
	case attendance.TimingLate:
		minutes := verdict.Minutes
		att.OvertimeMinutes = &minutes
		// Excessive overtime outranks an on-time or early arrival, but a
		// rejected check-in stays rejected.
		if att.Status != string(attendance.TimingRejectedOutsideWindow) {
			att.Status = string(attendance.TimingLate)
		}
	case attendance.TimingRejectedOutsideWindow:
		att.Status = string(attendance.TimingRejectedOutsideWindow)
	}

	if err := a.attendanceRepo.Update(ctx, att); err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to update attendance: %w", err)
	}

	return mapAttendanceToResponse(att), nil
}

// GetAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetAttendance(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	att, err := a.attendanceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.AttendanceResponse{}, attendance.ErrAttendanceNotFound
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	return mapAttendanceToResponse(att), nil
}

// ListAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	attendances, total, err := a.attendanceRepo.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(attendances))
	for _, att := range attendances {
		responses = append(responses, mapAttendanceToResponse(att))
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))
	showing := fmt.Sprintf("%d-%d of %d", (filter.Page-1)*filter.Limit+1, min(filter.Page*filter.Limit, int(total)), total)
	if total == 0 {
		showing = "0 of 0"
	}

	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  totalPages,
		Showing:     showing,
		Attendances: responses,
	}, nil
}

// GetMyAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetMyAttendance(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	employeeID, err := employeeIDFromContext(ctx)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	filter.EmployeeID = &employeeID
	return a.ListAttendance(ctx, filter)
}

// GetRule implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetRule(ctx context.Context) (attendance.AttendanceRuleResponse, error) {
	rule, err := a.ruleRepo.Get(ctx)
	if err != nil {
		return attendance.AttendanceRuleResponse{}, fmt.Errorf("failed to get attendance rule: %w", err)
	}
	if rule == nil {
		return attendance.AttendanceRuleResponse{}, attendance.ErrAttendanceRuleNotFound
	}
	return mapRuleToResponse(*rule), nil
}

// UpdateRule implements attendance.AttendanceService. Fields left out of the
// request keep their current value; the first update seeds the rule.
func (a *AttendanceServiceImpl) UpdateRule(ctx context.Context, req attendance.UpdateAttendanceRuleRequest) (attendance.AttendanceRuleResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceRuleResponse{}, err
	}

	current, err := a.ruleRepo.Get(ctx)
	if err != nil {
		return attendance.AttendanceRuleResponse{}, fmt.Errorf("failed to get attendance rule: %w", err)
	}
	if current == nil {
		current = &attendance.AttendanceRule{ID: uuid.NewString()}
	}

	if req.OfficeLatitude != nil {
		current.OfficeLatitude = *req.OfficeLatitude
	}
	if req.OfficeLongitude != nil {
		current.OfficeLongitude = *req.OfficeLongitude
	}
	if req.RadiusMeters != nil {
		current.RadiusMeters = *req.RadiusMeters
	}
	if req.MaxLateMinutes != nil {
		current.MaxLateMinutes = *req.MaxLateMinutes
	}
	if req.MaxLateCheckIn != nil {
		current.MaxLateCheckIn = *req.MaxLateCheckIn
	}
	if req.MaxLateCheckOut != nil {
		current.MaxLateCheckOut = *req.MaxLateCheckOut
	}

	updated, err := a.ruleRepo.Upsert(ctx, *current)
	if err != nil {
		return attendance.AttendanceRuleResponse{}, fmt.Errorf("failed to update attendance rule: %w", err)
	}

	return mapRuleToResponse(updated), nil
}
