package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db *database.DB
}

const attendanceColumns = `a.id, a.employee_id, a.date, a.shift_id,
	   a.clock_in, a.clock_out,
	   a.clock_in_latitude, a.clock_in_longitude,
	   a.clock_out_latitude, a.clock_out_longitude,
	   a.status, a.within_geofence, a.distance_meters,
	   a.late_minutes, a.early_leave_minutes, a.overtime_minutes, a.work_duration,
	   a.created_at, a.updated_at`

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendances (
			id, employee_id, date, shift_id,
			clock_in, clock_in_latitude, clock_in_longitude,
			status, within_geofence, distance_meters, late_minutes
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		att.ID,
		att.EmployeeID,
		att.Date,
		att.ShiftID,
		att.ClockIn,
		att.ClockInLatitude,
		att.ClockInLongitude,
		att.Status,
		att.WithinGeofence,
		att.DistanceMeters,
		att.LateMinutes,
	).Scan(&att.CreatedAt, &att.UpdatedAt)

	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return att, nil
}

// Update implements attendance.AttendanceRepository.
func (a *attendanceRepository) Update(ctx context.Context, att attendance.Attendance) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances
		SET clock_out = $1, clock_out_latitude = $2, clock_out_longitude = $3,
			status = $4, early_leave_minutes = $5, overtime_minutes = $6,
			work_duration = $7, updated_at = NOW()
		WHERE id = $8
	`

	_, err := q.Exec(ctx, query,
		att.ClockOut,
		att.ClockOutLatitude,
		att.ClockOutLongitude,
		att.Status,
		att.EarlyLeaveMinutes,
		att.OvertimeMinutes,
		att.WorkDuration,
		att.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance: %w", err)
	}
	return nil
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `,
			e.full_name AS employee_name
		FROM attendances a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE a.id = $1
	`

	var att attendance.Attendance
	err := q.QueryRow(ctx, query, id).Scan(
		&att.ID, &att.EmployeeID, &att.Date, &att.ShiftID,
		&att.ClockIn, &att.ClockOut,
		&att.ClockInLatitude, &att.ClockInLongitude,
		&att.ClockOutLatitude, &att.ClockOutLongitude,
		&att.Status, &att.WithinGeofence, &att.DistanceMeters,
		&att.LateMinutes, &att.EarlyLeaveMinutes, &att.OvertimeMinutes, &att.WorkDuration,
		&att.CreatedAt, &att.UpdatedAt,
		&att.EmployeeName,
	)
	if err != nil {
		return attendance.Attendance{}, err
	}

	return att, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances a
		WHERE a.employee_id = $1 AND a.date = $2
		LIMIT 1
	`

	var att attendance.Attendance
	err := q.QueryRow(ctx, query, employeeID, date).Scan(
		&att.ID, &att.EmployeeID, &att.Date, &att.ShiftID,
		&att.ClockIn, &att.ClockOut,
		&att.ClockInLatitude, &att.ClockInLongitude,
		&att.ClockOutLatitude, &att.ClockOutLongitude,
		&att.Status, &att.WithinGeofence, &att.DistanceMeters,
		&att.LateMinutes, &att.EarlyLeaveMinutes, &att.OvertimeMinutes, &att.WorkDuration,
		&att.CreatedAt, &att.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance by employee and date: %w", err)
	}

	return &att, nil
}

// GetOpenSession implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetOpenSession(ctx context.Context, employeeID string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances a
		WHERE a.employee_id = $1
		  AND a.clock_in IS NOT NULL
		  AND a.clock_out IS NULL
		ORDER BY a.clock_in DESC
		LIMIT 1
	`

	var att attendance.Attendance
	err := q.QueryRow(ctx, query, employeeID).Scan(
		&att.ID, &att.EmployeeID, &att.Date, &att.ShiftID,
		&att.ClockIn, &att.ClockOut,
		&att.ClockInLatitude, &att.ClockInLongitude,
		&att.ClockOutLatitude, &att.ClockOutLongitude,
		&att.Status, &att.WithinGeofence, &att.DistanceMeters,
		&att.LateMinutes, &att.EarlyLeaveMinutes, &att.OvertimeMinutes, &att.WorkDuration,
		&att.CreatedAt, &att.UpdatedAt,
	)
	if err != nil {
		return attendance.Attendance{}, err
	}

	return att, nil
}

// List implements attendance.AttendanceRepository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, a.db)

	baseWhere := "1 = 1"
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		baseWhere += fmt.Sprintf(" AND a.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND a.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.DateFrom != nil && *filter.DateFrom != "" {
		baseWhere += fmt.Sprintf(" AND a.date >= $%d", argIdx)
		args = append(args, *filter.DateFrom)
		argIdx++
	}
	if filter.DateTo != nil && *filter.DateTo != "" {
		baseWhere += fmt.Sprintf(" AND a.date <= $%d", argIdx)
		args = append(args, *filter.DateTo)
		argIdx++
	}

	countQuery := "SELECT COUNT(*) FROM attendances a WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	orderByField := "a.date"
	switch filter.SortBy {
	case "status":
		orderByField = "a.status"
	case "created_at":
		orderByField = "a.created_at"
	}
	sortOrder := "DESC"
	if strings.ToLower(filter.SortOrder) == "asc" {
		sortOrder = "ASC"
	}

	selectQuery := fmt.Sprintf(`
		SELECT `+attendanceColumns+`,
			e.full_name AS employee_name
		FROM attendances a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE %s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, baseWhere, orderByField, sortOrder, argIdx, argIdx+1)

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query attendances: %w", err)
	}
	defer rows.Close()

	var attendances []attendance.Attendance
	for rows.Next() {
		var att attendance.Attendance
		err := rows.Scan(
			&att.ID, &att.EmployeeID, &att.Date, &att.ShiftID,
			&att.ClockIn, &att.ClockOut,
			&att.ClockInLatitude, &att.ClockInLongitude,
			&att.ClockOutLatitude, &att.ClockOutLongitude,
			&att.Status, &att.WithinGeofence, &att.DistanceMeters,
			&att.LateMinutes, &att.EarlyLeaveMinutes, &att.OvertimeMinutes, &att.WorkDuration,
			&att.CreatedAt, &att.UpdatedAt,
			&att.EmployeeName,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance: %w", err)
		}
		attendances = append(attendances, att)
	}

	return attendances, total, nil
}

// ListOpenSessionsBefore implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListOpenSessionsBefore(ctx context.Context, cutoff time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances a
		WHERE a.clock_in IS NOT NULL
		  AND a.clock_out IS NULL
		  AND a.clock_in < $1
	`

	rows, err := q.Query(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to query open sessions: %w", err)
	}
	defer rows.Close()

	var attendances []attendance.Attendance
	for rows.Next() {
		var att attendance.Attendance
		err := rows.Scan(
			&att.ID, &att.EmployeeID, &att.Date, &att.ShiftID,
			&att.ClockIn, &att.ClockOut,
			&att.ClockInLatitude, &att.ClockInLongitude,
			&att.ClockOutLatitude, &att.ClockOutLongitude,
			&att.Status, &att.WithinGeofence, &att.DistanceMeters,
			&att.LateMinutes, &att.EarlyLeaveMinutes, &att.OvertimeMinutes, &att.WorkDuration,
			&att.CreatedAt, &att.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		attendances = append(attendances, att)
	}

	return attendances, nil
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}
