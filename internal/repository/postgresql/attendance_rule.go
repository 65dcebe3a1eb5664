package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceRuleRepository struct {
	db *database.DB
}

// Get implements attendance.AttendanceRuleRepository. The table holds at most
// one row; nil means the rule has never been configured.
func (a *attendanceRuleRepository) Get(ctx context.Context) (*attendance.AttendanceRule, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT id, office_latitude, office_longitude, radius_meters,
			   max_late_minutes, max_late_check_in, max_late_check_out,
			   created_at, updated_at
		FROM attendance_rules
		LIMIT 1
	`

	var rule attendance.AttendanceRule
	err := q.QueryRow(ctx, query).Scan(
		&rule.ID, &rule.OfficeLatitude, &rule.OfficeLongitude, &rule.RadiusMeters,
		&rule.MaxLateMinutes, &rule.MaxLateCheckIn, &rule.MaxLateCheckOut,
		&rule.CreatedAt, &rule.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance rule: %w", err)
	}

	return &rule, nil
}

// Upsert implements attendance.AttendanceRuleRepository.
func (a *attendanceRuleRepository) Upsert(ctx context.Context, rule attendance.AttendanceRule) (attendance.AttendanceRule, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendance_rules (
			id, office_latitude, office_longitude, radius_meters,
			max_late_minutes, max_late_check_in, max_late_check_out
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
		ON CONFLICT (id) DO UPDATE SET
			office_latitude = EXCLUDED.office_latitude,
			office_longitude = EXCLUDED.office_longitude,
			radius_meters = EXCLUDED.radius_meters,
			max_late_minutes = EXCLUDED.max_late_minutes,
			max_late_check_in = EXCLUDED.max_late_check_in,
			max_late_check_out = EXCLUDED.max_late_check_out,
			updated_at = NOW()
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		rule.ID,
		rule.OfficeLatitude,
		rule.OfficeLongitude,
		rule.RadiusMeters,
		rule.MaxLateMinutes,
		rule.MaxLateCheckIn,
		rule.MaxLateCheckOut,
	).Scan(&rule.CreatedAt, &rule.UpdatedAt)

	if err != nil {
		return attendance.AttendanceRule{}, fmt.Errorf("failed to upsert attendance rule: %w", err)
	}

	return rule, nil
}

func NewAttendanceRuleRepository(db *database.DB) attendance.AttendanceRuleRepository {
	return &attendanceRuleRepository{db: db}
}
