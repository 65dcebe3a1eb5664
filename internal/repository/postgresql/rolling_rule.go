package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type rollingRuleRepository struct {
	db *database.DB
}

const rollingRuleColumns = `id, name, period, custom_period_days, start_date,
	   patterns, department_ids, created_at, updated_at`

func scanRollingRule(row pgx.Row, rule *shift.RollingShiftRule) error {
	return row.Scan(
		&rule.ID, &rule.Name, &rule.Period, &rule.CustomPeriodDays, &rule.StartDate,
		&rule.Patterns, &rule.DepartmentIDs, &rule.CreatedAt, &rule.UpdatedAt,
	)
}

// Create implements shift.RollingShiftRuleRepository. Patterns are stored as a
// jsonb array so the slot order survives round trips untouched.
func (r *rollingRuleRepository) Create(ctx context.Context, rule shift.RollingShiftRule) (shift.RollingShiftRule, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO rolling_shift_rules (
			name, period, custom_period_days, start_date, patterns, department_ids
		) VALUES (
			$1, $2, $3, $4, $5, $6
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		rule.Name,
		rule.Period,
		rule.CustomPeriodDays,
		rule.StartDate,
		rule.Patterns,
		rule.DepartmentIDs,
	).Scan(&rule.ID, &rule.CreatedAt, &rule.UpdatedAt)

	if err != nil {
		return shift.RollingShiftRule{}, fmt.Errorf("failed to create rolling rule: %w", err)
	}

	return rule, nil
}

// GetByID implements shift.RollingShiftRuleRepository.
func (r *rollingRuleRepository) GetByID(ctx context.Context, id string) (shift.RollingShiftRule, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + rollingRuleColumns + `
		FROM rolling_shift_rules
		WHERE id = $1
	`

	var rule shift.RollingShiftRule
	if err := scanRollingRule(q.QueryRow(ctx, query, id), &rule); err != nil {
		return shift.RollingShiftRule{}, err
	}

	return rule, nil
}

// GetByDepartmentID implements shift.RollingShiftRuleRepository. The newest
// rule already in effect on the date wins when scopes overlap.
func (r *rollingRuleRepository) GetByDepartmentID(ctx context.Context, departmentID string, date time.Time) (*shift.RollingShiftRule, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + rollingRuleColumns + `
		FROM rolling_shift_rules
		WHERE $1 = ANY(department_ids)
		  AND start_date <= $2
		ORDER BY start_date DESC, created_at DESC
		LIMIT 1
	`

	var rule shift.RollingShiftRule
	err := scanRollingRule(q.QueryRow(ctx, query, departmentID, date), &rule)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get rolling rule by department: %w", err)
	}

	return &rule, nil
}

// List implements shift.RollingShiftRuleRepository.
func (r *rollingRuleRepository) List(ctx context.Context, page, limit int) ([]shift.RollingShiftRule, int64, error) {
	q := GetQuerier(ctx, r.db)

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM rolling_shift_rules").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count rolling rules: %w", err)
	}

	query := `
		SELECT ` + rollingRuleColumns + `
		FROM rolling_shift_rules
		ORDER BY name ASC
		LIMIT $1 OFFSET $2
	`

	rows, err := q.Query(ctx, query, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query rolling rules: %w", err)
	}
	defer rows.Close()

	var rules []shift.RollingShiftRule
	for rows.Next() {
		var rule shift.RollingShiftRule
		if err := scanRollingRule(rows, &rule); err != nil {
			return nil, 0, fmt.Errorf("failed to scan rolling rule: %w", err)
		}
		rules = append(rules, rule)
	}

	return rules, total, nil
}

// Update implements shift.RollingShiftRuleRepository.
func (r *rollingRuleRepository) Update(ctx context.Context, rule shift.RollingShiftRule) (shift.RollingShiftRule, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE rolling_shift_rules
		SET name = $1, period = $2, custom_period_days = $3, start_date = $4,
			patterns = $5, department_ids = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at
	`

	err := q.QueryRow(ctx, query,
		rule.Name,
		rule.Period,
		rule.CustomPeriodDays,
		rule.StartDate,
		rule.Patterns,
		rule.DepartmentIDs,
		rule.ID,
	).Scan(&rule.UpdatedAt)

	if err != nil {
		return shift.RollingShiftRule{}, err
	}

	return rule, nil
}

// Delete implements shift.RollingShiftRuleRepository.
func (r *rollingRuleRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		DELETE FROM rolling_shift_rules
		WHERE id = $1
		RETURNING id
	`

	var deletedID string
	return q.QueryRow(ctx, query, id).Scan(&deletedID)
}

func NewRollingRuleRepository(db *database.DB) shift.RollingShiftRuleRepository {
	return &rollingRuleRepository{db: db}
}
