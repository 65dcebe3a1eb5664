package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type assignmentRepository struct {
	db *database.DB
}

// GetActiveByEmployeeID implements shift.ShiftAssignmentRepository.
func (a *assignmentRepository) GetActiveByEmployeeID(ctx context.Context, employeeID string) (*shift.ShiftAssignment, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT id, employee_id, shift_id, is_active, created_at, updated_at
		FROM shift_assignments
		WHERE employee_id = $1 AND is_active = TRUE
		LIMIT 1
	`

	var assignment shift.ShiftAssignment
	err := q.QueryRow(ctx, query, employeeID).Scan(
		&assignment.ID, &assignment.EmployeeID, &assignment.ShiftID,
		&assignment.IsActive, &assignment.CreatedAt, &assignment.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active assignment: %w", err)
	}

	return &assignment, nil
}

// ListActive implements shift.ShiftAssignmentRepository.
func (a *assignmentRepository) ListActive(ctx context.Context, shiftID *string) ([]shift.ShiftAssignment, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT id, employee_id, shift_id, is_active, created_at, updated_at
		FROM shift_assignments
		WHERE is_active = TRUE
	`
	args := []interface{}{}
	if shiftID != nil {
		query += " AND shift_id = $1"
		args = append(args, *shiftID)
	}
	query += " ORDER BY created_at DESC"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments: %w", err)
	}
	defer rows.Close()

	var assignments []shift.ShiftAssignment
	for rows.Next() {
		var assignment shift.ShiftAssignment
		err := rows.Scan(
			&assignment.ID, &assignment.EmployeeID, &assignment.ShiftID,
			&assignment.IsActive, &assignment.CreatedAt, &assignment.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments = append(assignments, assignment)
	}

	return assignments, nil
}

// DeactivateByEmployeeIDs implements shift.ShiftAssignmentRepository.
func (a *assignmentRepository) DeactivateByEmployeeIDs(ctx context.Context, employeeIDs []string) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE shift_assignments
		SET is_active = FALSE, updated_at = NOW()
		WHERE employee_id = ANY($1) AND is_active = TRUE
	`

	if _, err := q.Exec(ctx, query, employeeIDs); err != nil {
		return fmt.Errorf("failed to deactivate assignments: %w", err)
	}
	return nil
}

// CreateBatch implements shift.ShiftAssignmentRepository.
func (a *assignmentRepository) CreateBatch(ctx context.Context, assignments []shift.ShiftAssignment) ([]shift.ShiftAssignment, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO shift_assignments (id, employee_id, shift_id, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`

	created := make([]shift.ShiftAssignment, 0, len(assignments))
	for _, assignment := range assignments {
		err := q.QueryRow(ctx, query,
			assignment.ID,
			assignment.EmployeeID,
			assignment.ShiftID,
			assignment.IsActive,
		).Scan(&assignment.CreatedAt, &assignment.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to create assignment: %w", err)
		}
		created = append(created, assignment)
	}

	return created, nil
}

func NewAssignmentRepository(db *database.DB) shift.ShiftAssignmentRepository {
	return &assignmentRepository{db: db}
}
