package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type shiftRepository struct {
	db *database.DB
}

const shiftColumns = `id, name, work_days, start_time, end_time, is_night_shift,
	   is_active, date_start, date_end, created_at, updated_at, deleted_at`

func scanShift(row pgx.Row, def *shift.ShiftDefinition) error {
	return row.Scan(
		&def.ID, &def.Name, &def.WorkDays, &def.StartTime, &def.EndTime, &def.IsNightShift,
		&def.IsActive, &def.DateStart, &def.DateEnd, &def.CreatedAt, &def.UpdatedAt, &def.DeletedAt,
	)
}

// Create implements shift.ShiftRepository.
func (s *shiftRepository) Create(ctx context.Context, def shift.ShiftDefinition) (shift.ShiftDefinition, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		INSERT INTO shifts (
			name, work_days, start_time, end_time, is_night_shift,
			is_active, date_start, date_end
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		def.Name,
		def.WorkDays,
		def.StartTime,
		def.EndTime,
		def.IsNightShift,
		def.IsActive,
		def.DateStart,
		def.DateEnd,
	).Scan(&def.ID, &def.CreatedAt, &def.UpdatedAt)

	if err != nil {
		return shift.ShiftDefinition{}, fmt.Errorf("failed to create shift: %w", err)
	}

	return def, nil
}

// GetByID implements shift.ShiftRepository.
func (s *shiftRepository) GetByID(ctx context.Context, id string) (shift.ShiftDefinition, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		SELECT ` + shiftColumns + `
		FROM shifts
		WHERE id = $1 AND deleted_at IS NULL
	`

	var def shift.ShiftDefinition
	if err := scanShift(q.QueryRow(ctx, query, id), &def); err != nil {
		return shift.ShiftDefinition{}, err
	}

	return def, nil
}

// List implements shift.ShiftRepository.
func (s *shiftRepository) List(ctx context.Context, filter shift.ShiftFilter) ([]shift.ShiftDefinition, int64, error) {
	q := GetQuerier(ctx, s.db)

	baseWhere := "deleted_at IS NULL"
	args := []interface{}{}
	argIdx := 1

	if filter.Name != nil && *filter.Name != "" {
		baseWhere += fmt.Sprintf(" AND name ILIKE $%d", argIdx)
		args = append(args, "%"+*filter.Name+"%")
		argIdx++
	}
	if filter.IsActive != nil {
		baseWhere += fmt.Sprintf(" AND is_active = $%d", argIdx)
		args = append(args, *filter.IsActive)
		argIdx++
	}

	countQuery := "SELECT COUNT(*) FROM shifts WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count shifts: %w", err)
	}

	orderByField := "name"
	switch filter.SortBy {
	case "date_start":
		orderByField = "date_start"
	case "created_at":
		orderByField = "created_at"
	}
	sortOrder := "ASC"
	if strings.ToLower(filter.SortOrder) == "desc" {
		sortOrder = "DESC"
	}

	selectQuery := fmt.Sprintf(`
		SELECT `+shiftColumns+`
		FROM shifts
		WHERE %s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, baseWhere, orderByField, sortOrder, argIdx, argIdx+1)

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query shifts: %w", err)
	}
	defer rows.Close()

	var defs []shift.ShiftDefinition
	for rows.Next() {
		var def shift.ShiftDefinition
		if err := scanShift(rows, &def); err != nil {
			return nil, 0, fmt.Errorf("failed to scan shift: %w", err)
		}
		defs = append(defs, def)
	}

	return defs, total, nil
}

// Update implements shift.ShiftRepository. The current row is loaded first so
// omitted fields keep their stored value.
func (s *shiftRepository) Update(ctx context.Context, req shift.UpdateShiftRequest) (shift.ShiftDefinition, error) {
	q := GetQuerier(ctx, s.db)

	def, err := s.GetByID(ctx, req.ID)
	if err != nil {
		return shift.ShiftDefinition{}, err
	}

	if req.Name != nil {
		def.Name = *req.Name
	}
	if req.WorkDays != nil {
		def.WorkDays = *req.WorkDays
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
	if req.DateStart != nil {
		def.DateStart, _ = time.Parse("2006-01-02", *req.DateStart)
	}
	if req.DateEnd != nil {
		def.DateEnd, _ = time.Parse("2006-01-02", *req.DateEnd)
	}

	query := `
		UPDATE shifts
		SET name = $1, work_days = $2, start_time = $3, end_time = $4,
			is_night_shift = $5, is_active = $6, date_start = $7, date_end = $8,
			updated_at = NOW()
		WHERE id = $9 AND deleted_at IS NULL
		RETURNING updated_at
	`

	err = q.QueryRow(ctx, query,
		def.Name,
		def.WorkDays,
		def.StartTime,
		def.EndTime,
		def.IsNightShift,
		def.IsActive,
		def.DateStart,
		def.DateEnd,
		def.ID,
	).Scan(&def.UpdatedAt)

	if err != nil {
		return shift.ShiftDefinition{}, err
	}

	return def, nil
}

// SoftDelete implements shift.ShiftRepository.
func (s *shiftRepository) SoftDelete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, s.db)

	query := `
		UPDATE shifts
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING id
	`

	var deletedID string
	return q.QueryRow(ctx, query, id).Scan(&deletedID)
}

func NewShiftRepository(db *database.DB) shift.ShiftRepository {
	return &shiftRepository{db: db}
}
