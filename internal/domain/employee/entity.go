package employee

import "time"

type Employee struct {
	ID           string
	Name         string
	DepartmentID string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
