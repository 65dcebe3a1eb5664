package employee

import "context"

// EmployeeRepository is the directory the scheduling core reads. Employee
// CRUD itself lives in the surrounding HR shell.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	ListActiveByDepartmentIDs(ctx context.Context, departmentIDs []string) ([]Employee, error)
}
