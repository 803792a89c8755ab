package employee

import (
	"context"
)

// EmployeeRepository defines data access for the roster.
type EmployeeRepository interface {
	Create(ctx context.Context, emp Employee) (Employee, error)

	GetByID(ctx context.Context, id string) (Employee, error)

	GetByEmail(ctx context.Context, email string) (Employee, error)

	Update(ctx context.Context, emp Employee) error

	List(ctx context.Context, filter EmployeeFilter) ([]Employee, int64, error)
}
