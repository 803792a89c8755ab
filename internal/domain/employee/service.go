package employee

import (
	"context"

	"github.com/kintai-works/kintai-backend-go/internal/domain/auth"
)

// EmployeeService defines roster operations. Mutations are administrator
// actions; Get is allowed for the record owner.
type EmployeeService interface {
	Create(ctx context.Context, actor auth.EmployeeContext, req CreateEmployeeRequest) (EmployeeResponse, error)

	Update(ctx context.Context, actor auth.EmployeeContext, req UpdateEmployeeRequest) (EmployeeResponse, error)

	Get(ctx context.Context, actor auth.EmployeeContext, id string) (EmployeeResponse, error)

	List(ctx context.Context, actor auth.EmployeeContext, filter EmployeeFilter) (ListEmployeeResponse, error)

	// Deactivate sets the employee's leave (termination) date.
	Deactivate(ctx context.Context, actor auth.EmployeeContext, id string, leaveDate string) (EmployeeResponse, error)
}
