package leave

import (
	"context"

	"github.com/kintai-works/kintai-backend-go/internal/domain/auth"
)

// LeaveService defines the leave request workflow and the paid-leave ledger
// operations. Approving a paid leave consumes the ledger inside the same
// transaction; deleting never restores balance.
type LeaveService interface {
	Create(ctx context.Context, actor auth.EmployeeContext, req CreateRequest) (RequestResponse, error)

	// Update rewrites a pending request owned by the caller.
	Update(ctx context.Context, actor auth.EmployeeContext, req UpdateRequest) (RequestResponse, error)

	// Delete withdraws a pending or rejected request.
	Delete(ctx context.Context, actor auth.EmployeeContext, id string) error

	Approve(ctx context.Context, actor auth.EmployeeContext, req DecisionRequest) (RequestResponse, error)

	Reject(ctx context.Context, actor auth.EmployeeContext, req DecisionRequest) (RequestResponse, error)

	Get(ctx context.Context, actor auth.EmployeeContext, id string) (RequestResponse, error)

	ListMine(ctx context.Context, actor auth.EmployeeContext, filter Filter) (ListRequestResponse, error)

	// List is the administrator view across employees.
	List(ctx context.Context, actor auth.EmployeeContext, filter Filter) (ListRequestResponse, error)

	// Balance returns the paid-leave ledger and remaining days.
	Balance(ctx context.Context, actor auth.EmployeeContext, employeeID string) (BalanceResponse, error)

	// CreateGrant adds a paid-leave allotment to an employee's ledger.
	CreateGrant(ctx context.Context, actor auth.EmployeeContext, req CreateGrantRequest) (GrantResponse, error)
}
