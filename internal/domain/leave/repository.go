package leave

import (
	"context"
	"time"
)

// LeaveRepository defines data access for leave requests and the paid-leave
// grant ledger.
type LeaveRepository interface {
	CreateRequest(ctx context.Context, req Request) (Request, error)

	// UpdateRequest persists a status transition computed from a request
	// loaded in expected status. The write is refused with
	// ErrAlreadyProcessed when the stored status has moved on, so two
	// racing decisions cannot both land.
	UpdateRequest(ctx context.Context, req Request, expected Status) error

	GetRequestByID(ctx context.Context, id string) (Request, error)

	ListRequests(ctx context.Context, filter Filter) ([]Request, int64, error)

	// ListBlocking returns the employee's pending and approved requests
	// whose span intersects [start, end], excluding excludeID when set.
	ListBlocking(ctx context.Context, employeeID string, start, end time.Time, excludeID string) ([]Request, error)

	CreateGrant(ctx context.Context, grant Grant) (Grant, error)

	// ListGrantsByEmployee returns the ledger ordered by grant date.
	ListGrantsByEmployee(ctx context.Context, employeeID string) ([]Grant, error)

	// UpdateGrantUsage persists the consumed portions written by the
	// ledger. Callers run it inside the approval transaction.
	UpdateGrantUsage(ctx context.Context, grants []Grant) error
}
