package payroll

import "context"

// PayrollRepository defines data access for payroll statements and their
// line items.
type PayrollRepository interface {
	// Create inserts a statement with its detail and line items. Returns
	// ErrDuplicatePeriod when an active statement of the same type exists
	// for the employee and period.
	Create(ctx context.Context, rec Record) (Record, error)

	// Update persists memo and audit fields of an existing statement.
	Update(ctx context.Context, rec Record) error

	// Supersede deactivates the statement identified by oldID together
	// with its line items and inserts next as the active version, in one
	// transaction.
	Supersede(ctx context.Context, oldID string, next Record) (Record, error)

	// Deactivate logically deletes a statement and its line items.
	Deactivate(ctx context.Context, id string, by string) error

	// GetByID returns active statements only.
	GetByID(ctx context.Context, id string) (Record, error)

	List(ctx context.Context, filter Filter) ([]Record, int64, error)
}
