package payroll

import (
	"context"

	"github.com/kintai-works/kintai-backend-go/internal/domain/auth"
)

// PayrollService manages payroll statements. Creation snapshots the figures
// at that instant; later attendance or master edits never leak into a stored
// statement unless Regenerate is called.
type PayrollService interface {
	// CreateSalary computes the monthly statement from the employee's
	// attendance aggregates and attached masters, then stores the
	// snapshot. Admin only.
	CreateSalary(ctx context.Context, actor auth.EmployeeContext, req CreateSalaryRequest) (StatementResponse, error)

	// CreateBonus stores a bonus statement from the submitted amounts.
	// Admin only.
	CreateBonus(ctx context.Context, actor auth.EmployeeContext, req CreateBonusRequest) (StatementResponse, error)

	// Update edits the memo; the numeric snapshot is untouched.
	Update(ctx context.Context, actor auth.EmployeeContext, req UpdateRequest) (StatementResponse, error)

	// Regenerate recomputes a salary statement from current attendance
	// and masters, superseding the stored version. Admin only.
	Regenerate(ctx context.Context, actor auth.EmployeeContext, id string) (StatementResponse, error)

	// Delete logically deletes a statement. Admin only.
	Delete(ctx context.Context, actor auth.EmployeeContext, id string) error

	// Get returns a statement; employees may read their own, admins any.
	Get(ctx context.Context, actor auth.EmployeeContext, id string) (StatementResponse, error)

	ListMine(ctx context.Context, actor auth.EmployeeContext, filter Filter) (ListStatementResponse, error)

	// List is the administrator view across employees.
	List(ctx context.Context, actor auth.EmployeeContext, filter Filter) (ListStatementResponse, error)
}
