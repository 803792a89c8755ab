package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/kintai-works/kintai-backend-go/internal/domain/employee"
	"github.com/kintai-works/kintai-backend-go/internal/pkg/database"
)

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepository{db: db}
}

const employeeColumns = `
	id, name, email, employment_class, join_date, leave_date, is_admin,
	base_salary, default_break_minutes, prescribed_work_hours,
	allowance_master_ids, password_hash, created_at, updated_at
`

// Create implements employee.EmployeeRepository.
func (r *employeeRepository) Create(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO employees (
			id, name, email, employment_class, join_date, leave_date, is_admin,
			base_salary, default_break_minutes, prescribed_work_hours,
			allowance_master_ids, password_hash, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
		)
	`

	_, err := q.Exec(ctx, query,
		emp.ID,
		emp.Name,
		emp.Email,
		emp.EmploymentClass,
		emp.JoinDate,
		emp.LeaveDate,
		emp.IsAdmin,
		emp.BaseSalary,
		emp.DefaultBreakMinutes,
		emp.PrescribedWorkHours,
		emp.AllowanceMasterIDs,
		emp.PasswordHash,
		emp.CreatedAt,
		emp.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return employee.Employee{}, employee.ErrEmailExists
		}
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}

	return emp, nil
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`

	emp, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return emp, nil
}

// GetByEmail implements employee.EmployeeRepository.
func (r *employeeRepository) GetByEmail(ctx context.Context, email string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE email = $1`

	emp, err := scanEmployee(q.QueryRow(ctx, query, email))
	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by email: %w", err)
	}
	return emp, nil
}

// Update implements employee.EmployeeRepository.
func (r *employeeRepository) Update(ctx context.Context, emp employee.Employee) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employees SET
			name = $2,
			email = $3,
			employment_class = $4,
			join_date = $5,
			leave_date = $6,
			is_admin = $7,
			base_salary = $8,
			default_break_minutes = $9,
			prescribed_work_hours = $10,
			allowance_master_ids = $11,
			updated_at = $12
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		emp.ID,
		emp.Name,
		emp.Email,
		emp.EmploymentClass,
		emp.JoinDate,
		emp.LeaveDate,
		emp.IsAdmin,
		emp.BaseSalary,
		emp.DefaultBreakMinutes,
		emp.PrescribedWorkHours,
		emp.AllowanceMasterIDs,
		emp.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return employee.ErrEmailExists
		}
		return fmt.Errorf("failed to update employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// List implements employee.EmployeeRepository.
func (r *employeeRepository) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := ""
	if filter.ActiveOnly {
		where = `WHERE join_date <= CURRENT_DATE AND (leave_date IS NULL OR leave_date > CURRENT_DATE)`
	}

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM employees `+where).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}

	query := `SELECT ` + employeeColumns + ` FROM employees ` + where + `
		ORDER BY name ASC
		LIMIT $1 OFFSET $2`

	rows, err := q.Query(ctx, query, filter.Limit, (filter.Page-1)*filter.Limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate employees: %w", err)
	}

	return employees, total, nil
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	err := row.Scan(
		&emp.ID,
		&emp.Name,
		&emp.Email,
		&emp.EmploymentClass,
		&emp.JoinDate,
		&emp.LeaveDate,
		&emp.IsAdmin,
		&emp.BaseSalary,
		&emp.DefaultBreakMinutes,
		&emp.PrescribedWorkHours,
		&emp.AllowanceMasterIDs,
		&emp.PasswordHash,
		&emp.CreatedAt,
		&emp.UpdatedAt,
	)
	return emp, err
}
