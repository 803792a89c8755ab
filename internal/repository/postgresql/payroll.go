package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/kintai-works/kintai-backend-go/internal/domain/payroll"
	"github.com/kintai-works/kintai-backend-go/internal/pkg/database"
	"github.com/shopspring/decimal"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

// Create implements payroll.PayrollRepository.
func (r *payrollRepository) Create(ctx context.Context, rec payroll.Record) (payroll.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_records (
			id, employee_id, year, month, statement_type, memo, is_active,
			base_salary, overtime_rate, overtime_allowance, late_night_allowance,
			actual_work_minutes, normal_overtime_minutes, late_night_minutes,
			bonus_amount, health_insurance, pension, employment_insurance, income_tax,
			total_earnings, total_deductions, net_pay,
			created_by, updated_by, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7,
			$8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19,
			$20, $21, $22,
			$23, $24, $25, $26
		)
	`

	args := buildPayrollArgs(rec)
	if _, err := q.Exec(ctx, query, args...); err != nil {
		// Partial unique index on (employee_id, year, month,
		// statement_type) where is_active.
		if isUniqueViolation(err) {
			return payroll.Record{}, payroll.ErrDuplicatePeriod
		}
		return payroll.Record{}, fmt.Errorf("failed to create payroll record: %w", err)
	}

	if err := r.insertLines(ctx, rec); err != nil {
		return payroll.Record{}, err
	}
	return rec, nil
}

// Update implements payroll.PayrollRepository.
func (r *payrollRepository) Update(ctx context.Context, rec payroll.Record) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_records SET memo = $2, updated_by = $3, updated_at = $4
		WHERE id = $1 AND is_active = true
	`

	tag, err := q.Exec(ctx, query, rec.ID, rec.Memo, rec.UpdatedBy, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update payroll record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrStatementNotFound
	}
	return nil
}

// Supersede implements payroll.PayrollRepository.
func (r *payrollRepository) Supersede(ctx context.Context, oldID string, next payroll.Record) (payroll.Record, error) {
	err := WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		txCtx := TxContext(ctx, tx)

		if err := r.deactivate(txCtx, oldID, next.UpdatedBy); err != nil {
			return err
		}
		if _, err := r.Create(txCtx, next); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return payroll.Record{}, err
	}
	return next, nil
}

// Deactivate implements payroll.PayrollRepository.
func (r *payrollRepository) Deactivate(ctx context.Context, id string, by string) error {
	return r.deactivate(ctx, id, by)
}

func (r *payrollRepository) deactivate(ctx context.Context, id string, by string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_records SET is_active = false, updated_by = $2, updated_at = now()
		WHERE id = $1 AND is_active = true
	`
	tag, err := q.Exec(ctx, query, id, by)
	if err != nil {
		return fmt.Errorf("failed to deactivate payroll record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrStatementNotFound
	}

	lines := `UPDATE payroll_allowance_lines SET is_active = false WHERE payroll_id = $1`
	if _, err := q.Exec(ctx, lines, id); err != nil {
		return fmt.Errorf("failed to deactivate allowance lines: %w", err)
	}
	lines = `UPDATE payroll_deduction_lines SET is_active = false WHERE payroll_id = $1`
	if _, err := q.Exec(ctx, lines, id); err != nil {
		return fmt.Errorf("failed to deactivate deduction lines: %w", err)
	}
	return nil
}

// GetByID implements payroll.PayrollRepository.
func (r *payrollRepository) GetByID(ctx context.Context, id string) (payroll.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := payrollSelect + ` WHERE p.id = $1 AND p.is_active = true`

	rec, err := scanPayroll(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Record{}, payroll.ErrStatementNotFound
		}
		return payroll.Record{}, fmt.Errorf("failed to get payroll record: %w", err)
	}

	if err := r.loadLines(ctx, &rec); err != nil {
		return payroll.Record{}, err
	}
	return rec, nil
}

// List implements payroll.PayrollRepository.
func (r *payrollRepository) List(ctx context.Context, filter payroll.Filter) ([]payroll.Record, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"p.is_active = true"}
	args := []interface{}{}

	if filter.EmployeeID != nil {
		args = append(args, *filter.EmployeeID)
		conditions = append(conditions, fmt.Sprintf("p.employee_id = $%d", len(args)))
	}
	if filter.Year != nil {
		args = append(args, *filter.Year)
		conditions = append(conditions, fmt.Sprintf("p.year = $%d", len(args)))
	}
	if filter.Month != nil {
		args = append(args, int(*filter.Month))
		conditions = append(conditions, fmt.Sprintf("p.month = $%d", len(args)))
	}
	if filter.StatementType != nil {
		args = append(args, *filter.StatementType)
		conditions = append(conditions, fmt.Sprintf("p.statement_type = $%d", len(args)))
	}
	where := strings.Join(conditions, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM payroll_records p WHERE ` + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count payroll records: %w", err)
	}

	query := fmt.Sprintf(`%s WHERE %s
		ORDER BY p.year DESC, p.month DESC, e.name ASC
		LIMIT $%d OFFSET $%d
	`, payrollSelect, where, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payroll records: %w", err)
	}
	defer rows.Close()

	var records []payroll.Record
	for rows.Next() {
		rec, err := scanPayroll(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan payroll record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate payroll records: %w", err)
	}

	for i := range records {
		if err := r.loadLines(ctx, &records[i]); err != nil {
			return nil, 0, err
		}
	}
	return records, total, nil
}

func (r *payrollRepository) insertLines(ctx context.Context, rec payroll.Record) error {
	q := GetQuerier(ctx, r.db)

	allowanceQuery := `
		INSERT INTO payroll_allowance_lines (
			id, payroll_id, allowance_master_id, name, amount, include_in_overtime, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, true)
	`
	for _, a := range rec.AllowanceLines {
		if _, err := q.Exec(ctx, allowanceQuery, a.ID, rec.ID, a.AllowanceMasterID, a.Name, a.Amount, a.IncludeInOvertime); err != nil {
			return fmt.Errorf("failed to insert allowance line: %w", err)
		}
	}

	deductionQuery := `
		INSERT INTO payroll_deduction_lines (
			id, payroll_id, deduction_master_id, name, amount, is_active
		) VALUES ($1, $2, $3, $4, $5, true)
	`
	for _, d := range rec.DeductionLines {
		if _, err := q.Exec(ctx, deductionQuery, d.ID, rec.ID, d.DeductionMasterID, d.Name, d.Amount); err != nil {
			return fmt.Errorf("failed to insert deduction line: %w", err)
		}
	}
	return nil
}

func (r *payrollRepository) loadLines(ctx context.Context, rec *payroll.Record) error {
	q := GetQuerier(ctx, r.db)

	allowanceQuery := `
		SELECT id, allowance_master_id, name, amount, include_in_overtime
		FROM payroll_allowance_lines
		WHERE payroll_id = $1 AND is_active = true
		ORDER BY name ASC
	`
	rows, err := q.Query(ctx, allowanceQuery, rec.ID)
	if err != nil {
		return fmt.Errorf("failed to load allowance lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var a payroll.AllowanceLine
		if err := rows.Scan(&a.ID, &a.AllowanceMasterID, &a.Name, &a.Amount, &a.IncludeInOvertime); err != nil {
			return fmt.Errorf("failed to scan allowance line: %w", err)
		}
		rec.AllowanceLines = append(rec.AllowanceLines, a)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	deductionQuery := `
		SELECT id, deduction_master_id, name, amount
		FROM payroll_deduction_lines
		WHERE payroll_id = $1 AND is_active = true
		ORDER BY name ASC
	`
	drows, err := q.Query(ctx, deductionQuery, rec.ID)
	if err != nil {
		return fmt.Errorf("failed to load deduction lines: %w", err)
	}
	defer drows.Close()
	for drows.Next() {
		var d payroll.DeductionLine
		if err := drows.Scan(&d.ID, &d.DeductionMasterID, &d.Name, &d.Amount); err != nil {
			return fmt.Errorf("failed to scan deduction line: %w", err)
		}
		rec.DeductionLines = append(rec.DeductionLines, d)
	}
	return drows.Err()
}

const payrollSelect = `
	SELECT p.id, p.employee_id, p.year, p.month, p.statement_type, p.memo, p.is_active,
		   p.base_salary, p.overtime_rate, p.overtime_allowance, p.late_night_allowance,
		   p.actual_work_minutes, p.normal_overtime_minutes, p.late_night_minutes,
		   p.bonus_amount, p.health_insurance, p.pension, p.employment_insurance, p.income_tax,
		   p.total_earnings, p.total_deductions, p.net_pay,
		   p.created_by, p.updated_by, p.created_at, p.updated_at, e.name
	FROM payroll_records p
	JOIN employees e ON e.id = p.employee_id
`

func buildPayrollArgs(rec payroll.Record) []interface{} {
	args := []interface{}{
		rec.ID, rec.EmployeeID, rec.Year, int(rec.Month),
		rec.StatementType, rec.Memo, rec.IsActive,
	}

	if d := rec.SalaryDetail; d != nil {
		args = append(args,
			d.BaseSalary, d.OvertimeRate, d.OvertimeAllowance, d.LateNightAllowance,
			d.ActualWorkMinutes, d.NormalOvertimeMinutes, d.LateNightMinutes,
			nil, nil, nil, nil, nil,
			d.TotalEarnings, d.TotalDeductions, d.NetPay,
		)
	} else if d := rec.BonusDetail; d != nil {
		args = append(args,
			nil, nil, nil, nil, nil, nil, nil,
			d.BonusAmount, d.HealthInsurance, d.Pension, d.EmploymentInsurance, d.IncomeTax,
			d.TotalEarnings, d.TotalDeductions, d.NetPay,
		)
	} else {
		args = append(args,
			nil, nil, nil, nil, nil, nil, nil,
			nil, nil, nil, nil, nil,
			nil, nil, nil,
		)
	}

	args = append(args, rec.CreatedBy, rec.UpdatedBy, rec.CreatedAt, rec.UpdatedAt)
	return args
}

func scanPayroll(row pgx.Row) (payroll.Record, error) {
	var (
		rec payroll.Record

		baseSalary, overtimeRate, overtimeAllowance, lateNightAllowance decimal.NullDecimal
		actualWorkMinutes, normalOvertimeMinutes, lateNightMinutes      *int
		bonusAmount, healthInsurance, pension                           decimal.NullDecimal
		employmentInsurance, incomeTax                                  decimal.NullDecimal
		totalEarnings, totalDeductions, netPay                          decimal.NullDecimal
	)

	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.Year, &rec.Month, &rec.StatementType, &rec.Memo, &rec.IsActive,
		&baseSalary, &overtimeRate, &overtimeAllowance, &lateNightAllowance,
		&actualWorkMinutes, &normalOvertimeMinutes, &lateNightMinutes,
		&bonusAmount, &healthInsurance, &pension, &employmentInsurance, &incomeTax,
		&totalEarnings, &totalDeductions, &netPay,
		&rec.CreatedBy, &rec.UpdatedBy, &rec.CreatedAt, &rec.UpdatedAt, &rec.EmployeeName,
	)
	if err != nil {
		return payroll.Record{}, err
	}

	switch rec.StatementType {
	case payroll.TypeSalary:
		salary := payroll.SalaryDetail{
			BaseSalary:         baseSalary.Decimal,
			OvertimeRate:       overtimeRate.Decimal,
			OvertimeAllowance:  overtimeAllowance.Decimal,
			LateNightAllowance: lateNightAllowance.Decimal,
			TotalEarnings:      totalEarnings.Decimal,
			TotalDeductions:    totalDeductions.Decimal,
			NetPay:             netPay.Decimal,
		}
		if actualWorkMinutes != nil {
			salary.ActualWorkMinutes = *actualWorkMinutes
		}
		if normalOvertimeMinutes != nil {
			salary.NormalOvertimeMinutes = *normalOvertimeMinutes
		}
		if lateNightMinutes != nil {
			salary.LateNightMinutes = *lateNightMinutes
		}
		rec.SalaryDetail = &salary
	case payroll.TypeBonus:
		rec.BonusDetail = &payroll.BonusDetail{
			BonusAmount:         bonusAmount.Decimal,
			HealthInsurance:     healthInsurance.Decimal,
			Pension:             pension.Decimal,
			EmploymentInsurance: employmentInsurance.Decimal,
			IncomeTax:           incomeTax.Decimal,
			TotalEarnings:       totalEarnings.Decimal,
			TotalDeductions:     totalDeductions.Decimal,
			NetPay:              netPay.Decimal,
		}
	}

	return rec, nil
}
