package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/kintai-works/kintai-backend-go/internal/domain/master"
	"github.com/kintai-works/kintai-backend-go/internal/pkg/database"
)

type allowanceRepository struct {
	db *database.DB
}

func NewAllowanceRepository(db *database.DB) master.AllowanceRepository {
	return &allowanceRepository{db: db}
}

// Create implements master.AllowanceRepository.
func (r *allowanceRepository) Create(ctx context.Context, m master.AllowanceMaster) (master.AllowanceMaster, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO allowance_masters (
			id, name, amount, include_in_overtime, display_color, display_order,
			is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := q.Exec(ctx, query,
		m.ID, m.Name, m.Amount, m.IncludeInOvertime,
		m.DisplayColor, m.DisplayOrder, m.IsActive, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return master.AllowanceMaster{}, fmt.Errorf("failed to create allowance master: %w", err)
	}
	return m, nil
}

// Update implements master.AllowanceRepository.
func (r *allowanceRepository) Update(ctx context.Context, m master.AllowanceMaster) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE allowance_masters SET
			name = $2,
			amount = $3,
			include_in_overtime = $4,
			display_color = $5,
			display_order = $6,
			is_active = $7,
			updated_at = $8
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		m.ID, m.Name, m.Amount, m.IncludeInOvertime,
		m.DisplayColor, m.DisplayOrder, m.IsActive, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update allowance master: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return master.ErrAllowanceNotFound
	}
	return nil
}

// GetByID implements master.AllowanceRepository.
func (r *allowanceRepository) GetByID(ctx context.Context, id string) (master.AllowanceMaster, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, amount, include_in_overtime, display_color,
			   display_order, is_active, created_at, updated_at
		FROM allowance_masters
		WHERE id = $1
	`

	m, err := scanAllowance(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return master.AllowanceMaster{}, master.ErrAllowanceNotFound
		}
		return master.AllowanceMaster{}, fmt.Errorf("failed to get allowance master: %w", err)
	}
	return m, nil
}

// GetByIDs implements master.AllowanceRepository.
func (r *allowanceRepository) GetByIDs(ctx context.Context, ids []string) ([]master.AllowanceMaster, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, amount, include_in_overtime, display_color,
			   display_order, is_active, created_at, updated_at
		FROM allowance_masters
		WHERE id = ANY($1)
		ORDER BY display_order ASC, name ASC
	`

	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get allowance masters: %w", err)
	}
	defer rows.Close()

	var masters []master.AllowanceMaster
	for rows.Next() {
		m, err := scanAllowance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan allowance master: %w", err)
		}
		masters = append(masters, m)
	}
	return masters, rows.Err()
}

// List implements master.AllowanceRepository.
func (r *allowanceRepository) List(ctx context.Context, activeOnly bool) ([]master.AllowanceMaster, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, amount, include_in_overtime, display_color,
			   display_order, is_active, created_at, updated_at
		FROM allowance_masters
	`
	if activeOnly {
		query += ` WHERE is_active = true`
	}
	query += ` ORDER BY display_order ASC, name ASC`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list allowance masters: %w", err)
	}
	defer rows.Close()

	var masters []master.AllowanceMaster
	for rows.Next() {
		m, err := scanAllowance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan allowance master: %w", err)
		}
		masters = append(masters, m)
	}
	return masters, rows.Err()
}

func scanAllowance(row pgx.Row) (master.AllowanceMaster, error) {
	var m master.AllowanceMaster
	err := row.Scan(
		&m.ID, &m.Name, &m.Amount, &m.IncludeInOvertime,
		&m.DisplayColor, &m.DisplayOrder, &m.IsActive, &m.CreatedAt, &m.UpdatedAt,
	)
	return m, err
}

type deductionRepository struct {
	db *database.DB
}

func NewDeductionRepository(db *database.DB) master.DeductionRepository {
	return &deductionRepository{db: db}
}

// Create implements master.DeductionRepository.
func (r *deductionRepository) Create(ctx context.Context, m master.DeductionMaster) (master.DeductionMaster, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO deduction_masters (
			id, name, amount, display_color, display_order, is_active,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := q.Exec(ctx, query,
		m.ID, m.Name, m.Amount, m.DisplayColor, m.DisplayOrder,
		m.IsActive, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return master.DeductionMaster{}, fmt.Errorf("failed to create deduction master: %w", err)
	}
	return m, nil
}

// Update implements master.DeductionRepository.
func (r *deductionRepository) Update(ctx context.Context, m master.DeductionMaster) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE deduction_masters SET
			name = $2,
			amount = $3,
			display_color = $4,
			display_order = $5,
			is_active = $6,
			updated_at = $7
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		m.ID, m.Name, m.Amount, m.DisplayColor, m.DisplayOrder, m.IsActive, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update deduction master: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return master.ErrDeductionNotFound
	}
	return nil
}

// GetByID implements master.DeductionRepository.
func (r *deductionRepository) GetByID(ctx context.Context, id string) (master.DeductionMaster, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, amount, display_color, display_order, is_active,
			   created_at, updated_at
		FROM deduction_masters
		WHERE id = $1
	`

	var m master.DeductionMaster
	err := q.QueryRow(ctx, query, id).Scan(
		&m.ID, &m.Name, &m.Amount, &m.DisplayColor, &m.DisplayOrder,
		&m.IsActive, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return master.DeductionMaster{}, master.ErrDeductionNotFound
		}
		return master.DeductionMaster{}, fmt.Errorf("failed to get deduction master: %w", err)
	}
	return m, nil
}

// List implements master.DeductionRepository.
func (r *deductionRepository) List(ctx context.Context, activeOnly bool) ([]master.DeductionMaster, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, amount, display_color, display_order, is_active,
			   created_at, updated_at
		FROM deduction_masters
	`
	if activeOnly {
		query += ` WHERE is_active = true`
	}
	query += ` ORDER BY display_order ASC, name ASC`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list deduction masters: %w", err)
	}
	defer rows.Close()

	var masters []master.DeductionMaster
	for rows.Next() {
		var m master.DeductionMaster
		err := rows.Scan(
			&m.ID, &m.Name, &m.Amount, &m.DisplayColor, &m.DisplayOrder,
			&m.IsActive, &m.CreatedAt, &m.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan deduction master: %w", err)
		}
		masters = append(masters, m)
	}
	return masters, rows.Err()
}
