package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"furnicost/internal/model"
	"furnicost/internal/repository"
)

const estimateColumns = `id, drawing_key, drawing_filename, drawing_format, detected_area_m2, diagnostic,
		exterior_area_m2, exterior_material, interior_area_m2, interior_material, drawer_count,
		exterior_cost, interior_cost, drawers_cost, total_cost,
		manual_cost, commission_percent, commission_amount, final_cost, created_at`

// EstimatePostgres is a PostgreSQL implementation of repository.EstimateRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type EstimatePostgres struct {
	db *sql.DB
}

func NewEstimatePostgres(db *sql.DB) *EstimatePostgres {
	return &EstimatePostgres{db: db}
}

var _ repository.EstimateRepository = (*EstimatePostgres)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEstimate(rs rowScanner) (*model.Estimate, error) {
	var e model.Estimate
	if err := rs.Scan(
		&e.ID,
		&e.Drawing.StorageKey,
		&e.Drawing.Filename,
		&e.Drawing.Format,
		&e.Drawing.DetectedAreaM2,
		&e.Drawing.Diagnostic,
		&e.ExteriorAreaM2,
		&e.ExteriorMaterial,
		&e.InteriorAreaM2,
		&e.InteriorMaterial,
		&e.DrawerCount,
		&e.ExteriorCost,
		&e.InteriorCost,
		&e.DrawersCost,
		&e.TotalCost,
		&e.ManualCost,
		&e.CommissionPercent,
		&e.CommissionAmount,
		&e.FinalCost,
		&e.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &e, nil
}

// Create inserts a new estimate row and returns the stored record.
func (r *EstimatePostgres) Create(ctx context.Context, e *model.Estimate) (*model.Estimate, error) {
	q := `
		INSERT INTO estimates (` + estimateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		RETURNING ` + estimateColumns
	row := r.db.QueryRowContext(ctx, q,
		e.ID,
		e.Drawing.StorageKey,
		e.Drawing.Filename,
		e.Drawing.Format,
		e.Drawing.DetectedAreaM2,
		e.Drawing.Diagnostic,
		e.ExteriorAreaM2,
		e.ExteriorMaterial,
		e.InteriorAreaM2,
		e.InteriorMaterial,
		e.DrawerCount,
		e.ExteriorCost,
		e.InteriorCost,
		e.DrawersCost,
		e.TotalCost,
		e.ManualCost,
		e.CommissionPercent,
		e.CommissionAmount,
		e.FinalCost,
		e.CreatedAt,
	)
	out, err := scanEstimate(row)
	if err != nil {
		return nil, fmt.Errorf("insert estimate: %w", err)
	}
	return out, nil
}

// FindByID fetches a single estimate by its ID.
func (r *EstimatePostgres) FindByID(ctx context.Context, id string) (*model.Estimate, error) {
	q := `SELECT ` + estimateColumns + ` FROM estimates WHERE id = $1`
	e, err := scanEstimate(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find estimate: %w", err)
	}
	return e, nil
}

// List returns estimates newest first using LIMIT/OFFSET pagination and a total count.
func (r *EstimatePostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Estimate], error) {
	const qCount = `SELECT COUNT(*) FROM estimates`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, fmt.Errorf("count estimates: %w", err)
	}

	qList := `SELECT ` + estimateColumns + ` FROM estimates
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, fmt.Errorf("list estimates: %w", err)
	}
	defer rows.Close()

	items := make([]model.Estimate, 0)
	for rows.Next() {
		e, err := scanEstimate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan estimate: %w", err)
		}
		items = append(items, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Estimate]{
		Items: items,
		Total: total,
	}, nil
}

// Delete removes an estimate by ID.
func (r *EstimatePostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM estimates WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return fmt.Errorf("delete estimate: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
