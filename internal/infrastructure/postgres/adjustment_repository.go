package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.AdjustmentRepository = (*AdjustmentRepo)(nil)

// AdjustmentRepo ajustes y sus líneas.
type AdjustmentRepo struct {
	q Querier
}

func NewAdjustmentRepository(q Querier) *AdjustmentRepo {
	return &AdjustmentRepo{q: q}
}

const adjustmentColumns = `id, reference_no, warehouse_id, reason, notes, status, created_by, approved_by, approved_at, created_at, updated_at`

func (r *AdjustmentRepo) Create(ctx context.Context, d *entity.Adjustment) error {
	_, err := r.q.Exec(ctx, `INSERT INTO adjustments (`+adjustmentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		d.ID, d.ReferenceNo, d.WarehouseID, d.Reason, d.Notes, string(d.Status),
		d.CreatedBy, d.ApprovedBy, d.ApprovedAt, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return wrapErr("insert adjustment", err)
	}
	return r.insertLines(ctx, d)
}

func (r *AdjustmentRepo) insertLines(ctx context.Context, d *entity.Adjustment) error {
	for i, l := range d.Lines {
		_, err := r.q.Exec(ctx, `
			INSERT INTO adjustment_lines (id, adjustment_id, position, product_id, type, quantity, unit_cost)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			l.ID, d.ID, i, l.ProductID, string(l.Type), l.Quantity, l.UnitCost)
		if err != nil {
			return wrapErr("insert adjustment line", err)
		}
	}
	return nil
}

func (r *AdjustmentRepo) GetByID(ctx context.Context, id string) (*entity.Adjustment, error) {
	return r.get(ctx, `SELECT `+adjustmentColumns+` FROM adjustments WHERE id = $1`, id)
}

func (r *AdjustmentRepo) GetForUpdate(ctx context.Context, id string) (*entity.Adjustment, error) {
	return r.get(ctx, `SELECT `+adjustmentColumns+` FROM adjustments WHERE id = $1 FOR UPDATE`, id)
}

func (r *AdjustmentRepo) get(ctx context.Context, query, id string) (*entity.Adjustment, error) {
	var d entity.Adjustment
	err := r.q.QueryRow(ctx, query, id).Scan(&d.ID, &d.ReferenceNo, &d.WarehouseID, &d.Reason, &d.Notes,
		&d.Status, &d.CreatedBy, &d.ApprovedBy, &d.ApprovedAt, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get adjustment", err)
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, product_id, type, quantity, unit_cost
		FROM adjustment_lines WHERE adjustment_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, wrapErr("get adjustment lines", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.AdjustmentLine
		if err := rows.Scan(&l.ID, &l.ProductID, &l.Type, &l.Quantity, &l.UnitCost); err != nil {
			return nil, wrapErr("scan adjustment line", err)
		}
		d.Lines = append(d.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("get adjustment lines", err)
	}
	return &d, nil
}

func (r *AdjustmentRepo) Update(ctx context.Context, d *entity.Adjustment) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE adjustments SET reference_no = $2, warehouse_id = $3, reason = $4, notes = $5, status = $6,
			approved_by = $7, approved_at = $8, updated_at = $9
		WHERE id = $1`,
		d.ID, d.ReferenceNo, d.WarehouseID, d.Reason, d.Notes, string(d.Status), d.ApprovedBy, d.ApprovedAt, d.UpdatedAt)
	if err != nil {
		return wrapErr("update adjustment", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM adjustment_lines WHERE adjustment_id = $1`, d.ID); err != nil {
		return wrapErr("delete adjustment lines", err)
	}
	return r.insertLines(ctx, d)
}

func (r *AdjustmentRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM adjustments WHERE id = $1`, id)
	if err != nil {
		return wrapErr("delete adjustment", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
