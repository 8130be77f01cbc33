package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo órdenes de venta y sus líneas con cantidades despachadas.
type SaleRepo struct {
	q Querier
}

func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleColumns = `id, reference_no, customer_id, warehouse_id, status, notes, rejection_reason, cancel_reason,
	created_by, approved_by, approved_at, shipped_at, delivered_at, created_at, updated_at`

func (r *SaleRepo) Create(ctx context.Context, d *entity.Sale) error {
	_, err := r.q.Exec(ctx, `INSERT INTO sales (`+saleColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		d.ID, d.ReferenceNo, d.CustomerID, d.WarehouseID, string(d.Status), d.Notes, d.RejectionReason, d.CancelReason,
		d.CreatedBy, d.ApprovedBy, d.ApprovedAt, d.ShippedAt, d.DeliveredAt, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return wrapErr("insert sale", err)
	}
	return r.insertLines(ctx, d)
}

func (r *SaleRepo) insertLines(ctx context.Context, d *entity.Sale) error {
	for i, l := range d.Lines {
		_, err := r.q.Exec(ctx, `
			INSERT INTO sale_lines (id, sale_id, position, product_id, quantity, unit_price, fulfilled_quantity, is_fully_fulfilled)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			l.ID, d.ID, i, l.ProductID, l.Quantity, l.UnitPrice, l.FulfilledQuantity, l.IsFullyFulfilled)
		if err != nil {
			return wrapErr("insert sale line", err)
		}
	}
	return nil
}

func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	return r.get(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id)
}

func (r *SaleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.get(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1 FOR UPDATE`, id)
}

func (r *SaleRepo) get(ctx context.Context, query, id string) (*entity.Sale, error) {
	var d entity.Sale
	err := r.q.QueryRow(ctx, query, id).Scan(&d.ID, &d.ReferenceNo, &d.CustomerID, &d.WarehouseID, &d.Status,
		&d.Notes, &d.RejectionReason, &d.CancelReason, &d.CreatedBy, &d.ApprovedBy, &d.ApprovedAt,
		&d.ShippedAt, &d.DeliveredAt, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get sale", err)
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, product_id, quantity, unit_price, fulfilled_quantity, is_fully_fulfilled
		FROM sale_lines WHERE sale_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, wrapErr("get sale lines", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.SaleLine
		if err := rows.Scan(&l.ID, &l.ProductID, &l.Quantity, &l.UnitPrice, &l.FulfilledQuantity, &l.IsFullyFulfilled); err != nil {
			return nil, wrapErr("scan sale line", err)
		}
		d.Lines = append(d.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("get sale lines", err)
	}
	return &d, nil
}

func (r *SaleRepo) Update(ctx context.Context, d *entity.Sale) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE sales SET reference_no = $2, customer_id = $3, warehouse_id = $4, status = $5, notes = $6,
			rejection_reason = $7, cancel_reason = $8, approved_by = $9, approved_at = $10,
			shipped_at = $11, delivered_at = $12, updated_at = $13
		WHERE id = $1`,
		d.ID, d.ReferenceNo, d.CustomerID, d.WarehouseID, string(d.Status), d.Notes,
		d.RejectionReason, d.CancelReason, d.ApprovedBy, d.ApprovedAt, d.ShippedAt, d.DeliveredAt, d.UpdatedAt)
	if err != nil {
		return wrapErr("update sale", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM sale_lines WHERE sale_id = $1`, d.ID); err != nil {
		return wrapErr("delete sale lines", err)
	}
	return r.insertLines(ctx, d)
}

func (r *SaleRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return wrapErr("delete sale", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
