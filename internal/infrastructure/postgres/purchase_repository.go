package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

// PurchaseRepo órdenes de compra y sus líneas con cantidades recibidas.
type PurchaseRepo struct {
	q Querier
}

func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

const purchaseColumns = `id, reference_no, supplier_id, warehouse_id, status, notes, rejection_reason, cancel_reason,
	created_by, approved_by, approved_at, created_at, updated_at`

func (r *PurchaseRepo) Create(ctx context.Context, d *entity.Purchase) error {
	_, err := r.q.Exec(ctx, `INSERT INTO purchases (`+purchaseColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		d.ID, d.ReferenceNo, d.SupplierID, d.WarehouseID, string(d.Status), d.Notes, d.RejectionReason, d.CancelReason,
		d.CreatedBy, d.ApprovedBy, d.ApprovedAt, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return wrapErr("insert purchase", err)
	}
	return r.insertLines(ctx, d)
}

func (r *PurchaseRepo) insertLines(ctx context.Context, d *entity.Purchase) error {
	for i, l := range d.Lines {
		_, err := r.q.Exec(ctx, `
			INSERT INTO purchase_lines (id, purchase_id, position, product_id, quantity, unit_cost,
				received_quantity, accepted_quantity, rejected_quantity, is_fully_received)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			l.ID, d.ID, i, l.ProductID, l.Quantity, l.UnitCost,
			l.ReceivedQuantity, l.AcceptedQuantity, l.RejectedQuantity, l.IsFullyReceived)
		if err != nil {
			return wrapErr("insert purchase line", err)
		}
	}
	return nil
}

func (r *PurchaseRepo) GetByID(ctx context.Context, id string) (*entity.Purchase, error) {
	return r.get(ctx, `SELECT `+purchaseColumns+` FROM purchases WHERE id = $1`, id)
}

func (r *PurchaseRepo) GetForUpdate(ctx context.Context, id string) (*entity.Purchase, error) {
	return r.get(ctx, `SELECT `+purchaseColumns+` FROM purchases WHERE id = $1 FOR UPDATE`, id)
}

func (r *PurchaseRepo) get(ctx context.Context, query, id string) (*entity.Purchase, error) {
	var d entity.Purchase
	err := r.q.QueryRow(ctx, query, id).Scan(&d.ID, &d.ReferenceNo, &d.SupplierID, &d.WarehouseID, &d.Status,
		&d.Notes, &d.RejectionReason, &d.CancelReason, &d.CreatedBy, &d.ApprovedBy, &d.ApprovedAt,
		&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get purchase", err)
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, product_id, quantity, unit_cost, received_quantity, accepted_quantity, rejected_quantity, is_fully_received
		FROM purchase_lines WHERE purchase_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, wrapErr("get purchase lines", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.PurchaseLine
		if err := rows.Scan(&l.ID, &l.ProductID, &l.Quantity, &l.UnitCost, &l.ReceivedQuantity,
			&l.AcceptedQuantity, &l.RejectedQuantity, &l.IsFullyReceived); err != nil {
			return nil, wrapErr("scan purchase line", err)
		}
		d.Lines = append(d.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("get purchase lines", err)
	}
	return &d, nil
}

func (r *PurchaseRepo) Update(ctx context.Context, d *entity.Purchase) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE purchases SET reference_no = $2, supplier_id = $3, warehouse_id = $4, status = $5, notes = $6,
			rejection_reason = $7, cancel_reason = $8, approved_by = $9, approved_at = $10, updated_at = $11
		WHERE id = $1`,
		d.ID, d.ReferenceNo, d.SupplierID, d.WarehouseID, string(d.Status), d.Notes,
		d.RejectionReason, d.CancelReason, d.ApprovedBy, d.ApprovedAt, d.UpdatedAt)
	if err != nil {
		return wrapErr("update purchase", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM purchase_lines WHERE purchase_id = $1`, d.ID); err != nil {
		return wrapErr("delete purchase lines", err)
	}
	return r.insertLines(ctx, d)
}

func (r *PurchaseRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM purchases WHERE id = $1`, id)
	if err != nil {
		return wrapErr("delete purchase", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
