package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.TransferRepository = (*TransferRepo)(nil)

// TransferRepo traslados y sus líneas.
type TransferRepo struct {
	q Querier
}

func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

const transferColumns = `id, reference_no, from_warehouse_id, to_warehouse_id, status, notes, cancellation_reason,
	created_by, approved_at, shipped_at, received_at, created_at, updated_at`

func (r *TransferRepo) Create(ctx context.Context, d *entity.Transfer) error {
	_, err := r.q.Exec(ctx, `INSERT INTO transfers (`+transferColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		d.ID, d.ReferenceNo, d.FromWarehouseID, d.ToWarehouseID, string(d.Status), d.Notes, d.CancellationReason,
		d.CreatedBy, d.ApprovedAt, d.ShippedAt, d.ReceivedAt, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return wrapErr("insert transfer", err)
	}
	return r.insertLines(ctx, d)
}

func (r *TransferRepo) insertLines(ctx context.Context, d *entity.Transfer) error {
	for i, l := range d.Lines {
		_, err := r.q.Exec(ctx, `
			INSERT INTO transfer_lines (id, transfer_id, position, product_id, quantity)
			VALUES ($1, $2, $3, $4, $5)`,
			l.ID, d.ID, i, l.ProductID, l.Quantity)
		if err != nil {
			return wrapErr("insert transfer line", err)
		}
	}
	return nil
}

func (r *TransferRepo) GetByID(ctx context.Context, id string) (*entity.Transfer, error) {
	return r.get(ctx, `SELECT `+transferColumns+` FROM transfers WHERE id = $1`, id)
}

func (r *TransferRepo) GetForUpdate(ctx context.Context, id string) (*entity.Transfer, error) {
	return r.get(ctx, `SELECT `+transferColumns+` FROM transfers WHERE id = $1 FOR UPDATE`, id)
}

func (r *TransferRepo) get(ctx context.Context, query, id string) (*entity.Transfer, error) {
	var d entity.Transfer
	err := r.q.QueryRow(ctx, query, id).Scan(&d.ID, &d.ReferenceNo, &d.FromWarehouseID, &d.ToWarehouseID,
		&d.Status, &d.Notes, &d.CancellationReason, &d.CreatedBy, &d.ApprovedAt, &d.ShippedAt, &d.ReceivedAt,
		&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get transfer", err)
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, product_id, quantity FROM transfer_lines WHERE transfer_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, wrapErr("get transfer lines", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.TransferLine
		if err := rows.Scan(&l.ID, &l.ProductID, &l.Quantity); err != nil {
			return nil, wrapErr("scan transfer line", err)
		}
		d.Lines = append(d.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("get transfer lines", err)
	}
	return &d, nil
}

func (r *TransferRepo) Update(ctx context.Context, d *entity.Transfer) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE transfers SET reference_no = $2, from_warehouse_id = $3, to_warehouse_id = $4, status = $5,
			notes = $6, cancellation_reason = $7, approved_at = $8, shipped_at = $9, received_at = $10, updated_at = $11
		WHERE id = $1`,
		d.ID, d.ReferenceNo, d.FromWarehouseID, d.ToWarehouseID, string(d.Status), d.Notes, d.CancellationReason,
		d.ApprovedAt, d.ShippedAt, d.ReceivedAt, d.UpdatedAt)
	if err != nil {
		return wrapErr("update transfer", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM transfer_lines WHERE transfer_id = $1`, d.ID); err != nil {
		return wrapErr("delete transfer lines", err)
	}
	return r.insertLines(ctx, d)
}

func (r *TransferRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM transfers WHERE id = $1`, id)
	if err != nil {
		return wrapErr("delete transfer", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
