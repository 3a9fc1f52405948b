package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/locauto225/gestock-api/internal/domain"
	"github.com/locauto225/gestock-api/internal/domain/entity"
	"github.com/locauto225/gestock-api/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo commandes fournisseur sur PostgreSQL (utilisable avec
// pool ou tx). En-tête dans purchase_orders, lignes dans purchase_order_lines.
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construit l'adaptateur. Passer pool ou tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

// Create persiste la commande et ses lignes.
func (r *PurchaseOrderRepo) Create(po *entity.PurchaseOrder) error {
	ctx := context.Background()
	query := `
		INSERT INTO purchase_orders (id, number, supplier_id, warehouse_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		po.ID, po.Number, po.SupplierID, po.WarehouseID, po.Status, po.CreatedAt, po.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create purchase order: %w", err)
	}
	for _, l := range po.Lines {
		lineQuery := `
			INSERT INTO purchase_order_lines (order_id, product_id, qty_ordered, unit_price, qty_received)
			VALUES ($1, $2, $3, $4, $5)`
		if _, err := r.q.Exec(ctx, lineQuery, po.ID, l.ProductID, l.QtyOrdered, l.UnitPrice, l.QtyReceived); err != nil {
			return fmt.Errorf("create purchase order line: %w", err)
		}
	}
	return nil
}

// GetByID lit une commande et ses lignes.
func (r *PurchaseOrderRepo) GetByID(id string) (*entity.PurchaseOrder, error) {
	return r.get(id, false)
}

// GetForUpdate lit une commande en verrouillant l'en-tête (SELECT FOR UPDATE)
// pour sérialiser les réceptions concurrentes.
func (r *PurchaseOrderRepo) GetForUpdate(id string) (*entity.PurchaseOrder, error) {
	return r.get(id, true)
}

func (r *PurchaseOrderRepo) get(id string, forUpdate bool) (*entity.PurchaseOrder, error) {
	ctx := context.Background()
	query := `
		SELECT id, number, supplier_id, warehouse_id, status, created_at, updated_at
		FROM purchase_orders WHERE id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}
	var po entity.PurchaseOrder
	err := r.q.QueryRow(ctx, query, id).Scan(
		&po.ID, &po.Number, &po.SupplierID, &po.WarehouseID, &po.Status, &po.CreatedAt, &po.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	if err := r.loadLines(ctx, &po); err != nil {
		return nil, err
	}
	return &po, nil
}

// Update met à jour l'en-tête et les cumuls reçus des lignes.
func (r *PurchaseOrderRepo) Update(po *entity.PurchaseOrder) error {
	ctx := context.Background()
	query := `
		UPDATE purchase_orders SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.q.Exec(ctx, query, po.ID, po.Status, po.UpdatedAt); err != nil {
		return fmt.Errorf("update purchase order: %w", err)
	}
	for _, l := range po.Lines {
		lineQuery := `
			UPDATE purchase_order_lines SET qty_received = $3
			WHERE order_id = $1 AND product_id = $2`
		if _, err := r.q.Exec(ctx, lineQuery, po.ID, l.ProductID, l.QtyReceived); err != nil {
			return fmt.Errorf("update purchase order line: %w", err)
		}
	}
	return nil
}

// List liste les commandes (statut optionnel), les plus récentes d'abord.
func (r *PurchaseOrderRepo) List(status string, limit, offset int) ([]*entity.PurchaseOrder, error) {
	ctx := context.Background()
	query := `
		SELECT id, number, supplier_id, warehouse_id, status, created_at, updated_at
		FROM purchase_orders`
	args := []any{}
	if status != "" {
		query += " WHERE status = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3"
		args = append(args, status, limit, offset)
	} else {
		query += " ORDER BY created_at DESC LIMIT $1 OFFSET $2"
		args = append(args, limit, offset)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	defer rows.Close()

	var list []*entity.PurchaseOrder
	for rows.Next() {
		var po entity.PurchaseOrder
		if err := rows.Scan(&po.ID, &po.Number, &po.SupplierID, &po.WarehouseID,
			&po.Status, &po.CreatedAt, &po.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan purchase order: %w", err)
		}
		list = append(list, &po)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, po := range list {
		if err := r.loadLines(ctx, po); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (r *PurchaseOrderRepo) loadLines(ctx context.Context, po *entity.PurchaseOrder) error {
	query := `
		SELECT product_id, qty_ordered, unit_price, qty_received
		FROM purchase_order_lines WHERE order_id = $1
		ORDER BY product_id`
	rows, err := r.q.Query(ctx, query, po.ID)
	if err != nil {
		return fmt.Errorf("load purchase order lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.PurchaseLine
		if err := rows.Scan(&l.ProductID, &l.QtyOrdered, &l.UnitPrice, &l.QtyReceived); err != nil {
			return fmt.Errorf("scan purchase order line: %w", err)
		}
		po.Lines = append(po.Lines, l)
	}
	return rows.Err()
}
