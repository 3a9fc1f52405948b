package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/locauto225/gestock-api/internal/domain/entity"
	"github.com/locauto225/gestock-api/internal/domain/repository"
)

var _ repository.InventoryCountRepository = (*InventoryCountRepo)(nil)

// InventoryCountRepo documents d'inventaire sur PostgreSQL.
type InventoryCountRepo struct {
	q Querier
}

func NewInventoryCountRepository(q Querier) *InventoryCountRepo {
	return &InventoryCountRepo{q: q}
}

// Create persiste l'inventaire et ses lignes figées.
func (r *InventoryCountRepo) Create(ic *entity.InventoryCount) error {
	ctx := context.Background()
	query := `
		INSERT INTO inventory_counts (id, warehouse_id, mode, category_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		ic.ID, ic.WarehouseID, ic.Mode, nullableID(ic.CategoryID), ic.Status, ic.CreatedAt, ic.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create inventory count: %w", err)
	}
	for _, l := range ic.Lines {
		if err := r.insertLine(ctx, ic.ID, l); err != nil {
			return err
		}
	}
	return nil
}

func (r *InventoryCountRepo) GetByID(id string) (*entity.InventoryCount, error) {
	return r.get(id, false)
}

// GetForUpdate verrouille l'en-tête pour sérialiser saisies et validation.
func (r *InventoryCountRepo) GetForUpdate(id string) (*entity.InventoryCount, error) {
	return r.get(id, true)
}

func (r *InventoryCountRepo) get(id string, forUpdate bool) (*entity.InventoryCount, error) {
	ctx := context.Background()
	query := inventoryCountSelect + ` WHERE id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}
	ic, err := scanInventoryCount(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory count: %w", err)
	}
	if err := r.loadLines(ctx, ic); err != nil {
		return nil, err
	}
	return ic, nil
}

// Update met à jour le statut et réécrit les lignes (ajouts en mode FREE,
// quantités comptées). Upsert ligne à ligne sur (count_id, product_id).
func (r *InventoryCountRepo) Update(ic *entity.InventoryCount) error {
	ctx := context.Background()
	query := `
		UPDATE inventory_counts SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.q.Exec(ctx, query, ic.ID, ic.Status, ic.UpdatedAt); err != nil {
		return fmt.Errorf("update inventory count: %w", err)
	}
	for _, l := range ic.Lines {
		lineQuery := `
			INSERT INTO inventory_count_lines (count_id, product_id, expected_qty, counted_qty)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (count_id, product_id)
			DO UPDATE SET counted_qty = EXCLUDED.counted_qty`
		if _, err := r.q.Exec(ctx, lineQuery, ic.ID, l.ProductID, l.ExpectedQty, l.CountedQty); err != nil {
			return fmt.Errorf("update inventory count line: %w", err)
		}
	}
	return nil
}

// List liste les inventaires (statut optionnel), les plus récents d'abord.
func (r *InventoryCountRepo) List(status string, limit, offset int) ([]*entity.InventoryCount, error) {
	ctx := context.Background()
	query := inventoryCountSelect
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
		return nil, fmt.Errorf("list inventory counts: %w", err)
	}
	defer rows.Close()

	var list []*entity.InventoryCount
	for rows.Next() {
		ic, err := scanInventoryCount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory count: %w", err)
		}
		list = append(list, ic)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, ic := range list {
		if err := r.loadLines(ctx, ic); err != nil {
			return nil, err
		}
	}
	return list, nil
}

const inventoryCountSelect = `
	SELECT id, warehouse_id, mode, category_id, status, created_at, updated_at
	FROM inventory_counts`

func scanInventoryCount(row pgx.Row) (*entity.InventoryCount, error) {
	var ic entity.InventoryCount
	var categoryID *string
	if err := row.Scan(&ic.ID, &ic.WarehouseID, &ic.Mode, &categoryID,
		&ic.Status, &ic.CreatedAt, &ic.UpdatedAt); err != nil {
		return nil, err
	}
	if categoryID != nil {
		ic.CategoryID = *categoryID
	}
	return &ic, nil
}

func (r *InventoryCountRepo) insertLine(ctx context.Context, countID string, l entity.InventoryLine) error {
	query := `
		INSERT INTO inventory_count_lines (count_id, product_id, expected_qty, counted_qty)
		VALUES ($1, $2, $3, $4)`
	if _, err := r.q.Exec(ctx, query, countID, l.ProductID, l.ExpectedQty, l.CountedQty); err != nil {
		return fmt.Errorf("create inventory count line: %w", err)
	}
	return nil
}

func (r *InventoryCountRepo) loadLines(ctx context.Context, ic *entity.InventoryCount) error {
	query := `
		SELECT product_id, expected_qty, counted_qty
		FROM inventory_count_lines WHERE count_id = $1
		ORDER BY product_id`
	rows, err := r.q.Query(ctx, query, ic.ID)
	if err != nil {
		return fmt.Errorf("load inventory count lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.InventoryLine
		if err := rows.Scan(&l.ProductID, &l.ExpectedQty, &l.CountedQty); err != nil {
			return fmt.Errorf("scan inventory count line: %w", err)
		}
		ic.Lines = append(ic.Lines, l)
	}
	return rows.Err()
}
