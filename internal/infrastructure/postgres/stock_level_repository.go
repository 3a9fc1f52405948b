package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/locauto225/gestock-api/internal/domain/entity"
	"github.com/locauto225/gestock-api/internal/domain/repository"
)

var _ repository.StockLevelRepository = (*StockLevelRepo)(nil)

// StockLevelRepo agrégat matérialisé des quantités sur PostgreSQL
// (utilisable avec pool ou tx).
type StockLevelRepo struct {
	q Querier
}

// NewStockLevelRepository construit l'adaptateur. Passer pool ou tx (Querier).
func NewStockLevelRepository(q Querier) *StockLevelRepo {
	return &StockLevelRepo{q: q}
}

// Get lit le niveau courant d'un produit dans un dépôt. Ligne absente =
// niveau zéro.
func (r *StockLevelRepo) Get(productID, warehouseID string) (*entity.StockLevel, error) {
	query := `
		SELECT product_id, warehouse_id, quantity, updated_at
		FROM stock_levels WHERE product_id = $1 AND warehouse_id = $2`
	var l entity.StockLevel
	err := r.q.QueryRow(context.Background(), query, productID, warehouseID).Scan(
		&l.ProductID, &l.WarehouseID, &l.Quantity, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockLevel{ProductID: productID, WarehouseID: warehouseID}, nil
		}
		return nil, fmt.Errorf("get stock level: %w", err)
	}
	return &l, nil
}

// GetForUpdate lit le niveau en verrouillant la ligne (SELECT FOR UPDATE).
// La ligne est créée à zéro si absente, pour que le verrou existe : deux
// opérations concurrentes sur un couple encore jamais mouvementé se
// sérialisent quand même.
func (r *StockLevelRepo) GetForUpdate(productID, warehouseID string) (*entity.StockLevel, error) {
	insert := `
		INSERT INTO stock_levels (product_id, warehouse_id, quantity, updated_at)
		VALUES ($1, $2, 0, now())
		ON CONFLICT (product_id, warehouse_id) DO NOTHING`
	if _, err := r.q.Exec(context.Background(), insert, productID, warehouseID); err != nil {
		return nil, fmt.Errorf("ensure stock level row: %w", err)
	}
	query := `
		SELECT product_id, warehouse_id, quantity, updated_at
		FROM stock_levels WHERE product_id = $1 AND warehouse_id = $2
		FOR UPDATE`
	var l entity.StockLevel
	err := r.q.QueryRow(context.Background(), query, productID, warehouseID).Scan(
		&l.ProductID, &l.WarehouseID, &l.Quantity, &l.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("get stock level for update: %w", err)
	}
	return &l, nil
}

// Upsert insère ou met à jour la quantité (par produit et dépôt).
func (r *StockLevelRepo) Upsert(level *entity.StockLevel) error {
	query := `
		INSERT INTO stock_levels (product_id, warehouse_id, quantity, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (product_id, warehouse_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query, level.ProductID, level.WarehouseID, level.Quantity)
	if err != nil {
		return fmt.Errorf("upsert stock level: %w", err)
	}
	return nil
}

// ListByWarehouse liste les niveaux d'un dépôt, produit par produit.
func (r *StockLevelRepo) ListByWarehouse(warehouseID string) ([]*entity.StockLevel, error) {
	query := `
		SELECT product_id, warehouse_id, quantity, updated_at
		FROM stock_levels WHERE warehouse_id = $1
		ORDER BY product_id`
	rows, err := r.q.Query(context.Background(), query, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("list stock levels: %w", err)
	}
	defer rows.Close()

	var list []*entity.StockLevel
	for rows.Next() {
		var l entity.StockLevel
		if err := rows.Scan(&l.ProductID, &l.WarehouseID, &l.Quantity, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock level: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}
