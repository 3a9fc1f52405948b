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

var _ repository.WarehouseRepository = (*WarehouseRepo)(nil)

// WarehouseRepo dépôts et magasins sur PostgreSQL.
type WarehouseRepo struct {
	q Querier
}

func NewWarehouseRepository(q Querier) *WarehouseRepo {
	return &WarehouseRepo{q: q}
}

func (r *WarehouseRepo) Create(wh *entity.Warehouse) error {
	query := `
		INSERT INTO warehouses (id, code, name, address, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		wh.ID, wh.Code, wh.Name, wh.Address, wh.Active, wh.CreatedAt, wh.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create warehouse: %w", err)
	}
	return nil
}

func (r *WarehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	query := `
		SELECT id, code, name, address, active, created_at, updated_at
		FROM warehouses WHERE id = $1`
	var wh entity.Warehouse
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&wh.ID, &wh.Code, &wh.Name, &wh.Address, &wh.Active, &wh.CreatedAt, &wh.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get warehouse: %w", err)
	}
	return &wh, nil
}

func (r *WarehouseRepo) List() ([]*entity.Warehouse, error) {
	query := `
		SELECT id, code, name, address, active, created_at, updated_at
		FROM warehouses ORDER BY code`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list warehouses: %w", err)
	}
	defer rows.Close()

	var list []*entity.Warehouse
	for rows.Next() {
		var wh entity.Warehouse
		if err := rows.Scan(&wh.ID, &wh.Code, &wh.Name, &wh.Address,
			&wh.Active, &wh.CreatedAt, &wh.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan warehouse: %w", err)
		}
		list = append(list, &wh)
	}
	return list, rows.Err()
}

func (r *WarehouseRepo) Update(wh *entity.Warehouse) error {
	query := `
		UPDATE warehouses SET code = $2, name = $3, address = $4, active = $5, updated_at = $6
		WHERE id = $1`
	if _, err := r.q.Exec(context.Background(), query,
		wh.ID, wh.Code, wh.Name, wh.Address, wh.Active, wh.UpdatedAt); err != nil {
		return fmt.Errorf("update warehouse: %w", err)
	}
	return nil
}
