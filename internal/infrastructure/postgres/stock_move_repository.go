package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/locauto225/gestock-api/internal/domain/entity"
	"github.com/locauto225/gestock-api/internal/domain/repository"
)

var _ repository.StockMoveRepository = (*StockMoveRepo)(nil)

// StockMoveRepo journal de stock sur PostgreSQL (utilisable avec pool ou tx).
// La table stock_moves n'a ni UPDATE ni DELETE : écriture seule.
type StockMoveRepo struct {
	q Querier
}

// NewStockMoveRepository construit l'adaptateur. Passer pool ou tx (Querier).
func NewStockMoveRepository(q Querier) *StockMoveRepo {
	return &StockMoveRepo{q: q}
}

const stockMoveColumns = "id, product_id, warehouse_id, kind, qty_delta, ref_type, ref_id, reason, note, created_at, created_by"

// Create persiste une écriture du journal.
func (r *StockMoveRepo) Create(move *entity.StockMove) error {
	if move.ID == "" {
		move.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_moves (` + stockMoveColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	refID := (*string)(nil)
	if move.RefID != "" {
		refID = &move.RefID
	}
	createdBy := (*string)(nil)
	if move.CreatedBy != "" {
		createdBy = &move.CreatedBy
	}
	_, err := r.q.Exec(context.Background(), query,
		move.ID, move.ProductID, move.WarehouseID, move.Kind, move.QtyDelta,
		move.RefType, refID, move.Reason, move.Note, move.CreatedAt, createdBy,
	)
	if err != nil {
		return fmt.Errorf("create stock move: %w", err)
	}
	return nil
}

// GetByID lit une écriture par ID.
func (r *StockMoveRepo) GetByID(id string) (*entity.StockMove, error) {
	query := `SELECT ` + stockMoveColumns + ` FROM stock_moves WHERE id = $1`
	row := r.q.QueryRow(context.Background(), query, id)
	move, err := scanStockMove(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock move: %w", err)
	}
	return move, nil
}

// List lit le journal filtré, ordonné par date de création (puis id pour un
// ordre total stable), paginé. Construction dynamique via squirrel.
func (r *StockMoveRepo) List(filter repository.MoveFilter) ([]*entity.StockMove, error) {
	qb := squirrel.Select(
		"id", "product_id", "warehouse_id", "kind", "qty_delta",
		"ref_type", "ref_id", "reason", "note", "created_at", "created_by",
	).
		From("stock_moves").
		PlaceholderFormat(squirrel.Dollar)

	if filter.WarehouseID != "" {
		qb = qb.Where(squirrel.Eq{"warehouse_id": filter.WarehouseID})
	}
	if filter.ProductID != "" {
		qb = qb.Where(squirrel.Eq{"product_id": filter.ProductID})
	}
	if filter.Kind != "" {
		qb = qb.Where(squirrel.Eq{"kind": filter.Kind})
	}
	if filter.RefType != "" {
		qb = qb.Where(squirrel.Eq{"ref_type": filter.RefType})
	}
	if filter.RefID != "" {
		qb = qb.Where(squirrel.Eq{"ref_id": filter.RefID})
	}
	if filter.From != nil {
		qb = qb.Where(squirrel.GtOrEq{"created_at": *filter.From})
	}
	if filter.To != nil {
		qb = qb.Where(squirrel.LtOrEq{"created_at": *filter.To})
	}
	qb = qb.OrderBy("created_at DESC", "id DESC").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset))

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock moves: %w", err)
	}
	defer rows.Close()

	var list []*entity.StockMove
	for rows.Next() {
		move, err := scanStockMove(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock move: %w", err)
		}
		list = append(list, move)
	}
	return list, rows.Err()
}

// SumDeltas recalcule la somme des deltas d'un couple (produit, dépôt).
// Contrôle de cohérence uniquement, jamais sur le chemin chaud.
func (r *StockMoveRepo) SumDeltas(productID, warehouseID string) (int64, error) {
	query := `
		SELECT COALESCE(SUM(qty_delta), 0)
		FROM stock_moves WHERE product_id = $1 AND warehouse_id = $2`
	var sum int64
	err := r.q.QueryRow(context.Background(), query, productID, warehouseID).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum deltas: %w", err)
	}
	return sum, nil
}

func scanStockMove(row pgx.Row) (*entity.StockMove, error) {
	var m entity.StockMove
	var refID, createdBy *string
	if err := row.Scan(&m.ID, &m.ProductID, &m.WarehouseID, &m.Kind, &m.QtyDelta,
		&m.RefType, &refID, &m.Reason, &m.Note, &m.CreatedAt, &createdBy); err != nil {
		return nil, err
	}
	if refID != nil {
		m.RefID = *refID
	}
	if createdBy != nil {
		m.CreatedBy = *createdBy
	}
	return &m, nil
}
