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

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventes sur PostgreSQL. En-tête dans sales, lignes dans sale_lines.
type SaleRepo struct {
	q Querier
}

func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste la vente et ses lignes.
func (r *SaleRepo) Create(s *entity.Sale) error {
	ctx := context.Background()
	query := `
		INSERT INTO sales (id, number, customer_id, warehouse_id, channel, fulfillment,
			status, document_ref, document_status, posted_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.Number, s.CustomerID, s.WarehouseID, s.Channel, s.Fulfillment,
		s.Status, s.DocumentRef, s.DocumentStatus, s.PostedAt, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create sale: %w", err)
	}
	for _, l := range s.Lines {
		lineQuery := `
			INSERT INTO sale_lines (sale_id, product_id, qty, unit_price, qty_delivered)
			VALUES ($1, $2, $3, $4, $5)`
		if _, err := r.q.Exec(ctx, lineQuery, s.ID, l.ProductID, l.Qty, l.UnitPrice, l.QtyDelivered); err != nil {
			return fmt.Errorf("create sale line: %w", err)
		}
	}
	return nil
}

func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	return r.get(id, false)
}

// GetForUpdate verrouille l'en-tête de la vente pour sérialiser la validation.
func (r *SaleRepo) GetForUpdate(id string) (*entity.Sale, error) {
	return r.get(id, true)
}

func (r *SaleRepo) get(id string, forUpdate bool) (*entity.Sale, error) {
	ctx := context.Background()
	query := `
		SELECT id, number, customer_id, warehouse_id, channel, fulfillment,
			status, document_ref, document_status, posted_at, created_at, updated_at
		FROM sales WHERE id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}
	var s entity.Sale
	err := r.q.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.Number, &s.CustomerID, &s.WarehouseID, &s.Channel, &s.Fulfillment,
		&s.Status, &s.DocumentRef, &s.DocumentStatus, &s.PostedAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	if err := r.loadLines(ctx, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Update met à jour l'en-tête et les lignes (avancement livraison inclus).
func (r *SaleRepo) Update(s *entity.Sale) error {
	ctx := context.Background()
	query := `
		UPDATE sales SET status = $2, document_ref = $3, document_status = $4,
			posted_at = $5, updated_at = $6
		WHERE id = $1`
	if _, err := r.q.Exec(ctx, query,
		s.ID, s.Status, s.DocumentRef, s.DocumentStatus, s.PostedAt, s.UpdatedAt); err != nil {
		return fmt.Errorf("update sale: %w", err)
	}
	for _, l := range s.Lines {
		lineQuery := `
			UPDATE sale_lines SET qty_delivered = $3
			WHERE sale_id = $1 AND product_id = $2`
		if _, err := r.q.Exec(ctx, lineQuery, s.ID, l.ProductID, l.QtyDelivered); err != nil {
			return fmt.Errorf("update sale line: %w", err)
		}
	}
	return nil
}

// List liste les ventes (statut optionnel), les plus récentes d'abord.
func (r *SaleRepo) List(status string, limit, offset int) ([]*entity.Sale, error) {
	ctx := context.Background()
	query := `
		SELECT id, number, customer_id, warehouse_id, channel, fulfillment,
			status, document_ref, document_status, posted_at, created_at, updated_at
		FROM sales`
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
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	var list []*entity.Sale
	for rows.Next() {
		var s entity.Sale
		if err := rows.Scan(&s.ID, &s.Number, &s.CustomerID, &s.WarehouseID, &s.Channel,
			&s.Fulfillment, &s.Status, &s.DocumentRef, &s.DocumentStatus,
			&s.PostedAt, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, s := range list {
		if err := r.loadLines(ctx, s); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (r *SaleRepo) loadLines(ctx context.Context, s *entity.Sale) error {
	query := `
		SELECT product_id, qty, unit_price, qty_delivered
		FROM sale_lines WHERE sale_id = $1
		ORDER BY product_id`
	rows, err := r.q.Query(ctx, query, s.ID)
	if err != nil {
		return fmt.Errorf("load sale lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.SaleLine
		if err := rows.Scan(&l.ProductID, &l.Qty, &l.UnitPrice, &l.QtyDelivered); err != nil {
			return fmt.Errorf("scan sale line: %w", err)
		}
		s.Lines = append(s.Lines, l)
	}
	return rows.Err()
}
