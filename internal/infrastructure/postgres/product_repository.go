package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/locauto225/gestock-api/internal/domain"
	"github.com/locauto225/gestock-api/internal/domain/entity"
	"github.com/locauto225/gestock-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = "id, sku, name, category_id, unit_price, active, created_at, updated_at"

// ProductRepo produits sur PostgreSQL.
type ProductRepo struct {
	q Querier
}

func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

func (r *ProductRepo) Create(p *entity.Product) error {
	query := `
		INSERT INTO products (id, sku, name, category_id, unit_price, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		p.ID, p.SKU, p.Name, nullableID(p.CategoryID), p.UnitPrice, p.Active, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.getBy("id", id)
}

func (r *ProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	return r.getBy("sku", sku)
}

func (r *ProductRepo) getBy(column, value string) (*entity.Product, error) {
	query := fmt.Sprintf("SELECT %s FROM products WHERE %s = $1", productColumns, column)
	p, err := scanProduct(r.q.QueryRow(context.Background(), query, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// ListActive liste les produits actifs, restreints à une catégorie si fournie.
func (r *ProductRepo) ListActive(categoryID string) ([]*entity.Product, error) {
	builder := sq.Select(productColumns).
		From("products").
		Where(sq.Eq{"active": true}).
		OrderBy("sku").
		PlaceholderFormat(sq.Dollar)
	if categoryID != "" {
		builder = builder.Where(sq.Eq{"category_id": categoryID})
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build product query: %w", err)
	}
	return r.list(query, args...)
}

func (r *ProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM products ORDER BY sku LIMIT $1 OFFSET $2", productColumns)
	return r.list(query, limit, offset)
}

func (r *ProductRepo) list(query string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var categoryID *string
	if err := row.Scan(&p.ID, &p.SKU, &p.Name, &categoryID,
		&p.UnitPrice, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if categoryID != nil {
		p.CategoryID = *categoryID
	}
	return &p, nil
}

func (r *ProductRepo) Update(p *entity.Product) error {
	query := `
		UPDATE products SET sku = $2, name = $3, category_id = $4,
			unit_price = $5, active = $6, updated_at = $7
		WHERE id = $1`
	if _, err := r.q.Exec(context.Background(), query,
		p.ID, p.SKU, p.Name, nullableID(p.CategoryID), p.UnitPrice, p.Active, p.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}
