package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/locauto225/gestock-api/internal/application/counting"
	"github.com/locauto225/gestock-api/internal/application/purchasing"
	"github.com/locauto225/gestock-api/internal/application/sales"
	"github.com/locauto225/gestock-api/internal/application/stock"
	"github.com/locauto225/gestock-api/internal/domain/repository"
)

// Vérifie que TxRunner couvre les quatre contextes applicatifs.
var (
	_ stock.TxRunner      = (*TxRunner)(nil)
	_ purchasing.TxRunner = (*TxRunner)(nil)
	_ sales.TxRunner      = (*TxRunner)(nil)
	_ counting.TxRunner   = (*TxRunner)(nil)
)

// TxRunner exécute des callbacks dans une transaction PostgreSQL, avec des
// adaptateurs liés à cette transaction. Commit si le callback réussit,
// Rollback sinon : aucune application partielle n'est observable.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construit le runner avec le pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run transaction du journal seul : mouvements + niveaux (ajustements,
// pertes, retours, transferts).
func (r *TxRunner) Run(ctx context.Context, fn func(
	moveRepo repository.StockMoveRepository,
	levelRepo repository.StockLevelRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewStockMoveRepository(tx), NewStockLevelRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunPurchasing transaction d'une réception : journal + niveaux + commande.
func (r *TxRunner) RunPurchasing(ctx context.Context, fn func(
	moveRepo repository.StockMoveRepository,
	levelRepo repository.StockLevelRepository,
	poRepo repository.PurchaseOrderRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewStockMoveRepository(tx), NewStockLevelRepository(tx), NewPurchaseOrderRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunSales transaction de validation d'une vente : journal + niveaux + vente.
func (r *TxRunner) RunSales(ctx context.Context, fn func(
	moveRepo repository.StockMoveRepository,
	levelRepo repository.StockLevelRepository,
	saleRepo repository.SaleRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewStockMoveRepository(tx), NewStockLevelRepository(tx), NewSaleRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunCounting transaction de validation d'un inventaire : journal + niveaux + comptage.
func (r *TxRunner) RunCounting(ctx context.Context, fn func(
	moveRepo repository.StockMoveRepository,
	levelRepo repository.StockLevelRepository,
	countRepo repository.InventoryCountRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewStockMoveRepository(tx), NewStockLevelRepository(tx), NewInventoryCountRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
