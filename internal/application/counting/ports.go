package counting

import (
	"context"

	"github.com/locauto225/gestock-api/internal/domain/repository"
)

// TxRunner exécute la validation d'un inventaire dans une transaction :
// mouvements d'ajustement et statut, tout ou rien.
type TxRunner interface {
	RunCounting(ctx context.Context, fn func(
		moveRepo repository.StockMoveRepository,
		levelRepo repository.StockLevelRepository,
		countRepo repository.InventoryCountRepository,
	) error) error
}
