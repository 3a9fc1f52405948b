package purchasing

import (
	"context"

	"github.com/locauto225/gestock-api/internal/domain/repository"
)

// TxRunner exécute une réception dans une transaction : écritures du journal,
// mise à jour des niveaux et de la commande, tout ou rien.
type TxRunner interface {
	RunPurchasing(ctx context.Context, fn func(
		moveRepo repository.StockMoveRepository,
		levelRepo repository.StockLevelRepository,
		poRepo repository.PurchaseOrderRepository,
	) error) error
}
