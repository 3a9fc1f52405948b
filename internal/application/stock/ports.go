package stock

import (
	"context"

	"github.com/locauto225/gestock-api/internal/domain/repository"
)

// TxRunner exécute une fonction dans une transaction de base, avec des
// dépôts de données liés à cette transaction. Garantit l'atomicité
// écriture journal + mise à jour de l'agrégat.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		moveRepo repository.StockMoveRepository,
		levelRepo repository.StockLevelRepository,
	) error) error
}
