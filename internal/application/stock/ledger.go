package stock

import (
	"github.com/google/uuid"

	"github.com/locauto225/gestock-api/internal/domain"
	"github.com/locauto225/gestock-api/internal/domain/entity"
	"github.com/locauto225/gestock-api/internal/domain/repository"
)

// Apply est l'unique chemin d'écriture du journal : insère le mouvement et
// répercute son delta sur la ligne StockLevel verrouillée, dans la transaction
// portée par les repos passés en argument. Aucun contrôleur ne touche aux
// quantités autrement. Apply ne vérifie pas la disponibilité : c'est à
// l'appelant de la contrôler sous le même verrou quand l'opération l'exige.
func Apply(
	moveRepo repository.StockMoveRepository,
	levelRepo repository.StockLevelRepository,
	move *entity.StockMove,
) error {
	if move.QtyDelta == 0 {
		return domain.ErrInvalidInput
	}
	if move.ID == "" {
		move.ID = uuid.New().String()
	}
	level, err := levelRepo.GetForUpdate(move.ProductID, move.WarehouseID)
	if err != nil {
		return err
	}
	level.Quantity += move.QtyDelta
	level.UpdatedAt = move.CreatedAt
	if err := levelRepo.Upsert(level); err != nil {
		return err
	}
	return moveRepo.Create(move)
}
