package repository

import "github.com/locauto225/gestock-api/internal/domain/entity"

// InventoryCountRepository persiste les documents de comptage et leurs lignes.
type InventoryCountRepository interface {
	Create(count *entity.InventoryCount) error
	GetByID(id string) (*entity.InventoryCount, error)
	GetForUpdate(id string) (*entity.InventoryCount, error)
	Update(count *entity.InventoryCount) error
	List(status string, limit, offset int) ([]*entity.InventoryCount, error)
}
