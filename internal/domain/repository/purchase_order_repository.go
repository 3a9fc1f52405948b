package repository

import "github.com/locauto225/gestock-api/internal/domain/entity"

// PurchaseOrderRepository persiste les commandes fournisseur et leurs lignes.
// GetForUpdate verrouille la commande pour sérialiser les réceptions concurrentes.
type PurchaseOrderRepository interface {
	Create(po *entity.PurchaseOrder) error
	GetByID(id string) (*entity.PurchaseOrder, error)
	GetForUpdate(id string) (*entity.PurchaseOrder, error)
	Update(po *entity.PurchaseOrder) error
	List(status string, limit, offset int) ([]*entity.PurchaseOrder, error)
}
