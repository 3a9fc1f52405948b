package repository

import "github.com/locauto225/gestock-api/internal/domain/entity"

// SaleRepository persiste les ventes et leurs lignes.
// GetForUpdate verrouille la vente pour sérialiser post/cancel concurrents.
type SaleRepository interface {
	Create(sale *entity.Sale) error
	GetByID(id string) (*entity.Sale, error)
	GetForUpdate(id string) (*entity.Sale, error)
	Update(sale *entity.Sale) error
	List(status string, limit, offset int) ([]*entity.Sale, error)
}
