package repository

import "github.com/locauto225/gestock-api/internal/domain/entity"

// StockLevelRepository est l'agrégat matérialisé des quantités en stock.
// GetForUpdate verrouille la ligne (SELECT FOR UPDATE) : toute mutation passe
// par ce verrou dans la même transaction que l'écriture du journal.
type StockLevelRepository interface {
	Get(productID, warehouseID string) (*entity.StockLevel, error)
	GetForUpdate(productID, warehouseID string) (*entity.StockLevel, error)
	Upsert(level *entity.StockLevel) error
	ListByWarehouse(warehouseID string) ([]*entity.StockLevel, error)
}
