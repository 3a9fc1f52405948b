package repository

import (
	"time"

	"github.com/locauto225/gestock-api/internal/domain/entity"
)

// MoveFilter restreint la lecture du journal (vue audit / historique).
// Tous les champs sont optionnels ; Limit/Offset paginent.
type MoveFilter struct {
	WarehouseID string
	ProductID   string
	Kind        string
	RefType     string
	RefID       string
	From        *time.Time
	To          *time.Time
	Limit       int
	Offset      int
}

// StockMoveRepository est le journal de stock : ajout seul, jamais de mise à
// jour ni de suppression. List est ordonné par date de création.
type StockMoveRepository interface {
	Create(move *entity.StockMove) error
	GetByID(id string) (*entity.StockMove, error)
	List(filter MoveFilter) ([]*entity.StockMove, error)
	// SumDeltas recalcule la somme des deltas d'un couple (produit, dépôt) ;
	// usage contrôle de cohérence, jamais sur le chemin chaud.
	SumDeltas(productID, warehouseID string) (int64, error)
}
