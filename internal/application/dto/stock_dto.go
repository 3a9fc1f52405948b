package dto

import (
	"time"

	"github.com/locauto225/gestock-api/internal/domain/entity"
)

// RegisterAdjustmentRequest body de POST /api/stock/moves (ajustement manuel).
type RegisterAdjustmentRequest struct {
	WarehouseID string `json:"warehouse_id"`
	ProductID   string `json:"product_id"`
	QtyDelta    int64  `json:"qty_delta"`
	Note        string `json:"note"`
}

// RecordLossRequest body de POST /api/stock/losses.
type RecordLossRequest struct {
	WarehouseID string `json:"warehouse_id"`
	ProductID   string `json:"product_id"`
	Qty         int64  `json:"qty"`
	Reason      string `json:"type"` // Casse, Vol, Péremption, Autre
	Note        string `json:"note"`
}

// RecordReturnRequest body de POST /api/stock/returns.
type RecordReturnRequest struct {
	WarehouseID string `json:"warehouse_id"`
	ProductID   string `json:"product_id"`
	Qty         int64  `json:"qty"`
	Reason      string `json:"reason"` // Retour client, Erreur de livraison, Autre
	Note        string `json:"note,omitempty"`
}

// TransferRequest body de POST /api/stock/transfers.
type TransferRequest struct {
	ProductID       string `json:"product_id"`
	FromWarehouseID string `json:"from_warehouse_id"`
	ToWarehouseID   string `json:"to_warehouse_id"`
	Qty             int64  `json:"qty"`
}

// StockMoveResponse est une écriture du journal exposée en lecture.
type StockMoveResponse struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	WarehouseID string    `json:"warehouse_id"`
	Kind        string    `json:"kind"`
	QtyDelta    int64     `json:"qty_delta"`
	RefType     string    `json:"ref_type"`
	RefID       string    `json:"ref_id,omitempty"`
	Reason      string    `json:"reason,omitempty"`
	Note        string    `json:"note,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	CreatedBy   string    `json:"created_by,omitempty"`
}

// StockMoveFromEntity convertit l'entité en réponse.
func StockMoveFromEntity(m *entity.StockMove) StockMoveResponse {
	return StockMoveResponse{
		ID:          m.ID,
		ProductID:   m.ProductID,
		WarehouseID: m.WarehouseID,
		Kind:        m.Kind,
		QtyDelta:    m.QtyDelta,
		RefType:     m.RefType,
		RefID:       m.RefID,
		Reason:      m.Reason,
		Note:        m.Note,
		CreatedAt:   m.CreatedAt,
		CreatedBy:   m.CreatedBy,
	}
}

// StockLevelResponse est un niveau de stock exposé en lecture.
type StockLevelResponse struct {
	ProductID   string    `json:"product_id"`
	WarehouseID string    `json:"warehouse_id"`
	Quantity    int64     `json:"quantity"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// StockLevelFromEntity convertit l'entité en réponse.
func StockLevelFromEntity(l *entity.StockLevel) StockLevelResponse {
	return StockLevelResponse{
		ProductID:   l.ProductID,
		WarehouseID: l.WarehouseID,
		Quantity:    l.Quantity,
		UpdatedAt:   l.UpdatedAt,
	}
}
