package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/locauto225/gestock-api/internal/domain/entity"
)

// CreatePurchaseRequest body de POST /api/purchases.
type CreatePurchaseRequest struct {
	SupplierID  string                      `json:"supplier_id"`
	WarehouseID string                      `json:"warehouse_id"`
	Lines       []CreatePurchaseLineRequest `json:"lines"`
}

// CreatePurchaseLineRequest ligne de commande à créer.
type CreatePurchaseLineRequest struct {
	ProductID  string          `json:"product_id"`
	QtyOrdered int64           `json:"qty_ordered"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
}

// PurchaseStatusRequest body de PATCH /api/purchases/:id/status.
type PurchaseStatusRequest struct {
	Status string `json:"status"` // ORDERED ou CANCELLED
}

// ReceivePurchaseRequest body de POST /api/purchases/:id/receive.
// Chaque ligne est un incrément, pas une resoumission des cumuls.
type ReceivePurchaseRequest struct {
	Lines []ReceiveLineRequest `json:"lines"`
}

// ReceiveLineRequest incrément de réception d'une ligne.
type ReceiveLineRequest struct {
	ProductID   string `json:"product_id"`
	QtyReceived int64  `json:"qty_received"`
}

// PurchaseLineResponse ligne de commande exposée en lecture.
type PurchaseLineResponse struct {
	ProductID   string          `json:"product_id"`
	QtyOrdered  int64           `json:"qty_ordered"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	QtyReceived int64           `json:"qty_received"`
	Remaining   int64           `json:"remaining"`
}

// PurchaseResponse commande exposée en lecture.
type PurchaseResponse struct {
	ID          string                 `json:"id"`
	Number      string                 `json:"number"`
	SupplierID  string                 `json:"supplier_id"`
	WarehouseID string                 `json:"warehouse_id"`
	Status      string                 `json:"status"`
	Lines       []PurchaseLineResponse `json:"lines"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// PurchaseFromEntity convertit l'entité en réponse.
func PurchaseFromEntity(po *entity.PurchaseOrder) PurchaseResponse {
	resp := PurchaseResponse{
		ID:          po.ID,
		Number:      po.Number,
		SupplierID:  po.SupplierID,
		WarehouseID: po.WarehouseID,
		Status:      po.Status,
		CreatedAt:   po.CreatedAt,
		UpdatedAt:   po.UpdatedAt,
	}
	for _, l := range po.Lines {
		resp.Lines = append(resp.Lines, PurchaseLineResponse{
			ProductID:   l.ProductID,
			QtyOrdered:  l.QtyOrdered,
			UnitPrice:   l.UnitPrice,
			QtyReceived: l.QtyReceived,
			Remaining:   l.Remaining(),
		})
	}
	return resp
}
