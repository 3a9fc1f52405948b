package dto

import (
	"time"

	"github.com/locauto225/gestock-api/internal/domain/entity"
)

// CreateInventoryRequest body de POST /api/stock/inventories.
type CreateInventoryRequest struct {
	WarehouseID string `json:"warehouse_id"`
	Mode        string `json:"mode"` // FULL, CATEGORY, FREE
	CategoryID  string `json:"category_id,omitempty"`
}

// AddInventoryLineRequest body de POST /api/stock/inventories/:id/lines (mode FREE).
type AddInventoryLineRequest struct {
	ProductID string `json:"product_id"`
}

// SetCountedRequest body de PATCH /api/stock/inventories/:id/lines/:productId.
type SetCountedRequest struct {
	CountedQty int64 `json:"counted_qty"`
}

// InventoryStatusRequest body de PATCH /api/stock/inventories/:id/status.
type InventoryStatusRequest struct {
	Status string `json:"status"` // CANCELLED
}

// InventoryLineResponse ligne de comptage exposée en lecture.
type InventoryLineResponse struct {
	ProductID   string `json:"product_id"`
	ExpectedQty int64  `json:"expected_qty"`
	CountedQty  *int64 `json:"counted_qty,omitempty"`
	Delta       int64  `json:"delta"`
}

// InventoryResponse inventaire exposé en lecture.
type InventoryResponse struct {
	ID          string                  `json:"id"`
	WarehouseID string                  `json:"warehouse_id"`
	Mode        string                  `json:"mode"`
	CategoryID  string                  `json:"category_id,omitempty"`
	Status      string                  `json:"status"`
	Lines       []InventoryLineResponse `json:"lines"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
}

// InventoryFromEntity convertit l'entité en réponse.
func InventoryFromEntity(ic *entity.InventoryCount) InventoryResponse {
	resp := InventoryResponse{
		ID:          ic.ID,
		WarehouseID: ic.WarehouseID,
		Mode:        ic.Mode,
		CategoryID:  ic.CategoryID,
		Status:      ic.Status,
		CreatedAt:   ic.CreatedAt,
		UpdatedAt:   ic.UpdatedAt,
	}
	for _, l := range ic.Lines {
		resp.Lines = append(resp.Lines, InventoryLineResponse{
			ProductID:   l.ProductID,
			ExpectedQty: l.ExpectedQty,
			CountedQty:  l.CountedQty,
			Delta:       l.Delta(),
		})
	}
	return resp
}
