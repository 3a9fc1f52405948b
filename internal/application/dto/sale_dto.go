package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/locauto225/gestock-api/internal/domain/entity"
)

// CreateSaleRequest body de POST /api/sales.
type CreateSaleRequest struct {
	CustomerID  string                  `json:"customer_id"`
	WarehouseID string                  `json:"warehouse_id"`
	Channel     string                  `json:"channel"`     // DEPOT ou STORE
	Fulfillment string                  `json:"fulfillment"` // PICKUP ou DELIVERY
	Lines       []CreateSaleLineRequest `json:"lines"`
}

// CreateSaleLineRequest ligne de vente à créer. Prix à zéro = prix produit.
type CreateSaleLineRequest struct {
	ProductID string          `json:"product_id"`
	Qty       int64           `json:"qty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// SaleStatusRequest body de PATCH /api/sales/:id/status.
type SaleStatusRequest struct {
	Status string `json:"status"` // POSTED ou CANCELLED
}

// DeliveryRequest body de POST /api/sales/:id/delivery.
type DeliveryRequest struct {
	Lines []DeliveryLineRequest `json:"lines"`
}

// DeliveryLineRequest incrément de livraison d'une ligne.
type DeliveryLineRequest struct {
	ProductID string `json:"product_id"`
	Qty       int64  `json:"qty"`
}

// SaleLineResponse ligne de vente exposée en lecture.
type SaleLineResponse struct {
	ProductID    string          `json:"product_id"`
	Qty          int64           `json:"qty"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	QtyDelivered int64           `json:"qty_delivered"`
}

// SaleResponse vente exposée en lecture. Invoice/POSReceipt portent la
// référence du document aval selon le canal.
type SaleResponse struct {
	ID             string             `json:"id"`
	Number         string             `json:"number"`
	CustomerID     string             `json:"customer_id"`
	WarehouseID    string             `json:"warehouse_id"`
	Channel        string             `json:"channel"`
	Fulfillment    string             `json:"fulfillment"`
	Status         string             `json:"status"`
	Lines          []SaleLineResponse `json:"lines"`
	Total          decimal.Decimal    `json:"total"`
	Invoice        string             `json:"invoice,omitempty"`
	POSReceipt     string             `json:"pos_receipt,omitempty"`
	DocumentStatus string             `json:"document_status"`
	DocumentError  string             `json:"document_error,omitempty"`
	PostedAt       *time.Time         `json:"posted_at,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// SaleFromEntity convertit l'entité en réponse.
func SaleFromEntity(s *entity.Sale) SaleResponse {
	resp := SaleResponse{
		ID:             s.ID,
		Number:         s.Number,
		CustomerID:     s.CustomerID,
		WarehouseID:    s.WarehouseID,
		Channel:        s.Channel,
		Fulfillment:    s.Fulfillment,
		Status:         s.Status,
		Total:          s.Total(),
		DocumentStatus: s.DocumentStatus,
		PostedAt:       s.PostedAt,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
	switch s.Channel {
	case entity.SaleChannelDepot:
		resp.Invoice = s.DocumentRef
	case entity.SaleChannelStore:
		resp.POSReceipt = s.DocumentRef
	}
	for _, l := range s.Lines {
		resp.Lines = append(resp.Lines, SaleLineResponse{
			ProductID:    l.ProductID,
			Qty:          l.Qty,
			UnitPrice:    l.UnitPrice,
			QtyDelivered: l.QtyDelivered,
		})
	}
	return resp
}
