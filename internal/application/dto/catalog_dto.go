package dto

import (
	"github.com/shopspring/decimal"
)

// CreateWarehouseRequest body de POST /api/warehouses.
type CreateWarehouseRequest struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}

// CreateProductRequest body de POST /api/products.
type CreateProductRequest struct {
	SKU        string          `json:"sku"`
	Name       string          `json:"name"`
	CategoryID string          `json:"category_id,omitempty"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
}

// CreateCategoryRequest body de POST /api/categories.
type CreateCategoryRequest struct {
	Name string `json:"name"`
}

// CreatePartyRequest body de POST /api/suppliers et /api/customers.
type CreatePartyRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}
