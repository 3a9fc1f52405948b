package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Warehouse est un dépôt ou magasin où le stock est tenu.
type Warehouse struct {
	ID        string
	Code      string
	Name      string
	Address   string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Product est un article référencé (SKU unique).
// Les quantités vivent dans StockLevel, jamais ici.
type Product struct {
	ID         string
	SKU        string
	Name       string
	CategoryID string
	UnitPrice  decimal.Decimal // prix de vente par défaut
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Category regroupe des produits ; sert de périmètre aux inventaires CATEGORY.
type Category struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Supplier est un fournisseur (commandes d'achat).
type Supplier struct {
	ID        string
	Name      string
	Phone     string
	CreatedAt time.Time
}

// Customer est un client (ventes).
type Customer struct {
	ID        string
	Name      string
	Phone     string
	CreatedAt time.Time
}
