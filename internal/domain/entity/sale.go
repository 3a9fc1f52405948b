package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Statuts d'une vente.
const (
	SaleStatusDraft     = "DRAFT"
	SaleStatusPosted    = "POSTED"
	SaleStatusCancelled = "CANCELLED"
)

// Canaux de vente.
const (
	SaleChannelDepot = "DEPOT" // vente en gros, facture
	SaleChannelStore = "STORE" // point de vente, ticket de caisse
)

// Modes de remise.
const (
	FulfillmentPickup   = "PICKUP"
	FulfillmentDelivery = "DELIVERY"
)

// États du document aval (facture ou ticket) attaché à une vente validée.
const (
	DocumentStatusNone      = "NONE"
	DocumentStatusGenerated = "GENERATED"
	DocumentStatusError     = "ERROR"
)

// Sale est une vente. Le stock est décrémenté exactement une fois, au passage
// DRAFT → POSTED, pour les quantités complètes des lignes. POSTED et CANCELLED
// sont terminaux. L'avancement de livraison (QtyDelivered) est un suivi aval,
// indépendant du journal de stock.
type Sale struct {
	ID          string
	Number      string
	CustomerID  string
	WarehouseID string
	Channel     string // DEPOT ou STORE
	Fulfillment string // PICKUP ou DELIVERY
	Status      string
	Lines       []SaleLine

	// Document aval généré à la validation (facture DEPOT, ticket STORE).
	// Un échec de génération ne remet pas en cause le stock : la vente reste
	// POSTED avec DocumentStatus = ERROR, regénérable séparément.
	DocumentRef    string
	DocumentStatus string

	PostedAt  *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SaleLine est une ligne de vente. QtyDelivered n'avance qu'après validation
// et uniquement en mode DELIVERY, plafonné à Qty.
type SaleLine struct {
	ProductID    string
	Qty          int64
	UnitPrice    decimal.Decimal
	QtyDelivered int64
}

// Line renvoie la ligne du produit donné, ou nil si absente.
func (s *Sale) Line(productID string) *SaleLine {
	for i := range s.Lines {
		if s.Lines[i].ProductID == productID {
			return &s.Lines[i]
		}
	}
	return nil
}

// Total renvoie le montant total de la vente (somme qty × prix unitaire).
func (s *Sale) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range s.Lines {
		total = total.Add(l.UnitPrice.Mul(decimal.NewFromInt(l.Qty)))
	}
	return total
}
