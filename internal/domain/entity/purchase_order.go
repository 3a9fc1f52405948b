package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Statuts d'une commande fournisseur.
const (
	PurchaseStatusDraft             = "DRAFT"
	PurchaseStatusOrdered           = "ORDERED"
	PurchaseStatusPartiallyReceived = "PARTIALLY_RECEIVED"
	PurchaseStatusReceived          = "RECEIVED"
	PurchaseStatusCancelled         = "CANCELLED"
)

// PurchaseOrder est une commande fournisseur avec réception partielle.
// Cycle de vie : DRAFT → ORDERED → (réceptions) → PARTIALLY_RECEIVED/RECEIVED ;
// CANCELLED terminal, atteignable seulement depuis DRAFT/ORDERED sans réception.
type PurchaseOrder struct {
	ID          string
	Number      string
	SupplierID  string
	WarehouseID string
	Status      string
	Lines       []PurchaseLine
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PurchaseLine est une ligne de commande. Invariant : 0 ≤ QtyReceived ≤ QtyOrdered.
type PurchaseLine struct {
	ProductID   string
	QtyOrdered  int64
	UnitPrice   decimal.Decimal
	QtyReceived int64
}

// Remaining renvoie la quantité restant à recevoir sur la ligne.
func (l PurchaseLine) Remaining() int64 {
	return l.QtyOrdered - l.QtyReceived
}

// Line renvoie la ligne du produit donné, ou nil si absente.
func (po *PurchaseOrder) Line(productID string) *PurchaseLine {
	for i := range po.Lines {
		if po.Lines[i].ProductID == productID {
			return &po.Lines[i]
		}
	}
	return nil
}

// FullyReceived indique si toutes les lignes sont intégralement reçues.
func (po *PurchaseOrder) FullyReceived() bool {
	for _, l := range po.Lines {
		if l.QtyReceived < l.QtyOrdered {
			return false
		}
	}
	return true
}

// HasReceipts indique si au moins une unité a été reçue sur la commande.
func (po *PurchaseOrder) HasReceipts() bool {
	for _, l := range po.Lines {
		if l.QtyReceived > 0 {
			return true
		}
	}
	return false
}

// RecomputeStatus dérive le statut depuis l'état des lignes après une réception.
// RECEIVED ssi toutes les lignes sont complètes, sinon PARTIALLY_RECEIVED dès
// qu'une unité a été reçue.
func (po *PurchaseOrder) RecomputeStatus() {
	switch {
	case po.FullyReceived():
		po.Status = PurchaseStatusReceived
	case po.HasReceipts():
		po.Status = PurchaseStatusPartiallyReceived
	}
}
