package entity

import "time"

// Natures de mouvement de stock.
const (
	MoveKindIN       = "IN"       // entrée
	MoveKindOUT      = "OUT"      // sortie
	MoveKindADJUST   = "ADJUST"   // ajustement signé
	MoveKindTRANSFER = "TRANSFER" // entre dépôts
)

// Types de document à l'origine d'un mouvement.
const (
	RefTypePurchaseReceipt = "PURCHASE_RECEIPT"
	RefTypeSale            = "SALE"
	RefTypeLoss            = "LOSS"
	RefTypeReturn          = "RETURN"
	RefTypeInventory       = "INVENTORY"
	RefTypeTransfer        = "TRANSFER"
	RefTypeManual          = "MANUAL"
)

// StockMove est une écriture du journal de stock. Immuable une fois créée :
// aucune mise à jour ni suppression, toute correction est un nouveau mouvement.
// Le stock disponible d'un couple (produit, dépôt) est la somme des QtyDelta.
type StockMove struct {
	ID          string
	ProductID   string
	WarehouseID string
	Kind        string // IN, OUT, ADJUST, TRANSFER
	QtyDelta    int64  // positif = entrée, négatif = sortie, jamais zéro
	RefType     string // document d'origine (PURCHASE_RECEIPT, SALE, ...)
	RefID       string
	Reason      string // motif structuré (pertes/retours), vide sinon
	Note        string // obligatoire pour LOSS et ADJUST sans motif structuré
	CreatedAt   time.Time
	CreatedBy   string // UserID
}
