package entity

import "time"

// Modes d'inventaire (périmètre des lignes générées).
const (
	InventoryModeFull     = "FULL"     // tous les produits actifs
	InventoryModeCategory = "CATEGORY" // produits actifs d'une catégorie
	InventoryModeFree     = "FREE"     // lignes ajoutées manuellement
)

// Statuts d'un inventaire.
const (
	InventoryStatusDraft     = "DRAFT"
	InventoryStatusPosted    = "POSTED"
	InventoryStatusCancelled = "CANCELLED"
)

// InventoryCount est un document de comptage. ExpectedQty est figé au moment de
// la génération de la ligne et jamais recalculé : un mouvement concurrent pendant
// le comptage apparaît comme écart à la validation, il n'est pas absorbé en silence.
// La validation émet un mouvement ADJUST par ligne où compté ≠ attendu.
type InventoryCount struct {
	ID          string
	WarehouseID string
	Mode        string // FULL, CATEGORY, FREE
	CategoryID  string // renseigné en mode CATEGORY
	Status      string
	Lines       []InventoryLine
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// InventoryLine est une ligne de comptage. CountedQty vaut nil tant que la
// ligne n'a pas été comptée.
type InventoryLine struct {
	ProductID   string
	ExpectedQty int64
	CountedQty  *int64
}

// Delta renvoie compté − attendu (0 si la ligne n'est pas comptée).
func (l InventoryLine) Delta() int64 {
	if l.CountedQty == nil {
		return 0
	}
	return *l.CountedQty - l.ExpectedQty
}

// Line renvoie la ligne du produit donné, ou nil si absente.
func (ic *InventoryCount) Line(productID string) *InventoryLine {
	for i := range ic.Lines {
		if ic.Lines[i].ProductID == productID {
			return &ic.Lines[i]
		}
	}
	return nil
}

// FullyCounted indique si toutes les lignes ont une quantité comptée.
func (ic *InventoryCount) FullyCounted() bool {
	for _, l := range ic.Lines {
		if l.CountedQty == nil {
			return false
		}
	}
	return true
}
