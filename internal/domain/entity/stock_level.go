package entity

import "time"

// StockLevel est le stock courant d'un produit dans un dépôt (agrégat matérialisé
// du journal). Mis à jour dans la même transaction que chaque écriture du journal ;
// tout écart avec la somme des mouvements est un bug de cohérence, pas un état normal.
type StockLevel struct {
	ProductID   string
	WarehouseID string
	Quantity    int64
	UpdatedAt   time.Time
}
