package domain

import (
	"errors"
	"fmt"
)

// Erreurs de domaine (sans dépendance externe).
var (
	ErrNotFound          = errors.New("ressource introuvable")
	ErrInvalidInput      = errors.New("entrée invalide")
	ErrDuplicate         = errors.New("ressource dupliquée")
	ErrInvalidTransition = errors.New("transition d'état invalide")
	ErrInsufficientStock = errors.New("stock insuffisant")
	ErrOverReceipt       = errors.New("réception supérieure au restant")
	ErrEmptyReceipt      = errors.New("réception vide")
	ErrNoteRequired      = errors.New("note obligatoire")
)

// InsufficientStockError porte le détail exact du manque : l'appelant doit
// savoir quel produit et de combien il est court, sans parser de texte libre.
type InsufficientStockError struct {
	ProductID   string
	WarehouseID string
	Available   int64
	Requested   int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuffisant pour le produit %s : disponible %d, demandé %d",
		e.ProductID, e.Available, e.Requested)
}

// Is rend errors.Is(err, ErrInsufficientStock) vrai pour ce type.
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// OverReceiptError signale une réception dépassant le restant à recevoir d'une ligne.
type OverReceiptError struct {
	ProductID string
	Remaining int64
	Requested int64
}

func (e *OverReceiptError) Error() string {
	return fmt.Sprintf("réception du produit %s au-delà du restant : restant %d, demandé %d",
		e.ProductID, e.Remaining, e.Requested)
}

func (e *OverReceiptError) Is(target error) bool {
	return target == ErrOverReceipt
}

// InvalidTransitionError signale une action incompatible avec le statut courant
// du document (ex. cancel sur une commande RECEIVED, post sur une vente POSTED).
type InvalidTransitionError struct {
	Entity string // "purchase_order", "sale", "inventory"
	From   string
	To     string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s : transition %s → %s invalide", e.Entity, e.From, e.To)
}

func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}
