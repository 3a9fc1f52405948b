package dto

// PageRequest pagination des listes.
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// ErrorResponse corps d'erreur HTTP. Code est lisible machine
// (INSUFFICIENT_STOCK, OVER_RECEIPT, ...) ; Details porte les chiffres
// structurés (disponible/demandé, restant/demandé) pour que le client affiche
// un message précis sans parser le texte.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}
