package entity

// Motifs structurés de perte.
const (
	LossReasonBreakage = "Casse"
	LossReasonTheft    = "Vol"
	LossReasonExpiry   = "Péremption"
	LossReasonOther    = "Autre"
)

// Motifs structurés de retour.
const (
	ReturnReasonCustomer = "Retour client"
	ReturnReasonDelivery = "Erreur de livraison"
	ReturnReasonOther    = "Autre"
)

// ValidLossReason indique si le motif de perte est connu.
func ValidLossReason(reason string) bool {
	switch reason {
	case LossReasonBreakage, LossReasonTheft, LossReasonExpiry, LossReasonOther:
		return true
	}
	return false
}

// ValidReturnReason indique si le motif de retour est connu.
func ValidReturnReason(reason string) bool {
	switch reason {
	case ReturnReasonCustomer, ReturnReasonDelivery, ReturnReasonOther:
		return true
	}
	return false
}
