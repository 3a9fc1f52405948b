package sales

import (
	"context"

	"github.com/locauto225/gestock-api/internal/domain/entity"
	"github.com/locauto225/gestock-api/internal/domain/repository"
)

// TxRunner exécute la validation d'une vente dans une transaction : contrôle
// de disponibilité sous verrou, sorties du journal et statut, tout ou rien.
type TxRunner interface {
	RunSales(ctx context.Context, fn func(
		moveRepo repository.StockMoveRepository,
		levelRepo repository.StockLevelRepository,
		saleRepo repository.SaleRepository,
	) error) error
}

// Document est le document aval d'une vente validée : facture (DEPOT) ou
// ticket de caisse (STORE).
type Document struct {
	Ref string // référence attachée à la vente (numéro de facture ou de ticket)
	PDF []byte
}

// DocumentGenerator produit le document aval d'une vente validée. Appelé après
// le commit des sorties de stock : un échec ici ne remet jamais en cause le
// journal, la vente reste POSTED et la génération est retentée séparément.
type DocumentGenerator interface {
	Generate(ctx context.Context, sale *entity.Sale, customer *entity.Customer, products map[string]*entity.Product) (*Document, error)
}
