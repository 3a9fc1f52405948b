package sales

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/locauto225/gestock-api/internal/application/stock"
	"github.com/locauto225/gestock-api/internal/domain"
	"github.com/locauto225/gestock-api/internal/domain/entity"
	"github.com/locauto225/gestock-api/internal/domain/repository"
)

// UseCase pilote la machine à états des ventes : DRAFT → POSTED (décrément du
// stock, une seule fois, tout ou rien) ou DRAFT → CANCELLED. POSTED et
// CANCELLED sont terminaux.
type UseCase struct {
	txRunner      TxRunner
	saleRepo      repository.SaleRepository
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	customerRepo  repository.CustomerRepository
	docGenerator  DocumentGenerator
}

// NewUseCase construit le cas d'usage.
func NewUseCase(
	txRunner TxRunner,
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	customerRepo repository.CustomerRepository,
	docGenerator DocumentGenerator,
) *UseCase {
	return &UseCase{
		txRunner:      txRunner,
		saleRepo:      saleRepo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		customerRepo:  customerRepo,
		docGenerator:  docGenerator,
	}
}

// CreateLineInput est une ligne de vente à créer. Prix unitaire à zéro =
// prix par défaut du produit.
type CreateLineInput struct {
	ProductID string
	Qty       int64
	UnitPrice decimal.Decimal
}

// CreateInput est la demande de création d'une vente (DRAFT).
type CreateInput struct {
	CustomerID  string
	WarehouseID string
	Channel     string // DEPOT ou STORE
	Fulfillment string // PICKUP ou DELIVERY
	Lines       []CreateLineInput
}

// Create crée une vente en DRAFT, sans effet sur le stock.
func (uc *UseCase) Create(_ context.Context, in CreateInput) (*entity.Sale, error) {
	if in.CustomerID == "" || in.WarehouseID == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.Channel != entity.SaleChannelDepot && in.Channel != entity.SaleChannelStore {
		return nil, domain.ErrInvalidInput
	}
	if in.Fulfillment != entity.FulfillmentPickup && in.Fulfillment != entity.FulfillmentDelivery {
		return nil, domain.ErrInvalidInput
	}
	if c, err := uc.customerRepo.GetByID(in.CustomerID); err != nil || c == nil {
		return nil, domain.ErrNotFound
	}
	if wh, err := uc.warehouseRepo.GetByID(in.WarehouseID); err != nil || wh == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	sale := &entity.Sale{
		ID:             uuid.New().String(),
		Number:         fmt.Sprintf("VT-%d", now.Unix()),
		CustomerID:     in.CustomerID,
		WarehouseID:    in.WarehouseID,
		Channel:        in.Channel,
		Fulfillment:    in.Fulfillment,
		Status:         entity.SaleStatusDraft,
		DocumentStatus: entity.DocumentStatusNone,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	seen := make(map[string]bool, len(in.Lines))
	for _, l := range in.Lines {
		if l.ProductID == "" || l.Qty <= 0 || l.UnitPrice.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		if seen[l.ProductID] {
			return nil, domain.ErrDuplicate
		}
		seen[l.ProductID] = true
		product, err := uc.productRepo.GetByID(l.ProductID)
		if err != nil || product == nil {
			return nil, domain.ErrNotFound
		}
		price := l.UnitPrice
		if price.IsZero() {
			price = product.UnitPrice
		}
		sale.Lines = append(sale.Lines, entity.SaleLine{
			ProductID: l.ProductID,
			Qty:       l.Qty,
			UnitPrice: price,
		})
	}
	if err := uc.saleRepo.Create(sale); err != nil {
		return nil, err
	}
	return sale, nil
}

// PostResult porte la vente validée et l'éventuel échec de génération du
// document aval. Ce dernier est signalé à part : le stock est déjà décrémenté
// et ne se rejoue pas pour un échec de mise en forme.
type PostResult struct {
	Sale        *entity.Sale
	DocumentErr error
}

// Post valide la vente : dans une seule transaction, verrouille les lignes de
// niveau en ordre produit croissant (anti-interblocage entre ventes
// multi-lignes), vérifie disponible ≥ demandé pour chaque ligne (un seul échec
// = aucune écriture), puis émet un mouvement OUT par ligne et
// passe la vente en POSTED. Le document aval est généré après le commit.
func (uc *UseCase) Post(ctx context.Context, actor, id string) (*PostResult, error) {
	var posted *entity.Sale
	err := uc.txRunner.RunSales(ctx, func(
		moveRepo repository.StockMoveRepository,
		levelRepo repository.StockLevelRepository,
		saleRepo repository.SaleRepository,
	) error {
		sale, err := saleRepo.GetForUpdate(id)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if sale.Status != entity.SaleStatusDraft {
			return &domain.InvalidTransitionError{
				Entity: "sale",
				From:   sale.Status,
				To:     entity.SaleStatusPosted,
			}
		}

		// Verrous en ordre stable, puis contrôle complet avant toute écriture.
		lines := make([]entity.SaleLine, len(sale.Lines))
		copy(lines, sale.Lines)
		sort.Slice(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })
		for _, l := range lines {
			level, err := levelRepo.GetForUpdate(l.ProductID, sale.WarehouseID)
			if err != nil {
				return err
			}
			if level.Quantity < l.Qty {
				return &domain.InsufficientStockError{
					ProductID:   l.ProductID,
					WarehouseID: sale.WarehouseID,
					Available:   level.Quantity,
					Requested:   l.Qty,
				}
			}
		}

		now := time.Now()
		for _, l := range lines {
			move := &entity.StockMove{
				ProductID:   l.ProductID,
				WarehouseID: sale.WarehouseID,
				Kind:        entity.MoveKindOUT,
				QtyDelta:    -l.Qty,
				RefType:     entity.RefTypeSale,
				RefID:       sale.ID,
				CreatedAt:   now,
				CreatedBy:   actor,
			}
			if err := stock.Apply(moveRepo, levelRepo, move); err != nil {
				return err
			}
		}
		sale.Status = entity.SaleStatusPosted
		sale.PostedAt = &now
		sale.UpdatedAt = now
		if err := saleRepo.Update(sale); err != nil {
			return err
		}
		posted = sale
		return nil
	})
	if err != nil {
		return nil, err
	}

	docErr := uc.generateDocument(ctx, posted)
	return &PostResult{Sale: posted, DocumentErr: docErr}, nil
}

// Cancel annule une vente DRAFT. Aucun effet sur le journal : rien n'a jamais
// été décrémenté.
func (uc *UseCase) Cancel(_ context.Context, id string) (*entity.Sale, error) {
	sale, err := uc.saleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	if sale.Status != entity.SaleStatusDraft {
		return nil, &domain.InvalidTransitionError{
			Entity: "sale",
			From:   sale.Status,
			To:     entity.SaleStatusCancelled,
		}
	}
	sale.Status = entity.SaleStatusCancelled
	sale.UpdatedAt = time.Now()
	if err := uc.saleRepo.Update(sale); err != nil {
		return nil, err
	}
	return sale, nil
}

// DeliveryLineInput est un incrément de livraison sur une ligne.
type DeliveryLineInput struct {
	ProductID string
	Qty       int64
}

// AdvanceDelivery fait avancer les quantités livrées d'une vente POSTED en
// mode DELIVERY. Suivi aval uniquement, plafonné à la quantité vendue ;
// aucun effet sur le journal de stock.
func (uc *UseCase) AdvanceDelivery(_ context.Context, id string, lines []DeliveryLineInput) (*entity.Sale, error) {
	if len(lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	sale, err := uc.saleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	if sale.Status != entity.SaleStatusPosted || sale.Fulfillment != entity.FulfillmentDelivery {
		return nil, &domain.InvalidTransitionError{
			Entity: "sale",
			From:   sale.Status,
			To:     sale.Status,
		}
	}
	for _, l := range lines {
		line := sale.Line(l.ProductID)
		if line == nil || l.Qty <= 0 || line.QtyDelivered+l.Qty > line.Qty {
			return nil, domain.ErrInvalidInput
		}
	}
	for _, l := range lines {
		sale.Line(l.ProductID).QtyDelivered += l.Qty
	}
	sale.UpdatedAt = time.Now()
	if err := uc.saleRepo.Update(sale); err != nil {
		return nil, err
	}
	return sale, nil
}

// RegenerateDocument retente la génération du document aval d'une vente
// POSTED, sans toucher au stock.
func (uc *UseCase) RegenerateDocument(ctx context.Context, id string) (*entity.Sale, error) {
	sale, err := uc.saleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	if sale.Status != entity.SaleStatusPosted {
		return nil, &domain.InvalidTransitionError{
			Entity: "sale",
			From:   sale.Status,
			To:     sale.Status,
		}
	}
	if err := uc.generateDocument(ctx, sale); err != nil {
		return sale, err
	}
	return sale, nil
}

// Document génère à la demande le PDF du document aval d'une vente POSTED
// (téléchargement / impression).
func (uc *UseCase) Document(ctx context.Context, id string) (*Document, error) {
	sale, err := uc.saleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	if sale.Status != entity.SaleStatusPosted {
		return nil, &domain.InvalidTransitionError{
			Entity: "sale",
			From:   sale.Status,
			To:     sale.Status,
		}
	}
	customer, products, err := uc.documentContext(sale)
	if err != nil {
		return nil, err
	}
	return uc.docGenerator.Generate(ctx, sale, customer, products)
}

// Get renvoie une vente par ID.
func (uc *UseCase) Get(_ context.Context, id string) (*entity.Sale, error) {
	sale, err := uc.saleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	return sale, nil
}

// List liste les ventes, optionnellement filtrées par statut.
func (uc *UseCase) List(_ context.Context, status string, limit, offset int) ([]*entity.Sale, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return uc.saleRepo.List(status, limit, offset)
}

// generateDocument appelle le générateur aval et attache le résultat à la
// vente. En cas d'échec la vente reste POSTED avec DocumentStatus = ERROR.
func (uc *UseCase) generateDocument(ctx context.Context, sale *entity.Sale) error {
	customer, products, err := uc.documentContext(sale)
	if err == nil {
		var doc *Document
		doc, err = uc.docGenerator.Generate(ctx, sale, customer, products)
		if err == nil {
			sale.DocumentRef = doc.Ref
			sale.DocumentStatus = entity.DocumentStatusGenerated
			sale.UpdatedAt = time.Now()
			return uc.saleRepo.Update(sale)
		}
	}
	sale.DocumentStatus = entity.DocumentStatusError
	sale.UpdatedAt = time.Now()
	if uerr := uc.saleRepo.Update(sale); uerr != nil {
		err = errors.Join(err, uerr)
	}
	return fmt.Errorf("génération du document de vente %s : %w", sale.ID, err)
}

// documentContext charge le client et les produits nécessaires au rendu.
func (uc *UseCase) documentContext(sale *entity.Sale) (*entity.Customer, map[string]*entity.Product, error) {
	customer, err := uc.customerRepo.GetByID(sale.CustomerID)
	if err != nil || customer == nil {
		return nil, nil, domain.ErrNotFound
	}
	products := make(map[string]*entity.Product, len(sale.Lines))
	for _, l := range sale.Lines {
		p, err := uc.productRepo.GetByID(l.ProductID)
		if err != nil || p == nil {
			return nil, nil, domain.ErrNotFound
		}
		products[l.ProductID] = p
	}
	return customer, products, nil
}
