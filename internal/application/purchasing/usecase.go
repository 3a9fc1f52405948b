package purchasing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/locauto225/gestock-api/internal/application/stock"
	"github.com/locauto225/gestock-api/internal/domain"
	"github.com/locauto225/gestock-api/internal/domain/entity"
	"github.com/locauto225/gestock-api/internal/domain/repository"
)

// UseCase pilote la machine à états des commandes fournisseur et la réception
// partielle. Chaque réception émet des mouvements IN via le chemin d'écriture
// du journal ; la commande ne touche jamais les quantités directement.
type UseCase struct {
	txRunner      TxRunner
	poRepo        repository.PurchaseOrderRepository
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	supplierRepo  repository.SupplierRepository
}

// NewUseCase construit le cas d'usage.
func NewUseCase(
	txRunner TxRunner,
	poRepo repository.PurchaseOrderRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	supplierRepo repository.SupplierRepository,
) *UseCase {
	return &UseCase{
		txRunner:      txRunner,
		poRepo:        poRepo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		supplierRepo:  supplierRepo,
	}
}

// CreateLineInput est une ligne de commande à créer.
type CreateLineInput struct {
	ProductID  string
	QtyOrdered int64
	UnitPrice  decimal.Decimal
}

// CreateInput est la demande de création d'une commande fournisseur (DRAFT).
type CreateInput struct {
	SupplierID  string
	WarehouseID string
	Lines       []CreateLineInput
}

// Create crée une commande fournisseur en DRAFT, sans effet sur le stock.
func (uc *UseCase) Create(_ context.Context, in CreateInput) (*entity.PurchaseOrder, error) {
	if in.SupplierID == "" || in.WarehouseID == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if s, err := uc.supplierRepo.GetByID(in.SupplierID); err != nil || s == nil {
		return nil, domain.ErrNotFound
	}
	if wh, err := uc.warehouseRepo.GetByID(in.WarehouseID); err != nil || wh == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	po := &entity.PurchaseOrder{
		ID:          uuid.New().String(),
		Number:      fmt.Sprintf("CF-%d", now.Unix()),
		SupplierID:  in.SupplierID,
		WarehouseID: in.WarehouseID,
		Status:      entity.PurchaseStatusDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	seen := make(map[string]bool, len(in.Lines))
	for _, l := range in.Lines {
		if l.ProductID == "" || l.QtyOrdered <= 0 || l.UnitPrice.LessThan(decimal.Zero) {
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
		po.Lines = append(po.Lines, entity.PurchaseLine{
			ProductID:  l.ProductID,
			QtyOrdered: l.QtyOrdered,
			UnitPrice:  l.UnitPrice,
		})
	}
	if err := uc.poRepo.Create(po); err != nil {
		return nil, err
	}
	return po, nil
}

// Order engage la commande : DRAFT → ORDERED, sans effet sur le stock.
func (uc *UseCase) Order(_ context.Context, id string) (*entity.PurchaseOrder, error) {
	po, err := uc.poRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, domain.ErrNotFound
	}
	if po.Status != entity.PurchaseStatusDraft {
		return nil, &domain.InvalidTransitionError{
			Entity: "purchase_order",
			From:   po.Status,
			To:     entity.PurchaseStatusOrdered,
		}
	}
	po.Status = entity.PurchaseStatusOrdered
	po.UpdatedAt = time.Now()
	if err := uc.poRepo.Update(po); err != nil {
		return nil, err
	}
	return po, nil
}

// Cancel annule la commande. Terminal, atteignable seulement depuis
// DRAFT/ORDERED et jamais après la moindre réception.
func (uc *UseCase) Cancel(_ context.Context, id string) (*entity.PurchaseOrder, error) {
	po, err := uc.poRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, domain.ErrNotFound
	}
	cancellable := po.Status == entity.PurchaseStatusDraft || po.Status == entity.PurchaseStatusOrdered
	if !cancellable || po.HasReceipts() {
		return nil, &domain.InvalidTransitionError{
			Entity: "purchase_order",
			From:   po.Status,
			To:     entity.PurchaseStatusCancelled,
		}
	}
	po.Status = entity.PurchaseStatusCancelled
	po.UpdatedAt = time.Now()
	if err := uc.poRepo.Update(po); err != nil {
		return nil, err
	}
	return po, nil
}

// ReceiveLineInput est un incrément de réception sur une ligne.
// Chaque appel est un incrément, pas une resoumission des cumuls.
type ReceiveLineInput struct {
	ProductID   string
	QtyReceived int64
}

// Receive applique une réception partielle. Dans une seule transaction :
// verrouille la commande, vérifie chaque incrément contre le restant
// (OverReceipt sinon), émet un mouvement IN par ligne reçue, met à jour les
// cumuls puis redérive le statut. Tout ou rien ; répétable jusqu'à RECEIVED.
func (uc *UseCase) Receive(ctx context.Context, actor, id string, lines []ReceiveLineInput) (*entity.PurchaseOrder, error) {
	if len(lines) == 0 {
		return nil, domain.ErrEmptyReceipt
	}
	for _, l := range lines {
		if l.ProductID == "" || l.QtyReceived < 0 {
			return nil, domain.ErrInvalidInput
		}
	}

	var received *entity.PurchaseOrder
	err := uc.txRunner.RunPurchasing(ctx, func(
		moveRepo repository.StockMoveRepository,
		levelRepo repository.StockLevelRepository,
		poRepo repository.PurchaseOrderRepository,
	) error {
		po, err := poRepo.GetForUpdate(id)
		if err != nil {
			return err
		}
		if po == nil {
			return domain.ErrNotFound
		}
		if po.Status != entity.PurchaseStatusOrdered && po.Status != entity.PurchaseStatusPartiallyReceived {
			return &domain.InvalidTransitionError{
				Entity: "purchase_order",
				From:   po.Status,
				To:     entity.PurchaseStatusReceived,
			}
		}

		// Contrôles complets avant la moindre écriture.
		any := false
		for _, l := range lines {
			line := po.Line(l.ProductID)
			if line == nil {
				return domain.ErrInvalidInput
			}
			if l.QtyReceived > line.Remaining() {
				return &domain.OverReceiptError{
					ProductID: l.ProductID,
					Remaining: line.Remaining(),
					Requested: l.QtyReceived,
				}
			}
			if l.QtyReceived > 0 {
				any = true
			}
		}
		if !any {
			return domain.ErrEmptyReceipt
		}

		now := time.Now()
		for _, l := range lines {
			if l.QtyReceived == 0 {
				continue
			}
			move := &entity.StockMove{
				ProductID:   l.ProductID,
				WarehouseID: po.WarehouseID,
				Kind:        entity.MoveKindIN,
				QtyDelta:    l.QtyReceived,
				RefType:     entity.RefTypePurchaseReceipt,
				RefID:       po.ID,
				CreatedAt:   now,
				CreatedBy:   actor,
			}
			if err := stock.Apply(moveRepo, levelRepo, move); err != nil {
				return err
			}
			po.Line(l.ProductID).QtyReceived += l.QtyReceived
		}
		po.RecomputeStatus()
		po.UpdatedAt = now
		if err := poRepo.Update(po); err != nil {
			return err
		}
		received = po
		return nil
	})
	if err != nil {
		return nil, err
	}
	return received, nil
}

// Get renvoie une commande par ID.
func (uc *UseCase) Get(_ context.Context, id string) (*entity.PurchaseOrder, error) {
	po, err := uc.poRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, domain.ErrNotFound
	}
	return po, nil
}

// List liste les commandes, optionnellement filtrées par statut.
func (uc *UseCase) List(_ context.Context, status string, limit, offset int) ([]*entity.PurchaseOrder, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return uc.poRepo.List(status, limit, offset)
}
