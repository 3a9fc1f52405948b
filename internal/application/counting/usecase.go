package counting

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/locauto225/gestock-api/internal/application/stock"
	"github.com/locauto225/gestock-api/internal/domain"
	"github.com/locauto225/gestock-api/internal/domain/entity"
	"github.com/locauto225/gestock-api/internal/domain/repository"
)

// UseCase pilote le cycle comptage-ajustement des inventaires : création d'un
// document DRAFT avec quantités attendues figées, saisie des comptages, puis
// validation émettant un mouvement ADJUST par écart.
type UseCase struct {
	txRunner      TxRunner
	countRepo     repository.InventoryCountRepository
	levelRepo     repository.StockLevelRepository
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	categoryRepo  repository.CategoryRepository
}

// NewUseCase construit le cas d'usage.
func NewUseCase(
	txRunner TxRunner,
	countRepo repository.InventoryCountRepository,
	levelRepo repository.StockLevelRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	categoryRepo repository.CategoryRepository,
) *UseCase {
	return &UseCase{
		txRunner:      txRunner,
		countRepo:     countRepo,
		levelRepo:     levelRepo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		categoryRepo:  categoryRepo,
	}
}

// Create ouvre un inventaire DRAFT. FULL : une ligne par produit actif ;
// CATEGORY : limité à une catégorie ; FREE : aucune ligne, ajout manuel.
// ExpectedQty est figé ici, depuis l'agrégat de niveaux, et jamais recalculé.
func (uc *UseCase) Create(_ context.Context, warehouseID, mode, categoryID string) (*entity.InventoryCount, error) {
	if warehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	if wh, err := uc.warehouseRepo.GetByID(warehouseID); err != nil || wh == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	count := &entity.InventoryCount{
		ID:          uuid.New().String(),
		WarehouseID: warehouseID,
		Mode:        mode,
		Status:      entity.InventoryStatusDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	switch mode {
	case entity.InventoryModeFull:
		products, err := uc.productRepo.ListActive("")
		if err != nil {
			return nil, err
		}
		if err := uc.snapshotLines(count, products); err != nil {
			return nil, err
		}
	case entity.InventoryModeCategory:
		if categoryID == "" {
			return nil, domain.ErrInvalidInput
		}
		if cat, err := uc.categoryRepo.GetByID(categoryID); err != nil || cat == nil {
			return nil, domain.ErrNotFound
		}
		count.CategoryID = categoryID
		products, err := uc.productRepo.ListActive(categoryID)
		if err != nil {
			return nil, err
		}
		if err := uc.snapshotLines(count, products); err != nil {
			return nil, err
		}
	case entity.InventoryModeFree:
		// Aucune ligne : elles sont ajoutées une à une via AddLine.
	default:
		return nil, domain.ErrInvalidInput
	}

	if err := uc.countRepo.Create(count); err != nil {
		return nil, err
	}
	return count, nil
}

// AddLine ajoute un produit à un inventaire FREE en DRAFT, avec quantité
// attendue figée au moment de l'ajout.
func (uc *UseCase) AddLine(_ context.Context, id, productID string) (*entity.InventoryCount, error) {
	count, err := uc.countRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if count == nil {
		return nil, domain.ErrNotFound
	}
	if count.Status != entity.InventoryStatusDraft || count.Mode != entity.InventoryModeFree {
		return nil, &domain.InvalidTransitionError{
			Entity: "inventory",
			From:   count.Status,
			To:     count.Status,
		}
	}
	if count.Line(productID) != nil {
		return nil, domain.ErrDuplicate
	}
	product, err := uc.productRepo.GetByID(productID)
	if err != nil || product == nil {
		return nil, domain.ErrNotFound
	}
	level, err := uc.levelRepo.Get(productID, count.WarehouseID)
	if err != nil {
		return nil, err
	}
	count.Lines = append(count.Lines, entity.InventoryLine{
		ProductID:   productID,
		ExpectedQty: level.Quantity,
	})
	count.UpdatedAt = time.Now()
	if err := uc.countRepo.Update(count); err != nil {
		return nil, err
	}
	return count, nil
}

// SetCounted saisit la quantité comptée d'une ligne. DRAFT uniquement,
// aucun effet sur le journal.
func (uc *UseCase) SetCounted(_ context.Context, id, productID string, countedQty int64) (*entity.InventoryCount, error) {
	if countedQty < 0 {
		return nil, domain.ErrInvalidInput
	}
	count, err := uc.countRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if count == nil {
		return nil, domain.ErrNotFound
	}
	if count.Status != entity.InventoryStatusDraft {
		return nil, &domain.InvalidTransitionError{
			Entity: "inventory",
			From:   count.Status,
			To:     count.Status,
		}
	}
	line := count.Line(productID)
	if line == nil {
		return nil, domain.ErrNotFound
	}
	qty := countedQty
	line.CountedQty = &qty
	count.UpdatedAt = time.Now()
	if err := uc.countRepo.Update(count); err != nil {
		return nil, err
	}
	return count, nil
}

// Post valide l'inventaire : exige toutes les lignes comptées, puis émet dans
// une seule transaction un mouvement ADJUST par ligne où compté ≠ attendu,
// avec delta = compté − attendu. Les lignes sans écart n'émettent rien.
// Le mouvement concurrent pendant le comptage ressort ici comme écart.
func (uc *UseCase) Post(ctx context.Context, actor, id string) (*entity.InventoryCount, error) {
	var posted *entity.InventoryCount
	err := uc.txRunner.RunCounting(ctx, func(
		moveRepo repository.StockMoveRepository,
		levelRepo repository.StockLevelRepository,
		countRepo repository.InventoryCountRepository,
	) error {
		count, err := countRepo.GetForUpdate(id)
		if err != nil {
			return err
		}
		if count == nil {
			return domain.ErrNotFound
		}
		if count.Status != entity.InventoryStatusDraft {
			return &domain.InvalidTransitionError{
				Entity: "inventory",
				From:   count.Status,
				To:     entity.InventoryStatusPosted,
			}
		}
		if !count.FullyCounted() {
			return domain.ErrInvalidInput
		}

		now := time.Now()
		for _, line := range count.Lines {
			delta := line.Delta()
			if delta == 0 {
				continue
			}
			move := &entity.StockMove{
				ProductID:   line.ProductID,
				WarehouseID: count.WarehouseID,
				Kind:        entity.MoveKindADJUST,
				QtyDelta:    delta,
				RefType:     entity.RefTypeInventory,
				RefID:       count.ID,
				CreatedAt:   now,
				CreatedBy:   actor,
			}
			if err := stock.Apply(moveRepo, levelRepo, move); err != nil {
				return err
			}
		}
		count.Status = entity.InventoryStatusPosted
		count.UpdatedAt = now
		if err := countRepo.Update(count); err != nil {
			return err
		}
		posted = count
		return nil
	})
	if err != nil {
		return nil, err
	}
	return posted, nil
}

// Cancel abandonne un inventaire DRAFT, sans effet sur le journal.
func (uc *UseCase) Cancel(_ context.Context, id string) (*entity.InventoryCount, error) {
	count, err := uc.countRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if count == nil {
		return nil, domain.ErrNotFound
	}
	if count.Status != entity.InventoryStatusDraft {
		return nil, &domain.InvalidTransitionError{
			Entity: "inventory",
			From:   count.Status,
			To:     entity.InventoryStatusCancelled,
		}
	}
	count.Status = entity.InventoryStatusCancelled
	count.UpdatedAt = time.Now()
	if err := uc.countRepo.Update(count); err != nil {
		return nil, err
	}
	return count, nil
}

// Get renvoie un inventaire par ID.
func (uc *UseCase) Get(_ context.Context, id string) (*entity.InventoryCount, error) {
	count, err := uc.countRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if count == nil {
		return nil, domain.ErrNotFound
	}
	return count, nil
}

// List liste les inventaires, optionnellement filtrés par statut.
func (uc *UseCase) List(_ context.Context, status string, limit, offset int) ([]*entity.InventoryCount, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return uc.countRepo.List(status, limit, offset)
}

// snapshotLines fige une ligne par produit avec la quantité attendue lue dans
// l'agrégat de niveaux.
func (uc *UseCase) snapshotLines(count *entity.InventoryCount, products []*entity.Product) error {
	for _, p := range products {
		level, err := uc.levelRepo.Get(p.ID, count.WarehouseID)
		if err != nil {
			return err
		}
		count.Lines = append(count.Lines, entity.InventoryLine{
			ProductID:   p.ID,
			ExpectedQty: level.Quantity,
		})
	}
	return nil
}
