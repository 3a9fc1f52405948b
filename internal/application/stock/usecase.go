package stock

import (
	"context"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/locauto225/gestock-api/internal/domain"
	"github.com/locauto225/gestock-api/internal/domain/entity"
	"github.com/locauto225/gestock-api/internal/domain/repository"
)

// UseCase regroupe les opérations du journal de stock : ajustements manuels,
// pertes, retours, transferts et lectures (disponible, niveaux, historique).
type UseCase struct {
	txRunner      TxRunner
	moveRepo      repository.StockMoveRepository
	levelRepo     repository.StockLevelRepository
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	noteMinLen    int
}

// NewUseCase construit le cas d'usage. noteMinLen est la longueur minimale de
// la note obligatoire (pertes et ajustements sans motif structuré).
func NewUseCase(
	txRunner TxRunner,
	moveRepo repository.StockMoveRepository,
	levelRepo repository.StockLevelRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	noteMinLen int,
) *UseCase {
	return &UseCase{
		txRunner:      txRunner,
		moveRepo:      moveRepo,
		levelRepo:     levelRepo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		noteMinLen:    noteMinLen,
	}
}

// Available renvoie la quantité disponible d'un produit dans un dépôt
// (lecture de l'agrégat matérialisé, jamais un scan du journal).
func (uc *UseCase) Available(_ context.Context, productID, warehouseID string) (int64, error) {
	if productID == "" || warehouseID == "" {
		return 0, domain.ErrInvalidInput
	}
	level, err := uc.levelRepo.Get(productID, warehouseID)
	if err != nil {
		return 0, err
	}
	return level.Quantity, nil
}

// Levels liste les niveaux de stock d'un dépôt.
func (uc *UseCase) Levels(_ context.Context, warehouseID string) ([]*entity.StockLevel, error) {
	if warehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.levelRepo.ListByWarehouse(warehouseID)
}

// ListMoves lit le journal filtré et paginé (vue audit / historique).
func (uc *UseCase) ListMoves(_ context.Context, filter repository.MoveFilter) ([]*entity.StockMove, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Limit > 200 {
		filter.Limit = 200
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return uc.moveRepo.List(filter)
}

// AdjustmentInput est la demande d'ajustement manuel signé (hors pertes,
// retours et inventaires).
type AdjustmentInput struct {
	WarehouseID string
	ProductID   string
	QtyDelta    int64
	Note        string
}

// RegisterAdjustment enregistre un mouvement ADJUST manuel. La note est
// obligatoire : un ajustement manuel n'a pas de motif structuré. Un delta
// négatif est refusé s'il dépasse le disponible, sous verrou.
func (uc *UseCase) RegisterAdjustment(ctx context.Context, actor string, in AdjustmentInput) (*entity.StockMove, error) {
	if in.QtyDelta == 0 {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.requireNote(in.Note); err != nil {
		return nil, err
	}
	if err := uc.checkProductAndWarehouse(in.ProductID, in.WarehouseID); err != nil {
		return nil, err
	}

	move := &entity.StockMove{
		ID:          uuid.New().String(),
		ProductID:   in.ProductID,
		WarehouseID: in.WarehouseID,
		Kind:        entity.MoveKindADJUST,
		QtyDelta:    in.QtyDelta,
		RefType:     entity.RefTypeManual,
		Note:        strings.TrimSpace(in.Note),
		CreatedAt:   time.Now(),
		CreatedBy:   actor,
	}
	err := uc.txRunner.Run(ctx, func(
		moveRepo repository.StockMoveRepository,
		levelRepo repository.StockLevelRepository,
	) error {
		if move.QtyDelta < 0 {
			level, err := levelRepo.GetForUpdate(in.ProductID, in.WarehouseID)
			if err != nil {
				return err
			}
			if level.Quantity+move.QtyDelta < 0 {
				return &domain.InsufficientStockError{
					ProductID:   in.ProductID,
					WarehouseID: in.WarehouseID,
					Available:   level.Quantity,
					Requested:   -move.QtyDelta,
				}
			}
		}
		return Apply(moveRepo, levelRepo, move)
	})
	if err != nil {
		return nil, err
	}
	return move, nil
}

// LossInput est une demande de perte (casse, vol, péremption...).
type LossInput struct {
	WarehouseID string
	ProductID   string
	Qty         int64
	Reason      string
	Note        string
}

// RecordLoss enregistre une perte : un seul mouvement OUT, refType LOSS.
// Note obligatoire quel que soit le motif. La sortie est refusée si elle
// dépasse le disponible.
func (uc *UseCase) RecordLoss(ctx context.Context, actor string, in LossInput) (*entity.StockMove, error) {
	if in.Qty <= 0 || !entity.ValidLossReason(in.Reason) {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.requireNote(in.Note); err != nil {
		return nil, err
	}
	if err := uc.checkProductAndWarehouse(in.ProductID, in.WarehouseID); err != nil {
		return nil, err
	}

	move := &entity.StockMove{
		ID:          uuid.New().String(),
		ProductID:   in.ProductID,
		WarehouseID: in.WarehouseID,
		Kind:        entity.MoveKindOUT,
		QtyDelta:    -in.Qty,
		RefType:     entity.RefTypeLoss,
		Reason:      in.Reason,
		Note:        strings.TrimSpace(in.Note),
		CreatedAt:   time.Now(),
		CreatedBy:   actor,
	}
	err := uc.txRunner.Run(ctx, func(
		moveRepo repository.StockMoveRepository,
		levelRepo repository.StockLevelRepository,
	) error {
		level, err := levelRepo.GetForUpdate(in.ProductID, in.WarehouseID)
		if err != nil {
			return err
		}
		if level.Quantity < in.Qty {
			return &domain.InsufficientStockError{
				ProductID:   in.ProductID,
				WarehouseID: in.WarehouseID,
				Available:   level.Quantity,
				Requested:   in.Qty,
			}
		}
		return Apply(moveRepo, levelRepo, move)
	})
	if err != nil {
		return nil, err
	}
	return move, nil
}

// ReturnInput est une demande de retour en stock.
type ReturnInput struct {
	WarehouseID string
	ProductID   string
	Qty         int64
	Reason      string
	Note        string
}

// RecordReturn enregistre un retour : un seul mouvement IN, refType RETURN.
// La note n'est exigée que pour le motif "Autre".
func (uc *UseCase) RecordReturn(ctx context.Context, actor string, in ReturnInput) (*entity.StockMove, error) {
	if in.Qty <= 0 || !entity.ValidReturnReason(in.Reason) {
		return nil, domain.ErrInvalidInput
	}
	if in.Reason == entity.ReturnReasonOther {
		if err := uc.requireNote(in.Note); err != nil {
			return nil, err
		}
	}
	if err := uc.checkProductAndWarehouse(in.ProductID, in.WarehouseID); err != nil {
		return nil, err
	}

	move := &entity.StockMove{
		ID:          uuid.New().String(),
		ProductID:   in.ProductID,
		WarehouseID: in.WarehouseID,
		Kind:        entity.MoveKindIN,
		QtyDelta:    in.Qty,
		RefType:     entity.RefTypeReturn,
		Reason:      in.Reason,
		Note:        strings.TrimSpace(in.Note),
		CreatedAt:   time.Now(),
		CreatedBy:   actor,
	}
	err := uc.txRunner.Run(ctx, func(
		moveRepo repository.StockMoveRepository,
		levelRepo repository.StockLevelRepository,
	) error {
		return Apply(moveRepo, levelRepo, move)
	})
	if err != nil {
		return nil, err
	}
	return move, nil
}

// TransferInput est une demande de transfert entre deux dépôts.
type TransferInput struct {
	ProductID       string
	FromWarehouseID string
	ToWarehouseID   string
	Qty             int64
}

// Transfer déplace une quantité d'un dépôt vers un autre : deux mouvements
// TRANSFER (OUT origine, IN destination) partageant le même refId, dans une
// seule transaction. Les deux lignes de niveau sont verrouillées dans un ordre
// stable (dépôt croissant) pour éviter l'interblocage avec un transfert inverse.
func (uc *UseCase) Transfer(ctx context.Context, actor string, in TransferInput) (string, error) {
	if in.Qty <= 0 || in.ProductID == "" ||
		in.FromWarehouseID == "" || in.ToWarehouseID == "" ||
		in.FromWarehouseID == in.ToWarehouseID {
		return "", domain.ErrInvalidInput
	}
	if err := uc.checkProductAndWarehouse(in.ProductID, in.FromWarehouseID); err != nil {
		return "", err
	}
	if wh, err := uc.warehouseRepo.GetByID(in.ToWarehouseID); err != nil || wh == nil {
		return "", domain.ErrNotFound
	}

	now := time.Now()
	transferID := uuid.New().String()
	err := uc.txRunner.Run(ctx, func(
		moveRepo repository.StockMoveRepository,
		levelRepo repository.StockLevelRepository,
	) error {
		// Verrouiller les deux lignes en ordre stable avant tout contrôle.
		order := []string{in.FromWarehouseID, in.ToWarehouseID}
		sort.Strings(order)
		levels := make(map[string]*entity.StockLevel, 2)
		for _, whID := range order {
			level, err := levelRepo.GetForUpdate(in.ProductID, whID)
			if err != nil {
				return err
			}
			levels[whID] = level
		}
		if src := levels[in.FromWarehouseID]; src.Quantity < in.Qty {
			return &domain.InsufficientStockError{
				ProductID:   in.ProductID,
				WarehouseID: in.FromWarehouseID,
				Available:   src.Quantity,
				Requested:   in.Qty,
			}
		}
		out := &entity.StockMove{
			ProductID:   in.ProductID,
			WarehouseID: in.FromWarehouseID,
			Kind:        entity.MoveKindTRANSFER,
			QtyDelta:    -in.Qty,
			RefType:     entity.RefTypeTransfer,
			RefID:       transferID,
			CreatedAt:   now,
			CreatedBy:   actor,
		}
		if err := Apply(moveRepo, levelRepo, out); err != nil {
			return err
		}
		inMove := &entity.StockMove{
			ProductID:   in.ProductID,
			WarehouseID: in.ToWarehouseID,
			Kind:        entity.MoveKindTRANSFER,
			QtyDelta:    in.Qty,
			RefType:     entity.RefTypeTransfer,
			RefID:       transferID,
			CreatedAt:   now,
			CreatedBy:   actor,
		}
		return Apply(moveRepo, levelRepo, inMove)
	})
	if err != nil {
		return "", err
	}
	return transferID, nil
}

// requireNote vérifie la présence et la longueur minimale de la note.
func (uc *UseCase) requireNote(note string) error {
	if utf8.RuneCountInString(strings.TrimSpace(note)) < uc.noteMinLen {
		return domain.ErrNoteRequired
	}
	return nil
}

// checkProductAndWarehouse vérifie l'existence du produit et du dépôt.
func (uc *UseCase) checkProductAndWarehouse(productID, warehouseID string) error {
	if productID == "" || warehouseID == "" {
		return domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(productID)
	if err != nil || product == nil {
		return domain.ErrNotFound
	}
	wh, err := uc.warehouseRepo.GetByID(warehouseID)
	if err != nil || wh == nil {
		return domain.ErrNotFound
	}
	return nil
}
