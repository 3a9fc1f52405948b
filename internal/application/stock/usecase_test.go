package stock

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locauto225/gestock-api/internal/domain"
	"github.com/locauto225/gestock-api/internal/domain/entity"
	"github.com/locauto225/gestock-api/internal/domain/repository"
)

// ── fakes en mémoire ──────────────────────────────────────────────────────────

type memMoveRepo struct {
	moves []*entity.StockMove
}

func (r *memMoveRepo) Create(m *entity.StockMove) error {
	cp := *m
	r.moves = append(r.moves, &cp)
	return nil
}

func (r *memMoveRepo) GetByID(id string) (*entity.StockMove, error) {
	for _, m := range r.moves {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memMoveRepo) List(filter repository.MoveFilter) ([]*entity.StockMove, error) {
	var out []*entity.StockMove
	for _, m := range r.moves {
		if filter.WarehouseID != "" && m.WarehouseID != filter.WarehouseID {
			continue
		}
		if filter.ProductID != "" && m.ProductID != filter.ProductID {
			continue
		}
		if filter.Kind != "" && m.Kind != filter.Kind {
			continue
		}
		if filter.RefType != "" && m.RefType != filter.RefType {
			continue
		}
		if filter.RefID != "" && m.RefID != filter.RefID {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memMoveRepo) SumDeltas(productID, warehouseID string) (int64, error) {
	var sum int64
	for _, m := range r.moves {
		if m.ProductID == productID && m.WarehouseID == warehouseID {
			sum += m.QtyDelta
		}
	}
	return sum, nil
}

type memLevelRepo struct {
	levels map[string]*entity.StockLevel
}

func newMemLevelRepo() *memLevelRepo {
	return &memLevelRepo{levels: make(map[string]*entity.StockLevel)}
}

func levelKey(productID, warehouseID string) string {
	return productID + "|" + warehouseID
}

func (r *memLevelRepo) Get(productID, warehouseID string) (*entity.StockLevel, error) {
	if l, ok := r.levels[levelKey(productID, warehouseID)]; ok {
		cp := *l
		return &cp, nil
	}
	return &entity.StockLevel{ProductID: productID, WarehouseID: warehouseID}, nil
}

func (r *memLevelRepo) GetForUpdate(productID, warehouseID string) (*entity.StockLevel, error) {
	return r.Get(productID, warehouseID)
}

func (r *memLevelRepo) Upsert(level *entity.StockLevel) error {
	cp := *level
	r.levels[levelKey(level.ProductID, level.WarehouseID)] = &cp
	return nil
}

func (r *memLevelRepo) ListByWarehouse(warehouseID string) ([]*entity.StockLevel, error) {
	var out []*entity.StockLevel
	for _, l := range r.levels {
		if l.WarehouseID == warehouseID {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out, nil
}

type memProductRepo struct {
	products map[string]*entity.Product
}

func (r *memProductRepo) Create(p *entity.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *memProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.products[id], nil
}

func (r *memProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	for _, p := range r.products {
		if p.SKU == sku {
			return p, nil
		}
	}
	return nil, nil
}

func (r *memProductRepo) ListActive(categoryID string) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.products {
		if !p.Active {
			continue
		}
		if categoryID != "" && p.CategoryID != categoryID {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out, nil
}

func (r *memProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	return r.ListActive("")
}

func (r *memProductRepo) Update(p *entity.Product) error {
	r.products[p.ID] = p
	return nil
}

type memWarehouseRepo struct {
	warehouses map[string]*entity.Warehouse
}

func (r *memWarehouseRepo) Create(wh *entity.Warehouse) error {
	r.warehouses[wh.ID] = wh
	return nil
}

func (r *memWarehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	return r.warehouses[id], nil
}

func (r *memWarehouseRepo) List() ([]*entity.Warehouse, error) {
	var out []*entity.Warehouse
	for _, wh := range r.warehouses {
		out = append(out, wh)
	}
	return out, nil
}

func (r *memWarehouseRepo) Update(wh *entity.Warehouse) error {
	r.warehouses[wh.ID] = wh
	return nil
}

// memTxRunner exécute la fonction directement sur les fakes, sans transaction.
type memTxRunner struct {
	moveRepo  *memMoveRepo
	levelRepo *memLevelRepo
}

func (t *memTxRunner) Run(_ context.Context, fn func(
	repository.StockMoveRepository,
	repository.StockLevelRepository,
) error) error {
	return fn(t.moveRepo, t.levelRepo)
}

// ── fixture ───────────────────────────────────────────────────────────────────

type stockFixture struct {
	uc     *UseCase
	moves  *memMoveRepo
	levels *memLevelRepo
}

func newStockFixture(t *testing.T) *stockFixture {
	t.Helper()
	moves := &memMoveRepo{}
	levels := newMemLevelRepo()
	products := &memProductRepo{products: map[string]*entity.Product{
		"prod-1": {ID: "prod-1", SKU: "RIZ-25KG", Name: "Riz parfumé 25 kg", Active: true},
		"prod-2": {ID: "prod-2", SKU: "HUILE-5L", Name: "Huile végétale 5 L", Active: true},
	}}
	warehouses := &memWarehouseRepo{warehouses: map[string]*entity.Warehouse{
		"wh-a": {ID: "wh-a", Code: "ABJ-01", Name: "Dépôt Abidjan", Active: true},
		"wh-b": {ID: "wh-b", Code: "BKE-01", Name: "Magasin Bouaké", Active: true},
	}}
	tx := &memTxRunner{moveRepo: moves, levelRepo: levels}
	uc := NewUseCase(tx, moves, levels, products, warehouses, 5)
	return &stockFixture{uc: uc, moves: moves, levels: levels}
}

func (f *stockFixture) seed(t *testing.T, productID, warehouseID string, qty int64) {
	t.Helper()
	require.NoError(t, f.levels.Upsert(&entity.StockLevel{
		ProductID:   productID,
		WarehouseID: warehouseID,
		Quantity:    qty,
		UpdatedAt:   time.Now(),
	}))
	require.NoError(t, f.moves.Create(&entity.StockMove{
		ID:          "seed-" + productID + "-" + warehouseID,
		ProductID:   productID,
		WarehouseID: warehouseID,
		Kind:        entity.MoveKindIN,
		QtyDelta:    qty,
		RefType:     entity.RefTypeManual,
		CreatedAt:   time.Now(),
	}))
}

// assertLedgerConsistent vérifie que la somme du journal égale l'agrégat.
func (f *stockFixture) assertLedgerConsistent(t *testing.T, productID, warehouseID string) {
	t.Helper()
	sum, err := f.moves.SumDeltas(productID, warehouseID)
	require.NoError(t, err)
	level, err := f.levels.Get(productID, warehouseID)
	require.NoError(t, err)
	assert.Equal(t, sum, level.Quantity, "le journal et l'agrégat divergent")
}

// ── tests ─────────────────────────────────────────────────────────────────────

func TestRegisterAdjustment(t *testing.T) {
	ctx := context.Background()

	t.Run("delta positif crée un mouvement ADJUST et met l'agrégat à jour", func(t *testing.T) {
		f := newStockFixture(t)
		move, err := f.uc.RegisterAdjustment(ctx, "user-1", AdjustmentInput{
			WarehouseID: "wh-a",
			ProductID:   "prod-1",
			QtyDelta:    10,
			Note:        "comptage initial du dépôt",
		})
		require.NoError(t, err)
		assert.Equal(t, entity.MoveKindADJUST, move.Kind)
		assert.Equal(t, entity.RefTypeManual, move.RefType)
		assert.Equal(t, "user-1", move.CreatedBy)

		qty, err := f.uc.Available(ctx, "prod-1", "wh-a")
		require.NoError(t, err)
		assert.Equal(t, int64(10), qty)
		f.assertLedgerConsistent(t, "prod-1", "wh-a")
	})

	t.Run("note absente ou trop courte refusée", func(t *testing.T) {
		f := newStockFixture(t)
		_, err := f.uc.RegisterAdjustment(ctx, "user-1", AdjustmentInput{
			WarehouseID: "wh-a", ProductID: "prod-1", QtyDelta: 5, Note: "ok",
		})
		assert.ErrorIs(t, err, domain.ErrNoteRequired)

		_, err = f.uc.RegisterAdjustment(ctx, "user-1", AdjustmentInput{
			WarehouseID: "wh-a", ProductID: "prod-1", QtyDelta: 5, Note: "   ",
		})
		assert.ErrorIs(t, err, domain.ErrNoteRequired)
		assert.Empty(t, f.moves.moves)
	})

	t.Run("delta nul refusé", func(t *testing.T) {
		f := newStockFixture(t)
		_, err := f.uc.RegisterAdjustment(ctx, "user-1", AdjustmentInput{
			WarehouseID: "wh-a", ProductID: "prod-1", QtyDelta: 0, Note: "note valide",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("delta négatif au-delà du disponible refusé avec les chiffres", func(t *testing.T) {
		f := newStockFixture(t)
		f.seed(t, "prod-1", "wh-a", 3)

		_, err := f.uc.RegisterAdjustment(ctx, "user-1", AdjustmentInput{
			WarehouseID: "wh-a", ProductID: "prod-1", QtyDelta: -5, Note: "casse constatée",
		})
		var insufficientErr *domain.InsufficientStockError
		require.ErrorAs(t, err, &insufficientErr)
		assert.Equal(t, int64(3), insufficientErr.Available)
		assert.Equal(t, int64(5), insufficientErr.Requested)
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)

		// Aucune écriture : le journal ne contient que le seed.
		assert.Len(t, f.moves.moves, 1)
		f.assertLedgerConsistent(t, "prod-1", "wh-a")
	})

	t.Run("produit inconnu refusé", func(t *testing.T) {
		f := newStockFixture(t)
		_, err := f.uc.RegisterAdjustment(ctx, "user-1", AdjustmentInput{
			WarehouseID: "wh-a", ProductID: "prod-inconnu", QtyDelta: 5, Note: "note valide",
		})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestRecordLoss(t *testing.T) {
	ctx := context.Background()

	t.Run("perte valide émet un OUT avec motif", func(t *testing.T) {
		f := newStockFixture(t)
		f.seed(t, "prod-1", "wh-a", 20)

		move, err := f.uc.RecordLoss(ctx, "user-1", LossInput{
			WarehouseID: "wh-a", ProductID: "prod-1", Qty: 4,
			Reason: entity.LossReasonBreakage, Note: "cartons écrasés à la réception",
		})
		require.NoError(t, err)
		assert.Equal(t, entity.MoveKindOUT, move.Kind)
		assert.Equal(t, int64(-4), move.QtyDelta)
		assert.Equal(t, entity.RefTypeLoss, move.RefType)
		assert.Equal(t, entity.LossReasonBreakage, move.Reason)

		qty, _ := f.uc.Available(ctx, "prod-1", "wh-a")
		assert.Equal(t, int64(16), qty)
		f.assertLedgerConsistent(t, "prod-1", "wh-a")
	})

	t.Run("note obligatoire quel que soit le motif", func(t *testing.T) {
		f := newStockFixture(t)
		f.seed(t, "prod-1", "wh-a", 20)
		_, err := f.uc.RecordLoss(ctx, "user-1", LossInput{
			WarehouseID: "wh-a", ProductID: "prod-1", Qty: 1,
			Reason: entity.LossReasonTheft, Note: "",
		})
		assert.ErrorIs(t, err, domain.ErrNoteRequired)
	})

	t.Run("motif inconnu refusé", func(t *testing.T) {
		f := newStockFixture(t)
		_, err := f.uc.RecordLoss(ctx, "user-1", LossInput{
			WarehouseID: "wh-a", ProductID: "prod-1", Qty: 1,
			Reason: "Inondation", Note: "note valide",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("perte supérieure au disponible refusée", func(t *testing.T) {
		f := newStockFixture(t)
		f.seed(t, "prod-1", "wh-a", 2)
		_, err := f.uc.RecordLoss(ctx, "user-1", LossInput{
			WarehouseID: "wh-a", ProductID: "prod-1", Qty: 3,
			Reason: entity.LossReasonExpiry, Note: "lot périmé complet",
		})
		var insufficientErr *domain.InsufficientStockError
		require.ErrorAs(t, err, &insufficientErr)
		assert.Equal(t, int64(2), insufficientErr.Available)
		assert.Equal(t, int64(3), insufficientErr.Requested)
	})
}

func TestRecordReturn(t *testing.T) {
	ctx := context.Background()

	t.Run("retour client sans note accepté", func(t *testing.T) {
		f := newStockFixture(t)
		move, err := f.uc.RecordReturn(ctx, "user-1", ReturnInput{
			WarehouseID: "wh-a", ProductID: "prod-1", Qty: 5,
			Reason: entity.ReturnReasonCustomer,
		})
		require.NoError(t, err)
		assert.Equal(t, entity.MoveKindIN, move.Kind)
		assert.Equal(t, int64(5), move.QtyDelta)
		assert.Equal(t, entity.RefTypeReturn, move.RefType)

		qty, _ := f.uc.Available(ctx, "prod-1", "wh-a")
		assert.Equal(t, int64(5), qty)
		f.assertLedgerConsistent(t, "prod-1", "wh-a")
	})

	t.Run("motif Autre exige une note", func(t *testing.T) {
		f := newStockFixture(t)
		_, err := f.uc.RecordReturn(ctx, "user-1", ReturnInput{
			WarehouseID: "wh-a", ProductID: "prod-1", Qty: 1,
			Reason: entity.ReturnReasonOther,
		})
		assert.ErrorIs(t, err, domain.ErrNoteRequired)

		_, err = f.uc.RecordReturn(ctx, "user-1", ReturnInput{
			WarehouseID: "wh-a", ProductID: "prod-1", Qty: 1,
			Reason: entity.ReturnReasonOther, Note: "reprise suite litige transporteur",
		})
		assert.NoError(t, err)
	})
}

func TestTransfer(t *testing.T) {
	ctx := context.Background()

	t.Run("transfert valide émet deux mouvements appariés", func(t *testing.T) {
		f := newStockFixture(t)
		f.seed(t, "prod-1", "wh-a", 10)

		transferID, err := f.uc.Transfer(ctx, "user-1", TransferInput{
			ProductID: "prod-1", FromWarehouseID: "wh-a", ToWarehouseID: "wh-b", Qty: 4,
		})
		require.NoError(t, err)
		require.NotEmpty(t, transferID)

		pair, err := f.moves.List(repository.MoveFilter{RefID: transferID})
		require.NoError(t, err)
		require.Len(t, pair, 2)
		var total int64
		for _, m := range pair {
			assert.Equal(t, entity.MoveKindTRANSFER, m.Kind)
			assert.Equal(t, entity.RefTypeTransfer, m.RefType)
			total += m.QtyDelta
		}
		assert.Zero(t, total, "les deltas d'un transfert doivent s'annuler")

		src, _ := f.uc.Available(ctx, "prod-1", "wh-a")
		dst, _ := f.uc.Available(ctx, "prod-1", "wh-b")
		assert.Equal(t, int64(6), src)
		assert.Equal(t, int64(4), dst)
		f.assertLedgerConsistent(t, "prod-1", "wh-a")
		f.assertLedgerConsistent(t, "prod-1", "wh-b")
	})

	t.Run("transfert au-delà du disponible refusé sans aucune écriture", func(t *testing.T) {
		f := newStockFixture(t)
		f.seed(t, "prod-1", "wh-a", 3)

		_, err := f.uc.Transfer(ctx, "user-1", TransferInput{
			ProductID: "prod-1", FromWarehouseID: "wh-a", ToWarehouseID: "wh-b", Qty: 5,
		})
		assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

		src, _ := f.uc.Available(ctx, "prod-1", "wh-a")
		dst, _ := f.uc.Available(ctx, "prod-1", "wh-b")
		assert.Equal(t, int64(3), src)
		assert.Zero(t, dst)
	})

	t.Run("même dépôt des deux côtés refusé", func(t *testing.T) {
		f := newStockFixture(t)
		_, err := f.uc.Transfer(ctx, "user-1", TransferInput{
			ProductID: "prod-1", FromWarehouseID: "wh-a", ToWarehouseID: "wh-a", Qty: 1,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestApply(t *testing.T) {
	t.Run("delta nul refusé par le chemin d'écriture", func(t *testing.T) {
		moves := &memMoveRepo{}
		levels := newMemLevelRepo()
		err := Apply(moves, levels, &entity.StockMove{
			ProductID: "prod-1", WarehouseID: "wh-a", QtyDelta: 0,
			Kind: entity.MoveKindADJUST, RefType: entity.RefTypeManual,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("un ID est attribué si absent", func(t *testing.T) {
		moves := &memMoveRepo{}
		levels := newMemLevelRepo()
		move := &entity.StockMove{
			ProductID: "prod-1", WarehouseID: "wh-a", QtyDelta: 7,
			Kind: entity.MoveKindIN, RefType: entity.RefTypeManual,
			CreatedAt: time.Now(),
		}
		require.NoError(t, Apply(moves, levels, move))
		assert.NotEmpty(t, move.ID)

		level, err := levels.Get("prod-1", "wh-a")
		require.NoError(t, err)
		assert.Equal(t, int64(7), level.Quantity)
	})
}

func TestListMoves(t *testing.T) {
	ctx := context.Background()
	f := newStockFixture(t)
	f.seed(t, "prod-1", "wh-a", 50)

	for _, note := range []string{"premier ajustement", "second ajustement"} {
		_, err := f.uc.RegisterAdjustment(ctx, "user-1", AdjustmentInput{
			WarehouseID: "wh-a", ProductID: "prod-1", QtyDelta: 1, Note: note,
		})
		require.NoError(t, err)
	}

	moves, err := f.uc.ListMoves(ctx, repository.MoveFilter{
		WarehouseID: "wh-a", Kind: entity.MoveKindADJUST,
	})
	require.NoError(t, err)
	assert.Len(t, moves, 2)
	for _, m := range moves {
		assert.True(t, strings.Contains(m.Note, "ajustement"))
	}
}
