package counting

import (
	"context"
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

func (r *memMoveRepo) GetByID(id string) (*entity.StockMove, error) { return nil, nil }

func (r *memMoveRepo) List(filter repository.MoveFilter) ([]*entity.StockMove, error) {
	var out []*entity.StockMove
	for _, m := range r.moves {
		if filter.RefID != "" && m.RefID != filter.RefID {
			continue
		}
		out = append(out, m)
	}
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

func (r *memLevelRepo) key(p, w string) string { return p + "|" + w }

func (r *memLevelRepo) Get(productID, warehouseID string) (*entity.StockLevel, error) {
	if l, ok := r.levels[r.key(productID, warehouseID)]; ok {
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
	r.levels[r.key(level.ProductID, level.WarehouseID)] = &cp
	return nil
}

func (r *memLevelRepo) ListByWarehouse(warehouseID string) ([]*entity.StockLevel, error) {
	return nil, nil
}

type memCountRepo struct {
	counts map[string]*entity.InventoryCount
}

func cloneCount(c *entity.InventoryCount) *entity.InventoryCount {
	cp := *c
	cp.Lines = make([]entity.InventoryLine, len(c.Lines))
	for i, l := range c.Lines {
		cp.Lines[i] = l
		if l.CountedQty != nil {
			qty := *l.CountedQty
			cp.Lines[i].CountedQty = &qty
		}
	}
	return &cp
}

func (r *memCountRepo) Create(c *entity.InventoryCount) error {
	r.counts[c.ID] = cloneCount(c)
	return nil
}

func (r *memCountRepo) GetByID(id string) (*entity.InventoryCount, error) {
	if c, ok := r.counts[id]; ok {
		return cloneCount(c), nil
	}
	return nil, nil
}

func (r *memCountRepo) GetForUpdate(id string) (*entity.InventoryCount, error) {
	return r.GetByID(id)
}

func (r *memCountRepo) Update(c *entity.InventoryCount) error {
	r.counts[c.ID] = cloneCount(c)
	return nil
}

func (r *memCountRepo) List(status string, limit, offset int) ([]*entity.InventoryCount, error) {
	var out []*entity.InventoryCount
	for _, c := range r.counts {
		if status != "" && c.Status != status {
			continue
		}
		out = append(out, cloneCount(c))
	}
	return out, nil
}

type memProductRepo struct {
	products map[string]*entity.Product
	order    []string
}

func (r *memProductRepo) Create(p *entity.Product) error               { return nil }
func (r *memProductRepo) GetByID(id string) (*entity.Product, error)   { return r.products[id], nil }
func (r *memProductRepo) GetBySKU(sku string) (*entity.Product, error) { return nil, nil }

func (r *memProductRepo) ListActive(categoryID string) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, id := range r.order {
		p := r.products[id]
		if !p.Active {
			continue
		}
		if categoryID != "" && p.CategoryID != categoryID {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *memProductRepo) List(limit, offset int) ([]*entity.Product, error) { return nil, nil }
func (r *memProductRepo) Update(p *entity.Product) error                    { return nil }

type memWarehouseRepo struct {
	warehouses map[string]*entity.Warehouse
}

func (r *memWarehouseRepo) Create(wh *entity.Warehouse) error { return nil }
func (r *memWarehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	return r.warehouses[id], nil
}
func (r *memWarehouseRepo) List() ([]*entity.Warehouse, error) { return nil, nil }
func (r *memWarehouseRepo) Update(wh *entity.Warehouse) error  { return nil }

type memCategoryRepo struct {
	categories map[string]*entity.Category
}

func (r *memCategoryRepo) Create(c *entity.Category) error { return nil }
func (r *memCategoryRepo) GetByID(id string) (*entity.Category, error) {
	return r.categories[id], nil
}
func (r *memCategoryRepo) List() ([]*entity.Category, error) { return nil, nil }

type memTxRunner struct {
	moveRepo  *memMoveRepo
	levelRepo *memLevelRepo
	countRepo *memCountRepo
}

func (t *memTxRunner) RunCounting(_ context.Context, fn func(
	repository.StockMoveRepository,
	repository.StockLevelRepository,
	repository.InventoryCountRepository,
) error) error {
	return fn(t.moveRepo, t.levelRepo, t.countRepo)
}

// ── fixture ───────────────────────────────────────────────────────────────────

type countingFixture struct {
	uc     *UseCase
	moves  *memMoveRepo
	levels *memLevelRepo
	counts *memCountRepo
}

func newCountingFixture(t *testing.T) *countingFixture {
	t.Helper()
	moves := &memMoveRepo{}
	levels := &memLevelRepo{levels: make(map[string]*entity.StockLevel)}
	counts := &memCountRepo{counts: make(map[string]*entity.InventoryCount)}
	products := &memProductRepo{
		products: map[string]*entity.Product{
			"prod-1": {ID: "prod-1", SKU: "RIZ-25KG", CategoryID: "cat-sec", Active: true},
			"prod-2": {ID: "prod-2", SKU: "HUILE-5L", CategoryID: "cat-liq", Active: true},
			"prod-3": {ID: "prod-3", SKU: "SUCRE-1KG", CategoryID: "cat-sec", Active: false},
		},
		order: []string{"prod-1", "prod-2", "prod-3"},
	}
	warehouses := &memWarehouseRepo{warehouses: map[string]*entity.Warehouse{
		"wh-a": {ID: "wh-a", Code: "ABJ-01", Active: true},
	}}
	categories := &memCategoryRepo{categories: map[string]*entity.Category{
		"cat-sec": {ID: "cat-sec", Name: "Produits secs"},
		"cat-liq": {ID: "cat-liq", Name: "Liquides"},
	}}
	tx := &memTxRunner{moveRepo: moves, levelRepo: levels, countRepo: counts}
	return &countingFixture{
		uc:     NewUseCase(tx, counts, levels, products, warehouses, categories),
		moves:  moves,
		levels: levels,
		counts: counts,
	}
}

func (f *countingFixture) seed(productID, warehouseID string, qty int64) {
	f.levels.levels[f.levels.key(productID, warehouseID)] = &entity.StockLevel{
		ProductID:   productID,
		WarehouseID: warehouseID,
		Quantity:    qty,
		UpdatedAt:   time.Now(),
	}
	f.moves.moves = append(f.moves.moves, &entity.StockMove{
		ID:          "seed-" + productID,
		ProductID:   productID,
		WarehouseID: warehouseID,
		Kind:        entity.MoveKindIN,
		QtyDelta:    qty,
		RefType:     entity.RefTypePurchaseReceipt,
		RefID:       "seed",
		CreatedAt:   time.Now(),
	})
}

// ── tests ─────────────────────────────────────────────────────────────────────

func TestCreateInventory(t *testing.T) {
	ctx := context.Background()

	t.Run("FULL fige une ligne par produit actif", func(t *testing.T) {
		f := newCountingFixture(t)
		f.seed("prod-1", "wh-a", 50)
		f.seed("prod-2", "wh-a", 12)

		count, err := f.uc.Create(ctx, "wh-a", entity.InventoryModeFull, "")
		require.NoError(t, err)
		assert.Equal(t, entity.InventoryStatusDraft, count.Status)
		require.Len(t, count.Lines, 2, "le produit inactif est hors périmètre")
		assert.Equal(t, int64(50), count.Line("prod-1").ExpectedQty)
		assert.Equal(t, int64(12), count.Line("prod-2").ExpectedQty)
	})

	t.Run("CATEGORY limite le périmètre et exige la catégorie", func(t *testing.T) {
		f := newCountingFixture(t)
		f.seed("prod-1", "wh-a", 50)
		f.seed("prod-2", "wh-a", 12)

		count, err := f.uc.Create(ctx, "wh-a", entity.InventoryModeCategory, "cat-sec")
		require.NoError(t, err)
		require.Len(t, count.Lines, 1)
		assert.Equal(t, "prod-1", count.Lines[0].ProductID)

		_, err = f.uc.Create(ctx, "wh-a", entity.InventoryModeCategory, "")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("FREE démarre sans ligne", func(t *testing.T) {
		f := newCountingFixture(t)
		count, err := f.uc.Create(ctx, "wh-a", entity.InventoryModeFree, "")
		require.NoError(t, err)
		assert.Empty(t, count.Lines)
	})

	t.Run("mode inconnu refusé", func(t *testing.T) {
		f := newCountingFixture(t)
		_, err := f.uc.Create(ctx, "wh-a", "PARTIEL", "")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestAddLine(t *testing.T) {
	ctx := context.Background()

	t.Run("ajout avec attendu figé à l'instant de l'ajout", func(t *testing.T) {
		f := newCountingFixture(t)
		f.seed("prod-1", "wh-a", 30)
		count, err := f.uc.Create(ctx, "wh-a", entity.InventoryModeFree, "")
		require.NoError(t, err)

		count, err = f.uc.AddLine(ctx, count.ID, "prod-1")
		require.NoError(t, err)
		require.Len(t, count.Lines, 1)
		assert.Equal(t, int64(30), count.Lines[0].ExpectedQty)

		_, err = f.uc.AddLine(ctx, count.ID, "prod-1")
		assert.ErrorIs(t, err, domain.ErrDuplicate)
	})

	t.Run("refusé hors mode FREE", func(t *testing.T) {
		f := newCountingFixture(t)
		count, err := f.uc.Create(ctx, "wh-a", entity.InventoryModeFull, "")
		require.NoError(t, err)

		_, err = f.uc.AddLine(ctx, count.ID, "prod-1")
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})
}

func TestSetCounted(t *testing.T) {
	ctx := context.Background()
	f := newCountingFixture(t)
	f.seed("prod-1", "wh-a", 50)
	count, err := f.uc.Create(ctx, "wh-a", entity.InventoryModeFull, "")
	require.NoError(t, err)

	count, err = f.uc.SetCounted(ctx, count.ID, "prod-1", 47)
	require.NoError(t, err)
	require.NotNil(t, count.Line("prod-1").CountedQty)
	assert.Equal(t, int64(47), *count.Line("prod-1").CountedQty)
	assert.Equal(t, int64(-3), count.Line("prod-1").Delta())

	_, err = f.uc.SetCounted(ctx, count.ID, "prod-1", -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.SetCounted(ctx, count.ID, "prod-absent", 5)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPostInventory(t *testing.T) {
	ctx := context.Background()

	t.Run("un ADJUST par écart, rien pour les lignes justes", func(t *testing.T) {
		f := newCountingFixture(t)
		f.seed("prod-1", "wh-a", 50)
		f.seed("prod-2", "wh-a", 12)
		count, err := f.uc.Create(ctx, "wh-a", entity.InventoryModeFull, "")
		require.NoError(t, err)

		_, err = f.uc.SetCounted(ctx, count.ID, "prod-1", 47)
		require.NoError(t, err)
		_, err = f.uc.SetCounted(ctx, count.ID, "prod-2", 12)
		require.NoError(t, err)

		posted, err := f.uc.Post(ctx, "user-1", count.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.InventoryStatusPosted, posted.Status)

		adjusts, _ := f.moves.List(repository.MoveFilter{RefID: count.ID})
		require.Len(t, adjusts, 1, "la ligne sans écart n'émet rien")
		assert.Equal(t, entity.MoveKindADJUST, adjusts[0].Kind)
		assert.Equal(t, int64(-3), adjusts[0].QtyDelta)
		assert.Equal(t, entity.RefTypeInventory, adjusts[0].RefType)

		level, _ := f.levels.Get("prod-1", "wh-a")
		assert.Equal(t, int64(47), level.Quantity)
		sum, _ := f.moves.SumDeltas("prod-1", "wh-a")
		assert.Equal(t, level.Quantity, sum)

		level2, _ := f.levels.Get("prod-2", "wh-a")
		assert.Equal(t, int64(12), level2.Quantity)
	})

	t.Run("refusé tant que tout n'est pas compté", func(t *testing.T) {
		f := newCountingFixture(t)
		f.seed("prod-1", "wh-a", 50)
		f.seed("prod-2", "wh-a", 12)
		count, err := f.uc.Create(ctx, "wh-a", entity.InventoryModeFull, "")
		require.NoError(t, err)

		_, err = f.uc.SetCounted(ctx, count.ID, "prod-1", 47)
		require.NoError(t, err)

		_, err = f.uc.Post(ctx, "user-1", count.ID)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		adjusts, _ := f.moves.List(repository.MoveFilter{RefID: count.ID})
		assert.Empty(t, adjusts)
	})

	t.Run("POSTED est terminal", func(t *testing.T) {
		f := newCountingFixture(t)
		f.seed("prod-1", "wh-a", 10)
		count, err := f.uc.Create(ctx, "wh-a", entity.InventoryModeFull, "")
		require.NoError(t, err)
		_, err = f.uc.SetCounted(ctx, count.ID, "prod-1", 10)
		require.NoError(t, err)
		_, err = f.uc.SetCounted(ctx, count.ID, "prod-2", 0)
		require.NoError(t, err)
		_, err = f.uc.Post(ctx, "user-1", count.ID)
		require.NoError(t, err)

		_, err = f.uc.Post(ctx, "user-1", count.ID)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		_, err = f.uc.SetCounted(ctx, count.ID, "prod-1", 9)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})
}

func TestCancelInventory(t *testing.T) {
	ctx := context.Background()
	f := newCountingFixture(t)
	count, err := f.uc.Create(ctx, "wh-a", entity.InventoryModeFree, "")
	require.NoError(t, err)

	cancelled, err := f.uc.Cancel(ctx, count.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.InventoryStatusCancelled, cancelled.Status)
	assert.Empty(t, f.moves.moves)

	_, err = f.uc.Cancel(ctx, count.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}
