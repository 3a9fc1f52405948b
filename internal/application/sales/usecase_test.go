package sales

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
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

type memSaleRepo struct {
	sales     map[string]*entity.Sale
	updateErr error
}

func cloneSale(s *entity.Sale) *entity.Sale {
	cp := *s
	cp.Lines = append([]entity.SaleLine(nil), s.Lines...)
	return &cp
}

func (r *memSaleRepo) Create(s *entity.Sale) error {
	r.sales[s.ID] = cloneSale(s)
	return nil
}

func (r *memSaleRepo) GetByID(id string) (*entity.Sale, error) {
	if s, ok := r.sales[id]; ok {
		return cloneSale(s), nil
	}
	return nil, nil
}

func (r *memSaleRepo) GetForUpdate(id string) (*entity.Sale, error) { return r.GetByID(id) }

func (r *memSaleRepo) Update(s *entity.Sale) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.sales[s.ID] = cloneSale(s)
	return nil
}

func (r *memSaleRepo) List(status string, limit, offset int) ([]*entity.Sale, error) {
	var out []*entity.Sale
	for _, s := range r.sales {
		if status != "" && s.Status != status {
			continue
		}
		out = append(out, cloneSale(s))
	}
	return out, nil
}

type memProductRepo struct {
	products map[string]*entity.Product
}

func (r *memProductRepo) Create(p *entity.Product) error                    { return nil }
func (r *memProductRepo) GetByID(id string) (*entity.Product, error)        { return r.products[id], nil }
func (r *memProductRepo) GetBySKU(sku string) (*entity.Product, error)      { return nil, nil }
func (r *memProductRepo) ListActive(string) ([]*entity.Product, error)      { return nil, nil }
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

type memCustomerRepo struct {
	customers map[string]*entity.Customer
}

func (r *memCustomerRepo) Create(c *entity.Customer) error             { return nil }
func (r *memCustomerRepo) GetByID(id string) (*entity.Customer, error) { return r.customers[id], nil }
func (r *memCustomerRepo) List() ([]*entity.Customer, error)           { return nil, nil }

type memTxRunner struct {
	moveRepo  *memMoveRepo
	levelRepo *memLevelRepo
	saleRepo  *memSaleRepo
}

func (t *memTxRunner) RunSales(_ context.Context, fn func(
	repository.StockMoveRepository,
	repository.StockLevelRepository,
	repository.SaleRepository,
) error) error {
	return fn(t.moveRepo, t.levelRepo, t.saleRepo)
}

// fakeDocGenerator rend un document déterministe, ou échoue sur demande.
type fakeDocGenerator struct {
	fail  bool
	calls int
}

func (g *fakeDocGenerator) Generate(_ context.Context, sale *entity.Sale, _ *entity.Customer, _ map[string]*entity.Product) (*Document, error) {
	g.calls++
	if g.fail {
		return nil, errors.New("moteur de rendu indisponible")
	}
	return &Document{Ref: "FAC-" + sale.Number, PDF: []byte("%PDF-1.4")}, nil
}

// ── fixture ───────────────────────────────────────────────────────────────────

type salesFixture struct {
	uc     *UseCase
	moves  *memMoveRepo
	levels *memLevelRepo
	sales  *memSaleRepo
	docGen *fakeDocGenerator
}

func newSalesFixture(t *testing.T) *salesFixture {
	t.Helper()
	moves := &memMoveRepo{}
	levels := &memLevelRepo{levels: make(map[string]*entity.StockLevel)}
	saleRepo := &memSaleRepo{sales: make(map[string]*entity.Sale)}
	products := &memProductRepo{products: map[string]*entity.Product{
		"prod-1": {ID: "prod-1", SKU: "RIZ-25KG", Name: "Riz parfumé 25 kg", UnitPrice: decimal.NewFromInt(12500), Active: true},
		"prod-2": {ID: "prod-2", SKU: "HUILE-5L", Name: "Huile végétale 5 L", UnitPrice: decimal.NewFromInt(8000), Active: true},
	}}
	warehouses := &memWarehouseRepo{warehouses: map[string]*entity.Warehouse{
		"wh-a": {ID: "wh-a", Code: "ABJ-01", Active: true},
	}}
	customers := &memCustomerRepo{customers: map[string]*entity.Customer{
		"cust-1": {ID: "cust-1", Name: "Ets Kouadio et Frères"},
	}}
	docGen := &fakeDocGenerator{}
	tx := &memTxRunner{moveRepo: moves, levelRepo: levels, saleRepo: saleRepo}
	return &salesFixture{
		uc:     NewUseCase(tx, saleRepo, products, warehouses, customers, docGen),
		moves:  moves,
		levels: levels,
		sales:  saleRepo,
		docGen: docGen,
	}
}

// seed pose un niveau et le mouvement d'origine correspondant, pour que la
// somme du journal reste égale à l'agrégat.
func (f *salesFixture) seed(productID, warehouseID string, qty int64) {
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

func (f *salesFixture) available(t *testing.T, productID, warehouseID string) int64 {
	t.Helper()
	level, err := f.levels.Get(productID, warehouseID)
	require.NoError(t, err)
	sum, err := f.moves.SumDeltas(productID, warehouseID)
	require.NoError(t, err)
	require.Equal(t, sum, level.Quantity, "journal et agrégat divergent pour %s", productID)
	return level.Quantity
}

func (f *salesFixture) newDraftSale(t *testing.T, lines []CreateLineInput) *entity.Sale {
	t.Helper()
	sale, err := f.uc.Create(context.Background(), CreateInput{
		CustomerID:  "cust-1",
		WarehouseID: "wh-a",
		Channel:     entity.SaleChannelDepot,
		Fulfillment: entity.FulfillmentDelivery,
		Lines:       lines,
	})
	require.NoError(t, err)
	return sale
}

// ── tests ─────────────────────────────────────────────────────────────────────

func TestCreateSale(t *testing.T) {
	ctx := context.Background()

	t.Run("création en DRAFT sans effet sur le stock", func(t *testing.T) {
		f := newSalesFixture(t)
		f.seed("prod-1", "wh-a", 10)
		sale := f.newDraftSale(t, []CreateLineInput{{ProductID: "prod-1", Qty: 4}})
		assert.Equal(t, entity.SaleStatusDraft, sale.Status)
		assert.Equal(t, entity.DocumentStatusNone, sale.DocumentStatus)
		assert.Equal(t, int64(10), f.available(t, "prod-1", "wh-a"))
	})

	t.Run("prix à zéro remplacé par le prix du produit", func(t *testing.T) {
		f := newSalesFixture(t)
		sale := f.newDraftSale(t, []CreateLineInput{{ProductID: "prod-1", Qty: 2}})
		assert.True(t, sale.Lines[0].UnitPrice.Equal(decimal.NewFromInt(12500)))
		assert.True(t, sale.Total().Equal(decimal.NewFromInt(25000)))
	})

	t.Run("canal inconnu refusé", func(t *testing.T) {
		f := newSalesFixture(t)
		_, err := f.uc.Create(ctx, CreateInput{
			CustomerID:  "cust-1",
			WarehouseID: "wh-a",
			Channel:     "MARCHE",
			Fulfillment: entity.FulfillmentPickup,
			Lines:       []CreateLineInput{{ProductID: "prod-1", Qty: 1}},
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestPost(t *testing.T) {
	ctx := context.Background()

	t.Run("validation décrémente chaque ligne une seule fois", func(t *testing.T) {
		f := newSalesFixture(t)
		f.seed("prod-1", "wh-a", 10)
		f.seed("prod-2", "wh-a", 6)
		sale := f.newDraftSale(t, []CreateLineInput{
			{ProductID: "prod-1", Qty: 4},
			{ProductID: "prod-2", Qty: 6},
		})

		result, err := f.uc.Post(ctx, "user-1", sale.ID)
		require.NoError(t, err)
		require.NoError(t, result.DocumentErr)
		assert.Equal(t, entity.SaleStatusPosted, result.Sale.Status)
		assert.NotNil(t, result.Sale.PostedAt)
		assert.Equal(t, entity.DocumentStatusGenerated, result.Sale.DocumentStatus)
		assert.Equal(t, "FAC-"+sale.Number, result.Sale.DocumentRef)

		assert.Equal(t, int64(6), f.available(t, "prod-1", "wh-a"))
		assert.Equal(t, int64(0), f.available(t, "prod-2", "wh-a"))

		outs, _ := f.moves.List(repository.MoveFilter{RefID: sale.ID})
		assert.Len(t, outs, 2)
	})

	t.Run("survente refusée avec les chiffres, aucune écriture", func(t *testing.T) {
		f := newSalesFixture(t)
		f.seed("prod-1", "wh-a", 7)
		sale := f.newDraftSale(t, []CreateLineInput{{ProductID: "prod-1", Qty: 10}})

		_, err := f.uc.Post(ctx, "user-1", sale.ID)
		var stockErr *domain.InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, int64(7), stockErr.Available)
		assert.Equal(t, int64(10), stockErr.Requested)
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)

		assert.Equal(t, int64(7), f.available(t, "prod-1", "wh-a"))
		got, _ := f.sales.GetByID(sale.ID)
		assert.Equal(t, entity.SaleStatusDraft, got.Status)
	})

	t.Run("une ligne en échec bloque toute la vente", func(t *testing.T) {
		f := newSalesFixture(t)
		f.seed("prod-1", "wh-a", 10)
		f.seed("prod-2", "wh-a", 2)
		sale := f.newDraftSale(t, []CreateLineInput{
			{ProductID: "prod-1", Qty: 4},
			{ProductID: "prod-2", Qty: 5},
		})

		_, err := f.uc.Post(ctx, "user-1", sale.ID)
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)

		assert.Equal(t, int64(10), f.available(t, "prod-1", "wh-a"))
		assert.Equal(t, int64(2), f.available(t, "prod-2", "wh-a"))
	})

	t.Run("POSTED est terminal", func(t *testing.T) {
		f := newSalesFixture(t)
		f.seed("prod-1", "wh-a", 10)
		sale := f.newDraftSale(t, []CreateLineInput{{ProductID: "prod-1", Qty: 1}})
		_, err := f.uc.Post(ctx, "user-1", sale.ID)
		require.NoError(t, err)

		_, err = f.uc.Post(ctx, "user-1", sale.ID)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		_, err = f.uc.Cancel(ctx, sale.ID)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)

		// Pas de second décrément.
		assert.Equal(t, int64(9), f.available(t, "prod-1", "wh-a"))
	})

	t.Run("un retour rend le stock vendable immédiatement", func(t *testing.T) {
		f := newSalesFixture(t)
		f.seed("prod-1", "wh-a", 0)

		// Retour client de 5 unités, enregistré directement au journal.
		level, _ := f.levels.GetForUpdate("prod-1", "wh-a")
		level.Quantity += 5
		require.NoError(t, f.levels.Upsert(level))
		f.moves.moves = append(f.moves.moves, &entity.StockMove{
			ID: "ret-1", ProductID: "prod-1", WarehouseID: "wh-a",
			Kind: entity.MoveKindIN, QtyDelta: 5,
			RefType: entity.RefTypeReturn, RefID: "ret-1", CreatedAt: time.Now(),
		})

		sale := f.newDraftSale(t, []CreateLineInput{{ProductID: "prod-1", Qty: 5}})
		_, err := f.uc.Post(ctx, "user-1", sale.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), f.available(t, "prod-1", "wh-a"))
	})
}

func TestPostDocumentFailure(t *testing.T) {
	ctx := context.Background()
	f := newSalesFixture(t)
	f.seed("prod-1", "wh-a", 10)
	f.docGen.fail = true
	sale := f.newDraftSale(t, []CreateLineInput{{ProductID: "prod-1", Qty: 3}})

	result, err := f.uc.Post(ctx, "user-1", sale.ID)
	require.NoError(t, err, "l'échec du document ne remet pas en cause la validation")
	require.Error(t, result.DocumentErr)

	// Le stock est sorti et la vente reste POSTED, document en erreur.
	assert.Equal(t, int64(7), f.available(t, "prod-1", "wh-a"))
	got, _ := f.sales.GetByID(sale.ID)
	assert.Equal(t, entity.SaleStatusPosted, got.Status)
	assert.Equal(t, entity.DocumentStatusError, got.DocumentStatus)

	// La regénération répare sans retoucher le stock.
	f.docGen.fail = false
	regen, err := f.uc.RegenerateDocument(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.DocumentStatusGenerated, regen.DocumentStatus)
	assert.Equal(t, int64(7), f.available(t, "prod-1", "wh-a"))
}

func TestDocumentFailureStatusWriteFailure(t *testing.T) {
	ctx := context.Background()
	f := newSalesFixture(t)
	f.seed("prod-1", "wh-a", 10)
	sale := f.newDraftSale(t, []CreateLineInput{{ProductID: "prod-1", Qty: 3}})
	_, err := f.uc.Post(ctx, "user-1", sale.ID)
	require.NoError(t, err)

	// Le générateur et l'écriture du statut ERROR échouent : l'erreur doit
	// porter les deux causes, aucune ne doit être avalée.
	f.docGen.fail = true
	f.sales.updateErr = errors.New("dépôt de données indisponible")
	_, err = f.uc.RegenerateDocument(ctx, sale.ID)
	require.Error(t, err)
	assert.ErrorContains(t, err, "moteur de rendu indisponible")
	assert.ErrorContains(t, err, "dépôt de données indisponible")
}

func TestAdvanceDelivery(t *testing.T) {
	ctx := context.Background()

	postedSale := func(t *testing.T, f *salesFixture) *entity.Sale {
		f.seed("prod-1", "wh-a", 10)
		sale := f.newDraftSale(t, []CreateLineInput{{ProductID: "prod-1", Qty: 6}})
		result, err := f.uc.Post(ctx, "user-1", sale.ID)
		require.NoError(t, err)
		return result.Sale
	}

	t.Run("avancées cumulées plafonnées à la quantité vendue", func(t *testing.T) {
		f := newSalesFixture(t)
		sale := postedSale(t, f)

		updated, err := f.uc.AdvanceDelivery(ctx, sale.ID, []DeliveryLineInput{{ProductID: "prod-1", Qty: 4}})
		require.NoError(t, err)
		assert.Equal(t, int64(4), updated.Line("prod-1").QtyDelivered)

		_, err = f.uc.AdvanceDelivery(ctx, sale.ID, []DeliveryLineInput{{ProductID: "prod-1", Qty: 3}})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		updated, err = f.uc.AdvanceDelivery(ctx, sale.ID, []DeliveryLineInput{{ProductID: "prod-1", Qty: 2}})
		require.NoError(t, err)
		assert.Equal(t, int64(6), updated.Line("prod-1").QtyDelivered)

		// Le suivi de livraison ne touche jamais le journal.
		assert.Equal(t, int64(4), f.available(t, "prod-1", "wh-a"))
	})

	t.Run("refusée hors POSTED", func(t *testing.T) {
		f := newSalesFixture(t)
		f.seed("prod-1", "wh-a", 10)
		sale := f.newDraftSale(t, []CreateLineInput{{ProductID: "prod-1", Qty: 2}})
		_, err := f.uc.AdvanceDelivery(ctx, sale.ID, []DeliveryLineInput{{ProductID: "prod-1", Qty: 1}})
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("refusée en mode PICKUP", func(t *testing.T) {
		f := newSalesFixture(t)
		f.seed("prod-1", "wh-a", 10)
		sale, err := f.uc.Create(ctx, CreateInput{
			CustomerID:  "cust-1",
			WarehouseID: "wh-a",
			Channel:     entity.SaleChannelStore,
			Fulfillment: entity.FulfillmentPickup,
			Lines:       []CreateLineInput{{ProductID: "prod-1", Qty: 2}},
		})
		require.NoError(t, err)
		_, err = f.uc.Post(ctx, "user-1", sale.ID)
		require.NoError(t, err)

		_, err = f.uc.AdvanceDelivery(ctx, sale.ID, []DeliveryLineInput{{ProductID: "prod-1", Qty: 1}})
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})
}

func TestDocument(t *testing.T) {
	ctx := context.Background()
	f := newSalesFixture(t)
	f.seed("prod-1", "wh-a", 10)
	sale := f.newDraftSale(t, []CreateLineInput{{ProductID: "prod-1", Qty: 1}})

	_, err := f.uc.Document(ctx, sale.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "pas de document avant validation")

	_, err = f.uc.Post(ctx, "user-1", sale.ID)
	require.NoError(t, err)

	doc, err := f.uc.Document(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, "FAC-"+sale.Number, doc.Ref)
	assert.NotEmpty(t, doc.PDF)
}
