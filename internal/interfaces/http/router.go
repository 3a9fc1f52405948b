package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/locauto225/gestock-api/internal/application/catalog"
	"github.com/locauto225/gestock-api/internal/application/counting"
	"github.com/locauto225/gestock-api/internal/application/purchasing"
	"github.com/locauto225/gestock-api/internal/application/sales"
	"github.com/locauto225/gestock-api/internal/application/stock"
)

// RouterDeps dépendances du router.
type RouterDeps struct {
	CatalogUC    *catalog.UseCase
	StockUC      *stock.UseCase
	PurchasingUC *purchasing.UseCase
	SalesUC      *sales.UseCase
	CountingUC   *counting.UseCase
	JWTSecret    string
}

// Rôles métier portés par le JWT.
const (
	RoleGerant     = "gerant"
	RoleMagasinier = "magasinier"
	RoleVendeur    = "vendeur"
)

// Router enregistre les routes de l'API. Tout est protégé par Bearer Token ;
// les écritures sont en plus restreintes par rôle (lecture libre pour tous
// les rôles authentifiés).
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	gerant := RequireRole(RoleGerant)
	magasin := RequireRole(RoleGerant, RoleMagasinier)
	vente := RequireRole(RoleGerant, RoleVendeur)

	// Référentiel
	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	warehouses := api.Group("/warehouses")
	warehouses.Post("/", gerant, catalogHandler.CreateWarehouse)
	warehouses.Get("/", catalogHandler.ListWarehouses)
	warehouses.Get("/:id", catalogHandler.GetWarehouse)

	products := api.Group("/products")
	products.Post("/", gerant, catalogHandler.CreateProduct)
	products.Get("/", catalogHandler.ListProducts)
	products.Get("/:id", catalogHandler.GetProduct)
	products.Delete("/:id", gerant, catalogHandler.DeactivateProduct)

	categories := api.Group("/categories")
	categories.Post("/", gerant, catalogHandler.CreateCategory)
	categories.Get("/", catalogHandler.ListCategories)

	suppliers := api.Group("/suppliers")
	suppliers.Post("/", gerant, catalogHandler.CreateSupplier)
	suppliers.Get("/", catalogHandler.ListSuppliers)

	customers := api.Group("/customers")
	customers.Post("/", vente, catalogHandler.CreateCustomer)
	customers.Get("/", catalogHandler.ListCustomers)

	// Journal de stock
	stockHandler := NewStockHandler(deps.StockUC)
	stockGroup := api.Group("/stock")
	stockGroup.Get("/levels", stockHandler.Levels)
	stockGroup.Get("/moves", stockHandler.ListMoves)
	stockGroup.Post("/moves", magasin, stockHandler.RegisterAdjustment)
	stockGroup.Post("/losses", magasin, stockHandler.RecordLoss)
	stockGroup.Post("/returns", magasin, stockHandler.RecordReturn)
	stockGroup.Post("/transfers", magasin, stockHandler.Transfer)

	// Inventaires physiques
	inventoryHandler := NewInventoryHandler(deps.CountingUC)
	inventories := stockGroup.Group("/inventories")
	inventories.Post("/", magasin, inventoryHandler.Create)
	inventories.Get("/", inventoryHandler.List)
	inventories.Get("/:id", inventoryHandler.GetByID)
	inventories.Post("/:id/lines", magasin, inventoryHandler.AddLine)
	inventories.Patch("/:id/lines/:productId", magasin, inventoryHandler.SetCounted)
	inventories.Patch("/:id/status", magasin, inventoryHandler.UpdateStatus)

	// Achats
	purchaseHandler := NewPurchaseHandler(deps.PurchasingUC)
	purchases := api.Group("/purchases")
	purchases.Post("/", magasin, purchaseHandler.Create)
	purchases.Get("/", purchaseHandler.List)
	purchases.Get("/:id", purchaseHandler.GetByID)
	purchases.Patch("/:id/status", magasin, purchaseHandler.UpdateStatus)
	purchases.Post("/:id/receive", magasin, purchaseHandler.Receive)

	// Ventes
	saleHandler := NewSaleHandler(deps.SalesUC)
	salesGroup := api.Group("/sales")
	salesGroup.Post("/", vente, saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Patch("/:id/status", vente, saleHandler.UpdateStatus)
	salesGroup.Post("/:id/delivery", vente, saleHandler.AdvanceDelivery)
	salesGroup.Get("/:id/document", saleHandler.Document)
	salesGroup.Post("/:id/document", vente, saleHandler.RegenerateDocument)
}
