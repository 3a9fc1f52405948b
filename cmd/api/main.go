package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/locauto225/gestock-api/internal/application/catalog"
	"github.com/locauto225/gestock-api/internal/application/counting"
	"github.com/locauto225/gestock-api/internal/application/purchasing"
	"github.com/locauto225/gestock-api/internal/application/sales"
	"github.com/locauto225/gestock-api/internal/application/stock"
	infrapdf "github.com/locauto225/gestock-api/internal/infrastructure/pdf"
	"github.com/locauto225/gestock-api/internal/infrastructure/postgres"
	httpRouter "github.com/locauto225/gestock-api/internal/interfaces/http"
	"github.com/locauto225/gestock-api/pkg/config"
	"github.com/locauto225/gestock-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("charger la configuration : " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("démarrage de l'application")

	if err := postgres.RunMigrations(cfg.DB.ConnectionString()); err != nil {
		log.Fatal().Err(err).Msg("migrations")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("connexion à PostgreSQL")
	}
	defer pool.Close()

	warehouseRepo := postgres.NewWarehouseRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	moveRepo := postgres.NewStockMoveRepository(pool)
	levelRepo := postgres.NewStockLevelRepository(pool)
	poRepo := postgres.NewPurchaseOrderRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	countRepo := postgres.NewInventoryCountRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	docGenerator := infrapdf.NewMarotoDocumentGenerator(infrapdf.CompanyInfo{
		Name:    cfg.Company.Name,
		Address: cfg.Company.Address,
		Phone:   cfg.Company.Phone,
	})

	catalogUC := catalog.NewUseCase(warehouseRepo, productRepo, categoryRepo, supplierRepo, customerRepo)
	stockUC := stock.NewUseCase(txRunner, moveRepo, levelRepo, productRepo, warehouseRepo, cfg.Stock.NoteMinLength)
	purchasingUC := purchasing.NewUseCase(txRunner, poRepo, productRepo, warehouseRepo, supplierRepo)
	salesUC := sales.NewUseCase(txRunner, saleRepo, productRepo, warehouseRepo, customerRepo, docGenerator)
	countingUC := counting.NewUseCase(txRunner, countRepo, levelRepo, productRepo, warehouseRepo, categoryRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local : http://localhost:<port>/docs
	if h := swaggerUI("./docs/swagger.json", "GeStock API"); h != nil {
		app.Use(h)
	} else {
		log.Warn().Msg("spécification swagger absente, UI /docs désactivée")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CatalogUC:    catalogUC,
		StockUC:      stockUC,
		PurchasingUC: purchasingUC,
		SalesUC:      salesUC,
		CountingUC:   countingUC,
		JWTSecret:    cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("serveur HTTP terminé")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("signal d'arrêt reçu, fermeture du serveur...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("arrêt du serveur")
	}

	log.Info().Msg("application arrêtée")
}

// swaggerUI renvoie le middleware de l'UI /docs, ou nil si le fichier de
// spécification n'est pas livré avec le binaire. Le middleware panique sur un
// fichier manquant, le démarrage ne doit pas en dépendre.
func swaggerUI(filePath, title string) fiber.Handler {
	if _, err := os.Stat(filePath); err != nil {
		return nil
	}
	return swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: filePath,
		Path:     "docs",
		Title:    title,
	})
}
