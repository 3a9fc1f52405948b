package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/locauto225/gestock-api/internal/domain"
	"github.com/locauto225/gestock-api/internal/domain/entity"
	"github.com/locauto225/gestock-api/internal/domain/repository"
)

// UseCase expose le référentiel (dépôts, produits, catégories, fournisseurs,
// clients) : le strict nécessaire pour que le moteur de stock valide ses
// entrées et que l'interface alimente ses filtres.
type UseCase struct {
	warehouseRepo repository.WarehouseRepository
	productRepo   repository.ProductRepository
	categoryRepo  repository.CategoryRepository
	supplierRepo  repository.SupplierRepository
	customerRepo  repository.CustomerRepository
}

// NewUseCase construit le cas d'usage.
func NewUseCase(
	warehouseRepo repository.WarehouseRepository,
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	supplierRepo repository.SupplierRepository,
	customerRepo repository.CustomerRepository,
) *UseCase {
	return &UseCase{
		warehouseRepo: warehouseRepo,
		productRepo:   productRepo,
		categoryRepo:  categoryRepo,
		supplierRepo:  supplierRepo,
		customerRepo:  customerRepo,
	}
}

// CreateWarehouse crée un dépôt actif.
func (uc *UseCase) CreateWarehouse(_ context.Context, code, name, address string) (*entity.Warehouse, error) {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)
	if code == "" || name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	wh := &entity.Warehouse{
		ID:        uuid.New().String(),
		Code:      code,
		Name:      name,
		Address:   address,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.warehouseRepo.Create(wh); err != nil {
		return nil, err
	}
	return wh, nil
}

// ListWarehouses liste les dépôts.
func (uc *UseCase) ListWarehouses(_ context.Context) ([]*entity.Warehouse, error) {
	return uc.warehouseRepo.List()
}

// GetWarehouse renvoie un dépôt par ID.
func (uc *UseCase) GetWarehouse(_ context.Context, id string) (*entity.Warehouse, error) {
	wh, err := uc.warehouseRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if wh == nil {
		return nil, domain.ErrNotFound
	}
	return wh, nil
}

// ProductInput est la demande de création d'un produit.
type ProductInput struct {
	SKU        string
	Name       string
	CategoryID string
	UnitPrice  decimal.Decimal
}

// CreateProduct crée un produit actif. Le SKU doit être unique.
func (uc *UseCase) CreateProduct(_ context.Context, in ProductInput) (*entity.Product, error) {
	in.SKU = strings.TrimSpace(in.SKU)
	in.Name = strings.TrimSpace(in.Name)
	if in.SKU == "" || in.Name == "" || in.UnitPrice.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if in.CategoryID != "" {
		if cat, err := uc.categoryRepo.GetByID(in.CategoryID); err != nil || cat == nil {
			return nil, domain.ErrNotFound
		}
	}
	if exists, err := uc.productRepo.GetBySKU(in.SKU); err != nil {
		return nil, err
	} else if exists != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	p := &entity.Product{
		ID:         uuid.New().String(),
		SKU:        in.SKU,
		Name:       in.Name,
		CategoryID: in.CategoryID,
		UnitPrice:  in.UnitPrice,
		Active:     true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.productRepo.Create(p); err != nil {
		return nil, err
	}
	return p, nil
}

// ListProducts liste les produits (paginé).
func (uc *UseCase) ListProducts(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return uc.productRepo.List(limit, offset)
}

// GetProduct renvoie un produit par ID.
func (uc *UseCase) GetProduct(_ context.Context, id string) (*entity.Product, error) {
	p, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// DeactivateProduct retire un produit des périmètres d'inventaire FULL/CATEGORY.
// L'historique du journal reste intact.
func (uc *UseCase) DeactivateProduct(_ context.Context, id string) (*entity.Product, error) {
	p, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	p.Active = false
	p.UpdatedAt = time.Now()
	if err := uc.productRepo.Update(p); err != nil {
		return nil, err
	}
	return p, nil
}

// CreateCategory crée une catégorie.
func (uc *UseCase) CreateCategory(_ context.Context, name string) (*entity.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	c := &entity.Category{ID: uuid.New().String(), Name: name, CreatedAt: time.Now()}
	if err := uc.categoryRepo.Create(c); err != nil {
		return nil, err
	}
	return c, nil
}

// ListCategories liste les catégories.
func (uc *UseCase) ListCategories(_ context.Context) ([]*entity.Category, error) {
	return uc.categoryRepo.List()
}

// CreateSupplier crée un fournisseur.
func (uc *UseCase) CreateSupplier(_ context.Context, name, phone string) (*entity.Supplier, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	s := &entity.Supplier{ID: uuid.New().String(), Name: name, Phone: phone, CreatedAt: time.Now()}
	if err := uc.supplierRepo.Create(s); err != nil {
		return nil, err
	}
	return s, nil
}

// ListSuppliers liste les fournisseurs.
func (uc *UseCase) ListSuppliers(_ context.Context) ([]*entity.Supplier, error) {
	return uc.supplierRepo.List()
}

// CreateCustomer crée un client.
func (uc *UseCase) CreateCustomer(_ context.Context, name, phone string) (*entity.Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	c := &entity.Customer{ID: uuid.New().String(), Name: name, Phone: phone, CreatedAt: time.Now()}
	if err := uc.customerRepo.Create(c); err != nil {
		return nil, err
	}
	return c, nil
}

// ListCustomers liste les clients.
func (uc *UseCase) ListCustomers(_ context.Context) ([]*entity.Customer, error) {
	return uc.customerRepo.List()
}
