package repository

import "github.com/locauto225/gestock-api/internal/domain/entity"

// WarehouseRepository persiste les dépôts.
type WarehouseRepository interface {
	Create(wh *entity.Warehouse) error
	GetByID(id string) (*entity.Warehouse, error)
	List() ([]*entity.Warehouse, error)
	Update(wh *entity.Warehouse) error
}

// ProductRepository persiste les produits.
// ListActive sert de périmètre aux inventaires FULL/CATEGORY (categoryID vide = tous).
type ProductRepository interface {
	Create(p *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetBySKU(sku string) (*entity.Product, error)
	ListActive(categoryID string) ([]*entity.Product, error)
	List(limit, offset int) ([]*entity.Product, error)
	Update(p *entity.Product) error
}

// CategoryRepository persiste les catégories de produits.
type CategoryRepository interface {
	Create(c *entity.Category) error
	GetByID(id string) (*entity.Category, error)
	List() ([]*entity.Category, error)
}

// SupplierRepository persiste les fournisseurs.
type SupplierRepository interface {
	Create(s *entity.Supplier) error
	GetByID(id string) (*entity.Supplier, error)
	List() ([]*entity.Supplier, error)
}

// CustomerRepository persiste les clients.
type CustomerRepository interface {
	Create(c *entity.Customer) error
	GetByID(id string) (*entity.Customer, error)
	List() ([]*entity.Customer, error)
}
