package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/locauto225/gestock-api/internal/application/catalog"
	"github.com/locauto225/gestock-api/internal/application/dto"
)

// CatalogHandler expose le référentiel : dépôts, produits, catégories,
// fournisseurs et clients.
type CatalogHandler struct {
	uc *catalog.UseCase
}

func NewCatalogHandler(uc *catalog.UseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// CreateWarehouse godoc
// @Summary      Créer un dépôt
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateWarehouseRequest  true  "Dépôt"
// @Success      201   {object}  entity.Warehouse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/warehouses [post]
func (h *CatalogHandler) CreateWarehouse(c *fiber.Ctx) error {
	var in dto.CreateWarehouseRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	wh, err := h.uc.CreateWarehouse(c.Context(), in.Code, in.Name, in.Address)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(wh)
}

// ListWarehouses godoc
// @Summary      Lister les dépôts
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  entity.Warehouse
// @Router       /api/warehouses [get]
func (h *CatalogHandler) ListWarehouses(c *fiber.Ctx) error {
	list, err := h.uc.ListWarehouses(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// GetWarehouse godoc
// @Summary      Consulter un dépôt
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID du dépôt"
// @Success      200  {object}  entity.Warehouse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/warehouses/{id} [get]
func (h *CatalogHandler) GetWarehouse(c *fiber.Ctx) error {
	wh, err := h.uc.GetWarehouse(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(wh)
}

// CreateProduct godoc
// @Summary      Créer un produit
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Produit"
// @Success      201   {object}  entity.Product
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *CatalogHandler) CreateProduct(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	p, err := h.uc.CreateProduct(c.Context(), catalog.ProductInput{
		SKU:        in.SKU,
		Name:       in.Name,
		CategoryID: in.CategoryID,
		UnitPrice:  in.UnitPrice,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

// ListProducts godoc
// @Summary      Lister les produits
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Limite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200  {array}  entity.Product
// @Router       /api/products [get]
func (h *CatalogHandler) ListProducts(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	list, err := h.uc.ListProducts(c.Context(), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// GetProduct godoc
// @Summary      Consulter un produit
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID du produit"
// @Success      200  {object}  entity.Product
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *CatalogHandler) GetProduct(c *fiber.Ctx) error {
	p, err := h.uc.GetProduct(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(p)
}

// DeactivateProduct godoc
// @Summary      Désactiver un produit
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID du produit"
// @Success      200  {object}  entity.Product
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [delete]
func (h *CatalogHandler) DeactivateProduct(c *fiber.Ctx) error {
	p, err := h.uc.DeactivateProduct(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(p)
}

// CreateCategory godoc
// @Summary      Créer une catégorie
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCategoryRequest  true  "Catégorie"
// @Success      201   {object}  entity.Category
// @Router       /api/categories [post]
func (h *CatalogHandler) CreateCategory(c *fiber.Ctx) error {
	var in dto.CreateCategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	cat, err := h.uc.CreateCategory(c.Context(), in.Name)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(cat)
}

// ListCategories godoc
// @Summary      Lister les catégories
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  entity.Category
// @Router       /api/categories [get]
func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	list, err := h.uc.ListCategories(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// CreateSupplier godoc
// @Summary      Créer un fournisseur
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePartyRequest  true  "Fournisseur"
// @Success      201   {object}  entity.Supplier
// @Router       /api/suppliers [post]
func (h *CatalogHandler) CreateSupplier(c *fiber.Ctx) error {
	var in dto.CreatePartyRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	s, err := h.uc.CreateSupplier(c.Context(), in.Name, in.Phone)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(s)
}

// ListSuppliers godoc
// @Summary      Lister les fournisseurs
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  entity.Supplier
// @Router       /api/suppliers [get]
func (h *CatalogHandler) ListSuppliers(c *fiber.Ctx) error {
	list, err := h.uc.ListSuppliers(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// CreateCustomer godoc
// @Summary      Créer un client
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePartyRequest  true  "Client"
// @Success      201   {object}  entity.Customer
// @Router       /api/customers [post]
func (h *CatalogHandler) CreateCustomer(c *fiber.Ctx) error {
	var in dto.CreatePartyRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	cust, err := h.uc.CreateCustomer(c.Context(), in.Name, in.Phone)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(cust)
}

// ListCustomers godoc
// @Summary      Lister les clients
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  entity.Customer
// @Router       /api/customers [get]
func (h *CatalogHandler) ListCustomers(c *fiber.Ctx) error {
	list, err := h.uc.ListCustomers(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}
