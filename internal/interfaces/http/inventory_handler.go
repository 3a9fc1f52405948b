package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/locauto225/gestock-api/internal/application/counting"
	"github.com/locauto225/gestock-api/internal/application/dto"
	"github.com/locauto225/gestock-api/internal/domain/entity"
)

// InventoryHandler expose les inventaires physiques : création, saisie des
// comptages et validation (écarts appliqués au journal).
type InventoryHandler struct {
	uc *counting.UseCase
}

func NewInventoryHandler(uc *counting.UseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// Create godoc
// @Summary      Ouvrir un inventaire (FULL, CATEGORY ou FREE)
// @Tags         inventories
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInventoryRequest  true  "Inventaire"
// @Success      201   {object}  dto.InventoryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/stock/inventories [post]
func (h *InventoryHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInventoryRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	ic, err := h.uc.Create(c.Context(), in.WarehouseID, in.Mode, in.CategoryID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.InventoryFromEntity(ic))
}

// GetByID godoc
// @Summary      Consulter un inventaire
// @Tags         inventories
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de l'inventaire"
// @Success      200  {object}  dto.InventoryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/inventories/{id} [get]
func (h *InventoryHandler) GetByID(c *fiber.Ctx) error {
	ic, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.InventoryFromEntity(ic))
}

// List godoc
// @Summary      Lister les inventaires
// @Tags         inventories
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "Filtre statut"
// @Param        limit   query  int     false  "Limite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {array}  dto.InventoryResponse
// @Router       /api/stock/inventories [get]
func (h *InventoryHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	list, err := h.uc.List(c.Context(), c.Query("status"), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.InventoryResponse, 0, len(list))
	for _, ic := range list {
		out = append(out, dto.InventoryFromEntity(ic))
	}
	return c.JSON(out)
}

// AddLine godoc
// @Summary      Ajouter un produit à un inventaire FREE
// @Tags         inventories
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de l'inventaire"
// @Param        body  body  dto.AddInventoryLineRequest  true  "Produit"
// @Success      200   {object}  dto.InventoryResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/inventories/{id}/lines [post]
func (h *InventoryHandler) AddLine(c *fiber.Ctx) error {
	var in dto.AddInventoryLineRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	ic, err := h.uc.AddLine(c.Context(), c.Params("id"), in.ProductID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.InventoryFromEntity(ic))
}

// SetCounted godoc
// @Summary      Saisir la quantité comptée d'une ligne
// @Tags         inventories
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id         path  string  true  "ID de l'inventaire"
// @Param        productId  path  string  true  "ID du produit"
// @Param        body       body  dto.SetCountedRequest  true  "Quantité comptée"
// @Success      200   {object}  dto.InventoryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/stock/inventories/{id}/lines/{productId} [patch]
func (h *InventoryHandler) SetCounted(c *fiber.Ctx) error {
	var in dto.SetCountedRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	ic, err := h.uc.SetCounted(c.Context(), c.Params("id"), c.Params("productId"), in.CountedQty)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.InventoryFromEntity(ic))
}

// UpdateStatus godoc
// @Summary      Valider (POSTED) ou annuler (CANCELLED) un inventaire
// @Tags         inventories
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de l'inventaire"
// @Param        body  body  dto.InventoryStatusRequest  true  "Statut cible"
// @Success      200   {object}  dto.InventoryResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/inventories/{id}/status [patch]
func (h *InventoryHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.InventoryStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	var (
		ic  *entity.InventoryCount
		err error
	)
	switch in.Status {
	case entity.InventoryStatusPosted:
		ic, err = h.uc.Post(c.Context(), GetUserID(c), c.Params("id"))
	case entity.InventoryStatusCancelled:
		ic, err = h.uc.Cancel(c.Context(), c.Params("id"))
	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "status doit être POSTED ou CANCELLED"})
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.InventoryFromEntity(ic))
}
