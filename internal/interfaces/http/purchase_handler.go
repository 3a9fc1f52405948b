package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/locauto225/gestock-api/internal/application/dto"
	"github.com/locauto225/gestock-api/internal/application/purchasing"
	"github.com/locauto225/gestock-api/internal/domain/entity"
)

// PurchaseHandler expose le cycle d'achat : commandes fournisseur et réceptions.
type PurchaseHandler struct {
	uc *purchasing.UseCase
}

func NewPurchaseHandler(uc *purchasing.UseCase) *PurchaseHandler {
	return &PurchaseHandler{uc: uc}
}

// Create godoc
// @Summary      Créer une commande fournisseur (DRAFT)
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePurchaseRequest  true  "Commande"
// @Success      201   {object}  dto.PurchaseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/purchases [post]
func (h *PurchaseHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	input := purchasing.CreateInput{
		SupplierID:  in.SupplierID,
		WarehouseID: in.WarehouseID,
	}
	for _, l := range in.Lines {
		input.Lines = append(input.Lines, purchasing.CreateLineInput{
			ProductID:  l.ProductID,
			QtyOrdered: l.QtyOrdered,
			UnitPrice:  l.UnitPrice,
		})
	}
	po, err := h.uc.Create(c.Context(), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.PurchaseFromEntity(po))
}

// GetByID godoc
// @Summary      Consulter une commande fournisseur
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la commande"
// @Success      200  {object}  dto.PurchaseResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id} [get]
func (h *PurchaseHandler) GetByID(c *fiber.Ctx) error {
	po, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.PurchaseFromEntity(po))
}

// List godoc
// @Summary      Lister les commandes fournisseur
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "Filtre statut"
// @Param        limit   query  int     false  "Limite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {array}  dto.PurchaseResponse
// @Router       /api/purchases [get]
func (h *PurchaseHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	orders, err := h.uc.List(c.Context(), c.Query("status"), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.PurchaseResponse, 0, len(orders))
	for _, po := range orders {
		out = append(out, dto.PurchaseFromEntity(po))
	}
	return c.JSON(out)
}

// UpdateStatus godoc
// @Summary      Passer une commande en ORDERED ou l'annuler
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la commande"
// @Param        body  body  dto.PurchaseStatusRequest  true  "Statut cible"
// @Success      200   {object}  dto.PurchaseResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchases/{id}/status [patch]
func (h *PurchaseHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.PurchaseStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	var (
		po  *entity.PurchaseOrder
		err error
	)
	switch in.Status {
	case entity.PurchaseStatusOrdered:
		po, err = h.uc.Order(c.Context(), c.Params("id"))
	case entity.PurchaseStatusCancelled:
		po, err = h.uc.Cancel(c.Context(), c.Params("id"))
	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "status doit être ORDERED ou CANCELLED"})
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.PurchaseFromEntity(po))
}

// Receive godoc
// @Summary      Réceptionner une commande (partiellement ou en totalité)
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la commande"
// @Param        body  body  dto.ReceivePurchaseRequest  true  "Quantités reçues (incréments)"
// @Success      200   {object}  dto.PurchaseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchases/{id}/receive [post]
func (h *PurchaseHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceivePurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	lines := make([]purchasing.ReceiveLineInput, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, purchasing.ReceiveLineInput{
			ProductID:   l.ProductID,
			QtyReceived: l.QtyReceived,
		})
	}
	po, err := h.uc.Receive(c.Context(), GetUserID(c), c.Params("id"), lines)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.PurchaseFromEntity(po))
}

// pageParams lit limit/offset avec les bornes par défaut.
func pageParams(c *fiber.Ctx) (int, int) {
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
