package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/locauto225/gestock-api/internal/application/dto"
	"github.com/locauto225/gestock-api/internal/application/sales"
	"github.com/locauto225/gestock-api/internal/domain/entity"
)

// SaleHandler expose le cycle de vente : création, validation, livraison
// et documents aval (facture ou ticket).
type SaleHandler struct {
	uc *sales.UseCase
}

func NewSaleHandler(uc *sales.UseCase) *SaleHandler {
	return &SaleHandler{uc: uc}
}

// Create godoc
// @Summary      Créer une vente (DRAFT)
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "Vente"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	input := sales.CreateInput{
		CustomerID:  in.CustomerID,
		WarehouseID: in.WarehouseID,
		Channel:     in.Channel,
		Fulfillment: in.Fulfillment,
	}
	for _, l := range in.Lines {
		input.Lines = append(input.Lines, sales.CreateLineInput{
			ProductID: l.ProductID,
			Qty:       l.Qty,
			UnitPrice: l.UnitPrice,
		})
	}
	sale, err := h.uc.Create(c.Context(), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SaleFromEntity(sale))
}

// GetByID godoc
// @Summary      Consulter une vente
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la vente"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	sale, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.SaleFromEntity(sale))
}

// List godoc
// @Summary      Lister les ventes
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "Filtre statut"
// @Param        limit   query  int     false  "Limite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {array}  dto.SaleResponse
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	list, err := h.uc.List(c.Context(), c.Query("status"), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		out = append(out, dto.SaleFromEntity(s))
	}
	return c.JSON(out)
}

// UpdateStatus godoc
// @Summary      Valider (POSTED) ou annuler (CANCELLED) une vente
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la vente"
// @Param        body  body  dto.SaleStatusRequest  true  "Statut cible"
// @Success      200   {object}  dto.SaleResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/status [patch]
func (h *SaleHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.SaleStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	switch in.Status {
	case entity.SaleStatusPosted:
		result, err := h.uc.Post(c.Context(), GetUserID(c), c.Params("id"))
		if err != nil {
			return respondError(c, err)
		}
		out := dto.SaleFromEntity(result.Sale)
		if result.DocumentErr != nil {
			out.DocumentError = result.DocumentErr.Error()
		}
		return c.JSON(out)
	case entity.SaleStatusCancelled:
		sale, err := h.uc.Cancel(c.Context(), c.Params("id"))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(dto.SaleFromEntity(sale))
	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "status doit être POSTED ou CANCELLED"})
	}
}

// AdvanceDelivery godoc
// @Summary      Avancer la livraison d'une vente POSTED (mode DELIVERY)
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la vente"
// @Param        body  body  dto.DeliveryRequest  true  "Quantités livrées (incréments)"
// @Success      200   {object}  dto.SaleResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/delivery [post]
func (h *SaleHandler) AdvanceDelivery(c *fiber.Ctx) error {
	var in dto.DeliveryRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	lines := make([]sales.DeliveryLineInput, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, sales.DeliveryLineInput{ProductID: l.ProductID, Qty: l.Qty})
	}
	sale, err := h.uc.AdvanceDelivery(c.Context(), c.Params("id"), lines)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.SaleFromEntity(sale))
}

// Document godoc
// @Summary      Télécharger le document d'une vente POSTED (PDF)
// @Tags         sales
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID de la vente"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/document [get]
func (h *SaleHandler) Document(c *fiber.Ctx) error {
	doc, err := h.uc.Document(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+doc.Ref+`.pdf"`)
	return c.Send(doc.PDF)
}

// RegenerateDocument godoc
// @Summary      Regénérer le document d'une vente POSTED
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la vente"
// @Success      200  {object}  dto.SaleResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/document [post]
func (h *SaleHandler) RegenerateDocument(c *fiber.Ctx) error {
	sale, err := h.uc.RegenerateDocument(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.SaleFromEntity(sale))
}
