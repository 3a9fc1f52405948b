package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/locauto225/gestock-api/internal/application/dto"
	"github.com/locauto225/gestock-api/internal/application/stock"
	"github.com/locauto225/gestock-api/internal/domain/repository"
)

// StockHandler expose le journal de stock : niveaux, mouvements, ajustements,
// pertes, retours et transferts.
type StockHandler struct {
	uc *stock.UseCase
}

func NewStockHandler(uc *stock.UseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// Levels godoc
// @Summary      Niveaux de stock d'un dépôt
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  true  "ID du dépôt"
// @Success      200  {array}  dto.StockLevelResponse
// @Router       /api/stock/levels [get]
func (h *StockHandler) Levels(c *fiber.Ctx) error {
	warehouseID := c.Query("warehouse_id")
	if warehouseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "warehouse_id est requis"})
	}
	levels, err := h.uc.Levels(c.Context(), warehouseID)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.StockLevelResponse, 0, len(levels))
	for _, l := range levels {
		out = append(out, dto.StockLevelFromEntity(l))
	}
	return c.JSON(out)
}

// ListMoves godoc
// @Summary      Historique du journal de stock
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "Filtre dépôt"
// @Param        product_id    query  string  false  "Filtre produit"
// @Param        kind          query  string  false  "Filtre type (IN, OUT, ADJUST, TRANSFER)"
// @Param        ref_type      query  string  false  "Filtre origine"
// @Param        ref_id        query  string  false  "Filtre document d'origine"
// @Param        from          query  string  false  "Depuis (RFC 3339)"
// @Param        to            query  string  false  "Jusqu'à (RFC 3339)"
// @Param        limit         query  int     false  "Limite"  default(50)
// @Param        offset        query  int     false  "Offset"  default(0)
// @Success      200  {array}  dto.StockMoveResponse
// @Router       /api/stock/moves [get]
func (h *StockHandler) ListMoves(c *fiber.Ctx) error {
	filter := repository.MoveFilter{
		WarehouseID: c.Query("warehouse_id"),
		ProductID:   c.Query("product_id"),
		Kind:        c.Query("kind"),
		RefType:     c.Query("ref_type"),
		RefID:       c.Query("ref_id"),
		Limit:       c.QueryInt("limit", 0),
		Offset:      c.QueryInt("offset", 0),
	}
	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from : format RFC 3339 attendu"})
		}
		filter.From = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to : format RFC 3339 attendu"})
		}
		filter.To = &t
	}
	moves, err := h.uc.ListMoves(c.Context(), filter)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.StockMoveResponse, 0, len(moves))
	for _, m := range moves {
		out = append(out, dto.StockMoveFromEntity(m))
	}
	return c.JSON(out)
}

// RegisterAdjustment godoc
// @Summary      Ajustement manuel de stock
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterAdjustmentRequest  true  "Ajustement"
// @Success      201   {object}  dto.StockMoveResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/moves [post]
func (h *StockHandler) RegisterAdjustment(c *fiber.Ctx) error {
	var in dto.RegisterAdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	move, err := h.uc.RegisterAdjustment(c.Context(), GetUserID(c), stock.AdjustmentInput{
		WarehouseID: in.WarehouseID,
		ProductID:   in.ProductID,
		QtyDelta:    in.QtyDelta,
		Note:        in.Note,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.StockMoveFromEntity(move))
}

// RecordLoss godoc
// @Summary      Déclarer une perte (casse, vol, péremption)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordLossRequest  true  "Perte"
// @Success      201   {object}  dto.StockMoveResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/losses [post]
func (h *StockHandler) RecordLoss(c *fiber.Ctx) error {
	var in dto.RecordLossRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	move, err := h.uc.RecordLoss(c.Context(), GetUserID(c), stock.LossInput{
		WarehouseID: in.WarehouseID,
		ProductID:   in.ProductID,
		Qty:         in.Qty,
		Reason:      in.Reason,
		Note:        in.Note,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.StockMoveFromEntity(move))
}

// RecordReturn godoc
// @Summary      Enregistrer un retour en stock
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordReturnRequest  true  "Retour"
// @Success      201   {object}  dto.StockMoveResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/stock/returns [post]
func (h *StockHandler) RecordReturn(c *fiber.Ctx) error {
	var in dto.RecordReturnRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	move, err := h.uc.RecordReturn(c.Context(), GetUserID(c), stock.ReturnInput{
		WarehouseID: in.WarehouseID,
		ProductID:   in.ProductID,
		Qty:         in.Qty,
		Reason:      in.Reason,
		Note:        in.Note,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.StockMoveFromEntity(move))
}

// Transfer godoc
// @Summary      Transférer du stock entre dépôts
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferRequest  true  "Transfert"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/transfers [post]
func (h *StockHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	transferID, err := h.uc.Transfer(c.Context(), GetUserID(c), stock.TransferInput{
		ProductID:       in.ProductID,
		FromWarehouseID: in.FromWarehouseID,
		ToWarehouseID:   in.ToWarehouseID,
		Qty:             in.Qty,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"transfer_id": transferID})
}
