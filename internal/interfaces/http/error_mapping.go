package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/locauto225/gestock-api/internal/application/dto"
	"github.com/locauto225/gestock-api/internal/domain"
)

// respondError traduit une erreur métier en réponse HTTP. Les erreurs typées
// portent leurs chiffres dans Details (disponible/demandé, restant/demandé)
// pour que le client affiche un message précis sans parser le texte.
func respondError(c *fiber.Ctx, err error) error {
	var insufficientErr *domain.InsufficientStockError
	if errors.As(err, &insufficientErr) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "INSUFFICIENT_STOCK",
			Message: insufficientErr.Error(),
			Details: map[string]any{
				"product_id":   insufficientErr.ProductID,
				"warehouse_id": insufficientErr.WarehouseID,
				"available":    insufficientErr.Available,
				"requested":    insufficientErr.Requested,
			},
		})
	}

	var overErr *domain.OverReceiptError
	if errors.As(err, &overErr) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "OVER_RECEIPT",
			Message: overErr.Error(),
			Details: map[string]any{
				"product_id": overErr.ProductID,
				"remaining":  overErr.Remaining,
				"requested":  overErr.Requested,
			},
		})
	}

	var transitionErr *domain.InvalidTransitionError
	if errors.As(err, &transitionErr) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "INVALID_TRANSITION",
			Message: transitionErr.Error(),
			Details: map[string]any{
				"from": transitionErr.From,
				"to":   transitionErr.To,
			},
		})
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "ressource introuvable"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "la ressource existe déjà"})
	case errors.Is(err, domain.ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_TRANSITION", Message: "transition de statut interdite"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuffisant"})
	case errors.Is(err, domain.ErrOverReceipt):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "OVER_RECEIPT", Message: "réception supérieure au restant commandé"})
	case errors.Is(err, domain.ErrEmptyReceipt):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "EMPTY_RECEIPT", Message: "aucune quantité reçue"})
	case errors.Is(err, domain.ErrNoteRequired):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "NOTE_REQUIRED", Message: "une note explicative est requise"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "données invalides"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps de requête invalide"})
}
