package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Envios-api/internal/application/dto"
	"github.com/jhoicas/Envios-api/internal/application/export"
	"github.com/jhoicas/Envios-api/internal/domain"
	"github.com/jhoicas/Envios-api/internal/domain/entity"
)

// SyncHandler dispara la sincronización hacia el espejo externo (protegido).
type SyncHandler struct {
	uc *export.UseCase
}

// NewSyncHandler construye el handler.
func NewSyncHandler(uc *export.UseCase) *SyncHandler {
	return &SyncHandler{uc: uc}
}

// Run godoc
// @Summary      Sincronizar envíos hacia el espejo externo
// @Tags         sync
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SyncRequest  true  "mode (append|replace) y filtros opcionales"
// @Success      200   {object}  dto.SyncResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/sync [post]
func (h *SyncHandler) Run(c *fiber.Ctx) error {
	var in dto.SyncRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	// Reescribir el espejo completo es destructivo: solo admin.
	if strings.EqualFold(strings.TrimSpace(in.Mode), string(export.ModeReplace)) && GetRole(c) != entity.RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "el modo replace requiere rol admin"})
	}
	out, err := h.uc.Export(c.Context(), in)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		if errors.Is(err, domain.ErrSyncUnavailable) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "SYNC_UNAVAILABLE", Message: "espejo de sincronización no disponible"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
