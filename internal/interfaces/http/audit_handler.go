package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Envios-api/internal/application/audit"
	"github.com/jhoicas/Envios-api/internal/application/dto"
)

// AuditHandler consulta de la bitácora de cambios (protegido, solo lectura).
type AuditHandler struct {
	uc *audit.QueryUseCase
}

// NewAuditHandler construye el handler.
func NewAuditHandler(uc *audit.QueryUseCase) *AuditHandler {
	return &AuditHandler{uc: uc}
}

// List godoc
// @Summary      Listar eventos de la bitácora
// @Tags         audit
// @Security     Bearer
// @Produce      json
// @Param        shipment_id  query  int  false  "Filtrar por envío"
// @Param        limit        query  int  false  "Límite"  default(100)
// @Success      200  {array}  dto.AuditEventResponse
// @Router       /api/audit [get]
func (h *AuditHandler) List(c *fiber.Ctx) error {
	var q dto.AuditQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "query params inválidos"})
	}
	out, err := h.uc.List(q)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
