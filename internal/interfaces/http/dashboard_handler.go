package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Envios-api/internal/application/dto"
	"github.com/jhoicas/Envios-api/internal/application/shipping"
)

// DashboardHandler maneja los endpoints del tablero.
type DashboardHandler struct {
	query *shipping.QueryUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(query *shipping.QueryUseCase) *DashboardHandler {
	return &DashboardHandler{query: query}
}

// GetSummary devuelve los contadores del tablero principal.
// GET /api/dashboard
//
// Respuesta: DashboardResponse (total, sent, received, issues, by_status).
// No recibe parámetros; los contadores salen del conteo por estado.
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.query.Dashboard()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Code: "INTERNAL", Message: err.Error(),
		})
	}
	return c.JSON(summary)
}
