package http

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Envios-api/internal/application/dto"
	"github.com/jhoicas/Envios-api/internal/application/label"
	"github.com/jhoicas/Envios-api/internal/domain"
)

// LabelHandler sirve la etiqueta PDF imprimible de un envío (protegido).
type LabelHandler struct {
	uc *label.UseCase
}

// NewLabelHandler construye el handler.
func NewLabelHandler(uc *label.UseCase) *LabelHandler {
	return &LabelHandler{uc: uc}
}

// Get godoc
// @Summary      Descargar la etiqueta QR de un envío
// @Tags         shipments
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  int  true  "ID del envío"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/shipments/{id}/label [get]
func (h *LabelHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
	}
	pdfBytes, filename, err := h.uc.Generate(c.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "envío no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.Send(pdfBytes)
}
