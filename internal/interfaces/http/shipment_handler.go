package http

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Envios-api/internal/application/dto"
	"github.com/jhoicas/Envios-api/internal/application/shipping"
	"github.com/jhoicas/Envios-api/internal/domain"
)

// ShipmentHandler maneja el ciclo de vida y las consultas de envíos (protegido).
type ShipmentHandler struct {
	lifecycle *shipping.LifecycleUseCase
	query     *shipping.QueryUseCase
}

// NewShipmentHandler construye el handler.
func NewShipmentHandler(lifecycle *shipping.LifecycleUseCase, query *shipping.QueryUseCase) *ShipmentHandler {
	return &ShipmentHandler{lifecycle: lifecycle, query: query}
}

// Send godoc
// @Summary      Registrar un envío a partir de un escaneo
// @Tags         shipments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SendShipmentRequest  true  "payload del QR, supplier_id, notes"
// @Success      201   {object}  dto.ShipmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/shipments [post]
func (h *ShipmentHandler) Send(c *fiber.Ctx) error {
	actor := GetUsername(c)
	if actor == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token sin username"})
	}
	var in dto.SendShipmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Payload == "" || in.SupplierID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "payload y supplier_id son requeridos"})
	}
	out, err := h.lifecycle.Send(c.Context(), in, actor)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "la transportadora no existe o está inactiva"})
		}
		if errors.Is(err, domain.ErrQRConflict) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "ya existe un envío activo con ese código QR"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Resolve godoc
// @Summary      Resolver un escaneo (flujo escanear-primero)
// @Tags         shipments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ResolveScanRequest  true  "payload crudo del QR"
// @Success      200   {object}  dto.ResolveScanResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/shipments/resolve [post]
func (h *ShipmentHandler) Resolve(c *fiber.Ctx) error {
	var in dto.ResolveScanRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.query.Resolve(in)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Receive godoc
// @Summary      Recibir o cerrar un envío resolviéndolo por QR
// @Tags         shipments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReceiveShipmentRequest  true  "qr (código o payload), new_status, notes"
// @Success      200   {object}  dto.ShipmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/shipments/receive [post]
func (h *ShipmentHandler) Receive(c *fiber.Ctx) error {
	actor := GetUsername(c)
	if actor == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token sin username"})
	}
	var in dto.ReceiveShipmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.QR == "" || in.NewStatus == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "qr y new_status son requeridos"})
	}
	out, err := h.lifecycle.ReceiveByQR(c.Context(), in, actor)
	if err != nil {
		return h.transitionError(c, err, "no hay un envío activo con ese código QR")
	}
	return c.JSON(out)
}

// UpdateStatus godoc
// @Summary      Cambiar el estado de un envío por ID
// @Tags         shipments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID del envío"
// @Param        body  body  dto.UpdateStatusRequest  true  "new_status, notes"
// @Success      200   {object}  dto.ShipmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/shipments/{id}/status [patch]
func (h *ShipmentHandler) UpdateStatus(c *fiber.Ctx) error {
	actor := GetUsername(c)
	if actor == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token sin username"})
	}
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
	}
	var in dto.UpdateStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.NewStatus == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "new_status es requerido"})
	}
	out, err := h.lifecycle.ReceiveByID(c.Context(), id, in, actor)
	if err != nil {
		return h.transitionError(c, err, "envío no encontrado")
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar envíos
// @Tags         shipments
// @Security     Bearer
// @Produce      json
// @Param        status       query  string  false  "Estados separados por coma (SENT,RECEIVED,DAMAGED,LOST)"
// @Param        supplier_id  query  int     false  "Transportadora"
// @Param        q            query  string  false  "Busca en qr_code, imei y device_name"
// @Param        from         query  string  false  "Enviado desde (YYYY-MM-DD)"
// @Param        to           query  string  false  "Enviado hasta (YYYY-MM-DD)"
// @Param        limit        query  int     false  "Límite"  default(50)
// @Param        offset       query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.ShipmentListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/shipments [get]
func (h *ShipmentHandler) List(c *fiber.Ctx) error {
	var q dto.ListShipmentsQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "query params inválidos"})
	}
	out, err := h.query.List(q)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener envío por ID
// @Tags         shipments
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del envío"
// @Success      200  {object}  dto.ShipmentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/shipments/{id} [get]
func (h *ShipmentHandler) GetByID(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
	}
	out, err := h.query.Get(id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "envío no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// ExportCSV descarga los envíos filtrados como CSV (UTF-8 con BOM, apto
// para Excel). Acepta los mismos filtros que el listado, sin paginar.
// GET /api/shipments/export/csv
func (h *ShipmentHandler) ExportCSV(c *fiber.Ctx) error {
	var q dto.ListShipmentsQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "query params inválidos"})
	}
	var buf bytes.Buffer
	if err := h.query.ExportCSV(q, &buf); err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	filename := fmt.Sprintf("envios_%s.csv", time.Now().Format("20060102"))
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.Send(buf.Bytes())
}

// transitionError mapea los errores del cambio de estado a HTTP.
func (h *ShipmentHandler) transitionError(c *fiber.Ctx, err error, notFoundMsg string) error {
	if errors.Is(err, domain.ErrValidation) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	if errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: notFoundMsg})
	}
	if errors.Is(err, domain.ErrInvalidTransition) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_TRANSITION", Message: "el envío ya no admite esa transición de estado"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
