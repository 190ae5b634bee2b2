package http

import (
	"bytes"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/todolap-api/internal/application/dto"
	"github.com/jhoicas/todolap-api/internal/application/sales"
)

// SaleHandler punto de venta: búsqueda, checkout, historial, recibo y export.
type SaleHandler struct {
	checkout *sales.CheckoutUseCase
	query    *sales.QueryUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(checkout *sales.CheckoutUseCase, query *sales.QueryUseCase) *SaleHandler {
	return &SaleHandler{checkout: checkout, query: query}
}

// Search godoc
// @Summary      Buscar productos con stock para el carrito
// @Tags         pos
// @Security     Bearer
// @Produce      json
// @Param        q    query  string  true  "Texto (mínimo 2 caracteres)"
// @Success      200  {array}   dto.ProductAvailabilityResponse
// @Router       /api/pos/search [get]
func (h *SaleHandler) Search(c *fiber.Ctx) error {
	out, err := h.query.SearchProducts(c.UserContext(), c.Query("q"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Checkout godoc
// @Summary      Confirmar venta (checkout del carrito)
// @Description  Descuenta stock y registra la venta en una sola transacción. Si un producto no alcanza no se aplica ninguna línea.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CheckoutRequest  true  "Carrito y método de pago"
// @Success      201   {object}  dto.CheckoutResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.InsufficientStockResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Checkout(c *fiber.Ctx) error {
	var in dto.CheckoutRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	var operatorID *string
	if id := GetUserID(c); id != "" {
		operatorID = &id
	}
	out, err := h.checkout.Checkout(c.UserContext(), operatorID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Historial de ventas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        from    query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to      query  string  false  "Hasta inclusive (YYYY-MM-DD)"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.SaleListResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	var in dto.SaleListRequest
	if ok, err := parseQuery(c, &in); !ok {
		return err
	}
	out, err := h.query.List(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Detalle de venta
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	id, ok, err := pathID(c)
	if !ok {
		return err
	}
	out, err := h.query.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Receipt godoc
// @Summary      Recibo PDF de la venta
// @Tags         sales
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/receipt [get]
func (h *SaleHandler) Receipt(c *fiber.Ctx) error {
	id, ok, err := pathID(c)
	if !ok {
		return err
	}
	pdf, filename, err := h.query.Receipt(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return attachment(c, "application/pdf", filename, pdf)
}

// Export godoc
// @Summary      Exportar ventas a CSV
// @Tags         sales
// @Security     Bearer
// @Produce      text/csv
// @Param        from  query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to    query  string  false  "Hasta inclusive (YYYY-MM-DD)"
// @Success      200   {file}  binary
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/sales/export [get]
func (h *SaleHandler) Export(c *fiber.Ctx) error {
	var in dto.SaleListRequest
	if ok, err := parseQuery(c, &in); !ok {
		return err
	}
	var buf bytes.Buffer
	if err := h.query.ExportCSV(c.UserContext(), &buf, in); err != nil {
		return respondError(c, err)
	}
	filename := "ventas_" + time.Now().Format("20060102") + ".csv"
	return attachment(c, "text/csv; charset=utf-8", filename, buf.Bytes())
}
