package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/todolap-api/internal/application/billing"
	"github.com/jhoicas/todolap-api/internal/application/dto"
	"github.com/jhoicas/todolap-api/internal/application/quoting"
)

// QuoteHandler cotizaciones de servicio y su cobro.
type QuoteHandler struct {
	create     *quoting.CreateQuoteUseCase
	query      *quoting.QueryUseCase
	settlement *billing.SettlementUseCase
}

// NewQuoteHandler construye el handler.
func NewQuoteHandler(create *quoting.CreateQuoteUseCase, query *quoting.QueryUseCase, settlement *billing.SettlementUseCase) *QuoteHandler {
	return &QuoteHandler{create: create, query: query, settlement: settlement}
}

// Create godoc
// @Summary      Cotizar servicio
// @Description  Congela el precio del servicio y de cada producto. No reserva stock.
// @Tags         quotes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateQuoteRequest  true  "Servicio, cliente y productos"
// @Success      201   {object}  dto.QuoteResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/quotes [post]
func (h *QuoteHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateQuoteRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.create.CreateQuote(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar cotizaciones
// @Tags         quotes
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "quoted (por defecto) | paid"
// @Param        q       query  string  false  "Cliente o servicio"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.QuoteListResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/quotes [get]
func (h *QuoteHandler) List(c *fiber.Ctx) error {
	var in dto.QuoteListRequest
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
// @Summary      Detalle de cotización
// @Tags         quotes
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la cotización"
// @Success      200  {object}  dto.QuoteResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/quotes/{id} [get]
func (h *QuoteHandler) GetByID(c *fiber.Ctx) error {
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

// PDF godoc
// @Summary      Cotización en PDF
// @Tags         quotes
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la cotización"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/quotes/{id}/pdf [get]
func (h *QuoteHandler) PDF(c *fiber.Ctx) error {
	id, ok, err := pathID(c)
	if !ok {
		return err
	}
	pdf, filename, err := h.query.PDF(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return attachment(c, "application/pdf", filename, pdf)
}

// Pay godoc
// @Summary      Cobrar cotización
// @Description  Marca la cotización como pagada una sola vez. No descuenta stock.
// @Tags         quotes
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la cotización"
// @Success      200  {object}  dto.PaymentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/quotes/{id}/pay [post]
func (h *QuoteHandler) Pay(c *fiber.Ctx) error {
	id, ok, err := pathID(c)
	if !ok {
		return err
	}
	out, err := h.settlement.Pay(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
