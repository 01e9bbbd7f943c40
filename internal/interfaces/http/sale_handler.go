package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/text/language"

	"github.com/jhoicas/Gestion-api/internal/application/domaindata"
	"github.com/jhoicas/Gestion-api/internal/application/dto"
	"github.com/jhoicas/Gestion-api/internal/application/preferences"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/infrastructure/pdf"
)

// ReceiptRenderer genera el ticket de una venta.
type ReceiptRenderer interface {
	Generate(ctx context.Context, r pdf.Receipt) ([]byte, error)
}

// SaleHandler ventas de caja, pedidos del cliente y tickets.
type SaleHandler struct {
	scope
	data     *domaindata.Provider
	company  *preferences.CompanyProvider
	receipts ReceiptRenderer
}

// NewSaleHandler construye el handler de ventas.
func NewSaleHandler(sc scope, data *domaindata.Provider, company *preferences.CompanyProvider, receipts ReceiptRenderer) *SaleHandler {
	return &SaleHandler{scope: sc, data: data, company: company, receipts: receipts}
}

func (h *SaleHandler) toResponse(s *entity.Sale) dto.SaleResponse {
	return dto.NewSaleResponse(s, h.data.ClientName(s.ClientID), domaindata.IsPlaceholder(s.ID))
}

// List godoc
// @Summary      Listar ventas
// @Tags         sales
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  dto.SaleResponse
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	_, access, err := h.access(c)
	if err != nil {
		return h.fail(c, err)
	}
	list := h.data.Sales(access)
	out := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		out = append(out, h.toResponse(s))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener venta
// @Tags         sales
// @Security     BearerAuth
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	_, access, err := h.access(c)
	if err != nil {
		return h.fail(c, err)
	}
	s, err := h.data.Sale(access, c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(h.toResponse(s))
}

// Create godoc
// @Summary      Registrar venta
// @Description  Descuenta stock, acredita puntos al cliente y avisa al personal. Precio y tasa salen del catálogo.
// @Tags         sales
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "venta"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	identity, access, err := h.access(c)
	if err != nil {
		return h.fail(c, err)
	}
	sellerID := GetUserID(c)
	if identity != nil {
		sellerID = identity.ID
	}
	s, err := h.data.CreateSale(c.UserContext(), access, sellerID, in.ToEntity())
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(h.toResponse(s))
}

// Update godoc
// @Summary      Editar cabecera de venta
// @Description  Solo cliente y medio de pago; líneas y totales no se editan.
// @Tags         sales
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID de la venta"
// @Param        body  body  dto.UpdateSaleRequest  true  "cabecera"
// @Success      200   {object}  dto.SaleResponse
// @Router       /api/sales/{id} [put]
func (h *SaleHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	_, access, err := h.access(c)
	if err != nil {
		return h.fail(c, err)
	}
	s, err := h.data.UpdateSale(c.UserContext(), access, c.Params("id"), in.ClientID, in.PaymentMethod)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(h.toResponse(s))
}

// Delete godoc
// @Summary      Anular venta
// @Description  No repone stock ni retira puntos.
// @Tags         sales
// @Security     BearerAuth
// @Param        id   path  string  true  "ID de la venta"
// @Success      204
// @Router       /api/sales/{id} [delete]
func (h *SaleHandler) Delete(c *fiber.Ctx) error {
	_, access, err := h.access(c)
	if err != nil {
		return h.fail(c, err)
	}
	if err := h.data.DeleteSale(c.UserContext(), access, c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// MyOrders godoc
// @Summary      Mis pedidos
// @Tags         sales
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  dto.SaleResponse
// @Router       /api/my-orders [get]
func (h *SaleHandler) MyOrders(c *fiber.Ctx) error {
	list := h.data.OrdersForUser(GetUserID(c))
	out := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		out = append(out, h.toResponse(s))
	}
	return c.JSON(out)
}

// Receipt godoc
// @Summary      Ticket de venta en PDF
// @Description  Textos en el idioma del usuario y montos en la moneda de la empresa.
// @Tags         sales
// @Security     BearerAuth
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/receipt [get]
func (h *SaleHandler) Receipt(c *fiber.Ctx) error {
	_, access, err := h.access(c)
	if err != nil {
		return h.fail(c, err)
	}
	s, err := h.data.Sale(access, c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	ctx := c.UserContext()
	tag := h.tag(c)
	doc, err := h.receipts.Generate(ctx, pdf.Receipt{
		Sale:       s,
		Company:    h.company.Get(ctx),
		ClientName: h.data.ClientName(s.ClientID),
		Language:   tag,
		Labels:     h.labels(tag, s),
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "PDF_FAILED", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+s.Number+`.pdf"`)
	return c.Send(doc)
}

func (h *SaleHandler) labels(tag language.Tag, s *entity.Sale) pdf.Labels {
	t := func(key string, args ...any) string { return h.lang.T(tag, key, args...) }
	return pdf.Labels{
		Title:   t(preferences.MsgReceiptTitle),
		Client:  t(preferences.MsgReceiptClient),
		WalkIn:  t(preferences.MsgReceiptWalkIn),
		Item:    t(preferences.MsgReceiptItem),
		Qty:     t(preferences.MsgReceiptQty),
		Price:   t(preferences.MsgReceiptPrice),
		Tax:     t(preferences.MsgReceiptTax),
		Net:     t(preferences.MsgReceiptNet),
		Total:   t(preferences.MsgReceiptTotal),
		Payment: t(preferences.MsgReceiptPayment),
		Thanks:  t(preferences.MsgReceiptThanks),
		Points:  t(preferences.MsgReceiptPoints, s.LoyaltyPoints()),
	}
}
