package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Gestion-api/internal/application/domaindata"
	"github.com/jhoicas/Gestion-api/internal/application/dto"
)

// ClientHandler fichas de clientes y fidelidad.
type ClientHandler struct {
	scope
	data *domaindata.Provider
}

// NewClientHandler construye el handler de clientes.
func NewClientHandler(sc scope, data *domaindata.Provider) *ClientHandler {
	return &ClientHandler{scope: sc, data: data}
}

// List godoc
// @Summary      Listar clientes
// @Tags         clients
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  dto.ClientResponse
// @Router       /api/clients [get]
func (h *ClientHandler) List(c *fiber.Ctx) error {
	_, access, err := h.access(c)
	if err != nil {
		return h.fail(c, err)
	}
	list := h.data.Clients(access)
	out := make([]dto.ClientResponse, 0, len(list))
	for _, cl := range list {
		out = append(out, dto.NewClientResponse(cl, domaindata.IsPlaceholder(cl.ID)))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener cliente
// @Tags         clients
// @Security     BearerAuth
// @Produce      json
// @Param        id   path  string  true  "ID del cliente"
// @Success      200  {object}  dto.ClientResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/clients/{id} [get]
func (h *ClientHandler) GetByID(c *fiber.Ctx) error {
	_, access, err := h.access(c)
	if err != nil {
		return h.fail(c, err)
	}
	cl, err := h.data.Client(access, c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.NewClientResponse(cl, domaindata.IsPlaceholder(cl.ID)))
}

// Create godoc
// @Summary      Crear cliente
// @Tags         clients
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ClientRequest  true  "cliente"
// @Success      201   {object}  dto.ClientResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/clients [post]
func (h *ClientHandler) Create(c *fiber.Ctx) error {
	var in dto.ClientRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	_, access, err := h.access(c)
	if err != nil {
		return h.fail(c, err)
	}
	cl, err := h.data.CreateClient(c.UserContext(), access, in.ToEntity(""))
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewClientResponse(cl, domaindata.IsPlaceholder(cl.ID)))
}

// Update godoc
// @Summary      Editar cliente
// @Description  Los puntos de fidelidad solo cambian con las ventas.
// @Tags         clients
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "ID del cliente"
// @Param        body  body  dto.ClientRequest  true  "cliente"
// @Success      200   {object}  dto.ClientResponse
// @Router       /api/clients/{id} [put]
func (h *ClientHandler) Update(c *fiber.Ctx) error {
	var in dto.ClientRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	_, access, err := h.access(c)
	if err != nil {
		return h.fail(c, err)
	}
	cl, err := h.data.UpdateClient(c.UserContext(), access, in.ToEntity(c.Params("id")))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.NewClientResponse(cl, domaindata.IsPlaceholder(cl.ID)))
}

// Delete godoc
// @Summary      Eliminar cliente
// @Tags         clients
// @Security     BearerAuth
// @Param        id   path  string  true  "ID del cliente"
// @Success      204
// @Router       /api/clients/{id} [delete]
func (h *ClientHandler) Delete(c *fiber.Ctx) error {
	_, access, err := h.access(c)
	if err != nil {
		return h.fail(c, err)
	}
	if err := h.data.DeleteClient(c.UserContext(), access, c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Loyalty godoc
// @Summary      Mi fidelidad
// @Description  Puntos y nivel del cliente vinculado a la identidad.
// @Tags         clients
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  dto.LoyaltyResponse
// @Router       /api/loyalty [get]
func (h *ClientHandler) Loyalty(c *fiber.Ctx) error {
	cl, err := h.data.ClientForUser(GetUserID(c))
	if err != nil {
		// Sin ficha todavía: nivel inicial.
		return c.JSON(dto.NewLoyaltyResponse(nil))
	}
	return c.JSON(dto.NewLoyaltyResponse(cl))
}
