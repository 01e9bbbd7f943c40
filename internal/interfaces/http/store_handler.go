package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Gestion-api/internal/application/dto"
)

// StoreHandler puntos de venta y tienda activa.
type StoreHandler struct {
	scope
}

// NewStoreHandler construye el handler de tiendas.
func NewStoreHandler(sc scope) *StoreHandler {
	return &StoreHandler{scope: sc}
}

// List godoc
// @Summary      Listar puntos de venta
// @Tags         stores
// @Produce      json
// @Success      200  {array}  dto.StoreResponse
// @Router       /api/stores [get]
func (h *StoreHandler) List(c *fiber.Ctx) error {
	stores, err := h.stores.Stores(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	out := make([]dto.StoreResponse, 0, len(stores))
	for _, s := range stores {
		out = append(out, dto.NewStoreResponse(s))
	}
	return c.JSON(out)
}

// Access godoc
// @Summary      Acceso a tiendas de la identidad
// @Tags         stores
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  storeaccess.StoreAccess
// @Router       /api/stores/access [get]
func (h *StoreHandler) Access(c *fiber.Ctx) error {
	_, access, err := h.access(c)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(access)
}

// SetActive godoc
// @Summary      Cambiar la tienda activa
// @Description  store_id vacío = todas las tiendas accesibles. Un usuario de una sola tienda no puede cambiarla.
// @Tags         stores
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SetActiveStoreRequest  true  "store_id"
// @Success      200  {object}  storeaccess.StoreAccess
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/stores/access [put]
func (h *StoreHandler) SetActive(c *fiber.Ctx) error {
	var in dto.SetActiveStoreRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	identity, err := h.identity(c)
	if err != nil {
		return h.fail(c, err)
	}
	access, err := h.stores.SetActiveStore(c.UserContext(), identity, in.StoreID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(access)
}
