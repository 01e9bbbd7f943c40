package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Gestion-api/internal/application/domaindata"
	"github.com/jhoicas/Gestion-api/internal/application/dto"
)

// CatalogHandler artículos, servicios y la vitrina pública.
type CatalogHandler struct {
	scope
	data *domaindata.Provider
}

// NewCatalogHandler construye el handler del catálogo.
func NewCatalogHandler(sc scope, data *domaindata.Provider) *CatalogHandler {
	return &CatalogHandler{scope: sc, data: data}
}

// ListArticles godoc
// @Summary      Listar artículos
// @Description  Filtrados por la tienda activa.
// @Tags         articles
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  dto.ArticleResponse
// @Router       /api/articles [get]
func (h *CatalogHandler) ListArticles(c *fiber.Ctx) error {
	_, access, err := h.access(c)
	if err != nil {
		return h.fail(c, err)
	}
	list := h.data.Articles(access)
	out := make([]dto.ArticleResponse, 0, len(list))
	for _, a := range list {
		out = append(out, dto.NewArticleResponse(a, domaindata.IsPlaceholder(a.ID)))
	}
	return c.JSON(out)
}

// GetArticle godoc
// @Summary      Obtener artículo
// @Tags         articles
// @Security     BearerAuth
// @Produce      json
// @Param        id   path  string  true  "ID del artículo"
// @Success      200  {object}  dto.ArticleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/articles/{id} [get]
func (h *CatalogHandler) GetArticle(c *fiber.Ctx) error {
	_, access, err := h.access(c)
	if err != nil {
		return h.fail(c, err)
	}
	a, err := h.data.Article(access, c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.NewArticleResponse(a, domaindata.IsPlaceholder(a.ID)))
}

// CreateArticle godoc
// @Summary      Crear artículo
// @Description  Escritura optimista: si el backend no responde queda pendiente con id provisional.
// @Tags         articles
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ArticleRequest  true  "artículo"
// @Success      201   {object}  dto.ArticleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/articles [post]
func (h *CatalogHandler) CreateArticle(c *fiber.Ctx) error {
	var in dto.ArticleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	_, access, err := h.access(c)
	if err != nil {
		return h.fail(c, err)
	}
	a, err := h.data.CreateArticle(c.UserContext(), access, in.ToEntity(""))
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewArticleResponse(a, domaindata.IsPlaceholder(a.ID)))
}

// UpdateArticle godoc
// @Summary      Reemplazar artículo
// @Tags         articles
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID del artículo"
// @Param        body  body  dto.ArticleRequest  true  "artículo"
// @Success      200   {object}  dto.ArticleResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/articles/{id} [put]
func (h *CatalogHandler) UpdateArticle(c *fiber.Ctx) error {
	var in dto.ArticleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	_, access, err := h.access(c)
	if err != nil {
		return h.fail(c, err)
	}
	a, err := h.data.UpdateArticle(c.UserContext(), access, in.ToEntity(c.Params("id")))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.NewArticleResponse(a, domaindata.IsPlaceholder(a.ID)))
}

// DeleteArticle godoc
// @Summary      Eliminar artículo
// @Tags         articles
// @Security     BearerAuth
// @Param        id   path  string  true  "ID del artículo"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/articles/{id} [delete]
func (h *CatalogHandler) DeleteArticle(c *fiber.Ctx) error {
	_, access, err := h.access(c)
	if err != nil {
		return h.fail(c, err)
	}
	if err := h.data.DeleteArticle(c.UserContext(), access, c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListServices godoc
// @Summary      Listar servicios
// @Tags         services
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  dto.ServiceResponse
// @Router       /api/services [get]
func (h *CatalogHandler) ListServices(c *fiber.Ctx) error {
	_, access, err := h.access(c)
	if err != nil {
		return h.fail(c, err)
	}
	list := h.data.Services(access)
	out := make([]dto.ServiceResponse, 0, len(list))
	for _, s := range list {
		out = append(out, dto.NewServiceResponse(s, domaindata.IsPlaceholder(s.ID)))
	}
	return c.JSON(out)
}

// GetService godoc
// @Summary      Obtener servicio
// @Tags         services
// @Security     BearerAuth
// @Produce      json
// @Param        id   path  string  true  "ID del servicio"
// @Success      200  {object}  dto.ServiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/services/{id} [get]
func (h *CatalogHandler) GetService(c *fiber.Ctx) error {
	_, access, err := h.access(c)
	if err != nil {
		return h.fail(c, err)
	}
	s, err := h.data.Service(access, c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.NewServiceResponse(s, domaindata.IsPlaceholder(s.ID)))
}

// CreateService godoc
// @Summary      Crear servicio
// @Tags         services
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ServiceRequest  true  "servicio"
// @Success      201   {object}  dto.ServiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/services [post]
func (h *CatalogHandler) CreateService(c *fiber.Ctx) error {
	var in dto.ServiceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	_, access, err := h.access(c)
	if err != nil {
		return h.fail(c, err)
	}
	s, err := h.data.CreateService(c.UserContext(), access, in.ToEntity(""))
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewServiceResponse(s, domaindata.IsPlaceholder(s.ID)))
}

// UpdateService godoc
// @Summary      Reemplazar servicio
// @Tags         services
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID del servicio"
// @Param        body  body  dto.ServiceRequest  true  "servicio"
// @Success      200   {object}  dto.ServiceResponse
// @Router       /api/services/{id} [put]
func (h *CatalogHandler) UpdateService(c *fiber.Ctx) error {
	var in dto.ServiceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	_, access, err := h.access(c)
	if err != nil {
		return h.fail(c, err)
	}
	s, err := h.data.UpdateService(c.UserContext(), access, in.ToEntity(c.Params("id")))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.NewServiceResponse(s, domaindata.IsPlaceholder(s.ID)))
}

// DeleteService godoc
// @Summary      Eliminar servicio
// @Tags         services
// @Security     BearerAuth
// @Param        id   path  string  true  "ID del servicio"
// @Success      204
// @Router       /api/services/{id} [delete]
func (h *CatalogHandler) DeleteService(c *fiber.Ctx) error {
	_, access, err := h.access(c)
	if err != nil {
		return h.fail(c, err)
	}
	if err := h.data.DeleteService(c.UserContext(), access, c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Shop godoc
// @Summary      Vitrina de la tienda en línea
// @Description  Artículos publicados de todas las tiendas, sin costo ni stock exacto.
// @Tags         shop
// @Produce      json
// @Success      200  {array}  dto.ShopArticleResponse
// @Router       /api/shop/articles [get]
func (h *CatalogHandler) Shop(c *fiber.Ctx) error {
	list := h.data.ShopArticles()
	out := make([]dto.ShopArticleResponse, 0, len(list))
	for _, a := range list {
		out = append(out, dto.NewShopArticleResponse(a))
	}
	return c.JSON(out)
}
