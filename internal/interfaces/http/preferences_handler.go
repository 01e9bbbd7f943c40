package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Gestion-api/internal/application/dto"
	"github.com/jhoicas/Gestion-api/internal/application/preferences"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
)

// PreferencesHandler tema, idioma y datos de la empresa.
type PreferencesHandler struct {
	scope
	theme   *preferences.ThemeProvider
	company *preferences.CompanyProvider
}

// NewPreferencesHandler construye el handler de preferencias.
func NewPreferencesHandler(sc scope, theme *preferences.ThemeProvider, company *preferences.CompanyProvider) *PreferencesHandler {
	return &PreferencesHandler{scope: sc, theme: theme, company: company}
}

func (h *PreferencesHandler) current(c *fiber.Ctx) dto.PreferencesResponse {
	return dto.PreferencesResponse{
		Theme:    string(h.theme.Get(c.UserContext(), GetUserID(c))),
		Language: h.tag(c).String(),
	}
}

// Get godoc
// @Summary      Preferencias del usuario
// @Tags         preferences
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  dto.PreferencesResponse
// @Router       /api/preferences [get]
func (h *PreferencesHandler) Get(c *fiber.Ctx) error {
	return c.JSON(h.current(c))
}

// Update godoc
// @Summary      Cambiar tema o idioma
// @Tags         preferences
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdatePreferencesRequest  true  "theme (light|dark|system), language (fr|en|es)"
// @Success      200   {object}  dto.PreferencesResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/preferences [put]
func (h *PreferencesHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdatePreferencesRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	ctx := c.UserContext()
	userID := GetUserID(c)
	if in.Theme != nil {
		if _, err := h.theme.Set(ctx, userID, *in.Theme); err != nil {
			return h.fail(c, err)
		}
	}
	if in.Language != nil {
		if _, err := h.lang.Set(ctx, userID, *in.Language); err != nil {
			return h.fail(c, err)
		}
	}
	return c.JSON(h.current(c))
}

// GetCompany godoc
// @Summary      Datos de la empresa
// @Tags         company
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  entity.CompanyInfo
// @Router       /api/company [get]
func (h *PreferencesHandler) GetCompany(c *fiber.Ctx) error {
	return c.JSON(h.company.Get(c.UserContext()))
}

// UpdateCompany godoc
// @Summary      Editar datos de la empresa
// @Tags         company
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  entity.CompanyInfo  true  "empresa"
// @Success      200   {object}  entity.CompanyInfo
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/company [put]
func (h *PreferencesHandler) UpdateCompany(c *fiber.Ctx) error {
	var in entity.CompanyInfo
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.company.Set(c.UserContext(), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}
