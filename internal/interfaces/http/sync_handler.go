package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Gestion-api/internal/application/domaindata"
	"github.com/jhoicas/Gestion-api/internal/application/dto"
	"github.com/jhoicas/Gestion-api/internal/application/preferences"
)

// SyncHandler estado de la caché de dominio y reconciliación manual.
type SyncHandler struct {
	scope
	data *domaindata.Provider
}

// NewSyncHandler construye el handler de sincronización.
func NewSyncHandler(sc scope, data *domaindata.Provider) *SyncHandler {
	return &SyncHandler{scope: sc, data: data}
}

// Status godoc
// @Summary      Estado de sincronización
// @Description  degraded = el backend no respondió en la última carga (banner de conexión).
// @Tags         sync
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  dto.SyncStatusResponse
// @Router       /api/sync/status [get]
func (h *SyncHandler) Status(c *fiber.Ctx) error {
	st := h.data.Status()
	out := dto.SyncStatusResponse{
		Loaded:        st.Loaded,
		Degraded:      st.Degraded,
		Pending:       st.Pending,
		LastSyncError: st.LastSyncError,
		NeedsReload:   st.NeedsReload,
	}
	if !st.LastSyncAt.IsZero() {
		out.LastSyncAt = st.LastSyncAt.Format(time.RFC3339)
	}
	switch {
	case st.Degraded:
		out.Message = h.t(c, preferences.MsgConnectionFailed)
	case st.Pending > 0:
		out.Message = h.t(c, preferences.MsgPendingWrites, st.Pending)
	}
	return c.JSON(out)
}

// Sync godoc
// @Summary      Reconciliar escrituras pendientes
// @Description  Recarga la caché si estaba degradada y reproduce la cola en orden. Se detiene en el primer error transitorio.
// @Tags         sync
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  dto.SyncReportResponse
// @Failure      503  {object}  dto.SyncReportResponse
// @Router       /api/sync [post]
func (h *SyncHandler) Sync(c *fiber.Ctx) error {
	ctx := c.UserContext()
	if st := h.data.Status(); st.Degraded || st.NeedsReload {
		if err := h.data.Load(ctx); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.SyncReportResponse{
				Remaining: st.Pending, Error: h.t(c, preferences.MsgConnectionFailed),
			})
		}
	}
	rep, err := h.data.Reconcile(ctx)
	out := dto.SyncReportResponse{Applied: rep.Applied, Dropped: rep.Dropped, Remaining: rep.Remaining}
	if err != nil {
		out.Error = err.Error()
		return c.Status(fiber.StatusServiceUnavailable).JSON(out)
	}
	return c.JSON(out)
}

// Health godoc
// @Summary      Salud del servicio
// @Tags         health
// @Produce      json
// @Success      200  {object}  dto.HealthResponse
// @Router       /health [get]
func (h *SyncHandler) Health(c *fiber.Ctx) error {
	st := h.data.Status()
	status := "ok"
	if st.Degraded {
		status = "degraded"
	}
	return c.JSON(dto.HealthResponse{Status: status, Degraded: st.Degraded})
}
