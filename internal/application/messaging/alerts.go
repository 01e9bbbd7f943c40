package messaging

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Gestion-api/internal/application/ports"
	"github.com/jhoicas/Gestion-api/internal/application/storeaccess"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
)

const (
	alertsKey = "alerts"
	// AlertsLimit avisos conservados.
	AlertsLimit = 200
)

// Alerts anillo de avisos para el personal (stock bajo, ventas, mensajes de clientes).
type Alerts struct {
	kv  ports.KVStore
	log zerolog.Logger
	now func() time.Time
}

// NewAlerts construye el proveedor de avisos.
func NewAlerts(kv ports.KVStore, log zerolog.Logger) *Alerts {
	return &Alerts{kv: kv, log: log, now: time.Now}
}

func seenKey(userID string) string { return "alerts:seen:" + userID }

// Notify guarda el aviso. Nunca falla: los errores del KV se registran.
func (a *Alerts) Notify(ctx context.Context, n entity.Notification) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = a.now().UTC()
	}
	raw, err := json.Marshal(n)
	if err != nil {
		a.log.Error().Err(err).Msg("serializar aviso")
		return
	}
	if err := a.kv.RPush(ctx, alertsKey, string(raw)); err != nil {
		a.log.Warn().Err(err).Str("kind", n.Kind).Msg("guardar aviso")
		return
	}
	if err := a.kv.LTrim(ctx, alertsKey, -AlertsLimit, -1); err != nil {
		a.log.Warn().Err(err).Msg("recortar avisos")
	}
	a.log.Debug().Str("kind", n.Kind).Str("ref_id", n.RefID).Msg("aviso")
}

// Recent avisos visibles para el acceso dado, del más reciente al más antiguo.
func (a *Alerts) Recent(ctx context.Context, access storeaccess.StoreAccess, policy storeaccess.Policy, limit int) ([]entity.Notification, error) {
	rows, err := a.kv.LRange(ctx, alertsKey, 0, -1)
	if err != nil {
		return nil, err
	}
	out := []entity.Notification{}
	for i := len(rows) - 1; i >= 0; i-- {
		var n entity.Notification
		if err := json.Unmarshal([]byte(rows[i]), &n); err != nil {
			continue
		}
		if !access.Visible(n.StoreID, policy) {
			continue
		}
		out = append(out, n)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// MarkSeen registra que el usuario revisó los avisos.
func (a *Alerts) MarkSeen(ctx context.Context, userID string) error {
	return a.kv.Set(ctx, seenKey(userID), a.now().UTC().Format(time.RFC3339Nano), 0)
}

// Unseen cantidad de avisos visibles posteriores a la última revisión.
func (a *Alerts) Unseen(ctx context.Context, userID string, access storeaccess.StoreAccess, policy storeaccess.Policy) (int, error) {
	var since time.Time
	raw, ok, err := a.kv.Get(ctx, seenKey(userID))
	if err != nil {
		return 0, err
	}
	if ok {
		since, _ = time.Parse(time.RFC3339Nano, raw)
	}
	list, err := a.Recent(ctx, access, policy, 0)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, it := range list {
		if it.CreatedAt.After(since) {
			n++
		}
	}
	return n, nil
}
