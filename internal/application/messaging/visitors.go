package messaging

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Gestion-api/internal/application/ports"
	"github.com/jhoicas/Gestion-api/internal/domain/navigation"
)

// Visitors contadores de visitas por vista y por día.
type Visitors struct {
	kv  ports.KVStore
	log zerolog.Logger
	now func() time.Time
}

// VisitStats resumen de visitas.
type VisitStats struct {
	Total  int64            `json:"total"`
	Today  int64            `json:"today"`
	ByView map[string]int64 `json:"by_view"`
}

// NewVisitors construye el contador.
func NewVisitors(kv ports.KVStore, log zerolog.Logger) *Visitors {
	return &Visitors{kv: kv, log: log, now: time.Now}
}

func dayKey(t time.Time) string { return "visits:day:" + t.UTC().Format("2006-01-02") }

// Record cuenta una visita a la vista. Los errores solo se registran.
func (v *Visitors) Record(ctx context.Context, view string) {
	if _, ok := navigation.Lookup(view); !ok {
		view = navigation.DefaultView
	}
	for _, key := range []string{"visits:total", "visits:view:" + view, dayKey(v.now())} {
		if _, err := v.kv.Incr(ctx, key); err != nil {
			v.log.Warn().Err(err).Str("key", key).Msg("contar visita")
			return
		}
	}
}

// Stats lee los contadores.
func (v *Visitors) Stats(ctx context.Context) (VisitStats, error) {
	st := VisitStats{ByView: map[string]int64{}}
	var err error
	if st.Total, err = v.counter(ctx, "visits:total"); err != nil {
		return st, err
	}
	if st.Today, err = v.counter(ctx, dayKey(v.now())); err != nil {
		return st, err
	}
	for _, item := range navigation.Items() {
		n, err := v.counter(ctx, "visits:view:"+item.ID)
		if err != nil {
			return st, err
		}
		if n > 0 {
			st.ByView[item.ID] = n
		}
	}
	return st, nil
}

func (v *Visitors) counter(ctx context.Context, key string) (int64, error) {
	raw, ok, err := v.kv.Get(ctx, key)
	if err != nil || !ok {
		return 0, err
	}
	return strconv.ParseInt(raw, 10, 64)
}
