package domaindata

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Gestion-api/internal/application/ports"
)

// Kind entidad afectada por una mutación.
type Kind string

const (
	KindArticle Kind = "article"
	KindService Kind = "service"
	KindClient  Kind = "client"
	KindSale    Kind = "sale"
)

// Op operación de la mutación.
type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// PlaceholderPrefix prefijo de los ids asignados localmente antes de que el backend acepte la creación.
const PlaceholderPrefix = "local-"

// NewPlaceholderID genera un id provisional.
func NewPlaceholderID() string {
	return PlaceholderPrefix + uuid.New().String()
}

// IsPlaceholder informa si id es provisional.
func IsPlaceholder(id string) bool {
	return strings.HasPrefix(id, PlaceholderPrefix)
}

// Mutation escritura aplicada en la caché y pendiente de confirmar en el backend.
type Mutation struct {
	Seq       int64           `json:"seq"`
	Kind      Kind            `json:"kind"`
	Op        Op              `json:"op"`
	EntityID  string          `json:"entity_id"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Attempts  int             `json:"attempts"`
	LastError string          `json:"last_error,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

const pendingKey = "pending:domaindata"

type pendingState struct {
	Seq     int64             `json:"seq"`
	Entries []Mutation        `json:"entries"`
	Aliases map[string]string `json:"aliases,omitempty"` // id provisional -> id persistido
}

// PendingLog registro write-ahead de mutaciones pendientes, persistido en el KV
// local para sobrevivir a reinicios. Se reproduce en orden de Seq.
type PendingLog struct {
	kv    ports.KVStore
	mu    sync.Mutex
	state pendingState
}

// OpenPendingLog carga el registro persistido (vacío si no existe).
func OpenPendingLog(ctx context.Context, kv ports.KVStore) (*PendingLog, error) {
	l := &PendingLog{kv: kv, state: pendingState{Aliases: map[string]string{}}}
	if _, err := ports.GetJSON(ctx, kv, pendingKey, &l.state); err != nil {
		return l, fmt.Errorf("pending log: %w", err)
	}
	if l.state.Aliases == nil {
		l.state.Aliases = map[string]string{}
	}
	return l, nil
}

func (l *PendingLog) persist(ctx context.Context) error {
	if err := ports.SetJSON(ctx, l.kv, pendingKey, l.state, 0); err != nil {
		return fmt.Errorf("pending log: %w", err)
	}
	return nil
}

// Append agrega la mutación al final y la persiste. La mutación queda en memoria
// aunque falle la persistencia.
func (l *PendingLog) Append(ctx context.Context, m Mutation) (Mutation, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state.Seq++
	m.Seq = l.state.Seq
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	l.state.Entries = append(l.state.Entries, m)
	return m, l.persist(ctx)
}

// Entries copia de las mutaciones en orden.
func (l *PendingLog) Entries() []Mutation {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Mutation(nil), l.state.Entries...)
}

// Len cantidad de mutaciones pendientes.
func (l *PendingLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.state.Entries)
}

// Remove elimina la mutación seq.
func (l *PendingLog) Remove(ctx context.Context, seq int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := l.state.Entries[:0]
	for _, m := range l.state.Entries {
		if m.Seq != seq {
			out = append(out, m)
		}
	}
	l.state.Entries = out
	return l.persist(ctx)
}

// Update reemplaza la mutación con el mismo Seq (contador de intentos y último error).
func (l *PendingLog) Update(ctx context.Context, m Mutation) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.state.Entries {
		if l.state.Entries[i].Seq == m.Seq {
			l.state.Entries[i] = m
		}
	}
	return l.persist(ctx)
}

// Alias registra que el id provisional from fue persistido como to.
func (l *PendingLog) Alias(ctx context.Context, from, to string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state.Aliases[from] = to
	return l.persist(ctx)
}

// Resolve devuelve el id persistido de un id provisional ya confirmado, o el mismo id.
func (l *PendingLog) Resolve(id string) string {
	if !IsPlaceholder(id) {
		return id
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if to, ok := l.state.Aliases[id]; ok {
		return to
	}
	return id
}

// PruneAliases olvida los alias cuando ya no queda nada pendiente que los use.
func (l *PendingLog) PruneAliases(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.state.Entries) > 0 || len(l.state.Aliases) == 0 {
		return nil
	}
	l.state.Aliases = map[string]string{}
	return l.persist(ctx)
}
