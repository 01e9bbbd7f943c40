package viewrouter

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Gestion-api/internal/application/ports"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
)

// Snapshot forma persistida del shell.
type Snapshot struct {
	ID        string    `json:"id"`
	State     State     `json:"state"`
	View      ViewState `json:"view"`
	Screen    Decision  `json:"screen"`
	UserID    string    `json:"user_id,omitempty"`
	UserName  string    `json:"user_name,omitempty"`
	Role      string    `json:"role,omitempty"`
	StartedAt time.Time `json:"started_at"`
}

// Snapshot captura el estado del shell bajo el id dado.
func (s *Shell) Snapshot(id string) Snapshot {
	snap := Snapshot{
		ID:        id,
		State:     s.state,
		View:      s.View(),
		Screen:    s.screen,
		StartedAt: s.startedAt,
	}
	if s.identity != nil {
		snap.UserID = s.identity.ID
		snap.UserName = s.identity.Name
		snap.Role = s.identity.Role
	}
	return snap
}

// Restore reconstruye un shell desde su snapshot.
func Restore(snap Snapshot, splash time.Duration) *Shell {
	s := &Shell{
		state:     snap.State,
		view:      snap.View,
		screen:    snap.Screen,
		startedAt: snap.StartedAt,
		splash:    splash,
	}
	if snap.UserID != "" {
		s.identity = &entity.Identity{ID: snap.UserID, Name: snap.UserName, Role: snap.Role}
	}
	if s.view.CurrentView == "" {
		s.view = DefaultViewState()
	}
	return s
}

// ShellStore persiste los shells en el KV local (clave shell:<id>).
type ShellStore struct {
	kv     ports.KVStore
	splash time.Duration
	ttl    time.Duration
	now    func() time.Time
}

// NewShellStore construye el almacén; ttl cero = sin vencimiento.
func NewShellStore(kv ports.KVStore, splash, ttl time.Duration) *ShellStore {
	return &ShellStore{kv: kv, splash: splash, ttl: ttl, now: time.Now}
}

func shellKey(id string) string {
	return "shell:" + id
}

// Start crea un shell nuevo en Splash y lo persiste.
func (st *ShellStore) Start(ctx context.Context, identity *entity.Identity) (string, *Shell, error) {
	id := uuid.New().String()
	sh := NewShell(st.now(), st.splash)
	if identity != nil {
		sh.identity = identity
	}
	if err := st.Save(ctx, id, sh); err != nil {
		return "", nil, err
	}
	return id, sh, nil
}

// Load restaura el shell y avanza su temporizador. Devuelve (nil, nil) si no existe.
func (st *ShellStore) Load(ctx context.Context, id string) (*Shell, error) {
	if id == "" {
		return nil, nil
	}
	var snap Snapshot
	ok, err := ports.GetJSON(ctx, st.kv, shellKey(id), &snap)
	if err != nil {
		return nil, fmt.Errorf("shell: cargar %s: %w", id, err)
	}
	if !ok {
		return nil, nil
	}
	sh := Restore(snap, st.splash)
	sh.Tick(st.now())
	return sh, nil
}

// Save persiste el shell.
func (st *ShellStore) Save(ctx context.Context, id string, sh *Shell) error {
	return ports.SetJSON(ctx, st.kv, shellKey(id), sh.Snapshot(id), st.ttl)
}

// Delete elimina el shell.
func (st *ShellStore) Delete(ctx context.Context, id string) error {
	return st.kv.Delete(ctx, shellKey(id))
}
