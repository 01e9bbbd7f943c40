// Package memory implementa los puertos de persistencia en memoria. Sirve como
// backend de desarrollo (DB_DRIVER=memory) y como backend simulado en tests,
// con inyección de fallos para reproducir un backend remoto caído.
package memory

import (
	"sync"

	"github.com/jhoicas/Gestion-api/internal/domain"
)

// Faults controla los fallos simulados de lectura y escritura.
type Faults struct {
	mu     sync.RWMutex
	reads  error
	writes error
}

// FailReads hace que toda lectura devuelva err (nil lo desactiva).
func (f *Faults) FailReads(err error) {
	f.mu.Lock()
	f.reads = err
	f.mu.Unlock()
}

// FailWrites hace que toda escritura devuelva err (nil lo desactiva).
func (f *Faults) FailWrites(err error) {
	f.mu.Lock()
	f.writes = err
	f.mu.Unlock()
}

// Offline simula la pérdida total del backend.
func (f *Faults) Offline() {
	f.FailReads(domain.ErrBackendUnavailable)
	f.FailWrites(domain.ErrBackendUnavailable)
}

// Online restablece el backend.
func (f *Faults) Online() {
	f.FailReads(nil)
	f.FailWrites(nil)
}

func (f *Faults) readErr() error {
	if f == nil {
		return nil
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.reads
}

func (f *Faults) writeErr() error {
	if f == nil {
		return nil
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.writes
}
