// Package kv contiene los adaptadores del almacén clave-valor local:
// Redis en despliegue y un almacén en memoria para desarrollo y tests.
package kv

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/jhoicas/Gestion-api/internal/application/ports"
)

var _ ports.KVStore = (*MemoryStore)(nil)

type memEntry struct {
	value     string
	expiresAt time.Time // cero = sin vencimiento
}

// MemoryStore implementación en memoria con la semántica de Redis usada por la app.
type MemoryStore struct {
	mu    sync.Mutex
	now   func() time.Time
	vals  map[string]memEntry
	lists map[string][]string
}

// NewMemoryStore construye un almacén vacío.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		now:   time.Now,
		vals:  make(map[string]memEntry),
		lists: make(map[string][]string),
	}
}

// Get lee una clave; las claves vencidas se tratan como inexistentes.
func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.vals[key]
	if !ok {
		return "", false, nil
	}
	if !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt) {
		delete(s.vals, key)
		return "", false, nil
	}
	return e.value, true, nil
}

// Set guarda una clave con TTL opcional.
func (s *MemoryStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := memEntry{value: value}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}
	s.vals[key] = e
	return nil
}

// Delete elimina claves simples y listas.
func (s *MemoryStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.vals, k)
		delete(s.lists, k)
	}
	return nil
}

// Incr incrementa un contador (inicia en 0).
func (s *MemoryStore) Incr(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, err := s.counter(key)
	if err != nil {
		return 0, err
	}
	n++
	s.vals[key] = memEntry{value: strconv.FormatInt(n, 10)}
	return n, nil
}

// counter valor actual de un contador; se llama bajo s.mu.
func (s *MemoryStore) counter(key string) (int64, error) {
	e, ok := s.vals[key]
	if !ok {
		return 0, nil
	}
	return strconv.ParseInt(e.value, 10, 64)
}

// AppendSeq incrementa el contador y agrega el valor bajo el mismo bloqueo.
func (s *MemoryStore) AppendSeq(_ context.Context, counterKey, listKey string, keep int64, build func(int64) (string, error)) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, err := s.counter(counterKey)
	if err != nil {
		return 0, err
	}
	n++
	value, err := build(n)
	if err != nil {
		return 0, err
	}
	s.vals[counterKey] = memEntry{value: strconv.FormatInt(n, 10)}
	list := append(s.lists[listKey], value)
	if keep > 0 && int64(len(list)) > keep {
		list = append([]string(nil), list[int64(len(list))-keep:]...)
	}
	s.lists[listKey] = list
	return n, nil
}

// RPush agrega al final de la lista.
func (s *MemoryStore) RPush(_ context.Context, key string, values ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists[key] = append(s.lists[key], values...)
	return nil
}

// LRange devuelve una copia del rango pedido.
func (s *MemoryStore) LRange(_ context.Context, key string, start, stop int64) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.lists[key]
	from, to, ok := redisRange(int64(len(list)), start, stop)
	if !ok {
		return []string{}, nil
	}
	out := make([]string, to-from+1)
	copy(out, list[from:to+1])
	return out, nil
}

// LTrim recorta la lista al rango pedido.
func (s *MemoryStore) LTrim(_ context.Context, key string, start, stop int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.lists[key]
	from, to, ok := redisRange(int64(len(list)), start, stop)
	if !ok {
		delete(s.lists, key)
		return nil
	}
	s.lists[key] = append([]string(nil), list[from:to+1]...)
	return nil
}

// redisRange normaliza índices negativos y fuera de rango como lo hace Redis.
func redisRange(n, start, stop int64) (int64, int64, bool) {
	if n == 0 {
		return 0, 0, false
	}
	if start < 0 {
		start += n
	}
	if stop < 0 {
		stop += n
	}
	if start < 0 {
		start = 0
	}
	if stop >= n {
		stop = n - 1
	}
	if start > stop || start >= n {
		return 0, 0, false
	}
	return start, stop, true
}
