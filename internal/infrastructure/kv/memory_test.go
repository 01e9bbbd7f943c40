package kv

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Gestion-api/internal/application/ports"
)

func TestMemoryStore_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "k", "v", 0))
	v, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)

	require.NoError(t, s.Delete(ctx, "k"))
	_, ok, _ = s.Get(ctx, "k")
	assert.False(t, ok)
}

func TestMemoryStore_TTL(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Set(ctx, "sesion", "x", time.Minute))
	_, ok, _ := s.Get(ctx, "sesion")
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok, _ = s.Get(ctx, "sesion")
	assert.False(t, ok, "la clave vencida no debe devolverse")
}

func TestMemoryStore_Incr(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	n, err := s.Incr(ctx, "visitas")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	n, _ = s.Incr(ctx, "visitas")
	assert.EqualValues(t, 2, n)
}

func TestMemoryStore_Listas(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.RPush(ctx, "chat", "a", "b", "c", "d"))

	all, err := s.LRange(ctx, "chat", 0, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d"}, all)

	tail, _ := s.LRange(ctx, "chat", -2, -1)
	assert.Equal(t, []string{"c", "d"}, tail)

	empty, _ := s.LRange(ctx, "chat", 10, 20)
	assert.Empty(t, empty)

	require.NoError(t, s.LTrim(ctx, "chat", -3, -1))
	all, _ = s.LRange(ctx, "chat", 0, -1)
	assert.Equal(t, []string{"b", "c", "d"}, all)
}

func TestMemoryStore_AppendSeq(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	build := func(seq int64) (string, error) { return strconv.FormatInt(seq, 10), nil }

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.AppendSeq(ctx, "seq", "lista", 0, build)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	all, err := s.LRange(ctx, "lista", 0, -1)
	require.NoError(t, err)
	require.Len(t, all, 50)
	for i, v := range all {
		assert.Equal(t, strconv.Itoa(i+1), v, "la lista sigue el orden del contador")
	}

	n, err := s.AppendSeq(ctx, "seq", "lista", 3, build)
	require.NoError(t, err)
	assert.EqualValues(t, 51, n)
	all, _ = s.LRange(ctx, "lista", 0, -1)
	assert.Equal(t, []string{"49", "50", "51"}, all)

	// un fallo al construir no consume número
	_, err = s.AppendSeq(ctx, "seq", "lista", 0, func(int64) (string, error) { return "", assert.AnError })
	assert.ErrorIs(t, err, assert.AnError)
	n, _ = s.Incr(ctx, "seq")
	assert.EqualValues(t, 52, n)
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	type prefs struct {
		Theme string `json:"theme"`
	}
	require.NoError(t, ports.SetJSON(ctx, s, "prefs:u1", prefs{Theme: "dark"}, 0))

	var out prefs
	ok, err := ports.GetJSON(ctx, s, "prefs:u1", &out)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "dark", out.Theme)

	ok, err = ports.GetJSON(ctx, s, "no-existe", &out)
	require.NoError(t, err)
	assert.False(t, ok)
}
