package ports

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// KVStore define el puerto de salida para el estado local persistido:
// caché de sesión, transcripciones de chat, favoritos, carrito, preferencias
// y marcas de "último chat abierto". Claves en texto plano, valores JSON.
// Lo implementan el adaptador Redis y el almacén en memoria.
type KVStore interface {
	// Get devuelve (valor, true, nil) si la clave existe; ("", false, nil) si no.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set guarda el valor; ttl cero = sin vencimiento.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Incr(ctx context.Context, key string) (int64, error)
	// RPush agrega al final de la lista.
	RPush(ctx context.Context, key string, values ...string) error
	// LRange devuelve el rango [start, stop] con la semántica de índices de Redis (-1 = último).
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)
	// LTrim recorta la lista al rango [start, stop].
	LTrim(ctx context.Context, key string, start, stop int64) error
	// AppendSeq incrementa counterKey y agrega a listKey el valor que build arma
	// con el número obtenido, como una sola operación: ningún lector ve el
	// número N+1 en la lista antes que el N. keep > 0 conserva solo los últimos
	// keep elementos.
	AppendSeq(ctx context.Context, counterKey, listKey string, keep int64, build func(seq int64) (string, error)) (int64, error)
}

// GetJSON lee la clave y decodifica el JSON en out. Devuelve false si no existe.
func GetJSON(ctx context.Context, kv KVStore, key string, out any) (bool, error) {
	raw, ok, err := kv.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return false, fmt.Errorf("kv: decodificar %s: %w", key, err)
	}
	return true, nil
}

// SetJSON serializa v y lo guarda en la clave.
func SetJSON(ctx context.Context, kv KVStore, key string, v any, ttl time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("kv: serializar %s: %w", key, err)
	}
	return kv.Set(ctx, key, string(b), ttl)
}
