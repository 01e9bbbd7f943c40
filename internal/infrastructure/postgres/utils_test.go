package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Gestion-api/internal/domain"
)

func TestWrap_TraduceErroresDelServidor(t *testing.T) {
	assert.NoError(t, wrap("op", nil))
	assert.ErrorIs(t, wrap("op", &pgconn.PgError{Code: "23505"}), domain.ErrDuplicate)
	assert.ErrorIs(t, wrap("op", &pgconn.PgError{Code: "23503", ConstraintName: "sales_client_id_fkey"}), domain.ErrConflict)
	assert.ErrorIs(t, wrap("op", &pgconn.PgError{Code: "22P02"}), domain.ErrInvalidInput)
	assert.ErrorIs(t, wrap("op", &pgconn.PgError{Code: "23514"}), domain.ErrInvalidInput)

	other := wrap("op", &pgconn.PgError{Code: "40001"})
	assert.NotErrorIs(t, other, domain.ErrBackendUnavailable)
	assert.NotErrorIs(t, other, domain.ErrInvalidInput)
}

func TestWrap_FallosDeRedSonTransitorios(t *testing.T) {
	err := wrap("list articles", errors.New("dial tcp 10.0.0.1:5432: connect: connection refused"))
	assert.ErrorIs(t, err, domain.ErrBackendUnavailable)
	assert.Contains(t, err.Error(), "list articles")

	assert.ErrorIs(t, wrap("op", context.Canceled), context.Canceled)
}

func TestMustAffect(t *testing.T) {
	assert.ErrorIs(t, mustAffect(pgconn.NewCommandTag("UPDATE 0")), domain.ErrNotFound)
	assert.NoError(t, mustAffect(pgconn.NewCommandTag("UPDATE 1")))
}

func TestNullHelpers(t *testing.T) {
	assert.Nil(t, nullIfEmpty(""))
	assert.Equal(t, "x", *nullIfEmpty("x"))
	assert.Equal(t, "", fromNull(nil))
	assert.Equal(t, "x", fromNull(nullIfEmpty("x")))
}
