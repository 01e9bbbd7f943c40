package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("desconocido"), "nivel inválido cae en info")
}

func TestComponent_NoPanic(t *testing.T) {
	l := Nop()
	zl := l.Component("session")
	zl.Info().Msg("ok")
}
