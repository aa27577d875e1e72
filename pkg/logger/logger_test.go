package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponent_AgregaCampo(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "info").Component("masters")
	l.Info().Int("rows", 3).Msg("carga")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "masters", entry["component"])
	assert.Equal(t, float64(3), entry["rows"])
	assert.Equal(t, "carga", entry["message"])
}

func TestNivel_FiltraDebug(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "warn")
	l.Info().Msg("oculto")
	assert.Empty(t, buf.String())
	l.Warn().Msg("visible")
	assert.Contains(t, buf.String(), "visible")
}
