package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abastoflow/abastoflow/pkg/logger"
)

func TestNew_JSONConServicio(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "info", Output: &buf, Service: "api"})

	log.Debug().Msg("no debe salir")
	log.Info().Str("sale_id", "s-1").Msg("venta registrada")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "api", entry["service"])
	assert.Equal(t, "s-1", entry["sale_id"])
	assert.Equal(t, "venta registrada", entry["message"])
}

func TestNew_ConsolaEnDevelopment(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "development", Level: "debug", Output: &buf})

	log.Debug().Msg("hola")
	assert.Contains(t, buf.String(), "hola")
	assert.NotContains(t, buf.String(), `"message"`)
}
