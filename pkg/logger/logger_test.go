package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/moda-retail/pkg/logger"
)

func TestNew_JSONWithServiceAndComponent(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "info", Service: "moda-retail", Output: &buf})

	log.Component("cash").Info().Str("store_id", "s-1").Msg("caixa aberto")
	log.Debug().Msg("no debe salir")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "moda-retail", line["service"])
	assert.Equal(t, "cash", line["component"])
	assert.Equal(t, "s-1", line["store_id"])
	assert.Equal(t, "caixa aberto", line["message"])
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() { logger.Nop().Error().Msg("descartado") })
}
