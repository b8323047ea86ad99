package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitJSON(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	var buf bytes.Buffer
	require.NoError(t, InitWithWriter("debug", "json", &buf))
	log.Debug().Str("ticker", "AAPL").Msg("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["message"])
	assert.Equal(t, "AAPL", entry["ticker"])
	assert.Equal(t, "debug", entry["level"])
}

func TestInitFiltersBelowLevel(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	var buf bytes.Buffer
	require.NoError(t, InitWithWriter("warn", "json", &buf))
	log.Info().Msg("dropped")
	assert.Zero(t, buf.Len())
}

func TestInitRejectsUnknownLevel(t *testing.T) {
	assert.Error(t, InitWithWriter("loud", "json", &bytes.Buffer{}))
}
