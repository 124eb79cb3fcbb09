package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZerologAdapterWritesComponentAndFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewZerolog(&buf, zerolog.InfoLevel)

	log.Info("matcher", "matched nuclei", map[string]interface{}{"count": 3})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "matcher", entry["component"])
	assert.Equal(t, "matched nuclei", entry["message"])
	assert.EqualValues(t, 3, entry["count"])
}

func TestZerologAdapterRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewZerolog(&buf, zerolog.WarnLevel)

	log.Debug("stats", "hidden", nil)
	log.Info("stats", "hidden", nil)
	assert.Zero(t, buf.Len())

	log.Error("stats", errors.New("boom"), map[string]interface{}{"cell": "abc"})
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "abc", entry["cell"])
}

func TestNopLogger(t *testing.T) {
	var log Logger = NewNop()
	log.Warning("x", "y", map[string]interface{}{"k": 1})
}
