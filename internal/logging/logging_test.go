package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONCarriesRunID(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, Options{Level: "info", JSON: true, RunID: "run-1"})
	require.NoError(t, err)

	logger.Info().Str("version", "v1").Msg("decided")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "run-1", line["run_id"])
	assert.Equal(t, "v1", line["version"])
	assert.Equal(t, "decided", line["message"])
}

func TestNew_GeneratesRunID(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, Options{Level: "debug", JSON: true})
	require.NoError(t, err)

	logger.Debug().Msg("x")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	_, err = uuid.Parse(line["run_id"].(string))
	assert.NoError(t, err)
}

func TestNew_DefaultLevelSuppressesInfo(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, Options{})
	require.NoError(t, err)

	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.True(t, strings.Contains(out, "shown"))
}

func TestParseFormat(t *testing.T) {
	jsonLines, err := ParseFormat("json")
	require.NoError(t, err)
	assert.True(t, jsonLines)

	for _, format := range []string{"", "console"} {
		jsonLines, err = ParseFormat(format)
		require.NoError(t, err)
		assert.False(t, jsonLines)
	}

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(&bytes.Buffer{}, Options{Level: "loud"})
	assert.Error(t, err)
}
