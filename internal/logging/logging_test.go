package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	var testCases = []struct {
		description string
		level       string
		expect      zerolog.Level
	}{
		{description: "debug", level: "debug", expect: zerolog.DebugLevel},
		{description: "upper case", level: "WARN", expect: zerolog.WarnLevel},
		{description: "empty", level: "", expect: zerolog.InfoLevel},
		{description: "unknown", level: "chatty", expect: zerolog.InfoLevel},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			logger := New(&bytes.Buffer{}, testCase.level, false)
			assert.Equal(t, testCase.expect, logger.GetLevel())
		})
	}
}

func TestNew_JSONOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(buf, "info", false)
	logger.Debug().Msg("hidden")
	logger.Info().Str("path", "/tenants").Msg("api request")

	record := map[string]any{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "api request", record["message"])
	assert.Equal(t, "/tenants", record["path"])
	assert.Equal(t, "info", record["level"])
	assert.Contains(t, record, "time")
}

func TestNew_Pretty(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(buf, "info", true)
	logger.Info().Str("tenant", "acme").Msg("token refreshed")
	assert.Contains(t, buf.String(), "token refreshed")
	assert.Contains(t, buf.String(), "tenant=acme")
}
