package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogger_Levels(t *testing.T) {
	tests := []struct {
		verbosity int
		want      zerolog.Level
	}{
		{verbosity: 0, want: zerolog.WarnLevel},
		{verbosity: 1, want: zerolog.InfoLevel},
		{verbosity: 2, want: zerolog.DebugLevel},
		{verbosity: 3, want: zerolog.TraceLevel},
		{verbosity: 7, want: zerolog.TraceLevel},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		SetupLoggerTo(&buf, tt.verbosity, "")
		assert.Equal(t, tt.want, zerolog.GlobalLevel(), "verbosity %d", tt.verbosity)
	}
}

func TestSetupLogger_QuietByDefault(t *testing.T) {
	var buf bytes.Buffer
	SetupLoggerTo(&buf, 0, "")

	logger := GetLogger("merge")
	logger.Info().Msg("merged cleanly")
	logger.Debug().Msg("details")

	assert.Empty(t, buf.String())
}

func TestSetupLogger_WritesLogFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "nested", "composer-merge.log")

	var buf bytes.Buffer
	SetupLoggerTo(&buf, 1, logFile)
	logger := GetLogger("driver")
	logger.Info().Str("file", "composer.json").Msg("merge finished")

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"component":"driver"`)
	assert.Contains(t, string(data), "merge finished")
	assert.Contains(t, buf.String(), "merge finished")
}

func TestGetLogger_SetsComponent(t *testing.T) {
	var buf bytes.Buffer
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = zerolog.New(&buf)

	logger := GetLogger("lockfile")
	logger.Debug().Msg("normalized")

	assert.Contains(t, buf.String(), `"component":"lockfile"`)
}

func TestLogOperationStart(t *testing.T) {
	var buf bytes.Buffer
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	logger := zerolog.New(&buf)

	done := LogOperationStart(logger, "render")
	done()

	output := buf.String()
	assert.Equal(t, 2, strings.Count(output, `"operation":"render"`))
	assert.Contains(t, output, "Operation started")
	assert.Contains(t, output, "Operation completed")
	assert.Contains(t, output, "duration")
}
