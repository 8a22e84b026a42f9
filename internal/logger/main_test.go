package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authcore/authcore/internal/logger"
)

func TestInitRejectsIncompleteConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  logger.Log
		want error
	}{
		{"missing service name", logger.Log{LogLevel: "info", AppName: "a"}, logger.ErrServiceNameIsEmpty},
		{"missing app name", logger.Log{LogLevel: "info", ServiceName: "s"}, logger.ErrAppNameIsEmpty},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.ErrorIs(t, logger.Init(tc.cfg), tc.want)
		})
	}

	require.Error(t, logger.Init(logger.Log{LogLevel: "loud", AppName: "a", ServiceName: "s"}))
}

func TestLogger(t *testing.T) {
	testCases := []struct {
		name             string
		cfg              logger.Log
		shouldHaveOutPut bool
		outPutIsJSON     bool
	}{
		{
			name:             "no logger enabled",
			cfg:              logger.Log{LogLevel: "", ServiceName: "test", AppName: "test"},
			shouldHaveOutPut: false,
		},
		{
			name: "console writer",
			cfg: logger.Log{
				LogLevel: "info", ServiceName: "test", AppName: "test",
				Console: logger.Console{Enabled: true, UseConsoleWriter: true},
			},
			shouldHaveOutPut: true,
		},
		{
			name: "console json",
			cfg: logger.Log{
				LogLevel: "info", ServiceName: "test", AppName: "test",
				Console: logger.Console{Enabled: true},
			},
			shouldHaveOutPut: true,
			outPutIsJSON:     true,
		},
		{
			name: "console json trace with caller",
			cfg: logger.Log{
				LogLevel: "trace", ServiceName: "test", AppName: "test", ReportCaller: true,
				Console: logger.Console{Enabled: true},
			},
			shouldHaveOutPut: true,
			outPutIsJSON:     true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := captureOutput(t, tc.cfg)

			if !tc.shouldHaveOutPut {
				assert.Empty(t, out)
				return
			}

			require.NotEmpty(t, out)

			if !tc.outPutIsJSON {
				return
			}

			for _, line := range strings.Split(out, "\n") {
				if line == "" {
					continue
				}

				var entry map[string]any
				require.NoError(t, json.Unmarshal([]byte(line), &entry), "line %q", line)
				assert.Equal(t, "test", entry["app"])
			}
		})
	}
}

func TestFileLogger(t *testing.T) {
	dir := t.TempDir()

	cfg := logger.Log{
		LogLevel:    "info",
		ServiceName: "test",
		AppName:     "test",
		File: logger.LogFile{
			Enabled:  true,
			Path:     dir,
			ErrorLog: "error.log",
			InfoLog:  "info.log",
			TraceLog: "trace.log",
			WarnLog:  "warn.log",
		},
	}

	require.NoError(t, logger.Init(cfg))

	log.Info().Msg("info line")
	log.Warn().Msg("warn line")
	log.Error().Msg("error line")

	info, err := os.ReadFile(filepath.Join(dir, "info.log"))
	require.NoError(t, err)
	assert.Contains(t, string(info), "info line")
	assert.NotContains(t, string(info), "error line")

	warn, err := os.ReadFile(filepath.Join(dir, "warn.log"))
	require.NoError(t, err)
	assert.Contains(t, string(warn), "warn line")

	errLog, err := os.ReadFile(filepath.Join(dir, "error.log"))
	require.NoError(t, err)
	assert.Contains(t, string(errLog), "error line")
}

func captureOutput(t *testing.T, cfg logger.Log) string {
	t.Helper()

	stdout := os.Stdout
	stderr := os.Stderr

	r, w, err := os.Pipe()
	require.NoError(t, err)

	os.Stdout = w
	os.Stderr = w

	initErr := logger.Init(cfg)

	log.Info().Msg("this info message should be seen...")
	log.Error().Err(errors.New("a test error")).Msg("this err message should be seen...")

	outC := make(chan string)

	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		outC <- buf.String()
	}()

	_ = w.Close()
	os.Stdout = stdout
	os.Stderr = stderr

	require.NoError(t, initErr)

	return <-outC
}
