package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/mdstatus/config"
)

func restoreLogging(t *testing.T) {
	t.Helper()
	prevSlog := slog.Default()
	prevOut := log.Writer()
	t.Cleanup(func() {
		slog.SetDefault(prevSlog)
		log.SetOutput(prevOut)
	})
}

func testLogConfig(t *testing.T, debug bool) config.LogConfig {
	return config.LogConfig{Debug: debug, Dir: filepath.Join(t.TempDir(), "logs"), File: "mdstatus.log"}
}

func TestSetupLogging_DisabledByDefault(t *testing.T) {
	restoreLogging(t)
	lc := testLogConfig(t, false)

	f := setupLogging(lc)
	assert.Nil(t, f)
	assert.Equal(t, io.Discard, log.Writer())
	assert.False(t, slog.Default().Enabled(context.Background(), slog.LevelError))

	_, err := os.Stat(lc.Dir)
	assert.True(t, os.IsNotExist(err), "no log directory when debug is off")
}

func TestSetupLogging_EnabledWithDebug(t *testing.T) {
	restoreLogging(t)
	lc := testLogConfig(t, true)

	f := setupLogging(lc)
	require.NotNil(t, f)
	defer f.Close()

	slog.Debug("test message", "drive", 3)

	data, err := os.ReadFile(filepath.Join(lc.Dir, lc.File))
	require.NoError(t, err)
	assert.Contains(t, string(data), "test message")
	assert.Contains(t, string(data), "drive=3")

	assert.NotEqual(t, os.Stdout, log.Writer())
	assert.NotEqual(t, os.Stderr, log.Writer())
}

func TestSetupLogging_Rotation(t *testing.T) {
	restoreLogging(t)
	lc := testLogConfig(t, true)
	require.NoError(t, os.MkdirAll(lc.Dir, 0755))

	logPath := filepath.Join(lc.Dir, lc.File)
	require.NoError(t, os.WriteFile(logPath, make([]byte, maxLogSize+1), 0644))

	f := setupLogging(lc)
	require.NotNil(t, f)
	defer f.Close()

	entries, err := os.ReadDir(lc.Dir)
	require.NoError(t, err)
	rotated := false
	for _, e := range entries {
		if e.Name() != lc.File && filepath.Ext(e.Name()) == ".log" {
			rotated = true
		}
	}
	assert.True(t, rotated, "expected a rotated log file")

	info, err := os.Stat(logPath)
	require.NoError(t, err)
	assert.Less(t, info.Size(), int64(maxLogSize))
}

func TestRotatedName(t *testing.T) {
	now := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
	assert.Equal(t, filepath.Join("logs", "mdstatus_20240309_140507.log"),
		rotatedName(filepath.Join("logs", "mdstatus.log"), now))
}
