package main

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lixenwraith/mdstatus/config"
)

const maxLogSize = 10 * 1024 * 1024

// setupLogging points slog and the standard logger at the log file when debug is on
// With debug off everything is discarded; the terminal belongs to the panel
// Returns the open file, or nil when logging is off or the file cannot be opened
func setupLogging(lc config.LogConfig) *os.File {
	if !lc.Debug {
		log.SetOutput(io.Discard)
		slog.SetDefault(slog.New(slog.DiscardHandler))
		return nil
	}

	if err := os.MkdirAll(lc.Dir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create log directory %s: %v\n", lc.Dir, err)
		log.SetOutput(io.Discard)
		slog.SetDefault(slog.New(slog.DiscardHandler))
		return nil
	}

	logPath := filepath.Join(lc.Dir, lc.File)
	if info, err := os.Stat(logPath); err == nil && info.Size() > maxLogSize {
		if err := os.Rename(logPath, rotatedName(logPath, time.Now())); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to rotate log %s: %v\n", logPath, err)
		}
	}

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file %s: %v\n", logPath, err)
		log.SetOutput(io.Discard)
		slog.SetDefault(slog.New(slog.DiscardHandler))
		return nil
	}

	// SetDefault also routes the standard logger through the handler
	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})))
	return f
}

// rotatedName inserts a timestamp before the extension: mdstatus.log -> mdstatus_20060102_150405.log
func rotatedName(path string, now time.Time) string {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	return base + "_" + now.Format("20060102_150405") + ext
}
