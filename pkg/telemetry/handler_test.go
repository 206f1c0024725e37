package telemetry

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func newTestHandler(t *testing.T) (*ParquetHandler, string) {
	t.Helper()
	dir := t.TempDir()
	h, err := NewParquetHandler(slog.NewTextHandler(io.Discard, nil), dir)
	if err != nil {
		t.Fatalf("failed to create handler: %v", err)
	}
	return h, dir
}

func parquetFiles(t *testing.T, dir string) []string {
	t.Helper()
	files, err := filepath.Glob(filepath.Join(dir, "*.parquet"))
	if err != nil {
		t.Fatalf("globbing: %v", err)
	}
	return files
}

func TestHandlerBuffersWarnRecords(t *testing.T) {
	h, dir := newTestHandler(t)
	log := slog.New(h)

	log.Warn("provider call failed", "attempt", 1)
	log.Error("retries exhausted", "attempts", 5)

	// Buffered, not yet flushed.
	if files := parquetFiles(t, dir); len(files) != 0 {
		t.Fatalf("expected no files before flush, got %v", files)
	}

	if err := h.Flush(); err != nil {
		t.Fatalf("flush failed: %v", err)
	}
	files := parquetFiles(t, dir)
	if len(files) != 1 {
		t.Fatalf("expected 1 parquet file after flush, got %d", len(files))
	}
	info, err := os.Stat(files[0])
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() == 0 {
		t.Error("expected a non-empty parquet file")
	}
}

func TestHandlerIgnoresInfoRecords(t *testing.T) {
	h, dir := newTestHandler(t)
	log := slog.New(h)

	log.Info("server started")
	log.Debug("noise")

	if err := h.Flush(); err != nil {
		t.Fatalf("flush failed: %v", err)
	}
	if files := parquetFiles(t, dir); len(files) != 0 {
		t.Errorf("info records must not be persisted, got %v", files)
	}
}

func TestHandlerEnabledDelegates(t *testing.T) {
	h, _ := newTestHandler(t)
	if !h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("expected Enabled to delegate to the next handler")
	}
}

func TestFlushEmptyBufferIsNoop(t *testing.T) {
	h, dir := newTestHandler(t)
	if err := h.Flush(); err != nil {
		t.Fatalf("flush failed: %v", err)
	}
	if files := parquetFiles(t, dir); len(files) != 0 {
		t.Errorf("expected no files, got %v", files)
	}
}
