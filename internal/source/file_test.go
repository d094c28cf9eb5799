package source

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeModelFile(t *testing.T, data []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "model.gguf")
	if err := os.WriteFile(p, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func TestFileSourcePrefixGrows(t *testing.T) {
	data := []byte("0123456789abcdefghij")
	src, err := Open(writeModelFile(t, data), Options{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer src.Close()

	ctx := context.Background()
	win, err := src.Prefix(ctx, 5)
	if err != nil {
		t.Fatalf("prefix: %v", err)
	}
	if !bytes.Equal(win, data[:5]) {
		t.Fatalf("window = %q", win)
	}
	first := append([]byte(nil), win...)

	win, err = src.Prefix(ctx, 12)
	if err != nil {
		t.Fatalf("grow: %v", err)
	}
	if !bytes.Equal(win, data[:12]) {
		t.Fatalf("grown window = %q", win)
	}
	// growth must not invalidate bytes already read
	if !bytes.Equal(win[:5], first) {
		t.Fatalf("prefix changed after growth")
	}
}

func TestFileSourcePrefixPastEnd(t *testing.T) {
	data := []byte("short")
	src, err := Open(writeModelFile(t, data), Options{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer src.Close()

	win, err := src.Prefix(context.Background(), 100)
	if err != nil {
		t.Fatalf("prefix: %v", err)
	}
	// fewer bytes than requested with a nil error signals end of data
	if !bytes.Equal(win, data) {
		t.Fatalf("window = %q", win)
	}
}

func TestFileSourceSize(t *testing.T) {
	src, err := Open(writeModelFile(t, make([]byte, 1234)), Options{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer src.Close()
	n, err := src.Size(context.Background())
	if err != nil || n != 1234 {
		t.Fatalf("size = %d, %v", n, err)
	}
}

func TestFileSourceMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.gguf"), Options{})
	if !IsUnavailable(err) {
		t.Fatalf("expected unavailable error, got %v", err)
	}
}

func TestFileSourceCanceledContext(t *testing.T) {
	src, err := Open(writeModelFile(t, []byte("data")), Options{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer src.Close()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := src.Prefix(ctx, 4); err == nil {
		t.Fatalf("expected context error")
	}
}
