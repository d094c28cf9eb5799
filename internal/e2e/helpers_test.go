package e2e

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"ggufmem/internal/gguf"
	"ggufmem/internal/httpapi"
	"ggufmem/internal/manager"
	"ggufmem/internal/registry"
)

// llamaFixture encodes the metadata section of a minimal llama-style model.
func llamaFixture(extra ...gguf.KV) []byte {
	kvs := []gguf.KV{
		{Key: "general.architecture", Value: gguf.StringVal("llama")},
		{Key: "llama.block_count", Value: gguf.Uint32Val(32)},
		{Key: "llama.embedding_length", Value: gguf.Uint32Val(4096)},
		{Key: "llama.attention.head_count", Value: gguf.Uint32Val(32)},
	}
	return gguf.Encode(0, append(kvs, extra...))
}

// createTempModelsDir creates a temporary directory populated with parseable
// .gguf files and returns the directory path and the list of filenames.
func createTempModelsDir(t *testing.T, names ...string) (string, []string) {
	t.Helper()
	dir := t.TempDir()
	for _, n := range names {
		p := filepath.Join(dir, n)
		if err := os.WriteFile(p, llamaFixture(), 0o644); err != nil {
			t.Fatalf("write temp model %s: %v", p, err)
		}
	}
	return dir, names
}

func newServerForDir(t *testing.T, modelsDir string) (*httptest.Server, *manager.Manager) {
	t.Helper()
	reg, err := registry.NewGGUFScanner().Scan(modelsDir)
	if err != nil {
		t.Fatalf("scan models: %v", err)
	}
	mgr := manager.New(manager.ManagerConfig{Registry: reg, ModelsDir: modelsDir})
	mux := httpapi.NewMux(mgr)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, mgr
}

func httpGet(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil { t.Fatalf("new req: %v", err) }
	resp, err := http.DefaultClient.Do(req)
	if err != nil { t.Fatalf("do req: %v", err) }
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}

func httpPostJSON(t *testing.T, url string, payload []byte) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url, bytes.NewReader(payload))
	if err != nil { t.Fatalf("new req: %v", err) }
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil { t.Fatalf("do req: %v", err) }
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}
