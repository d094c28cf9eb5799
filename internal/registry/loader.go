// Package registry builds the model catalog from a directory of GGUF files.
package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"ggufmem/internal/common/fsutil"
	"ggufmem/internal/shard"
	"ggufmem/pkg/types"
)

// GGUFScanner lists *.gguf files in a directory, collapsing split sets
// ("model-00001-of-00003.gguf" and friends) into a single entry whose path
// points at shard 1.
type GGUFScanner struct{}

func NewGGUFScanner() *GGUFScanner { return &GGUFScanner{} }

// Scan reads dir (a leading '~' is expanded) and returns the discovered
// models sorted by ID. Shard sets missing their first shard are skipped;
// later shards never produce entries of their own.
func (s *GGUFScanner) Scan(dir string) ([]types.Model, error) {
	base, err := fsutil.ExpandHome(dir)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	byID := map[string]types.Model{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(strings.ToLower(name), ".gguf") {
			continue
		}
		id := name
		count := 1
		if collapsed, index, total, ok := shard.SplitName(name); ok {
			if index != 1 {
				continue
			}
			id = collapsed
			count = total
		}
		byID[id] = types.Model{
			ID:         id,
			Name:       id,
			Path:       filepath.Join(abs, name),
			ShardCount: count,
		}
	}
	models := make([]types.Model, 0, len(byID))
	for _, m := range byID {
		models = append(models, m)
	}
	sort.Slice(models, func(i, j int) bool { return models[i].ID < models[j].ID })
	return models, nil
}

// LoadDir scans a directory for *.gguf files and builds a registry from
// filenames. ID is the filename with any split suffix removed; Path is the
// absolute path of the file itself (shard 1 for split sets).
func LoadDir(dir string) ([]types.Model, error) {
	return NewGGUFScanner().Scan(dir)
}
