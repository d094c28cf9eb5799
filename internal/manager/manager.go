package manager

import (
	"context"
	"path/filepath"
	"sync"

	"ggufmem/internal/common/fsutil"
	"ggufmem/internal/estimate"
	"ggufmem/internal/quant"
	"ggufmem/internal/source"
	"ggufmem/pkg/types"
)

type Manager struct {
	mu       sync.RWMutex
	registry []types.Model
	dir      string

	est      *estimate.Estimator
	defCtx   int
	defCache string
}

func New(cfg ManagerConfig) *Manager {
	cfg.applyDefaults()
	return &Manager{
		registry: cfg.Registry,
		dir:      cfg.ModelsDir,
		est: estimate.New(estimate.Options{
			InitialPrefix: cfg.InitialPrefix,
			MaxScanBytes:  cfg.MaxScanBytes,
			Timeout:       cfg.Timeout,
			Client:        cfg.Client,
			Logger:        cfg.Logger,
		}),
		defCtx:   cfg.DefaultContextLength,
		defCache: cfg.DefaultCacheType,
	}
}

// Ready reports whether the service can serve estimates. Construction is
// synchronous, so once built it always can.
func (m *Manager) Ready() bool { return true }

func (m *Manager) ListModels() []types.Model {
	m.mu.RLock()
	defer m.mu.RUnlock()
	// return a shallow copy to avoid external mutation
	out := make([]types.Model, len(m.registry))
	copy(out, m.registry)
	return out
}

// SetRegistry replaces the catalog, e.g. after a rescan of the models dir.
func (m *Manager) SetRegistry(reg []types.Model) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registry = reg
}

// Quants lists the supported KV-cache quantization profiles.
func (m *Manager) Quants() []quant.Profile {
	return quant.Profiles()
}

// resolveLocator maps a request's model field to a concrete path or URL.
// Catalog ids win; URLs and existing paths pass through; a bare name that is
// neither falls back to a file under the models dir when that exists.
func (m *Manager) resolveLocator(model string) (string, error) {
	if model == "" {
		// let the estimator produce its validation error
		return model, nil
	}
	m.mu.RLock()
	for _, mm := range m.registry {
		if mm.ID == model {
			m.mu.RUnlock()
			return mm.Path, nil
		}
	}
	m.mu.RUnlock()

	if source.IsRemote(model) || filepath.IsAbs(model) {
		return model, nil
	}
	if fsutil.PathExists(model) {
		return model, nil
	}
	if m.dir != "" {
		if p := filepath.Join(m.dir, model); fsutil.PathExists(p) {
			return p, nil
		}
	}
	return "", ErrModelNotFound(model)
}

// Estimate fills request defaults, resolves the model locator against the
// catalog and runs the estimation pipeline.
func (m *Manager) Estimate(ctx context.Context, req types.EstimateRequest) (types.MemoryEstimate, error) {
	if req.ContextLength == 0 {
		req.ContextLength = m.defCtx
	}
	if req.CacheType == "" {
		req.CacheType = m.defCache
	}
	loc, err := m.resolveLocator(req.Model)
	if err != nil {
		return types.MemoryEstimate{}, err
	}
	req.Model = loc
	return m.est.Estimate(ctx, req)
}
