package manager

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"ggufmem/pkg/types"
)

// Package defaults, applied by New when the corresponding config field is
// zero.
const (
	DefaultContextLength = 4096
	DefaultCacheType     = "fp16"
)

// ManagerConfig collects construction options for Manager.
type ManagerConfig struct {
	// Registry is the pre-scanned model catalog. Optional; estimates for
	// explicit paths and URLs work with an empty catalog.
	Registry []types.Model

	// ModelsDir is the directory the catalog was scanned from, used to
	// resolve bare model ids that are not in the catalog yet.
	ModelsDir string

	// Estimation tuning, passed through to the estimator.
	InitialPrefix int
	MaxScanBytes  int
	Timeout       time.Duration
	Client        *http.Client
	Logger        *zerolog.Logger

	// Request defaults for fields the caller omitted.
	DefaultContextLength int
	DefaultCacheType     string
}

func (c *ManagerConfig) applyDefaults() {
	if c.DefaultContextLength <= 0 {
		c.DefaultContextLength = DefaultContextLength
	}
	if c.DefaultCacheType == "" {
		c.DefaultCacheType = DefaultCacheType
	}
}
