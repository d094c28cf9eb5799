package estimate

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"ggufmem/internal/gguf"
	"ggufmem/internal/quant"
	"ggufmem/internal/shard"
	"ggufmem/internal/source"
	"ggufmem/pkg/types"
)

// Options tune how an Estimator fetches and scans model files.
type Options struct {
	// InitialPrefix is the first fetch size for remote sources, sized to
	// usually cover the whole metadata section in one round trip.
	InitialPrefix int
	// MaxScanBytes caps how far the metadata scan may grow; a file that
	// keeps demanding more is treated as malformed rather than downloaded
	// without bound.
	MaxScanBytes int
	// Timeout bounds each network request.
	Timeout time.Duration
	// Client overrides the HTTP client, mainly for tests.
	Client *http.Client
	// Logger receives debug progress; nil disables logging.
	Logger *zerolog.Logger
}

// Defaults applied when Options fields are zero.
const (
	DefaultMaxScanBytes = 256_000_000
)

// Estimator runs the full pipeline: shard expansion, incremental metadata
// extraction from shard 1, concurrent shard sizing, then the pure
// calculation. Safe for concurrent use; per-call state lives on the stack.
type Estimator struct {
	opts Options
	log  zerolog.Logger
}

// New builds an Estimator, filling unset options with defaults.
func New(opts Options) *Estimator {
	if opts.InitialPrefix <= 0 {
		opts.InitialPrefix = source.DefaultInitialPrefix
	}
	if opts.MaxScanBytes <= 0 {
		opts.MaxScanBytes = DefaultMaxScanBytes
	}
	if opts.InitialPrefix > opts.MaxScanBytes {
		opts.InitialPrefix = opts.MaxScanBytes
	}
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}
	return &Estimator{opts: opts, log: log}
}

// Estimate resolves req.Model (path or URL), extracts metadata from the
// authoritative shard, aggregates shard sizes and returns the memory
// breakdown. The context cancels in-flight network I/O; on any failure no
// partial estimate is returned.
func (e *Estimator) Estimate(ctx context.Context, req types.EstimateRequest) (types.MemoryEstimate, error) {
	if req.Model == "" {
		return types.MemoryEstimate{}, ErrValidation("model locator is required")
	}
	if req.ContextLength <= 0 {
		return types.MemoryEstimate{}, ErrValidation("context length must be positive, got %d", req.ContextLength)
	}
	prof, err := quant.Lookup(req.CacheType)
	if err != nil {
		return types.MemoryEstimate{}, ErrValidation("%v", err)
	}

	locs, fileTotal, err := shard.Expand(req.Model)
	if err != nil {
		return types.MemoryEstimate{}, err
	}

	srcOpts := source.Options{
		InitialPrefix: e.opts.InitialPrefix,
		Timeout:       e.opts.Timeout,
		Client:        e.opts.Client,
	}

	start := time.Now()
	src, err := source.Open(locs[0], srcOpts)
	if err != nil {
		return types.MemoryEstimate{}, err
	}
	defer src.Close()

	st, err := e.scanMetadata(ctx, src)
	if err != nil {
		return types.MemoryEstimate{}, err
	}
	params, assumptions, err := gguf.ResolveParams(st)
	if err != nil {
		return types.MemoryEstimate{}, err
	}
	if err := shard.CheckDeclaredCount(params.SplitCount, fileTotal); err != nil {
		return types.MemoryEstimate{}, err
	}

	// For remote sources the total was already learned from Content-Range
	// during the scan, so sizing shard 1 costs nothing extra.
	firstSize, err := src.Size(ctx)
	if err != nil {
		return types.MemoryEstimate{}, err
	}
	src.Close()

	descs := []shard.Descriptor{{Index: 1, Total: fileTotal, Size: firstSize, Locator: locs[0]}}
	if len(locs) > 1 {
		rest, err := shard.Sizes(ctx, locs[1:], 2, fileTotal, srcOpts)
		if err != nil {
			return types.MemoryEstimate{}, err
		}
		descs = append(descs, rest...)
		assumptions = append(assumptions, fmt.Sprintf(
			"architecture parameters read from shard 1 and assumed identical across all %d shards", fileTotal))
	}
	modelBytes := shard.Sum(descs)

	est, err := Calculate(params, modelBytes, Input{
		ContextLength:  req.ContextLength,
		Profile:        prof,
		ParamsBillions: req.ParamsBillions,
	})
	if err != nil {
		return types.MemoryEstimate{}, err
	}
	est.Assumptions = append(assumptions, est.Assumptions...)

	e.log.Debug().
		Str("model", req.Model).
		Int("shards", fileTotal).
		Uint64("model_bytes", est.ModelBytes).
		Uint64("total_bytes", est.TotalBytes).
		Dur("dur", time.Since(start)).
		Msg("estimate complete")
	return est, nil
}

// scanMetadata grows the source window until the parser reaches a terminal
// state. Each NeedMoreBytes signal names the exact shortfall, so the next
// read is never larger than the parser requires (the source may round up to
// its own growth granularity).
func (e *Estimator) scanMetadata(ctx context.Context, src source.Source) (*gguf.Store, error) {
	n := e.opts.InitialPrefix
	for {
		win, err := src.Prefix(ctx, n)
		if err != nil {
			return nil, err
		}
		st, need, err := gguf.Parse(win)
		if err != nil {
			return nil, err
		}
		if st != nil {
			return st, nil
		}
		if len(win) < n {
			return nil, gguf.ErrFormat("file ends inside metadata section after %d bytes", len(win))
		}
		next := len(win) + need
		if next > e.opts.MaxScanBytes {
			return nil, gguf.ErrFormat("metadata exceeds maximum scan size (%d bytes)", e.opts.MaxScanBytes)
		}
		e.log.Debug().Int("window", len(win)).Int("need", need).Msg("metadata incomplete, growing window")
		n = next
	}
}
