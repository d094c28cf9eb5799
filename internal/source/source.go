// Package source provides a uniform byte-prefix view over local files and
// remote URLs. Remote sources fetch with HTTP range requests so only the
// metadata prefix of a multi-gigabyte model file is ever transferred.
package source

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"
)

// Source exposes size discovery and bounded incremental prefix reads over a
// model file.
//
// Prefix returns the source's growing window: at least the first n bytes
// when they exist, or a shorter slice with a nil error when the object ends
// before byte n. Bytes already returned are never invalidated by growth,
// and callers must not mutate the slice.
type Source interface {
	Size(ctx context.Context) (int64, error)
	Prefix(ctx context.Context, n int) ([]byte, error)
	io.Closer
}

// Options tune how sources fetch.
type Options struct {
	// InitialPrefix is the first remote fetch size, chosen to typically
	// cover the GGUF header and metadata in one round trip.
	InitialPrefix int
	// Timeout bounds each network request (and each streamed read on
	// servers that ignore range requests).
	Timeout time.Duration
	// Client overrides the HTTP client, mainly for tests.
	Client *http.Client
}

// Defaults applied when Options fields are zero.
const (
	DefaultInitialPrefix = 512 * 1024
	DefaultTimeout       = 30 * time.Second
)

func (o Options) withDefaults() Options {
	if o.InitialPrefix <= 0 {
		o.InitialPrefix = DefaultInitialPrefix
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Client == nil {
		o.Client = http.DefaultClient
	}
	return o
}

// IsRemote reports whether the locator is an http(s) URL rather than a
// local path.
func IsRemote(locator string) bool {
	return strings.HasPrefix(locator, "http://") || strings.HasPrefix(locator, "https://")
}

// Open returns a Source for a local path or http(s) URL.
func Open(locator string, opts Options) (Source, error) {
	if IsRemote(locator) {
		return newHTTPSource(locator, opts.withDefaults()), nil
	}
	return newFileSource(locator)
}
