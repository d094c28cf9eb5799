// Package shard detects multi-file GGUF models and aggregates their sizes.
// Sharded models follow the llama.cpp split convention: a
// "-00001-of-00003" suffix before the file extension, with shard 1 holding
// the authoritative metadata.
package shard

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"golang.org/x/sync/errgroup"

	"ggufmem/internal/source"
)

// Descriptor describes one resolved shard. Immutable once built.
type Descriptor struct {
	Index   int    // 1-based position within the set
	Total   int    // shard count shared by the whole set
	Size    int64  // byte size of this shard file
	Locator string // path or URL of this shard
}

// splitPattern matches split filenames like "Name-00001-of-00006.gguf",
// with fixed-width zero-padded index fields.
var splitPattern = regexp.MustCompile(`^(.*)-(\d{5})-of-(\d{5})(\.[A-Za-z0-9]+)$`)

// SplitName reports whether name follows the split convention, returning the
// name with the "-NNNNN-of-MMMMM" infix removed plus the two counts. Works on
// bare filenames as well as full paths and URLs.
func SplitName(name string) (base string, index, total int, ok bool) {
	m := splitPattern.FindStringSubmatch(name)
	if m == nil {
		return "", 0, 0, false
	}
	index, _ = strconv.Atoi(m[2])
	total, _ = strconv.Atoi(m[3])
	return m[1] + m[4], index, total, true
}

// Expand returns the locators of every shard in the set containing locator,
// ordered by index (shard 1 first), plus the filename-derived shard total.
// A locator without the split suffix is a single-shard set.
func Expand(locator string) ([]string, int, error) {
	m := splitPattern.FindStringSubmatch(locator)
	if m == nil {
		return []string{locator}, 1, nil
	}
	index, _ := strconv.Atoi(m[2])
	total, _ := strconv.Atoi(m[3])
	if total < 1 || index < 1 || index > total {
		return nil, 0, ErrInconsistentCount(fmt.Sprintf("%s: shard index %d out of range 1..%d", locator, index, total))
	}
	locs := make([]string, total)
	for i := 1; i <= total; i++ {
		locs[i-1] = fmt.Sprintf("%s-%05d-of-%05d%s", m[1], i, total, m[4])
	}
	return locs, total, nil
}

// CheckDeclaredCount validates the shard total declared in metadata
// (split.count) against the filename-derived total. declared == 0 means the
// key was absent and is always consistent.
func CheckDeclaredCount(declared, fromFilename int) error {
	if declared == 0 || declared == fromFilename {
		return nil
	}
	return ErrInconsistentCount(fmt.Sprintf("metadata split.count=%d but filename implies %d shards", declared, fromFilename))
}

// Sizes resolves the byte size of each locator concurrently. Index
// assignment follows locator order starting at startIndex; the reduction to
// a model total is left to the caller since the sum is order-independent.
func Sizes(ctx context.Context, locators []string, startIndex, total int, opts source.Options) ([]Descriptor, error) {
	descs := make([]Descriptor, len(locators))
	g, ctx := errgroup.WithContext(ctx)
	for i, loc := range locators {
		i, loc := i, loc
		g.Go(func() error {
			src, err := source.Open(loc, opts)
			if err != nil {
				return err
			}
			defer src.Close()
			n, err := src.Size(ctx)
			if err != nil {
				return err
			}
			descs[i] = Descriptor{Index: startIndex + i, Total: total, Size: n, Locator: loc}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return descs, nil
}

// Sum adds up shard sizes. Commutative, so the concurrent resolution order
// never affects the result.
func Sum(descs []Descriptor) int64 {
	var total int64
	for _, d := range descs {
		total += d.Size
	}
	return total
}
