package gguf

import "fmt"

// Metadata key suffixes consumed for estimation. The full key is the
// architecture namespace (general.architecture) plus one of these.
const (
	keyArchitecture = "general.architecture"
	keySplitCount   = "split.count"

	suffixHeadCount   = ".attention.head_count"
	suffixHeadCountKV = ".attention.head_count_kv"
	suffixBlockCount  = ".block_count"
	suffixEmbedding   = ".embedding_length"
)

// defaultArch is assumed when general.architecture is absent. llama.cpp
// itself treats unlabeled files this way.
const defaultArch = "llama"

// Params holds the architecture numbers the memory calculator consumes,
// resolved once from the authoritative shard's metadata.
type Params struct {
	Arch    string
	Layers  uint64 // <arch>.block_count
	DModel  uint64 // <arch>.embedding_length
	Heads   uint64 // <arch>.attention.head_count
	HeadsKV uint64 // <arch>.attention.head_count_kv, Heads when absent

	// HeadsKVPresent distinguishes an explicit head_count_kv from the
	// multi-head fallback.
	HeadsKVPresent bool

	// SplitCount is the declared shard total, 0 when the key is absent.
	SplitCount int
}

// ResolveParams extracts architecture parameters from a completed metadata
// store. Required keys (head_count, block_count, embedding_length) yield a
// MissingRequiredKeyError when absent; optional keys fall back with a note
// appended to assumptions.
func ResolveParams(st *Store) (Params, []string, error) {
	var p Params
	var assumptions []string

	p.Arch = defaultArch
	if v, ok := st.Get(keyArchitecture); ok {
		if s, ok := v.Str(); ok && s != "" {
			p.Arch = s
		}
	} else {
		assumptions = append(assumptions, fmt.Sprintf("%s absent, assuming architecture %q", keyArchitecture, defaultArch))
	}

	var err error
	if p.Heads, err = requiredUint(st, p.Arch+suffixHeadCount); err != nil {
		return Params{}, nil, err
	}
	if p.Layers, err = requiredUint(st, p.Arch+suffixBlockCount); err != nil {
		return Params{}, nil, err
	}
	if p.DModel, err = requiredUint(st, p.Arch+suffixEmbedding); err != nil {
		return Params{}, nil, err
	}

	kvKey := p.Arch + suffixHeadCountKV
	if v, ok := st.Get(kvKey); ok {
		n, ok := v.Uint64()
		if !ok {
			return Params{}, nil, ErrFormat("key %q: expected an unsigned integer, got %s", kvKey, v.Type())
		}
		p.HeadsKV = n
		p.HeadsKVPresent = true
	} else {
		p.HeadsKV = p.Heads
		assumptions = append(assumptions, fmt.Sprintf("%s absent, assuming head_count_kv == head_count (standard multi-head attention)", kvKey))
	}

	if v, ok := st.Get(keySplitCount); ok {
		n, ok := v.Uint64()
		if !ok {
			return Params{}, nil, ErrFormat("key %q: expected an unsigned integer, got %s", keySplitCount, v.Type())
		}
		p.SplitCount = int(n)
	}

	return p, assumptions, nil
}

func requiredUint(st *Store, key string) (uint64, error) {
	v, ok := st.Get(key)
	if !ok {
		return 0, ErrMissingKey(key)
	}
	n, ok := v.Uint64()
	if !ok {
		return 0, ErrFormat("key %q: expected an unsigned integer, got %s", key, v.Type())
	}
	return n, nil
}
