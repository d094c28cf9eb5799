// Package quant holds the closed table of KV-cache precision profiles.
package quant

import (
	"fmt"
	"strings"
)

// Profile is one KV-cache precision entry: a canonical name plus the storage
// cost per value and per key+value pair.
type Profile struct {
	Name           string
	BytesPerValue  float64
	BytesPerKVPair float64
}

// Canonical profiles. The table is closed: constructed once at package init
// and never mutated, so it is safe to read from concurrent estimations.
var (
	FP32 = Profile{Name: "fp32", BytesPerValue: 4, BytesPerKVPair: 8}
	FP16 = Profile{Name: "fp16", BytesPerValue: 2, BytesPerKVPair: 4}
	INT8 = Profile{Name: "int8", BytesPerValue: 1, BytesPerKVPair: 2}
	Q6   = Profile{Name: "q6", BytesPerValue: 0.75, BytesPerKVPair: 1.5}
	Q5   = Profile{Name: "q5", BytesPerValue: 0.625, BytesPerKVPair: 1.25}
	Q4   = Profile{Name: "q4", BytesPerValue: 0.5, BytesPerKVPair: 1}
)

// profiles lists the canonical entries in display order.
var profiles = []Profile{FP32, FP16, INT8, Q6, Q5, Q4}

// aliases maps accepted spellings to canonical profiles. bf16 shares the
// fp16 entry since both cost two bytes per value.
var aliases = map[string]Profile{
	"fp32": FP32, "f32": FP32,
	"fp16": FP16, "f16": FP16, "bf16": FP16,
	"int8": INT8, "i8": INT8, "q8": INT8, "q8_0": INT8,
	"q6": Q6, "q6_k": Q6,
	"q5": Q5, "q5_0": Q5, "q5_k_m": Q5,
	"q4": Q4, "q4_0": Q4, "q4_k_m": Q4,
}

// Lookup resolves a cache-precision name (case-insensitive) to its profile.
func Lookup(name string) (Profile, error) {
	p, ok := aliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Profile{}, fmt.Errorf("unknown cache type %q (known: %s)", name, strings.Join(Names(), ", "))
	}
	return p, nil
}

// Profiles returns the canonical entries in display order.
func Profiles() []Profile {
	out := make([]Profile, len(profiles))
	copy(out, profiles)
	return out
}

// Names returns the canonical profile names in display order.
func Names() []string {
	out := make([]string, len(profiles))
	for i, p := range profiles {
		out[i] = p.Name
	}
	return out
}
