// Package estimate turns GGUF architecture metadata plus caller inputs into
// a peak-memory breakdown: model weights + KV cache + runtime overhead.
package estimate

import (
	"fmt"
	"math"

	"ggufmem/internal/gguf"
	"ggufmem/internal/quant"
	"ggufmem/pkg/types"
)

// Input is the caller-controlled part of a calculation.
type Input struct {
	// ContextLength is the token window the engine will be configured
	// with. Must be positive.
	ContextLength int
	// Profile is the KV-cache precision.
	Profile quant.Profile
	// ParamsBillions is the model's total parameter count in billions.
	// Zero means unknown; Calculate derives it from the model size and
	// notes the derivation.
	ParamsBillions float64
}

// Overhead formula constants: a fixed baseline plus a per-parameter share,
// in decimal gigabytes.
const (
	overheadBaseGB     = 0.15
	overheadPerBillion = 0.02
)

// Calculate combines architecture parameters, the aggregate model size and
// caller inputs into a memory estimate. It is a pure function: same inputs,
// same output, no I/O.
//
// The KV-cache term applies the grouped-query ratio head_count_kv /
// head_count whenever the metadata declared it; for standard multi-head
// models the ratio is 1 and the term reduces to
// bytes_per_kv_pair × d_model × n_layers × C.
func Calculate(p gguf.Params, modelBytes int64, in Input) (types.MemoryEstimate, error) {
	if in.ContextLength <= 0 {
		return types.MemoryEstimate{}, ErrValidation("context length must be positive, got %d", in.ContextLength)
	}
	if in.ParamsBillions < 0 {
		return types.MemoryEstimate{}, ErrValidation("parameter count must be non-negative, got %g", in.ParamsBillions)
	}
	if in.Profile.BytesPerKVPair <= 0 {
		return types.MemoryEstimate{}, ErrValidation("quantization profile %q has no KV-pair cost", in.Profile.Name)
	}
	if modelBytes < 0 {
		return types.MemoryEstimate{}, ErrValidation("model size must be non-negative, got %d", modelBytes)
	}
	if p.Layers == 0 || p.DModel == 0 || p.Heads == 0 || p.HeadsKV == 0 {
		return types.MemoryEstimate{}, ErrValidation(
			"architecture fields must be positive: layers=%d d_model=%d heads=%d heads_kv=%d",
			p.Layers, p.DModel, p.Heads, p.HeadsKV)
	}

	var assumptions []string

	ratio := float64(p.HeadsKV) / float64(p.Heads)
	kv := in.Profile.BytesPerKVPair * float64(p.DModel) * ratio * float64(p.Layers) * float64(in.ContextLength)

	paramsB := in.ParamsBillions
	if paramsB == 0 {
		paramsB = float64(modelBytes) / in.Profile.BytesPerValue / types.BytesPerGB
		assumptions = append(assumptions, fmt.Sprintf(
			"parameter count not provided: derived %.2fB from model size at %g bytes per weight",
			paramsB, in.Profile.BytesPerValue))
	}
	overhead := (overheadPerBillion*paramsB + overheadBaseGB) * types.BytesPerGB

	est := types.MemoryEstimate{
		ModelBytes:    uint64(modelBytes),
		KVBytes:       uint64(math.Round(kv)),
		OverheadBytes: uint64(math.Round(overhead)),
		Assumptions:   assumptions,
	}
	est.TotalBytes = est.ModelBytes + est.KVBytes + est.OverheadBytes
	return est, nil
}
