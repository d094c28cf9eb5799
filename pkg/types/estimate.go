package types

// Decimal unit factors. All reported sizes use SI units, never 1024-based.
const (
	BytesPerMB = 1_000_000
	BytesPerGB = 1_000_000_000
)

// MemoryEstimate is the result of one estimation call. All byte counts are
// decimal and the breakdown is additive: Total = Model + KV + Overhead.
type MemoryEstimate struct {
	// Bytes occupied by the model weights on disk (sum of all shards).
	// example: 15000000000
	ModelBytes uint64 `json:"model_bytes" example:"15000000000"`
	// Bytes needed by the KV cache at the requested context length.
	// example: 4294967296
	KVBytes uint64 `json:"kv_bytes" example:"4294967296"`
	// Fixed-plus-proportional runtime overhead bytes.
	// example: 410000000
	OverheadBytes uint64 `json:"overhead_bytes" example:"410000000"`
	// Total of the three components above.
	// example: 19704967296
	TotalBytes uint64 `json:"total_bytes" example:"19704967296"`
	// Assumptions describes every fallback the calculation took, in the
	// order it was taken.
	Assumptions []string `json:"assumptions,omitempty"`
}

// ModelMB returns the model size in decimal megabytes.
func (e MemoryEstimate) ModelMB() float64 { return float64(e.ModelBytes) / BytesPerMB }

// KVMB returns the KV-cache size in decimal megabytes.
func (e MemoryEstimate) KVMB() float64 { return float64(e.KVBytes) / BytesPerMB }

// OverheadMB returns the overhead size in decimal megabytes.
func (e MemoryEstimate) OverheadMB() float64 { return float64(e.OverheadBytes) / BytesPerMB }

// TotalMB returns the total size in decimal megabytes.
func (e MemoryEstimate) TotalMB() float64 { return float64(e.TotalBytes) / BytesPerMB }

// TotalGB returns the total size in decimal gigabytes.
func (e MemoryEstimate) TotalGB() float64 { return float64(e.TotalBytes) / BytesPerGB }
