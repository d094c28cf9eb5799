package types

// EstimateRequest represents an estimation request payload.
type EstimateRequest struct {
	// Model locator: a local path or an http(s) URL to a GGUF file.
	// example: /home/user/models/TinyLlama.Q4_K_M.gguf
	Model string `json:"model" example:"/home/user/models/TinyLlama.Q4_K_M.gguf"`
	// Context length in tokens the engine will be configured with.
	// example: 8192
	ContextLength int `json:"context_length" example:"8192"`
	// KV-cache precision: one of fp32, fp16, bf16, int8, q6, q5, q4.
	// example: fp16
	CacheType string `json:"cache_type,omitempty" example:"fp16"`
	// Total parameter count in billions. Zero lets the server derive it
	// from the model size and cache precision.
	// example: 13
	ParamsBillions float64 `json:"params_billions,omitempty" example:"13"`
}

// ModelsResponse wraps the list of models returned by GET /models.
type ModelsResponse struct {
	// List of discovered models.
	Models []Model `json:"models"`
}

// QuantsResponse wraps the quantization profile table returned by GET /quants.
type QuantsResponse struct {
	// Known KV-cache quantization profiles.
	Quants []QuantProfile `json:"quants"`
}

// QuantProfile describes one KV-cache precision entry.
type QuantProfile struct {
	// Canonical profile name.
	// example: fp16
	Name string `json:"name" example:"fp16"`
	// Storage cost of a single value in bytes.
	// example: 2
	BytesPerValue float64 `json:"bytes_per_value" example:"2"`
	// Storage cost of a key+value pair in bytes.
	// example: 4
	BytesPerKVPair float64 `json:"bytes_per_kv_pair" example:"4"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}
