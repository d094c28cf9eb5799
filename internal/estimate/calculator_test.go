package estimate

import (
	"strings"
	"testing"

	"ggufmem/internal/gguf"
	"ggufmem/internal/quant"
)

func llamaParams() gguf.Params {
	return gguf.Params{
		Arch: "llama", Layers: 32, DModel: 4096, Heads: 32, HeadsKV: 32,
	}
}

func TestCalculateWorkedExample(t *testing.T) {
	// 32 layers × 4096 d_model × 8192 context × 4 bytes/kv-pair
	est, err := Calculate(llamaParams(), 15_000_000_000, Input{
		ContextLength:  8192,
		Profile:        quant.FP16,
		ParamsBillions: 13,
	})
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if est.KVBytes != 4_294_967_296 {
		t.Fatalf("kv_bytes = %d, want 4294967296", est.KVBytes)
	}
	if est.OverheadBytes != 410_000_000 {
		t.Fatalf("overhead_bytes = %d, want 410000000", est.OverheadBytes)
	}
	if est.TotalBytes != 19_704_967_296 {
		t.Fatalf("total_bytes = %d, want 19704967296", est.TotalBytes)
	}
	if est.TotalBytes != est.ModelBytes+est.KVBytes+est.OverheadBytes {
		t.Fatalf("breakdown does not add up: %+v", est)
	}
}

func TestCalculateKVLinearity(t *testing.T) {
	base, err := Calculate(llamaParams(), 0, Input{ContextLength: 2048, Profile: quant.FP16, ParamsBillions: 1})
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}

	doubledC, _ := Calculate(llamaParams(), 0, Input{ContextLength: 4096, Profile: quant.FP16, ParamsBillions: 1})
	if doubledC.KVBytes != 2*base.KVBytes {
		t.Fatalf("doubling context: %d vs %d", doubledC.KVBytes, base.KVBytes)
	}

	p := llamaParams()
	p.Layers *= 2
	doubledL, _ := Calculate(p, 0, Input{ContextLength: 2048, Profile: quant.FP16, ParamsBillions: 1})
	if doubledL.KVBytes != 2*base.KVBytes {
		t.Fatalf("doubling layers: %d vs %d", doubledL.KVBytes, base.KVBytes)
	}

	p = llamaParams()
	p.DModel *= 2
	doubledD, _ := Calculate(p, 0, Input{ContextLength: 2048, Profile: quant.FP16, ParamsBillions: 1})
	if doubledD.KVBytes != 2*base.KVBytes {
		t.Fatalf("doubling d_model: %d vs %d", doubledD.KVBytes, base.KVBytes)
	}
}

func TestCalculateKVLinearAcrossProfiles(t *testing.T) {
	for _, prof := range quant.Profiles() {
		a, err := Calculate(llamaParams(), 0, Input{ContextLength: 1024, Profile: prof, ParamsBillions: 1})
		if err != nil {
			t.Fatalf("%s: %v", prof.Name, err)
		}
		b, err := Calculate(llamaParams(), 0, Input{ContextLength: 2048, Profile: prof, ParamsBillions: 1})
		if err != nil {
			t.Fatalf("%s: %v", prof.Name, err)
		}
		if b.KVBytes != 2*a.KVBytes {
			t.Fatalf("%s: kv not linear in context: %d vs %d", prof.Name, b.KVBytes, a.KVBytes)
		}
	}
}

func TestCalculateGQARatio(t *testing.T) {
	p := llamaParams()
	p.HeadsKV = 8
	p.HeadsKVPresent = true
	gqa, err := Calculate(p, 0, Input{ContextLength: 8192, Profile: quant.FP16, ParamsBillions: 1})
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	mha, _ := Calculate(llamaParams(), 0, Input{ContextLength: 8192, Profile: quant.FP16, ParamsBillions: 1})
	// 8 of 32 kv heads: a quarter of the cache
	if 4*gqa.KVBytes != mha.KVBytes {
		t.Fatalf("gqa kv = %d, mha kv = %d", gqa.KVBytes, mha.KVBytes)
	}
}

func TestCalculateDerivedParamCount(t *testing.T) {
	est, err := Calculate(llamaParams(), 26_000_000_000, Input{ContextLength: 1, Profile: quant.FP16})
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	// 26e9 bytes at 2 bytes/weight = 13B params => 0.41 GB overhead
	if est.OverheadBytes != 410_000_000 {
		t.Fatalf("overhead = %d, want 410000000", est.OverheadBytes)
	}
	found := false
	for _, a := range est.Assumptions {
		if strings.Contains(a, "derived") {
			found = true
		}
	}
	if !found {
		t.Fatalf("derivation must be logged: %v", est.Assumptions)
	}
}

func TestCalculateValidation(t *testing.T) {
	good := Input{ContextLength: 1024, Profile: quant.FP16, ParamsBillions: 1}

	if _, err := Calculate(llamaParams(), 0, Input{ContextLength: 0, Profile: quant.FP16}); !IsValidation(err) {
		t.Fatalf("zero context must fail validation, got %v", err)
	}
	if _, err := Calculate(llamaParams(), 0, Input{ContextLength: 10, Profile: quant.FP16, ParamsBillions: -1}); !IsValidation(err) {
		t.Fatalf("negative params must fail validation, got %v", err)
	}
	if _, err := Calculate(llamaParams(), -5, good); !IsValidation(err) {
		t.Fatalf("negative model size must fail validation, got %v", err)
	}
	p := llamaParams()
	p.Layers = 0
	if _, err := Calculate(p, 0, good); !IsValidation(err) {
		t.Fatalf("zero layers must fail validation, got %v", err)
	}
}
