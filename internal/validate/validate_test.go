package validate

import (
	"log/slog"
	"testing"
	"time"
)

func testValidator() *Validator {
	return New(slog.New(slog.DiscardHandler))
}

// permissiveTimeout is long enough that the advisory override never fires
// in these tests.
const permissiveTimeout = time.Minute

func TestValidatePerfectNumber(t *testing.T) {
	v := testValidator()

	result := v.Validate([]byte{6}, Config{
		EntropyThreshold:    0.0,
		DivisorEchoEnabled:  true,
		VerificationTimeout: permissiveTimeout,
	})

	if !result.StructurallyValid {
		t.Error("n=6 with zero threshold should be structurally valid")
	}
	if result.Proof == nil {
		t.Fatal("result should carry a proof")
	}
	if !result.Proof.DivisorEchoValid || !result.Proof.GCDPreservationValid || !result.Proof.LCMConsistencyValid {
		t.Errorf("proof flags should all hold: %+v", result.Proof)
	}
	if len(result.Proof.EntropyDistribution) != 3 {
		t.Errorf("distribution length = %d, want 3", len(result.Proof.EntropyDistribution))
	}
}

func TestValidateImperfectNumber(t *testing.T) {
	v := testValidator()

	// n=10 is not perfect; the echo test must fail regardless of threshold.
	result := v.Validate([]byte{10}, Config{
		EntropyThreshold:    0.0,
		DivisorEchoEnabled:  true,
		VerificationTimeout: permissiveTimeout,
	})

	if result.StructurallyValid {
		t.Error("n=10 should not be structurally valid")
	}
	if result.Proof == nil || result.Proof.DivisorEchoValid {
		t.Error("proof should record the failed echo test")
	}
}

func TestValidateEchoDisabled(t *testing.T) {
	v := testValidator()

	// Same bytes as the imperfect case, but with the echo check bypassed
	// and a trivially satisfied threshold.
	result := v.Validate([]byte{10}, Config{
		EntropyThreshold:    0.0,
		DivisorEchoEnabled:  false,
		VerificationTimeout: permissiveTimeout,
	})

	if !result.StructurallyValid {
		t.Error("echo bypassed and zero threshold should validate")
	}
}

func TestValidateTimeoutOverride(t *testing.T) {
	v := testValidator()

	// A zero budget is always exceeded; the structural checks pass but the
	// result is forced invalid after the fact.
	result := v.Validate([]byte{6}, Config{
		EntropyThreshold:    0.0,
		DivisorEchoEnabled:  true,
		VerificationTimeout: 0,
	})

	if result.StructurallyValid {
		t.Error("zero timeout should force the result invalid")
	}
	if result.Proof == nil || !result.Proof.DivisorEchoValid {
		t.Error("timeout override must not rewrite the structural flags")
	}
}

func TestValidateDegenerateInputs(t *testing.T) {
	v := testValidator()
	cfg := Config{EntropyThreshold: 0.0, DivisorEchoEnabled: true, VerificationTimeout: permissiveTimeout}

	for _, data := range [][]byte{nil, {}, {0}, {1}} {
		result := v.Validate(data, cfg)
		if result.StructurallyValid {
			t.Errorf("degenerate input %v should be invalid", data)
		}
	}
}

func TestValidateDeterminism(t *testing.T) {
	v := testValidator()
	cfg := Config{EntropyThreshold: 0.0, DivisorEchoEnabled: true, VerificationTimeout: permissiveTimeout}
	data := []byte{28}

	a := v.Validate(data, cfg)
	b := v.Validate(data, cfg)

	if a.StructurallyValid != b.StructurallyValid {
		t.Error("validity differs between identical calls")
	}
	if a.EntropyScore != b.EntropyScore {
		t.Errorf("entropy score differs: %f vs %f", a.EntropyScore, b.EntropyScore)
	}
	if len(a.Proof.EntropyDistribution) != len(b.Proof.EntropyDistribution) {
		t.Fatal("proof distributions differ in length")
	}
	for i := range a.Proof.EntropyDistribution {
		if a.Proof.EntropyDistribution[i] != b.Proof.EntropyDistribution[i] {
			t.Errorf("distribution[%d] differs", i)
		}
	}
}

func TestConfigNormalization(t *testing.T) {
	v := testValidator()

	// An out-of-range threshold clamps rather than rejecting the call: a
	// threshold below zero behaves as zero.
	result := v.Validate([]byte{6}, Config{
		EntropyThreshold:    -5,
		DivisorEchoEnabled:  true,
		VerificationTimeout: permissiveTimeout,
	})
	if !result.StructurallyValid {
		t.Error("negative threshold should clamp to zero and validate n=6")
	}

	// A threshold above one clamps to one; n=6's complexity is below it.
	result = v.Validate([]byte{6}, Config{
		EntropyThreshold:    2,
		DivisorEchoEnabled:  true,
		VerificationTimeout: permissiveTimeout,
	})
	if result.StructurallyValid {
		t.Error("threshold clamped to one should reject n=6")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.EntropyThreshold != 0.85 {
		t.Errorf("default threshold = %f, want 0.85", cfg.EntropyThreshold)
	}
	if cfg.Mode != ModeStrict {
		t.Errorf("default mode = %q, want %q", cfg.Mode, ModeStrict)
	}
	if !cfg.DivisorEchoEnabled {
		t.Error("divisor echo should default to enabled")
	}
	if cfg.VerificationTimeout != 100*time.Millisecond {
		t.Errorf("default timeout = %s, want 100ms", cfg.VerificationTimeout)
	}
}
