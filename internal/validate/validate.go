// Package validate orchestrates the divisor-echo test and the entropy model
// into a single structural validation decision.
package validate

import (
	"log/slog"
	"time"

	"github.com/raphaelgruber/structproof/internal/divisor"
	"github.com/raphaelgruber/structproof/internal/entropy"
	"github.com/raphaelgruber/structproof/internal/proof"
)

// Validation modes. The validator accepts and carries the mode but does not
// branch on it; mode-specific behavior belongs to the policy layer around
// the core.
const (
	ModeStrict     = "strict"
	ModePermissive = "permissive"
	ModeAudit      = "audit"
)

// Config is the validation policy for one call. It is treated as immutable
// for the duration of the call.
type Config struct {
	// EntropyThreshold is the minimum complexity score, clamped to [0,1].
	EntropyThreshold float64

	// Mode is one of strict, permissive, or audit.
	Mode string

	// DivisorEchoEnabled toggles the divisor-echo structural test.
	// When disabled the echo check is forced to pass.
	DivisorEchoEnabled bool

	// VerificationTimeout is the advisory wall-clock budget. It is checked
	// only after the computation finishes; a result that took longer is
	// marked invalid but the work is never interrupted.
	VerificationTimeout time.Duration
}

// DefaultConfig returns the reference validation policy.
func DefaultConfig() Config {
	return Config{
		EntropyThreshold:    0.85,
		Mode:                ModeStrict,
		DivisorEchoEnabled:  true,
		VerificationTimeout: 100 * time.Millisecond,
	}
}

// normalized clamps the threshold into [0,1] and backfills the mode.
func (c Config) normalized() Config {
	if c.EntropyThreshold < 0 {
		c.EntropyThreshold = 0
	}
	if c.EntropyThreshold > 1 {
		c.EntropyThreshold = 1
	}
	if c.Mode == "" {
		c.Mode = ModeStrict
	}
	if c.VerificationTimeout < 0 {
		c.VerificationTimeout = 0
	}
	return c
}

// Result is one validation outcome. StructurallyValid is the conjunction of
// every sub-check; VerificationTime covers the whole call.
type Result struct {
	StructurallyValid bool
	EntropyScore      float64
	VerificationTime  time.Duration
	Proof             *proof.StructuralProof
}

// Validator runs structural validation. The zero value is unusable; use New.
type Validator struct {
	logger *slog.Logger
}

// New creates a validator. A nil logger falls back to slog.Default.
func New(logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{logger: logger}
}

// Validate decides whether data, read as a big-endian integer, is
// structurally sound under cfg. Every input produces a Result; degenerate
// inputs (empty, zero, one) yield a negative result, never an error.
func (v *Validator) Validate(data []byte, cfg Config) Result {
	start := time.Now()
	cfg = cfg.normalized()

	n := divisor.FromBytes(data)

	echoValid := true
	if cfg.DivisorEchoEnabled {
		echoValid = divisor.EchoValid(n)
	}

	sig := entropy.ComputeSignature(data)
	entropyMet := sig.ComplexityScore >= cfg.EntropyThreshold

	// The gcd/lcm attestations are re-derived from the divisor set rather
	// than copied from the echo result, because the proof object carries
	// them as independent flags.
	divs := divisor.ProperDivisors(n)
	gcdValid := divisor.GCDPreserved(n, divs)
	lcmValid := divisor.LCMConsistent(n, divs)

	p := &proof.StructuralProof{
		DivisorEchoValid:     echoValid,
		GCDPreservationValid: gcdValid,
		LCMConsistencyValid:  lcmValid,
		EntropyDistribution:  sig.DistributionPattern,
	}

	valid := echoValid && entropyMet && gcdValid && lcmValid
	elapsed := time.Since(start)

	if elapsed > cfg.VerificationTimeout {
		// Advisory override: the budget cannot bound CPU time, it can only
		// flag a slow result as untrusted after the fact.
		valid = false
		v.logger.Warn("verification exceeded timeout, result forced invalid",
			"elapsed_ms", elapsed.Milliseconds(),
			"timeout_ms", cfg.VerificationTimeout.Milliseconds(),
			"input_bytes", len(data),
		)
	}

	return Result{
		StructurallyValid: valid,
		EntropyScore:      sig.ComplexityScore,
		VerificationTime:  elapsed,
		Proof:             p,
	}
}
