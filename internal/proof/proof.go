// Package proof builds and verifies portable structural proofs.
//
// A proof attests that some byte sequence passed the divisor-echo test and
// records its entropy distribution. It deliberately carries no reference to
// the bytes or the integer that produced it, so verification never needs
// the original input.
package proof

import (
	"github.com/raphaelgruber/structproof/internal/divisor"
	"github.com/raphaelgruber/structproof/internal/entropy"
)

// StructuralProof is a data-independent attestation bundle.
type StructuralProof struct {
	DivisorEchoValid     bool      `json:"divisor_echo_valid"`
	GCDPreservationValid bool      `json:"gcd_preservation_valid"`
	LCMConsistencyValid  bool      `json:"lcm_consistency_valid"`
	EntropyDistribution  []float64 `json:"entropy_distribution"`
}

// Generate runs the full structural analysis on data and returns a proof,
// or nil when the divisor-echo test fails (the integer is not perfect).
func Generate(data []byte) *StructuralProof {
	n := divisor.FromBytes(data)
	if !divisor.EchoValid(n) {
		return nil
	}

	divs := divisor.ProperDivisors(n)
	sig := entropy.ComputeSignature(data)

	return &StructuralProof{
		DivisorEchoValid:     true,
		GCDPreservationValid: divisor.GCDPreserved(n, divs),
		LCMConsistencyValid:  divisor.LCMConsistent(n, divs),
		EntropyDistribution:  sig.DistributionPattern,
	}
}

// Verify checks a proof against an entropy threshold: all three structural
// flags must hold and the mean of the entropy distribution must reach the
// threshold. The original bytes are never consulted.
func Verify(p *StructuralProof, threshold float64) bool {
	if p == nil {
		return false
	}
	if !p.DivisorEchoValid || !p.GCDPreservationValid || !p.LCMConsistencyValid {
		return false
	}
	return entropy.Mean(p.EntropyDistribution) >= threshold
}
