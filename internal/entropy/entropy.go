// Package entropy builds the per-divisor entropy signature of a byte
// sequence interpreted as a big-endian integer.
package entropy

import (
	"math"
	"math/big"

	"github.com/raphaelgruber/structproof/internal/divisor"
)

// simpleRatios is the fixed reference set of "predictable" divisor ratios.
// A ratio far from every entry scores as more entropic.
var simpleRatios = []float64{0.5, 0.333, 0.667, 0.25, 0.75, 0.2, 0.8, 1.5, 2.0, 3.0}

// Signature summarizes the divisor structure of one input.
type Signature struct {
	// DistributionPattern holds one averaged entropy entry per proper
	// divisor, in ascending divisor order. Empty when the integer has no
	// proper divisors.
	DistributionPattern []float64 `json:"distribution_pattern"`

	// ComplexityScore is variance/mean of the pattern, clamped to [0,1].
	ComplexityScore float64 `json:"complexity_score"`

	// IrregularityIndex is the mean absolute step between adjacent
	// pattern entries, clamped to [0,1].
	IrregularityIndex float64 `json:"irregularity_index"`
}

// ComputeSignature derives the entropy signature for data.
func ComputeSignature(data []byte) Signature {
	n := divisor.FromBytes(data)
	divs := divisor.ProperDivisors(n)

	pattern := make([]float64, 0, len(divs))
	for i, d := range divs {
		g := gcdEntropy(n, d)
		l := lcmEntropy(n, d)
		p := positionalEntropy(i, divs)
		pattern = append(pattern, (g+l+p)/3)
	}

	return Signature{
		DistributionPattern: pattern,
		ComplexityScore:     complexityScore(pattern),
		IrregularityIndex:   irregularityIndex(pattern),
	}
}

// gcdEntropy is 1.0 when gcd(n, d) = d, else a deviation penalty
// 1 - |gcd-d|/max(gcd, d). Genuine divisors always score 1.0; the general
// branch exists for parity with signatures computed over foreign values.
func gcdEntropy(n, d *big.Int) float64 {
	g := divisor.GCD(n, d)
	if g.Cmp(d) == 0 {
		return 1.0
	}
	return deviationPenalty(g, d)
}

// lcmEntropy is the lcm analogue of gcdEntropy: 1.0 when lcm(n, d) = n.
func lcmEntropy(n, d *big.Int) float64 {
	l := divisor.LCM(n, d)
	if l.Cmp(n) == 0 {
		return 1.0
	}
	return deviationPenalty(l, n)
}

// deviationPenalty computes 1 - |a-b|/max(a, b) in float space.
func deviationPenalty(a, b *big.Int) float64 {
	diff := new(big.Int).Sub(a, b)
	diff.Abs(diff)

	maxAB := a
	if b.Cmp(a) > 0 {
		maxAB = b
	}
	if maxAB.Sign() == 0 {
		return 1.0
	}
	return 1.0 - bigRatio(diff, maxAB)
}

// positionalEntropy averages the ratio unpredictability of divs[i] against
// every other divisor. Fewer than two divisors yields zero.
func positionalEntropy(i int, divs []*big.Int) float64 {
	if len(divs) < 2 {
		return 0
	}

	var sum float64
	for j, other := range divs {
		if j == i {
			continue
		}
		sum += ratioUnpredictability(bigRatio(divs[i], other))
	}
	return sum / float64(len(divs)-1)
}

// ratioUnpredictability is the minimum absolute distance from r to the
// simple-ratio reference set, clamped to [0,1].
func ratioUnpredictability(r float64) float64 {
	minDist := math.Inf(1)
	for _, s := range simpleRatios {
		if d := math.Abs(r - s); d < minDist {
			minDist = d
		}
	}
	return clamp01(minDist)
}

// complexityScore is variance/mean of the pattern clamped to [0,1],
// or zero for an empty pattern or a zero mean.
func complexityScore(pattern []float64) float64 {
	if len(pattern) == 0 {
		return 0
	}
	m := mean(pattern)
	if m == 0 {
		return 0
	}

	var variance float64
	for _, v := range pattern {
		variance += (v - m) * (v - m)
	}
	variance /= float64(len(pattern))

	return clamp01(variance / m)
}

// irregularityIndex is the mean absolute difference between adjacent
// pattern entries, clamped to [0,1]. Patterns of length <= 1 score zero.
func irregularityIndex(pattern []float64) float64 {
	if len(pattern) <= 1 {
		return 0
	}

	var sum float64
	for i := 1; i < len(pattern); i++ {
		sum += math.Abs(pattern[i] - pattern[i-1])
	}
	return clamp01(sum / float64(len(pattern)-1))
}

// Mean returns the arithmetic mean of values, or zero for an empty slice.
func Mean(values []float64) float64 {
	return mean(values)
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// bigRatio converts a/b to float64 at big.Float precision.
func bigRatio(a, b *big.Int) float64 {
	q := new(big.Float).Quo(new(big.Float).SetInt(a), new(big.Float).SetInt(b))
	f, _ := q.Float64()
	return f
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
