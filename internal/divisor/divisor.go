// Package divisor provides divisor enumeration and the divisor-echo
// structural test over arbitrary-precision integers.
package divisor

import (
	"math/big"
	"slices"
)

var two = big.NewInt(2)

// FromBytes interprets data as an unsigned big-endian integer.
// An empty slice maps to zero.
func FromBytes(data []byte) *big.Int {
	return new(big.Int).SetBytes(data)
}

// ProperDivisors returns the ascending list of divisors d with 1 <= d < n.
// For n < 2 the result is empty. Candidates are scanned up to floor(sqrt(n));
// each hit contributes the factor and its cofactor, skipping the cofactor
// when it equals n (the factor 1) or duplicates the factor (perfect square).
func ProperDivisors(n *big.Int) []*big.Int {
	if n.Cmp(two) < 0 {
		return nil
	}

	var divisors []*big.Int
	limit := new(big.Int).Sqrt(n)
	one := big.NewInt(1)
	rem := new(big.Int)

	for i := big.NewInt(1); i.Cmp(limit) <= 0; i.Add(i, one) {
		if rem.Mod(n, i).Sign() != 0 {
			continue
		}
		divisors = append(divisors, new(big.Int).Set(i))

		cofactor := new(big.Int).Div(n, i)
		if cofactor.Cmp(n) != 0 && cofactor.Cmp(i) != 0 {
			divisors = append(divisors, cofactor)
		}
	}

	slices.SortFunc(divisors, (*big.Int).Cmp)
	return divisors
}

// GCD returns the greatest common divisor of a and b.
// GCD(a, 0) = a and GCD(0, b) = b.
func GCD(a, b *big.Int) *big.Int {
	if a.Sign() == 0 {
		return new(big.Int).Set(b)
	}
	if b.Sign() == 0 {
		return new(big.Int).Set(a)
	}
	return new(big.Int).GCD(nil, nil, a, b)
}

// LCM returns the least common multiple of a and b, defined as zero when
// either operand is zero so the quotient below is never undefined.
func LCM(a, b *big.Int) *big.Int {
	if a.Sign() == 0 || b.Sign() == 0 {
		return new(big.Int)
	}
	lcm := new(big.Int).Mul(a, b)
	return lcm.Div(lcm, GCD(a, b))
}

// GCDPreserved reports whether gcd(n, d) = d for every divisor in divs.
// For divisors sourced from ProperDivisors this holds by construction;
// it is re-derived anyway because the proof object attests to it separately.
func GCDPreserved(n *big.Int, divs []*big.Int) bool {
	for _, d := range divs {
		if GCD(n, d).Cmp(d) != 0 {
			return false
		}
	}
	return true
}

// LCMConsistent reports whether lcm(n, d) = n for every divisor in divs.
func LCMConsistent(n *big.Int, divs []*big.Int) bool {
	for _, d := range divs {
		if LCM(n, d).Cmp(n) != 0 {
			return false
		}
	}
	return true
}

// EchoValid runs the divisor-echo structural test: gcd preservation, lcm
// consistency, and the divisor-sum check. The first two hold for any divisor
// set produced by ProperDivisors, so the discriminating part is the sum:
// the test passes exactly when n is a perfect number.
//
// n < 2 is invalid by explicit rule. Without the guard, n = 0 would match
// the empty divisor sum vacuously.
func EchoValid(n *big.Int) bool {
	if n.Cmp(two) < 0 {
		return false
	}

	divs := ProperDivisors(n)
	if !GCDPreserved(n, divs) || !LCMConsistent(n, divs) {
		return false
	}

	sum := new(big.Int)
	for _, d := range divs {
		sum.Add(sum, d)
	}
	return sum.Cmp(n) == 0
}
