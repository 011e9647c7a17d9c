package divisor

import (
	"math/big"
	"testing"
)

func toInt64s(divs []*big.Int) []int64 {
	out := make([]int64, len(divs))
	for i, d := range divs {
		out[i] = d.Int64()
	}
	return out
}

func TestProperDivisors(t *testing.T) {
	tests := []struct {
		name string
		n    int64
		want []int64
	}{
		{name: "zero", n: 0, want: nil},
		{name: "one", n: 1, want: nil},
		{name: "prime", n: 7, want: []int64{1}},
		{name: "perfect six", n: 6, want: []int64{1, 2, 3}},
		{name: "non-perfect ten", n: 10, want: []int64{1, 2, 5}},
		{name: "perfect twenty-eight", n: 28, want: []int64{1, 2, 4, 7, 14}},
		{name: "perfect square", n: 36, want: []int64{1, 2, 3, 4, 6, 9, 12, 18}},
		{name: "perfect square nine", n: 9, want: []int64{1, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := toInt64s(ProperDivisors(big.NewInt(tt.n)))
			if len(got) != len(tt.want) {
				t.Fatalf("ProperDivisors(%d) = %v, want %v", tt.n, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ProperDivisors(%d)[%d] = %d, want %d", tt.n, i, got[i], tt.want[i])
				}
			}
		})
	}
}

// Every enumerated divisor must satisfy gcd(n,d)=d and lcm(n,d)=n. This
// pins the property the echo test relies on.
func TestDivisorIdentities(t *testing.T) {
	for n := int64(2); n <= 500; n++ {
		bn := big.NewInt(n)
		for _, d := range ProperDivisors(bn) {
			if GCD(bn, d).Cmp(d) != 0 {
				t.Errorf("gcd(%d, %s) != %s", n, d, d)
			}
			if LCM(bn, d).Cmp(bn) != 0 {
				t.Errorf("lcm(%d, %s) != %d", n, d, n)
			}
		}
	}
}

func TestGCD(t *testing.T) {
	tests := []struct {
		a, b, want int64
	}{
		{12, 8, 4},
		{8, 12, 4},
		{7, 13, 1},
		{0, 5, 5},
		{5, 0, 5},
		{0, 0, 0},
		{28, 28, 28},
	}

	for _, tt := range tests {
		got := GCD(big.NewInt(tt.a), big.NewInt(tt.b))
		if got.Int64() != tt.want {
			t.Errorf("GCD(%d, %d) = %s, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestLCM(t *testing.T) {
	tests := []struct {
		a, b, want int64
	}{
		{4, 6, 12},
		{6, 4, 12},
		{7, 13, 91},
		{0, 5, 0},
		{5, 0, 0},
		{0, 0, 0},
		{28, 14, 28},
	}

	for _, tt := range tests {
		got := LCM(big.NewInt(tt.a), big.NewInt(tt.b))
		if got.Int64() != tt.want {
			t.Errorf("LCM(%d, %d) = %s, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestEchoValid(t *testing.T) {
	perfect := []int64{6, 28, 496, 8128}
	for _, n := range perfect {
		if !EchoValid(big.NewInt(n)) {
			t.Errorf("EchoValid(%d) = false, want true (perfect number)", n)
		}
	}

	imperfect := []int64{0, 1, 2, 10, 27, 100, 497}
	for _, n := range imperfect {
		if EchoValid(big.NewInt(n)) {
			t.Errorf("EchoValid(%d) = true, want false", n)
		}
	}
}

func TestFromBytes(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want int64
	}{
		{name: "empty", data: nil, want: 0},
		{name: "single byte", data: []byte{6}, want: 6},
		{name: "big endian order", data: []byte{0x01, 0x00}, want: 256},
		{name: "leading zero", data: []byte{0x00, 0x1c}, want: 28},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromBytes(tt.data); got.Int64() != tt.want {
				t.Errorf("FromBytes(%v) = %s, want %d", tt.data, got, tt.want)
			}
		})
	}
}

func TestFromBytesLargeInput(t *testing.T) {
	// 16 bytes exceeds uint64; the conversion must not truncate.
	data := make([]byte, 16)
	data[0] = 1
	n := FromBytes(data)
	if n.BitLen() != 121 {
		t.Errorf("FromBytes 16-byte input: bit length = %d, want 121", n.BitLen())
	}
}
