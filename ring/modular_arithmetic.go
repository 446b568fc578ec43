package ring

import (
	"fmt"
	"math/big"
	"math/bits"

	"golang.org/x/exp/constraints"
)

// MulMod returns x * y mod p.
func MulMod(x, y, p uint64) uint64 {
	hi, lo := bits.Mul64(x, y)
	return bits.Rem64(hi, lo, p)
}

// AddMod returns x + y mod p for x, y in [0, p).
func AddMod(x, y, p uint64) uint64 {
	z, carry := bits.Add64(x, y, 0)
	if carry != 0 || z >= p {
		z -= p
	}
	return z
}

// SubMod returns x - y mod p for x, y in [0, p).
func SubMod(x, y, p uint64) uint64 {
	if x >= y {
		return x - y
	}
	return p - y + x
}

// NegMod returns -x mod p for x in [0, p).
func NegMod(x, p uint64) uint64 {
	if x == 0 {
		return 0
	}
	return p - x
}

// ModExp returns y = x^e mod p by repeated squaring.
func ModExp(x, e, p uint64) (y uint64) {
	y = 1 % p
	x %= p
	for e > 0 {
		if e&1 == 1 {
			y = MulMod(y, x, p)
		}
		x = MulMod(x, x, p)
		e >>= 1
	}
	return
}

// ModInverse returns a^{-1} mod p computed as a^{p-2} mod p.
// p must be prime. Returns [ErrNotInvertible] if a = 0 mod p.
func ModInverse(a, p uint64) (uint64, error) {
	if a%p == 0 {
		return 0, fmt.Errorf("ModInverse: %d mod %d: %w", a, p, ErrNotInvertible)
	}
	return ModExp(a, p-2, p), nil
}

// IsPrime returns true if p is prime.
func IsPrime(p uint64) bool {
	// ProbablyPrime is exact for inputs smaller than 2^64.
	return new(big.Int).SetUint64(p).ProbablyPrime(0)
}

// CheckPrime returns an error if p is not prime.
func CheckPrime(p uint64) (err error) {
	if !IsPrime(p) {
		return fmt.Errorf("invalid modulus: %d is not prime", p)
	}
	return
}

// Factorize returns the distinct prime factors of n in ascending order.
func Factorize(n uint64) (factors []uint64) {
	for f := uint64(2); f*f <= n; f++ {
		if n%f == 0 {
			factors = append(factors, f)
			for n%f == 0 {
				n /= f
			}
		}
	}
	if n > 1 {
		factors = append(factors, n)
	}
	return
}

// PrimitiveRoot returns the smallest primitive root of the prime p and the
// distinct prime factors of p-1.
func PrimitiveRoot(p uint64) (g uint64, factors []uint64, err error) {

	if err = CheckPrime(p); err != nil {
		return 0, nil, fmt.Errorf("PrimitiveRoot: %w", err)
	}

	if p == 2 {
		return 1, nil, nil
	}

	factors = Factorize(p - 1)

	for g = 2; g < p; g++ {
		ok := true
		for _, f := range factors {
			if ModExp(g, (p-1)/f, p) == 1 {
				ok = false
				break
			}
		}
		if ok {
			return g, factors, nil
		}
	}

	return 0, nil, fmt.Errorf("PrimitiveRoot: no primitive root found for %d", p)
}

// MultiplicativeOrder returns the smallest e > 0 such that x^e = 1 mod m.
// x and m must be coprime.
func MultiplicativeOrder(x, m uint64) (e uint64) {
	if m == 1 {
		return 1
	}
	y := x % m
	for e = 1; y != 1; e++ {
		if y == 0 || e > m {
			return 0
		}
		y = MulMod(y, x, m)
	}
	return
}

// EvalPolyModP evaluates y = sum poly[i] * x^{i} mod p with Horner's rule.
func EvalPolyModP(x uint64, poly []uint64, p uint64) (y uint64) {
	for i := len(poly) - 1; i >= 0; i-- {
		y = AddMod(MulMod(y, x, p), poly[i]%p, p)
	}
	return
}

// Reduce maps a slice of integers, possibly negative, to their representatives in [0, p).
func Reduce[V constraints.Integer](values []V, p uint64) (out []uint64) {
	out = make([]uint64, len(values))
	for i, v := range values {
		if v < 0 {
			out[i] = NegMod(uint64(-int64(v))%p, p)
		} else {
			out[i] = uint64(v) % p
		}
	}
	return
}
