package fimd

import (
	"fmt"

	"github.com/phuocchubeo123/fimd/ring"
)

// GenerateBitComparePolynomial returns the d+1 coefficients of the polynomial
//
//	B(x) = prod_{i<d} (x - i) / d!
//
// which is the unique polynomial of degree d with B(d) = 1 and B(x) = 0 for x in {0, ..., d-1}.
// Evaluated on a popcount over d bits, it tests whether all the bits are set.
// Returns an error if d < 1, if p is not prime or if p <= d.
func GenerateBitComparePolynomial(d int, p uint64) (coeffs ring.Poly, err error) {

	if d < 1 {
		return nil, fmt.Errorf("cannot GenerateBitComparePolynomial: %w: d=%d < 1", ErrInvalidInput, d)
	}

	if err = ring.CheckPrime(p); err != nil {
		return nil, fmt.Errorf("cannot GenerateBitComparePolynomial: %w: %w", ErrConfiguration, err)
	}

	if p <= uint64(d) {
		return nil, fmt.Errorf("cannot GenerateBitComparePolynomial: %w: p=%d <= d=%d", ErrInvalidInput, p, d)
	}

	roots := make([]uint64, d)
	factorial := uint64(1)
	for i := range roots {
		roots[i] = uint64(i)
		factorial = ring.MulMod(factorial, uint64(i+1), p)
	}

	coeffs = ring.FromRoots(roots, p)

	var inv uint64
	if inv, err = ring.ModInverse(factorial, p); err != nil {
		return nil, fmt.Errorf("cannot GenerateBitComparePolynomial: %w", err)
	}

	for i := range coeffs {
		coeffs[i] = ring.MulMod(coeffs[i], inv, p)
	}

	return
}

// EvaluateBitCompare evaluates the polynomial with scalar coefficients coeffs on the
// packed value x with the Paterson-Stockmeyer algorithm: with g = ceil(sqrt(deg+1)),
//
//	P(x) = sum_j x^{g*j} * (sum_{i<g} coeffs[g*j+i] * x^i)
//
// Every product of two packed values is followed by the linearization of the given level.
func EvaluateBitCompare[T, C any](lin *Linearizer[T, C], x T, coeffs ring.Poly, level Level) (res T, err error) {

	eval := lin.eval
	p := lin.params.p

	coeffs = coeffs.Trim()
	deg := len(coeffs) - 1

	if deg < 1 {
		return res, fmt.Errorf("cannot EvaluateBitCompare: %w: polynomial must have degree at least 1", ErrInvalidInput)
	}

	for i, c := range coeffs {
		if c >= p {
			return res, fmt.Errorf("cannot EvaluateBitCompare: %w: coefficient %d=%d >= P=%d", ErrInvalidInput, i, c, p)
		}
	}

	g := 1
	for g*g < deg+1 {
		g++
	}
	g = max(g, 2)

	giant := (deg + g) / g

	// small[i] = x^i for 1 <= i < g, and x^g if a giant step is needed
	small := make([]T, g+1)
	small[1] = x
	for i := 2; i < g || (i == g && giant > 1); i++ {
		if small[i], err = lin.MulByValue(small[i/2], small[i-i/2], level); err != nil {
			return res, fmt.Errorf("cannot EvaluateBitCompare: x^%d: %w", i, err)
		}
	}

	// big[j] = x^{g*j} for 1 <= j < giant
	big := make([]T, giant)
	if giant > 1 {
		big[1] = small[g]
	}
	for j := 2; j < giant; j++ {
		if big[j], err = lin.MulByValue(big[j/2], big[j-j/2], level); err != nil {
			return res, fmt.Errorf("cannot EvaluateBitCompare: x^%d: %w", g*j, err)
		}
	}

	scalar := func(c uint64) (C, error) {
		return eval.EncodeConstant([]ring.Poly{{c}})
	}

	for j := 0; j < giant; j++ {

		var inner T
		var hasInner bool

		for i := 1; i < g && g*j+i <= deg; i++ {

			var c C
			if c, err = scalar(coeffs[g*j+i]); err != nil {
				return res, fmt.Errorf("cannot EvaluateBitCompare: %w", err)
			}

			var tmp T
			if tmp, err = eval.MulConstantNew(small[i], c); err != nil {
				return res, fmt.Errorf("cannot EvaluateBitCompare: %w", err)
			}

			if !hasInner {
				inner, hasInner = tmp, true
			} else if inner, err = eval.AddNew(inner, tmp); err != nil {
				return res, fmt.Errorf("cannot EvaluateBitCompare: %w", err)
			}
		}

		var c0 C
		if c0, err = scalar(coeffs[g*j]); err != nil {
			return res, fmt.Errorf("cannot EvaluateBitCompare: %w", err)
		}

		var term T

		switch {
		case j == 0:
			// g >= 2 and deg >= 1, so the inner sum is not empty.
			if term, err = eval.AddConstantNew(inner, c0); err != nil {
				return res, fmt.Errorf("cannot EvaluateBitCompare: %w", err)
			}
		case !hasInner:
			if term, err = eval.MulConstantNew(big[j], c0); err != nil {
				return res, fmt.Errorf("cannot EvaluateBitCompare: %w", err)
			}
		default:
			if inner, err = eval.AddConstantNew(inner, c0); err != nil {
				return res, fmt.Errorf("cannot EvaluateBitCompare: %w", err)
			}
			if term, err = lin.MulByValue(inner, big[j], level); err != nil {
				return res, fmt.Errorf("cannot EvaluateBitCompare: x^%d: %w", g*j, err)
			}
		}

		if j == 0 {
			res = term
		} else if res, err = eval.AddNew(res, term); err != nil {
			return res, fmt.Errorf("cannot EvaluateBitCompare: %w", err)
		}
	}

	return
}
