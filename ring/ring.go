// Package ring implements arithmetic over prime fields Z_p, their extensions
// Z_p[X]/(G), and the negacyclic ring Z_p[X]/(X^N+1), together with the
// interpolation and CRT machinery needed to move between a ring element
// and its slots.
package ring

import (
	"errors"
	"slices"
)

// ErrNotInvertible is returned when an inverse is requested for an element
// that has none (e.g. 0 mod p).
var ErrNotInvertible = errors.New("element is not invertible")

// Poly is a polynomial with coefficients in [0, p), stored in
// ascending order: Poly[i] is the coefficient of X^i.
type Poly []uint64

// NewPoly allocates a new zero polynomial with n coefficients.
func NewPoly(n int) Poly {
	return make(Poly, n)
}

// Degree returns the degree of the polynomial, or -1 for the zero polynomial.
func (p Poly) Degree() int {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i] != 0 {
			return i
		}
	}
	return -1
}

// IsZero returns true if all the coefficients are zero.
func (p Poly) IsZero() bool {
	return p.Degree() == -1
}

// Trim returns p without its trailing zero coefficients.
// The returned polynomial shares its backing array with p.
func (p Poly) Trim() Poly {
	return p[:p.Degree()+1]
}

// Clone returns a deep copy of the polynomial.
func (p Poly) Clone() Poly {
	return slices.Clone(p)
}

// Equal returns true if p and other represent the same polynomial.
// Trailing zero coefficients are ignored.
func (p Poly) Equal(other Poly) bool {
	return slices.Equal(p.Trim(), other.Trim())
}
