package ring

import (
	"fmt"
)

// InvertMatrix returns the inverse of the square matrix m over Z_p by
// Gauss-Jordan elimination. Returns [ErrNotInvertible] if m is singular.
func InvertMatrix(m [][]uint64, p uint64) (inv [][]uint64, err error) {

	n := len(m)

	// a = [m | I]
	a := make([][]uint64, n)
	for i := range a {
		if len(m[i]) != n {
			return nil, fmt.Errorf("InvertMatrix: row %d has length %d != %d", i, len(m[i]), n)
		}
		a[i] = make([]uint64, 2*n)
		for j := range m[i] {
			a[i][j] = m[i][j] % p
		}
		a[i][n+i] = 1
	}

	for col := 0; col < n; col++ {

		pivot := -1
		for row := col; row < n; row++ {
			if a[row][col] != 0 {
				pivot = row
				break
			}
		}

		if pivot == -1 {
			return nil, fmt.Errorf("InvertMatrix: singular matrix: %w", ErrNotInvertible)
		}

		a[col], a[pivot] = a[pivot], a[col]

		var s uint64
		if s, err = ModInverse(a[col][col], p); err != nil {
			return nil, fmt.Errorf("InvertMatrix: %w", err)
		}

		for j := range a[col] {
			a[col][j] = MulMod(a[col][j], s, p)
		}

		for row := 0; row < n; row++ {
			if row == col || a[row][col] == 0 {
				continue
			}
			f := a[row][col]
			for j := range a[row] {
				a[row][j] = SubMod(a[row][j], MulMod(f, a[col][j], p), p)
			}
		}
	}

	inv = make([][]uint64, n)
	for i := range inv {
		inv[i] = a[i][n:]
	}

	return
}

// FromRoots returns the coefficients of prod_i (X - roots[i]) mod p.
func FromRoots(roots []uint64, p uint64) (c Poly) {
	c = make(Poly, 1, len(roots)+1)
	c[0] = 1 % p
	for _, x := range roots {
		c = mulByLinear(c, x%p, p)
	}
	return
}

// mulByLinear returns c * (X - x), extending c by one coefficient.
func mulByLinear(c Poly, x, p uint64) Poly {
	c = append(c, 0)
	for t := len(c) - 1; t > 0; t-- {
		c[t] = AddMod(c[t-1], MulMod(NegMod(c[t], p), x, p), p)
	}
	c[0] = MulMod(NegMod(c[0], p), x, p)
	return c
}
