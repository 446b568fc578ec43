package ring

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInvertMatrix(t *testing.T) {

	t.Run("Random", func(t *testing.T) {

		p := uint64(257)
		n := 6
		s := newTestSampler(t, p)

		m := make([][]uint64, n)
		for i := range m {
			m[i] = s.ReadNew(n)
		}

		inv, err := InvertMatrix(m, p)
		if errors.Is(err, ErrNotInvertible) {
			t.Skip("singular sample")
		}
		require.NoError(t, err)

		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				var acc uint64
				for k := 0; k < n; k++ {
					acc = AddMod(acc, MulMod(m[i][k], inv[k][j], p), p)
				}
				if i == j {
					require.Equal(t, uint64(1), acc)
				} else {
					require.Equal(t, uint64(0), acc)
				}
			}
		}
	})

	t.Run("Singular", func(t *testing.T) {
		_, err := InvertMatrix([][]uint64{{1, 2}, {2, 4}}, 17)
		require.True(t, errors.Is(err, ErrNotInvertible))
	})

	t.Run("Pivoting", func(t *testing.T) {
		inv, err := InvertMatrix([][]uint64{{0, 1}, {1, 0}}, 17)
		require.NoError(t, err)
		require.Equal(t, [][]uint64{{0, 1}, {1, 0}}, inv)
	})

	t.Run("NotSquare", func(t *testing.T) {
		_, err := InvertMatrix([][]uint64{{0, 1, 2}, {1, 0, 2}}, 17)
		require.Error(t, err)
	})
}

func TestFromRoots(t *testing.T) {
	// (X-1)(X-2) = X^2 - 3X + 2
	require.Equal(t, Poly{2, 14, 1}, FromRoots([]uint64{1, 2}, 17))
	require.Equal(t, Poly{1}, FromRoots(nil, 17))

	roots := []uint64{0, 3, 5, 16}
	c := FromRoots(roots, 17)
	for _, x := range roots {
		require.Zero(t, EvalPolyModP(x, c, 17))
	}
	require.NotZero(t, EvalPolyModP(1, c, 17))
}
