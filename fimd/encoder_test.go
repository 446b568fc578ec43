package fimd_test

import (
	"errors"
	"testing"

	"github.com/phuocchubeo123/fimd/fimd"
	"github.com/phuocchubeo123/fimd/ring"
	"github.com/stretchr/testify/require"
)

func testEncoder(tc *testContext, t *testing.T) {

	k := tc.params.K()
	p := tc.params.P()

	t.Run(GetTestName("Encoder/RoundTrip", tc.params), func(t *testing.T) {
		for i := 0; i < 16; i++ {
			values := tc.randomValues()
			pt, err := tc.encoder.Encode(values)
			require.NoError(t, err)
			require.Less(t, pt.Degree(), k)
			have, err := tc.encoder.Decode(pt)
			require.NoError(t, err)
			require.Equal(t, values, have)
		}
	})

	t.Run(GetTestName("Encoder/Indicator", tc.params), func(t *testing.T) {
		points := tc.params.EvaluationPoints()
		for i := 0; i < k; i++ {
			values := make([]uint64, k)
			values[i] = 1
			pt, err := tc.encoder.Encode(values)
			require.NoError(t, err)
			require.Equal(t, tc.encoder.Basis().Vector(i), pt)
			for j, x := range points {
				want := uint64(0)
				if i == j {
					want = 1
				}
				require.Equal(t, want, ring.EvalPolyModP(x, pt, p))
			}
		}
	})

	t.Run(GetTestName("Encoder/Product", tc.params), func(t *testing.T) {
		a, b := tc.randomValues(), tc.randomValues()
		pa, err := tc.encoder.Encode(a)
		require.NoError(t, err)
		pb, err := tc.encoder.Encode(b)
		require.NoError(t, err)

		// deg(pa * pb) <= 2K-2 < SlotDegree: the product is not reduced in the slot field.
		have, err := tc.encoder.Decode(tc.field.Mul(pa, pb))
		require.NoError(t, err)
		for i := range have {
			require.Equal(t, ring.MulMod(a[i], b[i], p), have[i])
		}
	})

	t.Run(GetTestName("Encoder/SlotAccess", tc.params), func(t *testing.T) {
		v := tc.eval.NewVector()
		values := tc.randomValues()
		idx := v.Slots() - 1
		require.NoError(t, tc.encoder.EncodeAt(values, idx, v))
		have, err := tc.encoder.DecodeAt(v, idx)
		require.NoError(t, err)
		require.Equal(t, values, have)

		zero, err := tc.encoder.DecodeAt(v, 0)
		if idx != 0 {
			require.NoError(t, err)
			require.Equal(t, make([]uint64, k), zero)
		}

		require.Error(t, tc.encoder.EncodeAt(values, v.Slots(), v))
		_, err = tc.encoder.DecodeAt(v, -1)
		require.Error(t, err)
	})

	t.Run(GetTestName("Encoder/Many", tc.params), func(t *testing.T) {

		values := make([][]uint64, 33)
		for i := range values {
			values[i] = tc.randomValues()
		}

		pts, err := tc.encoder.EncodeMany(values)
		require.NoError(t, err)
		require.Len(t, pts, len(values))

		for i := range pts {
			pt, err := tc.encoder.Encode(values[i])
			require.NoError(t, err)
			require.Equal(t, pt, pts[i])
		}

		have, err := tc.encoder.DecodeMany(pts)
		require.NoError(t, err)
		require.Equal(t, values, have)

		values[7] = values[7][1:]
		_, err = tc.encoder.EncodeMany(values)
		require.True(t, errors.Is(err, fimd.ErrInvalidInput))

		empty, err := tc.encoder.EncodeMany(nil)
		require.NoError(t, err)
		require.Empty(t, empty)
	})

	t.Run(GetTestName("Encoder/Errors", tc.params), func(t *testing.T) {

		_, err := tc.encoder.Encode(make([]uint64, k+1))
		require.True(t, errors.Is(err, fimd.ErrInvalidInput))

		_, err = tc.encoder.Encode(make([]uint64, k-1))
		require.True(t, errors.Is(err, fimd.ErrInvalidInput))

		values := make([]uint64, k)
		values[0] = p
		_, err = tc.encoder.Encode(values)
		require.True(t, errors.Is(err, fimd.ErrInvalidInput))

		// zero polynomial, of any length
		have, err := tc.encoder.Decode(ring.Poly{})
		require.NoError(t, err)
		require.Equal(t, make([]uint64, k), have)

		have, err = tc.encoder.Decode(ring.NewPoly(4 * tc.params.SlotDegree()))
		require.NoError(t, err)
		require.Equal(t, make([]uint64, k), have)

		// more terms than a slot holds
		tooLong := ring.NewPoly(tc.params.SlotDegree() + 1)
		tooLong[tc.params.SlotDegree()] = 1
		_, err = tc.encoder.Decode(tooLong)
		require.True(t, errors.Is(err, fimd.ErrConfiguration))

		_, err = tc.encoder.Decode(ring.Poly{p})
		require.True(t, errors.Is(err, fimd.ErrInvalidInput))
	})

	t.Run(GetTestName("Encoder/ProjectionImages", tc.params), func(t *testing.T) {

		images, err := tc.encoder.ProjectionImages(tc.field)
		require.NoError(t, err)
		require.Len(t, images, tc.params.SlotDegree())

		// x -> Encode(Decode(x)) is the identity on packings
		for j := 0; j < k; j++ {
			want := tc.field.NewElement()
			want[j] = 1
			require.Equal(t, want, images[j])
		}

		other, err := ring.NewBinomialField(p, 1, 1)
		require.NoError(t, err)
		_, err = tc.encoder.ProjectionImages(other)
		require.True(t, errors.Is(err, fimd.ErrConfiguration))
	})
}

func TestScenarioRoundTrip(t *testing.T) {

	params, err := fimd.NewParametersFromLiteral(fimd.ParametersLiteral{
		P:                257,
		K:                8,
		EvaluationPoints: []uint64{0, 1, 2, 3, 4, 5, 6, 7},
	})
	require.NoError(t, err)

	ecd, err := fimd.NewEncoder(params)
	require.NoError(t, err)

	values := []uint64{1, 0, 1, 1, 0, 0, 1, 0}

	pt, err := ecd.Encode(values)
	require.NoError(t, err)

	have, err := ecd.Decode(pt)
	require.NoError(t, err)
	require.Equal(t, values, have)
}

func TestRoundTripSweep(t *testing.T) {

	for _, p := range []uint64{2, 3, 7, 17, 257, 65537, 0xffffffff00000001} {
		for _, k := range []int{1, 2, 3, 8, 16} {

			if uint64(k) > p {
				continue
			}

			params, err := fimd.NewParametersFromLiteral(fimd.ParametersLiteral{P: p, K: k})
			require.NoError(t, err)

			t.Run(GetTestName("RoundTrip", params), func(t *testing.T) {

				ecd, err := fimd.NewEncoder(params)
				require.NoError(t, err)

				sampler := newSampler(t, p)

				for i := 0; i < 8; i++ {
					values := sampler.ReadNew(k)
					pt, err := ecd.Encode(values)
					require.NoError(t, err)
					have, err := ecd.Decode(pt)
					require.NoError(t, err)
					require.Equal(t, []uint64(values), have)
				}
			})
		}
	}
}
