package slots_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/phuocchubeo123/fimd/fimd"
	"github.com/phuocchubeo123/fimd/fimd/slots"
	"github.com/phuocchubeo123/fimd/ring"
	"github.com/phuocchubeo123/fimd/utils/sampling"
	"github.com/stretchr/testify/require"
)

func testString(opname string, sd *ring.SlotDecomposition) string {
	return fmt.Sprintf("%s/N=%d/p=%d/S=%d/d=%d", opname, sd.Ring().N(), sd.Ring().Modulus(), sd.Slots(), sd.SlotDegree())
}

type testContext struct {
	sd      *ring.SlotDecomposition
	params  fimd.Parameters
	encoder *fimd.Encoder
	maps    fimd.LinearizedMaps
	vec     *slots.Evaluator
	coeff   *slots.CoefficientEvaluator
	sampler *ring.UniformSampler
}

func newTestContext(t *testing.T, N int, p uint64, K int) (tc *testContext) {

	tc = new(testContext)

	r, err := ring.NewCyclotomicRing(N, p)
	require.NoError(t, err)

	tc.sd, err = ring.NewSlotDecomposition(r)
	require.NoError(t, err)

	F := tc.sd.Field()

	levels := map[fimd.Level]int{
		fimd.LevelAfterValueMul:    F.Degree(),
		fimd.LevelAfterConstantMul: F.Degree(),
		fimd.LevelFinalProjection:  F.Degree(),
	}

	tc.params, err = fimd.NewParametersFromLiteral(fimd.ParametersLiteral{
		P:             p,
		K:             K,
		SlotDegree:    F.Degree(),
		OutputDegrees: levels,
	})
	require.NoError(t, err)

	tc.encoder, err = fimd.NewEncoder(tc.params)
	require.NoError(t, err)

	images, err := tc.encoder.ProjectionImages(F)
	require.NoError(t, err)

	tc.maps = fimd.LinearizedMaps{}
	for level := range levels {
		tc.maps[level], err = fimd.GenerateLinearizedMap(F, level, images)
		require.NoError(t, err)
	}

	tc.vec, err = slots.NewEvaluator(F, tc.sd.Slots())
	require.NoError(t, err)

	tc.coeff = slots.NewCoefficientEvaluator(tc.sd)

	prng, err := sampling.NewKeyedPRNG([]byte{'s', 'l', 'o', 't', 's'})
	require.NoError(t, err)
	tc.sampler = ring.NewUniformSampler(prng, p)

	return
}

func (tc *testContext) randomValues(bound uint64) (values [][]uint64) {
	values = make([][]uint64, tc.sd.Slots())
	for i := range values {
		values[i] = tc.sampler.ReadNew(tc.params.K())
		for j := range values[i] {
			values[i][j] %= bound
		}
	}
	return
}

func (tc *testContext) packPlaintext(t *testing.T, values [][]uint64) *slots.Plaintext {
	pt := slots.NewPlaintext(tc.sd)
	for i := range values {
		require.NoError(t, tc.encoder.EncodeAt(values[i], i, pt))
	}
	return pt
}

func (tc *testContext) unpackPlaintext(t *testing.T, value ring.Poly) (values [][]uint64) {
	pt := slots.NewPlaintext(tc.sd)
	pt.Value = value
	values = make([][]uint64, tc.sd.Slots())
	for i := range values {
		var err error
		values[i], err = tc.encoder.DecodeAt(pt, i)
		require.NoError(t, err)
	}
	return
}

func TestVector(t *testing.T) {

	v := slots.NewVector(3, 4)
	require.Equal(t, 3, v.Slots())

	require.NoError(t, v.SetSlot(1, ring.Poly{1, 2, 3, 4}))
	require.NoError(t, v.SetSlot(1, ring.Poly{5, 6, 0, 0, 0, 0}))

	s, err := v.GetSlot(1)
	require.NoError(t, err)
	require.Equal(t, ring.Poly{5, 6, 0, 0}, s)

	s[0] = 7
	s, err = v.GetSlot(1)
	require.NoError(t, err)
	require.Equal(t, uint64(5), s[0])

	w := v.Clone()
	require.True(t, v.Equal(w))
	w.Value[2][3] = 1
	require.False(t, v.Equal(w))

	require.True(t, errors.Is(v.SetSlot(3, ring.Poly{1}), fimd.ErrInvalidInput))
	require.True(t, errors.Is(v.SetSlot(-1, ring.Poly{1}), fimd.ErrInvalidInput))
	require.True(t, errors.Is(v.SetSlot(0, ring.Poly{1, 2, 3, 4, 5}), fimd.ErrInvalidInput))

	_, err = v.GetSlot(3)
	require.True(t, errors.Is(err, fimd.ErrInvalidInput))
}

func TestEvaluator(t *testing.T) {

	F, err := ring.NewExtensionField(5, ring.Poly{1, 1, 0, 1})
	require.NoError(t, err)

	_, err = slots.NewEvaluator(F, 0)
	require.True(t, errors.Is(err, fimd.ErrConfiguration))

	eval, err := slots.NewEvaluator(F, 2)
	require.NoError(t, err)

	a := eval.NewVector()
	b := eval.NewVector()
	require.NoError(t, a.SetSlot(0, ring.Poly{1, 2}))
	require.NoError(t, a.SetSlot(1, ring.Poly{0, 0, 1}))
	require.NoError(t, b.SetSlot(0, ring.Poly{4, 4, 4}))
	require.NoError(t, b.SetSlot(1, ring.Poly{0, 1}))

	t.Run("Arithmetic", func(t *testing.T) {

		sum, err := eval.AddNew(a, b)
		require.NoError(t, err)
		diff, err := eval.SubNew(sum, b)
		require.NoError(t, err)
		require.True(t, diff.Equal(a))

		neg, err := eval.NegNew(a)
		require.NoError(t, err)
		zero, err := eval.AddNew(a, neg)
		require.NoError(t, err)
		require.True(t, zero.Equal(eval.NewVector()))

		prod, err := eval.MulNew(a, b)
		require.NoError(t, err)
		for i := range prod.Value {
			require.Equal(t, F.Mul(a.Value[i], b.Value[i]), prod.Value[i])
		}

		// X^2 * X = X^3 = -X - 1
		require.Equal(t, ring.Poly{4, 4, 0}, prod.Value[1])

		scaled, err := eval.MulScalarNew(a, 3)
		require.NoError(t, err)
		require.Equal(t, ring.Poly{3, 1, 0}, scaled.Value[0])

		frob, err := eval.FrobeniusNew(a, 1)
		require.NoError(t, err)
		for i := range frob.Value {
			require.Equal(t, F.Exp(a.Value[i], 5), frob.Value[i])
		}
	})

	t.Run("EncodeConstant", func(t *testing.T) {

		c, err := eval.EncodeConstant([]ring.Poly{{3}})
		require.NoError(t, err)
		require.Equal(t, []ring.Poly{{3, 0, 0}, {3, 0, 0}}, c.Value)

		c, err = eval.EncodeConstant([]ring.Poly{{1}, {0, 0, 0, 1}})
		require.NoError(t, err)
		require.Equal(t, []ring.Poly{{1, 0, 0}, {4, 4, 0}}, c.Value)

		_, err = eval.EncodeConstant([]ring.Poly{{1}, {2}, {3}})
		require.True(t, errors.Is(err, fimd.ErrInvalidInput))

		_, err = eval.EncodeConstant([]ring.Poly{{5}})
		require.True(t, errors.Is(err, fimd.ErrInvalidInput))
	})

	t.Run("Errors", func(t *testing.T) {
		_, err := eval.AddNew(a, slots.NewVector(3, 3))
		require.True(t, errors.Is(err, fimd.ErrInvalidInput))
		_, err = eval.MulNew(nil, a)
		require.True(t, errors.Is(err, fimd.ErrInvalidInput))
	})
}

func TestCoefficientEvaluator(t *testing.T) {

	tc := newTestContext(t, 64, 17, 4)
	sd := tc.sd
	F := sd.Field()
	r := sd.Ring()

	a := tc.sampler.ReadNew(r.N())
	b := tc.sampler.ReadNew(r.N())

	sa, err := sd.Split(a)
	require.NoError(t, err)
	sb, err := sd.Split(b)
	require.NoError(t, err)

	t.Run(testString("Mul", sd), func(t *testing.T) {
		c, err := tc.coeff.MulNew(a, b)
		require.NoError(t, err)
		sc, err := sd.Split(c)
		require.NoError(t, err)
		for i := range sc {
			require.True(t, F.Equal(F.Mul(sa[i], sb[i]), sc[i]))
		}
	})

	t.Run(testString("Frobenius", sd), func(t *testing.T) {
		for _, k := range []int{1, 3, -1} {
			c, err := tc.coeff.FrobeniusNew(a, k)
			require.NoError(t, err)
			sc, err := sd.Split(c)
			require.NoError(t, err)
			for i := range sc {
				require.True(t, F.Equal(F.Frobenius(sa[i], k), sc[i]))
			}
		}
	})

	t.Run(testString("EncodeConstant", sd), func(t *testing.T) {

		values := make([]ring.Poly, sd.Slots())
		for i := range values {
			values[i] = tc.sampler.ReadNew(sd.SlotDegree())
		}

		c, err := tc.coeff.EncodeConstant(values)
		require.NoError(t, err)
		sc, err := sd.Split(c)
		require.NoError(t, err)
		for i := range sc {
			require.True(t, F.Equal(values[i], sc[i]))
		}

		c, err = tc.coeff.EncodeConstant([]ring.Poly{{7}})
		require.NoError(t, err)
		sc, err = sd.Split(c)
		require.NoError(t, err)
		for i := range sc {
			require.True(t, F.Equal(F.Scalar(7), sc[i]))
		}

		_, err = tc.coeff.EncodeConstant(values[:2])
		require.True(t, errors.Is(err, fimd.ErrInvalidInput))
	})

	t.Run(testString("Plaintext", sd), func(t *testing.T) {

		pt := slots.NewPlaintext(sd)

		value := tc.sampler.ReadNew(sd.SlotDegree())
		require.NoError(t, pt.SetSlot(3, value))

		have, err := pt.GetSlot(3)
		require.NoError(t, err)
		require.True(t, F.Equal(value, have))

		have, err = pt.GetSlot(2)
		require.NoError(t, err)
		require.True(t, F.IsZero(have))

		require.True(t, errors.Is(pt.SetSlot(sd.Slots(), value), fimd.ErrInvalidInput))
		_, err = pt.GetSlot(-1)
		require.True(t, errors.Is(err, fimd.ErrInvalidInput))
	})

	t.Run(testString("Errors", sd), func(t *testing.T) {
		_, err := tc.coeff.AddNew(a, b[:r.N()-1])
		require.True(t, errors.Is(err, fimd.ErrInvalidInput))

		bad := a.Clone()
		bad[0] = r.Modulus()
		_, err = tc.coeff.MulNew(bad, b)
		require.True(t, errors.Is(err, fimd.ErrInvalidInput))
	})
}

func TestBackendAgreement(t *testing.T) {

	tc := newTestContext(t, 64, 17, 4)
	sd := tc.sd

	linCoeff, err := fimd.NewLinearizer[ring.Poly, ring.Poly](tc.params, tc.sd.Field(), tc.coeff, tc.maps)
	require.NoError(t, err)

	linVec, err := fimd.NewLinearizer[*slots.Vector, *slots.Vector](tc.params, tc.sd.Field(), tc.vec, tc.maps)
	require.NoError(t, err)

	a := tc.sampler.ReadNew(sd.Ring().N())

	sa, err := sd.Split(a)
	require.NoError(t, err)

	for _, level := range tc.params.Levels() {

		t.Run(testString(fmt.Sprintf("Linearize/%s", level), sd), func(t *testing.T) {

			resCoeff, err := linCoeff.Linearize(a, level)
			require.NoError(t, err)

			resVec, err := linVec.Linearize(&slots.Vector{Value: sa}, level)
			require.NoError(t, err)

			split, err := sd.Split(resCoeff)
			require.NoError(t, err)

			require.True(t, resVec.Equal(&slots.Vector{Value: split}))
		})
	}
}

func TestRMFEOverCoefficients(t *testing.T) {

	tc := newTestContext(t, 64, 17, 4)
	sd := tc.sd

	lin, err := fimd.NewLinearizer[ring.Poly, ring.Poly](tc.params, tc.sd.Field(), tc.coeff, tc.maps)
	require.NoError(t, err)

	p := tc.params.P()

	t.Run(testString("MulByValue", sd), func(t *testing.T) {

		x := tc.randomValues(p)
		y := tc.randomValues(p)

		res, err := lin.MulByValue(tc.packPlaintext(t, x).Value, tc.packPlaintext(t, y).Value, fimd.LevelAfterValueMul)
		require.NoError(t, err)

		for i, have := range tc.unpackPlaintext(t, res) {
			for j := range have {
				require.Equal(t, ring.MulMod(x[i][j], y[i][j], p), have[j])
			}
		}
	})

	t.Run(testString("BitMatch", sd), func(t *testing.T) {

		const bits = 3

		receiver := tc.randomValues(1 << bits)
		sender := tc.randomValues(1 << bits)
		for i := range sender {
			sender[i][i%len(sender[i])] = receiver[i][i%len(sender[i])]
		}

		x := make([]ring.Poly, bits)
		y := make([][]ring.Poly, bits)

		for b := 0; b < bits; b++ {

			rb := make([][]uint64, len(receiver))
			y[b] = make([]ring.Poly, len(sender))

			for i := range receiver {

				rb[i] = make([]uint64, len(receiver[i]))
				sb := make([]uint64, len(sender[i]))

				for j := range rb[i] {
					rb[i][j] = (receiver[i][j] >> b) & 1
					sb[j] = (sender[i][j] >> b) & 1
				}

				y[b][i], err = tc.encoder.Encode(sb)
				require.NoError(t, err)
			}

			x[b] = tc.packPlaintext(t, rb).Value
		}

		res, err := fimd.EvaluateBitMatch(lin, x, y, fimd.LevelFinalProjection)
		require.NoError(t, err)

		for i, have := range tc.unpackPlaintext(t, res) {
			for j := range have {
				want := uint64(0)
				if receiver[i][j] == sender[i][j] {
					want = 1
				}
				require.Equal(t, want, have[j], "slot=%d position=%d", i, j)
			}
		}
	})
}
