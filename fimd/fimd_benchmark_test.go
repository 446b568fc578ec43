package fimd_test

import (
	"testing"

	"github.com/phuocchubeo123/fimd/fimd"
	"github.com/phuocchubeo123/fimd/fimd/slots"
	"github.com/phuocchubeo123/fimd/ring"
)

func BenchmarkFIMD(b *testing.B) {

	for _, tp := range testInstances() {

		tc := newTestContext(b, tp)

		benchEncoder(tc, b)
		benchLinearizer(tc, b)
		benchBitCompare(tc, b)
	}
}

func benchEncoder(tc *testContext, b *testing.B) {

	values := tc.randomValues()

	pt, err := tc.encoder.Encode(values)
	if err != nil {
		b.Fatal(err)
	}

	b.Run(GetTestName("Encoder/Encode", tc.params), func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			if _, err := tc.encoder.Encode(values); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run(GetTestName("Encoder/Decode", tc.params), func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			if _, err := tc.encoder.Decode(pt); err != nil {
				b.Fatal(err)
			}
		}
	})
}

func benchLinearizer(tc *testContext, b *testing.B) {

	x := tc.randomVector()
	y := tc.randomVector()

	b.Run(GetTestName("Linearizer/Linearize", tc.params), func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			if _, err := tc.lin.Linearize(x, fimd.LevelFinalProjection); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run(GetTestName("Linearizer/MulByValue", tc.params), func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			if _, err := tc.lin.MulByValue(x, y, fimd.LevelAfterValueMul); err != nil {
				b.Fatal(err)
			}
		}
	})

	coeffs := make([]*slots.Vector, tc.params.SlotDegree())
	for i := range coeffs {
		coeffs[i] = tc.randomVector()
	}

	b.Run(GetTestName("Linearizer/Naive", tc.params), func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			if _, err := fimd.EvaluateLinearizedNaive(tc.eval, coeffs, x); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run(GetTestName("Linearizer/BSGS", tc.params), func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			if _, err := fimd.EvaluateLinearized(tc.eval, coeffs, x); err != nil {
				b.Fatal(err)
			}
		}
	})
}

func benchBitCompare(tc *testContext, b *testing.B) {

	d := min(int(tc.params.P())-1, 18)

	var coeffs ring.Poly
	var err error
	if coeffs, err = fimd.GenerateBitComparePolynomial(d, tc.params.P()); err != nil {
		b.Fatal(err)
	}

	x := tc.randomVector()

	b.Run(GetTestName("BitCompare/Evaluate", tc.params), func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			if _, err := fimd.EvaluateBitCompare(tc.lin, x, coeffs, fimd.LevelAfterValueMul); err != nil {
				b.Fatal(err)
			}
		}
	})
}
