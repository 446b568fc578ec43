package fimd

import (
	"fmt"
	"runtime"

	"github.com/phuocchubeo123/fimd/ring"
	"github.com/phuocchubeo123/fimd/utils/concurrency"
)

// Encoder packs vectors of K scalars of F_p into one slot value, and back.
// A packing of v is the unique polynomial P of degree < K with P(x_i) = v[i]
// at the evaluation points x_i.
//
// The Lagrange basis is built once at creation. An Encoder is read-only
// afterwards and can be shared between goroutines.
type Encoder struct {
	params Parameters
	basis  *ring.LagrangeBasis
}

// NewEncoder instantiates a new [Encoder].
func NewEncoder(params Parameters) (*Encoder, error) {
	basis, err := ring.NewLagrangeBasis(params.points, params.p)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	return &Encoder{params: params, basis: basis}, nil
}

// Parameters returns the parameters of the encoder.
func (ecd *Encoder) Parameters() Parameters {
	return ecd.params
}

// Basis returns the Lagrange basis of the encoder.
func (ecd *Encoder) Basis() *ring.LagrangeBasis {
	return ecd.basis
}

// Encode returns the packing of values, a polynomial with K coefficients.
// Returns an error wrapping [ErrInvalidInput] if len(values) != K or if a value is not in [0, P).
func (ecd *Encoder) Encode(values []uint64) (ring.Poly, error) {

	if len(values) != ecd.params.k {
		return nil, fmt.Errorf("cannot Encode: %w: len(values)=%d != K=%d", ErrInvalidInput, len(values), ecd.params.k)
	}

	for i, v := range values {
		if v >= ecd.params.p {
			return nil, fmt.Errorf("cannot Encode: %w: values[%d]=%d >= P=%d", ErrInvalidInput, i, v, ecd.params.p)
		}
	}

	return ecd.basis.Interpolate(values)
}

// Decode evaluates element at the evaluation points.
// The zero polynomial decodes to the zero vector. Returns an error wrapping
// [ErrConfiguration] if element has more terms than the host slot.
func (ecd *Encoder) Decode(element ring.Poly) ([]uint64, error) {

	if element.IsZero() {
		return make([]uint64, ecd.params.k), nil
	}

	if n := element.Degree() + 1; n > ecd.params.slotDegree {
		return nil, fmt.Errorf("cannot Decode: %w: element has %d terms but a slot holds %d", ErrConfiguration, n, ecd.params.slotDegree)
	}

	for i, c := range element {
		if c >= ecd.params.p {
			return nil, fmt.Errorf("cannot Decode: %w: coefficient %d=%d >= P=%d", ErrInvalidInput, i, c, ecd.params.p)
		}
	}

	return ecd.basis.Evaluate(element), nil
}

// EncodeAt encodes values and writes the packing in the slot index of dst.
func (ecd *Encoder) EncodeAt(values []uint64, index int, dst SlotSetter) (err error) {
	var pt ring.Poly
	if pt, err = ecd.Encode(values); err != nil {
		return
	}
	if err = dst.SetSlot(index, pt); err != nil {
		return fmt.Errorf("cannot EncodeAt: %w", err)
	}
	return
}

// DecodeAt decodes the slot index of src.
func (ecd *Encoder) DecodeAt(src SlotGetter, index int) (values []uint64, err error) {
	var pt ring.Poly
	if pt, err = src.GetSlot(index); err != nil {
		return nil, fmt.Errorf("cannot DecodeAt: %w", err)
	}
	return ecd.Decode(pt)
}

// EncodeMany encodes each vector of values independently and concurrently.
func (ecd *Encoder) EncodeMany(values [][]uint64) (pts []ring.Poly, err error) {
	pts = make([]ring.Poly, len(values))
	if err = ecd.forEach(len(values), func(i int) (err error) {
		pts[i], err = ecd.Encode(values[i])
		return
	}); err != nil {
		return nil, err
	}
	return
}

// DecodeMany decodes each element independently and concurrently.
func (ecd *Encoder) DecodeMany(elements []ring.Poly) (values [][]uint64, err error) {
	values = make([][]uint64, len(elements))
	if err = ecd.forEach(len(elements), func(i int) (err error) {
		values[i], err = ecd.Decode(elements[i])
		return
	}); err != nil {
		return nil, err
	}
	return
}

func (ecd *Encoder) forEach(n int, task func(i int) (err error)) error {
	if n == 0 {
		return nil
	}
	workers := make([]struct{}, min(n, runtime.NumCPU()))
	return concurrency.ForEach(workers, n, func(_ struct{}, i int) error {
		return task(i)
	})
}

// ProjectionImages returns the images of the power basis 1, X, ..., X^{m-1} of the
// slot field F under the F_p-linear map x -> Encode(Decode(x)). This map sends the
// product of two packings to the packing of the component-wise product.
// F must be defined over P and have degree SlotDegree.
func (ecd *Encoder) ProjectionImages(F *ring.ExtensionField) (images []ring.Poly, err error) {

	if F.P() != ecd.params.p || F.Degree() != ecd.params.slotDegree {
		return nil, fmt.Errorf("cannot ProjectionImages: %w: field F_%d^%d does not match P=%d, SlotDegree=%d",
			ErrConfiguration, F.P(), F.Degree(), ecd.params.p, ecd.params.slotDegree)
	}

	m := F.Degree()
	p := ecd.params.p
	points := ecd.params.points

	images = make([]ring.Poly, m)

	// x_i^j
	powers := make([]uint64, len(points))
	for i := range powers {
		powers[i] = 1
	}

	for j := 0; j < m; j++ {

		var pt ring.Poly
		if pt, err = ecd.Encode(powers); err != nil {
			return nil, err
		}

		images[j] = F.NewElement()
		copy(images[j], pt)

		for i := range powers {
			powers[i] = ring.MulMod(powers[i], points[i], p)
		}
	}

	return
}
