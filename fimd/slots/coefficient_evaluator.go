package slots

import (
	"fmt"

	"github.com/phuocchubeo123/fimd/fimd"
	"github.com/phuocchubeo123/fimd/ring"
)

// CoefficientEvaluator implements [fimd.Evaluator] directly over elements of the
// negacyclic ring Z_p[X]/(X^N+1). The Frobenius map is the ring automorphism
// X -> X^{p^k}, which acts as x -> x^{p^k} on every CRT slot.
type CoefficientEvaluator struct {
	sd *ring.SlotDecomposition
}

// NewCoefficientEvaluator instantiates a new [CoefficientEvaluator].
func NewCoefficientEvaluator(sd *ring.SlotDecomposition) *CoefficientEvaluator {
	return &CoefficientEvaluator{sd: sd}
}

// SlotDecomposition returns the CRT decomposition used to encode constants.
func (eval *CoefficientEvaluator) SlotDecomposition() *ring.SlotDecomposition {
	return eval.sd
}

func (eval *CoefficientEvaluator) check(ops ...ring.Poly) (err error) {
	N := eval.sd.Ring().N()
	p := eval.sd.Ring().Modulus()
	for i, op := range ops {
		if len(op) != N {
			return fmt.Errorf("%w: operand %d has %d coefficients but N=%d", fimd.ErrInvalidInput, i, len(op), N)
		}
		for j, c := range op {
			if c >= p {
				return fmt.Errorf("%w: operand %d coefficient %d=%d >= P=%d", fimd.ErrInvalidInput, i, j, c, p)
			}
		}
	}
	return
}

// AddNew returns op0 + op1.
func (eval *CoefficientEvaluator) AddNew(op0, op1 ring.Poly) (ring.Poly, error) {
	if err := eval.check(op0, op1); err != nil {
		return nil, fmt.Errorf("cannot AddNew: %w", err)
	}
	return eval.sd.Ring().Add(op0, op1), nil
}

// NegNew returns -op0.
func (eval *CoefficientEvaluator) NegNew(op0 ring.Poly) (ring.Poly, error) {
	if err := eval.check(op0); err != nil {
		return nil, fmt.Errorf("cannot NegNew: %w", err)
	}
	return eval.sd.Ring().Neg(op0), nil
}

// MulNew returns op0 * op1.
func (eval *CoefficientEvaluator) MulNew(op0, op1 ring.Poly) (ring.Poly, error) {
	if err := eval.check(op0, op1); err != nil {
		return nil, fmt.Errorf("cannot MulNew: %w", err)
	}
	return eval.sd.Ring().Mul(op0, op1), nil
}

// MulConstantNew returns op0 * c.
func (eval *CoefficientEvaluator) MulConstantNew(op0, c ring.Poly) (ring.Poly, error) {
	if err := eval.check(op0, c); err != nil {
		return nil, fmt.Errorf("cannot MulConstantNew: %w", err)
	}
	return eval.sd.Ring().Mul(op0, c), nil
}

// AddConstantNew returns op0 + c.
func (eval *CoefficientEvaluator) AddConstantNew(op0, c ring.Poly) (ring.Poly, error) {
	if err := eval.check(op0, c); err != nil {
		return nil, fmt.Errorf("cannot AddConstantNew: %w", err)
	}
	return eval.sd.Ring().Add(op0, c), nil
}

// FrobeniusNew returns op0^{p^k}.
func (eval *CoefficientEvaluator) FrobeniusNew(op0 ring.Poly, k int) (ring.Poly, error) {
	if err := eval.check(op0); err != nil {
		return nil, fmt.Errorf("cannot FrobeniusNew: %w", err)
	}
	return eval.sd.Ring().Frobenius(op0, k), nil
}

// EncodeConstant returns the ring element whose i-th CRT slot is values[i].
// A single value is broadcast to every slot.
func (eval *CoefficientEvaluator) EncodeConstant(values []ring.Poly) (ring.Poly, error) {

	S := eval.sd.Slots()
	F := eval.sd.Field()

	switch len(values) {
	case 1, S:
	default:
		return nil, fmt.Errorf("cannot EncodeConstant: %w: %d values for %d slots", fimd.ErrInvalidInput, len(values), S)
	}

	slots := make([]ring.Poly, S)
	for i := range slots {
		v := values[0]
		if len(values) > 1 {
			v = values[i]
		}
		for j, x := range v {
			if x >= F.P() {
				return nil, fmt.Errorf("cannot EncodeConstant: %w: slot %d coefficient %d=%d >= P=%d", fimd.ErrInvalidInput, i, j, x, F.P())
			}
		}
		slots[i] = F.Reduce(v)
	}

	pt, err := eval.sd.Merge(slots)
	if err != nil {
		return nil, fmt.Errorf("cannot EncodeConstant: %w", err)
	}

	return pt, nil
}

var _ fimd.Evaluator[ring.Poly, ring.Poly] = (*CoefficientEvaluator)(nil)

// Plaintext is an element of Z_p[X]/(X^N+1) whose CRT slots can be read and
// written individually.
type Plaintext struct {
	sd    *ring.SlotDecomposition
	Value ring.Poly
}

// NewPlaintext returns a new zero [Plaintext].
func NewPlaintext(sd *ring.SlotDecomposition) *Plaintext {
	return &Plaintext{sd: sd, Value: sd.Ring().NewPoly()}
}

// SetSlot replaces the slot index of the plaintext by value.
func (pt *Plaintext) SetSlot(index int, value ring.Poly) (err error) {

	var slots []ring.Poly
	if slots, err = pt.sd.Split(pt.Value); err != nil {
		return fmt.Errorf("cannot SetSlot: %w", err)
	}

	if index < 0 || index >= len(slots) {
		return fmt.Errorf("cannot SetSlot: %w: index %d out of range [0, %d)", fimd.ErrInvalidInput, index, len(slots))
	}

	if len(value.Trim()) > pt.sd.SlotDegree() {
		return fmt.Errorf("cannot SetSlot: %w: value has degree %d but slot degree is %d", fimd.ErrInvalidInput, value.Degree(), pt.sd.SlotDegree())
	}

	slots[index] = ring.NewPoly(pt.sd.SlotDegree())
	copy(slots[index], value.Trim())

	if pt.Value, err = pt.sd.Merge(slots); err != nil {
		return fmt.Errorf("cannot SetSlot: %w", err)
	}

	return
}

// GetSlot returns the slot index of the plaintext.
func (pt *Plaintext) GetSlot(index int) (value ring.Poly, err error) {

	var slots []ring.Poly
	if slots, err = pt.sd.Split(pt.Value); err != nil {
		return nil, fmt.Errorf("cannot GetSlot: %w", err)
	}

	if index < 0 || index >= len(slots) {
		return nil, fmt.Errorf("cannot GetSlot: %w: index %d out of range [0, %d)", fimd.ErrInvalidInput, index, len(slots))
	}

	return slots[index], nil
}
