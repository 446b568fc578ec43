package slots

import (
	"fmt"

	"github.com/phuocchubeo123/fimd/fimd"
	"github.com/phuocchubeo123/fimd/ring"
)

// Evaluator implements [fimd.Evaluator] over [Vector], operating slot-wise
// in the extension field F. Constants are themselves of type [Vector].
// Evaluator is stateless and can be used concurrently.
type Evaluator struct {
	field *ring.ExtensionField
	slots int
}

// NewEvaluator instantiates a new [Evaluator] for vectors of the given number of slots over F.
func NewEvaluator(F *ring.ExtensionField, slots int) (*Evaluator, error) {
	if slots < 1 {
		return nil, fmt.Errorf("cannot NewEvaluator: %w: invalid number of slots %d", fimd.ErrConfiguration, slots)
	}
	return &Evaluator{field: F, slots: slots}, nil
}

// Field returns the slot field.
func (eval *Evaluator) Field() *ring.ExtensionField {
	return eval.field
}

// Slots returns the number of slots.
func (eval *Evaluator) Slots() int {
	return eval.slots
}

// NewVector returns a new zero vector.
func (eval *Evaluator) NewVector() *Vector {
	return NewVector(eval.slots, eval.field.Degree())
}

func (eval *Evaluator) check(ops ...*Vector) (err error) {
	for i, op := range ops {
		if op == nil {
			return fmt.Errorf("%w: operand %d is nil", fimd.ErrInvalidInput, i)
		}
		if op.Slots() != eval.slots {
			return fmt.Errorf("%w: operand %d has %d slots but evaluator has %d", fimd.ErrInvalidInput, i, op.Slots(), eval.slots)
		}
	}
	return
}

func (eval *Evaluator) binary(op0, op1 *Vector, f func(a, b ring.Poly) ring.Poly) (opOut *Vector, err error) {
	if err = eval.check(op0, op1); err != nil {
		return
	}
	opOut = &Vector{Value: make([]ring.Poly, eval.slots)}
	for i := range opOut.Value {
		opOut.Value[i] = f(eval.field.Reduce(op0.Value[i]), eval.field.Reduce(op1.Value[i]))
	}
	return
}

func (eval *Evaluator) unary(op0 *Vector, f func(a ring.Poly) ring.Poly) (opOut *Vector, err error) {
	if err = eval.check(op0); err != nil {
		return
	}
	opOut = &Vector{Value: make([]ring.Poly, eval.slots)}
	for i := range opOut.Value {
		opOut.Value[i] = f(eval.field.Reduce(op0.Value[i]))
	}
	return
}

// AddNew returns op0 + op1.
func (eval *Evaluator) AddNew(op0, op1 *Vector) (*Vector, error) {
	return eval.binary(op0, op1, eval.field.Add)
}

// SubNew returns op0 - op1.
func (eval *Evaluator) SubNew(op0, op1 *Vector) (*Vector, error) {
	return eval.binary(op0, op1, eval.field.Sub)
}

// NegNew returns -op0.
func (eval *Evaluator) NegNew(op0 *Vector) (*Vector, error) {
	return eval.unary(op0, eval.field.Neg)
}

// MulNew returns op0 * op1.
func (eval *Evaluator) MulNew(op0, op1 *Vector) (*Vector, error) {
	return eval.binary(op0, op1, eval.field.Mul)
}

// MulConstantNew returns op0 * c.
func (eval *Evaluator) MulConstantNew(op0 *Vector, c *Vector) (*Vector, error) {
	return eval.binary(op0, c, eval.field.Mul)
}

// AddConstantNew returns op0 + c.
func (eval *Evaluator) AddConstantNew(op0 *Vector, c *Vector) (*Vector, error) {
	return eval.binary(op0, c, eval.field.Add)
}

// MulScalarNew returns c * op0 for c in F_p.
func (eval *Evaluator) MulScalarNew(op0 *Vector, c uint64) (*Vector, error) {
	return eval.unary(op0, func(a ring.Poly) ring.Poly {
		return eval.field.MulScalar(a, c)
	})
}

// FrobeniusNew returns op0^{p^k}.
func (eval *Evaluator) FrobeniusNew(op0 *Vector, k int) (*Vector, error) {
	return eval.unary(op0, func(a ring.Poly) ring.Poly {
		return eval.field.Frobenius(a, k)
	})
}

// EncodeConstant returns the vector whose slot i is values[i] reduced in the slot field.
// A single value is broadcast to every slot.
func (eval *Evaluator) EncodeConstant(values []ring.Poly) (c *Vector, err error) {

	switch len(values) {
	case 1, eval.slots:
	default:
		return nil, fmt.Errorf("cannot EncodeConstant: %w: %d values for %d slots", fimd.ErrInvalidInput, len(values), eval.slots)
	}

	p := eval.field.P()

	c = &Vector{Value: make([]ring.Poly, eval.slots)}
	for i := range c.Value {

		v := values[0]
		if len(values) > 1 {
			v = values[i]
		}

		for j, x := range v {
			if x >= p {
				return nil, fmt.Errorf("cannot EncodeConstant: %w: slot %d coefficient %d=%d >= P=%d", fimd.ErrInvalidInput, i, j, x, p)
			}
		}

		c.Value[i] = eval.field.Reduce(v)
	}

	return
}

var _ fimd.Evaluator[*Vector, *Vector] = (*Evaluator)(nil)
