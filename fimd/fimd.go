// Package fimd implements FIMD packing: several small F_p scalars are
// embedded, by Lagrange interpolation, into one slot of a batched ring element
// whose slots are extension fields F_{p^m}. Products of packed values are
// brought back to a valid packing by evaluating q-linearized polynomials
// sum_t c_t * x^{p^t} over the slot.
//
// All the arithmetic is expressed over the generic [Evaluator] interface, so
// the same code runs on plaintext slot values and on ciphertexts.
package fimd

import (
	"errors"

	"github.com/phuocchubeo123/fimd/ring"
)

var (
	// ErrInvalidInput is returned when an operand does not match the configured instance.
	ErrInvalidInput = errors.New("invalid input")
	// ErrConfiguration is returned when the instance or one of its tables is misconfigured.
	ErrConfiguration = errors.New("invalid configuration")
	// ErrMalformedTable is returned when a coefficient table cannot be parsed.
	ErrMalformedTable = errors.New("malformed coefficient table")
)

// Level names the purpose of a linearization map, i.e. the multiplication
// site after which it is applied.
type Level string

const (
	LevelAfterValueMul    = Level("after-value-multiply")
	LevelAfterConstantMul = Level("after-constant-multiply")
	LevelFinalProjection  = Level("final-projection")
)

// Evaluator is the set of operations over slot values of type T (plaintext
// ring elements or ciphertexts) and public constants of type C needed to
// evaluate linearized maps and packed circuits.
type Evaluator[T, C any] interface {
	AddNew(op0, op1 T) (opOut T, err error)
	NegNew(op0 T) (opOut T, err error)
	MulNew(op0, op1 T) (opOut T, err error)
	MulConstantNew(op0 T, c C) (opOut T, err error)
	AddConstantNew(op0 T, c C) (opOut T, err error)

	// FrobeniusNew returns op0^{p^k}, applied to every slot.
	FrobeniusNew(op0 T, k int) (opOut T, err error)

	// EncodeConstant returns the constant whose i-th slot is values[i].
	// A single value is broadcast to every slot.
	EncodeConstant(values []ring.Poly) (c C, err error)
}

// SlotSetter is implemented by containers of slot values that can be assigned per slot.
type SlotSetter interface {
	SetSlot(index int, value ring.Poly) (err error)
}

// SlotGetter is implemented by containers of slot values that can be read per slot.
type SlotGetter interface {
	GetSlot(index int) (value ring.Poly, err error)
}
