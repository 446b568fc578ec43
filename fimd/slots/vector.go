// Package slots implements plaintext evaluators for the [fimd.Evaluator] interface:
// a vector of slot field elements, and the negacyclic ring Z_p[X]/(X^N+1)
// seen through its CRT decomposition into slot fields.
package slots

import (
	"fmt"
	"slices"

	"github.com/phuocchubeo123/fimd/fimd"
	"github.com/phuocchubeo123/fimd/ring"
)

// Vector is a vector of slots, each an element of a common extension field.
type Vector struct {
	Value []ring.Poly
}

// NewVector allocates a zero [Vector] of the given number of slots of degree d.
func NewVector(slots, d int) *Vector {
	v := &Vector{Value: make([]ring.Poly, slots)}
	for i := range v.Value {
		v.Value[i] = ring.NewPoly(d)
	}
	return v
}

// Slots returns the number of slots.
func (v *Vector) Slots() int {
	return len(v.Value)
}

// SetSlot writes value in the slot index. Missing coefficients are set to zero.
func (v *Vector) SetSlot(index int, value ring.Poly) (err error) {

	if index < 0 || index >= len(v.Value) {
		return fmt.Errorf("cannot SetSlot: %w: index %d out of range [0, %d)", fimd.ErrInvalidInput, index, len(v.Value))
	}

	slot := v.Value[index]

	if len(value.Trim()) > len(slot) {
		return fmt.Errorf("cannot SetSlot: %w: value has degree %d but slot degree is %d", fimd.ErrInvalidInput, value.Degree(), len(slot))
	}

	clear(slot)
	copy(slot, value.Trim())

	return
}

// GetSlot returns a copy of the slot index.
func (v *Vector) GetSlot(index int) (value ring.Poly, err error) {
	if index < 0 || index >= len(v.Value) {
		return nil, fmt.Errorf("cannot GetSlot: %w: index %d out of range [0, %d)", fimd.ErrInvalidInput, index, len(v.Value))
	}
	return v.Value[index].Clone(), nil
}

// Clone returns a deep copy of the vector.
func (v *Vector) Clone() *Vector {
	w := &Vector{Value: make([]ring.Poly, len(v.Value))}
	for i := range v.Value {
		w.Value[i] = v.Value[i].Clone()
	}
	return w
}

// Equal returns true if both vectors hold the same slots.
func (v *Vector) Equal(other *Vector) bool {
	return slices.EqualFunc(v.Value, other.Value, ring.Poly.Equal)
}
