package fimd

import (
	"sync/atomic"

	"github.com/phuocchubeo123/fimd/ring"
)

// OperationCounts is a snapshot of the number of operations performed through an [OperationCounter].
type OperationCounts struct {
	Add            int64
	Neg            int64
	Mul            int64
	MulConstant    int64
	AddConstant    int64
	Frobenius      int64
	EncodeConstant int64
}

// OperationCounter wraps an [Evaluator] and counts the operations forwarded to it.
// Frobenius calls with k = 0 are forwarded but not counted, as they apply no automorphism.
// It is safe for concurrent use if the wrapped evaluator is.
type OperationCounter[T, C any] struct {
	Evaluator[T, C]
	add, neg, mul, mulConstant, addConstant, frobenius, encodeConstant atomic.Int64
}

// NewOperationCounter wraps eval into a new [OperationCounter].
func NewOperationCounter[T, C any](eval Evaluator[T, C]) *OperationCounter[T, C] {
	return &OperationCounter[T, C]{Evaluator: eval}
}

func (oc *OperationCounter[T, C]) AddNew(op0, op1 T) (T, error) {
	oc.add.Add(1)
	return oc.Evaluator.AddNew(op0, op1)
}

func (oc *OperationCounter[T, C]) NegNew(op0 T) (T, error) {
	oc.neg.Add(1)
	return oc.Evaluator.NegNew(op0)
}

func (oc *OperationCounter[T, C]) MulNew(op0, op1 T) (T, error) {
	oc.mul.Add(1)
	return oc.Evaluator.MulNew(op0, op1)
}

func (oc *OperationCounter[T, C]) MulConstantNew(op0 T, c C) (T, error) {
	oc.mulConstant.Add(1)
	return oc.Evaluator.MulConstantNew(op0, c)
}

func (oc *OperationCounter[T, C]) AddConstantNew(op0 T, c C) (T, error) {
	oc.addConstant.Add(1)
	return oc.Evaluator.AddConstantNew(op0, c)
}

func (oc *OperationCounter[T, C]) FrobeniusNew(op0 T, k int) (T, error) {
	if k != 0 {
		oc.frobenius.Add(1)
	}
	return oc.Evaluator.FrobeniusNew(op0, k)
}

func (oc *OperationCounter[T, C]) EncodeConstant(values []ring.Poly) (C, error) {
	oc.encodeConstant.Add(1)
	return oc.Evaluator.EncodeConstant(values)
}

// Counts returns the current counts.
func (oc *OperationCounter[T, C]) Counts() OperationCounts {
	return OperationCounts{
		Add:            oc.add.Load(),
		Neg:            oc.neg.Load(),
		Mul:            oc.mul.Load(),
		MulConstant:    oc.mulConstant.Load(),
		AddConstant:    oc.addConstant.Load(),
		Frobenius:      oc.frobenius.Load(),
		EncodeConstant: oc.encodeConstant.Load(),
	}
}

// Reset sets all the counts to zero.
func (oc *OperationCounter[T, C]) Reset() {
	oc.add.Store(0)
	oc.neg.Store(0)
	oc.mul.Store(0)
	oc.mulConstant.Store(0)
	oc.addConstant.Store(0)
	oc.frobenius.Store(0)
	oc.encodeConstant.Store(0)
}
