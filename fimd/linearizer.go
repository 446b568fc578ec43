package fimd

import (
	"fmt"

	"github.com/phuocchubeo123/fimd/ring"
)

// giantStep returns s = ceil(sqrt(n)).
func giantStep(n int) (s int) {
	s = 1
	for s*s < n {
		s++
	}
	return
}

// BSGSCoefficients returns the coefficients c_t of L(x) = sum_t c_t * x^{p^t}
// in the form expected by [EvaluateLinearized]: with s = ceil(sqrt(n)), the
// coefficient of index j*s+i is replaced by Frobenius^{-j*s}(c_{j*s+i}), so that
// the giant-step Frobenius applied to each group restores it.
func BSGSCoefficients(F *ring.ExtensionField, coeffs []ring.Poly) (shifted []ring.Poly) {
	s := giantStep(len(coeffs))
	shifted = make([]ring.Poly, len(coeffs))
	for t, c := range coeffs {
		shifted[t] = F.Frobenius(c, -(t/s)*s)
	}
	return
}

// EvaluateLinearized evaluates L(x) = sum_{t<n} c_t * x^{p^t} with the
// baby-step giant-step decomposition
//
//	L(x) = sum_j Frobenius^{j*s}( sum_{i<s} coeffs[j*s+i] * Frobenius^i(x) )
//
// for s = ceil(sqrt(n)), which costs at most 2(s-1) Frobenius applications
// instead of n-1. The giant-step Frobenius also acts on the coefficients, so
// coeffs[j*s+i] must encode Frobenius^{-j*s}(c_{j*s+i}), see [BSGSCoefficients].
func EvaluateLinearized[T, C any](eval Evaluator[T, C], coeffs []C, x T) (res T, err error) {

	n := len(coeffs)

	if n == 0 {
		return res, fmt.Errorf("cannot EvaluateLinearized: %w: empty map", ErrConfiguration)
	}

	s := giantStep(n)

	// Baby steps: F[i] = x^{p^i}
	F := make([]T, s)
	F[0] = x
	for i := 1; i < s; i++ {
		if F[i], err = eval.FrobeniusNew(F[i-1], 1); err != nil {
			return res, fmt.Errorf("cannot EvaluateLinearized: baby-step %d: %w", i, err)
		}
	}

	// Giant steps
	for j := 0; j*s < n; j++ {

		var acc T
		for i := 0; i < s && j*s+i < n; i++ {

			var tmp T
			if tmp, err = eval.MulConstantNew(F[i], coeffs[j*s+i]); err != nil {
				return res, fmt.Errorf("cannot EvaluateLinearized: term %d: %w", j*s+i, err)
			}

			if i == 0 {
				acc = tmp
			} else if acc, err = eval.AddNew(acc, tmp); err != nil {
				return res, fmt.Errorf("cannot EvaluateLinearized: term %d: %w", j*s+i, err)
			}
		}

		if j == 0 {
			res = acc
			continue
		}

		if acc, err = eval.FrobeniusNew(acc, j*s); err != nil {
			return res, fmt.Errorf("cannot EvaluateLinearized: giant-step %d: %w", j, err)
		}

		if res, err = eval.AddNew(res, acc); err != nil {
			return res, fmt.Errorf("cannot EvaluateLinearized: giant-step %d: %w", j, err)
		}
	}

	return
}

// EvaluateLinearizedNaive evaluates L(x) = sum_{t<n} coeffs[t] * x^{p^t} term by term.
func EvaluateLinearizedNaive[T, C any](eval Evaluator[T, C], coeffs []C, x T) (res T, err error) {

	if len(coeffs) == 0 {
		return res, fmt.Errorf("cannot EvaluateLinearizedNaive: %w: empty map", ErrConfiguration)
	}

	xt := x
	for t, c := range coeffs {

		if t > 0 {
			if xt, err = eval.FrobeniusNew(xt, 1); err != nil {
				return res, fmt.Errorf("cannot EvaluateLinearizedNaive: term %d: %w", t, err)
			}
		}

		var tmp T
		if tmp, err = eval.MulConstantNew(xt, c); err != nil {
			return res, fmt.Errorf("cannot EvaluateLinearizedNaive: term %d: %w", t, err)
		}

		if t == 0 {
			res = tmp
		} else if res, err = eval.AddNew(res, tmp); err != nil {
			return res, fmt.Errorf("cannot EvaluateLinearizedNaive: term %d: %w", t, err)
		}
	}

	return
}

// Linearizer holds, for each configured [Level], the coefficients of a
// linearization map already shifted by [BSGSCoefficients] and encoded as
// constants of the evaluator, and re-projects slot values after multiplications.
//
// A Linearizer is read-only after creation; it is safe for concurrent use
// if the underlying evaluator is.
type Linearizer[T, C any] struct {
	params    Parameters
	eval      Evaluator[T, C]
	maps      LinearizedMaps
	constants map[Level][]C
}

// NewLinearizer instantiates a new [Linearizer] whose maps act on the slot field F.
// F must be defined over P and have degree SlotDegree. Every level configured in
// params must have a map in maps with exactly params.OutputDegree(level) terms,
// each fitting in a slot; otherwise an error wrapping [ErrConfiguration] is returned.
func NewLinearizer[T, C any](params Parameters, F *ring.ExtensionField, eval Evaluator[T, C], maps LinearizedMaps) (lin *Linearizer[T, C], err error) {

	if F == nil || F.P() != params.p || F.Degree() != params.slotDegree {
		return nil, fmt.Errorf("cannot NewLinearizer: %w: slot field does not match P=%d, SlotDegree=%d", ErrConfiguration, params.p, params.slotDegree)
	}

	for level := range maps {
		if _, ok := params.OutputDegree(level); !ok {
			return nil, fmt.Errorf("cannot NewLinearizer: %w: map for unconfigured level %q", ErrConfiguration, level)
		}
	}

	lin = &Linearizer[T, C]{
		params:    params,
		eval:      eval,
		maps:      LinearizedMaps{},
		constants: map[Level][]C{},
	}

	for _, level := range params.Levels() {

		n, _ := params.OutputDegree(level)

		m, ok := maps[level]
		if !ok || m == nil {
			return nil, fmt.Errorf("cannot NewLinearizer: %w: missing map for level %q", ErrConfiguration, level)
		}

		if m.Len() != n {
			return nil, fmt.Errorf("cannot NewLinearizer: %w: map for level %q has %d terms but output degree is %d", ErrConfiguration, level, m.Len(), n)
		}

		for t, c := range m.Coefficients {

			if len(c.Trim()) > params.slotDegree {
				return nil, fmt.Errorf("cannot NewLinearizer: %w: level %q term %d has degree %d >= SlotDegree=%d", ErrConfiguration, level, t, c.Degree(), params.slotDegree)
			}

			for i, v := range c {
				if v >= params.p {
					return nil, fmt.Errorf("cannot NewLinearizer: %w: level %q term %d coefficient %d=%d >= P=%d", ErrConfiguration, level, t, i, v, params.p)
				}
			}
		}

		constants := make([]C, n)

		for t, c := range BSGSCoefficients(F, m.Coefficients) {
			if constants[t], err = eval.EncodeConstant([]ring.Poly{c}); err != nil {
				return nil, fmt.Errorf("cannot NewLinearizer: level %q term %d: %w", level, t, err)
			}
		}

		lin.maps[level] = m
		lin.constants[level] = constants
	}

	return
}

// Parameters returns the parameters of the linearizer.
func (lin *Linearizer[T, C]) Parameters() Parameters {
	return lin.params
}

// Evaluator returns the underlying evaluator.
func (lin *Linearizer[T, C]) Evaluator() Evaluator[T, C] {
	return lin.eval
}

// Map returns the linearization map of the given level.
func (lin *Linearizer[T, C]) Map(level Level) (m *LinearizedMap, ok bool) {
	m, ok = lin.maps[level]
	return
}

// Linearize applies the linearization map of the given level to x.
func (lin *Linearizer[T, C]) Linearize(x T, level Level) (res T, err error) {
	constants, ok := lin.constants[level]
	if !ok {
		return res, fmt.Errorf("cannot Linearize: %w: unknown level %q", ErrConfiguration, level)
	}
	return EvaluateLinearized(lin.eval, constants, x)
}

// MulByConstant returns Linearize(x * c, level).
func (lin *Linearizer[T, C]) MulByConstant(x T, c C, level Level) (res T, err error) {
	if _, ok := lin.constants[level]; !ok {
		return res, fmt.Errorf("cannot MulByConstant: %w: unknown level %q", ErrConfiguration, level)
	}
	if res, err = lin.eval.MulConstantNew(x, c); err != nil {
		return res, fmt.Errorf("cannot MulByConstant: %w", err)
	}
	return lin.Linearize(res, level)
}

// MulByValue returns Linearize(x * y, level).
func (lin *Linearizer[T, C]) MulByValue(x, y T, level Level) (res T, err error) {
	if _, ok := lin.constants[level]; !ok {
		return res, fmt.Errorf("cannot MulByValue: %w: unknown level %q", ErrConfiguration, level)
	}
	if res, err = lin.eval.MulNew(x, y); err != nil {
		return res, fmt.Errorf("cannot MulByValue: %w", err)
	}
	return lin.Linearize(res, level)
}
