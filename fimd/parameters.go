package fimd

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/phuocchubeo123/fimd/ring"
)

// ParametersLiteral is a literal representation of FIMD parameters. It has public
// fields and is used to express unchecked user-defined parameters literally into
// Go programs. The [NewParametersFromLiteral] function is used to generate the actual
// checked parameters from the literal representation.
//
// Users must set the prime modulus P and the packing degree K (number of scalars packed
// per slot).
//
// Optionally, users may specify:
//   - SlotDegree: the extension degree m of the host slot F_{p^m}. It must be at least
//     2K-1 so that the product of two packings is not reduced. Defaults to 2K-1.
//   - EvaluationPoints: K distinct residues mod P. Defaults to 0, 1, ..., K-1.
//   - OutputDegrees: the number of terms of the linearization map of each [Level].
type ParametersLiteral struct {
	P                uint64        `json:",omitempty"`
	K                int           `json:",omitempty"`
	SlotDegree       int           `json:",omitempty"`
	EvaluationPoints []uint64      `json:",omitempty"`
	OutputDegrees    map[Level]int `json:",omitempty"`
}

// Parameters represents a checked set of FIMD parameters. Its fields are private and
// immutable. See [ParametersLiteral] for user-specified parameters.
type Parameters struct {
	p             uint64
	k             int
	slotDegree    int
	points        []uint64
	outputDegrees map[Level]int
}

// NewParametersFromLiteral instantiates a set of FIMD parameters from a [ParametersLiteral] specification.
// It returns the empty parameters Parameters{} and a non-nil error wrapping [ErrConfiguration]
// if the specified parameters are invalid.
func NewParametersFromLiteral(pl ParametersLiteral) (Parameters, error) {

	if err := ring.CheckPrime(pl.P); err != nil {
		return Parameters{}, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	if pl.K < 1 {
		return Parameters{}, fmt.Errorf("%w: packing degree K=%d must be positive", ErrConfiguration, pl.K)
	}

	if uint64(pl.K) > pl.P {
		return Parameters{}, fmt.Errorf("%w: packing degree K=%d exceeds P=%d", ErrConfiguration, pl.K, pl.P)
	}

	slotDegree := pl.SlotDegree
	if slotDegree == 0 {
		slotDegree = 2*pl.K - 1
	}

	if slotDegree < 2*pl.K-1 {
		return Parameters{}, fmt.Errorf("%w: SlotDegree=%d < 2K-1=%d", ErrConfiguration, slotDegree, 2*pl.K-1)
	}

	points := slices.Clone(pl.EvaluationPoints)
	if points == nil {
		points = make([]uint64, pl.K)
		for i := range points {
			points[i] = uint64(i)
		}
	}

	if len(points) != pl.K {
		return Parameters{}, fmt.Errorf("%w: len(EvaluationPoints)=%d != K=%d", ErrConfiguration, len(points), pl.K)
	}

	seen := map[uint64]bool{}
	for i, x := range points {
		if x >= pl.P {
			return Parameters{}, fmt.Errorf("%w: EvaluationPoints[%d]=%d >= P=%d", ErrConfiguration, i, x, pl.P)
		}
		if seen[x] {
			return Parameters{}, fmt.Errorf("%w: EvaluationPoints[%d]=%d is repeated", ErrConfiguration, i, x)
		}
		seen[x] = true
	}

	outputDegrees := maps.Clone(pl.OutputDegrees)
	if outputDegrees == nil {
		outputDegrees = map[Level]int{}
	}

	for level, n := range outputDegrees {
		if level == "" {
			return Parameters{}, fmt.Errorf("%w: empty level name", ErrConfiguration)
		}
		if n < 1 {
			return Parameters{}, fmt.Errorf("%w: output degree of level %q must be positive but is %d", ErrConfiguration, level, n)
		}
	}

	return Parameters{
		p:             pl.P,
		k:             pl.K,
		slotDegree:    slotDegree,
		points:        points,
		outputDegrees: outputDegrees,
	}, nil
}

// ParametersLiteral returns the [ParametersLiteral] of the target Parameters.
func (p Parameters) ParametersLiteral() ParametersLiteral {
	return ParametersLiteral{
		P:                p.p,
		K:                p.k,
		SlotDegree:       p.slotDegree,
		EvaluationPoints: p.EvaluationPoints(),
		OutputDegrees:    maps.Clone(p.outputDegrees),
	}
}

// P returns the prime modulus.
func (p Parameters) P() uint64 {
	return p.p
}

// K returns the packing degree.
func (p Parameters) K() int {
	return p.k
}

// SlotDegree returns the extension degree m of the host slot.
func (p Parameters) SlotDegree() int {
	return p.slotDegree
}

// EvaluationPoints returns a copy of the evaluation points.
func (p Parameters) EvaluationPoints() []uint64 {
	return slices.Clone(p.points)
}

// OutputDegree returns the number of terms of the linearization map of the given level,
// and false if the level is not configured.
func (p Parameters) OutputDegree(level Level) (n int, ok bool) {
	n, ok = p.outputDegrees[level]
	return
}

// Levels returns the configured levels in lexicographic order.
func (p Parameters) Levels() []Level {
	return slices.Sorted(maps.Keys(p.outputDegrees))
}

// Equal compares two sets of parameters for equality.
func (p Parameters) Equal(other *Parameters) bool {
	return cmp.Equal(p.ParametersLiteral(), other.ParametersLiteral(), cmpopts.EquateEmpty())
}

// MarshalJSON returns a JSON representation of this parameter set. See `Marshal` from the `encoding/json` package.
func (p Parameters) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.ParametersLiteral())
}

// UnmarshalJSON reads a JSON representation of a parameter set into the receiver Parameter. See `Unmarshal` from the `encoding/json` package.
func (p *Parameters) UnmarshalJSON(data []byte) (err error) {
	var pl ParametersLiteral
	if err = json.Unmarshal(data, &pl); err != nil {
		return
	}
	*p, err = NewParametersFromLiteral(pl)
	return
}

// RootsOfUnity returns the k-th roots of unity mod p, 1, w, w^2, ..., w^{k-1},
// to be used as evaluation points. Returns an error if k does not divide p-1.
func RootsOfUnity(k int, p uint64) (points []uint64, err error) {

	if k < 1 || (p-1)%uint64(k) != 0 {
		return nil, fmt.Errorf("%w: k=%d does not divide p-1=%d", ErrConfiguration, k, p-1)
	}

	var g uint64
	if g, _, err = ring.PrimitiveRoot(p); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	w := ring.ModExp(g, (p-1)/uint64(k), p)

	points = make([]uint64, k)
	points[0] = 1
	for i := 1; i < k; i++ {
		points[i] = ring.MulMod(points[i-1], w, p)
	}

	return
}
