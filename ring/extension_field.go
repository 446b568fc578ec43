package ring

import (
	"fmt"
)

// ExtensionField is the finite field F_{p^d} = Z_p[X]/(G) for a monic
// irreducible polynomial G of degree d. Elements are [Poly] with exactly
// d coefficients.
//
// When G = X^d - zeta, the Frobenius map X -> X^p sends each monomial to a
// scaled monomial and is applied in O(d).
type ExtensionField struct {
	p        uint64
	d        int
	modulus  Poly
	binomial bool
	zeta     uint64

	// frobenius[i] = X^{i*p} mod G
	frobenius []Poly
	// binomial case: X^{i*p} = frobeniusScale[i] * X^{frobeniusIndex[i]}
	frobeniusIndex []int
	frobeniusScale []uint64
}

// NewExtensionField creates a new [ExtensionField] Z_p[X]/(G), where G is
// given by its coefficients in ascending order.
// Returns an error if p is not prime, or if G is not monic or not irreducible.
func NewExtensionField(p uint64, G Poly) (F *ExtensionField, err error) {

	if err = CheckPrime(p); err != nil {
		return nil, fmt.Errorf("NewExtensionField: %w", err)
	}

	G = G.Trim().Clone()

	d := len(G) - 1

	if d < 1 {
		return nil, fmt.Errorf("NewExtensionField: modulus must have degree at least 1")
	}

	for i, c := range G {
		if c >= p {
			return nil, fmt.Errorf("NewExtensionField: modulus coefficient %d is not a residue mod %d", i, p)
		}
	}

	if G[d] != 1 {
		return nil, fmt.Errorf("NewExtensionField: modulus is not monic")
	}

	F = &ExtensionField{
		p:       p,
		d:       d,
		modulus: G,
	}

	F.binomial = true
	for i := 1; i < d; i++ {
		if G[i] != 0 {
			F.binomial = false
			break
		}
	}

	if F.binomial {
		F.zeta = NegMod(G[0], p)
	}

	F.genFrobeniusTable()

	if !F.isIrreducible() {
		return nil, fmt.Errorf("NewExtensionField: modulus is not irreducible mod %d", p)
	}

	return
}

// NewBinomialField creates the field Z_p[X]/(X^d - zeta).
func NewBinomialField(p uint64, d int, zeta uint64) (*ExtensionField, error) {
	if d < 1 {
		return nil, fmt.Errorf("NewBinomialField: invalid degree %d", d)
	}
	G := NewPoly(d + 1)
	G[0] = NegMod(zeta%p, p)
	G[d] = 1
	return NewExtensionField(p, G)
}

func (F *ExtensionField) genFrobeniusTable() {

	p, d := F.p, F.d

	if F.binomial {
		F.frobeniusIndex = make([]int, d)
		F.frobeniusScale = make([]uint64, d)
		pmod, pdiv := p%uint64(d), p/uint64(d)
		for i := 0; i < d; i++ {
			// i*p = q*d + r
			ip := uint64(i) * pmod
			r := ip % uint64(d)
			q := uint64(i)*pdiv + ip/uint64(d)
			F.frobeniusIndex[i] = int(r)
			F.frobeniusScale[i] = ModExp(F.zeta, q, p)
		}
		return
	}

	// G is not a binomial, hence d > 1.
	X := F.NewElement()
	X[1] = 1

	xp := F.Exp(X, p)

	F.frobenius = make([]Poly, d)
	F.frobenius[0] = F.One()
	for i := 1; i < d; i++ {
		F.frobenius[i] = F.Mul(F.frobenius[i-1], xp)
	}
}

// P returns the characteristic p.
func (F *ExtensionField) P() uint64 {
	return F.p
}

// Degree returns the extension degree d.
func (F *ExtensionField) Degree() int {
	return F.d
}

// Modulus returns a copy of the defining polynomial G.
func (F *ExtensionField) Modulus() Poly {
	return F.modulus.Clone()
}

// IsBinomial returns true if G = X^d - zeta.
func (F *ExtensionField) IsBinomial() bool {
	return F.binomial
}

// NewElement returns the zero element.
func (F *ExtensionField) NewElement() Poly {
	return NewPoly(F.d)
}

// One returns the unit element.
func (F *ExtensionField) One() Poly {
	one := F.NewElement()
	one[0] = 1
	return one
}

// Scalar returns the element c embedded in F_p.
func (F *ExtensionField) Scalar(c uint64) Poly {
	x := F.NewElement()
	x[0] = c % F.p
	return x
}

// Reduce returns a mod G for a polynomial a of arbitrary length.
func (F *ExtensionField) Reduce(a Poly) Poly {

	p, d := F.p, F.d

	buf := make(Poly, max(len(a), d))
	for i := range a {
		buf[i] = a[i] % p
	}

	for i := len(buf) - 1; i >= d; i-- {
		c := buf[i]
		if c == 0 {
			continue
		}
		buf[i] = 0
		if F.binomial {
			buf[i-d] = AddMod(buf[i-d], MulMod(c, F.zeta, p), p)
			continue
		}
		// X^d = -sum_{j<d} G[j] X^j
		for j := 0; j < d; j++ {
			buf[i-d+j] = SubMod(buf[i-d+j], MulMod(c, F.modulus[j], p), p)
		}
	}

	return buf[:d]
}

// Add returns a + b.
func (F *ExtensionField) Add(a, b Poly) (c Poly) {
	c = F.NewElement()
	for i := range c {
		c[i] = AddMod(a[i], b[i], F.p)
	}
	return
}

// Sub returns a - b.
func (F *ExtensionField) Sub(a, b Poly) (c Poly) {
	c = F.NewElement()
	for i := range c {
		c[i] = SubMod(a[i], b[i], F.p)
	}
	return
}

// Neg returns -a.
func (F *ExtensionField) Neg(a Poly) (c Poly) {
	c = F.NewElement()
	for i := range c {
		c[i] = NegMod(a[i], F.p)
	}
	return
}

// MulScalar returns c * a for c in F_p.
func (F *ExtensionField) MulScalar(a Poly, c uint64) (b Poly) {
	b = F.NewElement()
	c %= F.p
	for i := range b {
		b[i] = MulMod(a[i], c, F.p)
	}
	return
}

// Mul returns a * b mod G.
func (F *ExtensionField) Mul(a, b Poly) Poly {
	return F.Reduce(polyMul(a, b, F.p))
}

// Exp returns a^e.
func (F *ExtensionField) Exp(a Poly, e uint64) (y Poly) {
	y = F.One()
	x := F.Reduce(a)
	for e > 0 {
		if e&1 == 1 {
			y = F.Mul(y, x)
		}
		x = F.Mul(x, x)
		e >>= 1
	}
	return
}

// Frobenius returns a^{p^k}. Negative k are taken modulo d.
func (F *ExtensionField) Frobenius(a Poly, k int) Poly {

	k %= F.d
	if k < 0 {
		k += F.d
	}

	x := F.Reduce(a)
	for ; k > 0; k-- {
		x = F.frobeniusOnce(x)
	}
	return x
}

func (F *ExtensionField) frobeniusOnce(a Poly) (b Poly) {

	p := F.p
	b = F.NewElement()

	if F.binomial {
		for i, c := range a {
			if c != 0 {
				j := F.frobeniusIndex[i]
				b[j] = AddMod(b[j], MulMod(c, F.frobeniusScale[i], p), p)
			}
		}
		return
	}

	for i, c := range a {
		if c == 0 {
			continue
		}
		for j, f := range F.frobenius[i] {
			b[j] = AddMod(b[j], MulMod(c, f, p), p)
		}
	}

	return
}

// Trace returns Tr(a) = sum_{t<d} a^{p^t}, which lies in F_p.
func (F *ExtensionField) Trace(a Poly) uint64 {
	acc := F.NewElement()
	x := F.Reduce(a)
	for t := 0; t < F.d; t++ {
		acc = F.Add(acc, x)
		x = F.frobeniusOnce(x)
	}
	return acc[0]
}

// TraceDualBasis returns the basis beta_0, ..., beta_{d-1} of F_{p^d} over
// F_p such that Tr(X^i * beta_j) = 1 if i = j and 0 otherwise.
func (F *ExtensionField) TraceDualBasis() (beta []Poly, err error) {

	d := F.d

	// traces[k] = Tr(X^k) for k < 2d-1
	traces := make([]uint64, 2*d-1)
	x := F.One()
	X := F.Reduce(Poly{0, 1})
	for k := range traces {
		traces[k] = F.Trace(x)
		x = F.Mul(x, X)
	}

	T := make([][]uint64, d)
	for i := range T {
		T[i] = traces[i : i+d]
	}

	var inv [][]uint64
	if inv, err = InvertMatrix(T, F.p); err != nil {
		return nil, fmt.Errorf("TraceDualBasis: %w", err)
	}

	// beta_j = sum_i inv[i][j] X^i
	beta = make([]Poly, d)
	for j := range beta {
		beta[j] = F.NewElement()
		for i := 0; i < d; i++ {
			beta[j][i] = inv[i][j]
		}
	}

	return
}

// IsZero returns true if a = 0 mod G.
func (F *ExtensionField) IsZero(a Poly) bool {
	return F.Reduce(a).IsZero()
}

// Equal returns true if a = b mod G.
func (F *ExtensionField) Equal(a, b Poly) bool {
	return F.Reduce(a).Equal(F.Reduce(b))
}

// isIrreducible applies Rabin's test: G of degree d is irreducible iff
// X^{p^d} = X mod G and gcd(X^{p^{d/r}} - X, G) = 1 for every prime r | d.
func (F *ExtensionField) isIrreducible() bool {

	d := F.d
	if d == 1 {
		return true
	}

	X := F.NewElement()
	X[1] = 1

	// powers[i] = X^{p^i} mod G
	powers := make([]Poly, d+1)
	powers[0] = X
	for i := 1; i <= d; i++ {
		powers[i] = F.frobeniusOnce(powers[i-1])
	}

	if !powers[d].Equal(X) {
		return false
	}

	for _, r := range Factorize(uint64(d)) {
		h := F.Sub(powers[d/int(r)], X)
		if polyGCD(h, F.modulus, F.p).Degree() != 0 {
			return false
		}
	}

	return true
}

// polyMul returns the product a * b in Z_p[X] without reduction.
func polyMul(a, b Poly, p uint64) (c Poly) {
	a, b = a.Trim(), b.Trim()
	if len(a) == 0 || len(b) == 0 {
		return Poly{}
	}
	c = NewPoly(len(a) + len(b) - 1)
	for i, ai := range a {
		if ai == 0 {
			continue
		}
		for j, bj := range b {
			c[i+j] = AddMod(c[i+j], MulMod(ai, bj, p), p)
		}
	}
	return
}

// polyRem returns a mod b in Z_p[X], for b != 0.
func polyRem(a, b Poly, p uint64) Poly {

	a, b = a.Trim().Clone(), b.Trim()
	db := len(b) - 1

	inv, err := ModInverse(b[db], p)
	if err != nil {
		panic(fmt.Errorf("polyRem: %w", err))
	}

	for i := len(a) - 1; i >= db; i-- {
		c := MulMod(a[i], inv, p)
		if c == 0 {
			continue
		}
		for j := 0; j <= db; j++ {
			a[i-db+j] = SubMod(a[i-db+j], MulMod(c, b[j], p), p)
		}
	}

	return a.Trim()
}

// polyGCD returns a greatest common divisor of a and b in Z_p[X].
func polyGCD(a, b Poly, p uint64) Poly {
	a, b = a.Trim(), b.Trim()
	for !b.IsZero() {
		a, b = b, polyRem(a, b, p)
	}
	return a
}
