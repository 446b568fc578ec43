package fimd

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"strconv"

	"github.com/phuocchubeo123/fimd/ring"
	"github.com/zeebo/blake3"
)

// LinearizedMap is the q-linearized polynomial L(x) = sum_t Coefficients[t] * x^{p^t}
// applied at a given [Level]. Each coefficient is an element of the slot field.
type LinearizedMap struct {
	Level        Level
	Coefficients []ring.Poly
}

// LinearizedMaps maps each level to its linearization map.
type LinearizedMaps map[Level]*LinearizedMap

// LevelLayout describes one map stored in a coefficient table file.
type LevelLayout struct {
	Level Level
	Terms int
}

// Len returns the number of terms of the map.
func (m *LinearizedMap) Len() int {
	return len(m.Coefficients)
}

// Apply evaluates the map directly over the slot field F.
func (m *LinearizedMap) Apply(F *ring.ExtensionField, x ring.Poly) (y ring.Poly) {
	y = F.NewElement()
	xt := F.Reduce(x)
	for t, c := range m.Coefficients {
		if t > 0 {
			xt = F.Frobenius(xt, 1)
		}
		y = F.Add(y, F.Mul(F.Reduce(c), xt))
	}
	return
}

// tableReader reads the whitespace separated integers of a coefficient table.
type tableReader struct {
	scanner *bufio.Scanner
	p       uint64
}

func newTableReader(r io.Reader, p uint64) *tableReader {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)
	return &tableReader{scanner: scanner, p: p}
}

func (tr *tableReader) next(level Level, term, coeff int) (v uint64, err error) {

	if !tr.scanner.Scan() {
		if err = tr.scanner.Err(); err != nil {
			return 0, fmt.Errorf("%w: level %q term %d coefficient %d: %w", ErrMalformedTable, level, term, coeff, err)
		}
		return 0, fmt.Errorf("%w: level %q term %d coefficient %d: unexpected end of table", ErrMalformedTable, level, term, coeff)
	}

	token := tr.scanner.Text()

	if v, err = strconv.ParseUint(token, 10, 64); err != nil {
		return 0, fmt.Errorf("%w: level %q term %d coefficient %d: invalid integer %q", ErrMalformedTable, level, term, coeff, token)
	}

	if v >= tr.p {
		return 0, fmt.Errorf("%w: level %q term %d coefficient %d: %d is not a residue mod %d", ErrMalformedTable, level, term, coeff, v, tr.p)
	}

	return
}

func (tr *tableReader) readMap(level Level, n, oneSlot int) (m *LinearizedMap, err error) {

	m = &LinearizedMap{
		Level:        level,
		Coefficients: make([]ring.Poly, n),
	}

	for t := range m.Coefficients {
		c := ring.NewPoly(oneSlot)
		for i := range c {
			if c[i], err = tr.next(level, t, i); err != nil {
				return nil, err
			}
		}
		m.Coefficients[t] = c
	}

	return
}

// ReadLinearizedMap reads a map of n terms from r. The table is a flat sequence of
// whitespace separated integers, read row-major: oneSlot integers per term.
// Any malformed, out of range or missing integer yields an error wrapping [ErrMalformedTable].
func ReadLinearizedMap(r io.Reader, level Level, n, oneSlot int, p uint64) (m *LinearizedMap, err error) {

	if n < 1 || oneSlot < 1 {
		return nil, fmt.Errorf("cannot ReadLinearizedMap: %w: invalid dimensions %dx%d", ErrInvalidInput, n, oneSlot)
	}

	return newTableReader(r, p).readMap(level, n, oneSlot)
}

// ReadLinearizedMaps reads consecutive maps from a single table, following layout.
// Tokens remaining after the last map yield an error wrapping [ErrMalformedTable].
func ReadLinearizedMaps(r io.Reader, layout []LevelLayout, oneSlot int, p uint64) (maps LinearizedMaps, err error) {

	if oneSlot < 1 {
		return nil, fmt.Errorf("cannot ReadLinearizedMaps: %w: invalid slot size %d", ErrInvalidInput, oneSlot)
	}

	tr := newTableReader(r, p)

	maps = LinearizedMaps{}

	for _, l := range layout {

		if l.Terms < 1 {
			return nil, fmt.Errorf("cannot ReadLinearizedMaps: %w: level %q has %d terms", ErrInvalidInput, l.Level, l.Terms)
		}

		if _, ok := maps[l.Level]; ok {
			return nil, fmt.Errorf("cannot ReadLinearizedMaps: %w: level %q is repeated", ErrInvalidInput, l.Level)
		}

		if maps[l.Level], err = tr.readMap(l.Level, l.Terms, oneSlot); err != nil {
			return nil, err
		}
	}

	if tr.scanner.Scan() {
		return nil, fmt.Errorf("%w: trailing token %q after the last map", ErrMalformedTable, tr.scanner.Text())
	}

	if err = tr.scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedTable, err)
	}

	return
}

// WriteTo writes the map in the table format read by [ReadLinearizedMap], one term
// per line. All the terms are padded to the length of the longest one.
func (m *LinearizedMap) WriteTo(w io.Writer) (n int64, err error) {

	oneSlot := 0
	for _, c := range m.Coefficients {
		oneSlot = max(oneSlot, len(c))
	}

	bw := bufio.NewWriter(w)

	var inc int
	buf := make([]byte, 0, 24)

	for _, c := range m.Coefficients {
		for i := 0; i < oneSlot; i++ {

			var v uint64
			if i < len(c) {
				v = c[i]
			}

			buf = buf[:0]
			if i > 0 {
				buf = append(buf, ' ')
			}
			buf = strconv.AppendUint(buf, v, 10)

			if inc, err = bw.Write(buf); err != nil {
				return n + int64(inc), err
			}
			n += int64(inc)
		}

		if err = bw.WriteByte('\n'); err != nil {
			return
		}
		n++
	}

	return n, bw.Flush()
}

// Digest returns the blake3 digest of the level name and of the coefficients of the map.
// Trailing zero coefficients of each term are not part of the digest.
func (m *LinearizedMap) Digest() (digest [32]byte) {

	hasher := blake3.New()

	b := make([]byte, 8)

	binary.LittleEndian.PutUint64(b, uint64(len(m.Level)))
	hasher.Write(b)
	hasher.Write([]byte(m.Level))

	binary.LittleEndian.PutUint64(b, uint64(len(m.Coefficients)))
	hasher.Write(b)

	for _, c := range m.Coefficients {
		c = c.Trim()
		binary.LittleEndian.PutUint64(b, uint64(len(c)))
		hasher.Write(b)
		for _, v := range c {
			binary.LittleEndian.PutUint64(b, v)
			hasher.Write(b)
		}
	}

	copy(digest[:], hasher.Sum(nil))
	return
}

// GenerateLinearizedMap returns the q-linearized polynomial of degree < d of the
// F_p-linear map L of the field F given by the images L(X^j), j < d, of its power basis:
//
//	c_t = sum_j L(X^j) * beta_j^{p^t}
//
// where beta is the trace dual basis of the power basis.
func GenerateLinearizedMap(F *ring.ExtensionField, level Level, images []ring.Poly) (m *LinearizedMap, err error) {

	d := F.Degree()

	if len(images) != d {
		return nil, fmt.Errorf("cannot GenerateLinearizedMap: %w: %d images for a field of degree %d", ErrInvalidInput, len(images), d)
	}

	var beta []ring.Poly
	if beta, err = F.TraceDualBasis(); err != nil {
		return nil, fmt.Errorf("cannot GenerateLinearizedMap: %w: %w", ErrConfiguration, err)
	}

	m = &LinearizedMap{
		Level:        level,
		Coefficients: make([]ring.Poly, d),
	}

	for t := range m.Coefficients {
		c := F.NewElement()
		for j := range images {
			c = F.Add(c, F.Mul(F.Reduce(images[j]), beta[j]))
		}
		m.Coefficients[t] = c

		for j := range beta {
			beta[j] = F.Frobenius(beta[j], 1)
		}
	}

	return
}
