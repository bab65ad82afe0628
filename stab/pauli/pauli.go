// Package pauli implements Pauli strings: a sign bit plus an x/z bit pair
// per qubit, the unit the stabilizer tableau's rows are made of. A String
// can own its storage or be a view into a row of a larger bit matrix (a
// tableau row); every operation here works identically either way.
package pauli

import (
	"errors"
	"fmt"
	"math/bits"
	"math/rand"
	"strconv"
	"strings"

	"github.com/cliffsim/cliffsim/stab/bitmatrix"
)

var (
	// ErrMalformedPauliString is returned by the text/sparse parsers when
	// the input does not match the expected grammar.
	ErrMalformedPauliString = errors.New("pauli: malformed pauli string")
	// ErrSizeMismatch is returned when two strings (or a string and an
	// index list) disagree on qubit count.
	ErrSizeMismatch = errors.New("pauli: size mismatch")
	// ErrQubitOutOfRange is returned when a sparse term or index list
	// names a qubit outside [0, n).
	ErrQubitOutOfRange = errors.New("pauli: qubit index out of range")
)

// String is a Pauli string over n qubits: a sign and, per qubit, an (x, z)
// bit pair encoding I=(0,0), X=(1,0), Z=(0,1), Y=(1,1). x and z are word
// slices padded to a 256-bit lane boundary (bitmatrix.WordsFor(n) words);
// the sign is read and written through a pair of closures so a String can
// either own a private bool (NewIdentity) or alias one bit of a larger
// packed sign vector shared with other rows (NewView), without the two
// cases needing different types.
type String struct {
	n       int
	x, z    []uint64
	signGet func() bool
	signSet func(bool)
}

// NewIdentity returns an owned, all-identity String over n qubits.
func NewIdentity(n int) *String {
	w := bitmatrix.WordsFor(n)
	var sign bool
	return &String{
		n: n, x: make([]uint64, w), z: make([]uint64, w),
		signGet: func() bool { return sign },
		signSet: func(v bool) { sign = v },
	}
}

// NewView wraps borrowed x/z word slices (each at least bitmatrix.WordsFor(n)
// long) as a String whose sign is bit signIndex of the shared packed vector
// signs. Used by the tableau to hand out its rows as Pauli strings without
// copying.
func NewView(n int, x, z []uint64, signs []uint64, signIndex int) *String {
	return &String{
		n: n, x: x, z: z,
		signGet: func() bool { return signs[signIndex>>6]>>(uint(signIndex)&63)&1 != 0 },
		signSet: func(v bool) { setBit(signs, signIndex, v) },
	}
}

// N returns the qubit count.
func (p *String) N() int { return p.n }

// Sign reports whether the string carries a - phase (false is +).
func (p *String) Sign() bool { return p.signGet() }

// SetSign overwrites the sign.
func (p *String) SetSign(v bool) { p.signSet(v) }

// ToggleSign flips the sign and returns the new value.
func (p *String) ToggleSign() bool { v := !p.signGet(); p.signSet(v); return v }

// XBit reads the x bit of qubit q.
func (p *String) XBit(q int) bool { return p.x[q>>6]>>(uint(q)&63)&1 != 0 }

// ZBit reads the z bit of qubit q.
func (p *String) ZBit(q int) bool { return p.z[q>>6]>>(uint(q)&63)&1 != 0 }

// SetXBit writes the x bit of qubit q.
func (p *String) SetXBit(q int, v bool) { setBit(p.x, q, v) }

// SetZBit writes the z bit of qubit q.
func (p *String) SetZBit(q int, v bool) { setBit(p.z, q, v) }

// ToggleXBit flips the x bit of qubit q and returns the new value.
func (p *String) ToggleXBit(q int) bool { return toggleBit(p.x, q) }

// ToggleZBit flips the z bit of qubit q and returns the new value.
func (p *String) ToggleZBit(q int) bool { return toggleBit(p.z, q) }

func setBit(w []uint64, q int, v bool) {
	idx := q >> 6
	mask := uint64(1) << (uint(q) & 63)
	if v {
		w[idx] |= mask
	} else {
		w[idx] &^= mask
	}
}

func toggleBit(w []uint64, q int) bool {
	idx := q >> 6
	mask := uint64(1) << (uint(q) & 63)
	w[idx] ^= mask
	return w[idx]&mask != 0
}

// CopyFrom overwrites p with a copy of src. Both must have the same n.
func (p *String) CopyFrom(src *String) {
	p.SetSign(src.Sign())
	copy(p.x, src.x)
	copy(p.z, src.z)
}

// Equal reports whether p and other carry the same sign and bits.
func (p *String) Equal(other *String) bool {
	if p.n != other.n || p.Sign() != other.Sign() {
		return false
	}
	for i := range p.x {
		if p.x[i] != other.x[i] || p.z[i] != other.z[i] {
			return false
		}
	}
	return true
}

// MulInto computes p *= rhs (left-multiplication: p's bits and sign are
// updated to represent the product p*rhs), tallying the resulting global
// phase with the two-accumulator parity trick: cnt1/cnt2 form, across all
// words, a per-lane 2-bit counter of how many qubit positions anti-commuted;
// popcount(cnt1) + 2*popcount(cnt2), reduced mod 4, is the total phase
// exponent (the log of i contributed by commuting the two strings past each
// other term by term). The low bit of that exponent is 0 when the two
// strings commute and 1 when they anticommute; only bit 1 (a sign flip)
// survives into the output, so the factor of i of an anticommuting product
// is not represented. Bit 1 is XORed with rhs's own sign and into p's sign.
func (p *String) MulInto(rhs *String) error {
	if p.n != rhs.n {
		return ErrSizeMismatch
	}
	var cnt1, cnt2 uint64
	for w := range p.x {
		x1, z1 := p.x[w], p.z[w]
		x2, z2 := rhs.x[w], rhs.z[w]
		newX := x1 ^ x2
		newZ := z1 ^ z2
		p.x[w] = newX
		p.z[w] = newZ
		x1z2 := x1 & z2
		anti := (x2 & z1) ^ x1z2
		cnt2 ^= (cnt1 ^ newX ^ newZ ^ x1z2) & anti
		cnt1 ^= anti
	}
	phase := (bits.OnesCount64(cnt1) + 2*bits.OnesCount64(cnt2)) & 3
	if rhs.Sign() {
		phase ^= 2
	}
	if phase&2 != 0 {
		p.ToggleSign()
	}
	return nil
}

// Commutes reports whether p and other commute as operators: true unless
// an odd number of qubit positions anti-commute (one carries X/Y where the
// other carries Z/Y, asymmetrically).
func (p *String) Commutes(other *String) bool {
	if p.n != other.n {
		return false
	}
	var acc uint64
	for w := range p.x {
		acc ^= (p.x[w] & other.z[w]) ^ (other.x[w] & p.z[w])
	}
	return bits.OnesCount64(acc)%2 == 0
}

// GatherInto copies the (x, z) bits at the qubits named by indices, in
// order, into out (out.N() must equal len(indices)); out's sign is left
// untouched.
func (p *String) GatherInto(out *String, indices []int) error {
	if len(indices) != out.n {
		return ErrSizeMismatch
	}
	for k, idx := range indices {
		if idx < 0 || idx >= p.n {
			return ErrQubitOutOfRange
		}
		out.SetXBit(k, p.XBit(idx))
		out.SetZBit(k, p.ZBit(idx))
	}
	return nil
}

// ScatterInto is GatherInto's inverse: it writes p's bits back out to the
// qubits named by indices (len(indices) must equal p.N()), XORing p's sign
// into out's sign rather than overwriting it, since a scatter composes
// several sub-strings into one larger one.
func (p *String) ScatterInto(out *String, indices []int) error {
	if len(indices) != p.n {
		return ErrSizeMismatch
	}
	for k, idx := range indices {
		if idx < 0 || idx >= out.n {
			return ErrQubitOutOfRange
		}
		out.SetXBit(idx, p.XBit(k))
		out.SetZBit(idx, p.ZBit(k))
	}
	if p.Sign() {
		out.ToggleSign()
	}
	return nil
}

// Random fills an owned, n-qubit String with uniformly random bits and sign.
func Random(n int, rng *rand.Rand) *String {
	out := NewIdentity(n)
	for w := range out.x {
		out.x[w] = rng.Uint64()
		out.z[w] = rng.Uint64()
	}
	maskTail(out.x, n)
	maskTail(out.z, n)
	out.SetSign(rng.Uint64()&1 == 1)
	return out
}

func maskTail(w []uint64, n int) {
	full := n / 64
	rem := n % 64
	for i := full + 1; i < len(w); i++ {
		w[i] = 0
	}
	if full < len(w) {
		if rem == 0 {
			w[full] = 0
		} else {
			w[full] &= (uint64(1) << uint(rem)) - 1
		}
	}
}

// The six unsigned conjugation rules below rewrite p's bits as if p were
// conjugated by the named gate (p -> G p G^-1), without touching the sign:
// callers that need the sign change too must apply it separately (it only
// depends on the pre-conjugation bits, not on p itself, so it is cheaper to
// special-case at the tableau layer than to fold in here).

// UnsignedConjugateByH swaps the x and z bits of qubit q (H maps X<->Z).
func (p *String) UnsignedConjugateByH(q int) {
	x, z := p.XBit(q), p.ZBit(q)
	p.SetXBit(q, z)
	p.SetZBit(q, x)
}

// UnsignedConjugateByH_XY maps X<->Y, i.e. rewrites z as x xor z.
func (p *String) UnsignedConjugateByH_XY(q int) {
	p.SetZBit(q, p.XBit(q) != p.ZBit(q))
}

// UnsignedConjugateByH_YZ maps Y<->Z, i.e. rewrites x as x xor z.
func (p *String) UnsignedConjugateByH_YZ(q int) {
	p.SetXBit(q, p.XBit(q) != p.ZBit(q))
}

// UnsignedConjugateByCX rewrites the bits of a CNOT(control, target) pair.
func (p *String) UnsignedConjugateByCX(control, target int) {
	cx, cz := p.XBit(control), p.ZBit(control)
	tx, tz := p.XBit(target), p.ZBit(target)
	p.SetXBit(target, tx != cx)
	p.SetZBit(control, cz != tz)
}

// UnsignedConjugateByCY rewrites the bits of a controlled-Y pair.
func (p *String) UnsignedConjugateByCY(control, target int) {
	cx, cz := p.XBit(control), p.ZBit(control)
	tx, tz := p.XBit(target), p.ZBit(target)
	p.SetZBit(control, cz != tz != tx)
	p.SetXBit(target, tx != cx)
	p.SetZBit(target, tz != cx)
}

// UnsignedConjugateByCZ rewrites the bits of a controlled-Z pair.
func (p *String) UnsignedConjugateByCZ(control, target int) {
	cx, tx := p.XBit(control), p.XBit(target)
	p.SetZBit(target, p.ZBit(target) != cx)
	p.SetZBit(control, p.ZBit(control) != tx)
}

// UnsignedConjugateBySWAP exchanges the (x, z) pairs of q1 and q2.
func (p *String) UnsignedConjugateBySWAP(q1, q2 int) {
	x1, z1 := p.XBit(q1), p.ZBit(q1)
	x2, z2 := p.XBit(q2), p.ZBit(q2)
	p.SetXBit(q1, x2)
	p.SetZBit(q1, z2)
	p.SetXBit(q2, x1)
	p.SetZBit(q2, z1)
}

// String renders the dense text form: a leading '+'/'-' followed by one of
// '_' (identity), 'X', 'Y', 'Z' per qubit.
func (p *String) String() string {
	var b strings.Builder
	b.Grow(p.n + 1)
	if p.Sign() {
		b.WriteByte('-')
	} else {
		b.WriteByte('+')
	}
	for i := 0; i < p.n; i++ {
		b.WriteByte(letterFor(p.XBit(i), p.ZBit(i)))
	}
	return b.String()
}

func letterFor(x, z bool) byte {
	switch {
	case !x && !z:
		return '_'
	case x && !z:
		return 'X'
	case !x && z:
		return 'Z'
	default:
		return 'Y'
	}
}

// FromPattern builds an owned n-qubit String by calling at(i) for each qubit
// index, each call expected to return one of 'I', '_', 'X', 'Y', 'Z'.
func FromPattern(sign bool, n int, at func(i int) byte) (*String, error) {
	out := NewIdentity(n)
	out.SetSign(sign)
	for i := 0; i < n; i++ {
		switch at(i) {
		case 'X':
			out.SetXBit(i, true)
		case 'Y':
			out.SetXBit(i, true)
			out.SetZBit(i, true)
		case 'Z':
			out.SetZBit(i, true)
		case 'I', '_':
		default:
			return nil, fmt.Errorf("%w: unrecognized pauli letter %q", ErrMalformedPauliString, at(i))
		}
	}
	return out, nil
}

// FromString parses the dense text form produced by String.
func FromString(s string) (*String, error) {
	if s == "" {
		return nil, ErrMalformedPauliString
	}
	sign := false
	rest := s
	switch s[0] {
	case '+':
		rest = s[1:]
	case '-':
		sign = true
		rest = s[1:]
	}
	return FromPattern(sign, len(rest), func(i int) byte { return rest[i] })
}

// Term is one factor of a sparse Pauli string: Pauli is 'X', 'Y', or 'Z'
// acting on qubit Index.
type Term struct {
	Index int
	Pauli byte
}

// Sparse is the sparse (index-keyed) representation of a Pauli string,
// listing only qubits it acts non-trivially on.
type Sparse struct {
	Sign  bool
	Terms []Term
}

// Sparse converts p to its sparse representation.
func (p *String) Sparse() Sparse {
	out := Sparse{Sign: p.Sign()}
	for i := 0; i < p.n; i++ {
		x, z := p.XBit(i), p.ZBit(i)
		if !x && !z {
			continue
		}
		out.Terms = append(out.Terms, Term{Index: i, Pauli: letterFor(x, z)})
	}
	return out
}

// String renders the sparse grammar: "+I" / "-I", or
// "±<P><idx>(*<P><idx>)*".
func (s Sparse) String() string {
	var b strings.Builder
	if s.Sign {
		b.WriteByte('-')
	} else {
		b.WriteByte('+')
	}
	if len(s.Terms) == 0 {
		b.WriteByte('I')
		return b.String()
	}
	for i, t := range s.Terms {
		if i > 0 {
			b.WriteByte('*')
		}
		b.WriteByte(t.Pauli)
		b.WriteString(strconv.Itoa(t.Index))
	}
	return b.String()
}

// ParseSparse parses the sparse grammar produced by Sparse.String.
func ParseSparse(s string) (Sparse, error) {
	if s == "" {
		return Sparse{}, ErrMalformedPauliString
	}
	var sign bool
	switch s[0] {
	case '+':
		sign = false
	case '-':
		sign = true
	default:
		return Sparse{}, ErrMalformedPauliString
	}
	rest := s[1:]
	if rest == "I" {
		return Sparse{Sign: sign}, nil
	}
	parts := strings.Split(rest, "*")
	terms := make([]Term, 0, len(parts))
	for _, part := range parts {
		if len(part) < 2 {
			return Sparse{}, ErrMalformedPauliString
		}
		c := part[0]
		if c != 'X' && c != 'Y' && c != 'Z' {
			return Sparse{}, ErrMalformedPauliString
		}
		idx, err := strconv.Atoi(part[1:])
		if err != nil || idx < 0 {
			return Sparse{}, ErrMalformedPauliString
		}
		terms = append(terms, Term{Index: idx, Pauli: c})
	}
	return Sparse{Sign: sign, Terms: terms}, nil
}

// Dense expands a Sparse into an owned n-qubit String. n must exceed the
// largest term index.
func (s Sparse) Dense(n int) (*String, error) {
	out := NewIdentity(n)
	out.SetSign(s.Sign)
	for _, t := range s.Terms {
		if t.Index < 0 || t.Index >= n {
			return nil, ErrQubitOutOfRange
		}
		switch t.Pauli {
		case 'X':
			out.SetXBit(t.Index, true)
		case 'Z':
			out.SetZBit(t.Index, true)
		case 'Y':
			out.SetXBit(t.Index, true)
			out.SetZBit(t.Index, true)
		}
	}
	return out, nil
}
