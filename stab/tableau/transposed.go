package tableau

import (
	"math/bits"

	"github.com/cliffsim/cliffsim/stab/bitmatrix"
)

// TransposedView is a scoped, exclusive borrow of a Tableau in
// column-major layout: transposed row q holds, across its 2n bits, qubit
// q's x (or z) value in every destabilizer/stabilizer generator. Reading
// any single qubit's observable across all 2n rows, and applying the four
// gates the collapse algorithm needs mid-pivot-search, both become
// constant-word-count operations instead of a column scan — the entire
// reason spec.md carves this out as a temporary, RAII-scoped resource
// (`TempTransposedTableauRaii` in `original_source/chp_sim.cc`).
//
// Only one TransposedView may be live per Tableau at a time; acquiring a
// second before releasing the first is a programming error, not a runtime
// condition a caller can recover from, so it panics rather than returning
// an error.
type TransposedView struct {
	t        *Tableau
	trX, trZ *bitmatrix.Matrix
	released bool
}

// Transposed acquires a transposed view of t. The Tableau must not be used
// directly (via Row/D/S or any Prepend method) until the view is released.
func (t *Tableau) Transposed() *TransposedView {
	if t.transposedOut {
		panic("tableau: Transposed called while a view is already live")
	}
	t.transposedOut = true
	return &TransposedView{t: t, trX: bitmatrix.Transpose(t.x), trZ: bitmatrix.Transpose(t.z)}
}

// Release writes the transposed planes back into the tableau's row-major
// storage. Safe to call more than once.
func (v *TransposedView) Release() {
	if v.released {
		return
	}
	v.t.x = bitmatrix.Transpose(v.trX)
	v.t.z = bitmatrix.Transpose(v.trZ)
	v.t.transposedOut = false
	v.released = true
}

// N returns the qubit count of the underlying tableau.
func (v *TransposedView) N() int { return v.t.n }

// XAt reads the x-bit of qubit column q in generator row r (0..2n).
func (v *TransposedView) XAt(q, r int) bool { return v.trX.Get(q, r) }

// ZAt reads the z-bit of qubit column q in generator row r (0..2n).
func (v *TransposedView) ZAt(q, r int) bool { return v.trZ.Get(q, r) }

// FindSetXBit scans generator rows [fromRow, toRow) of qubit column q for
// the lowest-indexed row with an x-bit set, word at a time. Used by the
// measurement pivot search: "is there a stabilizer row with X-support on
// this qubit" is exactly this scan restricted to the stabilizer row range.
func (v *TransposedView) FindSetXBit(q, fromRow, toRow int) (int, bool) {
	words := v.trX.RowWords(q)
	for row := fromRow; row < toRow; {
		w := row >> 6
		word := words[w] >> uint(row&63)
		if word == 0 {
			row = (w + 1) * 64
			continue
		}
		cand := row + bits.TrailingZeros64(word)
		if cand >= toRow {
			return 0, false
		}
		return cand, true
	}
	return 0, false
}

// Sign reads the sign bit of generator row r (0..2n).
func (v *TransposedView) Sign(r int) bool { return v.t.getSign(r) }

// ToggleSign flips the sign bit of generator row r.
func (v *TransposedView) ToggleSign(r int) { v.t.toggleSign(r) }

// SetSign writes the sign bit of generator row r.
func (v *TransposedView) SetSign(r int, val bool) {
	if v.Sign(r) != val {
		v.ToggleSign(r)
	}
}

// AppendCX applies CNOT(control=c, target=tq) from the right (append,
// rather than prepend): for every generator row r, x[tq] ^= x[c] and
// z[c] ^= z[tq], with the sign toggled wherever x[c] & z[tq] & !(x[tq] ^
// z[c]) holds — the same predicate PrependCX uses, but evaluated here as a
// single word-wise bitmask across all 2n rows at once, since in transposed
// storage "every row, column q" is exactly transposed row q.
func (v *TransposedView) AppendCX(c, tq int) {
	xc := v.trX.RowWords(c)
	zc := v.trZ.RowWords(c)
	xt := v.trX.RowWords(tq)
	zt := v.trZ.RowWords(tq)
	for w := range xc {
		pred := xc[w] & zt[w] &^ (xt[w] ^ zc[w])
		v.t.signs[w] ^= pred
		xt[w] ^= xc[w]
		zc[w] ^= zt[w]
	}
}

// AppendH applies Hadamard on qubit pivot from the right.
func (v *TransposedView) AppendH(pivot int) {
	xp := v.trX.RowWords(pivot)
	zp := v.trZ.RowWords(pivot)
	for w := range xp {
		v.t.signs[w] ^= xp[w] & zp[w]
		xp[w], zp[w] = zp[w], xp[w]
	}
}

// AppendH_YZ applies the Y<->Z Hadamard variant on qubit pivot from the
// right.
func (v *TransposedView) AppendH_YZ(pivot int) {
	xp := v.trX.RowWords(pivot)
	zp := v.trZ.RowWords(pivot)
	for w := range xp {
		v.t.signs[w] ^= xp[w] &^ zp[w]
		xp[w] ^= zp[w]
	}
}

// AppendX applies Pauli X on qubit pivot from the right.
func (v *TransposedView) AppendX(pivot int) {
	zp := v.trZ.RowWords(pivot)
	for w := range zp {
		v.t.signs[w] ^= zp[w]
	}
}
