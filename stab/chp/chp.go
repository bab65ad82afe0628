// Package chp implements the measurement/collapse engine and the
// Simulator that drives a stabilizer tableau through a Clifford circuit:
// gate application (each gate conjugates every destabilizer/stabilizer row
// of the state's own tableau, the Aaronson-Gottesman CHP update; the
// tableau is not kept in inverse form), computational-basis measurement
// with correct Born-rule randomness, reset, and the inspected variant used
// by callers that want the destabilizer a random outcome produced and a
// caller-chosen sampling bias instead of a fair coin.
package chp

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/cliffsim/cliffsim/stab/pauli"
	"github.com/cliffsim/cliffsim/stab/tableau"
)

// ErrUnsupportedOperation is returned for a gate name this engine cannot
// apply — either it is not in the Clifford catalogue at all, or (for a
// name like TOFFOLI that the dense oracle backend accepts) it simply isn't
// a Clifford gate this polynomial-time engine can represent.
var ErrUnsupportedOperation = errors.New("chp: unsupported operation")

// ErrInvalidBias is returned by InspectedCollapse for a bias outside
// [0, 1] or NaN.
var ErrInvalidBias = errors.New("chp: bias must be in [0, 1]")

// Simulator holds the state's tableau, whose rows D_i and S_i are the
// current state's destabilizers and stabilizers (see the package doc; the
// field is named inv but holds no inverse), and the PRNG
// used for measurement outcomes. The PRNG is injected so tests and callers
// that need reproducible runs can seed it themselves.
type Simulator struct {
	inv *tableau.Tableau
	rng *rand.Rand
}

// NewSimulator returns a simulator over n qubits, initialized to |0...0>.
// A nil rng gets a fixed, deterministic default — fine for callers that
// don't care about entropy, wrong for anything sampling real outcomes.
func NewSimulator(n int, rng *rand.Rand) *Simulator {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Simulator{inv: tableau.Identity(n), rng: rng}
}

// N returns the current qubit count (which grows lazily as higher indices
// are touched, see ensureQubit).
func (s *Simulator) N() int { return s.inv.N() }

func ceil256(x int) int { return (x + 255) / 256 * 256 }

// ensureQubit grows the tableau, zero-extended, so qubit q is addressable.
// Matches chp_sim.cc's ensure_large_enough_for_qubit, which rounds the new
// size up to a 256-qubit boundary rather than growing one qubit at a time.
func (s *Simulator) ensureQubit(q int) {
	if q < s.inv.N() {
		return
	}
	s.inv = s.inv.Expand(ceil256(q + 1))
}

// --- gate application ------------------------------------------------------

type gateApply func(t *tableau.Tableau, qubits []int) error

type gateSpec struct {
	arity int
	apply gateApply
}

func apply1(f func(*tableau.Tableau, int)) gateApply {
	return func(t *tableau.Tableau, q []int) error { f(t, q[0]); return nil }
}

func apply2(f func(*tableau.Tableau, int, int)) gateApply {
	return func(t *tableau.Tableau, q []int) error { f(t, q[0], q[1]); return nil }
}

func apply2err(f func(*tableau.Tableau, int, int) error) gateApply {
	return func(t *tableau.Tableau, q []int) error { return f(t, q[0], q[1]) }
}

// gateTable maps a gate's own name to the tableau update that applies it.
// Every entry applies the named gate itself to the state's tableau; the
// non-self-inverse gates (S, SQRT_X, SQRT_Y, ISWAP) and their _DAG
// partners map to mutually inverse updates.
var gateTable = map[string]gateSpec{
	"I":          {1, apply1((*tableau.Tableau).PrependI)},
	"X":          {1, apply1((*tableau.Tableau).PrependX)},
	"Y":          {1, apply1((*tableau.Tableau).PrependY)},
	"Z":          {1, apply1((*tableau.Tableau).PrependZ)},
	"H":          {1, apply1((*tableau.Tableau).PrependH)},
	"H_XY":       {1, apply1((*tableau.Tableau).PrependH_XY)},
	"H_YZ":       {1, apply1((*tableau.Tableau).PrependH_YZ)},
	"S":          {1, apply1((*tableau.Tableau).PrependS)},
	"S_DAG":      {1, apply1((*tableau.Tableau).PrependSDag)},
	"SQRT_X":     {1, apply1((*tableau.Tableau).PrependSqrtX)},
	"SQRT_X_DAG": {1, apply1((*tableau.Tableau).PrependSqrtXDag)},
	"SQRT_Y":     {1, apply1((*tableau.Tableau).PrependSqrtY)},
	"SQRT_Y_DAG": {1, apply1((*tableau.Tableau).PrependSqrtYDag)},
	"SWAP":       {2, apply2((*tableau.Tableau).PrependSWAP)},
	"CX":         {2, apply2((*tableau.Tableau).PrependCX)},
	"CNOT":       {2, apply2((*tableau.Tableau).PrependCX)},
	"CY":         {2, apply2err((*tableau.Tableau).PrependCY)},
	"CZ":         {2, apply2err((*tableau.Tableau).PrependCZ)},
	"ISWAP":      {2, apply2err((*tableau.Tableau).PrependISWAP)},
	"ISWAP_DAG":  {2, apply2err((*tableau.Tableau).PrependISWAPDag)},
	"XCX":        {2, apply2err((*tableau.Tableau).PrependXCX)},
	"XCY":        {2, apply2err((*tableau.Tableau).PrependXCY)},
	"XCZ":        {2, apply2err((*tableau.Tableau).PrependXCZ)},
	"YCX":        {2, apply2err((*tableau.Tableau).PrependYCX)},
	"YCY":        {2, apply2err((*tableau.Tableau).PrependYCY)},
	"YCZ":        {2, apply2err((*tableau.Tableau).PrependYCZ)},
}

// SupportedGates returns the names this engine can apply, sorted.
func SupportedGates() []string {
	names := make([]string, 0, len(gateTable))
	for name := range gateTable {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyGate applies the named unitary gate to the given qubits, growing the
// tableau if any target is beyond its current size.
func (s *Simulator) ApplyGate(name string, qubits []int) error {
	spec, ok := gateTable[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedOperation, name)
	}
	if len(qubits) != spec.arity {
		return pauli.ErrSizeMismatch
	}
	maxQ := 0
	for _, q := range qubits {
		if q < 0 {
			return tableau.ErrQubitOutOfRange
		}
		if q > maxQ {
			maxQ = q
		}
	}
	s.ensureQubit(maxQ)
	return spec.apply(s.inv, qubits)
}

// --- measurement ------------------------------------------------------------

// collapse runs the shared pivot-search-and-eliminate procedure for a
// computational-basis measurement of qubit target, stopping short of
// choosing the random row's final sign so both Measure (a fair coin) and
// InspectedCollapse (a caller-weighted coin) can share it.
//
// This follows the canonical Aaronson-Gottesman CHP measurement algorithm
// directly on the row-major tableau rather than reproducing
// chp_sim.cc's collapse_while_transposed (its H/H_YZ pre-rotation and
// batched multi-qubit elimination optimize for measuring many qubits in
// one pass; see DESIGN.md). It still uses the tableau's TransposedView for
// the one thing that needs it: a fast word-scan to find whether any
// stabilizer row carries X-support on target.
func (s *Simulator) collapse(target int) (pivot int, old *pauli.String, deterministicOutcome, random bool) {
	s.ensureQubit(target)
	n := s.inv.N()

	v := s.inv.Transposed()
	p, ok := v.FindSetXBit(target, n, 2*n)
	v.Release()

	if !ok {
		scratch := pauli.NewIdentity(n)
		for i := 0; i < n; i++ {
			if s.inv.D(i).XBit(target) {
				scratch.MulInto(s.inv.S(i))
			}
		}
		return 0, nil, scratch.Sign(), false
	}

	for i := 0; i < 2*n; i++ {
		if i == p {
			continue
		}
		if s.inv.Row(i).XBit(target) {
			s.inv.Row(i).MulInto(s.inv.Row(p))
		}
	}

	oldPivot := pauli.NewIdentity(n)
	oldPivot.CopyFrom(s.inv.Row(p))

	s.inv.D(p - n).CopyFrom(oldPivot)

	pr := s.inv.Row(p)
	for q := 0; q < n; q++ {
		pr.SetXBit(q, false)
		pr.SetZBit(q, q == target)
	}
	pr.SetSign(false)

	return p, oldPivot, false, true
}

// Measure performs a computational-basis measurement of qubit target,
// growing the tableau if necessary, and returns the outcome (true = |1>).
// A deterministic outcome is read off the stabilizer group; a random one
// is sampled with a fair coin.
func (s *Simulator) Measure(target int) (bool, error) {
	if target < 0 {
		return false, tableau.ErrQubitOutOfRange
	}
	pivot, _, detOutcome, random := s.collapse(target)
	if !random {
		return detOutcome, nil
	}
	outcome := s.rng.Intn(2) == 1
	s.inv.Row(pivot).SetSign(outcome)
	return outcome, nil
}

// MeasureMany measures each target in order, as independent calls to
// Measure.
func (s *Simulator) MeasureMany(targets []int) ([]bool, error) {
	out := make([]bool, len(targets))
	for i, q := range targets {
		outcome, err := s.Measure(q)
		if err != nil {
			return nil, err
		}
		out[i] = outcome
	}
	return out, nil
}

// InspectedCollapse performs the same measurement as Measure, but for a
// random outcome samples with a caller-provided Bernoulli bias (the
// probability of observing true) instead of a fair coin, and also reports
// the destabilizer — the Pauli string that generated the post-measurement
// coset, i.e. the stabilizer row as it stood immediately before being
// overwritten. A deterministic outcome produces no destabilizer (the
// stabilizer group already fixed the qubit's value, so no new generator is
// introduced) and the returned Sparse is the empty identity.
func (s *Simulator) InspectedCollapse(target int, bias float64) (bool, pauli.Sparse, error) {
	if target < 0 {
		return false, pauli.Sparse{}, tableau.ErrQubitOutOfRange
	}
	if math.IsNaN(bias) || bias < 0 || bias > 1 {
		return false, pauli.Sparse{}, ErrInvalidBias
	}
	pivot, old, detOutcome, random := s.collapse(target)
	if !random {
		return detOutcome, pauli.Sparse{}, nil
	}
	outcome := s.rng.Float64() < bias
	s.inv.Row(pivot).SetSign(outcome)
	return outcome, old.Sparse(), nil
}

// Reset forces qubit target to |0>, measuring it and applying X if the
// outcome was |1>.
func (s *Simulator) Reset(target int) error {
	outcome, err := s.Measure(target)
	if err != nil {
		return err
	}
	if outcome {
		if err := s.ApplyGate("X", []int{target}); err != nil {
			return err
		}
	}
	return nil
}

// ResetMany resets each target in order.
func (s *Simulator) ResetMany(targets []int) error {
	for _, q := range targets {
		if err := s.Reset(q); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns an independent simulator over the same state, for callers
// that need to destructively inspect a state (e.g. by measuring every
// qubit) without disturbing the original. A nil rng gets the same
// fixed-seed default as NewSimulator.
func (s *Simulator) Clone(rng *rand.Rand) *Simulator {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Simulator{inv: s.inv.Clone(), rng: rng}
}

// Stabilizers returns the n generators of the state's stabilizer group, as
// signed sparse Pauli strings over the current qubit count, read directly
// off the tableau's stabilizer rows.
func (s *Simulator) Stabilizers() []pauli.Sparse {
	n := s.inv.N()
	out := make([]pauli.Sparse, n)
	for k := 0; k < n; k++ {
		out[k] = s.inv.S(k).Sparse()
	}
	return out
}
