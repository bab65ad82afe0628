// Package crosscheck realizes the independent-oracle conversion hook a
// stabilizer simulator owes its users: a way to turn the compact tableau
// representation into the dense object (a statevector, or a distribution
// sampled by a completely different engine) that a test can check a
// stabilizer-only claim against.
//
// ToStatevector builds the former by the textbook projector construction
// (see original_source/chp_sim.cc's to_vector_sim, which does the same
// thing in terms of a VectorSim this pack's excerpt doesn't include the
// source for). Compare builds the latter by running the same circuit
// through github.com/itsubaki/q, the dense engine this repository already
// ships as the qc/simulator/itsu backend, and diffing empirical outcome
// distributions — the two together are the "independent oracle beyond the
// stabilizer formalism itself" the component design calls for.
package crosscheck

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
	"math/rand"

	"github.com/cliffsim/cliffsim/qc/circuit"
	"github.com/cliffsim/cliffsim/qc/simulator/itsu"
	"github.com/cliffsim/cliffsim/qc/simulator/stab"
	"github.com/cliffsim/cliffsim/stab/chp"
	"github.com/cliffsim/cliffsim/stab/pauli"
)

// ErrTooManyQubits guards ToStatevector against allocating an
// infeasible 2^n-entry array for a circuit sized for the polynomial-time
// engine but not for a dense one.
var ErrTooManyQubits = errors.New("crosscheck: qubit count too large for dense statevector construction")

// ErrVanishingState signals an internal inconsistency: the sampled basis
// state used to seed the projector construction turned out to have zero
// overlap with the state's own stabilizer group, which should not happen
// for a correctly sampled basis state.
var ErrVanishingState = errors.New("crosscheck: projected state vanished")

// maxDenseQubits bounds the statevector ToStatevector will build: 2^20
// complex128 entries is 16MiB, comfortable; a few qubits further and it
// is not.
const maxDenseQubits = 20

// ToStatevector builds the 2^n-entry dense statevector that sim's current
// stabilizer state represents, up to global phase.
//
// The construction samples one computational basis state consistent with
// sim's own Born-rule measurement statistics (via a throwaway Clone, so
// sim itself is left untouched), then sequentially projects that basis
// state onto the +1 eigenspace of each of the n stabilizer generators,
// renormalizing after each step. Because the sampled basis state is drawn
// from the real distribution, it is guaranteed to have nonzero overlap
// with the state the generators describe, which a fixed starting vector
// (e.g. a uniform superposition) is not: the all-"-X" stabilizer state is
// orthogonal to the uniform superposition entirely.
func ToStatevector(sim *chp.Simulator) ([]complex128, error) {
	n := sim.N()
	if n > maxDenseQubits {
		return nil, fmt.Errorf("%w: %d qubits", ErrTooManyQubits, n)
	}

	sample := sim.Clone(rand.New(rand.NewSource(rand.Int63())))
	targets := make([]int, n)
	for i := range targets {
		targets[i] = i
	}
	bits, err := sample.MeasureMany(targets)
	if err != nil {
		return nil, fmt.Errorf("crosscheck: sampling a basis state: %w", err)
	}

	dim := 1 << n
	state := make([]complex128, dim)
	idx := 0
	for i, b := range bits {
		if b {
			idx |= 1 << i
		}
	}
	state[idx] = 1

	for _, sp := range sim.Stabilizers() {
		state = project(state, sp)
		if err := normalize(state); err != nil {
			return nil, err
		}
	}
	return state, nil
}

// Probabilities reduces a ToStatevector result to a measurement
// distribution over little-endian bitstrings (qubit 0 is the first
// character), the form tests usually want to assert against.
func Probabilities(state []complex128) map[string]float64 {
	n := 0
	for 1<<n < len(state) {
		n++
	}
	out := make(map[string]float64)
	for idx, amp := range state {
		p := real(amp)*real(amp) + imag(amp)*imag(amp)
		if p < 1e-12 {
			continue
		}
		bits := make([]byte, n)
		for i := range bits {
			if idx&(1<<i) != 0 {
				bits[i] = '1'
			} else {
				bits[i] = '0'
			}
		}
		out[string(bits)] = p
	}
	return out
}

// project applies the mixed unitary-and-projection operator (I + P)/2 for
// the Pauli P described by sp.
func project(state []complex128, sp pauli.Sparse) []complex128 {
	applied := applyPauli(state, sp)
	out := make([]complex128, len(state))
	for i := range state {
		out[i] = (state[i] + applied[i]) / 2
	}
	return out
}

// applyPauli returns P|state>, for P the (possibly signed) tensor product
// of single-qubit Pauli operators described by sp. X and Y act by
// flipping their qubit's bit in the basis index; Z and Y contribute a
// phase determined by the bit's original value.
func applyPauli(state []complex128, sp pauli.Sparse) []complex128 {
	out := make([]complex128, len(state))
	xmask := 0
	for _, t := range sp.Terms {
		if t.Pauli == 'X' || t.Pauli == 'Y' {
			xmask |= 1 << t.Index
		}
	}
	sign := complex(1, 0)
	if sp.Sign {
		sign = -1
	}
	for idx, amp := range state {
		if amp == 0 {
			continue
		}
		mult := sign
		for _, t := range sp.Terms {
			bit := (idx >> t.Index) & 1
			switch t.Pauli {
			case 'Z':
				if bit == 1 {
					mult = -mult
				}
			case 'Y':
				if bit == 0 {
					mult *= complex(0, 1)
				} else {
					mult *= complex(0, -1)
				}
			}
		}
		out[idx^xmask] += mult * amp
	}
	return out
}

func normalize(state []complex128) error {
	var sumSq float64
	for _, a := range state {
		m := cmplx.Abs(a)
		sumSq += m * m
	}
	norm := math.Sqrt(sumSq)
	if norm < 1e-12 {
		return ErrVanishingState
	}
	for i := range state {
		state[i] /= complex(norm, 0)
	}
	return nil
}

// Report summarizes a differential run of the same circuit against both
// the stabilizer engine and the dense itsubaki/q oracle.
type Report struct {
	Shots          int
	StabCounts     map[string]int
	ItsuCounts     map[string]int
	TotalVariation float64
}

// Compare runs c for shots executions on both qc/simulator/stab and
// qc/simulator/itsu and reports the total variation distance between
// their empirical outcome distributions — the two backends are expected
// to agree on every circuit within itsu's own supported gate set, so a
// large distance indicates a real divergence rather than a Clifford-only
// limitation.
func Compare(c circuit.Circuit, shots int) (*Report, error) {
	if shots <= 0 {
		return nil, fmt.Errorf("crosscheck: shots must be positive, got %d", shots)
	}

	stabRunner := stab.NewStabOneShotRunner()
	itsuRunner := itsu.NewItsuOneShotRunner()

	if err := stabRunner.ValidateCircuit(c); err != nil {
		return nil, fmt.Errorf("crosscheck: circuit not valid for stabilizer backend: %w", err)
	}
	if err := itsuRunner.ValidateCircuit(c); err != nil {
		return nil, fmt.Errorf("crosscheck: circuit not valid for dense oracle: %w", err)
	}

	stabResults, err := stabRunner.RunBatch(c, shots)
	if err != nil {
		return nil, fmt.Errorf("crosscheck: stabilizer backend: %w", err)
	}
	itsuResults, err := itsuRunner.RunBatch(c, shots)
	if err != nil {
		return nil, fmt.Errorf("crosscheck: dense oracle: %w", err)
	}

	report := &Report{
		Shots:      shots,
		StabCounts: tally(stabResults),
		ItsuCounts: tally(itsuResults),
	}
	report.TotalVariation = totalVariation(report.StabCounts, report.ItsuCounts, shots)
	return report, nil
}

func tally(results []string) map[string]int {
	counts := make(map[string]int, len(results))
	for _, r := range results {
		counts[r]++
	}
	return counts
}

func totalVariation(a, b map[string]int, shots int) float64 {
	keys := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		keys[k] = struct{}{}
	}
	for k := range b {
		keys[k] = struct{}{}
	}
	var total float64
	for k := range keys {
		pa := float64(a[k]) / float64(shots)
		pb := float64(b[k]) / float64(shots)
		diff := pa - pb
		if diff < 0 {
			diff = -diff
		}
		total += diff
	}
	return total / 2
}
