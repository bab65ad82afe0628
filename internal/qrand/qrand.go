// Package qrand seeds math/rand sources from genuine quantum randomness
// instead of wall-clock time, using github.com/itsubaki/q's statevector
// simulator to produce fair coin flips via repeated H-then-measure.
package qrand

import "github.com/itsubaki/q"

// QuantumSeed returns a 63-bit non-negative seed built from 63
// independent quantum coin flips, one bit at a time: prepare |0>, apply
// H, measure. Suitable for seeding math/rand.NewSource when a caller
// wants reproducibility to not matter but still wants a seed that isn't
// derived from the clock (every stab/chp.Simulator and
// qc/simulator/stab.StabOneShotRunner ultimately need one such seed).
func QuantumSeed() int64 {
	var seed int64
	for i := 0; i < 63; i++ {
		sim := q.New()
		qb := sim.Zero()
		sim.H(qb)
		if sim.Measure(qb).IsOne() {
			seed |= 1 << uint(i)
		}
	}
	return seed
}
