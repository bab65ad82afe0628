package crosscheck

import (
	"math/rand"
	"testing"

	"github.com/cliffsim/cliffsim/qc/testutil"
	"github.com/cliffsim/cliffsim/stab/chp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToStatevectorZeroState(t *testing.T) {
	sim := chp.NewSimulator(1, rand.New(rand.NewSource(1)))
	state, err := ToStatevector(sim)
	require.NoError(t, err)
	require.Len(t, state, 2)
	assert.InDelta(t, 1, real(state[0])*real(state[0])+imag(state[0])*imag(state[0]), 1e-9)
	assert.InDelta(t, 0, real(state[1])*real(state[1])+imag(state[1])*imag(state[1]), 1e-9)
}

func TestToStatevectorBellPair(t *testing.T) {
	sim := chp.NewSimulator(2, rand.New(rand.NewSource(1)))
	require.NoError(t, sim.ApplyGate("H", []int{0}))
	require.NoError(t, sim.ApplyGate("CNOT", []int{0, 1}))

	state, err := ToStatevector(sim)
	require.NoError(t, err)

	probs := Probabilities(state)
	assert.Len(t, probs, 2)
	for bits, p := range probs {
		assert.Contains(t, []string{"00", "11"}, bits)
		assert.InDelta(t, 0.5, p, 1e-9)
	}
}

func TestToStatevectorMinusZState(t *testing.T) {
	// X prepares |1>, whose stabilizer is -Z; the generator's sign has to
	// carry through to the statevector.
	sim := chp.NewSimulator(1, rand.New(rand.NewSource(1)))
	require.NoError(t, sim.ApplyGate("X", []int{0}))

	state, err := ToStatevector(sim)
	require.NoError(t, err)
	probs := Probabilities(state)
	assert.InDelta(t, 1.0, probs["1"], 1e-9)
}

func TestCompareBellPairAgreesAcrossBackends(t *testing.T) {
	c := testutil.NewBellStateCircuit(t)

	report, err := Compare(c, 200)
	require.NoError(t, err)
	assert.Less(t, report.TotalVariation, 0.25)
}

func TestCompareGHZAgreesAcrossBackends(t *testing.T) {
	c := testutil.NewGHZCircuit(t, 3)

	report, err := Compare(c, 200)
	require.NoError(t, err)
	assert.Less(t, report.TotalVariation, 0.25)
}
