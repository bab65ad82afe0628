package chp

import (
	"math/rand"
	"testing"

	"github.com/cliffsim/cliffsim/stab/tableau"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeasureFreshQubitIsDeterministicZero(t *testing.T) {
	for seed := int64(0); seed < 5; seed++ {
		sim := NewSimulator(3, rand.New(rand.NewSource(seed)))
		outcome, err := sim.Measure(1)
		require.NoError(t, err)
		assert.False(t, outcome)
	}
}

func TestXThenMeasureIsDeterministicOne(t *testing.T) {
	sim := NewSimulator(2, rand.New(rand.NewSource(1)))
	require.NoError(t, sim.ApplyGate("X", []int{0}))
	outcome, err := sim.Measure(0)
	require.NoError(t, err)
	assert.True(t, outcome)
}

func TestRepeatedMeasurementOfSameQubitIsConsistent(t *testing.T) {
	sim := NewSimulator(1, rand.New(rand.NewSource(3)))
	require.NoError(t, sim.ApplyGate("H", []int{0}))
	first, err := sim.Measure(0)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := sim.Measure(0)
		require.NoError(t, err)
		assert.Equal(t, first, again, "collapsed qubit must read the same value every time")
	}
}

func TestResetForcesZero(t *testing.T) {
	for seed := int64(0); seed < 5; seed++ {
		sim := NewSimulator(1, rand.New(rand.NewSource(seed)))
		require.NoError(t, sim.ApplyGate("H", []int{0}))
		require.NoError(t, sim.Reset(0))
		outcome, err := sim.Measure(0)
		require.NoError(t, err)
		assert.False(t, outcome)
	}
}

func TestApplyGateGrowsTableauLazily(t *testing.T) {
	sim := NewSimulator(1, rand.New(rand.NewSource(1)))
	require.NoError(t, sim.ApplyGate("X", []int{300}))
	assert.GreaterOrEqual(t, sim.N(), 301)
	outcome, err := sim.Measure(300)
	require.NoError(t, err)
	assert.True(t, outcome)
}

func TestApplyGateRejectsUnknownGate(t *testing.T) {
	sim := NewSimulator(2, rand.New(rand.NewSource(1)))
	err := sim.ApplyGate("TOFFOLI", []int{0, 1, 2})
	assert.ErrorIs(t, err, ErrUnsupportedOperation)
}

func TestApplyGateRejectsArityMismatch(t *testing.T) {
	sim := NewSimulator(2, rand.New(rand.NewSource(1)))
	err := sim.ApplyGate("H", []int{0, 1})
	assert.Error(t, err)
}

func TestApplyGateRejectsNegativeQubit(t *testing.T) {
	sim := NewSimulator(2, rand.New(rand.NewSource(1)))
	err := sim.ApplyGate("H", []int{-1})
	assert.ErrorIs(t, err, tableau.ErrQubitOutOfRange)
}

func TestInspectedCollapseRejectsInvalidBias(t *testing.T) {
	sim := NewSimulator(1, rand.New(rand.NewSource(1)))
	_, _, err := sim.InspectedCollapse(0, -0.1)
	assert.ErrorIs(t, err, ErrInvalidBias)

	_, _, err = sim.InspectedCollapse(0, 1.1)
	assert.ErrorIs(t, err, ErrInvalidBias)
}

func TestInspectedCollapseDeterministicCaseReturnsEmptyDestabilizer(t *testing.T) {
	sim := NewSimulator(1, rand.New(rand.NewSource(1)))
	outcome, destab, err := sim.InspectedCollapse(0, 0.5)
	require.NoError(t, err)
	assert.False(t, outcome)
	assert.False(t, destab.Sign)
	assert.Empty(t, destab.Terms)
}

func TestSupportedGatesListsCliffordCatalogue(t *testing.T) {
	names := SupportedGates()
	for _, want := range []string{"H", "S", "CX", "CZ", "CY", "SWAP", "ISWAP"} {
		assert.Contains(t, names, want)
	}
	assert.NotContains(t, names, "TOFFOLI")
}
