package stab

import (
	"sort"
	"testing"

	"github.com/cliffsim/cliffsim/qc/builder"
	"github.com/cliffsim/cliffsim/qc/simulator"
	"github.com/cliffsim/cliffsim/qc/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func New(shots int) *simulator.Simulator {
	return simulator.NewSimulator(simulator.SimulatorOptions{
		Shots:  shots,
		Runner: NewStabOneShotRunner(),
	})
}

func pretty(t *testing.T, hist map[string]int, shots int) {
	keys := make([]string, 0, len(hist))
	for k := range hist {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	t.Log("Histogram (key : count / %):")
	for _, k := range keys {
		c := hist[k]
		pct := 100 * float64(c) / float64(shots)
		t.Logf("  %s : %4d (%.1f%%)", k, c, pct)
	}
}

// TestBellState prepares the |Φ⁺⟩ Bell state and checks ~50/50 statistics,
// same circuit itsu's own test runs, on the polynomial-time backend.
func TestBellState(t *testing.T) {
	shots := 1024
	c := testutil.NewBellStateCircuit(t)

	sim := New(shots)
	hist, err := sim.Run(c)
	require.NoError(t, err)

	pretty(t, hist, shots)

	assert.InDelta(t, 0.5, float64(hist["00"])/float64(shots), 0.1)
	assert.InDelta(t, 0.5, float64(hist["11"])/float64(shots), 0.1)
	assert.Equal(t, 0, hist["01"], "unexpected outcome 01")
	assert.Equal(t, 0, hist["10"], "unexpected outcome 10")
}

// TestGHZState extends the Bell pair to three qubits, a circuit the dense
// itsu backend can also run but that actually shows off the stabilizer
// engine's polynomial scaling.
func TestGHZState(t *testing.T) {
	shots := 512
	c := testutil.NewGHZCircuit(t, 3)

	sim := New(shots)
	hist, err := sim.Run(c)
	require.NoError(t, err)

	pretty(t, hist, shots)

	assert.InDelta(t, 0.5, float64(hist["000"])/float64(shots), 0.1)
	assert.InDelta(t, 0.5, float64(hist["111"])/float64(shots), 0.1)
	for outcome, count := range hist {
		if outcome != "000" && outcome != "111" {
			assert.Equal(t, 0, count, "unexpected outcome %s", outcome)
		}
	}
}

// TestResetThenMeasureIsDeterministic exercises R, which the JSON/op-stream
// front ends both expose but the dense backend's gate catalogue doesn't.
func TestResetThenMeasureIsDeterministic(t *testing.T) {
	b := builder.New(builder.Q(1), builder.C(1))
	b.X(0).Reset(0).Measure(0, 0)

	c, err := b.BuildCircuit()
	require.NoError(t, err)

	sim := New(256)
	hist, err := sim.Run(c)
	require.NoError(t, err)

	assert.Equal(t, 256, hist["0"])
}

// TestValidateCircuitRejectsNonCliffordGate confirms the Toffoli gate the
// dense backend accepts is refused here, matching chp's own Clifford-only
// guarantee.
func TestValidateCircuitRejectsNonCliffordGate(t *testing.T) {
	b := builder.New(builder.Q(3), builder.C(3))
	b.Toffoli(0, 1, 2).Measure(0, 0).Measure(1, 1).Measure(2, 2)

	c, err := b.BuildCircuit()
	require.NoError(t, err)

	runner := NewStabOneShotRunner()
	err = runner.ValidateCircuit(c)
	assert.Error(t, err)
}
