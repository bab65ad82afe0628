package gate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinGates(t *testing.T) {
	tests := []struct {
		name       string
		gate       Gate
		wantName   string
		wantSpan   int
		wantSymbol string
		wantTgts   []int
		wantCtrls  []int
	}{
		{"Hadamard", H(), "H", 1, "H", []int{0}, []int{}},
		{"PauliX", X(), "X", 1, "X", []int{0}, []int{}},
		{"PhaseS", S(), "S", 1, "S", []int{0}, []int{}},
		{"Measure", Measure(), "MEASURE", 1, "M", []int{0}, []int{}},
		{"SWAP", Swap(), "SWAP", 2, "×", []int{0, 1}, []int{}},
		{"CNOT", CNOT(), "CNOT", 2, "⊕", []int{1}, []int{0}},             // Target=1, Control=0
		{"CZ", CZ(), "CZ", 2, "●", []int{1}, []int{0}},                   // Added CZ test case
		{"Toffoli", Toffoli(), "TOFFOLI", 3, "T", []int{2}, []int{0, 1}}, // Target=2, Controls=0,1
		{"Fredkin", Fredkin(), "FREDKIN", 3, "F", []int{1, 2}, []int{0}}, // Targets=1,2, Control=0
		{"H_XY", H_XY(), "H_XY", 1, "Hxy", []int{0}, []int{}},
		{"H_YZ", H_YZ(), "H_YZ", 1, "Hyz", []int{0}, []int{}},
		{"PauliY", Y(), "Y", 1, "Y", []int{0}, []int{}},
		{"PauliZ", Z(), "Z", 1, "Z", []int{0}, []int{}},
		{"SDag", SDag(), "S_DAG", 1, "S†", []int{0}, []int{}},
		{"SqrtX", SqrtX(), "SQRT_X", 1, "√X", []int{0}, []int{}},
		{"SqrtXDag", SqrtXDag(), "SQRT_X_DAG", 1, "√X†", []int{0}, []int{}},
		{"SqrtY", SqrtY(), "SQRT_Y", 1, "√Y", []int{0}, []int{}},
		{"SqrtYDag", SqrtYDag(), "SQRT_Y_DAG", 1, "√Y†", []int{0}, []int{}},
		{"Reset", Reset(), "R", 1, "R", []int{0}, []int{}},
		{"CY", CY(), "CY", 2, "●Y", []int{1}, []int{0}},
		{"ISWAP", ISWAP(), "ISWAP", 2, "i×", []int{0, 1}, []int{}},
		{"ISWAPDag", ISWAPDag(), "ISWAP_DAG", 2, "i×†", []int{0, 1}, []int{}},
		{"XCX", XCX(), "XCX", 2, "XCX", []int{0, 1}, []int{}},
		{"XCY", XCY(), "XCY", 2, "XCY", []int{0, 1}, []int{}},
		{"XCZ", XCZ(), "XCZ", 2, "XCZ", []int{1}, []int{0}},
		{"YCX", YCX(), "YCX", 2, "YCX", []int{1}, []int{0}},
		{"YCY", YCY(), "YCY", 2, "YCY", []int{0, 1}, []int{}},
		{"YCZ", YCZ(), "YCZ", 2, "YCZ", []int{1}, []int{0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert := assert.New(t)
			assert.Equal(tt.wantName, tt.gate.Name(), "Name mismatch")
			assert.Equal(tt.wantSpan, tt.gate.QubitSpan(), "QubitSpan mismatch")
			assert.Equal(tt.wantSymbol, tt.gate.DrawSymbol(), "DrawSymbol mismatch")
			assert.Equal(tt.wantTgts, tt.gate.Targets(), "Targets mismatch")
			assert.Equal(tt.wantCtrls, tt.gate.Controls(), "Controls mismatch")
		})
	}
}

func TestFactory(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	testCases := []struct {
		alias    string
		expected Gate
	}{
		{"h", H()},
		{" H ", H()}, // Test trimming/normalization
		{"x", X()},
		{"s", S()},
		{"swap", Swap()},
		{"SWAP", Swap()},
		{"cx", CNOT()},
		{"cnot", CNOT()},
		{"CNOT", CNOT()},
		{"cz", CZ()}, // Added CZ alias test
		{"CZ", CZ()}, // Added CZ alias test (uppercase)
		{"t", Toffoli()},
		{"toffoli", Toffoli()},
		{"ccx", Toffoli()},
		{"fredkin", Fredkin()},
		{"cswap", Fredkin()},
		{"m", Measure()},
		{"measure", Measure()},
		{"meas", Measure()},
		{"r", Reset()},
		{"reset", Reset()},
		{"h_xy", H_XY()},
		{"hxy", H_XY()},
		{"h_yz", H_YZ()},
		{"hyz", H_YZ()},
		{"y", Y()},
		{"z", Z()},
		{"s_dag", SDag()},
		{"sdag", SDag()},
		{"sqrt_x", SqrtX()},
		{"sqrtx", SqrtX()},
		{"sqrt_x_dag", SqrtXDag()},
		{"sqrtxdag", SqrtXDag()},
		{"sqrt_y", SqrtY()},
		{"sqrty", SqrtY()},
		{"sqrt_y_dag", SqrtYDag()},
		{"sqrtydag", SqrtYDag()},
		{"cy", CY()},
		{"iswap", ISWAP()},
		{"iswap_dag", ISWAPDag()},
		{"iswapdag", ISWAPDag()},
		{"xcx", XCX()},
		{"xcy", XCY()},
		{"xcz", XCZ()},
		{"ycx", YCX()},
		{"ycy", YCY()},
		{"ycz", YCZ()},
	}

	for _, tc := range testCases {
		t.Run("Alias_"+tc.alias, func(t *testing.T) {
			g, err := Factory(tc.alias)
			require.NoError(err, "Factory failed for alias: %s", tc.alias)
			// Check for tc.expected is the same singleton as g
			assert.Same(tc.expected, g, "Factory should return singleton instance for alias: %s", tc.alias)
		})
	}

	// Test unknown gate
	unknownName := "unknown_gate"
	g, err := Factory(unknownName)
	assert.Nil(g, "Factory should return nil for unknown gate")
	require.Error(err, "Factory should return error for unknown gate")
	assert.ErrorIs(err, ErrUnknownGate{unknownName}, "Error type should be ErrUnknownGate")
	assert.Contains(err.Error(), unknownName, "Error message should contain the unknown name")
}

// TestInverseOfIsSymmetric confirms every mapped pair points back at each
// other, since stab/chp's gate table relies on that symmetry to prepend
// the correct inverse regardless of which half of a pair is applied.
func TestInverseOfIsSymmetric(t *testing.T) {
	for name, inv := range InverseOf {
		assert.Equal(t, name, InverseOf[inv], "InverseOf[%s]=%s must map back to %s", name, inv, name)
	}
}

// Test Factory with a non-existent gate
func TestFactory_NonExistentGate(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	// A name that is not in the catalogue
	nonExistentGate := "nonExistent_gate"
	g, err := Factory(nonExistentGate)
	assert.Nil(g, "Factory should return nil for non-existent gate")
	require.Error(err, "Factory should return error for non-existent gate")
	assert.ErrorIs(err, ErrUnknownGate{nonExistentGate}, "Error type should be ErrUnknownGate")
	assert.Contains(err.Error(), nonExistentGate, "Error message should contain the non-existent gate name")
}
