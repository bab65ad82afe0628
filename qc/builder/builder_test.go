package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFluentCliffordCircuitBuilds(t *testing.T) {
	b := New(Q(3), C(3))
	b.H(0).H_XY(1).H_YZ(2).
		S(0).SDag(1).SqrtX(2).SqrtXDag(0).SqrtY(1).SqrtYDag(2).
		CNOT(0, 1).CZ(1, 2).CY(2, 0).
		SWAP(0, 1).ISWAP(1, 2).ISWAPDag(2, 0).
		XCX(0, 1).XCY(1, 2).XCZ(2, 0).YCX(0, 1).YCY(1, 2).YCZ(2, 0).
		Reset(0).
		Measure(0, 0).Measure(1, 1).Measure(2, 2)

	c, err := b.BuildCircuit()
	require.NoError(t, err)
	assert.Equal(t, 3, c.Qubits())
	assert.Equal(t, 3, c.Clbits())
	assert.NotEmpty(t, c.Operations())
}

func TestToffoliAndFredkinRequireThreeQubits(t *testing.T) {
	b := New(Q(3), C(3))
	b.Toffoli(0, 1, 2).Fredkin(0, 1, 2).Measure(0, 0)

	c, err := b.BuildCircuit()
	require.NoError(t, err)
	assert.Len(t, c.Operations(), 3)
}

func TestBuildCircuitFailsOnOutOfRangeQubit(t *testing.T) {
	b := New(Q(1), C(1))
	b.H(5)

	_, err := b.BuildCircuit()
	assert.Error(t, err)
}

func TestBuilderIsInertAfterFirstError(t *testing.T) {
	b := New(Q(1), C(1))
	b.H(5).X(0).Measure(0, 0)

	_, err := b.BuildCircuit()
	assert.Error(t, err, "the out-of-range H should latch an error that later calls don't clear")
}

func TestBuildDAGCannotBeCalledTwice(t *testing.T) {
	b := New(Q(1), C(1))
	b.H(0).Measure(0, 0)

	_, err := b.BuildDAG()
	require.NoError(t, err)

	_, err = b.BuildDAG()
	assert.Error(t, err)
}

func TestDefaultQubitsIsOne(t *testing.T) {
	b := New(C(1))
	b.Measure(0, 0)
	c, err := b.BuildCircuit()
	require.NoError(t, err)
	assert.Equal(t, 1, c.Qubits())
}
