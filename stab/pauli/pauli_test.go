package pauli

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromStringRoundTrip(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	p, err := FromString("-XYZ_")
	require.NoError(err)
	assert.Equal(4, p.N())
	assert.True(p.Sign())
	assert.True(p.XBit(0))
	assert.False(p.ZBit(0))
	assert.True(p.XBit(1))
	assert.True(p.ZBit(1))
	assert.False(p.XBit(2))
	assert.True(p.ZBit(2))
	assert.False(p.XBit(3))
	assert.False(p.ZBit(3))
	assert.Equal("-XYZ_", p.String())
}

func TestFromStringRejectsGarbage(t *testing.T) {
	_, err := FromString("+XQZ")
	assert.ErrorIs(t, err, ErrMalformedPauliString)

	_, err = FromString("")
	assert.ErrorIs(t, err, ErrMalformedPauliString)
}

func TestSparseRoundTrip(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	sp, err := ParseSparse("-X0*Y3*Z17")
	require.NoError(err)
	assert.True(sp.Sign)
	require.Len(sp.Terms, 3)
	assert.Equal(Term{0, 'X'}, sp.Terms[0])
	assert.Equal(Term{3, 'Y'}, sp.Terms[1])
	assert.Equal(Term{17, 'Z'}, sp.Terms[2])
	assert.Equal("-X0*Y3*Z17", sp.String())

	dense, err := sp.Dense(20)
	require.NoError(err)
	assert.Equal(20, dense.N())
	assert.True(dense.Sign())
	assert.True(dense.XBit(0))
	assert.False(dense.ZBit(0))
	assert.True(dense.XBit(3))
	assert.True(dense.ZBit(3))
	assert.False(dense.XBit(17))
	assert.True(dense.ZBit(17))
	assert.Equal(sp, dense.Sparse())
}

func TestSparseIdentity(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	sp, err := ParseSparse("+I")
	require.NoError(err)
	assert.False(sp.Sign)
	assert.Empty(sp.Terms)
	assert.Equal("+I", sp.String())

	dense, err := sp.Dense(5)
	require.NoError(err)
	assert.Equal("+_____", dense.String())
}

func TestSparseOutOfRange(t *testing.T) {
	sp, err := ParseSparse("+X5")
	require.NoError(t, err)
	_, err = sp.Dense(5)
	assert.ErrorIs(t, err, ErrQubitOutOfRange)
}

func TestMulIdentityIsNoOp(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	p, err := FromString("+XYZ")
	require.NoError(err)
	id := NewIdentity(3)
	require.NoError(p.MulInto(id))
	assert.Equal("+XYZ", p.String())
}

func TestMulXZIsIYWithSign(t *testing.T) {
	// X * Z = -iY, so left-multiplying X by Z and discarding global phase
	// beyond sign leaves the Y bit pattern; sign tracking is checked via
	// self-consistency: (XZ)(XZ)^-1-style round trips below exercise it
	// more directly.
	require := require.New(t)

	x, err := FromString("+X")
	require.NoError(err)
	z, err := FromString("+Z")
	require.NoError(err)

	require.NoError(x.MulInto(z))
	assert.Equal(t, byte('Y'), letterFor(x.XBit(0), x.ZBit(0)))
}

func TestMulSelfInverseCancelsToIdentity(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	rng := rand.New(rand.NewSource(1))
	p := Random(12, rng)
	q := NewIdentity(12)
	q.CopyFrom(p)

	require.NoError(p.MulInto(q))
	for i := 0; i < 12; i++ {
		assert.False(p.XBit(i))
		assert.False(p.ZBit(i))
	}
	assert.False(p.Sign())
}

func TestCommutesSameString(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	p := Random(8, rng)
	assert.True(t, p.Commutes(p))
}

func TestCommutesXZAntiCommute(t *testing.T) {
	x, err := FromString("+X")
	require.NoError(t, err)
	z, err := FromString("+Z")
	require.NoError(t, err)
	assert.False(t, x.Commutes(z))
}

func TestCommutesDisjointQubitsCommute(t *testing.T) {
	a, err := FromString("+X_")
	require.NoError(t, err)
	b, err := FromString("+_Z")
	require.NoError(t, err)
	assert.True(t, a.Commutes(b))
}

func TestUnsignedConjugateByHSwapsXZ(t *testing.T) {
	p, err := FromString("+X")
	require.NoError(t, err)
	p.UnsignedConjugateByH(0)
	assert.Equal(t, byte('Z'), letterFor(p.XBit(0), p.ZBit(0)))
}

func TestUnsignedConjugateBySWAPExchangesQubits(t *testing.T) {
	p, err := FromString("+XZ")
	require.NoError(t, err)
	p.UnsignedConjugateBySWAP(0, 1)
	assert.Equal(t, "+ZX", p.String())
}

func TestGatherScatterRoundTrip(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	p, err := FromString("+_X_Z__Y")
	require.NoError(err)

	sub := NewIdentity(3)
	require.NoError(p.GatherInto(sub, []int{1, 3, 6}))
	assert.Equal("+XZY", sub.String())

	out := NewIdentity(7)
	require.NoError(sub.ScatterInto(out, []int{1, 3, 6}))
	assert.Equal(p.String(), out.String())
}

func TestViewAliasesBackingStorage(t *testing.T) {
	assert := assert.New(t)

	xWords := make([]uint64, 4)
	zWords := make([]uint64, 4)
	signs := make([]uint64, 1)

	v := NewView(20, xWords, zWords, signs, 3)
	v.SetXBit(5, true)
	v.ToggleSign()

	assert.True((xWords[0]>>5)&1 == 1)
	assert.True((signs[0]>>3)&1 == 1)
}

func TestRandomProducesValidTailPadding(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	p := Random(5, rng)
	// out-of-range bits must be fully masked so a later MulInto against a
	// wider string can't pick up garbage beyond n.
	for i := 5; i < len(p.x)*64; i++ {
		assert.False(t, p.XBit(i))
		assert.False(t, p.ZBit(i))
	}
}
