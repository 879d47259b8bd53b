package config

import (
	"math"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnsignedCheckedArithmetic(t *testing.T) {
	ops := Uint8{}

	sum, ok := ops.CheckedAdd(200, 55)
	assert.True(t, ok)
	assert.Equal(t, uint8(255), sum)

	_, ok = ops.CheckedAdd(200, 56)
	assert.False(t, ok)

	diff, ok := ops.CheckedSub(10, 10)
	assert.True(t, ok)
	assert.Equal(t, uint8(0), diff)

	_, ok = ops.CheckedSub(10, 11)
	assert.False(t, ok)

	assert.Equal(t, uint8(0), ops.WrappingAdd(math.MaxUint8, ops.One()))
	assert.Equal(t, -1, ops.Cmp(ops.Zero(), ops.One()))
}

func TestUnsignedParse(t *testing.T) {
	v, err := Uint64{}.Parse("1_000_000")
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_000), v)
	assert.Equal(t, "1000000", Uint64{}.Format(v))

	_, err = Uint8{}.Parse("256")
	assert.Error(t, err)

	_, err = Uint32{}.Parse("-1")
	assert.Error(t, err)
}

func TestU256CheckedArithmetic(t *testing.T) {
	ops := U256{}
	maxValue := *new(uint256.Int).SetAllOne()

	_, ok := ops.CheckedAdd(maxValue, ops.One())
	assert.False(t, ok)

	_, ok = ops.CheckedSub(ops.Zero(), ops.One())
	assert.False(t, ok)

	sum, ok := ops.CheckedAdd(*uint256.NewInt(40), *uint256.NewInt(2))
	require.True(t, ok)
	assert.Equal(t, "42", ops.Format(sum))

	assert.Equal(t, ops.Zero(), ops.WrappingAdd(maxValue, ops.One()))
	assert.Equal(t, 1, ops.Cmp(maxValue, ops.Zero()))
}

func TestU256ValuesDoNotAlias(t *testing.T) {
	ops := U256{}
	a := *uint256.NewInt(7)
	b, ok := ops.CheckedAdd(a, ops.One())
	require.True(t, ok)

	assert.Equal(t, "7", ops.Format(a))
	assert.Equal(t, "8", ops.Format(b))
}

func TestU256Parse(t *testing.T) {
	v, err := U256{}.Parse("115792089237316195423570985008687907853269984665640564039457584007913129639935")
	require.NoError(t, err)
	assert.Equal(t, *new(uint256.Int).SetAllOne(), v)

	_, err = U256{}.Parse("115792089237316195423570985008687907853269984665640564039457584007913129639936")
	assert.Error(t, err)

	_, err = U256{}.Parse("abc")
	assert.Error(t, err)
}
