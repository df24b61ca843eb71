package dtype

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterning(t *testing.T) {
	a := UnsignedIntT(32)
	b := UnsignedIntT(32)
	assert.True(t, a == b, "UnsignedInt(32) should be hash-consed to the same pointer")
	assert.True(t, a.Equal(b))
}

func TestUnsignedZeroClampedToOne(t *testing.T) {
	dt := UnsignedIntT(0)
	assert.Equal(t, uint(1), dt.BitWidth())
}

func TestArrayType(t *testing.T) {
	elem := UnsignedIntT(8)
	arr := ArrayT(elem, 4)
	assert.Equal(t, Array, arr.Kind())
	assert.Equal(t, uint(4), arr.Size())
	assert.True(t, arr.ElemType().Equal(elem))
	assert.Equal(t, uint(32), arr.BitWidth())
}

func TestRecordType(t *testing.T) {
	fields := map[string]FieldSlot{
		"lo": {Type: UnsignedIntT(8), Offset: 0, Width: 8},
		"hi": {Type: UnsignedIntT(8), Offset: 16, Width: 8},
	}
	order := []string{"lo", "hi"}
	rec := RecordT(order, fields, true)

	assert.Equal(t, []string{"lo", "hi"}, rec.Fields())
	assert.Equal(t, uint(24), rec.BitWidth(), "gap-bearing layout includes the unused bits")
	assert.True(t, rec.ReadOnly())
}

func TestCheckRange(t *testing.T) {
	u8 := UnsignedIntT(8)
	assert.NoError(t, u8.CheckRange(big.NewInt(255)))

	err := u8.CheckRange(big.NewInt(256))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "OutOfRange")

	s8 := SignedIntT(8)
	assert.NoError(t, s8.CheckRange(big.NewInt(-128)))
	assert.Error(t, s8.CheckRange(big.NewInt(-129)))
	assert.Error(t, s8.CheckRange(big.NewInt(128)))
}
