package endian

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetLittleEndianEngine(t *testing.T) {
	engine := GetLittleEndianEngine()
	require.Equal(t, binary.LittleEndian, engine)

	buf := engine.AppendUint32(nil, 0x0A0B0C0D)
	require.Equal(t, []byte{0x0D, 0x0C, 0x0B, 0x0A}, buf)
	require.Equal(t, uint32(0x0A0B0C0D), engine.Uint32(buf))
}

func TestGetBigEndianEngine(t *testing.T) {
	engine := GetBigEndianEngine()
	require.Equal(t, binary.BigEndian, engine)

	buf := engine.AppendUint32(nil, 0x0A0B0C0D)
	require.Equal(t, []byte{0x0A, 0x0B, 0x0C, 0x0D}, buf)
}

func TestCheckEndianness(t *testing.T) {
	order := CheckEndianness()
	require.NotNil(t, order)
	require.Equal(t, order == binary.LittleEndian, IsNativeLittleEndian())
}
