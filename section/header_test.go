package section

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mpscomp/qcmp/errs"
	"github.com/mpscomp/qcmp/format"
)

func TestHeader_Bytes(t *testing.T) {
	h := NewHeader(256)
	data := h.Bytes()

	require.Len(t, data, HeaderSize)
	require.Equal(t, []byte("QCMP"), data[MagicOffset:MagicOffset+4])
	require.Equal(t, format.Version, data[VersionOffset])
	require.Equal(t, []byte{0x00, 0x01, 0x00, 0x00}, data[TableLenOffset:TableLenOffset+4])
}

func TestHeader_Parse(t *testing.T) {
	t.Run("Valid header", func(t *testing.T) {
		original := NewHeader(256)
		data := append(original.Bytes(), make([]byte, 256)...)

		parsed, err := ParseHeader(data)
		require.NoError(t, err)
		require.Equal(t, original, parsed)
	})

	t.Run("Too short", func(t *testing.T) {
		var h Header
		err := h.Parse([]byte{'Q', 'C', 'M'})

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrInvalidHeaderSize)
		require.ErrorIs(t, err, errs.ErrDecompressionFailed)
	})

	t.Run("Bad magic", func(t *testing.T) {
		data := append(NewHeader(0).Bytes(), make([]byte, 16)...)
		data[0] ^= 0xFF

		_, err := ParseHeader(data)
		require.ErrorIs(t, err, errs.ErrInvalidMagicNumber)
		require.ErrorIs(t, err, errs.ErrDecompressionFailed)
	})

	t.Run("Unsupported version", func(t *testing.T) {
		data := append(NewHeader(0).Bytes(), make([]byte, 16)...)
		data[VersionOffset]++

		_, err := ParseHeader(data)
		require.ErrorIs(t, err, errs.ErrUnsupportedVersion)
	})

	t.Run("Table length exceeds buffer", func(t *testing.T) {
		h := NewHeader(1024)
		data := append(h.Bytes(), make([]byte, 16)...)

		_, err := ParseHeader(data)
		require.ErrorIs(t, err, errs.ErrTableOutOfRange)
		require.ErrorIs(t, err, errs.ErrDecompressionFailed)
	})

	t.Run("Table length exactly fits", func(t *testing.T) {
		h := NewHeader(16)
		data := append(h.Bytes(), make([]byte, 16)...)

		parsed, err := ParseHeader(data)
		require.NoError(t, err)
		require.Equal(t, uint32(16), parsed.TableLen)
	})
}
