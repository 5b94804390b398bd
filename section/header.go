// Package section defines the low-level binary structure of the qcmp
// container header.
//
// The header is a fixed 9-byte section at the start of every container:
//
//	magic(4 bytes = "QCMP") | version(1 byte) | table_length(4 bytes LE)
//
// It is followed by table_length bytes of Huffman code-length table and then
// the Huffman payload. Header parsing validates every field against the
// buffer it was handed; it never reads past len(data).
package section

import (
	"fmt"

	"github.com/mpscomp/qcmp/endian"
	"github.com/mpscomp/qcmp/errs"
	"github.com/mpscomp/qcmp/format"
)

// Header represents the fixed-size section at the start of a container.
type Header struct {
	// Version is the container format version.
	Version uint8
	// TableLen is the byte length of the Huffman code table that follows
	// the header.
	TableLen uint32
}

// NewHeader creates a Header for the current container version with the
// given code table length.
func NewHeader(tableLen uint32) Header {
	return Header{
		Version:  format.Version,
		TableLen: tableLen,
	}
}

// Parse parses and validates the header from the start of data.
//
// It checks, in order: buffer length, magic bytes, version, and that the
// declared table length fits inside the remainder of data. Any violation
// returns an error matching errs.ErrDecompressionFailed.
func (h *Header) Parse(data []byte) error {
	if len(data) < HeaderSize {
		return fmt.Errorf("%w: %w: got %d bytes, need %d",
			errs.ErrDecompressionFailed, errs.ErrInvalidHeaderSize, len(data), HeaderSize)
	}

	if [4]byte(data[MagicOffset:MagicOffset+4]) != format.Magic {
		return fmt.Errorf("%w: %w", errs.ErrDecompressionFailed, errs.ErrInvalidMagicNumber)
	}

	h.Version = data[VersionOffset]
	if h.Version != format.Version {
		return fmt.Errorf("%w: %w: version %d",
			errs.ErrDecompressionFailed, errs.ErrUnsupportedVersion, h.Version)
	}

	engine := endian.GetLittleEndianEngine()
	h.TableLen = engine.Uint32(data[TableLenOffset : TableLenOffset+4])
	if uint64(h.TableLen) > uint64(len(data)-HeaderSize) {
		return fmt.Errorf("%w: %w: table length %d exceeds %d remaining bytes",
			errs.ErrDecompressionFailed, errs.ErrTableOutOfRange, h.TableLen, len(data)-HeaderSize)
	}

	return nil
}

// Bytes serializes the header into a fresh 9-byte slice.
func (h Header) Bytes() []byte {
	b := make([]byte, HeaderSize)
	copy(b[MagicOffset:], format.Magic[:])
	b[VersionOffset] = h.Version
	endian.GetLittleEndianEngine().PutUint32(b[TableLenOffset:TableLenOffset+4], h.TableLen)

	return b
}

// ParseHeader parses a Header from the start of data.
func ParseHeader(data []byte) (Header, error) {
	var h Header
	if err := h.Parse(data); err != nil {
		return Header{}, err
	}

	return h, nil
}
