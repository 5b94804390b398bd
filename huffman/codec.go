package huffman

import (
	"fmt"

	"github.com/mpscomp/qcmp/endian"
	"github.com/mpscomp/qcmp/errs"
)

// payloadHeaderSize is the size of the original byte count prefix.
const payloadHeaderSize = 8

// Encode packs data into a bitstream using the table's codes.
//
// The payload starts with the original byte count (u64 LE) so Decode knows
// when to stop, followed by the MSB-first code bits packed to byte
// boundaries; trailing bits of the final byte are unread padding.
//
// A symbol without a code in the table is an internal invariant violation:
// the table must have been built over (a superset of) the encoded stream.
func (t *Table) Encode(data []byte) ([]byte, error) {
	engine := endian.GetLittleEndianEngine()

	out := make([]byte, 0, payloadHeaderSize+len(data)/2)
	out = engine.AppendUint64(out, uint64(len(data)))

	var acc byte
	var nbits uint
	for _, b := range data {
		code, length := t.codes[b], t.lengths[b]
		if length == 0 {
			return nil, fmt.Errorf("%w: symbol 0x%02x has no code", errs.ErrHuffmanEncoding, b)
		}

		for i := int(length) - 1; i >= 0; i-- {
			acc = acc<<1 | byte(code>>uint(i)&1)
			nbits++
			if nbits == 8 {
				out = append(out, acc)
				acc, nbits = 0, 0
			}
		}
	}
	if nbits > 0 {
		out = append(out, acc<<(8-nbits))
	}

	return out, nil
}

// Decode unpacks a bitstream produced by Encode, reading the leading byte
// count and walking the canonical code space bit by bit until the declared
// count is reached.
//
// Exhausting the bitstream early, or accumulating a bit sequence that
// matches no code, is a decode failure. Both are structurally impossible
// for payloads the table produced itself but must be checked for untrusted
// input.
func (t *Table) Decode(data []byte) ([]byte, error) {
	engine := endian.GetLittleEndianEngine()

	if len(data) < payloadHeaderSize {
		return nil, fmt.Errorf("%w: %w: payload header", errs.ErrDecompressionFailed, errs.ErrPayloadTruncated)
	}

	count := engine.Uint64(data[:payloadHeaderSize])
	bits := data[payloadHeaderSize:]

	// Every code is at least one bit, so the declared count cannot exceed
	// the number of remaining bits.
	if count > uint64(len(bits))*8 {
		return nil, fmt.Errorf("%w: %w: %d symbols declared, %d bits available",
			errs.ErrDecompressionFailed, errs.ErrPayloadTruncated, count, len(bits)*8)
	}

	out := make([]byte, 0, count)
	var code uint64
	var length int

	for _, b := range bits {
		for shift := 7; shift >= 0; shift-- {
			if uint64(len(out)) == count {
				return out, nil
			}

			code = code<<1 | uint64(b>>uint(shift)&1)
			length++
			if length > maxCodeLen {
				return nil, fmt.Errorf("%w: bit sequence matches no code", errs.ErrDecompressionFailed)
			}

			if t.counts[length] == 0 {
				continue
			}
			if delta := code - t.firstCode[length]; code >= t.firstCode[length] && delta < uint64(t.counts[length]) {
				out = append(out, t.symbols[uint64(t.offsets[length])+delta])
				code, length = 0, 0
			}
		}
	}

	if uint64(len(out)) != count {
		return nil, fmt.Errorf("%w: %w: decoded %d of %d symbols",
			errs.ErrDecompressionFailed, errs.ErrPayloadTruncated, len(out), count)
	}

	return out, nil
}
