package qcmp

import (
	"fmt"

	"github.com/mpscomp/qcmp/errs"
	"github.com/mpscomp/qcmp/huffman"
	"github.com/mpscomp/qcmp/mps"
	"github.com/mpscomp/qcmp/section"
)

// Decompress reverses Compress: it validates the container header, rebuilds
// the canonical Huffman table from its code-length bytes, decodes the
// payload, parses the concatenated tensor chains, reconstructs each chain
// and quantizes the amplitudes back to bytes.
//
// Any structural violation at any step fails with an error matching
// errs.ErrDecompressionFailed; malformed input never panics and is never
// read out of bounds. No partially reconstructed buffer is returned.
func Decompress(container []byte) ([]byte, error) {
	header, err := section.ParseHeader(container)
	if err != nil {
		return nil, err
	}

	tableEnd := section.HeaderSize + int(header.TableLen)
	table, err := huffman.RebuildFromLengths(container[section.HeaderSize:tableEnd])
	if err != nil {
		return nil, err
	}

	serialized, err := table.Decode(container[tableEnd:])
	if err != nil {
		return nil, err
	}
	if len(serialized) == 0 {
		return nil, fmt.Errorf("%w: empty chain payload", errs.ErrDecompressionFailed)
	}

	var out []byte
	for pos := 0; pos < len(serialized); {
		chain, consumed, err := mps.ParseChain(serialized[pos:])
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errs.ErrDecompressionFailed, err)
		}
		pos += consumed

		amps, err := chain.Reconstruct()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errs.ErrDecompressionFailed, err)
		}

		out = append(out, mps.Quantize(amps)...)
	}

	return out, nil
}
