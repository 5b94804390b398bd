// Package qcmp implements a hybrid lossy/near-lossless byte-stream
// compressor: a tensor-network (matrix product state) decomposition stage
// followed by a canonical Huffman bitstream codec, wrapped in a
// self-describing binary container.
//
// # Pipeline
//
// Compression maps each input byte to a complex amplitude (re = byte/255),
// decomposes the amplitude sequence into a chain of small complex matrices
// by sequential SVD truncation, serializes the chain into a fixed binary
// layout, and entropy-codes the serialized bytes with a canonical Huffman
// code. Decompression reverses every step.
//
// The tensor stage is an approximation controlled by the rank cap: with
// WithMaxRank at or above 256 no singular value is truncated and the round
// trip is exact; smaller ranks trade fidelity for ratio.
//
// # Container format
//
// All integers are little-endian:
//
//	magic(4 bytes = "QCMP") | version(1 byte) | table_length(u32)
//	| table_bytes | huffman_payload_bytes
//
// The table is the 256 canonical code-length bytes; the payload starts
// with the original symbol count (u64) followed by MSB-first packed code
// bits.
//
// # Basic usage
//
//	container, stats, err := qcmp.Compress(data, qcmp.WithMaxRank(256))
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("ratio=%.2f in %s\n", stats.Ratio, stats.Elapsed)
//
//	original, err := qcmp.Decompress(container)
//	if err != nil {
//	    return err
//	}
//
// # Package structure
//
// This package provides the container orchestrator. The stages live in
// their own packages: mps (amplitude mapping, tensor-train decomposition
// and serialization), huffman (canonical entropy codec), section (container
// header), and device (the external GPU accelerator boundary).
package qcmp

import "github.com/cespare/xxhash/v2"

// Checksum returns the xxHash64 digest of a container, for callers that
// track container integrity externally. The container format itself does
// not embed a checksum.
func Checksum(container []byte) uint64 {
	return xxhash.Sum64(container)
}
