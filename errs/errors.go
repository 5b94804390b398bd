// Package errs defines the sentinel errors shared across the qcmp module.
//
// All errors are plain sentinel values created with errors.New, intended to
// be matched with errors.Is. Call sites add context by wrapping them with
// fmt.Errorf("%w: ...").
//
// The decompression path guarantees that every failure, regardless of its
// fine-grained cause, also matches ErrDecompressionFailed, so callers that
// only care about "the container is bad" can test a single sentinel.
package errs

import "errors"

var (
	// ErrInputTooSmall indicates the input is below the minimum viable size
	// for compression (64 bytes). The caller can recover by supplying more
	// data.
	ErrInputTooSmall = errors.New("input data too small (minimum: 64 bytes)")

	// ErrTensorDecomposition indicates invalid tensor decomposition
	// parameters or input, e.g. a non-positive rank.
	ErrTensorDecomposition = errors.New("tensor decomposition failed")

	// ErrHuffmanEncoding indicates an internal invariant violation while
	// building or packing Huffman codes. It should not occur on well-formed
	// input and is surfaced rather than silently degraded.
	ErrHuffmanEncoding = errors.New("huffman encoding failed")

	// ErrDecompressionFailed indicates structural corruption anywhere in a
	// container: bad magic, unsupported version, truncated table or payload,
	// or a bitstream that does not resolve to the declared symbol count.
	ErrDecompressionFailed = errors.New("decompression failed: data corrupted")
)

// Structural sentinels. The decode path wraps these into
// ErrDecompressionFailed; they are exported so tests and callers can match
// the precise failure when they need to.
var (
	// ErrInvalidMagicNumber indicates the container does not start with the
	// QCMP magic bytes.
	ErrInvalidMagicNumber = errors.New("invalid magic number")

	// ErrUnsupportedVersion indicates the container version byte is not a
	// version this build can decode.
	ErrUnsupportedVersion = errors.New("unsupported container version")

	// ErrInvalidHeaderSize indicates the buffer is too short to hold a
	// complete container header.
	ErrInvalidHeaderSize = errors.New("invalid header size")

	// ErrTableOutOfRange indicates the declared code table length exceeds
	// the remaining buffer.
	ErrTableOutOfRange = errors.New("code table length out of range")

	// ErrPayloadTruncated indicates a payload ended before the declared
	// content was fully read.
	ErrPayloadTruncated = errors.New("payload truncated")

	// ErrInvalidChainLayout indicates a serialized tensor chain whose
	// declared shapes are inconsistent or exceed the remaining buffer.
	ErrInvalidChainLayout = errors.New("invalid tensor chain layout")
)

// Collaborator pass-through sentinels. The core never produces these; they
// exist so an external GPU accelerator can surface its failures through the
// same taxonomy.
var (
	// ErrVramAllocation indicates the GPU collaborator could not reserve
	// the requested device memory.
	ErrVramAllocation = errors.New("vram allocation failed")

	// ErrGpuNotAvailable indicates no usable GPU device is present.
	ErrGpuNotAvailable = errors.New("gpu not available")
)
