package qcmp

import (
	"time"

	"github.com/mpscomp/qcmp/format"
)

// CompressionStats describes one completed compression call.
type CompressionStats struct {
	// OriginalSize is the input length in bytes.
	OriginalSize int
	// CompressedSize is the produced container length in bytes.
	CompressedSize int
	// Ratio is OriginalSize / CompressedSize; values above 1.0 indicate
	// the container is smaller than the input.
	Ratio float64
	// Elapsed is the wall-clock duration of the call.
	Elapsed time.Duration
	// RankUsed is the configured bond-dimension cap.
	RankUsed int
	// MaxBondDim is the largest bond dimension actually present in the
	// produced tensor chains; it is at most RankUsed.
	MaxBondDim int
	// Device is the execution device of the call.
	Device format.DeviceType
	// VRAMPeakBytes is the peak device memory reported by the external GPU
	// accelerator; zero on the general path.
	VRAMPeakBytes uint64
}

// SpaceSavings returns the space savings as a percentage (0-100%).
// Negative values indicate the container is larger than the input, which
// is the common case for incompressible data under a high rank cap.
func (s CompressionStats) SpaceSavings() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return (1.0 - float64(s.CompressedSize)/float64(s.OriginalSize)) * 100.0
}
