// Package format defines shared constants and types for the qcmp container
// format.
package format

// Container identification.
const (
	// Version is the container format version produced by this build.
	Version uint8 = 1

	// PhysDim is the physical dimension of the tensor train: one slot per
	// possible byte value.
	PhysDim = 256

	// MinInputSize is the minimum input length accepted by Compress.
	MinInputSize = 64
)

// Magic is the 4-byte container magic ("QCMP").
var Magic = [4]byte{'Q', 'C', 'M', 'P'}

// Defaults for compression configuration.
const (
	DefaultMaxRank     = 64          // bond-dimension cap
	DefaultChunkSize   = 1024 * 1024 // 1MiB parallel block size
	MinChunkSize       = 4 * 1024    // smallest usable parallel block
	DefaultSVTolerance = 1e-12       // relative singular-value cutoff
	DefaultVRAMBudget  = 10 << 30    // forwarded to the GPU collaborator
)

// DeviceType identifies the execution device reported in compression stats.
type DeviceType uint8

const (
	DeviceCPU DeviceType = 0x1 // DeviceCPU represents the general CPU path.
	DeviceGPU DeviceType = 0x2 // DeviceGPU represents an external GPU accelerator.
)

func (d DeviceType) String() string {
	switch d {
	case DeviceCPU:
		return "CPU"
	case DeviceGPU:
		return "GPU"
	default:
		return "Unknown"
	}
}
