package qcmp

import (
	"fmt"

	"github.com/mpscomp/qcmp/device"
	"github.com/mpscomp/qcmp/format"
	"github.com/mpscomp/qcmp/internal/options"
)

// Config holds the tunable parameters of one compression call.
type Config struct {
	maxRank     int
	chunkSize   int
	svTolerance float64
	useGPU      bool
	vramBudget  uint64
	accelerator device.Accelerator
}

// Option is a functional option for Config.
type Option = options.Option[*Config]

// NewConfig creates a Config with defaults and applies the given options.
func NewConfig(opts ...Option) (*Config, error) {
	cfg := &Config{
		maxRank:     format.DefaultMaxRank,
		chunkSize:   format.DefaultChunkSize,
		svTolerance: format.DefaultSVTolerance,
		useGPU:      false,
		vramBudget:  format.DefaultVRAMBudget,
		accelerator: device.Null(),
	}

	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WithMaxRank sets the bond-dimension cap of the tensor decomposition.
// Ranks at or above format.PhysDim make the decomposition exact; smaller
// ranks trade reconstruction fidelity for compression ratio.
func WithMaxRank(rank int) Option {
	return options.New(func(c *Config) error {
		if rank < 1 {
			return fmt.Errorf("max rank must be positive, got %d", rank)
		}
		c.maxRank = rank

		return nil
	})
}

// WithChunkSize sets the parallel block size in bytes. Input is partitioned
// into blocks of this size, each decomposed independently on a worker.
func WithChunkSize(size int) Option {
	return options.New(func(c *Config) error {
		if size < format.MinChunkSize {
			return fmt.Errorf("chunk size must be at least %d bytes, got %d", format.MinChunkSize, size)
		}
		c.chunkSize = size

		return nil
	})
}

// WithSVTolerance sets the relative threshold below which a singular value
// counts as negligible and is truncated regardless of the rank cap.
func WithSVTolerance(tol float64) Option {
	return options.New(func(c *Config) error {
		if tol <= 0 || tol >= 1 {
			return fmt.Errorf("singular value tolerance must be in (0, 1), got %g", tol)
		}
		c.svTolerance = tol

		return nil
	})
}

// WithGPU requests GPU execution. The core always runs the general CPU
// path; the flag and budget are forwarded to the configured accelerator,
// which is a no-op unless an external backend is wired in.
func WithGPU(enabled bool) Option {
	return options.NoError(func(c *Config) {
		c.useGPU = enabled
	})
}

// WithVRAMBudget sets the device memory budget in bytes forwarded to the
// accelerator.
func WithVRAMBudget(budget uint64) Option {
	return options.NoError(func(c *Config) {
		c.vramBudget = budget
	})
}

// WithAccelerator plugs in an external GPU accelerator implementation.
func WithAccelerator(accel device.Accelerator) Option {
	return options.New(func(c *Config) error {
		if accel == nil {
			return fmt.Errorf("accelerator must not be nil")
		}
		c.accelerator = accel

		return nil
	})
}
