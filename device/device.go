// Package device models the external GPU accelerator boundary.
//
// The core compression pipeline always executes on the general CPU path; no
// device memory is allocated in-core. An external accelerator implementation
// can be plugged into the pipeline via the Accelerator interface to reserve
// a VRAM budget up front and report peak device memory usage into the
// compression stats. Accelerator failures must surface the errs.ErrVramAllocation
// and errs.ErrGpuNotAvailable sentinels so callers can match them.
package device

// Accelerator is the contract between the compression pipeline and an
// external GPU execution backend.
type Accelerator interface {
	// Reserve claims up to budget bytes of device memory for the duration
	// of one compression call. Implementations return an error matching
	// errs.ErrVramAllocation or errs.ErrGpuNotAvailable on failure.
	Reserve(budget uint64) error

	// PeakBytes reports the peak device memory observed since Reserve.
	PeakBytes() uint64

	// Release frees any device memory claimed by Reserve.
	Release()
}

// nullAccelerator is the in-core no-op accelerator. It reserves nothing and
// reports zero peak memory.
type nullAccelerator struct{}

var _ Accelerator = nullAccelerator{}

func (nullAccelerator) Reserve(uint64) error { return nil }
func (nullAccelerator) PeakBytes() uint64    { return 0 }
func (nullAccelerator) Release()             {}

// Null returns the no-op accelerator used when no GPU collaborator is wired
// in.
func Null() Accelerator {
	return nullAccelerator{}
}
