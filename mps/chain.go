package mps

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/mpscomp/qcmp/errs"
	"github.com/mpscomp/qcmp/format"
)

const (
	// maxTensorRows bounds the row count of a single tensor: a bond
	// dimension of at most PhysDim folded with at most PhysDim columns.
	maxTensorRows = format.PhysDim * format.PhysDim

	// maxAmplitudes bounds the reconstructed amplitude count of a single
	// chain, guarding intermediate contraction sizes against hostile
	// shape fields.
	maxAmplitudes = 1 << 34
)

// Chain is a tensor-train (matrix product state) representation of an
// amplitude sequence: an ordered list of 2-D complex tensors linked by bond
// dimensions, plus the physical dimension and the pre-padding amplitude
// count.
type Chain struct {
	// Tensors is the ordered tensor chain.
	Tensors []*mat.CDense
	// BondDims holds the shared inner dimension between adjacent tensors;
	// BondDims[i] == cols(Tensors[i]) == the bond into Tensors[i+1].
	BondDims []int
	// PhysDim is the physical dimension (always 256 in this format).
	PhysDim int
	// OrigLen is the amplitude count before tail padding.
	OrigLen int
}

// Validate checks the structural invariants of the chain: at least one
// tensor, the fixed physical dimension, bond dimensions matching tensor
// shapes and capped at PhysDim, a single-column final tensor, and a
// positive recorded length.
func (c *Chain) Validate() error {
	if len(c.Tensors) == 0 {
		return fmt.Errorf("%w: empty tensor chain", errs.ErrInvalidChainLayout)
	}
	if c.PhysDim != format.PhysDim {
		return fmt.Errorf("%w: physical dimension %d, want %d",
			errs.ErrInvalidChainLayout, c.PhysDim, format.PhysDim)
	}
	if c.OrigLen < 1 || c.OrigLen > maxAmplitudes {
		return fmt.Errorf("%w: original length %d out of range", errs.ErrInvalidChainLayout, c.OrigLen)
	}
	if len(c.BondDims) != len(c.Tensors)-1 {
		return fmt.Errorf("%w: %d bond dims for %d tensors",
			errs.ErrInvalidChainLayout, len(c.BondDims), len(c.Tensors))
	}

	for i, t := range c.Tensors {
		rows, cols := t.Dims()
		if rows < 1 || cols < 1 || rows > maxTensorRows {
			return fmt.Errorf("%w: tensor %d has shape %dx%d", errs.ErrInvalidChainLayout, i, rows, cols)
		}
		if i < len(c.BondDims) {
			if cols != c.BondDims[i] || cols > format.PhysDim {
				return fmt.Errorf("%w: tensor %d cols %d vs bond dim %d",
					errs.ErrInvalidChainLayout, i, cols, c.BondDims[i])
			}
		}
	}

	if _, cols := c.Tensors[len(c.Tensors)-1].Dims(); cols != 1 {
		return fmt.Errorf("%w: final tensor is not a single column", errs.ErrInvalidChainLayout)
	}
	if len(c.Tensors) > 1 {
		if rows, _ := c.Tensors[0].Dims(); rows != format.PhysDim {
			return fmt.Errorf("%w: leading tensor has %d rows, want %d",
				errs.ErrInvalidChainLayout, rows, format.PhysDim)
		}
	}

	return nil
}

// StorageSize returns the in-memory size of the chain's tensor entries in
// bytes (complex128 = 16 bytes per entry).
func (c *Chain) StorageSize() int {
	size := 0
	for _, t := range c.Tensors {
		rows, cols := t.Dims()
		size += rows * cols * 16
	}

	return size
}

// MaxBondDim returns the largest bond dimension in the chain, or 0 for a
// single-tensor chain.
func (c *Chain) MaxBondDim() int {
	maxDim := 0
	for _, bd := range c.BondDims {
		if bd > maxDim {
			maxDim = bd
		}
	}

	return maxDim
}

// levelDims derives, per decomposition level, the padded buffer length and
// column count of the matrix that was factored at that level. Everything
// follows from OrigLen and the tensor shapes, so no extra metadata is
// stored in the container.
//
// Level 0 reshapes the padded amplitude buffer into PhysDim rows. Each
// following level holds sigma*V^T of the previous one, zero-padded to a
// whole number of that level's rows.
func (c *Chain) levelDims() (lens []uint64, cols []uint64, err error) {
	n := len(c.Tensors)
	lens = make([]uint64, n)
	cols = make([]uint64, n)

	rows0, _ := c.Tensors[0].Dims()
	lens[0] = ceilMul(uint64(c.OrigLen), uint64(rows0))
	cols[0] = lens[0] / uint64(rows0)

	for i := 1; i < n; i++ {
		_, prevCols := c.Tensors[i-1].Dims()
		raw := uint64(prevCols) * cols[i-1]
		rows, _ := c.Tensors[i].Dims()
		lens[i] = ceilMul(raw, uint64(rows))
		cols[i] = lens[i] / uint64(rows)
		if lens[i] > maxAmplitudes {
			return nil, nil, fmt.Errorf("%w: level %d buffer length %d exceeds limit",
				errs.ErrInvalidChainLayout, i, lens[i])
		}
	}

	return lens, cols, nil
}

// ceilMul rounds n up to the next multiple of m (m > 0).
func ceilMul(n, m uint64) uint64 {
	return (n + m - 1) / m * m
}
