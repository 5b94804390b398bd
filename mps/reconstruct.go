package mps

import (
	"fmt"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/cblas128"
	"gonum.org/v1/gonum/mat"

	"github.com/mpscomp/qcmp/errs"
)

// Reconstruct contracts the tensor chain back into an amplitude sequence,
// trimmed to the recorded original length.
//
// Contraction runs right to left: the final tensor is the innermost
// remaining buffer; each step left-multiplies the current buffer (reshaped
// to the bond dimension) by the next tensor and strips the zero padding the
// decomposition added at that level. All level shapes are re-derived from
// OrigLen and the tensor dimensions and validated before any allocation,
// so a structurally inconsistent chain fails with an error instead of
// panicking or allocating unbounded memory.
func (c *Chain) Reconstruct() ([]complex128, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	lens, cols, err := c.levelDims()
	if err != nil {
		return nil, err
	}

	n := len(c.Tensors)
	lastRows, _ := c.Tensors[n-1].Dims()
	if uint64(lastRows) != lens[n-1] || cols[n-1] != 1 {
		return nil, fmt.Errorf("%w: final tensor length %d does not match derived level length %d",
			errs.ErrInvalidChainLayout, lastRows, lens[n-1])
	}

	buf := tensorData(c.Tensors[n-1])

	for i := n - 2; i >= 0; i-- {
		t := c.Tensors[i]
		rows, bond := t.Dims()
		levelCols := int(cols[i])

		raw := bond * levelCols
		if raw > len(buf) {
			return nil, fmt.Errorf("%w: level %d needs %d entries, reconstructed %d",
				errs.ErrInvalidChainLayout, i, raw, len(buf))
		}

		// buf[:raw] is sigma*V^T of this level; the tail is padding.
		product := make([]complex128, rows*levelCols)
		cblas128.Gemm(blas.NoTrans, blas.NoTrans, 1,
			generalFromTensor(t),
			cblas128.General{Rows: bond, Cols: levelCols, Stride: levelCols, Data: buf[:raw]},
			0,
			cblas128.General{Rows: rows, Cols: levelCols, Stride: levelCols, Data: product},
		)
		buf = product
	}

	if len(buf) < c.OrigLen {
		return nil, fmt.Errorf("%w: reconstructed %d amplitudes, recorded length %d",
			errs.ErrInvalidChainLayout, len(buf), c.OrigLen)
	}

	return buf[:c.OrigLen], nil
}

// tensorData returns the row-major entries of a tensor as a flat slice.
func tensorData(t *mat.CDense) []complex128 {
	raw := t.RawCMatrix()
	if raw.Stride == raw.Cols {
		return raw.Data[:raw.Rows*raw.Cols]
	}

	out := make([]complex128, raw.Rows*raw.Cols)
	for i := 0; i < raw.Rows; i++ {
		copy(out[i*raw.Cols:(i+1)*raw.Cols], raw.Data[i*raw.Stride:i*raw.Stride+raw.Cols])
	}

	return out
}

// generalFromTensor adapts a tensor to the cblas128 matrix layout without
// copying when the stride allows it.
func generalFromTensor(t *mat.CDense) cblas128.General {
	raw := t.RawCMatrix()
	return cblas128.General{Rows: raw.Rows, Cols: raw.Cols, Stride: raw.Stride, Data: raw.Data}
}
