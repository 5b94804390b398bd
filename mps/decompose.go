package mps

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/mpscomp/qcmp/errs"
	"github.com/mpscomp/qcmp/format"
	"github.com/mpscomp/qcmp/internal/pool"
)

// Decompose converts an amplitude sequence into a tensor chain using
// sequential SVD truncation.
//
// maxRank caps the bond dimension between adjacent tensors. tol is the
// relative singular-value threshold below which a direction counts as
// negligible and is dropped regardless of maxRank; tol <= 0 selects the
// default. The decomposition is exact (up to floating-point roundoff)
// whenever maxRank >= PhysDim and tol does not discard information.
//
// The CPU SVD path is real-valued; amplitudes with an imaginary component
// larger than tol are rejected. Byte-derived amplitudes always carry a zero
// imaginary part.
func Decompose(amps []complex128, maxRank int, tol float64) (*Chain, error) {
	if maxRank < 1 {
		return nil, fmt.Errorf("%w: max rank must be positive, got %d", errs.ErrTensorDecomposition, maxRank)
	}
	if len(amps) == 0 {
		return nil, fmt.Errorf("%w: empty amplitude sequence", errs.ErrTensorDecomposition)
	}
	if len(amps) > maxAmplitudes {
		return nil, fmt.Errorf("%w: %d amplitudes exceed limit", errs.ErrTensorDecomposition, len(amps))
	}
	if tol <= 0 {
		tol = format.DefaultSVTolerance
	}

	chain := &Chain{
		PhysDim: format.PhysDim,
		OrigLen: len(amps),
	}

	rows := format.PhysDim
	padded := int(ceilMul(uint64(len(amps)), uint64(rows)))

	w, cleanup := pool.GetFloat64Slice(padded)
	defer cleanup()
	for i, a := range amps {
		if math.Abs(imag(a)) > tol {
			return nil, fmt.Errorf("%w: amplitude %d has non-negligible imaginary part",
				errs.ErrTensorDecomposition, i)
		}
		w[i] = real(a)
	}
	for i := len(amps); i < padded; i++ {
		w[i] = 0
	}

	for {
		cols := len(w) / rows
		if cols == 1 {
			chain.Tensors = append(chain.Tensors, tensorFromReal(w, rows, 1))
			break
		}

		m := mat.NewDense(rows, cols, w)

		var svd mat.SVD
		if ok := svd.Factorize(m, mat.SVDThin); !ok {
			return nil, fmt.Errorf("%w: SVD did not converge for %dx%d level",
				errs.ErrTensorDecomposition, rows, cols)
		}

		sv := svd.Values(nil)
		k := truncationRank(sv, maxRank, tol)

		var u, v mat.Dense
		svd.UTo(&u)
		svd.VTo(&v)

		chain.Tensors = append(chain.Tensors, tensorFromCols(&u, rows, k))
		chain.BondDims = append(chain.BondDims, k)

		// Carry sigma*V^T forward as the next remaining buffer.
		next := make([]float64, k*cols)
		for a := 0; a < k; a++ {
			s := sv[a]
			row := next[a*cols : (a+1)*cols]
			for j := range row {
				row[j] = s * v.At(j, a)
			}
		}

		// Fold the next physical slice into the rows of the next level.
		fold := cols
		if fold > format.PhysDim {
			fold = format.PhysDim
		}
		rows = k * fold

		if rem := len(next) % rows; rem != 0 {
			next = append(next, make([]float64, rows-rem)...)
		}
		w = next
	}

	return chain, nil
}

// truncationRank applies the rank rule: keep the k strongest singular
// directions with k = min(maxRank, PhysDim, #values, #non-negligible),
// never below 1. Values are sorted in decreasing order by the SVD.
func truncationRank(sv []float64, maxRank int, tol float64) int {
	k := maxRank
	if k > format.PhysDim {
		k = format.PhysDim
	}
	if k > len(sv) {
		k = len(sv)
	}

	cutoff := tol * sv[0]
	significant := 0
	for _, s := range sv {
		if s <= cutoff {
			break
		}
		significant++
	}
	if significant < 1 {
		significant = 1
	}
	if k > significant {
		k = significant
	}

	return k
}

// tensorFromCols lifts the first k columns of a real matrix into a complex
// tensor.
func tensorFromCols(u *mat.Dense, rows, k int) *mat.CDense {
	t := mat.NewCDense(rows, k, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < k; j++ {
			t.Set(i, j, complex(u.At(i, j), 0))
		}
	}

	return t
}

// tensorFromReal lifts a real row-major buffer into a complex tensor.
func tensorFromReal(w []float64, rows, cols int) *mat.CDense {
	t := mat.NewCDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			t.Set(i, j, complex(w[i*cols+j], 0))
		}
	}

	return t
}
