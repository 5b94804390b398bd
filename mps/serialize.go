package mps

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/mpscomp/qcmp/endian"
	"github.com/mpscomp/qcmp/errs"
	"github.com/mpscomp/qcmp/format"
)

// Serialized chain layout, all little-endian:
//
//	tensor_count(u32) | phys_dim(u32) | orig_len(u64)
//	| bond_dims[tensor_count-1](u32 each)
//	| per tensor: rows(u32) cols(u32) rows*cols x (re f64, im f64)
//
// Chains are self-delimiting, so several chains can be concatenated back to
// back in one payload and parsed sequentially with ParseChain.
const chainFixedHeaderSize = 16

// maxTensorCount bounds the declared tensor count of a parsed chain. Even a
// maximal input decomposes into O(log) tensors, so this is generous.
const maxTensorCount = 1 << 16

// AppendTo serializes the chain and appends it to buf, returning the
// extended slice.
func (c *Chain) AppendTo(buf []byte) []byte {
	engine := endian.GetLittleEndianEngine()

	buf = engine.AppendUint32(buf, uint32(len(c.Tensors)))
	buf = engine.AppendUint32(buf, uint32(c.PhysDim))
	buf = engine.AppendUint64(buf, uint64(c.OrigLen))

	for _, bd := range c.BondDims {
		buf = engine.AppendUint32(buf, uint32(bd))
	}

	for _, t := range c.Tensors {
		rows, cols := t.Dims()
		buf = engine.AppendUint32(buf, uint32(rows))
		buf = engine.AppendUint32(buf, uint32(cols))
		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				v := t.At(i, j)
				buf = engine.AppendUint64(buf, math.Float64bits(real(v)))
				buf = engine.AppendUint64(buf, math.Float64bits(imag(v)))
			}
		}
	}

	return buf
}

// Bytes serializes the chain into a fresh slice.
func (c *Chain) Bytes() []byte {
	return c.AppendTo(make([]byte, 0, c.SerializedSize()))
}

// SerializedSize returns the exact byte length of the serialized chain.
func (c *Chain) SerializedSize() int {
	size := chainFixedHeaderSize + 4*len(c.BondDims)
	for _, t := range c.Tensors {
		rows, cols := t.Dims()
		size += 8 + rows*cols*16
	}

	return size
}

// ParseChain deserializes one chain from the start of data and returns it
// together with the number of bytes consumed.
//
// Every declared size is validated against the remaining buffer before it
// is used, so truncated or hostile input yields an error rather than an
// out-of-bounds access or an unbounded allocation.
func ParseChain(data []byte) (*Chain, int, error) {
	engine := endian.GetLittleEndianEngine()

	if len(data) < chainFixedHeaderSize {
		return nil, 0, fmt.Errorf("%w: %d bytes is too short for a chain header",
			errs.ErrInvalidChainLayout, len(data))
	}

	tensorCount := int(engine.Uint32(data[0:4]))
	physDim := int(engine.Uint32(data[4:8]))
	origLen := engine.Uint64(data[8:16])
	pos := chainFixedHeaderSize

	if tensorCount < 1 || tensorCount > maxTensorCount {
		return nil, 0, fmt.Errorf("%w: tensor count %d out of range", errs.ErrInvalidChainLayout, tensorCount)
	}
	if physDim != format.PhysDim {
		return nil, 0, fmt.Errorf("%w: physical dimension %d, want %d",
			errs.ErrInvalidChainLayout, physDim, format.PhysDim)
	}
	if origLen < 1 || origLen > maxAmplitudes {
		return nil, 0, fmt.Errorf("%w: original length %d out of range", errs.ErrInvalidChainLayout, origLen)
	}

	chain := &Chain{
		PhysDim: physDim,
		OrigLen: int(origLen),
	}

	bondCount := tensorCount - 1
	if len(data)-pos < bondCount*4 {
		return nil, 0, fmt.Errorf("%w: truncated bond dimensions", errs.ErrInvalidChainLayout)
	}
	chain.BondDims = make([]int, bondCount)
	for i := range chain.BondDims {
		bd := int(engine.Uint32(data[pos : pos+4]))
		pos += 4
		if bd < 1 || bd > format.PhysDim {
			return nil, 0, fmt.Errorf("%w: bond dimension %d out of range", errs.ErrInvalidChainLayout, bd)
		}
		chain.BondDims[i] = bd
	}

	chain.Tensors = make([]*mat.CDense, 0, tensorCount)
	for ti := 0; ti < tensorCount; ti++ {
		if len(data)-pos < 8 {
			return nil, 0, fmt.Errorf("%w: truncated tensor %d shape", errs.ErrInvalidChainLayout, ti)
		}
		rows := int(engine.Uint32(data[pos : pos+4]))
		cols := int(engine.Uint32(data[pos+4 : pos+8]))
		pos += 8

		if rows < 1 || cols < 1 || rows > maxTensorRows {
			return nil, 0, fmt.Errorf("%w: tensor %d has shape %dx%d", errs.ErrInvalidChainLayout, ti, rows, cols)
		}

		entries := uint64(rows) * uint64(cols)
		need := entries * 16
		if uint64(len(data)-pos) < need {
			return nil, 0, fmt.Errorf("%w: tensor %d needs %d entry bytes, %d remain",
				errs.ErrInvalidChainLayout, ti, need, len(data)-pos)
		}

		entryData := make([]complex128, entries)
		for e := range entryData {
			re := math.Float64frombits(engine.Uint64(data[pos : pos+8]))
			im := math.Float64frombits(engine.Uint64(data[pos+8 : pos+16]))
			entryData[e] = complex(re, im)
			pos += 16
		}
		chain.Tensors = append(chain.Tensors, mat.NewCDense(rows, cols, entryData))
	}

	if err := chain.Validate(); err != nil {
		return nil, 0, err
	}

	return chain, pos, nil
}
