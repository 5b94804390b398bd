// Package huffman implements the canonical Huffman codec for the qcmp
// container: building a prefix-free code over the 256-symbol byte alphabet
// from observed frequencies, packing and unpacking the bitstream, and the
// compact 256-byte code-length serialization of the table.
//
// Codes are canonical: fully determined by the per-symbol code-length array
// with symbols ordered first by length, then by value. The tree built from
// frequencies only decides the lengths; code values are always assigned
// canonically, so a table rebuilt from its serialized lengths is identical
// to the table built from the original frequencies.
package huffman

import (
	"container/heap"
	"fmt"
	"sort"

	"github.com/mpscomp/qcmp/errs"
)

// AlphabetSize is the number of symbols in the byte alphabet.
const AlphabetSize = 256

// maxCodeLen is the longest supported code in bits. A deeper tree would
// need frequency ratios beyond any realistic payload and cannot be packed
// into the fixed-width code registers.
const maxCodeLen = 64

// Table maps each byte value to its canonical prefix-free code.
type Table struct {
	lengths [AlphabetSize]uint8
	codes   [AlphabetSize]uint64

	// Canonical decode acceleration: symbols sorted by (length, symbol),
	// with per-length symbol counts, first code values and offsets into
	// the sorted symbol array.
	symbols   []byte
	counts    [maxCodeLen + 1]uint32
	firstCode [maxCodeLen + 1]uint64
	offsets   [maxCodeLen + 1]uint32
}

// BuildTable counts per-symbol frequencies over data and builds the
// canonical code table.
//
// Fewer than two distinct symbols is a degenerate case: every present
// symbol gets a 1-bit code. An empty stream cannot define a code and is
// rejected.
func BuildTable(data []byte) (*Table, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: cannot build a code table over an empty stream", errs.ErrHuffmanEncoding)
	}

	var freq [AlphabetSize]uint64
	for _, b := range data {
		freq[b]++
	}

	lengths, err := codeLengths(&freq)
	if err != nil {
		return nil, err
	}

	return newTable(lengths)
}

// RebuildFromLengths reconstructs the canonical table from a 256-byte
// code-length array, as stored in the container. The result is identical
// to the table BuildTable produced the lengths from.
func RebuildFromLengths(lengths []byte) (*Table, error) {
	if len(lengths) != AlphabetSize {
		return nil, fmt.Errorf("%w: code length table has %d entries, want %d",
			errs.ErrDecompressionFailed, len(lengths), AlphabetSize)
	}

	var arr [AlphabetSize]uint8
	copy(arr[:], lengths)

	t, err := newTable(arr)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrDecompressionFailed, err)
	}

	return t, nil
}

// Bytes serializes the table as its 256 code-length bytes; length 0 marks
// an unused symbol. This is sufficient to reconstruct the canonical codes.
func (t *Table) Bytes() []byte {
	out := make([]byte, AlphabetSize)
	copy(out, t.lengths[:])

	return out
}

// Code returns the canonical code bits and bit length for a symbol.
// A zero length means the symbol has no code.
func (t *Table) Code(symbol byte) (bits uint64, length uint8) {
	return t.codes[symbol], t.lengths[symbol]
}

// node is an arena-allocated Huffman tree node; children are arena indices,
// -1 for leaves.
type node struct {
	freq        uint64
	symbol      int16
	left, right int32
}

// nodeHeap is a min-priority-queue over arena indices ordered by
// (frequency, arena index). Leaves are inserted in symbol order, so for
// leaves the tie-break is exactly (frequency, symbol), which makes the tree
// shape, and therefore the code lengths, fully deterministic.
type nodeHeap struct {
	arena   []node
	indices []int32
}

func (h *nodeHeap) Len() int { return len(h.indices) }
func (h *nodeHeap) Less(i, j int) bool {
	a, b := h.arena[h.indices[i]], h.arena[h.indices[j]]
	if a.freq != b.freq {
		return a.freq < b.freq
	}

	return h.indices[i] < h.indices[j]
}
func (h *nodeHeap) Swap(i, j int) { h.indices[i], h.indices[j] = h.indices[j], h.indices[i] }
func (h *nodeHeap) Push(x any)    { h.indices = append(h.indices, x.(int32)) }
func (h *nodeHeap) Pop() any {
	old := h.indices
	n := len(old)
	idx := old[n-1]
	h.indices = old[:n-1]

	return idx
}

// codeLengths derives the per-symbol code lengths from a frequency
// histogram by building the Huffman tree in an integer-indexed arena.
func codeLengths(freq *[AlphabetSize]uint64) ([AlphabetSize]uint8, error) {
	var lengths [AlphabetSize]uint8

	h := &nodeHeap{arena: make([]node, 0, 2*AlphabetSize-1)}
	for sym, f := range freq {
		if f == 0 {
			continue
		}
		h.arena = append(h.arena, node{freq: f, symbol: int16(sym), left: -1, right: -1})
		h.indices = append(h.indices, int32(len(h.arena)-1))
	}

	switch len(h.arena) {
	case 0:
		return lengths, fmt.Errorf("%w: no symbols present", errs.ErrHuffmanEncoding)
	case 1:
		lengths[h.arena[0].symbol] = 1
		return lengths, nil
	}

	heap.Init(h)
	for h.Len() > 1 {
		left := heap.Pop(h).(int32)
		right := heap.Pop(h).(int32)
		h.arena = append(h.arena, node{
			freq:   h.arena[left].freq + h.arena[right].freq,
			symbol: -1,
			left:   left,
			right:  right,
		})
		heap.Push(h, int32(len(h.arena)-1))
	}
	root := heap.Pop(h).(int32)

	// Depth-first traversal; leaf depth is the code length.
	type frame struct {
		idx   int32
		depth uint8
	}
	stack := []frame{{root, 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := h.arena[f.idx]
		if n.left < 0 {
			if f.depth > maxCodeLen {
				return lengths, fmt.Errorf("%w: code length %d exceeds %d bits",
					errs.ErrHuffmanEncoding, f.depth, maxCodeLen)
			}
			lengths[n.symbol] = f.depth
			continue
		}

		if f.depth >= maxCodeLen {
			return lengths, fmt.Errorf("%w: tree depth exceeds %d bits", errs.ErrHuffmanEncoding, maxCodeLen)
		}
		stack = append(stack, frame{n.right, f.depth + 1}, frame{n.left, f.depth + 1})
	}

	return lengths, nil
}

// newTable assigns canonical codes from a length array and precomputes the
// decode tables. Symbols are sorted by (length, symbol); the first symbol
// of each length gets (previous code + 1) << (length - previous length).
func newTable(lengths [AlphabetSize]uint8) (*Table, error) {
	t := &Table{lengths: lengths}

	for sym, l := range lengths {
		if l > maxCodeLen {
			return nil, fmt.Errorf("%w: symbol %d has code length %d", errs.ErrHuffmanEncoding, sym, l)
		}
		if l > 0 {
			t.symbols = append(t.symbols, byte(sym))
			t.counts[l]++
		}
	}
	if len(t.symbols) == 0 {
		return nil, fmt.Errorf("%w: all code lengths are zero", errs.ErrHuffmanEncoding)
	}

	sort.SliceStable(t.symbols, func(i, j int) bool {
		li, lj := lengths[t.symbols[i]], lengths[t.symbols[j]]
		if li != lj {
			return li < lj
		}

		return t.symbols[i] < t.symbols[j]
	})

	var offset uint32
	for l := 1; l <= maxCodeLen; l++ {
		t.offsets[l] = offset
		offset += t.counts[l]
	}

	code := uint64(0)
	prevLen := uint8(0)
	for _, sym := range t.symbols {
		l := lengths[sym]
		code <<= l - prevLen
		if l < 64 && code >= 1<<l {
			return nil, fmt.Errorf("%w: code lengths over-subscribe the code space", errs.ErrHuffmanEncoding)
		}
		if sym == t.symbols[t.offsets[l]] {
			t.firstCode[l] = code
		}
		t.codes[sym] = code
		code++
		prevLen = l
	}

	return t, nil
}
