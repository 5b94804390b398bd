package huffman

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mpscomp/qcmp/errs"
)

func randomStream(t *testing.T, n int, distinct int, seed int64) []byte {
	t.Helper()

	rng := rand.New(rand.NewSource(seed))
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(rng.Intn(distinct))
	}

	return data
}

// codeString renders a symbol's code as a bit string for prefix checks.
func codeString(t *Table, sym byte) string {
	code, length := t.Code(sym)
	if length == 0 {
		return ""
	}

	var sb strings.Builder
	for i := int(length) - 1; i >= 0; i-- {
		if code>>uint(i)&1 == 1 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}

	return sb.String()
}

func TestBuildTable_PrefixFree(t *testing.T) {
	streams := [][]byte{
		[]byte("abracadabra"),
		randomStream(t, 4096, 256, 1),
		randomStream(t, 4096, 7, 2),
		randomStream(t, 100, 2, 3),
	}

	for si, stream := range streams {
		table, err := BuildTable(stream)
		require.NoError(t, err, "stream %d", si)

		var codes []string
		for sym := 0; sym < AlphabetSize; sym++ {
			if s := codeString(table, byte(sym)); s != "" {
				codes = append(codes, s)
			}
		}

		for i := range codes {
			for j := range codes {
				if i == j {
					continue
				}
				require.False(t, strings.HasPrefix(codes[i], codes[j]),
					"stream %d: code %q is a prefix of %q", si, codes[j], codes[i])
			}
		}
	}
}

func TestBuildTable_DeterministicTieBreak(t *testing.T) {
	// All symbols equally frequent: the (frequency, symbol) tie-break must
	// make repeated builds identical.
	stream := make([]byte, 256)
	for i := range stream {
		stream[i] = byte(i)
	}

	a, err := BuildTable(stream)
	require.NoError(t, err)
	b, err := BuildTable(stream)
	require.NoError(t, err)

	require.Equal(t, a.Bytes(), b.Bytes())
	for sym := 0; sym < AlphabetSize; sym++ {
		require.Equal(t, codeString(a, byte(sym)), codeString(b, byte(sym)))
	}
}

func TestBuildTable_Degenerate(t *testing.T) {
	t.Run("Single distinct symbol", func(t *testing.T) {
		table, err := BuildTable(bytes.Repeat([]byte{0x42}, 1000))
		require.NoError(t, err)

		_, length := table.Code(0x42)
		require.Equal(t, uint8(1), length)

		for sym := 0; sym < AlphabetSize; sym++ {
			if sym == 0x42 {
				continue
			}
			_, l := table.Code(byte(sym))
			require.Zero(t, l, "absent symbol %d must have no code", sym)
		}
	})

	t.Run("Empty stream", func(t *testing.T) {
		_, err := BuildTable(nil)
		require.ErrorIs(t, err, errs.ErrHuffmanEncoding)
	})
}

func TestRebuildFromLengths_MatchesBuild(t *testing.T) {
	streams := [][]byte{
		[]byte("the quick brown fox jumps over the lazy dog"),
		randomStream(t, 8192, 256, 11),
		randomStream(t, 512, 3, 12),
		bytes.Repeat([]byte{0xAA}, 64),
	}

	for si, stream := range streams {
		built, err := BuildTable(stream)
		require.NoError(t, err, "stream %d", si)

		rebuilt, err := RebuildFromLengths(built.Bytes())
		require.NoError(t, err, "stream %d", si)

		require.Equal(t, built.Bytes(), rebuilt.Bytes())
		for sym := 0; sym < AlphabetSize; sym++ {
			wantCode, wantLen := built.Code(byte(sym))
			gotCode, gotLen := rebuilt.Code(byte(sym))
			require.Equal(t, wantLen, gotLen, "stream %d symbol %d", si, sym)
			require.Equal(t, wantCode, gotCode, "stream %d symbol %d", si, sym)
		}
	}
}

func TestRebuildFromLengths_Invalid(t *testing.T) {
	t.Run("Wrong table size", func(t *testing.T) {
		_, err := RebuildFromLengths(make([]byte, 100))
		require.ErrorIs(t, err, errs.ErrDecompressionFailed)
	})

	t.Run("All zero lengths", func(t *testing.T) {
		_, err := RebuildFromLengths(make([]byte, AlphabetSize))
		require.ErrorIs(t, err, errs.ErrDecompressionFailed)
	})

	t.Run("Over-subscribed lengths", func(t *testing.T) {
		lengths := make([]byte, AlphabetSize)
		// Three 1-bit codes cannot coexist.
		lengths[0], lengths[1], lengths[2] = 1, 1, 1

		_, err := RebuildFromLengths(lengths)
		require.ErrorIs(t, err, errs.ErrDecompressionFailed)
	})
}

func TestTable_Bytes(t *testing.T) {
	table, err := BuildTable([]byte("mississippi river"))
	require.NoError(t, err)

	serialized := table.Bytes()
	require.Len(t, serialized, AlphabetSize)

	for sym := 0; sym < AlphabetSize; sym++ {
		_, length := table.Code(byte(sym))
		require.Equal(t, length, serialized[sym])
	}
}
