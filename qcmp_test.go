package qcmp

import (
	"bytes"
	"math/rand"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mpscomp/qcmp/errs"
	"github.com/mpscomp/qcmp/format"
	"github.com/mpscomp/qcmp/section"
)

func randomBytes(t *testing.T, n int, seed int64) []byte {
	t.Helper()

	rng := rand.New(rand.NewSource(seed))
	data := make([]byte, n)
	_, err := rng.Read(data)
	require.NoError(t, err)

	return data
}

func TestCompress_InputTooSmall(t *testing.T) {
	for _, n := range []int{0, 1, 32, 63} {
		container, _, err := Compress(make([]byte, n))
		require.ErrorIs(t, err, errs.ErrInputTooSmall, "length %d", n)
		require.Nil(t, container, "no partial container for length %d", n)
	}
}

func TestCompressDecompress_ExactRoundTrip(t *testing.T) {
	// With the rank cap at the physical dimension the tensor stage is
	// exact, so decompress(compress(data)) == data.
	for _, n := range []int{64, 100, 256, 1000, 8192} {
		data := randomBytes(t, n, int64(n))

		container, stats, err := Compress(data, WithMaxRank(format.PhysDim))
		require.NoError(t, err, "length %d", n)
		require.Equal(t, n, stats.OriginalSize)
		require.Equal(t, len(container), stats.CompressedSize)
		require.Positive(t, stats.Ratio)
		require.Equal(t, format.PhysDim, stats.RankUsed)
		require.Equal(t, format.DeviceCPU, stats.Device)
		require.Zero(t, stats.VRAMPeakBytes)

		got, err := Decompress(container)
		require.NoError(t, err, "length %d", n)
		require.Equal(t, data, got, "length %d", n)
	}
}

func TestCompressDecompress_QuantizationFixedPoint(t *testing.T) {
	// Re-encoding a reconstructed stream must be a fixed point even when
	// the first pass was lossy.
	data := randomBytes(t, 4096, 77)

	container, _, err := Compress(data, WithMaxRank(8))
	require.NoError(t, err)

	first, err := Decompress(container)
	require.NoError(t, err)
	require.Len(t, first, len(data))

	container2, _, err := Compress(first, WithMaxRank(format.PhysDim))
	require.NoError(t, err)

	second, err := Decompress(container2)
	require.NoError(t, err)
	require.Equal(t, first, second, "second round trip must reproduce the first exactly")
}

func TestCompressDecompress_SingleDistinctByte(t *testing.T) {
	data := bytes.Repeat([]byte{0x42}, 1000)

	container, _, err := Compress(data, WithMaxRank(4))
	require.NoError(t, err)

	got, err := Decompress(container)
	require.NoError(t, err)
	require.Equal(t, data, got)
}

func TestCompressDecompress_ChunkedRoundTrip(t *testing.T) {
	// Four parallel blocks; decompression must stitch them back together
	// in index order.
	data := randomBytes(t, 16000, 99)

	container, _, err := Compress(data,
		WithMaxRank(format.PhysDim),
		WithChunkSize(format.MinChunkSize),
	)
	require.NoError(t, err)

	got, err := Decompress(container)
	require.NoError(t, err)
	require.Equal(t, data, got)
}

func TestCompress_Deterministic(t *testing.T) {
	data := randomBytes(t, 20000, 5)
	opts := []Option{WithMaxRank(32), WithChunkSize(format.MinChunkSize)}

	a, _, err := Compress(data, opts...)
	require.NoError(t, err)

	// Same input and configuration with a single worker must produce a
	// byte-identical container: output depends on block boundaries, never
	// on scheduling.
	prev := runtime.GOMAXPROCS(1)
	b, _, err := Compress(data, opts...)
	runtime.GOMAXPROCS(prev)
	require.NoError(t, err)

	require.Equal(t, Checksum(a), Checksum(b))
	require.True(t, bytes.Equal(a, b))
}

func TestDecompress_MalformedContainers(t *testing.T) {
	data := randomBytes(t, 512, 123)
	container, _, err := Compress(data, WithMaxRank(16))
	require.NoError(t, err)

	t.Run("Flipped magic", func(t *testing.T) {
		bad := append([]byte{}, container...)
		bad[0] ^= 0x01

		_, err := Decompress(bad)
		require.ErrorIs(t, err, errs.ErrDecompressionFailed)
		require.ErrorIs(t, err, errs.ErrInvalidMagicNumber)
	})

	t.Run("Bumped version", func(t *testing.T) {
		bad := append([]byte{}, container...)
		bad[section.VersionOffset]++

		_, err := Decompress(bad)
		require.ErrorIs(t, err, errs.ErrDecompressionFailed)
		require.ErrorIs(t, err, errs.ErrUnsupportedVersion)
	})

	t.Run("Oversized table length", func(t *testing.T) {
		bad := append([]byte{}, container...)
		bad[section.TableLenOffset] = 0xFF
		bad[section.TableLenOffset+1] = 0xFF
		bad[section.TableLenOffset+2] = 0xFF
		bad[section.TableLenOffset+3] = 0xFF

		_, err := Decompress(bad)
		require.ErrorIs(t, err, errs.ErrDecompressionFailed)
		require.ErrorIs(t, err, errs.ErrTableOutOfRange)
	})

	t.Run("Truncated everywhere", func(t *testing.T) {
		// Cutting the container at any boundary must fail cleanly, never
		// panic.
		step := len(container)/97 + 1
		for cut := 0; cut < len(container); cut += step {
			_, err := Decompress(container[:cut])
			require.Error(t, err, "cut at %d", cut)
			require.ErrorIs(t, err, errs.ErrDecompressionFailed, "cut at %d", cut)
		}
	})

	t.Run("Corrupted payload", func(t *testing.T) {
		bad := append([]byte{}, container...)
		for i := section.HeaderSize + 256 + 8; i < len(bad); i += 3 {
			bad[i] ^= 0xA5
		}

		// Corruption either fails structurally or decodes to different
		// bytes; it must never panic.
		got, err := Decompress(bad)
		if err == nil {
			require.NotEqual(t, data, got)
		} else {
			require.ErrorIs(t, err, errs.ErrDecompressionFailed)
		}
	})

	t.Run("Empty input", func(t *testing.T) {
		_, err := Decompress(nil)
		require.ErrorIs(t, err, errs.ErrDecompressionFailed)
	})
}

func TestCompress_LossyRank(t *testing.T) {
	// A heavily truncated rank still produces a valid container whose
	// reconstruction has the original length.
	data := randomBytes(t, 10000, 321)

	container, stats, err := Compress(data, WithMaxRank(2))
	require.NoError(t, err)
	require.LessOrEqual(t, stats.MaxBondDim, 2)

	got, err := Decompress(container)
	require.NoError(t, err)
	require.Len(t, got, len(data))
}

func TestNewConfig_OptionValidation(t *testing.T) {
	t.Run("Invalid max rank", func(t *testing.T) {
		_, _, err := Compress(make([]byte, 128), WithMaxRank(0))
		require.Error(t, err)
	})

	t.Run("Chunk size below minimum", func(t *testing.T) {
		_, _, err := Compress(make([]byte, 128), WithChunkSize(16))
		require.Error(t, err)
	})

	t.Run("Tolerance out of range", func(t *testing.T) {
		_, _, err := Compress(make([]byte, 128), WithSVTolerance(2))
		require.Error(t, err)
	})

	t.Run("Nil accelerator", func(t *testing.T) {
		_, _, err := Compress(make([]byte, 128), WithAccelerator(nil))
		require.Error(t, err)
	})
}

func TestStats_SpaceSavings(t *testing.T) {
	s := CompressionStats{OriginalSize: 1000, CompressedSize: 250}
	require.InDelta(t, 75.0, s.SpaceSavings(), 1e-9)

	require.Zero(t, CompressionStats{}.SpaceSavings())
}
