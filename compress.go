package qcmp

import (
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mpscomp/qcmp/errs"
	"github.com/mpscomp/qcmp/format"
	"github.com/mpscomp/qcmp/huffman"
	"github.com/mpscomp/qcmp/internal/pool"
	"github.com/mpscomp/qcmp/mps"
	"github.com/mpscomp/qcmp/section"
)

// Compress compresses data into a self-describing container using the
// hybrid tensor-train + canonical Huffman pipeline.
//
// The input is partitioned into ChunkSize blocks by index; each block is
// amplitude-mapped, decomposed and serialized independently on a bounded
// worker pool. Workers share only read-only access to the input; results
// are concatenated in block order, so the container is byte-identical
// regardless of worker count or scheduling. A single Huffman table built
// over the whole concatenation governs the container.
//
// Inputs shorter than 64 bytes fail with errs.ErrInputTooSmall. On any
// internal failure no partial container is returned.
func Compress(data []byte, opts ...Option) ([]byte, CompressionStats, error) {
	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, CompressionStats{}, err
	}

	if len(data) < format.MinInputSize {
		return nil, CompressionStats{}, fmt.Errorf("%w: got %d bytes", errs.ErrInputTooSmall, len(data))
	}

	start := time.Now()

	deviceType := format.DeviceCPU
	if cfg.useGPU {
		// The accelerator is an external collaborator; its failures pass
		// through unchanged. The core still executes on the general path.
		if err := cfg.accelerator.Reserve(cfg.vramBudget); err != nil {
			return nil, CompressionStats{}, err
		}
		defer cfg.accelerator.Release()
		deviceType = format.DeviceGPU
	}

	chunks := (len(data) + cfg.chunkSize - 1) / cfg.chunkSize
	buffers := make([]*pool.ByteBuffer, chunks)
	bondDims := make([]int, chunks)
	defer func() {
		for _, bb := range buffers {
			pool.PutChunkBuffer(bb)
		}
	}()

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i := 0; i < chunks; i++ {
		i := i
		g.Go(func() error {
			begin := i * cfg.chunkSize
			end := begin + cfg.chunkSize
			if end > len(data) {
				end = len(data)
			}

			chain, err := mps.Decompose(mps.MapBytes(data[begin:end]), cfg.maxRank, cfg.svTolerance)
			if err != nil {
				return err
			}

			bb := pool.GetChunkBuffer()
			bb.B = chain.AppendTo(bb.B)
			buffers[i] = bb
			bondDims[i] = chain.MaxBondDim()

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, CompressionStats{}, err
	}

	total := 0
	for _, bb := range buffers {
		total += bb.Len()
	}
	serialized := make([]byte, 0, total)
	for _, bb := range buffers {
		serialized = append(serialized, bb.Bytes()...)
	}

	table, err := huffman.BuildTable(serialized)
	if err != nil {
		return nil, CompressionStats{}, err
	}

	payload, err := table.Encode(serialized)
	if err != nil {
		return nil, CompressionStats{}, err
	}

	tableBytes := table.Bytes()
	header := section.NewHeader(uint32(len(tableBytes)))

	container := make([]byte, 0, section.HeaderSize+len(tableBytes)+len(payload))
	container = append(container, header.Bytes()...)
	container = append(container, tableBytes...)
	container = append(container, payload...)

	maxBond := 0
	for _, bd := range bondDims {
		if bd > maxBond {
			maxBond = bd
		}
	}

	stats := CompressionStats{
		OriginalSize:   len(data),
		CompressedSize: len(container),
		Ratio:          float64(len(data)) / float64(len(container)),
		Elapsed:        time.Since(start),
		RankUsed:       cfg.maxRank,
		MaxBondDim:     maxBond,
		Device:         deviceType,
		VRAMPeakBytes:  cfg.accelerator.PeakBytes(),
	}

	return container, stats, nil
}
