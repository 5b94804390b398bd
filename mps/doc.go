// Package mps implements the tensor-train (matrix product state) stage of
// the qcmp pipeline: mapping bytes to complex amplitudes, decomposing an
// amplitude sequence into a chain of low-rank complex matrices by sequential
// SVD truncation, contracting the chain back into amplitudes, and the fixed
// binary layout of a serialized chain.
//
// A chain is a single-owner value produced and consumed by one
// compression or decompression call; it is never shared across calls.
//
// The decomposition works on a flat row-major buffer. Each sweep reshapes
// the remaining buffer into a matrix whose row count folds the previous
// bond dimension with up to PhysDim (256) columns of the previous level,
// factors it with a thin SVD, keeps the strongest singular directions up to
// the rank cap, and carries sigma*V^T forward as the next remaining buffer.
// The buffer tail is zero-padded to a whole number of rows at every level;
// the pre-padding amplitude count is recorded in the chain so
// reconstruction can strip it again.
package mps
