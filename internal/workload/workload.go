// Package workload supplies the request shape for each workload kind: the
// URL path, the request body, and, when the correct answer is locally
// recomputable, the expected response checksum.
package workload

import (
	"encoding/binary"
	"fmt"
)

// Provider is the per-kind capability the executor consumes. New kinds plug
// in here without touching the dispatcher or the aggregator.
type Provider interface {
	// Path is the URL path suffix the request is addressed to.
	Path() string
	// Body is the request payload.
	Body() []byte
	// Checksum returns the expected response checksum when the kind is
	// verifiable.
	Checksum() (uint64, bool)
}

type Kind string

const (
	KindMatmul  Kind = "matmul"
	KindCompute Kind = "compute"
	KindIO      Kind = "io"
)

// New returns the provider for a workload kind; size parameterizes kinds
// that take one.
func New(kind Kind, size uint64) (Provider, error) {
	switch kind {
	case KindMatmul:
		if size == 0 {
			return nil, fmt.Errorf("matmul workload requires a non-zero input size")
		}
		return matmul{size: size}, nil
	case KindCompute:
		return plain{path: "compute"}, nil
	case KindIO:
		return plain{path: "io"}, nil
	default:
		return nil, fmt.Errorf("unknown workload kind %q", kind)
	}
}

// matmul asks the target to multiply an n-by-n matrix with its transpose and
// reply with the last output cell, which we can recompute locally.
type matmul struct {
	size uint64
}

func (m matmul) Path() string { return "matmul" }

// Body encodes the two matrix dimensions as big-endian 64-bit integers.
func (m matmul) Body() []byte {
	body := make([]byte, 16)
	binary.BigEndian.PutUint64(body[:8], m.size)
	binary.BigEndian.PutUint64(body[8:], m.size)
	return body
}

func (m matmul) Checksum() (uint64, bool) {
	return MatmulChecksum(m.size), true
}

// MatmulChecksum is the last cell of A x A-transpose for the row-major
// matrix A holding 1..n*n. That cell is the dot product of the last row
// with itself, so only the final row needs to be walked.
func MatmulChecksum(n uint64) uint64 {
	var sum uint64
	base := (n - 1) * n
	for k := uint64(0); k < n; k++ {
		v := base + k + 1
		sum += v * v
	}
	return sum
}

// plain is a bodyless workload with no verifiable answer.
type plain struct {
	path string
}

func (p plain) Path() string             { return p.path }
func (p plain) Body() []byte             { return nil }
func (p plain) Checksum() (uint64, bool) { return 0, false }
