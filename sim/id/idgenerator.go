// Package id hands out identifiers for payloads, tasks and runs.
//
// There is deliberately no package-level generator: every run owns its own
// sequential generator so that two runs with the same inputs produce the same
// IDs, and runs executing in parallel never share a counter.
package id

import (
	"strconv"
	"sync/atomic"

	"github.com/rs/xid"
)

// IDGenerator can generate IDs.
type IDGenerator interface {
	// Generate an ID.
	Generate() string
}

// NewIDGenerator returns a sequential generator. The first ID is "1".
func NewIDGenerator() IDGenerator {
	return &sequentialIDGenerator{}
}

// NewPrefixedIDGenerator returns a sequential generator whose IDs start with
// prefix, e.g. "pkt-1".
func NewPrefixedIDGenerator(prefix string) IDGenerator {
	return &sequentialIDGenerator{prefix: prefix}
}

// NewParallelIDGenerator returns a generator that is safe to share across
// goroutines. Its IDs are globally unique but not reproducible.
func NewParallelIDGenerator() IDGenerator {
	return parallelIDGenerator{}
}

type sequentialIDGenerator struct {
	prefix string
	nextID uint64
}

func (g *sequentialIDGenerator) Generate() string {
	idNumber := atomic.AddUint64(&g.nextID, 1)

	return g.prefix + strconv.FormatUint(idNumber, 10)
}

type parallelIDGenerator struct{}

func (g parallelIDGenerator) Generate() string {
	return xid.New().String()
}
