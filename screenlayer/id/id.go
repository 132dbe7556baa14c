// Package id issues the identifiers that name layers inside a controller.
package id

import (
	"strconv"
	"sync/atomic"
)

// ID identifies a layer. IDs are ordered by creation; equality is the only
// comparison the controller relies on.
//
// IDs repeat only after 2^64 have been issued by the same Generator.
type ID uint64

func (i ID) String() string {
	return "layer#" + strconv.FormatUint(uint64(i), 10)
}

// Generator hands out monotonically increasing IDs. It is safe for
// concurrent use. The zero value starts at 0.
type Generator struct {
	next atomic.Uint64
}

// Next returns a fresh ID.
func (g *Generator) Next() ID {
	return ID(g.next.Add(1) - 1)
}

// Default is the process-wide generator. Every layer built with layer.New
// draws from it, so IDs are unique across all controllers in the process.
var Default = &Generator{}

// Next returns a fresh ID from Default.
func Next() ID {
	return Default.Next()
}
