// Package searchinfo implements the pool-allocated per-cell A* bookkeeping
// record (predecessor, g, f, flags, intrusive open-list links) described in
// section 3 and the design notes' "sidecar, not dense array" guidance: the
// grid can have hundreds of thousands of cells but only a few thousand ever
// participate in a search at once, so records are freelist-allocated and
// referenced by a small integer handle, not embedded in every cell.
package searchinfo

import (
	"fmt"

	"github.com/fieldforge/navcore/internal/cellgrid"
	"github.com/fieldforge/navcore/internal/geom"
)

// Handle is an index into the pool's backing slice. cellgrid.NoSearchInfo
// (-1) means "not allocated".
type Handle = int32

// Flags is the bit bank described in the data model's Cell search-info
// field list.
type Flags uint8

const (
	FlagOnOpen Flags = 1 << iota
	FlagOnClosed
	FlagBlockedByAlly
)

// Info is one pool record: predecessor for path reconstruction, A* costs,
// owning coordinate, and intrusive open-list links.
type Info struct {
	Coord geom.Coord

	Predecessor Handle // NoSearchInfo if this is the start cell
	G           float64
	F           float64

	Flags Flags

	OpenNext Handle
	OpenPrev Handle

	free bool
}

// Pool is a freelist of Info records shared by all searches in a tick but
// used by only one search at a time, per section 5's shared-resources rule.
type Pool struct {
	records []Info
	free    []Handle
	cap     int
}

// NewPool preallocates capacity records, matching section 7's requirement
// that "pool size must be provisioned for the configured maximum concurrent
// open+closed list size".
func NewPool(capacity int) *Pool {
	p := &Pool{records: make([]Info, 0, capacity), cap: capacity}
	return p
}

// Allocate returns a fresh handle for coord, or an error if the pool is
// exhausted — section 7's "pool exhaustion is fatal for the current
// search" error kind.
func (p *Pool) Allocate(coord geom.Coord) (Handle, error) {
	if len(p.free) > 0 {
		h := p.free[len(p.free)-1]
		p.free = p.free[:len(p.free)-1]
		p.records[h] = Info{Coord: coord, Predecessor: -1, OpenNext: -1, OpenPrev: -1}
		return h, nil
	}
	if len(p.records) >= p.cap {
		return -1, fmt.Errorf("searchinfo: pool exhausted (capacity %d)", p.cap)
	}
	p.records = append(p.records, Info{Coord: coord, Predecessor: -1, OpenNext: -1, OpenPrev: -1})
	return Handle(len(p.records) - 1), nil
}

// Release returns h to the freelist. Per the data model invariant, a
// released record carries neither FlagOnOpen nor FlagOnClosed.
func (p *Pool) Release(h Handle) {
	p.records[h] = Info{free: true, Predecessor: -1, OpenNext: -1, OpenPrev: -1}
	p.free = append(p.free, h)
}

// Get returns a pointer to the record at h for in-place mutation.
func (p *Pool) Get(h Handle) *Info {
	return &p.records[h]
}

// ReleaseAll releases every handle in the slice, used by the searcher to
// bulk-free the closed list at search end (the closed list's only purpose,
// per the data model, is "to permit bulk release at search end").
func (p *Pool) ReleaseAll(handles []Handle) {
	for _, h := range handles {
		p.Release(h)
	}
}

// InUse reports how many records are currently allocated, for diagnostics
// and the HTTP introspection surface.
func (p *Pool) InUse() int {
	return len(p.records) - len(p.free)
}

// MarkCell links cell's SearchInfo field to h, and vice versa is implicit:
// the caller owns the cellgrid.Cell and writes this back via grid.Mutate.
func MarkCell(cell *cellgrid.Cell, h Handle) {
	cell.SearchInfo = h
}
