// Package navpath implements the Path object: the linked sequence of nodes
// output by the searcher, its straight-line optimization pass, and the
// closest-point-on-path query with its small bounded cache.
//
// Grounded on the teacher's services/path_utils.go ReconstructPath (which
// walks a predecessor map from goal back to source and reverses it) for the
// reconstruction shape, generalized from hex AxialCoord nodes to square
// LayerTag+Coord nodes with an explicit optimizable bit and direction cache.
package navpath

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/fieldforge/navcore/internal/cellgrid"
	"github.com/fieldforge/navcore/internal/geom"
	"github.com/fieldforge/navcore/internal/locomotor"
)

// Node is one waypoint of a path: a position, the layer it lies on, whether
// it may be removed during optimization, and — once optimized — the
// cached direction/distance to the next retained node.
type Node struct {
	Pos geom.Coord
	Layer cellgrid.LayerTag

	Optimizable bool

	// DirX/DirY/Distance cache the unit step direction and world-space
	// distance to the next node, populated by Optimize.
	DirX, DirY float64
	Distance   float64
}

// Path is a sequence of nodes, represented as a slice rather than a literal
// doubly-linked list: Go slices already give O(1) forward/back indexing and
// cheap splicing via append/copy, which is what the original's
// doubly-linked representation was chiefly used for (patchPath splicing,
// forward optimization walks). The externally-visible semantics — ordered
// waypoints, an optimizable bit per node, a blocked-by-ally flag, a
// closest-point cache — are preserved exactly.
type Path struct {
	Nodes []Node

	BlockedByAlly bool

	cache *expirable.LRU[string, closestCacheEntry]
}

type closestCacheEntry struct {
	pos       geom.Pos
	alongDist float64
	layer     cellgrid.LayerTag
	reuses    int
}

// maxCacheReuses bounds how many times a cached closest-point result may be
// handed back before it must be recomputed — the resolved open question
// from section 9: kept small and fixed, not made configurable.
const maxCacheReuses = 4

// New constructs a path from an ordered node list. Every node starts
// optimizable except the first and last, matching the convention that
// endpoints are never removed by straight-line simplification.
func New(nodes []Node) *Path {
	for i := range nodes {
		nodes[i].Optimizable = i != 0 && i != len(nodes)-1
	}
	return &Path{
		Nodes: nodes,
		cache: expirable.NewLRU[string, closestCacheEntry](8, nil, time.Minute),
	}
}

// Len reports the number of nodes.
func (p *Path) Len() int { return len(p.Nodes) }

// Equal reports whether two paths have the same node sequence (position and
// layer only — caches and flags are not part of path identity), used by the
// path-optimization idempotence test in section 8.
func (p *Path) Equal(o *Path) bool {
	if p == nil || o == nil {
		return p == o
	}
	if len(p.Nodes) != len(o.Nodes) {
		return false
	}
	for i := range p.Nodes {
		if p.Nodes[i].Pos != o.Nodes[i].Pos || p.Nodes[i].Layer != o.Nodes[i].Layer {
			return false
		}
	}
	return true
}

// LineChecker is the visitor-based replacement for the original's
// CellAlongLineProc function-pointer callback (design notes section 9): a
// closure invoked once per cell the line from a to b crosses, returning
// false to abort early. Implemented with a plain Bresenham walk so the hot
// inner loop inlines cleanly.
type LineChecker func(c geom.Coord) bool

// IterateCellsAlongLine walks every grid cell the segment from a to b
// visits under a plain Bresenham walk (one cell per step; a diagonal step
// does not visit the two cells beside the corner it crosses; a
// multi-cell-wide footprint can be checked by calling this once per offset
// in geom.SquareFootprint), calling visit for each. It stops early if visit
// returns false.
func IterateCellsAlongLine(a, b geom.Coord, visit LineChecker) {
	dx := abs32(b.X - a.X)
	dy := -abs32(b.Y - a.Y)
	sx := int32(1)
	if a.X >= b.X {
		sx = -1
	}
	sy := int32(1)
	if a.Y >= b.Y {
		sy = -1
	}
	err := dx + dy
	x, y := a.X, a.Y
	for {
		if !visit(geom.Coord{X: x, Y: y}) {
			return
		}
		if x == b.X && y == b.Y {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// Passer reports whether a single cell is passable for loc; the straight-line
// checks call it for every cell the line (enlarged to the locomotor's square
// footprint per geom.SquareFootprint) crosses.
type Passer interface {
	CellPassable(c geom.Coord, loc locomotor.Set) bool
}

// IsLinePassable implements isLinePassable / the shared primitive behind
// line-of-sight and path optimization: every cell along the line, enlarged
// to the unit's footprint, must be passable.
func IsLinePassable(grid Passer, loc locomotor.Set, a, b geom.Coord) bool {
	ok := true
	footprint := geom.SquareFootprint(loc.DiameterCells)
	IterateCellsAlongLine(a, b, func(c geom.Coord) bool {
		for _, off := range footprint {
			if !grid.CellPassable(c.Add(off), loc) {
				ok = false
				return false
			}
		}
		return true
	})
	return ok
}

// Optimize performs the straight-line simplification pass of 4.5: walk
// forward and delete a node iff the straight line between its predecessor
// and successor is passable. Returns a new Path; the receiver is untouched,
// matching the idempotence property (optimizing an already-optimized path
// returns an equal path, never a mutated one with surprising aliasing).
func (p *Path) Optimize(grid Passer, loc locomotor.Set) *Path {
	if len(p.Nodes) <= 2 {
		out := New(append([]Node(nil), p.Nodes...))
		out.BlockedByAlly = p.BlockedByAlly
		return out
	}
	kept := []Node{p.Nodes[0]}
	anchor := 0
	for i := 1; i < len(p.Nodes)-1; i++ {
		if !p.Nodes[i].Optimizable {
			kept = append(kept, p.Nodes[i])
			anchor = i
			continue
		}
		// Try to skip node i: is the line from the current anchor straight
		// to node i+1 passable?
		if IsLinePassable(grid, loc, p.Nodes[anchor].Pos, p.Nodes[i+1].Pos) {
			continue // drop node i
		}
		kept = append(kept, p.Nodes[i])
		anchor = i
	}
	kept = append(kept, p.Nodes[len(p.Nodes)-1])

	out := New(kept)
	out.BlockedByAlly = p.BlockedByAlly
	out.cacheDirections()
	return out
}

// ClosestPointOnPath returns the point on the path nearest to query, the
// distance travelled along the path to reach it, and the layer it lies on.
// Per the resolved open question in section 9, a result is cached and
// handed back unrecomputed for up to maxCacheReuses calls whose query point
// falls within pitch/8 of the cached query — callers that poll every tick
// from a slowly-moving unit get the cheap path far more often than not,
// without ever serving a result that has gone stale by more than one tick's
// worth of movement.
func (p *Path) ClosestPointOnPath(query geom.Pos, pitch float64) (geom.Pos, float64, cellgrid.LayerTag) {
	tolerance := pitch / 8
	key := quantizeKey(query, tolerance)
	if hit, ok := p.cache.Get(key); ok && hit.reuses < maxCacheReuses {
		hit.reuses++
		p.cache.Add(key, hit)
		return hit.pos, hit.alongDist, hit.layer
	}

	bestPos := query
	bestDist := -1.0
	bestAlong := 0.0
	bestLayer := cellgrid.LayerGround
	along := 0.0
	for i := 0; i < len(p.Nodes)-1; i++ {
		a := p.Nodes[i]
		b := p.Nodes[i+1]
		aPos := geom.CellCenter(a.Pos, pitch)
		bPos := geom.CellCenter(b.Pos, pitch)
		cp, t := closestPointOnSegment(aPos, bPos, query)
		d := geom.EuclideanDistance(cp, query)
		if bestDist < 0 || d < bestDist {
			bestDist = d
			bestPos = cp
			bestAlong = along + t*geom.EuclideanDistance(aPos, bPos)
			bestLayer = a.Layer
		}
		along += geom.EuclideanDistance(aPos, bPos)
	}
	if len(p.Nodes) == 1 {
		bestPos = geom.CellCenter(p.Nodes[0].Pos, pitch)
		bestLayer = p.Nodes[0].Layer
	}

	p.cache.Add(key, closestCacheEntry{pos: bestPos, alongDist: bestAlong, layer: bestLayer, reuses: 0})
	return bestPos, bestAlong, bestLayer
}

func quantizeKey(p geom.Pos, tolerance float64) string {
	if tolerance <= 0 {
		tolerance = 1
	}
	qx := int64(p.X / tolerance)
	qy := int64(p.Y / tolerance)
	qz := int64(p.Z / tolerance)
	return itoaKey(qx, qy, qz)
}

func itoaKey(x, y, z int64) string {
	b := make([]byte, 0, 32)
	b = appendInt(b, x)
	b = append(b, ',')
	b = appendInt(b, y)
	b = append(b, ',')
	b = appendInt(b, z)
	return string(b)
}

func appendInt(b []byte, v int64) []byte {
	if v < 0 {
		b = append(b, '-')
		v = -v
	}
	if v == 0 {
		return append(b, '0')
	}
	start := len(b)
	for v > 0 {
		b = append(b, byte('0'+v%10))
		v /= 10
	}
	// reverse the digits just appended
	for i, j := start, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return b
}

// closestPointOnSegment returns the closest point to query on segment a-b
// and the parametric t in [0,1] along the segment.
func closestPointOnSegment(a, b, query geom.Pos) (geom.Pos, float64) {
	dx, dy, dz := b.X-a.X, b.Y-a.Y, b.Z-a.Z
	lenSq := dx*dx + dy*dy + dz*dz
	if lenSq == 0 {
		return a, 0
	}
	t := ((query.X-a.X)*dx + (query.Y-a.Y)*dy + (query.Z-a.Z)*dz) / lenSq
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return geom.Pos{X: a.X + t*dx, Y: a.Y + t*dy, Z: a.Z + t*dz}, t
}

func (p *Path) cacheDirections() {
	for i := 0; i < len(p.Nodes)-1; i++ {
		a, b := p.Nodes[i].Pos, p.Nodes[i+1].Pos
		dx := float64(b.X - a.X)
		dy := float64(b.Y - a.Y)
		dist := (dx*dx + dy*dy)
		if dist > 0 {
			length := sqrt(dist)
			p.Nodes[i].DirX = dx / length
			p.Nodes[i].DirY = dy / length
			p.Nodes[i].Distance = length
		}
	}
}

func sqrt(v float64) float64 {
	// Newton's-method square root, so this file needs no math import;
	// kept trivial on purpose.
	if v <= 0 {
		return 0
	}
	x := v
	for i := 0; i < 20; i++ {
		x = 0.5 * (x + v/x)
	}
	return x
}
