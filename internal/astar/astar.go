// Package astar implements the core search loop shared by every pathfind
// variant (4.4): open/closed list management over a shared searchinfo.Pool,
// 8-connected neighbor generation with anti-corner-cutting, layer-transition
// steps at bridge/wall connect cells, and the edge-cost surcharges for
// ally-blocked, hostile-goal, and pinched cells. The five termination
// variants in variants.go all call into runSearch with a different
// acceptance predicate; only the predicate and the path built at the end
// differ between findPath, findClosestPath, findAttackPath, findSafePath,
// and patchPath.
//
// Grounded on the teacher's services/rules_engine.go dijkstraMovement loop
// (open/closed bookkeeping, a frontier drained in cost order, neighbor
// expansion through a capability-aware step predicate) generalized from
// uniform-cost hex movement to heuristic-guided square-grid A* with layer
// transitions.
package astar

import (
	"context"
	"fmt"

	"github.com/fieldforge/navcore/internal/cellgrid"
	"github.com/fieldforge/navcore/internal/geom"
	"github.com/fieldforge/navcore/internal/layers"
	"github.com/fieldforge/navcore/internal/locomotor"
	"github.com/fieldforge/navcore/internal/navpath"
	"github.com/fieldforge/navcore/internal/openlist"
	"github.com/fieldforge/navcore/internal/searchinfo"
	"github.com/fieldforge/navcore/internal/zonemgr"
)

// Edge-cost surcharge multipliers applied on top of the base octile step
// cost. None of these are named constants in the data model beyond "a
// surcharge, not a rejection" — the exact multipliers are an implementation
// choice, picked so that a unit strongly
// prefers waiting a tick over shoving through an ally, but will still do it
// rather than report no path at all.
const (
	allyBlockedMultiplier   = 3.0
	hostileGoalMultiplier   = 2.0
	pinchedCellMultiplier   = 1.5
	layerTransitionBaseCost = 1.0 // multiplied by the owning grid's pitch
)

// Options carries every per-search toggle: the locomotor capability, the
// unit issuing the search (for self-exclusion in occupancy checks), and the
// passability relaxations defined in locomotor.StepOptions.
type Options struct {
	Loc            locomotor.Set
	Self           cellgrid.UnitID
	AllowAllyClear bool
	IgnoreObstacle cellgrid.ObstacleID
	AllowPinched   bool

	// CostMultiplier scales every computed edge cost when positive, the
	// caller-supplied risk dial (a unit fleeing danger might search with a
	// multiplier applied to make otherwise-cheap routes look expensive
	// relative to a fixed budget). Zero or negative means "no scaling",
	// i.e. a multiplier of 1.
	CostMultiplier float64

	// MaxExpansions bounds the number of nodes popped from the open list
	// before the search gives up, per section 5's hard expanded-cell cap —
	// a runaway search on a pathological map must terminate within a tick's
	// budget rather than run unbounded.
	MaxExpansions int
}

// ErrNoPath is returned by the strict variant (findPath) when the open list
// empties with the goal never reached.
var ErrNoPath = fmt.Errorf("astar: no path exists")

// ErrExpansionLimit is returned when MaxExpansions is hit before any
// acceptable node is found, the recoverable "search budget exhausted"
// condition from section 7.
var ErrExpansionLimit = fmt.Errorf("astar: expansion limit reached")

// Searcher holds the shared, reusable search resources: one pool and one
// open list, reset and reused by every search rather than reallocated, per
// section 5's "pre-allocated, reset between searches" resource model. Each
// search variant releases its pool records again when it returns.
type Searcher struct {
	grid       *cellgrid.Grid
	layerStore *layers.Store
	zones      *zonemgr.Manager

	pool *searchinfo.Pool
	open *openlist.List

	handleLayer map[searchinfo.Handle]cellgrid.LayerTag
	coordIndex  map[coordKey]searchinfo.Handle
	closed      []searchinfo.Handle
}

type coordKey struct {
	layer cellgrid.LayerTag
	c     geom.Coord
}

// NewSearcher constructs a searcher over grid/layerStore/zones, with a
// search-info pool sized to poolCapacity records.
func NewSearcher(grid *cellgrid.Grid, layerStore *layers.Store, zones *zonemgr.Manager, poolCapacity int) *Searcher {
	pool := searchinfo.NewPool(poolCapacity)
	return &Searcher{
		grid:        grid,
		layerStore:  layerStore,
		zones:       zones,
		pool:        pool,
		open:        openlist.New(pool),
		handleLayer: make(map[searchinfo.Handle]cellgrid.LayerTag, 256),
		coordIndex:  make(map[coordKey]searchinfo.Handle, 256),
	}
}

func (s *Searcher) reset() {
	s.pool.ReleaseAll(s.closed)
	s.closed = s.closed[:0]
	s.open.Reset()
	for k := range s.handleLayer {
		delete(s.handleLayer, k)
	}
	for k := range s.coordIndex {
		delete(s.coordIndex, k)
	}
}

func (s *Searcher) gridFor(layer cellgrid.LayerTag) (*cellgrid.Grid, bool) {
	if layer == cellgrid.LayerGround {
		return s.grid, true
	}
	l, ok := s.layerStore.Get(layer)
	if !ok {
		return nil, false
	}
	return l.Grid, true
}

func (s *Searcher) cellAt(layer cellgrid.LayerTag, c geom.Coord) (cellgrid.Cell, bool) {
	g, ok := s.gridFor(layer)
	if !ok {
		return cellgrid.Cell{}, false
	}
	return g.At(c)
}

// step is one candidate move out of a node: its target layer/coord and the
// base (pre-surcharge) cost of taking it.
type step struct {
	layer cellgrid.LayerTag
	coord geom.Coord
	cost  float64
}

// neighbors enumerates every same-layer 8-connected step (respecting the
// anti-corner-cutting rule) plus any layer-transition steps available at a
// bridge/wall connect cell.
func (s *Searcher) neighbors(layer cellgrid.LayerTag, coord geom.Coord, pitch float64) []step {
	var out []step
	for _, d := range geom.AllDirections() {
		nc := coord.Neighbor(d)
		if d.IsDiagonal() {
			d1, d2 := d.CornerPair()
			c1, ok1 := s.cellAt(layer, coord.Neighbor(d1))
			c2, ok2 := s.cellAt(layer, coord.Neighbor(d2))
			if (!ok1 || !c1.Passable()) && (!ok2 || !c2.Passable()) {
				continue // both flanking cells blocked: forbid cutting the corner
			}
		}
		cost := pitch
		if d.IsDiagonal() {
			cost = pitch * 1.4142135623730951
		}
		out = append(out, step{layer: layer, coord: nc, cost: cost})
	}

	for _, t := range s.layerTransitions(layer, coord) {
		out = append(out, step{layer: t.layer, coord: t.coord, cost: layerTransitionBaseCost * pitch})
	}
	return out
}

type transition struct {
	layer cellgrid.LayerTag
	coord geom.Coord
}

// layerTransitions reports the layer(s) reachable by stepping off coord on
// the given layer, using the connect-cell correspondence tables in the
// layer store: ground connects to any usable bridge/wall at its
// GroundConnect cells, and a layer connects back to ground at its
// LayerConnect cells. Layer-to-layer transitions always route through
// ground, matching the data model's "ground is the hub" connect topology.
func (s *Searcher) layerTransitions(layer cellgrid.LayerTag, coord geom.Coord) []transition {
	var out []transition
	if layer == cellgrid.LayerGround {
		for _, l := range s.layerStore.All() {
			if !l.Usable() {
				continue
			}
			for i, gc := range l.GroundConnect {
				if gc == coord {
					out = append(out, transition{layer: l.ID, coord: l.LayerConnect[i]})
				}
			}
		}
		return out
	}
	l, ok := s.layerStore.Get(layer)
	if !ok || !l.Usable() {
		return nil
	}
	for i, lc := range l.LayerConnect {
		if lc == coord {
			out = append(out, transition{layer: cellgrid.LayerGround, coord: l.GroundConnect[i]})
		}
	}
	return out
}

// edgeCost applies the ally-blocked, hostile-goal, and pinched surcharges on
// top of a step's base cost, given the passability result for its target
// cell.
func (s *Searcher) edgeCost(base float64, cell cellgrid.Cell, opt Options, allyBlocked bool) float64 {
	cost := base
	if allyBlocked {
		cost *= allyBlockedMultiplier
	}
	if cell.Occupancy.IsGoalOfOther(opt.Self) {
		cost *= hostileGoalMultiplier
	}
	if cell.Pinched {
		cost *= pinchedCellMultiplier
	}
	if opt.CostMultiplier > 0 {
		cost *= opt.CostMultiplier
	}
	return cost
}

// heuristic computes the admissible octile-distance estimate from c (on the
// given layer) to the goal, ignoring layer transitions (an admissible
// relaxation: a layer transition never shortens the straight-line distance
// below the base grid's octile estimate since connect cells always lie on
// the path between the two points).
func (s *Searcher) heuristic(c geom.Coord, goal geom.Coord, pitch float64) float64 {
	return geom.OctileDistance(c, goal, pitch)
}

// acceptFunc is evaluated on every node popped from the open list (after it
// is confirmed passable and before its neighbors are expanded); returning
// true ends the search successfully at that node. Variants that fall back
// to "closest reachable" when no node satisfies accept do not track that
// node themselves: runSearch records the popped node with the smallest
// heuristic and returns it as closest.
type acceptFunc func(layer cellgrid.LayerTag, c geom.Coord, g, h float64) bool

// runSearch is the shared A* loop. start/startLayer is the search origin;
// goal/goalLayer parameterizes the heuristic and is passed to accept so
// variants can test distance-to-goal conditions. It returns the handle of
// the accepted node, or an error if the open list emptied or the expansion
// cap was hit, and in both failure cases also returns the handle of the
// closest node seen (by heuristic value), for findClosestPath-style
// fallback.
func (s *Searcher) runSearch(ctx context.Context, opts Options, start geom.Coord, startLayer cellgrid.LayerTag, goal geom.Coord, goalLayer cellgrid.LayerTag, accept acceptFunc) (accepted searchinfo.Handle, closest searchinfo.Handle, err error) {
	s.reset()

	startGrid, ok := s.gridFor(startLayer)
	if !ok {
		return -1, -1, fmt.Errorf("astar: unknown start layer %d", startLayer)
	}
	pitch := startGrid.Pitch

	h0, errAlloc := s.pool.Allocate(start)
	if errAlloc != nil {
		return -1, -1, fmt.Errorf("astar: %w", errAlloc)
	}
	info := s.pool.Get(h0)
	info.G = 0
	info.F = s.heuristic(start, goal, pitch)
	info.Predecessor = -1
	s.handleLayer[h0] = startLayer
	s.coordIndex[coordKey{startLayer, start}] = h0
	s.closed = append(s.closed, h0) // every allocated handle, popped or not, is tracked here for bulk release
	s.open.Insert(h0)

	bestH := info.F
	closest = h0

	expansions := 0
	for s.open.Len() > 0 {
		if ctx.Err() != nil {
			return -1, closest, ctx.Err()
		}
		if opts.MaxExpansions > 0 && expansions >= opts.MaxExpansions {
			return -1, closest, ErrExpansionLimit
		}
		cur := s.open.PopLowest()
		curInfo := s.pool.Get(cur)
		curLayer := s.handleLayer[cur]
		curInfo.Flags |= searchinfo.FlagOnClosed
		expansions++

		if curInfo.F-curInfo.G < bestH {
			bestH = curInfo.F - curInfo.G
			closest = cur
		}

		if accept(curLayer, curInfo.Coord, curInfo.G, curInfo.F-curInfo.G) {
			return cur, cur, nil
		}

		g, _ := s.gridFor(curLayer)
		for _, nb := range s.neighbors(curLayer, curInfo.Coord, g.Pitch) {
			nbCell, ok := s.cellAt(nb.layer, nb.coord)
			if !ok {
				continue
			}
			passOK, allyBlocked := locomotor.Passable(nbCell, opts.Loc, locomotor.StepOptions{
				Self:           opts.Self,
				AllowAllyClear: opts.AllowAllyClear,
				IgnoreObstacle: opts.IgnoreObstacle,
				AllowPinched:   opts.AllowPinched,
			})
			if !passOK {
				continue
			}

			key := coordKey{nb.layer, nb.coord}
			existing, seen := s.coordIndex[key]
			if seen && s.pool.Get(existing).Flags&searchinfo.FlagOnClosed != 0 {
				continue
			}

			tentativeG := curInfo.G + s.edgeCost(nb.cost, nbCell, opts, allyBlocked)

			if seen {
				ninfo := s.pool.Get(existing)
				if tentativeG < ninfo.G {
					ninfo.G = tentativeG
					ninfo.F = tentativeG + s.heuristic(nb.coord, goal, pitch)
					ninfo.Predecessor = cur
					if ninfo.Flags&searchinfo.FlagOnOpen != 0 {
						s.open.Reinsert(existing)
					} else {
						ninfo.Flags &^= searchinfo.FlagOnClosed
						s.open.Insert(existing)
					}
				}
				continue
			}

			h, errAlloc := s.pool.Allocate(nb.coord)
			if errAlloc != nil {
				return -1, closest, fmt.Errorf("astar: %w", errAlloc)
			}
			ninfo := s.pool.Get(h)
			ninfo.G = tentativeG
			ninfo.F = tentativeG + s.heuristic(nb.coord, goal, pitch)
			ninfo.Predecessor = cur
			s.handleLayer[h] = nb.layer
			s.coordIndex[key] = h
			s.closed = append(s.closed, h) // ensures release even if never reached again
			s.open.Insert(h)
		}
	}

	return -1, closest, ErrNoPath
}

// reconstruct walks the predecessor chain from h back to the search root,
// reversing it into path order, per the teacher's ReconstructPath shape.
func (s *Searcher) reconstruct(h searchinfo.Handle) []navpath.Node {
	var rev []navpath.Node
	for cur := h; cur != -1; {
		info := s.pool.Get(cur)
		rev = append(rev, navpath.Node{Pos: info.Coord, Layer: s.handleLayer[cur]})
		cur = info.Predecessor
	}
	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}
	return rev
}

// PoolInUse exposes the search-info pool's current allocation count, for the
// HTTP introspection surface (10.5).
func (s *Searcher) PoolInUse() int { return s.pool.InUse() }
