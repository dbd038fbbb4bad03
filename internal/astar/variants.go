package astar

import (
	"context"
	"fmt"

	"github.com/fieldforge/navcore/internal/cellgrid"
	"github.com/fieldforge/navcore/internal/geom"
	"github.com/fieldforge/navcore/internal/locomotor"
	"github.com/fieldforge/navcore/internal/navpath"
	"github.com/fieldforge/navcore/internal/zonemgr"
)

// FindPath is the strict variant: a path is returned only if it reaches the
// goal cell exactly, matching findPath's contract in the external-interfaces
// section. Before running the full search it consults the zone manager's
// QuickDoesPathExist admission control (4.3), so a provably-unreachable goal
// is rejected in amortized O(1) rather than after an expensive failed
// search.
func (s *Searcher) FindPath(ctx context.Context, fromLayer cellgrid.LayerTag, from geom.Coord, toLayer cellgrid.LayerTag, to geom.Coord, opts Options) (*navpath.Path, error) {
	defer s.reset()
	if fromLayer == cellgrid.LayerGround && toLayer == cellgrid.LayerGround {
		cap := zonemgr.ForLocomotor(opts.Loc)
		reachable, err := s.zones.QuickDoesPathExist(ctx, cap, from, to)
		if err != nil {
			return nil, fmt.Errorf("astar: findPath: %w", err)
		}
		if !reachable {
			return nil, ErrNoPath
		}
	}

	accept := func(layer cellgrid.LayerTag, c geom.Coord, g, h float64) bool {
		return layer == toLayer && c.Equal(to)
	}
	h, _, err := s.runSearch(ctx, opts, from, fromLayer, to, toLayer, accept)
	if err != nil {
		return nil, err
	}
	return navpath.New(s.reconstruct(h)), nil
}

// FindClosestPath never fails outright: if the goal is unreachable (or the
// search exhausts its expansion budget first), it returns a path ending at
// the node with the smallest heuristic distance to the goal seen during the
// search — "get as close as possible" per the external-interfaces
// description of findClosestPath.
func (s *Searcher) FindClosestPath(ctx context.Context, fromLayer cellgrid.LayerTag, from geom.Coord, toLayer cellgrid.LayerTag, to geom.Coord, opts Options) (*navpath.Path, error) {
	defer s.reset()
	accept := func(layer cellgrid.LayerTag, c geom.Coord, g, h float64) bool {
		return layer == toLayer && c.Equal(to)
	}
	h, closest, err := s.runSearch(ctx, opts, from, fromLayer, to, toLayer, accept)
	if err == nil {
		return navpath.New(s.reconstruct(h)), nil
	}
	if err == ErrNoPath || err == ErrExpansionLimit {
		if closest == -1 {
			return nil, err
		}
		return navpath.New(s.reconstruct(closest)), nil
	}
	return nil, err
}

// FindAttackPath terminates as soon as the search reaches any cell within
// attackRangeCells (in straight-line octile terms) of the goal, so a unit
// stops approaching once its weapon can already reach — findAttackPath in
// the external-interfaces list.
func (s *Searcher) FindAttackPath(ctx context.Context, fromLayer cellgrid.LayerTag, from geom.Coord, toLayer cellgrid.LayerTag, to geom.Coord, attackRangeCells float64, opts Options) (*navpath.Path, error) {
	defer s.reset()
	accept := func(layer cellgrid.LayerTag, c geom.Coord, g, h float64) bool {
		if layer != toLayer {
			return false
		}
		return geom.OctileDistance(c, to, 1.0) <= attackRangeCells
	}
	h, closest, err := s.runSearch(ctx, opts, from, fromLayer, to, toLayer, accept)
	if err == nil {
		return navpath.New(s.reconstruct(h)), nil
	}
	if err == ErrNoPath || err == ErrExpansionLimit {
		if closest == -1 {
			return nil, err
		}
		return navpath.New(s.reconstruct(closest)), nil
	}
	return nil, err
}

// FindSafePath searches outward from "from" for the nearest ground cell at
// or beyond safeRangeCells from threat; it takes no destination —
// findSafePath in the external-interfaces list is a flee search, not an
// approach search, so its acceptance predicate is phrased in terms of
// distance from a danger point rather than distance to a destination.
func (s *Searcher) FindSafePath(ctx context.Context, fromLayer cellgrid.LayerTag, from geom.Coord, threat geom.Coord, safeRangeCells float64, opts Options) (*navpath.Path, error) {
	defer s.reset()
	accept := func(layer cellgrid.LayerTag, c geom.Coord, g, h float64) bool {
		if layer != cellgrid.LayerGround {
			return false
		}
		return geom.OctileDistance(c, threat, 1.0) >= safeRangeCells
	}
	// The heuristic built into runSearch is goal-directed; a flee search has
	// no destination, so it is passed from itself as the nominal "goal".
	// h is then the distance back to the start, f grows with distance from
	// from, and the search still expands outward from from in rough cost
	// order until accept finds a cell far enough from threat.
	h, closest, err := s.runSearch(ctx, opts, from, fromLayer, from, fromLayer, accept)
	if err == nil {
		return navpath.New(s.reconstruct(h)), nil
	}
	if err == ErrNoPath || err == ErrExpansionLimit {
		if closest == -1 {
			return nil, err
		}
		return navpath.New(s.reconstruct(closest)), nil
	}
	return nil, err
}

// PatchPath re-routes around a blockage discovered partway along an
// existing path: it searches from the last known-good node (blockIndex-1)
// to the path's original destination, and splices the result in place of
// the blocked suffix — patchPath's contract of "repair, don't recompute from
// scratch" in the external-interfaces list.
func (s *Searcher) PatchPath(ctx context.Context, original *navpath.Path, blockIndex int, opts Options) (*navpath.Path, error) {
	if blockIndex <= 0 || blockIndex >= original.Len() {
		return nil, fmt.Errorf("astar: patchPath: block index %d out of range for path of length %d", blockIndex, original.Len())
	}
	anchor := original.Nodes[blockIndex-1]
	dest := original.Nodes[original.Len()-1]

	patched, err := s.FindPath(ctx, anchor.Layer, anchor.Pos, dest.Layer, dest.Pos, opts)
	if err != nil {
		return nil, err
	}

	spliced := make([]navpath.Node, 0, blockIndex+patched.Len())
	spliced = append(spliced, original.Nodes[:blockIndex-1]...)
	spliced = append(spliced, patched.Nodes...)
	out := navpath.New(spliced)
	out.BlockedByAlly = original.BlockedByAlly
	return out, nil
}

// QuickDoesPathExist exposes the zone manager's fast reachability check
// directly, for callers (the request queue admission path, the facade's
// quickDoesPathExist operation) that only need a yes/no answer and want to
// skip the cost of a full search entirely.
func (s *Searcher) QuickDoesPathExist(ctx context.Context, loc locomotor.Set, from, to geom.Coord) (bool, error) {
	cap := zonemgr.ForLocomotor(loc)
	return s.zones.QuickDoesPathExist(ctx, cap, from, to)
}
