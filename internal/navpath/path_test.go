package navpath

import (
	"testing"

	"github.com/fieldforge/navcore/internal/cellgrid"
	"github.com/fieldforge/navcore/internal/geom"
	"github.com/fieldforge/navcore/internal/locomotor"
)

func TestNewMarksEndpointsUnoptimizable(t *testing.T) {
	p := New([]Node{
		{Pos: geom.Coord{X: 0, Y: 0}},
		{Pos: geom.Coord{X: 1, Y: 0}},
		{Pos: geom.Coord{X: 2, Y: 0}},
	})
	if p.Nodes[0].Optimizable || p.Nodes[2].Optimizable {
		t.Fatal("endpoints must never be optimizable")
	}
	if !p.Nodes[1].Optimizable {
		t.Fatal("interior node should be optimizable by default")
	}
}

func TestEqualComparesPositionAndLayerOnly(t *testing.T) {
	a := New([]Node{{Pos: geom.Coord{X: 0, Y: 0}}, {Pos: geom.Coord{X: 1, Y: 0}}})
	b := New([]Node{{Pos: geom.Coord{X: 0, Y: 0}}, {Pos: geom.Coord{X: 1, Y: 0}}})
	if !a.Equal(b) {
		t.Fatal("expected equal paths with identical positions/layers")
	}
	b.Nodes[1].Pos = geom.Coord{X: 2, Y: 0}
	if a.Equal(b) {
		t.Fatal("expected unequal paths after changing a position")
	}
}

func TestIterateCellsAlongLineCoversEndpoints(t *testing.T) {
	var visited []geom.Coord
	IterateCellsAlongLine(geom.Coord{X: 0, Y: 0}, geom.Coord{X: 3, Y: 0}, func(c geom.Coord) bool {
		visited = append(visited, c)
		return true
	})
	if len(visited) != 4 {
		t.Fatalf("expected 4 cells for a horizontal run of length 3, got %d: %v", len(visited), visited)
	}
	if visited[0] != (geom.Coord{X: 0, Y: 0}) || visited[len(visited)-1] != (geom.Coord{X: 3, Y: 0}) {
		t.Fatalf("expected the walk to include both endpoints, got %v", visited)
	}
}

func TestIterateCellsAlongLineAbortsEarly(t *testing.T) {
	count := 0
	IterateCellsAlongLine(geom.Coord{X: 0, Y: 0}, geom.Coord{X: 5, Y: 5}, func(c geom.Coord) bool {
		count++
		return count < 2
	})
	if count != 2 {
		t.Fatalf("expected the walk to stop right after visit returns false, got %d visits", count)
	}
}

type fakePasser struct{ blocked map[geom.Coord]bool }

func (f fakePasser) CellPassable(c geom.Coord, loc locomotor.Set) bool {
	return !f.blocked[c]
}

func TestIsLinePassable(t *testing.T) {
	clear := fakePasser{blocked: map[geom.Coord]bool{}}
	if !IsLinePassable(clear, locomotor.Ground(), geom.Coord{X: 0, Y: 0}, geom.Coord{X: 3, Y: 0}) {
		t.Fatal("expected a clear line to be passable")
	}

	blocked := fakePasser{blocked: map[geom.Coord]bool{{X: 2, Y: 0}: true}}
	if IsLinePassable(blocked, locomotor.Ground(), geom.Coord{X: 0, Y: 0}, geom.Coord{X: 3, Y: 0}) {
		t.Fatal("expected a line crossing a blocked cell to be impassable")
	}
}

func TestOptimizeDropsRedundantNodesOnAClearLine(t *testing.T) {
	clear := fakePasser{blocked: map[geom.Coord]bool{}}
	p := New([]Node{
		{Pos: geom.Coord{X: 0, Y: 0}},
		{Pos: geom.Coord{X: 1, Y: 0}},
		{Pos: geom.Coord{X: 2, Y: 0}},
		{Pos: geom.Coord{X: 3, Y: 0}},
	})
	out := p.Optimize(clear, locomotor.Ground())
	if out.Len() != 2 {
		t.Fatalf("expected a straight clear path to collapse to 2 nodes, got %d: %+v", out.Len(), out.Nodes)
	}
}

func TestOptimizeKeepsNodeAroundObstacle(t *testing.T) {
	blocked := fakePasser{blocked: map[geom.Coord]bool{{X: 2, Y: 0}: true}}
	p := New([]Node{
		{Pos: geom.Coord{X: 0, Y: 0}},
		{Pos: geom.Coord{X: 1, Y: 1}},
		{Pos: geom.Coord{X: 3, Y: 0}},
	})
	out := p.Optimize(blocked, locomotor.Ground())
	if out.Len() != 3 {
		t.Fatalf("expected the detour node to survive optimization, got %d nodes", out.Len())
	}
}

func TestOptimizeIsIdempotent(t *testing.T) {
	clear := fakePasser{blocked: map[geom.Coord]bool{}}
	p := New([]Node{
		{Pos: geom.Coord{X: 0, Y: 0}},
		{Pos: geom.Coord{X: 1, Y: 0}},
		{Pos: geom.Coord{X: 4, Y: 0}},
	})
	once := p.Optimize(clear, locomotor.Ground())
	twice := once.Optimize(clear, locomotor.Ground())
	if !once.Equal(twice) {
		t.Fatalf("expected optimizing an already-optimized path to be a no-op: %+v vs %+v", once.Nodes, twice.Nodes)
	}
}

func TestOptimizeLeavesReceiverUntouched(t *testing.T) {
	clear := fakePasser{blocked: map[geom.Coord]bool{}}
	p := New([]Node{
		{Pos: geom.Coord{X: 0, Y: 0}},
		{Pos: geom.Coord{X: 1, Y: 0}},
		{Pos: geom.Coord{X: 2, Y: 0}},
	})
	before := p.Len()
	p.Optimize(clear, locomotor.Ground())
	if p.Len() != before {
		t.Fatal("Optimize must not mutate the receiver")
	}
}

func TestClosestPointOnPathEndpoint(t *testing.T) {
	p := New([]Node{
		{Pos: geom.Coord{X: 0, Y: 0}, Layer: cellgrid.LayerGround},
		{Pos: geom.Coord{X: 10, Y: 0}, Layer: cellgrid.LayerGround},
	})
	pos, along, layer := p.ClosestPointOnPath(geom.Pos{X: 0.5, Y: 0.5}, 1.0)
	if along < 0 {
		t.Fatalf("expected non-negative along-path distance, got %v", along)
	}
	if layer != cellgrid.LayerGround {
		t.Fatalf("expected ground layer, got %v", layer)
	}
	if pos.X < 0 || pos.X > 10 {
		t.Fatalf("expected closest point to lie along the segment, got %v", pos)
	}
}

func TestClosestPointOnPathReusesCacheWithinTolerance(t *testing.T) {
	p := New([]Node{
		{Pos: geom.Coord{X: 0, Y: 0}},
		{Pos: geom.Coord{X: 10, Y: 0}},
	})
	first, _, _ := p.ClosestPointOnPath(geom.Pos{X: 5, Y: 0.01}, 8.0)
	second, _, _ := p.ClosestPointOnPath(geom.Pos{X: 5, Y: 0.01}, 8.0)
	if first != second {
		t.Fatalf("expected a cached hit to return the same point, got %v vs %v", first, second)
	}
}
