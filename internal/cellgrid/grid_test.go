package cellgrid

import (
	"testing"

	"github.com/fieldforge/navcore/internal/geom"
)

func TestNewGridDefaults(t *testing.T) {
	g := NewGrid(4, 3, 1.0)
	cell, ok := g.At(geom.Coord{X: 1, Y: 1})
	if !ok {
		t.Fatal("expected in-bounds cell")
	}
	if cell.Terrain != TerrainClear || cell.SearchInfo != NoSearchInfo {
		t.Fatalf("unexpected default cell: %+v", cell)
	}
	if _, ok := g.At(geom.Coord{X: 4, Y: 0}); ok {
		t.Fatal("expected out-of-bounds miss at x==width")
	}
}

type countingNotifier struct{ n int }

func (c *countingNotifier) MarkZonesDirty() { c.n++ }

func TestClassifyNotifiesOnChange(t *testing.T) {
	g := NewGrid(3, 3, 1.0)
	notify := &countingNotifier{}
	g.SetDirtyNotifier(notify)

	g.Classify(geom.Coord{X: 0, Y: 0}, TerrainClear)
	if notify.n != 0 {
		t.Fatalf("classifying to the same terrain should not mark dirty, got %d", notify.n)
	}
	g.Classify(geom.Coord{X: 0, Y: 0}, TerrainWater)
	if notify.n != 1 {
		t.Fatalf("expected one dirty mark after a real terrain change, got %d", notify.n)
	}
}

func TestStampAndUnstampFootprint(t *testing.T) {
	g := NewGrid(5, 5, 1.0)
	fp := Footprint{Origin: geom.Coord{X: 2, Y: 2}, Cells: []geom.Coord{{0, 0}, {1, 0}}}
	g.StampFootprint(ObstacleID(7), fp)

	cell, _ := g.At(geom.Coord{X: 2, Y: 2})
	if cell.Terrain != TerrainObstacle || cell.Obstacle != ObstacleID(7) {
		t.Fatalf("expected stamped obstacle, got %+v", cell)
	}

	g.UnstampFootprint(ObstacleID(7), fp)
	cell, _ = g.At(geom.Coord{X: 2, Y: 2})
	if cell.Terrain != TerrainClear || cell.Obstacle != NoObstacle {
		t.Fatalf("expected cleared cell after unstamp, got %+v", cell)
	}
}

func TestUnstampFootprintIgnoresOtherOwner(t *testing.T) {
	g := NewGrid(5, 5, 1.0)
	fp := Footprint{Origin: geom.Coord{X: 1, Y: 1}, Cells: []geom.Coord{{0, 0}}}
	g.StampFootprint(ObstacleID(1), fp)
	g.UnstampFootprint(ObstacleID(2), fp)

	cell, _ := g.At(geom.Coord{X: 1, Y: 1})
	if cell.Terrain != TerrainObstacle {
		t.Fatalf("unstamp by a non-owner should be a no-op, got %+v", cell)
	}
}

func TestPinchedRecompute(t *testing.T) {
	g := NewGrid(5, 5, 1.0)
	center := geom.Coord{X: 2, Y: 2}
	for _, d := range []geom.Direction{geom.DirNorth, geom.DirSouth, geom.DirEast, geom.DirWest} {
		n := center.Neighbor(d)
		g.StampFootprint(ObstacleID(1), Footprint{Origin: n, Cells: []geom.Coord{{0, 0}}})
	}
	cell, _ := g.At(center)
	if !cell.Pinched {
		t.Fatalf("expected center cell to be pinched once all 4 cardinal neighbors are obstacles")
	}
}

func TestUpdatePosClearsPrevious(t *testing.T) {
	g := NewGrid(3, 3, 1.0)
	if err := g.UpdatePos(UnitID(1), geom.Coord{}, false, geom.Coord{X: 0, Y: 0}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := g.UpdatePos(UnitID(1), geom.Coord{X: 0, Y: 0}, true, geom.Coord{X: 1, Y: 0}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	prev, _ := g.At(geom.Coord{X: 0, Y: 0})
	if prev.Occupancy.Kind != OccupancyNone {
		t.Fatalf("expected previous cell cleared, got %+v", prev.Occupancy)
	}
	cur, _ := g.At(geom.Coord{X: 1, Y: 0})
	if cur.Occupancy.Kind != OccupancyMoving || cur.Occupancy.MovingOrFixed != UnitID(1) {
		t.Fatalf("expected current cell occupied by unit 1, got %+v", cur.Occupancy)
	}
}

func TestUpdatePosOutOfBounds(t *testing.T) {
	g := NewGrid(3, 3, 1.0)
	if err := g.UpdatePos(UnitID(1), geom.Coord{}, false, geom.Coord{X: 99, Y: 99}); err == nil {
		t.Fatal("expected an error for an out-of-bounds destination")
	}
}
