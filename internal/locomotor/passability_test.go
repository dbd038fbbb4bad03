package locomotor

import (
	"testing"

	"github.com/fieldforge/navcore/internal/cellgrid"
)

func TestAcceptsTerrain(t *testing.T) {
	g := Ground()
	if !g.AcceptsTerrain(cellgrid.TerrainClear) {
		t.Fatal("ground locomotor should accept clear terrain")
	}
	if g.AcceptsTerrain(cellgrid.TerrainWater) {
		t.Fatal("ground locomotor should not accept water")
	}
	if !AmphibiousSet().AcceptsTerrain(cellgrid.TerrainWater) {
		t.Fatal("amphibious locomotor should accept water")
	}
}

func TestPassableRejectsImpassableAndObstacle(t *testing.T) {
	cell := cellgrid.NewCell()
	cell.Terrain = cellgrid.TerrainObstacle
	cell.Obstacle = cellgrid.ObstacleID(1)

	ok, _ := Passable(cell, Ground(), StepOptions{})
	if ok {
		t.Fatal("plain obstacle should reject ground locomotor")
	}

	cell = cellgrid.NewCell()
	cell.Terrain = cellgrid.TerrainImpassable
	ok, _ = Passable(cell, Ground(), StepOptions{})
	if ok {
		t.Fatal("impassable terrain should reject ground locomotor")
	}
}

func TestPassableCrusherFlattensFence(t *testing.T) {
	cell := cellgrid.NewCell()
	cell.Terrain = cellgrid.TerrainObstacle
	cell.Obstacle = cellgrid.ObstacleID(1)
	cell.ObstacleFence = true

	ok, _ := Passable(cell, Crusher(), StepOptions{})
	if !ok {
		t.Fatal("crusher should flatten a fence obstacle")
	}
	ok, _ = Passable(cell, Ground(), StepOptions{})
	if ok {
		t.Fatal("non-crusher should not pass a fence obstacle")
	}
}

func TestPassableIgnoredObstacle(t *testing.T) {
	cell := cellgrid.NewCell()
	cell.Terrain = cellgrid.TerrainObstacle
	cell.Obstacle = cellgrid.ObstacleID(7)

	ok, _ := Passable(cell, Ground(), StepOptions{IgnoreObstacle: cellgrid.ObstacleID(7)})
	if !ok {
		t.Fatal("ignored obstacle id should be treated as clear")
	}
}

func TestPassableFixedByOtherBlocks(t *testing.T) {
	cell := cellgrid.NewCell()
	cell.Occupancy.SetFixed(cellgrid.UnitID(2))

	ok, _ := Passable(cell, Ground(), StepOptions{Self: cellgrid.UnitID(1)})
	if ok {
		t.Fatal("fixed occupant owned by another unit should block")
	}
	ok, _ = Passable(cell, Ground(), StepOptions{Self: cellgrid.UnitID(2)})
	if !ok {
		t.Fatal("fixed occupant owned by self should not block")
	}
}

func TestPassablePinchedRequiresOptIn(t *testing.T) {
	cell := cellgrid.NewCell()
	cell.Pinched = true

	if ok, _ := Passable(cell, Ground(), StepOptions{}); ok {
		t.Fatal("pinched cell should block without AllowPinched")
	}
	if ok, _ := Passable(cell, Ground(), StepOptions{AllowPinched: true}); !ok {
		t.Fatal("pinched cell should pass with AllowPinched")
	}
}

func TestPassableMovingAllySurcharge(t *testing.T) {
	cell := cellgrid.NewCell()
	cell.Occupancy.SetMoving(cellgrid.UnitID(2))

	ok, allyBlocked := Passable(cell, Ground(), StepOptions{Self: cellgrid.UnitID(1)})
	if ok {
		t.Fatal("moving ally should block without AllowAllyClear")
	}
	if allyBlocked {
		t.Fatal("allyBlocked should only be true on a successful pass-through")
	}

	ok, allyBlocked = Passable(cell, Ground(), StepOptions{Self: cellgrid.UnitID(1), AllowAllyClear: true})
	if !ok || !allyBlocked {
		t.Fatalf("expected pass-through with surcharge flagged, got ok=%v allyBlocked=%v", ok, allyBlocked)
	}
}
