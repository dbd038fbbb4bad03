package navcore

import (
	"context"
	"testing"

	"github.com/fieldforge/navcore/internal/cellgrid"
	"github.com/fieldforge/navcore/internal/geom"
	"github.com/fieldforge/navcore/internal/locomotor"
	"github.com/fieldforge/navcore/internal/requestqueue"
)

func TestFindPathBasic(t *testing.T) {
	e := New(DefaultConfig(10, 10, 1.0))
	path, err := e.FindPath(context.Background(), geom.Coord{X: 0, Y: 0}, geom.Coord{X: 5, Y: 5}, locomotor.Ground(), cellgrid.UnitID(1), SearchOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	last := path.Nodes[path.Len()-1]
	if !last.Pos.Equal(geom.Coord{X: 5, Y: 5}) {
		t.Fatalf("expected path to end at goal, got %v", last.Pos)
	}
}

func TestAddObjectToPathfindMapBlocksPath(t *testing.T) {
	e := New(DefaultConfig(10, 10, 1.0))
	var wall []geom.Coord
	for y := int32(0); y < 10; y++ {
		wall = append(wall, geom.Coord{X: 0, Y: y})
	}
	e.AddObjectToPathfindMap(cellgrid.ObstacleID(1), cellgrid.Footprint{Origin: geom.Coord{X: 5, Y: 0}, Cells: wall})
	_, err := e.FindPath(context.Background(), geom.Coord{X: 0, Y: 0}, geom.Coord{X: 9, Y: 0}, locomotor.Ground(), cellgrid.UnitID(1), SearchOptions{})
	if err == nil {
		t.Fatal("expected a full-height stamped wall to block the path")
	}
}

func TestRemoveObjectFromPathfindMapRestoresPath(t *testing.T) {
	e := New(DefaultConfig(10, 10, 1.0))
	fp := cellgrid.Footprint{Origin: geom.Coord{X: 5, Y: 0}, Cells: []geom.Coord{{0, 0}}}
	e.AddObjectToPathfindMap(cellgrid.ObstacleID(1), fp)
	cell, _ := e.CellAt(geom.Coord{X: 5, Y: 0})
	if cell.Terrain != cellgrid.TerrainObstacle {
		t.Fatalf("expected stamped cell, got %v", cell.Terrain)
	}
	e.RemoveObjectFromPathfindMap(cellgrid.ObstacleID(1), fp)
	cell, _ = e.CellAt(geom.Coord{X: 5, Y: 0})
	if cell.Terrain != cellgrid.TerrainClear {
		t.Fatalf("expected cell cleared after removal, got %v", cell.Terrain)
	}
}

func TestUpdatePosClearsPreviousCell(t *testing.T) {
	e := New(DefaultConfig(10, 10, 1.0))
	unit := cellgrid.UnitID(1)
	if err := e.UpdatePos(unit, cellgrid.LayerGround, geom.Coord{X: 0, Y: 0}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := e.UpdatePos(unit, cellgrid.LayerGround, geom.Coord{X: 1, Y: 0}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	prev, _ := e.CellAt(geom.Coord{X: 0, Y: 0})
	if prev.Occupancy.Kind != cellgrid.OccupancyNone {
		t.Fatalf("expected the previous cell cleared, got %+v", prev.Occupancy)
	}
}

func TestAdjustDestinationSpiralsOutward(t *testing.T) {
	e := New(DefaultConfig(10, 10, 1.0))
	goal := geom.Coord{X: 5, Y: 5}
	if err := e.UpdateGoal(cellgrid.UnitID(1), goal); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cand, ok := e.AdjustDestination(context.Background(), goal, locomotor.Ground(), cellgrid.UnitID(2), 3)
	if !ok {
		t.Fatal("expected to find an unclaimed cell nearby")
	}
	if cand.Equal(goal) {
		t.Fatal("expected a different cell since the original is claimed by another unit")
	}
}

func TestAdjustDestinationAcceptsUnclaimedCell(t *testing.T) {
	e := New(DefaultConfig(10, 10, 1.0))
	goal := geom.Coord{X: 5, Y: 5}
	cand, ok := e.AdjustDestination(context.Background(), goal, locomotor.Ground(), cellgrid.UnitID(2), 3)
	if !ok || !cand.Equal(goal) {
		t.Fatalf("expected the original cell accepted when unclaimed, got %v ok=%v", cand, ok)
	}
}

func TestQueueForPathAndProcessPathfindQueue(t *testing.T) {
	e := New(DefaultConfig(10, 10, 1.0))
	req := requestqueue.Request{
		Unit:   1,
		From:   geom.Coord{X: 0, Y: 0},
		To:     geom.Coord{X: 3, Y: 3},
		Kind:   requestqueue.KindFindPath,
		Ticket: 42,
	}
	if err := e.QueueForPath(req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.QueueLen() != 1 {
		t.Fatalf("expected 1 queued request, got %d", e.QueueLen())
	}
	completions := e.ProcessPathfindQueue(context.Background(), 1000, locomotor.Ground())
	if len(completions) != 1 {
		t.Fatalf("expected 1 completion, got %d", len(completions))
	}
	if completions[0].Ticket != 42 || completions[0].Err != nil {
		t.Fatalf("unexpected completion: %+v", completions[0])
	}
	if e.QueueLen() != 0 {
		t.Fatalf("expected queue drained, got len %d", e.QueueLen())
	}
}

func TestIsLinePassable(t *testing.T) {
	e := New(DefaultConfig(10, 10, 1.0))
	if !e.IsLinePassable(geom.Coord{X: 0, Y: 0}, geom.Coord{X: 5, Y: 0}, locomotor.Ground()) {
		t.Fatal("expected a clear line to be passable")
	}
	e.Classify(geom.Coord{X: 3, Y: 0}, cellgrid.TerrainImpassable)
	if e.IsLinePassable(geom.Coord{X: 0, Y: 0}, geom.Coord{X: 5, Y: 0}, locomotor.Ground()) {
		t.Fatal("expected an impassable cell on the line to block it")
	}
}

func TestBridgeLifecycleThroughFacade(t *testing.T) {
	e := New(DefaultConfig(10, 10, 1.0))
	id := e.AddBridge(4, 2, 3.0, []geom.Coord{{X: 2, Y: 2}, {X: 5, Y: 2}}, []geom.Coord{{X: 0, Y: 0}, {X: 3, Y: 0}})
	if _, err := e.ChangeBridgeState(id, 3); err != nil { // layers.BridgeStateRubble == 3
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestChangeBridgeStateReportsStrandedUnits(t *testing.T) {
	e := New(DefaultConfig(10, 10, 1.0))
	id := e.AddBridge(4, 2, 3.0, []geom.Coord{{X: 2, Y: 2}, {X: 5, Y: 2}}, []geom.Coord{{X: 0, Y: 0}, {X: 3, Y: 0}})
	unit := cellgrid.UnitID(7)
	if err := e.UpdatePos(unit, id, geom.Coord{X: 1, Y: 0}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stranded, err := e.ChangeBridgeState(id, 3) // layers.BridgeStateRubble == 3
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stranded) != 1 || stranded[0] != unit {
		t.Fatalf("expected unit %v reported stranded, got %v", unit, stranded)
	}
}

func TestFindClosestPathReportsReachedDestination(t *testing.T) {
	e := New(DefaultConfig(20, 20, 1.0))
	var ring []geom.Coord
	for x := int32(8); x <= 12; x++ {
		ring = append(ring, geom.Coord{X: x, Y: 8}, geom.Coord{X: x, Y: 12})
	}
	for y := int32(9); y <= 11; y++ {
		ring = append(ring, geom.Coord{X: 8, Y: y}, geom.Coord{X: 12, Y: y})
	}
	e.AddObjectToPathfindMap(cellgrid.ObstacleID(1), cellgrid.Footprint{Cells: ring})

	goal := geom.Coord{X: 10, Y: 10}
	path, closestTo, err := e.FindClosestPath(context.Background(), geom.Coord{X: 1, Y: 1}, goal, locomotor.Ground(), cellgrid.UnitID(1), SearchOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if closestTo.Equal(goal) {
		t.Fatal("expected the reached destination to differ from the sealed-off goal")
	}
	last := path.Nodes[path.Len()-1]
	if !last.Pos.Equal(closestTo) {
		t.Fatalf("expected the path's last node to match the reported destination, got %v vs %v", last.Pos, closestTo)
	}
}

func TestAdjustToLandingDestinationRejectsNonAircraft(t *testing.T) {
	e := New(DefaultConfig(10, 10, 1.0))
	if _, ok := e.AdjustToLandingDestination(geom.Coord{X: 5, Y: 5}, locomotor.Ground(), 3); ok {
		t.Fatal("expected a non-aircraft locomotor to be rejected outright")
	}
}

func TestAdjustToLandingDestinationAvoidsClaimedCell(t *testing.T) {
	e := New(DefaultConfig(10, 10, 1.0))
	goal := geom.Coord{X: 5, Y: 5}
	if err := e.UpdateAircraftGoal(cellgrid.UnitID(1), goal); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cand, ok := e.AdjustToLandingDestination(goal, locomotor.Air(), 3)
	if !ok {
		t.Fatal("expected to find an unclaimed landing cell nearby")
	}
	if cand.Equal(goal) {
		t.Fatal("expected a different cell since the original is already claimed for landing")
	}
}

func TestAdjustToLandingDestinationRejectsWaterUnlessAmphibious(t *testing.T) {
	e := New(DefaultConfig(10, 10, 1.0))
	goal := geom.Coord{X: 5, Y: 5}
	e.Classify(goal, cellgrid.TerrainWater)
	if _, ok := e.AdjustToLandingDestination(goal, locomotor.Air(), 0); ok {
		t.Fatal("expected a non-amphibious aircraft to reject landing on open water with no ring search room")
	}
}

func TestAdjustTargetDestinationFindsCellWithinRangeAndLineOfSight(t *testing.T) {
	e := New(DefaultConfig(10, 10, 1.0))
	victim := geom.Coord{X: 5, Y: 5}
	cand, ok := e.AdjustTargetDestination(context.Background(), victim, locomotor.Ground(), cellgrid.UnitID(1), 2.0, 3)
	if !ok {
		t.Fatal("expected to find an attack position near the victim")
	}
	if geom.OctileDistance(cand, victim, 1.0) > 2.0 {
		t.Fatalf("expected the found cell within weapon range, got %v at distance from %v", cand, victim)
	}
	if !e.IsLinePassable(cand, victim, locomotor.Ground()) {
		t.Fatalf("expected line-of-sight from %v to victim %v", cand, victim)
	}
}

func TestAdjustToPossibleDestinationAllowsAllyOccupiedCell(t *testing.T) {
	e := New(DefaultConfig(10, 10, 1.0))
	goal := geom.Coord{X: 5, Y: 5}
	ally := cellgrid.UnitID(9)
	if err := e.UpdatePos(ally, cellgrid.LayerGround, goal); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cand, ok := e.AdjustToPossibleDestination(context.Background(), goal, locomotor.Ground(), cellgrid.UnitID(1), 3)
	if !ok || !cand.Equal(goal) {
		t.Fatalf("expected ally-occupied cell accepted when ally-clear is allowed, got %v ok=%v", cand, ok)
	}
	if _, ok := e.AdjustDestination(context.Background(), goal, locomotor.Ground(), cellgrid.UnitID(1), 0); ok {
		t.Fatal("expected plain AdjustDestination to reject the same ally-occupied cell with no ring room")
	}
}

func TestUpdateAircraftGoalClearsPreviousClaim(t *testing.T) {
	e := New(DefaultConfig(10, 10, 1.0))
	unit := cellgrid.UnitID(1)
	if err := e.UpdateAircraftGoal(unit, geom.Coord{X: 2, Y: 2}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := e.UpdateAircraftGoal(unit, geom.Coord{X: 3, Y: 3}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	prev, _ := e.CellAt(geom.Coord{X: 2, Y: 2})
	if prev.AircraftGoal {
		t.Fatal("expected the previous landing claim cleared")
	}
	cur, _ := e.CellAt(geom.Coord{X: 3, Y: 3})
	if !cur.AircraftGoal || cur.AircraftGoalOwner != unit {
		t.Fatalf("expected the new cell claimed by %v, got %+v", unit, cur.Occupancy)
	}
}

func TestFindPathWithAllowAllyClearRoutesThroughMovingAlly(t *testing.T) {
	e := New(DefaultConfig(10, 10, 1.0))
	var wall []geom.Coord
	for y := int32(0); y < 10; y++ {
		wall = append(wall, geom.Coord{X: 5, Y: y})
	}
	// Every cell of the crossing column is occupied by a moving ally,
	// forcing the strict search to find no path while the relaxed one may
	// shove straight through at the ally-blocked surcharge.
	for _, c := range wall {
		if err := e.UpdatePos(cellgrid.UnitID(100)+cellgrid.UnitID(c.Y), cellgrid.LayerGround, c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	from := geom.Coord{X: 0, Y: 5}
	to := geom.Coord{X: 9, Y: 5}
	path, err := e.FindPath(context.Background(), from, to, locomotor.Ground(), cellgrid.UnitID(1), SearchOptions{AllowAllyClear: true})
	if err != nil {
		t.Fatalf("unexpected error with ally-clear allowed: %v", err)
	}
	if last := path.Nodes[path.Len()-1]; !last.Pos.Equal(to) {
		t.Fatalf("expected path to reach goal, got %v", last.Pos)
	}
}
