package cellgrid

import (
	"fmt"

	"github.com/fieldforge/navcore/internal/geom"
)

// DirtyNotifier is implemented by the zone manager; the grid calls it
// whenever a mutation invalidates cached zone data, per the dirty-flag
// coalescing design in section 4.3/9: many mutations in a row should cost
// one recompute, not one per mutation, so this is a cheap flag set, never a
// synchronous recompute trigger.
type DirtyNotifier interface {
	MarkZonesDirty()
}

type noopNotifier struct{}

func (noopNotifier) MarkZonesDirty() {}

// Grid is the base cell grid: a rectangular array of cells at fixed
// world-pitch, classified once at load and incrementally patched
// thereafter. It is the sole owner of cell storage for the pathfinder's
// lifetime, per the data model's ownership section.
type Grid struct {
	Width, Height int32
	Pitch         float64

	cells   []Cell
	notify  DirtyNotifier
}

// NewGrid allocates a width x height grid of default (clear terrain,
// unoccupied) cells at the given world pitch.
func NewGrid(width, height int32, pitch float64) *Grid {
	cells := make([]Cell, int(width)*int(height))
	for i := range cells {
		cells[i] = NewCell()
	}
	return &Grid{Width: width, Height: height, Pitch: pitch, cells: cells, notify: noopNotifier{}}
}

// SetDirtyNotifier wires the grid to the zone manager so structural
// mutations mark zones dirty. Called once during facade construction.
func (g *Grid) SetDirtyNotifier(n DirtyNotifier) {
	if n == nil {
		n = noopNotifier{}
	}
	g.notify = n
}

func (g *Grid) InBounds(c geom.Coord) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < g.Width && c.Y < g.Height
}

func (g *Grid) index(c geom.Coord) int {
	return int(c.Y)*int(g.Width) + int(c.X)
}

// At returns the cell at c and whether c was in bounds.
func (g *Grid) At(c geom.Coord) (Cell, bool) {
	if !g.InBounds(c) {
		return Cell{}, false
	}
	return g.cells[g.index(c)], true
}

// Mutate applies fn to the cell at c in place, returning false if c is out
// of bounds. This is the grid's sole write path so every mutation funnels
// through one place that can, later, decide whether to mark zones dirty.
func (g *Grid) Mutate(c geom.Coord, fn func(*Cell)) bool {
	if !g.InBounds(c) {
		return false
	}
	fn(&g.cells[g.index(c)])
	return true
}

// WorldToCell clips a world position onto this grid, per section 7's
// out-of-bounds handling.
func (g *Grid) WorldToCell(p geom.Pos) (geom.Coord, bool) {
	return geom.WorldToCell(p, g.Pitch, g.Width, g.Height)
}

func (g *Grid) CellCenter(c geom.Coord) geom.Pos {
	return geom.CellCenter(c, g.Pitch)
}

// Classify sets the terrain category of a cell directly (used by map load
// and by setWaterHeight/flattenTerrain style bulk edits); it does not stamp
// obstacles — see StampFootprint for that.
func (g *Grid) Classify(c geom.Coord, terrain TerrainCategory) {
	changed := false
	g.Mutate(c, func(cell *Cell) {
		if cell.Terrain != terrain {
			cell.Terrain = terrain
			changed = true
		}
	})
	if changed {
		g.notify.MarkZonesDirty()
	}
}

// Footprint describes the set of cells an object occupies, used by
// addObjectToPathfindMap/removeObjectFromPathfindMap. Centered on Origin,
// Cells are origin-relative offsets (from geom.SquareFootprint for a box,
// or a caller-supplied disc approximation for a cylinder — the original
// distinguishes box vs cylinder footprints at this call site, not inside
// the grid, since only the caller knows the object's geometry).
type Footprint struct {
	Origin geom.Coord
	Cells  []geom.Coord
	Fence  bool
	Glass  bool
}

// StampFootprint marks every cell of fp as TerrainObstacle, owned by id,
// and recomputes the pinched bit of the affected cells' neighbors. Mirrors
// addObjectToPathfindMap's footprint walk.
func (g *Grid) StampFootprint(id ObstacleID, fp Footprint) {
	touched := make([]geom.Coord, 0, len(fp.Cells))
	for _, off := range fp.Cells {
		c := fp.Origin.Add(off)
		ok := g.Mutate(c, func(cell *Cell) {
			cell.Terrain = TerrainObstacle
			cell.Obstacle = id
			cell.ObstacleFence = fp.Fence
			cell.ObstacleGlass = fp.Glass
		})
		if ok {
			touched = append(touched, c)
		}
	}
	g.recomputePinchedNear(touched)
	if len(touched) > 0 {
		g.notify.MarkZonesDirty()
	}
}

// UnstampFootprint reverses StampFootprint: cells owned by id within fp
// revert to clear terrain (obstacles leave no rubble by default; callers
// that want rubble call Classify(c, TerrainRubble) explicitly, matching the
// original's "formerly obstacle, but the obstacle died leaving rubble" as a
// distinct, caller-driven step rather than an automatic one).
func (g *Grid) UnstampFootprint(id ObstacleID, fp Footprint) {
	touched := make([]geom.Coord, 0, len(fp.Cells))
	for _, off := range fp.Cells {
		c := fp.Origin.Add(off)
		ok := g.Mutate(c, func(cell *Cell) {
			if cell.Obstacle != id {
				return
			}
			cell.Terrain = TerrainClear
			cell.Obstacle = NoObstacle
			cell.ObstacleFence = false
			cell.ObstacleGlass = false
		})
		if ok {
			touched = append(touched, c)
		}
	}
	g.recomputePinchedNear(touched)
	if len(touched) > 0 {
		g.notify.MarkZonesDirty()
	}
}

// recomputePinchedNear recomputes the pinched bit (surrounded by obstacles
// on all 4 cardinal sides) for every cell adjacent to the given set, which
// is the only set whose pinched status could have changed.
func (g *Grid) recomputePinchedNear(changed []geom.Coord) {
	seen := make(map[geom.Coord]bool, len(changed)*5)
	for _, c := range changed {
		seen[c] = true
		for _, d := range []geom.Direction{geom.DirNorth, geom.DirSouth, geom.DirEast, geom.DirWest} {
			seen[c.Neighbor(d)] = true
		}
	}
	for c := range seen {
		g.Mutate(c, func(cell *Cell) {
			cell.Pinched = g.isPinched(c)
		})
	}
}

func (g *Grid) isPinched(c geom.Coord) bool {
	for _, d := range []geom.Direction{geom.DirNorth, geom.DirSouth, geom.DirEast, geom.DirWest} {
		n, ok := g.At(c.Neighbor(d))
		if !ok || n.Terrain != TerrainObstacle {
			return false
		}
	}
	return true
}

// UpdatePos records unit as moving and currently occupying cell, clearing
// any previous occupancy at prevCell if it still belongs to unit. Mirrors
// updatePos's contract that every mobile unit's current cell carries its
// moving record.
func (g *Grid) UpdatePos(unit UnitID, prevCell geom.Coord, prevValid bool, newCell geom.Coord) error {
	if prevValid {
		g.Mutate(prevCell, func(cell *Cell) {
			if cell.Occupancy.MovingOrFixed == unit {
				cell.Occupancy.ClearPos()
			}
		})
	}
	if !g.Mutate(newCell, func(cell *Cell) { cell.Occupancy.SetMoving(unit) }) {
		return fmt.Errorf("cellgrid: updatePos: cell %v out of bounds", newCell)
	}
	return nil
}

// RemovePos clears unit's moving/fixed occupancy record at cell.
func (g *Grid) RemovePos(unit UnitID, cell geom.Coord) {
	g.Mutate(cell, func(c *Cell) {
		if c.Occupancy.MovingOrFixed == unit {
			c.Occupancy.ClearPos()
		}
	})
}

// UpdateGoal records unit's goal claim at newGoal, clearing any previous
// claim at prevGoal.
func (g *Grid) UpdateGoal(unit UnitID, prevGoal geom.Coord, prevValid bool, newGoal geom.Coord) error {
	if prevValid {
		g.Mutate(prevGoal, func(cell *Cell) {
			if cell.Occupancy.Goal == unit {
				cell.Occupancy.ClearGoal()
			}
		})
	}
	if !g.Mutate(newGoal, func(cell *Cell) { cell.Occupancy.SetGoal(unit) }) {
		return fmt.Errorf("cellgrid: updateGoal: cell %v out of bounds", newGoal)
	}
	return nil
}

// RemoveGoal clears unit's goal claim at cell.
func (g *Grid) RemoveGoal(unit UnitID, cell geom.Coord) {
	g.Mutate(cell, func(c *Cell) {
		if c.Occupancy.Goal == unit {
			c.Occupancy.ClearGoal()
		}
	})
}

// UpdateAircraftGoal records unit's landing claim at newGoal, clearing any
// previous claim at prevGoal. Mirrors UpdateGoal but against the aircraft
// bit rather than Occupancy, since an aircraft's landing claim never
// participates in ground occupancy.
func (g *Grid) UpdateAircraftGoal(unit UnitID, prevGoal geom.Coord, prevValid bool, newGoal geom.Coord) error {
	if prevValid {
		g.Mutate(prevGoal, func(cell *Cell) {
			if cell.AircraftGoal && cell.AircraftGoalOwner == unit {
				cell.AircraftGoal = false
				cell.AircraftGoalOwner = NoUnit
			}
		})
	}
	ok := g.Mutate(newGoal, func(cell *Cell) {
		cell.AircraftGoal = true
		cell.AircraftGoalOwner = unit
	})
	if !ok {
		return fmt.Errorf("cellgrid: updateAircraftGoal: cell %v out of bounds", newGoal)
	}
	return nil
}

// RemoveAircraftGoal clears unit's landing claim at cell.
func (g *Grid) RemoveAircraftGoal(unit UnitID, cell geom.Coord) {
	g.Mutate(cell, func(c *Cell) {
		if c.AircraftGoal && c.AircraftGoalOwner == unit {
			c.AircraftGoal = false
			c.AircraftGoalOwner = NoUnit
		}
	})
}

// Reset reclassifies every cell to its default state, used by
// setActiveBoundary's coarse barrier (section 5).
func (g *Grid) Reset(width, height int32, pitch float64) {
	g.Width, g.Height, g.Pitch = width, height, pitch
	g.cells = make([]Cell, int(width)*int(height))
	for i := range g.cells {
		g.cells[i] = NewCell()
	}
	g.notify.MarkZonesDirty()
}
