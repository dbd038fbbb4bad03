// Package cellgrid implements the base grid of fixed-pitch cells: terrain
// classification, the per-cell occupancy state machine, footprint stamping
// for obstacles, and the passability predicate every search step consults.
//
// Grounded on the teacher's lib/tiles.go / services/tiles.go notion of a
// per-coordinate cell record, generalized from a hex grid of game tiles to
// a square grid of navigation cells, and on the field layout documented for
// PathfindCell in the retrieved original source.
package cellgrid

import "github.com/fieldforge/navcore/internal/geom"

// TerrainCategory is the passability classification of a cell.
type TerrainCategory uint8

const (
	TerrainClear TerrainCategory = iota
	TerrainWater
	TerrainCliff
	TerrainRubble
	TerrainObstacle
	TerrainImpassable
)

func (t TerrainCategory) String() string {
	switch t {
	case TerrainClear:
		return "clear"
	case TerrainWater:
		return "water"
	case TerrainCliff:
		return "cliff"
	case TerrainRubble:
		return "rubble"
	case TerrainObstacle:
		return "obstacle"
	case TerrainImpassable:
		return "impassable"
	default:
		return "unknown"
	}
}

// LayerTag identifies which overlay owns a cell: the base grid, or one of
// the layer store's bridge/wall layers (layers.LayerID, referenced here only
// as an opaque int32 to avoid an import cycle between cellgrid and layers).
type LayerTag int32

// LayerGround is the reserved tag for cells on the base grid itself.
const LayerGround LayerTag = 0

// ObstacleID identifies the externally-owned object, if any, stamped onto a
// cell as an obstacle (a structure footprint, a fence, a wall piece).
type ObstacleID uint32

// NoObstacle is the zero value meaning "no obstacle stamped here".
const NoObstacle ObstacleID = 0

// ZoneIndex is the 14-bit fine-zone index assigned by the zone manager.
// Values are masked to 14 bits on assignment; see zonemgr.MaxZoneIndex.
type ZoneIndex uint16

// Cell is one square of the base grid or of a layer's own sub-grid.
//
// Fields mirror the data model's Cell record: terrain category, occupancy
// state machine, aircraft-goal bit, pinched bit, layer/connect tags, zone
// index, and a lazily-allocated search-info handle (carried as an opaque
// index into the pool rather than a pointer, per the Go idiom of avoiding
// raw pointers into a slice-backed pool that may grow and reallocate).
type Cell struct {
	Terrain TerrainCategory

	Occupancy Occupancy

	// AircraftGoal and AircraftGoalOwner track an airborne unit's landing
	// claim, separate from Occupancy since aircraft ignore ground
	// passability entirely and so never set Occupancy.Goal.
	AircraftGoal      bool
	AircraftGoalOwner UnitID

	Pinched bool

	Layer LayerTag
	// ConnectLayer is the layer this cell cross-links onto. layers.AddBridge
	// sets it to LayerGround on a bridge's connect cells, so the zero value
	// does not by itself mean "no cross-link".
	ConnectLayer LayerTag

	Zone ZoneIndex

	Obstacle       ObstacleID
	ObstacleFence  bool
	ObstacleGlass  bool // "transparent" structures per the data model

	// SearchInfo is a handle into the search-info pool (searchinfo.Handle),
	// NoSearchInfo (-1) when the cell is not currently participating in a
	// search. Typed
	// as a plain int32 here to avoid cellgrid depending on searchinfo; the
	// A* searcher interprets it.
	SearchInfo int32
}

// NoSearchInfo is the sentinel handle value meaning "not allocated".
const NoSearchInfo int32 = -1

// NewCell returns a cell in its zero/default state: clear terrain, no
// occupancy, ground layer, no search info allocated.
func NewCell() Cell {
	return Cell{
		Terrain:    TerrainClear,
		Layer:      LayerGround,
		SearchInfo: NoSearchInfo,
	}
}

// Passable reports whether the cell's terrain category, considered alone
// (without occupancy or crusher context), could ever be entered by any
// locomotor. Used as a fast pre-filter before the full passability check in
// passability.go.
func (c Cell) Passable() bool {
	return c.Terrain != TerrainImpassable
}

// CoordKey packs a geom.Coord into a single int64 for use as a map key by
// the sidecar structures (search-info pool, occupancy tracker) that cannot
// afford a dense array per cell. Grounded on the teacher's CoordKey pattern
// in lib/hex_coords.go, adapted from a two-string-field key to a packed
// integer since the square grid's coordinates are already small integers.
func CoordKey(c geom.Coord) int64 {
	return int64(c.X)<<32 | int64(uint32(c.Y))
}
