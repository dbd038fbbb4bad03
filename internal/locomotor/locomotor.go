// Package locomotor defines the per-unit capability descriptor consumed by
// every passability query in the navigation core. It is intentionally tiny,
// depends only on cellgrid's cell and terrain types, and has no dependency
// on astar: the spec is explicit that the
// locomotor set is "never owned by the core" — it is supplied by the caller
// on every query, the way the teacher's RulesEngine takes a unit's movement
// type as a parameter rather than storing it.
package locomotor

import "github.com/fieldforge/navcore/internal/cellgrid"

// SurfaceMask is a bitmask of terrain categories a locomotor set accepts.
type SurfaceMask uint8

const (
	SurfaceClear SurfaceMask = 1 << iota
	SurfaceWater
	SurfaceCliff
	SurfaceRubble
	SurfaceObstacleFence // fences are passable only to crushers, gated separately
)

// bitFor maps a terrain category to its corresponding mask bit, or 0 for
// categories that are never directly maskable (obstacle, impassable).
func bitFor(t cellgrid.TerrainCategory) SurfaceMask {
	switch t {
	case cellgrid.TerrainClear:
		return SurfaceClear
	case cellgrid.TerrainWater:
		return SurfaceWater
	case cellgrid.TerrainCliff:
		return SurfaceCliff
	case cellgrid.TerrainRubble:
		return SurfaceRubble
	default:
		return 0
	}
}

// Set is a unit's locomotion capability descriptor: an acceptable-surface
// mask plus a crusher flag, matching the data model's "bitmask of
// acceptable surface types plus a crusher flag".
type Set struct {
	Surfaces SurfaceMask
	Crusher  bool

	// WallAccess allows stepping from a wall entry cell onto the wall's
	// top layer (infantry-only locomotion per 4.2).
	WallAccess bool

	// Amphibious is a convenience derived from Surfaces&SurfaceWater being
	// set; kept as an explicit field because the zone manager's
	// ground-and-water meta-capability table is keyed by this boolean, not
	// by re-deriving it from the mask on every lookup.
	Amphibious bool

	// DiameterCells is the unit's footprint diameter in cells, used by
	// clearCellForDiameter-style footprint enlargement during line and
	// path-optimization passability checks (section 4.5 / geom.SquareFootprint).
	DiameterCells int32

	// Aircraft marks a locomotor set as flying: it ignores ground
	// passability/occupancy entirely and lands only on cells adjustToLandingDestination
	// finds free of another aircraft's landing claim, per the data model's
	// "aircraft-goal bit is separate from ground occupancy" note.
	Aircraft bool
}

// Ground is the common infantry/vehicle locomotor: clear + rubble, no
// water, no crusher.
func Ground() Set {
	return Set{Surfaces: SurfaceClear | SurfaceRubble, DiameterCells: 1}
}

// Amphibious accepts clear, rubble, and water.
func AmphibiousSet() Set {
	return Set{Surfaces: SurfaceClear | SurfaceRubble | SurfaceWater, Amphibious: true, DiameterCells: 1}
}

// Crusher accepts clear, rubble, and fence obstacles, flattening fences as
// it moves.
func Crusher() Set {
	return Set{Surfaces: SurfaceClear | SurfaceRubble, Crusher: true, DiameterCells: 1}
}

// Air is the flying locomotor: it sets no surface bits, so AcceptsTerrain
// rejects every terrain for it; navcore routes aircraft goal placement
// through adjustToLandingDestination instead.
func Air() Set {
	return Set{Aircraft: true, DiameterCells: 1}
}

// AcceptsTerrain reports whether a terrain category is acceptable to this
// locomotor set, independent of occupancy. Obstacle cells are handled
// separately in passability.go because an obstacle cell's passability also
// depends on the fence/crusher interaction.
func (s Set) AcceptsTerrain(t cellgrid.TerrainCategory) bool {
	b := bitFor(t)
	return b != 0 && s.Surfaces&b != 0
}
