package locomotor

import "github.com/fieldforge/navcore/internal/cellgrid"

// StepOptions carries the per-search toggles that modulate an otherwise pure
// passability check: whether ally-occupied cells may be entered (at a
// surcharge, applied by the caller/astar package, not here), whether an
// ignored obstacle id should be treated as absent, and pinched-cell
// tolerance.
type StepOptions struct {
	Self           cellgrid.UnitID
	AllowAllyClear bool
	IgnoreObstacle cellgrid.ObstacleID
	AllowPinched   bool
}

// Passable implements the 4.1 passability predicate: a to-cell is valid iff
// its terrain category is in the surface mask (with fence obstacles
// additionally permitted under crusher), it is not fixed-occupied by a
// non-ally, and — for pinched cells — the caller allows stepping into them.
//
// AllyBlocked is reported separately so the caller (the A* edge-cost
// function) can apply the ally-blocked surcharge rather than reject the
// step outright, per the "pass-through allowed but expensive" edge cost
// rule in 4.4.
func Passable(to cellgrid.Cell, loc Set, opt StepOptions) (ok bool, allyBlocked bool) {
	if to.Obstacle != cellgrid.NoObstacle && to.Obstacle == opt.IgnoreObstacle {
		// Ignored obstacle: treat the cell as clear terrain for this query.
	} else if to.Terrain == cellgrid.TerrainObstacle {
		if to.ObstacleFence && loc.Crusher {
			// crushers flatten fences; fall through to occupancy checks.
		} else {
			return false, false
		}
	} else if !loc.AcceptsTerrain(to.Terrain) {
		return false, false
	}

	if to.Occupancy.IsFixedByOther(opt.Self) {
		return false, false
	}

	if to.Pinched && !opt.AllowPinched {
		return false, false
	}

	if to.Occupancy.IsMovingAlly(opt.Self) {
		if !opt.AllowAllyClear {
			return false, false
		}
		return true, true
	}

	return true, false
}
