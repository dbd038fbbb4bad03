package cellgrid

// OccupancyKind is the small legal state space of transient cell occupancy:
// none, goal-only, moving, fixed, or moving+goal. Modeled as a tagged
// variant (OccupancyKind plus the two owner ids below) rather than a
// bitfield, per the design guidance that "a cell is never both fixed and
// moving" should be a structural invariant, not a runtime check.
type OccupancyKind uint8

const (
	OccupancyNone OccupancyKind = iota
	OccupancyGoalOnly
	OccupancyMoving
	OccupancyFixed
	OccupancyMovingPlusGoal
)

// UnitID identifies an externally-owned mobile object.
type UnitID uint32

// NoUnit is the zero value meaning "no unit".
const NoUnit UnitID = 0

// Occupancy is the occupancy state of one cell.
type Occupancy struct {
	Kind OccupancyKind

	// MovingOrFixed is the unit present at this cell (moving through it or
	// permanently parked on it), valid when Kind is Moving, Fixed, or
	// MovingPlusGoal.
	MovingOrFixed UnitID

	// Goal is the unit for which this cell is the current pathing goal,
	// valid when Kind is GoalOnly or MovingPlusGoal.
	Goal UnitID
}

// SetMoving transitions the occupancy to Moving (or MovingPlusGoal if a
// goal owner is already recorded here), recording unit as present.
func (o *Occupancy) SetMoving(unit UnitID) {
	if o.Kind == OccupancyGoalOnly || o.Kind == OccupancyMovingPlusGoal {
		o.Kind = OccupancyMovingPlusGoal
	} else {
		o.Kind = OccupancyMoving
	}
	o.MovingOrFixed = unit
}

// SetFixed transitions the occupancy to Fixed, overwriting any moving
// occupant. Fixed and Moving are mutually exclusive by construction: a cell
// that becomes Fixed is no longer Moving.
func (o *Occupancy) SetFixed(unit UnitID) {
	o.Kind = OccupancyFixed
	o.MovingOrFixed = unit
	o.Goal = NoUnit
}

// ClearPos removes any moving/fixed occupant, collapsing MovingPlusGoal back
// to GoalOnly if a goal owner remains, or to None otherwise.
func (o *Occupancy) ClearPos() {
	switch o.Kind {
	case OccupancyMoving, OccupancyFixed:
		o.Kind = OccupancyNone
		o.MovingOrFixed = NoUnit
	case OccupancyMovingPlusGoal:
		o.Kind = OccupancyGoalOnly
		o.MovingOrFixed = NoUnit
	}
}

// SetGoal transitions the occupancy to record unit as the goal-claimant,
// combining with any existing moving occupant.
func (o *Occupancy) SetGoal(unit UnitID) {
	if o.Kind == OccupancyMoving || o.Kind == OccupancyMovingPlusGoal {
		o.Kind = OccupancyMovingPlusGoal
	} else {
		o.Kind = OccupancyGoalOnly
	}
	o.Goal = unit
}

// ClearGoal removes the goal claim, collapsing MovingPlusGoal back to Moving
// if a position occupant remains, or to None otherwise.
func (o *Occupancy) ClearGoal() {
	switch o.Kind {
	case OccupancyGoalOnly:
		o.Kind = OccupancyNone
		o.Goal = NoUnit
	case OccupancyMovingPlusGoal:
		o.Kind = OccupancyMoving
		o.Goal = NoUnit
	}
}

// IsFixedByOther reports whether the cell is permanently occupied by a unit
// other than self — the condition that makes a to-cell impassable under
// 4.1's passability rule regardless of terrain or locomotor mask.
func (o Occupancy) IsFixedByOther(self UnitID) bool {
	return o.Kind == OccupancyFixed && o.MovingOrFixed != self
}

// IsGoalOfOther reports whether some other unit currently claims this cell
// as its pathing goal, used for the hostile-goal edge-cost surcharge and for
// adjustDestination's "not already claimed" admission rule.
func (o Occupancy) IsGoalOfOther(self UnitID) bool {
	goalSet := o.Kind == OccupancyGoalOnly || o.Kind == OccupancyMovingPlusGoal
	return goalSet && o.Goal != self
}

// IsMovingAlly reports whether an allied unit other than self currently
// passes through this cell, the condition for the ally-blocked surcharge.
func (o Occupancy) IsMovingAlly(self UnitID) bool {
	moving := o.Kind == OccupancyMoving || o.Kind == OccupancyMovingPlusGoal
	return moving && o.MovingOrFixed != self && o.MovingOrFixed != NoUnit
}
