// Package navcore is the external contract: a single-threaded navigation
// engine wrapped in one mutex for safe use from a concurrent host process,
// matching section 5.1's "the engine itself is single-threaded; concurrency
// safety for a multi-goroutine host is the facade's job, not baked into the
// lower layers" design decision. Every method here corresponds to an
// operation in the external-interfaces contract (section 6): queueForPath,
// findPath and its variants, quickDoesPathExist, addObjectToPathfindMap /
// removeObjectFromPathfindMap, updateGoal / removeGoal, updatePos /
// removePos, adjustDestination and its possible/target/landing variants,
// isLinePassable, isPointOnWall, getWallHeight.
//
// Grounded on the teacher's cmd/backend/main.go top-level service
// construction (one struct wiring every subsystem together, exposed through
// a small set of public methods) generalized from a game-server facade to a
// navigation-engine facade.
package navcore

import (
	"context"
	"fmt"
	"sync"

	"github.com/fieldforge/navcore/internal/astar"
	"github.com/fieldforge/navcore/internal/cellgrid"
	"github.com/fieldforge/navcore/internal/geom"
	"github.com/fieldforge/navcore/internal/layers"
	"github.com/fieldforge/navcore/internal/locomotor"
	"github.com/fieldforge/navcore/internal/navpath"
	"github.com/fieldforge/navcore/internal/requestqueue"
	"github.com/fieldforge/navcore/internal/zonemgr"
)

// Config bundles construction-time parameters. No CLI, no environment
// variables are read here — per section 6, the library itself never touches
// configuration sources; the operator CLI (cmd/navcli) translates viper
// configuration into this struct before calling New.
type Config struct {
	Width, Height int32
	Pitch         float64

	ZoneBlockSize int32

	SearchPoolCapacity int
	MaxExpansions      int

	QueueCapacity int
}

// DefaultConfig returns reasonable defaults for a modest map, used by tests
// and by cmd/navcli when no configuration file is supplied.
func DefaultConfig(width, height int32, pitch float64) Config {
	return Config{
		Width: width, Height: height, Pitch: pitch,
		ZoneBlockSize:      16,
		SearchPoolCapacity: 1 << 16,
		MaxExpansions:      1 << 14,
		QueueCapacity:      4096,
	}
}

// Engine is the navigation core singleton: it exclusively owns the cell
// grid and every layer for the map's lifetime, per the data model's
// ownership section.
type Engine struct {
	mu sync.Mutex

	cfg Config

	grid       *cellgrid.Grid
	layerStore *layers.Store
	zones      *zonemgr.Manager
	searcher   *astar.Searcher
	queue      *requestqueue.Queue

	// units tracks each unit's last known position/goal so updatePos and
	// updateGoal can clear the previous cell without the caller having to
	// remember it.
	units map[cellgrid.UnitID]*unitState

	// pendingRubbled accumulates units collectUnitsOnLayer finds during a
	// single ChangeBridgeState call; read and cleared by ChangeBridgeState
	// itself immediately afterward.
	pendingRubbled []cellgrid.UnitID
}

type unitState struct {
	pos      geom.Coord
	posLayer layers.ID
	hasPos   bool

	goal    geom.Coord
	hasGoal bool

	aircraftGoal    geom.Coord
	hasAircraftGoal bool
}

// New constructs an Engine over a fresh grid of the configured extent.
func New(cfg Config) *Engine {
	grid := cellgrid.NewGrid(cfg.Width, cfg.Height, cfg.Pitch)
	layerStore := layers.NewStore()
	zones := zonemgr.New(grid, layerStore, cfg.ZoneBlockSize)
	e := &Engine{
		cfg:        cfg,
		grid:       grid,
		layerStore: layerStore,
		zones:      zones,
		searcher:   astar.NewSearcher(grid, layerStore, zones, cfg.SearchPoolCapacity),
		queue:      requestqueue.New(cfg.QueueCapacity),
		units:      make(map[cellgrid.UnitID]*unitState),
	}
	layerStore.SetRubbleCallback(e.collectUnitsOnLayer)
	return e
}

// collectUnitsOnLayer is the rubble callback wired into the layer store at
// construction: per section 4.2 step 3, every object whose tracked current
// layer equals the one that just collapsed must be reported, not merely the
// bare layer id. Invoked synchronously from inside ChangeBridgeState, which
// already holds e.mu, so it must never itself lock.
func (e *Engine) collectUnitsOnLayer(id layers.ID) {
	for unit, st := range e.units {
		if st.hasPos && st.posLayer == id {
			e.pendingRubbled = append(e.pendingRubbled, unit)
		}
	}
}

// Classify sets a cell's terrain category directly, the map-load and
// runtime-terrain-edit entry point (flattenTerrain / setWaterHeight style
// bulk edits in the original source map equally onto repeated calls here).
func (e *Engine) Classify(c geom.Coord, terrain cellgrid.TerrainCategory) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.grid.Classify(c, terrain)
}

// CellAt returns a copy of the cell at c, for diagnostics and rendering
// (the HTTP introspection surface and navcli's ASCII renderer use this
// instead of reaching into the internal grid directly).
func (e *Engine) CellAt(c geom.Coord) (cellgrid.Cell, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.grid.At(c)
}

// AddObjectToPathfindMap stamps id's footprint as an obstacle, per
// addObjectToPathfindMap in the external-interfaces contract.
func (e *Engine) AddObjectToPathfindMap(id cellgrid.ObstacleID, fp cellgrid.Footprint) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.grid.StampFootprint(id, fp)
}

// RemoveObjectFromPathfindMap reverses AddObjectToPathfindMap.
func (e *Engine) RemoveObjectFromPathfindMap(id cellgrid.ObstacleID, fp cellgrid.Footprint) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.grid.UnstampFootprint(id, fp)
}

// UpdatePos records unit's current cell on the given layer (cellgrid.LayerGround
// for the base grid, or a bridge/wall layer id), clearing its previous cell
// automatically — including when the unit's previous cell was on a
// different layer, since a unit crossing onto or off a bridge changes which
// sub-grid owns its occupancy record. The tracked layer is also what lets
// ChangeBridgeState report every unit standing on a layer that just
// collapsed into rubble.
func (e *Engine) UpdatePos(unit cellgrid.UnitID, layer layers.ID, newCell geom.Coord) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	st := e.stateFor(unit)
	if st.hasPos {
		if g, ok := e.gridForLayer(st.posLayer); ok {
			g.RemovePos(unit, st.pos)
		}
	}
	g, ok := e.gridForLayer(layer)
	if !ok {
		return fmt.Errorf("navcore: updatePos: unknown layer %d", layer)
	}
	if err := g.UpdatePos(unit, geom.Coord{}, false, newCell); err != nil {
		return err
	}
	st.pos, st.posLayer, st.hasPos = newCell, layer, true
	return nil
}

// RemovePos clears unit's position occupancy entirely, used when a unit
// leaves the map.
func (e *Engine) RemovePos(unit cellgrid.UnitID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	st, ok := e.units[unit]
	if !ok || !st.hasPos {
		return
	}
	if g, ok := e.gridForLayer(st.posLayer); ok {
		g.RemovePos(unit, st.pos)
	}
	st.hasPos = false
}

// gridForLayer resolves a layer id to the grid that owns its cells: the
// base grid for cellgrid.LayerGround, or the layer's own sub-grid.
func (e *Engine) gridForLayer(layer layers.ID) (*cellgrid.Grid, bool) {
	if layer == cellgrid.LayerGround {
		return e.grid, true
	}
	l, ok := e.layerStore.Get(layer)
	if !ok {
		return nil, false
	}
	return l.Grid, true
}

// UpdateGoal records unit's pathing-goal claim at newGoal.
func (e *Engine) UpdateGoal(unit cellgrid.UnitID, newGoal geom.Coord) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	st := e.stateFor(unit)
	if err := e.grid.UpdateGoal(unit, st.goal, st.hasGoal, newGoal); err != nil {
		return err
	}
	st.goal, st.hasGoal = newGoal, true
	return nil
}

// RemoveGoal clears unit's goal claim.
func (e *Engine) RemoveGoal(unit cellgrid.UnitID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	st, ok := e.units[unit]
	if !ok || !st.hasGoal {
		return
	}
	e.grid.RemoveGoal(unit, st.goal)
	st.hasGoal = false
}

// UpdateAircraftGoal records unit's landing claim at newGoal on the base
// grid, clearing any previous claim. Aircraft claims are tracked
// independently of UpdateGoal/Occupancy since aircraft ignore ground
// occupancy entirely.
func (e *Engine) UpdateAircraftGoal(unit cellgrid.UnitID, newGoal geom.Coord) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	st := e.stateFor(unit)
	if err := e.grid.UpdateAircraftGoal(unit, st.aircraftGoal, st.hasAircraftGoal, newGoal); err != nil {
		return err
	}
	st.aircraftGoal, st.hasAircraftGoal = newGoal, true
	return nil
}

// RemoveAircraftGoal clears unit's landing claim.
func (e *Engine) RemoveAircraftGoal(unit cellgrid.UnitID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	st, ok := e.units[unit]
	if !ok || !st.hasAircraftGoal {
		return
	}
	e.grid.RemoveAircraftGoal(unit, st.aircraftGoal)
	st.hasAircraftGoal = false
}

func (e *Engine) stateFor(unit cellgrid.UnitID) *unitState {
	st, ok := e.units[unit]
	if !ok {
		st = &unitState{}
		e.units[unit] = st
	}
	return st
}

// ChangeBridgeState drives the bridge health state machine (4.2). When the
// transition rubbles a previously-usable bridge, the returned slice lists
// every unit this engine has tracked as currently standing on that layer —
// the caller's cue to re-path or report those objects as stranded, per step
// 3 of the bridge-collapse contract.
func (e *Engine) ChangeBridgeState(id layers.ID, state layers.BridgeState) ([]cellgrid.UnitID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pendingRubbled = nil
	err := e.layerStore.ChangeBridgeState(id, state)
	affected := e.pendingRubbled
	e.pendingRubbled = nil
	return affected, err
}

// AddBridge/AddWall proxy layer construction so callers never need a direct
// reference into the internal layers package.
func (e *Engine) AddBridge(width, height int32, surfaceZ float64, groundConnect, layerConnect []geom.Coord) layers.ID {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.layerStore.AddBridge(width, height, e.cfg.Pitch, surfaceZ, groundConnect, layerConnect)
}

func (e *Engine) AddWall(width, height int32, surfaceZ float64, entryCells, wallTopConnect []geom.Coord) layers.ID {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.layerStore.AddWall(width, height, e.cfg.Pitch, surfaceZ, entryCells, wallTopConnect)
}

// SearchOptions bundles the per-call passability relaxations and cost
// adjustments that the external-interfaces contract's ignore-list and
// ally-clear (moveAllies) parameters describe: which single obstacle id the
// search should treat as absent, whether moving allies may be shoved
// through at the ally-blocked surcharge, whether pinched cells may be
// entered, and a multiplier applied on top of every computed edge cost. The
// zero value (no relaxations, no cost scaling) is the strict default every
// caller got before this existed.
type SearchOptions struct {
	IgnoreObstacle cellgrid.ObstacleID
	AllowAllyClear bool
	AllowPinched   bool
	CostMultiplier float64
}

// FindPath is the strict exact-goal search.
func (e *Engine) FindPath(ctx context.Context, from geom.Coord, to geom.Coord, loc locomotor.Set, self cellgrid.UnitID, extra SearchOptions) (*navpath.Path, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	opts := e.optionsFor(loc, self, extra)
	path, err := e.searcher.FindPath(ctx, cellgrid.LayerGround, from, cellgrid.LayerGround, to, opts)
	if err != nil {
		return nil, err
	}
	return path.Optimize(e.passer(), loc), nil
}

// FindClosestPath never fails outright; see astar.Searcher.FindClosestPath.
// It also reports the cell the search actually reached, which per the
// external-interfaces contract's findClosestPath becomes the caller's new
// destination when the original goal proved unreachable.
func (e *Engine) FindClosestPath(ctx context.Context, from, to geom.Coord, loc locomotor.Set, self cellgrid.UnitID, extra SearchOptions) (*navpath.Path, geom.Coord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	opts := e.optionsFor(loc, self, extra)
	path, err := e.searcher.FindClosestPath(ctx, cellgrid.LayerGround, from, cellgrid.LayerGround, to, opts)
	if err != nil {
		return nil, to, err
	}
	optimized := path.Optimize(e.passer(), loc)
	reached := to
	if optimized.Len() > 0 {
		reached = optimized.Nodes[optimized.Len()-1].Pos
	}
	return optimized, reached, nil
}

// FindAttackPath stops once within weapon range of the goal.
func (e *Engine) FindAttackPath(ctx context.Context, from, to geom.Coord, attackRangeCells float64, loc locomotor.Set, self cellgrid.UnitID, extra SearchOptions) (*navpath.Path, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	opts := e.optionsFor(loc, self, extra)
	path, err := e.searcher.FindAttackPath(ctx, cellgrid.LayerGround, from, cellgrid.LayerGround, to, attackRangeCells, opts)
	if err != nil {
		return nil, err
	}
	return path.Optimize(e.passer(), loc), nil
}

// FindSafePath searches away from a threat position.
func (e *Engine) FindSafePath(ctx context.Context, from, threat geom.Coord, safeRangeCells float64, loc locomotor.Set, self cellgrid.UnitID, extra SearchOptions) (*navpath.Path, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	opts := e.optionsFor(loc, self, extra)
	path, err := e.searcher.FindSafePath(ctx, cellgrid.LayerGround, from, threat, safeRangeCells, opts)
	if err != nil {
		return nil, err
	}
	return path.Optimize(e.passer(), loc), nil
}

// PatchPath re-routes around a blockage discovered partway along path.
func (e *Engine) PatchPath(ctx context.Context, path *navpath.Path, blockIndex int, loc locomotor.Set, self cellgrid.UnitID, extra SearchOptions) (*navpath.Path, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	opts := e.optionsFor(loc, self, extra)
	patched, err := e.searcher.PatchPath(ctx, path, blockIndex, opts)
	if err != nil {
		return nil, err
	}
	return patched.Optimize(e.passer(), loc), nil
}

// QuickDoesPathExist answers reachability without running a full search.
func (e *Engine) QuickDoesPathExist(ctx context.Context, from, to geom.Coord, loc locomotor.Set) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.searcher.QuickDoesPathExist(ctx, loc, from, to)
}

// QueueForPath enqueues a deferred pathfind request for later draining via
// ProcessPathfindQueue, the admission path for units that ask to move when
// the tick's search budget is already spent.
func (e *Engine) QueueForPath(req requestqueue.Request) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.queue.Enqueue(req)
}

// Completion is one drained-and-served queued request's outcome.
type Completion struct {
	Ticket uint64
	Path   *navpath.Path

	// ClosestTo is the destination the request actually resolved against:
	// the original goal for every kind except KindFindClosestPath, where it
	// is the closest-reached cell FindClosestPath found in its place.
	ClosestTo geom.Coord

	Err error
}

// ProcessPathfindQueue drains the request queue up to budget (in estimated
// cell-expansion cost). KindFindClosestPath requests are served with
// FindClosestPath; every other kind is served with FindPath.
func (e *Engine) ProcessPathfindQueue(ctx context.Context, budget int, loc locomotor.Set) []Completion {
	e.mu.Lock()
	reqs := e.queue.Drain(budget, func(r requestqueue.Request) int {
		return int(geom.OctileDistance(r.From, r.To, 1.0))
	})
	e.mu.Unlock()

	out := make([]Completion, 0, len(reqs))
	for _, r := range reqs {
		var path *navpath.Path
		var err error
		var closestTo geom.Coord
		switch r.Kind {
		case requestqueue.KindFindClosestPath:
			path, closestTo, err = e.FindClosestPath(ctx, r.From, r.To, loc, cellgrid.UnitID(r.Unit), SearchOptions{})
		default:
			path, err = e.FindPath(ctx, r.From, r.To, loc, cellgrid.UnitID(r.Unit), SearchOptions{})
			closestTo = r.To
		}
		out = append(out, Completion{Ticket: r.Ticket, Path: path, ClosestTo: closestTo, Err: err})
	}
	return out
}

// IsLinePassable reports whether a straight line between two cells is
// passable for loc, enlarged to its footprint.
func (e *Engine) IsLinePassable(a, b geom.Coord, loc locomotor.Set) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return navpath.IsLinePassable(e.passer(), loc, a, b)
}

// IsPointOnWall reports whether pos lies on a wall layer's surface.
func (e *Engine) IsPointOnWall(pos geom.Pos, zTolerance float64) (bool, float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.layerStore.IsPointOnWall(pos, zTolerance)
}

// GetWallHeight returns the surface z of the wall layer at pos, if any.
func (e *Engine) GetWallHeight(pos geom.Pos, zTolerance float64) (float64, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	onWall, height := e.layerStore.IsPointOnWall(pos, zTolerance)
	return height, onWall
}

// AdjustDestination nudges a requested goal off cells already claimed as
// another unit's goal (adjustDestination's point variant in the
// external-interfaces contract): it spirals outward from to in
// 8-connected rings until a passable, unclaimed, same-zone cell is found or
// maxRingCells rings are exhausted.
func (e *Engine) AdjustDestination(ctx context.Context, to geom.Coord, loc locomotor.Set, self cellgrid.UnitID, maxRingCells int32) (geom.Coord, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.spiralAdjust(to, maxRingCells, func(c geom.Coord) bool {
		return e.destinationOK(ctx, c, loc, self, false)
	})
}

// AdjustToPossibleDestination is adjustToPossibleDestination: like
// AdjustDestination but additionally accepts a cell another allied unit is
// currently moving through, the relaxed admission rule used when a caller
// would rather shove through traffic than report no reachable destination
// at all.
func (e *Engine) AdjustToPossibleDestination(ctx context.Context, to geom.Coord, loc locomotor.Set, self cellgrid.UnitID, maxRingCells int32) (geom.Coord, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.spiralAdjust(to, maxRingCells, func(c geom.Coord) bool {
		return e.destinationOK(ctx, c, loc, self, true)
	})
}

// AdjustTargetDestination is adjustTargetDestination: finds a cell within
// attackRangeCells of victim, reachable and line-of-sight clear to victim,
// by spiraling outward from victim itself rather than from a caller-chosen
// point — the admission rule a unit closing to weapon range uses instead of
// the plain "land on this exact cell" rule.
func (e *Engine) AdjustTargetDestination(ctx context.Context, victim geom.Coord, loc locomotor.Set, self cellgrid.UnitID, attackRangeCells float64, maxRingCells int32) (geom.Coord, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	check := func(c geom.Coord) bool {
		if geom.OctileDistance(c, victim, 1.0) > attackRangeCells {
			return false
		}
		if !e.destinationOK(ctx, c, loc, self, false) {
			return false
		}
		return navpath.IsLinePassable(e.passer(), loc, c, victim)
	}
	return e.spiralAdjust(victim, maxRingCells, check)
}

// AdjustToLandingDestination is adjustToLandingDestination, the aircraft-only
// variant: it ignores ground passability and the zone graph entirely (per
// locomotor.Set.Aircraft) and instead spirals outward from to for a cell
// whose aircraft-goal bit is unclaimed and whose terrain is not water
// unless loc is amphibious, since non-amphibious aircraft cannot land on
// open water even though they fly over it freely.
func (e *Engine) AdjustToLandingDestination(to geom.Coord, loc locomotor.Set, maxRingCells int32) (geom.Coord, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !loc.Aircraft {
		return to, false
	}
	check := func(c geom.Coord) bool {
		cell, ok := e.grid.At(c)
		if !ok {
			return false
		}
		if cell.AircraftGoal {
			return false
		}
		if cell.Terrain == cellgrid.TerrainWater && !loc.Amphibious {
			return false
		}
		return true
	}
	return e.spiralAdjust(to, maxRingCells, check)
}

// spiralAdjust is the shared 8-connected outward-ring search behind every
// adjust variant: it tests center first, then each successive ring, and
// returns the first candidate check accepts.
func (e *Engine) spiralAdjust(center geom.Coord, maxRingCells int32, check func(geom.Coord) bool) (geom.Coord, bool) {
	if check(center) {
		return center, true
	}
	for ring := int32(1); ring <= maxRingCells; ring++ {
		for dy := -ring; dy <= ring; dy++ {
			for dx := -ring; dx <= ring; dx++ {
				if abs32(dx) != ring && abs32(dy) != ring {
					continue // interior of the ring already checked at a smaller radius
				}
				cand := geom.Coord{X: center.X + dx, Y: center.Y + dy}
				if check(cand) {
					return cand, true
				}
			}
		}
	}
	return center, false
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// destinationOK implements the shared admission rule behind AdjustDestination
// and AdjustToPossibleDestination: the cell must be passable for loc (with
// ally-occupied cells additionally allowed when allowAllyClear is set), not
// already claimed as some other unit's goal, and in the same zone as at
// least one of self's own tracked cells — requirement (b) of the
// adjustDestination contract, without which a unit could be handed a
// "reachable" goal that its own locomotor can never actually walk to.
func (e *Engine) destinationOK(ctx context.Context, c geom.Coord, loc locomotor.Set, self cellgrid.UnitID, allowAllyClear bool) bool {
	cell, ok := e.grid.At(c)
	if !ok {
		return false
	}
	passOK, _ := locomotor.Passable(cell, loc, locomotor.StepOptions{Self: self, AllowAllyClear: allowAllyClear})
	if !passOK {
		return false
	}
	if cell.Occupancy.IsGoalOfOther(self) {
		return false
	}
	return e.sameZoneAsUnit(ctx, c, loc, self)
}

// sameZoneAsUnit reports whether c is reachable, per the zone manager, from
// self's last known position. A unit with no tracked position has nothing
// to compare against, so the check is vacuously satisfied rather than
// rejecting every candidate.
func (e *Engine) sameZoneAsUnit(ctx context.Context, c geom.Coord, loc locomotor.Set, self cellgrid.UnitID) bool {
	st, ok := e.units[self]
	if !ok || !st.hasPos {
		return true
	}
	reachable, err := e.zones.QuickDoesPathExist(ctx, zonemgr.ForLocomotor(loc), st.pos, c)
	if err != nil {
		return false
	}
	return reachable
}

// passer adapts the engine's grid+layer store into the navpath.Passer
// interface used by line-of-sight and path optimization.
func (e *Engine) passer() navpath.Passer { return enginePasser{e} }

type enginePasser struct{ e *Engine }

func (p enginePasser) CellPassable(c geom.Coord, loc locomotor.Set) bool {
	cell, ok := p.e.grid.At(c)
	if !ok {
		return false
	}
	ok2, _ := locomotor.Passable(cell, loc, locomotor.StepOptions{})
	return ok2
}

func (e *Engine) optionsFor(loc locomotor.Set, self cellgrid.UnitID, extra SearchOptions) astar.Options {
	return astar.Options{
		Loc:            loc,
		Self:           self,
		AllowAllyClear: extra.AllowAllyClear,
		IgnoreObstacle: extra.IgnoreObstacle,
		AllowPinched:   extra.AllowPinched,
		CostMultiplier: extra.CostMultiplier,
		MaxExpansions:  e.cfg.MaxExpansions,
	}
}

// PoolInUse and QueueLen expose live diagnostics for the HTTP introspection
// surface (10.5) without leaking internal package types.
func (e *Engine) PoolInUse() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.searcher.PoolInUse()
}

func (e *Engine) QueueLen() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.queue.Len()
}
