// Package layers implements the layer store: bridges and walls as rectangular
// overlay grids distinct from the base grid, cross-linked to it through a
// small table of connect cells, per the design notes' explicit guidance to
// resist folding bridges into base-grid cell properties.
//
// Grounded on the teacher's lib/world.go Crossing methods (CrossingAt,
// HasBridge, SetCrossingType), which model a bridge as a board annotation
// rather than a tile property — the same shape of idea, generalized here
// into an owned sub-grid with its own cell storage instead of a tag on the
// base tile.
package layers

import (
	"fmt"

	"github.com/fieldforge/navcore/internal/cellgrid"
	"github.com/fieldforge/navcore/internal/geom"
)

// ID identifies a layer. ID zero is reserved for cellgrid.LayerGround and is
// never issued to a real layer.
type ID = cellgrid.LayerTag

// Kind distinguishes a bridge overlay from a wall overlay; both share the
// same Layer representation but differ in how their connect cells and
// destroyed-state semantics are interpreted.
type Kind uint8

const (
	KindBridge Kind = iota
	KindWall
)

// BridgeState is the externally-driven health state machine of a bridge.
// Only Rubble makes the layer impassable; Pristine/Damaged/ReallyDamaged are
// all "usable" from the navigation core's point of view — the health module
// owns the damaged/really-damaged distinction for rendering/gameplay, the
// core only cares about the usable/rubble boundary, per changeBridgeState's
// single boolean argument.
type BridgeState uint8

const (
	BridgeStatePristine BridgeState = iota
	BridgeStateDamaged
	BridgeStateReallyDamaged
	BridgeStateRubble
)

// Layer is one bridge or wall overlay: its own cell storage, plus the small
// cross-link table at its endpoints that lets the searcher step from ground
// onto the layer and back.
type Layer struct {
	ID   ID
	Kind Kind

	Grid *cellgrid.Grid // the layer's own sub-grid; never shares cells with the base grid

	// GroundConnect are the ground-grid coordinates of the two connect
	// cells (bridge) or the wall-entry cells (wall).
	GroundConnect []geom.Coord
	// LayerConnect are the corresponding coordinates within Grid.
	LayerConnect []geom.Coord

	SurfaceZ float64
	Destroyed bool

	BridgeState BridgeState // meaningful only when Kind == KindBridge
}

// Usable reports whether the layer currently carries traffic: a bridge is
// usable unless rubbled; a wall top is "usable" in the sense of being a
// valid transition target for wall-access locomotion, unless destroyed.
func (l *Layer) Usable() bool {
	return !l.Destroyed
}

// Store owns every layer for the map's lifetime, mirroring the data model's
// ownership section: "the cell grid and all layers are exclusively owned by
// the pathfinder singleton for the map's lifetime".
type Store struct {
	layers map[ID]*Layer
	nextID ID

	notify cellgrid.DirtyNotifier

	// onRubbled is invoked with the id of a layer that just transitioned to
	// rubble, after the layer's cells are marked impassable and the zones
	// are marked dirty; the facade
	// wires this to enumerate objects on the dead layer (section 4.2 step 3).
	onRubbled func(ID)
}

func NewStore() *Store {
	return &Store{layers: make(map[ID]*Layer), nextID: 1, notify: noopNotifier{}}
}

type noopNotifier struct{}

func (noopNotifier) MarkZonesDirty() {}

func (s *Store) SetDirtyNotifier(n cellgrid.DirtyNotifier) {
	if n == nil {
		n = noopNotifier{}
	}
	s.notify = n
}

// SetRubbleCallback wires the facade's per-object-on-layer enumeration.
func (s *Store) SetRubbleCallback(fn func(ID)) { s.onRubbled = fn }

// AddBridge instantiates a new bridge layer covering width x height cells at
// the given world pitch, with groundConnect/layerConnect as the two
// short-edge midpoint connect-cell pairs, and returns its assigned id —
// mirroring addBridge(bridge) -> layerId from the external-interfaces
// contract.
func (s *Store) AddBridge(width, height int32, pitch, surfaceZ float64, groundConnect, layerConnect []geom.Coord) ID {
	id := s.nextID
	s.nextID++
	l := &Layer{
		ID:            id,
		Kind:          KindBridge,
		Grid:          cellgrid.NewGrid(width, height, pitch),
		GroundConnect: groundConnect,
		LayerConnect:  layerConnect,
		SurfaceZ:      surfaceZ,
		BridgeState:   BridgeStatePristine,
	}
	for _, c := range layerConnect {
		l.Grid.Mutate(c, func(cell *cellgrid.Cell) { cell.ConnectLayer = cellgrid.LayerGround })
	}
	s.layers[id] = l
	s.notify.MarkZonesDirty()
	return id
}

// AddWall instantiates a wall-top layer, entryCells being the ground-side
// wall-piece footprint cells that grant access onto the wall top.
func (s *Store) AddWall(width, height int32, pitch, surfaceZ float64, entryCells, wallTopConnect []geom.Coord) ID {
	id := s.nextID
	s.nextID++
	l := &Layer{
		ID:            id,
		Kind:          KindWall,
		Grid:          cellgrid.NewGrid(width, height, pitch),
		GroundConnect: entryCells,
		LayerConnect:  wallTopConnect,
		SurfaceZ:      surfaceZ,
	}
	// Wall tops are impassable to normal ground traffic by default; only
	// wall-access locomotion may step onto them (checked by the caller at
	// the transition, not baked into the layer's own terrain).
	for y := int32(0); y < height; y++ {
		for x := int32(0); x < width; x++ {
			l.Grid.Classify(geom.Coord{X: x, Y: y}, cellgrid.TerrainImpassable)
		}
	}
	s.layers[id] = l
	s.notify.MarkZonesDirty()
	return id
}

// Get returns the layer with the given id.
func (s *Store) Get(id ID) (*Layer, bool) {
	l, ok := s.layers[id]
	return l, ok
}

// All returns every layer, in unspecified order; callers that need
// determinism (persistence) should sort by ID.
func (s *Store) All() []*Layer {
	out := make([]*Layer, 0, len(s.layers))
	for _, l := range s.layers {
		out = append(out, l)
	}
	return out
}

// ChangeBridgeState applies an externally-driven bridge health transition.
// When the new state is Rubble and the layer was previously usable, the
// layer's cells are marked impassable for ground units, zones are marked
// dirty, and the rubble callback fires — matching section 4.2's three-step
// contract. The pathfinder itself never inflicts damage; it only reacts.
func (s *Store) ChangeBridgeState(id ID, state BridgeState) error {
	l, ok := s.layers[id]
	if !ok {
		return fmt.Errorf("layers: unknown layer id %d", id)
	}
	if l.Kind != KindBridge {
		return fmt.Errorf("layers: layer %d is not a bridge", id)
	}
	wasUsable := l.Usable()
	l.BridgeState = state
	l.Destroyed = state == BridgeStateRubble
	if wasUsable && l.Destroyed {
		for y := int32(0); y < l.Grid.Height; y++ {
			for x := int32(0); x < l.Grid.Width; x++ {
				l.Grid.Classify(geom.Coord{X: x, Y: y}, cellgrid.TerrainImpassable)
			}
		}
		s.notify.MarkZonesDirty()
		if s.onRubbled != nil {
			s.onRubbled(id)
		}
	} else if !wasUsable && !l.Destroyed {
		// Repair: pristine/damaged/really-damaged all restore passability.
		for y := int32(0); y < l.Grid.Height; y++ {
			for x := int32(0); x < l.Grid.Width; x++ {
				l.Grid.Classify(geom.Coord{X: x, Y: y}, cellgrid.TerrainClear)
			}
		}
		s.notify.MarkZonesDirty()
	}
	return nil
}

// GetLayerForDestination returns the layer whose surface z is closest to
// pos.Z, or false (meaning ground) if no layer is within tolerance.
func (s *Store) GetLayerForDestination(pos geom.Pos, zTolerance float64) (ID, bool) {
	best := ID(0)
	bestDist := zTolerance
	found := false
	for id, l := range s.layers {
		d := pos.Z - l.SurfaceZ
		if d < 0 {
			d = -d
		}
		if d <= bestDist {
			bestDist = d
			best = id
			found = true
		}
	}
	return best, found
}

// GetHighestLayerForDestination picks the highest layer whose surface is at
// or below pos.Z + zTolerance, or reports false (ground) when no layer
// qualifies.
func (s *Store) GetHighestLayerForDestination(pos geom.Pos, zTolerance float64) (ID, bool) {
	best := ID(0)
	bestZ := -1e18
	found := false
	for id, l := range s.layers {
		if l.SurfaceZ <= pos.Z+zTolerance && l.SurfaceZ > bestZ {
			bestZ = l.SurfaceZ
			best = id
			found = true
		}
	}
	return best, found
}

// IsPointOnWall reports whether pos lies within z-tolerance of any wall
// layer's surface, and the wall height if so.
func (s *Store) IsPointOnWall(pos geom.Pos, zTolerance float64) (onWall bool, height float64) {
	for _, l := range s.layers {
		if l.Kind != KindWall {
			continue
		}
		d := pos.Z - l.SurfaceZ
		if d < 0 {
			d = -d
		}
		if d <= zTolerance {
			return true, l.SurfaceZ
		}
	}
	return false, 0
}
