// Package zonemgr implements the two-tier zone system: fine zones (maximal
// connected regions of equi-category cells) and block zones (fixed-size
// blocks whose cross-block adjacency is tracked as an explicit graph).
// quickDoesPathExist is answered from the per-capability effective-zone
// table, in time independent of search cost.
//
// Grounded on the teacher's dijkstraMovement (services/rules_engine.go),
// which floods outward from a unit accumulating reachable hexes under a
// cost function — the same flood-fill shape, generalized here from "reach
// within movement budget" to "reach at all under a locomotion capability",
// and cached instead of recomputed per query.
package zonemgr

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/katalvlaran/lvlath/core"
	"golang.org/x/sync/errgroup"

	"github.com/fieldforge/navcore/internal/cellgrid"
	"github.com/fieldforge/navcore/internal/geom"
	"github.com/fieldforge/navcore/internal/layers"
	"github.com/fieldforge/navcore/internal/locomotor"
)

// Capability is one of the small set of meta-locomotion capabilities the
// block equivalency tables are computed for, per 4.3: ground-and-cliff,
// ground-and-water (amphibious), ground-and-rubble, crusher, and pure
// terrain (identity/ground-only).
type Capability uint8

const (
	CapGround Capability = iota
	CapGroundAndCliff
	CapAmphibious
	CapGroundAndRubble
	CapCrusher
	numCapabilities
)

// ForLocomotor maps a unit's locomotor set to the nearest meta-capability
// the zone manager precomputes, so quickDoesPathExist can use the cached
// effective-zone table instead of a bespoke flood fill per unit.
func ForLocomotor(loc locomotor.Set) Capability {
	switch {
	case loc.Crusher:
		return CapCrusher
	case loc.Amphibious:
		return CapAmphibious
	case loc.Surfaces&locomotor.SurfaceCliff != 0:
		return CapGroundAndCliff
	case loc.Surfaces&locomotor.SurfaceRubble != 0:
		return CapGroundAndRubble
	default:
		return CapGround
	}
}

func (c Capability) accepts(t cellgrid.TerrainCategory, fence bool) bool {
	switch c {
	case CapGround:
		return t == cellgrid.TerrainClear
	case CapGroundAndCliff:
		return t == cellgrid.TerrainClear || t == cellgrid.TerrainCliff
	case CapAmphibious:
		return t == cellgrid.TerrainClear || t == cellgrid.TerrainWater || t == cellgrid.TerrainRubble
	case CapGroundAndRubble:
		return t == cellgrid.TerrainClear || t == cellgrid.TerrainRubble
	case CapCrusher:
		return t == cellgrid.TerrainClear || t == cellgrid.TerrainRubble || (t == cellgrid.TerrainObstacle && fence)
	default:
		return false
	}
}

const maxZoneIndex = 1<<14 - 1

// block is the hierarchical tier's atom: a fixed-size square of cells. It
// caches, per capability, the set of distinct effective zone ids its cells
// belong to, which is all the block-adjacency graph construction needs.
type block struct {
	bx, by         int32
	effectiveZones [numCapabilities]map[int32]bool
}

func blockKey(bx, by int32) string { return fmt.Sprintf("%d:%d", bx, by) }

// Manager computes and caches zone connectivity. It is attached to a grid
// and layer store as a cellgrid.DirtyNotifier; mutations anywhere in the
// grid or layer store set a single coalesced dirty flag (section 9), paid
// once by the first query after any run of mutations.
type Manager struct {
	grid       *cellgrid.Grid
	layerStore *layers.Store
	blockSize  int32

	dirty bool

	fineZone []int32 // raw terrain-equivalence partition, one per cell

	effectiveZone [numCapabilities][]int32 // one per cell, per capability

	blocks map[string]*block

	blockGraph [numCapabilities]*core.Graph

	// reachCache is emptied wholesale on every recompute. QuickDoesPathExist
	// compares effective zones directly and neither reads nor fills it.
	reachCache *expirable.LRU[string, bool]
}

// New constructs a zone manager over grid/layerStore with the given block
// size (a small power of two in cells on a side, per the data model).
func New(grid *cellgrid.Grid, layerStore *layers.Store, blockSize int32) *Manager {
	m := &Manager{
		grid:       grid,
		layerStore: layerStore,
		blockSize:  blockSize,
		dirty:      true,
		reachCache: expirable.NewLRU[string, bool](4096, nil, 5*time.Minute),
	}
	grid.SetDirtyNotifier(m)
	layerStore.SetDirtyNotifier(m)
	return m
}

// MarkZonesDirty implements cellgrid.DirtyNotifier. Coalesces: repeated
// calls between queries cost nothing beyond setting a bool.
func (m *Manager) MarkZonesDirty() {
	m.dirty = true
}

// needToCalculateZones is the lazy-recompute gate every query passes
// through first, per section 4.3's trigger name.
func (m *Manager) needToCalculateZones() bool { return m.dirty }

// EnsureFresh recomputes zones if the dirty flag is set, otherwise is a
// no-op. Every public query method calls this first.
func (m *Manager) EnsureFresh(ctx context.Context) error {
	if !m.needToCalculateZones() {
		return nil
	}
	return m.recompute(ctx)
}

// recompute implements the four-step flow of 4.3: flood-fill fine zones,
// compute per-block per-capability effective zones, propagate bridge
// layers, clear the dirty flag.
func (m *Manager) recompute(ctx context.Context) error {
	m.floodFillFineZones()

	for cap := Capability(0); cap < numCapabilities; cap++ {
		m.floodFillEffectiveZone(cap)
	}
	m.propagateBridgeLayers()

	if err := m.buildBlocks(ctx); err != nil {
		return fmt.Errorf("zonemgr: recompute: %w", err)
	}
	for cap := Capability(0); cap < numCapabilities; cap++ {
		m.buildBlockGraph(cap)
	}

	m.reachCache.Purge()
	m.dirty = false
	return nil
}

func (m *Manager) cellCount() int { return int(m.grid.Width) * int(m.grid.Height) }

func (m *Manager) idx(c geom.Coord) int { return int(c.Y)*int(m.grid.Width) + int(c.X) }

// floodFillFineZones partitions the grid by strict terrain-category
// equivalence and 4-connectivity, per 4.3's fine-zone definition: cells
// share a zone iff adjacent and of the same terrain category. This is the
// "identity mapping, no capability adjustment" tier.
func (m *Manager) floodFillFineZones() {
	n := m.cellCount()
	zones := make([]int32, n)
	for i := range zones {
		zones[i] = -1
	}
	next := int32(0)
	stack := make([]geom.Coord, 0, 256)
	for y := int32(0); y < m.grid.Height; y++ {
		for x := int32(0); x < m.grid.Width; x++ {
			start := geom.Coord{X: x, Y: y}
			if zones[m.idx(start)] != -1 {
				continue
			}
			cell, _ := m.grid.At(start)
			zones[m.idx(start)] = next
			stack = append(stack[:0], start)
			for len(stack) > 0 {
				c := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				for _, d := range []geom.Direction{geom.DirNorth, geom.DirSouth, geom.DirEast, geom.DirWest} {
					nc := c.Neighbor(d)
					if !m.grid.InBounds(nc) {
						continue
					}
					ni := m.idx(nc)
					if zones[ni] != -1 {
						continue
					}
					ncell, _ := m.grid.At(nc)
					if ncell.Terrain != cell.Terrain {
						continue
					}
					zones[ni] = next
					stack = append(stack, nc)
				}
			}
			next++
			if next > maxZoneIndex {
				next = maxZoneIndex // saturate; a map this fragmented is pathological but must not overflow the 14-bit field
			}
		}
	}
	m.fineZone = zones
	for y := int32(0); y < m.grid.Height; y++ {
		for x := int32(0); x < m.grid.Width; x++ {
			c := geom.Coord{X: x, Y: y}
			m.grid.Mutate(c, func(cell *cellgrid.Cell) {
				cell.Zone = cellgrid.ZoneIndex(zones[m.idx(c)])
			})
		}
	}
}

// floodFillEffectiveZone computes, for one capability, a global connectivity
// partition using that capability's terrain-acceptance predicate. This both
// answers "what counts as reachable under this capability" and doubles as
// the per-block effective-zone table once sampled block-by-block in
// buildBlocks: two cells of the same fine zone always share an effective
// zone (a fine zone is a subset of exactly one terrain category), so a
// block's local zone-to-effective-zone array is simply "which global
// effective zone id does this fine zone's terrain map to here".
func (m *Manager) floodFillEffectiveZone(cap Capability) {
	n := m.cellCount()
	zones := make([]int32, n)
	for i := range zones {
		zones[i] = -1
	}
	next := int32(0)
	stack := make([]geom.Coord, 0, 256)
	for y := int32(0); y < m.grid.Height; y++ {
		for x := int32(0); x < m.grid.Width; x++ {
			start := geom.Coord{X: x, Y: y}
			si := m.idx(start)
			if zones[si] != -1 {
				continue
			}
			cell, _ := m.grid.At(start)
			if !cap.accepts(cell.Terrain, cell.ObstacleFence) {
				continue
			}
			zones[si] = next
			stack = append(stack[:0], start)
			for len(stack) > 0 {
				c := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				for _, d := range []geom.Direction{geom.DirNorth, geom.DirSouth, geom.DirEast, geom.DirWest} {
					nc := c.Neighbor(d)
					if !m.grid.InBounds(nc) {
						continue
					}
					ni := m.idx(nc)
					if zones[ni] != -1 {
						continue
					}
					ncell, _ := m.grid.At(nc)
					if !cap.accepts(ncell.Terrain, ncell.ObstacleFence) {
						continue
					}
					zones[ni] = next
					stack = append(stack, nc)
				}
			}
			next++
		}
	}
	m.effectiveZone[cap] = zones
}

// propagateBridgeLayers implements step 3 of the recompute flow: for each
// usable bridge layer, the effective zones of the ground cells at its
// connect points are unioned into one, so the ground on either end counts
// as connected. The bridge's own cells are not part of the ground zone
// table. A destroyed bridge is skipped and contributes no links.
func (m *Manager) propagateBridgeLayers() {
	for _, l := range m.layerStore.All() {
		if l.Kind != layers.KindBridge || !l.Usable() {
			continue
		}
		if len(l.GroundConnect) == 0 {
			continue
		}
		anchor := l.GroundConnect[0]
		if !m.grid.InBounds(anchor) {
			continue
		}
		anchorIdx := m.idx(anchor)
		for cap := Capability(0); cap < numCapabilities; cap++ {
			anchorZone := m.effectiveZone[cap][anchorIdx]
			if anchorZone == -1 {
				continue
			}
			for _, gc := range l.GroundConnect {
				if m.grid.InBounds(gc) {
					m.unionEffectiveZone(cap, m.idx(gc), anchorZone)
				}
			}
		}
	}
}

// unionEffectiveZone relabels every cell currently carrying oldZone's peer
// (the zone id found at index i) to targetZone, a small closed-form union
// used only for the handful of bridge connect cells.
func (m *Manager) unionEffectiveZone(cap Capability, i int, targetZone int32) {
	z := m.effectiveZone[cap]
	source := z[i]
	if source == -1 || source == targetZone {
		z[i] = targetZone
		return
	}
	for j := range z {
		if z[j] == source {
			z[j] = targetZone
		}
	}
}

// buildBlocks partitions the grid into blockSize x blockSize blocks and
// records, per block per capability, the set of distinct effective zones
// present — fanned out across an errgroup-bounded worker pool per 5.1,
// since each block's summary is independent of every other block's once
// fine/effective zones are already computed.
func (m *Manager) buildBlocks(ctx context.Context) error {
	bw := (m.grid.Width + m.blockSize - 1) / m.blockSize
	bh := (m.grid.Height + m.blockSize - 1) / m.blockSize

	type job struct{ bx, by int32 }
	jobs := make([]job, 0, int(bw)*int(bh))
	for by := int32(0); by < bh; by++ {
		for bx := int32(0); bx < bw; bx++ {
			jobs = append(jobs, job{bx, by})
		}
	}

	blocks := make(map[string]*block, len(jobs))
	var results = make([]*block, len(jobs))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, j := range jobs {
		i, j := i, j
		g.Go(func() error {
			results[i] = m.summarizeBlock(j.bx, j.by)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for _, b := range results {
		blocks[blockKey(b.bx, b.by)] = b
	}
	m.blocks = blocks
	return nil
}

func (m *Manager) summarizeBlock(bx, by int32) *block {
	b := &block{bx: bx, by: by}
	for cap := Capability(0); cap < numCapabilities; cap++ {
		b.effectiveZones[cap] = make(map[int32]bool)
	}
	x0, y0 := bx*m.blockSize, by*m.blockSize
	x1, y1 := x0+m.blockSize, y0+m.blockSize
	if x1 > m.grid.Width {
		x1 = m.grid.Width
	}
	if y1 > m.grid.Height {
		y1 = m.grid.Height
	}
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			i := m.idx(geom.Coord{X: x, Y: y})
			for cap := Capability(0); cap < numCapabilities; cap++ {
				z := m.effectiveZone[cap][i]
				if z != -1 {
					b.effectiveZones[cap][z] = true
				}
			}
		}
	}
	return b
}

// buildBlockGraph constructs the block-adjacency graph for one capability:
// vertices are blocks, edges connect blocks that share at least one live
// effective zone. Only blockConnected reads the graph; no coarse
// block-level A* runs over it, and path searches work on the cell grid
// alone.
func (m *Manager) buildBlockGraph(cap Capability) {
	g := core.NewGraph(core.WithWeighted(), core.WithDirected(false))
	for _, b := range m.blocks {
		_ = g.AddVertex(blockKey(b.bx, b.by))
	}
	for _, b := range m.blocks {
		for _, nb := range []struct{ dx, dy int32 }{{1, 0}, {0, 1}} {
			other, ok := m.blocks[blockKey(b.bx+nb.dx, b.by+nb.dy)]
			if !ok {
				continue
			}
			if blocksShareZone(b.effectiveZones[cap], other.effectiveZones[cap]) {
				_, _ = g.AddEdge(blockKey(b.bx, b.by), blockKey(other.bx, other.by), 1.0)
			}
		}
	}
	m.blockGraph[cap] = g
}

func blocksShareZone(a, b map[int32]bool) bool {
	for z := range a {
		if b[z] {
			return true
		}
	}
	return false
}

// QuickDoesPathExist answers, in amortized O(1), whether any path could
// exist between from and to under capability cap — the primary admission
// control for expensive searches (4.3).
func (m *Manager) QuickDoesPathExist(ctx context.Context, cap Capability, from, to geom.Coord) (bool, error) {
	if err := m.EnsureFresh(ctx); err != nil {
		return false, err
	}
	if !m.grid.InBounds(from) || !m.grid.InBounds(to) {
		return false, nil
	}
	fz := m.effectiveZone[cap][m.idx(from)]
	tz := m.effectiveZone[cap][m.idx(to)]
	if fz == -1 || tz == -1 {
		return false, nil
	}
	// Bridge links are already folded into the effective-zone table by
	// propagateBridgeLayers, so cells in different zones are not connected.
	return fz == tz, nil
}

// blockConnected performs a BFS over the block-adjacency graph and reports
// whether the blocks holding from and to are linked by a chain of blocks
// that share an effective zone. QuickDoesPathExist does not call it: two
// blocks can be linked while the two cells lie in different effective
// zones.
func (m *Manager) blockConnected(cap Capability, from, to geom.Coord) bool {
	g := m.blockGraph[cap]
	if g == nil {
		return false
	}
	start := blockKey(from.X/m.blockSize, from.Y/m.blockSize)
	goal := blockKey(to.X/m.blockSize, to.Y/m.blockSize)
	if start == goal {
		return true
	}
	visited := map[string]bool{start: true}
	queue := []string{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == goal {
			return true
		}
		neighbors, err := g.NeighborIDs(cur)
		if err != nil {
			continue
		}
		for _, n := range neighbors {
			if !visited[n] {
				visited[n] = true
				queue = append(queue, n)
			}
		}
	}
	return false
}

// BlockSize returns the configured block dimension.
func (m *Manager) BlockSize() int32 { return m.blockSize }

// BlockOf returns the block key containing coordinate c.
func (m *Manager) BlockOf(c geom.Coord) string {
	return blockKey(c.X/m.blockSize, c.Y/m.blockSize)
}
