// Package geom implements the square-tile coordinate system the navigation
// core is built on: world-space to cell-index conversion, 8-connected
// neighbor enumeration, and the octile distance heuristic used by the A*
// searcher.
//
// The teacher's hex grid (services/hex_coords.go) used axial coordinates
// with six neighbor directions; this module answers the same class of
// question (where are my neighbors, how far is that cell) for a rectangular
// pitch grid with eight neighbor directions instead.
package geom

import "math"

// Coord is an integer cell index into the grid. It is a pure index, not a
// world-space position: (0,0) is always the grid's southwest corner cell.
type Coord struct {
	X, Y int32
}

func (c Coord) Add(d Coord) Coord { return Coord{c.X + d.X, c.Y + d.Y} }
func (c Coord) Equal(o Coord) bool { return c.X == o.X && c.Y == o.Y }

// Direction enumerates the eight directions a step can move in, ordered the
// way the original pathfinder orders neighbor examination: cardinals first,
// then diagonals, matching examineNeighboringCells in the retrieved source.
type Direction int

const (
	DirNorth Direction = iota
	DirSouth
	DirEast
	DirWest
	DirNorthEast
	DirNorthWest
	DirSouthEast
	DirSouthWest
	numDirections
)

var directionOffsets = [numDirections]Coord{
	DirNorth:     {0, 1},
	DirSouth:     {0, -1},
	DirEast:      {1, 0},
	DirWest:      {-1, 0},
	DirNorthEast: {1, 1},
	DirNorthWest: {-1, 1},
	DirSouthEast: {1, -1},
	DirSouthWest: {-1, -1},
}

// IsDiagonal reports whether the direction is one of the four diagonal
// moves, which cost pitch*sqrt(2) instead of pitch and are subject to the
// anti-corner-cutting rule.
func (d Direction) IsDiagonal() bool {
	return d == DirNorthEast || d == DirNorthWest || d == DirSouthEast || d == DirSouthWest
}

func (c Coord) Neighbor(d Direction) Coord {
	return c.Add(directionOffsets[d])
}

// AllDirections returns every direction in canonical examination order.
func AllDirections() []Direction {
	out := make([]Direction, numDirections)
	for i := range out {
		out[i] = Direction(i)
	}
	return out
}

// CornerPair returns the two orthogonal neighbor directions that flank a
// diagonal move, used by the searcher to forbid cutting a corner when both
// flanking cells are blocked.
func (d Direction) CornerPair() (Direction, Direction) {
	switch d {
	case DirNorthEast:
		return DirNorth, DirEast
	case DirNorthWest:
		return DirNorth, DirWest
	case DirSouthEast:
		return DirSouth, DirEast
	case DirSouthWest:
		return DirSouth, DirWest
	default:
		return d, d
	}
}

// Pos is a world-space position, in the same units as Pitch.
type Pos struct {
	X, Y, Z float64
}

// OctileDistance computes the admissible A* heuristic between two coords at
// the given grid pitch: a straight diagonal run for the shorter axis plus a
// straight cardinal run for the remainder, so that a perfectly straight path
// costs exactly the sum of its per-step edge costs.
func OctileDistance(a, b Coord, pitch float64) float64 {
	dx := math.Abs(float64(a.X - b.X))
	dy := math.Abs(float64(a.Y - b.Y))
	lo, hi := dx, dy
	if lo > hi {
		lo, hi = hi, lo
	}
	const sqrt2 = 1.4142135623730951
	return pitch * (lo*sqrt2 + (hi - lo))
}

// WorldToCell converts a world position to a cell coordinate, clipping to
// [0, width) x [0, height) and reporting whether clipping occurred (the
// "overflow bit" of the original worldToCell).
func WorldToCell(p Pos, pitch float64, width, height int32) (c Coord, clipped bool) {
	x := int32(math.Floor(p.X / pitch))
	y := int32(math.Floor(p.Y / pitch))
	cx, cy := x, y
	if cx < 0 {
		cx = 0
		clipped = true
	} else if cx >= width {
		cx = width - 1
		clipped = true
	}
	if cy < 0 {
		cy = 0
		clipped = true
	} else if cy >= height {
		cy = height - 1
		clipped = true
	}
	return Coord{cx, cy}, clipped
}

// CellCenter returns the world-space center of a cell.
func CellCenter(c Coord, pitch float64) Pos {
	return Pos{
		X: (float64(c.X) + 0.5) * pitch,
		Y: (float64(c.Y) + 0.5) * pitch,
	}
}

// SquareFootprint returns every cell offset within a diameter-sized square
// centered on the origin cell. The original's clearCellForDiameter enlarges
// the inspected region as a square, not a disc or circle; this is load
// bearing for how large vehicles squeeze through gaps, so it is preserved
// exactly rather than "improved" into a circular footprint.
func SquareFootprint(diameterCells int32) []Coord {
	if diameterCells < 1 {
		diameterCells = 1
	}
	half := diameterCells / 2
	var out []Coord
	for dy := -half; dy <= diameterCells-half-1; dy++ {
		for dx := -half; dx <= diameterCells-half-1; dx++ {
			out = append(out, Coord{dx, dy})
		}
	}
	return out
}

// EuclideanDistance is used for repulsor radii and weapon-range checks,
// which operate on world-space positions rather than cell-grid steps.
func EuclideanDistance(a, b Pos) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}
