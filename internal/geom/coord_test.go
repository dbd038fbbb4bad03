package geom

import "testing"

func TestNeighborAndAdd(t *testing.T) {
	c := Coord{X: 5, Y: 5}
	if got := c.Neighbor(DirNorth); !got.Equal(Coord{5, 6}) {
		t.Fatalf("DirNorth neighbor = %v", got)
	}
	if got := c.Neighbor(DirSouthWest); !got.Equal(Coord{4, 4}) {
		t.Fatalf("DirSouthWest neighbor = %v", got)
	}
}

func TestIsDiagonal(t *testing.T) {
	for _, d := range []Direction{DirNorth, DirSouth, DirEast, DirWest} {
		if d.IsDiagonal() {
			t.Errorf("%v reported diagonal", d)
		}
	}
	for _, d := range []Direction{DirNorthEast, DirNorthWest, DirSouthEast, DirSouthWest} {
		if !d.IsDiagonal() {
			t.Errorf("%v not reported diagonal", d)
		}
	}
}

func TestCornerPair(t *testing.T) {
	a, b := DirNorthEast.CornerPair()
	if a != DirNorth || b != DirEast {
		t.Fatalf("CornerPair(NE) = %v, %v", a, b)
	}
}

func TestOctileDistance(t *testing.T) {
	cases := []struct {
		a, b Coord
		want float64
	}{
		{Coord{0, 0}, Coord{4, 0}, 4},
		{Coord{0, 0}, Coord{3, 3}, 3 * 1.4142135623730951},
		{Coord{0, 0}, Coord{5, 2}, 2*1.4142135623730951 + 3},
	}
	for _, c := range cases {
		got := OctileDistance(c.a, c.b, 1.0)
		if diff := got - c.want; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("OctileDistance(%v,%v) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}

func TestWorldToCellClipping(t *testing.T) {
	c, clipped := WorldToCell(Pos{X: -5, Y: 3}, 1.0, 10, 10)
	if !clipped || c.X != 0 {
		t.Fatalf("expected clip to x=0, got %v clipped=%v", c, clipped)
	}
	c, clipped = WorldToCell(Pos{X: 3.5, Y: 3.5}, 1.0, 10, 10)
	if clipped || !c.Equal(Coord{3, 3}) {
		t.Fatalf("expected (3,3) unclipped, got %v clipped=%v", c, clipped)
	}
}

func TestSquareFootprintCentered(t *testing.T) {
	fp := SquareFootprint(3)
	if len(fp) != 9 {
		t.Fatalf("expected 9 cells for diameter 3, got %d", len(fp))
	}
	found := false
	for _, off := range fp {
		if off == (Coord{0, 0}) {
			found = true
		}
	}
	if !found {
		t.Fatalf("origin offset missing from footprint: %v", fp)
	}
}

func TestSquareFootprintMinimum(t *testing.T) {
	fp := SquareFootprint(0)
	if len(fp) != 1 {
		t.Fatalf("diameter<1 should clamp to a single cell, got %d", len(fp))
	}
}
