package searchinfo

import (
	"testing"

	"github.com/fieldforge/navcore/internal/geom"
)

func TestAllocateAndGet(t *testing.T) {
	p := NewPool(4)
	h, err := p.Allocate(geom.Coord{X: 1, Y: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	info := p.Get(h)
	if !info.Coord.Equal(geom.Coord{X: 1, Y: 2}) {
		t.Fatalf("unexpected coord on fresh record: %v", info.Coord)
	}
	if info.Predecessor != -1 || info.OpenNext != -1 || info.OpenPrev != -1 {
		t.Fatalf("fresh record should have all links at -1, got %+v", info)
	}
}

func TestPoolExhaustion(t *testing.T) {
	p := NewPool(2)
	if _, err := p.Allocate(geom.Coord{}); err != nil {
		t.Fatalf("unexpected error on first allocate: %v", err)
	}
	if _, err := p.Allocate(geom.Coord{}); err != nil {
		t.Fatalf("unexpected error on second allocate: %v", err)
	}
	if _, err := p.Allocate(geom.Coord{}); err == nil {
		t.Fatal("expected an error once capacity is exhausted")
	}
}

func TestReleaseReusesHandle(t *testing.T) {
	p := NewPool(1)
	h, err := p.Allocate(geom.Coord{X: 5, Y: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p.Release(h)
	if p.InUse() != 0 {
		t.Fatalf("expected 0 in use after release, got %d", p.InUse())
	}
	h2, err := p.Allocate(geom.Coord{X: 9, Y: 9})
	if err != nil {
		t.Fatalf("unexpected error reallocating after release: %v", err)
	}
	if h2 != h {
		t.Fatalf("expected the released handle to be reused, got %d want %d", h2, h)
	}
}

func TestReleaseAllBulkFree(t *testing.T) {
	p := NewPool(8)
	var handles []Handle
	for i := 0; i < 5; i++ {
		h, err := p.Allocate(geom.Coord{X: int32(i)})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		handles = append(handles, h)
	}
	p.ReleaseAll(handles)
	if p.InUse() != 0 {
		t.Fatalf("expected 0 in use after ReleaseAll, got %d", p.InUse())
	}
}
