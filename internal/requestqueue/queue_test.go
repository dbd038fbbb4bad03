package requestqueue

import "testing"

func TestEnqueueRespectsCapacity(t *testing.T) {
	q := New(2)
	if err := q.Enqueue(Request{Unit: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := q.Enqueue(Request{Unit: 2}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := q.Enqueue(Request{Unit: 3}); err == nil {
		t.Fatal("expected an error enqueueing past capacity")
	}
	if !q.Full() {
		t.Fatal("expected queue to report full")
	}
}

func TestDrainFIFOOrderAndBudget(t *testing.T) {
	q := New(10)
	for i := uint32(1); i <= 3; i++ {
		if err := q.Enqueue(Request{Unit: i, Ticket: uint64(i)}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	cost := func(Request) int { return 5 }
	out := q.Drain(12, cost)
	if len(out) != 2 {
		t.Fatalf("expected 2 requests drained within budget 12 at cost 5 each, got %d", len(out))
	}
	if out[0].Ticket != 1 || out[1].Ticket != 2 {
		t.Fatalf("expected FIFO order tickets [1,2], got %v", out)
	}
	if q.Len() != 1 {
		t.Fatalf("expected 1 request left in queue, got %d", q.Len())
	}
}

func TestDrainAlwaysServesAtLeastOne(t *testing.T) {
	q := New(10)
	if err := q.Enqueue(Request{Unit: 1, Ticket: 99}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cost := func(Request) int { return 1000 }
	out := q.Drain(1, cost)
	if len(out) != 1 || out[0].Ticket != 99 {
		t.Fatalf("expected the single over-budget request to still be served, got %v", out)
	}
}

func TestDrainEmptyQueue(t *testing.T) {
	q := New(4)
	out := q.Drain(100, func(Request) int { return 1 })
	if out != nil {
		t.Fatalf("expected nil for an empty queue, got %v", out)
	}
}

func TestRemoveUnit(t *testing.T) {
	q := New(10)
	for i := uint32(1); i <= 4; i++ {
		unit := i % 2
		if err := q.Enqueue(Request{Unit: unit, Ticket: uint64(i)}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	removed := q.RemoveUnit(0)
	if removed != 2 {
		t.Fatalf("expected 2 removed for unit 0, got %d", removed)
	}
	if q.Len() != 2 {
		t.Fatalf("expected 2 remaining, got %d", q.Len())
	}
	for {
		r, ok := q.Peek()
		if !ok {
			break
		}
		if r.Unit == 0 {
			t.Fatalf("unit 0 requests should have been fully removed, found %v", r)
		}
		q.Drain(1000, func(Request) int { return 0 })
	}
}

func TestPeekDoesNotRemove(t *testing.T) {
	q := New(4)
	q.Enqueue(Request{Unit: 1, Ticket: 1})
	r, ok := q.Peek()
	if !ok || r.Ticket != 1 {
		t.Fatalf("expected to peek the first request, got %v ok=%v", r, ok)
	}
	if q.Len() != 1 {
		t.Fatal("Peek must not remove the request")
	}
}
