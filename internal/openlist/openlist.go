// Package openlist implements the A* open list as an intrusively-linked,
// cost-sorted sequence of search-info records, per the data model: "the
// open list is an intrusively-linked, cost-sorted sequence of cell
// search-infos; insertion is by ascending total-estimated-cost with
// tie-break on cost-so-far." The design notes explicitly permit substituting
// a 4-way heap so long as the tie-break is preserved and re-keying is
// supported; this implementation keeps the original's linked-list shape
// since the teacher corpus has no existing heap to ground a swap on, and the
// shape makes "unlink and re-insert on better cost" a direct, easily-audited
// operation.
package openlist

import "github.com/fieldforge/navcore/internal/searchinfo"

// List is a singly-rooted, doubly-linked intrusive list over a
// searchinfo.Pool. It owns no records itself; it only links/unlinks handles
// already allocated in the pool.
type List struct {
	pool *searchinfo.Pool
	head searchinfo.Handle
	size int
}

// New returns an empty open list over pool.
func New(pool *searchinfo.Pool) *List {
	return &List{pool: pool, head: -1}
}

// Reset clears the list without touching the pool (closed-list release is
// the pool's job, via Pool.ReleaseAll), matching section 5's "open and
// closed lists are pre-allocated and reset between searches."
func (l *List) Reset() {
	l.head = -1
	l.size = 0
}

func (l *List) Len() int { return l.size }

func less(a, b *searchinfo.Info) bool {
	if a.F != b.F {
		return a.F < b.F
	}
	return a.G < b.G
}

// Insert adds h to the list at its sorted position by (F, G) ascending.
func (l *List) Insert(h searchinfo.Handle) {
	info := l.pool.Get(h)
	info.Flags |= searchinfo.FlagOnOpen

	if l.head == -1 {
		info.OpenNext, info.OpenPrev = -1, -1
		l.head = h
		l.size++
		return
	}

	cur := l.head
	var prev searchinfo.Handle = -1
	for cur != -1 {
		curInfo := l.pool.Get(cur)
		if less(info, curInfo) {
			break
		}
		prev = cur
		cur = curInfo.OpenNext
	}

	info.OpenPrev = prev
	info.OpenNext = cur
	if prev == -1 {
		l.head = h
	} else {
		l.pool.Get(prev).OpenNext = h
	}
	if cur != -1 {
		l.pool.Get(cur).OpenPrev = h
	}
	l.size++
}

// Remove unlinks h from the list without releasing it to the pool.
func (l *List) Remove(h searchinfo.Handle) {
	info := l.pool.Get(h)
	info.Flags &^= searchinfo.FlagOnOpen
	if info.OpenPrev != -1 {
		l.pool.Get(info.OpenPrev).OpenNext = info.OpenNext
	} else {
		l.head = info.OpenNext
	}
	if info.OpenNext != -1 {
		l.pool.Get(info.OpenNext).OpenPrev = info.OpenPrev
	}
	info.OpenNext, info.OpenPrev = -1, -1
	l.size--
}

// Reinsert implements "when re-encountering a cell already on the open list
// with a better cost-so-far, the existing entry is unlinked and
// re-inserted — not duplicated" (4.4 tie-breaking).
func (l *List) Reinsert(h searchinfo.Handle) {
	l.Remove(h)
	l.Insert(h)
}

// PopLowest removes and returns the lowest-(F,G) handle, or -1 if empty.
func (l *List) PopLowest() searchinfo.Handle {
	if l.head == -1 {
		return -1
	}
	h := l.head
	l.Remove(h)
	return h
}

// Peek returns the lowest-(F,G) handle without removing it.
func (l *List) Peek() searchinfo.Handle { return l.head }

// Contains reports whether h is currently linked into this list.
func (l *List) Contains(h searchinfo.Handle) bool {
	return l.pool.Get(h).Flags&searchinfo.FlagOnOpen != 0
}
