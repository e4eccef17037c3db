// Package dlist implements the intrusive doubly-linked list the
// scheduler threads its ready queue, all-thread registry, and every
// lock/semaphore waiter set through. Sentinel head and tail nodes make
// every real element interior, so insert/remove never special-cases the
// ends of the list.
package dlist

// Node is one link in a List. The zero value is not usable standalone;
// nodes are created by the list's own Push/Insert methods. A Node knows
// which List it belongs to so Remove and Reorder can validate misuse.
type Node[T any] struct {
	prev, next *Node[T]
	owner      *List[T]
	Value      T
}

// Next returns the following node, or nil past the tail sentinel.
func (n *Node[T]) Next() *Node[T] {
	if n.next == nil || n.next.owner == nil {
		return nil
	}
	return n.next
}

// Prev returns the preceding node, or nil before the head sentinel.
func (n *Node[T]) Prev() *Node[T] {
	if n.prev == nil || n.prev.owner == nil {
		return nil
	}
	return n.prev
}

// List is a doubly-linked list with sentinel head/tail nodes. The zero
// value is not ready to use; call New.
type List[T any] struct {
	head, tail Node[T]
	size       int
}

// Less orders two elements for InsertOrdered/Min/Reorder: Less(a, b)
// reports whether a should sort before b.
type Less[T any] func(a, b T) bool

// New returns an empty, ready-to-use list.
func New[T any]() *List[T] {
	l := &List[T]{}
	l.head.next = &l.tail
	l.tail.prev = &l.head
	// Sentinels are never "owned" — Node.Next/Prev use this to stop
	// iteration instead of exposing them as ordinary elements.
	return l
}

// Empty reports whether the list has no real elements.
func (l *List[T]) Empty() bool { return l.size == 0 }

// Size returns the number of real elements.
func (l *List[T]) Size() int { return l.size }

// Front returns the first real element, or nil if the list is empty.
func (l *List[T]) Front() *Node[T] {
	if l.Empty() {
		return nil
	}
	return l.head.next
}

// Back returns the last real element, or nil if the list is empty.
func (l *List[T]) Back() *Node[T] {
	if l.Empty() {
		return nil
	}
	return l.tail.prev
}

// Begin returns the first real element for forward iteration with
// Node.Next, mirroring the original list's begin()..end() idiom.
func (l *List[T]) Begin() *Node[T] { return l.Front() }

func (l *List[T]) insertBefore(at *Node[T], v T) *Node[T] {
	n := &Node[T]{owner: l, Value: v}
	n.prev = at.prev
	n.next = at
	at.prev.next = n
	at.prev = n
	l.size++
	return n
}

// PushBack appends v and returns its node.
func (l *List[T]) PushBack(v T) *Node[T] {
	return l.insertBefore(&l.tail, v)
}

// PushFront prepends v and returns its node.
func (l *List[T]) PushFront(v T) *Node[T] {
	return l.insertBefore(l.head.next, v)
}

// InsertOrdered inserts v before the first element that does not sort
// before it, keeping the list sorted by less. Equal elements (neither
// sorts before the other) are placed after existing equals, so
// PushBack-then-InsertOrdered within a priority band preserves FIFO
// order — the round-robin-within-a-band guarantee in spec.md §5.
func (l *List[T]) InsertOrdered(v T, less Less[T]) *Node[T] {
	for n := l.head.next; n != &l.tail; n = n.next {
		if less(v, n.Value) {
			return l.insertBefore(n, v)
		}
	}
	return l.insertBefore(&l.tail, v)
}

// Remove detaches n from l in O(1). Removing a node that l does not own
// (one in another list, one not currently in a list, or a sentinel)
// panics — all are programmer-contract violations, not recoverable
// errors.
func (l *List[T]) Remove(n *Node[T]) {
	if n.owner != l {
		panic("dlist: Remove called with a node not owned by this list")
	}
	n.prev.next = n.next
	n.next.prev = n.prev
	n.prev, n.next, n.owner = nil, nil, nil
	l.size--
}

// PopFront removes and returns the first element's value.
func (l *List[T]) PopFront() (T, bool) {
	var zero T
	f := l.Front()
	if f == nil {
		return zero, false
	}
	v := f.Value
	l.Remove(f)
	return v, true
}

// Min scans the list under less and returns the node that no other
// element sorts before — i.e. the minimum under less. Used by the
// MLFQS ready queue to rebuild min_ready after the cache is invalidated
// (the O(n) fallback the cache exists to avoid on the hot path).
func (l *List[T]) Min(less Less[T]) *Node[T] {
	best := l.head.next
	if best == &l.tail {
		return nil
	}
	for n := best.next; n != &l.tail; n = n.next {
		if less(n.Value, best.Value) {
			best = n
		}
	}
	return best
}

// Reorder repositions n after its sort key has changed, without
// reconstructing the list. It detects which direction n needs to move by
// comparing with its immediate neighbors, then walks only as far as
// necessary. Defined only for interior elements; n must already belong
// to l. This is what lets donation update a thread's position in the
// ready list in place instead of remove+insert, per spec.md §4.C.
func (l *List[T]) Reorder(n *Node[T], less Less[T]) {
	if n.owner != l {
		panic("dlist: Reorder called with a node not owned by this list")
	}
	// Try moving earlier: while the predecessor is real and n now sorts
	// before it, walk n left.
	for n.prev != &l.head && less(n.Value, n.prev.Value) {
		l.unlink(n)
		l.relinkBefore(n, n.prev)
	}
	// Try moving later: while the successor is real and it sorts before
	// n, walk n right.
	for n.next != &l.tail && less(n.next.Value, n.Value) {
		succ := n.next
		l.unlink(n)
		l.relinkAfter(n, succ)
	}
}

// unlink detaches n without touching l.size (Reorder keeps size
// constant across a detach+reinsert pair).
func (l *List[T]) unlink(n *Node[T]) {
	n.prev.next = n.next
	n.next.prev = n.prev
}

func (l *List[T]) relinkBefore(n, at *Node[T]) {
	n.prev = at.prev
	n.next = at
	at.prev.next = n
	at.prev = n
}

func (l *List[T]) relinkAfter(n, at *Node[T]) {
	n.prev = at
	n.next = at.next
	at.next.prev = n
	at.next = n
}
