package strqueue

// Sort sorts the elements in ascending byte-wise order.
//
// It is a stable top-down merge sort over the nodes themselves. Only links are
// rewritten; no storage is reserved or released, and the recursion depth is
// logarithmic in the queue size.
func (q *Queue) Sort() {
	if !q.live() {
		return
	}
	q.chain.sort()
}

func (a *chain) sort() {
	if a.head == nil || a.head.next == nil {
		return
	}

	var b chain
	a.divide(&b)
	a.sort()
	b.sort()
	a.merge(&b)
}

// divide moves the back part of a into b.
//
// b is credited with a.size/2 elements and the cut is made after walking
// a.size/2-1 links from a.head, so a keeps its first a.size/2 nodes, at least
// one. For odd sizes the credited counts of the halves differ from their node
// counts; merge sums them back to the exact total.
func (a *chain) divide(b *chain) {
	b.size = a.size / 2
	b.tail = a.tail

	cut := a.head
	for i := b.size; i > 1; i-- {
		cut = cut.next
	}

	b.head = cut.next
	cut.next = nil
	a.tail = &cut.next
	a.size -= b.size
}

// merge merges the sorted chain b into the sorted chain a.
// On equal values the element already in a stays first.
func (a *chain) merge(b *chain) {
	origTail := a.tail

	for a.tail = &a.head; *a.tail != nil && b.head != nil; a.tail = &(*a.tail).next {
		if b.head.value < (*a.tail).value {
			n := b.head
			b.head = n.next

			n.next = *a.tail
			*a.tail = n
		}
	}

	if b.head != nil {
		*a.tail = b.head
		a.tail = b.tail
	} else {
		a.tail = origTail
	}
	a.size += b.size
}
