package strqueue

import (
	"bytes"
	"fmt"
	"iter"
	"strings"

	"github.com/arloliu/go-strqueue/logger"
)

// node is a queue element. value is a private copy of the inserted string.
type node struct {
	value string
	next  *node
}

// chain is a run of nodes with its element count and tail cursor.
//
// tail addresses the link slot that receives the next appended node: &head
// while the chain is empty, otherwise &last.next. *tail is always nil.
type chain struct {
	head *node
	tail **node
	size int
}

func (c *chain) reset() {
	c.head = nil
	c.tail = &c.head
	c.size = 0
}

// Queue is a singly linked queue of strings.
//
// Queues are created with New and released with Free. A Queue must not be
// copied, since its tail cursor may address its own head field.
type Queue struct {
	chain

	alloc  Allocator
	logger logger.Logger
}

// New creates an empty queue.
//
// It returns an error wrapping ErrAllocFailed if the allocator refuses the
// queue record, or the error of an invalid option.
func New(opts ...Option) (*Queue, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.alloc.Alloc(QueueRecordSize); err != nil {
		cfg.logger.Debug("queue allocation refused", "error", err)
		return nil, fmt.Errorf("new queue: %w", err)
	}

	q := &Queue{alloc: cfg.alloc, logger: cfg.logger}
	q.reset()

	return q, nil
}

// live reports whether q refers to a queue that has not been freed.
func (q *Queue) live() bool {
	return q != nil && q.alloc != nil
}

// Free releases every element and then the queue record.
// Afterwards q behaves like a nil queue. Free on a nil or freed queue does nothing.
func (q *Queue) Free() {
	if !q.live() {
		return
	}

	for q.head != nil {
		n := q.head
		q.head = n.next
		q.releaseNode(n)
	}
	q.reset()

	q.alloc.Release(QueueRecordSize)
	q.alloc = nil
}

// newNode reserves storage for a node holding s and returns it unlinked.
// It returns nil, with nothing left reserved, if the allocator refuses.
func (q *Queue) newNode(s string) *node {
	if err := q.alloc.Alloc(NodeRecordSize); err != nil {
		q.logger.Debug("node allocation refused", "error", err)
		return nil
	}
	if err := q.alloc.Alloc(len(s) + 1); err != nil {
		q.alloc.Release(NodeRecordSize)
		q.logger.Debug("value allocation refused", "size", len(s)+1, "error", err)
		return nil
	}

	return &node{value: strings.Clone(s)}
}

func (q *Queue) releaseNode(n *node) {
	n.next = nil
	q.alloc.Release(len(n.value) + 1)
	q.alloc.Release(NodeRecordSize)
}

// InsertHead inserts a copy of s at the head of the queue.
//
// It returns false if q is nil or the allocator refuses storage, in which case
// the queue is unchanged.
func (q *Queue) InsertHead(s string) bool {
	if !q.live() {
		return false
	}

	n := q.newNode(s)
	if n == nil {
		return false
	}

	n.next = q.head
	q.head = n
	q.size++
	if n.next == nil {
		q.tail = &n.next
	}

	return true
}

// InsertTail inserts a copy of s at the tail of the queue.
//
// It returns false if q is nil or the allocator refuses storage, in which case
// the queue is unchanged.
func (q *Queue) InsertTail(s string) bool {
	if !q.live() {
		return false
	}

	n := q.newNode(s)
	if n == nil {
		return false
	}

	*q.tail = n
	q.tail = &n.next
	q.size++

	return true
}

// RemoveHead removes the head element.
//
// If buf is not empty, the element is copied into it as a NUL-terminated
// string: at most len(buf)-1 bytes of the value followed by a 0 byte. Longer
// values are truncated. A nil buf discards the value.
//
// It returns false if q is nil or empty.
func (q *Queue) RemoveHead(buf []byte) bool {
	if !q.live() || q.head == nil {
		return false
	}

	rem := q.head
	if len(buf) > 0 {
		n := copy(buf[:len(buf)-1], rem.value)
		buf[n] = 0
	}

	q.head = rem.next
	q.size--
	if q.head == nil {
		q.tail = &q.head
	}
	q.releaseNode(rem)

	return true
}

// RemoveHeadString removes the head element and returns its value.
// ok is false if q is nil or empty.
func (q *Queue) RemoveHeadString() (value string, ok bool) {
	if !q.live() || q.head == nil {
		return "", false
	}
	value = q.head.value

	return value, q.RemoveHead(nil)
}

// Peek returns the head element without removing it.
// ok is false if q is nil or empty.
func (q *Queue) Peek() (value string, ok bool) {
	if !q.live() || q.head == nil {
		return "", false
	}

	return q.head.value, true
}

// Size returns the number of elements, or 0 for a nil queue.
func (q *Queue) Size() int {
	if q == nil {
		return 0
	}

	return q.size
}

// Reverse reverses the order of the elements in place.
//
// Only links are rewritten; no storage is reserved or released.
func (q *Queue) Reverse() {
	if !q.live() || q.head == nil || q.head.next == nil {
		return
	}

	// The old head becomes the last node.
	q.tail = &q.head.next

	var prev *node
	cur := q.head
	for cur != nil {
		next := cur.next
		cur.next = prev
		prev = cur
		cur = next
	}
	q.head = prev
}

// All returns an iterator over the elements from head to tail.
// The queue must not be modified during iteration.
func (q *Queue) All() iter.Seq[string] {
	return func(yield func(string) bool) {
		if !q.live() {
			return
		}
		for n := q.head; n != nil; n = n.next {
			if !yield(n.value) {
				return
			}
		}
	}
}

// Values returns the elements from head to tail.
func (q *Queue) Values() []string {
	values := make([]string, 0, q.Size())
	for v := range q.All() {
		values = append(values, v)
	}

	return values
}

// String renders the queue as "[a b c]", or "<nil>" for an absent queue.
func (q *Queue) String() string {
	if !q.live() {
		return "<nil>"
	}

	var sb strings.Builder
	sb.WriteByte('[')
	for n := q.head; n != nil; n = n.next {
		sb.WriteString(n.value)
		if n.next != nil {
			sb.WriteByte(' ')
		}
	}
	sb.WriteByte(']')

	return sb.String()
}

// CString returns the bytes of buf up to, not including, the first 0 byte.
// It is the counterpart of the buffer filled by RemoveHead.
func CString(buf []byte) string {
	if i := bytes.IndexByte(buf, 0); i >= 0 {
		return string(buf[:i])
	}

	return string(buf)
}
