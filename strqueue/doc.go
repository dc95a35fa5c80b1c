// Package strqueue provides a singly linked queue of strings with constant-time
// insertion at either end, constant-time removal from the head, in-place
// reversal and a stable merge sort.
//
// Representation:
//   - Each element is a node owning a private copy of the inserted string.
//   - The queue keeps a head pointer, an element count and a tail cursor. The
//     tail cursor is the address of the link slot that receives the next
//     appended node: the queue's own head field while empty, otherwise the next
//     field of the last node. Appending writes through the cursor and moves it,
//     so InsertTail never walks the chain.
//
// Storage accounting:
// Every queue record, node record and string value is charged to an Allocator.
// The default HeapAllocator never refuses. LimitAllocator enforces a budget and
// reports outstanding blocks, which makes leaks visible after Free, and
// FaultAllocator refuses requests at a configured rate. A refused request makes
// the operation report failure with nothing partially linked into the queue.
//
// Absent queues:
// Every method accepts a nil *Queue and behaves as a no-op, returning false or
// zero where a result is expected. A queue released with Free behaves the same
// way.
//
// A Queue is not safe for concurrent use. Callers sharing one across goroutines
// must serialise access themselves, for example with a sync.Mutex.
//
// Usage Example:
//
//	q, err := strqueue.New()
//	if err != nil {
//	    return err
//	}
//	defer q.Free()
//
//	q.InsertTail("banana")
//	q.InsertHead("apple")
//	q.Sort()
//
//	buf := make([]byte, 16)
//	for q.RemoveHead(buf) {
//	    fmt.Println(strqueue.CString(buf))
//	}
package strqueue
