package strqueue

import (
	"strings"
	"testing"

	"github.com/arloliu/go-strqueue/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// checkInvariants verifies the structural invariants that hold after every public operation.
func checkInvariants(t *testing.T, q *Queue) {
	t.Helper()

	count := 0
	slot := &q.head
	for *slot != nil {
		count++
		slot = &(*slot).next
	}
	require.Equal(t, count, q.size, "size must match reachable nodes")
	require.Same(t, slot, q.tail, "tail cursor must address the last link slot")
	require.Nil(t, *q.tail)
}

func newTestQueue(t *testing.T, opts ...Option) *Queue {
	t.Helper()

	q, err := New(opts...)
	require.NoError(t, err)
	t.Cleanup(q.Free)

	return q
}

func drain(t *testing.T, q *Queue) []string {
	t.Helper()

	var got []string
	for {
		v, ok := q.RemoveHeadString()
		if !ok {
			break
		}
		got = append(got, v)
		checkInvariants(t, q)
	}

	return got
}

func TestQueue(t *testing.T) {
	assert := assert.New(t)

	t.Run("Empty Queue", func(t *testing.T) {
		q := newTestQueue(t)
		checkInvariants(t, q)

		assert.Equal(0, q.Size())
		assert.False(q.RemoveHead(make([]byte, 8)))
		_, ok := q.Peek()
		assert.False(ok)
		assert.Equal("[]", q.String())
	})

	t.Run("Insert Tail", func(t *testing.T) {
		q := newTestQueue(t)

		require.True(t, q.InsertTail("apple"))
		require.True(t, q.InsertTail("banana"))
		checkInvariants(t, q)
		assert.Equal(2, q.Size())

		buf := make([]byte, 16)
		require.True(t, q.RemoveHead(buf))
		assert.Equal("apple", CString(buf))
		require.True(t, q.RemoveHead(buf))
		assert.Equal("banana", CString(buf))
		assert.False(q.RemoveHead(buf))
		checkInvariants(t, q)
	})

	t.Run("Insert Head", func(t *testing.T) {
		q := newTestQueue(t)

		for _, s := range []string{"c", "b", "a"} {
			require.True(t, q.InsertHead(s))
			checkInvariants(t, q)
		}
		assert.Equal([]string{"a", "b", "c"}, q.Values())
		assert.Equal("[a b c]", q.String())

		q.Reverse()
		checkInvariants(t, q)
		assert.Equal([]string{"c", "b", "a"}, q.Values())

		q.Sort()
		checkInvariants(t, q)
		assert.Equal([]string{"a", "b", "c"}, q.Values())
	})

	t.Run("Mixed Inserts", func(t *testing.T) {
		q := newTestQueue(t)

		q.InsertTail("2")
		q.InsertHead("1")
		q.InsertTail("3")
		q.InsertHead("0")
		checkInvariants(t, q)

		assert.Equal([]string{"0", "1", "2", "3"}, drain(t, q))
	})

	t.Run("Tail After Drain", func(t *testing.T) {
		q := newTestQueue(t)

		q.InsertHead("x")
		require.True(t, q.RemoveHead(nil))
		checkInvariants(t, q)

		q.InsertTail("y")
		q.InsertTail("z")
		checkInvariants(t, q)
		assert.Equal([]string{"y", "z"}, q.Values())
	})

	t.Run("Peek", func(t *testing.T) {
		q := newTestQueue(t)

		q.InsertTail("first")
		q.InsertTail("second")

		v, ok := q.Peek()
		assert.True(ok)
		assert.Equal("first", v)
		assert.Equal(2, q.Size())
	})

	t.Run("Owned Copy", func(t *testing.T) {
		q := newTestQueue(t)

		src := []byte("mutable")
		q.InsertTail(string(src))
		src[0] = 'M'

		v, _ := q.Peek()
		assert.Equal("mutable", v)
	})
}

func TestQueue_RemoveHeadBuffer(t *testing.T) {
	tests := []struct {
		name  string
		value string
		size  int
		want  string
	}{
		{name: "truncate", value: "hello", size: 3, want: "he"},
		{name: "exact fit", value: "hello", size: 6, want: "hello"},
		{name: "one short", value: "hello", size: 5, want: "hell"},
		{name: "terminator only", value: "hello", size: 1, want: ""},
		{name: "larger buffer", value: "hi", size: 10, want: "hi"},
		{name: "empty value", value: "", size: 4, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := newTestQueue(t)
			require.True(t, q.InsertTail(tt.value))

			buf := []byte(strings.Repeat("#", tt.size))
			require.True(t, q.RemoveHead(buf))

			assert.Equal(t, tt.want, CString(buf))
			assert.Equal(t, byte(0), buf[len(tt.want)])
			assert.Equal(t, 0, q.Size())
		})
	}

	t.Run("nil and empty buffers discard", func(t *testing.T) {
		q := newTestQueue(t)
		q.InsertTail("a")
		q.InsertTail("b")

		assert.True(t, q.RemoveHead(nil))
		assert.True(t, q.RemoveHead([]byte{}))
		assert.Equal(t, 0, q.Size())
	})
}

func TestQueue_Absent(t *testing.T) {
	assert := assert.New(t)

	var q *Queue
	assert.False(q.InsertHead("a"))
	assert.False(q.InsertTail("a"))
	assert.False(q.RemoveHead(make([]byte, 4)))
	_, ok := q.RemoveHeadString()
	assert.False(ok)
	_, ok = q.Peek()
	assert.False(ok)
	assert.Equal(0, q.Size())
	assert.Empty(q.Values())
	assert.Equal("<nil>", q.String())
	assert.NotPanics(func() {
		q.Reverse()
		q.Sort()
		q.Free()
	})
}

func TestQueue_Free(t *testing.T) {
	assert := assert.New(t)

	t.Run("Create And Free", func(t *testing.T) {
		alloc := NewLimitAllocator(0, 0)
		q, err := New(WithAllocator(alloc))
		require.NoError(t, err)
		assert.Equal(1, alloc.Blocks())
		assert.Equal(QueueRecordSize, alloc.Bytes())

		q.Free()
		assert.Zero(alloc.Blocks())
		assert.Zero(alloc.Bytes())
	})

	t.Run("Free Releases Elements", func(t *testing.T) {
		alloc := NewLimitAllocator(0, 0)
		q, err := New(WithAllocator(alloc))
		require.NoError(t, err)

		q.InsertTail("apple")
		q.InsertHead("banana")
		q.RemoveHead(nil)
		q.InsertTail("cherry")
		assert.Equal(1+2*2, alloc.Blocks())

		q.Free()
		assert.Zero(alloc.Blocks())
		assert.Zero(alloc.Bytes())
	})

	t.Run("Freed Queue Is Inert", func(t *testing.T) {
		alloc := NewLimitAllocator(0, 0)
		q, err := New(WithAllocator(alloc))
		require.NoError(t, err)
		q.InsertTail("a")
		q.Free()

		assert.NotPanics(q.Free)
		assert.False(q.InsertTail("b"))
		assert.False(q.RemoveHead(nil))
		assert.Equal(0, q.Size())
		assert.Zero(alloc.Blocks())
	})
}

func TestQueue_AllocFailure(t *testing.T) {
	assert := assert.New(t)

	t.Run("Queue Record Refused", func(t *testing.T) {
		q, err := New(WithAllocator(NewLimitAllocator(0, QueueRecordSize-1)))
		require.Error(t, err)
		assert.Nil(q)
		assert.ErrorIs(err, ErrAllocFailed)
		assert.ErrorIs(err, ErrBudgetExceeded)
	})

	t.Run("Node Refused", func(t *testing.T) {
		alloc := NewLimitAllocator(1, 0)
		q := newTestQueue(t, WithAllocator(alloc))

		assert.False(q.InsertHead("a"))
		assert.False(q.InsertTail("a"))
		checkInvariants(t, q)
		assert.Equal(0, q.Size())
		assert.Equal(1, alloc.Blocks())
	})

	t.Run("Value Refused", func(t *testing.T) {
		alloc := NewLimitAllocator(4, 0)
		q := newTestQueue(t, WithAllocator(alloc))

		require.True(t, q.InsertTail("ab"))
		assert.False(q.InsertTail("c"), "node fits, value does not")
		assert.False(q.InsertHead("c"))
		checkInvariants(t, q)

		assert.Equal([]string{"ab"}, q.Values())
		assert.Equal(3, alloc.Blocks(), "refused node reservation must be released")
		assert.Equal(2, alloc.Refused())
	})

	t.Run("Byte Budget", func(t *testing.T) {
		alloc := NewLimitAllocator(0, QueueRecordSize+NodeRecordSize+3)
		q := newTestQueue(t, WithAllocator(alloc))

		require.True(t, q.InsertTail("ab"))
		assert.False(q.InsertHead(""))
		assert.Equal(1, q.Size())

		q.RemoveHead(nil)
		assert.True(q.InsertHead("cd"))
		assert.Equal(QueueRecordSize+NodeRecordSize+3, alloc.Bytes())
	})

	t.Run("Refusal Logged", func(t *testing.T) {
		mockLog := logger.NewMockLogger()
		mockLog.On("Debug", "value allocation refused", mock.Anything).Once()

		alloc := NewLimitAllocator(2, 0)
		q := newTestQueue(t, WithAllocator(alloc), WithLogger(mockLog))

		assert.False(q.InsertHead("a"))
		mockLog.AssertExpectations(t)
	})

	t.Run("Invalid Options", func(t *testing.T) {
		_, err := New(WithAllocator(nil))
		assert.ErrorIs(err, ErrNilAllocator)

		_, err = New(WithLogger(nil))
		assert.ErrorIs(err, ErrNilLogger)
	})
}

func TestQueue_SizeAccounting(t *testing.T) {
	q := newTestQueue(t)

	inserted, removed := 0, 0
	for i := range 200 {
		switch i % 5 {
		case 0, 1:
			require.True(t, q.InsertTail("t"))
			inserted++
		case 2:
			require.True(t, q.InsertHead("h"))
			inserted++
		default:
			if q.RemoveHead(nil) {
				removed++
			}
		}
		require.Equal(t, inserted-removed, q.Size())
	}
	checkInvariants(t, q)
}

func TestQueue_Reverse(t *testing.T) {
	assert := assert.New(t)

	t.Run("Trivial Queues", func(t *testing.T) {
		q := newTestQueue(t)
		q.Reverse()
		checkInvariants(t, q)

		q.InsertTail("only")
		q.Reverse()
		checkInvariants(t, q)
		assert.Equal([]string{"only"}, q.Values())
	})

	t.Run("Involution", func(t *testing.T) {
		q := newTestQueue(t)
		want := []string{"a", "b", "c", "d", "e"}
		for _, s := range want {
			q.InsertTail(s)
		}

		q.Reverse()
		checkInvariants(t, q)
		assert.Equal([]string{"e", "d", "c", "b", "a"}, q.Values())

		q.Reverse()
		checkInvariants(t, q)
		assert.Equal(want, q.Values())
	})

	t.Run("Tail Follows Old Head", func(t *testing.T) {
		q := newTestQueue(t)
		q.InsertTail("1")
		q.InsertTail("2")

		q.Reverse()
		q.InsertTail("0")
		checkInvariants(t, q)
		assert.Equal([]string{"2", "1", "0"}, q.Values())
	})

	t.Run("No Allocation", func(t *testing.T) {
		alloc := NewLimitAllocator(0, 0)
		q := newTestQueue(t, WithAllocator(alloc))
		for _, s := range []string{"x", "y", "z"} {
			q.InsertTail(s)
		}
		allocs, blocks := alloc.Allocs(), alloc.Blocks()

		q.Reverse()
		assert.Equal(allocs, alloc.Allocs())
		assert.Equal(blocks, alloc.Blocks())
	})
}

func BenchmarkQueue_InsertRemove(b *testing.B) {
	q, _ := New()
	defer q.Free()

	buf := make([]byte, 16)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		q.InsertTail("benchmark")
		q.RemoveHead(buf)
	}
}
