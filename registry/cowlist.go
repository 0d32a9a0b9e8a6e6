package registry

import (
	"sync"
	"sync/atomic"
)

// cowList is an append-friendly, copy-on-write sequence.
//
// Readers load the current backing slice without locking and must treat it as
// immutable. Writers serialize on mu and publish a fresh slice.
type cowList[T comparable] struct {
	mu    sync.Mutex
	items atomic.Pointer[[]T]
}

func newCowList[T comparable]() *cowList[T] {
	l := &cowList[T]{}
	empty := make([]T, 0)
	l.items.Store(&empty)

	return l
}

// Append adds item at the end. Duplicates are kept.
func (l *cowList[T]) Append(item T) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cur := *l.items.Load()
	next := make([]T, len(cur), len(cur)+1)
	copy(next, cur)
	next = append(next, item)
	l.items.Store(&next)

	return len(next)
}

// Remove deletes the first occurrence of item and reports whether one was found.
func (l *cowList[T]) Remove(item T) (bool, int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cur := *l.items.Load()
	for i, v := range cur {
		if v != item {
			continue
		}

		next := make([]T, 0, len(cur)-1)
		next = append(next, cur[:i]...)
		next = append(next, cur[i+1:]...)
		l.items.Store(&next)

		return true, len(next)
	}

	return false, len(cur)
}

// Snapshot returns the current contents. The slice must not be modified.
func (l *cowList[T]) Snapshot() []T {
	return *l.items.Load()
}
