package utils

import (
	"reflect"

	"go.uber.org/atomic"
)

// DefaultListPoolSize is the number of idle lists a ListPool keeps before dropping returned ones.
const DefaultListPoolSize = 1024

// ListPool is a bounded pool of reusable slices. It is safe for concurrent use.
type ListPool[T any] struct {
	lists        chan []T
	zeroOnReturn bool

	hits   atomic.Int64
	misses atomic.Int64
	drops  atomic.Int64
}

// ListPoolStats is a snapshot of a pool's counters.
type ListPoolStats struct {
	Hits   int64
	Misses int64
	Drops  int64
	Pooled int
	Max    int
}

// NewListPool returns a pool that keeps at most maxSize idle lists. A non-positive maxSize selects
// DefaultListPoolSize.
func NewListPool[T any](maxSize int) *ListPool[T] {
	if maxSize <= 0 {
		maxSize = DefaultListPoolSize
	}
	return &ListPool[T]{
		lists:        make(chan []T, maxSize),
		zeroOnReturn: containsPointers(reflect.TypeFor[T]()),
	}
}

// Rent returns an empty list, reusing a pooled one when available.
func (p *ListPool[T]) Rent() []T {
	select {
	case list := <-p.lists:
		p.hits.Inc()
		return list
	default:
		p.misses.Inc()
		return make([]T, 0, 4)
	}
}

// Return truncates list and puts it back in the pool. The backing elements are zeroed when clear is
// set, and always when T holds pointers so the pool never keeps references alive. If the pool is
// already full the list is dropped.
func (p *ListPool[T]) Return(list []T, clear bool) {
	if list == nil {
		return
	}
	if clear || p.zeroOnReturn {
		clearSlice(list[:cap(list)])
	}
	select {
	case p.lists <- list[:0]:
	default:
		p.drops.Inc()
	}
}

// Clear drops every pooled list.
func (p *ListPool[T]) Clear() {
	for {
		select {
		case <-p.lists:
		default:
			return
		}
	}
}

// Stats returns the pool's counters.
func (p *ListPool[T]) Stats() ListPoolStats {
	return ListPoolStats{
		Hits:   p.hits.Load(),
		Misses: p.misses.Load(),
		Drops:  p.drops.Load(),
		Pooled: len(p.lists),
		Max:    cap(p.lists),
	}
}

func clearSlice[T any](s []T) {
	clear(s)
}

// containsPointers reports whether values of t can reference heap memory.
func containsPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.UnsafePointer, reflect.Map, reflect.Slice, reflect.Chan,
		reflect.Func, reflect.Interface, reflect.String:
		return true
	case reflect.Array:
		return t.Len() > 0 && containsPointers(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if containsPointers(t.Field(i).Type) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
