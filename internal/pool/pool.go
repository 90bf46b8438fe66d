// Package pool holds a bounded free list of reusable objects.
package pool

// Resettable is implemented by objects that can be cleared for reuse.
type Resettable interface {
	Reset()
}

// Pool keeps up to a fixed number of idle objects. Idle objects survive GC.
type Pool[T Resettable] struct {
	items   chan T
	factory func() T
}

// New returns a pool holding at most capacity idle objects. factory builds
// a fresh object whenever the pool is empty.
func New[T Resettable](capacity int, factory func() T) *Pool[T] {
	return &Pool[T]{
		items:   make(chan T, capacity),
		factory: factory,
	}
}

// Get returns an idle object or a new one from the factory.
func (p *Pool[T]) Get() T {
	select {
	case item := <-p.items:
		return item
	default:
		return p.factory()
	}
}

// Put resets item and keeps it if there is room; otherwise it is dropped.
func (p *Pool[T]) Put(item T) {
	item.Reset()

	select {
	case p.items <- item:
	default:
	}
}

// Idle returns the number of objects waiting for reuse.
func (p *Pool[T]) Idle() int {
	return len(p.items)
}
