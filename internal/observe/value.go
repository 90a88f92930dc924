// Package observe provides a single-writer, multi-reader "latest value" cell.
// It replaces on write rather than queueing: late subscribers see only the
// current value, never history. Cart state, sync status and the online flag
// are all published through it.
package observe

import "sync"

type Value[T any] struct {
	mu   sync.Mutex
	v    T
	subs map[int]func(T)
	next int
}

func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{v: initial, subs: make(map[int]func(T))}
}

// Get returns the current value.
func (o *Value[T]) Get() T {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.v
}

// Set replaces the current value and notifies subscribers synchronously
// before returning. Writers are expected to serialize their own Set calls;
// callbacks must not call back into the Value.
func (o *Value[T]) Set(v T) {
	o.mu.Lock()
	o.v = v
	fns := make([]func(T), 0, len(o.subs))
	for _, fn := range o.subs {
		fns = append(fns, fn)
	}
	o.mu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}

// Subscribe registers fn, delivers the current value immediately, and returns
// a cancel func that removes the subscription.
func (o *Value[T]) Subscribe(fn func(T)) func() {
	o.mu.Lock()
	id := o.next
	o.next++
	o.subs[id] = fn
	current := o.v
	o.mu.Unlock()

	fn(current)

	return func() {
		o.mu.Lock()
		delete(o.subs, id)
		o.mu.Unlock()
	}
}
