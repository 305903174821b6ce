// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.
package future

import (
	"context"
	"sync"
)

// Create returns a connected Promise/Future pair. The producer side fulfills
// the promise exactly once, the consumer side may await the future any number
// of times and from any number of goroutines.
func Create[T any]() (Promise[T], Future[T]) {
	s := &shared[T]{done: make(chan struct{})}
	return Promise[T]{s}, Future[T]{s}
}

// Immediate returns a future that is already resolved to the given value.
func Immediate[T any](value T) Future[T] {
	promise, future := Create[T]()
	promise.Fulfill(value)
	return future
}

type shared[T any] struct {
	once  sync.Once
	done  chan struct{}
	value T
}

// Promise is the producer side of a future.
type Promise[T any] struct {
	s *shared[T]
}

// Fulfill resolves the connected future. Only the first call has an effect.
func (p Promise[T]) Fulfill(value T) {
	p.s.once.Do(func() {
		p.s.value = value
		close(p.s.done)
	})
}

// Future is the consumer side of a promise.
type Future[T any] struct {
	s *shared[T]
}

// Await blocks until the future is resolved and returns its value.
func (f Future[T]) Await() T {
	<-f.s.done
	return f.s.value
}

// AwaitContext blocks until the future is resolved or the context is done.
// Abandoning the wait does not affect the producer.
func (f Future[T]) AwaitContext(ctx context.Context) (T, error) {
	select {
	case <-f.s.done:
		return f.s.value, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Done returns a channel that is closed once the future is resolved.
func (f Future[T]) Done() <-chan struct{} {
	return f.s.done
}
