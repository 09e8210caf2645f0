package jsonapi

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Static errors for err113 compliance.
var (
	ErrOperationPanicked = errors.New("operation panicked")
)

// Future is the single-resolution handle of an asynchronous operation. It
// resolves exactly once, with either a value or an error.
//
// There is no cancellation: an issued operation runs to completion. Await
// returning early because its own context ended does not stop the operation.
type Future[T any] struct {
	done  chan struct{}
	once  sync.Once
	value T
	err   error
}

// Go runs fn on a new goroutine and returns its Future. A panic in fn
// resolves the Future with an error wrapping ErrOperationPanicked.
func Go[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}

	go func() {
		defer func() {
			if recovered := recover(); recovered != nil {
				var zero T
				f.resolve(zero, fmt.Errorf("%w: %v", ErrOperationPanicked, recovered))
			}
		}()

		value, err := fn(ctx)
		f.resolve(value, err)
	}()

	return f
}

func (f *Future[T]) resolve(value T, err error) {
	f.once.Do(func() {
		if err == nil {
			f.value = value
		}

		f.err = err
		close(f.done)
	})
}

// Done returns a channel closed once the Future has resolved.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the Future resolves or ctx ends.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T

		return zero, fmt.Errorf("awaiting result: %w", ctx.Err())
	}
}

// Then registers fn to run with the result once the Future resolves.
func (f *Future[T]) Then(fn func(value T, err error)) {
	go func() {
		<-f.done
		fn(f.value, f.err)
	}()
}
