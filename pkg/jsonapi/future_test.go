package jsonapi_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/jsonapi-client/pkg/jsonapi"
)

func TestFuture(t *testing.T) {
	t.Parallel()

	t.Run("resolves with a value", func(t *testing.T) {
		t.Parallel()

		f := jsonapi.Go(context.Background(), func(context.Context) (int, error) {
			return 42, nil
		})

		value, err := f.Await(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 42, value)

		value, err = f.Await(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 42, value)
	})

	t.Run("resolves with an error and no value", func(t *testing.T) {
		t.Parallel()

		f := jsonapi.Go(context.Background(), func(context.Context) (int, error) {
			return 7, jsonapi.ErrResourceNotFound
		})

		value, err := f.Await(context.Background())
		require.ErrorIs(t, err, jsonapi.ErrResourceNotFound)
		assert.Zero(t, value)
	})

	t.Run("recovers panics", func(t *testing.T) {
		t.Parallel()

		f := jsonapi.Go(context.Background(), func(context.Context) (string, error) {
			panic("boom")
		})

		_, err := f.Await(context.Background())
		require.ErrorIs(t, err, jsonapi.ErrOperationPanicked)
		assert.Contains(t, err.Error(), "boom")
	})

	t.Run("await honours its own context", func(t *testing.T) {
		t.Parallel()

		release := make(chan struct{})
		defer close(release)

		f := jsonapi.Go(context.Background(), func(context.Context) (int, error) {
			<-release

			return 1, nil
		})

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		_, err := f.Await(ctx)
		require.ErrorIs(t, err, context.DeadlineExceeded)

		select {
		case <-f.Done():
			t.Fatal("future resolved before the operation finished")
		default:
		}
	})

	t.Run("passes the context to the operation", func(t *testing.T) {
		t.Parallel()

		type key struct{}

		ctx := context.WithValue(context.Background(), key{}, "value")

		f := jsonapi.Go(ctx, func(ctx context.Context) (interface{}, error) {
			return ctx.Value(key{}), nil
		})

		value, err := f.Await(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "value", value)
	})

	t.Run("then runs once", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32

		done := make(chan struct{})

		f := jsonapi.Go(context.Background(), func(context.Context) (int, error) {
			return 3, nil
		})

		f.Then(func(value int, err error) {
			assert.Equal(t, 3, value)
			assert.NoError(t, err)
			calls.Add(1)
			close(done)
		})

		<-done
		assert.Equal(t, int32(1), calls.Load())
	})
}
