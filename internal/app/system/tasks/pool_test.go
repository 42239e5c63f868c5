package tasks

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPool_RunsSubmittedTasks(t *testing.T) {
	p := NewPool(2, 10, time.Second, zap.NewNop())
	p.Start()

	var n atomic.Int32
	for i := 0; i < 5; i++ {
		require.True(t, p.Submit("count", func(ctx context.Context) error {
			n.Add(1)
			return nil
		}))
	}

	require.NoError(t, p.Stop(context.Background()))
	assert.Equal(t, int32(5), n.Load())
}

func TestPool_RejectsWhenFull(t *testing.T) {
	p := NewPool(1, 1, time.Second, zap.NewNop())
	p.Start()

	block := make(chan struct{})
	running := make(chan struct{})
	require.True(t, p.Submit("block", func(ctx context.Context) error {
		close(running)
		<-block
		return nil
	}))
	<-running

	assert.True(t, p.Submit("queued", func(ctx context.Context) error { return nil }))
	assert.False(t, p.Submit("overflow", func(ctx context.Context) error { return nil }))

	close(block)
	require.NoError(t, p.Stop(context.Background()))
}

func TestPool_RejectsAfterStop(t *testing.T) {
	p := NewPool(1, 1, time.Second, zap.NewNop())
	p.Start()
	require.NoError(t, p.Stop(context.Background()))

	assert.False(t, p.Submit("late", func(ctx context.Context) error { return nil }))
	assert.NoError(t, p.Stop(context.Background()), "second stop is a no-op")
}

func TestPool_AbsorbsErrorsAndPanics(t *testing.T) {
	p := NewPool(1, 4, time.Second, zap.NewNop())
	p.Start()

	var after atomic.Bool
	p.Submit("fails", func(ctx context.Context) error { return errors.New("smtp down") })
	p.Submit("panics", func(ctx context.Context) error { panic("boom") })
	p.Submit("after", func(ctx context.Context) error {
		after.Store(true)
		return nil
	})

	require.NoError(t, p.Stop(context.Background()))
	assert.True(t, after.Load(), "worker survives failing tasks")
}

func TestPool_TaskContextHasTimeout(t *testing.T) {
	p := NewPool(1, 1, 20*time.Millisecond, zap.NewNop())
	p.Start()

	got := make(chan error, 1)
	p.Submit("slow", func(ctx context.Context) error {
		<-ctx.Done()
		got <- ctx.Err()
		return ctx.Err()
	})

	require.NoError(t, p.Stop(context.Background()))
	assert.ErrorIs(t, <-got, context.DeadlineExceeded)
}

func TestPool_StopHonoursContext(t *testing.T) {
	p := NewPool(1, 1, time.Minute, zap.NewNop())
	p.Start()

	release := make(chan struct{})
	defer close(release)
	started := make(chan struct{})
	p.Submit("stuck", func(ctx context.Context) error {
		close(started)
		<-release
		return nil
	})
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, p.Stop(ctx), context.DeadlineExceeded)
}
