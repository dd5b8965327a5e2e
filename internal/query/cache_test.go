package query

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time          { return f.t }
func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestCache() (*Cache, *fakeClock) {
	clk := &fakeClock{t: time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)}
	c := New()
	c.Now = clk.now
	return c, clk
}

func counter(calls *int32, v int) func(context.Context) (int, error) {
	return func(context.Context) (int, error) {
		atomic.AddInt32(calls, 1)
		return v, nil
	}
}

func TestFetchCachesUntilExpiry(t *testing.T) {
	c, clk := newTestCache()
	ctx := context.Background()
	var calls int32

	v, err := Fetch(ctx, c, "stats:u1", time.Minute, counter(&calls, 7))
	require.NoError(t, err)
	assert.Equal(t, 7, v)

	clk.advance(59 * time.Second)
	v, err = Fetch(ctx, c, "stats:u1", time.Minute, counter(&calls, 8))
	require.NoError(t, err)
	assert.Equal(t, 7, v)
	assert.EqualValues(t, 1, calls)

	clk.advance(time.Second)
	v, err = Fetch(ctx, c, "stats:u1", time.Minute, counter(&calls, 8))
	require.NoError(t, err)
	assert.Equal(t, 8, v)
	assert.EqualValues(t, 2, calls)
}

func TestFetchZeroTTLNeverExpires(t *testing.T) {
	c, clk := newTestCache()
	var calls int32
	_, _ = Fetch(context.Background(), c, "assets", 0, counter(&calls, 1))
	clk.advance(1000 * time.Hour)
	v, _ := Fetch(context.Background(), c, "assets", 0, counter(&calls, 2))
	assert.Equal(t, 1, v)
	assert.EqualValues(t, 1, calls)
}

func TestFetchDoesNotCacheErrors(t *testing.T) {
	c, _ := newTestCache()
	boom := errors.New("boom")
	_, err := Fetch(context.Background(), c, "k", time.Minute, func(context.Context) (int, error) {
		return 0, boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.Len())

	var calls int32
	v, err := Fetch(context.Background(), c, "k", time.Minute, counter(&calls, 3))
	require.NoError(t, err)
	assert.Equal(t, 3, v)
}

func TestFetchCollapsesConcurrentLoads(t *testing.T) {
	c, _ := newTestCache()
	var calls int32
	release := make(chan struct{})
	load := func(context.Context) (int, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return 42, nil
	}

	var wg sync.WaitGroup
	results := make([]int, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = Fetch(context.Background(), c, "sims:u1", time.Minute, load)
		}(i)
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, 42, r)
	}
	assert.LessOrEqual(t, atomic.LoadInt32(&calls), int32(8))
	v, _ := Fetch(context.Background(), c, "sims:u1", time.Minute, load)
	assert.Equal(t, 42, v)
}

func TestInvalidatePrefix(t *testing.T) {
	c, _ := newTestCache()
	ctx := context.Background()
	var calls int32
	for _, k := range []string{"u1:stats", "u1:sims", "u2:stats"} {
		_, _ = Fetch(ctx, c, k, 0, counter(&calls, 1))
	}
	assert.Equal(t, 2, c.Invalidate("u1:"))
	assert.Equal(t, 1, c.Len())

	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestInvalidateDiscardsInFlightLoad(t *testing.T) {
	c, _ := newTestCache()
	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan string, 1)
	go func() {
		v, _ := Fetch(context.Background(), c, "stats/u1", 0, func(context.Context) (string, error) {
			close(started)
			<-release
			return "stale", nil
		})
		done <- v
	}()

	<-started
	c.Invalidate("stats/")
	close(release)
	assert.Equal(t, "stale", <-done)

	var calls int32
	v, err := Fetch(context.Background(), c, "stats/u1", 0, func(context.Context) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "fresh", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh", v)
	assert.EqualValues(t, 1, calls)

	v, _ = Fetch(context.Background(), c, "stats/u1", 0, func(context.Context) (string, error) {
		return "again", nil
	})
	assert.Equal(t, "fresh", v)
}

func TestInvalidateStartsNewLoadWhileOldOneRuns(t *testing.T) {
	c, _ := newTestCache()
	started := make(chan struct{})
	release := make(chan struct{})
	defer close(release)
	go func() {
		_, _ = Fetch(context.Background(), c, "assets", 0, func(context.Context) (string, error) {
			close(started)
			<-release
			return "stale", nil
		})
	}()

	<-started
	c.Invalidate("assets")
	v, err := Fetch(context.Background(), c, "assets", 0, func(context.Context) (string, error) {
		return "fresh", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh", v)
}

func TestCancelledCallerDoesNotFailSharedLoad(t *testing.T) {
	c, _ := newTestCache()
	started := make(chan struct{})
	release := make(chan struct{})
	load := func(ctx context.Context) (int, error) {
		select {
		case <-started:
		default:
			close(started)
		}
		select {
		case <-release:
			return 9, nil
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}

	first, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := Fetch(first, c, "simulations/u1", time.Minute, load)
		firstErr <- err
	}()
	<-started

	second := make(chan int, 1)
	go func() {
		v, _ := Fetch(context.Background(), c, "simulations/u1", time.Minute, load)
		second <- v
	}()

	cancel()
	require.ErrorIs(t, <-firstErr, context.Canceled)
	close(release)
	assert.Equal(t, 9, <-second)
}
