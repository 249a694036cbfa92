package cache

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

type item struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func TestKey(t *testing.T) {
	assert.Equal(t, "simulations", Key("simulations"))
	assert.Equal(t, "simulation:3", IDKey("simulation", 3))
	assert.Equal(t, "a:b:c", Key("a", "b", "c"))
}

func TestMatches(t *testing.T) {
	tests := []struct {
		key, prefix string
		want        bool
	}{
		{"simulation:1", "simulation", true},
		{"simulation", "simulation", true},
		{"simulations", "simulation", false},
		{"simulation-versions:1", "simulation", false},
		{"projection:1", "projection:1", true},
		{"projection:10", "projection:1", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Matches(tt.key, tt.prefix), "%s vs %s", tt.key, tt.prefix)
	}
}

func TestFetch_CachesLoadedValue(t *testing.T) {
	ctx := context.Background()
	c := New(NewMemoryStore(), time.Minute)
	calls := 0
	load := func(ctx context.Context) ([]item, error) {
		calls++
		return []item{{ID: 1, Name: "Plano A"}}, nil
	}

	first, err := Fetch(ctx, c, "simulations", load)
	require.NoError(t, err)
	second, err := Fetch(ctx, c, "simulations", load)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)

	// callers do not share backing arrays
	first[0].Name = "changed"
	third, _ := Fetch(ctx, c, "simulations", load)
	assert.Equal(t, "Plano A", third[0].Name)
}

func TestFetch_ErrorIsNotCached(t *testing.T) {
	ctx := context.Background()
	c := New(NewMemoryStore(), time.Minute)
	boom := errors.New("boom")
	calls := 0
	load := func(ctx context.Context) (item, error) {
		calls++
		if calls == 1 {
			return item{}, boom
		}
		return item{ID: 2}, nil
	}

	_, err := Fetch(ctx, c, "allocation:2", load)
	assert.ErrorIs(t, err, boom)

	got, err := Fetch(ctx, c, "allocation:2", load)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.ID)
	assert.Equal(t, 2, calls)
}

func TestInvalidate_ByPrefix(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	c := New(store, time.Minute)
	for _, key := range []string{"simulations", "simulation:1", "simulation:2", "projection:1", "allocations"} {
		_, err := Fetch(ctx, c, key, func(ctx context.Context) (int, error) { return 1, nil })
		require.NoError(t, err)
	}
	require.Equal(t, 5, store.Len())

	c.Invalidate(ctx, "simulation", "projection")

	for key, want := range map[string]bool{
		"simulations":  true,
		"simulation:1": false,
		"simulation:2": false,
		"projection:1": false,
		"allocations":  true,
	} {
		_, ok, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, want, ok, key)
	}
}

func TestFetch_StaleFillIsDiscarded(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	c := New(store, time.Minute)

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan string, 1)

	go func() {
		v, _ := Fetch(ctx, c, "simulation:1", func(ctx context.Context) (string, error) {
			close(started)
			<-release
			return "before write", nil
		})
		done <- v
	}()

	<-started
	c.Invalidate(ctx, "simulation")
	close(release)

	assert.Equal(t, "before write", <-done)
	_, ok, _ := store.Get(ctx, "simulation:1")
	assert.False(t, ok, "a fetch that raced with invalidation must not repopulate the cache")

	v, err := Fetch(ctx, c, "simulation:1", func(ctx context.Context) (string, error) {
		return "after write", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "after write", v)
	_, ok, _ = store.Get(ctx, "simulation:1")
	assert.True(t, ok)
}

func TestFetch_ConcurrentCallersShareOneLoad(t *testing.T) {
	ctx := context.Background()
	c := New(NewMemoryStore(), time.Minute)

	var calls int32
	release := make(chan struct{})
	load := func(ctx context.Context) (item, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return item{ID: 7}, nil
	}

	var wg sync.WaitGroup
	results := make([]item, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = Fetch(ctx, c, "timeline:7", load)
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	for _, r := range results {
		assert.Equal(t, int64(7), r.ID)
	}
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	store.now = func() time.Time { return now }

	require.NoError(t, store.Set(ctx, "simulations", []byte("[]"), time.Minute))
	require.NoError(t, store.Set(ctx, "forever", []byte("1"), 0))

	_, ok, _ := store.Get(ctx, "simulations")
	assert.True(t, ok)

	now = now.Add(time.Minute)
	_, ok, _ = store.Get(ctx, "simulations")
	assert.False(t, ok)
	_, ok, _ = store.Get(ctx, "forever")
	assert.True(t, ok)
	assert.Equal(t, 1, store.Len())
}

func TestFetch_JoinedCallerSurvivesFirstCallerCancel(t *testing.T) {
	c := New(NewMemoryStore(), time.Minute)

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	started := make(chan struct{})
	release := make(chan struct{})
	var calls int32
	var once sync.Once
	load := func(ctx context.Context) (item, error) {
		atomic.AddInt32(&calls, 1)
		once.Do(func() { close(started) })
		select {
		case <-release:
			return item{ID: 3, Name: "Plano Base"}, nil
		case <-ctx.Done():
			return item{}, ctx.Err()
		}
	}

	firstErr := make(chan error, 1)
	go func() {
		_, err := Fetch(firstCtx, c, "simulation:3", load)
		firstErr <- err
	}()
	<-started

	type result struct {
		value item
		err   error
	}
	second := make(chan result, 1)
	go func() {
		v, err := Fetch(context.Background(), c, "simulation:3", load)
		second <- result{v, err}
	}()

	cancelFirst()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	// let the second caller join before the load finishes
	time.Sleep(50 * time.Millisecond)
	close(release)

	select {
	case r := <-second:
		require.NoError(t, r.err)
		assert.Equal(t, "Plano Base", r.value.Name)
	case <-time.After(2 * time.Second):
		t.Fatal("second caller never returned")
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestFetch_CallerStopsWaitingOnItsOwnCancel(t *testing.T) {
	c := New(NewMemoryStore(), time.Minute)
	release := make(chan struct{})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := Fetch(ctx, c, "timeline:1", func(ctx context.Context) (int, error) {
		<-release
		return 1, nil
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCache_ForgetsSettledGenerations(t *testing.T) {
	ctx := context.Background()
	c := New(NewMemoryStore(), time.Minute)

	for _, key := range []string{"simulations", "simulation:1", "projection:1"} {
		_, err := Fetch(ctx, c, key, func(ctx context.Context) (int, error) { return 1, nil })
		require.NoError(t, err)
	}
	_, err := Fetch(ctx, c, "timeline:1", func(ctx context.Context) (int, error) { return 0, errors.New("boom") })
	require.Error(t, err)
	assert.Equal(t, 0, c.pending())

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = Fetch(ctx, c, "simulation:2", func(ctx context.Context) (int, error) {
			close(started)
			<-release
			return 2, nil
		})
	}()
	<-started
	assert.Equal(t, 1, c.pending())

	c.Invalidate(ctx, "simulation")
	assert.Equal(t, 0, c.pending())
	close(release)
	<-done
	assert.Equal(t, 0, c.pending())
}
