package optimistic

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounter_Apply(t *testing.T) {
	ctx := context.Background()
	c := NewCounter(10)

	t.Run("visible before commit returns", func(t *testing.T) {
		v, err := c.Apply(ctx, 1, func(context.Context) (int64, error) {
			assert.Equal(t, int64(11), c.Value())
			return Unknown, nil
		})
		require.NoError(t, err)
		assert.Equal(t, int64(11), v)
	})

	t.Run("reconciles to authoritative", func(t *testing.T) {
		v, err := c.Apply(ctx, 1, func(context.Context) (int64, error) {
			return 42, nil
		})
		require.NoError(t, err)
		assert.Equal(t, int64(42), v)
		assert.Equal(t, int64(42), c.Value())
	})

	t.Run("rollback", func(t *testing.T) {
		boom := errors.New("network down")
		v, err := c.Apply(ctx, -1, func(context.Context) (int64, error) {
			assert.Equal(t, int64(41), c.Value())
			return 0, boom
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrRolledBack)
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, int64(42), v)
		assert.Equal(t, int64(42), c.Value())
	})
}

func TestCounter_Overlapping(t *testing.T) {
	ctx := context.Background()
	c := NewCounter(0)

	release := make(chan struct{})
	started := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = c.Apply(ctx, 1, func(context.Context) (int64, error) {
			close(started)
			<-release
			return 0, errors.New("fail")
		})
	}()
	<-started

	// The second delta commits while the first is in flight; the backend
	// does not know about the first yet.
	v, err := c.Apply(ctx, 1, func(context.Context) (int64, error) { return 1, nil })
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)

	close(release)
	wg.Wait()
	assert.Equal(t, int64(1), c.Value())
}

func TestCounter_Set(t *testing.T) {
	c := NewCounter(3)
	c.Set(7)
	assert.Equal(t, int64(7), c.Value())
}

func TestToggle(t *testing.T) {
	ctx := context.Background()
	tg := NewToggle(false, 4)

	var calls []bool
	ok := func(_ context.Context, on bool) (int64, error) {
		calls = append(calls, on)
		return Unknown, nil
	}

	changed, err := tg.Set(ctx, true, ok)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.True(t, tg.On())
	assert.Equal(t, int64(5), tg.Count())

	// Already on: no commit.
	changed, err = tg.Set(ctx, true, ok)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, []bool{true}, calls)

	boom := errors.New("permission denied")
	changed, err = tg.Set(ctx, false, func(_ context.Context, on bool) (int64, error) {
		assert.False(t, tg.On())
		assert.Equal(t, int64(4), tg.Count())
		return 0, boom
	})
	assert.False(t, changed)
	assert.ErrorIs(t, err, ErrRolledBack)
	assert.ErrorIs(t, err, boom)
	assert.True(t, tg.On())
	assert.Equal(t, int64(5), tg.Count())

	changed, err = tg.Set(ctx, false, func(context.Context, bool) (int64, error) { return 9, nil })
	require.NoError(t, err)
	assert.True(t, changed)
	assert.False(t, tg.On())
	assert.Equal(t, int64(9), tg.Count())
}

func TestToggle_LaterSetWins(t *testing.T) {
	ctx := context.Background()
	tg := NewToggle(false, 0)

	release := make(chan struct{})
	started := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := tg.Set(ctx, true, func(context.Context, bool) (int64, error) {
			close(started)
			<-release
			return 0, errors.New("timeout")
		})
		assert.Error(t, err)
	}()
	<-started

	changed, err := tg.Set(ctx, false, func(context.Context, bool) (int64, error) { return 0, nil })
	require.NoError(t, err)
	assert.True(t, changed)

	close(release)
	wg.Wait()

	// The failed like must not resurrect the "off" state the user chose later.
	assert.False(t, tg.On())
	assert.Equal(t, int64(0), tg.Count())
}

// inFlight starts tg.Set(on) with a commit that blocks until the returned
// function is called with the commit's outcome.
func inFlight(t *testing.T, tg *Toggle, on bool) func(count int64, err error) {
	t.Helper()

	type outcome struct {
		count int64
		err   error
	}
	result := make(chan outcome)
	started := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		_, _ = tg.Set(context.Background(), on, func(context.Context, bool) (int64, error) {
			close(started)
			o := <-result
			return o.count, o.err
		})
	}()
	<-started

	return func(count int64, err error) {
		result <- outcome{count, err}
		<-done
	}
}

func TestToggle_SupersededFailure(t *testing.T) {
	ctx := context.Background()
	timeout := errors.New("timeout")
	ok := func(context.Context, bool) (int64, error) { return Unknown, nil }
	fail := func(context.Context, bool) (int64, error) { return 0, timeout }

	t.Run("later set succeeds", func(t *testing.T) {
		tg := NewToggle(false, 10)

		finish := inFlight(t, tg, true)
		assert.Equal(t, int64(11), tg.Count())

		changed, err := tg.Set(ctx, false, ok)
		require.NoError(t, err)
		assert.True(t, changed)

		finish(0, timeout)

		// The like was never persisted, so the count is unchanged.
		assert.False(t, tg.On())
		assert.Equal(t, int64(10), tg.Count())
	})

	t.Run("earlier set fails first", func(t *testing.T) {
		tg := NewToggle(false, 10)

		finishLike := inFlight(t, tg, true)
		finishUnlike := inFlight(t, tg, false)

		finishLike(0, timeout)
		assert.False(t, tg.On())
		assert.Equal(t, int64(10), tg.Count())

		finishUnlike(Unknown, nil)
		assert.False(t, tg.On())
		assert.Equal(t, int64(10), tg.Count())
	})

	t.Run("both fail", func(t *testing.T) {
		tg := NewToggle(false, 10)

		finish := inFlight(t, tg, true)

		changed, err := tg.Set(ctx, false, fail)
		assert.False(t, changed)
		assert.ErrorIs(t, err, ErrRolledBack)

		finish(0, timeout)

		assert.False(t, tg.On())
		assert.Equal(t, int64(10), tg.Count())
	})

	t.Run("earlier set succeeds late", func(t *testing.T) {
		tg := NewToggle(false, 10)

		finish := inFlight(t, tg, true)
		finishUnlike := inFlight(t, tg, false)
		assert.Equal(t, int64(10), tg.Count())

		finish(Unknown, nil)
		assert.False(t, tg.On())
		assert.Equal(t, int64(10), tg.Count())

		// The unlike fails, so the persisted like is displayed again.
		finishUnlike(0, timeout)
		assert.True(t, tg.On())
		assert.Equal(t, int64(11), tg.Count())
	})

	t.Run("stale success is ignored", func(t *testing.T) {
		tg := NewToggle(false, 10)

		finish := inFlight(t, tg, true)

		changed, err := tg.Set(ctx, false, func(context.Context, bool) (int64, error) { return 10, nil })
		require.NoError(t, err)
		assert.True(t, changed)

		finish(11, nil)

		assert.False(t, tg.On())
		assert.Equal(t, int64(10), tg.Count())
	})
}

func TestLabel(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 likes"},
		{1, "1 like"},
		{2, "2 likes"},
		{-3, "0 likes"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Label(tt.n, "like", "likes"))
	}
	assert.Equal(t, "1 follower", Label(1, "follower", "followers"))
}
