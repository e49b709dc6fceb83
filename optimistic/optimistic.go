// Package optimistic applies user actions locally before the backend confirms
// them, and undoes them when it does not.
//
// Counter models a displayed count (likes, followers). Toggle models a binary
// relation with an attached count (liked/unliked, following/not following).
// Both are safe for concurrent use. Counter reconciles overlapping operations
// by tracking the deltas still in flight; Toggle lets the most recent Set win.
package optimistic

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrRolledBack wraps a commit error after the optimistic change was undone.
var ErrRolledBack = errors.New("optimistic: rolled back")

// Unknown is returned by a commit that has no authoritative count to report.
const Unknown int64 = -1

// CommitFunc persists a change. It returns the authoritative count after the
// change, or Unknown.
type CommitFunc func(ctx context.Context) (int64, error)

// Counter is an optimistically updated count.
type Counter struct {
	mu      sync.Mutex
	value   int64
	pending int64
}

// NewCounter creates a counter starting at initial.
func NewCounter(initial int64) *Counter {
	return &Counter{value: initial}
}

// Value returns the displayed count, including in-flight deltas.
func (c *Counter) Value() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Set replaces the confirmed count. In-flight deltas stay applied on top.
func (c *Counter) Set(v int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = v + c.pending
}

// Apply adds delta immediately and then runs commit.
//
// On success the counter reconciles to the authoritative count (plus any
// other deltas still in flight) when commit reports one. On failure delta is
// subtracted again and the error is returned wrapped in ErrRolledBack.
func (c *Counter) Apply(ctx context.Context, delta int64, commit CommitFunc) (int64, error) {
	c.mu.Lock()
	c.value += delta
	c.pending += delta
	c.mu.Unlock()

	authoritative, err := commit(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.pending -= delta
	if err != nil {
		c.value -= delta
		return c.value, fmt.Errorf("%w: %w", ErrRolledBack, err)
	}
	if authoritative != Unknown {
		c.value = authoritative + c.pending
	}
	return c.value, nil
}

// ToggleFunc persists the new state of a toggle.
type ToggleFunc func(ctx context.Context, on bool) (int64, error)

// Toggle is an optimistically updated on/off relation with a count.
//
// Commits send the desired state, not a delta, so the most recent Set decides
// what is displayed. The count is kept as the last known backend count plus
// the effect of the displayed state differing from the last committed one.
type Toggle struct {
	mu           sync.Mutex
	on           bool
	generation   uint64
	confirmed    bool
	confirmedGen uint64
	base         int64
}

// NewToggle creates a toggle in state on with the given count.
func NewToggle(on bool, count int64) *Toggle {
	return &Toggle{on: on, confirmed: on, base: count}
}

// On reports the displayed state.
func (t *Toggle) On() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.on
}

// Count returns the displayed count.
func (t *Toggle) Count() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.count()
}

func (t *Toggle) count() int64 {
	return t.base + weight(t.on) - weight(t.confirmed)
}

func weight(on bool) int64 {
	if on {
		return 1
	}
	return 0
}

// Set switches the toggle to on, adjusting the count by one, and commits.
//
// It reports false without calling commit if the toggle is already in the
// requested state. On failure state and count fall back to the last
// committed state, unless a later Set changed the state in the meantime: the
// later Set then stands, and the failed one leaves no trace in the count.
func (t *Toggle) Set(ctx context.Context, on bool, commit ToggleFunc) (bool, error) {
	t.mu.Lock()
	if t.on == on {
		t.mu.Unlock()
		return false, nil
	}
	t.on = on
	t.generation++
	gen := t.generation
	t.mu.Unlock()

	authoritative, err := commit(ctx, on)

	t.mu.Lock()
	defer t.mu.Unlock()

	if err != nil {
		if t.generation == gen {
			t.on = t.confirmed
		}
		return false, fmt.Errorf("%w: %w", ErrRolledBack, err)
	}

	// A commit overtaken by a later, already confirmed one is stale.
	if gen > t.confirmedGen {
		if authoritative != Unknown {
			t.base = authoritative
		} else {
			t.base += weight(on) - weight(t.confirmed)
		}
		t.confirmed = on
		t.confirmedGen = gen
	}
	return true, nil
}

// Label formats a count with its noun, e.g. "1 like" or "3 likes".
// Negative counts render as zero.
func Label(n int64, singular, plural string) string {
	if n < 0 {
		n = 0
	}
	if n == 1 {
		return "1 " + singular
	}
	return fmt.Sprintf("%d %s", n, plural)
}
