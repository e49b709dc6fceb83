package testutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsers(t *testing.T) {
	rng := NewRNG(4711)

	users := rng.Users(50)
	require.Len(t, users, 50)

	ids := make(map[string]struct{}, len(users))
	for _, u := range users {
		assert.NotEmpty(t, u.Username)
		assert.NotEmpty(t, u.DisplayName)
		ids[u.ID] = struct{}{}
	}
	assert.Len(t, ids, 50, "IDs are unique")

	assert.Equal(t, "u0000", users[0].ID)
}

func TestUsersMixedCase(t *testing.T) {
	var lower, mixed int
	for _, u := range NewRNG(4711).Users(200) {
		if u.Username == strings.ToLower(u.Username) {
			lower++
		} else {
			mixed++
		}
	}
	assert.Positive(t, lower)
	assert.Positive(t, mixed)
}

func TestRecase(t *testing.T) {
	assert.Equal(t, "ann_bo", recase("ann", "bo", "_", 0))
	assert.Equal(t, "Ann_bo", recase("ann", "bo", "_", 1))
	assert.Equal(t, "annBo", recase("ann", "bo", "", 2))
	assert.Equal(t, "ANN.BO", recase("ann", "bo", ".", 3))
}

func TestUsersDeterministic(t *testing.T) {
	a := NewRNG(42).Users(20)
	b := NewRNG(42).Users(20)
	assert.Equal(t, a, b)

	rng := NewRNG(42)
	first := rng.Users(5)
	rng.Reset()
	assert.Equal(t, first, rng.Users(5))
	assert.Equal(t, int64(42), rng.Seed())
}

func TestQuery(t *testing.T) {
	rng := NewRNG(7)
	for i := 0; i < 100; i++ {
		w := rng.Word(4)
		q := rng.Query(w, 3)
		assert.NotEmpty(t, q)
		assert.LessOrEqual(t, len([]rune(q)), 3)
		assert.True(t, IsSubsequenceFold(q, w), "%q in %q", q, w)
	}

	assert.Equal(t, "", rng.Query("", 3))
}

func TestIsSubsequenceFold(t *testing.T) {
	tests := []struct {
		query, value string
		want         bool
	}{
		{"ali", "Alice A", true},
		{"ALI", "alice", true},
		{"aa", "Alice A", true},
		{"ila", "alice", false},
		{"xyz", "alice", false},
		{"", "alice", true},
		{"ë", "ZOË", true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsSubsequenceFold(tt.query, tt.value), "%q in %q", tt.query, tt.value)
	}
}

func TestAliceBob(t *testing.T) {
	users := AliceBob()
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Username)
	assert.Equal(t, "bob", users[1].Username)
}
