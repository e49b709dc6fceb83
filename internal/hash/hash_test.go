package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/usersearch/model"
)

func TestCorpus(t *testing.T) {
	fields := []string{model.FieldUsername, model.FieldDisplayName}
	a := []model.User{
		{ID: "1", Username: "alice", DisplayName: "Alice A"},
		{ID: "2", Username: "bob", DisplayName: "Bob B"},
	}

	base := Corpus(a, fields)
	assert.Equal(t, base, Corpus(a, fields), "deterministic")

	b := []model.User{a[0], a[1]}
	assert.Equal(t, base, Corpus(b, fields), "content-addressed")

	t.Run("order matters", func(t *testing.T) {
		assert.NotEqual(t, base, Corpus([]model.User{a[1], a[0]}, fields))
	})

	t.Run("fields matter", func(t *testing.T) {
		assert.NotEqual(t, base, Corpus(a, []string{model.FieldUsername}))
		assert.NotEqual(t, base, Corpus(a, []string{model.FieldDisplayName, model.FieldUsername}))
	})

	t.Run("values matter", func(t *testing.T) {
		c := []model.User{a[0], {ID: "2", Username: "bobby", DisplayName: "Bob B"}}
		assert.NotEqual(t, base, Corpus(c, fields))
	})

	t.Run("ids matter", func(t *testing.T) {
		c := []model.User{a[0], {ID: "3", Username: "bob", DisplayName: "Bob B"}}
		assert.NotEqual(t, base, Corpus(c, fields))
	})

	t.Run("boundaries", func(t *testing.T) {
		x := []model.User{{ID: "1", Username: "ab", DisplayName: "c"}}
		y := []model.User{{ID: "1", Username: "a", DisplayName: "bc"}}
		assert.NotEqual(t, Corpus(x, fields), Corpus(y, fields))
	})

	t.Run("missing differs from empty", func(t *testing.T) {
		u := []model.User{{ID: "1"}}
		assert.NotEqual(t, Corpus(u, []string{"missingField"}), Corpus(u, []string{model.FieldUsername}))
	})
}

func TestCRC32C(t *testing.T) {
	// Known answer for "123456789".
	assert.Equal(t, uint32(0xe3069283), CRC32C([]byte("123456789")))
}

func TestString(t *testing.T) {
	assert.Equal(t, String("alice"), String("alice"))
	assert.NotEqual(t, String("alice"), String("bob"))
}
