package testutil

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"unicode"

	"github.com/hupe1980/usersearch/model"
)

var syllables = []string{
	"al", "an", "bo", "ca", "da", "el", "fa", "gi", "ha", "is",
	"jo", "ka", "li", "ma", "ne", "ol", "pa", "ri", "sa", "te",
	"ul", "vi", "wa", "xe", "yo", "zu",
}

var separators = []string{"", "", "", "_", ".", "-"}

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Word returns a pronounceable lowercase word of 1 to maxSyllables syllables.
func (r *RNG) Word(maxSyllables int) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.word(maxSyllables)
}

func (r *RNG) word(maxSyllables int) string {
	n := 1 + r.rand.Intn(maxSyllables)
	var sb strings.Builder
	for i := 0; i < n; i++ {
		sb.WriteString(syllables[r.rand.Intn(len(syllables))])
	}
	return sb.String()
}

// Users generates n users with unique IDs ("u0000", "u0001", ...), usernames
// built from syllables and separators in mixed capitalisation (lower, Title,
// camelCase, UPPER), and capitalized two-word display names.
func (r *RNG) Users(n int) []model.User {
	r.mu.Lock()
	defer r.mu.Unlock()

	users := make([]model.User, n)
	for i := range users {
		first := r.word(3)
		last := r.word(2)
		sep := separators[r.rand.Intn(len(separators))]
		users[i] = model.User{
			ID:          fmt.Sprintf("u%04d", i),
			Username:    recase(first, last, sep, r.rand.Intn(4)),
			DisplayName: capitalize(first) + " " + capitalize(last),
		}
	}
	return users
}

// Query picks a random subsequence of s of length up to maxLen, which is
// guaranteed to match s.
func (r *RNG) Query(s string, maxLen int) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	runes := []rune(s)
	if len(runes) == 0 || maxLen <= 0 {
		return ""
	}

	var sb strings.Builder
	taken := 0
	for i := 0; i < len(runes) && taken < maxLen; i++ {
		if r.rand.Intn(2) == 0 {
			sb.WriteRune(runes[i])
			taken++
		}
	}
	if taken == 0 {
		sb.WriteRune(runes[0])
	}
	return sb.String()
}

// AliceBob returns the two-user reference corpus.
func AliceBob() []model.User {
	return []model.User{
		{ID: "1", Username: "alice", DisplayName: "Alice A"},
		{ID: "2", Username: "bob", DisplayName: "Bob B"},
	}
}

// IsSubsequenceFold reports whether query occurs in value as a subsequence,
// ignoring case.
func IsSubsequenceFold(query, value string) bool {
	q := []rune(query)
	i := 0
	for _, r := range value {
		if i == len(q) {
			break
		}
		if equalFold(r, q[i]) {
			i++
		}
	}
	return i == len(q)
}

func equalFold(a, b rune) bool {
	if a == b {
		return true
	}
	for f := unicode.SimpleFold(a); f != a; f = unicode.SimpleFold(f) {
		if f == b {
			return true
		}
	}
	return false
}

func recase(first, last, sep string, style int) string {
	switch style {
	case 1:
		return capitalize(first) + sep + last
	case 2:
		return first + sep + capitalize(last)
	case 3:
		return strings.ToUpper(first + sep + last)
	default:
		return first + sep + last
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
