package validate

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegexMatcher(t *testing.T) {
	m := NewRegexMatcher(0)

	ok, err := m.MatchString(`^[A-Z][a-z]+$`, "Alice")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = m.MatchString(`^[A-Z][a-z]+$`, "alice")
	require.NoError(t, err)
	assert.False(t, ok)

	// Unanchored patterns match anywhere, like substring containment.
	ok, err = m.MatchString("ell", "hello")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRegexMatcher_CachesCompiledPatterns(t *testing.T) {
	m := NewRegexMatcher(time.Second)
	_, err := m.MatchString(`\d+`, "1")
	require.NoError(t, err)

	first, ok := m.cache.Get(`\d+`)
	require.True(t, ok)

	_, err = m.MatchString(`\d+`, "2")
	require.NoError(t, err)
	second, _ := m.cache.Get(`\d+`)
	assert.Same(t, first, second)
}

func TestRegexMatcher_CacheIsBounded(t *testing.T) {
	m := NewRegexMatcher(0, WithCacheSize(8))
	for i := range 1000 {
		_, err := m.MatchString(fmt.Sprintf("^x%d$", i), "x1")
		require.NoError(t, err)
	}
	assert.Equal(t, 8, m.cache.Len())

	// The most recent patterns survive eviction.
	_, ok := m.cache.Get("^x999$")
	assert.True(t, ok)
	_, ok = m.cache.Get("^x0$")
	assert.False(t, ok)
}

func TestRegexMatcher_DefaultCacheSize(t *testing.T) {
	m := NewRegexMatcher(0, WithCacheSize(0))
	for i := range DefaultPatternCacheSize + 10 {
		_, err := m.MatchString(fmt.Sprintf("p%d", i), "p")
		require.NoError(t, err)
	}
	assert.Equal(t, DefaultPatternCacheSize, m.cache.Len())
}

func TestRegexMatcher_InvalidPattern(t *testing.T) {
	ok, err := NewRegexMatcher(0).MatchString(`[a-`, "a")
	assert.False(t, ok)
	assert.ErrorContains(t, err, "compile pattern")
}

func TestRegexMatcher_Timeout(t *testing.T) {
	m := NewRegexMatcher(10 * time.Millisecond)
	ok, err := m.MatchString(`^(a+)+$`, strings.Repeat("a", 40)+"!")
	assert.False(t, ok)
	assert.Error(t, err)
}

func TestSubstringMatcher(t *testing.T) {
	ok, err := SubstringMatcher{}.MatchString("@", "a@b")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = SubstringMatcher{}.MatchString("[", "abc")
	assert.False(t, ok)
}
