package validate

import (
	"fmt"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
	lru "github.com/hashicorp/golang-lru/v2"
)

// PatternMatcher decides whether s satisfies the pattern constraint.
// A non-nil error counts as a failed match.
type PatternMatcher interface {
	MatchString(pattern, s string) (bool, error)
}

// SubstringMatcher treats the pattern as a plain needle.
type SubstringMatcher struct{}

func (SubstringMatcher) MatchString(pattern, s string) (bool, error) {
	return strings.Contains(s, pattern), nil
}

// DefaultMatchTimeout bounds a single regex evaluation.
const DefaultMatchTimeout = time.Second

// DefaultPatternCacheSize is the number of compiled patterns a RegexMatcher
// keeps.
const DefaultPatternCacheSize = 256

// RegexMatcher compiles patterns as ECMAScript regular expressions, the
// dialect form authors already write for browser-side validation. The most
// recently used compiled expressions are kept in a bounded LRU cache.
type RegexMatcher struct {
	timeout time.Duration
	cache   *lru.Cache[string, *regexp2.Regexp]
}

// MatcherOption configures a RegexMatcher.
type MatcherOption func(*matcherConfig)

type matcherConfig struct {
	cacheSize int
}

// WithCacheSize bounds the compiled pattern cache. Values below one select
// DefaultPatternCacheSize.
func WithCacheSize(n int) MatcherOption {
	return func(c *matcherConfig) {
		c.cacheSize = n
	}
}

// NewRegexMatcher returns a matcher whose evaluations give up after timeout.
// A zero timeout selects DefaultMatchTimeout.
func NewRegexMatcher(timeout time.Duration, opts ...MatcherOption) *RegexMatcher {
	if timeout <= 0 {
		timeout = DefaultMatchTimeout
	}
	cfg := matcherConfig{cacheSize: DefaultPatternCacheSize}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.cacheSize < 1 {
		cfg.cacheSize = DefaultPatternCacheSize
	}
	// lru.New only fails for a non-positive size.
	cache, _ := lru.New[string, *regexp2.Regexp](cfg.cacheSize)
	return &RegexMatcher{timeout: timeout, cache: cache}
}

func (m *RegexMatcher) MatchString(pattern, s string) (bool, error) {
	re, err := m.compile(pattern)
	if err != nil {
		return false, err
	}
	ok, err := re.MatchString(s)
	if err != nil {
		return false, fmt.Errorf("match pattern %q: %w", pattern, err)
	}
	return ok, nil
}

func (m *RegexMatcher) compile(pattern string) (*regexp2.Regexp, error) {
	if cached, ok := m.cache.Get(pattern); ok {
		return cached, nil
	}
	re, err := regexp2.Compile(pattern, regexp2.ECMAScript)
	if err != nil {
		return nil, fmt.Errorf("compile pattern %q: %w", pattern, err)
	}
	re.MatchTimeout = m.timeout
	m.cache.Add(pattern, re)
	return re, nil
}
