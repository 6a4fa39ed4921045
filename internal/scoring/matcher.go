package scoring

// #region matcher-interface

// Matcher decides whether an input's tokens hit a candidate keyword set.
// Implementations must be deterministic and order-independent: the same
// token sets produce the same answer regardless of call history. The
// default is plain token overlap; callers may inject a different strategy.
type Matcher interface {
	Match(inputTokens, candidateTokens []string) bool
}

// #endregion matcher-interface

// #region token-matcher

// TokenMatcher matches when at least MinShared tokens appear in both sets.
type TokenMatcher struct {
	MinShared int
}

// NewTokenMatcher returns the reference matcher requiring a single shared token.
func NewTokenMatcher() TokenMatcher {
	return TokenMatcher{MinShared: 1}
}

// Match reports whether the two token sets share at least MinShared tokens.
func (m TokenMatcher) Match(inputTokens, candidateTokens []string) bool {
	min := m.MinShared
	if min < 1 {
		min = 1
	}
	return sharedKeywords(inputTokens, candidateTokens) >= min
}

// #endregion token-matcher
