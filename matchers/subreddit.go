package matchers

import "unicode"

const (
	minSubredditLen = 2
	maxSubredditLen = 21
)

// ValidSubredditName reports whether name can be a subreddit: 2 to 21 ASCII
// letters, digits or underscores.
func ValidSubredditName(name string) bool {
	if len(name) < minSubredditLen || len(name) > maxSubredditLen {
		return false
	}
	for _, r := range name {
		if !isWordChar(r) {
			return false
		}
	}
	return true
}

func isWordChar(r rune) bool {
	return r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_')
}
