package scanner

import "strings"

// safeIdioms are environment lookups that mark the rest of a line as
// already remediated, whether the rewrite came from us or from a human.
var safeIdioms = []string{
	"process.env.",
	"os.getenv(",
	"os.Getenv(",
	"getenv(",
	"ENV[",
	"std::env::var(",
	"System.getenv(",
	"Environment.GetEnvironmentVariable(",
}

// IsAlreadySafe reports whether prefix, the text between the start of a line
// and a match, contains an environment lookup. It is a substring test, not a
// parse: unrecognised safe code is still reported.
func IsAlreadySafe(prefix string) bool {
	for _, idiom := range safeIdioms {
		if strings.Contains(prefix, idiom) {
			return true
		}
	}
	return false
}
