// Package sanitize normalizes user-supplied strings into names that are safe
// for the contexts arbor uses them in.
package sanitize

import (
	"regexp"
	"strings"
)

var (
	// sessionPartReplacer handles common separators in free-form titles
	sessionPartReplacer = strings.NewReplacer(
		" ", "-",
		"/", "-",
		"\\", "-",
		":", "-",
	)

	// nonSessionCharRegex matches characters not allowed in session names
	nonSessionCharRegex = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

	// multiDashRegex matches multiple consecutive dashes
	multiDashRegex = regexp.MustCompile(`-+`)
)

// ForSessionName sanitizes a free-form string into a session name usable as
// a branch name and a worktree directory name. The result may still be
// empty; callers validate before use.
func ForSessionName(s string) string {
	if s == "" {
		return ""
	}

	s = sessionPartReplacer.Replace(s)
	s = nonSessionCharRegex.ReplaceAllString(s, "-")
	s = multiDashRegex.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-._")

	if len(s) > 100 {
		s = s[:100]
		s = strings.Trim(s, "-._")
	}

	return s
}
