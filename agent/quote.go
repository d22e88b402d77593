package agent

import (
	"regexp"
	"strings"
)

var safeArgPattern = regexp.MustCompile(`^[a-zA-Z0-9@%_+=:,./-]+$`)

// shellQuote quotes a single argument for inclusion in a command string fed
// to a shell-like execution surface. Arguments that need no quoting are left
// bare to keep the rendered command readable.
func shellQuote(arg string) string {
	if arg != "" && safeArgPattern.MatchString(arg) {
		return arg
	}
	return "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'"
}

// renderCommand joins a program and its arguments into a command string,
// quoting each argument as needed.
func renderCommand(parts []string) string {
	quoted := make([]string, len(parts))
	for i, part := range parts {
		quoted[i] = shellQuote(part)
	}
	return strings.Join(quoted, " ")
}
