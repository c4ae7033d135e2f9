// Package normerrors holds the error helpers shared by the normalizer packages.
//
// The rewrite engine itself has no recoverable error channel: a malformed tree
// reaching a rule is a bug in the caller and is surfaced through the helpers in
// this file.
package normerrors

import (
	"fmt"
	"os"
	"strings"
)

// Based on: https://stackoverflow.com/a/58945030
func isInTests() bool {
	for _, arg := range os.Args {
		if strings.HasPrefix(arg, "-test.") {
			return true
		}
	}
	return false
}

// MustPanic panics with the formatted message. It is used for invariant
// violations from which no caller could meaningfully recover, such as an
// unknown composite kind reaching a rewrite rule.
func MustPanic(format string, args ...any) {
	panic(fmt.Sprintf(format, args...))
}

// MustBugf returns an error representing a bug in the system. Will panic if run under testing.
func MustBugf(format string, args ...any) error {
	if isInTests() {
		panic(fmt.Sprintf(format, args...))
	}

	return fmt.Errorf("BUG: "+format, args...)
}
