package testutil

import (
	"go.uber.org/goleak"
)

// GoLeakIgnores returns the options shared by every leak check in the module.
// Goroutines already running when the check is set up, such as those started
// by the test binary itself, are not reported.
func GoLeakIgnores() []goleak.Option {
	return []goleak.Option{
		goleak.IgnoreCurrent(),
	}
}
