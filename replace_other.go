//go:build !unix

package assertenv

import (
	"os"
)

var (
	forwardedSignals []os.Signal
	// The console delivers Ctrl-C to every attached process.
	groupSignals = []os.Signal{os.Interrupt}
)

func defaultReplacer() Replacer {
	return NewSpawnReplacer()
}

func exitStatus(state *os.ProcessState) int {
	if code := state.ExitCode(); code >= 0 {
		return code
	}
	return 1
}
