//go:build unix

package assertenv

import (
	"os"
	"os/exec"
	"syscall"
)

var (
	// Sent to our pid only; relayed to the child.
	forwardedSignals = []os.Signal{syscall.SIGTERM, syscall.SIGHUP}
	// Generated by the terminal for the whole foreground group.
	groupSignals = []os.Signal{syscall.SIGINT, syscall.SIGQUIT}
)

// ExecReplacer replaces the current process image with the program via execve.
// The process keeps its pid and open file descriptors.
type ExecReplacer struct{}

func (ExecReplacer) Mode() string {
	return "exec"
}

// Replace only returns when the program cannot be executed.
func (ExecReplacer) Replace(argv []string, env []string) (int, error) {
	if len(argv) == 0 {
		return 0, ErrEmptyCommand
	}

	path, err := exec.LookPath(argv[0])
	if err != nil {
		return 0, &LaunchError{Program: argv[0], Err: err}
	}

	if err := syscall.Exec(path, argv, env); err != nil {
		return 0, &LaunchError{Program: argv[0], Err: err}
	}
	return 0, nil
}

func defaultReplacer() Replacer {
	return ExecReplacer{}
}

// exitStatus reports the child's exit code, or 128+signal when it was killed.
func exitStatus(state *os.ProcessState) int {
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal())
	}
	return state.ExitCode()
}
