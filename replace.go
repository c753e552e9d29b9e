package assertenv

import (
	"errors"
	"io"
	"os"
	"os/exec"
	"os/signal"
)

// Replacer hands the current process over to another program.
type Replacer interface {
	// Replace runs argv[0] with argv and env. Image-replacing implementations
	// only return on failure; spawning implementations return the child's
	// exit code. Failures to start the program are *LaunchError.
	Replace(argv []string, env []string) (int, error)

	// Mode names the strategy ("exec" or "spawn") for diagnostics.
	Mode() string
}

// SpawnReplacer runs the program as a child with inherited standard streams,
// relays termination signals to it, and reports its exact exit status.
// Terminal signals such as Ctrl-C are delivered to the child once, by the
// terminal, since both processes share the foreground process group.
// It is the fallback on platforms without process image replacement.
type SpawnReplacer struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewSpawnReplacer creates a SpawnReplacer bound to the process's standard streams.
func NewSpawnReplacer() *SpawnReplacer {
	return &SpawnReplacer{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

func (s *SpawnReplacer) Mode() string {
	return "spawn"
}

func (s *SpawnReplacer) Replace(argv []string, env []string) (int, error) {
	if len(argv) == 0 {
		return 0, ErrEmptyCommand
	}

	path, err := exec.LookPath(argv[0])
	if err != nil {
		return 0, &LaunchError{Program: argv[0], Err: err}
	}

	cmd := exec.Command(path)
	cmd.Args = argv
	cmd.Env = env
	cmd.Stdin = s.Stdin
	cmd.Stdout = s.Stdout
	cmd.Stderr = s.Stderr

	// The child shares our process group, so terminal signals already
	// reach it. Those are caught and dropped; signals sent to our pid
	// alone are relayed.
	sigCh := notify(forwardedSignals)
	defer signal.Stop(sigCh)

	groupCh := notify(groupSignals)
	defer signal.Stop(groupCh)

	if err := cmd.Start(); err != nil {
		return 0, &LaunchError{Program: argv[0], Err: err}
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case sig := <-sigCh:
				_ = cmd.Process.Signal(sig)
			case <-groupCh:
			case <-done:
				return
			}
		}
	}()

	err = cmd.Wait()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitStatus(exitErr.ProcessState), nil
	}
	return 0, &LaunchError{Program: argv[0], Err: err}
}

// notify subscribes to sigs. An empty list yields a channel that never
// receives, since signal.Notify with no signals means all of them.
func notify(sigs []os.Signal) chan os.Signal {
	ch := make(chan os.Signal, 1)
	if len(sigs) > 0 {
		signal.Notify(ch, sigs...)
	}
	return ch
}

// DefaultReplacer returns ExecReplacer where the platform can replace the
// process image, and SpawnReplacer elsewhere.
func DefaultReplacer() Replacer {
	return defaultReplacer()
}
