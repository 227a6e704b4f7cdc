// Package dispatch spawns fae's child processes.
//
// Three modes cover every call site: Detached launches the program and
// returns immediately (start), Wait inherits stdio and reports the exit code
// (start --wait, run), Capture blocks and collects combined output
// (dependency installs).
package dispatch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/bianoble/fae/internal/fault"
)

// Mode selects how Spawn waits for the child.
type Mode int

const (
	Detached Mode = iota
	Wait
	Capture
)

func (m Mode) String() string {
	switch m {
	case Detached:
		return "detached"
	case Wait:
		return "wait"
	case Capture:
		return "capture"
	}
	return "unknown"
}

// Spec describes one process to spawn.
type Spec struct {
	Path string
	Args []string

	// CmdLine, when set, is passed verbatim as the Windows command line.
	// Ignored elsewhere.
	CmdLine string

	Dir  string
	Env  []string // nil inherits the current environment
	Mode Mode

	// Timeout bounds Wait and Capture modes. Zero means no bound.
	Timeout time.Duration

	// OutputFile receives stdout when no shell performs the redirection.
	OutputFile   string
	AppendOutput bool

	// Stdio for Detached and Wait modes; nil means the parent's.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// String renders the attempted command for messages.
func (s Spec) String() string {
	if s.CmdLine != "" {
		return s.CmdLine
	}
	return strings.Join(append([]string{s.Path}, s.Args...), " ")
}

// Result describes a spawned process.
type Result struct {
	Pid      int
	ExitCode int    // -1 when the process was not waited for
	Output   []byte // Capture mode only
	Duration time.Duration
}

// Dispatcher spawns processes.
type Dispatcher interface {
	Spawn(ctx context.Context, spec Spec) (*Result, error)
}

// ErrTimeout is wrapped by Spawn when Spec.Timeout expires.
var ErrTimeout = errors.New("timed out")

// ExitError reports a waited-for child that exited non-zero.
type ExitError struct {
	Command string
	Code    int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with code %d", e.Command, e.Code)
}

// Exec is the os/exec Dispatcher.
type Exec struct {
	Logger *slog.Logger
}

// Spawn starts spec.Path. Failing to start is a fault.SpawnFailure naming the
// attempted command. A non-zero exit is not an error; it is in Result.ExitCode.
func (e *Exec) Spawn(ctx context.Context, spec Spec) (*Result, error) {
	log := e.logger().With("command", spec.String(), "mode", spec.Mode.String())

	var cmd *exec.Cmd
	cancel := func() {}
	if spec.Mode == Detached {
		// No context: cancellation must not kill a launched program.
		cmd = exec.Command(spec.Path, spec.Args...)
	} else {
		if spec.Timeout > 0 {
			ctx, cancel = context.WithTimeout(ctx, spec.Timeout)
		}
		cmd = exec.CommandContext(ctx, spec.Path, spec.Args...)
		cmd.WaitDelay = time.Second
	}
	defer cancel()

	cmd.Dir = spec.Dir
	cmd.Env = spec.Env
	configure(cmd, spec)

	var output bytes.Buffer
	switch spec.Mode {
	case Capture:
		cmd.Stdout = &output
		cmd.Stderr = &output
	default:
		cmd.Stdin = orReader(spec.Stdin, os.Stdin)
		cmd.Stdout = orWriter(spec.Stdout, os.Stdout)
		cmd.Stderr = orWriter(spec.Stderr, os.Stderr)
	}

	if spec.OutputFile != "" {
		f, err := openOutput(spec.OutputFile, spec.AppendOutput)
		if err != nil {
			return nil, fault.Wrap(fault.SpawnFailure, spec.String(), err)
		}
		defer f.Close()
		cmd.Stdout = f
	}

	start := time.Now()
	log.Debug("spawning")
	if err := cmd.Start(); err != nil {
		return nil, fault.Wrap(fault.SpawnFailure, spec.String(), err)
	}

	res := &Result{Pid: cmd.Process.Pid, ExitCode: -1}

	if spec.Mode == Detached {
		if err := cmd.Process.Release(); err != nil {
			log.Warn("releasing process", "error", err)
		}
		log.Debug("launched", "pid", res.Pid)
		return res, nil
	}

	err := cmd.Wait()
	res.Duration = time.Since(start)
	res.Output = output.Bytes()

	if ctx.Err() == context.DeadlineExceeded {
		return res, fmt.Errorf("%s %w after %s", spec.String(), ErrTimeout, spec.Timeout)
	}
	if ctx.Err() != nil {
		return res, fmt.Errorf("%s: %w", spec.String(), ctx.Err())
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		res.ExitCode = 0
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
	default:
		return res, fmt.Errorf("waiting for %s: %w", spec.String(), err)
	}

	log.Debug("exited", "pid", res.Pid, "code", res.ExitCode, "duration", res.Duration)
	return res, nil
}

func (e *Exec) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openOutput(path string, appendOutput bool) (*os.File, error) {
	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if appendOutput {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}
	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening output file %s: %w", path, err)
	}
	return f, nil
}

func orReader(r io.Reader, def io.Reader) io.Reader {
	if r != nil {
		return r
	}
	return def
}

func orWriter(w io.Writer, def io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return def
}
