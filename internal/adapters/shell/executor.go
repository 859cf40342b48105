// Package shell runs the commands supervised by genie daemons.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/creack/pty"
	"go.trai.ch/genie/internal/core/domain"
	"go.trai.ch/genie/internal/core/ports"
	"go.trai.ch/zerr"
)

// waitDelay bounds how long Wait keeps reading pipes held open by grandchildren
// after the child itself has exited or been killed.
const waitDelay = 2 * time.Second

// Executor implements ports.CommandRunner and ports.ProcessStarter using os/exec and pty.
type Executor struct {
	logger ports.Logger
}

// NewExecutor creates a new Executor.
func NewExecutor(logger ports.Logger) *Executor {
	return &Executor{
		logger: logger,
	}
}

// Run executes c to completion, capturing both output streams.
// Under a TTY the streams are merged into Stdout.
func (e *Executor) Run(ctx context.Context, c domain.Command) (*domain.CommandResult, error) {
	if len(c.Argv) == 0 {
		return nil, domain.ErrEmptyCommand
	}

	stdoutLog := &logWriter{logger: e.logger, stream: "stdout"}
	stderrLog := &logWriter{logger: e.logger, stream: "stderr"}
	defer func() {
		_ = stdoutLog.Close()
		_ = stderrLog.Close()
	}()

	var stdout, stderr bytes.Buffer
	cmd := newCommand(ctx, c.Argv)

	var err error
	if c.TTY {
		err = runTTY(cmd, io.MultiWriter(&stdout, stdoutLog))
	} else {
		cmd.Stdout = io.MultiWriter(&stdout, stdoutLog)
		cmd.Stderr = io.MultiWriter(&stderr, stderrLog)
		cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
		if startErr := cmd.Start(); startErr != nil {
			return nil, zerr.With(zerr.Wrap(startErr, domain.ErrCommandStartFailed.Error()), "command", c.String())
		}
		err = cmd.Wait()
	}

	var startErr *startError
	if errors.As(err, &startErr) {
		return nil, zerr.With(zerr.Wrap(startErr.err, domain.ErrCommandStartFailed.Error()), "command", c.String())
	}
	return buildResult(cmd, err, stdout.Bytes(), stderr.Bytes())
}

type startError struct{ err error }

func (e *startError) Error() string { return e.err.Error() }

// runTTY starts cmd under a pseudo-terminal and copies its output to out until it exits.
func runTTY(cmd *exec.Cmd, out io.Writer) error {
	ptmx, err := pty.Start(cmd)
	if err != nil {
		return &startError{err: err}
	}

	ioDone := make(chan struct{})
	go func() {
		defer close(ioDone)
		// Reading the master returns EIO once every slave fd is closed.
		_, _ = io.Copy(out, ptmx)
	}()

	waitErr := cmd.Wait()
	<-ioDone
	_ = ptmx.Close()
	return waitErr
}

// buildResult classifies the outcome of Wait. A child that ran is always a
// result, whatever its status; only a failure to wait is an error.
func buildResult(cmd *exec.Cmd, waitErr error, stdout, stderr []byte) (*domain.CommandResult, error) {
	state := cmd.ProcessState
	if state == nil {
		return nil, zerr.Wrap(waitErr, "failed to wait for command")
	}
	code := state.ExitCode()
	return &domain.CommandResult{
		ExitCode: code,
		Exited:   code >= 0,
		Stdout:   stdout,
		Stderr:   stderr,
	}, nil
}

// Start spawns argv with stdin closed and separate stdout and stderr pipes.
func (e *Executor) Start(ctx context.Context, argv []string) (ports.Process, error) {
	if len(argv) == 0 {
		return nil, domain.ErrEmptyCommand
	}

	cmd := newCommand(ctx, argv)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrStreamUnavailable.Error())
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrStreamUnavailable.Error())
	}

	if err := cmd.Start(); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCommandStartFailed.Error()), "command", strings.Join(argv, " "))
	}
	e.logger.Debug("started " + strings.Join(argv, " "))

	return &pipeProcess{cmd: cmd, stdout: stdout, stderr: stderr}, nil
}

type pipeProcess struct {
	cmd    *exec.Cmd
	stdout io.Reader
	stderr io.Reader
}

func (p *pipeProcess) Stdout() io.Reader { return p.stdout }

func (p *pipeProcess) Stderr() io.Reader { return p.stderr }

func (p *pipeProcess) Wait() error {
	return p.cmd.Wait()
}

// newCommand builds a command that kills its whole process group when ctx is done.
func newCommand(ctx context.Context, argv []string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...) //nolint:gosec // user provided command
	cmd.Cancel = func() error {
		return killGroup(cmd)
	}
	cmd.WaitDelay = waitDelay
	return cmd
}

func killGroup(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	// Both Setpgid and the setsid done by pty make the child its own group leader.
	err := syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	if errors.Is(err, syscall.ESRCH) {
		return nil
	}
	return err
}

// logWriter echoes child output line by line at debug level.
type logWriter struct {
	mu     sync.Mutex
	logger ports.Logger
	stream string
	buf    []byte
}

func (w *logWriter) Write(p []byte) (n int, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf = append(w.buf, p...)

	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}

		w.logLine(w.buf[:i])
		w.buf = w.buf[i+1:]
	}

	return len(p), nil
}

func (w *logWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.buf) > 0 {
		w.logLine(w.buf)
		w.buf = nil
	}
	return nil
}

func (w *logWriter) logLine(line []byte) {
	// PTYs may introduce \r. Remove it.
	msg := strings.TrimSuffix(string(line), "\r")
	w.logger.Debug(w.stream + ": " + msg)
}
