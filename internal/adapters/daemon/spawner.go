package daemon

import (
	"bufio"
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.trai.ch/genie/internal/core/domain"
	"go.trai.ch/zerr"
)

const (
	maxStartupWait    = 5 * time.Second
	announcementLines = 2
)

// Spawner implements ports.DaemonSpawner by re-executing the running binary.
type Spawner struct {
	executablePath string
}

// NewSpawner creates a spawner for the running executable.
func NewSpawner() (*Spawner, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to determine executable path")
	}
	return &Spawner{executablePath: exe}, nil
}

// Spawn starts the daemon in its own session and relays its announcement.
func (s *Spawner) Spawn(ctx context.Context, args []string, logPath string, out io.Writer) error {
	if err := os.MkdirAll(filepath.Dir(logPath), domain.DirPerm); err != nil {
		return zerr.Wrap(err, "failed to create log directory")
	}

	//nolint:gosec // G304: logPath is derived from the socket directory and genie name
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, domain.PrivateFilePerm)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to open daemon log"), "path", logPath)
	}
	defer func() { _ = logFile.Close() }()

	announceR, announceW, err := os.Pipe()
	if err != nil {
		return zerr.Wrap(err, "failed to create announcement pipe")
	}
	defer func() { _ = announceR.Close() }()

	//nolint:gosec // G204: executablePath is the running binary, args are its own command line
	cmd := exec.Command(s.executablePath, args...)
	cmd.Env = append(os.Environ(), domain.EnvDetached+"=1")
	cmd.Stdout = announceW
	cmd.Stderr = logFile
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid: true,
	}

	startErr := cmd.Start()
	_ = announceW.Close()
	if startErr != nil {
		return zerr.Wrap(startErr, domain.ErrDaemonSpawnFailed.Error())
	}

	go func() {
		_ = cmd.Wait()
	}()

	lines, err := readAnnouncement(ctx, announceR)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrDaemonSpawnFailed.Error()), "log", logPath)
	}
	_, err = io.WriteString(out, strings.Join(lines, "\n")+"\n")
	return err
}

// readAnnouncement waits for the daemon to print its name and socket path.
func readAnnouncement(ctx context.Context, r io.Reader) ([]string, error) {
	type result struct {
		lines []string
		err   error
	}
	done := make(chan result, 1)

	go func() {
		br := bufio.NewReader(r)
		lines := make([]string, 0, announcementLines)
		for len(lines) < announcementLines {
			line, err := br.ReadString('\n')
			if err != nil {
				done <- result{err: zerr.Wrap(err, "daemon exited before announcing its socket")}
				return
			}
			lines = append(lines, strings.TrimSuffix(line, "\n"))
		}
		done <- result{lines: lines}
	}()

	timer := time.NewTimer(maxStartupWait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		return nil, zerr.New("daemon failed to start within timeout")
	case res := <-done:
		return res.lines, res.err
	}
}
