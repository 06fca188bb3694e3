package platform

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/cwveysey/coding-agent-notifications/internal/apperr"
)

// Runner launches external programs
type Runner interface {
	// Output runs the program to completion and returns its stdout
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
	// Start launches the program and returns without waiting for it
	Start(name string, args ...string) error
	// LookPath reports where name is found on PATH
	LookPath(name string) (string, error)
}

// ExecRunner runs programs with os/exec
type ExecRunner struct {
	logger *slog.Logger
}

// NewExecRunner creates a runner that logs launched processes to logger
func NewExecRunner(logger *slog.Logger) *ExecRunner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ExecRunner{logger: logger}
}

// Output runs name and returns stdout. A non-zero exit includes stderr in
// the error.
func (r *ExecRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = "command failed"
		}
		return nil, apperr.Wrap(apperr.ErrExternalTool, name, detail, err)
	}
	return out, nil
}

// Start launches name in the background. A goroutine waits for it so the
// process is reaped; its exit status is only logged.
func (r *ExecRunner) Start(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return apperr.Wrap(apperr.ErrExternalTool, name, "failed to launch", err)
	}

	pid := cmd.Process.Pid
	r.logger.Debug("process launched", slog.String("command", name), slog.Int("pid", pid))

	go func() {
		if err := cmd.Wait(); err != nil {
			r.logger.Warn("process exited with error",
				slog.String("command", name),
				slog.Int("pid", pid),
				slog.String("error", err.Error()),
			)
		}
	}()
	return nil
}

// LookPath wraps exec.LookPath
func (r *ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

func unsupported(goos, what string) error {
	return apperr.Wrap(apperr.ErrExternalTool, what, fmt.Sprintf("%s is only supported on macOS (running on %s)", what, goos), nil)
}
