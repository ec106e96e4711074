package gateway

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"
)

// CommandExecutor runs an authorized command and returns its trimmed stdout.
type CommandExecutor interface {
	Execute(ctx context.Context, intent CommandIntent) (string, error)
}

// ShellExecutor runs commands through the host shell with the working
// directory unchanged. One attempt per dispatch, no retries.
type ShellExecutor struct {
	Shell string
	// Timeout bounds a single execution; zero disables the bound, which is
	// the reference behavior.
	Timeout time.Duration
	Logger  *Logger
}

func NewShellExecutor(timeout time.Duration, logger *Logger) *ShellExecutor {
	return &ShellExecutor{Shell: "bash", Timeout: timeout, Logger: logger}
}

func (e *ShellExecutor) Execute(ctx context.Context, intent CommandIntent) (string, error) {
	shell := e.Shell
	if shell == "" {
		shell = "bash"
	}
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, shell, "-lc", intent.Command)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	e.Logger.Info("command executed", map[string]interface{}{
		"command":     intent.Command,
		"duration_ms": time.Since(start).Milliseconds(),
		"ok":          err == nil,
	})
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", Errf(KindExecutionFailure, "command timed out after %s", e.Timeout)
		}
		if _, ok := err.(*exec.ExitError); ok {
			message := strings.TrimSpace(stderr.String())
			if message == "" {
				message = err.Error()
			}
			return "", Errf(KindExecutionFailure, "%s", message)
		}
		// Spawn failure: binary missing, permission denied, and friends.
		return "", Errf(KindExecutionFailure, "%s", err.Error())
	}
	return strings.TrimSpace(stdout.String()), nil
}
