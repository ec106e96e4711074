package gateway

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"
)

func testExecutor(timeout time.Duration) *ShellExecutor {
	return NewShellExecutor(timeout, NewLogger(io.Discard))
}

func TestShellExecutor_Success(t *testing.T) {
	out, err := testExecutor(0).Execute(context.Background(), CommandIntent{Command: "echo '  hello  '"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "hello" {
		t.Fatalf("stdout %q want trimmed %q", out, "hello")
	}
}

func TestShellExecutor_NonZeroExit(t *testing.T) {
	_, err := testExecutor(0).Execute(context.Background(), CommandIntent{Command: "echo oops >&2; exit 3"})
	if err == nil {
		t.Fatal("expected failure for non-zero exit")
	}
	if KindOf(err) != KindExecutionFailure {
		t.Fatalf("kind %s want %s", KindOf(err), KindExecutionFailure)
	}
	if err.Error() != "oops" {
		t.Fatalf("message %q want trimmed stderr %q", err.Error(), "oops")
	}
}

func TestShellExecutor_NonZeroExitWithoutStderr(t *testing.T) {
	_, err := testExecutor(0).Execute(context.Background(), CommandIntent{Command: "exit 7"})
	if err == nil {
		t.Fatal("expected failure")
	}
	if err.Error() == "" {
		t.Fatal("message must not be empty when stderr is silent")
	}
}

func TestShellExecutor_SpawnFailure(t *testing.T) {
	e := testExecutor(0)
	e.Shell = "definitely-not-a-shell-binary"
	_, err := e.Execute(context.Background(), CommandIntent{Command: "echo hi"})
	if err == nil {
		t.Fatal("expected spawn failure")
	}
	if KindOf(err) != KindExecutionFailure {
		t.Fatalf("kind %s want %s", KindOf(err), KindExecutionFailure)
	}
}

func TestShellExecutor_Timeout(t *testing.T) {
	_, err := testExecutor(100 * time.Millisecond).Execute(context.Background(), CommandIntent{Command: "sleep 5"})
	if err == nil {
		t.Fatal("expected timeout failure")
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Fatalf("message %q should mention the timeout", err.Error())
	}
}
