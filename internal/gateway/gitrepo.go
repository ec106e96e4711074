package gateway

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// GitRunner executes one git invocation in dir and returns combined output.
// The seam keeps tests off the real binary.
type GitRunner func(ctx context.Context, dir string, args ...string) (string, error)

func runGit(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	if dir != "" {
		cmd.Dir = dir
	}
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	text := strings.TrimSpace(out.String())
	if err != nil {
		if text != "" {
			return text, Errf(KindAdapterFailure, "git %s: %s", args[0], text)
		}
		return text, Errf(KindAdapterFailure, "git %s: %v", args[0], err)
	}
	return text, nil
}

// GitAdapter maintains one fixed working copy inside the data root.
type GitAdapter struct {
	WorkDir string
	run     GitRunner
}

func NewGitAdapter(root string) *GitAdapter {
	return &GitAdapter{
		WorkDir: filepath.Join(root, "repo"),
		run:     runGit,
	}
}

// CommitAndPush clones repoURL into the working copy if it is not there
// yet, stages everything, commits with message, and pushes.
func (g *GitAdapter) CommitAndPush(ctx context.Context, repoURL, message string) error {
	if strings.TrimSpace(repoURL) == "" {
		return Errf(KindAdapterFailure, "repo_url is required")
	}
	if strings.TrimSpace(message) == "" {
		return Errf(KindAdapterFailure, "commit_message is required")
	}

	if _, err := os.Stat(g.WorkDir); os.IsNotExist(err) {
		if _, err := g.run(ctx, "", "clone", repoURL, g.WorkDir); err != nil {
			return err
		}
	}
	if _, err := g.run(ctx, g.WorkDir, "add", "-A"); err != nil {
		return err
	}
	if _, err := g.run(ctx, g.WorkDir, "commit", "-m", message); err != nil {
		return err
	}
	if _, err := g.run(ctx, g.WorkDir, "push"); err != nil {
		return err
	}
	return nil
}
