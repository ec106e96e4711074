package gateway

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type gitCall struct {
	dir  string
	args []string
}

func fakeGit(calls *[]gitCall, fail string) GitRunner {
	return func(ctx context.Context, dir string, args ...string) (string, error) {
		*calls = append(*calls, gitCall{dir: dir, args: args})
		if fail != "" && args[0] == fail {
			return "", Errf(KindAdapterFailure, "git %s: simulated failure", args[0])
		}
		return "", nil
	}
}

func TestGitAdapter_CloneWhenAbsent(t *testing.T) {
	root := t.TempDir()
	var calls []gitCall
	g := NewGitAdapter(root)
	g.run = fakeGit(&calls, "")

	require.NoError(t, g.CommitAndPush(context.Background(), "https://example.com/repo.git", "update data"))

	require.Len(t, calls, 4)
	require.Equal(t, "clone", calls[0].args[0])
	require.Equal(t, []string{"add", "-A"}, calls[1].args)
	require.Equal(t, []string{"commit", "-m", "update data"}, calls[2].args)
	require.Equal(t, []string{"push"}, calls[3].args)
	for _, c := range calls[1:] {
		require.Equal(t, g.WorkDir, c.dir)
	}
	require.True(t, strings.HasPrefix(g.WorkDir, root), "working copy must live inside the root")
}

func TestGitAdapter_SkipsCloneWhenPresent(t *testing.T) {
	root := t.TempDir()
	var calls []gitCall
	g := NewGitAdapter(root)
	g.run = fakeGit(&calls, "")
	require.NoError(t, os.MkdirAll(g.WorkDir, 0o755))

	require.NoError(t, g.CommitAndPush(context.Background(), "https://example.com/repo.git", "msg"))

	require.Len(t, calls, 3)
	require.Equal(t, "add", calls[0].args[0])
}

func TestGitAdapter_PropagatesFailure(t *testing.T) {
	root := t.TempDir()
	var calls []gitCall
	g := NewGitAdapter(root)
	g.run = fakeGit(&calls, "push")
	require.NoError(t, os.MkdirAll(g.WorkDir, 0o755))

	err := g.CommitAndPush(context.Background(), "https://example.com/repo.git", "msg")
	require.Error(t, err)
	require.Equal(t, KindAdapterFailure, KindOf(err))
}

func TestGitAdapter_ValidatesInput(t *testing.T) {
	g := NewGitAdapter(t.TempDir())
	require.Error(t, g.CommitAndPush(context.Background(), "", "msg"))
	require.Error(t, g.CommitAndPush(context.Background(), "https://example.com/r.git", " "))
}
