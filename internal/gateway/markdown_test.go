package gateway

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMarkdownRenderer(t *testing.T) {
	html, err := NewMarkdownRenderer().Render([]byte("# Title\n\nsome *emphasis*\n"))
	require.NoError(t, err)
	require.Contains(t, string(html), "<h1>Title</h1>")
	require.Contains(t, string(html), "<em>emphasis</em>")
}

func TestConvertMarkdownFile(t *testing.T) {
	dir := t.TempDir()
	mdPath := filepath.Join(dir, "doc.md")
	outPath := filepath.Join(dir, "doc.html")
	require.NoError(t, os.WriteFile(mdPath, []byte("## Section\n"), 0o644))

	require.NoError(t, ConvertMarkdownFile(NewMarkdownRenderer(), mdPath, outPath))

	out, err := os.ReadFile(outPath)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(out), "<h2>Section</h2>"), "output %q", out)
}

func TestConvertMarkdownFile_MissingSource(t *testing.T) {
	dir := t.TempDir()
	err := ConvertMarkdownFile(NewMarkdownRenderer(), filepath.Join(dir, "missing.md"), filepath.Join(dir, "out.html"))
	require.Error(t, err)
	require.Equal(t, KindNotFound, KindOf(err))
}
