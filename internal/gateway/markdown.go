package gateway

import (
	"bytes"
	"os"

	"github.com/yuin/goldmark"
)

// MarkdownRenderer is the capability seam for markdown conversion; the core
// never depends on a specific rendering library.
type MarkdownRenderer interface {
	Render(src []byte) ([]byte, error)
}

type goldmarkRenderer struct {
	md goldmark.Markdown
}

func NewMarkdownRenderer() MarkdownRenderer {
	return &goldmarkRenderer{md: goldmark.New()}
}

func (r *goldmarkRenderer) Render(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(src, &buf); err != nil {
		return nil, Errf(KindAdapterFailure, "render markdown: %v", err)
	}
	return buf.Bytes(), nil
}

// ConvertMarkdownFile renders mdPath to HTML at outputPath. Both paths have
// already passed the Path Guard.
func ConvertMarkdownFile(renderer MarkdownRenderer, mdPath, outputPath string) error {
	src, err := os.ReadFile(mdPath)
	if err != nil {
		if os.IsNotExist(err) {
			return Errf(KindNotFound, "file not found: %s", mdPath)
		}
		return Errf(KindAdapterFailure, "read %s: %v", mdPath, err)
	}
	html, err := renderer.Render(src)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, html, 0o644); err != nil {
		return Errf(KindAdapterFailure, "write %s: %v", outputPath, err)
	}
	return nil
}
