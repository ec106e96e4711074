package gateway

import (
	"context"
	"io"
	"net/http"
	"os"
	"time"
)

// Fetcher downloads remote text content into the data root.
type Fetcher struct {
	HTTP *http.Client
}

func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Fetcher{HTTP: &http.Client{Timeout: timeout}}
}

// FetchToFile GETs url and writes the body to outputPath. The caller has
// already validated outputPath against the data root.
func (f *Fetcher) FetchToFile(ctx context.Context, url, outputPath string) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Errf(KindAdapterFailure, "build fetch request: %v", err)
	}
	resp, err := f.HTTP.Do(request)
	if err != nil {
		return Errf(KindAdapterFailure, "fetch failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return Errf(KindAdapterFailure, "fetch failed: status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Errf(KindAdapterFailure, "read fetch body: %v", err)
	}
	if err := os.WriteFile(outputPath, body, 0o644); err != nil {
		return Errf(KindAdapterFailure, "write %s: %v", outputPath, err)
	}
	return nil
}
