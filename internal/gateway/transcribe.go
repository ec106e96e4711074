package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// Transcriber is the capability seam for speech-to-text. The gateway treats
// the engine as an external oracle behind a narrow contract.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// SpeechClient posts raw audio bytes to a speech-to-text HTTP endpoint and
// expects a JSON body carrying the transcription.
type SpeechClient struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

func NewSpeechClient(baseURL, token string, timeout time.Duration) *SpeechClient {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &SpeechClient{
		BaseURL: baseURL,
		Token:   token,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

func (c *SpeechClient) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if strings.TrimSpace(c.BaseURL) == "" {
		return "", Errf(KindAdapterFailure, "speech endpoint is not configured")
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(audio))
	if err != nil {
		return "", Errf(KindAdapterFailure, "build transcription request: %v", err)
	}
	request.Header.Set("Content-Type", "application/octet-stream")
	if c.Token != "" {
		request.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTP.Do(request)
	if err != nil {
		return "", Errf(KindAdapterFailure, "transcription request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", Errf(KindAdapterFailure, "read transcription response: %v", err)
	}
	if resp.StatusCode >= 300 {
		return "", Errf(KindAdapterFailure, "transcription failed: status %d", resp.StatusCode)
	}

	var parsed struct {
		Transcription string `json:"transcription"`
		Text          string `json:"text"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", Errf(KindAdapterFailure, "invalid transcription response: %v", err)
	}
	if parsed.Transcription != "" {
		return parsed.Transcription, nil
	}
	if parsed.Text != "" {
		return parsed.Text, nil
	}
	return "", Errf(KindAdapterFailure, "transcription response carried no text")
}

// TranscribeFile reads audioPath (already guarded) and hands the bytes to
// the transcriber.
func TranscribeFile(ctx context.Context, t Transcriber, audioPath string) (string, error) {
	audio, err := os.ReadFile(audioPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", Errf(KindNotFound, "file not found: %s", audioPath)
		}
		return "", Errf(KindAdapterFailure, "read %s: %v", audioPath, err)
	}
	return t.Transcribe(ctx, audio)
}

var _ Transcriber = (*SpeechClient)(nil)
