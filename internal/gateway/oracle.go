package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"
)

// CommandOracle maps a natural-language task to a candidate shell command.
// The output is untrusted input: everything it returns goes through the
// authorizer before anything executes.
type CommandOracle interface {
	Command(ctx context.Context, task string) (string, error)
}

const oracleSystemPrompt = "You are an automation assistant. Generate only a single valid shell command."

// ProxyOracle talks to an OpenAI-style chat-completions proxy.
type ProxyOracle struct {
	Token   string
	Model   string
	BaseURL string
	Timeout time.Duration
	HTTP    *http.Client
}

type oracleMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type oracleRequest struct {
	Model    string          `json:"model"`
	Messages []oracleMessage `json:"messages"`
}

type oracleResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func NewProxyOracle(token, model, baseURL string, timeout time.Duration) *ProxyOracle {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &ProxyOracle{
		Token:   token,
		Model:   model,
		BaseURL: baseURL,
		Timeout: timeout,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

func (o *ProxyOracle) Command(ctx context.Context, task string) (string, error) {
	if o.Token == "" {
		return "", Errf(KindOracleError, "oracle token is required")
	}

	ctx, cancel := context.WithTimeout(ctx, o.Timeout)
	defer cancel()

	payload, err := json.Marshal(oracleRequest{
		Model: o.Model,
		Messages: []oracleMessage{
			{Role: "system", Content: oracleSystemPrompt},
			{Role: "user", Content: task},
		},
	})
	if err != nil {
		return "", Errf(KindOracleError, "encode oracle request: %v", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, o.BaseURL, bytes.NewReader(payload))
	if err != nil {
		return "", Errf(KindOracleError, "build oracle request: %v", err)
	}
	request.Header.Set("Authorization", "Bearer "+o.Token)
	request.Header.Set("Content-Type", "application/json")

	resp, err := o.HTTP.Do(request)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
			return "", Errf(KindOracleError, "oracle request timed out after %s", o.Timeout)
		}
		return "", Errf(KindOracleError, "oracle request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", Errf(KindOracleError, "read oracle response: %v", err)
	}

	var parsed oracleResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", Errf(KindOracleError, "invalid oracle response: status %d, body %s", resp.StatusCode, truncateForError(body))
	}
	if parsed.Error != nil && parsed.Error.Message != "" {
		return "", Errf(KindOracleError, "oracle error: %s", parsed.Error.Message)
	}
	if resp.StatusCode >= 300 || len(parsed.Choices) == 0 {
		return "", Errf(KindOracleError, "invalid oracle response: status %d, body %s", resp.StatusCode, truncateForError(body))
	}
	return parsed.Choices[0].Message.Content, nil
}

func truncateForError(body []byte) string {
	const max = 200
	s := string(body)
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}

// OracleFunc adapts a plain function into a CommandOracle. Used by tests
// and by deployments that wire a fixed translation in front of the gateway.
type OracleFunc func(ctx context.Context, task string) (string, error)

func (f OracleFunc) Command(ctx context.Context, task string) (string, error) {
	return f(ctx, task)
}

var _ CommandOracle = (*ProxyOracle)(nil)
