// Package insight wraps the hosted language model behind a single
// request/response exchange with a fixed retry and timeout policy.
package insight

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"

	"github.com/summsync/stats-api/internal/models"
)

const (
	// Retry and timeout contract for the model boundary.
	maxRetries     = 2 // 3 attempts total
	initialBackoff = 500 * time.Millisecond
	connectTimeout = 5 * time.Second
	readTimeout    = 30 * time.Second

	// Inference parameters.
	maxTokens       = 3000
	temperature     = 0.3
	topP            = 0.9
	contextCharCap  = 15000
	systemDirective = "Be concise and precise"
)

// ErrNotConfigured is returned when no model id/endpoint is set.
var ErrNotConfigured = errors.New("insight: model is not configured")

type Config struct {
	ModelID string
	BaseURL string
	APIKey  string
	Logger  *zap.Logger
}

type Client struct {
	modelID    string
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.SugaredLogger
}

func NewClient(cfg Config) *Client {
	dialer := &net.Dialer{Timeout: connectTimeout}
	transport := &http.Transport{
		DialContext:         dialer.DialContext,
		MaxIdleConns:        5,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: connectTimeout,
	}

	return &Client{
		modelID: cfg.ModelID,
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout:   readTimeout,
			Transport: transport,
		},
		logger: cfg.Logger.Sugar(),
	}
}

// ModelID reports the configured model identifier.
func (c *Client) ModelID() string {
	return c.modelID
}

// Configured reports whether the client can make model calls.
func (c *Client) Configured() bool {
	return c.modelID != "" && c.baseURL != ""
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
	TopP        float64       `json:"top_p"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Generate forwards the user prompt plus session context to the model and
// returns its answer. Network failures and 5xx/429 responses are retried up
// to 3 attempts with exponential backoff; other failures are terminal.
func (c *Client) Generate(ctx context.Context, prompt string, players []*models.SessionRecord) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	messages := []chatMessage{{Role: "system", Content: systemDirective}}
	if len(players) > 0 {
		ctxJSON, err := json.Marshal(map[string]any{"players": players})
		if err != nil {
			return "", fmt.Errorf("failed to marshal session context: %w", err)
		}
		trimmed := string(ctxJSON)
		if len(trimmed) > contextCharCap {
			trimmed = trimmed[:contextCharCap]
		}
		messages = append(messages, chatMessage{Role: "system", Content: "Context JSON:\n" + trimmed})
	}
	messages = append(messages, chatMessage{Role: "user", Content: prompt})

	body, err := json.Marshal(chatRequest{
		Model:       c.modelID,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		TopP:        topP,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal model request: %w", err)
	}

	var answer string
	backoff := retry.WithMaxRetries(maxRetries, retry.NewExponential(initialBackoff))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		answer, err = c.call(ctx, body)
		return err
	})
	if err != nil {
		return "", err
	}
	return answer, nil
}

func (c *Client) call(ctx context.Context, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create model request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warnw("Model request failed", "error", err)
		return "", retry.RetryableError(fmt.Errorf("model request failed: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		c.logger.Warnw("Model returned retryable status", "status", resp.StatusCode)
		return "", retry.RetryableError(fmt.Errorf("model request failed with status %d", resp.StatusCode))
	}
	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("model request failed with status %d: %s", resp.StatusCode, string(snippet))
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode model response: %w", err)
	}

	var parts []string
	for _, choice := range out.Choices {
		if choice.Message.Content != "" {
			parts = append(parts, choice.Message.Content)
		}
	}
	return strings.TrimSpace(strings.Join(parts, "\n")), nil
}
