package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// SystemPrompt is sent ahead of every user message
	SystemPrompt = "You are Baymax AI, a medical assistant. Provide helpful medical information and always include appropriate disclaimers."
	// EmptyCompletionText replaces a completion with no content
	EmptyCompletionText = "Sorry, I could not generate a response."
	// FallbackReply is revealed when the inference call fails
	FallbackReply = "Sorry, I'm having trouble connecting right now. Please try again in a moment."

	DefaultModel     = "mistralai/Mistral-7B-Instruct-v0.2"
	DefaultMaxTokens = 500
)

// ErrInferenceUnavailable is returned when no API key is configured
var ErrInferenceUnavailable = errors.New("inference endpoint not configured")

// InferenceClient produces one completion per user message
type InferenceClient interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// HFConfig configures the Hugging Face chat-completions client
type HFConfig struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

// hfClient calls an OpenAI-compatible chat-completions endpoint
type hfClient struct {
	cfg    HFConfig
	client *http.Client
}

// NewHFClient creates an inference client. A nil http.Client gets one with cfg.Timeout.
func NewHFClient(cfg HFConfig, client *http.Client) InferenceClient {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &hfClient{cfg: cfg, client: client}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type completionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (h *hfClient) Complete(ctx context.Context, system, user string) (string, error) {
	if h.cfg.APIKey == "" {
		return "", ErrInferenceUnavailable
	}

	payload, err := json.Marshal(completionRequest{
		Model: h.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		MaxTokens: h.cfg.MaxTokens,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.cfg.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+h.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("inference request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("inference API returned status %d: %s", resp.StatusCode, string(body))
	}

	var out completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode inference response: %w", err)
	}
	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return EmptyCompletionText, nil
	}
	return out.Choices[0].Message.Content, nil
}
