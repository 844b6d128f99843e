// Package aigateway talks to the upstream OpenAI-compatible AI gateway that
// produces plans, exercise/meal images and motivational quotes.
package aigateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"FitAICoach/internal/config"
	"FitAICoach/internal/models"
	"github.com/rs/zerolog"
)

const (
	chatCompletionsPath   = "/chat/completions"
	defaultRequestTimeout = 60 * time.Second
	maxErrorBodyBytes     = 4 << 10
)

// Messages returned to callers when the gateway signals a quota problem.
const (
	rateLimitMessage = "Rate limit exceeded. Please try again later."
	paymentMessage   = "Payment required. Please add credits to your workspace."
)

// ErrNotConfigured is returned when no gateway API key is available.
var ErrNotConfigured = errors.New("AI_GATEWAY_API_KEY is not configured")

// --- Structs for the chat-completion request/response ---

type ChatPayload struct {
	Model      string        `json:"model"`
	Messages   []ChatMessage `json:"messages"`
	Modalities []string      `json:"modalities,omitempty"`
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content string         `json:"content"`
			Images  []ImagePayload `json:"images,omitempty"`
		} `json:"message"`
	} `json:"choices"`
}

type ImagePayload struct {
	Type     string `json:"type"`
	ImageURL struct {
		URL string `json:"url"`
	} `json:"image_url"`
}

// Client issues single, non-retried calls to the gateway.
type Client struct {
	baseURL    string
	apiKey     string
	chatModel  string
	imageModel string
	timeout    time.Duration
	httpClient *http.Client
	images     *ImageCache
}

// NewClient builds a gateway client from the server configuration.
func NewClient(cfg *config.Config) (*Client, error) {
	images, err := NewImageCache(cfg.ImageCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create image cache: %w", err)
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	return &Client{
		baseURL:    cfg.GatewayURL,
		apiKey:     cfg.GatewayAPIKey,
		chatModel:  cfg.ChatModel,
		imageModel: cfg.ImageModel,
		timeout:    timeout,
		httpClient: &http.Client{Timeout: timeout},
		images:     images,
	}, nil
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// callGateway handles the actual HTTP request to the chat-completions endpoint.
// There is exactly one attempt; 429 and 402 keep their meaning, anything else
// becomes a generic failure.
func (c *Client) callGateway(ctx context.Context, log *zerolog.Logger, payload ChatPayload) (*ChatResponse, error) {
	if !c.Configured() {
		log.Error().Msg("AI gateway API key is not set")
		return nil, ErrNotConfigured
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.baseURL+chatCompletionsPath, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	log.Info().Str("model", payload.Model).Msg("Calling AI gateway")
	started := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn().Err(err).Msg("AI gateway request failed")
		return nil, fmt.Errorf("%w: request failed: %v", models.ErrGenerationFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		log.Warn().Int("status", resp.StatusCode).Str("body", string(body)).Msg("AI gateway returned non-200 status")

		switch resp.StatusCode {
		case http.StatusTooManyRequests:
			return nil, models.ErrorForStatus(resp.StatusCode, rateLimitMessage)
		case http.StatusPaymentRequired:
			return nil, models.ErrorForStatus(resp.StatusCode, paymentMessage)
		}
		return nil, models.ErrorForStatus(resp.StatusCode, fmt.Sprintf("AI Gateway error: %d", resp.StatusCode))
	}

	var chatResp ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", models.ErrGenerationFailed, err)
	}
	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices in gateway response", models.ErrGenerationFailed)
	}

	log.Info().Dur("latency", time.Since(started)).Msg("AI gateway call succeeded")
	return &chatResp, nil
}
