// Package client calls the hosted plan, image and motivation endpoints.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"FitAICoach/internal/models"
	"github.com/rs/zerolog/log"
)

const (
	functionsPath         = "/functions/v1/"
	defaultRequestTimeout = 60 * time.Second
	maxResponseBytes      = 16 << 20 // generated images arrive as data URLs
)

// Options configures a Client.
type Options struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client issues exactly one request per call; there is no retry.
type Client struct {
	baseURL    string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
}

func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		apiKey:     opts.APIKey,
		timeout:    timeout,
		httpClient: httpClient,
	}
}

type planEnvelope struct {
	UserData models.UserProfile `json:"userData"`
}

type planResponse struct {
	Plan *models.Plan `json:"plan"`
}

type imageResponse struct {
	ImageURL string `json:"imageUrl"`
}

type quoteResponse struct {
	Quote string `json:"quote"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// GeneratePlan sends the profile to the plan-generation endpoint. Either the
// whole plan comes back or an error matching one of the models taxonomy sentinels.
func (c *Client) GeneratePlan(ctx context.Context, profile models.UserProfile) (models.Plan, error) {
	var resp planResponse
	if err := c.invoke(ctx, "generate-plan", planEnvelope{UserData: profile}, &resp); err != nil {
		return models.Plan{}, err
	}
	if resp.Plan == nil {
		return models.Plan{}, models.ErrorForStatus(http.StatusOK, "response did not contain a plan")
	}
	return *resp.Plan, nil
}

// GenerateImage requests an image for one plan line.
func (c *Client) GenerateImage(ctx context.Context, prompt string, category models.ImageCategory) (string, error) {
	var resp imageResponse
	if err := c.invoke(ctx, "generate-image", models.ImageRequest{Prompt: prompt, Type: category}, &resp); err != nil {
		return "", err
	}
	if resp.ImageURL == "" {
		return "", models.ErrorForStatus(http.StatusOK, "response did not contain an image")
	}
	return resp.ImageURL, nil
}

// GenerateQuote fetches a motivational quote.
func (c *Client) GenerateQuote(ctx context.Context) (string, error) {
	var resp quoteResponse
	if err := c.invoke(ctx, "generate-motivation", struct{}{}, &resp); err != nil {
		return "", err
	}
	if resp.Quote == "" {
		return "", models.ErrorForStatus(http.StatusOK, "response did not contain a quote")
	}
	return resp.Quote, nil
}

// invoke POSTs body to one function and decodes the JSON reply into out.
// Transport failures and timeouts are generic failures.
func (c *Client) invoke(ctx context.Context, function string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal %s request: %w", function, err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.baseURL+functionsPath+function, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", function, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("apikey", c.apiKey)
	}

	log.Debug().Str("function", function).Msg("Invoking function")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Debug().Err(err).Str("function", function).Msg("Function request failed")
		return models.ErrorForStatus(0, err.Error())
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return models.ErrorForStatus(resp.StatusCode, fmt.Sprintf("failed to read response: %v", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr errorResponse
		_ = json.Unmarshal(data, &apiErr)
		log.Debug().Int("status", resp.StatusCode).Str("function", function).Str("error", apiErr.Error).Msg("Function returned an error")
		return models.ErrorForStatus(resp.StatusCode, apiErr.Error)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return models.ErrorForStatus(resp.StatusCode, fmt.Sprintf("failed to decode response: %v", err))
	}
	return nil
}
