package agent

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

	"go.uber.org/zap"
)

// ErrNotConfigured means the provider credentials are absent from config.
// Call initiation is impossible; webhook ingestion still works.
var ErrNotConfigured = errors.New("voice agent credentials are not configured")

// Client starts conversations with the voice-agent provider. The userId is
// smuggled through conversation overrides so the completion webhook can hand
// it back.
type Client struct {
	apiKey     string
	agentID    string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(apiKey, agentID, baseURL string, logger *zap.Logger) *Client {
	return &Client{
		apiKey:  apiKey,
		agentID: agentID,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        4,
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		logger: logger,
	}
}

func (c *Client) Configured() bool {
	return c.apiKey != "" && c.agentID != ""
}

func (c *Client) AgentID() string {
	return c.agentID
}

// SignedURL requests a signed conversation URL for userID.
func (c *Client) SignedURL(ctx context.Context, userID string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	payload, err := json.Marshal(map[string]any{
		"agent_id": c.agentID,
		"overrides": map[string]any{
			"custom_llm_extra_body": map[string]any{
				"userId": userID,
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("encoding signed url request: %w", err)
	}

	url := c.baseURL + "/v1/convai/conversation/get_signed_url"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("building signed url request: %w", err)
	}
	req.Header.Set("xi-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling voice agent provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		c.logger.Error("voice agent provider rejected signed url request",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body))
		return "", fmt.Errorf("voice agent provider returned status %d", resp.StatusCode)
	}

	var body struct {
		SignedURL string `json:"signed_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decoding signed url response: %w", err)
	}
	if body.SignedURL == "" {
		return "", errors.New("voice agent provider returned no signed_url")
	}

	return body.SignedURL, nil
}
