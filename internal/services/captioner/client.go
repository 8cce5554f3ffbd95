package captioner

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"memedex/internal/services"
)

const (
	defaultBaseURL     = "http://localhost:2020/v1"
	defaultHTTPTimeout = 120 * time.Second

	// filenameQuestion mirrors the prompt the upload path historically used to
	// derive short, filename-friendly descriptions.
	filenameQuestion = "Return a short, single-line, descriptive caption for the following picture. " +
		"Use minimum words, like it's a filename. Avoid using special characters."
)

// Config captures the runtime settings required to talk to the caption model.
type Config struct {
	BaseURL        string
	TimeoutSeconds int
}

// Client wraps the caption model HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client (used in tests).
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs a caption client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	client := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

type captionRequest struct {
	ImageURL string `json:"image_url"`
	Length   string `json:"length,omitempty"`
}

type captionResponse struct {
	Caption string `json:"caption"`
}

type queryRequest struct {
	ImageURL string `json:"image_url"`
	Question string `json:"question"`
}

type queryResponse struct {
	Answer string `json:"answer"`
}

// Caption returns a short descriptive caption for the supplied JPEG bytes.
func (c *Client) Caption(ctx context.Context, jpeg []byte) (string, error) {
	reqBody := captionRequest{ImageURL: dataURL(jpeg), Length: "short"}
	var resp captionResponse
	if err := c.post(ctx, "/caption", reqBody, &resp); err != nil {
		return "", fmt.Errorf("caption request: %w", err)
	}
	caption := strings.TrimSpace(resp.Caption)
	if caption == "" {
		return "", errors.New("caption request: empty caption in response")
	}
	return caption, nil
}

// SuggestFilename asks the model for a filename-style description of the image.
func (c *Client) SuggestFilename(ctx context.Context, jpeg []byte) (string, error) {
	reqBody := queryRequest{ImageURL: dataURL(jpeg), Question: filenameQuestion}
	var resp queryResponse
	if err := c.post(ctx, "/query", reqBody, &resp); err != nil {
		return "", fmt.Errorf("filename query: %w", err)
	}
	return strings.TrimSpace(resp.Answer), nil
}

func (c *Client) post(ctx context.Context, endpoint string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) {
			return fmt.Errorf("%s: %w", endpoint, services.ErrTimeout)
		}
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func dataURL(jpeg []byte) string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(jpeg)
}
