package synthesis

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const providerClient = "client"

// Client is an HTTP oracle for any Stable-Diffusion-WebUI-compatible
// backend (AUTOMATIC1111, Forge, SD.Next, and the various hosted clones of
// the same API).
type Client struct {
	baseURL string
	apiKey  string
	config  *Config
	http    *http.Client
	logger  *slog.Logger
}

// NewClient creates a new synthesis client.
func NewClient(opts ...Option) (*Client, error) {
	cfg := DefaultConfig()
	cfg.Apply(opts...)

	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		config:  cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  cfg.Logger.With("component", "synthesis.client"),
	}, nil
}

// img2imgRequest is the backend wire format.
type img2imgRequest struct {
	InitImages        []string `json:"init_images"`
	Prompt            string   `json:"prompt"`
	NegativePrompt    string   `json:"negative_prompt,omitempty"`
	DenoisingStrength float64  `json:"denoising_strength"`
	CFGScale          float64  `json:"cfg_scale"`
	Steps             int      `json:"steps"`
	Seed              int64    `json:"seed"`
	SamplerName       string   `json:"sampler_name"`
	Width             int      `json:"width"`
	Height            int      `json:"height"`

	// OverrideSettings selects a backend checkpoint per request.
	OverrideSettings map[string]interface{} `json:"override_settings,omitempty"`
}

type img2imgResponse struct {
	Images []string `json:"images"`
	Info   string   `json:"info"`
}

// Synthesize refines the conditioning image through the backend's img2img
// endpoint. The image travels as base64 PNG in both directions.
func (c *Client) Synthesize(ctx context.Context, req *Request) (*Response, error) {
	start := time.Now()

	if req.Image == nil {
		return nil, WrapError(providerClient, ErrNoImage)
	}

	b64, err := encodePNGBase64(req.Image)
	if err != nil {
		return nil, WrapError(providerClient, fmt.Errorf("encode image: %w", err))
	}

	width, height := req.Width, req.Height
	if width == 0 || height == 0 {
		bounds := req.Image.Bounds()
		width, height = bounds.Dx(), bounds.Dy()
	}

	sampler := ResolveSampler(req.Sampler)
	payload := img2imgRequest{
		InitImages:        []string{b64},
		Prompt:            req.Prompt,
		NegativePrompt:    req.NegativePrompt,
		DenoisingStrength: req.Strength,
		CFGScale:          req.GuidanceScale,
		Steps:             req.Steps,
		Seed:              req.Seed,
		SamplerName:       sampler.APIName,
		Width:             width,
		Height:            height,
	}
	if c.config.Checkpoint != "" {
		payload.OverrideSettings = map[string]interface{}{
			"sd_model_checkpoint": c.config.Checkpoint,
		}
	}

	resp, err := c.post(ctx, "/sdapi/v1/img2img", payload)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp)
	}

	var result img2imgResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, WrapError(providerClient, fmt.Errorf("decode response: %w", err))
	}
	if len(result.Images) == 0 {
		return nil, WrapError(providerClient, ErrEmptyResponse)
	}

	img, err := decodePNGBase64(result.Images[0])
	if err != nil {
		return nil, WrapError(providerClient, fmt.Errorf("decode image: %w", err))
	}

	return &Response{
		Image:     img,
		LatencyMs: time.Since(start).Milliseconds(),
	}, nil
}

// Health checks backend connectivity.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/sdapi/v1/sd-models", nil)
	if err != nil {
		return WrapError(providerClient, fmt.Errorf("create request: %w", err))
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return WrapError(providerClient, fmt.Errorf("health check: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.parseError(resp)
	}
	return nil
}

// Close releases resources.
func (c *Client) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// post marshals the payload and performs the request with retries.
func (c *Client) post(ctx context.Context, path string, payload interface{}) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, WrapError(providerClient, fmt.Errorf("marshal payload: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, WrapError(providerClient, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	return c.doWithRetry(ctx, req, body)
}

func (c *Client) authorize(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

// doWithRetry performs the request, retrying on 429 and 5xx responses.
func (c *Client) doWithRetry(ctx context.Context, req *http.Request, body []byte) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.config.RetryDelay * time.Duration(attempt)):
			}
			req.Body = io.NopCloser(bytes.NewReader(body))
		}

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = WrapError(providerClient, err)
			c.logger.Warn("request failed, retrying",
				"attempt", attempt+1,
				"error", err,
			)
			continue
		}

		if resp.StatusCode == 429 || resp.StatusCode >= 500 {
			lastErr = c.parseError(resp)
			c.logger.Warn("retrying request",
				"attempt", attempt+1,
				"status", resp.StatusCode,
			)
			continue
		}

		return resp, nil
	}

	return nil, lastErr
}

// parseError reads and parses an error response.
func (c *Client) parseError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	var errResp struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}

	message := string(body)
	if json.Unmarshal(body, &errResp) == nil {
		if errResp.Detail != "" {
			message = errResp.Detail
		} else if errResp.Error != "" {
			message = errResp.Error
		}
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    message,
		Provider:   providerClient,
	}
}

// encodePNGBase64 encodes an image as base64 PNG.
func encodePNGBase64(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// decodePNGBase64 decodes a base64 image, tolerating data URL prefixes.
func decodePNGBase64(b64 string) (image.Image, error) {
	if idx := strings.Index(b64, ","); idx >= 0 && strings.HasPrefix(b64, "data:") {
		b64 = b64[idx+1:]
	}
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	return img, err
}

// Verify Client implements Oracle at compile time.
var _ Oracle = (*Client)(nil)
