// Package host talks to the application hosting the editor: the JSON bridge
// that lists images, stores presets and performs native navigation.
package host

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Veraticus/honcho/internal/common"
	"github.com/Veraticus/honcho/internal/model"
	"github.com/Veraticus/honcho/internal/service"
)

// Compile-time checks.
var (
	_ service.ImageSource = (*Client)(nil)
	_ service.PresetStore = (*Client)(nil)
	_ service.Navigator   = (*Client)(nil)
)

// Options configures a Client.
type Options struct {
	HTTPClient *http.Client
	BaseURL    string
	Token      string
	Retry      service.RetryOptions
	Timeout    time.Duration
}

// Client is the HTTP implementation of the host collaborators.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	token      string
	retry      service.RetryOptions
}

type urlResponse struct {
	URL string `json:"url"`
}

type renameRequest struct {
	Name string `json:"name"`
}

type imagesResponse struct {
	Images []model.Image `json:"images"`
}

type presetsResponse struct {
	Presets []model.Preset `json:"presets"`
}

// NewClient creates a host client.
func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.BaseURL) == "" {
		return nil, fmt.Errorf("%w: host url", common.ErrMissingConfig)
	}
	u, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: host url %q", common.ErrInvalidConfig, opts.BaseURL)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    u,
		token:      opts.Token,
		retry:      opts.Retry,
	}, nil
}

// SyncConfiguration performs the session handshake.
func (c *Client) SyncConfiguration(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/session/sync", nil, nil)
}

// ListImages returns the images of the host's current session.
func (c *Client) ListImages(ctx context.Context) ([]model.Image, error) {
	var resp imagesResponse
	err := common.WithRetry(ctx, func() error {
		return c.do(ctx, http.MethodGet, "/images", nil, &resp)
	}, c.retry)
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	slog.Debug("Listed host images", "count", len(resp.Images))
	return resp.Images, nil
}

// FetchImageBySource resolves a display URL for an image.
func (c *Client) FetchImageBySource(ctx context.Context, id string) (string, error) {
	var resp urlResponse
	err := common.WithRetry(ctx, func() error {
		return c.do(ctx, http.MethodGet, "/images/"+url.PathEscape(id)+"/source", nil, &resp)
	}, c.retry)
	if err != nil {
		return "", fmt.Errorf("failed to fetch image %s: %w", id, err)
	}
	if resp.URL == "" {
		return "", fmt.Errorf("%w: host returned no url for image %s", common.ErrNotFound, id)
	}
	return resp.URL, nil
}

// ListPresets returns the host's presets.
func (c *Client) ListPresets(ctx context.Context) ([]model.Preset, error) {
	var resp presetsResponse
	err := common.WithRetry(ctx, func() error {
		return c.do(ctx, http.MethodGet, "/presets", nil, &resp)
	}, c.retry)
	if err != nil {
		return nil, fmt.Errorf("failed to list presets: %w", err)
	}
	return resp.Presets, nil
}

// CreatePreset stores a preset. Creates are not idempotent and never retried.
// A 204 response means the host declined and yields (nil, nil).
func (c *Client) CreatePreset(ctx context.Context, req model.CreatePresetRequest) (*model.Preset, error) {
	var preset *model.Preset
	if err := c.do(ctx, http.MethodPost, "/presets", req, &preset); err != nil {
		return nil, err
	}
	return preset, nil
}

// RenamePreset renames a preset.
func (c *Client) RenamePreset(ctx context.Context, id, name string) error {
	return c.do(ctx, http.MethodPatch, "/presets/"+url.PathEscape(id), renameRequest{Name: name}, nil)
}

// DeletePreset removes a preset.
func (c *Client) DeletePreset(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/presets/"+url.PathEscape(id), nil, nil)
}

// NavigateBack asks the native shell to leave the editor.
func (c *Client) NavigateBack(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/bridge/back", nil, nil)
}

// do sends one request and decodes a JSON response into out when out is
// non-nil and the response has a body.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		encoded, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	endpoint := c.baseURL.String() + path
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	slog.Debug("Host request", "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %s %s: %w", common.ErrHostUnavailable, method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := statusError(resp); err != nil {
		return err
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// statusError maps host status codes onto the shared error sentinels.
func statusError(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	detail := strings.TrimSpace(string(msg))
	endpoint := resp.Request.Method + " " + resp.Request.URL.Path

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", common.ErrRateLimit, endpoint)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", common.ErrNotFound, endpoint)
	case resp.StatusCode == http.StatusConflict:
		return fmt.Errorf("%w: %s: %s", common.ErrDuplicateEntry, endpoint, detail)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return common.NewUserError("host rejected the token; check host.token",
			fmt.Errorf("%s: status %d", endpoint, resp.StatusCode))
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: %s: status %d: %s", common.ErrHostUnavailable, endpoint, resp.StatusCode, detail)
	}
	return fmt.Errorf("host error: %s: status %d: %s", endpoint, resp.StatusCode, detail)
}
