package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path/filepath"
	"strings"
	"time"
)

const defaultTimeout = 5 * time.Minute

// Client talks to a docqa server.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	obs       *observer
}

// New creates a Client for the server at baseURL, e.g. "http://localhost:8000".
func New(baseURL string, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("docqa: invalid base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("docqa: base url must be http or https, got %q", baseURL)
	}

	httpClient := cfg.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	return &Client{baseURL: u, http: httpClient, userAgent: cfg.userAgent, obs: obs}, nil
}

// Upload sends a PDF and replaces the server's active document.
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader) (res UploadResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("upload", start, err) }()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename=%q`, filepath.Base(filename)))
	hdr.Set("Content-Type", "application/pdf")
	part, err := mw.CreatePart(hdr)
	if err != nil {
		return UploadResult{}, fmt.Errorf("upload: %w", err)
	}
	if _, err = io.Copy(part, r); err != nil {
		return UploadResult{}, fmt.Errorf("upload: read file: %w", err)
	}
	if err = mw.Close(); err != nil {
		return UploadResult{}, fmt.Errorf("upload: %w", err)
	}

	err = c.do(ctx, http.MethodPost, "/upload", mw.FormDataContentType(), &body, &res)
	return res, err
}

// Ask asks a question about the active document.
func (c *Client) Ask(ctx context.Context, question string) (answer string, err error) {
	start := time.Now()
	defer func() { c.obs.observe("ask", start, err) }()

	payload, err := json.Marshal(askRequest{Question: question})
	if err != nil {
		return "", fmt.Errorf("ask: %w", err)
	}
	var resp askResponse
	if err = c.do(ctx, http.MethodPost, "/ask", "application/json", bytes.NewReader(payload), &resp); err != nil {
		return "", err
	}
	return resp.Answer, nil
}

// Session reports the active document, if any.
func (c *Client) Session(ctx context.Context) (info SessionInfo, err error) {
	start := time.Now()
	defer func() { c.obs.observe("session", start, err) }()

	err = c.do(ctx, http.MethodGet, "/session", "", nil, &info)
	return info, err
}

// Health checks the health of all server components.
// A degraded server answers 503 with a report body; that report is returned without error.
func (c *Client) Health(ctx context.Context) (status HealthStatus, err error) {
	start := time.Now()
	defer func() { c.obs.observe("health", start, err) }()

	err = c.do(ctx, http.MethodGet, "/health", "", nil, &status)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusServiceUnavailable && status.Status != "" {
		return status, nil
	}
	return status, err
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, body)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read body: %w", method, path, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return c.apiError(resp.StatusCode, data, out)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}

// apiError decodes an error body. /health answers 503 with its regular report,
// so the body is also offered to out.
func (c *Client) apiError(status int, data []byte, out any) error {
	var er errorResponse
	_ = json.Unmarshal(data, &er)
	if er.Code == "" {
		if out != nil {
			_ = json.Unmarshal(data, out)
		}
		er.Code = strings.ReplaceAll(strings.ToLower(http.StatusText(status)), " ", "_")
		er.Message = strings.TrimSpace(string(data))
	}
	return &APIError{StatusCode: status, Code: er.Code, Message: er.Message}
}
