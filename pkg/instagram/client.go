package instagram

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"instarecon/pkg/config"
	"instarecon/pkg/errors"
	"instarecon/pkg/logger"
)

// Client talks to the private Instagram API. It never retries: every call
// issues exactly one request bounded by the configured timeout.
type Client struct {
	http      *resty.Client
	sessionID string
	logger    logger.Logger
}

// rawResponse is what a request yields when the server answered at all
type rawResponse struct {
	StatusCode int
	Body       []byte
}

// NewClient creates a client from the Instagram section of the config
func NewClient(cfg *config.InstagramConfig, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = config.DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}

	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetLogger(logger.NewPrintfLogger(log))

	httpClient.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		logger.LogRequest(log, resp.Request.Method, resp.Request.URL, resp.StatusCode(), resp.Time())
		return nil
	})

	return &Client{
		http:      httpClient,
		sessionID: cfg.SessionID,
		logger:    log,
	}
}

// request describes one call against the API
type request struct {
	method      string
	path        string
	query       map[string]string
	headers     map[string]string
	withSession bool
	body        string
}

// do performs a single request and returns the raw status and body, or a
// classified transport error (timeout or unknown).
func (c *Client) do(ctx context.Context, r request) (*rawResponse, error) {
	req := c.http.R().
		SetContext(ctx).
		SetHeaders(r.headers).
		SetQueryParams(r.query)

	if r.withSession && c.sessionID != "" {
		req.SetCookie(&http.Cookie{Name: "sessionid", Value: c.sessionID})
	}
	if r.body != "" {
		req.SetBody(r.body)
	}

	start := time.Now()
	resp, err := req.Execute(r.method, r.path)
	if err != nil {
		c.logger.WarnWithFields("HTTP request failed", map[string]interface{}{
			"method":   r.method,
			"path":     r.path,
			"error":    err.Error(),
			"duration": time.Since(start),
		})
		return nil, errors.FromTransport(err)
	}

	return &rawResponse{
		StatusCode: resp.StatusCode(),
		Body:       resp.Body(),
	}, nil
}

// bodyPreview shortens a response body for log output
func bodyPreview(body []byte) string {
	preview := string(body)
	if len(preview) > 200 {
		preview = preview[:200] + "..."
	}
	return preview
}
