package drive

import (
	"fmt"
	"runtime"
	"time"

	"github.com/imroc/req/v3"

	"github.com/taskmirror/taskmirror/internal/version"
)

const (
	DefaultBaseURL = "https://files.example.com"

	callTimeout = 30 * time.Second
)

var userAgent = fmt.Sprintf("TaskMirror/%s (%s; %s; %s)", version.Version, version.Revision, runtime.GOOS, runtime.GOARCH)

// Config holds the credentials for the file source API.
type Config struct {
	BaseURL  string
	APIToken string
}

func (c *Config) Validate() error {
	if c.APIToken == "" {
		return ErrNoAPIToken
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	return nil
}

// Client is the REST client for the file source.
type Client struct {
	http *req.Client
}

// New creates a file source client.
func New(cfg *Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	http := req.C().
		SetBaseURL(cfg.BaseURL).
		SetUserAgent(userAgent).
		SetCommonBearerAuthToken(cfg.APIToken).
		SetCommonErrorResult(&apiErrorBody{}).
		SetCommonRetryCount(3).
		SetCommonRetryFixedInterval(1 * time.Second).
		SetCommonRetryCondition(retryCondition).
		SetTimeout(callTimeout).
		SetJsonMarshal(jsonMarshal).
		SetJsonUnmarshal(jsonUnmarshal)

	return &Client{http: http}, nil
}

// Close releases idle connections held by the client.
func (c *Client) Close() {
	c.http.GetTransport().CloseIdleConnections()
}

// retryCondition retries transient failures only.
func retryCondition(resp *req.Response, err error) bool {
	if err != nil {
		return true
	}
	return resp.StatusCode >= 500 || resp.StatusCode == 429
}
