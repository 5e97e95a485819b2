// Package client is a typed Go client for the BlogHub HTTP API.
package client

import (
	"fmt"
	"time"

	"github.com/BloggingApp/bloghub/internal/dto"
	"github.com/go-resty/resty/v2"
)

const DEFAULT_TIMEOUT = 10 * time.Second

// APIError is returned for every non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("[%d] %s", e.StatusCode, e.Message)
}

func IsUnauthorized(err error) bool {
	return statusOf(err) == 401
}

func IsForbidden(err error) bool {
	return statusOf(err) == 403
}

func IsNotFound(err error) bool {
	return statusOf(err) == 404
}

func statusOf(err error) int {
	if apiErr, ok := err.(*APIError); ok {
		return apiErr.StatusCode
	}
	return 0
}

// Client holds only the server address and the bearer token of the current
// session. Nothing is persisted.
type Client struct {
	http  *resty.Client
	token string
}

func New(baseURL string) *Client {
	httpClient := resty.New()
	httpClient.SetBaseURL(baseURL)
	httpClient.SetTimeout(DEFAULT_TIMEOUT)
	httpClient.SetHeader("User-Agent", "bloghub-client")

	return &Client{
		http: httpClient,
	}
}

func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) Token() string {
	return c.token
}

func (c *Client) request() *resty.Request {
	req := c.http.R().SetError(&dto.MessageResponse{})
	if c.token != "" {
		req.SetAuthToken(c.token)
	}
	return req
}

func parseError(resp *resty.Response) error {
	msg := resp.Status()
	if body, ok := resp.Error().(*dto.MessageResponse); ok && body.Message != "" {
		msg = body.Message
	}
	return &APIError{
		StatusCode: resp.StatusCode(),
		Message:    msg,
	}
}

func (c *Client) do(method, path string, body, result interface{}) error {
	req := c.request()
	if body != nil {
		req.SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return parseError(resp)
	}
	return nil
}
