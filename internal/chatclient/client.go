package chatclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/fudscan-ai/fudscan-webapp-sub001/internal/chatbot"
)

const (
	DefaultTimeout = 60 * time.Second
	chatPath       = "/api/chat"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout bounds a whole call, streamed body included. Zero disables it.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		timeout:    DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Result is the outcome of a non-streaming call. Non-2xx statuses are not
// errors: the caller branches on StatusCode and reads ErrorMessage.
type Result struct {
	StatusCode   int
	ContentType  string
	Response     *chatbot.ChatResponse
	ErrorMessage string
}

func (r *Result) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Send posts one chat turn with stream=false.
func (c *Client) Send(ctx context.Context, message string) (*Result, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.post(ctx, chatbot.ChatRequest{Message: message}, "application/json")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{URL: c.url(), Err: err}
	}

	result := &Result{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
	}
	if !result.OK() {
		result.ErrorMessage = errorMessage(resp.StatusCode, body)
		return result, nil
	}

	var chatResponse chatbot.ChatResponse
	if err := json.Unmarshal(body, &chatResponse); err != nil {
		return nil, &DecodeError{ContentType: result.ContentType, Err: err}
	}
	result.Response = &chatResponse
	return result, nil
}

// Stream posts one chat turn with stream=true and returns the decoded event
// stream.
func (c *Client) Stream(ctx context.Context, message string) (*Stream, error) {
	ctx, cancel := c.withTimeout(ctx)

	resp, err := c.post(ctx, chatbot.ChatRequest{Message: message, Stream: true}, "text/event-stream")
	if err != nil {
		cancel()
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer cancel()
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return nil, &StatusError{StatusCode: resp.StatusCode, Message: errorMessage(resp.StatusCode, body)}
	}

	contentType := resp.Header.Get("Content-Type")
	if mediaType, _, _ := mime.ParseMediaType(contentType); mediaType != "text/event-stream" {
		cancel()
		resp.Body.Close()
		return nil, &DecodeError{ContentType: contentType, Err: errors.New("expected text/event-stream")}
	}

	stream := newStream(cancel)
	go stream.run(ctx, resp.Body)
	return stream, nil
}

// ------------------Private helper function------------------

func (c *Client) url() string {
	return c.baseURL + chatPath
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

func (c *Client) post(ctx context.Context, payload chatbot.ChatRequest, accept string) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(), bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{URL: c.url(), Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", accept)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{URL: c.url(), Err: err}
	}
	return resp, nil
}

func errorMessage(statusCode int, body []byte) string {
	var errResponse chatbot.ErrorResponse
	if err := json.Unmarshal(body, &errResponse); err == nil && errResponse.Error != "" {
		return errResponse.Error
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return http.StatusText(statusCode)
}
