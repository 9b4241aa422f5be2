package resend

import (
	"context"
	"errors"
	"fmt"
	"github.com/avast/retry-go"
	resendgo "github.com/resend/resend-go/v2"
	"go.uber.org/zap"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type (
	SendEmailRequest  = resendgo.SendEmailRequest
	SendEmailResponse = resendgo.SendEmailResponse
	Tag               = resendgo.Tag
)

// ClientConfig contains configuration for the Resend client
type ClientConfig struct {
	BaseURL        string
	APIKey         string
	MaxRetries     int
	RetryDelay     time.Duration
	RequestTimeout time.Duration
}

// Client sends email through the Resend SDK and retries rate limited and
// server side failures.
type Client struct {
	config ClientConfig
	emails resendgo.EmailsSvc
	logger *zap.Logger
}

// NewClient creates a new Resend API client
func NewClient(config ClientConfig, logger *zap.Logger) (*Client, error) {
	if config.MaxRetries == 0 {
		config.MaxRetries = 3
	}
	if config.RetryDelay == 0 {
		config.RetryDelay = 1 * time.Second
	}
	if config.RequestTimeout == 0 {
		config.RequestTimeout = 30 * time.Second
	}

	sdk := resendgo.NewCustomClient(&http.Client{
		Timeout:   config.RequestTimeout,
		Transport: &statusTransport{next: http.DefaultTransport},
	}, config.APIKey)

	if config.BaseURL != "" {
		// the SDK resolves endpoint paths relative to the base URL
		baseURL, err := url.Parse(strings.TrimSuffix(config.BaseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid resend base url: %w", err)
		}
		sdk.BaseURL = baseURL
	}

	return &Client{
		config: config,
		emails: sdk.Emails,
		logger: logger.Named("resend"),
	}, nil
}

// SendEmail delivers a single message and returns the id Resend assigned to
// it. A non-empty idempotencyKey lets Resend drop repeats of the same send.
func (c *Client) SendEmail(ctx context.Context, req *SendEmailRequest, idempotencyKey string) (*SendEmailResponse, error) {
	c.logger.Debug("sending email", zap.Int("recipients", len(req.To)))

	var resp *SendEmailResponse

	err := retry.Do(
		func() error {
			var err error
			resp, err = c.send(ctx, req, idempotencyKey)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(uint(c.config.MaxRetries)+1),
		retry.Delay(c.config.RetryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isRetryable),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Info("retrying request",
				zap.String("endpoint", "emails"),
				zap.Uint("attempt", n+1),
				zap.Error(err),
			)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("send email failed: %w", err)
	}

	c.logger.Debug("email accepted", zap.String("email_id", resp.Id))

	return resp, nil
}

func (c *Client) send(ctx context.Context, req *SendEmailRequest, idempotencyKey string) (*SendEmailResponse, error) {
	status := &responseStatus{}

	resp, err := c.emails.SendWithOptions(context.WithValue(ctx, responseStatusKey{}, status), req, &resendgo.SendEmailOptions{
		IdempotencyKey: idempotencyKey,
	})
	if err != nil {
		if status.code != 0 {
			return nil, &APIError{StatusCode: status.code, Err: err}
		}
		return nil, err
	}

	return resp, nil
}

// isRetryable retries 429 and 5xx responses and transport failures. Other
// 4xx responses and cancellation are returned at once.
func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= 500
	}

	return !errors.Is(err, resendgo.ErrFailedToCreateEmailsSendRequest)
}

// APIError is a non-2xx answer from the Resend API.
type APIError struct {
	StatusCode int
	Err        error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("resend API error (status %d): %s", e.StatusCode, e.Err)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

type responseStatusKey struct{}

type responseStatus struct {
	code int
}

// statusTransport records the HTTP status of a response on the request's
// context so a failed SDK call can be classified by status code.
type statusTransport struct {
	next http.RoundTripper
}

func (t *statusTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req)
	if resp != nil {
		if status, ok := req.Context().Value(responseStatusKey{}).(*responseStatus); ok {
			status.code = resp.StatusCode
		}
	}
	return resp, err
}
