package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	retry "github.com/avast/retry-go/v4"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func NewHttpClient(endpoint string, opts ...RequestOption) *HttpClient {
	return &HttpClient{
		endpoint: endpoint,
		hc: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		authOpts: opts,
		logger:   slog.Default(),
		retry:    1,
	}
}

type HttpClient struct {
	endpoint string
	hc       *http.Client
	authOpts []RequestOption
	logger   *slog.Logger
	retry    uint
}

// WithRetry sets the total number of attempts per request. Requests are
// never retried after a context cancellation.
func (c *HttpClient) WithRetry(attempts uint) *HttpClient {
	if attempts > 0 {
		c.retry = attempts
	}
	return c
}

func (c *HttpClient) Get(ctx context.Context, path string, outObj interface{}) error {
	resp, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if outObj == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(outObj)
}

func (c *HttpClient) Post(ctx context.Context, path string, reqObj interface{}, outObj interface{}) error {
	resp, err := c.doRequest(ctx, http.MethodPost, path, reqObj)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if outObj == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(outObj)
}

// PostResponse posts reqObj and hands the raw response to the caller, who
// owns closing the body.
func (c *HttpClient) PostResponse(ctx context.Context, path string, reqObj interface{}) (*http.Response, error) {
	return c.doRequest(ctx, http.MethodPost, path, reqObj)
}

// GetResponse issues a GET and hands the raw response to the caller, who
// owns closing the body. Used for streaming endpoints like log follow.
func (c *HttpClient) GetResponse(ctx context.Context, path string) (*http.Response, error) {
	return c.doRequest(ctx, http.MethodGet, path, nil)
}

func (c *HttpClient) Delete(ctx context.Context, path string, outObj interface{}) error {
	resp, err := c.doRequest(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if outObj == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(outObj)
}

func (c *HttpClient) doRequest(ctx context.Context, method, path string, reqObj interface{}) (*http.Response, error) {
	url := fmt.Sprintf("%s%s", c.endpoint, path)

	var body []byte
	if reqObj != nil {
		var err error
		body, err = json.Marshal(reqObj)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	var resp *http.Response
	err := retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
			if err != nil {
				return fmt.Errorf("failed to create request: %w", err)
			}
			if reqObj != nil {
				req.Header.Set("Content-Type", "application/json")
			}
			for _, opt := range c.authOpts {
				opt.Set(req)
			}
			resp, err = c.hc.Do(req)
			if err != nil {
				return fmt.Errorf("failed to do http request, url:%s, err:%w", url, err)
			}
			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				resp.Body.Close()
				return fmt.Errorf("unexpected http status, url:%s, status:%d", url, resp.StatusCode)
			}
			return nil
		},
		retry.Attempts(c.retry),
		retry.Delay(200*time.Millisecond),
		retry.MaxDelay(2*time.Second),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
		}),
		retry.OnRetry(func(n uint, err error) {
			c.logger.WarnContext(ctx, "http request failed, retrying",
				slog.String("method", method),
				slog.String("url", url),
				slog.Any("attempt", n),
				slog.Any("error", err),
			)
		}),
	)
	if err != nil {
		return nil, err
	}
	return resp, nil
}
