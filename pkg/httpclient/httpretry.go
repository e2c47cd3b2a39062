package httpclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
	"wardflow/internal/application/common"

	"go.uber.org/zap"
)

// RetryClient повторяет запрос на сетевых ошибках, 5xx, 408 и 429.
// Тело запроса буферизуется один раз и переотправляется на каждой попытке.
type RetryClient struct {
	delegate    HTTPClient
	maxAttempts int
	ShouldRetry func(*http.Response, error) bool
	Backoff     func(attempt int) time.Duration
	logger      *zap.SugaredLogger
}

func NewRetryClient(delegate HTTPClient, maxAttempts int, logger *zap.SugaredLogger) *RetryClient {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	return &RetryClient{
		delegate:    delegate,
		maxAttempts: maxAttempts,
		ShouldRetry: DefaultShouldRetry,
		Backoff:     common.NextBackoffWithJitter,
		logger:      logger,
	}
}

func DefaultShouldRetry(resp *http.Response, err error) bool {
	// не ретраим явную отмену/дедлайн
	if err != nil {
		return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
	}
	if resp == nil {
		return true
	}
	return resp.StatusCode >= 500 ||
		resp.StatusCode == http.StatusTooManyRequests ||
		resp.StatusCode == http.StatusRequestTimeout
}

func (c *RetryClient) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if req.Body != nil && req.GetBody == nil {
		buf, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		_ = req.Body.Close()
		req.ContentLength = int64(len(buf))
		req.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(buf)), nil
		}
	}

	for attempt := 1; ; attempt++ {
		r := req.Clone(ctx)
		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, err
			}
			r.Body = body
		}

		resp, err := c.delegate.Do(ctx, r)
		if attempt >= c.maxAttempts || !c.ShouldRetry(resp, err) {
			return resp, err
		}

		// соединение обратно в пул перед повтором
		if resp != nil && resp.Body != nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
		}

		backoff := c.Backoff(attempt)
		c.logger.Warnf("retry attempt=%d backoff=%s method=%s url=%s status=%s err=%v",
			attempt, backoff, req.Method, req.URL.Redacted(), statusOf(resp), err)

		if err := common.SleepCtx(ctx, backoff); err != nil {
			return nil, fmt.Errorf("retry sleep canceled: %w", err)
		}
	}
}

func statusOf(resp *http.Response) string {
	if resp == nil {
		return "-"
	}
	return resp.Status
}
