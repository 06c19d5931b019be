package httpclient

import (
	"bytes"
	"context"
	"errors"
	"eventplanner/internal/application/common"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type RetryClient struct {
	delegate   HTTPClient
	maxRetries int
	// ShouldRetry решает, повторять ли запрос после ответа/ошибки
	ShouldRetry func(*http.Response, error) bool
	// Backoff задержка перед попыткой attempt (1..maxRetries-1)
	Backoff func(attempt int) time.Duration
	logger  *zap.SugaredLogger
}

func NewRetryClient(delegate HTTPClient, maxRetries int, logger *zap.SugaredLogger) *RetryClient {
	if maxRetries <= 0 {
		maxRetries = 3
	}

	return &RetryClient{
		delegate:    delegate,
		maxRetries:  maxRetries,
		ShouldRetry: DefaultShouldRetry,
		Backoff: func(attempt int) time.Duration {
			// запросы идут с пути обработки HTTP-запроса, поэтому задержки в сотнях миллисекунд
			return common.NextBackoffWithJitter(attempt) / 10
		},
		logger: logger,
	}
}

// DefaultShouldRetry повторяет сетевые ошибки, 5xx и 429; отмену и дедлайн контекста не повторяет
func DefaultShouldRetry(resp *http.Response, err error) bool {
	if err != nil {
		return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
	}
	if resp == nil {
		return true
	}
	return resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
}

func (c *RetryClient) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	// тело читаем один раз, чтобы отправлять его заново при повторе
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

	var resp *http.Response
	var err error

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		r := req.Clone(ctx)
		if req.GetBody != nil {
			if r.Body, err = req.GetBody(); err != nil {
				return nil, err
			}
		}

		resp, err = c.delegate.Do(ctx, r)

		if !c.ShouldRetry(resp, err) || attempt == c.maxRetries-1 {
			return resp, err
		}

		// освобождаем соединение перед повтором
		if resp != nil && resp.Body != nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
		}

		backoff := c.Backoff(attempt + 1)
		c.logger.Warnf("retry attempt=%d backoff=%s method=%s url=%s err=%v",
			attempt+1, backoff, req.Method, req.URL.String(), err)

		if sleepErr := common.SleepCtx(ctx, backoff); sleepErr != nil {
			return nil, fmt.Errorf("retry sleep canceled: %w", sleepErr)
		}
	}

	return resp, err
}
