// Package download fetches browse images from external sources under a time
// budget derived from the caller's deadline.
package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/hszk-dev/gothumb/internal/domain/repository"
	"github.com/hszk-dev/gothumb/internal/infrastructure/metrics"
)

// minBudget is the floor for a download budget. When the remaining deadline
// is already inside the safety delta the download is almost certainly doomed,
// but it still gets a token window rather than a zero-duration context.
const minBudget = 100 * time.Millisecond

// Config holds configuration for the HTTP downloader.
type Config struct {
	// TimeoutDelta is subtracted from the remaining request deadline so the
	// pipeline keeps enough headroom to respond after an aborted download.
	TimeoutDelta time.Duration
	// FallbackTimeout bounds a download when the context has no deadline.
	FallbackTimeout time.Duration
}

// HTTPDownloader implements repository.ImageDownloader using net/http.
type HTTPDownloader struct {
	client          *http.Client
	timeoutDelta    time.Duration
	fallbackTimeout time.Duration
	logger          *slog.Logger
}

// NewHTTPDownloader creates a downloader with the given budget configuration.
func NewHTTPDownloader(cfg Config, logger *slog.Logger) *HTTPDownloader {
	return &HTTPDownloader{
		client:          &http.Client{},
		timeoutDelta:    cfg.TimeoutDelta,
		fallbackTimeout: cfg.FallbackTimeout,
		logger:          logger,
	}
}

// Download fetches the image at url, bounded by the computed budget.
// A budget expiry maps to repository.ErrDownloadTimeout; transport errors and
// non-2xx responses map to repository.ErrDownloadFailed. No retries.
func (d *HTTPDownloader) Download(ctx context.Context, url string) ([]byte, error) {
	budget := d.budget(ctx)

	dlCtx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	req, err := http.NewRequestWithContext(dlCtx, http.MethodGet, url, nil)
	if err != nil {
		metrics.DownloadsTotal.WithLabelValues(metrics.DownloadFailure).Inc()
		return nil, fmt.Errorf("%w: build request for %s: %v", repository.ErrDownloadFailed, url, err)
	}

	res, err := d.client.Do(req)
	if err != nil {
		return nil, d.classify(err, dlCtx, url, budget)
	}
	defer res.Body.Close()

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		metrics.DownloadsTotal.WithLabelValues(metrics.DownloadFailure).Inc()
		return nil, fmt.Errorf("%w: %s [%d]: %s", repository.ErrDownloadFailed, url, res.StatusCode, res.Status)
	}

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, d.classify(err, dlCtx, url, budget)
	}

	metrics.DownloadsTotal.WithLabelValues(metrics.DownloadSuccess).Inc()
	return data, nil
}

// budget computes how long a download may run: the remaining request
// deadline minus the safety delta, never exceeding the caller's deadline.
func (d *HTTPDownloader) budget(ctx context.Context) time.Duration {
	deadline, ok := ctx.Deadline()
	if !ok {
		return d.fallbackTimeout
	}

	budget := time.Until(deadline) - d.timeoutDelta
	if budget < minBudget {
		budget = minBudget
	}
	return budget
}

// classify maps a transport error to the timeout or failure sentinel.
// Timeouts are logged distinctly for observability; the pipeline handles
// both identically.
func (d *HTTPDownloader) classify(err error, dlCtx context.Context, url string, budget time.Duration) error {
	if errors.Is(dlCtx.Err(), context.DeadlineExceeded) {
		d.logger.Warn("download timed out",
			slog.String("url", url),
			slog.Duration("budget", budget),
		)
		metrics.DownloadsTotal.WithLabelValues(metrics.DownloadTimeout).Inc()
		return fmt.Errorf("%w: %s after %s", repository.ErrDownloadTimeout, url, budget)
	}

	metrics.DownloadsTotal.WithLabelValues(metrics.DownloadFailure).Inc()
	return fmt.Errorf("%w: %s: %v", repository.ErrDownloadFailed, url, err)
}
