package repository

import "context"

// ImageDownloader fetches raw image bytes from an external URL under a hard
// time budget derived from the request's remaining deadline.
type ImageDownloader interface {
	// Download returns the body of a successful 2xx response. It returns an
	// error wrapping ErrDownloadTimeout when the budget elapses first, and an
	// error wrapping ErrDownloadFailed for transport errors and non-2xx
	// responses. No retries are performed.
	Download(ctx context.Context, url string) ([]byte, error)
}
