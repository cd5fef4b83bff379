package repository

import "errors"

var (
	// ErrDownloadTimeout is returned when an image download exceeds its time
	// budget. It is logged separately from ordinary download failures, but
	// the pipeline treats both the same way.
	ErrDownloadTimeout = errors.New("image download timed out")

	// ErrDownloadFailed is returned when the source responds with a non-2xx
	// status or the transfer fails. Downloads are never retried.
	ErrDownloadFailed = errors.New("image download failed")

	// ErrBucketNotFound is returned when the configured cache bucket does not exist.
	ErrBucketNotFound = errors.New("bucket not found")
)
