// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "gothumb"

var (
	// CacheOperationsTotal tracks image cache operations.
	// Labels:
	//   - operation: get, set
	//   - status: hit, miss, success, error
	//   - cache_type: redis, minio
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_operations_total",
			Help:      "Total number of image cache operations",
		},
		[]string{"operation", "status", "cache_type"},
	)

	// ThumbnailRequestsTotal tracks pipeline outcomes.
	// Labels:
	//   - concept_type: collection, granule, other
	//   - outcome: cached, resolved, placeholder, not_found, error
	ThumbnailRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "thumbnail_requests_total",
			Help:      "Total number of thumbnail resolutions by outcome",
		},
		[]string{"concept_type", "outcome"},
	)

	// DownloadsTotal tracks external image downloads.
	// Labels:
	//   - result: success, timeout, failure
	DownloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "downloads_total",
			Help:      "Total number of browse image downloads",
		},
		[]string{"result"},
	)

	// CMRRequestsTotal tracks calls to the CMR metadata service.
	// Labels:
	//   - endpoint: concept, granules
	//   - status: success, error
	CMRRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cmr_requests_total",
			Help:      "Total number of CMR metadata requests",
		},
		[]string{"endpoint", "status"},
	)

	// SingleflightRequestsTotal tracks singleflight behavior.
	// Labels:
	//   - result: initiated (new execution), shared (reused result)
	SingleflightRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "singleflight_requests_total",
			Help:      "Total number of singleflight requests",
		},
		[]string{"result"},
	)
)

// Cache operation status constants.
const (
	CacheStatusHit     = "hit"
	CacheStatusMiss    = "miss"
	CacheStatusSuccess = "success"
	CacheStatusError   = "error"
)

// Cache operation type constants.
const (
	CacheOpGet = "get"
	CacheOpSet = "set"
)

// Cache type constants.
const (
	CacheTypeRedis = "redis"
	CacheTypeMinIO = "minio"
)

// Pipeline outcome constants.
const (
	OutcomeCached      = "cached"
	OutcomeResolved    = "resolved"
	OutcomePlaceholder = "placeholder"
	OutcomeNotFound    = "not_found"
	OutcomeError       = "error"
)

// Download result constants.
const (
	DownloadSuccess = "success"
	DownloadTimeout = "timeout"
	DownloadFailure = "failure"
)

// CMR endpoint and status constants.
const (
	CMREndpointConcept  = "concept"
	CMREndpointGranules = "granules"
	CMRStatusSuccess    = "success"
	CMRStatusError      = "error"
)

// Singleflight result constants.
const (
	SingleflightInitiated = "initiated"
	SingleflightShared    = "shared"
)
