// Package cmr implements browse-image resolution against the CMR metadata
// service: concept lookup, granule listing, and the collection-to-granule
// cascade.
package cmr

import (
	"context"
	"fmt"
	"log/slog"

	"resty.dev/v3"

	"github.com/hszk-dev/gothumb/internal/domain/model"
	"github.com/hszk-dev/gothumb/internal/infrastructure/metrics"
)

// Link is one entry of a concept's links array.
type Link struct {
	Href string `json:"href"`
	Rel  string `json:"rel"`
}

// Concept is the subset of CMR concept metadata the resolver inspects.
// An errors array in the payload marks the lookup as failed.
type Concept struct {
	Errors []string `json:"errors"`
	Links  []Link   `json:"links"`
}

// granuleFeed is the response shape of the granule search endpoint.
type granuleFeed struct {
	Errors []string `json:"errors"`
	Feed   struct {
		Entry []Concept `json:"entry"`
	} `json:"feed"`
}

// ClientConfig holds configuration for the CMR client.
type ClientConfig struct {
	// RootURL is the base URL of the CMR instance, e.g. https://cmr.earthdata.nasa.gov.
	RootURL string
	// Token, when set, is sent as an Echo-Token header on every request.
	Token string
}

// Client resolves browse-image URLs from CMR metadata. It implements
// repository.BrowseImageResolver.
type Client struct {
	http    *resty.Client
	rootURL string
	token   string
	logger  *slog.Logger
}

// NewClient creates a CMR client against the given instance.
func NewClient(cfg ClientConfig, logger *slog.Logger) *Client {
	return &Client{
		http:    resty.New(),
		rootURL: cfg.RootURL,
		token:   cfg.Token,
		logger:  logger,
	}
}

// Close releases the underlying HTTP client resources.
func (c *Client) Close() error {
	return c.http.Close()
}

// FetchConcept retrieves the metadata record for a concept id.
func (c *Client) FetchConcept(ctx context.Context, conceptID string) (*Concept, error) {
	var concept Concept

	res, err := c.http.R().
		SetContext(ctx).
		SetHeaders(c.headers()).
		SetResult(&concept).
		Get(fmt.Sprintf("%s/search/concepts/%s.json", c.rootURL, conceptID))
	if err != nil {
		metrics.CMRRequestsTotal.WithLabelValues(metrics.CMREndpointConcept, metrics.CMRStatusError).Inc()
		return nil, fmt.Errorf("fetch concept %s: %w", conceptID, err)
	}
	if res.IsError() {
		metrics.CMRRequestsTotal.WithLabelValues(metrics.CMREndpointConcept, metrics.CMRStatusError).Inc()
		return nil, fmt.Errorf("fetch concept %s: unexpected status %d", conceptID, res.StatusCode())
	}
	if len(concept.Errors) > 0 {
		metrics.CMRRequestsTotal.WithLabelValues(metrics.CMREndpointConcept, metrics.CMRStatusError).Inc()
		return nil, fmt.Errorf("fetch concept %s: %s", conceptID, concept.Errors[0])
	}

	metrics.CMRRequestsTotal.WithLabelValues(metrics.CMREndpointConcept, metrics.CMRStatusSuccess).Inc()
	return &concept, nil
}

// FetchCollectionGranules retrieves the first page of granules belonging to a
// collection, in the order the metadata service returns them.
func (c *Client) FetchCollectionGranules(ctx context.Context, collectionID string) ([]Concept, error) {
	var feed granuleFeed

	res, err := c.http.R().
		SetContext(ctx).
		SetHeaders(c.headers()).
		SetQueryParam("collection_concept_id", collectionID).
		SetResult(&feed).
		Get(c.rootURL + "/search/granules.json")
	if err != nil {
		metrics.CMRRequestsTotal.WithLabelValues(metrics.CMREndpointGranules, metrics.CMRStatusError).Inc()
		return nil, fmt.Errorf("fetch granules for %s: %w", collectionID, err)
	}
	if res.IsError() {
		metrics.CMRRequestsTotal.WithLabelValues(metrics.CMREndpointGranules, metrics.CMRStatusError).Inc()
		return nil, fmt.Errorf("fetch granules for %s: unexpected status %d", collectionID, res.StatusCode())
	}
	if len(feed.Errors) > 0 {
		metrics.CMRRequestsTotal.WithLabelValues(metrics.CMREndpointGranules, metrics.CMRStatusError).Inc()
		return nil, fmt.Errorf("fetch granules for %s: %s", collectionID, feed.Errors[0])
	}

	metrics.CMRRequestsTotal.WithLabelValues(metrics.CMREndpointGranules, metrics.CMRStatusSuccess).Inc()
	return feed.Feed.Entry, nil
}

// ResolveImageURL finds a browse-image URL for the concept.
//
// Granules resolve from their own metadata. Collections resolve from their
// own metadata first; when that yields nothing and cascade is enabled, the
// first page of the collection's granules is scanned in order and the first
// granule exposing a browse image wins. Every failure collapses to
// found=false; callers never see why resolution failed.
func (c *Client) ResolveImageURL(ctx context.Context, conceptID string, conceptType model.ConceptType, cascade bool) (string, bool) {
	concept, err := c.FetchConcept(ctx, conceptID)
	if err != nil {
		c.logger.Warn("concept fetch failed",
			slog.String("concept_id", conceptID),
			slog.String("error", err.Error()),
		)
		return "", false
	}

	if conceptType.IsGranule() {
		return browseImageURL(concept)
	}

	if conceptType.IsCollection() {
		if url, found := browseImageURL(concept); found {
			return url, true
		}

		if !cascade {
			return "", false
		}

		granules, err := c.FetchCollectionGranules(ctx, conceptID)
		if err != nil {
			c.logger.Warn("granule fetch failed",
				slog.String("concept_id", conceptID),
				slog.String("error", err.Error()),
			)
			return "", false
		}

		// First qualifying granule wins; the rest are not evaluated.
		for i := range granules {
			if url, found := browseImageURL(&granules[i]); found {
				return url, true
			}
		}

		return "", false
	}

	c.logger.Warn("unable to find browse imagery for concept",
		slog.String("concept_id", conceptID),
		slog.String("concept_type", conceptType.String()),
	)
	return "", false
}

func (c *Client) headers() map[string]string {
	headers := map[string]string{
		"Accept": "application/json",
	}
	if c.token != "" {
		headers["Echo-Token"] = c.token
	}
	return headers
}
