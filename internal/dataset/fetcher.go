package dataset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	cache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/yourusername/gridiron-edge/internal/config"
)

// maxSlateBody bounds how much of a slate response is read.
const maxSlateBody = 8 << 20

// Fetcher pulls slates from the remote data service with retries, rate
// limiting and a short TTL cache. The cache keeps repeated --watch
// evaluations from hammering the service inside one polling window.
type Fetcher struct {
	loader  *Loader
	client  *retryablehttp.Client
	limiter *rate.Limiter
	cache   *cache.Cache
	baseURL string
	apiKey  string
	logger  *logrus.Logger
}

// NewFetcher creates a slate fetcher from dataset configuration.
// ServiceURL must be set.
func NewFetcher(cfg config.DatasetConfig, loader *Loader, logger *logrus.Logger) (*Fetcher, error) {
	if cfg.ServiceURL == "" {
		return nil, fmt.Errorf("dataset service_url is required")
	}
	if loader == nil {
		return nil, fmt.Errorf("loader is required")
	}
	if logger == nil {
		logger = logrus.New()
	}

	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	retryClient.RetryMax = cfg.MaxRetries
	retryClient.RetryWaitMin = 100 * time.Millisecond
	retryClient.RetryWaitMax = 10 * time.Second
	retryClient.CheckRetry = slateRetryPolicy()
	retryClient.Logger = nil

	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second

	return &Fetcher{
		loader:  loader,
		client:  retryClient,
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimitPerSecond), 1),
		cache:   cache.New(ttl, ttl*2),
		baseURL: cfg.ServiceURL,
		apiKey:  cfg.APIKey,
		logger:  logger,
	}, nil
}

// FetchSlate retrieves and parses the slate for one season week.
func (f *Fetcher) FetchSlate(ctx context.Context, season, week int, coords map[string][2]float64) ([]Entry, error) {
	key := fmt.Sprintf("slate:%d:%d", season, week)
	if cached, found := f.cache.Get(key); found {
		if entries, ok := cached.([]Entry); ok {
			f.logger.WithField("key", key).Debug("Slate cache hit")
			return entries, nil
		}
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	url := fmt.Sprintf("%s/slates/%d/%d", f.baseURL, season, week)
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if f.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.apiKey)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("slate fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("slate fetch returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxSlateBody))
	if err != nil {
		return nil, fmt.Errorf("failed to read slate body: %w", err)
	}

	entries, err := f.loader.ParseSlate(data, coords)
	if err != nil {
		return nil, err
	}

	f.cache.Set(key, entries, cache.DefaultExpiration)
	return entries, nil
}

// Close releases idle connections.
func (f *Fetcher) Close() {
	f.client.HTTPClient.CloseIdleConnections()
}

// slateRetryPolicy retries network errors, 429 and 5xx responses, and
// gives up immediately on other client errors.
func slateRetryPolicy() retryablehttp.CheckRetry {
	return func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		if err != nil {
			return true, err
		}
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return true, nil
		}
		return false, nil
	}
}
