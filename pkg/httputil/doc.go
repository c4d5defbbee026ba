// Package httputil provides HTTP utilities for fetching remote images.
//
// # Overview
//
// This package provides the infrastructure behind URL inputs to the sort
// pipeline:
//
//   - [Fetch]: Bounded download of a remote resource with retries
//   - [Cache]: File-based response caching keyed by URL
//   - [Retry]: Automatic retry with exponential backoff
//
// # Fetching
//
// [Fetch] downloads a URL into memory with a body size cap, so a
// misbehaving server cannot exhaust memory. Transient failures (network
// errors, 5xx responses, 429 rate limits) are retried with exponential
// backoff; 404 maps to [ErrNotFound]:
//
//	data, err := httputil.Fetch(ctx, nil, url, 32<<20)
//
// # Caching
//
// [Cache] stores fetched bodies in the filesystem (~/.cache/pixelsort/)
// with a configurable TTL, so repeated runs against the same remote image
// do not re-download it.
//
// Usage:
//
//	cache, err := httputil.NewCache("", 24*time.Hour)
//	var data []byte
//	if ok, _ := cache.Get("img:"+url, &data); !ok {
//	    data, _ = httputil.Fetch(ctx, nil, url, 0)
//	    cache.Set("img:"+url, data)
//	}
//
// Cache keys should be namespaced to avoid collisions; [Cache.Namespace]
// applies a prefix automatically.
//
// # Retry
//
// [Retry] wraps operations with automatic retry for transient failures.
// Only errors wrapped in [RetryableError] are retried:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    return fetchOnce()
//	})
//
// # Configuration
//
// Default settings are suitable for most use cases:
//
//   - Cache directory: ~/.cache/pixelsort/
//   - Max retries: 3
//   - Base backoff: 1 second
//   - Max body size: 64 MiB
//
// The cache can be cleared via `pixelsort cache clear` or by deleting the
// cache directory.
package httputil
