package httputil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/smearlab/pixelsort/pkg/observability"
)

const (
	// DefaultMaxFetchBytes caps how much of a response body [Fetch] will
	// read when the caller passes no explicit limit.
	DefaultMaxFetchBytes = 64 << 20

	httpTimeout = 30 * time.Second
)

var (
	// ErrNotFound is returned when the remote resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection
	// errors, non-2xx responses).
	ErrNetwork = errors.New("network error")

	// ErrTooLarge is returned when the response body exceeds the size cap.
	ErrTooLarge = errors.New("response body too large")
)

// NewHTTPClient creates an HTTP client with a timeout sized for image
// downloads.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// Fetch downloads url into memory. Transient failures are retried with
// exponential backoff; the body is capped at maxBytes (or
// [DefaultMaxFetchBytes] when maxBytes <= 0). A nil client gets
// [NewHTTPClient].
func Fetch(ctx context.Context, client *http.Client, url string, maxBytes int64) ([]byte, error) {
	if client == nil {
		client = NewHTTPClient()
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxFetchBytes
	}

	var body []byte
	err := RetryWithBackoff(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}

		observability.HTTP().OnRequest(ctx, req.Method, req.URL.Host, req.URL.Path)
		start := time.Now()

		resp, err := client.Do(req)
		if err != nil {
			observability.HTTP().OnError(ctx, req.Method, req.URL.Host, req.URL.Path, err)
			return &RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
		}
		defer resp.Body.Close()
		observability.HTTP().OnResponse(ctx, req.Method, req.URL.Host, req.URL.Path, resp.StatusCode, time.Since(start))

		if err := checkStatus(resp.StatusCode); err != nil {
			return err
		}

		// Read one byte past the cap to distinguish at-limit from over.
		data, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
		if err != nil {
			return &RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
		}
		if int64(len(data)) > maxBytes {
			return fmt.Errorf("%w: body exceeds %d bytes", ErrTooLarge, maxBytes)
		}
		body = data
		return nil
	})
	return body, err
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusTooManyRequests, code >= 500:
		return &RetryableError{Err: fmt.Errorf("%w: status %d", ErrNetwork, code)}
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}
