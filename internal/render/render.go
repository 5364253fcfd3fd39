// Package render provides the two fetch strategies for retrieving raw page
// markup: a single static HTTP request and a full headless-browser render.
package render

import (
	"context"
	"fmt"

	"github.com/minkyu-dev/blogcrawl/internal/domain"
)

// Renderer fetches the raw markup for a URL.
type Renderer interface {
	Fetch(ctx context.Context, url string) (*domain.RenderedPage, error)
}

// FetchError describes a failed fetch. A timeout, DNS failure, non-2xx
// status, or an unsatisfied render wait all surface as a FetchError; callers
// skip the URL and continue the run.
type FetchError struct {
	URL        string
	StatusCode int
	Reason     string
	Err        error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: %s (status %d)", e.URL, e.Reason, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Reason)
}

// Unwrap returns the underlying error, if any.
func (e *FetchError) Unwrap() error {
	return e.Err
}
