package platform

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minkyu-dev/blogcrawl/internal/domain"
	"github.com/minkyu-dev/blogcrawl/internal/logger"
)

// fakeRenderer serves canned markup and records its calls.
type fakeRenderer struct {
	html     string
	err      error
	strategy domain.Strategy
	calls    int
}

func (f *fakeRenderer) Fetch(_ context.Context, url string) (*domain.RenderedPage, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &domain.RenderedPage{URL: url, HTML: f.html, Strategy: f.strategy}, nil
}

// rawContent treats the whole page markup as the record content, which lets
// the escalation tests control content length directly.
func rawContent(page domain.RenderedPage) domain.ArticleRecord {
	return domain.ArticleRecord{URL: page.URL, Content: page.HTML}
}

func TestFetchWithEscalation_RichStaticSkipsDynamic(t *testing.T) {
	t.Parallel()

	static := &fakeRenderer{html: "a long enough piece of extracted article content", strategy: domain.StaticFetch}
	dynamic := &fakeRenderer{html: "dynamic content", strategy: domain.DynamicRender}

	rec, err := fetchWithEscalation(context.Background(), static, dynamic, rawContent,
		domain.CandidateURL{URL: "https://example.com/a"}, 20, logger.NewNoOp())

	require.NoError(t, err)
	assert.Equal(t, static.html, rec.Content)
	assert.Equal(t, 1, static.calls)
	assert.Zero(t, dynamic.calls)
}

func TestFetchWithEscalation_ShortContentEscalatesExactlyOnce(t *testing.T) {
	t.Parallel()

	static := &fakeRenderer{html: "thin", strategy: domain.StaticFetch}
	dynamic := &fakeRenderer{html: "the script-rendered body with plenty of text", strategy: domain.DynamicRender}

	rec, err := fetchWithEscalation(context.Background(), static, dynamic, rawContent,
		domain.CandidateURL{URL: "https://example.com/a"}, 20, logger.NewNoOp())

	require.NoError(t, err)
	assert.Equal(t, dynamic.html, rec.Content)
	assert.Equal(t, 1, static.calls)
	assert.Equal(t, 1, dynamic.calls)
}

func TestFetchWithEscalation_StaticFailureFallsBack(t *testing.T) {
	t.Parallel()

	static := &fakeRenderer{err: errors.New("connection refused")}
	dynamic := &fakeRenderer{html: "rendered after the static fetch failed", strategy: domain.DynamicRender}

	rec, err := fetchWithEscalation(context.Background(), static, dynamic, rawContent,
		domain.CandidateURL{URL: "https://example.com/a"}, 20, logger.NewNoOp())

	require.NoError(t, err)
	assert.Equal(t, dynamic.html, rec.Content)
	assert.Equal(t, 1, dynamic.calls)
}

func TestFetchWithEscalation_BothFailSurfacesStaticError(t *testing.T) {
	t.Parallel()

	staticErr := errors.New("connection refused")
	static := &fakeRenderer{err: staticErr}
	dynamic := &fakeRenderer{err: errors.New("browser crashed")}

	_, err := fetchWithEscalation(context.Background(), static, dynamic, rawContent,
		domain.CandidateURL{URL: "https://example.com/a"}, 20, logger.NewNoOp())

	require.Error(t, err)
	assert.ErrorIs(t, err, staticErr)
}

func TestFetchWithEscalation_KeepsStaticWhenDynamicFails(t *testing.T) {
	t.Parallel()

	static := &fakeRenderer{html: "thin", strategy: domain.StaticFetch}
	dynamic := &fakeRenderer{err: errors.New("browser crashed")}

	rec, err := fetchWithEscalation(context.Background(), static, dynamic, rawContent,
		domain.CandidateURL{URL: "https://example.com/a"}, 20, logger.NewNoOp())

	require.NoError(t, err)
	assert.Equal(t, "thin", rec.Content)
}

func TestFetchWithEscalation_KeepsRicherStaticResult(t *testing.T) {
	t.Parallel()

	static := &fakeRenderer{html: "short but real", strategy: domain.StaticFetch}
	dynamic := &fakeRenderer{html: "x", strategy: domain.DynamicRender}

	rec, err := fetchWithEscalation(context.Background(), static, dynamic, rawContent,
		domain.CandidateURL{URL: "https://example.com/a"}, 20, logger.NewNoOp())

	require.NoError(t, err)
	assert.Equal(t, "short but real", rec.Content)
}

func TestExternalHTTPURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want bool
	}{
		{name: "https", raw: "https://blog.naver.com/user/1", want: true},
		{name: "http", raw: "http://example.com", want: true},
		{name: "hash placeholder", raw: "#", want: false},
		{name: "javascript placeholder", raw: "javascript:void(0)", want: false},
		{name: "relative path", raw: "/posts/1", want: false},
		{name: "empty", raw: "", want: false},
		{name: "whitespace", raw: "  ", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ExternalHTTPURL(tt.raw))
		})
	}
}

func TestRewriteRenderer_ReportsOriginalURL(t *testing.T) {
	t.Parallel()

	inner := &fakeRenderer{html: "body", strategy: domain.StaticFetch}
	r := rewriteRenderer{inner: inner, rewrite: naverMobileURL}

	page, err := r.Fetch(context.Background(), "https://blog.naver.com/user/1")

	require.NoError(t, err)
	assert.Equal(t, "https://blog.naver.com/user/1", page.URL)
}
