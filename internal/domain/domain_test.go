package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArticleRecord_Empty(t *testing.T) {
	t.Parallel()

	assert.True(t, ArticleRecord{URL: "https://x.test/a", Date: "2024.01.01"}.Empty())
	assert.False(t, ArticleRecord{Title: "t"}.Empty())
	assert.False(t, ArticleRecord{Content: "c"}.Empty())
}

func TestArticleRecord_ResultOmittedWhenNil(t *testing.T) {
	t.Parallel()

	raw, err := json.Marshal(ArticleRecord{URL: "u", Title: "t"})
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "result")

	empty := ""
	raw, err = json.Marshal(ArticleRecord{URL: "u", Result: &empty})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"result":""`)
}
