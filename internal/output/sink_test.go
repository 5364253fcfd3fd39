package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minkyu-dev/blogcrawl/internal/domain"
	"github.com/minkyu-dev/blogcrawl/internal/logger"
)

func TestJSONFileSink_Write(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "naver_results.json")
	sink := NewJSONFileSink(path, logger.NewNoOp())

	empty := ""
	records := []domain.ArticleRecord{
		{
			URL:     "https://blog.naver.com/alpha/1?from=search&query=면접",
			Title:   "네이버 면접 후기",
			Content: "첫 줄\n둘째 줄",
			Date:    "2024.04.11",
		},
		{
			URL:    "https://www.saramin.co.kr/zf_user/interview-review?page=1",
			Title:  "카카오",
			Result: &empty,
		},
	}

	require.NoError(t, sink.Write(records))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	data := string(raw)

	// Korean text and URL metacharacters are written verbatim.
	assert.Contains(t, data, "네이버 면접 후기")
	assert.Contains(t, data, "from=search&query=면접")
	assert.NotContains(t, data, `\u`)
	// Two-space pretty printing.
	assert.Contains(t, data, "\n  {")
	assert.Contains(t, data, `    "url":`)
	// Result appears only on the record that set it.
	assert.Contains(t, data, `"result": ""`)

	var decoded []domain.ArticleRecord
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Len(t, decoded, 2)
	assert.Nil(t, decoded[0].Result)
	require.NotNil(t, decoded[1].Result)
	assert.Empty(t, *decoded[1].Result)
}

func TestJSONFileSink_WriteNilRecords(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "empty.json")
	sink := NewJSONFileSink(path, logger.NewNoOp())

	require.NoError(t, sink.Write(nil))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(raw))
}

func TestJSONFileSink_WriteReplacesPreviousContents(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "results.json")
	require.NoError(t, os.WriteFile(path, []byte("stale contents"), 0o644))

	sink := NewJSONFileSink(path, logger.NewNoOp())
	require.NoError(t, sink.Write([]domain.ArticleRecord{{URL: "u", Title: "t", Content: "c"}}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "stale")
}

func TestJSONFileSink_CheckWritable(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	ok := NewJSONFileSink(filepath.Join(dir, "new.json"), logger.NewNoOp())
	assert.NoError(t, ok.CheckWritable())

	// The probe must not truncate an existing file.
	existing := filepath.Join(dir, "existing.json")
	require.NoError(t, os.WriteFile(existing, []byte("keep me"), 0o644))
	require.NoError(t, NewJSONFileSink(existing, logger.NewNoOp()).CheckWritable())
	raw, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "keep me", string(raw))

	bad := NewJSONFileSink(filepath.Join(dir, "missing", "deep", "out.json"), logger.NewNoOp())
	assert.Error(t, bad.CheckWritable())
}
