package platform

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minkyu-dev/blogcrawl/internal/domain"
	"github.com/minkyu-dev/blogcrawl/internal/logger"
)

const saraminListingFixture = `<html><body>
<div class="box_review">
  <div class="view_title">
    <strong>네이버 <span>관심기업</span></strong>
    <span class="txt_date">2024.04.11</span>
    <ul><li>신입</li><li>IT개발자</li></ul>
  </div>
  <div class="view_cont">
    <div class="info_emotion">
      <dl><dt>전반적 평가</dt><dd>긍정적</dd></dl>
      <dd class="spr_review">어려움</dd>
    </div>
    <div class="info_view"><ul><li>실무 면접</li><li>임원 면접</li></ul></div>
    <div class="info_view"><ul><li>다대일 면접</li></ul></div>
    <div class="info_view"><p class="txt_desc">1차 기술, 2차 임원 순으로 진행</p></div>
    <div class="info_view">
      <ul class="list_question">
        <li>자기소개를 해보세요</li>
        <li>트랜잭션 격리 수준을 설명해보세요</li>
      </ul>
    </div>
    <p class="txt_desc">후기 본문입니다</p>
    <p class="txt_desc">기술 기본기를 탄탄히 준비하세요</p>
  </div>
</div>
<div class="box_review">
  <div class="view_title">
    <strong>카카오</strong>
    <span class="txt_date">2024.04.09</span>
  </div>
  <div class="view_cont">
    <p class="txt_desc">짧은 후기</p>
  </div>
</div>
<div class="box_review">
  <div class="view_title"><strong>손상된 박스</strong></div>
</div>
</body></html>`

func TestSaramin_ExtractAll(t *testing.T) {
	t.Parallel()

	s := NewSaramin(Options{}, logger.NewNoOp())
	records := s.ExtractAll(domain.RenderedPage{
		URL:  "https://www.saramin.co.kr/zf_user/interview-review?page=1",
		HTML: saraminListingFixture,
	})

	// The third box has no content container and is skipped.
	require.Len(t, records, 2)

	full := records[0]
	assert.Equal(t, "네이버", full.Title)
	assert.Equal(t, "2024.04.11", full.Date)
	assert.Equal(t, "https://www.saramin.co.kr/zf_user/interview-review?page=1", full.URL)
	require.NotNil(t, full.Result)
	assert.Empty(t, *full.Result)

	assert.Equal(t,
		"면접 정보: 신입 IT개발자\n"+
			"전반적 평가: 긍정적\n"+
			"난이도: 어려움\n"+
			"면접 유형: 실무 면접 임원 면접\n"+
			"면접 인원: 다대일 면접\n"+
			"면접 진행 방식: 1차 기술, 2차 임원 순으로 진행\n"+
			"면접 질문:\n"+
			"- 자기소개를 해보세요\n"+
			"- 트랜잭션 격리 수준을 설명해보세요\n"+
			"팁: 기술 기본기를 탄탄히 준비하세요",
		full.Content,
	)

	minimal := records[1]
	assert.Equal(t, "카카오", minimal.Title)
	assert.Equal(t, "2024.04.09", minimal.Date)
	// A single description paragraph is the body, not a closing tip.
	assert.Empty(t, minimal.Content)
	require.NotNil(t, minimal.Result)
}

func TestSaramin_ExtractAllEmptyPage(t *testing.T) {
	t.Parallel()

	s := NewSaramin(Options{}, logger.NewNoOp())
	records := s.ExtractAll(domain.RenderedPage{
		URL:  "https://www.saramin.co.kr/zf_user/interview-review?page=99",
		HTML: "<html><body><div class='wrap'>리뷰가 없습니다</div></body></html>",
	})

	assert.Empty(t, records)
}

func TestSaramin_Discover(t *testing.T) {
	t.Parallel()

	s := NewSaramin(Options{}, logger.NewNoOp())

	cands, err := s.Discover(context.Background(), domain.SearchQuery{
		Keyword: "ignored", MaxPages: 5, MaxArticles: 3,
	})

	require.NoError(t, err)
	// Page count is bounded by MaxArticles when that is smaller.
	require.Len(t, cands, 3)
	assert.Contains(t, cands[0].URL, "page=1")
	assert.Contains(t, cands[0].URL, "orderby=registration")
	assert.Contains(t, cands[0].URL, "job_category=2")
	assert.Contains(t, cands[2].URL, "page=3")
}

func TestSaramin_FetchAll(t *testing.T) {
	t.Parallel()

	s := NewSaramin(Options{}, logger.NewNoOp())
	s.static = &fakeRenderer{html: saraminListingFixture, strategy: domain.StaticFetch}

	records, err := s.FetchAll(context.Background(), domain.CandidateURL{
		URL: "https://www.saramin.co.kr/zf_user/interview-review?page=1",
	})

	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestSaramin_FetchReturnsFirstRecord(t *testing.T) {
	t.Parallel()

	s := NewSaramin(Options{}, logger.NewNoOp())
	s.static = &fakeRenderer{html: saraminListingFixture, strategy: domain.StaticFetch}

	rec, err := s.Fetch(context.Background(), domain.CandidateURL{
		URL: "https://www.saramin.co.kr/zf_user/interview-review?page=1",
	})

	require.NoError(t, err)
	assert.Equal(t, "네이버", rec.Title)
}
