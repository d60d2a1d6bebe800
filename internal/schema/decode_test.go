package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Corphon/TubeGenius/internal/errors"
	"github.com/Corphon/TubeGenius/internal/models"
)

const validAnalysis = `{
  "score": 78,
  "hookAnalysis": "첫 10초에 질문을 던져 호기심을 유발합니다.",
  "pacing": "중반부가 다소 늘어집니다.",
  "audienceRetention": "3분 지점에서 이탈이 예상됩니다.",
  "keywords": ["재테크", "월급", "저축", "투자", "ETF"],
  "improvements": ["훅을 더 짧게", "중반부 편집", "CTA 강화"],
  "sentiment": "Positive"
}`

func TestDecodeAnalysis(t *testing.T) {
	result, err := DecodeAnalysis(validAnalysis)
	require.NoError(t, err)

	assert.Equal(t, 78, result.Score)
	assert.Equal(t, models.SentimentPositive, result.Sentiment)
	assert.Len(t, result.Keywords, 5)
	assert.Len(t, result.Improvements, 3)
	assert.Equal(t, models.ScoreBandMedium, result.ScoreBand())
}

func TestDecodeAnalysisCodeFence(t *testing.T) {
	result, err := DecodeAnalysis("```json\n" + validAnalysis + "\n```")
	require.NoError(t, err)
	assert.Equal(t, 78, result.Score)
}

func TestDecodeAnalysisRoundsScore(t *testing.T) {
	raw := `{"score": 91.6, "hookAnalysis": "", "pacing": "", "audienceRetention": "",
		"keywords": [], "improvements": [], "sentiment": "Neutral"}`

	result, err := DecodeAnalysis(raw)
	require.NoError(t, err)
	assert.Equal(t, 92, result.Score)
	assert.Empty(t, result.Keywords)
	assert.Equal(t, models.ScoreBandHigh, result.ScoreBand())
}

func TestDecodeAnalysisFailures(t *testing.T) {
	cases := map[string]string{
		"missing sentiment": `{"score": 50, "hookAnalysis": "a", "pacing": "b", "audienceRetention": "c",
			"keywords": [], "improvements": []}`,
		"unknown sentiment": `{"score": 50, "hookAnalysis": "a", "pacing": "b", "audienceRetention": "c",
			"keywords": [], "improvements": [], "sentiment": "Happy"}`,
		"score out of range": `{"score": 140, "hookAnalysis": "a", "pacing": "b", "audienceRetention": "c",
			"keywords": [], "improvements": [], "sentiment": "Neutral"}`,
		"score as text": `{"score": "80", "hookAnalysis": "a", "pacing": "b", "audienceRetention": "c",
			"keywords": [], "improvements": [], "sentiment": "Neutral"}`,
		"missing keywords": `{"score": 10, "hookAnalysis": "a", "pacing": "b", "audienceRetention": "c",
			"improvements": [], "sentiment": "Negative"}`,
		"not json":   "죄송합니다. 분석할 수 없습니다.",
		"empty":      "",
		"json array": `[1, 2, 3]`,
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			result, err := DecodeAnalysis(raw)
			require.Error(t, err)
			assert.True(t, apperrors.IsDecodeError(err))
			assert.Equal(t, models.ScriptAnalysis{}, result)
		})
	}
}

func TestDecodeTopics(t *testing.T) {
	raw := `[
	  {"title": "월급 300으로 1억 모으기", "thumbnailIdea": "통장 잔고 화면", "viralityScore": 8, "reasoning": "현실적인 목표"},
	  {"title": "", "thumbnailIdea": "x", "viralityScore": 5, "reasoning": "y"},
	  {"title": "ETF 입문", "thumbnailIdea": "차트", "viralityScore": "high", "reasoning": "z"},
	  {"title": "적금 vs 투자", "thumbnailIdea": "저울", "reasoning": "비교 콘텐츠"},
	  "not an object",
	  {"title": "부업 현실", "thumbnailIdea": "노트북", "viralityScore": 7.5, "reasoning": "관심 증가"}
	]`

	topics, dropped, err := DecodeTopics(raw)
	require.NoError(t, err)
	assert.Equal(t, 4, dropped)
	require.Len(t, topics, 2)
	assert.Equal(t, "월급 300으로 1억 모으기", topics[0].Title)
	assert.Equal(t, 7.5, topics[1].ViralityScore)
}

func TestDecodeTopicsEmptyArray(t *testing.T) {
	topics, dropped, err := DecodeTopics("[]")
	require.NoError(t, err)
	assert.Empty(t, topics)
	assert.Zero(t, dropped)
}

func TestDecodeTopicsRejectsNonArray(t *testing.T) {
	for _, raw := range []string{`{"title": "x"}`, "", "no ideas today"} {
		_, _, err := DecodeTopics(raw)
		assert.True(t, apperrors.IsDecodeError(err), raw)
	}
}

func TestCleanJSON(t *testing.T) {
	assert.Equal(t, `{"a":1}`, CleanJSON("  Here you go: {\"a\":1} hope it helps"))
	assert.Equal(t, `[1,2]`, CleanJSON("```json\n[1,2]\n```"))
	assert.Equal(t, `{"a":1}`, CleanJSON("\ufeff{\"a\":1}"))
	assert.Equal(t, "plain", CleanJSON(" plain "))
}
