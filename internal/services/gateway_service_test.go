package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Corphon/TubeGenius/internal/errors"
	"github.com/Corphon/TubeGenius/internal/llm"
	"github.com/Corphon/TubeGenius/internal/mocks"
	"github.com/Corphon/TubeGenius/internal/models"
	"github.com/Corphon/TubeGenius/internal/schema"
)

const analysisJSON = `{"score": 85, "hookAnalysis": "강렬한 질문으로 시작", "pacing": "빠름",
	"audienceRetention": "중반 이탈 주의", "keywords": ["재테크", "월급", "저축", "투자", "ETF"],
	"improvements": ["A", "B", "C"], "sentiment": "Positive"}`

const topicsJSON = `[
  {"title": "월급 200으로 1억 모으기", "thumbnailIdea": "통장", "viralityScore": 9, "reasoning": "현실적"},
  {"title": "20대 재테크 실수 5가지", "thumbnailIdea": "X 표시", "viralityScore": 8, "reasoning": "공감"},
  {"title": "월급만으로 부자되는 법", "thumbnailIdea": "돈다발", "viralityScore": 8.5, "reasoning": "보편적 욕구"},
  {"title": "ETF 완전 정복", "thumbnailIdea": "차트", "viralityScore": 7, "reasoning": "검색량"},
  {"title": "부업으로 월 100 벌기", "thumbnailIdea": "노트북", "viralityScore": 8, "reasoning": "트렌드"}
]`

func newGateway(t *testing.T) (*GatewayService, *mocks.MockProvider) {
	t.Helper()
	provider := mocks.NewMockProvider(t)
	return NewGatewayService(NewLLMServiceWithProvider("google", provider, nil), nil), provider
}

func TestAnalyzeSuccess(t *testing.T) {
	gateway, provider := newGateway(t)
	provider.On("CompleteText", mock.Anything, mock.MatchedBy(func(req llm.CompletionRequest) bool {
		return req.ResponseMIMEType == llm.MIMETypeJSON &&
			req.ResponseSchema == schema.AnalysisSchema &&
			assert.Contains(t, req.Prompt, "오늘은 재테크 이야기")
	})).Return(&llm.CompletionResponse{Text: analysisJSON, TokensUsed: 300}, nil).Once()

	result, err := gateway.Analyze(context.Background(), "오늘은 재테크 이야기를 해보겠습니다")
	require.NoError(t, err)

	assert.Equal(t, 85, result.Score)
	assert.Equal(t, models.SentimentPositive, result.Sentiment)
	assert.Equal(t, models.ScoreBandHigh, result.ScoreBand())
	provider.AssertExpectations(t)
}

func TestAnalyzeBlankInputSkipsCall(t *testing.T) {
	gateway, provider := newGateway(t)

	_, err := gateway.Analyze(context.Background(), "   \n\t")
	assert.True(t, apperrors.IsValidationError(err))
	provider.AssertNotCalled(t, "CompleteText", mock.Anything, mock.Anything)
}

func TestAnalyzeMissingSentimentIsDecodeError(t *testing.T) {
	gateway, provider := newGateway(t)
	provider.On("CompleteText", mock.Anything, mock.Anything).Return(&llm.CompletionResponse{
		Text: `{"score": 60, "hookAnalysis": "a", "pacing": "b", "audienceRetention": "c", "keywords": [], "improvements": []}`,
	}, nil).Once()

	result, err := gateway.Analyze(context.Background(), "one two three four five six seven eight nine ten")
	assert.True(t, apperrors.IsDecodeError(err))
	assert.Equal(t, models.ScriptAnalysis{}, result)
}

func TestAnalyzeTransportError(t *testing.T) {
	gateway, provider := newGateway(t)
	provider.On("CompleteText", mock.Anything, mock.Anything).Return(nil, errors.New("quota exceeded")).Once()

	_, err := gateway.Analyze(context.Background(), "script")
	assert.True(t, apperrors.IsTransportError(err))
	provider.AssertNumberOfCalls(t, "CompleteText", 1)
}

func TestGatewayNotReadyIsTransportError(t *testing.T) {
	gateway := NewGatewayService(NewEmptyLLMService(nil), nil)

	_, err := gateway.Analyze(context.Background(), "script")
	assert.True(t, apperrors.IsTransportError(err))
	assert.ErrorIs(t, err, ErrLLMNotReady)

	_, err = gateway.SuggestTopics(context.Background(), "재테크")
	assert.True(t, apperrors.IsTransportError(err))
}

func TestSuggestTopics(t *testing.T) {
	gateway, provider := newGateway(t)
	provider.On("CompleteText", mock.Anything, mock.MatchedBy(func(req llm.CompletionRequest) bool {
		return req.ResponseSchema == schema.TopicListSchema && assert.Contains(t, req.Prompt, "Context: 재테크")
	})).Return(&llm.CompletionResponse{Text: topicsJSON}, nil).Once()

	topics, err := gateway.SuggestTopics(context.Background(), "재테크")
	require.NoError(t, err)
	require.Len(t, topics, 5)
	assert.Equal(t, "월급만으로 부자되는 법", topics[2].Title)
}

func TestSuggestTopicsMalformedDegradesToEmpty(t *testing.T) {
	for _, text := range []string{"", "not json", `{"title": "x"}`} {
		gateway, provider := newGateway(t)
		provider.On("CompleteText", mock.Anything, mock.Anything).Return(&llm.CompletionResponse{Text: text}, nil).Once()

		topics, err := gateway.SuggestTopics(context.Background(), "요리")
		require.NoError(t, err, text)
		assert.NotNil(t, topics)
		assert.Empty(t, topics)
	}
}

func TestSuggestTopicsDropsInvalidElements(t *testing.T) {
	gateway, provider := newGateway(t)
	provider.On("CompleteText", mock.Anything, mock.Anything).Return(&llm.CompletionResponse{
		Text: `[{"title": "좋은 주제", "thumbnailIdea": "a", "viralityScore": 6, "reasoning": "b"},
			{"title": "", "thumbnailIdea": "a", "viralityScore": 6, "reasoning": "b"}]`,
	}, nil).Once()

	topics, err := gateway.SuggestTopics(context.Background(), "요리")
	require.NoError(t, err)
	require.Len(t, topics, 1)
	assert.Equal(t, "좋은 주제", topics[0].Title)
}

func TestGenerateScript(t *testing.T) {
	gateway, provider := newGateway(t)
	cfg := models.ScriptConfig{
		Topic:          "월급만으로 부자되는 법",
		Tone:           "전문적이고 진지한",
		Duration:       "3-5분",
		TargetAudience: "사회초년생",
	}
	provider.On("CompleteText", mock.Anything, mock.MatchedBy(func(req llm.CompletionRequest) bool {
		return req.ResponseSchema == nil && req.ResponseMIMEType == "" &&
			assert.Contains(t, req.Prompt, "Topic: 월급만으로 부자되는 법") &&
			assert.Contains(t, req.Prompt, "Tone: 전문적이고 진지한") &&
			assert.Contains(t, req.Prompt, "Target Duration: 3-5분") &&
			assert.Contains(t, req.Prompt, "Target Audience: 사회초년생") &&
			assert.Contains(t, req.Prompt, "Hook (0:00-0:45)") &&
			assert.Contains(t, req.Prompt, "[Visual: Show graph]") &&
			assert.Contains(t, req.Prompt, "Write in Korean.")
	})).Return(&llm.CompletionResponse{Text: "# 제목 옵션\n1. 월급만으로"}, nil).Once()

	script, err := gateway.GenerateScript(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "# 제목 옵션\n1. 월급만으로", script)
}

func TestGenerateScriptEmptyTextIsSuccess(t *testing.T) {
	gateway, provider := newGateway(t)
	provider.On("CompleteText", mock.Anything, mock.Anything).Return(&llm.CompletionResponse{Text: ""}, nil).Once()

	script, err := gateway.GenerateScript(context.Background(), models.ScriptConfig{Topic: "주제"})
	require.NoError(t, err)
	assert.Empty(t, script)
}

func TestGenerateScriptBlankTopic(t *testing.T) {
	gateway, provider := newGateway(t)

	_, err := gateway.GenerateScript(context.Background(), models.ScriptConfig{Topic: " "})
	assert.True(t, apperrors.IsValidationError(err))
	provider.AssertNotCalled(t, "CompleteText", mock.Anything, mock.Anything)
}
