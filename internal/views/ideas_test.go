package views_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Corphon/TubeGenius/internal/errors"
	"github.com/Corphon/TubeGenius/internal/mocks"
	"github.com/Corphon/TubeGenius/internal/models"
	"github.com/Corphon/TubeGenius/internal/views"
)

var financeTopics = []models.TopicSuggestion{
	{Title: "월급 200으로 1억 모으기", ThumbnailIdea: "통장", ViralityScore: 9, Reasoning: "현실적"},
	{Title: "20대 재테크 실수 5가지", ThumbnailIdea: "X 표시", ViralityScore: 8, Reasoning: "공감"},
	{Title: "월급만으로 부자되는 법", ThumbnailIdea: "돈다발", ViralityScore: 8.5, Reasoning: "보편적 욕구"},
	{Title: "ETF 완전 정복", ThumbnailIdea: "차트", ViralityScore: 7, Reasoning: "검색량"},
	{Title: "부업으로 월 100 벌기", ThumbnailIdea: "노트북", ViralityScore: 8, Reasoning: "트렌드"},
}

func TestIdeasSubmitSuccess(t *testing.T) {
	gw := mocks.NewMockGateway(t)
	gw.On("SuggestTopics", mock.Anything, "재테크").Return(financeTopics, nil).Once()

	c := views.NewIdeasController(gw, nil, nil)
	c.SetInput("재테크")
	require.NoError(t, c.Submit(context.Background()))

	snap := c.Snapshot()
	assert.Equal(t, views.StateReady, snap.State)
	assert.Len(t, snap.Suggestions, 5)

	title, err := c.Select(2)
	require.NoError(t, err)
	assert.Equal(t, "월급만으로 부자되는 법", title)

	// 选择不改变页面状态
	assert.Equal(t, snap, c.Snapshot())
}

func TestIdeasFailureDegradesToEmpty(t *testing.T) {
	gw := mocks.NewMockGateway(t)
	gw.On("SuggestTopics", mock.Anything, mock.Anything).Return(nil, errors.New("timeout")).Once()
	gw.On("SuggestTopics", mock.Anything, mock.Anything).Return(financeTopics[:1], nil).Once()

	c := views.NewIdeasController(gw, nil, nil)
	c.SetInput("요리")
	require.NoError(t, c.Submit(context.Background()))

	snap := c.Snapshot()
	assert.Equal(t, views.StateReady, snap.State)
	assert.NotNil(t, snap.Suggestions)
	assert.Empty(t, snap.Suggestions)

	// 可以立即重新提交
	require.NoError(t, c.Submit(context.Background()))
	assert.Len(t, c.Snapshot().Suggestions, 1)
}

func TestIdeasBlankSubmitIsNoop(t *testing.T) {
	gw := mocks.NewMockGateway(t)
	c := views.NewIdeasController(gw, nil, nil)

	err := c.Submit(context.Background())
	assert.True(t, apperrors.IsValidationError(err))
	assert.Equal(t, views.StateIdle, c.State())
	gw.AssertNotCalled(t, "SuggestTopics", mock.Anything, mock.Anything)
}

func TestIdeasSelectOutOfRange(t *testing.T) {
	c := views.NewIdeasController(mocks.NewMockGateway(t), nil, nil)

	for _, index := range []int{-1, 0, 5} {
		_, err := c.Select(index)
		assert.True(t, apperrors.IsValidationError(err), index)
	}
}

func TestIdeasSnapshotIsCopy(t *testing.T) {
	gw := mocks.NewMockGateway(t)
	gw.On("SuggestTopics", mock.Anything, mock.Anything).Return(append([]models.TopicSuggestion(nil), financeTopics...), nil).Once()

	c := views.NewIdeasController(gw, nil, nil)
	c.SetInput("재테크")
	require.NoError(t, c.Submit(context.Background()))

	snap := c.Snapshot()
	snap.Suggestions[0].Title = "changed"
	assert.Equal(t, financeTopics[0].Title, c.Snapshot().Suggestions[0].Title)
}

func TestIdeasStartRejectsWhileLoading(t *testing.T) {
	release := make(chan time.Time)
	gw := mocks.NewMockGateway(t)
	gw.On("SuggestTopics", mock.Anything, "재테크").WaitUntil(release).Return(financeTopics, nil).Once()

	c := views.NewIdeasController(gw, nil, nil)
	c.SetInput("재테크")

	done, err := c.Start(context.Background())
	require.NoError(t, err)
	assert.Equal(t, views.StateLoading, c.State())

	_, err = c.Start(context.Background())
	assert.ErrorIs(t, err, views.ErrBusy)
	assert.True(t, apperrors.IsConflictError(c.Submit(context.Background())))

	close(release)
	<-done
	assert.Equal(t, views.StateReady, c.State())
	assert.Len(t, c.Snapshot().Suggestions, 5)
	gw.AssertNumberOfCalls(t, "SuggestTopics", 1)
}
