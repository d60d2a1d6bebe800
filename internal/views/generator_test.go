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

func TestGeneratorDefaults(t *testing.T) {
	c := views.NewGeneratorController(mocks.NewMockGateway(t), nil, nil)

	cfg := c.Snapshot().Config
	assert.Equal(t, "친근하고 유머러스한", cfg.Tone)
	assert.Equal(t, "8-10분", cfg.Duration)
	assert.Equal(t, "20-30대 일반인", cfg.TargetAudience)
	assert.Empty(t, cfg.Topic)
}

func TestGeneratorSetConfigValidatesOptions(t *testing.T) {
	c := views.NewGeneratorController(mocks.NewMockGateway(t), nil, nil)

	err := c.SetConfig(models.ScriptConfig{Topic: "x", Tone: "시끄러운"})
	assert.True(t, apperrors.IsValidationError(err))

	err = c.SetConfig(models.ScriptConfig{Topic: "x", Duration: "2시간"})
	assert.True(t, apperrors.IsValidationError(err))
	assert.Empty(t, c.Snapshot().Config.Topic)

	require.NoError(t, c.SetConfig(models.ScriptConfig{Topic: "캠핑", Duration: "Shorts (1분 미만)", TargetAudience: "초보 캠퍼"}))
	cfg := c.Snapshot().Config
	assert.Equal(t, "캠핑", cfg.Topic)
	assert.Equal(t, "Shorts (1분 미만)", cfg.Duration)
	assert.Equal(t, "친근하고 유머러스한", cfg.Tone)
}

func TestGeneratorBlankTopicIsNoop(t *testing.T) {
	gw := mocks.NewMockGateway(t)
	c := views.NewGeneratorController(gw, nil, nil)

	err := c.Submit(context.Background())
	assert.True(t, apperrors.IsValidationError(err))
	gw.AssertNotCalled(t, "GenerateScript", mock.Anything, mock.Anything)
}

func TestGeneratorClearsPreviousScriptBeforeRequest(t *testing.T) {
	release := make(chan time.Time)
	gw := mocks.NewMockGateway(t)
	gw.On("GenerateScript", mock.Anything, mock.Anything).Return("# 첫 번째 대본", nil).Once()
	gw.On("GenerateScript", mock.Anything, mock.Anything).WaitUntil(release).Return("# 두 번째 대본", nil).Once()

	c := views.NewGeneratorController(gw, nil, nil)
	c.ReconcileTopic("캠핑 브이로그")
	require.NoError(t, c.Submit(context.Background()))
	script, ready := c.Script()
	assert.True(t, ready)
	assert.Equal(t, "# 첫 번째 대본", script)

	done, err := c.Start(context.Background())
	require.NoError(t, err)
	snap := c.Snapshot()
	assert.Equal(t, views.StateLoading, snap.State)
	assert.Empty(t, snap.Script)

	close(release)
	<-done
	script, _ = c.Script()
	assert.Equal(t, "# 두 번째 대본", script)
}

func TestGeneratorFailureReturnsToIdle(t *testing.T) {
	gw := mocks.NewMockGateway(t)
	gw.On("GenerateScript", mock.Anything, mock.MatchedBy(func(cfg models.ScriptConfig) bool {
		return cfg.Topic == "캠핑" && cfg.Tone == models.DefaultTone
	})).Return("", errors.New("quota")).Once()

	c := views.NewGeneratorController(gw, nil, nil)
	c.ReconcileTopic("캠핑")
	require.NoError(t, c.Submit(context.Background()))

	snap := c.Snapshot()
	assert.Equal(t, views.StateIdle, snap.State)
	assert.Empty(t, snap.Script)
}

func TestGeneratorReconcileTopic(t *testing.T) {
	c := views.NewGeneratorController(mocks.NewMockGateway(t), nil, nil)

	c.ReconcileTopic("첫 주제")
	assert.Equal(t, "첫 주제", c.Snapshot().Config.Topic)

	require.NoError(t, c.SetConfig(models.ScriptConfig{Topic: "직접 입력"}))
	c.ReconcileTopic("")
	assert.Equal(t, "직접 입력", c.Snapshot().Config.Topic)

	c.ReconcileTopic("새 주제")
	assert.Equal(t, "새 주제", c.Snapshot().Config.Topic)
}

func TestGeneratorSetConfigKeepsBlankFields(t *testing.T) {
	c := views.NewGeneratorController(mocks.NewMockGateway(t), nil, nil)
	c.ReconcileTopic("월급만으로 부자되는 법")

	require.NoError(t, c.SetConfig(models.ScriptConfig{Tone: "전문적이고 진지한"}))
	cfg := c.Snapshot().Config
	assert.Equal(t, "월급만으로 부자되는 법", cfg.Topic)
	assert.Equal(t, "전문적이고 진지한", cfg.Tone)
	assert.Equal(t, models.DefaultDuration, cfg.Duration)
	assert.Equal(t, models.DefaultAudience, cfg.TargetAudience)

	require.NoError(t, c.SetConfig(models.ScriptConfig{TargetAudience: "사회초년생"}))
	cfg = c.Snapshot().Config
	assert.Equal(t, "월급만으로 부자되는 법", cfg.Topic)
	assert.Equal(t, "사회초년생", cfg.TargetAudience)
	assert.Equal(t, "전문적이고 진지한", cfg.Tone)
}

func TestGeneratorStartRejectsWhileLoading(t *testing.T) {
	release := make(chan time.Time)
	gw := mocks.NewMockGateway(t)
	gw.On("GenerateScript", mock.Anything, mock.Anything).WaitUntil(release).Return("# 대본", nil).Once()

	c := views.NewGeneratorController(gw, nil, nil)
	c.ReconcileTopic("캠핑")

	done, err := c.Start(context.Background())
	require.NoError(t, err)
	assert.Equal(t, views.StateLoading, c.State())

	_, err = c.Start(context.Background())
	assert.ErrorIs(t, err, views.ErrBusy)
	assert.True(t, apperrors.IsConflictError(c.Submit(context.Background())))

	close(release)
	<-done
	assert.Equal(t, views.StateReady, c.State())
	gw.AssertNumberOfCalls(t, "GenerateScript", 1)
}
