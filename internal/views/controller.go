// internal/views/controller.go
package views

import (
	"context"

	apperrors "github.com/Corphon/TubeGenius/internal/errors"
	"github.com/Corphon/TubeGenius/internal/models"
)

// State 页面控制器状态
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateFailed  State = "failed" // 仅作为事件出现，控制器随后回到 idle
)

// ErrBusy 正在加载时再次提交
var ErrBusy = apperrors.NewConflictError("请求处理中，请稍候", nil)

// Gateway 控制器依赖的 AI 网关
type Gateway interface {
	Analyze(ctx context.Context, scriptText string) (models.ScriptAnalysis, error)
	SuggestTopics(ctx context.Context, nicheOrContext string) ([]models.TopicSuggestion, error)
	GenerateScript(ctx context.Context, cfg models.ScriptConfig) (string, error)
}

// Controller 各页面控制器的公共行为
type Controller interface {
	// Reset 丢弃当前结果，离开页面时调用；进行中的请求完成后会被忽略
	Reset()
	State() State
}

// detach 异步执行时脱离调用方的取消信号
func detach(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return context.WithoutCancel(ctx)
}

