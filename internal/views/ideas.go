// internal/views/ideas.go
package views

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	apperrors "github.com/Corphon/TubeGenius/internal/errors"
	"github.com/Corphon/TubeGenius/internal/models"
	"github.com/Corphon/TubeGenius/internal/utils"
)

// IdeasSnapshot 选题页面状态
type IdeasSnapshot struct {
	State       State                    `json:"state"`
	Input       string                   `json:"input"`
	Suggestions []models.TopicSuggestion `json:"suggestions"`
}

// IdeasController 选题推荐页面控制器
// 失败不会进入单独的失败状态，而是降级为空列表
type IdeasController struct {
	mu          sync.Mutex
	gateway     Gateway
	bus         *Bus
	logger      *zap.Logger
	state       State
	input       string
	suggestions []models.TopicSuggestion
	generation  uint64
}

// NewIdeasController 创建控制器
func NewIdeasController(gateway Gateway, bus *Bus, logger *zap.Logger) *IdeasController {
	return &IdeasController{
		gateway: gateway,
		bus:     bus,
		logger:  utils.OrNop(logger),
		state:   StateIdle,
	}
}

// SetInput 更新领域/上下文输入
func (c *IdeasController) SetInput(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.input = text
}

// Submit 同步获取选题
func (c *IdeasController) Submit(ctx context.Context) error {
	gen, input, err := c.begin()
	if err != nil {
		return err
	}
	c.run(ctx, gen, input)
	return nil
}

// Start 同步进入 loading，请求在后台完成
func (c *IdeasController) Start(ctx context.Context) (<-chan struct{}, error) {
	gen, input, err := c.begin()
	if err != nil {
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.run(detach(ctx), gen, input)
	}()
	return done, nil
}

func (c *IdeasController) begin() (uint64, string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateLoading {
		return 0, "", ErrBusy
	}
	if strings.TrimSpace(c.input) == "" {
		return 0, "", apperrors.NewValidationError("请输入领域或主题", nil)
	}

	c.generation++
	c.state = StateLoading
	c.publishLocked()
	return c.generation, c.input, nil
}

func (c *IdeasController) run(ctx context.Context, gen uint64, input string) {
	suggestions, err := c.gateway.SuggestTopics(ctx, input)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		c.logger.Debug("丢弃过期的选题结果", zap.Uint64("generation", gen))
		return
	}

	if err != nil {
		c.logger.Warn("⚠️ 获取选题失败，显示空列表", zap.Error(err))
		suggestions = nil
	}
	if suggestions == nil {
		suggestions = []models.TopicSuggestion{}
	}

	c.suggestions = suggestions
	c.state = StateReady
	c.publishLocked()
}

// Select 返回指定序号的选题标题，不修改页面状态
func (c *IdeasController) Select(index int) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if index < 0 || index >= len(c.suggestions) {
		return "", apperrors.NewValidationError(fmt.Sprintf("选题序号超出范围: %d", index), nil)
	}
	return c.suggestions[index].Title, nil
}

// Reset 离开页面时清空输入和列表
func (c *IdeasController) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	c.state = StateIdle
	c.input = ""
	c.suggestions = nil
}

// State 当前状态
func (c *IdeasController) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Snapshot 返回状态副本
func (c *IdeasController) Snapshot() IdeasSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *IdeasController) snapshotLocked() IdeasSnapshot {
	suggestions := make([]models.TopicSuggestion, len(c.suggestions))
	copy(suggestions, c.suggestions)
	return IdeasSnapshot{
		State:       c.state,
		Input:       c.input,
		Suggestions: suggestions,
	}
}

func (c *IdeasController) publishLocked() {
	c.bus.Publish(Event{
		Type:  EventStateChanged,
		View:  models.ViewIdeas,
		State: c.state,
		Data:  c.snapshotLocked(),
	})
}
