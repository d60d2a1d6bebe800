// internal/views/analyzer.go
package views

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	apperrors "github.com/Corphon/TubeGenius/internal/errors"
	"github.com/Corphon/TubeGenius/internal/models"
	"github.com/Corphon/TubeGenius/internal/utils"
)

// AnalyzeFailureNotice 分析失败时展示给用户的提示
const AnalyzeFailureNotice = "분석 중 오류가 발생했습니다. 잠시 후 다시 시도해주세요."

// AnalysisResult 带分数档位的分析结果
type AnalysisResult struct {
	models.ScriptAnalysis
	ScoreBand models.ScoreBand `json:"scoreBand"`
}

// AnalyzerSnapshot 脚本分析页面状态
type AnalyzerSnapshot struct {
	State  State           `json:"state"`
	Input  string          `json:"input"`
	Result *AnalysisResult `json:"result,omitempty"`
	Notice string          `json:"notice,omitempty"`
}

// AnalyzerController 脚本分析页面控制器
type AnalyzerController struct {
	mu         sync.Mutex
	gateway    Gateway
	bus        *Bus
	logger     *zap.Logger
	state      State
	input      string
	result     *models.ScriptAnalysis
	notice     string
	generation uint64
}

// NewAnalyzerController 创建控制器
func NewAnalyzerController(gateway Gateway, bus *Bus, logger *zap.Logger) *AnalyzerController {
	return &AnalyzerController{
		gateway: gateway,
		bus:     bus,
		logger:  utils.OrNop(logger),
		state:   StateIdle,
	}
}

// SetInput 更新待分析的脚本
func (c *AnalyzerController) SetInput(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.input = text
}

// Submit 同步执行分析，结果通过 Snapshot 读取
// 只有前置条件不满足时返回错误
func (c *AnalyzerController) Submit(ctx context.Context) error {
	gen, input, err := c.begin()
	if err != nil {
		return err
	}
	c.run(ctx, gen, input)
	return nil
}

// Start 同步进入 loading，分析在后台完成，返回的通道在完成时关闭
func (c *AnalyzerController) Start(ctx context.Context) (<-chan struct{}, error) {
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

func (c *AnalyzerController) begin() (uint64, string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateLoading {
		return 0, "", ErrBusy
	}
	if strings.TrimSpace(c.input) == "" {
		return 0, "", apperrors.NewValidationError("请输入要分析的脚本", nil)
	}

	c.generation++
	c.state = StateLoading
	c.result = nil
	c.notice = ""
	c.publishLocked(EventStateChanged, StateLoading)
	return c.generation, c.input, nil
}

func (c *AnalyzerController) run(ctx context.Context, gen uint64, input string) {
	result, err := c.gateway.Analyze(ctx, input)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		c.logger.Debug("丢弃过期的分析结果", zap.Uint64("generation", gen))
		return
	}

	if err != nil {
		c.logger.Warn("⚠️ 脚本分析失败", zap.Error(err))
		c.result = nil
		c.notice = AnalyzeFailureNotice
		c.bus.Publish(Event{Type: EventNotice, View: models.ViewAnalyzer, State: StateFailed, Data: AnalyzeFailureNotice})
		c.state = StateIdle
		c.publishLocked(EventStateChanged, StateIdle)
		return
	}

	c.result = &result
	c.state = StateReady
	c.publishLocked(EventStateChanged, StateReady)
}

// DismissNotice 关闭失败提示
func (c *AnalyzerController) DismissNotice() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.notice == "" {
		return
	}
	c.notice = ""
	c.publishLocked(EventStateChanged, c.state)
}

// Reset 离开页面时清空输入和结果
func (c *AnalyzerController) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	c.state = StateIdle
	c.input = ""
	c.result = nil
	c.notice = ""
}

// State 当前状态
func (c *AnalyzerController) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Snapshot 返回状态副本
func (c *AnalyzerController) Snapshot() AnalyzerSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *AnalyzerController) snapshotLocked() AnalyzerSnapshot {
	snapshot := AnalyzerSnapshot{
		State:  c.state,
		Input:  c.input,
		Notice: c.notice,
	}
	if c.result != nil {
		result := *c.result
		result.Keywords = append([]string(nil), c.result.Keywords...)
		result.Improvements = append([]string(nil), c.result.Improvements...)
		snapshot.Result = &AnalysisResult{ScriptAnalysis: result, ScoreBand: result.ScoreBand()}
	}
	return snapshot
}

func (c *AnalyzerController) publishLocked(eventType EventType, state State) {
	c.bus.Publish(Event{
		Type:  eventType,
		View:  models.ViewAnalyzer,
		State: state,
		Data:  c.snapshotLocked(),
	})
}
