// internal/views/generator.go
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

// GeneratorSnapshot 脚本生成页面状态
type GeneratorSnapshot struct {
	State  State               `json:"state"`
	Config models.ScriptConfig `json:"config"`
	Script string              `json:"script,omitempty"`
}

// GeneratorController 脚本生成页面控制器
type GeneratorController struct {
	mu         sync.Mutex
	gateway    Gateway
	bus        *Bus
	logger     *zap.Logger
	state      State
	config     models.ScriptConfig
	script     string
	generation uint64
}

// NewGeneratorController 创建控制器，配置使用默认语气/时长/受众
func NewGeneratorController(gateway Gateway, bus *Bus, logger *zap.Logger) *GeneratorController {
	return &GeneratorController{
		gateway: gateway,
		bus:     bus,
		logger:  utils.OrNop(logger),
		state:   StateIdle,
		config:  models.DefaultScriptConfig(),
	}
}

// SetConfig 按字段合并生成参数，语气和时长必须取自固定选项
// 任何为空的字段都保留当前值，交接过来的主题不会被省略 topic 的请求清掉
func (c *GeneratorController) SetConfig(cfg models.ScriptConfig) error {
	if cfg.Tone != "" && !models.IsValidTone(cfg.Tone) {
		return apperrors.NewValidationError("不支持的语气: "+cfg.Tone, nil)
	}
	if cfg.Duration != "" && !models.IsValidDuration(cfg.Duration) {
		return apperrors.NewValidationError("不支持的时长: "+cfg.Duration, nil)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if cfg.Topic != "" {
		c.config.Topic = cfg.Topic
	}
	if cfg.TargetAudience != "" {
		c.config.TargetAudience = cfg.TargetAudience
	}
	if cfg.Tone != "" {
		c.config.Tone = cfg.Tone
	}
	if cfg.Duration != "" {
		c.config.Duration = cfg.Duration
	}
	return nil
}

// ReconcileTopic 外部传入非空主题时覆盖当前主题
func (c *GeneratorController) ReconcileTopic(topic string) {
	if topic == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.config.Topic == topic {
		return
	}
	c.config.Topic = topic
	c.publishLocked()
}

// Submit 同步生成脚本
func (c *GeneratorController) Submit(ctx context.Context) error {
	gen, cfg, err := c.begin()
	if err != nil {
		return err
	}
	c.run(ctx, gen, cfg)
	return nil
}

// Start 同步进入 loading，生成在后台完成
func (c *GeneratorController) Start(ctx context.Context) (<-chan struct{}, error) {
	gen, cfg, err := c.begin()
	if err != nil {
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.run(detach(ctx), gen, cfg)
	}()
	return done, nil
}

func (c *GeneratorController) begin() (uint64, models.ScriptConfig, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateLoading {
		return 0, models.ScriptConfig{}, ErrBusy
	}
	if strings.TrimSpace(c.config.Topic) == "" {
		return 0, models.ScriptConfig{}, apperrors.NewValidationError("请输入视频主题", nil)
	}

	c.generation++
	// 先清空旧脚本，loading 期间不显示过期内容
	c.script = ""
	c.state = StateLoading
	c.publishLocked()
	return c.generation, c.config, nil
}

func (c *GeneratorController) run(ctx context.Context, gen uint64, cfg models.ScriptConfig) {
	script, err := c.gateway.GenerateScript(ctx, cfg)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		c.logger.Debug("丢弃过期的脚本", zap.Uint64("generation", gen))
		return
	}

	if err != nil {
		c.logger.Warn("⚠️ 脚本生成失败", zap.Error(err))
		c.script = ""
		c.state = StateIdle
		c.publishLocked()
		return
	}

	c.script = script
	c.state = StateReady
	c.publishLocked()
}

// Script 当前生成的脚本
func (c *GeneratorController) Script() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.script, c.state == StateReady
}

// Reset 离开页面时恢复默认配置并丢弃脚本
func (c *GeneratorController) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	c.state = StateIdle
	c.config = models.DefaultScriptConfig()
	c.script = ""
}

// State 当前状态
func (c *GeneratorController) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Snapshot 返回状态副本
func (c *GeneratorController) Snapshot() GeneratorSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *GeneratorController) snapshotLocked() GeneratorSnapshot {
	return GeneratorSnapshot{
		State:  c.state,
		Config: c.config,
		Script: c.script,
	}
}

func (c *GeneratorController) publishLocked() {
	c.bus.Publish(Event{
		Type:  EventStateChanged,
		View:  models.ViewGenerator,
		State: c.state,
		Data:  c.snapshotLocked(),
	})
}
