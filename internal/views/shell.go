// internal/views/shell.go
package views

import (
	"sync"

	"go.uber.org/zap"

	apperrors "github.com/Corphon/TubeGenius/internal/errors"
	"github.com/Corphon/TubeGenius/internal/models"
	"github.com/Corphon/TubeGenius/internal/utils"
)

// ShellSnapshot 整体页面状态
type ShellSnapshot struct {
	ActiveView   models.View       `json:"activeView"`
	PendingTopic string            `json:"pendingTopic,omitempty"`
	Analyzer     AnalyzerSnapshot  `json:"analyzer"`
	Ideas        IdeasSnapshot     `json:"ideas"`
	Generator    GeneratorSnapshot `json:"generator"`
}

// Shell 持有当前页面、待交接的主题以及三个页面控制器
// 锁顺序：Shell 锁在控制器锁之前获取，控制器从不回调 Shell
type Shell struct {
	mu           sync.Mutex
	active       models.View
	pendingTopic string
	analyzer     *AnalyzerController
	ideas        *IdeasController
	generator    *GeneratorController
	bus          *Bus
	logger       *zap.Logger
}

// NewShell 创建页面外壳，默认显示脚本分析页
func NewShell(gateway Gateway, logger *zap.Logger) *Shell {
	logger = utils.OrNop(logger)
	bus := NewBus()
	return &Shell{
		active:    models.ViewAnalyzer,
		analyzer:  NewAnalyzerController(gateway, bus, logger),
		ideas:     NewIdeasController(gateway, bus, logger),
		generator: NewGeneratorController(gateway, bus, logger),
		bus:       bus,
		logger:    logger,
	}
}

func (s *Shell) Analyzer() *AnalyzerController   { return s.analyzer }
func (s *Shell) Ideas() *IdeasController         { return s.ideas }
func (s *Shell) Generator() *GeneratorController { return s.generator }
func (s *Shell) Bus() *Bus                       { return s.bus }

// ActiveView 当前页面
func (s *Shell) ActiveView() models.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// PendingTopic 最近一次交接的主题
func (s *Shell) PendingTopic() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pendingTopic
}

// SetView 同步切换页面
func (s *Shell) SetView(view models.View) error {
	if !view.IsValid() {
		return apperrors.NewValidationError("未知页面: "+string(view), nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.switchLocked(view)
	return nil
}

// SelectTopic 选中推荐选题：记录主题并切换到脚本生成页
func (s *Shell) SelectTopic(index int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	title, err := s.ideas.Select(index)
	if err != nil {
		return "", err
	}

	s.pendingTopic = title
	s.bus.Publish(Event{Type: EventTopicHandoff, View: models.ViewIdeas, Data: title})
	if s.active == models.ViewGenerator {
		s.generator.ReconcileTopic(title)
	} else {
		s.switchLocked(models.ViewGenerator)
	}

	s.logger.Debug("选题已交接给脚本生成", zap.String("topic", title))
	return title, nil
}

// switchLocked 离开的页面被重置，进入脚本生成页时同步待交接的主题
func (s *Shell) switchLocked(view models.View) {
	if view == s.active {
		return
	}

	s.controllerFor(s.active).Reset()
	s.active = view
	if view == models.ViewGenerator {
		s.generator.ReconcileTopic(s.pendingTopic)
	}

	s.bus.Publish(Event{Type: EventViewChanged, View: view})
}

func (s *Shell) controllerFor(view models.View) Controller {
	switch view {
	case models.ViewIdeas:
		return s.ideas
	case models.ViewGenerator:
		return s.generator
	default:
		return s.analyzer
	}
}

// Snapshot 返回整体状态副本
func (s *Shell) Snapshot() ShellSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return ShellSnapshot{
		ActiveView:   s.active,
		PendingTopic: s.pendingTopic,
		Analyzer:     s.analyzer.Snapshot(),
		Ideas:        s.ideas.Snapshot(),
		Generator:    s.generator.Snapshot(),
	}
}

// Close 关闭事件总线
func (s *Shell) Close() {
	s.bus.Close()
}
