// internal/di/container.go
package di

import (
	"fmt"
	"maps"
	"slices"
	"sync"
)

// 容器中注册的服务名
const (
	ServiceLLM     = "llm"
	ServiceGateway = "gateway"
	ServiceSession = "session"
)

// Container 按名称保存服务实例
type Container struct {
	mu       sync.RWMutex
	registry map[string]any
}

var (
	defaultContainer     *Container
	defaultContainerOnce sync.Once
)

func NewContainer() *Container {
	return &Container{registry: map[string]any{}}
}

// GetContainer 进程级共享容器
func GetContainer() *Container {
	defaultContainerOnce.Do(func() {
		defaultContainer = NewContainer()
	})
	return defaultContainer
}

// Register 同名服务会被替换
func (c *Container) Register(name string, service any) {
	c.mu.Lock()
	c.registry[name] = service
	c.mu.Unlock()
}

// Get 未注册时返回 nil
func (c *Container) Get(name string) any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.registry[name]
}

// Resolve 获取服务并转换为指定类型
func Resolve[T any](c *Container, name string) (T, error) {
	service, ok := c.Get(name).(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("服务未注册或类型不匹配: %s", name)
	}
	return service, nil
}

func (c *Container) Has(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.registry[name]
	return ok
}

// Clear 移除全部服务，测试之间复位用
func (c *Container) Clear() {
	c.mu.Lock()
	clear(c.registry)
	c.mu.Unlock()
}

// GetNames 已注册服务名，按字母排序
func (c *Container) GetNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Sorted(maps.Keys(c.registry))
}
