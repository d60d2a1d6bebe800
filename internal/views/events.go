// internal/views/events.go
package views

import (
	"sync"
	"time"

	"github.com/Corphon/TubeGenius/internal/models"
)

// EventType 事件类型
type EventType string

const (
	EventStateChanged EventType = "state_changed"
	EventViewChanged  EventType = "view_changed"
	EventTopicHandoff EventType = "topic_handoff"
	EventNotice       EventType = "notice"
)

// 订阅通道缓冲区大小
const subscriberBuffer = 32

// Event 页面状态变化通知
type Event struct {
	Type      EventType   `json:"type"`
	View      models.View `json:"view"`
	State     State       `json:"state,omitempty"`
	Data      any         `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Bus 事件总线，慢订阅者会丢失事件而不会阻塞发布方
type Bus struct {
	mutex       sync.Mutex
	subscribers map[chan Event]bool
	closed      bool
}

// NewBus 创建事件总线
func NewBus() *Bus {
	return &Bus{subscribers: make(map[chan Event]bool)}
}

// Subscribe 订阅事件
func (b *Bus) Subscribe() chan Event {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	subscriber := make(chan Event, subscriberBuffer)
	if b.closed {
		close(subscriber)
		return subscriber
	}
	b.subscribers[subscriber] = true
	return subscriber
}

// Unsubscribe 取消订阅并关闭通道
func (b *Bus) Unsubscribe(subscriber chan Event) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if _, ok := b.subscribers[subscriber]; ok {
		delete(b.subscribers, subscriber)
		close(subscriber)
	}
}

// Publish 非阻塞地通知所有订阅者
func (b *Bus) Publish(event Event) {
	if b == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	b.mutex.Lock()
	defer b.mutex.Unlock()

	for subscriber := range b.subscribers {
		select {
		case subscriber <- event:
		default:
		}
	}
}

// SubscriberCount 当前订阅者数量
func (b *Bus) SubscriberCount() int {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return len(b.subscribers)
}

// Close 关闭所有订阅通道，之后的发布被忽略
func (b *Bus) Close() {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for subscriber := range b.subscribers {
		delete(b.subscribers, subscriber)
		close(subscriber)
	}
}
