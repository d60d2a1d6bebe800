package views_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Corphon/TubeGenius/internal/models"
	"github.com/Corphon/TubeGenius/internal/views"
)

func TestBusPublishSubscribe(t *testing.T) {
	bus := views.NewBus()
	a := bus.Subscribe()
	b := bus.Subscribe()
	assert.Equal(t, 2, bus.SubscriberCount())

	bus.Publish(views.Event{Type: views.EventViewChanged, View: models.ViewIdeas})
	assert.Equal(t, models.ViewIdeas, (<-a).View)
	assert.Equal(t, models.ViewIdeas, (<-b).View)

	bus.Unsubscribe(a)
	_, open := <-a
	assert.False(t, open)
	assert.Equal(t, 1, bus.SubscriberCount())

	// 重复取消订阅不会 panic
	bus.Unsubscribe(a)
}

func TestBusDropsWhenSubscriberIsFull(t *testing.T) {
	bus := views.NewBus()
	ch := bus.Subscribe()

	for i := 0; i < 100; i++ {
		bus.Publish(views.Event{Type: views.EventStateChanged})
	}
	assert.Equal(t, cap(ch), len(ch))
}

func TestBusClose(t *testing.T) {
	bus := views.NewBus()
	ch := bus.Subscribe()
	bus.Close()
	bus.Close()

	_, open := <-ch
	assert.False(t, open)

	late := bus.Subscribe()
	_, open = <-late
	assert.False(t, open)

	bus.Publish(views.Event{Type: views.EventNotice})

	var nilBus *views.Bus
	nilBus.Publish(views.Event{})
}
