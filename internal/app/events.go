package app

import (
	"sync"
	"time"
)

// StatusEvent is one status line for listeners: a message with a
// severity color matching the on-screen palette.
type StatusEvent struct {
	Message string    `json:"message"`
	Color   string    `json:"color"`
	Time    time.Time `json:"time"`
}

// eventBuffer is each subscriber's channel depth. Publishing to a full
// subscriber drops the event rather than blocking the frame loop.
const eventBuffer = 16

// EventBus fans status events out to subscribers. Publishing never
// blocks, so the pipeline keeps running with nobody listening.
type EventBus struct {
	mu   sync.Mutex
	subs map[chan StatusEvent]struct{}
}

// NewEventBus creates an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{subs: make(map[chan StatusEvent]struct{})}
}

// Subscribe registers and returns a listener channel.
func (b *EventBus) Subscribe() chan StatusEvent {
	ch := make(chan StatusEvent, eventBuffer)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes the channel and closes it.
func (b *EventBus) Unsubscribe(ch chan StatusEvent) {
	b.mu.Lock()
	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
	b.mu.Unlock()
}

// Publish delivers the event to every subscriber that has room.
func (b *EventBus) Publish(message, color string) {
	ev := StatusEvent{Message: message, Color: color, Time: time.Now()}

	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
