package events

import (
	"context"
	"sync"
)

// Publisher delivers an event to a topic after a successful write. No
// ordering or delivery guarantee is made to callers.
type Publisher interface {
	Publish(ctx context.Context, topic, key string, payload any) error
}

type Event struct {
	Topic   string
	Key     string
	Payload any
}

// MemoryBus is the in-process Publisher used in tests and when no brokers are
// configured.
type MemoryBus struct {
	mu     sync.Mutex
	events []Event
}

func NewMemoryBus() *MemoryBus {
	return &MemoryBus{}
}

func (b *MemoryBus) Publish(_ context.Context, topic, key string, payload any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, Event{Topic: topic, Key: key, Payload: payload})
	return nil
}

func (b *MemoryBus) Events() []Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Event, len(b.events))
	copy(out, b.events)
	return out
}
