// Package events holds the publishers used when Kafka is not configured.
package events

import (
	"context"
	"encoding/json"
	"sync"

	"ledger-backend/internal/interfaces"
)

// Noop drops every event.
type Noop struct{}

func (Noop) Publish(ctx context.Context, topic, key string, event any) error { return nil }

// Message is one event captured by a Recorder
type Message struct {
	Topic string
	Key   string
	Value []byte
}

// Recorder keeps published events in memory, encoded the way Kafka would see them.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
	Err      error // returned from Publish when set
}

func (r *Recorder) Publish(ctx context.Context, topic, key string, event any) error {
	if r.Err != nil {
		return r.Err
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, Message{Topic: topic, Key: key, Value: data})
	return nil
}

func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.messages...)
}

// Topics returns the topic of every recorded message in publish order
func (r *Recorder) Topics() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	topics := make([]string, len(r.messages))
	for i, m := range r.messages {
		topics[i] = m.Topic
	}
	return topics
}

var (
	_ interfaces.EventPublisher = Noop{}
	_ interfaces.EventPublisher = (*Recorder)(nil)
)
