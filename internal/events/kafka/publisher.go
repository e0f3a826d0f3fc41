package kafka

import (
	"context"
	"encoding/json"
	"time"

	"ledger-backend/internal/interfaces"

	"github.com/segmentio/kafka-go"
)

// Publisher writes JSON events to Kafka. The topic is chosen per message and
// the key (the customer name) keeps one customer's events in order.
type Publisher struct {
	writer *kafka.Writer
}

func NewPublisher(brokers []string, clientID string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			AllowAutoTopicCreation: true,
			WriteTimeout:           5 * time.Second,
			Transport:              &kafka.Transport{ClientID: clientID},
		},
	}
}

func (p *Publisher) Publish(ctx context.Context, topic, key string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx,
		kafka.Message{
			Topic: topic,
			Key:   []byte(key),
			Value: data,
		},
	)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

var _ interfaces.EventPublisher = (*Publisher)(nil)
