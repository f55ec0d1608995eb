package repository

import (
	"context"

	"TradePilot/internal/domain/models"
	"TradePilot/internal/domain/repository"
	pkgkafka "TradePilot/pkg/kafka"
)

// KafkaSignalPublisher implements SignalPublisher for Kafka. Messages are
// keyed by coin so one coin's decisions stay ordered on one partition.
type KafkaSignalPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaSignalPublisher creates the Kafka publisher.
func NewKafkaSignalPublisher(producer *pkgkafka.Producer, topic string) repository.SignalPublisher {
	return &KafkaSignalPublisher{producer: producer, topic: topic}
}

func (p *KafkaSignalPublisher) Publish(ctx context.Context, s models.MasterSignal) error {
	return p.producer.Publish(ctx, p.topic, []byte(s.Coin), s)
}

func (p *KafkaSignalPublisher) PublishBatch(ctx context.Context, signals []models.MasterSignal) error {
	if len(signals) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(signals))
	for i, s := range signals {
		msgs[i] = pkgkafka.Message{Key: []byte(s.Coin), Value: s}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaSignalPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
