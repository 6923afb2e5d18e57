package mail

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaConfig points the sender at the topic consumed by the notification
// service.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSender publishes each mail as a JSON job keyed by recipient, so one
// recipient's mails stay ordered within a partition.
type KafkaSender struct {
	writer messageWriter
	now    func() time.Time
}

func NewKafkaSender(cfg KafkaConfig) (*KafkaSender, error) {
	if len(cfg.Brokers) == 0 || cfg.Topic == "" {
		return nil, errors.New("kafka: brokers and topic are required")
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
	}
	return &KafkaSender{writer: w, now: time.Now}, nil
}

type mailJob struct {
	Mail
	QueuedAt time.Time `json:"queuedAt"`
}

func (s *KafkaSender) Send(ctx context.Context, m Mail) error {
	payload, err := json.Marshal(mailJob{Mail: m, QueuedAt: s.now().UTC()})
	if err != nil {
		return fmt.Errorf("marshal mail job: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(m.To),
		Value: payload,
		Time:  s.now(),
	}
	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka publish: %w", err)
	}
	return nil
}

func (s *KafkaSender) Close() error {
	return s.writer.Close()
}
