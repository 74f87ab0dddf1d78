package producer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	skafka "github.com/radieske/bet-tracker/internal/shared/kafka"
	"github.com/radieske/bet-tracker/pkg/contracts/events"
)

// messageWriter é o subconjunto do kafka.Writer usado pelo publisher
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type KafkaPublisher struct {
	Writer messageWriter
	Topic  string
}

func NewKafkaPublisher(w messageWriter, topic string) *KafkaPublisher {
	return &KafkaPublisher{Writer: w, Topic: topic}
}

// PublishLedgerEvent completa event_id e ts e publica com a chave = event_id
func (p *KafkaPublisher) PublishLedgerEvent(ctx context.Context, e events.LedgerEvent) error {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	if e.Ts.IsZero() {
		e.Ts = time.Now().UTC()
	}
	b, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal ledger event: %w", err)
	}
	return p.Writer.WriteMessages(ctx, kafka.Message{Key: []byte(e.EventID), Value: b, Time: e.Ts})
}

// Nop descarta os eventos quando KAFKA_BROKERS está vazio
type Nop struct{}

func (Nop) PublishLedgerEvent(context.Context, events.LedgerEvent) error { return nil }

// New escolhe o publisher conforme a configuração de brokers.
// O close devolvido fecha o writer quando houver um.
func New(brokers, topic string) (pub interface {
	PublishLedgerEvent(context.Context, events.LedgerEvent) error
}, closeFn func() error) {
	if brokers == "" {
		return Nop{}, func() error { return nil }
	}
	w := skafka.NewWriter(brokers, topic)
	return NewKafkaPublisher(w, topic), w.Close
}
