// Package audit publishes a trail of ledger and timeline mutations to Kafka.
// The trail is best-effort: publish failures are logged and never fail the
// business operation that produced the event.
package audit

import (
	"encoding/json"
	"log"
	"time"

	"github.com/IBM/sarama"
)

// Event is one audited mutation.
type Event struct {
	At     time.Time `json:"at"`
	Kind   string    `json:"kind"`
	Order  int       `json:"order,omitempty"`
	Client string    `json:"client,omitempty"`
	Actor  string    `json:"actor,omitempty"`
	Detail string    `json:"detail,omitempty"`
}

// Trail wraps a sarama sync producer. A nil *Trail is valid and records
// nothing, so services can take the trail unconditionally.
type Trail struct {
	producer sarama.SyncProducer
	topic    string
}

// NewTrail connects a sync producer to the given brokers. Returns (nil, nil)
// when brokers is empty, which disables the trail.
func NewTrail(brokers []string, topic string) (*Trail, error) {
	if len(brokers) == 0 {
		return nil, nil
	}
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.Timeout = 5 * time.Second
	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, err
	}
	return &Trail{producer: producer, topic: topic}, nil
}

// Record publishes the event, stamping At if unset.
func (t *Trail) Record(ev Event) {
	if t == nil {
		return
	}
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		log.Printf("audit: marshal %s: %v", ev.Kind, err)
		return
	}
	msg := &sarama.ProducerMessage{
		Topic: t.topic,
		Value: sarama.ByteEncoder(payload),
	}
	if _, _, err := t.producer.SendMessage(msg); err != nil {
		log.Printf("audit: publish %s: %v", ev.Kind, err)
	}
}

func (t *Trail) Close() error {
	if t == nil {
		return nil
	}
	return t.producer.Close()
}
