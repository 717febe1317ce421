// Package events announces content changes so downstream consumers (search
// indexers, cache purgers, social posting) can react without polling.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/IBM/sarama"
	"github.com/pkg/errors"

	"cricanalyzer/utils"
)

const (
	Created = "created"
	Updated = "updated"
	Deleted = "deleted"
)

// ContentEvent is the message value published for every successful write.
type ContentEvent struct {
	Type   string    `json:"type"`
	Entity string    `json:"entity"`
	ID     string    `json:"id"`
	Slug   string    `json:"slug,omitempty"`
	At     time.Time `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, ev ContentEvent) error
	Close() error
}

// Announce publishes ev and logs instead of failing when the broker is down.
func Announce(ctx context.Context, p Publisher, ev ContentEvent) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	if err := p.Publish(ctx, ev); err != nil {
		utils.Log.WithError(err).WithField("entity", ev.Entity).Warnf("[Events] failed to publish %s %s", ev.Type, ev.ID)
	}
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, ContentEvent) error { return nil }
func (NopPublisher) Close() error                                { return nil }

// KafkaPublisher writes events to a single topic keyed by entity id, so all
// events for one record land on the same partition in order.
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

func NewKafkaConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.ClientID = "cricanalyzer-api"
	cfg.Producer.RequiredAcks = sarama.WaitForLocal
	cfg.Producer.Compression = sarama.CompressionSnappy
	cfg.Producer.Return.Successes = true
	cfg.Producer.Return.Errors = true
	cfg.Producer.Timeout = 5 * time.Second
	return cfg
}

func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	producer, err := sarama.NewSyncProducer(brokers, NewKafkaConfig())
	if err != nil {
		return nil, errors.Wrap(err, "create kafka producer")
	}
	return NewKafkaPublisherWithProducer(producer, topic), nil
}

func NewKafkaPublisherWithProducer(producer sarama.SyncProducer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (k *KafkaPublisher) Publish(ctx context.Context, ev ContentEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return errors.Wrap(err, "marshal event")
	}
	msg := &sarama.ProducerMessage{
		Topic: k.topic,
		Key:   sarama.StringEncoder(ev.ID),
		Value: sarama.ByteEncoder(data),
		Headers: []sarama.RecordHeader{
			{Key: []byte("entity"), Value: []byte(ev.Entity)},
			{Key: []byte("type"), Value: []byte(ev.Type)},
		},
	}
	if _, _, err := k.producer.SendMessage(msg); err != nil {
		return errors.Wrapf(err, "send %s event", ev.Entity)
	}
	return nil
}

func (k *KafkaPublisher) Close() error {
	return k.producer.Close()
}
