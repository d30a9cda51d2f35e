package app

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/segmentio/kafka-go"
)

// KafkaConfig configures the Kafka event sink.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// Validate returns an error if the configuration cannot be used.
func (c KafkaConfig) Validate() error {
	var errs error
	if len(c.Brokers) == 0 {
		errs = errors.AppendField(errs, "Brokers", errors.Wrap(errors.ErrEmpty, "at least one broker is required"))
	}
	if strings.TrimSpace(c.Topic) == "" {
		errs = errors.AppendField(errs, "Topic", errors.Wrap(errors.ErrEmpty, "topic is required"))
	}
	return errs
}

type kafkaMessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink publishes events as JSON messages. The message key is the
// transaction ID, so all events of a transaction land in the same
// partition and keep their order.
type KafkaSink struct {
	writer kafkaMessageWriter
}

var _ Sink = (*KafkaSink)(nil)

// NewKafkaSink returns a sink writing to the configured topic.
func NewKafkaSink(cfg KafkaConfig) (*KafkaSink, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: false,
	}
	return &KafkaSink{writer: w}, nil
}

func (*KafkaSink) Name() string { return "kafka" }

func (s *KafkaSink) Publish(ctx custody.Context, events []*EventView) error {
	msgs := make([]kafka.Message, 0, len(events))
	for _, e := range events {
		value, err := json.Marshal(e)
		if err != nil {
			return errors.Wrapf(errors.ErrType, "cannot encode event %d: %s", e.Seq, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(strconv.FormatUint(e.TransactionID, 10)),
			Value: value,
		})
	}
	if err := s.writer.WriteMessages(ctx, msgs...); err != nil {
		return errors.Wrap(err, "kafka write")
	}
	return nil
}

// Close flushes pending messages and releases the connections.
func (s *KafkaSink) Close() error {
	return s.writer.Close()
}
