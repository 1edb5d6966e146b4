// Package tick publishes assembled ticks to Kafka, one message per tick.
package tick

import (
	"context"
	"encoding/json"
	"time"

	tickv1 "github.com/muhammadchandra19/tickfeed/internal/domain/tick/v1"
	"github.com/muhammadchandra19/tickfeed/pkg/errors"
	"github.com/muhammadchandra19/tickfeed/pkg/logger"
	"github.com/muhammadchandra19/tickfeed/pkg/util"
	"github.com/segmentio/kafka-go"
)

//go:generate mockgen -source=publisher.go -destination=mock/publisher_mock.go -package=mock

// MessageWriter is the subset of *kafka.Writer the publisher uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Config describes the target topic.
type Config struct {
	Brokers      []string
	Topic        string
	WriteTimeout time.Duration
}

// Event is the message payload.
type Event struct {
	SessionID string `json:"sessionId,omitempty"`
	tickv1.Record
}

// Publisher writes ticks to a Kafka topic keyed by symbol, so ticks of one
// symbol land on one partition in sequence order.
type Publisher struct {
	writer MessageWriter
	logger logger.Interface
	now    func() time.Time
}

// NewPublisher creates a publisher backed by a kafka.Writer.
func NewPublisher(config Config, logger logger.Interface) *Publisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(config.Brokers...),
		Topic:                  config.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		WriteTimeout:           config.WriteTimeout,
		AllowAutoTopicCreation: true,
	}

	return NewPublisherWithWriter(writer, logger)
}

// NewPublisherWithWriter creates a publisher over an existing writer.
func NewPublisherWithWriter(writer MessageWriter, logger logger.Interface) *Publisher {
	return &Publisher{
		writer: writer,
		logger: logger,
		now:    time.Now,
	}
}

// Name implements tickv1.Sink.
func (p *Publisher) Name() string {
	return "kafka"
}

// Write implements tickv1.Sink. All messages are written in one call.
func (p *Publisher) Write(ctx context.Context, ticks []tickv1.Tick) error {
	if len(ticks) == 0 {
		return nil
	}

	sessionID := util.GetSessionID(ctx)
	ts := p.now()

	msgs := make([]kafka.Message, 0, len(ticks))
	for _, t := range ticks {
		value, err := json.Marshal(Event{SessionID: sessionID, Record: t.ToRecord()})
		if err != nil {
			return errors.NewErrorDetails("failed to encode tick event", string(errors.KafkaPublishError), "encode").WithCause(err)
		}

		msgs = append(msgs, kafka.Message{
			Key:   []byte(t.SymbolString()),
			Value: value,
			Time:  ts,
		})
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		p.logger.ErrorContext(ctx, err, logger.Field{Key: "messages", Value: len(msgs)})
		return errors.NewErrorDetails("failed to publish ticks", string(errors.KafkaPublishError), "publish").WithCause(err)
	}

	p.logger.InfoContext(ctx, "ticks published", logger.Field{Key: "messages", Value: len(msgs)})
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
