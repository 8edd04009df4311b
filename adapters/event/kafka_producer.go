package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/virtual-study-partner/internal/application/service"
	"github.com/khoahotran/virtual-study-partner/internal/config"
	"github.com/khoahotran/virtual-study-partner/pkg/logger"
)

const (
	TopicUserEvents = "user.events"
	TopicViewEvents = "view.events"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaProducerClient struct {
	UserEventsWriter messageWriter
	ViewEventsWriter messageWriter
	logger           logger.Logger
}

func NewKafkaProducerClient(cfg config.Config, log logger.Logger) (*KafkaProducerClient, error) {
	brokers := cfg.Kafka.Brokers
	if len(brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}

	// writer 'user.events'
	userWriter := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  TopicUserEvents,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}

	// writer 'view.events'
	viewWriter := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  TopicViewEvents,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}

	log.Info("Initialize Kafka Producers successfully", zap.Strings("brokers", brokers))

	return &KafkaProducerClient{
		UserEventsWriter: userWriter,
		ViewEventsWriter: viewWriter,
		logger:           log,
	}, nil
}

// UserEventMessage keys by email so one user's events stay ordered.
func UserEventMessage(evt service.UserEvent) (kafka.Message, error) {
	value, err := json.Marshal(evt)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal user event: %w", err)
	}
	return kafka.Message{Key: []byte(evt.Email), Value: value, Time: evt.OccurredAt}, nil
}

func ViewEventMessage(evt service.ViewEvent) (kafka.Message, error) {
	value, err := json.Marshal(evt)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal view event: %w", err)
	}
	return kafka.Message{Key: []byte(evt.VideoTitle), Value: value, Time: evt.OccurredAt}, nil
}

// DecodeViewEvent is the worker side of ViewEventMessage.
func DecodeViewEvent(msg kafka.Message) (service.ViewEvent, error) {
	var evt service.ViewEvent
	if err := json.Unmarshal(msg.Value, &evt); err != nil {
		return service.ViewEvent{}, fmt.Errorf("unmarshal view event: %w", err)
	}
	return evt, nil
}

func (c *KafkaProducerClient) PublishUserEvent(ctx context.Context, evt service.UserEvent) error {
	msg, err := UserEventMessage(evt)
	if err != nil {
		return err
	}
	if err := c.UserEventsWriter.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write to %s: %w", TopicUserEvents, err)
	}
	return nil
}

func (c *KafkaProducerClient) PublishViewEvent(ctx context.Context, evt service.ViewEvent) error {
	msg, err := ViewEventMessage(evt)
	if err != nil {
		return err
	}
	if err := c.ViewEventsWriter.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write to %s: %w", TopicViewEvents, err)
	}
	return nil
}

func (c *KafkaProducerClient) Close() error {
	var errs []error
	if c.UserEventsWriter != nil {
		errs = append(errs, c.UserEventsWriter.Close())
	}
	if c.ViewEventsWriter != nil {
		errs = append(errs, c.ViewEventsWriter.Close())
	}
	c.logger.Info("Closed Kafka Producers")
	return errors.Join(errs...)
}

// NoopPublisher drops every event. Used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishUserEvent(context.Context, service.UserEvent) error { return nil }

func (NoopPublisher) PublishViewEvent(context.Context, service.ViewEvent) error { return nil }

// NewPublisher returns a Kafka producer, or NoopPublisher when Kafka is not
// configured. The close func is always safe to call.
func NewPublisher(cfg config.Config, log logger.Logger) (service.EventPublisher, func() error, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		log.Warn("Kafka brokers not configured, events will be dropped")
		return NoopPublisher{}, func() error { return nil }, nil
	}
	client, err := NewKafkaProducerClient(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return client, client.Close, nil
}
