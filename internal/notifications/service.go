package notifications

import (
	"context"

	"busline/internal/shared/config"
	"busline/pkg/logger"
)

// noopProducer satisfies Producer when Kafka is disabled
type noopProducer struct{}

func (noopProducer) PublishTicketEvent(ctx context.Context, event *TicketEvent) error { return nil }
func (noopProducer) Close() error                                                     { return nil }

// NewProducer builds the ticket event producer from application config.
// With Kafka disabled the returned producer silently drops events, so the
// booking flow never branches on the deployment mode.
func NewProducer(cfg *config.Config, log *logger.Logger) (Producer, error) {
	if !cfg.Kafka.Enabled {
		log.Info("Kafka disabled, ticket events will not be published")
		return noopProducer{}, nil
	}

	return NewKafkaProducer(&KafkaProducerConfig{
		Brokers:          cfg.Kafka.Brokers,
		Topic:            cfg.Kafka.Topic,
		RetryMax:         3,
		TimeoutMs:        10000,
		RequiredAcks:     DefaultKafkaProducerConfig().RequiredAcks,
		CompressionType:  DefaultKafkaProducerConfig().CompressionType,
		IdempotentWrites: true,
	}, log)
}
