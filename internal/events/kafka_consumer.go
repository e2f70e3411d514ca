package events

import (
	"context"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/hotel-booking/service-booking/internal/application"
	paymentDomain "github.com/hotel-booking/service-booking/internal/domain/payment"
	"github.com/hotel-booking/service-booking/internal/platform/apperror"
	"github.com/hotel-booking/service-booking/internal/platform/kafka"
)

// Settler applies a gateway outcome to a booking and its payment.
type Settler interface {
	Settle(ctx context.Context, bookingID int64, outcome paymentDomain.Outcome, evt paymentDomain.SettlementEvent) (*application.SettlementDTO, error)
}

// PaymentEventConsumer listens to payment events and settles the referenced bookings.
type PaymentEventConsumer struct {
	consumer *kafka.Consumer
	settler  Settler
	logger   *zap.Logger
}

// NewPaymentEventConsumer creates a new PaymentEventConsumer.
func NewPaymentEventConsumer(
	brokers []string,
	groupID string,
	settler Settler,
	logger *zap.Logger,
) *PaymentEventConsumer {
	consumer := kafka.NewConsumer(brokers, groupID, paymentDomain.TopicPaymentEvents, logger)
	return &PaymentEventConsumer{
		consumer: consumer,
		settler:  settler,
		logger:   logger,
	}
}

// Start begins consuming payment events. This blocks until the context is cancelled.
func (c *PaymentEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *PaymentEventConsumer) Close() error {
	return c.consumer.Close()
}

var outcomes = map[string]paymentDomain.Outcome{
	paymentDomain.EventPaymentCompleted: paymentDomain.OutcomeCompleted,
	paymentDomain.EventPaymentFailed:    paymentDomain.OutcomeFailed,
	paymentDomain.EventPaymentCancelled: paymentDomain.OutcomeCancelled,
}

func (c *PaymentEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	cloudEvent, err := kafka.ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from payment topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	outcome, ok := outcomes[cloudEvent.Type]
	if !ok {
		c.logger.Debug("ignoring unhandled payment event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}

	var evt paymentDomain.SettlementEvent
	if err := cloudEvent.ParseData(&evt); err != nil || evt.BookingID <= 0 {
		c.logger.Error("invalid settlement event data",
			zap.String("type", cloudEvent.Type),
			zap.Error(err),
		)
		return nil
	}

	if _, err := c.settler.Settle(ctx, evt.BookingID, outcome, evt); err != nil {
		c.logger.Error("failed to settle booking from payment event",
			zap.Int64("booking_id", evt.BookingID),
			zap.String("type", cloudEvent.Type),
			zap.Error(err),
		)
		// Only storage failures are worth redelivering; domain rejections never succeed.
		if apperror.Is(err, apperror.KindStorage) {
			return err
		}
		return nil
	}

	c.logger.Info("booking settled from payment event",
		zap.Int64("booking_id", evt.BookingID),
		zap.String("outcome", string(outcome)),
	)
	return nil
}
