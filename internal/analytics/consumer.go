package analytics

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.uber.org/zap"
)

// Consumer consumes denial events and accumulates them into a Tally.
type Consumer struct {
	subscriber message.Subscriber
	tally      *Tally
	logger     *zap.Logger
	cancel     context.CancelFunc
	done       chan struct{}
}

// NewConsumer creates a denial-event consumer.
func NewConsumer(subscriber message.Subscriber, tally *Tally, logger *zap.Logger) *Consumer {
	return &Consumer{
		subscriber: subscriber,
		tally:      tally,
		logger:     logger,
		done:       make(chan struct{}),
	}
}

// Start begins consuming denial events until the context is canceled or
// Shutdown is called.
func (c *Consumer) Start(ctx context.Context) error {
	ctx, c.cancel = context.WithCancel(ctx)

	msgs, err := c.subscriber.Subscribe(ctx, TopicRequestDenied)
	if err != nil {
		return err
	}

	go c.consumeLoop(ctx, msgs)

	return nil
}

func (c *Consumer) consumeLoop(ctx context.Context, msgs <-chan *message.Message) {
	defer close(c.done)

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}

			c.handleRequestDenied(msg)
		}
	}
}

func (c *Consumer) handleRequestDenied(msg *message.Message) {
	var event RequestDeniedEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		c.logger.Error("failed to unmarshal denial event", zap.Error(err))
		msg.Nack()

		return
	}

	c.tally.Add(event.ClientKey)
	msg.Ack()

	c.logger.Debug("recorded denial",
		zap.String("client_key", event.ClientKey),
		zap.String("path", event.Path),
	)
}

// Shutdown stops the consumer and waits for the consume loop to drain.
// Calling Shutdown before Start is a no-op.
func (c *Consumer) Shutdown() error {
	if c.cancel == nil {
		return nil
	}

	c.cancel()
	<-c.done

	return nil
}
