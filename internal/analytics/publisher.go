package analytics

import (
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// Publisher publishes admission analytics events.
type Publisher struct {
	publisher message.Publisher
}

// NewPublisher creates a publisher over the given message bus.
func NewPublisher(publisher message.Publisher) *Publisher {
	return &Publisher{publisher: publisher}
}

// PublishRequestDenied publishes a denial event. Publishing is best-effort
// from the caller's point of view: the admission decision has already been
// made and returned.
func (p *Publisher) PublishRequestDenied(event *RequestDeniedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)

	return p.publisher.Publish(TopicRequestDenied, msg)
}

// Shutdown closes the underlying publisher.
func (p *Publisher) Shutdown() error {
	return p.publisher.Close()
}
