package port

import (
	"context"

	"budget-monitor/internal/core/domain"
)

// EventConsumer is an interface to define an event consumer (kafka, nats, ...)
type EventConsumer interface {
	Subscribe(ctx context.Context, handler MessageService) error
	Close() error
}

// MessageService is an interface to define message handling
type MessageService interface {
	HandleMessage(ctx context.Context, data []byte) error
}

// EventPublisher is an interface to define processing request publication
type EventPublisher interface {
	PublishProcessingRequested(ctx context.Context, event domain.ProcessingRequested) error
	Close() error
}
