// Package messaging defines the event publishing contract shared by the broker adapters.
package messaging

import (
	"context"
)

// Product event subjects. The AMQP adapter uses them as routing keys.
const (
	ProductsStream        = "PRODUCTS"
	ProductsSubjects      = "products.>"
	ProductCreatedSubject = "products.created"
	ProductUpdatedSubject = "products.updated"
	ProductDeletedSubject = "products.deleted"
)

type Event interface {
	Subject() string
	Payload() ([]byte, error)
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NoopPublisher drops every event. It is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error {
	return nil
}
