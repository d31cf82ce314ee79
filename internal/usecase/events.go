package usecase

import "context"

// EventPublisher publishes domain events to the message broker. Usecases
// treat publishing as best effort and tolerate a nil publisher, so the
// application runs without a broker configured.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
}
