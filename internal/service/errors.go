package service

import "errors"

var (
	// ErrNotFound means no matching article or subscriber row for a keyed
	// operation. It never implies a query problem.
	ErrNotFound = errors.New("not found")

	ErrInvalidCredentials = errors.New("invalid username or password")
)

// EventPublisher is the outbound event boundary. *mq.Producer satisfies
// it; a nil publisher disables events. Publishing is best-effort and never
// fails the request that triggered it.
type EventPublisher interface {
	Publish(routingKey string, payload any) error
}
