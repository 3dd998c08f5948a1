package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"pressroom/internal/model"
	"pressroom/internal/mq"
	"pressroom/pkg/metrics"
)

// SubscriberStore is what the lifecycle manager needs from persistence.
// *repository.SubscriberRepository satisfies it.
type SubscriberStore interface {
	Insert(ctx context.Context, siteID int, email string) (bool, error)
	MarkUnsubscribed(ctx context.Context, siteID int, email string) (bool, error)
	MarkActive(ctx context.Context, siteID int, email string) (bool, error)
	Exists(ctx context.Context, siteID int, email string) (bool, error)
}

// SubscriberService owns the status lifecycle per (site, email) pair.
// States are active and unsubscribed; self-transitions succeed
// idempotently, and neither unsubscribe nor resubscribe ever creates a
// row.
type SubscriberService struct {
	subs     SubscriberStore
	producer EventPublisher
	logger   *zap.Logger
}

func NewSubscriberService(subs SubscriberStore, producer EventPublisher, logger *zap.Logger) *SubscriberService {
	return &SubscriberService{
		subs:     subs,
		producer: producer,
		logger:   logger,
	}
}

// Subscribe creates the subscriber on first subscription. Subscribing an
// existing address is a no-op success.
func (s *SubscriberService) Subscribe(ctx context.Context, siteID int, email string) error {
	email = normalizeEmail(email)

	created, err := s.subs.Insert(ctx, siteID, email)
	if err != nil {
		return err
	}
	if created {
		metrics.IncrementSubscriberTransition("subscribe")
		s.publish("subscriber.subscribed", siteID, email, model.SubscriberActive)
	}
	return nil
}

// Unsubscribe moves an existing subscriber to unsubscribed, setting the
// timestamp on the first transition only. An already-unsubscribed record
// is a no-op success with no event; missing row is ErrNotFound.
func (s *SubscriberService) Unsubscribe(ctx context.Context, siteID int, email string) error {
	email = normalizeEmail(email)

	transitioned, err := s.subs.MarkUnsubscribed(ctx, siteID, email)
	if err != nil {
		return err
	}
	if !transitioned {
		return s.requireExists(ctx, siteID, email)
	}

	metrics.IncrementSubscriberTransition("unsubscribe")
	s.publish("subscriber.unsubscribed", siteID, email, model.SubscriberUnsubscribed)
	return nil
}

// Resubscribe moves an existing subscriber back to active and clears the
// timestamp. Resubscribing an already-active record is a no-op success
// with no event; missing row is ErrNotFound, never an implicit create.
func (s *SubscriberService) Resubscribe(ctx context.Context, siteID int, email string) error {
	email = normalizeEmail(email)

	transitioned, err := s.subs.MarkActive(ctx, siteID, email)
	if err != nil {
		return err
	}
	if !transitioned {
		return s.requireExists(ctx, siteID, email)
	}

	metrics.IncrementSubscriberTransition("resubscribe")
	s.publish("subscriber.resubscribed", siteID, email, model.SubscriberActive)
	return nil
}

// requireExists distinguishes a self-transition (row present in the target
// state already) from a missing subscriber after a zero-row update.
func (s *SubscriberService) requireExists(ctx context.Context, siteID int, email string) error {
	exists, err := s.subs.Exists(ctx, siteID, email)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return nil
}

func (s *SubscriberService) publish(routingKey string, siteID int, email, status string) {
	if s.producer == nil {
		return
	}
	err := s.producer.Publish(routingKey, mq.SubscriberPayload{
		SiteID:     siteID,
		Email:      email,
		Status:     status,
		OccurredAt: time.Now(),
	})
	if err != nil {
		s.logger.Warn("failed to publish event",
			zap.String("routing_key", routingKey),
			zap.Error(err))
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
